// Package cli implements the classtrack command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	clientapi "github.com/iudanet/classtrack/internal/client/api"
	"github.com/iudanet/classtrack/internal/client/iocli"
	"github.com/iudanet/classtrack/internal/client/storage"
	"github.com/iudanet/classtrack/internal/client/storage/boltdb"
	"github.com/iudanet/classtrack/pkg/api"
)

const (
	DefaultServerURL = "http://localhost:8080"
	DefaultDBPath    = "classtrack-client.db"
)

var (
	errNotAuthenticated = errors.New("not authenticated. Please run 'classtrack login' first")
	errSessionExpired   = errors.New("session expired. Please run 'classtrack login' again")
)

// Client is the subset of the HTTP client the commands call
type Client interface {
	Signup(ctx context.Context, req api.SignupRequest) (*api.UserResponse, error)
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)
	Me(ctx context.Context, token string) (*api.UserResponse, error)
	CreateAssignment(ctx context.Context, token string, req api.CreateAssignmentRequest) (*api.AssignmentResponse, error)
	ListTeacherAssignments(ctx context.Context, token string) ([]api.AssignmentResponse, error)
	ListStudentAssignments(ctx context.Context, token string) ([]api.AssignmentResponse, error)
	Submit(ctx context.Context, token, assignmentID, text string, file *clientapi.Upload) (*api.SubmissionResponse, error)
	ListAssignmentSubmissions(ctx context.Context, token, assignmentID string) ([]api.SubmissionDisplay, error)
	ListStudentSubmissions(ctx context.Context, token string) ([]api.SubmissionResponse, error)
	Grade(ctx context.Context, token, submissionID string, grade int) (*api.SubmissionResponse, error)
}

// Store is the local session store
type Store interface {
	storage.AuthStorage
	Close() error
}

// Options wires the command tree. Zero fields get terminal and file defaults.
type Options struct {
	IO        iocli.IO
	OpenStore func(ctx context.Context, path string) (Store, error)
	NewClient func(baseURL string) Client
	Now       func() time.Time
	Version   string
}

// Cli holds what every command needs once the persistent flags are parsed
type Cli struct {
	io        iocli.IO
	store     Store
	root      *cobra.Command
	newClient func(baseURL string) Client
	now       func() time.Time
	serverURL string
	// serverSet is true when --server was given explicitly
	serverSet bool
}

// New builds the classtrack command tree
func New(opts Options) *Cli {
	if opts.IO == nil {
		opts.IO = iocli.NewStdio()
	}
	if opts.OpenStore == nil {
		opts.OpenStore = func(ctx context.Context, path string) (Store, error) {
			return boltdb.New(ctx, path)
		}
	}
	if opts.NewClient == nil {
		opts.NewClient = func(baseURL string) Client {
			return clientapi.NewClient(baseURL)
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	c := &Cli{
		io:        opts.IO,
		newClient: opts.NewClient,
		now:       opts.Now,
	}
	var dbPath string

	root := &cobra.Command{
		Use:           "classtrack",
		Short:         "Command line client for the classtrack assignment server",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.serverSet = cmd.Flags().Changed("server")
			store, err := opts.OpenStore(cmd.Context(), dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			c.store = store
			return nil
		},
	}
	root.SetOut(opts.IO)
	root.SetErr(opts.IO)

	root.PersistentFlags().StringVar(&c.serverURL, "server", DefaultServerURL, "server URL")
	root.PersistentFlags().StringVar(&dbPath, "db", DefaultDBPath, "path to the local session database")

	root.AddCommand(
		c.newSignupCommand(),
		c.newLoginCommand(),
		c.newLogoutCommand(),
		c.newStatusCommand(),
		c.newAssignmentsCommand(),
		c.newSubmitCommand(),
		c.newSubmissionsCommand(),
		c.newGradeCommand(),
	)
	c.root = root

	return c
}

// Execute runs one command line. The session store is released afterwards
// even when the command fails.
func (c *Cli) Execute(ctx context.Context, args []string) error {
	defer func() {
		_ = c.close()
	}()
	c.root.SetArgs(args)
	return c.root.ExecuteContext(ctx)
}

func (c *Cli) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// anonymousClient is used before a session exists
func (c *Cli) anonymousClient() Client {
	return c.newClient(c.serverURL)
}

// session loads the stored login and a client pointed at the server that
// issued it, unless --server overrides it.
func (c *Cli) session(ctx context.Context) (*storage.AuthData, Client, error) {
	auth, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, nil, errNotAuthenticated
		}
		return nil, nil, fmt.Errorf("failed to get auth data: %w", err)
	}
	if auth.Expired(c.now()) {
		return nil, nil, errSessionExpired
	}

	baseURL := c.serverURL
	if !c.serverSet && auth.ServerURL != "" {
		baseURL = auth.ServerURL
	}
	return auth, c.newClient(baseURL), nil
}

// sessionError turns a rejected token into a hint to log in again
func sessionError(err error) error {
	if errors.Is(err, clientapi.ErrUnauthorized) {
		return fmt.Errorf("%w (%v)", errSessionExpired, err)
	}
	return err
}
