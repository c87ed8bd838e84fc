package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/client/storage"
)

func (c *Cli) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := c.store.GetAuth(cmd.Context())
			if errors.Is(err, storage.ErrAuthNotFound) {
				c.io.Println("Status: Not authenticated")
				c.io.Println("Run 'classtrack login' to authenticate.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get auth data: %w", err)
			}

			c.io.Println("Status: Authenticated")
			c.io.Printf("Username: %s\n", auth.Username)
			c.io.Printf("Role: %s\n", auth.Role)
			c.io.Printf("Server: %s\n", auth.ServerURL)
			c.io.Printf("Token expires: %s\n", auth.ExpiresAt.Format(time.RFC3339))

			if remaining := auth.ExpiresAt.Sub(c.now()); remaining > 0 {
				c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
			} else {
				c.io.Println("Token has expired. Please login again.")
			}
			return nil
		},
	}
}
