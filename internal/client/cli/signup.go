package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/validation"
	"github.com/iudanet/classtrack/pkg/api"
)

func (c *Cli) newSignupCommand() *cobra.Command {
	var username, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a teacher or student account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSignup(cmd, username, role)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStudent), "teacher or student")

	return cmd
}

func (c *Cli) runSignup(cmd *cobra.Command, username, role string) error {
	if _, err := models.ParseRole(role); err != nil {
		return err
	}

	username, err := c.promptUsername(username)
	if err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := c.anonymousClient().Signup(cmd.Context(), api.SignupRequest{
		Username: username,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	c.io.Printf("Account %s created with role %s.\n", user.Username, user.Role)
	c.io.Println("Run 'classtrack login' to start a session.")
	return nil
}

func (c *Cli) promptUsername(username string) (string, error) {
	if username == "" {
		input, err := c.io.ReadInput("Username: ")
		if err != nil {
			return "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	return username, nil
}
