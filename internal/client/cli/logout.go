package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/client/storage"
)

func (c *Cli) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.store.DeleteAuth(cmd.Context())
			if errors.Is(err, storage.ErrAuthNotFound) {
				c.io.Println("Not logged in.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to delete auth data: %w", err)
			}
			c.io.Println("Logged out.")
			return nil
		},
	}
}
