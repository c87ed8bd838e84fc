package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	clientapi "github.com/iudanet/classtrack/internal/client/api"
	"github.com/iudanet/classtrack/internal/models"
)

func (c *Cli) newSubmitCommand() *cobra.Command {
	var text, filePath string

	cmd := &cobra.Command{
		Use:   "submit <assignment-id>",
		Short: "Hand in an assignment (students only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			auth, client, err := c.session(ctx)
			if err != nil {
				return err
			}
			if auth.Role != string(models.RoleStudent) {
				return fmt.Errorf("only students can submit assignments")
			}

			if text == "" {
				text, err = c.io.ReadInput("Submission text: ")
				if err != nil {
					return fmt.Errorf("failed to read submission text: %w", err)
				}
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("submission text cannot be empty")
			}

			var upload *clientapi.Upload
			if filePath != "" {
				f, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("failed to open file: %w", err)
				}
				defer func() {
					_ = f.Close()
				}()
				upload = &clientapi.Upload{Name: filePath, Content: f}
			}

			sub, err := client.Submit(ctx, auth.AccessToken, args[0], text, upload)
			if err != nil {
				return sessionError(err)
			}

			c.io.Printf("Submission saved: %s\n", sub.ID)
			if sub.FilePath != nil {
				c.io.Printf("File: %s\n", *sub.FilePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "submission text (prompted when empty)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "file to attach")

	return cmd
}
