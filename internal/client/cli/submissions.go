package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/models"
)

func (c *Cli) newSubmissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"submission"},
		Short:   "List submissions",
	}
	cmd.AddCommand(c.newSubmissionsListCommand())
	return cmd
}

func (c *Cli) newSubmissionsListCommand() *cobra.Command {
	var assignmentID string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List own submissions, or a teacher's submissions for one assignment",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			auth, client, err := c.session(ctx)
			if err != nil {
				return err
			}

			if auth.Role == string(models.RoleTeacher) {
				if assignmentID == "" {
					return fmt.Errorf("--assignment is required for teachers")
				}
				list, err := client.ListAssignmentSubmissions(ctx, auth.AccessToken, assignmentID)
				if err != nil {
					return sessionError(err)
				}
				return c.printTeacherSubmissions(list)
			}

			list, err := client.ListStudentSubmissions(ctx, auth.AccessToken)
			if err != nil {
				return sessionError(err)
			}
			return c.printStudentSubmissions(list)
		},
	}
	cmd.Flags().StringVarP(&assignmentID, "assignment", "a", "", "assignment ID (teachers)")

	return cmd
}
