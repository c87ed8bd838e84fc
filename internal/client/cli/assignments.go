package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/pkg/api"
)

func (c *Cli) newAssignmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assignment"},
		Short:   "Create and list assignments",
	}
	cmd.AddCommand(c.newAssignmentsCreateCommand(), c.newAssignmentsListCommand())
	return cmd
}

func (c *Cli) newAssignmentsCreateCommand() *cobra.Command {
	var title, description, due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an assignment (teachers only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			auth, client, err := c.session(ctx)
			if err != nil {
				return err
			}
			if auth.Role != string(models.RoleTeacher) {
				return fmt.Errorf("only teachers can create assignments")
			}

			dueDate, err := parseDueDate(due, time.Local)
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}

			created, err := client.CreateAssignment(ctx, auth.AccessToken, api.CreateAssignmentRequest{
				Title:       title,
				Description: description,
				DueDate:     dueDate,
			})
			if err != nil {
				return sessionError(err)
			}

			c.io.Printf("Assignment created: %s\n", created.ID)
			c.io.Printf("Due: %s\n", formatTime(created.DueDate))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "assignment title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "assignment description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

// list shows a teacher's own assignments or, for students, everything open
func (c *Cli) newAssignmentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List assignments for the logged in user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			auth, client, err := c.session(ctx)
			if err != nil {
				return err
			}

			var list []api.AssignmentResponse
			if auth.Role == string(models.RoleTeacher) {
				list, err = client.ListTeacherAssignments(ctx, auth.AccessToken)
			} else {
				list, err = client.ListStudentAssignments(ctx, auth.AccessToken)
			}
			if err != nil {
				return sessionError(err)
			}
			return c.printAssignments(list)
		},
	}
}
