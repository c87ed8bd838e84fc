package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/models"
)

func (c *Cli) newGradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <submission-id> <grade>",
		Short: "Grade a submission from 0 to 100 (teachers only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grade, err := strconv.Atoi(args[1])
			if err != nil || grade < 0 || grade > 100 {
				return fmt.Errorf("grade must be a whole number from 0 to 100, got %q", args[1])
			}

			ctx := cmd.Context()
			auth, client, err := c.session(ctx)
			if err != nil {
				return err
			}
			if auth.Role != string(models.RoleTeacher) {
				return fmt.Errorf("only teachers can grade submissions")
			}

			sub, err := client.Grade(ctx, auth.AccessToken, args[0], grade)
			if err != nil {
				return sessionError(err)
			}
			c.io.Printf("Submission %s graded: %s\n", sub.ID, formatGrade(sub.Grade))
			return nil
		},
	}
}
