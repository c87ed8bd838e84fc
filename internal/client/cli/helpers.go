package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iudanet/classtrack/pkg/api"
)

// dueDateLayouts are tried in order; dates without a zone are local time
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDueDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q: use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339", s)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func formatGrade(grade *int) string {
	if grade == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *grade)
}

func formatFile(path *string) string {
	if path == nil || *path == "" {
		return "-"
	}
	return *path
}

func (c *Cli) newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
}

func (c *Cli) printAssignments(list []api.AssignmentResponse) error {
	if len(list) == 0 {
		c.io.Println("No assignments.")
		return nil
	}
	tw := c.newTable()
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tDUE\tCREATED")
	for _, a := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Title, formatTime(a.DueDate), formatTime(a.CreatedAt))
	}
	return tw.Flush()
}

func (c *Cli) printStudentSubmissions(list []api.SubmissionResponse) error {
	if len(list) == 0 {
		c.io.Println("No submissions.")
		return nil
	}
	tw := c.newTable()
	_, _ = fmt.Fprintln(tw, "ID\tASSIGNMENT\tSUBMITTED\tGRADE\tFILE")
	for _, s := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.AssignmentID, formatTime(s.SubmittedAt), formatGrade(s.Grade), formatFile(s.FilePath))
	}
	return tw.Flush()
}

func (c *Cli) printTeacherSubmissions(list []api.SubmissionDisplay) error {
	if len(list) == 0 {
		c.io.Println("No submissions.")
		return nil
	}
	tw := c.newTable()
	_, _ = fmt.Fprintln(tw, "ID\tSTUDENT\tSUBMITTED\tGRADE\tFILE")
	for _, s := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.StudentUsername, formatTime(s.SubmittedAt), formatGrade(s.Grade), formatFile(s.FilePath))
	}
	return tw.Flush()
}
