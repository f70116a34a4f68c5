package commands

import (
	"fmt"
	"strconv"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltutor/internal/lesson"
)

// NewLessonsCommand creates the lessons command.
func NewLessonsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List and read the bundled SQL lessons",
		Long: `List the SQL lessons served by the tutorial site.

Lessons ship with the binary. Use --lessons-dir to serve your own set
instead; the same directory is honored here.`,
		Example: `  # List lessons
  sqltutor lessons

  # Read one lesson in the terminal
  sqltutor lessons show selecting-data`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLessonsList(cmd)
		},
	}

	cmd.AddCommand(newLessonsShowCommand())

	return cmd
}

// loadLessons honors the configured lessons directory, falling back to the
// bundled set.
func loadLessons(cmd *cobra.Command) ([]lesson.Lesson, error) {
	cfg := GetConfig(cmd.Context())
	return lesson.Load(cfg.LessonsDir)
}

func runLessonsList(cmd *cobra.Command) error {
	lessons, err := loadLessons(cmd)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Slug", "Title", "Description"})
	for _, l := range lessons {
		t.AppendRow(table.Row{strconv.Itoa(l.Order), l.Slug, l.Title, l.Description})
	}
	t.Render()

	return nil
}

func newLessonsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Render a lesson as Markdown in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessons, err := loadLessons(cmd)
			if err != nil {
				return err
			}

			l, ok := lesson.Find(lessons, args[0])
			if !ok {
				return fmt.Errorf("no such lesson: %s (run 'sqltutor lessons' to list)", args[0])
			}

			md, err := htmltomarkdown.ConvertString(l.HTML)
			if err != nil {
				return fmt.Errorf("failed to render lesson: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n", l.Title)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), md)
			if l.StarterSQL != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nTry it:\n\n    %s\n", l.StarterSQL)
			}
			return nil
		},
	}
}
