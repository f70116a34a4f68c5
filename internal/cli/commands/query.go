package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/sqltutor/internal/cli/config"
	"github.com/leapstack-labs/sqltutor/internal/cli/output"
	"github.com/leapstack-labs/sqltutor/internal/session"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the practice database",
		Long: `Run SQL against a fresh copy of the practice database.

Each invocation starts from the same seeded students and courses tables,
so queries are safe to experiment with. Supports multiple output formats
for scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  sqltutor query "SELECT * FROM students"

  # List available tables
  sqltutor query tables

  # Show schema for a table
  sqltutor query schema students

  # Output as JSON
  sqltutor query "SELECT name, grade FROM students" --format json

  # Interactive mode
  sqltutor query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

// openSession builds and seeds a fresh in-memory practice database.
func openSession(cmd *cobra.Command, logger *slog.Logger) (*session.Session, error) {
	sess := session.New(session.WithLogger(logger))
	if err := sess.Initialize(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to prepare practice database: %w", err)
	}
	return sess, nil
}

// resolveFormat prefers the command-level flag over the global output setting.
func resolveFormat(opts *QueryOptions, cfg *config.Config) string {
	if opts.Format != "" {
		return opts.Format
	}
	if cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return config.DefaultOutput
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg := GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	format := resolveFormat(opts, cfg)
	if !output.ValidMode(format) {
		return fmt.Errorf("unknown output format: %s (want table, json, csv or md)", format)
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, format, logger)
	}

	sess, err := openSession(cmd, logger)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	return executeAndRender(cmd, sess, sqlQuery, format)
}

func executeAndRender(cmd *cobra.Command, sess *session.Session, sqlQuery, format string) error {
	res, err := sess.Execute(cmd.Context(), sqlQuery)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the practice database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			sess, err := openSession(cmd, config.GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			return listTables(cmd.Context(), cmd.OutOrStdout(), sess, resolveFormat(opts, cfg))
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a practice table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			sess, err := openSession(cmd, config.GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()
			return showSchema(cmd.Context(), cmd.OutOrStdout(), sess, args[0], resolveFormat(opts, cfg))
		},
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
