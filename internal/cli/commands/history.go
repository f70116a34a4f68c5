package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltutor/internal/cli/config"
	"github.com/leapstack-labs/sqltutor/internal/cli/output"
	"github.com/leapstack-labs/sqltutor/internal/history"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently executed playground queries",
		Long: `Show the most recent queries recorded by the web playground.

Queries are recorded while serving with --history pointing at a file;
the default in-memory history disappears with the server process.`,
		Example: `  # Serve with a persistent history, then inspect it
  sqltutor serve --history ~/.sqltutor.db
  sqltutor history --history ~/.sqltutor.db -n 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			store, err := history.Open(cfg.HistoryPath, logger)
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			r := GetRenderer(cmd.Context())
			if len(entries) == 0 {
				r.Noticef("No queries recorded yet.")
				return nil
			}
			return renderHistory(r, entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")

	return cmd
}

func renderHistory(r *output.Renderer, entries []history.Entry) error {
	if r.Mode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "OK", "Query"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.CreatedAt.Format("2006-01-02 15:04:05"), e.OK, e.Query})
	}
	t.Render()
	return nil
}
