package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltutor/internal/cli/config"
	"github.com/leapstack-labs/sqltutor/internal/history"
	"github.com/leapstack-labs/sqltutor/internal/lesson"
	"github.com/leapstack-labs/sqltutor/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SQL tutorial site",
		Long: `Start a local web server hosting the interactive SQL tutorial.

The site provides:
- Lesson pages with explanations and example queries
- A query box backed by a per-visitor in-memory SQLite database
- A reset button that restores the original practice data`,
		Example: `  # Start on the default port
  sqltutor serve

  # Start on a custom port
  sqltutor serve --port 3000

  # Start without auto-opening a browser
  sqltutor serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload lessons on change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	// The global --port flag flows in through the config loader.
	srvCfg := cfg.GetServerConfig()
	port := srvCfg.Port

	autoOpen := srvCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := srvCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	lessons, err := lesson.Load(cfg.LessonsDir)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	server := ui.NewServer(ui.Config{
		Lessons:       lessons,
		LessonsDir:    cfg.LessonsDir,
		History:       store,
		Port:          port,
		Watch:         watch,
		SessionSecret: sessionSecret(srvCfg),
		Logger:        logger,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	r := GetRenderer(cmd.Context())
	r.Successf("Serving SQL tutorial on http://localhost:%d", port)
	r.Noticef("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// sessionSecret resolves the cookie session secret. The cookie only carries a
// random sandbox identifier, so a development fallback is acceptable.
func sessionSecret(srvCfg *config.ServerConfig) string {
	if srvCfg.SessionSecret != "" {
		return srvCfg.SessionSecret
	}
	if secret := os.Getenv("SQLTUTOR_SESSION_SECRET"); secret != "" {
		return secret
	}
	return "sqltutor-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
