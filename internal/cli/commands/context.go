// Package commands implements the sqltutor CLI commands.
package commands

import (
	"context"
	"os"

	"github.com/leapstack-labs/sqltutor/internal/cli/config"
	"github.com/leapstack-labs/sqltutor/internal/cli/output"
)

type configKey struct{}

type rendererKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context, falling back to
// defaults when the root command did not run (tests, completion).
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		HistoryPath:  config.DefaultHistoryPath,
		OutputFormat: config.DefaultOutput,
	}
}

// WithRenderer stores the output renderer in the context.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeTable)
}
