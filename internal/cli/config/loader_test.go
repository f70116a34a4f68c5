package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultHistoryPath, cfg.HistoryPath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, cfg.LessonsDir)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultPort, cfg.GetServerConfig().Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sqltutor.yaml")
	content := `
lessons_dir: ./my-lessons
output: json
server:
  port: 9000
  auto_open: false
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "./my-lessons", cfg.LessonsDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9000, cfg.GetServerConfig().Port)
	assert.False(t, cfg.GetServerConfig().AutoOpen)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sqltutor.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\n"), 0o644))

	t.Setenv("SQLTUTOR_OUTPUT", "csv")
	t.Setenv("SQLTUTOR_SERVER_PORT", "9100")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.Equal(t, 9100, cfg.GetServerConfig().Port)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SQLTUTOR_OUTPUT", "csv")
	t.Setenv("SQLTUTOR_HISTORY_PATH", "/env/history.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.String("history", "", "")
	flags.Int("port", 0, "")
	require.NoError(t, flags.Parse([]string{"--output", "md", "--history", "/flag/history.db", "--port", "8999"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "md", cfg.OutputFormat)
	assert.Equal(t, "/flag/history.db", cfg.HistoryPath)
	assert.Equal(t, 8999, cfg.GetServerConfig().Port)
}

func TestUnchangedFlagsAreIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "table", "")
	require.NoError(t, flags.Parse(nil))

	t.Setenv("SQLTUTOR_OUTPUT", "json")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}
