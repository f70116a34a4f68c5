// Package config provides configuration management for the sqltutor CLI.
package config

// Default configuration values.
const (
	DefaultHistoryPath = ":memory:"
	DefaultOutput      = "table"
	DefaultPort        = 8750
)

// ServerConfig holds configuration for the web playground server.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:     DefaultPort,
		AutoOpen: true,
		Watch:    false,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	LessonsDir   string        `koanf:"lessons_dir"`
	HistoryPath  string        `koanf:"history_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Server       *ServerConfig `koanf:"server"`
}

// GetServerConfig returns the server config with defaults applied for any
// unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return DefaultServerConfig()
	}
	srv := c.Server
	if srv.Port == 0 {
		srv.Port = DefaultPort
	}
	return srv
}
