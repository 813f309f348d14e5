package internal

import "log/slog"

// Option configures the application before Run or RunMCP starts it.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
}

// WithConfig sets the application configuration. Required.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the default logger. Run builds a JSON logger on
// stdout (RunMCP on stderr, keeping stdout clean for the MCP transport)
// when this is not supplied.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}
