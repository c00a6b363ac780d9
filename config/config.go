// Package config loads server configuration from the environment.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"15"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
	} `envPrefix:"SERVER_"`
	Database struct {
		// Path is the SQLite database file; ":memory:" for in-memory.
		Path string `env:"PATH" envDefault:"roster.db"`
	} `envPrefix:"DATABASE_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
	} `envPrefix:"CORS_"`
	// PatternsFile optionally points at a JSON array of extra shift-pattern
	// definitions registered at startup (see factory.PatternJSON).
	PatternsFile string `env:"PATTERNS_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			// Only the first error keeps startup logs readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
