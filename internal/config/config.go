package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration. It is built once at startup
// and handed to the components that need it; nothing else reads the
// environment directly.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./intensivo.db"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"default-secret-key"`
	JWTExpiry time.Duration `env:"JWT_EXPIRE" envDefault:"168h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	CORSOrigins []string `env:"CORS_ORIGIN" envSeparator:"," envDefault:"http://localhost:8000,http://127.0.0.1:8000"`

	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`

	// Cron spec for closing attendance records left open overnight.
	AttendanceCloseSpec string `env:"ATTENDANCE_CLOSE_SPEC" envDefault:"0 22 * * *"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
