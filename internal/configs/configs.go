/*
Package configs loads the relay's configuration from environment variables.

Values are decoded with go-env struct tags; a .env file in the working
directory is read first when present, without overriding variables that are
already set.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment is the default ENVIRONMENT value.
	EnvDevelopment = "development"

	minPort = 1024
	maxPort = 65535
)

// AppConfig contains all configuration parameters required for the relay to run.
type AppConfig struct {
	// General Server Settings
	Environment     string        `env:"ENVIRONMENT,default=development"`
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=3000"`
	LogLevel        string        `env:"LOG_LEVEL"`
	StaticDir       string        `env:"STATIC_DIR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`

	// Security Settings
	AllowedOriginsRaw string `env:"ALLOWED_ORIGINS"`
	AllowedOrigins    []string

	// WebSocket handshake throttling, per client IP.
	HandshakeRate  float64 `env:"WS_HANDSHAKE_RATE,default=1"`
	HandshakeBurst int     `env:"WS_HANDSHAKE_BURST,default=10"`
}

// IsDevelopment reports whether the relay runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Addr returns the listen address.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads .env (if present) and the process environment into an AppConfig,
// then validates it.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &AppConfig{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize fills derived fields and validates ranges.
func (c *AppConfig) normalize() error {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}

	if c.Port < minPort || c.Port > maxPort {
		return fmt.Errorf("port number %d is outside the allowed range (%d-%d) to avoid privileged ports", c.Port, minPort, maxPort)
	}

	c.AllowedOrigins = []string{}
	for _, origin := range strings.Split(c.AllowedOriginsRaw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			c.AllowedOrigins = append(c.AllowedOrigins, trimmed)
		}
	}

	if !c.IsDevelopment() && len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS is required in %s environment", c.Environment)
	}

	if c.HandshakeRate <= 0 {
		return fmt.Errorf("WS_HANDSHAKE_RATE must be positive, got %v", c.HandshakeRate)
	}

	if c.HandshakeBurst < 1 {
		return fmt.Errorf("WS_HANDSHAKE_BURST must be at least 1, got %d", c.HandshakeBurst)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}

	return nil
}
