package config

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries all gateway settings, loaded from the environment.
type Config struct {
	// Addr is the listen address for the gateway HTTP server.
	Addr string `env:"DIYLAB_ADDR" envDefault:":8080"`

	// Env selects the deployment environment (development, production).
	Env string `env:"DIYLAB_ENV" envDefault:"development"`

	// BackendURL is the base URL of the DIY Lab backend REST API.
	BackendURL string `env:"DIYLAB_BACKEND_URL" envDefault:"http://localhost:9090"`

	// DBPath is the SQLite file holding durable gateway sessions.
	DBPath string `env:"DIYLAB_DB_PATH" envDefault:"diylab.db"`

	// StaticDir is the directory served under /static/.
	StaticDir string `env:"DIYLAB_STATIC_DIR" envDefault:"static"`

	// CSRFKey is a 64-hex-character (32 byte) secret for CSRF token signing.
	// Required in production; generated per startup in development.
	CSRFKey string `env:"DIYLAB_CSRF_KEY"`

	// SessionKey is a 64-hex-character (32 byte) secret for session cookie
	// signing. Required in production.
	SessionKey string `env:"DIYLAB_SESSION_KEY"`
}

var ErrBadKey = errors.New("key must be 64 hex characters (32 bytes)")

// Load parses gateway configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the gateway runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// DecodeKey decodes a 64-hex-character secret into its 32 raw bytes.
func DecodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, ErrBadKey
	}
	return key, nil
}
