package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env carries the settings that make sense to override per deployment without
// touching the YAML file. Prefix is CLICKER_, so CLICKER_ADDR, CLICKER_DATA_DIR…
type Env struct {
	Addr        string        `envconfig:"ADDR"`
	DataDir     string        `envconfig:"DATA_DIR"`
	ConfigPath  string        `envconfig:"CONFIG_PATH"`
	TokenSecret string        `envconfig:"TOKEN_SECRET"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL"`
	DevLogging  bool          `envconfig:"DEV_LOGGING"`
}

// LoadEnv reads .env (if present) and the CLICKER_* environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := envconfig.Process("CLICKER", &e); err != nil {
		return Env{}, fmt.Errorf("process env: %w", err)
	}
	return e, nil
}

// Apply overlays the environment values onto a loaded config.
func (e Env) Apply(cfg Config) Config {
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
	if e.DataDir != "" {
		cfg.Server.DataDir = e.DataDir
	}
	if e.TokenSecret != "" {
		cfg.Auth.TokenSecret = e.TokenSecret
	}
	if e.TokenTTL > 0 {
		cfg.Auth.TokenTTL = e.TokenTTL
	}
	return cfg
}
