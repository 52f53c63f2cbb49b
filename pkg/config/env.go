package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL    = "SITENAV_API_URL"
	EnvTreeFile  = "SITENAV_TREE_FILE"
	EnvRateLimit = "SITENAV_RATE_LIMIT"
)

// LoadEnv reads .env files (missing files are ignored) and applies the
// SITENAV_* overrides to cfg. Variables already set in the process win
// over .env values.
func LoadEnv(cfg *Config, files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			existing = append(existing, ".env")
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return err
		}
	}

	ApplyEnv(cfg)
	return nil
}

// ApplyEnv applies SITENAV_* variables from the process environment.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTreeFile)); v != "" {
		cfg.TreeFile = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRateLimit)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Network.RateLimit = f
		}
	}
}
