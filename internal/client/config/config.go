package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the WealFlow terminal client.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the WealFlow API.
//   - LocalDBPath: SQLite file holding the session snapshot and preferences.
//   - RequestTimeout: per-request HTTP timeout.
//   - Currency: ISO 4217 code used to display amounts.
type Config struct {
	ServerBaseURL  string
	LocalDBPath    string
	RequestTimeout time.Duration
	Currency       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000"
	c.LocalDBPath = defaultDBPath()
	c.RequestTimeout = 10 * time.Second
	c.Currency = "USD"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wealflow.db"
	}
	return filepath.Join(dir, "wealflow", "client.db")
}
