package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000", c.ServerBaseURL)
	assert.NotEmpty(t, c.LocalDBPath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "USD", c.Currency)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url": "http://json:1",
		"currency":        "EUR",
		"request_timeout": "30s",
	})
	os.Args = []string{"wealflow", "-c", path, "-a", "http://flag:2", "-d", "/tmp/x.db"}

	cfg := LoadConfig()

	want := &Config{
		ServerBaseURL:  "http://flag:2",
		LocalDBPath:    "/tmp/x.db",
		RequestTimeout: 30 * time.Second,
		Currency:       "EUR",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "https://api.example", "-d", "local.db", "-t", "3", "-cur", "GBP"},
			expected: &Config{ServerBaseURL: "https://api.example", LocalDBPath: "local.db", RequestTimeout: 3 * time.Second, Currency: "GBP"}},
		{name: "unknown flags ignored", args: []string{"cmd", "-x", "1", "-t", "5"},
			expected: &Config{RequestTimeout: 5 * time.Second}},
		{name: "bad timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
