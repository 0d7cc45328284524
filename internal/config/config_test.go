package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://api.entur.io/journey-planner/v3/graphql", cfg.JourneyPlanner.Endpoint)
	assert.Equal(t, "itus-consoleapp", cfg.JourneyPlanner.ClientName)
	assert.Equal(t, 30*time.Second, cfg.JourneyPlanner.Timeout)
	assert.Equal(t, 4, cfg.JourneyPlanner.Concurrency)
	assert.Equal(t, 5, cfg.Board.NumDepartures)
	assert.Equal(t, "01:00", cfg.Board.TimeRange)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ITUS_ENDPOINT", "http://localhost:9999/graphql")
	t.Setenv("ITUS_CONCURRENCY", "1")
	t.Setenv("ITUS_TIMEOUT", "2s")
	t.Setenv("ITUS_RATE_LIMIT", "0.5")
	t.Setenv("ITUS_NUM_DEPARTURES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "http://localhost:9999/graphql", cfg.JourneyPlanner.Endpoint)
	assert.Equal(t, 1, cfg.JourneyPlanner.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.JourneyPlanner.Timeout)
	assert.Equal(t, 0.5, cfg.JourneyPlanner.RateLimit)
	assert.Equal(t, 5, cfg.Board.NumDepartures, "unparseable values fall back to the default")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "itus.yml", `
journey_planner:
  client_name: trondheim-kiosk
  timeout: 10s
  concurrency: 2
board:
  num_departures: 8
server:
  allowed_origins: ["http://localhost:3000"]
`)

	cfg := Load()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "trondheim-kiosk", cfg.JourneyPlanner.ClientName)
	assert.Equal(t, 10*time.Second, cfg.JourneyPlanner.Timeout)
	assert.Equal(t, 2, cfg.JourneyPlanner.Concurrency)
	assert.Equal(t, 8, cfg.Board.NumDepartures)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://api.entur.io/journey-planner/v3/graphql", cfg.JourneyPlanner.Endpoint, "keys absent from the file are kept")
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "itus.toml", `
[journey_planner]
endpoint = "http://localhost:8081/graphql"
rate_limit = 1.5
timeout = "5s"

[board]
time_range = "00:30"
`)

	cfg := Load()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "http://localhost:8081/graphql", cfg.JourneyPlanner.Endpoint)
	assert.Equal(t, 1.5, cfg.JourneyPlanner.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.JourneyPlanner.Timeout)
	assert.Equal(t, "00:30", cfg.Board.TimeRange)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := LoadFile(Load(), filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		err := LoadFile(Load(), writeFile(t, "itus.json", "{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file extension")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		err := LoadFile(Load(), writeFile(t, "itus.yaml", "journey_planner: [unclosed"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.JourneyPlanner.Endpoint = "" }},
		{"endpoint not a url", func(c *Config) { c.JourneyPlanner.Endpoint = "entur" }},
		{"empty client name", func(c *Config) { c.JourneyPlanner.ClientName = "" }},
		{"zero concurrency", func(c *Config) { c.JourneyPlanner.Concurrency = 0 }},
		{"zero rate", func(c *Config) { c.JourneyPlanner.RateLimit = 0 }},
		{"zero timeout", func(c *Config) { c.JourneyPlanner.Timeout = 0 }},
		{"zero departures", func(c *Config) { c.Board.NumDepartures = 0 }},
		{"bad time range", func(c *Config) { c.Board.TimeRange = "one hour" }},
		{"no server addr", func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	testCases := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"01:00", time.Hour, true},
		{"01:01", time.Hour + time.Minute, true},
		{"00:15", 15 * time.Minute, true},
		{"23:59", 23*time.Hour + 59*time.Minute, true},
		{" 02:30 ", 2*time.Hour + 30*time.Minute, true},
		{"00:00", 0, false},
		{"24:00", 0, false},
		{"01:60", 0, false},
		{"90", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			got, err := ParseTimeRange(tc.value)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
