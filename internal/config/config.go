package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	JourneyPlanner JourneyPlannerConfig `yaml:"journey_planner" toml:"journey_planner"`
	Board          BoardConfig          `yaml:"board" toml:"board"`
	Server         ServerConfig         `yaml:"server" toml:"server"`
}

// JourneyPlannerConfig holds transport-specific configuration
type JourneyPlannerConfig struct {
	Endpoint    string        `yaml:"endpoint" toml:"endpoint" validate:"required,url"`
	ClientName  string        `yaml:"client_name" toml:"client_name" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" toml:"timeout" validate:"gt=0"`
	Concurrency int           `yaml:"concurrency" toml:"concurrency" validate:"gte=1,lte=32"`
	RateLimit   float64       `yaml:"rate_limit" toml:"rate_limit" validate:"gt=0"` // requests per second
	RateBurst   int           `yaml:"rate_burst" toml:"rate_burst" validate:"gte=1"`
}

// BoardConfig holds the defaults used when a flag or query parameter is absent
type BoardConfig struct {
	NumDepartures int    `yaml:"num_departures" toml:"num_departures" validate:"gte=1"`
	TimeRange     string `yaml:"time_range" toml:"time_range" validate:"required"`
}

// ServerConfig holds serve mode configuration
type ServerConfig struct {
	Addr           string        `yaml:"addr" toml:"addr" validate:"required"`
	ReadTimeout    time.Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" toml:"idle_timeout" validate:"gte=0"`
	AllowedOrigins []string      `yaml:"allowed_origins" toml:"allowed_origins"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		JourneyPlanner: JourneyPlannerConfig{
			Endpoint:    getEnv("ITUS_ENDPOINT", "https://api.entur.io/journey-planner/v3/graphql"),
			ClientName:  getEnv("ITUS_CLIENT_NAME", "itus-consoleapp"),
			Timeout:     getEnvAsDuration("ITUS_TIMEOUT", 30*time.Second),
			Concurrency: getEnvAsInt("ITUS_CONCURRENCY", 4),
			RateLimit:   getEnvAsFloat("ITUS_RATE_LIMIT", 5),
			RateBurst:   getEnvAsInt("ITUS_RATE_BURST", 5),
		},
		Board: BoardConfig{
			NumDepartures: getEnvAsInt("ITUS_NUM_DEPARTURES", 5),
			TimeRange:     getEnv("ITUS_TIME_RANGE", "01:00"),
		},
		Server: ServerConfig{
			Addr:           getEnv("ITUS_SERVER_ADDR", ":8080"),
			ReadTimeout:    getEnvAsDuration("ITUS_SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:   getEnvAsDuration("ITUS_SERVER_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:    getEnvAsDuration("ITUS_SERVER_IDLE_TIMEOUT", time.Minute),
			AllowedOrigins: []string{"*"},
		},
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
