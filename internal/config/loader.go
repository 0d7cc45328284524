package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML or TOML file at path onto cfg. Keys absent from
// the file keep their current value.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yml, .yaml or .toml)", ext)
	}
	return nil
}

// Validate checks the struct tags on every section and that the default time
// range parses.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if _, err := ParseTimeRange(c.Board.TimeRange); err != nil {
		return fmt.Errorf("board.time_range: %w", err)
	}
	return nil
}

// ParseTimeRange parses an "HH:MM" window such as "01:30" into a duration.
// Hours run 0-23 and minutes 0-59; the window must be longer than zero.
func ParseTimeRange(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid time range %q, expected HH:MM", value)
	}
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	if d <= 0 {
		return 0, fmt.Errorf("invalid time range %q, must be longer than 00:00", value)
	}
	return d, nil
}
