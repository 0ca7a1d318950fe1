package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/harrisonrobin/timecoach/pkg/logx"
)

const (
	xdgAppName = "timecoach"
	configFile = "config.json"
	tasksFile  = "tasks.json"

	DefaultCalendar      = "primary"
	DefaultTimezone      = "America/New_York"
	DefaultDayStartHour  = 8
	DefaultDayEndHour    = 20
	DefaultBufferMinutes = 5

	MinDayStartHour  = 5
	MaxDayStartHour  = 12
	MinDayEndHour    = 16
	MaxDayEndHour    = 23
	MaxBufferMinutes = 30
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Calendar is "primary" or the summary of one of the user's calendars.
	Calendar string `json:"calendar"`
	Timezone string `json:"timezone"`

	DayStartHour int `json:"day_start_hour"`
	DayEndHour   int `json:"day_end_hour"`
	// BufferMinutes is a pointer so an explicit 0 survives defaulting.
	BufferMinutes *int `json:"buffer_minutes,omitempty"`

	Store StoreConfig `json:"store"`
	Log   logx.Config `json:"log"`
}

// StoreConfig selects the task store driver.
type StoreConfig struct {
	Driver string `json:"driver"` // "json" or "sqlite"
	Path   string `json:"path,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Calendar) == "" {
		c.Calendar = DefaultCalendar
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = DefaultTimezone
	}
	if c.DayStartHour == 0 {
		c.DayStartHour = DefaultDayStartHour
	}
	if c.DayEndHour == 0 {
		c.DayEndHour = DefaultDayEndHour
	}
	if c.BufferMinutes == nil {
		b := DefaultBufferMinutes
		c.BufferMinutes = &b
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "json"
	}
}

// Validate checks every range the scheduler relies on.
func (c *Config) Validate() error {
	var problems []string
	if c.DayStartHour < MinDayStartHour || c.DayStartHour > MaxDayStartHour {
		problems = append(problems, fmt.Sprintf("day_start_hour must be in [%d,%d], got %d", MinDayStartHour, MaxDayStartHour, c.DayStartHour))
	}
	if c.DayEndHour < MinDayEndHour || c.DayEndHour > MaxDayEndHour {
		problems = append(problems, fmt.Sprintf("day_end_hour must be in [%d,%d], got %d", MinDayEndHour, MaxDayEndHour, c.DayEndHour))
	}
	if b := c.Buffer(); b < 0 || b > MaxBufferMinutes*time.Minute {
		problems = append(problems, fmt.Sprintf("buffer_minutes must be in [0,%d], got %d", MaxBufferMinutes, *c.BufferMinutes))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown timezone %q", c.Timezone))
	}
	switch c.Store.Driver {
	case "json", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Buffer returns the inter-task buffer.
func (c *Config) Buffer() time.Duration {
	if c.BufferMinutes == nil {
		return DefaultBufferMinutes * time.Minute
	}
	return time.Duration(*c.BufferMinutes) * time.Minute
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	return loc, nil
}

// Window returns the scheduling window on now's date in the configured zone.
func (c *Config) Window(now time.Time) (time.Time, time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	local := now.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, c.DayStartHour, 0, 0, 0, loc)
	end := time.Date(y, m, d, c.DayEndHour, 0, 0, 0, loc)
	return start, end, nil
}

// StorePath returns the configured store path or the default under the config dir.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if c.Store.Driver == "sqlite" {
		return filepath.Join(dir, "tasks.db"), nil
	}
	return filepath.Join(dir, tasksFile), nil
}

func GetConfigDir() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

// GetConfigPath returns the config file in use: config.yaml or config.yml
// when present, config.json otherwise.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a JSON or YAML config. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	data, format, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s config %s: %w", format, path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to the default location.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as JSON or YAML depending on the extension.
func SaveFile(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encode(path, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
