// Package cliconfig holds the CLI configuration surface for vacballet:
// defaults, validation, and the flag > env > file precedence machinery.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// DefaultServiceURL is the default cloud API endpoint used for account
// login and device discovery.
const DefaultServiceURL = "https://api.roborock-home.example.com"

// Config holds CLI configuration for vacballet.
type Config struct {
	// Cloud account credentials (usually via .env or environment).
	Email    string
	Password string

	// DeviceID selects the target device; empty means the account's first.
	DeviceID string

	// Broker is the device's local MQTT endpoint (host:port). Discovered
	// via the cloud when empty.
	Broker string

	ServiceURL  string
	HTTPTimeout time.Duration

	// Dance geometry bounds.
	MinRadiusMM int
	MaxRadiusMM int

	// Navigation tunables.
	DockBufferMM       int
	ArrivalThresholdMM int
	WaypointTimeout    time.Duration
	PollInterval       time.Duration
	StartSettle        time.Duration
	PauseSettle        time.Duration
	PostArrivalSettle  time.Duration
	Preflight          bool

	// Static fallback origin when telemetry yields nothing.
	CenterX int
	CenterY int

	// Dance defaults applied when the CLI omits size/beat.
	DanceSizeMM int
	BeatMS      int

	// StateDir holds the persisted last-seen telemetry.
	StateDir string

	LogLevel string
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		ServiceURL:         DefaultServiceURL,
		HTTPTimeout:        30 * time.Second,
		MinRadiusMM:        200,
		MaxRadiusMM:        1200,
		DockBufferMM:       300,
		ArrivalThresholdMM: 250,
		WaypointTimeout:    35 * time.Second,
		PollInterval:       400 * time.Millisecond,
		StartSettle:        400 * time.Millisecond,
		PauseSettle:        300 * time.Millisecond,
		PostArrivalSettle:  200 * time.Millisecond,
		Preflight:          true,
		DanceSizeMM:        600,
		BeatMS:             500,
		StateDir:           defaultStateDir(),
		LogLevel:           "info",
		Email:              os.Getenv("VACBALLET_EMAIL"),
		Password:           os.Getenv("VACBALLET_PASSWORD"),
	}
}

func defaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vacballet")
	}
	return ""
}

// FallbackCenter returns the configured static origin.
func (c *Config) FallbackCenter() domain.Point {
	return domain.Point{X: c.CenterX, Y: c.CenterY}
}

// Validate checks the configuration and normalizes derived values.
func (c *Config) Validate() error {
	if c.MinRadiusMM <= 0 {
		return fmt.Errorf("min radius must be positive")
	}
	if c.MaxRadiusMM < c.MinRadiusMM {
		return fmt.Errorf("max radius %d below min radius %d", c.MaxRadiusMM, c.MinRadiusMM)
	}
	if c.ArrivalThresholdMM <= 0 {
		return fmt.Errorf("arrival threshold must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.WaypointTimeout <= 0 {
		return fmt.Errorf("waypoint timeout must be positive")
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	// Ensure no trailing slash
	if len(c.ServiceURL) > 0 && c.ServiceURL[len(c.ServiceURL)-1] == '/' {
		c.ServiceURL = c.ServiceURL[:len(c.ServiceURL)-1]
	}

	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if non-zero and flag not changed.
// Zero is excluded so an absent TOML key never overwrites a default;
// coordinates use setIntPtr.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer if not nil and flag not
// changed. Used for values where zero is meaningful (map coordinates).
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Used for environment variables, which come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
