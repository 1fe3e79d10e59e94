package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers
// where zero is meaningful, to make TOML friendly.
type FileConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
	DeviceID string `toml:"device_id"`
	Broker   string `toml:"broker"`

	ServiceURL  string `toml:"service_url"`
	HTTPTimeout string `toml:"http_timeout"`

	MinRadiusMM int `toml:"min_radius_mm"`
	MaxRadiusMM int `toml:"max_radius_mm"`

	DockBufferMM       int    `toml:"dock_buffer_mm"`
	ArrivalThresholdMM int    `toml:"arrival_threshold_mm"`
	WaypointTimeout    string `toml:"waypoint_timeout"`
	PollInterval       string `toml:"poll_interval"`
	StartSettle        string `toml:"start_settle"`
	PauseSettle        string `toml:"pause_settle"`
	PostArrivalSettle  string `toml:"post_arrival_settle"`
	Preflight          *bool  `toml:"preflight"`

	CenterX *int `toml:"center_x"`
	CenterY *int `toml:"center_y"`

	DanceSizeMM int `toml:"dance_size_mm"`
	BeatMS      int `toml:"beat_ms"`

	StateDir string `toml:"state_dir"`
	LogLevel string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.vacballet/config.toml, or "" when the home directory is inaccessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vacballet", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("email", fc.Email, &cfg.Email)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("device", fc.DeviceID, &cfg.DeviceID)
	s.setString("broker", fc.Broker, &cfg.Broker)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("min-radius", fc.MinRadiusMM, &cfg.MinRadiusMM)
	s.setInt("max-radius", fc.MaxRadiusMM, &cfg.MaxRadiusMM)
	s.setInt("dock-buffer", fc.DockBufferMM, &cfg.DockBufferMM)
	s.setInt("arrival-threshold", fc.ArrivalThresholdMM, &cfg.ArrivalThresholdMM)
	s.setInt("size", fc.DanceSizeMM, &cfg.DanceSizeMM)
	s.setInt("beat", fc.BeatMS, &cfg.BeatMS)

	s.setIntPtr("center-x", fc.CenterX, &cfg.CenterX)
	s.setIntPtr("center-y", fc.CenterY, &cfg.CenterY)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("waypoint-timeout", fc.WaypointTimeout, &cfg.WaypointTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("start-settle", fc.StartSettle, &cfg.StartSettle); err != nil {
		return err
	}
	if err := s.setDuration("pause-settle", fc.PauseSettle, &cfg.PauseSettle); err != nil {
		return err
	}
	if err := s.setDuration("arrival-settle", fc.PostArrivalSettle, &cfg.PostArrivalSettle); err != nil {
		return err
	}

	s.setBool("preflight", fc.Preflight, &cfg.Preflight)

	return nil
}
