package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (VACBALLET_*). It respects flags that have been explicitly set (changed
// map): env overrides file config but is overridden by flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("email", os.Getenv("VACBALLET_EMAIL"), &cfg.Email)
	s.setString("password", os.Getenv("VACBALLET_PASSWORD"), &cfg.Password)
	s.setString("device", os.Getenv("VACBALLET_DEVICE_ID"), &cfg.DeviceID)
	s.setString("broker", os.Getenv("VACBALLET_BROKER"), &cfg.Broker)
	s.setString("service-url", os.Getenv("VACBALLET_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("state-dir", os.Getenv("VACBALLET_STATE_DIR"), &cfg.StateDir)
	s.setString("log-level", os.Getenv("VACBALLET_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("min-radius", os.Getenv("VACBALLET_MIN_RADIUS_MM"), &cfg.MinRadiusMM); err != nil {
		return err
	}
	if err := s.setIntFromString("max-radius", os.Getenv("VACBALLET_MAX_RADIUS_MM"), &cfg.MaxRadiusMM); err != nil {
		return err
	}
	if err := s.setIntFromString("dock-buffer", os.Getenv("VACBALLET_DOCK_BUFFER_MM"), &cfg.DockBufferMM); err != nil {
		return err
	}
	if err := s.setIntFromString("arrival-threshold", os.Getenv("VACBALLET_ARRIVAL_THRESHOLD_MM"), &cfg.ArrivalThresholdMM); err != nil {
		return err
	}
	if err := s.setIntFromString("center-x", os.Getenv("VACBALLET_CENTER_X"), &cfg.CenterX); err != nil {
		return err
	}
	if err := s.setIntFromString("center-y", os.Getenv("VACBALLET_CENTER_Y"), &cfg.CenterY); err != nil {
		return err
	}
	if err := s.setIntFromString("size", os.Getenv("VACBALLET_DANCE_SIZE_MM"), &cfg.DanceSizeMM); err != nil {
		return err
	}
	if err := s.setIntFromString("beat", os.Getenv("VACBALLET_BEAT_MS"), &cfg.BeatMS); err != nil {
		return err
	}

	if err := s.setDuration("timeout", os.Getenv("VACBALLET_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("waypoint-timeout", os.Getenv("VACBALLET_WAYPOINT_TIMEOUT"), &cfg.WaypointTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("VACBALLET_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("start-settle", os.Getenv("VACBALLET_START_SETTLE"), &cfg.StartSettle); err != nil {
		return err
	}
	if err := s.setDuration("pause-settle", os.Getenv("VACBALLET_PAUSE_SETTLE"), &cfg.PauseSettle); err != nil {
		return err
	}
	if err := s.setDuration("arrival-settle", os.Getenv("VACBALLET_POST_ARRIVAL_SETTLE"), &cfg.PostArrivalSettle); err != nil {
		return err
	}

	s.setBoolFromString("preflight", os.Getenv("VACBALLET_PREFLIGHT"), &cfg.Preflight)

	return nil
}
