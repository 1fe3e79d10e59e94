package ballet

import (
	"fmt"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/nav"
)

// Config holds the library configuration. Zero values are filled in by
// SetDefaults, so `ballet.Config{Email: ..., Password: ...}` is a working
// starting point.
type Config struct {
	// Cloud account credentials, used when Broker is empty to discover
	// the device's local endpoint.
	Email    string
	Password string

	// DeviceID selects the target device; empty means the account's
	// first device.
	DeviceID string

	// Broker is the device's local MQTT endpoint (host:port). When set,
	// no cloud login happens and LocalKey authenticates the channel.
	Broker   string
	LocalKey string

	// ServiceURL is the cloud API base URL.
	ServiceURL string

	// HTTPTimeout bounds cloud requests and channel handshakes.
	HTTPTimeout time.Duration

	// MinRadiusMM and MaxRadiusMM bound the requested dance size.
	MinRadiusMM int
	MaxRadiusMM int

	// DockBufferMM keeps the dance origin clear of the charger.
	DockBufferMM int

	// ArrivalThresholdMM is the distance at or under which a waypoint
	// counts as reached.
	ArrivalThresholdMM int

	// WaypointTimeout bounds arrival polling per waypoint.
	WaypointTimeout time.Duration

	// PollInterval is the telemetry sampling cadence.
	PollInterval time.Duration

	// StartSettle, PauseSettle and PostArrivalSettle are the fixed
	// settle delays.
	StartSettle       time.Duration
	PauseSettle       time.Duration
	PostArrivalSettle time.Duration

	// Preflight enables the wake/start/pause sequence. On by default.
	// Use DisablePreflight to turn it off; the zero Config keeps it on.
	DisablePreflight bool

	// FallbackCenter is the static origin of last resort.
	FallbackCenter domain.Point

	// StateDir persists the last-seen telemetry between invocations.
	// Empty disables persistence.
	StateDir string
}

// SetDefaults fills in zero-valued tunables with the documented defaults.
func (c *Config) SetDefaults() {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	if c.MinRadiusMM == 0 {
		c.MinRadiusMM = 200
	}
	if c.MaxRadiusMM == 0 {
		c.MaxRadiusMM = 1200
	}
	if c.DockBufferMM == 0 {
		c.DockBufferMM = 300
	}
	if c.ArrivalThresholdMM == 0 {
		c.ArrivalThresholdMM = 250
	}
	if c.WaypointTimeout <= 0 {
		c.WaypointTimeout = 35 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 400 * time.Millisecond
	}
	if c.StartSettle <= 0 {
		c.StartSettle = 400 * time.Millisecond
	}
	if c.PauseSettle <= 0 {
		c.PauseSettle = 300 * time.Millisecond
	}
	if c.PostArrivalSettle <= 0 {
		c.PostArrivalSettle = 200 * time.Millisecond
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MinRadiusMM <= 0 || c.MaxRadiusMM < c.MinRadiusMM {
		return fmt.Errorf("%w: radius bounds [%d, %d]", domain.ErrInvalidConfig, c.MinRadiusMM, c.MaxRadiusMM)
	}
	if c.ArrivalThresholdMM <= 0 {
		return fmt.Errorf("%w: arrival threshold must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// navConfig maps the library config onto the navigation core's tunables.
func (c *Config) navConfig() nav.Config {
	return nav.Config{
		ArrivalThresholdMM: c.ArrivalThresholdMM,
		WaypointTimeout:    c.WaypointTimeout,
		PollInterval:       c.PollInterval,
		PostArrivalSettle:  c.PostArrivalSettle,
		StartSettle:        c.StartSettle,
		PauseSettle:        c.PauseSettle,
		DockBufferMM:       c.DockBufferMM,
		FallbackCenter:     c.FallbackCenter,
		Preflight:          !c.DisablePreflight,
	}
}
