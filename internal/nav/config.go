package nav

import (
	"context"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// Config holds the navigation tunables. All values have working defaults;
// see DefaultConfig.
type Config struct {
	// ArrivalThresholdMM is the distance at or under which a waypoint
	// counts as reached. The same value gates the pre-dispatch skip and
	// the arrival poll.
	ArrivalThresholdMM int

	// WaypointTimeout bounds the arrival poll per waypoint.
	WaypointTimeout time.Duration

	// PollInterval is the cadence of telemetry samples while polling.
	PollInterval time.Duration

	// PostArrivalSettle is the pause after a confirmed arrival, letting
	// telemetry catch up to physical position.
	PostArrivalSettle time.Duration

	// StartSettle and PauseSettle are the preflight settle delays after
	// the start and pause commands.
	StartSettle time.Duration
	PauseSettle time.Duration

	// DockBufferMM keeps the dance origin out of the charger's restricted
	// zone when the origin comes from the dock position.
	DockBufferMM int

	// FallbackCenter is the static origin of last resort.
	FallbackCenter domain.Point

	// Preflight enables the wake/start/pause sequence before the first
	// goto. On by default; many firmwares reject goto from idle/charging.
	Preflight bool
}

// DefaultConfig returns the navigation defaults.
func DefaultConfig() Config {
	return Config{
		ArrivalThresholdMM: 250,
		WaypointTimeout:    35 * time.Second,
		PollInterval:       400 * time.Millisecond,
		PostArrivalSettle:  200 * time.Millisecond,
		StartSettle:        400 * time.Millisecond,
		PauseSettle:        300 * time.Millisecond,
		DockBufferMM:       300,
		Preflight:          true,
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
// Non-positive durations return immediately.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
