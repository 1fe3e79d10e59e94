package domain

// Device states in which the firmware accepts absolute goto commands
// without a wake sequence.
const (
	StateGotoTarget = "going_to_target"
	StateSpot       = "spot"
	StateCleaning   = "cleaning"
	StateReturning  = "returning"
)

// Snapshot is one best-effort telemetry reading. Any field may be absent:
// the telemetry channel degrades to partial data rather than failing.
// Snapshots are fetched on demand and never cached beyond a single read.
type Snapshot struct {
	// Vacuum is the robot's current position, if the map payload carried one.
	Vacuum *Point `json:"vacuum,omitempty"`

	// Dock is the charger position, if known.
	Dock *Point `json:"dock,omitempty"`

	// State is the firmware state name (e.g. "cleaning"), empty if unknown.
	State string `json:"state,omitempty"`

	// Battery is the charge percentage, -1 if unknown.
	Battery int `json:"battery"`
}

// AcceptsGoto reports whether the device state already accepts
// absolute-position navigation commands.
func (s *Snapshot) AcceptsGoto() bool {
	if s == nil {
		return false
	}
	switch s.State {
	case StateGotoTarget, StateSpot, StateCleaning, StateReturning:
		return true
	}
	return false
}
