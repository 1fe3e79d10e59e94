package ports

import (
	"context"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// Telemetry fetches best-effort device telemetry. Reads are expensive and
// unreliable: implementations absorb parse and transport failures and
// return nil instead of an error, so a failed read degrades to "no data"
// and never aborts a routine.
type Telemetry interface {
	// Snapshot fetches and parses the current telemetry. Returns nil when
	// no usable data is available.
	Snapshot(ctx context.Context) *domain.Snapshot

	// MapCenter returns the center of the most recently parsed map, or nil
	// when no map has been seen. Used as an origin fallback only.
	MapCenter(ctx context.Context) *domain.Point
}

// SnapshotStore persists the last usable snapshot across invocations.
// The tool is one-shot per command, so "most recent telemetry" outlives a
// process through this store.
type SnapshotStore interface {
	// Load retrieves the last saved snapshot. Returns nil (and no error)
	// when nothing has been saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save persists the snapshot atomically.
	Save(ctx context.Context, snap *domain.Snapshot) error
}
