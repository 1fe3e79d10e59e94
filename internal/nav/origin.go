package nav

import (
	"context"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// OriginResolver picks the dance's center point from a priority chain over
// telemetry: dock position, then current robot position, then the last-known
// map center, then the static fallback. Resolution always terminates with a
// usable point; no branch can fail the routine.
type OriginResolver struct {
	tel    ports.Telemetry
	store  ports.SnapshotStore
	logger log.Logger
	cfg    Config
}

// NewOriginResolver creates a resolver. store may be nil when no persisted
// telemetry is available.
func NewOriginResolver(tel ports.Telemetry, store ports.SnapshotStore, logger log.Logger, cfg Config) *OriginResolver {
	return &OriginResolver{tel: tel, store: store, logger: logger, cfg: cfg}
}

// Resolve returns the origin for a dance of the given radius. When the
// origin comes from the dock, it is offset along +Y by the dock buffer plus
// the radius so the whole pattern clears the charger's restricted zone.
func (r *OriginResolver) Resolve(ctx context.Context, radiusMM int) domain.Point {
	snap := r.tel.Snapshot(ctx)
	if snap != nil && r.store != nil {
		// Remember the freshest usable telemetry for later invocations.
		if err := r.store.Save(ctx, snap); err != nil {
			r.logger.Debug("persist snapshot", log.Err(err))
		}
	}

	if snap != nil && snap.Dock != nil {
		origin := snap.Dock.Add(0, r.cfg.DockBufferMM+radiusMM)
		r.logger.Info("origin from dock position",
			log.String("dock", snap.Dock.String()),
			log.String("origin", origin.String()))
		return origin
	}

	if snap != nil && snap.Vacuum != nil {
		r.logger.Info("origin from robot position", log.String("origin", snap.Vacuum.String()))
		return *snap.Vacuum
	}

	if center := r.lastKnownCenter(ctx); center != nil {
		r.logger.Info("origin from last-known map center", log.String("origin", center.String()))
		return *center
	}

	r.logger.Info("origin from static fallback", log.String("origin", r.cfg.FallbackCenter.String()))
	return r.cfg.FallbackCenter
}

// lastKnownCenter derives a center from the most recent parsed telemetry:
// the live map center when one is available, otherwise the persisted
// snapshot's dock or robot position.
func (r *OriginResolver) lastKnownCenter(ctx context.Context) *domain.Point {
	if center := r.tel.MapCenter(ctx); center != nil {
		return center
	}
	if r.store == nil {
		return nil
	}
	saved, err := r.store.Load(ctx)
	if err != nil || saved == nil {
		return nil
	}
	if saved.Dock != nil {
		return saved.Dock
	}
	return saved.Vacuum
}
