package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/ballet-labs/vacballet/internal/domain"
)

func TestResolveFromDock(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{
		Dock:   pt(100, 200),
		Vacuum: pt(900, 900),
	}}}
	store := &fakeStore{}
	r := NewOriginResolver(tel, store, testLogger, testConfig())

	// Dock wins over the live robot position, offset along +Y by the
	// dock buffer plus the dance radius.
	got := r.Resolve(context.Background(), 400)
	want := domain.Point{X: 100, Y: 200 + 300 + 400}
	if got != want {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d snapshots, want 1", len(store.saved))
	}
}

func TestResolveFromRobotPosition(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(50, 60)}}}
	r := NewOriginResolver(tel, nil, testLogger, testConfig())

	got := r.Resolve(context.Background(), 400)
	if got != (domain.Point{X: 50, Y: 60}) {
		t.Errorf("Resolve = %v, want (50, 60)", got)
	}
}

func TestResolveFromLiveMapCenter(t *testing.T) {
	tel := &fakeTelemetry{center: pt(700, 800)}
	r := NewOriginResolver(tel, nil, testLogger, testConfig())

	got := r.Resolve(context.Background(), 400)
	if got != (domain.Point{X: 700, Y: 800}) {
		t.Errorf("Resolve = %v, want (700, 800)", got)
	}
}

func TestResolveFromPersistedSnapshot(t *testing.T) {
	tel := &fakeTelemetry{}
	store := &fakeStore{loaded: &domain.Snapshot{Dock: pt(1, 2), Vacuum: pt(3, 4)}}
	r := NewOriginResolver(tel, store, testLogger, testConfig())

	// The persisted dock is used raw, with no buffer offset: it stands in
	// for a map center, not a live dock reading.
	got := r.Resolve(context.Background(), 400)
	if got != (domain.Point{X: 1, Y: 2}) {
		t.Errorf("Resolve = %v, want persisted dock (1, 2)", got)
	}
}

func TestResolveFromPersistedRobotPosition(t *testing.T) {
	tel := &fakeTelemetry{}
	store := &fakeStore{loaded: &domain.Snapshot{Vacuum: pt(3, 4)}}
	r := NewOriginResolver(tel, store, testLogger, testConfig())

	got := r.Resolve(context.Background(), 400)
	if got != (domain.Point{X: 3, Y: 4}) {
		t.Errorf("Resolve = %v, want persisted position (3, 4)", got)
	}
}

func TestResolveStaticFallback(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackCenter = domain.Point{X: 1500, Y: -1500}

	tel := &fakeTelemetry{}
	store := &fakeStore{loadErr: errors.New("corrupt state file")}
	r := NewOriginResolver(tel, store, testLogger, cfg)

	got := r.Resolve(context.Background(), 400)
	if got != cfg.FallbackCenter {
		t.Errorf("Resolve = %v, want fallback %v", got, cfg.FallbackCenter)
	}
}

func TestResolveWithoutStore(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackCenter = domain.Point{X: 9, Y: 9}
	r := NewOriginResolver(&fakeTelemetry{}, nil, testLogger, cfg)

	got := r.Resolve(context.Background(), 400)
	if got != cfg.FallbackCenter {
		t.Errorf("Resolve = %v, want fallback %v", got, cfg.FallbackCenter)
	}
}

func TestResolveSaveFailureIsNotFatal(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(50, 60)}}}
	store := &fakeStore{saveErr: errors.New("disk full")}
	r := NewOriginResolver(tel, store, testLogger, testConfig())

	got := r.Resolve(context.Background(), 400)
	if got != (domain.Point{X: 50, Y: 60}) {
		t.Errorf("Resolve = %v, want (50, 60) despite save failure", got)
	}
}
