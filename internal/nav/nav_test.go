package nav

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// fakeTelemetry serves a scripted sequence of snapshots; the last one
// repeats once the script runs out. A nil script always returns nil.
type fakeTelemetry struct {
	mu     sync.Mutex
	snaps  []*domain.Snapshot
	center *domain.Point
	reads  int
}

func (f *fakeTelemetry) Snapshot(ctx context.Context) *domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.snaps) == 0 {
		return nil
	}
	snap := f.snaps[0]
	if len(f.snaps) > 1 {
		f.snaps = f.snaps[1:]
	}
	return snap
}

func (f *fakeTelemetry) MapCenter(ctx context.Context) *domain.Point {
	return f.center
}

type sentCommand struct {
	cmd    domain.Command
	params []int
}

// fakeCommander records sends and can fail from the nth send onward.
type fakeCommander struct {
	mu        sync.Mutex
	sent      []sentCommand
	failAfter int // fail sends with index >= failAfter; -1 never fails
	err       error
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{failAfter: -1, err: errors.New("channel down")}
}

func (f *fakeCommander) Send(ctx context.Context, cmd domain.Command, params []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.sent)
	f.sent = append(f.sent, sentCommand{cmd: cmd, params: params})
	if f.failAfter >= 0 && i >= f.failAfter {
		return f.err
	}
	return nil
}

func (f *fakeCommander) Disconnect() error { return nil }

func (f *fakeCommander) commands() []sentCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentCommand, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeStore is an in-memory SnapshotStore.
type fakeStore struct {
	mu      sync.Mutex
	saved   []*domain.Snapshot
	loaded  *domain.Snapshot
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	return f.loaded, f.loadErr
}

func (f *fakeStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, snap)
	return f.saveErr
}

func pt(x, y int) *domain.Point {
	return &domain.Point{X: x, Y: y}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WaypointTimeout = 20 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.PostArrivalSettle = 0
	cfg.StartSettle = 0
	cfg.PauseSettle = 0
	return cfg
}

var testLogger = log.Noop{}
