package ballet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// fakeChannel implements Channel in memory.
type fakeChannel struct {
	mu           sync.Mutex
	sent         []sentCommand
	sendErr      error
	snap         *domain.Snapshot
	disconnects  int
	disconnected bool
}

type sentCommand struct {
	cmd    domain.Command
	params []int
}

func (f *fakeChannel) Send(ctx context.Context, cmd domain.Command, params []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentCommand{cmd: cmd, params: params})
	return f.sendErr
}

func (f *fakeChannel) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.disconnected = true
	return nil
}

func (f *fakeChannel) Snapshot(ctx context.Context) *domain.Snapshot { return f.snap }
func (f *fakeChannel) MapCenter(ctx context.Context) *domain.Point   { return nil }

func (f *fakeChannel) gotos() []sentCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentCommand
	for _, s := range f.sent {
		if s.cmd == domain.CmdGotoTarget {
			out = append(out, s)
		}
	}
	return out
}

// fastConfig keeps polling and settling out of test wall time.
func fastConfig() Config {
	return Config{
		WaypointTimeout:   5 * time.Millisecond,
		PollInterval:      time.Millisecond,
		StartSettle:       time.Millisecond,
		PauseSettle:       time.Millisecond,
		PostArrivalSettle: time.Millisecond,
		FallbackCenter:    domain.Point{X: 0, Y: 0},
	}
}

func newTestBallet(t *testing.T, cfg Config, ch *fakeChannel) *Ballet {
	t.Helper()
	b, err := New(cfg, WithDialer(func(ctx context.Context, cfg Config, logger log.Logger) (Channel, error) {
		return ch, nil
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestDanceUnknownPatternFailsBeforeDial(t *testing.T) {
	dialed := false
	b, err := New(fastConfig(), WithDialer(func(ctx context.Context, cfg Config, logger log.Logger) (Channel, error) {
		dialed = true
		return &fakeChannel{}, nil
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = b.Dance(context.Background(), "moonwalk", 600, 0)
	if !errors.Is(err, domain.ErrUnknownPattern) {
		t.Errorf("err = %v, want ErrUnknownPattern", err)
	}
	if dialed {
		t.Error("unknown pattern dialed the device; config errors must fail first")
	}
}

func TestDanceClampsOversizedRequest(t *testing.T) {
	ch := &fakeChannel{snap: &domain.Snapshot{State: domain.StateCleaning, Vacuum: &domain.Point{}}}
	b := newTestBallet(t, fastConfig(), ch)

	// 5000mm clamps to the 1200mm maximum. The robot sits at the origin,
	// so every circle waypoint lies exactly 1200mm out.
	if err := b.Dance(context.Background(), "circle", 5000, 0); err != nil {
		t.Fatalf("Dance: %v", err)
	}

	gotos := ch.gotos()
	if len(gotos) == 0 {
		t.Fatal("no goto commands dispatched")
	}
	for i, g := range gotos {
		p := domain.Point{X: g.params[0], Y: g.params[1]}
		if d := p.DistanceTo(domain.Point{}); d > 1201 {
			t.Errorf("goto[%d] = %v, %0.f mm out, want clamped to 1200", i, p, d)
		}
	}
}

func TestDanceDisconnectsOnSuccess(t *testing.T) {
	ch := &fakeChannel{snap: &domain.Snapshot{State: domain.StateCleaning}}
	b := newTestBallet(t, fastConfig(), ch)

	if err := b.Dance(context.Background(), "square", 600, 0); err != nil {
		t.Fatalf("Dance: %v", err)
	}
	if ch.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", ch.disconnects)
	}
}

func TestDanceDisconnectsOnDispatchError(t *testing.T) {
	ch := &fakeChannel{sendErr: errors.New("broker gone")}
	b := newTestBallet(t, fastConfig(), ch)

	err := b.Dance(context.Background(), "square", 600, 0)
	var de *domain.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *domain.DispatchError", err)
	}
	if ch.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1 even on failure", ch.disconnects)
	}
}

func TestDancePreflightRunsForIdleDevice(t *testing.T) {
	ch := &fakeChannel{snap: &domain.Snapshot{State: "charging"}}
	b := newTestBallet(t, fastConfig(), ch)

	if err := b.Dance(context.Background(), "square", 600, 0); err != nil {
		t.Fatalf("Dance: %v", err)
	}

	var wake bool
	for _, s := range ch.sent {
		if s.cmd == domain.CmdWakeUp {
			wake = true
		}
	}
	if !wake {
		t.Error("no wake command sent for a charging device")
	}
}

func TestDancePreflightDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.DisablePreflight = true
	ch := &fakeChannel{snap: &domain.Snapshot{State: "charging"}}
	b := newTestBallet(t, cfg, ch)

	if err := b.Dance(context.Background(), "square", 600, 0); err != nil {
		t.Fatalf("Dance: %v", err)
	}
	for _, s := range ch.sent {
		if s.cmd == domain.CmdWakeUp || s.cmd == domain.CmdStart || s.cmd == domain.CmdPause {
			t.Errorf("preflight command %q sent while disabled", s.cmd)
		}
	}
}

func TestGoto(t *testing.T) {
	ch := &fakeChannel{}
	b := newTestBallet(t, fastConfig(), ch)

	if err := b.Goto(context.Background(), 1500, -2000); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	gotos := ch.gotos()
	if len(gotos) != 1 {
		t.Fatalf("sent %d gotos, want 1", len(gotos))
	}
	if gotos[0].params[0] != 1500 || gotos[0].params[1] != -2000 {
		t.Errorf("params = %v, want [1500 -2000]", gotos[0].params)
	}
	if ch.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", ch.disconnects)
	}
}

func TestGotoDispatchError(t *testing.T) {
	ch := &fakeChannel{sendErr: errors.New("nope")}
	b := newTestBallet(t, fastConfig(), ch)

	err := b.Goto(context.Background(), 1, 2)
	var de *domain.DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *domain.DispatchError", err)
	}
	if de.Target != (domain.Point{X: 1, Y: 2}) {
		t.Errorf("Target = %v, want (1, 2)", de.Target)
	}
}

func TestCleanDockFindMe(t *testing.T) {
	ch := &fakeChannel{}
	b := newTestBallet(t, fastConfig(), ch)
	ctx := context.Background()

	if err := b.Clean(ctx); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if err := b.Dock(ctx); err != nil {
		t.Fatalf("Dock: %v", err)
	}
	if err := b.FindMe(ctx, 3); err != nil {
		t.Fatalf("FindMe: %v", err)
	}

	want := []domain.Command{
		domain.CmdStart, domain.CmdCharge,
		domain.CmdFindMe, domain.CmdFindMe, domain.CmdFindMe,
	}
	if len(ch.sent) != len(want) {
		t.Fatalf("sent %d commands, want %d", len(ch.sent), len(want))
	}
	for i, s := range ch.sent {
		if s.cmd != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, s.cmd, want[i])
		}
	}
	// One channel per operation.
	if ch.disconnects != 3 {
		t.Errorf("disconnects = %d, want 3", ch.disconnects)
	}
}

func TestStatus(t *testing.T) {
	ch := &fakeChannel{snap: &domain.Snapshot{State: "cleaning", Battery: 76}}
	b := newTestBallet(t, fastConfig(), ch)

	snap, err := b.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snap == nil || snap.State != "cleaning" || snap.Battery != 76 {
		t.Errorf("Status = %+v, want cleaning/76", snap)
	}
}

func TestDialFailure(t *testing.T) {
	dialErr := errors.New("no route to device")
	b, err := New(fastConfig(), WithDialer(func(ctx context.Context, cfg Config, logger log.Logger) (Channel, error) {
		return nil, dialErr
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := b.Clean(context.Background()); !errors.Is(err, dialErr) {
		t.Errorf("err = %v, want wrapped dial error", err)
	}
}

func TestDevices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case "/v1/devices":
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "dev-1", "name": "Living Room", "model": "s5"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	cfg := fastConfig()
	cfg.Email = "a@b.c"
	cfg.Password = "pw"
	cfg.ServiceURL = ts.URL
	b, err := New(cfg, WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	devices, err := b.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" {
		t.Errorf("Devices = %+v, want one device dev-1", devices)
	}
}

func TestPlan(t *testing.T) {
	cfg := fastConfig()
	cfg.FallbackCenter = domain.Point{X: 100, Y: 200}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seq, err := b.Plan("square", 5000)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(seq) != 5 {
		t.Fatalf("len = %d, want 5", len(seq))
	}
	// Clamped to 1200 around the fallback center.
	if seq[0] != (domain.Point{X: -1100, Y: -1000}) {
		t.Errorf("first corner = %v, want (-1100, -1000)", seq[0])
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.MinRadiusMM = 800
	cfg.MaxRadiusMM = 400
	if _, err := New(cfg); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
