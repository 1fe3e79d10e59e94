package nav

import (
	"context"
	"testing"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
)

func TestWaitUntilNearImmediate(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(1100, 2100)}}}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	// hypot(100, 100) ~ 141mm, inside the 250mm threshold.
	if !p.WaitUntilNear(context.Background(), domain.Point{X: 1000, Y: 2000}, 250, time.Second) {
		t.Error("WaitUntilNear = false, want true")
	}
}

func TestWaitUntilNearInclusiveThreshold(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(1250, 2000)}}}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	// Exactly at the threshold counts as arrived.
	if !p.WaitUntilNear(context.Background(), domain.Point{X: 1000, Y: 2000}, 250, time.Second) {
		t.Error("WaitUntilNear at exact threshold = false, want true")
	}
}

func TestWaitUntilNearTimeout(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(9000, 9000)}}}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	start := time.Now()
	got := p.WaitUntilNear(context.Background(), domain.Point{}, 250, 30*time.Millisecond)
	if got {
		t.Error("WaitUntilNear = true, want false")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("poll ran %v past a 30ms deadline", elapsed)
	}
}

func TestWaitUntilNearMissingTelemetryInconclusive(t *testing.T) {
	// No usable position ever arrives; the poll must neither confirm nor
	// hang, just run out the deadline.
	tel := &fakeTelemetry{}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	if p.WaitUntilNear(context.Background(), domain.Point{}, 250, 20*time.Millisecond) {
		t.Error("WaitUntilNear with no telemetry = true, want false")
	}
	if tel.reads < 2 {
		t.Errorf("reads = %d, want repeated sampling", tel.reads)
	}
}

func TestWaitUntilNearLateArrival(t *testing.T) {
	tel := &fakeTelemetry{snaps: []*domain.Snapshot{
		{Vacuum: pt(5000, 5000)},
		nil,
		{Vacuum: pt(30, 40)},
	}}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	if !p.WaitUntilNear(context.Background(), domain.Point{}, 250, time.Second) {
		t.Error("WaitUntilNear = false, want true after telemetry converges")
	}
}

func TestWaitUntilNearCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tel := &fakeTelemetry{snaps: []*domain.Snapshot{{Vacuum: pt(0, 0)}}}
	p := NewArrivalPoller(tel, testLogger, time.Millisecond)

	if p.WaitUntilNear(ctx, domain.Point{}, 250, time.Second) {
		t.Error("WaitUntilNear with canceled context = true, want false")
	}
}
