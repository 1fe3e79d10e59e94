package nav

import (
	"context"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// ArrivalPoller samples position telemetry at a fixed cadence until a
// distance threshold is met or a deadline elapses.
type ArrivalPoller struct {
	tel      ports.Telemetry
	logger   log.Logger
	interval time.Duration
}

// NewArrivalPoller creates a poller sampling at the given interval.
func NewArrivalPoller(tel ports.Telemetry, logger log.Logger, interval time.Duration) *ArrivalPoller {
	return &ArrivalPoller{tel: tel, logger: logger, interval: interval}
}

// WaitUntilNear polls telemetry until the robot is within thresholdMM of
// target (inclusive) or timeout elapses. The deadline is wall-clock,
// computed once at entry. A sample with no usable position is inconclusive:
// it neither confirms nor denies and the poll simply retries.
func (p *ArrivalPoller) WaitUntilNear(ctx context.Context, target domain.Point, thresholdMM int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		snap := p.tel.Snapshot(ctx)
		if snap != nil && snap.Vacuum != nil {
			dist := snap.Vacuum.DistanceTo(target)
			if dist <= float64(thresholdMM) {
				p.logger.Debug("arrived",
					log.String("target", target.String()),
					log.Float64("distance_mm", dist))
				return true
			}
		}
		sleep(ctx, p.interval)
	}
	return false
}
