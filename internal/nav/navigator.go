package nav

import (
	"context"
	"time"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// Navigator drives a waypoint sequence to completion, one waypoint at a
// time and strictly in generation order. It never blocks indefinitely on a
// waypoint: when arrival cannot be confirmed within the timeout, it falls
// back to a flat beat delay and advances anyway.
type Navigator struct {
	cmd    ports.Commander
	tel    ports.Telemetry
	poller *ArrivalPoller
	logger log.Logger
	cfg    Config
}

// NewNavigator creates a navigator over the given ports.
func NewNavigator(cmd ports.Commander, tel ports.Telemetry, logger log.Logger, cfg Config) *Navigator {
	return &Navigator{
		cmd:    cmd,
		tel:    tel,
		poller: NewArrivalPoller(tel, logger, cfg.PollInterval),
		logger: logger,
		cfg:    cfg,
	}
}

// Run visits every waypoint in seq. For each waypoint it skips the dispatch
// when telemetry already places the robot within the arrival threshold,
// otherwise sends the goto command and gates on arrival. A dispatch failure
// is fatal to the whole run and is returned as a *domain.DispatchError; the
// caller owns the transport and its release.
func (n *Navigator) Run(ctx context.Context, seq []domain.Point, beat time.Duration) error {
	for i, wp := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}

		if n.alreadyNear(ctx, wp) {
			n.logger.Info("waypoint already within threshold, skipping",
				log.Int("waypoint", i), log.String("target", wp.String()))
			continue
		}

		n.logger.Info("goto waypoint",
			log.Int("waypoint", i),
			log.Int("of", len(seq)),
			log.String("target", wp.String()))

		if err := n.cmd.Send(ctx, domain.CmdGotoTarget, []int{wp.X, wp.Y}); err != nil {
			return &domain.DispatchError{Waypoint: i, Target: wp, Err: err}
		}

		if n.poller.WaitUntilNear(ctx, wp, n.cfg.ArrivalThresholdMM, n.cfg.WaypointTimeout) {
			sleep(ctx, n.cfg.PostArrivalSettle)
		} else {
			n.logger.Debug("arrival not confirmed, falling back to beat",
				log.Int("waypoint", i), log.Duration("beat", beat))
			sleep(ctx, beat)
		}
	}
	return nil
}

// alreadyNear reports whether current telemetry places the robot within the
// arrival threshold of target. Missing telemetry means "position unknown"
// and the pre-check is skipped, never a failure.
func (n *Navigator) alreadyNear(ctx context.Context, target domain.Point) bool {
	snap := n.tel.Snapshot(ctx)
	if snap == nil || snap.Vacuum == nil {
		return false
	}
	return snap.Vacuum.DistanceTo(target) <= float64(n.cfg.ArrivalThresholdMM)
}
