package nav

import (
	"context"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// PreflightState tracks the preflight sequence.
type PreflightState int

const (
	// PreflightUnknown is the entry state before the device check.
	PreflightUnknown PreflightState = iota
	// PreflightChecked means the device state was read.
	PreflightChecked
	// PreflightSkipped means no wake sequence was needed (device already
	// accepts goto, or preflight is disabled).
	PreflightSkipped
	// PreflightWoken means the wake command was issued.
	PreflightWoken
	// PreflightStarted means the start command was issued.
	PreflightStarted
	// PreflightPaused is the terminal success state: active but paused,
	// the state most firmwares require before accepting goto.
	PreflightPaused
)

// String returns the state name for logging.
func (s PreflightState) String() string {
	switch s {
	case PreflightChecked:
		return "checked"
	case PreflightSkipped:
		return "skipped"
	case PreflightWoken:
		return "woken"
	case PreflightStarted:
		return "started"
	case PreflightPaused:
		return "paused"
	}
	return "unknown"
}

// Preflight transitions the device out of idle/charging/docked states so
// that goto commands are accepted. Every command in the sequence is a
// fire-and-forget hint: failures are logged and dropped, and preflight can
// never abort the dance.
type Preflight struct {
	cmd    ports.Commander
	tel    ports.Telemetry
	logger log.Logger
	cfg    Config
}

// NewPreflight creates the preflight controller.
func NewPreflight(cmd ports.Commander, tel ports.Telemetry, logger log.Logger, cfg Config) *Preflight {
	return &Preflight{cmd: cmd, tel: tel, logger: logger, cfg: cfg}
}

// Run executes the preflight sequence and returns the terminal state.
// A telemetry read failure counts as "state unknown" and falls through to
// the full wake sequence.
func (p *Preflight) Run(ctx context.Context) PreflightState {
	if !p.cfg.Preflight {
		return PreflightSkipped
	}

	snap := p.tel.Snapshot(ctx)
	if snap.AcceptsGoto() {
		p.logger.Debug("preflight: device already accepts goto", log.String("state", snap.State))
		return PreflightSkipped
	}

	// Best-effort from here on; each send's error is discarded.
	p.send(ctx, domain.CmdWakeUp)
	p.send(ctx, domain.CmdStart)
	sleep(ctx, p.cfg.StartSettle)
	p.send(ctx, domain.CmdPause)
	sleep(ctx, p.cfg.PauseSettle)

	p.logger.Debug("preflight complete", log.String("state", PreflightPaused.String()))
	return PreflightPaused
}

func (p *Preflight) send(ctx context.Context, cmd domain.Command) {
	if err := p.cmd.Send(ctx, cmd, nil); err != nil {
		p.logger.Debug("preflight command failed", log.String("cmd", string(cmd)), log.Err(err))
	}
}
