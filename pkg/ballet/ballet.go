package ballet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ballet-labs/vacballet/internal/adapters/cloud"
	"github.com/ballet-labs/vacballet/internal/adapters/mqtt"
	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/internal/nav"
	"github.com/ballet-labs/vacballet/internal/pattern"
	"github.com/ballet-labs/vacballet/internal/state"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// Ballet choreographs one vacuum. Every operation dials its own device
// channel and releases it before returning, success or failure.
type Ballet struct {
	cfg    Config
	opts   options
	logger log.Logger
}

// New creates a Ballet with the given configuration.
func New(cfg Config, opts ...Option) (*Ballet, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger: log.Noop{},
		dial:   defaultDial,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if !o.storeSet && cfg.StateDir != "" {
		o.store = state.NewFileStore(cfg.StateDir)
	}

	return &Ballet{cfg: cfg, opts: o, logger: o.logger}, nil
}

// Dance runs the named pattern around a resolved origin: clamp the size,
// dial the device, resolve the origin, generate the waypoint sequence, run
// preflight once, then drive every waypoint with beatMS as the fallback
// delay when arrival cannot be confirmed.
func (b *Ballet) Dance(ctx context.Context, patternName string, sizeMM, beatMS int) error {
	if !pattern.Known(patternName) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPattern, patternName)
	}

	radius := pattern.Clamp(sizeMM, b.cfg.MinRadiusMM, b.cfg.MaxRadiusMM)
	if radius != sizeMM {
		b.logger.Info("dance size clamped",
			log.Int("requested_mm", sizeMM), log.Int("clamped_mm", radius))
	}

	ch, err := b.opts.dial(ctx, b.cfg, b.logger)
	if err != nil {
		return fmt.Errorf("dial device: %w", err)
	}
	defer ch.Disconnect()

	navCfg := b.cfg.navConfig()

	origin := nav.NewOriginResolver(ch, b.opts.store, b.logger, navCfg).Resolve(ctx, radius)
	seq, err := pattern.Generate(pattern.Spec{Name: patternName, Center: origin, Size: radius})
	if err != nil {
		return err
	}

	b.logger.Info("dancing",
		log.String("pattern", patternName),
		log.Int("size_mm", radius),
		log.String("origin", origin.String()),
		log.Int("waypoints", len(seq)))

	nav.NewPreflight(ch, ch, b.logger, navCfg).Run(ctx)

	beat := time.Duration(beatMS) * time.Millisecond
	return nav.NewNavigator(ch, ch, b.logger, navCfg).Run(ctx, seq, beat)
}

// Goto sends a single absolute goto command and returns once it is
// dispatched. No arrival gating; the device moves on its own.
func (b *Ballet) Goto(ctx context.Context, x, y int) error {
	target := domain.Point{X: x, Y: y}
	return b.withChannel(ctx, func(ch Channel) error {
		if err := ch.Send(ctx, domain.CmdGotoTarget, []int{x, y}); err != nil {
			return &domain.DispatchError{Waypoint: 0, Target: target, Err: err}
		}
		b.logger.Info("goto dispatched", log.String("target", target.String()))
		return nil
	})
}

// Clean starts a cleaning run.
func (b *Ballet) Clean(ctx context.Context) error {
	return b.withChannel(ctx, func(ch Channel) error {
		return ch.Send(ctx, domain.CmdStart, nil)
	})
}

// Dock sends the vacuum back to its charger.
func (b *Ballet) Dock(ctx context.Context) error {
	return b.withChannel(ctx, func(ch Channel) error {
		return ch.Send(ctx, domain.CmdCharge, nil)
	})
}

// FindMe asks the device to announce itself times times.
func (b *Ballet) FindMe(ctx context.Context, times int) error {
	return b.withChannel(ctx, func(ch Channel) error {
		for i := 0; i < times; i++ {
			if err := ch.Send(ctx, domain.CmdFindMe, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// Status fetches a telemetry snapshot. Returns nil when the device
// produced no usable data; that is degradation, not an error.
func (b *Ballet) Status(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := b.withChannel(ctx, func(ch Channel) error {
		snap = ch.Snapshot(ctx)
		return nil
	})
	return snap, err
}

// Devices lists the account's devices via the cloud API. No device channel
// is opened.
func (b *Ballet) Devices(ctx context.Context) ([]cloud.Device, error) {
	client := cloud.NewClient(b.opts.httpClient, b.cfg.ServiceURL, b.logger)
	session, err := client.Login(ctx, b.cfg.Email, b.cfg.Password)
	if err != nil {
		return nil, err
	}
	return client.Devices(ctx, session)
}

// Plan generates the waypoint sequence a dance would run, without touching
// the device: clamped size, fallback origin. Used for path previews.
func (b *Ballet) Plan(patternName string, sizeMM int) ([]domain.Point, error) {
	radius := pattern.Clamp(sizeMM, b.cfg.MinRadiusMM, b.cfg.MaxRadiusMM)
	return pattern.Generate(pattern.Spec{
		Name:   patternName,
		Center: b.cfg.FallbackCenter,
		Size:   radius,
	})
}

// withChannel dials the device, runs fn, and always releases the channel.
func (b *Ballet) withChannel(ctx context.Context, fn func(Channel) error) error {
	ch, err := b.opts.dial(ctx, b.cfg, b.logger)
	if err != nil {
		return fmt.Errorf("dial device: %w", err)
	}
	defer ch.Disconnect()
	return fn(ch)
}

// defaultDial opens the real MQTT channel, asking the cloud for the
// device's local endpoint and key when the config carries none.
func defaultDial(ctx context.Context, cfg Config, logger log.Logger) (Channel, error) {
	broker := cfg.Broker
	localKey := cfg.LocalKey
	deviceID := cfg.DeviceID

	if broker == "" {
		client := cloud.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.ServiceURL, logger)
		session, err := client.Login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			return nil, err
		}
		devices, err := client.Devices(ctx, session)
		if err != nil {
			return nil, err
		}
		dev, err := pickDevice(devices, cfg.DeviceID)
		if err != nil {
			return nil, err
		}
		broker, localKey, deviceID = dev.Broker, dev.LocalKey, dev.ID
	}

	return mqtt.Dial(mqtt.Config{
		Broker:   broker,
		DeviceID: deviceID,
		Username: deviceID,
		Password: localKey,
		Timeout:  cfg.HTTPTimeout,
	}, logger)
}

func pickDevice(devices []cloud.Device, id string) (cloud.Device, error) {
	if len(devices) == 0 {
		return cloud.Device{}, fmt.Errorf("no devices on this account")
	}
	if id == "" {
		return devices[0], nil
	}
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	return cloud.Device{}, fmt.Errorf("device %q not found on this account", id)
}
