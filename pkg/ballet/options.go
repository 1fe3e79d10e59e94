package ballet

import (
	"context"

	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// Channel is one open device connection: commands out, telemetry in.
type Channel interface {
	ports.Commander
	ports.Telemetry
}

// DialFunc opens a device channel. The default dials the real MQTT
// endpoint, discovering it through the cloud when the config carries no
// broker; tests inject fakes here.
type DialFunc func(ctx context.Context, cfg Config, logger log.Logger) (Channel, error)

// Option configures optional behavior of a Ballet.
type Option func(*options)

// options holds the optional configuration for a Ballet instance.
type options struct {
	logger     log.Logger
	httpClient ports.HTTPClient
	dial       DialFunc
	store      ports.SnapshotStore
	storeSet   bool
}

// WithLogger sets a custom logger for structured logging.
// If not provided, output is discarded.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client for cloud API communication.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client ports.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithDialer replaces the device channel dialer.
func WithDialer(dial DialFunc) Option {
	return func(o *options) {
		o.dial = dial
	}
}

// WithSnapshotStore replaces the persisted telemetry store. Passing nil
// disables persistence regardless of Config.StateDir.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(o *options) {
		o.store = store
		o.storeSet = true
	}
}
