// Package mqtt implements the device command channel and telemetry ports
// over the vacuum's local MQTT endpoint.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/ballet-labs/vacballet/internal/domain"
	"github.com/ballet-labs/vacballet/pkg/log"
)

// Config holds the local channel settings.
type Config struct {
	// Broker is the device endpoint, host:port.
	Broker string

	// DeviceID identifies the target device in topic names.
	DeviceID string

	// Username and Password are the per-device credentials handed out by
	// the cloud during login.
	Username string
	Password string

	// Timeout bounds connect and publish acknowledgements.
	Timeout time.Duration
}

// Channel is the MQTT-backed device channel. It implements both
// ports.Commander and ports.Telemetry.
//
// Commands are JSON request envelopes published to the device's request
// topic. Telemetry arrives on a retained status topic; the device republishes
// it on every state change, so a fresh read is available on subscribe.
type Channel struct {
	cfg    Config
	logger log.Logger
	client paho.Client

	mu     sync.RWMutex
	latest *statusPayload

	disconnectOnce sync.Once
}

// envelope is the request frame published to the device.
type envelope struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []int  `json:"params,omitempty"`
}

// statusPayload is the device's status report. Position fields are absent
// when the firmware has no fix.
type statusPayload struct {
	State    string        `json:"state"`
	Battery  *int          `json:"battery"`
	Position *domain.Point `json:"position"`
	Dock     *domain.Point `json:"dock"`
}

// Dial connects to the device's local broker and subscribes to its status
// topic.
func Dial(cfg Config, logger log.Logger) (*Channel, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	c := &Channel{cfg: cfg, logger: logger}

	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker)).
		SetClientID("vacballet-" + uuid.NewString()[:8]).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(false)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	c.client = client

	sub := client.Subscribe(c.statusTopic(), 1, c.onStatus)
	if !sub.WaitTimeout(cfg.Timeout) || sub.Error() != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt subscribe %s: %v", c.statusTopic(), sub.Error())
	}

	logger.Debug("device channel connected", log.String("broker", cfg.Broker))
	return c, nil
}

// Send publishes the command envelope and waits for the broker ack.
func (c *Channel) Send(ctx context.Context, cmd domain.Command, params []int) error {
	if c.client == nil || !c.client.IsConnected() {
		return domain.ErrNotConnected
	}

	env := envelope{ID: uuid.NewString(), Method: string(cmd), Params: params}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", cmd, err)
	}

	token := c.client.Publish(c.requestTopic(), 1, false, payload)
	if !token.WaitTimeout(c.cfg.Timeout) {
		return fmt.Errorf("publish %s: timeout", cmd)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", cmd, err)
	}
	return nil
}

// Snapshot returns the latest status report, or nil when none has arrived
// or the payload carried nothing usable. Parse failures were already
// absorbed in the subscription handler.
func (c *Channel) Snapshot(ctx context.Context) *domain.Snapshot {
	c.mu.RLock()
	st := c.latest
	c.mu.RUnlock()

	if st == nil {
		return nil
	}

	snap := &domain.Snapshot{State: st.State, Battery: -1}
	if st.Battery != nil {
		snap.Battery = *st.Battery
	}
	if st.Position != nil {
		p := *st.Position
		snap.Vacuum = &p
	}
	if st.Dock != nil {
		p := *st.Dock
		snap.Dock = &p
	}
	if snap.Vacuum == nil && snap.Dock == nil && snap.State == "" && snap.Battery < 0 {
		return nil
	}
	return snap
}

// MapCenter derives a map center from the latest status: the midpoint of
// robot and dock when both are known, otherwise whichever exists. The raw
// map payload is a vendor black box; positions are all this adapter reads
// from it.
func (c *Channel) MapCenter(ctx context.Context) *domain.Point {
	snap := c.Snapshot(ctx)
	if snap == nil {
		return nil
	}
	switch {
	case snap.Vacuum != nil && snap.Dock != nil:
		center := domain.Point{
			X: (snap.Vacuum.X + snap.Dock.X) / 2,
			Y: (snap.Vacuum.Y + snap.Dock.Y) / 2,
		}
		return &center
	case snap.Vacuum != nil:
		return snap.Vacuum
	case snap.Dock != nil:
		return snap.Dock
	}
	return nil
}

// Disconnect releases the MQTT connection. Safe to call more than once.
func (c *Channel) Disconnect() error {
	c.disconnectOnce.Do(func() {
		if c.client != nil && c.client.IsConnected() {
			c.client.Disconnect(250)
		}
		c.logger.Debug("device channel disconnected")
	})
	return nil
}

func (c *Channel) onStatus(_ paho.Client, msg paho.Message) {
	var st statusPayload
	if err := json.Unmarshal(msg.Payload(), &st); err != nil {
		// Telemetry degradation is never fatal; keep the previous report.
		c.logger.Debug("unparseable status payload", log.Err(err))
		return
	}
	c.mu.Lock()
	c.latest = &st
	c.mu.Unlock()
}

func (c *Channel) requestTopic() string {
	return fmt.Sprintf("devices/%s/rpc/request", c.cfg.DeviceID)
}

func (c *Channel) statusTopic() string {
	return fmt.Sprintf("devices/%s/status", c.cfg.DeviceID)
}
