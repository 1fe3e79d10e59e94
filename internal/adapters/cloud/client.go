// Package cloud talks to the vendor account API: login and device
// discovery. The local command channel needs per-device credentials that
// only the cloud hands out.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ballet-labs/vacballet/internal/ports"
	"github.com/ballet-labs/vacballet/pkg/log"
)

const (
	loginEndpoint   = "/v1/login"
	devicesEndpoint = "/v1/devices"
)

// Client is the account API client.
type Client struct {
	http    ports.HTTPClient
	baseURL string
	logger  log.Logger
}

// Session is an authenticated account session.
type Session struct {
	Token string `json:"token"`
}

// Device describes one account device.
type Device struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`

	// Broker and LocalKey are the device's local MQTT endpoint and
	// credential, used to open the command channel.
	Broker   string `json:"broker"`
	LocalKey string `json:"local_key"`
}

// NewClient creates an account API client against baseURL.
func NewClient(httpClient ports.HTTPClient, baseURL string, logger log.Logger) *Client {
	return &Client{http: httpClient, baseURL: baseURL, logger: logger}
}

// Login authenticates the account and returns a session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("email and password are required")
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, fmt.Errorf("marshal login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var session Session
	if err := c.do(req, &session); err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	c.logger.Debug("cloud login ok")
	return session, nil
}

// Devices lists the account's devices.
func (c *Client) Devices(ctx context.Context, session Session) ([]Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+devicesEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)

	var devices []Device
	if err := c.do(req, &devices); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// do sends the request and decodes a JSON response into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
