package deviceconfig

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nebaura-labs/motectl/internal/connection"
	"github.com/nebaura-labs/motectl/internal/logging"
	"github.com/nebaura-labs/motectl/internal/protocol"
)

const (
	// DefaultEndpoint is the config channel a Mote device serves while
	// in setup mode, on its own WiFi hotspot
	DefaultEndpoint = "ws://192.168.4.1:3000/config"

	// DefaultMaxRetries is the connect retry budget. The device AP is
	// flaky right after association, so a few retries are normal.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the delay before the first connect retry
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay caps the connect backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// await is one in-flight request waiting for its reply. The config
// channel has no correlation ids, so only one request runs at a time
// and want picks the replies that settle it.
type await struct {
	ch   chan protocol.Message
	want func(protocol.Message) bool
}

// Client talks to a Mote device's local configuration channel. It is a
// transient client: connect, push the bootstrap config or probe status,
// disconnect. Reconnection is limited to the small connect retry budget;
// once the device takes its new config and reboots, the channel is gone
// by design.
type Client struct {
	channel *connection.Client

	mu         sync.Mutex
	pending    *await
	lastStatus *protocol.Status

	statusListeners *connection.ListenerSet[*protocol.Status]
}

// NewClient creates a client for the given config endpoint. An empty
// endpoint means DefaultEndpoint. Nothing touches the network until
// Connect.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		statusListeners: connection.NewListenerSet[*protocol.Status](),
	}

	c.channel = connection.NewClient(connection.Options{
		Endpoint: endpoint,
		Name:     "device",
		Policy: connection.ReconnectPolicy{
			Enabled:     true,
			BaseDelay:   DefaultRetryDelay,
			MaxDelay:    DefaultMaxRetryDelay,
			MaxAttempts: DefaultMaxRetries,
		},
	})

	c.channel.OnMessage(c.handleMessage)
	c.channel.OnStateChange(c.handleStateChange)

	return c
}

// newClientForTest builds a client against an arbitrary endpoint with
// no retry budget
func newClientForTest(endpoint string) *Client {
	c := &Client{
		statusListeners: connection.NewListenerSet[*protocol.Status](),
	}
	c.channel = connection.NewClient(connection.Options{
		Endpoint: endpoint,
		Name:     "device",
		Policy:   connection.NoReconnect(),
	})
	c.channel.OnMessage(c.handleMessage)
	c.channel.OnStateChange(c.handleStateChange)
	return c
}

// Connect dials the device's config channel, retrying under the connect
// budget. Blocks until connected, the budget is spent, or ctx expires.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.channel.Connect(ctx); err != nil {
		return NewConnectionError("failed to reach device config channel", err)
	}
	return nil
}

// Disconnect closes the config channel
func (c *Client) Disconnect() {
	c.channel.Disconnect()
}

// State returns the channel's lifecycle state
func (c *Client) State() connection.State {
	return c.channel.State()
}

// OnStatus registers a listener for device status pushes. The device
// sends one on connect and after every configuration step.
func (c *Client) OnStatus(fn func(*protocol.Status)) func() {
	return c.statusListeners.Add(fn)
}

// LastStatus returns the most recent status push, or nil
func (c *Client) LastStatus() *protocol.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStatus
}

// SendConfig pushes the bootstrap configuration to the device and waits
// for its acknowledgement. Returns the device's progress message.
//
// The device typically applies WiFi credentials first, reboots into
// station mode, and only then dials the relay; the ack here confirms
// receipt, not that the device made it online.
func (c *Client) SendConfig(ctx context.Context, req *ConfigRequest) (string, error) {
	if errs := ValidateConfigRequest(req); len(errs) > 0 {
		return "", NewValidationError(FormatValidationErrors(errs))
	}

	reply, err := c.roundTrip(ctx, req.ToMessage(), func(msg protocol.Message) bool {
		switch msg.(type) {
		case *protocol.Ack, *protocol.ErrorMessage:
			return true
		}
		return false
	})
	if err != nil {
		return "", err
	}

	switch m := reply.(type) {
	case *protocol.Ack:
		logging.Info("Device accepted configuration",
			zap.String("ssid", req.WifiSSID),
			zap.String("relay", req.RelayServer),
		)
		return m.Message, nil
	case *protocol.ErrorMessage:
		return "", NewRejectedError(m.Message)
	default:
		return "", NewConnectionError("unexpected reply to config push", nil)
	}
}

// RequestStatus probes the device and waits for a status push. The
// config channel answers any probe with a full status report.
func (c *Client) RequestStatus(ctx context.Context) (*protocol.Status, error) {
	reply, err := c.roundTrip(ctx, protocol.NewPing(uuid.NewString()), wantStatusOrError)
	if err != nil {
		return nil, err
	}
	return statusOrRejection(reply)
}

// SetVolume sets the device speaker volume (0-100) and waits for the
// confirming status push
func (c *Client) SetVolume(ctx context.Context, volume int) (*protocol.Status, error) {
	if err := ValidateVolume(volume); err != nil {
		return nil, err
	}

	reply, err := c.roundTrip(ctx, volumeCommand(volume), wantStatusOrError)
	if err != nil {
		return nil, err
	}
	return statusOrRejection(reply)
}

func wantStatusOrError(msg protocol.Message) bool {
	switch msg.(type) {
	case *protocol.Status, *protocol.ErrorMessage:
		return true
	}
	return false
}

func statusOrRejection(reply protocol.Message) (*protocol.Status, error) {
	switch m := reply.(type) {
	case *protocol.Status:
		return m, nil
	case *protocol.ErrorMessage:
		return nil, NewRejectedError(m.Message)
	default:
		return nil, NewConnectionError("unexpected reply from device", nil)
	}
}

// roundTrip sends one request and waits for the first reply want
// accepts. Only one request may be in flight on the config channel.
func (c *Client) roundTrip(ctx context.Context, msg protocol.Message, want func(protocol.Message) bool) (protocol.Message, error) {
	pending := &await{ch: make(chan protocol.Message, 1), want: want}

	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return nil, NewBusyError("another request is already in flight")
	}
	c.pending = pending
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.pending == pending {
			c.pending = nil
		}
		c.mu.Unlock()
	}()

	if err := c.channel.Send(msg); err != nil {
		return nil, NewConnectionError("failed to send request to device", err)
	}

	select {
	case reply, ok := <-pending.ch:
		if !ok {
			return nil, NewConnectionError("config channel closed before the device replied", nil)
		}
		return reply, nil
	case <-ctx.Done():
		return nil, NewTimeoutError("device did not reply in time", ctx.Err())
	}
}

// handleMessage routes device traffic: status pushes feed the cache and
// listeners, and any reply the pending request wants settles it
func (c *Client) handleMessage(msg protocol.Message) {
	if status, ok := msg.(*protocol.Status); ok {
		c.mu.Lock()
		c.lastStatus = status
		c.mu.Unlock()
		c.statusListeners.Notify(status)
	}

	if ping, ok := msg.(*protocol.Ping); ok {
		if err := c.channel.Send(protocol.NewPong(ping.ID)); err != nil {
			logging.Debug("Failed to answer device ping", zap.Error(err))
		}
		return
	}

	c.mu.Lock()
	pending := c.pending
	if pending != nil && pending.want(msg) {
		c.pending = nil
	} else {
		pending = nil
	}
	c.mu.Unlock()

	if pending != nil {
		pending.ch <- msg
	}
}

// handleStateChange fails the in-flight request when the channel drops
func (c *Client) handleStateChange(state connection.State) {
	switch state {
	case connection.StateDisconnected, connection.StateError:
		c.mu.Lock()
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()

		if pending != nil {
			close(pending.ch)
		}
	}
}
