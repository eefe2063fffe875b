package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nebaura-labs/motectl/internal/connection"
	"github.com/nebaura-labs/motectl/internal/logging"
	"github.com/nebaura-labs/motectl/internal/protocol"
)

// notConnectedMessage is the stable error text callers match on
const notConnectedMessage = "Bridge client not connected"

// Pairing holds the session credentials the gateway hands out once the
// bridge channel is accepted
type Pairing struct {
	ServerID     string
	PairingToken string
}

// Options configures a bridge Client
type Options struct {
	// GatewayURL is the gateway base URL; Endpoint derives the
	// WebSocket target from it
	GatewayURL string

	// DeviceID is the identity announced in the hello greeting
	DeviceID string

	// Token supplies the auth token injected into every dial
	Token connection.TokenProvider

	// Policy controls reconnection; nil means DefaultPolicy
	Policy *connection.ReconnectPolicy

	// Dialer overrides the WebSocket dialer (tests use this)
	Dialer *websocket.Dialer
}

// Client is the persistent channel between the app and the cloud
// gateway. On top of the reconnecting connection it runs the pairing
// handshake, answers liveness probes, and correlates invoke requests
// with their replies.
//
// Listeners survive reconnect cycles: a registration stays active until
// its removal closure is called, regardless of how many sessions come
// and go underneath.
type Client struct {
	channel  *connection.Client
	deviceID string

	mu      sync.Mutex
	pairing *Pairing
	pending map[string]chan protocol.Message

	pairedListeners *connection.ListenerSet[Pairing]
}

// NewClient creates a bridge client for the given gateway. Nothing
// touches the network until Connect.
//
// The gateway channel is always authenticated: a nil Token provider is
// rejected here rather than dialing tokenless and bouncing off the
// gateway's 401.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == nil {
		return nil, connection.NewAuthTokenError("gateway channel requires an auth token", nil)
	}

	endpoint, err := Endpoint(opts.GatewayURL)
	if err != nil {
		return nil, err
	}

	policy := connection.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	c := &Client{
		deviceID:        opts.DeviceID,
		pending:         make(map[string]chan protocol.Message),
		pairedListeners: connection.NewListenerSet[Pairing](),
	}

	c.channel = connection.NewClient(connection.Options{
		Endpoint: endpoint,
		Name:     "bridge",
		Token:    opts.Token,
		Policy:   policy,
		Dialer:   opts.Dialer,
	})

	c.channel.OnMessage(c.handleMessage)
	c.channel.OnStateChange(c.handleStateChange)

	return c, nil
}

// Connect dials the gateway and blocks until the socket is open, the
// failure is fatal, or ctx expires. Pairing completes asynchronously;
// observe it through OnPaired or ServerID.
func (c *Client) Connect(ctx context.Context) error {
	return c.channel.Connect(ctx)
}

// Disconnect closes the channel and drops the pairing
func (c *Client) Disconnect() {
	c.channel.Disconnect()
}

// State returns the channel's lifecycle state
func (c *Client) State() connection.State {
	return c.channel.State()
}

// SendMessage writes one message to the gateway. Fails when the channel
// is not open; nothing is queued for later.
func (c *Client) SendMessage(msg protocol.Message) error {
	if !c.channel.State().CanSend() {
		return connection.NewNotConnectedError(notConnectedMessage)
	}
	return c.channel.Send(msg)
}

// ServerID returns the paired gateway's id. ok is false until pairing
// completes and again after the session drops.
func (c *Client) ServerID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pairing == nil {
		return "", false
	}
	return c.pairing.ServerID, true
}

// PairingToken returns the session pairing token, if paired
func (c *Client) PairingToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pairing == nil {
		return "", false
	}
	return c.pairing.PairingToken, true
}

// OnMessage registers a listener for every inbound gateway message.
// The returned closure unsubscribes; calling it twice is harmless.
func (c *Client) OnMessage(fn func(protocol.Message)) func() {
	return c.channel.OnMessage(fn)
}

// OnStateChange registers a listener for channel state transitions
func (c *Client) OnStateChange(fn func(connection.State)) func() {
	return c.channel.OnStateChange(fn)
}

// OnError registers a listener for asynchronous channel errors
func (c *Client) OnError(fn func(error)) func() {
	return c.channel.OnError(fn)
}

// OnPaired registers a listener for pairing completion. It fires once
// per session, after the gateway hands out the session credentials.
func (c *Client) OnPaired(fn func(Pairing)) func() {
	return c.pairedListeners.Add(fn)
}

// Invoke sends a correlated request and waits for the gateway's reply.
// The correlation id is generated here; a gateway error reply comes back
// as *InvokeError, a dropped session as a not-connected error.
func (c *Client) Invoke(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := uuid.NewString()

	msg, err := protocol.NewInvoke(id, method, params)
	if err != nil {
		return nil, err
	}

	ch := c.register(id)
	defer c.unregister(id)

	if err := c.SendMessage(msg); err != nil {
		return nil, err
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, connection.NewNotConnectedError(notConnectedMessage)
		}
		switch r := reply.(type) {
		case *protocol.Result:
			return r.Payload, nil
		case *protocol.ErrorMessage:
			return nil, &InvokeError{ID: r.ID, Code: r.Code, Message: r.Message}
		default:
			return nil, fmt.Errorf("unexpected reply kind %s for invoke %s", reply.Kind(), id)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("invoke %s: %w", method, ctx.Err())
	}
}

// Ping measures gateway round-trip time over the bridge channel
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	id := uuid.NewString()

	ch := c.register(id)
	defer c.unregister(id)

	start := time.Now()
	if err := c.SendMessage(protocol.NewPing(id)); err != nil {
		return 0, err
	}

	select {
	case _, ok := <-ch:
		if !ok {
			return 0, connection.NewNotConnectedError(notConnectedMessage)
		}
		return time.Since(start), nil
	case <-ctx.Done():
		return 0, fmt.Errorf("ping: %w", ctx.Err())
	}
}

// register creates the reply slot for a correlation id
func (c *Client) register(id string) chan protocol.Message {
	ch := make(chan protocol.Message, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	return ch
}

// unregister drops a reply slot; safe after the slot was already
// consumed or closed
func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// handleMessage routes inbound gateway traffic: pairing credentials,
// liveness probes, and correlated replies. Everything else belongs to
// the caller's message listeners.
func (c *Client) handleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case *protocol.Hello:
		if m.ServerID != "" || m.PairingToken != "" {
			c.completePairing(m.ServerID, m.PairingToken)
		}

	case *protocol.Ack:
		if m.ServerID != "" || m.PairingToken != "" {
			c.completePairing(m.ServerID, m.PairingToken)
		}

	case *protocol.Ping:
		if err := c.SendMessage(protocol.NewPong(m.ID)); err != nil {
			logging.Debug("Failed to answer gateway ping", zap.Error(err))
		}

	case *protocol.Pong:
		c.deliver(m.ID, m)

	case *protocol.Result:
		c.deliver(m.ID, m)

	case *protocol.ErrorMessage:
		if m.ID != "" {
			c.deliver(m.ID, m)
		} else {
			logging.Warn("Gateway reported channel error",
				zap.String("code", m.Code),
				zap.String("message", m.Message),
			)
		}
	}
}

// handleStateChange keeps pairing and pending invokes consistent with
// the channel lifecycle
func (c *Client) handleStateChange(state connection.State) {
	switch state {
	case connection.StateConnected:
		// Greet the gateway; pairing credentials come back in the reply
		if err := c.channel.Send(protocol.NewHello(c.deviceID)); err != nil {
			logging.Warn("Failed to send hello greeting", zap.Error(err))
		}

	case connection.StateConnecting, connection.StateDisconnected, connection.StateError:
		c.teardownSession()
	}
}

// completePairing stores the credentials and promotes the channel.
// Fires the paired listeners once per session.
func (c *Client) completePairing(serverID, token string) {
	c.mu.Lock()
	if c.pairing != nil {
		// Duplicate credentials in one session; keep the first
		c.mu.Unlock()
		return
	}
	pairing := Pairing{ServerID: serverID, PairingToken: token}
	c.pairing = &pairing
	c.mu.Unlock()

	if err := c.channel.MarkPaired(); err != nil {
		logging.Debug("Pairing arrived on inactive channel", zap.Error(err))
		return
	}

	logging.Info("Paired with gateway", zap.String("server_id", serverID))
	c.pairedListeners.Notify(pairing)
}

// deliver hands a correlated reply to its waiting caller. Replies with
// no waiter are dropped; the caller gave up or never existed.
func (c *Client) deliver(id string, msg protocol.Message) {
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if ok {
		ch <- msg
	}
}

// teardownSession drops the pairing and fails every pending invoke
func (c *Client) teardownSession() {
	c.mu.Lock()
	c.pairing = nil
	pending := c.pending
	c.pending = make(map[string]chan protocol.Message)
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
}
