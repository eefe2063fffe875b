package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nebaura-labs/motectl/internal/logging"
	"github.com/nebaura-labs/motectl/internal/protocol"
)

const (
	// DefaultHandshakeTimeout bounds the WebSocket dial
	DefaultHandshakeTimeout = 10 * time.Second

	// closeWriteTimeout bounds the best-effort close frame on Disconnect
	closeWriteTimeout = 1 * time.Second
)

// TokenProvider supplies the auth token injected into the endpoint URL
// at dial time. It is called once per attempt so a refreshed token is
// picked up on reconnect.
type TokenProvider func() (string, error)

// Options configures a Client
type Options struct {
	// Endpoint is the ws:// or wss:// URL to dial
	Endpoint string

	// Name labels the channel in logs and error messages
	// (e.g. "bridge", "device")
	Name string

	// Token, when set, is appended to the endpoint as a token query
	// parameter on every dial
	Token TokenProvider

	// Policy controls automatic redial after retryable failures
	Policy ReconnectPolicy

	// Dialer overrides the WebSocket dialer (tests use this)
	Dialer *websocket.Dialer
}

// Client is a state-tracking WebSocket channel speaking the
// newline-delimited JSON protocol. It owns the dial/redial lifecycle:
// callers observe it through the state, message, and error listeners and
// through the blocking Connect call.
//
// A Client is reusable: after a clean close, a fatal error, or
// Disconnect, a later Connect starts a fresh session.
type Client struct {
	opts Options

	mu          sync.Mutex
	state       State
	conn        *websocket.Conn
	parser      *protocol.LineParser
	generation  int         // bumped per Connect/Disconnect; stale socket callbacks check it
	attempt     int         // failed attempts in the current connecting phase
	manualClose bool
	lastErr     error
	connectDone chan error // single-shot completion for the pending Connect
	reconnect   *time.Timer

	messageListeners *ListenerSet[protocol.Message]
	stateListeners   *ListenerSet[State]
	errorListeners   *ListenerSet[error]
}

// NewClient creates a channel for the given endpoint. The channel starts
// disconnected; nothing touches the network until Connect.
func NewClient(opts Options) *Client {
	if opts.Name == "" {
		opts.Name = "channel"
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{HandshakeTimeout: DefaultHandshakeTimeout}
	}

	return &Client{
		opts:             opts,
		state:            StateDisconnected,
		parser:           protocol.NewLineParser(),
		messageListeners: NewListenerSet[protocol.Message](),
		stateListeners:   NewListenerSet[State](),
		errorListeners:   NewListenerSet[error](),
	}
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the most recent channel error, or nil
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// OnMessage registers a listener for every decoded inbound message.
// The returned closure unsubscribes; calling it twice is harmless.
func (c *Client) OnMessage(fn func(protocol.Message)) func() {
	return c.messageListeners.Add(fn)
}

// OnStateChange registers a listener for lifecycle transitions
func (c *Client) OnStateChange(fn func(State)) func() {
	return c.stateListeners.Add(fn)
}

// OnError registers a listener for asynchronous channel errors (socket
// drops, fatal closes). Synchronous errors are returned, not dispatched.
func (c *Client) OnError(fn func(error)) func() {
	return c.errorListeners.Add(fn)
}

// Connect dials the endpoint and blocks until the channel is connected,
// fails fatally, exhausts its reconnect budget, or ctx expires. It
// completes exactly once per call; later reconnect cycles are observable
// only through the listeners.
//
// Calling Connect on an active channel returns an AlreadyActive error
// without touching the existing session.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state.IsActive() {
		state := c.state
		c.mu.Unlock()
		return NewAlreadyActiveError(fmt.Sprintf("%s channel is already %s", c.opts.Name, state))
	}

	c.generation++
	gen := c.generation
	c.state = StateConnecting
	c.manualClose = false
	c.attempt = 0
	c.lastErr = nil
	done := make(chan error, 1)
	c.connectDone = done
	c.mu.Unlock()

	logging.LogConnection(c.opts.Endpoint, "connecting")
	c.stateListeners.Notify(StateConnecting)

	go c.dial(gen)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		c.Disconnect()
		return NewCanceledError(ctx.Err())
	}
}

// Disconnect closes the channel with a normal close frame and cancels
// any pending redial. Safe to call in any state, any number of times.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}

	c.manualClose = true
	c.generation++ // invalidates in-flight dials and stale socket callbacks
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	conn := c.conn
	c.conn = nil
	c.parser.Reset()
	c.state = StateDisconnected
	done := c.connectDone
	c.connectDone = nil
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(closeWriteTimeout)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}

	if done != nil {
		done <- NewCanceledError(errors.New("disconnected before the session was established"))
	}

	logging.LogConnection(c.opts.Endpoint, "disconnected")
	c.stateListeners.Notify(StateDisconnected)
}

// Send encodes msg and writes it as one text frame. Fails immediately
// when the channel cannot send; nothing is queued.
func (c *Client) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if !c.state.CanSend() || c.conn == nil {
		c.mu.Unlock()
		return NewNotConnectedError(fmt.Sprintf("%s channel is not connected", c.opts.Name))
	}
	conn := c.conn
	c.mu.Unlock()

	logging.LogWireMessage(c.opts.Endpoint, "send", string(data))

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return NewNetworkError("failed to send message", err)
	}
	return nil
}

// MarkPaired promotes a connected channel to paired once the session
// handshake completes. Only valid from StateConnected.
func (c *Client) MarkPaired() error {
	c.mu.Lock()
	if c.state != StateConnected {
		state := c.state
		c.mu.Unlock()
		return NewNotConnectedError(fmt.Sprintf("cannot mark paired: %s channel is %s", c.opts.Name, state))
	}
	c.state = StatePaired
	c.mu.Unlock()

	c.stateListeners.Notify(StatePaired)
	return nil
}

// dial performs one connection attempt for the given generation
func (c *Client) dial(gen int) {
	target := c.opts.Endpoint

	if c.opts.Token != nil {
		token, err := c.opts.Token()
		if err != nil {
			c.fail(gen, NewAuthTokenError("failed to obtain auth token", err))
			return
		}
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + "token=" + url.QueryEscape(token)
	}

	conn, resp, err := c.opts.Dialer.Dial(target, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.fail(gen, NewAuthTokenError(
				fmt.Sprintf("handshake rejected (HTTP %d)", resp.StatusCode), err))
			return
		}
		c.retryOrFail(gen, NewNetworkError("dial failed", err))
		return
	}

	c.mu.Lock()
	if gen != c.generation || c.manualClose {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.attempt = 0
	c.parser.Reset()
	done := c.connectDone
	c.connectDone = nil
	c.mu.Unlock()

	if done != nil {
		done <- nil
	}

	logging.LogConnection(c.opts.Endpoint, "connected")
	c.stateListeners.Notify(StateConnected)

	go c.readLoop(gen, conn)
}

// readLoop owns the inbound side of one socket. It exits when the socket
// errors; reconnect decisions happen in handleSocketClose.
func (c *Client) readLoop(gen int, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			code, reason := closeDetails(err)
			c.handleSocketClose(gen, conn, code, reason, err)
			return
		}

		logging.LogWireMessage(c.opts.Endpoint, "recv", string(data))

		c.mu.Lock()
		current := gen == c.generation && c.conn == conn
		var msgs []protocol.Message
		if current {
			msgs = c.parser.Feed(string(data))
		}
		c.mu.Unlock()

		if !current {
			return
		}

		for _, msg := range msgs {
			c.messageListeners.Notify(msg)
		}
	}
}

// handleSocketClose classifies a socket loss and drives the state
// machine: clean close parks the channel, fatal close goes to StateError,
// anything else schedules a redial.
func (c *Client) handleSocketClose(gen int, conn *websocket.Conn, code int, reason string, cause error) {
	_ = conn.Close()

	c.mu.Lock()
	if gen != c.generation || c.conn != conn {
		// A newer session owns the channel; this socket is history
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.parser.Reset()

	if c.manualClose {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.stateListeners.Notify(StateDisconnected)
		return
	}

	class := ClassifyClose(code, reason)
	logging.Debug("Socket closed",
		zap.String("endpoint", c.opts.Endpoint),
		zap.Int("code", code),
		zap.String("reason", reason),
		zap.String("class", class.String()),
	)

	switch class {
	case CloseClean:
		c.state = StateDisconnected
		c.mu.Unlock()
		logging.LogConnection(c.opts.Endpoint, "closed")
		c.stateListeners.Notify(StateDisconnected)

	case CloseFatal:
		c.mu.Unlock()
		c.fail(gen, NewFatalCloseError(code, reason))

	default:
		c.state = StateConnecting
		c.mu.Unlock()
		c.stateListeners.Notify(StateConnecting)
		c.retryOrFail(gen, NewNetworkError("connection lost", cause))
	}
}

// retryOrFail either schedules the next dial under the backoff policy or
// gives up and fails the channel
func (c *Client) retryOrFail(gen int, cause *ChannelError) {
	c.mu.Lock()
	if gen != c.generation || c.manualClose {
		c.mu.Unlock()
		return
	}
	c.lastErr = cause

	if c.opts.Policy.Exhausted(c.attempt) {
		c.mu.Unlock()
		if c.opts.Policy.Enabled {
			c.fail(gen, NewRetryExhaustedError(c.attempt, cause))
		} else {
			c.fail(gen, cause)
		}
		return
	}

	delay := c.opts.Policy.Delay(c.attempt)
	c.attempt++
	attempt := c.attempt
	c.reconnect = time.AfterFunc(delay, func() { c.redial(gen) })
	c.mu.Unlock()

	logging.Debug("Scheduling reconnect",
		zap.String("endpoint", c.opts.Endpoint),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)
	c.errorListeners.Notify(cause)
}

// redial runs a scheduled reconnect attempt if the session is still
// current
func (c *Client) redial(gen int) {
	c.mu.Lock()
	if gen != c.generation || c.manualClose || c.state != StateConnecting {
		c.mu.Unlock()
		return
	}
	c.reconnect = nil
	c.mu.Unlock()

	c.dial(gen)
}

// fail moves the channel to StateError and delivers err to the pending
// Connect (if any) and to the error listeners
func (c *Client) fail(gen int, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.state = StateError
	c.lastErr = err
	done := c.connectDone
	c.connectDone = nil
	c.mu.Unlock()

	if done != nil {
		done <- err
	}

	logging.Warn("Channel failed",
		zap.String("endpoint", c.opts.Endpoint),
		zap.Error(err),
	)
	c.errorListeners.Notify(err)
	c.stateListeners.Notify(StateError)
}

// closeDetails extracts the close code and reason from a read error.
// Non-close errors (reset, timeout) map to abnormal closure.
func closeDetails(err error) (int, string) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code, closeErr.Text
	}
	return websocket.CloseAbnormalClosure, ""
}
