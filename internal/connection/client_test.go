package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nebaura-labs/motectl/internal/protocol"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsServer wraps an httptest server whose handler upgrades every request
// and hands the socket to serve.
func wsServer(t *testing.T, serve func(conn *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		serve(conn, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// drain reads until the socket errors, keeping the server side open
func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func waitForState(t *testing.T, c *Client, want State) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", c.State(), want)
}

func fastPolicy(maxAttempts int) ReconnectPolicy {
	return ReconnectPolicy{
		Enabled:     true,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
		MaxAttempts: maxAttempts,
	}
}

func TestClient_ConnectAndDisconnect(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) { drain(conn) })

	client := NewClient(Options{Endpoint: wsURL(srv), Name: "test", Policy: NoReconnect()})

	var mu sync.Mutex
	var states []State
	client.OnStateChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if client.State() != StateConnected {
		t.Fatalf("state = %s, want connected", client.State())
	}

	client.Disconnect()
	waitForState(t, client, StateDisconnected)

	mu.Lock()
	defer mu.Unlock()
	if len(states) < 3 || states[0] != StateConnecting || states[1] != StateConnected {
		t.Errorf("state sequence = %v, want connecting, connected, disconnected", states)
	}
}

func TestClient_ConnectWhileActive(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) { drain(conn) })

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: NoReconnect()})
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("second Connect() error = nil, want AlreadyActive")
	}
	chErr, ok := err.(*ChannelError)
	if !ok || chErr.Type != ErrTypeAlreadyActive {
		t.Errorf("error = %v, want AlreadyActive", err)
	}
}

func TestClient_SendRequiresConnection(t *testing.T) {
	client := NewClient(Options{Endpoint: "ws://127.0.0.1:1/nope", Name: "test"})

	err := client.Send(protocol.NewPing("1"))
	if !IsNotConnected(err) {
		t.Errorf("Send() before connect error = %v, want NotConnected", err)
	}
}

func TestClient_TokenInjection(t *testing.T) {
	gotToken := make(chan string, 1)
	srv := wsServer(t, func(conn *websocket.Conn, r *http.Request) {
		gotToken <- r.URL.Query().Get("token")
		drain(conn)
	})

	client := NewClient(Options{
		Endpoint: wsURL(srv),
		Policy:   NoReconnect(),
		Token:    func() (string, error) { return "secret token+chars", nil },
	})
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	select {
	case token := <-gotToken:
		if token != "secret token+chars" {
			t.Errorf("server saw token %q", token)
		}
	case <-time.After(time.Second):
		t.Fatal("server never saw the handshake")
	}
}

func TestClient_ReceivesMessages(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("{\"type\":\"ping\",\"id\":\"from-server\"}\n"))
		drain(conn)
	})

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: NoReconnect()})
	defer client.Disconnect()

	received := make(chan protocol.Message, 1)
	client.OnMessage(func(msg protocol.Message) { received <- msg })

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	select {
	case msg := <-received:
		ping, ok := msg.(*protocol.Ping)
		if !ok || ping.ID != "from-server" {
			t.Errorf("received %v, want ping from-server", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestClient_CleanCloseDoesNotReconnect(t *testing.T) {
	var dials int
	var mu sync.Mutex
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) {
		mu.Lock()
		dials++
		mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		drain(conn)
	})

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: fastPolicy(0)})
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	waitForState(t, client, StateDisconnected)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if dials != 1 {
		t.Errorf("server saw %d dials after clean close, want 1", dials)
	}
}

func TestClient_FatalCloseStopsRetrying(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthorized"),
			time.Now().Add(time.Second))
		drain(conn)
	})

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: fastPolicy(0)})
	defer client.Disconnect()

	errs := make(chan error, 4)
	client.OnError(func(err error) { errs <- err })

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	waitForState(t, client, StateError)

	select {
	case err := <-errs:
		if !IsFatalClose(err) {
			t.Errorf("error = %v, want fatal close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("no error dispatched")
	}
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	var dials int
	var mu sync.Mutex
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) {
		mu.Lock()
		dials++
		n := dials
		mu.Unlock()
		if n == 1 {
			// Drop without a close frame; the client sees an abnormal
			// closure and must redial
			_ = conn.Close()
			return
		}
		drain(conn)
	})

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: fastPolicy(0)})
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := dials
		mu.Unlock()
		if n >= 2 && client.State() == StateConnected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client never re-established the session (dials=%d, state=%s)", dials, client.State())
}

func TestClient_RetryBudgetExhausted(t *testing.T) {
	// Nothing listens here; every dial fails
	client := NewClient(Options{
		Endpoint: "ws://127.0.0.1:1/unreachable",
		Policy:   fastPolicy(2),
	})

	err := client.Connect(context.Background())
	if !IsRetryExhausted(err) {
		t.Fatalf("Connect() error = %v, want retry exhausted", err)
	}
	if client.State() != StateError {
		t.Errorf("state = %s, want error", client.State())
	}
}

func TestClient_ConnectHonorsContext(t *testing.T) {
	client := NewClient(Options{
		Endpoint: "ws://127.0.0.1:1/unreachable",
		Policy:   DefaultPolicy(), // would retry forever
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Connect(ctx)
	chErr, ok := err.(*ChannelError)
	if !ok || chErr.Type != ErrTypeCanceled {
		t.Fatalf("Connect() error = %v, want canceled", err)
	}
	waitForState(t, client, StateDisconnected)
}

func TestClient_AuthTokenFailureIsFatal(t *testing.T) {
	client := NewClient(Options{
		Endpoint: "ws://127.0.0.1:1/unreachable",
		Policy:   DefaultPolicy(),
		Token:    func() (string, error) { return "", context.DeadlineExceeded },
	})

	err := client.Connect(context.Background())
	if !IsAuthTokenError(err) {
		t.Fatalf("Connect() error = %v, want auth token error", err)
	}
	if client.State() != StateError {
		t.Errorf("state = %s, want error", client.State())
	}
}

func TestClient_MarkPaired(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) { drain(conn) })

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: NoReconnect()})
	defer client.Disconnect()

	if err := client.MarkPaired(); !IsNotConnected(err) {
		t.Errorf("MarkPaired() before connect error = %v, want NotConnected", err)
	}

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.MarkPaired(); err != nil {
		t.Fatalf("MarkPaired() error = %v", err)
	}
	if client.State() != StatePaired {
		t.Errorf("state = %s, want paired", client.State())
	}

	// Paired channels still send
	if err := client.Send(protocol.NewPing("p")); err != nil {
		t.Errorf("Send() while paired error = %v", err)
	}
}

func TestClient_DisconnectIsIdempotent(t *testing.T) {
	client := NewClient(Options{Endpoint: "ws://127.0.0.1:1/unreachable"})

	client.Disconnect()
	client.Disconnect()

	if client.State() != StateDisconnected {
		t.Errorf("state = %s, want disconnected", client.State())
	}
}

func TestClient_NoOpDisconnectDoesNotNotify(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) { drain(conn) })

	client := NewClient(Options{Endpoint: wsURL(srv), Policy: NoReconnect()})

	var mu sync.Mutex
	var disconnects int
	client.OnStateChange(func(s State) {
		if s == StateDisconnected {
			mu.Lock()
			disconnects++
			mu.Unlock()
		}
	})

	// Disconnecting an already-disconnected channel is a no-op transition
	client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	client.Disconnect()
	client.Disconnect()
	waitForState(t, client, StateDisconnected)

	mu.Lock()
	defer mu.Unlock()
	if disconnects != 1 {
		t.Errorf("disconnected notifications = %d, want 1", disconnects)
	}
}

func TestClient_ReusableAfterError(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn, _ *http.Request) { drain(conn) })

	client := NewClient(Options{
		Endpoint: "ws://127.0.0.1:1/unreachable",
		Policy:   NoReconnect(),
	})

	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("Connect() to unreachable endpoint succeeded")
	}
	waitForState(t, client, StateError)

	// Point at a live server and try again
	client.opts.Endpoint = wsURL(srv)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() after error = %v", err)
	}
	if client.State() != StateConnected {
		t.Errorf("state = %s, want connected", client.State())
	}
}
