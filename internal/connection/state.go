package connection

import "fmt"

// State is the lifecycle state of a WebSocket channel. Transitions are
// driven only by Connect/Disconnect calls and socket events, never by
// listeners.
type State int

const (
	// StateDisconnected is the initial state, and the state after a clean
	// close or a manual Disconnect
	StateDisconnected State = iota
	// StateConnecting covers both an in-flight dial and the wait between
	// reconnect attempts
	StateConnecting
	// StateConnected means the socket is open and the channel can send
	StateConnected
	// StatePaired means the session handshake completed on top of an open
	// socket (bridge channel only)
	StatePaired
	// StateError is terminal until the next Connect: a fatal close or a
	// spent reconnect budget
	StateError
)

// String returns the lowercase wire-friendly name of the state
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StatePaired:
		return "paired"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// CanSend reports whether the channel accepts outbound messages in this
// state
func (s State) CanSend() bool {
	return s == StateConnected || s == StatePaired
}

// IsActive reports whether the channel is doing work (dialing, waiting
// to redial, or open)
func (s State) IsActive() bool {
	return s == StateConnecting || s == StateConnected || s == StatePaired
}
