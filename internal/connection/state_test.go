package connection

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{StatePaired, "paired"},
		{StateError, "error"},
		{State(42), "State(42)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestState_CanSend(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, false},
		{StateConnecting, false},
		{StateConnected, true},
		{StatePaired, true},
		{StateError, false},
	}

	for _, tt := range tests {
		if got := tt.state.CanSend(); got != tt.want {
			t.Errorf("%s.CanSend() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateDisconnected, false},
		{StateConnecting, true},
		{StateConnected, true},
		{StatePaired, true},
		{StateError, false},
	}

	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%s.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
