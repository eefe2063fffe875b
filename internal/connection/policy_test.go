package connection

import (
	"testing"
	"time"
)

func TestReconnectPolicy_Delay(t *testing.T) {
	tests := []struct {
		name    string
		policy  ReconnectPolicy
		attempt int
		want    time.Duration
	}{
		{
			name:    "first attempt uses base delay",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
			attempt: 0,
			want:    time.Second,
		},
		{
			name:    "second attempt doubles",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
			attempt: 1,
			want:    2 * time.Second,
		},
		{
			name:    "fourth attempt is base times eight",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
			attempt: 3,
			want:    8 * time.Second,
		},
		{
			name:    "growth caps at max delay",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
			attempt: 10,
			want:    30 * time.Second,
		},
		{
			name:    "base above cap clamps to cap",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Minute, MaxDelay: 30 * time.Second},
			attempt: 0,
			want:    30 * time.Second,
		},
		{
			name:    "negative attempt treated as zero",
			policy:  ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: 30 * time.Second},
			attempt: -1,
			want:    time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Delay(tt.attempt); got != tt.want {
				t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestReconnectPolicy_Exhausted(t *testing.T) {
	unlimited := DefaultPolicy()
	for _, attempt := range []int{0, 1, 100} {
		if unlimited.Exhausted(attempt) {
			t.Errorf("unlimited policy Exhausted(%d) = true", attempt)
		}
	}

	budget := ReconnectPolicy{Enabled: true, BaseDelay: time.Second, MaxDelay: time.Minute, MaxAttempts: 3}
	for attempt, want := range map[int]bool{0: false, 2: false, 3: true, 4: true} {
		if got := budget.Exhausted(attempt); got != want {
			t.Errorf("budget Exhausted(%d) = %v, want %v", attempt, got, want)
		}
	}

	disabled := NoReconnect()
	if !disabled.Exhausted(0) {
		t.Error("disabled policy Exhausted(0) = false, want true")
	}
}
