package connection

import "time"

const (
	// DefaultBaseDelay is the delay before the first reconnect attempt
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxDelay caps the exponential backoff
	DefaultMaxDelay = 30 * time.Second

	// DefaultMaxAttempts is the default reconnect budget. Zero means
	// retry forever.
	DefaultMaxAttempts = 0
)

// ReconnectPolicy controls automatic redial after a retryable failure.
// The delay before attempt k (zero-based) is min(BaseDelay*2^k, MaxDelay).
type ReconnectPolicy struct {
	// Enabled turns automatic reconnection on. When false the channel
	// reports the failure and goes to StateError instead of redialing.
	Enabled bool

	// BaseDelay is the delay before the first attempt
	BaseDelay time.Duration

	// MaxDelay caps the backoff growth
	MaxDelay time.Duration

	// MaxAttempts is the reconnect budget; 0 means unlimited
	MaxAttempts int
}

// DefaultPolicy returns the policy used by the bridge channel: retry
// forever with capped exponential backoff.
func DefaultPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		Enabled:     true,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// NoReconnect returns a policy that never redials. Used for single-shot
// channels like the device configuration probe.
func NoReconnect() ReconnectPolicy {
	return ReconnectPolicy{Enabled: false}
}

// Delay returns the wait before the given zero-based attempt
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Exhausted reports whether the given zero-based attempt exceeds the
// budget
func (p ReconnectPolicy) Exhausted(attempt int) bool {
	if !p.Enabled {
		return true
	}
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}
