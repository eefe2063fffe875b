package connection

import "fmt"

// Error types for WebSocket channel operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNotConnected indicates a send was attempted on a channel
	// that is not currently open
	ErrTypeNotConnected ErrorType = iota
	// ErrTypeAlreadyActive indicates Connect was called while the channel
	// was already connecting or connected
	ErrTypeAlreadyActive
	// ErrTypeAuthToken indicates the auth token could not be obtained
	ErrTypeAuthToken
	// ErrTypeNetwork indicates a network-level dial or socket failure
	ErrTypeNetwork
	// ErrTypeFatalClose indicates the peer closed the channel in a way
	// that must not be retried
	ErrTypeFatalClose
	// ErrTypeRetryExhausted indicates the reconnect budget ran out
	ErrTypeRetryExhausted
	// ErrTypeCanceled indicates the caller's context expired while waiting
	ErrTypeCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNotConnected:
		return "Not Connected"
	case ErrTypeAlreadyActive:
		return "Already Active"
	case ErrTypeAuthToken:
		return "Auth Token Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeFatalClose:
		return "Fatal Close"
	case ErrTypeRetryExhausted:
		return "Retry Exhausted"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ChannelError represents an error raised by a WebSocket channel. Errors
// surfaced synchronously (bad arguments, send while closed) and errors
// surfaced through the error listeners (socket failures mid-session) use
// the same type so callers have one taxonomy to inspect.
type ChannelError struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	CloseCode int       // WebSocket close code (if the peer closed)
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether the channel will retry after this error
}

// Error implements the error interface
func (e *ChannelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ChannelError) Unwrap() error {
	return e.Err
}

// NewNotConnectedError creates an error for operations that require an
// open channel
func NewNotConnectedError(message string) *ChannelError {
	return &ChannelError{
		Type:    ErrTypeNotConnected,
		Message: message,
	}
}

// NewAlreadyActiveError creates an error for redundant Connect calls
func NewAlreadyActiveError(message string) *ChannelError {
	return &ChannelError{
		Type:    ErrTypeAlreadyActive,
		Message: message,
	}
}

// NewAuthTokenError creates an error for auth token acquisition failures.
// Never retryable: retrying will not produce a token.
func NewAuthTokenError(message string, err error) *ChannelError {
	return &ChannelError{
		Type:    ErrTypeAuthToken,
		Message: message,
		Err:     err,
	}
}

// NewNetworkError creates a retryable dial or socket error
func NewNetworkError(message string, err error) *ChannelError {
	return &ChannelError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewFatalCloseError creates an error for a close the channel must not
// retry
func NewFatalCloseError(closeCode int, reason string) *ChannelError {
	msg := fmt.Sprintf("channel closed by peer (code %d)", closeCode)
	if reason != "" {
		msg = fmt.Sprintf("channel closed by peer (code %d): %s", closeCode, reason)
	}
	return &ChannelError{
		Type:      ErrTypeFatalClose,
		Message:   msg,
		CloseCode: closeCode,
	}
}

// NewRetryExhaustedError creates an error for a spent reconnect budget
func NewRetryExhaustedError(attempts int, lastErr error) *ChannelError {
	return &ChannelError{
		Type:    ErrTypeRetryExhausted,
		Message: fmt.Sprintf("gave up after %d attempts", attempts),
		Err:     lastErr,
	}
}

// NewCanceledError wraps a context expiry while waiting for the channel
func NewCanceledError(err error) *ChannelError {
	return &ChannelError{
		Type:    ErrTypeCanceled,
		Message: "connect canceled",
		Err:     err,
	}
}

// IsNotConnected checks if an error is a not-connected error
func IsNotConnected(err error) bool {
	if chErr, ok := err.(*ChannelError); ok {
		return chErr.Type == ErrTypeNotConnected
	}
	return false
}

// IsAuthTokenError checks if an error is an auth token error
func IsAuthTokenError(err error) bool {
	if chErr, ok := err.(*ChannelError); ok {
		return chErr.Type == ErrTypeAuthToken
	}
	return false
}

// IsFatalClose checks if an error is a fatal close
func IsFatalClose(err error) bool {
	if chErr, ok := err.(*ChannelError); ok {
		return chErr.Type == ErrTypeFatalClose
	}
	return false
}

// IsRetryExhausted checks if an error is a spent reconnect budget
func IsRetryExhausted(err error) bool {
	if chErr, ok := err.(*ChannelError); ok {
		return chErr.Type == ErrTypeRetryExhausted
	}
	return false
}

// IsRetryable checks if the channel will keep trying after this error
func IsRetryable(err error) bool {
	if chErr, ok := err.(*ChannelError); ok {
		return chErr.Retryable
	}
	return false
}
