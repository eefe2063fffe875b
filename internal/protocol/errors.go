package protocol

import "fmt"

// ErrorType represents the category of wire error that occurred
type ErrorType int

const (
	// ErrTypeParse indicates a malformed JSON line
	ErrTypeParse ErrorType = iota
	// ErrTypeValidation indicates well-formed JSON with an unusable shape
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// WireError represents a recoverable error on a single wire line. The
// parser records these and keeps going; they never abort the stream.
type WireError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *WireError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *WireError) Unwrap() error {
	return e.Err
}

// NewParseError creates a parse-level error for a malformed JSON line
func NewParseError(message string, err error) *WireError {
	return &WireError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error for an unrecognized shape
func NewValidationError(message string) *WireError {
	return &WireError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// IsParseError checks if an error is a wire parse error
func IsParseError(err error) bool {
	if wireErr, ok := err.(*WireError); ok {
		return wireErr.Type == ErrTypeParse
	}
	return false
}

// IsValidationError checks if an error is a wire validation error
func IsValidationError(err error) bool {
	if wireErr, ok := err.(*WireError); ok {
		return wireErr.Type == ErrTypeValidation
	}
	return false
}
