package deviceconfig

import (
	"fmt"
	"strings"
)

// Error types for device configuration operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConnection indicates the device's config channel could not
	// be reached or dropped mid-operation
	ErrTypeConnection ErrorType = iota
	// ErrTypeTimeout indicates the device did not answer in time
	ErrTypeTimeout
	// ErrTypeRejected indicates the device refused the request
	ErrTypeRejected
	// ErrTypeValidation indicates the request was invalid before it was
	// ever sent
	ErrTypeValidation
	// ErrTypeBusy indicates another request is already in flight on the
	// config channel
	ErrTypeBusy
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConnection:
		return "Connection Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeBusy:
		return "Busy"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while configuring a Mote
// device over its local WebSocket channel
type DeviceError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a channel-level error
func NewConnectionError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeConnection,
		Message: message,
		Err:     err,
	}
}

// NewTimeoutError creates an error for an unanswered request
func NewTimeoutError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeTimeout,
		Message: message,
		Err:     err,
	}
}

// NewRejectedError creates an error for a device-side refusal
func NewRejectedError(message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeRejected,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// NewBusyError creates an error for overlapping requests
func NewBusyError(message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeBusy,
		Message: message,
	}
}

// IsConnectionError checks if an error is a channel-level error
func IsConnectionError(err error) bool {
	if devErr, ok := err.(*DeviceError); ok {
		return devErr.Type == ErrTypeConnection
	}
	return false
}

// IsTimeout checks if an error is an unanswered-request timeout
func IsTimeout(err error) bool {
	if devErr, ok := err.(*DeviceError); ok {
		return devErr.Type == ErrTypeTimeout
	}
	return false
}

// IsRejected checks if an error is a device-side refusal
func IsRejected(err error) bool {
	if devErr, ok := err.(*DeviceError); ok {
		return devErr.Type == ErrTypeRejected
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if devErr, ok := err.(*DeviceError); ok {
		return devErr.Type == ErrTypeValidation
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice
// for an error
func GetTroubleshootingHint(err error) string {
	devErr, ok := err.(*DeviceError)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeConnection:
		return strings.Join([]string{
			"Could not reach the device's configuration channel.",
			"Troubleshooting:",
			"  • Hold the device button for 5 seconds to enter setup mode",
			"  • Join the device's WiFi hotspot (Mote-Setup-XXXX)",
			"  • The config endpoint only exists in setup mode",
			"  • Move closer to the device to improve signal strength",
		}, "\n")

	case ErrTypeTimeout:
		return strings.Join([]string{
			"The device did not respond in time.",
			"Troubleshooting:",
			"  • Check that the device is powered on and charged",
			"  • Verify you're still on the device's WiFi hotspot",
			"  • Try increasing the timeout duration",
		}, "\n")

	case ErrTypeRejected:
		return strings.Join([]string{
			"The device refused the request.",
			"Troubleshooting:",
			"  • Check the WiFi credentials you entered",
			"  • Verify the relay server address and port",
			"  • Try rebooting the device and reconnecting",
		}, "\n")

	case ErrTypeValidation:
		return "The configuration values are invalid. Check the error message for details."

	case ErrTypeBusy:
		return "Another request is still in flight. Wait for it to finish and try again."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	devErr, ok := err.(*DeviceError)
	if !ok {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeConnection:
		return "Device unreachable - is it in setup mode?"
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeRejected:
		return devErr.Message
	case ErrTypeValidation:
		return devErr.Message
	case ErrTypeBusy:
		return "Device busy with another request"
	default:
		return devErr.Message
	}
}
