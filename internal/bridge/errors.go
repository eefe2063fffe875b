package bridge

import "fmt"

// InvokeError is the gateway's rejection of a specific invoke request
type InvokeError struct {
	ID      string // Correlation id of the failed request
	Code    string // Machine-readable error code from the gateway
	Message string // Human-readable explanation
}

// Error implements the error interface
func (e *InvokeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("invoke failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("invoke failed: %s", e.Message)
}

// IsInvokeError checks if an error is a gateway invoke rejection
func IsInvokeError(err error) bool {
	_, ok := err.(*InvokeError)
	return ok
}
