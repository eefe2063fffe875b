package deviceconfig

import (
	"fmt"
	"strings"
)

// ValidateWiFiSSID validates a WiFi SSID.
// SSIDs must be non-empty and <= 32 bytes (WiFi spec limit).
func ValidateWiFiSSID(ssid string) error {
	if ssid == "" {
		return NewValidationError("WiFi SSID cannot be empty")
	}
	if len(ssid) > 32 {
		return NewValidationError(fmt.Sprintf("WiFi SSID too long (max 32 chars): %d chars", len(ssid)))
	}
	return nil
}

// ValidateWiFiPassword validates a WiFi password.
// Empty means an open network; otherwise WPA2 requires 8-63 characters.
func ValidateWiFiPassword(password string) error {
	if password == "" {
		return nil
	}
	if len(password) < 8 {
		return NewValidationError(fmt.Sprintf("WPA2 password too short (min 8 chars): %d chars", len(password)))
	}
	if len(password) > 63 {
		return NewValidationError(fmt.Sprintf("WPA2 password too long (max 63 chars): %d chars", len(password)))
	}
	return nil
}

// ValidateRelayServer validates the gateway hostname or IP address.
// Basic validation: non-empty, reasonable length, no scheme, no
// whitespace.
func ValidateRelayServer(server string) error {
	if server == "" {
		return NewValidationError("relay server cannot be empty")
	}
	if len(server) > 253 {
		return NewValidationError(fmt.Sprintf("relay server too long (max 253 chars): %d chars", len(server)))
	}
	if strings.ContainsAny(server, " \t\n\r") {
		return NewValidationError("relay server contains invalid whitespace characters")
	}
	if strings.Contains(server, "://") {
		return NewValidationError("relay server should be a bare hostname or IP, not a URL")
	}
	return nil
}

// ValidateRelayPort validates the gateway port number.
// Valid range: 1-65535
func ValidateRelayPort(port int) error {
	if port <= 0 || port > 65535 {
		return NewValidationError(fmt.Sprintf("relay port must be 1-65535, got %d", port))
	}
	return nil
}

// ValidateVolume validates a device volume level.
// Valid range: 0-100
func ValidateVolume(volume int) error {
	if volume < 0 || volume > 100 {
		return NewValidationError(fmt.Sprintf("volume must be 0-100, got %d", volume))
	}
	return nil
}

// ValidateConfigRequest validates a complete bootstrap request.
// This is the main validation entry point before anything is sent.
// Returns a slice of validation errors (empty if valid).
func ValidateConfigRequest(req *ConfigRequest) []error {
	var errors []error

	if err := ValidateWiFiSSID(req.WifiSSID); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateWiFiPassword(req.WifiPassword); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateRelayServer(req.RelayServer); err != nil {
		errors = append(errors, err)
	}
	if err := ValidateRelayPort(req.RelayPort); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// FormatValidationErrors formats a slice of validation errors into a
// user-friendly message.
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return sb.String()
}
