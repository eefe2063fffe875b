package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered Mote device on the network
type Device struct {
	// DeviceID is the device identifier, its MAC without colons
	// (e.g., "C4BE84748637")
	DeviceID string

	// Hostname is the mDNS hostname (e.g., "mote-C4BE84748637.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.42")
	IP string

	// Port is the config channel port (typically 3000)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("Mote %s (%s) at %s:%d", d.DeviceID, d.Hostname, d.IP, d.Port)
}

// ConfigEndpoint returns the device's WebSocket configuration URL
func (d *Device) ConfigEndpoint() string {
	return fmt.Sprintf("ws://%s:%d/config", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string
// if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
