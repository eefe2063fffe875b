package deviceconfig

import (
	"fmt"
	"strings"

	"github.com/nebaura-labs/motectl/internal/protocol"
)

// ConfigRequest is the bootstrap payload sent to a device in setup mode:
// the WiFi network it should join and the relay gateway it should dial
// once online.
type ConfigRequest struct {
	// WifiSSID is the network the device will join (max 32 chars)
	WifiSSID string

	// WifiPassword is the WPA2 passphrase; empty means an open network
	WifiPassword string

	// RelayServer is the gateway hostname or IP the device will connect
	// to after joining WiFi
	RelayServer string

	// RelayPort is the gateway WebSocket port
	RelayPort int
}

// ToMessage converts the request to its wire form
func (r *ConfigRequest) ToMessage() *protocol.Config {
	return protocol.NewConfig(r.WifiSSID, r.WifiPassword, r.RelayServer, r.RelayPort)
}

// IsOpenNetwork reports whether the request targets an open WiFi network
func (r *ConfigRequest) IsOpenNetwork() bool {
	return r.WifiPassword == ""
}

// String returns a credential-safe summary of the request
func (r *ConfigRequest) String() string {
	security := "WPA2"
	if r.IsOpenNetwork() {
		security = "open"
	}
	return fmt.Sprintf("ConfigRequest{ssid=%s (%s), relay=%s:%d}",
		r.WifiSSID, security, r.RelayServer, r.RelayPort)
}

// volumeCommand is the raw volume payload the device understands. It has
// no type tag, so it goes out as an Unknown message.
func volumeCommand(volume int) protocol.Message {
	return &protocol.Unknown{
		Type: "volume",
		Raw:  []byte(fmt.Sprintf(`{"volume":%d}`, volume)),
	}
}

// NormalizeDeviceID strips the colons from a MAC address, yielding the
// id the device reports in status messages.
// Example: "C4:BE:84:74:86:37" -> "C4BE84748637"
func NormalizeDeviceID(mac string) string {
	return strings.ToUpper(strings.ReplaceAll(mac, ":", ""))
}
