package config

import "time"

// Registry is the root configuration structure persisted to disk. It
// stores connection targets and user-defined device metadata only;
// WiFi passwords and auth tokens are never written here.
type Registry struct {
	// Version is the config schema version (currently 1)
	Version int `yaml:"version"`

	// Gateway is the relay gateway the bridge client connects to
	Gateway *GatewayConfig `yaml:"gateway,omitempty"`

	// Devices maps device id to user-defined metadata
	Devices map[string]*Device `yaml:"devices"`

	// Preferences stores application-wide settings
	Preferences *Preferences `yaml:"preferences"`
}

// GatewayConfig identifies the relay gateway
type GatewayConfig struct {
	// URL is the gateway base URL (e.g., "https://gateway.example.com")
	URL string `yaml:"url"`

	// AppID is the identity announced when the bridge connects
	AppID string `yaml:"app_id,omitempty"`
}

// Device stores user-defined metadata for a known Mote device
type Device struct {
	// Nickname is the user-friendly device name
	Nickname string `yaml:"nickname,omitempty"`

	// LastIP is the last address the device was seen at on the home
	// network
	LastIP string `yaml:"last_ip,omitempty"`

	// LastSeen is when the device was last discovered or contacted
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// Preferences stores application-wide settings
type Preferences struct {
	// AutoDiscover enables mDNS discovery before commands that need a
	// device
	AutoDiscover bool `yaml:"auto_discover"`

	// DiscoverTimeout is the mDNS scan timeout in seconds
	DiscoverTimeout int `yaml:"discover_timeout"`
}

// NewRegistry creates a registry with default settings
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
		},
	}
}

// GetDevice returns the metadata for a device id, or nil if unknown
func (r *Registry) GetDevice(deviceID string) *Device {
	if r.Devices == nil {
		return nil
	}
	return r.Devices[deviceID]
}

// RememberDevice records where a device was last seen, creating its
// entry if needed
func (r *Registry) RememberDevice(deviceID, ip string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	device := r.Devices[deviceID]
	if device == nil {
		device = &Device{}
		r.Devices[deviceID] = device
	}
	device.LastIP = ip
	device.LastSeen = time.Now()
	return device
}
