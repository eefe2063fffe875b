package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantID     string
		wantIP     string
		wantPort   int
		wantMetaFW string
	}{
		{
			name: "mote device with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "mote-C4BE84748637.local.",
				Port:     3000,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.42")},
				Text:     []string{"fw=1.2.0", "setup"},
			},
			wantID:     "C4BE84748637",
			wantIP:     "192.168.1.42",
			wantPort:   3000,
			wantMetaFW: "1.2.0",
		},
		{
			name: "lowercase hostname and id normalized",
			entry: &zeroconf.ServiceEntry{
				HostName: "mote-c4be84748637.local",
				Port:     3000,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.9")},
			},
			wantID:   "C4BE84748637",
			wantIP:   "10.0.0.9",
			wantPort: 3000,
		},
		{
			name: "missing port falls back to default",
			entry: &zeroconf.ServiceEntry{
				HostName: "mote-C4BE84748637.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.42")},
			},
			wantID:   "C4BE84748637",
			wantIP:   "192.168.1.42",
			wantPort: DefaultPort,
		},
		{
			name: "unrelated service ignored",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.3")},
			},
			wantNil: true,
		},
		{
			name: "mote without any address ignored",
			entry: &zeroconf.ServiceEntry{
				HostName: "mote-C4BE84748637.local.",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Fatalf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil")
			}
			if device.DeviceID != tt.wantID {
				t.Errorf("DeviceID = %q, want %q", device.DeviceID, tt.wantID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", device.Port, tt.wantPort)
			}
			if tt.wantMetaFW != "" && device.GetMetadata("fw") != tt.wantMetaFW {
				t.Errorf("fw metadata = %q, want %q", device.GetMetadata("fw"), tt.wantMetaFW)
			}
			if device.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt not set")
			}
		})
	}
}

func TestDevice_ConfigEndpoint(t *testing.T) {
	d := &Device{DeviceID: "C4BE84748637", IP: "192.168.1.42", Port: 3000}
	if got := d.ConfigEndpoint(); got != "ws://192.168.1.42:3000/config" {
		t.Errorf("ConfigEndpoint() = %q", got)
	}
}
