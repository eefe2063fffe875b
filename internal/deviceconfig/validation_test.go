package deviceconfig

import (
	"strings"
	"testing"
)

func TestValidateConfigRequest(t *testing.T) {
	valid := ConfigRequest{
		WifiSSID:     "HomeNet",
		WifiPassword: "hunter22",
		RelayServer:  "gateway.example.com",
		RelayPort:    3000,
	}

	tests := []struct {
		name     string
		mutate   func(r *ConfigRequest)
		wantErrs int
		wantText string
	}{
		{
			name:     "valid request",
			mutate:   func(r *ConfigRequest) {},
			wantErrs: 0,
		},
		{
			name:     "open network with empty password is valid",
			mutate:   func(r *ConfigRequest) { r.WifiPassword = "" },
			wantErrs: 0,
		},
		{
			name:     "empty ssid",
			mutate:   func(r *ConfigRequest) { r.WifiSSID = "" },
			wantErrs: 1,
			wantText: "SSID cannot be empty",
		},
		{
			name:     "ssid too long",
			mutate:   func(r *ConfigRequest) { r.WifiSSID = strings.Repeat("x", 33) },
			wantErrs: 1,
			wantText: "too long",
		},
		{
			name:     "password too short",
			mutate:   func(r *ConfigRequest) { r.WifiPassword = "short" },
			wantErrs: 1,
			wantText: "too short",
		},
		{
			name:     "password too long",
			mutate:   func(r *ConfigRequest) { r.WifiPassword = strings.Repeat("p", 64) },
			wantErrs: 1,
			wantText: "too long",
		},
		{
			name:     "empty relay server",
			mutate:   func(r *ConfigRequest) { r.RelayServer = "" },
			wantErrs: 1,
			wantText: "relay server cannot be empty",
		},
		{
			name:     "relay server with scheme",
			mutate:   func(r *ConfigRequest) { r.RelayServer = "wss://gateway.example.com" },
			wantErrs: 1,
			wantText: "bare hostname",
		},
		{
			name:     "relay server with whitespace",
			mutate:   func(r *ConfigRequest) { r.RelayServer = "gateway example com" },
			wantErrs: 1,
			wantText: "whitespace",
		},
		{
			name:     "port zero",
			mutate:   func(r *ConfigRequest) { r.RelayPort = 0 },
			wantErrs: 1,
			wantText: "1-65535",
		},
		{
			name:     "port too large",
			mutate:   func(r *ConfigRequest) { r.RelayPort = 70000 },
			wantErrs: 1,
		},
		{
			name: "multiple failures all reported",
			mutate: func(r *ConfigRequest) {
				r.WifiSSID = ""
				r.RelayServer = ""
				r.RelayPort = -1
			},
			wantErrs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			errs := ValidateConfigRequest(&req)
			if len(errs) != tt.wantErrs {
				t.Fatalf("got %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}

			if tt.wantText != "" {
				found := false
				for _, err := range errs {
					if !IsValidationError(err) {
						t.Errorf("error is not a validation error: %v", err)
					}
					if strings.Contains(err.Error(), tt.wantText) {
						found = true
					}
				}
				if !found {
					t.Errorf("no error mentions %q: %v", tt.wantText, errs)
				}
			}
		})
	}
}

func TestValidateVolume(t *testing.T) {
	for _, volume := range []int{0, 50, 100} {
		if err := ValidateVolume(volume); err != nil {
			t.Errorf("ValidateVolume(%d) = %v, want nil", volume, err)
		}
	}
	for _, volume := range []int{-1, 101} {
		if err := ValidateVolume(volume); !IsValidationError(err) {
			t.Errorf("ValidateVolume(%d) = %v, want validation error", volume, err)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	if got := FormatValidationErrors(nil); got != "No validation errors" {
		t.Errorf("FormatValidationErrors(nil) = %q", got)
	}

	errs := []error{
		NewValidationError("first problem"),
		NewValidationError("second problem"),
	}
	got := FormatValidationErrors(errs)
	if !strings.Contains(got, "2 error(s)") ||
		!strings.Contains(got, "1. Validation Error: first problem") {
		t.Errorf("FormatValidationErrors() = %q", got)
	}
}

func TestNormalizeDeviceID(t *testing.T) {
	tests := []struct {
		mac  string
		want string
	}{
		{"C4:BE:84:74:86:37", "C4BE84748637"},
		{"c4:be:84:74:86:37", "C4BE84748637"},
		{"C4BE84748637", "C4BE84748637"},
	}
	for _, tt := range tests {
		if got := NormalizeDeviceID(tt.mac); got != tt.want {
			t.Errorf("NormalizeDeviceID(%q) = %q, want %q", tt.mac, got, tt.want)
		}
	}
}
