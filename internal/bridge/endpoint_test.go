package bridge

import "testing"

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{
			name:    "https maps to wss with app path",
			baseURL: "https://gateway.example.com",
			want:    "wss://gateway.example.com/ws/app",
		},
		{
			name:    "http maps to ws and keeps the port",
			baseURL: "http://10.0.0.5:3000",
			want:    "ws://10.0.0.5:3000/ws/app",
		},
		{
			name:    "explicit websocket URL passes through",
			baseURL: "wss://gateway.example.com/ws/app",
			want:    "wss://gateway.example.com/ws/app",
		},
		{
			name:    "trailing slash gets the app path",
			baseURL: "https://gateway.example.com/",
			want:    "wss://gateway.example.com/ws/app",
		},
		{
			name:    "custom path is preserved",
			baseURL: "ws://gateway.example.com/relay/v2",
			want:    "ws://gateway.example.com/relay/v2",
		},
		{
			name:    "surrounding whitespace is tolerated",
			baseURL: "  https://gateway.example.com  ",
			want:    "wss://gateway.example.com/ws/app",
		},
		{
			name:    "empty URL rejected",
			baseURL: "",
			wantErr: true,
		},
		{
			name:    "unsupported scheme rejected",
			baseURL: "ftp://gateway.example.com",
			wantErr: true,
		},
		{
			name:    "missing host rejected",
			baseURL: "https://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Endpoint(tt.baseURL)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Endpoint(%q) error = nil, want error", tt.baseURL)
				}
				return
			}

			if err != nil {
				t.Fatalf("Endpoint(%q) error = %v", tt.baseURL, err)
			}
			if got != tt.want {
				t.Errorf("Endpoint(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}
