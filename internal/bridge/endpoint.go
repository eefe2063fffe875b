package bridge

import (
	"fmt"
	"net/url"
	"strings"
)

// AppPath is the gateway's WebSocket path for companion app sessions
const AppPath = "/ws/app"

// Endpoint derives the bridge WebSocket URL from the gateway base URL.
// HTTP schemes map onto their WebSocket equivalents so the same value
// works whether it came from an API config or was typed by hand:
//
//	https://gateway.example.com      -> wss://gateway.example.com/ws/app
//	http://10.0.0.5:3000             -> ws://10.0.0.5:3000/ws/app
//	wss://gateway.example.com/ws/app -> unchanged
func Endpoint(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return "", fmt.Errorf("gateway URL is empty")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid gateway URL %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a WebSocket URL
	default:
		return "", fmt.Errorf("unsupported gateway URL scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("gateway URL %q has no host", baseURL)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = AppPath
	}

	return u.String(), nil
}
