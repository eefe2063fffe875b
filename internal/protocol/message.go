package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the discriminated message variant carried in the
// wire-level "type" field.
type Kind string

// Message kinds used across the bridge and device-configuration channels.
const (
	KindHello  Kind = "hello"
	KindPing   Kind = "ping"
	KindPong   Kind = "pong"
	KindInvoke Kind = "invoke"
	KindResult Kind = "result"
	KindError  Kind = "error"
	KindAck    Kind = "ack"
	KindStatus Kind = "status"
	KindConfig Kind = "config"

	// KindUnknown tags well-formed messages whose "type" value is not
	// recognized. They are passed through for forward compatibility
	// rather than dropped.
	KindUnknown Kind = "unknown"
)

// Message is a decoded wire message.
type Message interface {
	Kind() Kind
	String() string
}

// Hello is the session greeting sent by the gateway once the bridge
// channel authenticates. It may carry the pairing credentials.
type Hello struct {
	Type         Kind   `json:"type"`
	ServerID     string `json:"serverId,omitempty"`
	PairingToken string `json:"pairingToken,omitempty"`
	DeviceID     string `json:"deviceId,omitempty"`
}

func (m *Hello) Kind() Kind { return KindHello }

func (m *Hello) String() string {
	token := "[absent]"
	if m.PairingToken != "" {
		token = "[set]"
	}
	return fmt.Sprintf("Hello{serverId=%s, pairingToken=%s}", m.ServerID, token)
}

// Ping is a lightweight liveness probe. Either peer may send it; the
// device's config server replies with a status push instead of a pong.
type Ping struct {
	Type Kind   `json:"type"`
	ID   string `json:"id"`
}

func (m *Ping) Kind() Kind     { return KindPing }
func (m *Ping) String() string { return fmt.Sprintf("Ping{id=%s}", m.ID) }

// Pong answers a Ping with the same correlation id.
type Pong struct {
	Type Kind   `json:"type,omitempty"`
	ID   string `json:"id"`
}

func (m *Pong) Kind() Kind     { return KindPong }
func (m *Pong) String() string { return fmt.Sprintf("Pong{id=%s}", m.ID) }

// Invoke is a correlated request sent over the bridge channel. The
// payload semantics belong to the gateway; this layer only routes it.
type Invoke struct {
	Type   Kind            `json:"type"`
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

func (m *Invoke) Kind() Kind { return KindInvoke }

func (m *Invoke) String() string {
	return fmt.Sprintf("Invoke{id=%s, method=%s, params=%d bytes}", m.ID, m.Method, len(m.Params))
}

// Result carries the successful response to a previous Invoke.
type Result struct {
	Type    Kind            `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (m *Result) Kind() Kind { return KindResult }

func (m *Result) String() string {
	return fmt.Sprintf("Result{id=%s, payload=%d bytes}", m.ID, len(m.Payload))
}

// ErrorMessage reports a peer-side failure. When ID is set it answers a
// previous Invoke; otherwise it is a channel-level error.
type ErrorMessage struct {
	Type    Kind   `json:"type"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (m *ErrorMessage) Kind() Kind { return KindError }

func (m *ErrorMessage) String() string {
	return fmt.Sprintf("Error{id=%s, code=%s, message=%q}", m.ID, m.Code, m.Message)
}

// Ack acknowledges a request without a payload. The gateway's pairing
// ack carries the session credentials; the device's config ack carries a
// human-readable progress message.
type Ack struct {
	Type         Kind   `json:"type"`
	Message      string `json:"message,omitempty"`
	Success      bool   `json:"success,omitempty"`
	ServerID     string `json:"serverId,omitempty"`
	PairingToken string `json:"pairingToken,omitempty"`
}

func (m *Ack) Kind() Kind { return KindAck }

func (m *Ack) String() string {
	return fmt.Sprintf("Ack{success=%v, message=%q}", m.Success, m.Message)
}

// Status is the device's state report, pushed on connect and after each
// configuration step. Optional fields are absent (not null) when the
// device has nothing to report for them.
type Status struct {
	Type              Kind    `json:"type"`
	DeviceID          string  `json:"deviceId"`
	FirmwareVersion   string  `json:"firmwareVersion"`
	BatteryPercent    int     `json:"batteryPercent"`
	BatteryVoltage    float64 `json:"batteryVoltage,omitempty"`
	Volume            int     `json:"volume"`
	WifiConfigured    bool    `json:"wifiConfigured"`
	WifiConnected     bool    `json:"wifiConnected"`
	WifiSSID          string  `json:"wifiSsid,omitempty"`
	GatewayConfigured bool    `json:"gatewayConfigured"`
	GatewayConnected  *bool   `json:"gatewayConnected,omitempty"`
	GatewayServer     string  `json:"gatewayServer,omitempty"`
	GatewayPort       int     `json:"gatewayPort,omitempty"`
}

func (m *Status) Kind() Kind { return KindStatus }

func (m *Status) String() string {
	return fmt.Sprintf("Status{deviceId=%s, fw=%s, battery=%d%%, wifi=%v, gateway=%v}",
		m.DeviceID, m.FirmwareVersion, m.BatteryPercent, m.WifiConnected, m.GatewayConfigured)
}

// Config is the bootstrap payload the app sends to the device's config
// endpoint: WiFi credentials plus the gateway the device should join.
type Config struct {
	Type            Kind   `json:"type"`
	WifiSSID        string `json:"wifiSsid"`
	WifiPassword    string `json:"wifiPassword,omitempty"`
	WebsocketServer string `json:"websocketServer"`
	WebsocketPort   int    `json:"websocketPort"`
}

func (m *Config) Kind() Kind { return KindConfig }

func (m *Config) String() string {
	return fmt.Sprintf("Config{ssid=%s, server=%s:%d}", m.WifiSSID, m.WebsocketServer, m.WebsocketPort)
}

// Unknown is the fallback for well-formed messages with an unrecognized
// type tag.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (m *Unknown) Kind() Kind { return KindUnknown }

func (m *Unknown) String() string {
	return fmt.Sprintf("Unknown{type=%s, len=%d}", m.Type, len(m.Raw))
}

// envelope is the minimal probe used to discriminate an incoming line.
type envelope struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Decode parses one wire line into its typed message variant.
//
// Objects with a recognized "type" decode into the matching variant and
// are checked for their required fields. Objects with an unrecognized
// type decode into Unknown. Objects with no type at all are accepted
// only in the bare {id, ...} probe-reply shape.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewParseError("invalid JSON line", err)
	}

	if env.Type == "" {
		// Bare {id} probe reply
		if env.ID == "" {
			return nil, NewValidationError("message has neither type nor id")
		}
		return &Pong{ID: env.ID}, nil
	}

	switch Kind(env.Type) {
	case KindHello:
		var m Hello
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed hello message", err)
		}
		return &m, nil

	case KindPing:
		var m Ping
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed ping message", err)
		}
		if m.ID == "" {
			return nil, NewValidationError("ping message missing id")
		}
		return &m, nil

	case KindPong:
		var m Pong
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed pong message", err)
		}
		if m.ID == "" {
			return nil, NewValidationError("pong message missing id")
		}
		return &m, nil

	case KindInvoke:
		var m Invoke
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed invoke message", err)
		}
		if m.ID == "" || m.Method == "" {
			return nil, NewValidationError("invoke message missing id or method")
		}
		return &m, nil

	case KindResult:
		var m Result
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed result message", err)
		}
		if m.ID == "" {
			return nil, NewValidationError("result message missing id")
		}
		return &m, nil

	case KindError:
		var m ErrorMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed error message", err)
		}
		if m.Message == "" {
			return nil, NewValidationError("error message missing message text")
		}
		return &m, nil

	case KindAck:
		var m Ack
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed ack message", err)
		}
		return &m, nil

	case KindStatus:
		var m Status
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed status message", err)
		}
		if m.DeviceID == "" {
			return nil, NewValidationError("status message missing deviceId")
		}
		return &m, nil

	case KindConfig:
		var m Config
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewParseError("malformed config message", err)
		}
		if m.WifiSSID == "" {
			return nil, NewValidationError("config message missing wifiSsid")
		}
		if m.WebsocketServer == "" {
			return nil, NewValidationError("config message missing websocketServer")
		}
		return &m, nil

	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return &Unknown{Type: env.Type, Raw: raw}, nil
	}
}

// Encode serializes a message as a single newline-terminated JSON line,
// the unit of the wire protocol. Unknown messages re-emit their raw
// bytes unchanged.
func Encode(m Message) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if u, ok := m.(*Unknown); ok {
		data = u.Raw
	} else {
		data, err = json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s message: %w", m.Kind(), err)
		}
	}

	return append(data, '\n'), nil
}
