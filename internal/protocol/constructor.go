package protocol

import (
	"encoding/json"
	"fmt"
)

// Outbound message constructors. These are the only supported way to
// build messages for sending; they guarantee the type tag is set so
// Encode produces a recognizable line.

// NewPing builds a liveness probe with the given correlation id
func NewPing(id string) *Ping {
	return &Ping{Type: KindPing, ID: id}
}

// NewPong builds the reply to a received Ping
func NewPong(id string) *Pong {
	return &Pong{Type: KindPong, ID: id}
}

// NewHello builds the client greeting announcing this device/app identity
func NewHello(deviceID string) *Hello {
	return &Hello{Type: KindHello, DeviceID: deviceID}
}

// NewInvoke builds a correlated request. params may be nil for
// parameterless methods; any other value is JSON-encoded.
func NewInvoke(id, method string, params any) (*Invoke, error) {
	if id == "" {
		return nil, NewValidationError("invoke requires a correlation id")
	}
	if method == "" {
		return nil, NewValidationError("invoke requires a method name")
	}

	msg := &Invoke{Type: KindInvoke, ID: id, Method: method}

	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode invoke params: %w", err)
		}
		msg.Params = raw
	}

	return msg, nil
}

// NewResult builds the successful reply to a received Invoke
func NewResult(id string, payload any) (*Result, error) {
	if id == "" {
		return nil, NewValidationError("result requires a correlation id")
	}

	msg := &Result{Type: KindResult, ID: id}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result payload: %w", err)
		}
		msg.Payload = raw
	}

	return msg, nil
}

// NewErrorMessage builds a peer-visible error report. id may be empty
// for channel-level errors.
func NewErrorMessage(id, code, message string) *ErrorMessage {
	return &ErrorMessage{Type: KindError, ID: id, Code: code, Message: message}
}

// NewConfig builds the device bootstrap payload. wifiPassword may be
// empty for open networks.
func NewConfig(wifiSSID, wifiPassword, websocketServer string, websocketPort int) *Config {
	return &Config{
		Type:            KindConfig,
		WifiSSID:        wifiSSID,
		WifiPassword:    wifiPassword,
		WebsocketServer: websocketServer,
		WebsocketPort:   websocketPort,
	}
}
