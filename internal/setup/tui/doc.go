// Package tui implements the interactive setup wizard for Mote devices.
//
// The wizard is a small Bubble Tea application following the Elm
// architecture: a single Model walks through four phases (form, applying,
// success, failure). The form collects WiFi credentials and the relay
// target using bubbles/textinput fields, validates them with the
// deviceconfig validators, and pushes the configuration to the device's
// setup-mode WebSocket via deviceconfig.Client.
//
// All phases render through RenderApplicationContainer for a consistent
// frame with header, content area, and context-sensitive footer.
//
// # Usage Example
//
//	defaults := tui.Defaults{RelayServer: "relay.example.com", RelayPort: 443}
//	if err := tui.Run(deviceconfig.DefaultEndpoint, defaults); err != nil {
//	    log.Fatal(err)
//	}
//
// WiFi passwords entered in the wizard are sent to the device and never
// persisted locally.
package tui
