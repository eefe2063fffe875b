// Package deviceconfig bootstraps Mote devices over their local
// configuration channel.
//
// A device that has no WiFi credentials (or whose button was held to
// re-enter setup) starts its own hotspot and serves a WebSocket config
// endpoint at ws://192.168.4.1:3000/config. This package implements the
// client side of that channel: push WiFi credentials and the relay
// gateway target, probe the device's status, and adjust its volume.
//
// The channel is transient. Once the device accepts a configuration it
// reboots into station mode and the hotspot disappears; the client's
// retry budget exists to survive the shaky seconds right after joining
// the hotspot, not to maintain a session.
//
// # Usage Example
//
//	client := deviceconfig.NewClient("") // default setup-mode endpoint
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	msg, err := client.SendConfig(ctx, &deviceconfig.ConfigRequest{
//	    WifiSSID:     "HomeNet",
//	    WifiPassword: "hunter22",
//	    RelayServer:  "gateway.example.com",
//	    RelayPort:    3000,
//	})
//
// # Request Model
//
// The channel has no correlation ids, so requests run one at a time:
// a second request while one is in flight fails with a Busy error.
// Status pushes arrive unsolicited too (the device sends one on connect
// and after each configuration step); watch them with OnStatus.
package deviceconfig
