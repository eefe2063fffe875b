// Package bridge implements the persistent channel between the app and
// the cloud gateway.
//
// The gateway relays between companion apps and Mote devices that have
// joined it. The bridge client rides on internal/connection for dialing
// and reconnection, and adds the gateway session semantics:
//
//   - Pairing: after the socket opens the client sends a hello greeting;
//     the gateway answers with the session credentials (server id and
//     pairing token), which promotes the channel to the paired state.
//     Credentials are held only while the session lasts.
//   - Liveness: inbound pings are answered automatically; Ping measures
//     round-trip time to the gateway.
//   - Invoke: correlated request/response with generated ids. Replies
//     are matched to waiting callers; a gateway error reply surfaces as
//     *InvokeError.
//
// # Usage Example
//
//	client, err := bridge.NewClient(bridge.Options{
//	    GatewayURL: "https://gateway.example.com",
//	    DeviceID:   "app-1234",
//	    Token:      tokenFromKeychain,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	client.OnPaired(func(p bridge.Pairing) {
//	    fmt.Println("paired with", p.ServerID)
//	})
//
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//
// Reconnects after a dropped session are automatic; the pairing
// handshake runs again on each new socket and OnPaired fires once per
// session.
package bridge
