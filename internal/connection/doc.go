// Package connection provides the reconnecting WebSocket channel both
// protocol clients are built on.
//
// A Client owns one endpoint's lifecycle: dialing, the read loop,
// classifying closes, and redialing with capped exponential backoff. It
// decodes the newline-delimited JSON stream through internal/protocol
// and hands typed messages to listeners; it knows nothing about pairing
// or device configuration semantics.
//
// # State Machine
//
// A channel is always in exactly one of five states:
//
//	disconnected -> connecting -> connected -> paired
//	                     |             |
//	                     +--> error <--+
//
// connecting covers both an in-flight dial and the backoff wait between
// attempts. paired is reached only via MarkPaired, which the bridge
// client calls after its session handshake. error is terminal until the
// next Connect.
//
// # Close Classification
//
// When the peer closes the socket the channel decides whether to retry:
// a normal closure (1000) parks the channel in disconnected; internal
// error (1011), policy violation (1008), and close reasons carrying a
// known rejection marker are fatal; everything else redials under the
// ReconnectPolicy with delay min(BaseDelay*2^k, MaxDelay).
//
// # Usage Example
//
//	client := connection.NewClient(connection.Options{
//	    Endpoint: "wss://gateway.example.com/ws/app",
//	    Name:     "bridge",
//	    Token:    func() (string, error) { return store.Token() },
//	    Policy:   connection.DefaultPolicy(),
//	})
//	defer client.Disconnect()
//
//	remove := client.OnMessage(func(msg protocol.Message) { ... })
//	defer remove()
//
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//
// Connect blocks until the first terminal outcome of the session: open,
// fatal failure, spent retry budget, or context expiry. Reconnect cycles
// after that are visible only through the state and error listeners.
package connection
