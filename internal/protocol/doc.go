// Package protocol implements the Mote wire protocol.
//
// This package handles framing, parsing, validation, and construction of
// the newline-delimited JSON messages exchanged with the Gateway relay
// and with a Mote device's local configuration endpoint. It has no
// knowledge of transports: connections feed it text and send the lines
// it produces.
//
// # Wire Format
//
// Messages are UTF-8, single-line JSON objects terminated by '\n'. A
// message never contains an unescaped newline. The stream may deliver
// arbitrary chunk boundaries, including splits in the middle of an
// object, so LineParser buffers the unterminated tail between feeds:
//
//	{"type":"ping","id":"123"}\n
//	{"type":"status","deviceId":"C4BE84748637",...}\n
//
// # Message Kinds
//
// Messages are discriminated by the "type" field:
//   - hello, ack: session greeting and pairing credentials (bridge)
//   - ping, pong: liveness probes with a correlation id
//   - invoke, result, error: correlated request/response (bridge)
//   - status: device state report (battery, WiFi, gateway linkage)
//   - config: WiFi + gateway bootstrap payload (app to device)
//
// Well-formed messages with an unrecognized type decode into Unknown
// and are passed through for forward compatibility. A bare {id} object
// with no type is accepted as a probe reply.
//
// # Usage Example - Parsing
//
//	parser := protocol.NewLineParser()
//	for _, msg := range parser.Feed(chunk) {
//	    switch m := msg.(type) {
//	    case *protocol.Status:
//	        fmt.Println("battery:", m.BatteryPercent)
//	    case *protocol.Ping:
//	        reply, _ := protocol.Encode(protocol.NewPong(m.ID))
//	        conn.Write(reply)
//	    }
//	}
//
// # Error Recovery
//
// Parser-level errors never escape the parser. A malformed line is
// counted, logged at warn level, and skipped; parsing continues with the
// next line in the same feed. Callers inspect ParseErrorCount and
// ValidationWarningCount for diagnostics.
package protocol
