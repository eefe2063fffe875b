package connection

import (
	"strings"

	"github.com/gorilla/websocket"
)

// CloseClass is the channel's verdict on a peer-initiated close
type CloseClass int

const (
	// CloseClean means the peer finished normally; no reconnect
	CloseClean CloseClass = iota
	// CloseFatal means retrying cannot help (bad credentials, rejected
	// configuration); no reconnect
	CloseFatal
	// CloseRetryable covers everything else: network drops, restarts,
	// abnormal closures
	CloseRetryable
)

// String returns a human-readable name for the close class
func (c CloseClass) String() string {
	switch c {
	case CloseClean:
		return "clean"
	case CloseFatal:
		return "fatal"
	case CloseRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// Reason substrings the gateway and device put in close frames when the
// problem is on our side and a retry would just repeat it.
var fatalReasonMarkers = []string{
	"configuration",
	"Unauthorized",
	"failed",
}

// ClassifyClose maps a close code and reason onto a reconnect decision.
//
// 1000 (normal closure) is always clean, whatever the reason says. For
// any other code, 1011 (internal error) and 1008 (policy violation) are
// fatal, as is a reason text carrying one of the known rejection
// markers. Everything else is retryable.
func ClassifyClose(code int, reason string) CloseClass {
	if code == websocket.CloseNormalClosure {
		return CloseClean
	}

	for _, marker := range fatalReasonMarkers {
		if strings.Contains(reason, marker) {
			return CloseFatal
		}
	}

	switch code {
	case websocket.CloseInternalServerErr, websocket.ClosePolicyViolation:
		return CloseFatal
	default:
		return CloseRetryable
	}
}
