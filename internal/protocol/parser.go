package protocol

import (
	"bytes"
	"strings"

	"go.uber.org/zap"

	"github.com/nebaura-labs/motectl/internal/logging"
)

// LineParser reassembles newline-delimited JSON messages from a stream
// that may deliver arbitrary chunk boundaries. It is a pure transformer:
// Feed returns decoded messages in line order and never dispatches
// callbacks itself.
//
// The internal buffer only ever holds the tail fragment after the last
// newline seen. A LineParser is owned by exactly one connection and is
// not safe for concurrent use.
type LineParser struct {
	buf []byte

	parseErrors        int
	validationWarnings int
}

// NewLineParser creates an empty parser
func NewLineParser() *LineParser {
	return &LineParser{}
}

// Feed appends chunk to the buffer and returns every complete, valid
// message terminated by a newline so far, in order.
//
// Malformed lines are counted and skipped; parsing always continues with
// the next line. Blank lines are skipped silently. Trailing content
// without a terminating newline stays buffered until a later Feed
// completes it.
func (p *LineParser) Feed(chunk string) []Message {
	p.buf = append(p.buf, chunk...)

	messages := []Message{}

	for {
		idx := bytes.IndexByte(p.buf, '\n')
		if idx < 0 {
			break
		}

		line := p.buf[:idx]
		// Re-slice rather than re-allocate; the tail is usually short
		p.buf = p.buf[idx+1:]

		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}

		msg, err := Decode([]byte(trimmed))
		if err != nil {
			if IsValidationError(err) {
				p.validationWarnings++
				logging.Warn("Skipping unrecognized wire message",
					zap.Error(err),
					zap.Int("line_length", len(trimmed)),
				)
			} else {
				p.parseErrors++
				logging.Warn("Skipping malformed wire line",
					zap.Error(err),
					zap.Int("line_length", len(trimmed)),
				)
			}
			continue
		}

		messages = append(messages, msg)
	}

	return messages
}

// Reset discards the buffer, including any unterminated fragment.
// Called when a socket closes so a new connection starts clean.
func (p *LineParser) Reset() {
	p.buf = nil
}

// HasIncompleteData reports whether an unterminated fragment is buffered
func (p *LineParser) HasIncompleteData() bool {
	return len(p.buf) > 0
}

// Buffer returns a copy of the buffered tail fragment, for diagnostics
func (p *LineParser) Buffer() string {
	return string(p.buf)
}

// ParseErrorCount returns how many malformed JSON lines were skipped
func (p *LineParser) ParseErrorCount() int {
	return p.parseErrors
}

// ValidationWarningCount returns how many well-formed but unrecognized
// lines were skipped
func (p *LineParser) ValidationWarningCount() int {
	return p.validationWarnings
}
