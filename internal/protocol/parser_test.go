package protocol

import (
	"fmt"
	"testing"
)

func TestLineParser_Feed(t *testing.T) {
	tests := []struct {
		name       string
		chunks     []string
		wantCounts []int // messages returned per chunk
		verify     func(t *testing.T, p *LineParser, all []Message)
	}{
		{
			name:       "single complete ping",
			chunks:     []string{"{\"type\":\"ping\",\"id\":\"123\"}\n"},
			wantCounts: []int{1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				ping, ok := all[0].(*Ping)
				if !ok {
					t.Fatalf("message type = %T, want *Ping", all[0])
				}
				if ping.ID != "123" {
					t.Errorf("ping id = %q, want %q", ping.ID, "123")
				}
				if p.HasIncompleteData() {
					t.Error("HasIncompleteData() = true after complete line")
				}
			},
		},
		{
			name:       "message split across two feeds",
			chunks:     []string{"{\"type\":\"pi", "ng\",\"id\":\"123\"}\n"},
			wantCounts: []int{0, 1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if all[0].Kind() != KindPing {
					t.Errorf("kind = %s, want ping", all[0].Kind())
				}
			},
		},
		{
			name:       "invalid line then valid line in one feed",
			chunks:     []string{"not valid json\n{\"type\":\"ping\",\"id\":\"1\"}\n"},
			wantCounts: []int{1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if p.ParseErrorCount() != 1 {
					t.Errorf("ParseErrorCount() = %d, want 1", p.ParseErrorCount())
				}
			},
		},
		{
			name:       "blank lines never produce output",
			chunks:     []string{"\n\n{\"type\":\"ping\",\"id\":\"1\"}\n\n"},
			wantCounts: []int{1},
		},
		{
			name:       "whitespace-only line skipped silently",
			chunks:     []string{"   \t \n{\"type\":\"pong\",\"id\":\"9\"}\n"},
			wantCounts: []int{1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if p.ParseErrorCount() != 0 {
					t.Errorf("ParseErrorCount() = %d, want 0", p.ParseErrorCount())
				}
			},
		},
		{
			name:       "many messages in one feed preserve order",
			chunks:     []string{"{\"type\":\"ping\",\"id\":\"a\"}\n{\"type\":\"ping\",\"id\":\"b\"}\n{\"type\":\"ping\",\"id\":\"c\"}\n"},
			wantCounts: []int{3},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				want := []string{"a", "b", "c"}
				for i, msg := range all {
					if msg.(*Ping).ID != want[i] {
						t.Errorf("message %d id = %q, want %q", i, msg.(*Ping).ID, want[i])
					}
				}
			},
		},
		{
			name:       "trailing content without newline never parsed",
			chunks:     []string{"{\"type\":\"ping\",\"id\":\"1\"}"},
			wantCounts: []int{0},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if !p.HasIncompleteData() {
					t.Error("HasIncompleteData() = false, want true")
				}
				if p.Buffer() != "{\"type\":\"ping\",\"id\":\"1\"}" {
					t.Errorf("Buffer() = %q", p.Buffer())
				}
			},
		},
		{
			name:       "unrecognized shape skipped with warning",
			chunks:     []string{"{\"flavor\":\"strawberry\"}\n"},
			wantCounts: []int{0},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if p.ValidationWarningCount() != 1 {
					t.Errorf("ValidationWarningCount() = %d, want 1", p.ValidationWarningCount())
				}
			},
		},
		{
			name:       "unknown type passed through as Unknown",
			chunks:     []string{"{\"type\":\"telemetry.v2\",\"x\":1}\n"},
			wantCounts: []int{1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				u, ok := all[0].(*Unknown)
				if !ok {
					t.Fatalf("message type = %T, want *Unknown", all[0])
				}
				if u.Type != "telemetry.v2" {
					t.Errorf("unknown type = %q, want telemetry.v2", u.Type)
				}
			},
		},
		{
			name:       "bare id object accepted as probe reply",
			chunks:     []string{"{\"id\":\"42\"}\n"},
			wantCounts: []int{1},
			verify: func(t *testing.T, p *LineParser, all []Message) {
				if all[0].Kind() != KindPong {
					t.Errorf("kind = %s, want pong", all[0].Kind())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLineParser()
			var all []Message

			for i, chunk := range tt.chunks {
				msgs := p.Feed(chunk)
				if len(msgs) != tt.wantCounts[i] {
					t.Errorf("feed %d returned %d messages, want %d", i, len(msgs), tt.wantCounts[i])
				}
				all = append(all, msgs...)
			}

			if tt.verify != nil {
				tt.verify(t, p, all)
			}
		})
	}
}

// TestLineParser_ArbitraryChunking verifies the core framing property:
// any valid message sequence fed in arbitrary chunk sizes yields exactly
// that sequence, in order.
func TestLineParser_ArbitraryChunking(t *testing.T) {
	var stream string
	wantIDs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("msg-%02d", i)
		wantIDs = append(wantIDs, id)
		stream += fmt.Sprintf("{\"type\":\"ping\",\"id\":%q}\n", id)
	}

	for _, chunkSize := range []int{1, 2, 3, 7, 16, 64, len(stream)} {
		t.Run(fmt.Sprintf("chunk_size_%d", chunkSize), func(t *testing.T) {
			p := NewLineParser()
			var got []Message

			for start := 0; start < len(stream); start += chunkSize {
				end := start + chunkSize
				if end > len(stream) {
					end = len(stream)
				}
				got = append(got, p.Feed(stream[start:end])...)
			}

			if len(got) != len(wantIDs) {
				t.Fatalf("got %d messages, want %d", len(got), len(wantIDs))
			}
			for i, msg := range got {
				ping, ok := msg.(*Ping)
				if !ok {
					t.Fatalf("message %d type = %T, want *Ping", i, msg)
				}
				if ping.ID != wantIDs[i] {
					t.Errorf("message %d id = %q, want %q", i, ping.ID, wantIDs[i])
				}
			}
			if p.HasIncompleteData() {
				t.Error("HasIncompleteData() = true after full stream")
			}
		})
	}
}

func TestLineParser_SplitIncompleteThenComplete(t *testing.T) {
	p := NewLineParser()

	first := p.Feed("{\"type\":\"pi")
	if len(first) != 0 {
		t.Fatalf("first feed returned %d messages, want 0", len(first))
	}
	if !p.HasIncompleteData() {
		t.Error("HasIncompleteData() = false after partial feed, want true")
	}

	second := p.Feed("ng\",\"id\":\"123\"}\n")
	if len(second) != 1 {
		t.Fatalf("second feed returned %d messages, want 1", len(second))
	}
	if p.HasIncompleteData() {
		t.Error("HasIncompleteData() = true after completing line, want false")
	}

	ping := second[0].(*Ping)
	if ping.ID != "123" {
		t.Errorf("id = %q, want 123", ping.ID)
	}
}

func TestLineParser_Reset(t *testing.T) {
	p := NewLineParser()
	p.Feed("{\"type\":\"pi")

	if !p.HasIncompleteData() {
		t.Fatal("expected buffered fragment before reset")
	}

	p.Reset()

	if p.HasIncompleteData() {
		t.Error("HasIncompleteData() = true after Reset()")
	}
	if p.Buffer() != "" {
		t.Errorf("Buffer() = %q after Reset(), want empty", p.Buffer())
	}

	// The discarded fragment must not corrupt subsequent parsing
	msgs := p.Feed("{\"type\":\"ping\",\"id\":\"new\"}\n")
	if len(msgs) != 1 {
		t.Fatalf("feed after reset returned %d messages, want 1", len(msgs))
	}
}

func TestLineParser_IntrospectionDoesNotMutate(t *testing.T) {
	p := NewLineParser()
	p.Feed("{\"partial")

	for i := 0; i < 3; i++ {
		if !p.HasIncompleteData() {
			t.Fatal("HasIncompleteData() changed state between calls")
		}
		if p.Buffer() != "{\"partial" {
			t.Fatalf("Buffer() changed state between calls")
		}
	}
}

func TestLineParser_StatusRoundTrip(t *testing.T) {
	status := &Status{
		Type:              KindStatus,
		DeviceID:          "C4BE84748637",
		FirmwareVersion:   "1.0.0",
		BatteryPercent:    87,
		BatteryVoltage:    3.92,
		Volume:            50,
		WifiConfigured:    true,
		WifiConnected:     true,
		WifiSSID:          "HomeNet",
		GatewayConfigured: true,
		GatewayServer:     "gateway.nebaura.io",
		GatewayPort:       3000,
	}

	line, err := Encode(status)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if line[len(line)-1] != '\n' {
		t.Fatal("encoded line not newline-terminated")
	}

	p := NewLineParser()
	msgs := p.Feed(string(line))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}

	got, ok := msgs[0].(*Status)
	if !ok {
		t.Fatalf("message type = %T, want *Status", msgs[0])
	}
	if got.DeviceID != status.DeviceID {
		t.Errorf("deviceId = %q, want %q", got.DeviceID, status.DeviceID)
	}
	if got.BatteryPercent != 87 {
		t.Errorf("batteryPercent = %d, want 87", got.BatteryPercent)
	}
	if got.GatewayConnected != nil {
		t.Error("gatewayConnected should be absent, got non-nil")
	}
}

func BenchmarkLineParser_Feed(b *testing.B) {
	line := "{\"type\":\"ping\",\"id\":\"bench\"}\n"
	p := NewLineParser()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Feed(line)
	}
}
