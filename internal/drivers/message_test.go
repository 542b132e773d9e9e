package drivers

import (
	"strings"
	"testing"
)

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	var data [16]byte
	copy(data[:], "hello-world")

	m := Message{Type: MsgWrite, Data: data, Origin: 42}
	wire := m.Encode()
	if len(wire) != messageSize {
		t.Fatalf("Encode() length = %d, want %d", len(wire), messageSize)
	}

	got, ok := DecodeMessage(wire)
	if !ok {
		t.Fatalf("DecodeMessage() ok = false")
	}
	if got.Type != MsgWrite || got.Origin != 42 || got.Data != data {
		t.Fatalf("DecodeMessage() = %+v, want %+v", got, m)
	}
}

func TestDecodeMessageRejectsShortBuffer(t *testing.T) {
	if _, ok := DecodeMessage(make([]byte, messageSize-1)); ok {
		t.Fatalf("DecodeMessage() on a short buffer should report ok=false")
	}
}

func TestRenderProcTableFormatsRecords(t *testing.T) {
	raw := make([]byte, 26)
	raw[0] = 7 // pid low byte
	copy(raw[8:24], []byte("idle"))
	raw[24] = 0 // state
	raw[25] = 1 // priority

	out := renderProcTable(raw)
	if out == "" {
		t.Fatalf("renderProcTable() returned empty string")
	}
	if !strings.Contains(out, "idle") {
		t.Fatalf("renderProcTable() = %q, want the record's name %q", out, "idle")
	}
}
