package core

import (
	"strings"
	"testing"
)

func TestGzB64RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "Short", text: "hi"},
		{name: "Multiline", text: "line 1\nline 2\nline 3"},
		{name: "Unicode", text: "héllo wörld — ünïcode"},
		{name: "Empty", text: ""},
		{name: "Large", text: strings.Repeat("the quick brown fox\n", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeGzB64(tt.text)
			decoded, err := DecodeGzB64(encoded)
			if err != nil {
				t.Fatalf("DecodeGzB64() error = %v", err)
			}
			if decoded != tt.text {
				t.Errorf("round trip mismatch: got %q, want %q", decoded, tt.text)
			}
		})
	}
}

func TestEncodeGzB64Deterministic(t *testing.T) {
	a := EncodeGzB64("same content")
	b := EncodeGzB64("same content")
	if a != b {
		t.Errorf("encoding not deterministic: %s vs %s", a, b)
	}
}

func TestDecodeGzB64Garbage(t *testing.T) {
	if _, err := DecodeGzB64("not base64 at all!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	// valid base64, not gzip
	if _, err := DecodeGzB64("aGVsbG8="); err == nil {
		t.Error("expected error for non-gzip payload")
	}
}

func TestSnapshotText(t *testing.T) {
	plain := Snapshot{Codec: CodecPlain, Payload: Payload{Text: "plain text"}}
	got, err := plain.Text()
	if err != nil || got != "plain text" {
		t.Errorf("plain Text() = %q, %v", got, err)
	}

	packed := Snapshot{Codec: CodecGzB64, Payload: Payload{TextGzB64: EncodeGzB64("packed text")}}
	got, err = packed.Text()
	if err != nil || got != "packed text" {
		t.Errorf("gz+b64 Text() = %q, %v", got, err)
	}

	if _, err := (Snapshot{Codec: "mystery"}).Text(); err == nil {
		t.Error("expected error for unknown codec")
	}
}
