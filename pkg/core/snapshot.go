package core

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Snapshot kinds and codecs.
const (
	KindText  = "text"
	KindWeb   = "web"
	KindAudio = "audio"
	KindImage = "image"
	KindOther = "other"

	CodecPlain = "plain"
	CodecGzB64 = "gz+b64"
)

// SnapshotKinds enumerates the valid Snapshot.Kind values.
var SnapshotKinds = []string{KindText, KindWeb, KindAudio, KindImage, KindOther}

// SnapshotCodecs enumerates the valid Snapshot.Codec values.
var SnapshotCodecs = []string{CodecPlain, CodecGzB64}

// ValidSnapshotKind reports whether k is an enumerated snapshot kind.
func ValidSnapshotKind(k string) bool {
	for _, v := range SnapshotKinds {
		if k == v {
			return true
		}
	}
	return false
}

// ValidSnapshotCodec reports whether c is an enumerated snapshot codec.
func ValidSnapshotCodec(c string) bool {
	return c == CodecPlain || c == CodecGzB64
}

// SourceRef roots a snapshot in the raw artifact it was taken from.
// A snapshot is never unrooted: both URI and SHA256 are required.
type SourceRef struct {
	URI    string `yaml:"uri" json:"uri"`
	SHA256 string `yaml:"sha256" json:"sha256"`
}

// Payload holds the embedded content. Exactly one field is set, selected by
// the snapshot codec.
type Payload struct {
	Text      string `yaml:"text,omitempty" json:"text,omitempty"`
	TextGzB64 string `yaml:"text_gz_b64,omitempty" json:"text_gz_b64,omitempty"`
}

// Snapshot is the embedded copy of the referenced content at creation time.
type Snapshot struct {
	Kind      string         `yaml:"kind" json:"kind"`
	Codec     string         `yaml:"codec" json:"codec"`
	SizeBytes int            `yaml:"size_bytes" json:"size_bytes"`
	CreatedAt string         `yaml:"created_at" json:"created_at"`
	SourceRef SourceRef      `yaml:"source_ref" json:"source_ref"`
	Payload   Payload        `yaml:"payload" json:"payload"`
	Meta      map[string]any `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// Text decodes the payload per the snapshot codec and returns the embedded
// text. For gz+b64 the payload must base64-decode and gzip-decompress.
func (s Snapshot) Text() (string, error) {
	switch s.Codec {
	case CodecPlain:
		return s.Payload.Text, nil
	case CodecGzB64:
		return DecodeGzB64(s.Payload.TextGzB64)
	default:
		return "", fmt.Errorf("unknown snapshot codec: %q", s.Codec)
	}
}

// CanonicalPayload returns the payload as the plain mapping hashed into
// content_hash, mirroring the record's on-disk payload shape.
func (s Snapshot) CanonicalPayload() map[string]any {
	switch s.Codec {
	case CodecPlain:
		return map[string]any{"text": s.Payload.Text}
	case CodecGzB64:
		return map[string]any{"text_gz_b64": s.Payload.TextGzB64}
	default:
		return map[string]any{}
	}
}

// EncodeGzB64 compresses text and base64-encodes it for a gz+b64 payload.
// The gzip stream carries no timestamp, so the encoding is deterministic.
func EncodeGzB64(text string) string {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(text))
	_ = zw.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeGzB64 reverses EncodeGzB64.
func DecodeGzB64(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("gzip decode: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("gzip decode: %w", err)
	}
	return string(out), nil
}
