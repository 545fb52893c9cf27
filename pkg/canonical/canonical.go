// Package canonical produces the deterministic serialization and hashing
// behind content_hash and mu_key. The canonical form of a value is compact
// JSON with mapping keys sorted, so key insertion order and incidental
// whitespace never change a hash.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Marshal returns the canonical byte form of v. Supported values are the
// JSON-ish shapes records are made of: mappings, sequences, strings,
// numbers, bools and nil. Anything else is a programmer error.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encode(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []string:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeScalar(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return encodeScalar(buf, val)
	default:
		return fmt.Errorf("canonical: unsupported type %T", v)
	}
	return nil
}

// encodeScalar writes one scalar as JSON without HTML escaping, so byte
// output stays a pure function of the value.
func encodeScalar(buf *bytes.Buffer, v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline; drop it.
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

// SumPrefixed hashes data and returns "sha256:<hex>". The algorithm name is
// part of the value so the scheme can be versioned later.
func SumPrefixed(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// HashValue is Marshal followed by SumPrefixed.
func HashValue(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return SumPrefixed(b), nil
}

// SumFileHex returns the bare hex sha256 of a file's contents, streamed.
func SumFileHex(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
