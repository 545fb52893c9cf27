package core

import "github.com/aretw0/mimo/pkg/canonical"

// ContentHash derives the record's semantic identity from schema version,
// summary, and the snapshot's kind/codec/payload. Recomputing from identical
// inputs always yields the identical hash.
func ContentHash(schemaVersion, summary string, snap Snapshot) string {
	seed := map[string]any{
		"schema_version": schemaVersion,
		"summary":        summary,
		"snapshot": map[string]any{
			"kind":    snap.Kind,
			"codec":   snap.Codec,
			"payload": snap.CanonicalPayload(),
		},
	}
	h, err := canonical.HashValue(seed)
	if err != nil {
		// The seed is built from plain maps and strings; failure here is a
		// programmer error, not a runtime condition.
		panic(err)
	}
	return h
}

// ContentHashDoc recomputes a content hash from a parsed generic document,
// taking the payload mapping exactly as stored.
func ContentHashDoc(doc map[string]any) string {
	seed := map[string]any{
		"schema_version": scalarString(doc["schema_version"]),
		"summary":        str(doc["summary"]),
	}
	snapshot := map[string]any{"kind": nil, "codec": nil, "payload": nil}
	if snap, ok := AsMap(doc["snapshot"]); ok {
		snapshot["kind"] = snap["kind"]
		snapshot["codec"] = snap["codec"]
		snapshot["payload"] = snap["payload"]
	}
	seed["snapshot"] = snapshot
	h, err := canonical.HashValue(seed)
	if err != nil {
		panic(err)
	}
	return h
}

// MUKey derives the dedup key for one chunk of one raw artifact. rawSHA256
// is the prefixed hash of the whole raw input; locator and split pin the
// slice this MU holds.
func MUKey(rawSHA256 string, loc Locator, split Split) string {
	seed := map[string]any{
		"raw_sha256": rawSHA256,
		"locator":    loc.Canonical(),
		"split":      split.Canonical(),
	}
	h, err := canonical.HashValue(seed)
	if err != nil {
		panic(err)
	}
	return h
}
