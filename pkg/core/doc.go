package core

import "strconv"

// This file bridges the two representations a record lives in: the typed
// Record used when composing new MUs, and the generic mapping produced by
// parsing an arbitrary .mimo file. Stored records can be malformed in every
// way, so conversion is tolerant: wrong-typed fields become zero values and
// the validator, not the converter, reports them.

// AsString returns v if it is a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsInt coerces the numeric types YAML and JSON decoding produce.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// AsFloat coerces the numeric types YAML and JSON decoding produce.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// AsBool returns v if it is a bool.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsMap returns v if it is a mapping.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice returns v if it is a sequence.
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func str(v any) string {
	s, _ := AsString(v)
	return s
}

// scalarString renders strings and integers alike; meta.order and meta.span
// were plain integers in legacy records.
func scalarString(v any) string {
	if s, ok := AsString(v); ok {
		return s
	}
	if n, ok := AsInt(v); ok {
		return strconv.Itoa(n)
	}
	return ""
}

func stringSlice(v any) []string {
	items, ok := AsSlice(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := AsString(it); ok {
			out = append(out, s)
		}
	}
	return out
}

// RecordFromDoc converts a parsed generic document into a typed Record,
// best effort. Legacy v1.0 fields (id, dict-valued meta.source) are folded
// into their v1.1 homes.
func RecordFromDoc(doc map[string]any) Record {
	rec := Record{
		SchemaVersion: scalarString(doc["schema_version"]),
		MUID:          str(doc["mu_id"]),
		ContentHash:   str(doc["content_hash"]),
		Summary:       str(doc["summary"]),
	}
	if rec.MUID == "" {
		rec.MUID = str(doc["id"])
	}
	if idem, ok := AsMap(doc["idempotency"]); ok {
		rec.Idempotency.MUKey = str(idem["mu_key"])
	}
	if meta, ok := AsMap(doc["meta"]); ok {
		rec.Meta = metaFromMap(meta)
	}
	if ptrs, ok := AsSlice(doc["pointer"]); ok {
		for _, p := range ptrs {
			if pm, ok := AsMap(p); ok {
				rec.Pointer = append(rec.Pointer, PointerFromMap(pm))
			}
		}
	}
	if snap, ok := AsMap(doc["snapshot"]); ok {
		rec.Snapshot = SnapshotFromMap(snap)
	} else if b64, ok := AsString(doc["snapshot_gz_b64"]); ok && b64 != "" {
		// legacy v1.0 raw snapshot string
		rec.Snapshot = Snapshot{Kind: KindText, Codec: CodecGzB64, Payload: Payload{TextGzB64: b64}}
	}
	if sd, ok := AsMap(doc["struct_data"]); ok {
		rec.StructData = sd
	}
	if tomb, ok := AsMap(doc["tombstone"]); ok {
		rec.Tombstone = &Tombstone{
			TargetMUID: str(tomb["target_mu_id"]),
			CreatedAt:  str(tomb["created_at"]),
			Actor:      str(tomb["actor"]),
			Reason:     str(tomb["reason"]),
			Scope:      str(tomb["scope"]),
		}
		if b, ok := AsBool(tomb["retain_raw"]); ok {
			rec.Tombstone.RetainRaw = b
		}
	}
	return rec
}

func metaFromMap(meta map[string]any) Meta {
	m := Meta{
		Time:         str(meta["time"]),
		GroupID:      str(meta["group_id"]),
		Order:        scalarString(meta["order"]),
		Span:         scalarString(meta["span"]),
		SharedAssets: stringSlice(meta["shared_assets"]),
		Tags:         stringSlice(meta["tags"]),
		WorkspaceID:  str(meta["workspace_id"]),
		SourceFile:   str(meta["source_filename"]),
	}
	switch src := meta["source"].(type) {
	case string:
		m.Source = src
	case map[string]any:
		// legacy dict source; keep its kind if present
		m.Source = str(src["kind"])
	}
	if b, ok := AsBool(meta["has_assets"]); ok {
		m.HasAssets = b
	}
	if b, ok := AsBool(meta["has_struct_data"]); ok {
		m.HasStructData = b
	}
	return m
}

// PointerFromMap converts one parsed pointer entry, tolerating either
// variant's fields.
func PointerFromMap(p map[string]any) Pointer {
	ptr := Pointer{
		Type:      str(p["type"]),
		Path:      str(p["path"]),
		Timestamp: str(p["timestamp"]),
		URI:       str(p["uri"]),
		SHA256:    str(p["sha256"]),
	}
	if loc, ok := AsMap(p["locator"]); ok {
		l := LocatorFromMap(loc)
		ptr.Locator = &l
	}
	return ptr
}

// LocatorFromMap converts one parsed locator mapping.
func LocatorFromMap(loc map[string]any) Locator {
	l := Locator{Kind: str(loc["kind"])}
	if n, ok := AsInt(loc["start"]); ok {
		l.Start = n
	}
	if n, ok := AsInt(loc["end"]); ok {
		l.End = n
	}
	if n, ok := AsInt(loc["page"]); ok {
		l.Page = n
	}
	if n, ok := AsInt(loc["page_start"]); ok {
		l.PageStart = n
	}
	if n, ok := AsInt(loc["page_end"]); ok {
		l.PageEnd = n
	}
	if f, ok := AsFloat(loc["x"]); ok {
		l.X = f
	}
	if f, ok := AsFloat(loc["y"]); ok {
		l.Y = f
	}
	if f, ok := AsFloat(loc["w"]); ok {
		l.W = f
	}
	if f, ok := AsFloat(loc["h"]); ok {
		l.H = f
	}
	return l
}

// SnapshotFromMap converts one parsed snapshot mapping.
func SnapshotFromMap(snap map[string]any) Snapshot {
	s := Snapshot{
		Kind:      str(snap["kind"]),
		Codec:     str(snap["codec"]),
		CreatedAt: str(snap["created_at"]),
	}
	if n, ok := AsInt(snap["size_bytes"]); ok {
		s.SizeBytes = n
	}
	if ref, ok := AsMap(snap["source_ref"]); ok {
		s.SourceRef = SourceRef{URI: str(ref["uri"]), SHA256: str(ref["sha256"])}
	}
	if payload, ok := AsMap(snap["payload"]); ok {
		s.Payload = Payload{Text: str(payload["text"]), TextGzB64: str(payload["text_gz_b64"])}
	}
	if m, ok := AsMap(snap["meta"]); ok {
		s.Meta = m
	}
	return s
}
