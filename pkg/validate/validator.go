// Package validate checks MU records against their declared schema version.
//
// Validation is a single stateless pass: it never raises for malformed
// input, accumulates every finding, and returns errors and warnings as data.
// Only an unparseable document short-circuits (E_YAML), since no field
// access is safe afterwards.
package validate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/mimo/pkg/core"
)

// Required top-level field sets, selected by schema_version. "1.1" selects
// the v1.1 set; anything else falls back to v1.0.
var (
	// v1.0's snapshot requirement is satisfied by either the structured
	// snapshot mapping or the legacy raw snapshot_gz_b64 string.
	requiredTopV10 = []string{"schema_version", "id", "meta", "summary", "pointer", "snapshot"}
	requiredTopV11 = []string{
		"schema_version",
		"mu_id",
		"content_hash",
		"idempotency",
		"meta",
		"summary",
		"pointer",
		"snapshot",
		"links",
		"privacy",
		"provenance",
	}
	requiredMeta = []string{"time", "source", "group_id", "order", "span", "has_assets", "has_struct_data"}
)

// DefaultSnapshotSizeCap is the decompressed-snapshot-size threshold above
// which a record should have been split further.
const DefaultSnapshotSizeCap = 20_000

// Validator validates MU documents. The zero-argument New gives the lenient
// validator with the embedded v1.1 contract.
type Validator struct {
	contract *jsonschema.Schema
	strict   bool
	sizeCap  int
	logger   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithStrict escalates the snapshot size cap from W_SNAPSHOT to E_SNAPSHOT.
func WithStrict(strict bool) Option {
	return func(v *Validator) { v.strict = strict }
}

// WithSnapshotSizeCap overrides the decompressed snapshot size threshold.
// A cap of 0 disables the check.
func WithSnapshotSizeCap(n int) Option {
	return func(v *Validator) { v.sizeCap = n }
}

// WithContract replaces the embedded v1.1 structural contract. A nil
// contract disables the contract check entirely.
func WithContract(schema *jsonschema.Schema) Option {
	return func(v *Validator) { v.contract = schema }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// New builds a Validator. The embedded contract ships with the binary, so
// compiling it cannot fail.
func New(opts ...Option) *Validator {
	contract, err := DefaultContract()
	if err != nil {
		panic(fmt.Sprintf("embedded contract does not compile: %v", err))
	}
	v := &Validator{
		contract: contract,
		sizeCap:  DefaultSnapshotSizeCap,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// File parses one .mimo file and validates it.
func (v *Validator) File(path string) (errs, warns []core.Diagnostic) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []core.Diagnostic{core.Diag(core.EYAML, path, "YAML read error: %v", err)}, nil
	}
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return []core.Diagnostic{core.Diag(core.EYAML, path, "YAML parse error: %v", err)}, nil
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return []core.Diagnostic{core.Diag(core.EYAML, path, "YAML root must be a mapping")}, nil
	}
	return v.Document(path, doc)
}

// Document validates an already-parsed record. path is only used to label
// diagnostics.
func (v *Validator) Document(path string, doc map[string]any) (errs, warns []core.Diagnostic) {
	sv := schemaVersion(doc)

	required := requiredTopV10
	if sv == core.SchemaV11 {
		required = requiredTopV11
	}
	for _, k := range required {
		if _, ok := doc[k]; ok {
			continue
		}
		if sv != core.SchemaV11 && k == "snapshot" {
			if _, ok := doc["snapshot_gz_b64"]; ok {
				continue
			}
		}
		errs = append(errs, core.Diag(core.ERequired, path, "Missing: %s", k))
	}

	if sv == core.SchemaV11 && v.contract != nil {
		if msg, ok := checkContract(v.contract, doc); !ok {
			errs = append(errs, core.Diag(core.ESchema, path, "MU v1.1 schema validation failed: %s", msg))
		}
	}

	errs = append(errs, v.checkTypes(path, doc)...)

	meta, _ := core.AsMap(doc["meta"])
	for _, k := range requiredMeta {
		if _, ok := meta[k]; !ok {
			errs = append(errs, core.Diag(core.ERequired, path, "Missing meta: %s", k))
		}
	}
	if src, ok := meta["source"]; ok {
		switch src.(type) {
		case string, map[string]any:
		default:
			errs = append(errs, core.Diag(core.EType, path, "meta.source must be string (preferred) or mapping (legacy)"))
		}
	}

	// Asset consistency is best-effort provenance: advisory only.
	if b, _ := core.AsBool(meta["has_assets"]); b {
		if assets, _ := core.AsSlice(meta["shared_assets"]); len(assets) == 0 {
			warns = append(warns, core.Diag(core.WAsset, path, "has_assets=true but shared_assets empty"))
		}
	}
	if b, _ := core.AsBool(meta["has_struct_data"]); b {
		if _, ok := doc["struct_data"]; !ok {
			warns = append(warns, core.Diag(core.WStruct, path, "has_struct_data=true but struct_data missing"))
		}
	}

	if sv != "" && sv != core.SchemaV10 && sv != core.SchemaV11 {
		warns = append(warns, core.Diag(core.WSchema, path, "schema_version=%s (expected 1.0 or 1.1)", sv))
	}

	se, sw := v.checkSnapshot(path, doc)
	errs = append(errs, se...)
	warns = append(warns, sw...)

	pe, pw := v.checkPointers(path, doc)
	errs = append(errs, pe...)
	warns = append(warns, pw...)

	errs = append(errs, v.checkTombstone(path, doc)...)

	if v.logger != nil {
		v.logger.Debug("validated", "path", path, "errors", len(errs), "warnings", len(warns))
	}
	return errs, warns
}

func schemaVersion(doc map[string]any) string {
	if s, ok := core.AsString(doc["schema_version"]); ok {
		return s
	}
	if n, ok := core.AsFloat(doc["schema_version"]); ok {
		// tolerate an unquoted version scalar
		return fmt.Sprintf("%.1f", n)
	}
	return ""
}

func (v *Validator) checkTypes(path string, doc map[string]any) (errs []core.Diagnostic) {
	if raw, ok := doc["meta"]; ok {
		if _, ok := core.AsMap(raw); !ok {
			errs = append(errs, core.Diag(core.EType, path, "meta must be mapping"))
		}
	}
	if raw, ok := doc["pointer"]; ok {
		if _, ok := core.AsSlice(raw); !ok {
			errs = append(errs, core.Diag(core.EType, path, "pointer must be sequence"))
		}
	}
	if raw, ok := doc["summary"]; ok {
		if _, ok := core.AsString(raw); !ok {
			errs = append(errs, core.Diag(core.EType, path, "summary must be string"))
		}
	}
	return errs
}

func (v *Validator) checkSnapshot(path string, doc map[string]any) (errs, warns []core.Diagnostic) {
	snap, ok := core.AsMap(doc["snapshot"])
	if !ok {
		return nil, nil
	}

	kind, _ := core.AsString(snap["kind"])
	if !core.ValidSnapshotKind(kind) {
		errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.kind invalid: %v", snap["kind"]))
	}
	codec, _ := core.AsString(snap["codec"])
	if !core.ValidSnapshotCodec(codec) {
		errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.codec invalid: %v", snap["codec"]))
	}

	ref, ok := core.AsMap(snap["source_ref"])
	if !ok || isEmpty(ref["uri"]) || isEmpty(ref["sha256"]) {
		errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.source_ref must include uri + sha256"))
	}

	payload, ok := core.AsMap(snap["payload"])
	if !ok {
		errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.payload must be mapping"))
		return errs, warns
	}

	switch codec {
	case core.CodecPlain:
		if _, ok := core.AsString(payload["text"]); !ok {
			errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.payload.text required for codec=plain"))
		}
	case core.CodecGzB64:
		b64, ok := core.AsString(payload["text_gz_b64"])
		if !ok {
			errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.payload.text_gz_b64 required for codec=gz+b64"))
			break
		}
		text, err := core.DecodeGzB64(b64)
		if err != nil {
			errs = append(errs, core.Diag(core.ESnapshot, path, "snapshot.payload not decodable"))
			break
		}
		if v.sizeCap > 0 && len(text) > v.sizeCap {
			msg := fmt.Sprintf("snapshot text > %d bytes; consider splitting MU", v.sizeCap)
			if v.strict {
				errs = append(errs, core.Diagnostic{Code: core.ESnapshot, Path: path, Msg: msg})
			} else {
				warns = append(warns, core.Diagnostic{Code: core.WSnapshot, Path: path, Msg: msg})
			}
		}
	}
	return errs, warns
}

func (v *Validator) checkPointers(path string, doc map[string]any) (errs, warns []core.Diagnostic) {
	ptrs, ok := core.AsSlice(doc["pointer"])
	if !ok {
		return nil, nil
	}
	for i, raw := range ptrs {
		p, ok := core.AsMap(raw)
		if !ok {
			errs = append(errs, core.Diag(core.EPointer, path, "pointer[%d] must be mapping", i))
			continue
		}

		_, hasURI := p["uri"]
		_, hasSHA := p["sha256"]
		_, hasLoc := p["locator"]
		if hasURI || hasSHA || hasLoc {
			loc, locOK := core.AsMap(p["locator"])
			if isEmpty(p["uri"]) || isEmpty(p["sha256"]) || !locOK {
				errs = append(errs, core.Diag(core.EPointer, path, "pointer[%d] must include uri + sha256 + locator", i))
				continue
			}
			errs = append(errs, v.checkLocator(path, i, loc)...)
			continue
		}

		_, hasPath := p["path"]
		_, hasTS := p["timestamp"]
		if hasPath || hasTS {
			warns = append(warns, core.Diag(core.WPointerLegacy, path,
				"pointer[%d] uses legacy fields path/timestamp; prefer uri/sha256/locator", i))
		}
	}
	return errs, warns
}

func (v *Validator) checkLocator(path string, i int, loc map[string]any) (errs []core.Diagnostic) {
	kind, _ := core.AsString(loc["kind"])
	if !core.ValidLocatorKind(kind) {
		return append(errs, core.Diag(core.ELocator, path, "pointer[%d].locator.kind invalid: %v", i, loc["kind"]))
	}

	bad := func(format string, args ...any) {
		errs = append(errs, core.Diag(core.ELocator, path,
			"pointer[%d].locator %s invalid: %s", i, kind, fmt.Sprintf(format, args...)))
	}

	switch kind {
	case core.LocatorLineRange:
		start, sok := core.AsInt(loc["start"])
		end, eok := core.AsInt(loc["end"])
		if !sok || !eok || start < 1 || end < 1 || start > end {
			bad("start=%v end=%v", loc["start"], loc["end"])
		}
	case core.LocatorByteRange, core.LocatorTimeRange:
		start, sok := core.AsInt(loc["start"])
		end, eok := core.AsInt(loc["end"])
		if !sok || !eok || start < 0 || start > end {
			bad("start=%v end=%v", loc["start"], loc["end"])
		}
	case core.LocatorPageRange:
		if page, ok := core.AsInt(loc["page"]); ok {
			if page < 1 {
				bad("page=%v", loc["page"])
			}
			break
		}
		ps, sok := core.AsInt(loc["page_start"])
		pe, eok := core.AsInt(loc["page_end"])
		if !sok || !eok || ps < 1 || ps > pe {
			bad("page_start=%v page_end=%v", loc["page_start"], loc["page_end"])
		}
	case core.LocatorBBox:
		for _, k := range []string{"x", "y", "w", "h"} {
			if _, ok := core.AsFloat(loc[k]); !ok {
				bad("missing %s", k)
			}
		}
	}
	return errs
}

func (v *Validator) checkTombstone(path string, doc map[string]any) (errs []core.Diagnostic) {
	raw, ok := doc["tombstone"]
	if !ok {
		return nil
	}
	tomb, ok := core.AsMap(raw)
	if !ok {
		return append(errs, core.Diag(core.EType, path, "tombstone must be mapping"))
	}
	scope, _ := core.AsString(tomb["scope"])
	if !core.ValidTombstoneScope(scope) {
		errs = append(errs, core.Diag(core.ESchema, path, "tombstone.scope invalid: %v", tomb["scope"]))
	}
	return errs
}

// isEmpty treats a missing, nil, or empty-string field as absent.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
