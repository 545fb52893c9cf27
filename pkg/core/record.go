// Package core defines the MU (Memory Unit) domain model.
//
// An MU is an atomic, content-addressable knowledge record: a snippet of text
// (or a caption of a media asset) together with provenance pointers back to
// its raw source. Records are immutable once written; corrections are new
// records linked via Links.Corrects / Links.Supersedes.
package core

// Schema versions understood by the engine. Anything else falls back to the
// v1.0 required-field set and is flagged with W_SCHEMA.
const (
	SchemaV10 = "1.0"
	SchemaV11 = "1.1"
)

// Record is the MU root entity in its current (v1.1) shape.
// Field order matters: it is the canonical order records are written in.
type Record struct {
	SchemaVersion string         `yaml:"schema_version" json:"schema_version"`
	MUID          string         `yaml:"mu_id" json:"mu_id"`
	ContentHash   string         `yaml:"content_hash" json:"content_hash"`
	Idempotency   Idempotency    `yaml:"idempotency" json:"idempotency"`
	Meta          Meta           `yaml:"meta" json:"meta"`
	Summary       string         `yaml:"summary" json:"summary"`
	Pointer       []Pointer      `yaml:"pointer" json:"pointer"`
	Snapshot      Snapshot       `yaml:"snapshot" json:"snapshot"`
	Links         Links          `yaml:"links" json:"links"`
	Privacy       Privacy        `yaml:"privacy" json:"privacy"`
	Provenance    Provenance     `yaml:"provenance" json:"provenance"`
	StructData    map[string]any `yaml:"struct_data,omitempty" json:"struct_data,omitempty"`
	Tombstone     *Tombstone     `yaml:"tombstone,omitempty" json:"tombstone,omitempty"`
}

// Idempotency carries the deterministic dedup key for a record.
type Idempotency struct {
	MUKey string `yaml:"mu_key" json:"mu_key"`
}

// Meta is the provenance envelope of a record.
//
// Order is a fractional string ("i/total"); Span is a line range ("a-b").
// Legacy producers wrote plain integers for both, which the grouper tolerates.
type Meta struct {
	Time          string   `yaml:"time" json:"time"`
	Source        string   `yaml:"source" json:"source"`
	GroupID       string   `yaml:"group_id" json:"group_id"`
	Order         string   `yaml:"order" json:"order"`
	Span          string   `yaml:"span" json:"span"`
	HasAssets     bool     `yaml:"has_assets" json:"has_assets"`
	HasStructData bool     `yaml:"has_struct_data" json:"has_struct_data"`
	SharedAssets  []string `yaml:"shared_assets" json:"shared_assets"`
	Tags          []string `yaml:"tags" json:"tags"`
	WorkspaceID   string   `yaml:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	SourceFile    string   `yaml:"source_filename,omitempty" json:"source_filename,omitempty"`
}

// Links connects a record to the records it amends.
type Links struct {
	Corrects    []string `yaml:"corrects" json:"corrects"`
	Supersedes  []string `yaml:"supersedes" json:"supersedes"`
	DuplicateOf []string `yaml:"duplicate_of" json:"duplicate_of"`
}

// Privacy describes how a record may be shared.
type Privacy struct {
	Level       string       `yaml:"level" json:"level"`
	Redact      string       `yaml:"redact" json:"redact"`
	PII         []string     `yaml:"pii,omitempty" json:"pii,omitempty"`
	SharePolicy *SharePolicy `yaml:"share_policy,omitempty" json:"share_policy,omitempty"`
}

// SharePolicy gates which parts of a record may leave the vault.
type SharePolicy struct {
	AllowSnapshot bool `yaml:"allow_snapshot" json:"allow_snapshot"`
	AllowPointer  bool `yaml:"allow_pointer" json:"allow_pointer"`
}

// Provenance records the tool run that produced a record.
type Provenance struct {
	Tool          string `yaml:"tool" json:"tool"`
	ToolVersion   string `yaml:"tool_version" json:"tool_version"`
	RunID         string `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Model         string `yaml:"model,omitempty" json:"model,omitempty"`
	PromptVersion string `yaml:"prompt_version,omitempty" json:"prompt_version,omitempty"`
}

// Tombstone marks a record as retracted without deleting it.
type Tombstone struct {
	TargetMUID string `yaml:"target_mu_id" json:"target_mu_id"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
	Actor      string `yaml:"actor" json:"actor"`
	Reason     string `yaml:"reason" json:"reason"`
	Scope      string `yaml:"scope" json:"scope"`
	RetainRaw  bool   `yaml:"retain_raw" json:"retain_raw"`
}

// TombstoneScopes enumerates the valid Tombstone.Scope values.
var TombstoneScopes = []string{"all", "pointer", "snapshot", "struct_data", "assets"}

// ValidTombstoneScope reports whether s is an enumerated tombstone scope.
func ValidTombstoneScope(s string) bool {
	for _, v := range TombstoneScopes {
		if s == v {
			return true
		}
	}
	return false
}
