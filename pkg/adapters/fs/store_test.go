package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/mimo/pkg/core"
)

func touch(t *testing.T, dir string, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestEnumerateMU(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mimo")
	touch(t, dir, "a.mimo")
	touch(t, dir, "nested/c.mimo")
	touch(t, dir, "notes.txt")

	store := NewStore(Config{})
	files, err := store.EnumerateMU(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 record files, got %v", files)
	}
	// sorted, recursive, .mimo only
	if filepath.Base(files[0]) != "a.mimo" || filepath.Base(files[1]) != "b.mimo" || filepath.Base(files[2]) != "c.mimo" {
		t.Errorf("order = %v", files)
	}
}

func TestEnumerateMUSingleFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "one.mimo")
	touch(t, dir, "notes.txt")
	store := NewStore(Config{})

	files, err := store.EnumerateMU(filepath.Join(dir, "one.mimo"))
	if err != nil || len(files) != 1 {
		t.Fatalf("single file input: files=%v err=%v", files, err)
	}
	if _, err := store.EnumerateMU(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("non-record file input must error")
	}
	if _, err := store.EnumerateMU(filepath.Join(dir, "gone")); err == nil {
		t.Error("missing input must error")
	}
}

func TestEnumerateRaw(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.md")
	touch(t, dir, "sub/b.txt")
	touch(t, dir, "sub/c.png")
	store := NewStore(Config{})

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{"DefaultMatchesAll", "", 3},
		{"TextOnly", "**/*.{md,txt}", 2},
		{"TopLevelOnly", "*.md", 1},
		{"NoMatches", "**/*.pdf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := store.EnumerateRaw(dir, tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != tt.want {
				t.Errorf("pattern %q matched %v, want %d files", tt.pattern, files, tt.want)
			}
		})
	}

	if _, err := store.EnumerateRaw(dir, "[unclosed"); err == nil {
		t.Error("invalid pattern must error")
	}
	if _, err := store.EnumerateRaw(filepath.Join(dir, "gone"), ""); err == nil {
		t.Error("missing dir must error")
	}
}

func TestWriteReadRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(Config{})
	loc := core.LineRange(1, 3)
	rec := core.Record{
		SchemaVersion: core.SchemaV11,
		MUID:          "mu_grp_abc_001",
		ContentHash:   "sha256:deadbeef",
		Idempotency:   core.Idempotency{MUKey: "sha256:cafebabe"},
		Meta: core.Meta{
			Time:         "2026-02-21T12:00:00Z",
			Source:       "file",
			GroupID:      "grp_abc",
			Order:        "1/1",
			Span:         "1-3",
			SharedAssets: []string{},
			Tags:         []string{"ws:ws1"},
			SourceFile:   "notes.md",
		},
		Summary: "hello",
		Pointer: []core.Pointer{{Type: "raw", URI: "vault://default/raw/2026/02/ab.md", SHA256: "sha256:ff", Locator: &loc}},
		Snapshot: core.Snapshot{
			Kind:      core.KindText,
			Codec:     core.CodecGzB64,
			SizeBytes: 5,
			CreatedAt: "2026-02-21T12:00:00Z",
			SourceRef: core.SourceRef{URI: "vault://default/raw/2026/02/ab.md", SHA256: "sha256:ff"},
			Payload:   core.Payload{TextGzB64: core.EncodeGzB64("hello")},
		},
		Links:      core.Links{Corrects: []string{}, Supersedes: []string{}, DuplicateOf: []string{}},
		Privacy:    core.Privacy{Level: "private", Redact: "none"},
		Provenance: core.Provenance{Tool: "test", ToolVersion: "0", RunID: "run-1"},
	}

	path := RecordPath(filepath.Join(dir, "out"), rec.MUID)
	if err := store.WriteRecord(path, rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadRecord(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MUID != rec.MUID || got.ContentHash != rec.ContentHash || got.Summary != rec.Summary {
		t.Errorf("round trip identity fields: %+v", got)
	}
	if got.Meta.Order != "1/1" || got.Meta.SourceFile != "notes.md" {
		t.Errorf("round trip meta: %+v", got.Meta)
	}
	if len(got.Pointer) != 1 || got.Pointer[0].Locator == nil || got.Pointer[0].Locator.End != 3 {
		t.Errorf("round trip pointer: %+v", got.Pointer)
	}
	if text, err := got.Snapshot.Text(); err != nil || text != "hello" {
		t.Errorf("round trip snapshot: %q, %v", text, err)
	}

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir should hold only the record, got %d entries", len(entries))
	}
}

func TestReadDocErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(Config{})

	if _, err := store.ReadDoc(filepath.Join(dir, "gone.mimo")); err == nil {
		t.Error("missing file must error")
	}

	bad := filepath.Join(dir, "bad.mimo")
	if err := os.WriteFile(bad, []byte("key: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ReadDoc(bad); err == nil {
		t.Error("malformed YAML must error")
	}

	scalar := filepath.Join(dir, "scalar.mimo")
	if err := os.WriteFile(scalar, []byte("just text\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ReadDoc(scalar); err == nil {
		t.Error("non-mapping root must error")
	}
}

func TestWriteRecordOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(Config{})
	path := RecordPath(dir, "mu_x")

	first := core.Record{SchemaVersion: core.SchemaV11, MUID: "mu_x", Summary: "v1"}
	second := core.Record{SchemaVersion: core.SchemaV11, MUID: "mu_x", Summary: "v2"}
	if err := store.WriteRecord(path, first); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteRecord(path, second); err != nil {
		t.Fatal(err)
	}
	got, err := store.ReadRecord(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary != "v2" {
		t.Errorf("overwrite lost: summary = %q", got.Summary)
	}
}
