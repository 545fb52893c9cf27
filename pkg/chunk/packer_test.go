package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mimo/pkg/core"
)

func TestParseSplitSpec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		window  int
		wantErr bool
	}{
		{"Valid", "line_window:40", 40, false},
		{"WindowOne", "line_window:1", 1, false},
		{"ZeroWindow", "line_window:0", 0, true},
		{"NegativeWindow", "line_window:-5", 0, true},
		{"NotANumber", "line_window:many", 0, true},
		{"UnknownStrategy", "byte_window:40", 0, true},
		{"NoColon", "line_window", 0, true},
		{"Empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSplitSpec(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSplitSpec(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSplitSpec(%q): %v", tt.in, err)
			}
			if spec.Strategy != StrategyLineWindow || spec.Window != tt.window {
				t.Errorf("got %+v, want window=%d", spec, tt.window)
			}
		})
	}
}

func TestDedupSet(t *testing.T) {
	d := NewDedupSet()
	if !d.Add("a") {
		t.Error("first add must report new")
	}
	if d.Add("a") {
		t.Error("second add must report seen")
	}
	if !d.Add("b") {
		t.Error("distinct key must report new")
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
}

func writeRaw(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC) }
}

func newTestPacker(t *testing.T, window int) *Packer {
	t.Helper()
	p, err := NewPacker(Config{
		Split:       SplitSpec{Strategy: StrategyLineWindow, Window: window},
		WorkspaceID: "ws1",
		ToolVersion: "test",
		Now:         fixedClock(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPackerWindows(t *testing.T) {
	var lines []string
	for i := 1; i <= 5; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	path := writeRaw(t, "notes.md", strings.Join(lines, "\n")+"\n")

	records, err := newTestPacker(t, 2).File(path, NewDedupSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("5 lines / window 2 should give 3 records, got %d", len(records))
	}

	spans := []string{"1-2", "3-4", "5-5"}
	for i, rec := range records {
		if rec.SchemaVersion != core.SchemaV11 {
			t.Errorf("record %d: schema_version = %q", i, rec.SchemaVersion)
		}
		if want := fmt.Sprintf("%d/3", i+1); rec.Meta.Order != want {
			t.Errorf("record %d: order = %q, want %q", i, rec.Meta.Order, want)
		}
		if rec.Meta.Span != spans[i] {
			t.Errorf("record %d: span = %q, want %q", i, rec.Meta.Span, spans[i])
		}
		if rec.Meta.GroupID != records[0].Meta.GroupID {
			t.Errorf("record %d: group_id differs within one file", i)
		}
		if rec.Provenance.RunID == "" {
			t.Errorf("record %d: missing provenance run_id", i)
		}
		if len(rec.Pointer) != 1 || rec.Pointer[0].Locator == nil {
			t.Fatalf("record %d: expected one addressed pointer", i)
		}
		loc := rec.Pointer[0].Locator
		if loc.Kind != core.LocatorLineRange || loc.Start < 1 || loc.End < loc.Start {
			t.Errorf("record %d: bad locator %+v", i, loc)
		}
		text, err := rec.Snapshot.Text()
		if err != nil {
			t.Fatalf("record %d: snapshot not decodable: %v", i, err)
		}
		if i == 2 && text != "line 5" {
			t.Errorf("tail record snapshot = %q", text)
		}
		if rec.ContentHash != core.ContentHash(core.SchemaV11, rec.Summary, rec.Snapshot) {
			t.Errorf("record %d: stored content_hash does not match recompute", i)
		}
	}
}

func TestPackerEmptyFile(t *testing.T) {
	path := writeRaw(t, "empty.txt", "")
	records, err := newTestPacker(t, 40).File(path, NewDedupSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("empty file should still produce one record, got %d", len(records))
	}
	rec := records[0]
	loc := rec.Pointer[0].Locator
	if loc.Start != 1 || loc.End != 1 {
		t.Errorf("empty file locator = %d-%d, want 1-1", loc.Start, loc.End)
	}
	if text, _ := rec.Snapshot.Text(); text != "(empty)" {
		t.Errorf("empty file snapshot = %q", text)
	}
}

func TestPackerDedupAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("same content\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	p := newTestPacker(t, 40)
	dedup := NewDedupSet()

	first, err := p.File(filepath.Join(dir, "a.txt"), dedup)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.File(filepath.Join(dir, "b.txt"), dedup)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("identical content in one run: got %d then %d records, want 1 then 0", len(first), len(second))
	}

	// a fresh run carries no dedup memory
	again, err := newTestPacker(t, 40).File(filepath.Join(dir, "a.txt"), NewDedupSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 1 {
		t.Errorf("new run should re-emit, got %d records", len(again))
	}
}

func TestPackerSkipsMediaWithoutEnrichment(t *testing.T) {
	path := writeRaw(t, "photo.jpg", "\xff\xd8\xff")
	records, err := newTestPacker(t, 40).File(path, NewDedupSet())
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Errorf("media without enrichment must be skipped, got %d records", len(records))
	}
}

type captionAll struct{ caption string }

func (c captionAll) Describe(string) (string, bool) { return c.caption, true }

func TestPackerEnrichedMedia(t *testing.T) {
	path := writeRaw(t, "photo.jpg", "\xff\xd8\xff")
	p, err := NewPacker(Config{
		Split:      SplitSpec{Strategy: StrategyLineWindow, Window: 40},
		Enrichment: captionAll{caption: "a photo of a whiteboard"},
		Now:        fixedClock(),
	})
	if err != nil {
		t.Fatal(err)
	}
	records, err := p.File(path, NewDedupSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("captioned media should produce one record, got %d", len(records))
	}
	if text, _ := records[0].Snapshot.Text(); text != "a photo of a whiteboard" {
		t.Errorf("snapshot = %q", text)
	}
}

func TestSafeSummary(t *testing.T) {
	got := safeSummary("  hello\n\n  world\t!  ", 400)
	if got != "hello world !" {
		t.Errorf("safeSummary collapsed = %q", got)
	}
	long := strings.Repeat("x ", 400)
	if n := len([]rune(safeSummary(long, SummaryLimit))); n != SummaryLimit {
		t.Errorf("truncated length = %d, want %d", n, SummaryLimit)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"Empty", "", 0},
		{"OneLineNoNewline", "a", 1},
		{"TrailingNewline", "a\nb\n", 2},
		{"CRLF", "a\r\nb\r\n", 2},
		{"BlankLinesKept", "a\n\nb", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(splitLines(tt.in)); got != tt.want {
				t.Errorf("splitLines(%q) = %d lines, want %d", tt.in, got, tt.want)
			}
		})
	}
}
