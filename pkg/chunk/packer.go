package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/mimo/pkg/canonical"
	"github.com/aretw0/mimo/pkg/core"
)

// TextExtensions are the raw inputs read as text without enrichment.
var TextExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".html": true,
	".rtf":  true,
}

// SummaryLimit caps the whitespace-collapsed summary length.
const SummaryLimit = 400

// Config holds the configuration for a Packer.
type Config struct {
	Split       SplitSpec
	Source      string // meta.source kind: chat, file, web, pdf
	WorkspaceID string
	VaultID     string
	Enrichment  Enrichment
	Tool        string
	ToolVersion string
	Now         func() time.Time
}

// Packer builds v1.1 MU records from raw files. It is stateless across
// files; run-scoped dedup state is passed in explicitly by the caller.
type Packer struct {
	config Config
	runID  string
}

// NewPacker creates a Packer for one run. The run ID stamped into
// provenance is fresh per Packer.
func NewPacker(config Config) (*Packer, error) {
	if config.Split.Strategy != StrategyLineWindow || config.Split.Window <= 0 {
		return nil, fmt.Errorf("invalid split spec %q", config.Split)
	}
	if config.Source == "" {
		config.Source = "file"
	}
	if config.VaultID == "" {
		config.VaultID = "default"
	}
	if config.Enrichment == nil {
		config.Enrichment = NoEnrichment{}
	}
	if config.Tool == "" {
		config.Tool = "mimo-pack"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Packer{config: config, runID: uuid.NewString()}, nil
}

// RunID is the provenance run identifier stamped into every record of this
// packer.
func (p *Packer) RunID() string { return p.runID }

// File cuts one raw file into records. Media files are captioned via the
// enrichment capability; without one they are skipped (nil, nil). Chunks
// whose mu_key is already in dedup are suppressed.
func (p *Packer) File(rawPath string, dedup *DedupSet) ([]core.Record, error) {
	text, ok, err := p.readRaw(rawPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rawSHAHex, err := canonical.SumFileHex(rawPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", rawPath, err)
	}
	return p.build(rawPath, text, rawSHAHex, dedup), nil
}

func (p *Packer) readRaw(rawPath string) (string, bool, error) {
	ext := strings.ToLower(filepath.Ext(rawPath))
	if TextExtensions[ext] {
		raw, err := readFileUTF8(rawPath)
		if err != nil {
			return "", false, fmt.Errorf("failed to read %s: %w", rawPath, err)
		}
		return raw, true, nil
	}
	caption, ok := p.config.Enrichment.Describe(rawPath)
	return caption, ok, nil
}

func (p *Packer) build(rawPath, text, rawSHAHex string, dedup *DedupSet) []core.Record {
	lines := splitLines(text)
	window := p.config.Split.Window
	total := (len(lines) + window - 1) / window
	if total < 1 {
		total = 1
	}

	rawSHA := "sha256:" + rawSHAHex
	groupID := "grp_" + rawSHAHex[:12]
	now := p.config.Now().UTC().Truncate(time.Second)
	uri := vaultRawURI(p.config.VaultID, rawSHAHex, filepath.Ext(rawPath), now)

	var records []core.Record
	for i := 0; i < total; i++ {
		start := i * window
		end := (i + 1) * window
		if end > len(lines) {
			end = len(lines)
		}
		// 1-indexed inclusive line numbers; an empty input still gets a
		// valid single-line locator.
		locator := core.LineRange(start+1, maxInt(start+1, end))
		split := core.Split{Strategy: p.config.Split.Strategy, Index: i, Total: total, Window: window}

		muKey := core.MUKey(rawSHA, locator, split)
		if !dedup.Add(muKey) {
			continue
		}

		snippet := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if snippet == "" {
			snippet = "(empty)"
		}
		snapshot := p.makeSnapshot(uri, rawSHA, snippet, now)
		summary := safeSummary(snippet, SummaryLimit)

		records = append(records, core.Record{
			SchemaVersion: core.SchemaV11,
			MUID:          fmt.Sprintf("mu_%s_%03d", groupID, i+1),
			ContentHash:   core.ContentHash(core.SchemaV11, summary, snapshot),
			Idempotency:   core.Idempotency{MUKey: muKey},
			Meta:          p.makeMeta(rawPath, groupID, i, total, locator, now),
			Summary:       summary,
			Pointer: []core.Pointer{{
				Type:    "raw",
				URI:     uri,
				SHA256:  rawSHA,
				Locator: &locator,
			}},
			Snapshot: snapshot,
			Links:    core.Links{Corrects: []string{}, Supersedes: []string{}, DuplicateOf: []string{}},
			Privacy:  core.Privacy{Level: "private", Redact: "none"},
			Provenance: core.Provenance{
				Tool:        p.config.Tool,
				ToolVersion: p.config.ToolVersion,
				RunID:       p.runID,
			},
		})
	}
	return records
}

func (p *Packer) makeMeta(rawPath, groupID string, index, total int, locator core.Locator, now time.Time) core.Meta {
	meta := core.Meta{
		Time:          now.Format(time.RFC3339),
		Source:        p.config.Source,
		GroupID:       groupID,
		Order:         fmt.Sprintf("%d/%d", index+1, total),
		Span:          fmt.Sprintf("%d-%d", locator.Start, locator.End),
		HasAssets:     false,
		HasStructData: false,
		SharedAssets:  []string{},
		Tags:          []string{},
		SourceFile:    filepath.Base(rawPath),
	}
	if ws := p.config.WorkspaceID; ws != "" {
		meta.WorkspaceID = ws
		meta.Tags = append(meta.Tags, "ws:"+ws)
	}
	return meta
}

func (p *Packer) makeSnapshot(uri, rawSHA, text string, now time.Time) core.Snapshot {
	return core.Snapshot{
		Kind:      core.KindText,
		Codec:     core.CodecGzB64,
		SizeBytes: len(text),
		CreatedAt: now.Format(time.RFC3339),
		SourceRef: core.SourceRef{URI: uri, SHA256: rawSHA},
		Payload:   core.Payload{TextGzB64: core.EncodeGzB64(text)},
	}
}

// vaultRawURI mirrors the vault ingest naming scheme:
// vault://<id>/raw/YYYY/MM/<sha>.<ext>. Original filenames are not
// preserved.
func vaultRawURI(vaultID, rawSHAHex, ext string, now time.Time) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "txt"
	}
	return fmt.Sprintf("vault://%s/raw/%04d/%02d/%s.%s", vaultID, now.Year(), int(now.Month()), rawSHAHex, ext)
}

// safeSummary collapses whitespace and truncates to limit characters.
func safeSummary(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return collapsed
}

// readFileUTF8 reads a file best effort, dropping invalid UTF-8 sequences
// the way raw inputs have always been tolerated.
func readFileUTF8(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}

// splitLines matches the line semantics records were originally cut with:
// a trailing newline does not produce an extra empty line, and an empty
// input has no lines at all.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	return strings.Split(s, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
