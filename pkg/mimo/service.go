// Package mimo is the composition root: it wires the record store,
// validator, packer, grouper, and resolver behind one Service.
package mimo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/mimo/pkg/adapters/fs"
	"github.com/aretw0/mimo/pkg/chunk"
	"github.com/aretw0/mimo/pkg/core"
	"github.com/aretw0/mimo/pkg/resolve"
	"github.com/aretw0/mimo/pkg/validate"
)

// Version is the engine version stamped into provenance.
const Version = "0.2.0"

// Service is the MU engine entry point.
type Service struct {
	store     *fs.Store
	validator *validate.Validator
	opts      *options

	mu          sync.RWMutex
	lastChecked int
	lastFailed  int
}

// New builds a Service from functional options.
func New(opts ...Option) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	vopts := []validate.Option{
		validate.WithStrict(o.strict),
		validate.WithLogger(o.logger),
	}
	if o.sizeCap >= 0 {
		vopts = append(vopts, validate.WithSnapshotSizeCap(o.sizeCap))
	}
	if o.contractPath != "" {
		contract, err := validate.LoadContract(o.contractPath)
		if err != nil {
			return nil, err
		}
		vopts = append(vopts, validate.WithContract(contract))
	}

	return &Service{
		store:     fs.NewStore(fs.Config{Logger: o.logger}),
		validator: validate.New(vopts...),
		opts:      o,
	}, nil
}

func (s *Service) logger() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return slog.Default()
}

// PackRequest configures one pack run.
type PackRequest struct {
	InDir       string
	OutDir      string
	Split       string // e.g. "line_window:400"
	Source      string
	WorkspaceID string
	VaultID     string
	Glob        string // raw input selection, e.g. "**/*.md"
	Dedup       string // only "skip" is supported
}

// PackResult summarizes one pack run.
type PackResult struct {
	RunID   string
	Files   int
	Written int
}

// Pack cuts every matching raw file under InDir into MU records and writes
// them to OutDir. Bad configuration (split spec, dedup policy, missing
// input directory) fails before any output is produced. The dedup set is
// scoped to this one call.
func (s *Service) Pack(ctx context.Context, req PackRequest) (PackResult, error) {
	split, err := chunk.ParseSplitSpec(req.Split)
	if err != nil {
		return PackResult{}, err
	}
	if req.Dedup != "" && req.Dedup != "skip" {
		return PackResult{}, fmt.Errorf("unsupported dedup policy %q (only skip)", req.Dedup)
	}

	glob := req.Glob
	if glob == "" {
		glob = "**/*.{md,txt,html,rtf}"
	}
	files, err := s.store.EnumerateRaw(req.InDir, glob)
	if err != nil {
		return PackResult{}, err
	}

	packer, err := chunk.NewPacker(chunk.Config{
		Split:       split,
		Source:      req.Source,
		WorkspaceID: req.WorkspaceID,
		VaultID:     req.VaultID,
		Enrichment:  s.opts.enrichment,
		ToolVersion: Version,
		Now:         s.opts.now,
	})
	if err != nil {
		return PackResult{}, err
	}

	result := PackResult{RunID: packer.RunID()}
	dedup := chunk.NewDedupSet()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		records, err := packer.File(file, dedup)
		if err != nil {
			return result, err
		}
		if records == nil {
			continue
		}
		result.Files++
		for _, rec := range records {
			out := fileFor(req.OutDir, rec)
			if err := s.store.WriteRecord(out, rec); err != nil {
				return result, err
			}
			result.Written++
		}
	}

	s.logger().Info("pack complete", "run_id", result.RunID, "files", result.Files, "written_mus", result.Written)
	return result, nil
}

func fileFor(outDir string, rec core.Record) string {
	return fs.RecordPath(outDir, rec.MUID)
}

// FileReport is the validation outcome for one record file.
type FileReport struct {
	Path     string
	Errors   []core.Diagnostic
	Warnings []core.Diagnostic
}

// Report is the validation outcome for a whole run. Failed counts error
// diagnostics; warnings never affect exit status.
type Report struct {
	Files    []FileReport
	Checked  int
	Failed   int
	Warnings int
}

// OK reports whether the run produced zero errors.
func (r Report) OK() bool { return r.Failed == 0 }

// Summary renders the run's closing line.
func (r Report) Summary() string {
	return fmt.Sprintf("checked=%d failed=%d warnings=%d", r.Checked, r.Failed, r.Warnings)
}

// Validate checks every .mimo file under path (or the single file). Each
// file is validated independently; a run only fails outright when the
// input itself is missing.
func (s *Service) Validate(ctx context.Context, path string) (Report, error) {
	files, err := s.store.EnumerateMU(path)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Add(s.ValidateFile(file))
	}

	s.mu.Lock()
	s.lastChecked = report.Checked
	s.lastFailed = report.Failed
	s.mu.Unlock()
	return report, nil
}

// ValidateFile checks a single record file.
func (s *Service) ValidateFile(path string) FileReport {
	errs, warns := s.validator.File(path)
	return FileReport{Path: path, Errors: errs, Warnings: warns}
}

// Add folds one file's outcome into the run report.
func (r *Report) Add(fr FileReport) {
	r.Files = append(r.Files, fr)
	r.Checked++
	r.Failed += len(fr.Errors)
	r.Warnings += len(fr.Warnings)
}

// ResolvePointer resolves the n-th pointer of the record at path to its
// source snippet. The bool is false when the pointer is valid but not
// resolvable by this engine (delegated scheme, missing file, non-line
// locator).
func (s *Service) ResolvePointer(path string, n int) (string, bool, error) {
	rec, err := s.store.ReadRecord(path)
	if err != nil {
		return "", false, err
	}
	if n < 0 || n >= len(rec.Pointer) {
		return "", false, fmt.Errorf("record has %d pointer(s), index %d out of range", len(rec.Pointer), n)
	}
	snippet, ok := resolve.Snippet(rec.Pointer[n])
	return snippet, ok, nil
}

// HashReport compares a record's stored content_hash against a recompute
// from its current content.
type HashReport struct {
	Path     string `json:"path"`
	MUID     string `json:"mu_id"`
	Stored   string `json:"stored"`
	Computed string `json:"computed"`
	MUKey    string `json:"mu_key"`
	Match    bool   `json:"match"`
}

// CheckHash recomputes the content hash of the record at path. mu_key is
// reported as stored; it cannot be recomputed without the original raw
// bytes and split descriptor.
func (s *Service) CheckHash(path string) (HashReport, error) {
	doc, err := s.store.ReadDoc(path)
	if err != nil {
		return HashReport{}, err
	}
	rec := core.RecordFromDoc(doc)
	report := HashReport{
		Path:     path,
		MUID:     rec.MUID,
		Stored:   rec.ContentHash,
		Computed: core.ContentHashDoc(doc),
		MUKey:    rec.Idempotency.MUKey,
	}
	report.Match = report.Stored == report.Computed
	return report, nil
}
