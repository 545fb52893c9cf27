package mimo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mimo/pkg/chunk"
	"github.com/aretw0/mimo/pkg/core"
)

// ExtractResult summarizes one extract run.
type ExtractResult struct {
	Groups    int
	IndexPath string
}

type indexEntry struct {
	GroupID string `json:"group_id"`
	OutDir  string `json:"out_dir"`
}

// Extract regroups the records under inDir by group_id, orders each group,
// and writes the reassembled artifacts under outDir: per group a directory
// with summary.txt, snippets.txt, snapshot.txt and pointers.json, plus an
// index.json at the root. Unreadable record files are passed over;
// extraction is best effort.
func (s *Service) Extract(ctx context.Context, inDir, outDir string) (ExtractResult, error) {
	files, err := s.store.EnumerateMU(inDir)
	if err != nil {
		return ExtractResult{}, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return ExtractResult{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	var records []core.Record
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return ExtractResult{}, err
		}
		rec, err := s.store.ReadRecord(file)
		if err != nil {
			s.logger().Warn("skipping unreadable record", "path", file, "error", err)
			continue
		}
		records = append(records, rec)
	}

	groups := chunk.GroupRecords(records)
	index := make([]indexEntry, 0, len(groups))
	for _, group := range groups {
		re := group.Reassemble()

		base := re.SourceFile
		if base == "" {
			base = group.ID
		}
		groupDir := filepath.Join(outDir, base)
		if err := os.MkdirAll(groupDir, 0755); err != nil {
			return ExtractResult{}, fmt.Errorf("failed to create %s: %w", groupDir, err)
		}

		if err := writeText(filepath.Join(groupDir, "summary.txt"), strings.Join(re.Summaries, "\n\n")); err != nil {
			return ExtractResult{}, err
		}
		if err := writeText(filepath.Join(groupDir, "snippets.txt"), strings.Join(re.Snippets, "\n\n")); err != nil {
			return ExtractResult{}, err
		}
		if err := writeText(filepath.Join(groupDir, "snapshot.txt"), re.Snapshot); err != nil {
			return ExtractResult{}, err
		}
		if err := writeJSON(filepath.Join(groupDir, "pointers.json"), re.Pointers); err != nil {
			return ExtractResult{}, err
		}

		index = append(index, indexEntry{GroupID: group.ID, OutDir: groupDir})
	}

	indexPath := filepath.Join(outDir, "index.json")
	if err := writeJSON(indexPath, index); err != nil {
		return ExtractResult{}, err
	}

	s.logger().Info("extract complete", "groups", len(groups), "out", outDir)
	return ExtractResult{Groups: len(groups), IndexPath: indexPath}, nil
}

func writeText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeText(path, string(data))
}
