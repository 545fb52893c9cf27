package chunk

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/mimo/pkg/core"
	"github.com/aretw0/mimo/pkg/resolve"
)

// UngroupedID collects records that carry no group_id.
const UngroupedID = "ungrouped"

// Group is one original artifact's worth of records, ordered for
// reassembly.
type Group struct {
	ID      string
	Records []core.Record
}

// GroupRecords buckets records by meta.group_id and orders each bucket by
// its parsed order key. The sort is stable, so ties keep their original
// encounter order. Group order follows first encounter; no ordering is
// guaranteed across groups.
func GroupRecords(records []core.Record) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, rec := range records {
		id := rec.Meta.GroupID
		if id == "" {
			id = UngroupedID
		}
		at, ok := index[id]
		if !ok {
			at = len(groups)
			index[id] = at
			groups = append(groups, Group{ID: id})
		}
		groups[at].Records = append(groups[at].Records, rec)
	}
	for i := range groups {
		recs := groups[i].Records
		sort.SliceStable(recs, func(a, b int) bool {
			return OrderKey(recs[a].Meta) < OrderKey(recs[b].Meta)
		})
	}
	return groups
}

// OrderKey derives the in-group sort key: the leading integer of
// meta.order ("i/total"), falling back to the leading integer of meta.span
// ("a-b"), defaulting to 0 when both fail to parse.
func OrderKey(meta core.Meta) int {
	if n, ok := leadingInt(meta.Order, "/"); ok {
		return n
	}
	if n, ok := leadingInt(meta.Span, "-"); ok {
		return n
	}
	return 0
}

func leadingInt(s, sep string) (int, bool) {
	head, _, _ := strings.Cut(s, sep)
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Reassembly is a group stitched back together in order.
type Reassembly struct {
	GroupID    string
	SourceFile string
	Summaries  []string
	Snippets   []string
	Pointers   []core.Pointer
	Snapshot   string
}

// Reassemble concatenates the group's summaries, snapshot texts, and
// pointer snippets in order. Snapshots that fail to decode and pointers
// that do not resolve are passed over; reassembly is best effort.
func (g Group) Reassemble() Reassembly {
	out := Reassembly{GroupID: g.ID}
	var snapshots []string
	for _, rec := range g.Records {
		if out.SourceFile == "" {
			out.SourceFile = rec.Meta.SourceFile
		}
		out.Summaries = append(out.Summaries, rec.Summary)
		if text, err := rec.Snapshot.Text(); err == nil && text != "" {
			snapshots = append(snapshots, text)
		}
		for _, ptr := range rec.Pointer {
			out.Pointers = append(out.Pointers, ptr)
			if snippet, ok := resolve.Snippet(ptr); ok {
				out.Snippets = append(out.Snippets, snippet)
			}
		}
	}
	out.Snapshot = strings.Join(snapshots, "\n")
	return out
}
