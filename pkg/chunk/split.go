// Package chunk cuts raw inputs into ordered MU records (pack direction)
// and regroups stored records back into whole artifacts (extract direction).
package chunk

import (
	"fmt"
	"strconv"
	"strings"
)

// StrategyLineWindow partitions a line sequence into consecutive windows of
// at most N lines; the final window may be shorter.
const StrategyLineWindow = "line_window"

// SplitSpec is the split configuration for a pack run.
type SplitSpec struct {
	Strategy string
	Window   int
}

// ParseSplitSpec parses a "line_window:<n>" flag value. A bad spec is a
// fatal configuration error for the run.
func ParseSplitSpec(s string) (SplitSpec, error) {
	if s == "" {
		return SplitSpec{}, fmt.Errorf("split spec is required (e.g. line_window:400)")
	}
	strategy, n, ok := strings.Cut(s, ":")
	if !ok {
		return SplitSpec{}, fmt.Errorf("invalid split spec %q, expected line_window:<n>", s)
	}
	strategy = strings.TrimSpace(strategy)
	if strategy != StrategyLineWindow {
		return SplitSpec{}, fmt.Errorf("unsupported split strategy %q", strategy)
	}
	window, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil {
		return SplitSpec{}, fmt.Errorf("invalid split window %q: %w", n, err)
	}
	if window <= 0 {
		return SplitSpec{}, fmt.Errorf("split window must be > 0, got %d", window)
	}
	return SplitSpec{Strategy: strategy, Window: window}, nil
}

func (s SplitSpec) String() string {
	return s.Strategy + ":" + strconv.Itoa(s.Window)
}
