package chunk

import "sync"

// DedupSet is the run-scoped set of mu_keys already emitted. The caller
// owns its lifetime: one set per pack run, shared across every file of the
// run. Policy is skip — the first occurrence of a key wins and later
// duplicates are suppressed silently.
//
// Access is serialized internally so concurrent packers within one run
// still detect each other's duplicates.
type DedupSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewDedupSet returns an empty run-scoped dedup set.
func NewDedupSet() *DedupSet {
	return &DedupSet{keys: make(map[string]struct{})}
}

// Add records key and reports whether it was new. A false return means a
// chunk with this mu_key already survived in this run.
func (d *DedupSet) Add(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.keys[key]; dup {
		return false
	}
	d.keys[key] = struct{}{}
	return true
}

// Len reports how many unique keys the run has seen.
func (d *DedupSet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}
