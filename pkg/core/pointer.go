package core

// PointerStyle discriminates the two generations of pointer shape.
type PointerStyle int

const (
	// StyleUnknown means the pointer carries neither variant's fields.
	StyleUnknown PointerStyle = iota
	// StyleLegacy is the direct filesystem reference: type/path/timestamp.
	StyleLegacy
	// StyleAddressed is the content-addressed reference: type/uri/sha256/locator.
	StyleAddressed
)

// Pointer references the raw source an MU was cut from. Exactly one variant
// is populated per pointer; Style reports which.
type Pointer struct {
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Legacy variant.
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Timestamp string `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`

	// Addressed variant.
	URI     string   `yaml:"uri,omitempty" json:"uri,omitempty"`
	SHA256  string   `yaml:"sha256,omitempty" json:"sha256,omitempty"`
	Locator *Locator `yaml:"locator,omitempty" json:"locator,omitempty"`
}

// Style dispatches on which variant's fields are present. Any addressed
// field wins: a pointer carrying uri/sha256/locator is judged by the new
// rules even if legacy fields are also set.
func (p Pointer) Style() PointerStyle {
	if p.URI != "" || p.SHA256 != "" || p.Locator != nil {
		return StyleAddressed
	}
	if p.Path != "" || p.Timestamp != "" {
		return StyleLegacy
	}
	return StyleUnknown
}

// Locator kinds. Only line_range is resolvable to content by this engine;
// the others are validated structurally and resolved elsewhere.
const (
	LocatorLineRange = "line_range"
	LocatorByteRange = "byte_range"
	LocatorPageRange = "page_range"
	LocatorTimeRange = "time_range"
	LocatorBBox      = "bbox"
)

// LocatorKinds enumerates every valid Locator.Kind.
var LocatorKinds = []string{
	LocatorLineRange,
	LocatorByteRange,
	LocatorPageRange,
	LocatorTimeRange,
	LocatorBBox,
}

// ValidLocatorKind reports whether k is an enumerated locator kind.
func ValidLocatorKind(k string) bool {
	for _, v := range LocatorKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Locator narrows a pointer to a sub-range of the referenced artifact.
// Which fields are meaningful depends on Kind; ranges are 1-indexed and
// inclusive for line_range.
type Locator struct {
	Kind string `yaml:"kind" json:"kind"`

	// line_range, byte_range, time_range.
	Start int `yaml:"start,omitempty" json:"start,omitempty"`
	End   int `yaml:"end,omitempty" json:"end,omitempty"`

	// page_range.
	Page      int `yaml:"page,omitempty" json:"page,omitempty"`
	PageStart int `yaml:"page_start,omitempty" json:"page_start,omitempty"`
	PageEnd   int `yaml:"page_end,omitempty" json:"page_end,omitempty"`

	// bbox.
	X float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y float64 `yaml:"y,omitempty" json:"y,omitempty"`
	W float64 `yaml:"w,omitempty" json:"w,omitempty"`
	H float64 `yaml:"h,omitempty" json:"h,omitempty"`
}

// LineRange builds a 1-indexed inclusive line_range locator.
func LineRange(start, end int) Locator {
	return Locator{Kind: LocatorLineRange, Start: start, End: end}
}

// Canonical returns the locator as the plain mapping that participates in
// mu_key hashing. Only the fields meaningful for the kind are included, so
// the hash is a pure function of the locator's logical content.
func (l Locator) Canonical() map[string]any {
	m := map[string]any{"kind": l.Kind}
	switch l.Kind {
	case LocatorLineRange, LocatorByteRange, LocatorTimeRange:
		m["start"] = l.Start
		m["end"] = l.End
	case LocatorPageRange:
		if l.Page != 0 {
			m["page"] = l.Page
		} else {
			m["page_start"] = l.PageStart
			m["page_end"] = l.PageEnd
		}
	case LocatorBBox:
		m["x"] = l.X
		m["y"] = l.Y
		m["w"] = l.W
		m["h"] = l.H
	}
	return m
}

// Split describes how a raw artifact was cut into the chunk an MU holds.
// It participates in mu_key hashing: the same slice of the same raw bytes
// under the same split always yields the same key.
type Split struct {
	Strategy string `yaml:"strategy" json:"strategy"`
	Index    int    `yaml:"index" json:"index"`
	Total    int    `yaml:"total" json:"total"`
	Window   int    `yaml:"window" json:"window"`
}

// Canonical returns the split as the plain mapping hashed into mu_key.
func (s Split) Canonical() map[string]any {
	return map[string]any{
		"strategy": s.Strategy,
		"index":    s.Index,
		"total":    s.Total,
		"window":   s.Window,
	}
}
