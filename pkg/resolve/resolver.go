// Package resolve recovers the original snippet an MU pointer refers to.
//
// Resolution is deliberately narrow: only line_range locators over local
// files are handled here. vault:// URIs belong to the memory-vault
// subsystem and http(s) to the network layer, so those decline rather than
// fail — an unresolved pointer is an expected non-result, never an error.
package resolve

import (
	"os"
	"strings"

	"github.com/aretw0/mimo/pkg/core"
)

// Snippet resolves a pointer to the content slice it names. The second
// return is false when the pointer is not resolvable by this engine: a
// non-line_range locator, an invalid range, a delegated URI scheme, or a
// missing file. The function is read-only and never returns an error.
func Snippet(ptr core.Pointer) (string, bool) {
	loc := ptr.Locator
	if loc == nil || loc.Kind != core.LocatorLineRange {
		return "", false
	}
	if loc.Start < 1 || loc.End < loc.Start {
		return "", false
	}

	path, ok := pointerPath(ptr)
	if !ok {
		return "", false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	lines := strings.SplitAfter(string(raw), "\n")
	if loc.Start > len(lines) {
		return "", false
	}
	end := loc.End
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[loc.Start-1:end], ""), true
}

// pointerPath applies the resolution order: explicit path first, then the
// URI — file:// stripped to a filesystem path, vault:// and http(s)
// declined, anything else treated as a bare path.
func pointerPath(ptr core.Pointer) (string, bool) {
	if ptr.Path != "" {
		return ptr.Path, true
	}
	uri := ptr.URI
	switch {
	case uri == "":
		return "", false
	case strings.HasPrefix(uri, "file://"):
		return strings.TrimPrefix(uri, "file://"), true
	case strings.HasPrefix(uri, "vault://"),
		strings.HasPrefix(uri, "http://"),
		strings.HasPrefix(uri, "https://"):
		return "", false
	default:
		return uri, true
	}
}
