// Package markers paints search matches onto a document as highlight
// markers of a dedicated kind, leaving other marker kinds untouched.
package markers

import (
	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/search"
)

// SearchMarker is the marker kind used for search highlights.
const SearchMarker document.MarkerID = "search"

// Surface is where markers are painted.
type Surface interface {
	Text() string
	AddMarker(m document.Marker)
	RemoveMarkers(id document.MarkerID) int
}

// ClearMarks removes every marker of kind id and returns how many were
// removed.
func ClearMarks(s Surface, id document.MarkerID) int {
	return s.RemoveMarkers(id)
}

// MarkAll adds a marker of kind id for every non-empty match of p and returns
// the number added. A nil pattern marks nothing.
func MarkAll(s Surface, p *search.Pattern, id document.MarkerID) int {
	if p == nil {
		return 0
	}

	n := 0
	for _, r := range p.FindAll(s.Text()) {
		if r.Empty() {
			continue
		}
		s.AddMarker(document.Marker{ID: id, Range: r})
		n++
	}
	return n
}
