package document

import "fmt"

// Range is a half-open span of rune offsets [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no runes.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether off falls inside the range.
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// MarkerID identifies a kind of marker. Removing markers of one kind never
// touches markers of another kind.
type MarkerID string

// Marker is a highlighted range in a document.
type Marker struct {
	ID    MarkerID
	Range Range
}

// Caret is the insertion point plus the selection anchor. When Dot equals
// Mark there is no selection.
type Caret struct {
	Dot  int
	Mark int
}

// Selection returns the ordered range between Mark and Dot.
func (c Caret) Selection() Range {
	if c.Mark <= c.Dot {
		return Range{Start: c.Mark, End: c.Dot}
	}
	return Range{Start: c.Dot, End: c.Mark}
}
