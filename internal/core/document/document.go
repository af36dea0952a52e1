// Package document holds the text view the editor operates on: the text, the
// caret and selection, an overlay of markers, and caret listeners.
//
// All offsets are rune offsets into the text. A Document is not safe for
// concurrent use; it lives on the UI goroutine.
package document

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	// ErrReadOnly is returned by edits on a document that is not editable.
	ErrReadOnly = errors.New("document is read-only")
	// ErrOutOfRange is returned when a range falls outside the text.
	ErrOutOfRange = errors.New("range out of bounds")
	// ErrNoPath is returned by Save when the document has no backing file.
	ErrNoPath = errors.New("document has no path")
)

// Option configures a Document.
type Option func(*Document)

// WithPath sets the file the document is saved to.
func WithPath(path string) Option {
	return func(d *Document) { d.path = path }
}

// WithReadOnly opens the document without edit permission.
func WithReadOnly(readOnly bool) Option {
	return func(d *Document) { d.editable = !readOnly }
}

type listener struct {
	id int
	fn func(Caret)
}

// Document is an editable text with a caret, a selection and markers.
type Document struct {
	path     string
	text     []rune
	caret    Caret
	editable bool
	enabled  bool
	dirty    bool
	perm     os.FileMode

	markers   map[MarkerID][]Marker
	listeners []listener
	nextID    int
}

// New creates a document holding text with the caret at offset 0.
func New(text string, opts ...Option) *Document {
	d := &Document{
		text:     []rune(text),
		editable: true,
		enabled:  true,
		perm:     0o644,
		markers:  make(map[MarkerID][]Marker),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open reads the file at path into a new document.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	d := New(string(data), append([]Option{WithPath(path)}, opts...)...)
	if info, err := os.Stat(path); err == nil {
		d.perm = info.Mode().Perm()
	}
	return d, nil
}

// Path returns the backing file path, empty for scratch documents.
func (d *Document) Path() string { return d.path }

// Text returns the full text.
func (d *Document) Text() string { return string(d.text) }

// Len returns the text length in runes.
func (d *Document) Len() int { return len(d.text) }

// Editable reports whether edits are allowed.
func (d *Document) Editable() bool { return d.editable }

// SetEditable toggles edit permission.
func (d *Document) SetEditable(editable bool) { d.editable = editable }

// Enabled reports whether the view accepts user interaction.
func (d *Document) Enabled() bool { return d.enabled }

// SetEnabled toggles user interaction.
func (d *Document) SetEnabled(enabled bool) { d.enabled = enabled }

// Dirty reports whether there are unsaved edits.
func (d *Document) Dirty() bool { return d.dirty }

// Caret returns the caret and selection anchor.
func (d *Document) Caret() Caret { return d.caret }

// Selection returns the selected range, empty when nothing is selected.
func (d *Document) Selection() Range { return d.caret.Selection() }

// SelectedText returns the text covered by the selection.
func (d *Document) SelectedText() string {
	return d.Slice(d.Selection())
}

// Slice returns the text covered by r, clamped to the document.
func (d *Document) Slice(r Range) string {
	r = d.clampRange(r)
	return string(d.text[r.Start:r.End])
}

// Select sets the selection to r with the caret at its end.
func (d *Document) Select(r Range) error {
	if !d.inBounds(r) {
		return fmt.Errorf("select %s: %w", r, ErrOutOfRange)
	}
	d.caret = Caret{Dot: r.End, Mark: r.Start}
	d.fire()
	return nil
}

// MoveCaret moves the caret to off, clamped to the text, collapsing the
// selection.
func (d *Document) MoveCaret(off int) {
	off = d.clamp(off)
	d.caret = Caret{Dot: off, Mark: off}
	d.fire()
}

// ExtendSelection moves the caret to off while keeping the selection anchor.
func (d *Document) ExtendSelection(off int) {
	d.caret.Dot = d.clamp(off)
	d.fire()
}

// Replace substitutes the text in r with text. The caret ends up after the
// inserted text with no selection.
func (d *Document) Replace(r Range, text string) error {
	if !d.editable {
		return ErrReadOnly
	}
	if !d.inBounds(r) {
		return fmt.Errorf("replace %s: %w", r, ErrOutOfRange)
	}

	ins := []rune(text)
	out := make([]rune, 0, len(d.text)-r.Len()+len(ins))
	out = append(out, d.text[:r.Start]...)
	out = append(out, ins...)
	out = append(out, d.text[r.End:]...)
	d.text = out
	d.dirty = true

	d.shiftMarkers(r, len(ins)-r.Len())

	end := r.Start + len(ins)
	d.caret = Caret{Dot: end, Mark: end}
	d.fire()
	return nil
}

// SetText swaps the whole content, e.g. after the file changed on disk. The
// caret is clamped and markers past the end are dropped. SetText is not an
// edit and leaves the dirty flag alone.
func (d *Document) SetText(text string) {
	d.text = []rune(text)
	d.caret = Caret{Dot: d.clamp(d.caret.Dot), Mark: d.clamp(d.caret.Mark)}
	for id, ms := range d.markers {
		kept := ms[:0]
		for _, m := range ms {
			if m.Range.End <= len(d.text) {
				kept = append(kept, m)
			}
		}
		d.markers[id] = kept
	}
	d.fire()
}

// Save writes the text to the document path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the text to path and makes it the document path.
func (d *Document) SaveAs(path string) error {
	if err := os.WriteFile(path, []byte(string(d.text)), d.perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	d.path = path
	d.dirty = false
	return nil
}

// LineCol converts an offset into a 1-based line and column.
func (d *Document) LineCol(off int) (line, col int) {
	off = d.clamp(off)
	line, col = 1, 1
	for _, r := range d.text[:off] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// LineStart returns the offset of the first rune of the 0-based line index,
// or the text length when the line does not exist.
func (d *Document) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	n := 0
	for i, r := range d.text {
		if r == '\n' {
			n++
			if n == line {
				return i + 1
			}
		}
	}
	return len(d.text)
}

// LineEnd returns the offset of the newline ending the line containing off,
// or the text length on the last line.
func (d *Document) LineEnd(off int) int {
	for i := d.clamp(off); i < len(d.text); i++ {
		if d.text[i] == '\n' {
			return i
		}
	}
	return len(d.text)
}

// LineCount returns the number of lines; an empty document has one line.
func (d *Document) LineCount() int {
	n := 1
	for _, r := range d.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// Lines returns the text split on newlines.
func (d *Document) Lines() []string {
	return strings.Split(string(d.text), "\n")
}

// AddMarker adds m to the overlay. Markers outside the text are ignored.
func (d *Document) AddMarker(m Marker) {
	if m.Range.Empty() || !d.inBounds(m.Range) {
		return
	}
	d.markers[m.ID] = append(d.markers[m.ID], m)
}

// RemoveMarkers removes every marker of kind id and returns how many were
// removed.
func (d *Document) RemoveMarkers(id MarkerID) int {
	n := len(d.markers[id])
	delete(d.markers, id)
	return n
}

// Markers returns the markers of kind id ordered by start offset.
func (d *Document) Markers(id MarkerID) []Marker {
	ms := make([]Marker, len(d.markers[id]))
	copy(ms, d.markers[id])
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].Range.Start < ms[j].Range.Start
	})
	return ms
}

// MarkersAt returns the kinds of markers covering off.
func (d *Document) MarkersAt(off int) []MarkerID {
	var ids []MarkerID
	for id, ms := range d.markers {
		for _, m := range ms {
			if m.Range.Contains(off) {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OnCaretChange registers fn to run after every caret, selection or content
// change. The returned func unsubscribes.
func (d *Document) OnCaretChange(fn func(Caret)) func() {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) fire() {
	ls := make([]listener, len(d.listeners))
	copy(ls, d.listeners)
	for _, l := range ls {
		l.fn(d.caret)
	}
}

// shiftMarkers drops markers touching the edited range and moves markers
// after it by delta.
func (d *Document) shiftMarkers(edited Range, delta int) {
	for id, ms := range d.markers {
		kept := ms[:0]
		for _, m := range ms {
			switch {
			case m.Range.End <= edited.Start:
				kept = append(kept, m)
			case m.Range.Start >= edited.End:
				m.Range.Start += delta
				m.Range.End += delta
				kept = append(kept, m)
			}
		}
		d.markers[id] = kept
	}
}

func (d *Document) clamp(off int) int {
	return min(max(off, 0), len(d.text))
}

func (d *Document) clampRange(r Range) Range {
	start, end := d.clamp(r.Start), d.clamp(r.End)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

func (d *Document) inBounds(r Range) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= len(d.text)
}
