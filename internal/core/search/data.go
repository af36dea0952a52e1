package search

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/document"
)

// Target is the text view a search runs against.
type Target interface {
	Text() string
	Caret() document.Caret
	Selection() document.Range
	Select(r document.Range) error
	Replace(r document.Range, text string) error
	Editable() bool
}

// Notifier receives the user-facing messages search produces. Not finding a
// match is a normal outcome and is reported here, never as an error.
type Notifier interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// DataOption configures Data.
type DataOption func(*Data)

// WithLogger sets the logger used for debug traces.
func WithLogger(l zerolog.Logger) DataOption {
	return func(d *Data) { d.log = l }
}

type observer struct {
	id int
	fn func(*Pattern)
}

// Data is the search state of one editing session. It is shared by every
// find/replace surface attached to the same document, so a pattern entered in
// one dialog is the pattern the others navigate with.
type Data struct {
	pattern   *Pattern
	notifier  Notifier
	log       zerolog.Logger
	observers []observer
	nextID    int
}

// NewData creates empty search state reporting through notifier.
func NewData(notifier Notifier, opts ...DataOption) *Data {
	d := &Data{
		notifier: notifier,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pattern returns the current pattern, nil when none is set.
func (d *Data) Pattern() *Pattern {
	return d.pattern
}

// SetPattern compiles text and makes it the current pattern. An empty text
// clears the pattern. A malformed regex returns *PatternError and leaves the
// previous pattern in place.
func (d *Data) SetPattern(text string, regex, ignoreCase bool) error {
	var next *Pattern
	if text != "" {
		p, err := Compile(text, regex, ignoreCase)
		if err != nil {
			return err
		}
		next = p
	}

	if d.pattern.Same(next) {
		return nil
	}

	d.pattern = next
	d.log.Debug().Stringer("pattern", patternStringer{next}).Msg("pattern changed")
	d.notifyObservers()
	return nil
}

// OnPatternChange registers fn to run whenever the current pattern changes.
// The returned func unsubscribes.
func (d *Data) OnPatternChange(fn func(*Pattern)) func() {
	d.nextID++
	id := d.nextID
	d.observers = append(d.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// FindNext selects the first match after the selection. With wrap, the search
// restarts at the top of the document when nothing follows the selection.
func (d *Data) FindNext(t Target, wrap bool) bool {
	if d.pattern == nil {
		return false
	}

	text := t.Text()
	sel := t.Selection()

	r, ok := d.nextFrom(text, sel.End, sel)
	if !ok && wrap {
		// From the top the selected match itself counts, so a lone empty
		// match under the caret is still found.
		r, ok = d.pattern.Next(text, 0)
		if ok {
			d.log.Debug().Msg("search wrapped to top")
		}
	}
	if !ok {
		return false
	}

	return d.selectMatch(t, r)
}

// FindPrevious selects the last match before the selection. With wrap, the
// search restarts at the bottom of the document.
func (d *Data) FindPrevious(t Target, wrap bool) bool {
	if d.pattern == nil {
		return false
	}

	text := t.Text()
	sel := t.Selection()

	r, ok := d.pattern.Prev(text, sel.Start)
	if !ok && wrap {
		r, ok = d.pattern.Prev(text, len([]rune(text))+1)
		if ok {
			d.log.Debug().Msg("search wrapped to bottom")
		}
	}
	if !ok {
		return false
	}

	return d.selectMatch(t, r)
}

// Replace replaces the selection when it is exactly one match, then moves to
// the next match. When the selection is not a match it only moves to the next
// match, so the first Replace shows what the second one will change. Reports
// whether text was replaced.
func (d *Data) Replace(t Target, replacement string) bool {
	if d.pattern == nil {
		d.notifier.Infof("nothing to replace: no search string")
		return false
	}

	text := t.Text()
	sel := t.Selection()

	replaced := false
	if d.pattern.Matches(text, sel) {
		if !t.Editable() {
			d.notifier.Warnf("document is read-only")
			return false
		}

		expanded, err := d.pattern.Expand(text, sel, replacement)
		if err != nil {
			d.notifier.Warnf("%v", err)
			return false
		}
		if err := t.Replace(sel, expanded); err != nil {
			d.notifier.Warnf("replace failed: %v", err)
			return false
		}
		replaced = true
	}

	found := d.FindNext(t, false)
	if !replaced && !found {
		d.NotifyNotFound(t)
	}
	return replaced
}

// ReplaceAll replaces every match in a single edit and returns the count. No
// pattern or no match is reported through the notifier; only a read-only target or a failed
// edit is an error.
func (d *Data) ReplaceAll(t Target, replacement string) (int, error) {
	if d.pattern == nil {
		d.notifier.Infof("nothing to replace: no search string")
		return 0, nil
	}
	if !t.Editable() {
		return 0, document.ErrReadOnly
	}

	text := t.Text()
	out, n, err := d.pattern.ReplaceAll(text, replacement)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		d.notifier.Infof("nothing to replace: search string %q not found", d.pattern.Query())
		return 0, nil
	}

	dot := t.Caret().Dot
	whole := document.Range{Start: 0, End: len([]rune(text))}
	if err := t.Replace(whole, out); err != nil {
		return 0, fmt.Errorf("replace all: %w", err)
	}

	// Keep the caret near where it was instead of at the end of the text.
	dot = min(dot, len([]rune(out)))
	if err := t.Select(document.Range{Start: dot, End: dot}); err != nil && !errors.Is(err, document.ErrOutOfRange) {
		return n, err
	}

	d.log.Debug().Int("count", n).Msg("replaced all")
	return n, nil
}

// NotifyNotFound tells the user the current pattern has no match.
func (d *Data) NotifyNotFound(_ Target) {
	query := ""
	if d.pattern != nil {
		query = d.pattern.Query()
	}
	d.notifier.Infof("search string %q not found", query)
}

// nextFrom finds the next match at or after from. An empty match sitting on
// the current empty selection is skipped so repeated searches advance.
func (d *Data) nextFrom(text string, from int, sel document.Range) (document.Range, bool) {
	r, ok := d.pattern.Next(text, from)
	if ok && r.Empty() && r == sel {
		r, ok = d.pattern.Next(text, from+1)
	}
	return r, ok
}

func (d *Data) selectMatch(t Target, r document.Range) bool {
	if err := t.Select(r); err != nil {
		d.log.Debug().Err(err).Stringer("range", r).Msg("select match")
		return false
	}
	return true
}

func (d *Data) notifyObservers() {
	obs := make([]observer, len(d.observers))
	copy(obs, d.observers)
	for _, o := range obs {
		o.fn(d.pattern)
	}
}

type patternStringer struct{ p *Pattern }

func (s patternStringer) String() string {
	if s.p == nil {
		return "<none>"
	}
	return s.p.String()
}
