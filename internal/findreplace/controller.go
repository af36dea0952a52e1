// Package findreplace coordinates a Find and Replace dialog with the shared
// search state, the highlight markers, and the text view.
//
// The controller is UI agnostic. A shell (the TUI dialog or the CLI) pushes
// widget values in through the setters and calls the action methods; the
// controller reports back through the Shell interface. Everything runs on
// the caller's goroutine.
package findreplace

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/history"
	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/internal/core/markers"
	"github.com/colonyops/quill/internal/core/search"
)

// Controller mediates between the dialog state and the search collaborators.
type Controller struct {
	view     View
	data     SearchData
	shell    Shell
	notifier search.Notifier
	log      zerolog.Logger

	params       SearchParameters
	replacement  string
	highlight    HighlightState
	queries      *history.Recency
	replacements *history.Recency

	unsubscribe []func()
}

// New creates a controller over view and data and subscribes it to caret and
// pattern changes. Call Close to unsubscribe.
func New(view View, data SearchData, shell Shell, opts ...Option) *Controller {
	c := &Controller{
		view:         view,
		data:         data,
		shell:        shell,
		notifier:     nopNotifier{},
		log:          logging.Component("findreplace"),
		params:       SearchParameters{WrapAround: true},
		queries:      history.NewRecency(history.DefaultLimit),
		replacements: history.NewRecency(history.DefaultLimit),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.unsubscribe = append(c.unsubscribe,
		view.OnCaretChange(func(document.Caret) { c.CaretUpdate() }),
		data.OnPatternChange(c.patternChanged),
	)

	return c
}

// Close detaches the controller from the view and the search state.
func (c *Controller) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
}

// SetQuery sets the Find field text.
func (c *Controller) SetQuery(q string) { c.params.QueryText = q }

// SetReplacement sets the Replace field text.
func (c *Controller) SetReplacement(r string) { c.replacement = r }

// SetRegex sets the Regular Expression toggle.
func (c *Controller) SetRegex(v bool) { c.params.UseRegex = v }

// SetIgnoreCase sets the Ignore Case toggle.
func (c *Controller) SetIgnoreCase(v bool) { c.params.IgnoreCase = v }

// SetWrapAround sets the Wrap Around toggle.
func (c *Controller) SetWrapAround(v bool) { c.params.WrapAround = v }

// Parameters returns the current query and flags.
func (c *Controller) Parameters() SearchParameters { return c.params }

// Replacement returns the Replace field text.
func (c *Controller) Replacement() string { return c.replacement }

// QueryHistory returns the Find recency list.
func (c *Controller) QueryHistory() *history.Recency { return c.queries }

// ReplacementHistory returns the Replace recency list.
func (c *Controller) ReplacementHistory() *history.Recency { return c.replacements }

// Highlight returns the highlight toggle state.
func (c *Controller) Highlight() HighlightState { return c.highlight }

// CanReplaceAll reports whether Replace All is offered: the view must be
// editable and enabled.
func (c *Controller) CanReplaceAll() bool {
	return c.view.Editable() && c.view.Enabled()
}

// UpdatePattern pushes the query and flags into the search state. A malformed
// regex is shown to the user, focus goes to the Find field, and the
// *search.PatternError is returned; the previous pattern and the query
// history are left untouched.
func (c *Controller) UpdatePattern() error {
	p := c.params
	if err := c.data.SetPattern(p.QueryText, p.UseRegex, p.IgnoreCase); err != nil {
		var perr *search.PatternError
		if errors.As(err, &perr) {
			c.log.Warn().Str("query", p.QueryText).Str("detail", perr.Detail).Msg("invalid pattern")
			c.shell.ShowPatternError(perr)
			c.shell.FocusQuery()
		}
		return err
	}

	c.queries.Add(p.QueryText)
	c.log.Debug().
		Str("query", p.QueryText).
		Bool("regex", p.UseRegex).
		Bool("ignore_case", p.IgnoreCase).
		Msg("pattern updated")
	return nil
}

// FindNext selects the next match. No match is reported through the search
// notifier. Focus returns to the text view either way.
func (c *Controller) FindNext() error {
	return c.find(c.data.FindNext, "next")
}

// FindPrevious selects the previous match, otherwise like FindNext.
func (c *Controller) FindPrevious() error {
	return c.find(c.data.FindPrevious, "previous")
}

func (c *Controller) find(fn func(search.Target, bool) bool, dir string) error {
	if err := c.UpdatePattern(); err != nil {
		return err
	}

	if !fn(c.view, c.params.WrapAround) {
		c.data.NotifyNotFound(c.view)
	}
	c.log.Debug().Str("direction", dir).Stringer("selection", c.view.Selection()).Msg("find")

	c.shell.FocusTextView()
	return nil
}

// ReplaceOne replaces the selected match and moves to the next one, using the
// pattern last pushed by UpdatePattern. Highlighting is switched off first.
func (c *Controller) ReplaceOne() {
	c.disableHighlight()
	c.replacements.Add(c.replacement)
	c.data.Replace(c.view, c.replacement)
}

// ReplaceAll replaces every match of the current query. Highlighting is
// switched off whatever the outcome. Focus returns to the text view.
func (c *Controller) ReplaceAll() error {
	if err := c.UpdatePattern(); err != nil {
		return err
	}

	c.disableHighlight()
	c.replacements.Add(c.replacement)

	n, err := c.data.ReplaceAll(c.view, c.replacement)
	switch {
	case errors.Is(err, document.ErrReadOnly):
		c.notifier.Warnf("document is read-only")
	case err != nil:
		c.shell.FocusTextView()
		return fmt.Errorf("replace all: %w", err)
	case n > 0:
		c.notifier.Infof("replaced %d occurrence(s)", n)
	}

	c.shell.FocusTextView()
	return nil
}

// RefreshHighlights clears the search markers and, when highlighting is on,
// marks every match of the current pattern again.
func (c *Controller) RefreshHighlights() {
	cleared := markers.ClearMarks(c.view, markers.SearchMarker)
	if !c.highlight.Enabled {
		if cleared > 0 {
			c.log.Debug().Int("cleared", cleared).Msg("highlights cleared")
		}
		return
	}

	n := markers.MarkAll(c.view, c.data.Pattern(), markers.SearchMarker)
	c.log.Debug().Int("cleared", cleared).Int("marked", n).Msg("highlights refreshed")
}

// SetHighlight flips the highlight toggle. Turning it on updates the pattern
// first; a malformed query leaves the toggle on with nothing marked and
// returns the error. Turning it off always clears.
func (c *Controller) SetHighlight(enabled bool) error {
	c.highlight.Enabled = enabled
	if enabled {
		if err := c.UpdatePattern(); err != nil {
			return err
		}
	}
	c.RefreshHighlights()
	return nil
}

// CaretUpdate is called when the caret or content of the view changes.
func (c *Controller) CaretUpdate() {
	c.RefreshHighlights()
}

// Escape closes the dialog.
func (c *Controller) Escape() {
	c.shell.Hide()
}

// DefaultAction is the primary button: Next.
func (c *Controller) DefaultAction() error {
	return c.FindNext()
}

// patternChanged follows pattern updates made by any surface sharing the
// search state. Only an active highlight is redrawn, so a surface with
// highlighting off never clears marks another surface painted.
func (c *Controller) patternChanged(*search.Pattern) {
	if c.highlight.Enabled {
		c.RefreshHighlights()
	}
}

func (c *Controller) disableHighlight() {
	if c.highlight.Enabled {
		c.log.Debug().Msg("highlight off for replace")
	}
	c.highlight.Enabled = false
	c.RefreshHighlights()
}
