package findreplace

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/history"
	"github.com/colonyops/quill/internal/core/markers"
	"github.com/colonyops/quill/internal/core/search"
)

// SearchParameters is the query and flags collected from the dialog.
type SearchParameters struct {
	QueryText  string
	UseRegex   bool
	IgnoreCase bool
	WrapAround bool
}

// HighlightState is the highlight toggle. The zero value is OFF.
type HighlightState struct {
	Enabled bool
}

func (h HighlightState) String() string {
	if h.Enabled {
		return "on"
	}
	return "off"
}

// Shell is the surface hosting the controller: the TUI dialog, or a headless
// shell in the CLI.
type Shell interface {
	// FocusTextView moves input focus back to the document.
	FocusTextView()
	// FocusQuery moves input focus to the Find field.
	FocusQuery()
	// ShowPatternError tells the user the query does not compile.
	ShowPatternError(err *search.PatternError)
	// Hide closes the dialog.
	Hide()
}

// SearchData is the shared search state the controller delegates to.
// *search.Data implements it.
type SearchData interface {
	SetPattern(text string, regex, ignoreCase bool) error
	Pattern() *search.Pattern
	OnPatternChange(fn func(*search.Pattern)) func()
	FindNext(t search.Target, wrap bool) bool
	FindPrevious(t search.Target, wrap bool) bool
	Replace(t search.Target, replacement string) bool
	ReplaceAll(t search.Target, replacement string) (int, error)
	NotifyNotFound(t search.Target)
}

// View is the text view the controller searches and highlights.
// *document.Document implements it.
type View interface {
	search.Target
	markers.Surface
	Enabled() bool
	OnCaretChange(fn func(document.Caret)) func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistorySize bounds the Find and Replace recency lists.
func WithHistorySize(n int) Option {
	return func(c *Controller) {
		c.queries = history.NewRecency(n)
		c.replacements = history.NewRecency(n)
	}
}

// WithParameters sets the initial query and flags.
func WithParameters(p SearchParameters) Option {
	return func(c *Controller) { c.params = p }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithNotifier sets where controller warnings go, such as Replace All on a
// read-only document.
func WithNotifier(n search.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

type nopNotifier struct{}

func (nopNotifier) Infof(string, ...any) {}
func (nopNotifier) Warnf(string, ...any) {}
