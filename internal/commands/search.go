package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/logging"
	corenotify "github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/search"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/findreplace"
	"github.com/colonyops/quill/internal/tui/notify"
)

// searchFlags are the query options shared by find and replace.
type searchFlags struct {
	query      string
	regex      bool
	ignoreCase bool
}

func (f *searchFlags) cliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "text or regular expression to search for",
			Required:    true,
			Destination: &f.query,
		},
		&cli.BoolFlag{
			Name:        "regex",
			Aliases:     []string{"E"},
			Usage:       "treat the query as a regular expression",
			Destination: &f.regex,
		},
		&cli.BoolFlag{
			Name:        "ignore-case",
			Aliases:     []string{"i"},
			Usage:       "match case-insensitively",
			Destination: &f.ignoreCase,
		},
	}
}

// headlessShell hosts a findreplace.Controller without a terminal UI. The
// last pattern error is kept for the command to report.
type headlessShell struct {
	patternErr *search.PatternError
}

func (s *headlessShell) FocusTextView() {}
func (s *headlessShell) FocusQuery()    {}
func (s *headlessShell) Hide()          {}

func (s *headlessShell) ShowPatternError(err *search.PatternError) {
	s.patternErr = err
}

// searchSession is one document opened for a headless find or replace.
type searchSession struct {
	doc   *document.Document
	bus   *notify.Bus
	ctrl  *findreplace.Controller
	shell *headlessShell

	unsubscribe func()
}

// openSearchSession opens path and wires a controller over it. Notifications
// are printed to stderr as they are published.
func openSearchSession(path string, sf searchFlags, cfg config.Config, stderr io.Writer, log zerolog.Logger) (*searchSession, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return newSearchSession(doc, sf, cfg, stderr, log), nil
}

func newSearchSession(doc *document.Document, sf searchFlags, cfg config.Config, stderr io.Writer, log zerolog.Logger) *searchSession {
	bus := notify.NewBus(corenotify.NewMemoryStore(corenotify.DefaultCapacity))
	shell := &headlessShell{}
	data := search.NewData(bus, search.WithLogger(logging.Component("search")))

	ctrl := findreplace.New(doc, data, shell,
		findreplace.WithNotifier(bus),
		findreplace.WithLogger(log),
		findreplace.WithHistorySize(cfg.Search.HistorySize),
		findreplace.WithParameters(findreplace.SearchParameters{
			QueryText:  sf.query,
			UseRegex:   sf.regex,
			IgnoreCase: sf.ignoreCase,
			WrapAround: cfg.Search.Wrap(),
		}),
	)

	return &searchSession{
		doc:         doc,
		bus:         bus,
		ctrl:        ctrl,
		shell:       shell,
		unsubscribe: bus.Subscribe(printNotification(stderr)),
	}
}

func (s *searchSession) Close() {
	s.unsubscribe()
	s.ctrl.Close()
}

// patternError converts a controller error into the message shown to the
// user, carrying the same detail as the TUI alert.
func patternError(err error) error {
	var perr *search.PatternError
	if errors.As(err, &perr) {
		return fmt.Errorf("regexp error: %s", perr.Detail)
	}
	return err
}

func printNotification(w io.Writer) notify.Subscriber {
	color := isTerminal(w)
	return func(n corenotify.Notification) {
		if !color {
			_, _ = fmt.Fprintln(w, n.String())
			return
		}

		style := styles.TextMutedStyle
		switch n.Level {
		case corenotify.LevelWarning:
			style = styles.TextWarningStyle
		case corenotify.LevelError:
			style = styles.TextErrorStyle
		}
		_, _ = fmt.Fprintln(w, style.Render(string(n.Level)+":")+" "+n.Message)
	}
}

// isTerminal reports whether w is a terminal that should get colored output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func render(color bool, style lipgloss.Style, s string) string {
	if !color {
		return s
	}
	return style.Render(s)
}
