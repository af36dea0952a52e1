package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/internal/core/markers"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/core/watch"
	"github.com/colonyops/quill/pkg/iojson"
)

type FindCmd struct {
	flags *Flags
	log   zerolog.Logger

	// flags
	search     searchFlags
	jsonOutput bool
	watch      bool
}

// NewFindCmd creates a new find command
func NewFindCmd(flags *Flags) *FindCmd {
	return &FindCmd{flags: flags, log: logging.Component("commands")}
}

// Register adds the find command to the application
func (cmd *FindCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "find",
		Usage:     "Print every match of a query in a file",
		UsageText: "quill find [--regex] [--ignore-case] --query Q <file>",
		Description: `Searches the file with the same engine as the Find and Replace dialog and
prints each match as line:col: text, with 1-based lines and columns.

A query that matches nothing is not an error; the miss is reported on stderr.
With --watch, the search runs again every time the file changes until
interrupted.`,
		Flags: append(cmd.search.cliFlags(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output matches as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "search again whenever the file changes",
				Destination: &cmd.watch,
			},
		),
		Action: cmd.run,
	})

	return app
}

// match is the JSON output format for quill find --json.
type match struct {
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Match string `json:"match"`
	Text  string `json:"text"`
}

func (cmd *FindCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("find requires exactly one file argument")
	}
	path := c.Args().First()
	ctx = logging.WithDocument(ctx, path)

	if err := cmd.find(ctx, c, path); err != nil || !cmd.watch {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out := c.Root().Writer
	color := isTerminal(out)
	return watch.File(ctx, path, func() {
		if !cmd.jsonOutput {
			_, _ = fmt.Fprintln(out, render(color, styles.DividerStyle, "-- "+time.Now().Format(time.TimeOnly)+" --"))
		}
		if err := cmd.find(ctx, c, path); err != nil {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, err)
		}
	})
}

func (cmd *FindCmd) find(ctx context.Context, c *cli.Command, path string) error {
	s, err := openSearchSession(path, cmd.search, cmd.flags.config(), c.Root().ErrWriter, cmd.log)
	if err != nil {
		return err
	}
	defer s.Close()

	// Highlighting marks every match, which is exactly the listing we print.
	if err := s.ctrl.SetHighlight(true); err != nil {
		return patternError(err)
	}

	found := s.doc.Markers(markers.SearchMarker)
	cmd.log.Debug().Ctx(ctx).Int("matches", len(found)).Str("query", cmd.search.query).Msg("find")

	if len(found) == 0 {
		// FindNext reports the miss through the notification bus.
		return patternError(s.ctrl.FindNext())
	}

	out := c.Root().Writer
	color := isTerminal(out)
	lines := s.doc.Lines()

	for _, m := range found {
		info := describeMatch(s.doc, lines, m.Range)

		if cmd.jsonOutput {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode match: %w", err)
			}
			continue
		}

		loc := render(color, styles.MatchLocationStyle, fmt.Sprintf("%d:%d:", info.Line, info.Col))
		_, _ = fmt.Fprintln(out, loc+" "+highlightLine(color, info))
	}

	return nil
}

func describeMatch(doc *document.Document, lines []string, r document.Range) match {
	line, col := doc.LineCol(r.Start)
	return match{
		Line:  line,
		Col:   col,
		Start: r.Start,
		End:   r.End,
		Match: doc.Slice(r),
		Text:  lines[line-1],
	}
}

// highlightLine renders the matched line with the match itself emphasised.
// Matches spanning lines only emphasise their first line.
func highlightLine(color bool, m match) string {
	if !color {
		return m.Text
	}

	runes := []rune(m.Text)
	start := min(m.Col-1, len(runes))
	end := min(start+(m.End-m.Start), len(runes))

	return styles.TextStyle.Render(string(runes[:start])) +
		styles.MatchTextStyle.Render(string(runes[start:end])) +
		styles.TextStyle.Render(string(runes[end:]))
}
