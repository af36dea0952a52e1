package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/pkg/iojson"
)

// Rule is one replacement in an apply input file.
type Rule struct {
	Query      string `json:"query"`
	With       string `json:"with"`
	Regex      bool   `json:"regex"`
	IgnoreCase bool   `json:"ignore_case"`
}

type ApplyCmd struct {
	flags *Flags
	log   zerolog.Logger
	fr    *iojson.FileReader[[]Rule]

	// flags
	write bool
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(flags *Flags) *ApplyCmd {
	return &ApplyCmd{
		flags: flags,
		log:   logging.Component("commands"),
		fr:    &iojson.FileReader[[]Rule]{},
	}
}

// Register adds the apply command to the application
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Apply a list of replacements to a file",
		UsageText: "quill apply [-f rules.json] [--write] <file>",
		Description: `Reads a JSON array of rules from a file or stdin and runs Replace All for each
rule in order, as if entered one after another in the Find and Replace dialog.

Input format:
  [
    {"query": "colour", "with": "color"},
    {"query": "(\\w+)@example\\.com", "with": "$1@example.org", "regex": true},
    {"query": "todo", "with": "TODO", "ignore_case": true}
  ]

A malformed rule stops the run before the file is written.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "rewrite the file instead of printing the result",
				Destination: &cmd.write,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("apply requires exactly one file argument")
	}
	path := c.Args().First()
	ctx = logging.WithDocument(ctx, path)

	rules, err := cmd.fr.Read()
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}
	if len(rules) == 0 {
		return errors.New("no rules to apply")
	}

	s, err := openSearchSession(path, searchFlags{}, cmd.flags.config(), c.Root().ErrWriter, cmd.log)
	if err != nil {
		return err
	}
	defer s.Close()

	for i, r := range rules {
		if r.Query == "" {
			return fmt.Errorf("rule %d: query is empty", i+1)
		}

		s.ctrl.SetQuery(r.Query)
		s.ctrl.SetRegex(r.Regex)
		s.ctrl.SetIgnoreCase(r.IgnoreCase)
		s.ctrl.SetReplacement(r.With)

		if err := s.ctrl.ReplaceAll(); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, patternError(err))
		}
		cmd.log.Debug().Ctx(ctx).Int("rule", i+1).Str("query", r.Query).Msg("rule applied")
	}

	return finishEdit(ctx, c, s, cmd.write, cmd.log)
}
