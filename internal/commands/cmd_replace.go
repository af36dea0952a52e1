package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/logging"
)

type ReplaceCmd struct {
	flags *Flags
	log   zerolog.Logger

	// flags
	search      searchFlags
	replacement string
	write       bool
}

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(flags *Flags) *ReplaceCmd {
	return &ReplaceCmd{flags: flags, log: logging.Component("commands")}
}

// Register adds the replace command to the application
func (cmd *ReplaceCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replace",
		Usage:     "Replace every match of a query in a file",
		UsageText: "quill replace [--regex] [--ignore-case] --query Q --with R [--write] <file>",
		Description: `Runs Replace All from the Find and Replace dialog over the file.

The result is printed to stdout unless --write is set, in which case the file
is rewritten in place. With --regex, the replacement may reference groups
as $1 or ${name}.`,
		Flags: append(cmd.search.cliFlags(),
			&cli.StringFlag{
				Name:        "with",
				Aliases:     []string{"r"},
				Usage:       "replacement text",
				Destination: &cmd.replacement,
			},
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "rewrite the file instead of printing the result",
				Destination: &cmd.write,
			},
		),
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplaceCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("replace requires exactly one file argument")
	}
	path := c.Args().First()
	ctx = logging.WithDocument(ctx, path)

	s, err := openSearchSession(path, cmd.search, cmd.flags.config(), c.Root().ErrWriter, cmd.log)
	if err != nil {
		return err
	}
	defer s.Close()

	s.ctrl.SetReplacement(cmd.replacement)
	if err := s.ctrl.ReplaceAll(); err != nil {
		return patternError(err)
	}

	return finishEdit(ctx, c, s, cmd.write, cmd.log)
}

// finishEdit saves the document when write is set, otherwise prints it.
// An unchanged document is never rewritten.
func finishEdit(ctx context.Context, c *cli.Command, s *searchSession, write bool, log zerolog.Logger) error {
	if !write {
		_, err := fmt.Fprint(c.Root().Writer, s.doc.Text())
		return err
	}

	if !s.doc.Dirty() {
		return nil
	}
	if err := s.doc.Save(); err != nil {
		return fmt.Errorf("save %s: %w", s.doc.Path(), err)
	}
	log.Info().Ctx(ctx).Msg("file rewritten")
	return nil
}
