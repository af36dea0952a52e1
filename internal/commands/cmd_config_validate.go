package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "quill config validate [options]",
				Description: "Validates the configuration file, checking value ranges, the theme name and the file itself.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one failed field in the report.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationReport struct {
	Valid    bool                       `json:"valid"`
	Path     string                     `json:"path"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.config()

	report := validationReport{
		Path:     cmd.flags.ConfigPath,
		Errors:   validationErrors(cfg.ValidateDeep(cmd.flags.ConfigPath)),
		Warnings: cfg.Warnings(),
	}
	report.Valid = len(report.Errors) == 0

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, report); err != nil {
			return err
		}
	} else {
		cmd.outputText(c, report)
	}

	if !report.Valid {
		return fmt.Errorf("%d error(s) found", len(report.Errors))
	}
	return nil
}

func validationErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return []validationError{{Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fe))
	for _, e := range fe {
		out = append(out, validationError{Field: e.Field, Message: e.Err.Error()})
	}
	return out
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, report validationReport) {
	out := c.Root().Writer
	color := isTerminal(out)

	for _, warn := range report.Warnings {
		label := render(color, styles.TextWarningStyle, styles.IconNotifyWarning+" "+warn.Category)
		_, _ = fmt.Fprintf(out, "%s: %s\n", label, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(out, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range report.Errors {
		label := render(color, styles.TextErrorStyle, styles.IconNotifyError+" "+e.Field)
		_, _ = fmt.Fprintf(out, "%s: %s\n", label, e.Message)
	}

	_, _ = fmt.Fprintln(out)
	if report.Valid {
		_, _ = fmt.Fprintln(out, render(color, styles.TextSuccessStyle, "Configuration is valid"))
	}
}
