package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/logging"
	corenotify "github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/watch"
	"github.com/colonyops/quill/internal/tui"
	"github.com/colonyops/quill/internal/tui/notify"
	"github.com/colonyops/quill/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	build tui.BuildInfo
	log   zerolog.Logger
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, build tui.BuildInfo) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		build: build,
		log:   logging.Component("commands"),
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("QUILL_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected at most one file, got %d. Run 'quill --help' for usage", c.Args().Len())
	}
	return cmd.run(ctx, c.Args().First())
}

func (cmd *TuiCmd) run(ctx context.Context, path string) error {
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				cmd.log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		cmd.log.Info().Str("url", profServer.URL()).Msg("profiler endpoint available")
	}

	cfg := cmd.flags.config()

	doc, err := openDocument(path, cfg.Editor.ReadOnly)
	if err != nil {
		return err
	}
	ctx = logging.WithDocument(ctx, doc.Path())

	var watcher *watch.FileWatcher
	if doc.Path() != "" && cfg.Editor.WatchEnabled() {
		watcher, err = watch.NewFileWatcher(doc.Path())
		if err != nil {
			// Editing still works without reloads.
			cmd.log.Warn().Ctx(ctx).Err(err).Msg("file watcher unavailable")
		} else {
			defer func() { _ = watcher.Close() }()
		}
	}

	bus := notify.NewBus(corenotify.NewMemoryStore(corenotify.DefaultCapacity))

	m := tui.New(doc, tui.Options{
		Config:  cfg,
		Bus:     bus,
		Watcher: watcher,
		Build:   cmd.build,
	})
	defer m.Close()

	cmd.log.Info().Ctx(ctx).Bool("read_only", !doc.Editable()).Msg("editor started")

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	cmd.log.Info().Ctx(ctx).Msg("editor closed")
	return nil
}

// openDocument opens path, or a scratch document when path is empty. A path
// that does not exist yet opens empty and is created on first save.
func openDocument(path string, readOnly bool) (*document.Document, error) {
	opts := []document.Option{document.WithReadOnly(readOnly)}
	if path == "" {
		return document.New("", opts...), nil
	}

	doc, err := document.Open(path, opts...)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, os.ErrNotExist):
		return document.New("", append(opts, document.WithPath(path))...), nil
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
}
