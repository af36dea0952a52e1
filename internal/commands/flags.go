package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/quill/internal/core/config"
)

type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	ProfilerPort int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// config returns the loaded config, or the defaults when the Before hook did
// not run (tests register commands on a bare cli.Command).
func (f *Flags) config() config.Config {
	if f.Config == nil {
		return config.DefaultConfig()
	}
	return *f.Config
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/quill/quill.log
// On Linux: $XDG_STATE_HOME/quill/quill.log (defaults to ~/.local/state/quill/quill.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "quill", "quill.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "quill", "quill.log")
	}

	return filepath.Join(home, ".local", "state", "quill", "quill.log")
}
