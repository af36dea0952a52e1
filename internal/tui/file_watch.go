package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/quill/internal/core/watch"
)

// fileChangedMsg is sent when the document file changes on disk.
type fileChangedMsg struct {
	event watch.Event
}

// waitForFileChange blocks on the next watcher event. The model re-arms it
// after every change; a closed watcher ends the loop.
func waitForFileChange(w *watch.FileWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return fileChangedMsg{event: ev}
	}
}
