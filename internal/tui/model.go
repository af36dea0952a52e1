// Package tui implements the Bubble Tea TUI for quill: a document view with a
// non-blocking find/replace dialog, toasts and modal overlays.
package tui

import (
	"os"
	"path/filepath"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/logging"
	corenotify "github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/search"
	"github.com/colonyops/quill/internal/core/watch"
	"github.com/colonyops/quill/internal/findreplace"
	"github.com/colonyops/quill/internal/tui/components"
	"github.com/colonyops/quill/internal/tui/notify"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirmingQuit
	stateShowingHelp
	stateShowingNotifications
)

// Options configures a Model.
type Options struct {
	Config config.Config
	// Bus receives search and editor notifications. A bus backed by an
	// in-memory store is created when nil.
	Bus *notify.Bus
	// Watcher reports changes to the document file on disk. Optional.
	Watcher *watch.FileWatcher
	Build   BuildInfo
}

// Model is the main Bubble Tea model.
type Model struct {
	doc     *document.Document
	data    *search.Data
	dialog  *Dialog
	bus     *notify.Bus
	toasts  *Toasts
	watcher *watch.FileWatcher
	keys    EditorKeys
	build   BuildInfo
	log     zerolog.Logger

	tabWidth int
	top      int // first visible line
	left     int // first visible display column
	width    int
	height   int

	state         UIState
	unsaved       components.UnsavedModal
	help          *components.HelpDialog
	notifications *components.NotificationsDialog

	unsubscribe func()
	quitting    bool
}

// New creates a model over doc.
func New(doc *document.Document, opts Options) Model {
	cfg := opts.Config

	bus := opts.Bus
	if bus == nil {
		bus = notify.NewBus(corenotify.NewMemoryStore(corenotify.DefaultCapacity))
	}

	data := search.NewData(bus, search.WithLogger(logging.Component("search")))
	dialog := NewDialog(doc, data,
		findreplace.WithNotifier(bus),
		findreplace.WithHistorySize(cfg.Search.HistorySize),
		findreplace.WithParameters(findreplace.SearchParameters{
			UseRegex:   cfg.Search.Regex,
			IgnoreCase: cfg.Search.IgnoreCase,
			WrapAround: cfg.Search.Wrap(),
		}),
	)

	toasts := NewToasts()

	tabWidth := cfg.Editor.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}

	return Model{
		doc:         doc,
		data:        data,
		dialog:      dialog,
		bus:         bus,
		toasts:      toasts,
		watcher:     opts.Watcher,
		keys:        DefaultEditorKeys(),
		build:       opts.Build,
		log:         logging.Component("tui"),
		tabWidth:    tabWidth,
		unsubscribe: bus.Subscribe(toasts.Push),
	}
}

// Close detaches the model from the bus and the document.
func (m Model) Close() {
	m.unsubscribe()
	m.dialog.Controller().Close()
}

// Dialog returns the find/replace dialog.
func (m Model) Dialog() *Dialog { return m.dialog }

// Document returns the document being viewed.
func (m Model) Document() *document.Document { return m.doc }

// Init starts listening for file changes.
func (m Model) Init() tea.Cmd {
	return waitForFileChange(m.watcher)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dialog.SetWidth(msg.Width)
	case toastTickMsg:
		return m, m.toasts.HandleTick()
	case fileChangedMsg:
		m.reload(msg.event)
		cmds = append(cmds, waitForFileChange(m.watcher))
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	if m.quitting {
		return m, tea.Quit
	}

	m.scrollToCaret()
	cmds = append(cmds, m.toasts.Schedule())
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch m.state {
	case stateConfirmingQuit:
		return m.handleConfirmKey(msg), nil
	case stateShowingHelp:
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.state = stateNormal
			m.help = nil
		}
		return m, nil
	case stateShowingNotifications:
		return m.handleNotificationsKey(msg), nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m.quit(), nil
	}

	if m.dialog.Focused() || m.dialog.Alert() != nil {
		return m, m.dialog.Update(msg)
	}

	return m.handleEditorKey(msg)
}

func (m Model) handleEditorKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Find):
		return m, m.dialog.Open(m.doc.SelectedText())
	case key.Matches(msg, m.keys.FindNext):
		if m.dialog.FindValue() == "" {
			return m, m.dialog.Open(m.doc.SelectedText())
		}
		return m, m.dialog.FindNext()
	case key.Matches(msg, m.keys.FindPrevious):
		if m.dialog.FindValue() == "" {
			return m, m.dialog.Open(m.doc.SelectedText())
		}
		return m, m.dialog.FindPrevious()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Help):
		m.help = components.NewHelpDialog(m.build.Title(), helpSections(m.keys, m.dialog.Keys()))
		m.state = stateShowingHelp
	case key.Matches(msg, m.keys.Notifications):
		m.openNotifications()
	case msg.String() == "esc" && m.dialog.Visible():
		m.dialog.Controller().Escape()
	default:
		m.handleMovement(msg)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) Model {
	m.unsaved, _ = m.unsaved.Update(msg)
	switch m.unsaved.Choice() {
	case components.UnsavedSave:
		m.save()
		// A failed save keeps the editor open; the error is already toasted.
		m.quitting = !m.doc.Dirty()
		m.state = stateNormal
	case components.UnsavedDiscard:
		m.quitting = true
	case components.UnsavedCancel:
		m.state = stateNormal
	}
	return m
}

func (m Model) handleNotificationsKey(msg tea.KeyPressMsg) Model {
	switch {
	case msg.String() == "up" || msg.String() == "k":
		m.notifications.ScrollUp()
	case msg.String() == "down" || msg.String() == "j":
		m.notifications.ScrollDown()
	case msg.String() == "esc" || msg.String() == "q" || key.Matches(msg, m.keys.Notifications):
		m.state = stateNormal
		m.notifications = nil
	}
	return m
}

func (m Model) quit() Model {
	if m.doc.Dirty() {
		m.unsaved = components.NewUnsavedModal(m.displayName())
		m.state = stateConfirmingQuit
		return m
	}
	m.quitting = true
	return m
}

func (m *Model) openNotifications() {
	items, err := m.bus.History()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load notification history")
	}
	w, h := m.size()
	m.notifications = components.NewNotificationsDialog(items, w, h)
	m.state = stateShowingNotifications
}

func (m Model) save() {
	if err := m.doc.Save(); err != nil {
		m.log.Error().Err(err).Str("path", m.doc.Path()).Msg("save failed")
		m.bus.Errorf("save: %v", err)
		return
	}
	m.log.Info().Str("path", m.doc.Path()).Msg("saved")
	m.bus.Infof("saved %s", m.displayName())
}

// reload swaps in the file content after an on-disk change. Unsaved edits
// are kept and the user is warned instead.
func (m Model) reload(ev watch.Event) {
	data, err := os.ReadFile(ev.Path)
	if err != nil {
		m.log.Error().Err(err).Str("path", ev.Path).Msg("reload failed")
		m.bus.Errorf("reload: %v", err)
		return
	}

	text := string(data)
	if text == m.doc.Text() {
		return
	}
	if m.doc.Dirty() {
		m.bus.Warnf("%s changed on disk; keeping unsaved edits", m.displayName())
		return
	}

	m.doc.SetText(text)
	m.log.Info().Str("path", ev.Path).Time("changed_at", ev.Timestamp).Msg("reloaded")
	m.bus.Infof("reloaded %s", m.displayName())
}

func (m Model) displayName() string {
	if m.doc.Path() == "" {
		return "[scratch]"
	}
	return filepath.Base(m.doc.Path())
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return w, h
}

// bodyHeight is the number of document lines that fit above the dialog and
// the status line.
func (m Model) bodyHeight() int {
	w, h := m.size()
	h -= statusHeight
	if dv := m.dialog.View(w); dv != "" {
		h -= lipgloss.Height(dv)
	}
	return max(h, 1)
}

// View renders the model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.content())
	v.AltScreen = true
	return v
}

// content composes the screen: document, dialog, status line and overlays.
func (m Model) content() string {
	if m.quitting {
		return ""
	}

	w, h := m.size()

	parts := []string{m.renderDocument(w, m.bodyHeight())}
	if dv := m.dialog.View(w); dv != "" {
		parts = append(parts, dv)
	}
	parts = append(parts, m.renderStatus(w))
	mainView := lipgloss.JoinVertical(lipgloss.Left, parts...)

	var content string
	switch {
	case m.dialog.Alert() != nil:
		content = m.dialog.Alert().Overlay(mainView, w, h)
	case m.state == stateConfirmingQuit:
		content = m.unsaved.Overlay(mainView, w, h)
	case m.state == stateShowingHelp && m.help != nil:
		content = m.help.Overlay(mainView, w, h)
	case m.state == stateShowingNotifications && m.notifications != nil:
		content = m.notifications.Overlay(mainView, w, h)
	default:
		content = mainView
	}

	return m.toasts.Overlay(content, w, h)
}
