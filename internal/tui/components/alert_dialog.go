// Package components provides reusable TUI components.
package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
)

const (
	alertMinWidth = 36
	alertMaxWidth = 72
	alertMargin   = 4
)

// AlertDialog is a modal message with a single OK button. It blocks other
// input until dismissed with enter, space or esc.
type AlertDialog struct {
	title   string
	message string
	closed  bool
}

// NewAlertDialog creates an alert with the given title and message.
func NewAlertDialog(title, message string) AlertDialog {
	return AlertDialog{title: title, message: message}
}

// Update handles input for the alert.
func (d AlertDialog) Update(msg tea.Msg) (AlertDialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch keyMsg.String() {
	case "enter", "esc", "space", " ":
		d.closed = true
	}
	return d, nil
}

// Closed reports whether the user dismissed the alert.
func (d AlertDialog) Closed() bool { return d.closed }

// Title returns the alert title.
func (d AlertDialog) Title() string { return d.title }

// Message returns the alert message.
func (d AlertDialog) Message() string { return d.message }

// View renders the alert box sized for a screen of the given width.
func (d AlertDialog) View(width int) string {
	w := min(max(lipgloss.Width(d.message)+6, alertMinWidth), alertMaxWidth)
	if width > 0 {
		w = max(min(w, width-alertMargin), 1)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Foreground(styles.ColorError).Render(styles.IconNotifyError+" "+d.title),
		"",
		styles.TextForegroundStyle.Width(max(w-6, 1)).Render(d.message),
		"",
		styles.ModalButtonSelectedStyle.Render("OK"),
		styles.ModalHelpStyle.Render("enter/esc close"),
	)

	return styles.ModalErrorStyle.Width(w).Render(content)
}

// Overlay renders the alert centered over background.
func (d AlertDialog) Overlay(background string, width, height int) string {
	return centerOverlay(background, d.View(width), width, height)
}

// centerOverlay composites modal over background at the center of the screen.
func centerOverlay(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	centerX := max((width-modalW)/2, 0)
	centerY := max((height-modalH)/2, 0)
	modalLayer.X(centerX).Y(centerY).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
