package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
)

// UnsavedChoice is the answer given to an UnsavedModal.
type UnsavedChoice int

const (
	UnsavedPending UnsavedChoice = iota
	UnsavedSave
	UnsavedDiscard
	UnsavedCancel
)

// UnsavedModal asks what to do with unsaved edits before quitting.
type UnsavedModal struct {
	name   string
	choice UnsavedChoice
}

// NewUnsavedModal creates the modal for the document called name.
func NewUnsavedModal(name string) UnsavedModal {
	return UnsavedModal{name: name}
}

// Update records the choice for s, d/y, or n/esc. Other keys are ignored.
func (m UnsavedModal) Update(msg tea.Msg) (UnsavedModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "s", "S":
		m.choice = UnsavedSave
	case "d", "D", "y", "Y":
		m.choice = UnsavedDiscard
	case "n", "N", "esc":
		m.choice = UnsavedCancel
	}

	return m, nil
}

// Choice returns the answer, UnsavedPending until one is given.
func (m UnsavedModal) Choice() UnsavedChoice { return m.choice }

func (m UnsavedModal) View() string {
	title := styles.ModalTitleStyle.Render(styles.IconModified + " Unsaved changes")
	message := styles.ConfirmMessageStyle.Render(m.name + " has unsaved changes.")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.ModalButtonSelectedStyle.Render("[s] save and quit"),
		" ",
		styles.ModalButtonStyle.Render("[d] discard"),
		" ",
		styles.ModalButtonStyle.Render("[esc] cancel"),
	)

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", message, "", buttons))
}

// Overlay renders the modal centered over background.
func (m UnsavedModal) Overlay(background string, width, height int) string {
	return centerOverlay(background, m.View(), width, height)
}
