package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/styles"
)

const (
	notificationsMaxHeight = 30
	notificationsMargin    = 4
	notificationsChrome    = 6 // title + divider + help + spacing
	notificationsMinWidth  = 50
)

// NotificationsDialog lists past notifications, newest first, in a
// scrollable viewport.
type NotificationsDialog struct {
	items    []notify.Notification
	viewport viewport.Model
}

// NewNotificationsDialog creates a dialog sized for a width x height screen.
func NewNotificationsDialog(items []notify.Notification, width, height int) *NotificationsDialog {
	modalWidth, modalHeight := notificationsSize(width, height)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(max(modalHeight-notificationsChrome, 1)),
	)

	d := &NotificationsDialog{items: items, viewport: vp}
	d.viewport.SetContent(d.renderContent())
	return d
}

func notificationsSize(width, height int) (int, int) {
	w := min(max(int(float64(width)*0.65), notificationsMinWidth), width-notificationsMargin)
	h := min(height-notificationsMargin, notificationsMaxHeight)
	return max(w, 10), max(h, notificationsChrome+1)
}

func (d *NotificationsDialog) renderContent() string {
	if len(d.items) == 0 {
		return styles.TextMutedStyle.Render("No notifications")
	}

	lines := make([]string, 0, len(d.items))
	for _, n := range d.items {
		lines = append(lines, formatNotification(n))
	}
	return strings.Join(lines, "\n")
}

func formatNotification(n notify.Notification) string {
	var icon string
	switch n.Level {
	case notify.LevelError:
		icon = styles.TextErrorStyle.Render(styles.IconNotifyError)
	case notify.LevelWarning:
		icon = styles.TextWarningStyle.Render(styles.IconNotifyWarning)
	default:
		icon = styles.TextMutedStyle.Render(styles.IconNotifyInfo)
	}

	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))
	return fmt.Sprintf("%s %s  %s", icon, ts, styles.TextForegroundStyle.Render(n.Message))
}

// ScrollUp scrolls the viewport up.
func (d *NotificationsDialog) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (d *NotificationsDialog) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the dialog centered over the provided background.
func (d *NotificationsDialog) Overlay(background string, width, height int) string {
	modalWidth, modalHeight := notificationsSize(width, height)

	scrollInfo := ""
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(fmt.Sprintf("Notifications (%d)", len(d.items))+scrollInfo),
		divider,
		d.viewport.View(),
		styles.ModalHelpStyle.Render("[up/down] scroll  [esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Height(modalHeight).
		Render(content)

	return centerOverlay(background, modal, width, height)
}
