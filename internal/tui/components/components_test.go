package components

import (
	"fmt"
	"testing"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/pkg/tuitest"
)

func TestAlertDialog_RendersTitleAndMessage(t *testing.T) {
	d := NewAlertDialog("Regular Expression Error", "Regexp error: missing closing )")

	out := tuitest.StripANSI(d.Overlay("background", 100, 30))
	assert.Contains(t, out, "Regular Expression Error")
	assert.Contains(t, out, "Regexp error: missing closing )")
	assert.Contains(t, out, "OK")
}

func TestAlertDialog_Dismiss(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.Msg
		closed bool
	}{
		{name: "enter", msg: tuitest.KeyEnter(), closed: true},
		{name: "esc", msg: tuitest.KeyEsc(), closed: true},
		{name: "other key", msg: tuitest.KeyPress('x'), closed: false},
		{name: "not a key", msg: tuitest.WindowSize(80, 24), closed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewAlertDialog("t", "m")
			d, _ = d.Update(tt.msg)
			assert.Equal(t, tt.closed, d.Closed())
		})
	}
}

func TestHelpDialog_SkipsDisabledBindings(t *testing.T) {
	enabled := key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find"))
	disabled := key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "replace all"))
	disabled.SetEnabled(false)

	h := NewHelpDialog("Keys", []HelpSection{
		{Title: "Editor", Bindings: []key.Binding{enabled, disabled}},
	})

	out := tuitest.StripANSI(h.Overlay("", 80, 30))
	assert.Contains(t, out, "Editor")
	assert.Contains(t, out, "find")
	assert.NotContains(t, out, "replace all")
}

func TestUnsavedModal(t *testing.T) {
	m := NewUnsavedModal("notes.txt")
	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "notes.txt has unsaved changes.")
	assert.Contains(t, out, "save and quit")

	tests := []struct {
		name string
		msg  tea.Msg
		want UnsavedChoice
	}{
		{name: "save", msg: tuitest.KeyPress('s'), want: UnsavedSave},
		{name: "discard", msg: tuitest.KeyPress('d'), want: UnsavedDiscard},
		{name: "yes discards", msg: tuitest.KeyPress('y'), want: UnsavedDiscard},
		{name: "no", msg: tuitest.KeyPress('n'), want: UnsavedCancel},
		{name: "esc", msg: tuitest.KeyEsc(), want: UnsavedCancel},
		{name: "other key", msg: tuitest.KeyPress('x'), want: UnsavedPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.Update(tt.msg)
			assert.Equal(t, tt.want, got.Choice())
		})
	}
}

func TestNotificationsDialog(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	items := []notify.Notification{
		{Level: notify.LevelWarning, Message: "document is read-only", CreatedAt: at},
		{Level: notify.LevelInfo, Message: `search string "x" not found`, CreatedAt: at},
	}

	d := NewNotificationsDialog(items, 120, 40)
	out := tuitest.StripANSI(d.Overlay("bg", 120, 40))
	assert.Contains(t, out, "Notifications (2)")
	assert.Contains(t, out, "document is read-only")
	assert.Contains(t, out, "15:04:05")
}

func TestNotificationsDialog_ScrollAndEmpty(t *testing.T) {
	empty := NewNotificationsDialog(nil, 80, 24)
	assert.Contains(t, tuitest.StripANSI(empty.Overlay("", 80, 24)), "No notifications")

	items := make([]notify.Notification, 0, 50)
	for i := range 50 {
		items = append(items, notify.Notification{Level: notify.LevelInfo, Message: fmt.Sprintf("n%d", i)})
	}

	d := NewNotificationsDialog(items, 70, 20)
	before := d.Overlay("bg", 70, 20)
	d.ScrollDown()
	d.ScrollDown()
	assert.NotEqual(t, before, d.Overlay("bg", 70, 20))
	d.ScrollUp()
	assert.Contains(t, tuitest.StripANSI(d.Overlay("bg", 70, 20)), "%)")
}
