package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/styles"
)

const (
	toastTTL          = 4 * time.Second
	toastErrorTTL     = 8 * time.Second
	maxToasts         = 4
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 48
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

type toast struct {
	notification notify.Notification
	repeat       int
	remaining    time.Duration
}

// Toasts is the stack of transient notifications shown in the lower-right
// corner, oldest on top.
type Toasts struct {
	items   []toast
	ticking bool
}

// NewToasts creates an empty toast stack.
func NewToasts() *Toasts {
	return &Toasts{}
}

func ttlFor(l notify.Level) time.Duration {
	if l == notify.LevelError {
		return toastErrorTTL
	}
	return toastTTL
}

// Push adds n to the stack. A notification equal to the newest toast bumps
// its repeat count and TTL instead of stacking, so pressing find next on a
// missing string shows one toast. The oldest toast is evicted past
// maxToasts.
func (t *Toasts) Push(n notify.Notification) {
	if last := len(t.items) - 1; last >= 0 {
		top := &t.items[last]
		if top.notification.Level == n.Level && top.notification.Message == n.Message {
			top.repeat++
			top.remaining = ttlFor(n.Level)
			return
		}
	}

	t.items = append(t.items, toast{
		notification: n,
		repeat:       1,
		remaining:    ttlFor(n.Level),
	})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

// Tick ages every toast by d and drops the expired ones.
func (t *Toasts) Tick(d time.Duration) {
	alive := t.items[:0]
	for _, item := range t.items {
		item.remaining -= d
		if item.remaining > 0 {
			alive = append(alive, item)
		}
	}
	t.items = alive
}

// Dismiss removes the newest toast.
func (t *Toasts) Dismiss() {
	if len(t.items) > 0 {
		t.items = t.items[:len(t.items)-1]
	}
}

// Len returns the number of visible toasts.
func (t *Toasts) Len() int { return len(t.items) }

// Schedule starts the tick timer when toasts are showing and it is not
// already running.
func (t *Toasts) Schedule() tea.Cmd {
	if t.ticking || len(t.items) == 0 {
		return nil
	}
	t.ticking = true
	return scheduleToastTick()
}

// HandleTick ages the toasts by one interval and keeps the timer running
// while any remain.
func (t *Toasts) HandleTick() tea.Cmd {
	t.Tick(toastTickInterval)
	t.ticking = false
	return t.Schedule()
}

// View renders the stack, oldest first.
func (t *Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(t.items))
	for _, item := range t.items {
		rendered = append(rendered, renderToast(item))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	var icon string
	var style lipgloss.Style

	switch t.notification.Level {
	case notify.LevelError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.LevelWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + t.notification.Message
	if t.repeat > 1 {
		content += styles.TextMutedStyle.Render(fmt.Sprintf(" (x%d)", t.repeat))
	}
	return style.Width(toastWidth).Render(content)
}

// Overlay composites the stack over background in the lower-right corner,
// leaving the status line uncovered.
func (t *Toasts) Overlay(background string, width, height int) string {
	content := t.View()
	if content == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(content)

	rightX := max(width-lipgloss.Width(content)-1, 0)
	bottomY := max(height-lipgloss.Height(content)-statusHeight, 0)
	toastLayer.X(rightX).Y(bottomY).Z(2)

	return lipgloss.NewCompositor(bgLayer, toastLayer).Render()
}
