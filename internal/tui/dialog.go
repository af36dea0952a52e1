package tui

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/history"
	"github.com/colonyops/quill/internal/core/logging"
	"github.com/colonyops/quill/internal/core/search"
	"github.com/colonyops/quill/internal/core/styles"
	"github.com/colonyops/quill/internal/findreplace"
	"github.com/colonyops/quill/internal/tui/components"
)

const (
	regexErrorTitle   = "Regular Expression Error"
	dialogLabelWidth  = 11
	dialogMinInputLen = 10
)

type dialogField int

const (
	fieldFind dialogField = iota
	fieldReplace
)

// Dialog is the find/replace panel. It owns the input widgets, hosts a
// findreplace.Controller and implements findreplace.Shell for it.
//
// The dialog is non-blocking: after a search the controller hands focus back
// to the document while the panel stays on screen.
type Dialog struct {
	ctrl *findreplace.Controller
	keys DialogKeys
	log  zerolog.Logger

	find           textinput.Model
	replace        textinput.Model
	findHistory    *history.Cursor
	replaceHistory *history.Cursor
	field          dialogField

	visible bool
	focused bool
	alert   *components.AlertDialog

	// Focus commands raised from Shell callbacks, flushed by Update.
	pending []tea.Cmd
}

var _ findreplace.Shell = (*Dialog)(nil)

// NewDialog creates a hidden dialog over view and data.
func NewDialog(view findreplace.View, data findreplace.SearchData, opts ...findreplace.Option) *Dialog {
	d := &Dialog{
		keys:    DefaultDialogKeys(),
		log:     logging.Component("tui"),
		find:    newDialogInput("search for"),
		replace: newDialogInput("replace with"),
	}
	d.ctrl = findreplace.New(view, data, d, opts...)
	d.find.SetValue(d.ctrl.Parameters().QueryText)
	d.findHistory = history.NewCursor(d.ctrl.QueryHistory())
	d.replaceHistory = history.NewCursor(d.ctrl.ReplacementHistory())
	d.refreshKeys()
	return d
}

func newDialogInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.SetWidth(40)
	ti.KeyMap.Paste.SetEnabled(true)

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)

	return ti
}

// Controller returns the controller the dialog drives.
func (d *Dialog) Controller() *findreplace.Controller { return d.ctrl }

// Keys returns the dialog key map with Replace All enabled or not.
func (d *Dialog) Keys() DialogKeys {
	d.refreshKeys()
	return d.keys
}

// Visible reports whether the panel is on screen.
func (d *Dialog) Visible() bool { return d.visible }

// Focused reports whether keys go to the dialog rather than the document.
func (d *Dialog) Focused() bool { return d.visible && d.focused }

// Alert returns the open error alert, or nil.
func (d *Dialog) Alert() *components.AlertDialog { return d.alert }

// FindValue returns the Find field text.
func (d *Dialog) FindValue() string { return d.find.Value() }

// ReplaceValue returns the Replace field text.
func (d *Dialog) ReplaceValue() string { return d.replace.Value() }

// SetWidth sizes the input fields for a panel of the given width.
func (d *Dialog) SetWidth(width int) {
	w := max(width-dialogLabelWidth-6, dialogMinInputLen)
	d.find.SetWidth(w)
	d.replace.SetWidth(w)
}

// Open shows the dialog and focuses the Find field. A single-line selection
// becomes the query.
func (d *Dialog) Open(selected string) tea.Cmd {
	if selected != "" && !strings.Contains(selected, "\n") {
		d.find.SetValue(selected)
		d.find.CursorEnd()
		d.findHistory.Reset()
	}
	d.FocusQuery()
	return d.flush()
}

// FindNext runs Next from the document without focusing the dialog.
func (d *Dialog) FindNext() tea.Cmd {
	d.sync()
	d.report("find next", d.ctrl.FindNext())
	return d.flush()
}

// FindPrevious runs Previous from the document without focusing the dialog.
func (d *Dialog) FindPrevious() tea.Cmd {
	d.sync()
	d.report("find previous", d.ctrl.FindPrevious())
	return d.flush()
}

// FocusTextView implements findreplace.Shell.
func (d *Dialog) FocusTextView() {
	d.focused = false
	d.find.Blur()
	d.replace.Blur()
}

// FocusQuery implements findreplace.Shell.
func (d *Dialog) FocusQuery() {
	d.visible = true
	d.focused = true
	d.field = fieldFind
	d.replace.Blur()
	d.pending = append(d.pending, d.find.Focus())
}

// ShowPatternError implements findreplace.Shell.
func (d *Dialog) ShowPatternError(err *search.PatternError) {
	alert := components.NewAlertDialog(regexErrorTitle, "Regexp error: "+err.Detail)
	d.alert = &alert
}

// Hide implements findreplace.Shell.
func (d *Dialog) Hide() {
	d.visible = false
	d.alert = nil
	d.FocusTextView()
}

// Update handles a key while the dialog has focus.
func (d *Dialog) Update(msg tea.KeyPressMsg) tea.Cmd {
	if d.alert != nil {
		alert, _ := d.alert.Update(msg)
		if alert.Closed() {
			d.alert = nil
			d.FocusQuery()
		} else {
			d.alert = &alert
		}
		return d.flush()
	}

	d.refreshKeys()
	p := d.ctrl.Parameters()

	switch {
	case key.Matches(msg, d.keys.Close):
		d.ctrl.Escape()
	case key.Matches(msg, d.keys.Next):
		d.sync()
		d.report("find next", d.ctrl.DefaultAction())
	case key.Matches(msg, d.keys.Previous):
		d.sync()
		d.report("find previous", d.ctrl.FindPrevious())
	case key.Matches(msg, d.keys.Replace):
		d.sync()
		d.ctrl.ReplaceOne()
		d.replaceHistory.Reset()
	case key.Matches(msg, d.keys.ReplaceAll):
		d.sync()
		d.report("replace all", d.ctrl.ReplaceAll())
		d.replaceHistory.Reset()
	case key.Matches(msg, d.keys.NextField), key.Matches(msg, d.keys.PrevField):
		d.switchField()
	case key.Matches(msg, d.keys.Older):
		d.stepHistory(true)
	case key.Matches(msg, d.keys.Newer):
		d.stepHistory(false)
	case key.Matches(msg, d.keys.ToggleRegex):
		d.ctrl.SetRegex(!p.UseRegex)
	case key.Matches(msg, d.keys.ToggleCase):
		d.ctrl.SetIgnoreCase(!p.IgnoreCase)
	case key.Matches(msg, d.keys.ToggleWrap):
		d.ctrl.SetWrapAround(!p.WrapAround)
	case key.Matches(msg, d.keys.ToggleHighlight):
		d.sync()
		d.report("highlight", d.ctrl.SetHighlight(!d.ctrl.Highlight().Enabled))
	default:
		d.updateInput(msg)
	}

	return d.flush()
}

// sync pushes the field values into the controller.
func (d *Dialog) sync() {
	d.ctrl.SetQuery(d.find.Value())
	d.ctrl.SetReplacement(d.replace.Value())
	d.findHistory.Reset()
}

// report logs errors the controller did not already show to the user.
func (d *Dialog) report(action string, err error) {
	var perr *search.PatternError
	if err == nil || errors.As(err, &perr) {
		return
	}
	d.log.Error().Err(err).Str("action", action).Msg("find/replace failed")
}

func (d *Dialog) refreshKeys() {
	d.keys.ReplaceAll.SetEnabled(d.ctrl.CanReplaceAll())
}

func (d *Dialog) flush() tea.Cmd {
	if len(d.pending) == 0 {
		return nil
	}
	cmd := tea.Batch(d.pending...)
	d.pending = nil
	return cmd
}

func (d *Dialog) switchField() {
	if d.field == fieldFind {
		d.field = fieldReplace
		d.find.Blur()
		d.pending = append(d.pending, d.replace.Focus())
		return
	}
	d.field = fieldFind
	d.replace.Blur()
	d.pending = append(d.pending, d.find.Focus())
}

func (d *Dialog) current() (*textinput.Model, *history.Cursor) {
	if d.field == fieldReplace {
		return &d.replace, d.replaceHistory
	}
	return &d.find, d.findHistory
}

func (d *Dialog) stepHistory(older bool) {
	input, cursor := d.current()

	var (
		v  string
		ok bool
	)
	if older {
		v, ok = cursor.Older(input.Value())
	} else {
		v, ok = cursor.Newer()
	}
	if !ok {
		return
	}
	input.SetValue(v)
	input.CursorEnd()
}

func (d *Dialog) updateInput(msg tea.Msg) {
	input, cursor := d.current()
	before := input.Value()

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() != before {
		cursor.Reset()
	}
	d.pending = append(d.pending, cmd)
}

// View renders the panel for the given width. It returns "" when hidden.
func (d *Dialog) View(width int) string {
	if !d.visible {
		return ""
	}
	d.refreshKeys()

	findRow := lipgloss.JoinHorizontal(lipgloss.Top,
		d.label(styles.IconSearch+" Find", fieldFind),
		d.find.View(),
	)
	replaceRow := lipgloss.JoinHorizontal(lipgloss.Top,
		d.label(styles.IconReplace+" Replace", fieldReplace),
		d.replace.View(),
	)

	p := d.ctrl.Parameters()
	toggles := strings.Join([]string{
		renderToggle(d.keys.ToggleRegex, styles.IconRegex+" Regex", p.UseRegex),
		renderToggle(d.keys.ToggleCase, styles.IconCase+" Ignore case", p.IgnoreCase),
		renderToggle(d.keys.ToggleWrap, styles.IconWrap+" Wrap", p.WrapAround),
		renderToggle(d.keys.ToggleHighlight, "Highlight", d.ctrl.Highlight().Enabled),
	}, "  ")

	var buttons []string
	for i, b := range []key.Binding{d.keys.Next, d.keys.Previous, d.keys.Replace, d.keys.ReplaceAll} {
		if !b.Enabled() {
			continue
		}
		style := styles.ModalButtonStyle
		if i == 0 {
			style = styles.ModalButtonSelectedStyle
		}
		buttons = append(buttons, style.Render(b.Help().Desc)+" "+styles.TextMutedStyle.Render(b.Help().Key))
	}

	help := styles.FormHelpStyle.Render("tab switch field · ↑/↓ history · esc close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		findRow,
		replaceRow,
		toggles,
		strings.Join(buttons, "  "),
		help,
	)

	style := styles.PanelStyle
	if d.Focused() {
		style = styles.PanelFocusedStyle
	}
	return style.Width(max(width, 1)).Render(content)
}

func (d *Dialog) label(name string, f dialogField) string {
	style := styles.FormTitleBlurredStyle
	if d.Focused() && d.field == f {
		style = styles.FormTitleStyle
	}
	return style.Width(dialogLabelWidth).Render(name)
}

func renderToggle(b key.Binding, name string, on bool) string {
	state := styles.ToggleOffStyle.Render("off")
	if on {
		state = styles.ToggleOnStyle.Render("on")
	}
	return styles.TextMutedStyle.Render("["+b.Help().Key+"]") + " " + name + ": " + state
}
