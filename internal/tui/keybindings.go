package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/quill/internal/tui/components"
)

// EditorKeys are the bindings active while the document has focus.
type EditorKeys struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Home        key.Binding
	End         key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	SelectUp    key.Binding
	SelectDown  key.Binding
	SelectLeft  key.Binding
	SelectRight key.Binding

	Find          key.Binding
	FindNext      key.Binding
	FindPrevious  key.Binding
	Save          key.Binding
	Quit          key.Binding
	Help          key.Binding
	Notifications key.Binding
}

// DefaultEditorKeys returns the document key map.
func DefaultEditorKeys() EditorKeys {
	return EditorKeys{
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "line up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "line down")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "char left")),
		Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "char right")),
		Home:        key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "line start")),
		End:         key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "line end")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
		SelectUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		SelectDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),
		SelectLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		SelectRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),

		Find:          key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find / replace")),
		FindNext:      key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "find next")),
		FindPrevious:  key.NewBinding(key.WithKeys("shift+f3"), key.WithHelp("shift+f3", "find previous")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Notifications: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "notifications")),
	}
}

// DialogKeys are the bindings active while the find/replace dialog has focus.
type DialogKeys struct {
	Next            key.Binding
	Previous        key.Binding
	Replace         key.Binding
	ReplaceAll      key.Binding
	NextField       key.Binding
	PrevField       key.Binding
	Older           key.Binding
	Newer           key.Binding
	ToggleRegex     key.Binding
	ToggleCase      key.Binding
	ToggleWrap      key.Binding
	ToggleHighlight key.Binding
	Close           key.Binding
}

// DefaultDialogKeys returns the dialog key map.
func DefaultDialogKeys() DialogKeys {
	return DialogKeys{
		Next:            key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		Previous:        key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous")),
		Replace:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "replace")),
		ReplaceAll:      key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "replace all")),
		NextField:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Older:           key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older entry")),
		Newer:           key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer entry")),
		ToggleRegex:     key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "regular expression")),
		ToggleCase:      key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "ignore case")),
		ToggleWrap:      key.NewBinding(key.WithKeys("alt+w"), key.WithHelp("alt+w", "wrap around")),
		ToggleHighlight: key.NewBinding(key.WithKeys("alt+h"), key.WithHelp("alt+h", "highlight matches")),
		Close:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// helpSections lists both key maps for the help dialog.
func helpSections(e EditorKeys, d DialogKeys) []components.HelpSection {
	return []components.HelpSection{
		{
			Title: "Document",
			Bindings: []key.Binding{
				e.Up, e.Down, e.Left, e.Right, e.Home, e.End, e.PageUp, e.PageDown,
				e.SelectUp, e.SelectDown, e.SelectLeft, e.SelectRight,
			},
		},
		{
			Title: "Commands",
			Bindings: []key.Binding{
				e.Find, e.FindNext, e.FindPrevious, e.Save, e.Notifications, e.Help, e.Quit,
			},
		},
		{
			Title: "Find / Replace",
			Bindings: []key.Binding{
				d.Next, d.Previous, d.Replace, d.ReplaceAll, d.NextField, d.PrevField,
				d.Older, d.Newer, d.ToggleRegex, d.ToggleCase, d.ToggleWrap,
				d.ToggleHighlight, d.Close,
			},
		},
	}
}
