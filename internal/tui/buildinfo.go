package tui

// BuildInfo holds build-time metadata for display in the TUI.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Title is the help dialog heading.
func (b BuildInfo) Title() string {
	if b.Version == "" {
		return "quill"
	}
	return "quill " + b.Version
}
