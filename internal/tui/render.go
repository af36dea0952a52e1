package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/markers"
	"github.com/colonyops/quill/internal/core/styles"
)

const statusHeight = 1

type cellKind int

const (
	cellText cellKind = iota
	cellMarker
	cellSelection
	cellCaret
)

func (k cellKind) style() lipgloss.Style {
	switch k {
	case cellCaret:
		return styles.CaretStyle
	case cellSelection:
		return styles.SelectionStyle
	case cellMarker:
		return styles.MarkerStyle
	default:
		return styles.TextStyle
	}
}

// lineContext is what a line needs to know to style its cells.
type lineContext struct {
	caret     int
	showCaret bool
	selection document.Range
	marks     []document.Marker // sorted by start
	tabWidth  int
}

func (c lineContext) kind(off int) cellKind {
	switch {
	case c.showCaret && off == c.caret:
		return cellCaret
	case c.selection.Contains(off):
		return cellSelection
	case marked(c.marks, off):
		return cellMarker
	}
	return cellText
}

// marked reports whether off falls inside one of the sorted, non-overlapping
// marks.
func marked(marks []document.Marker, off int) bool {
	i := sort.Search(len(marks), func(i int) bool { return marks[i].Range.End > off })
	return i < len(marks) && marks[i].Range.Start <= off
}

// renderLine styles one line of runes starting at document offset start.
// Runs of equally styled cells are rendered together and tabs expand to the
// next tab stop.
func renderLine(runes []rune, start int, ctx lineContext) string {
	var (
		out  strings.Builder
		seg  strings.Builder
		kind = cellText
		col  int
	)

	flush := func() {
		if seg.Len() > 0 {
			out.WriteString(kind.style().Render(seg.String()))
			seg.Reset()
		}
	}

	for i, r := range runes {
		if k := ctx.kind(start + i); k != kind {
			flush()
			kind = k
		}
		if r == '\t' {
			n := ctx.tabWidth - col%ctx.tabWidth
			seg.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		seg.WriteRune(r)
		col += ansi.StringWidth(string(r))
	}
	flush()

	if ctx.showCaret && ctx.caret == start+len(runes) {
		out.WriteString(styles.CaretStyle.Render(" "))
	}
	return out.String()
}

// displayColumn returns the screen column of rune index n in runes.
func displayColumn(runes []rune, n, tabWidth int) int {
	col := 0
	for _, r := range runes[:min(n, len(runes))] {
		if r == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col += ansi.StringWidth(string(r))
	}
	return col
}

func (m Model) renderDocument(width, height int) string {
	lines := m.doc.Lines()
	gutterW := len(strconv.Itoa(len(lines)))
	textW := max(width-gutterW-1, 1)

	ctx := lineContext{
		caret:     m.doc.Caret().Dot,
		showCaret: !m.dialog.Focused(),
		selection: m.doc.Selection(),
		marks:     m.doc.Markers(markers.SearchMarker),
		tabWidth:  m.tabWidth,
	}

	out := make([]string, 0, height)
	off := m.doc.LineStart(m.top)
	for i := m.top; i < len(lines) && len(out) < height; i++ {
		runes := []rune(lines[i])
		gutter := styles.GutterStyle.Render(fmt.Sprintf("%*d ", gutterW, i+1))
		line := ansi.Cut(renderLine(runes, off, ctx), m.left, m.left+textW)
		out = append(out, gutter+line)
		off += len(runes) + 1
	}
	for len(out) < height {
		out = append(out, styles.GutterStyle.Render("~"))
	}

	return strings.Join(out, "\n")
}

func (m Model) renderStatus(width int) string {
	left := m.displayName()
	if !m.doc.Editable() {
		left = styles.IconLock + " " + left
	}
	if m.doc.Dirty() {
		left += " " + styles.StatusDirtyStyle.Render(styles.IconModified)
	}

	line, col := m.doc.LineCol(m.doc.Caret().Dot)
	right := fmt.Sprintf("Ln %d, Col %d", line, col)
	if m.dialog.Controller().Highlight().Enabled {
		right = fmt.Sprintf("%d highlighted · %s", len(m.doc.Markers(markers.SearchMarker)), right)
	}
	right += " · " + m.keys.Help.Help().Key + " help"

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.StatusBarStyle.Width(width).Render(
		left + strings.Repeat(" ", gap) + styles.StatusMutedStyle.Render(right),
	)
}

// scrollToCaret adjusts the vertical and horizontal offsets so the caret
// stays on screen.
func (m *Model) scrollToCaret() {
	dot := m.doc.Caret().Dot
	line, _ := m.doc.LineCol(dot)
	line-- // 0-based

	height := m.bodyHeight()
	if line < m.top {
		m.top = line
	}
	if line >= m.top+height {
		m.top = line - height + 1
	}
	m.top = min(max(m.top, 0), max(m.doc.LineCount()-1, 0))

	w, _ := m.size()
	textW := max(w-len(strconv.Itoa(m.doc.LineCount()))-1, 1)
	start := m.doc.LineStart(line)
	runes := []rune(m.doc.Slice(document.Range{Start: start, End: m.doc.LineEnd(start)}))
	col := displayColumn(runes, dot-start, m.tabWidth)
	if col < m.left {
		m.left = col
	}
	if col >= m.left+textW {
		m.left = col - textW + 1
	}
}

// handleMovement applies caret movement keys to the document.
func (m Model) handleMovement(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveHorizontal(-1, false)
	case key.Matches(msg, m.keys.Right):
		m.moveHorizontal(1, false)
	case key.Matches(msg, m.keys.Up):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, -1), false)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, 1), false)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, -m.bodyHeight()), false)
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, m.bodyHeight()), false)
	case key.Matches(msg, m.keys.Home):
		m.moveTo(lineStartOf(m.doc, m.doc.Caret().Dot), false)
	case key.Matches(msg, m.keys.End):
		m.moveTo(m.doc.LineEnd(m.doc.Caret().Dot), false)
	case key.Matches(msg, m.keys.SelectLeft):
		m.moveHorizontal(-1, true)
	case key.Matches(msg, m.keys.SelectRight):
		m.moveHorizontal(1, true)
	case key.Matches(msg, m.keys.SelectUp):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, -1), true)
	case key.Matches(msg, m.keys.SelectDown):
		m.moveTo(lineOffset(m.doc, m.doc.Caret().Dot, 1), true)
	}
}

// moveHorizontal moves the caret one rune. Without extend, an active
// selection collapses to the side being moved towards.
func (m Model) moveHorizontal(delta int, extend bool) {
	sel := m.doc.Selection()
	if !extend && !sel.Empty() {
		if delta < 0 {
			m.doc.MoveCaret(sel.Start)
		} else {
			m.doc.MoveCaret(sel.End)
		}
		return
	}
	m.moveTo(m.doc.Caret().Dot+delta, extend)
}

func (m Model) moveTo(off int, extend bool) {
	if extend {
		m.doc.ExtendSelection(off)
		return
	}
	m.doc.MoveCaret(off)
}

// lineOffset returns the offset delta lines away from off, keeping the
// column where the target line is long enough.
func lineOffset(doc *document.Document, off, delta int) int {
	line, col := doc.LineCol(off)
	target := min(max(line-1+delta, 0), doc.LineCount()-1)
	start := doc.LineStart(target)
	return min(start+col-1, doc.LineEnd(start))
}

func lineStartOf(doc *document.Document, off int) int {
	line, _ := doc.LineCol(off)
	return doc.LineStart(line - 1)
}
