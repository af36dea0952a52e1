package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/markers"
	corenotify "github.com/colonyops/quill/internal/core/notify"
	"github.com/colonyops/quill/internal/core/search"
	"github.com/colonyops/quill/internal/findreplace"
	"github.com/colonyops/quill/internal/tui/notify"
	"github.com/colonyops/quill/pkg/tuitest"
)

type dialogFixture struct {
	d   *Dialog
	doc *document.Document
	bus *notify.Bus
}

func newDialogFixture(t *testing.T, text string, opts ...document.Option) dialogFixture {
	t.Helper()

	doc := document.New(text, opts...)
	bus := notify.NewBus(corenotify.NewMemoryStore(10))
	data := search.NewData(bus, search.WithLogger(zerolog.Nop()))
	d := NewDialog(doc, data,
		findreplace.WithNotifier(bus),
		findreplace.WithLogger(zerolog.Nop()),
		findreplace.WithParameters(findreplace.SearchParameters{WrapAround: true}),
	)
	t.Cleanup(d.Controller().Close)

	return dialogFixture{d: d, doc: doc, bus: bus}
}

func (f dialogFixture) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		if k, ok := msg.(tea.KeyPressMsg); ok {
			f.d.Update(k)
		}
	}
}

func (f dialogFixture) typeText(s string) {
	f.send(tuitest.Type(s)...)
}

func (f dialogFixture) messages(t *testing.T) []string {
	t.Helper()
	items, err := f.bus.History()
	require.NoError(t, err)

	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Message)
	}
	return out
}

func TestDialog_OpenPrefillsSingleLineSelection(t *testing.T) {
	f := newDialogFixture(t, "hello world\nsecond")

	require.NoError(t, f.doc.Select(document.Range{Start: 0, End: 5}))
	f.d.Open(f.doc.SelectedText())

	assert.True(t, f.d.Visible())
	assert.True(t, f.d.Focused())
	assert.Equal(t, "hello", f.d.FindValue())

	f.d.FocusTextView()
	require.NoError(t, f.doc.Select(document.Range{Start: 6, End: 14}))
	f.d.Open(f.doc.SelectedText())
	assert.Equal(t, "hello", f.d.FindValue(), "multi-line selections are not used as a query")
}

func TestDialog_EnterFindsNextAndReturnsFocus(t *testing.T) {
	f := newDialogFixture(t, "hello world")
	f.d.Open("")

	f.typeText("world")
	f.send(tuitest.KeyEnter())

	assert.Equal(t, document.Range{Start: 6, End: 11}, f.doc.Selection())
	assert.True(t, f.d.Visible(), "dialog stays on screen")
	assert.False(t, f.d.Focused(), "focus goes back to the document")

	head, ok := f.d.Controller().QueryHistory().Head()
	require.True(t, ok)
	assert.Equal(t, "world", head)
}

func TestDialog_NotFoundIsNotified(t *testing.T) {
	f := newDialogFixture(t, "hello world")
	f.d.Open("")

	f.typeText("zzz")
	f.send(tuitest.KeyEnter())

	assert.Contains(t, f.messages(t), `search string "zzz" not found`)
}

func TestDialog_InvalidRegexShowsAlert(t *testing.T) {
	f := newDialogFixture(t, "hello world")
	f.d.Open("")

	f.send(tuitest.KeyAlt('r'))
	f.typeText("(")
	f.send(tuitest.KeyEnter())

	alert := f.d.Alert()
	require.NotNil(t, alert)
	assert.Equal(t, "Regular Expression Error", alert.Title())
	assert.True(t, strings.HasPrefix(alert.Message(), "Regexp error: "), alert.Message())
	assert.Equal(t, document.Range{}, f.doc.Selection(), "nothing is searched")

	// Keys go to the alert until it is dismissed.
	f.send(tuitest.KeyPress('x'))
	assert.Equal(t, "(", f.d.FindValue())

	f.send(tuitest.KeyEnter())
	assert.Nil(t, f.d.Alert())
	assert.True(t, f.d.Focused())
	assert.Equal(t, fieldFind, f.d.field, "focus returns to the Find field")
}

func TestDialog_ReplaceAllFromReplaceField(t *testing.T) {
	f := newDialogFixture(t, "a b a")
	f.d.Open("")

	f.typeText("a")
	f.send(tuitest.KeyTab())
	f.typeText("x")
	assert.Equal(t, "x", f.d.ReplaceValue())

	f.send(tuitest.KeyCtrl('a'))

	assert.Equal(t, "x b x", f.doc.Text())
	assert.Contains(t, f.messages(t), "replaced 2 occurrence(s)")
	assert.False(t, f.d.Focused())

	head, ok := f.d.Controller().ReplacementHistory().Head()
	require.True(t, ok)
	assert.Equal(t, "x", head)
}

func TestDialog_ReplaceAllHiddenWhenReadOnly(t *testing.T) {
	f := newDialogFixture(t, "a b a", document.WithReadOnly(true))
	f.d.Open("")
	f.typeText("a")

	assert.False(t, f.d.Keys().ReplaceAll.Enabled())
	assert.NotContains(t, tuitest.StripANSI(f.d.View(100)), "replace all")

	f.send(tuitest.KeyCtrl('a'))
	assert.Equal(t, "a b a", f.doc.Text())
}

func TestDialog_ReplaceOneTurnsHighlightOff(t *testing.T) {
	f := newDialogFixture(t, "a b a")
	f.d.Open("")
	f.typeText("a")

	f.send(tuitest.KeyAlt('h'))
	assert.True(t, f.d.Controller().Highlight().Enabled)
	assert.Len(t, f.doc.Markers(markers.SearchMarker), 2)

	f.send(tuitest.KeyTab())
	f.typeText("z")
	f.send(tuitest.KeyCtrl('r'))

	assert.False(t, f.d.Controller().Highlight().Enabled)
	assert.Empty(t, f.doc.Markers(markers.SearchMarker))
	// The selection was not a match yet, so the first Replace only selects.
	assert.Equal(t, "a b a", f.doc.Text())
	assert.Equal(t, document.Range{Start: 0, End: 1}, f.doc.Selection())

	f.send(tuitest.KeyCtrl('r'))
	assert.Equal(t, "z b a", f.doc.Text())
}

func TestDialog_Toggles(t *testing.T) {
	f := newDialogFixture(t, "text")
	f.d.Open("")

	f.send(tuitest.KeyAlt('r'), tuitest.KeyAlt('i'), tuitest.KeyAlt('w'))

	p := f.d.Controller().Parameters()
	assert.True(t, p.UseRegex)
	assert.True(t, p.IgnoreCase)
	assert.False(t, p.WrapAround)

	out := tuitest.StripANSI(f.d.View(120))
	assert.Contains(t, out, "Regex: on")
	assert.Contains(t, out, "Wrap: off")
}

func TestDialog_HistoryNavigation(t *testing.T) {
	f := newDialogFixture(t, "text")
	f.d.Controller().QueryHistory().Add("one")
	f.d.Controller().QueryHistory().Add("two")

	f.d.Open("")
	f.typeText("dr")

	f.send(tuitest.KeyUp())
	assert.Equal(t, "two", f.d.FindValue())
	f.send(tuitest.KeyUp())
	assert.Equal(t, "one", f.d.FindValue())
	f.send(tuitest.KeyUp())
	assert.Equal(t, "one", f.d.FindValue(), "oldest entry stays")

	f.send(tuitest.KeyDown())
	assert.Equal(t, "two", f.d.FindValue())
	f.send(tuitest.KeyDown())
	assert.Equal(t, "dr", f.d.FindValue(), "draft restored past the newest entry")
}

func TestDialog_EscapeHides(t *testing.T) {
	f := newDialogFixture(t, "text")
	f.d.Open("")

	f.send(tuitest.KeyEsc())

	assert.False(t, f.d.Visible())
	assert.False(t, f.d.Focused())
	assert.Empty(t, f.d.View(80))
}

func TestDialog_FindFromDocument(t *testing.T) {
	f := newDialogFixture(t, "ab ab ab")
	f.d.Open("")
	f.typeText("ab")
	f.d.FocusTextView()

	f.d.FindNext()
	assert.Equal(t, document.Range{Start: 0, End: 2}, f.doc.Selection())
	f.d.FindNext()
	assert.Equal(t, document.Range{Start: 3, End: 5}, f.doc.Selection())
	f.d.FindPrevious()
	assert.Equal(t, document.Range{Start: 0, End: 2}, f.doc.Selection())
	assert.False(t, f.d.Focused())
}
