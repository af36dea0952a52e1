package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/document"
)

type recordingNotifier struct {
	infos []string
	warns []string
}

func (n *recordingNotifier) Infof(format string, args ...any) {
	n.infos = append(n.infos, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Warnf(format string, args ...any) {
	n.warns = append(n.warns, fmt.Sprintf(format, args...))
}

func newData(t *testing.T, query string, regex bool) (*Data, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	d := NewData(n)
	require.NoError(t, d.SetPattern(query, regex, false))
	return d, n
}

func TestData_SetPattern(t *testing.T) {
	d := NewData(&recordingNotifier{})

	var seen []*Pattern
	unsubscribe := d.OnPatternChange(func(p *Pattern) { seen = append(seen, p) })

	require.NoError(t, d.SetPattern("foo", false, false))
	require.NoError(t, d.SetPattern("foo", false, false))
	require.Len(t, seen, 1, "unchanged pattern must not notify")
	assert.Equal(t, "foo", d.Pattern().Query())

	err := d.SetPattern("[", true, false)
	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "foo", d.Pattern().Query(), "bad pattern keeps the previous one")
	assert.Len(t, seen, 1)

	require.NoError(t, d.SetPattern("", false, false))
	assert.Nil(t, d.Pattern())
	require.Len(t, seen, 2)
	assert.Nil(t, seen[1])

	unsubscribe()
	require.NoError(t, d.SetPattern("bar", false, false))
	assert.Len(t, seen, 2)
}

func TestData_FindNext(t *testing.T) {
	t.Run("advances past selection", func(t *testing.T) {
		d, _ := newData(t, "ab", false)
		doc := document.New("ab ab ab")

		require.True(t, d.FindNext(doc, false))
		assert.Equal(t, document.Range{Start: 0, End: 2}, doc.Selection())

		require.True(t, d.FindNext(doc, false))
		assert.Equal(t, document.Range{Start: 3, End: 5}, doc.Selection())
	})

	t.Run("wraps to top", func(t *testing.T) {
		d, _ := newData(t, "ab", false)
		doc := document.New("ab cd")
		doc.MoveCaret(3)

		assert.False(t, d.FindNext(doc, false))
		assert.Equal(t, document.Range{Start: 3, End: 3}, doc.Selection())

		require.True(t, d.FindNext(doc, true))
		assert.Equal(t, document.Range{Start: 0, End: 2}, doc.Selection())
	})

	t.Run("empty match advances", func(t *testing.T) {
		d, _ := newData(t, "^", true)
		doc := document.New("a\nb")

		require.True(t, d.FindNext(doc, false))
		assert.Equal(t, document.Range{Start: 2, End: 2}, doc.Selection())
	})

	t.Run("wraps onto lone empty match", func(t *testing.T) {
		d, n := newData(t, "^", true)
		doc := document.New("abc")

		require.True(t, d.FindNext(doc, true))
		assert.Equal(t, document.Range{Start: 0, End: 0}, doc.Selection())
		assert.Empty(t, n.infos)

		assert.False(t, d.FindNext(doc, false), "without wrap the caret match is skipped")
	})

	t.Run("no pattern", func(t *testing.T) {
		d := NewData(&recordingNotifier{})
		assert.False(t, d.FindNext(document.New("abc"), true))
	})
}

func TestData_FindPrevious(t *testing.T) {
	t.Run("steps back and wraps", func(t *testing.T) {
		d, _ := newData(t, "ab", false)
		doc := document.New("ab ab ab")
		require.NoError(t, doc.Select(document.Range{Start: 3, End: 5}))

		require.True(t, d.FindPrevious(doc, false))
		assert.Equal(t, document.Range{Start: 0, End: 2}, doc.Selection())

		assert.False(t, d.FindPrevious(doc, false))

		require.True(t, d.FindPrevious(doc, true))
		assert.Equal(t, document.Range{Start: 6, End: 8}, doc.Selection())
	})

	t.Run("caret inside a match", func(t *testing.T) {
		d, _ := newData(t, "foobar", false)
		doc := document.New("foobar foobar")
		doc.MoveCaret(9)

		require.True(t, d.FindPrevious(doc, false))
		assert.Equal(t, document.Range{Start: 0, End: 6}, doc.Selection())
	})

	t.Run("skips empty match at caret", func(t *testing.T) {
		d, _ := newData(t, "^", true)
		doc := document.New("a\nb")
		doc.MoveCaret(2)

		require.True(t, d.FindPrevious(doc, false))
		assert.Equal(t, document.Range{Start: 0, End: 0}, doc.Selection())
	})
}

func TestData_Replace(t *testing.T) {
	t.Run("first call only selects", func(t *testing.T) {
		d, _ := newData(t, "cat", false)
		doc := document.New("cat cat")

		assert.False(t, d.Replace(doc, "dog"))
		assert.Equal(t, "cat cat", doc.Text())
		assert.Equal(t, document.Range{Start: 0, End: 3}, doc.Selection())

		assert.True(t, d.Replace(doc, "dog"))
		assert.Equal(t, "dog cat", doc.Text())
		assert.Equal(t, document.Range{Start: 4, End: 7}, doc.Selection())
	})

	t.Run("expands groups", func(t *testing.T) {
		d, _ := newData(t, `(\w)(\w)`, true)
		doc := document.New("ab")
		require.NoError(t, doc.Select(document.Range{Start: 0, End: 2}))

		assert.True(t, d.Replace(doc, "$2$1"))
		assert.Equal(t, "ba", doc.Text())
	})

	t.Run("read-only warns", func(t *testing.T) {
		d, n := newData(t, "cat", false)
		doc := document.New("cat", document.WithReadOnly(true))
		require.NoError(t, doc.Select(document.Range{Start: 0, End: 3}))

		assert.False(t, d.Replace(doc, "dog"))
		assert.Equal(t, "cat", doc.Text())
		assert.Len(t, n.warns, 1)
	})

	t.Run("nothing found notifies", func(t *testing.T) {
		d, n := newData(t, "zzz", false)
		doc := document.New("cat")

		assert.False(t, d.Replace(doc, "dog"))
		assert.Equal(t, []string{`search string "zzz" not found`}, n.infos)
	})
}

func TestData_ReplaceAll(t *testing.T) {
	t.Run("single edit", func(t *testing.T) {
		d, _ := newData(t, "o", false)
		doc := document.New("foo boo")
		doc.MoveCaret(5)

		edits := 0
		doc.OnCaretChange(func(document.Caret) { edits++ })

		n, err := d.ReplaceAll(doc, "0")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "f00 b00", doc.Text())
		assert.Equal(t, 5, doc.Caret().Dot)
		assert.Equal(t, 2, edits, "one replace plus one caret restore")
	})

	t.Run("no match notifies", func(t *testing.T) {
		d, notes := newData(t, "x", false)
		doc := document.New("abc")

		n, err := d.ReplaceAll(doc, "y")
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.False(t, doc.Dirty())
		assert.Len(t, notes.infos, 1)
	})

	t.Run("no pattern notifies", func(t *testing.T) {
		notes := &recordingNotifier{}
		d := NewData(notes)

		n, err := d.ReplaceAll(document.New("abc"), "y")
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, []string{"nothing to replace: no search string"}, notes.infos)
	})

	t.Run("read-only", func(t *testing.T) {
		d, _ := newData(t, "a", false)
		doc := document.New("abc", document.WithReadOnly(true))

		_, err := d.ReplaceAll(doc, "y")
		require.ErrorIs(t, err, document.ErrReadOnly)
	})
}

func TestData_NotifyNotFound(t *testing.T) {
	d, n := newData(t, "needle", false)
	d.NotifyNotFound(document.New(""))
	assert.Equal(t, []string{`search string "needle" not found`}, n.infos)
}
