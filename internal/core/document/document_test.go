package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_SelectAndCaret(t *testing.T) {
	d := New("hello world")

	require.NoError(t, d.Select(Range{Start: 6, End: 11}))
	assert.Equal(t, "world", d.SelectedText())
	assert.Equal(t, Caret{Dot: 11, Mark: 6}, d.Caret())

	d.MoveCaret(100)
	assert.Equal(t, 11, d.Caret().Dot)
	assert.True(t, d.Selection().Empty())

	err := d.Select(Range{Start: 4, End: 20})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestDocument_ExtendSelection(t *testing.T) {
	d := New("abcdef")
	d.MoveCaret(4)
	d.ExtendSelection(1)

	assert.Equal(t, Range{Start: 1, End: 4}, d.Selection())
	assert.Equal(t, "bcd", d.SelectedText())
}

func TestDocument_Replace(t *testing.T) {
	t.Run("replaces range and moves caret", func(t *testing.T) {
		d := New("foo bar foo")
		require.NoError(t, d.Replace(Range{Start: 4, End: 7}, "bazz"))

		assert.Equal(t, "foo bazz foo", d.Text())
		assert.Equal(t, Caret{Dot: 8, Mark: 8}, d.Caret())
		assert.True(t, d.Dirty())
	})

	t.Run("read-only rejects edits", func(t *testing.T) {
		d := New("foo", WithReadOnly(true))
		err := d.Replace(Range{Start: 0, End: 1}, "x")
		require.ErrorIs(t, err, ErrReadOnly)
		assert.Equal(t, "foo", d.Text())
		assert.False(t, d.Dirty())
	})

	t.Run("multibyte offsets are runes", func(t *testing.T) {
		d := New("héllo wörld")
		require.NoError(t, d.Replace(Range{Start: 6, End: 11}, "world"))
		assert.Equal(t, "héllo world", d.Text())
	})
}

func TestDocument_MarkersSurviveUnrelatedEdits(t *testing.T) {
	d := New("foo bar foo")
	d.AddMarker(Marker{ID: "search", Range: Range{Start: 0, End: 3}})
	d.AddMarker(Marker{ID: "search", Range: Range{Start: 8, End: 11}})
	d.AddMarker(Marker{ID: "other", Range: Range{Start: 4, End: 7}})

	require.NoError(t, d.Replace(Range{Start: 4, End: 7}, "b"))

	search := d.Markers("search")
	require.Len(t, search, 2)
	assert.Equal(t, Range{Start: 0, End: 3}, search[0].Range)
	assert.Equal(t, Range{Start: 6, End: 9}, search[1].Range)
	assert.Empty(t, d.Markers("other"))
}

func TestDocument_RemoveMarkersByKind(t *testing.T) {
	d := New("abc abc")
	d.AddMarker(Marker{ID: "search", Range: Range{Start: 0, End: 3}})
	d.AddMarker(Marker{ID: "lint", Range: Range{Start: 4, End: 7}})
	d.AddMarker(Marker{ID: "search", Range: Range{Start: 10, End: 12}})

	assert.Equal(t, 1, d.RemoveMarkers("search"), "out of range marker must be ignored")
	assert.Empty(t, d.Markers("search"))
	assert.Len(t, d.Markers("lint"), 1)
	assert.Equal(t, []MarkerID{"lint"}, d.MarkersAt(5))
}

func TestDocument_OnCaretChange(t *testing.T) {
	d := New("abc")

	var calls []Caret
	unsubscribe := d.OnCaretChange(func(c Caret) { calls = append(calls, c) })

	d.MoveCaret(1)
	require.NoError(t, d.Select(Range{Start: 0, End: 2}))
	require.NoError(t, d.Replace(Range{Start: 0, End: 1}, "x"))
	d.SetText("xy")

	require.Len(t, calls, 4)
	assert.Equal(t, Caret{Dot: 2, Mark: 0}, calls[1])

	unsubscribe()
	d.MoveCaret(0)
	assert.Len(t, calls, 4)
}

func TestDocument_SetTextClampsCaret(t *testing.T) {
	d := New("a long line of text")
	require.NoError(t, d.Select(Range{Start: 2, End: 15}))
	d.AddMarker(Marker{ID: "search", Range: Range{Start: 10, End: 14}})

	d.SetText("short")

	assert.Equal(t, Caret{Dot: 5, Mark: 2}, d.Caret())
	assert.Empty(t, d.Markers("search"))
	assert.False(t, d.Dirty())
}

func TestDocument_Lines(t *testing.T) {
	d := New("one\ntwo\nthree")

	assert.Equal(t, 3, d.LineCount())
	assert.Equal(t, []string{"one", "two", "three"}, d.Lines())
	assert.Equal(t, 4, d.LineStart(1))
	assert.Equal(t, 8, d.LineStart(2))
	assert.Equal(t, d.Len(), d.LineStart(10))
	assert.Equal(t, 7, d.LineEnd(5))

	line, col := d.LineCol(9)
	assert.Equal(t, 3, line)
	assert.Equal(t, 2, col)
}

func TestDocument_OpenAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("draft"), 0o600))

	d, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "draft", d.Text())
	assert.Equal(t, path, d.Path())

	require.NoError(t, d.Replace(Range{Start: 0, End: 5}, "final"))
	require.NoError(t, d.Save())
	assert.False(t, d.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "final", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDocument_SaveWithoutPath(t *testing.T) {
	d := New("scratch")
	require.ErrorIs(t, d.Save(), ErrNoPath)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}
