package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/document"
	"github.com/colonyops/quill/internal/core/search"
)

func TestMarkAll(t *testing.T) {
	doc := document.New("foo bar foo")
	p, err := search.Compile("foo", false, false)
	require.NoError(t, err)

	assert.Equal(t, 2, MarkAll(doc, p, SearchMarker))

	got := doc.Markers(SearchMarker)
	require.Len(t, got, 2)
	assert.Equal(t, document.Range{Start: 0, End: 3}, got[0].Range)
	assert.Equal(t, document.Range{Start: 8, End: 11}, got[1].Range)
}

func TestMarkAll_SkipsEmptyMatches(t *testing.T) {
	doc := document.New("a\nb")
	p, err := search.Compile("^", true, false)
	require.NoError(t, err)

	assert.Zero(t, MarkAll(doc, p, SearchMarker))
	assert.Empty(t, doc.Markers(SearchMarker))
}

func TestMarkAll_NilPattern(t *testing.T) {
	doc := document.New("abc")
	assert.Zero(t, MarkAll(doc, nil, SearchMarker))
}

func TestClearMarks_KeepsOtherKinds(t *testing.T) {
	doc := document.New("foo bar")
	doc.AddMarker(document.Marker{ID: "lint", Range: document.Range{Start: 4, End: 7}})

	p, err := search.Compile("foo", false, false)
	require.NoError(t, err)
	MarkAll(doc, p, SearchMarker)

	assert.Equal(t, 1, ClearMarks(doc, SearchMarker))
	assert.Empty(t, doc.Markers(SearchMarker))
	assert.Len(t, doc.Markers("lint"), 1)
}
