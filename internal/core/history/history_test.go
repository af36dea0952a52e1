package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecency_Add(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		adds    []string
		want    []string
		changed bool // result of the last Add
	}{
		{
			name:    "newest first",
			limit:   5,
			adds:    []string{"a", "b", "c"},
			want:    []string{"c", "b", "a"},
			changed: true,
		},
		{
			name:    "existing value moves to head",
			limit:   5,
			adds:    []string{"a", "b", "c", "a"},
			want:    []string{"a", "c", "b"},
			changed: true,
		},
		{
			name:    "head again is a no-op",
			limit:   5,
			adds:    []string{"a", "b", "b"},
			want:    []string{"b", "a"},
			changed: false,
		},
		{
			name:    "empty ignored",
			limit:   5,
			adds:    []string{"a", ""},
			want:    []string{"a"},
			changed: false,
		},
		{
			name:    "oldest pruned",
			limit:   2,
			adds:    []string{"a", "b", "c"},
			want:    []string{"c", "b"},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecency(tt.limit)
			var changed bool
			for _, v := range tt.adds {
				changed = r.Add(v)
			}
			assert.Equal(t, tt.want, r.Items())
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestRecency_Accessors(t *testing.T) {
	r := NewRecency(0)
	assert.Equal(t, DefaultLimit, r.Limit())

	_, ok := r.Head()
	assert.False(t, ok)

	r.Add("x")
	r.Add("y")

	head, ok := r.Head()
	require.True(t, ok)
	assert.Equal(t, "y", head)

	v, ok := r.At(1)
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = r.At(2)
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())

	items := r.Items()
	items[0] = "mutated"
	head, _ = r.Head()
	assert.Equal(t, "y", head, "Items must return a copy")
}

func TestCursor(t *testing.T) {
	r := NewRecency(10)
	r.Add("old")
	r.Add("new")

	c := NewCursor(r)

	_, ok := c.Newer()
	assert.False(t, ok, "already on the draft")

	v, ok := c.Older("typing")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	v, ok = c.Older("new")
	require.True(t, ok)
	assert.Equal(t, "old", v)

	_, ok = c.Older("old")
	assert.False(t, ok)

	v, ok = c.Newer()
	require.True(t, ok)
	assert.Equal(t, "new", v)

	v, ok = c.Newer()
	require.True(t, ok)
	assert.Equal(t, "typing", v, "stepping past the newest restores the draft")

	c.Older("again")
	c.Reset()
	v, ok = c.Older("fresh")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}
