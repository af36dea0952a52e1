package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	id1, err := s.Save(ctx, Notification{Level: LevelInfo, Message: "first"})
	require.NoError(t, err)
	id2, err := s.Save(ctx, Notification{Level: LevelWarning, Message: "second"})
	require.NoError(t, err)
	assert.Less(t, id1, id2)

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Message)
	assert.Equal(t, id2, got[0].ID)
}

func TestMemoryStore_Bounded(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	for _, msg := range []string{"a", "b", "c"} {
		_, err := s.Save(ctx, Notification{Message: msg})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, s.Len())

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", got[0].Message)
	assert.Equal(t, "b", got[1].Message)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	_, _ = s.Save(ctx, Notification{Message: "x"})
	require.NoError(t, s.Clear(ctx))

	assert.Zero(t, s.Len())

	id, err := s.Save(ctx, Notification{Message: "y"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestNotification_String(t *testing.T) {
	n := Notification{Level: LevelWarning, Message: "document is read-only"}
	assert.Equal(t, "warning: document is read-only", n.String())
}
