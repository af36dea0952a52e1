package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quill/internal/core/notify"
)

// failingStore rejects every Save.
type failingStore struct {
	notify.MemoryStore
}

func (f *failingStore) Save(_ context.Context, _ notify.Notification) (int64, error) {
	return 0, errors.New("disk full")
}

func TestBus_Publish_dispatches_to_subscribers(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	bus.Errorf("save failed: %d", 42)
	bus.Infof("search string %q not found", "foo")
	bus.Warnf("document is read-only")

	require.Len(t, received, 3)
	assert.Equal(t, notify.LevelError, received[0].Level)
	assert.Equal(t, "save failed: 42", received[0].Message)
	assert.Equal(t, notify.LevelInfo, received[1].Level)
	assert.Equal(t, `search string "foo" not found`, received[1].Message)
	assert.Equal(t, notify.LevelWarning, received[2].Level)
}

func TestBus_Publish_assigns_id_from_store(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	var received notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = n
	})

	bus.Infof("get id")

	assert.Equal(t, int64(1), received.ID)
}

func TestBus_Publish_store_error_still_dispatches(t *testing.T) {
	bus := NewBus(&failingStore{})

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	bus.Warnf("kept")

	require.Len(t, received, 1)
	assert.Zero(t, received[0].ID)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	unsubscribe := bus.Subscribe(func(notify.Notification) { calls++ })

	bus.Infof("one")
	unsubscribe()
	bus.Infof("two")

	assert.Equal(t, 1, calls)
}

func TestBus_History_returns_newest_first(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	bus.Infof("first")
	bus.Infof("second")
	bus.Infof("third")

	history, err := bus.History()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Message)
	assert.Equal(t, "first", history[2].Message)
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	bus.Infof("to be cleared")
	require.NoError(t, bus.Clear())

	history, err := bus.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBus_nil_store(t *testing.T) {
	bus := NewBus(nil)

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	bus.Errorf("no store")

	assert.Len(t, received, 1)
	assert.Equal(t, "no store", received[0].Message)

	history, err := bus.History()
	require.NoError(t, err)
	assert.Nil(t, history)

	assert.NoError(t, bus.Clear())
}

func TestBus_Publish_sets_created_at(t *testing.T) {
	bus := NewBus(notify.NewMemoryStore(10))

	var received notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = n
	})

	bus.Infof("timestamp check")
	assert.False(t, received.CreatedAt.IsZero())
}
