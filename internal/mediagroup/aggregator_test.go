package mediagroup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHandlesOnlyFirstOfAlbum(t *testing.T) {
	t.Parallel()

	flushed := make(chan Group, 1)
	a := New(Options{
		Debounce: 20 * time.Millisecond,
		OnFlush:  func(g Group) { flushed <- g },
	})

	assert.True(t, a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g1"}))
	assert.False(t, a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g1"}))
	assert.False(t, a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g1"}))
	assert.Equal(t, 1, a.Pending())

	select {
	case g := <-flushed:
		assert.Equal(t, Group{ChatID: 1, UserID: 7, MediaGroupID: "g1", Count: 3}, g)
	case <-time.After(2 * time.Second):
		t.Fatal("group was never flushed")
	}
	require.Eventually(t, func() bool { return a.Pending() == 0 }, time.Second, 5*time.Millisecond)

	// A new album with the same id after the flush starts over.
	assert.True(t, a.Add(Item{ChatID: 1, UserID: 7, MediaGroupID: "g1"}))
}

func TestAddOutsideAlbum(t *testing.T) {
	t.Parallel()

	a := New(Options{})
	assert.True(t, a.Add(Item{ChatID: 1}))
	assert.True(t, a.Add(Item{ChatID: 1}))
	assert.Equal(t, 0, a.Pending())
}

func TestAlbumsAreKeyedPerChat(t *testing.T) {
	t.Parallel()

	a := New(Options{Debounce: time.Hour})
	assert.True(t, a.Add(Item{ChatID: 1, MediaGroupID: "g"}))
	assert.True(t, a.Add(Item{ChatID: 2, MediaGroupID: "g"}))
	assert.Equal(t, 2, a.Pending())
}
