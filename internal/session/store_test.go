package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/session"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	st := session.NewStore().Get(1, 2)
	assert.Equal(t, framework.Cinematic, st.Framework)
	assert.Equal(t, "markdown", st.ExportFormat)
	assert.Equal(t, "16:9", st.AspectRatio)
	assert.Equal(t, session.AwaitingNothing, st.Awaiting)
}

func TestUpdateIsScopedToChatAndUser(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Update(1, 2, func(st *session.Settings) {
		st.Framework = framework.Myth
		st.CameraShots = []string{"close_up"}
	})

	assert.Equal(t, framework.Myth, store.Get(1, 2).Framework)
	assert.Equal(t, framework.Cinematic, store.Get(1, 3).Framework)
	assert.Equal(t, framework.Cinematic, store.Get(9, 2).Framework)
}

func TestGetReturnsCopies(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	got := store.Update(1, 1, func(st *session.Settings) { st.CameraShots = []string{"wide"} })
	got.CameraShots[0] = "tampered"

	assert.Equal(t, []string{"wide"}, store.Get(1, 1).CameraShots)
}

func TestReset(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	store.Update(1, 1, func(st *session.Settings) {
		st.Concise = true
		st.Awaiting = session.AwaitingStyle
	})

	st := store.Reset(1, 1)
	assert.False(t, st.Concise)
	assert.Equal(t, session.AwaitingNothing, st.Awaiting)
}

func TestRequestCarriesSettings(t *testing.T) {
	t.Parallel()

	req := session.Settings{
		Framework:   framework.Action,
		Concise:     true,
		AspectRatio: "9:16",
		AudioMood:   "synthwave",
		CameraShots: []string{"pov"},
	}.Request()

	assert.Equal(t, framework.Action, req.Framework)
	assert.True(t, req.Concise)
	assert.Equal(t, "9:16", req.AspectRatio)
	assert.Equal(t, "synthwave", req.AudioMood)
	assert.Equal(t, []string{"pov"}, req.CameraShots)
	assert.Empty(t, req.Subject)
}

func TestConcurrentUpdates(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(1, 1, func(st *session.Settings) {
				st.CameraShots = append(st.CameraShots, "wide")
			})
		}()
	}
	wg.Wait()

	require.Len(t, store.Get(1, 1).CameraShots, 50)
}
