package studio

import (
	"fmt"
	"sync"
)

type Action string

const (
	ActionGenerate      Action = "generate"
	ActionRefine        Action = "refine"
	ActionGenerateImage Action = "generate-image"
	ActionUpscaleImage  Action = "upscale-image"
	ActionStoryboard    Action = "storyboard"
	ActionGenerateVideo Action = "generate-video"
)

type trackKey struct {
	owner  string
	action Action
}

// Tracker holds one in-flight flag per (owner, action). The mutex only guards
// the map; it is never held while an action runs.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[trackKey]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[trackKey]struct{})}
}

// Begin marks action as running for owner. The returned func clears the flag
// and must be called exactly once, whatever the outcome.
func (t *Tracker) Begin(owner string, action Action) (func(), error) {
	key := trackKey{owner: owner, action: action}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.inFlight[key]; busy {
		return nil, fmt.Errorf("%w: %s", ErrInFlight, action)
	}
	t.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, key)
			t.mu.Unlock()
		})
	}, nil
}

func (t *Tracker) InFlight(owner string, action Action) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, busy := t.inFlight[trackKey{owner: owner, action: action}]
	return busy
}

// Running lists the actions currently in flight for owner.
func (t *Tracker) Running(owner string) []Action {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Action
	for k := range t.inFlight {
		if k.owner == owner {
			out = append(out, k.action)
		}
	}
	return out
}
