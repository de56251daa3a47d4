// Package session keeps the per-chat studio settings of the Telegram bot.
package session

import (
	"sync"
	"time"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
)

type Awaiting string

const (
	AwaitingNothing Awaiting = ""
	AwaitingStyle   Awaiting = "style"
	AwaitingUpscale Awaiting = "upscale"
)

type Settings struct {
	Framework    framework.ID
	Concise      bool
	CoPilot      bool
	ExportFormat string
	AspectRatio  string
	AudioMood    string
	CameraShots  []string

	StyleFileID   string
	StyleMimeType string
	Awaiting      Awaiting

	LastResultID string
	UpdatedAt    time.Time
}

// Request seeds a prompt request with these settings; the subject is left
// for the caller.
func (s Settings) Request() prompt.Request {
	return prompt.Request{
		Framework:   s.Framework,
		Concise:     s.Concise,
		CoPilot:     s.CoPilot,
		AspectRatio: s.AspectRatio,
		AudioMood:   s.AudioMood,
		CameraShots: append([]string(nil), s.CameraShots...),
	}
}

type Store struct {
	mu sync.Mutex
	m  map[key]*Settings
}

type key struct {
	ChatID int64
	UserID int64
}

func NewStore() *Store {
	return &Store{m: make(map[key]*Settings)}
}

func (s *Store) Get(chatID, userID int64) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(*s.getOrCreateLocked(chatID, userID))
}

func (s *Store) Update(chatID, userID int64, fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreateLocked(chatID, userID)
	if fn != nil {
		fn(st)
	}
	st.UpdatedAt = time.Now()
	return clone(*st)
}

func (s *Store) Reset(chatID, userID int64) Settings {
	return s.Update(chatID, userID, func(st *Settings) {
		*st = defaultSettings()
	})
}

func (s *Store) getOrCreateLocked(chatID, userID int64) *Settings {
	k := key{ChatID: chatID, UserID: userID}
	if st, ok := s.m[k]; ok {
		return st
	}
	st := defaultSettings()
	s.m[k] = &st
	return s.m[k]
}

func defaultSettings() Settings {
	return Settings{
		Framework:    framework.Cinematic,
		ExportFormat: "markdown",
		AspectRatio:  "16:9",
		UpdatedAt:    time.Now(),
	}
}

func clone(st Settings) Settings {
	st.CameraShots = append([]string(nil), st.CameraShots...)
	return st
}
