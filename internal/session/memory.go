package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NeverDieOne/train-bot/internal/progress"
)

// MemoryStore is a process-local Store used in tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Load returns a copy of the stored session, or (nil, nil) when absent.
// Workout definitions are immutable once loaded so the pointer is shared.
func (m *MemoryStore) Load(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

// Save stores a copy of the session.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.UpdatedAt = time.Now()
	m.sessions[s.UserID] = cp
	return nil
}

// Count reports the number of stored sessions.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// DueForReminder lists chats with a workout loaded that have not completed
// the routine today.
func (m *MemoryStore) DueForReminder(_ context.Context, today progress.Date) ([]Recipient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Recipient
	for _, s := range m.sessions {
		if s.Workout == nil {
			continue
		}
		if s.Progress.LastCompleted.IsZero() || today.After(s.Progress.LastCompleted) {
			out = append(out, Recipient{UserID: s.UserID, ChatID: s.ChatID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
