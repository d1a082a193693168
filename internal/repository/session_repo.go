package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"carrental/internal/reservation"
)

var ErrSessionNotFound = errors.New("reservation session not found")

// SessionRepository keeps reservation wizards between requests.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*reservation.Wizard, error)
	SaveSession(ctx context.Context, w *reservation.Wizard) error
	DeleteSession(ctx context.Context, id string) error
	// DeleteIdleSessions removes sessions not updated since before and
	// returns how many were removed.
	DeleteIdleSessions(ctx context.Context, before time.Time) (int, error)
	CountSessions(ctx context.Context) (int, error)
}

// MemorySessionRepository stores sessions as JSON in process memory so that
// callers never share a wizard value.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	data      []byte
	updatedAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[string]memorySession{}}
}

func (r *MemorySessionRepository) GetSession(ctx context.Context, id string) (*reservation.Wizard, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}

	var w reservation.Wizard
	if err := json.Unmarshal(s.data, &w); err != nil {
		return nil, fmt.Errorf("error decoding session %q: %w", id, err)
	}
	return &w, nil
}

func (r *MemorySessionRepository) SaveSession(ctx context.Context, w *reservation.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("error encoding session %q: %w", w.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[w.ID] = memorySession{data: data, updatedAt: w.UpdatedAt}
	return nil
}

func (r *MemorySessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) DeleteIdleSessions(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.updatedAt.Before(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MemorySessionRepository) CountSessions(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions), nil
}
