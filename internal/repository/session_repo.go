package repository

import (
	"context"
	"sync"
	"time"

	"lwsbooking/internal/celebration"
	apperrors "lwsbooking/internal/errors"
	"lwsbooking/internal/flow"
)

// Session is one visitor's booking wizard.
type Session struct {
	ID           string            `json:"id"`
	Flow         flow.Snapshot     `json:"flow"`
	Presentation celebration.State `json:"presentation"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteIdleBefore drops sessions not touched since cutoff and reports how many went.
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]Session)}
}

func (r *MemorySessionRepository) Save(_ context.Context, s *Session) error {
	cp := *s
	cp.Flow = flow.Restore(s.Flow).Snapshot()
	r.mu.Lock()
	r.sessions[s.ID] = cp
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	s.Flow = flow.Restore(s.Flow).Snapshot()
	return &s, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) DeleteIdleBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MemorySessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
