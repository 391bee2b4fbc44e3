package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
)

// Session is an open document addressable by id
type Session struct {
	ID       string
	Document *domain.Document
	OpenedAt time.Time
}

// SessionRegistry keeps open documents for long-running front ends such as the HTTP API.
// Documents are never shared between sessions.
type SessionRegistry struct {
	docs *DocumentService

	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewSessionRegistry creates a registry that holds at most limit sessions (0 = unlimited)
func NewSessionRegistry(docs *DocumentService, limit int) *SessionRegistry {
	return &SessionRegistry{
		docs:     docs,
		sessions: make(map[string]*Session),
		limit:    limit,
	}
}

// Open loads path into a new session
func (r *SessionRegistry) Open(ctx context.Context, path string) (*Session, error) {
	doc, err := r.docs.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.NewString(),
		Document: doc,
		OpenedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.evictOldestLocked()
	}
	r.sessions[s.ID] = s
	return s, nil
}

// evictOldestLocked drops the session opened first
func (r *SessionRegistry) evictOldestLocked() {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.OpenedAt.Before(oldest.OpenedAt) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(r.sessions, oldest.ID)
	}
}

// Get returns the session with id
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return s, nil
}

// Close discards the session and its document
func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// List returns open sessions, oldest first
func (r *SessionRegistry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// Len returns the number of open sessions
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
