package http

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rankpulse/rankpulse/internal/infrastructure/ingest"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session holds one uploaded dataset for the duration of an interactive
// analysis. The raw table is immutable after upload; every analyze call
// derives a fresh result from it, so concurrent requests against one
// session never share mutable state. Nothing is persisted: restarting
// the server drops all sessions.
type Session struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Columns   []string  `json:"columns"`
	RowCount  int       `json:"row_count"`

	table *ingest.RawTable
}

// Table returns the immutable raw table backing the session.
func (s *Session) Table() *ingest.RawTable {
	return s.table
}

// SessionStore is an in-memory, mutex-guarded session registry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create registers an uploaded table and returns its session.
func (st *SessionStore) Create(filename string, table *ingest.RawTable) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
		Columns:   table.Columns,
		RowCount:  len(table.Rows),
		table:     table,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
