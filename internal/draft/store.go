package draft

import (
	"sync"

	"github.com/google/uuid"
)

// Session binds a draft to its single owner. The per-session mutex
// serializes addLine/removeLine/submit, so no two mutations of the same
// draft can interleave.
type Session struct {
	ID string

	mu    sync.Mutex
	draft *Draft
}

// Store keeps active composition sessions in memory. Drafts are ephemeral:
// they die with the process and are removed on submit-success or cancel.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.NewString(), draft: New()}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
