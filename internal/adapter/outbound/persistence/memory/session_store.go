package memory

import (
	"sync"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

// SessionStore keeps per-conversation session records in memory. Pending state
// is intentionally not durable; a restart drops it.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*model.Session)}
}

var _ outbound.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Get(conversationID string) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[conversationID]; ok {
		return *sess
	}
	return model.Session{}
}

func (s *SessionStore) Update(conversationID string, fn func(*model.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationID]
	if !ok {
		sess = &model.Session{}
		s.sessions[conversationID] = sess
	}
	fn(sess)
}

// TakePendingText reads and clears the pending text in one locked step so two
// resolves for the same conversation can never both observe it.
func (s *SessionStore) TakePendingText(conversationID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[conversationID]
	if !ok {
		return "", false
	}
	return sess.TakePendingText()
}
