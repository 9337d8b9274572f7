package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store maps opaque session tokens to user IDs. Tokens are issued at login
// and removed at logout; there is no expiry.
type Store interface {
	Create(userID uuid.UUID) string
	Resolve(token string) (uuid.UUID, bool)
	Destroy(token string) bool
}

// MemoryStore is the in-process Store backing. Sessions do not survive a
// restart; every token is invalidated when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]uuid.UUID
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]uuid.UUID)}
}

// Create issues a new token for the user and records the mapping.
func (s *MemoryStore) Create(userID uuid.UUID) string {
	token := newToken()

	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()

	return token
}

// Resolve returns the user ID bound to the token, if any.
func (s *MemoryStore) Resolve(token string) (uuid.UUID, bool) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()

	return userID, ok
}

// Destroy removes the token. It reports whether the token existed.
func (s *MemoryStore) Destroy(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

func newToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
