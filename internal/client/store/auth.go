package store

import (
	"sync"

	"github.com/taskboardhq/taskboard/internal/model"
)

// AuthStore holds the signed-in user. Initialized reports whether the
// startup session check has completed, so callers can tell "not signed in"
// apart from "still checking".
type AuthStore struct {
	mu          sync.RWMutex
	user        *model.User
	initialized bool
}

func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

// SetUser records the signed-in user and marks the store initialized.
func (s *AuthStore) SetUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.initialized = true
}

func (s *AuthStore) SetInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.initialized = true
}

func (s *AuthStore) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *AuthStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}
