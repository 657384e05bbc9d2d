package service

import (
	"github.com/mmcdole/cinematch/internal/domain"
)

// SessionService manages local session state
type SessionService struct {
	store domain.Store
}

// NewSessionService creates a new SessionService
func NewSessionService(store domain.Store) *SessionService {
	return &SessionService{store: store}
}

// Reset drops every cached list and overview. The database file stays
// open; removing it from disk is left to startup.
func (s *SessionService) Reset() {
	if s.store != nil {
		s.store.InvalidateAll()
	}
}
