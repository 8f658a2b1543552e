// Package models holds client-side state of the carpool CLI.
package models

import (
	"sync"

	srvmodels "github.com/dmitrijs2005/carpool/internal/server/models"
)

// Session is the signed-in user as seen by the CLI. The zero value is a
// logged-out session.
type Session struct {
	mu   sync.RWMutex
	user *srvmodels.User
}

func (s *Session) Start(u *srvmodels.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) End() {
	s.Start(nil)
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *srvmodels.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) UserID() string {
	if u := s.User(); u != nil {
		return u.ID
	}
	return ""
}

func (s *Session) Email() string {
	if u := s.User(); u != nil {
		return u.Email
	}
	return ""
}
