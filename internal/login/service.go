// Package login holds credential validation and the online/offline session
// transitions. Passwords are opaque stored values compared verbatim.
package login

import (
	"context"
	"fmt"
	"time"

	"github.com/quizlingo/quizlingo-api/internal/models"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Validate reports whether the supplied credentials match a stored user.
// An unknown username is a normal false, not an error.
func (s *Service) Validate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil && user.Password == password, nil
}

// GetUserByCredentials returns the matching user, flipping them online and
// persisting that before returning. A failed match returns (nil, nil).
func (s *Service) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, nil
	}

	if err := s.MarkLoggedIn(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// MarkLoggedIn sets the user online. The last-activity timestamp is left
// alone; it only moves on logout.
func (s *Service) MarkLoggedIn(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("mark logged in: %w", store.ErrNilUser)
	}
	user.Online = true
	return s.store.UpdateUser(ctx, user)
}

// MarkLoggedOut sets the user offline and stamps their last activity.
func (s *Service) MarkLoggedOut(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("mark logged out: %w", store.ErrNilUser)
	}
	now := s.now()
	user.Online = false
	user.LastActivityAt = &now
	return s.store.UpdateUser(ctx, user)
}
