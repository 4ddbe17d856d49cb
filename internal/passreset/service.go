// Package passreset implements the password-reset verification-code flow:
// issue a one-time 6-digit code for an email, check a supplied code, then
// persist a new password. Each email owns its own reset session; a repeat
// request replaces only that email's session.
package passreset

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

// Verification codes are uniform 6-digit integers.
const (
	codeMin = 100000
	codeMax = 999999
)

var (
	ErrInvalidEmail = fmt.Errorf("invalid email: %w", store.ErrInvalidArgument)
)

// session tracks one in-flight reset flow. IssuedAt and Consumed are not
// enforced yet; they exist so expiry and single-use checks are a single
// condition away in VerifyCode.
type session struct {
	ID       uuid.UUID
	Email    string
	Code     string
	IssuedAt time.Time
	Verified bool
	Consumed bool
}

type Service struct {
	store  store.Store
	mailer Mailer

	mu       sync.Mutex
	sessions map[string]*session

	now func() time.Time
}

func NewService(s store.Store, m Mailer) *Service {
	return &Service{
		store:    s,
		mailer:   m,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// RequestCode issues a fresh code for the email, hands it to the mailer, and
// returns the id of the new reset session. Any previous session for the same
// email is replaced, so a new request also means a new id.
func (s *Service) RequestCode(ctx context.Context, email string) (uuid.UUID, error) {
	if strings.TrimSpace(email) == "" {
		return uuid.Nil, ErrInvalidEmail
	}

	code, err := generateCode()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate verification code: %w", err)
	}

	sess := &session{
		ID:       uuid.New(),
		Email:    email,
		Code:     code,
		IssuedAt: s.now(),
	}
	s.mu.Lock()
	s.sessions[email] = sess
	s.mu.Unlock()

	if err := s.mailer.SendCode(ctx, email, code); err != nil {
		return uuid.Nil, fmt.Errorf("send verification code: %w", err)
	}
	return sess.ID, nil
}

// VerifyCode reports whether code matches the email's outstanding code.
// Codes are neither expired nor consumed by a successful check; verifying
// twice with the same code succeeds.
func (s *Service) VerifyCode(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[email]
	if !ok || sess.Code != code {
		return false
	}
	sess.Verified = true
	return true
}

// ResetPassword persists a new password for the email's account and discards
// the reset session. An unknown email is a normal false, not an error.
// Ordering against VerifyCode is the caller's responsibility.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) (bool, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	user.Password = newPassword
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return false, err
	}

	s.mu.Lock()
	if sess, ok := s.sessions[email]; ok {
		sess.Consumed = true
		delete(s.sessions, email)
	}
	s.mu.Unlock()

	return true, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
