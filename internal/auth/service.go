package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// SessionTTL is the default lifetime of a login session; the configured
// value from SESSION_TTL overrides it.
const SessionTTL = 30 * 24 * time.Hour

// store is the persistence surface the service needs. *Repository
// satisfies it; tests substitute an in-memory fake.
type store interface {
	InsertUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	EmailApproved(ctx context.Context, email string) (bool, error)

	InsertSession(ctx context.Context, s *Session) error
	SessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error

	ReplaceResetToken(ctx context.Context, t *ResetToken) error
	ResetTokenByValue(ctx context.Context, token string) (*ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// Mailer delivers the password reset mail. Delivery failures must not
// change the caller-visible outcome; implementations log and move on.
type Mailer interface {
	SendPasswordReset(username, email, token string)
}

// Service implements registration, login, sessions and password reset.
type Service struct {
	store      store
	mailer     Mailer
	clock      clockwork.Clock
	sessionTTL time.Duration
}

func NewService(repo *Repository, mailer Mailer, clock clockwork.Clock, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = SessionTTL
	}
	return &Service{store: repo, mailer: mailer, clock: clock, sessionTTL: sessionTTL}
}

// Register creates an account. The email must be on the pre-approved
// list and both username and email must be unused.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	approved, err := s.store.EmailApproved(ctx, email)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrEmailNotApproved
	}

	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.UserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and opens a session. The same error comes
// back for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)

	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout discards a session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user. Expired sessions
// are deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	sess, err := s.store.SessionByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if s.clock.Now().UTC().After(sess.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, token)
		return nil, ErrNoSession
	}
	return s.store.UserByID(ctx, sess.UserID)
}

// RequestPasswordReset issues a reset token and mails it. The caller
// sees identical behavior whether or not the account exists, so the
// endpoint cannot be used to probe for registered emails.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	t := &ResetToken{
		UserID:    u.ID,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ResetTokenTTL),
	}
	if err := s.store.ReplaceResetToken(ctx, t); err != nil {
		return err
	}

	if s.mailer != nil {
		s.mailer.SendPasswordReset(u.Username, u.Email, t.Token)
	}
	return nil
}

// VerifyResetToken returns the user a valid token belongs to.
func (s *Service) VerifyResetToken(ctx context.Context, token string) (*User, error) {
	t, err := s.store.ResetTokenByValue(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if t.Expired(s.clock.Now().UTC()) {
		return nil, ErrInvalidToken
	}
	return s.store.UserByID(ctx, t.UserID)
}

// ResetPassword sets a new password via a valid token and consumes the
// token so it cannot be replayed.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}
	return s.store.DeleteResetToken(ctx, token)
}
