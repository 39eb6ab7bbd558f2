// Package auth provides account management: registration gated on
// pre-approved emails, bcrypt password login, database-backed sessions
// and single-use password reset tokens.
package auth

import (
	"errors"
	"time"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// MinPasswordLength is the shortest password accepted on registration
// and reset.
const MinPasswordLength = 6

var (
	ErrEmailNotApproved   = errors.New("email is not authorized for registration")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUsernameTaken      = errors.New("this username is already taken")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired password reset token")
	ErrNoSession          = errors.New("no active session")
)

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is a logged-in browser session. The token is the cookie value.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ResetToken is an outstanding password reset request. A user has at
// most one; issuing a new token replaces any prior one.
type ResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
