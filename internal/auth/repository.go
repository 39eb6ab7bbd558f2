package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/clubhouse/internal/database"
)

// ErrNotFound is returned when a user, session or token does not exist.
var ErrNotFound = errors.New("not found")

// Repository persists users, sessions and reset tokens.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ---- Users ----

func (r *Repository) InsertUser(ctx context.Context, u *User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) userBy(ctx context.Context, field, value string) (*User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE ` + field + ` = $1`

	var u User
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	return r.userBy(ctx, "email", email)
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*User, error) {
	return r.userBy(ctx, "username", username)
}

func (r *Repository) UserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	return &u, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Pre-approved emails ----

func (r *Repository) EmailApproved(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pre_approved_emails WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pre-approved email: %w", err)
	}
	return exists, nil
}

func (r *Repository) ApproveEmail(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pre_approved_emails (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, email)
	if err != nil {
		return fmt.Errorf("approve email: %w", err)
	}
	return nil
}

// ---- Sessions ----

func (r *Repository) InsertSession(ctx context.Context, s *Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		s.Token, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *Repository) SessionByToken(ctx context.Context, token string) (*Session, error) {
	var s Session
	err := r.pool.QueryRow(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return &s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---- Reset tokens ----

// ReplaceResetToken removes any outstanding tokens for the user and
// stores the new one, in a single transaction.
func (r *Repository) ReplaceResetToken(ctx context.Context, t *ResetToken) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM password_reset_tokens WHERE user_id = $1`, t.UserID); err != nil {
			return fmt.Errorf("clear reset tokens: %w", err)
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO password_reset_tokens (user_id, token, created_at, expires_at)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			t.UserID, t.Token, t.CreatedAt, t.ExpiresAt,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("insert reset token: %w", err)
		}
		return nil
	})
}

func (r *Repository) ResetTokenByValue(ctx context.Context, token string) (*ResetToken, error) {
	var t ResetToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token, created_at, expires_at
		 FROM password_reset_tokens WHERE token = $1`, token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query reset token: %w", err)
	}
	return &t, nil
}

func (r *Repository) DeleteResetToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	return nil
}
