package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is an in-memory store for service tests.
type fakeStore struct {
	users    map[int64]*User
	approved map[string]bool
	sessions map[string]*Session
	tokens   map[string]*ResetToken
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*User),
		approved: make(map[string]bool),
		sessions: make(map[string]*Session),
		tokens:   make(map[string]*ResetToken),
	}
}

func (f *fakeStore) InsertUser(_ context.Context, u *User) error {
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID int64, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeStore) EmailApproved(_ context.Context, email string) (bool, error) {
	return f.approved[email], nil
}

func (f *fakeStore) InsertSession(_ context.Context, s *Session) error {
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeStore) SessionByToken(_ context.Context, token string) (*Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) ReplaceResetToken(_ context.Context, t *ResetToken) error {
	for tok, existing := range f.tokens {
		if existing.UserID == t.UserID {
			delete(f.tokens, tok)
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.tokens[t.Token] = t
	return nil
}

func (f *fakeStore) ResetTokenByValue(_ context.Context, token string) (*ResetToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) DeleteResetToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendPasswordReset(_, email, _ string) {
	m.sent = append(m.sent, email)
}

func newTestService(store *fakeStore, mailer Mailer) *Service {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	return &Service{store: store, mailer: mailer, clock: clock, sessionTTL: SessionTTL}
}

// ---- Register ----

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("approved email succeeds", func(t *testing.T) {
		store := newFakeStore()
		store.approved["coach@club.org"] = true
		svc := newTestService(store, nil)

		u, err := svc.Register(ctx, "coach", "coach@club.org", "secret1")
		if err != nil {
			t.Fatalf("Register() error: %v", err)
		}
		if u.ID == 0 {
			t.Error("user should get an id")
		}
		if u.PasswordHash == "secret1" {
			t.Error("password stored unhashed")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")); err != nil {
			t.Error("stored hash does not match password")
		}
	})

	t.Run("unapproved email rejected", func(t *testing.T) {
		svc := newTestService(newFakeStore(), nil)
		_, err := svc.Register(ctx, "coach", "stranger@club.org", "secret1")
		if !errors.Is(err, ErrEmailNotApproved) {
			t.Errorf("error = %v, want ErrEmailNotApproved", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		store := newFakeStore()
		store.approved["coach@club.org"] = true
		svc := newTestService(store, nil)
		_, err := svc.Register(ctx, "coach", "coach@club.org", "short")
		if !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("error = %v, want ErrPasswordTooShort", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		store := newFakeStore()
		store.approved["coach@club.org"] = true
		svc := newTestService(store, nil)
		if _, err := svc.Register(ctx, "coach", "coach@club.org", "secret1"); err != nil {
			t.Fatalf("first Register() error: %v", err)
		}
		_, err := svc.Register(ctx, "other", "coach@club.org", "secret1")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		store := newFakeStore()
		store.approved["a@club.org"] = true
		store.approved["b@club.org"] = true
		svc := newTestService(store, nil)
		if _, err := svc.Register(ctx, "coach", "a@club.org", "secret1"); err != nil {
			t.Fatalf("first Register() error: %v", err)
		}
		_, err := svc.Register(ctx, "coach", "b@club.org", "secret1")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("error = %v, want ErrUsernameTaken", err)
		}
	})
}

// ---- Login / Authenticate ----

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.approved["coach@club.org"] = true
	svc := newTestService(store, nil)

	if _, err := svc.Register(ctx, "coach", "coach@club.org", "secret1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "coach@club.org", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@club.org", "secret1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("valid login opens session", func(t *testing.T) {
		sess, err := svc.Login(ctx, "coach@club.org", "secret1")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if sess.Token == "" {
			t.Fatal("session token empty")
		}
		if !sess.ExpiresAt.After(sess.CreatedAt) {
			t.Error("session should expire after creation")
		}

		u, err := svc.Authenticate(ctx, sess.Token)
		if err != nil {
			t.Fatalf("Authenticate() error: %v", err)
		}
		if u.Email != "coach@club.org" {
			t.Errorf("authenticated user = %q", u.Email)
		}
	})

	t.Run("logout invalidates session", func(t *testing.T) {
		sess, err := svc.Login(ctx, "coach@club.org", "secret1")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if err := svc.Logout(ctx, sess.Token); err != nil {
			t.Fatalf("Logout() error: %v", err)
		}
		if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, ErrNoSession) {
			t.Errorf("error = %v, want ErrNoSession", err)
		}
	})

	t.Run("empty token rejected", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrNoSession) {
			t.Errorf("error = %v, want ErrNoSession", err)
		}
	})
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.approved["coach@club.org"] = true

	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	svc := &Service{store: store, clock: clock, sessionTTL: time.Hour}

	if _, err := svc.Register(ctx, "coach", "coach@club.org", "secret1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	sess, err := svc.Login(ctx, "coach@club.org", "secret1")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	clock.Advance(2 * time.Hour)

	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
	if _, ok := store.sessions[sess.Token]; ok {
		t.Error("expired session should be deleted")
	}
}

// ---- Password reset ----

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.approved["coach@club.org"] = true
	mailer := &fakeMailer{}

	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	svc := &Service{store: store, mailer: mailer, clock: clock, sessionTTL: SessionTTL}

	if _, err := svc.Register(ctx, "coach", "coach@club.org", "secret1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	t.Run("unknown email is silent", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "nobody@club.org"); err != nil {
			t.Fatalf("RequestPasswordReset() error: %v", err)
		}
		if len(mailer.sent) != 0 {
			t.Error("no mail should be sent for unknown email")
		}
	})

	t.Run("known email gets token and mail", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "coach@club.org"); err != nil {
			t.Fatalf("RequestPasswordReset() error: %v", err)
		}
		if len(mailer.sent) != 1 || mailer.sent[0] != "coach@club.org" {
			t.Errorf("mail sent to %v", mailer.sent)
		}
		if len(store.tokens) != 1 {
			t.Fatalf("got %d tokens, want 1", len(store.tokens))
		}
	})

	t.Run("new request replaces old token", func(t *testing.T) {
		var oldToken string
		for tok := range store.tokens {
			oldToken = tok
		}
		if err := svc.RequestPasswordReset(ctx, "coach@club.org"); err != nil {
			t.Fatalf("RequestPasswordReset() error: %v", err)
		}
		if len(store.tokens) != 1 {
			t.Fatalf("got %d tokens, want 1", len(store.tokens))
		}
		if _, ok := store.tokens[oldToken]; ok {
			t.Error("old token should be replaced")
		}
	})

	t.Run("reset consumes token", func(t *testing.T) {
		var token string
		for tok := range store.tokens {
			token = tok
		}

		if err := svc.ResetPassword(ctx, token, "newpass"); err != nil {
			t.Fatalf("ResetPassword() error: %v", err)
		}
		if len(store.tokens) != 0 {
			t.Error("token should be consumed")
		}
		if _, err := svc.Login(ctx, "coach@club.org", "newpass"); err != nil {
			t.Errorf("login with new password failed: %v", err)
		}
		if _, err := svc.Login(ctx, "coach@club.org", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Error("old password should no longer work")
		}
		if err := svc.ResetPassword(ctx, token, "another"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("replay error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "coach@club.org"); err != nil {
			t.Fatalf("RequestPasswordReset() error: %v", err)
		}
		var token string
		for tok := range store.tokens {
			token = tok
		}

		clock.Advance(ResetTokenTTL + time.Minute)

		if _, err := svc.VerifyResetToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("short new password rejected", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "coach@club.org"); err != nil {
			t.Fatalf("RequestPasswordReset() error: %v", err)
		}
		var token string
		for tok := range store.tokens {
			token = tok
		}
		if err := svc.ResetPassword(ctx, token, "tiny"); !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("error = %v, want ErrPasswordTooShort", err)
		}
	})
}
