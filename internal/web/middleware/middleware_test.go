package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/clubhouse/internal/auth"
)

// ---- SessionAuth ----

type fakeAuthenticator struct {
	user *auth.User
	err  error

	gotToken string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.User, error) {
	f.gotToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	authn := &fakeAuthenticator{user: &auth.User{ID: 7, Username: "coach"}}

	var seen *auth.User
	handler := SessionAuth(authn, "session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok-123"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if authn.gotToken != "tok-123" {
		t.Errorf("token = %q, want tok-123", authn.gotToken)
	}
	if seen == nil || seen.ID != 7 {
		t.Errorf("CurrentUser = %+v, want user 7", seen)
	}
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	authn := &fakeAuthenticator{user: &auth.User{ID: 1}}

	called := false
	handler := SessionAuth(authn, "session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("inner handler ran without a session")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestSessionAuth_RejectedToken(t *testing.T) {
	authn := &fakeAuthenticator{err: errors.New("expired")}

	handler := SessionAuth(authn, "session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler ran with a rejected token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/roster", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCurrentUser_NoSession(t *testing.T) {
	if u := CurrentUser(context.Background()); u != nil {
		t.Errorf("CurrentUser on bare context = %+v, want nil", u)
	}
}

// ---- TrustedRealIP ----

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{
			name:       "trusted proxy with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.5:443",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted proxy with X-Forwarded-For chain",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.5:443",
			forwarded:  "198.51.100.2, 10.0.0.5",
			want:       "198.51.100.2",
		},
		{
			name:       "untrusted source keeps RemoteAddr",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "192.0.2.1:1234",
			realIP:     "203.0.113.9",
			want:       "192.0.2.1:1234",
		},
		{
			name:       "no trusted proxies configured",
			trusted:    nil,
			remoteAddr: "10.0.0.5:443",
			realIP:     "203.0.113.9",
			want:       "10.0.0.5:443",
		},
		{
			name:       "single IP trusted entry",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9999",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "garbage header ignored",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.0.0.5:443",
			realIP:     "not-an-ip",
			want:       "10.0.0.5:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
