package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/clubhouse/internal/auth"
	"github.com/JonMunkholm/clubhouse/internal/logging"
)

type contextKey string

const userKey contextKey = "current_user"

// Authenticator resolves a session token to the user who owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.User, error)
}

// SessionAuth requires a valid session cookie on every request it wraps.
// The authenticated user is stored in the request context and can be
// retrieved with CurrentUser. Requests without a valid session get a
// 401 JSON response.
func SessionAuth(authn Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			user, err := authn.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				logging.FromContext(r.Context()).Debug("session rejected",
					"error", err,
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user stored by SessionAuth,
// or nil when the request did not pass through it.
func CurrentUser(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userKey).(*auth.User)
	return user
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
	})
}
