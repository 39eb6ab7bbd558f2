package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.svc.Auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(session.Token, session.ExpiresAt))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged in"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
		if err := s.svc.Auth.Logout(r.Context(), cookie.Value); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}

	// Expire the cookie regardless.
	http.SetCookie(w, s.sessionCookie("", time.Unix(0, 0)))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondDomainError(w, r, err)
		return
	}

	// Same response whether or not the email has an account.
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "if an account with that email exists, a reset link has been sent",
	})
}

func (s *Server) handleVerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	user, err := s.svc.Auth.VerifyResetToken(r.Context(), token)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.svc.Auth.ResetPassword(r.Context(), token, req.Password); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (s *Server) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
