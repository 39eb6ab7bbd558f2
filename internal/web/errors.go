package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/clubhouse/internal/auth"
	"github.com/JonMunkholm/clubhouse/internal/files"
	"github.com/JonMunkholm/clubhouse/internal/games"
	"github.com/JonMunkholm/clubhouse/internal/logging"
	"github.com/JonMunkholm/clubhouse/internal/practice"
	"github.com/JonMunkholm/clubhouse/internal/roster"
)

// ErrorResponse is the JSON body returned for all error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			"status", status,
			"path", r.URL.Path,
			"error", msg,
		)
		// Do not leak internals to clients.
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// respondDomainError maps a domain error to an HTTP status and writes it.
// Unknown errors become a 500 with the detail kept server-side.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case isNotFound(err):
		status = http.StatusNotFound
	case isConflict(err):
		status = http.StatusConflict
	case isBadRequest(err):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, files.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	writeError(w, r, status, err.Error())
}

func isNotFound(err error) bool {
	return errors.Is(err, roster.ErrNotFound) ||
		errors.Is(err, auth.ErrNotFound) ||
		errors.Is(err, files.ErrNotFound) ||
		errors.Is(err, practice.ErrNotFound) ||
		errors.Is(err, games.ErrNotFound) ||
		errors.Is(err, files.ErrMissingOnDisk)
}

func isConflict(err error) bool {
	return errors.Is(err, auth.ErrEmailTaken) ||
		errors.Is(err, auth.ErrUsernameTaken) ||
		errors.Is(err, files.ErrDuplicateName)
}

func isBadRequest(err error) bool {
	return errors.Is(err, auth.ErrPasswordTooShort) ||
		errors.Is(err, roster.ErrUnknownAction) ||
		errors.Is(err, roster.ErrNoSelection) ||
		errors.Is(err, files.ErrNameRequired) ||
		errors.Is(err, files.ErrInvalidParent) ||
		errors.Is(err, files.ErrEmptyFile) ||
		errors.Is(err, files.ErrQueryRequired) ||
		errors.Is(err, practice.ErrTitleRequired) ||
		errors.Is(err, practice.ErrFocusRequired) ||
		errors.Is(err, practice.ErrNameRequired) ||
		errors.Is(err, games.ErrOpponentRequired) ||
		errors.Is(err, games.ErrTeamRequired) ||
		errors.Is(err, games.ErrRinkRequired) ||
		errors.Is(err, games.ErrGoalMismatch)
}
