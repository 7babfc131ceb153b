package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	appMiddleware "github.com/markdave123-py/artintx/internal/api/middlewares"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into dst and answers 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// requireUser pulls the authenticated user id or answers 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := appMiddleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// handleServiceError maps service errors onto status codes and logs anything unexpected.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, "An account with this email already exists.")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, services.ErrExportUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Data export is not available.")
	default:
		logging.FromContext(r.Context()).Error(fallback, "err", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
