package handlers

import (
	"net/http"
	"time"

	appMiddleware "github.com/markdave123-py/artintx/internal/api/middlewares"
	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/models"
	"github.com/markdave123-py/artintx/internal/services"
)

type AuthHandler struct {
	users     *services.UserService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(users *services.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err, "Server error during registration.")
		return
	}

	token, err := appMiddleware.IssueToken(h.jwtSecret, h.tokenTTL, user.ID, user.Email)
	if err != nil {
		handleServiceError(w, r, err, "Server error during registration.")
		return
	}

	logging.FromContext(r.Context()).Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Message: "Account created!", Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err, "Server error during login.")
		return
	}

	token, err := appMiddleware.IssueToken(h.jwtSecret, h.tokenTTL, user.ID, user.Email)
	if err != nil {
		handleServiceError(w, r, err, "Server error during login.")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.users.UpdateProfile(r.Context(), userID, req); err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully."})
}
