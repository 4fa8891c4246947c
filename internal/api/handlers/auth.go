package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"kakeibo/internal/api/middleware"
	"kakeibo/internal/domain"
	"kakeibo/internal/store"
)

// AuthHandler registers users and issues session cookies.
type AuthHandler struct {
	users   UserRepository
	session *middleware.SessionIssuer
	log     zerolog.Logger
}

func NewAuthHandler(users UserRepository, session *middleware.SessionIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, session: session, log: log}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var issues []middleware.FieldIssue
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		issues = append(issues, middleware.FieldIssue{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < 8 {
		issues = append(issues, middleware.FieldIssue{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(issues) > 0 {
		middleware.WriteValidationError(w, issues)
		return
	}

	if _, err := h.users.FindByEmail(r.Context(), email); err == nil {
		middleware.WriteError(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error().Err(err).Msg("Failed to check existing user")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to hash password")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.log.Error().Err(err).Msg("Failed to create user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	cookie, err := h.session.Issue(user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to register")
		return
	}
	http.SetCookie(w, cookie)
	middleware.WriteJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error().Err(err).Msg("Failed to look up user")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		middleware.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	cookie, err := h.session.Issue(user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue session")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	http.SetCookie(w, cookie)
	middleware.WriteJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.session.Clear())
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
