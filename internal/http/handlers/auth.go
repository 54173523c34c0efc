package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendlog/spendlog-be/internal/auth"
	"github.com/spendlog/spendlog-be/internal/http/respond"
	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/models/dto"
	"github.com/spendlog/spendlog-be/internal/storage"
)

// AuthHandler owns the register/login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "hash password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{Email: email, PasswordHash: string(passwordHash)}
	if _, err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.ErrorContext(r.Context(), "create user failed", "error", err, "email", email)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "email", email)
	respond.JSON(w, http.StatusCreated, "user registered successfully", nil)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid email")
			return
		}
		h.logger.ErrorContext(r.Context(), "fetch user failed", "error", err, "email", email)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue token failed", "error", err, "email", email)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token})
}
