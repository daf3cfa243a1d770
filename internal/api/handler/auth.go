package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/api/validation"
	"github.com/tmshq/tms/internal/session"
	"github.com/tmshq/tms/internal/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// AuthHandler handles register, login and logout endpoints.
type AuthHandler struct {
	users         user.Repository
	sessions      *session.Service
	defaultRoleID int64
	bcryptCost    int
}

// NewAuthHandler creates a new AuthHandler. Registered users get the role
// identified by defaultRoleID.
func NewAuthHandler(users user.Repository, sessions *session.Service, defaultRoleID int64, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		users:         users,
		sessions:      sessions,
		defaultRoleID: defaultRoleID,
		bcryptCost:    bcryptCost,
	}
}

// Register handles POST /auth/register. A successful registration also issues
// a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register", requestID)
		return
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		RoleID:       h.defaultRoleID,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", requestID)
			return
		}
		slog.Error("failed to create user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register", requestID)
		return
	}

	h.issue(w, r, u.ID, http.StatusCreated, requestID)
}

// Login handles POST /auth/login. A successful login replaces any existing
// session for the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", requestID)
			return
		}
		slog.Error("failed to look up user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in", requestID)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", requestID)
		return
	}

	h.issue(w, r, u.ID, http.StatusOK, requestID)
}

// Logout handles POST /auth/logout. Revoking is idempotent; the token has
// already resolved in the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.sessions.Revoke(r.Context(), middleware.GetBearerToken(r.Context())); err != nil {
		slog.Error("failed to revoke token", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out", requestID)
		return
	}

	response.NoContent(w)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, userID int64, status int, requestID string) {
	token, expiresAt, err := h.sessions.Issue(r.Context(), userID)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session", requestID)
		return
	}

	response.Success(w, status, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z"),
	}, requestID)
}
