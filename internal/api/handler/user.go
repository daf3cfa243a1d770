package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/api/validation"
	"github.com/tmshq/tms/internal/user"
)

type createUserRequest struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Name           string  `json:"name"`
	Tel            *string `json:"tel"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Country        *string `json:"country"`
	RoleID         int64   `json:"roleId"`
	OrganizationID *int64  `json:"organizationId"`
}

type updateUserRequest struct {
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Name           *string `json:"name"`
	Tel            *string `json:"tel"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Country        *string `json:"country"`
	RoleID         *int64  `json:"roleId"`
	OrganizationID *int64  `json:"organizationId"`
}

type userResponse struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Tel            *string `json:"tel"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Country        *string `json:"country"`
	RoleID         int64   `json:"roleId"`
	RoleName       string  `json:"roleName"`
	IsAdmin        bool    `json:"isAdmin"`
	OrganizationID *int64  `json:"organizationId"`
	CreatedAt      string  `json:"createdAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Tel:            u.Tel,
		Address:        u.Address,
		City:           u.City,
		Country:        u.Country,
		RoleID:         u.RoleID,
		RoleName:       u.Role.Name,
		IsAdmin:        u.Role.IsAdmin,
		OrganizationID: u.OrganizationID,
		CreatedAt:      u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// UserHandler handles user CRUD endpoints. Everything except Me is
// admin-gated by middleware.
type UserHandler struct {
	repo       user.Repository
	bcryptCost int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(repo user.Repository, bcryptCost int) *UserHandler {
	return &UserHandler{repo: repo, bcryptCost: bcryptCost}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	actor := middleware.GetActor(r.Context())
	u, err := h.repo.GetByID(r.Context(), actor.UserID)
	if err != nil {
		slog.Error("failed to load current user", "error", err, "userId", actor.UserID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		RoleID:   req.RoleID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	u := &user.User{
		Email:          req.Email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		Tel:            req.Tel,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	}
	if err := h.repo.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "EMAIL_EXISTS", "Email already exists", requestID)
			return
		}
		slog.Error("failed to create user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toUserResponse(u), requestID)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fields := user.UpdateFields{
		Email:          req.Email,
		Name:           req.Name,
		Tel:            req.Tel,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		RoleID:         req.RoleID,
		OrganizationID: req.OrganizationID,
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 8 characters", requestID)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), h.bcryptCost)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
			return
		}
		hashStr := string(hash)
		fields.PasswordHash = &hashStr
	}

	u, err := h.repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Err(w, http.StatusConflict, "EMAIL_EXISTS", "Email already exists", requestID)
			return
		}
		slog.Error("failed to update user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Delete handles DELETE /api/users/{id}. Self-deletion is rejected.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if actor.UserID == id {
		response.Err(w, http.StatusBadRequest, "SELF_DELETE", "You cannot delete yourself", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to delete user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", requestID)
		return
	}

	response.NoContent(w)
}
