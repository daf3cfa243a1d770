package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/api/validation"
	"github.com/tmshq/tms/internal/role"
)

type roleRequest struct {
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type roleResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

func toRoleResponse(r *role.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, IsAdmin: r.IsAdmin}
}

// RoleHandler handles role CRUD endpoints. All routes are admin-gated by
// middleware.
type RoleHandler struct {
	repo role.Repository
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(repo role.Repository) *RoleHandler {
	return &RoleHandler{repo: repo}
}

// Create handles POST /api/roles.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateRoleRequest(validation.CreateRoleRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rl := &role.Role{Name: req.Name, IsAdmin: req.IsAdmin}
	if err := h.repo.Create(r.Context(), rl); err != nil {
		if errors.Is(err, role.ErrDuplicateRoleName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "Role name already exists", requestID)
			return
		}
		slog.Error("failed to create role", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create role", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toRoleResponse(rl), requestID)
}

// List handles GET /api/roles.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	roles, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list roles", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list roles", requestID)
		return
	}

	items := make([]roleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, toRoleResponse(&roles[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Update handles PUT /api/roles/{id}.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateRoleRequest(validation.CreateRoleRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rl := &role.Role{ID: id, Name: req.Name, IsAdmin: req.IsAdmin}
	if err := h.repo.Update(r.Context(), rl); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Role not found", requestID)
			return
		}
		if errors.Is(err, role.ErrDuplicateRoleName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "Role name already exists", requestID)
			return
		}
		slog.Error("failed to update role", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update role", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRoleResponse(rl), requestID)
}

// Delete handles DELETE /api/roles/{id}.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, role.ErrRoleNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Role not found", requestID)
			return
		}
		if errors.Is(err, role.ErrRoleInUse) {
			response.Err(w, http.StatusConflict, "ROLE_IN_USE", "Cannot delete a role referenced by users", requestID)
			return
		}
		slog.Error("failed to delete role", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete role", requestID)
		return
	}

	response.NoContent(w)
}
