package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/api/validation"
	"github.com/tmshq/tms/internal/project"
)

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type projectResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	OrganizationID *int64  `json:"organizationId"`
	OwnerUserID    int64   `json:"ownerUserId"`
	CreatedAt      string  `json:"createdAt"`
}

func toProjectResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		OrganizationID: p.OrganizationID,
		OwnerUserID:    p.OwnerUserID,
		CreatedAt:      p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ProjectHandler handles project CRUD endpoints. Reads require view access,
// updates require edit access and deletion requires the admin gate.
type ProjectHandler struct {
	repo     project.Repository
	resolver *access.Resolver
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(repo project.Repository, resolver *access.Resolver) *ProjectHandler {
	return &ProjectHandler{repo: repo, resolver: resolver}
}

// Create handles POST /api/projects. The actor becomes the owner and the
// project inherits the actor's organization.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	p := &project.Project{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: actor.OrganizationID,
		OwnerUserID:    actor.UserID,
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		slog.Error("failed to create project", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create project", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p), requestID)
}

// List handles GET /api/projects. It returns projects the actor owns or is a
// direct member of.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	actor := middleware.GetActor(r.Context())
	projects, err := h.repo.ListForUser(r.Context(), actor.UserID)
	if err != nil {
		slog.Error("failed to list projects", "error", err, "userId", actor.UserID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list projects", requestID)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/projects/{id}.
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	p, err := h.resolver.CheckAccess(r.Context(), actor, id, access.LevelView)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get project", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Update handles PUT /api/projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if req.Name != nil {
		fieldErrors := validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{Name: *req.Name})
		if len(fieldErrors) > 0 {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
			return
		}
	}

	actor := middleware.GetActor(r.Context())
	if _, err := h.resolver.CheckAccess(r.Context(), actor, id, access.LevelEdit); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to check project access", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update project", requestID)
		return
	}

	p, err := h.repo.Update(r.Context(), id, project.UpdateFields{Name: req.Name, Description: req.Description})
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to update project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update project", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Delete handles DELETE /api/projects/{id}. Only the owner or an admin may
// delete a project.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if _, err := h.resolver.CheckAdmin(r.Context(), actor, id); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to check project access", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete project", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to delete project", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete project", requestID)
		return
	}

	response.NoContent(w)
}
