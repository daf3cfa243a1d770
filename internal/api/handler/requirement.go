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
	"github.com/tmshq/tms/internal/requirement"
)

type createRequirementRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AcceptanceCriteria *string `json:"acceptanceCriteria"`
	Source             string  `json:"source"`
	ExternalID         *string `json:"externalId"`
}

type updateRequirementRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	AcceptanceCriteria *string `json:"acceptanceCriteria"`
	ExternalID         *string `json:"externalId"`
}

type requirementResponse struct {
	ID                 int64   `json:"id"`
	ProjectID          int64   `json:"projectId"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AcceptanceCriteria *string `json:"acceptanceCriteria"`
	Source             string  `json:"source"`
	ExternalID         *string `json:"externalId"`
	CreatedAt          string  `json:"createdAt"`
}

func toRequirementResponse(req *requirement.Requirement) requirementResponse {
	return requirementResponse{
		ID:                 req.ID,
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Source:             req.Source,
		ExternalID:         req.ExternalID,
		CreatedAt:          req.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// RequirementHandler handles requirement endpoints nested under a project.
// Reads require view access on the project, writes require edit access.
type RequirementHandler struct {
	repo     requirement.Repository
	resolver *access.Resolver
}

// NewRequirementHandler creates a new RequirementHandler.
func NewRequirementHandler(repo requirement.Repository, resolver *access.Resolver) *RequirementHandler {
	return &RequirementHandler{repo: repo, resolver: resolver}
}

func (h *RequirementHandler) checkProject(w http.ResponseWriter, r *http.Request, level access.Level, requestID string) (int64, bool) {
	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return 0, false
	}

	actor := middleware.GetActor(r.Context())
	if _, err := h.resolver.CheckAccess(r.Context(), actor, projectID, level); err != nil {
		if writeDomainError(w, err, requestID) {
			return 0, false
		}
		slog.Error("failed to check project access", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check project access", requestID)
		return 0, false
	}

	return projectID, true
}

// Create handles POST /api/projects/{id}/requirements.
func (h *RequirementHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateRequirementRequest(validation.CreateRequirementRequest{
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}
	rec := &requirement.Requirement{
		ProjectID:          projectID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Source:             source,
		ExternalID:         req.ExternalID,
	}
	if err := h.repo.Create(r.Context(), rec); err != nil {
		slog.Error("failed to create requirement", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create requirement", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toRequirementResponse(rec), requestID)
}

// List handles GET /api/projects/{id}/requirements.
func (h *RequirementHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}

	reqs, err := h.repo.ListByProject(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to list requirements", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requirements", requestID)
		return
	}

	items := make([]requirementResponse, 0, len(reqs))
	for i := range reqs {
		items = append(items, toRequirementResponse(&reqs[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/projects/{id}/requirements/{reqId}.
func (h *RequirementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "reqId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "reqId must be a positive integer", requestID)
		return
	}

	rec, err := h.repo.GetByID(r.Context(), projectID, id)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get requirement", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get requirement", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRequirementResponse(rec), requestID)
}

// Update handles PUT /api/projects/{id}/requirements/{reqId}.
func (h *RequirementHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "reqId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "reqId must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	rec, err := h.repo.Update(r.Context(), projectID, id, requirement.UpdateFields{
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		ExternalID:         req.ExternalID,
	})
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to update requirement", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update requirement", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRequirementResponse(rec), requestID)
}

// Delete handles DELETE /api/projects/{id}/requirements/{reqId}.
func (h *RequirementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "reqId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "reqId must be a positive integer", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), projectID, id); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to delete requirement", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete requirement", requestID)
		return
	}

	response.NoContent(w)
}
