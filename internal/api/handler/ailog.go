package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/ailog"
	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
)

type createLogRequest struct {
	Endpoint   string `json:"endpoint"`
	InputText  string `json:"inputText"`
	OutputText string `json:"outputText"`
}

type logResponse struct {
	ID         int64  `json:"id"`
	ProjectID  int64  `json:"projectId"`
	Endpoint   string `json:"endpoint"`
	InputText  string `json:"inputText"`
	OutputText string `json:"outputText"`
	CreatedAt  string `json:"createdAt"`
}

func toLogResponse(l *ailog.RequestLog) logResponse {
	return logResponse{
		ID:         l.ID,
		ProjectID:  l.ProjectID,
		Endpoint:   l.Endpoint,
		InputText:  l.InputText,
		OutputText: l.OutputText,
		CreatedAt:  l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// AILogHandler handles the per-project generation history endpoints. History
// is append-only: entries can be recorded and read, never edited or removed.
type AILogHandler struct {
	repo     ailog.Repository
	resolver *access.Resolver
}

// NewAILogHandler creates a new AILogHandler.
func NewAILogHandler(repo ailog.Repository, resolver *access.Resolver) *AILogHandler {
	return &AILogHandler{repo: repo, resolver: resolver}
}

func (h *AILogHandler) checkProject(w http.ResponseWriter, r *http.Request, level access.Level, requestID string) (int64, bool) {
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

// Create handles POST /api/projects/{id}/logs.
func (h *AILogHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if strings.TrimSpace(req.Endpoint) == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "endpoint is required", requestID)
		return
	}

	l := &ailog.RequestLog{
		ProjectID:  projectID,
		Endpoint:   req.Endpoint,
		InputText:  req.InputText,
		OutputText: req.OutputText,
	}
	if err := h.repo.Create(r.Context(), l); err != nil {
		slog.Error("failed to record request log", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record request log", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toLogResponse(l), requestID)
}

// List handles GET /api/projects/{id}/logs.
func (h *AILogHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}

	logs, err := h.repo.ListByProject(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to list request logs", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list request logs", requestID)
		return
	}

	items := make([]logResponse, 0, len(logs))
	for i := range logs {
		items = append(items, toLogResponse(&logs[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/projects/{id}/logs/{logId}.
func (h *AILogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "logId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "logId must be a positive integer", requestID)
		return
	}

	l, err := h.repo.GetByID(r.Context(), projectID, id)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get request log", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get request log", requestID)
		return
	}

	response.Success(w, http.StatusOK, toLogResponse(l), requestID)
}
