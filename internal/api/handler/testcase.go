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
	"github.com/tmshq/tms/internal/testcase"
)

type createTestCaseRequest struct {
	RequirementID  *int64  `json:"requirementId"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Steps          *string `json:"steps"`
	Preconditions  *string `json:"preconditions"`
	ExpectedResult *string `json:"expectedResult"`
	Priority       *string `json:"priority"`
	Status         string  `json:"status"`
}

type updateTestCaseRequest struct {
	RequirementID  *int64  `json:"requirementId"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Steps          *string `json:"steps"`
	Preconditions  *string `json:"preconditions"`
	ExpectedResult *string `json:"expectedResult"`
	Priority       *string `json:"priority"`
	Status         *string `json:"status"`
}

type testCaseResponse struct {
	ID             int64   `json:"id"`
	ProjectID      int64   `json:"projectId"`
	RequirementID  *int64  `json:"requirementId"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Steps          *string `json:"steps"`
	Preconditions  *string `json:"preconditions"`
	ExpectedResult *string `json:"expectedResult"`
	Priority       *string `json:"priority"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}

func toTestCaseResponse(tc *testcase.TestCase) testCaseResponse {
	return testCaseResponse{
		ID:             tc.ID,
		ProjectID:      tc.ProjectID,
		RequirementID:  tc.RequirementID,
		Title:          tc.Title,
		Description:    tc.Description,
		Steps:          tc.Steps,
		Preconditions:  tc.Preconditions,
		ExpectedResult: tc.ExpectedResult,
		Priority:       tc.Priority,
		Status:         tc.Status,
		CreatedAt:      tc.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// TestCaseHandler handles test case endpoints nested under a project. Reads
// require view access on the project, writes require edit access.
type TestCaseHandler struct {
	repo     testcase.Repository
	resolver *access.Resolver
}

// NewTestCaseHandler creates a new TestCaseHandler.
func NewTestCaseHandler(repo testcase.Repository, resolver *access.Resolver) *TestCaseHandler {
	return &TestCaseHandler{repo: repo, resolver: resolver}
}

func (h *TestCaseHandler) checkProject(w http.ResponseWriter, r *http.Request, level access.Level, requestID string) (int64, bool) {
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

// Create handles POST /api/projects/{id}/testcases.
func (h *TestCaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTestCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTestCaseRequest(validation.CreateTestCaseRequest{
		Title:  req.Title,
		Status: req.Status,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	status := req.Status
	if status == "" {
		status = "draft"
	}
	tc := &testcase.TestCase{
		ProjectID:      projectID,
		RequirementID:  req.RequirementID,
		Title:          req.Title,
		Description:    req.Description,
		Steps:          req.Steps,
		Preconditions:  req.Preconditions,
		ExpectedResult: req.ExpectedResult,
		Priority:       req.Priority,
		Status:         status,
	}
	if err := h.repo.Create(r.Context(), tc); err != nil {
		slog.Error("failed to create test case", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create test case", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTestCaseResponse(tc), requestID)
}

// List handles GET /api/projects/{id}/testcases.
func (h *TestCaseHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}

	cases, err := h.repo.ListByProject(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to list test cases", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list test cases", requestID)
		return
	}

	items := make([]testCaseResponse, 0, len(cases))
	for i := range cases {
		items = append(items, toTestCaseResponse(&cases[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/projects/{id}/testcases/{caseId}.
func (h *TestCaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelView, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "caseId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "caseId must be a positive integer", requestID)
		return
	}

	tc, err := h.repo.GetByID(r.Context(), projectID, id)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get test case", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get test case", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTestCaseResponse(tc), requestID)
}

// Update handles PUT /api/projects/{id}/testcases/{caseId}.
func (h *TestCaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "caseId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "caseId must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTestCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	tc, err := h.repo.Update(r.Context(), projectID, id, testcase.UpdateFields{
		RequirementID:  req.RequirementID,
		Title:          req.Title,
		Description:    req.Description,
		Steps:          req.Steps,
		Preconditions:  req.Preconditions,
		ExpectedResult: req.ExpectedResult,
		Priority:       req.Priority,
		Status:         req.Status,
	})
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to update test case", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update test case", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTestCaseResponse(tc), requestID)
}

// Delete handles DELETE /api/projects/{id}/testcases/{caseId}.
func (h *TestCaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := h.checkProject(w, r, access.LevelEdit, requestID)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "caseId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "caseId must be a positive integer", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), projectID, id); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to delete test case", "error", err, "projectId", projectID, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete test case", requestID)
		return
	}

	response.NoContent(w)
}
