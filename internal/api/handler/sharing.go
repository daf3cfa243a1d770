package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/project"
)

type addMemberRequest struct {
	Email       string `json:"email"`
	AccessLevel string `json:"accessLevel"`
}

type updateAccessRequest struct {
	AccessLevel string `json:"accessLevel"`
}

type attachGroupRequest struct {
	GroupID     int64  `json:"groupId"`
	AccessLevel string `json:"accessLevel"`
}

type memberResponse struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"projectId"`
	UserID      int64  `json:"userId"`
	AccessLevel string `json:"accessLevel"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	CreatedAt   string `json:"createdAt"`
}

type projectGroupResponse struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"projectId"`
	GroupID     int64  `json:"groupId"`
	AccessLevel string `json:"accessLevel"`
	GroupName   string `json:"groupName"`
	CreatedAt   string `json:"createdAt"`
}

type sharingListResponse struct {
	Members []memberResponse       `json:"members"`
	Groups  []projectGroupResponse `json:"groups"`
}

func toMemberResponse(m *project.Member) memberResponse {
	return memberResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		UserID:      m.UserID,
		AccessLevel: m.AccessLevel,
		Email:       m.Email,
		Name:        m.UserName,
		CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toProjectGroupResponse(m *project.GroupMember) projectGroupResponse {
	return projectGroupResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		GroupID:     m.GroupID,
		AccessLevel: m.AccessLevel,
		GroupName:   m.GroupName,
		CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// SharingHandler handles the project sharing endpoints: user memberships and
// group attachments under /api/projects/{id}.
type SharingHandler struct {
	sharing *access.Sharing
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(sharing *access.Sharing) *SharingHandler {
	return &SharingHandler{sharing: sharing}
}

// ListMembers handles GET /api/projects/{id}/members. Any actor with view
// access sees the full sharing list.
func (h *SharingHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	members, groups, err := h.sharing.ListMembers(r.Context(), actor, projectID)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to list project members", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list project members", requestID)
		return
	}

	out := sharingListResponse{
		Members: make([]memberResponse, 0, len(members)),
		Groups:  make([]projectGroupResponse, 0, len(groups)),
	}
	for i := range members {
		out.Members = append(out.Members, toMemberResponse(&members[i]))
	}
	for i := range groups {
		out.Groups = append(out.Groups, toProjectGroupResponse(&groups[i]))
	}

	response.Success(w, http.StatusOK, out, requestID)
}

// AddMember handles POST /api/projects/{id}/members.
func (h *SharingHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.sharing.AddUserMember(r.Context(), actor, projectID, req.Email, req.AccessLevel)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to add project member", "error", err, "projectId", projectID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add project member", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toMemberResponse(m), requestID)
}

// UpdateMember handles PATCH /api/projects/{id}/members/{memberId}.
func (h *SharingHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}
	memberID, ok := pathID(chi.URLParam(r, "memberId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.sharing.UpdateMemberAccess(r.Context(), actor, projectID, memberID, req.AccessLevel)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to update project member", "error", err, "projectId", projectID, "memberId", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update project member", requestID)
		return
	}

	response.Success(w, http.StatusOK, toMemberResponse(m), requestID)
}

// RemoveMember handles DELETE /api/projects/{id}/members/{memberId}.
func (h *SharingHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}
	memberID, ok := pathID(chi.URLParam(r, "memberId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.sharing.RemoveUserMember(r.Context(), actor, projectID, memberID); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to remove project member", "error", err, "projectId", projectID, "memberId", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove project member", requestID)
		return
	}

	response.NoContent(w)
}

// AttachGroup handles POST /api/projects/{id}/groups.
func (h *SharingHandler) AttachGroup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req attachGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if req.GroupID <= 0 {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "groupId must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.sharing.AttachGroup(r.Context(), actor, projectID, req.GroupID, req.AccessLevel)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to attach group", "error", err, "projectId", projectID, "groupId", req.GroupID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to attach group", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectGroupResponse(m), requestID)
}

// UpdateGroup handles PATCH /api/projects/{id}/groups/{memberId}.
func (h *SharingHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}
	memberID, ok := pathID(chi.URLParam(r, "memberId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.sharing.UpdateGroupAccess(r.Context(), actor, projectID, memberID, req.AccessLevel)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to update group attachment", "error", err, "projectId", projectID, "memberId", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update group attachment", requestID)
		return
	}

	response.Success(w, http.StatusOK, toProjectGroupResponse(m), requestID)
}

// DetachGroup handles DELETE /api/projects/{id}/groups/{memberId}.
func (h *SharingHandler) DetachGroup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	projectID, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}
	memberID, ok := pathID(chi.URLParam(r, "memberId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.sharing.DetachGroup(r.Context(), actor, projectID, memberID); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to detach group", "error", err, "projectId", projectID, "memberId", memberID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to detach group", requestID)
		return
	}

	response.NoContent(w)
}
