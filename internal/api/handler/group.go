package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/api/validation"
	"github.com/tmshq/tms/internal/group"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type addGroupMemberRequest struct {
	UserID int64 `json:"userId"`
}

type groupResponse struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationId"`
	Name           string `json:"name"`
	CreatedAt      string `json:"createdAt"`
}

type groupMemberResponse struct {
	ID        int64  `json:"id"`
	GroupID   int64  `json:"groupId"`
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toGroupResponse(g *group.Group) groupResponse {
	return groupResponse{
		ID:             g.ID,
		OrganizationID: g.OrganizationID,
		Name:           g.Name,
		CreatedAt:      g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toGroupMemberResponse(m *group.Member) groupMemberResponse {
	return groupMemberResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Email:     m.Email,
		Name:      m.UserName,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// GroupHandler handles group endpoints. Groups are scoped to the actor's
// organization; actors without an organization cannot use them.
type GroupHandler struct {
	repo    group.Repository
	sharing *access.Sharing
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(repo group.Repository, sharing *access.Sharing) *GroupHandler {
	return &GroupHandler{repo: repo, sharing: sharing}
}

// Create handles POST /api/groups. The group is created in the actor's
// organization.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	actor := middleware.GetActor(r.Context())
	if actor.OrganizationID == nil {
		response.Err(w, http.StatusBadRequest, "NO_ORGANIZATION", "You must belong to an organization to create groups", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateGroupRequest(validation.CreateGroupRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	g := &group.Group{OrganizationID: *actor.OrganizationID, Name: req.Name}
	if err := h.repo.Create(r.Context(), g); err != nil {
		if errors.Is(err, group.ErrDuplicateGroupName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "A group with this name already exists in your organization", requestID)
			return
		}
		slog.Error("failed to create group", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create group", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toGroupResponse(g), requestID)
}

// List handles GET /api/groups, returning groups in the actor's organization.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	actor := middleware.GetActor(r.Context())
	if actor.OrganizationID == nil {
		response.Success(w, http.StatusOK, []groupResponse{}, requestID)
		return
	}

	groups, err := h.repo.ListByOrg(r.Context(), *actor.OrganizationID)
	if err != nil {
		slog.Error("failed to list groups", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list groups", requestID)
		return
	}

	items := make([]groupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, toGroupResponse(&groups[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Delete handles DELETE /api/groups/{id}.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get group", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete group", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if actor.OrganizationID == nil || *actor.OrganizationID != g.OrganizationID {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Group not found", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to delete group", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete group", requestID)
		return
	}

	response.NoContent(w)
}

// ListMembers handles GET /api/groups/{id}/members.
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to get group", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list group members", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if actor.OrganizationID == nil || *actor.OrganizationID != g.OrganizationID {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Group not found", requestID)
		return
	}

	members, err := h.repo.ListMembers(r.Context(), id)
	if err != nil {
		slog.Error("failed to list group members", "error", err, "groupId", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list group members", requestID)
		return
	}

	items := make([]groupMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, toGroupMemberResponse(&members[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// AddMember handles POST /api/groups/{id}/members.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addGroupMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if req.UserID <= 0 {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.sharing.AddGroupUser(r.Context(), actor, id, req.UserID); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to add group member", "error", err, "groupId", id, "userId", req.UserID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add group member", requestID)
		return
	}

	response.Success(w, http.StatusCreated, map[string]any{"groupId": id, "userId": req.UserID}, requestID)
}

// RemoveMember handles DELETE /api/groups/{id}/members/{userId}.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}
	userID, ok := pathID(chi.URLParam(r, "userId"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "userId must be a positive integer", requestID)
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.sharing.RemoveGroupUser(r.Context(), actor, id, userID); err != nil {
		if writeDomainError(w, err, requestID) {
			return
		}
		slog.Error("failed to remove group member", "error", err, "groupId", id, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove group member", requestID)
		return
	}

	response.NoContent(w)
}
