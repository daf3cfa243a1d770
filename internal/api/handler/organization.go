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
	"github.com/tmshq/tms/internal/org"
)

type organizationRequest struct {
	Name      string  `json:"name"`
	OrgNumber *string `json:"orgNumber"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

type organizationResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	OrgNumber *string `json:"orgNumber"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	CreatedAt string  `json:"createdAt"`
}

func toOrganizationResponse(o *org.Organization) organizationResponse {
	return organizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		OrgNumber: o.OrgNumber,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		City:      o.City,
		Country:   o.Country,
		CreatedAt: o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// OrganizationHandler handles organization CRUD endpoints.
type OrganizationHandler struct {
	repo org.Repository
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(repo org.Repository) *OrganizationHandler {
	return &OrganizationHandler{repo: repo}
}

// Create handles POST /api/organizations.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateOrganizationRequest(validation.CreateOrganizationRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	o := &org.Organization{
		Name:      req.Name,
		OrgNumber: req.OrgNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	}
	if err := h.repo.Create(r.Context(), o); err != nil {
		if errors.Is(err, org.ErrDuplicateOrgName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "Organization already exists", requestID)
			return
		}
		slog.Error("failed to create organization", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create organization", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toOrganizationResponse(o), requestID)
}

// List handles GET /api/organizations.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	orgs, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list organizations", requestID)
		return
	}

	items := make([]organizationResponse, 0, len(orgs))
	for i := range orgs {
		items = append(items, toOrganizationResponse(&orgs[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetByID handles GET /api/organizations/{id}.
func (h *OrganizationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	o, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, org.ErrOrgNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		slog.Error("failed to get organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get organization", requestID)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(o), requestID)
}

// Update handles PUT /api/organizations/{id}.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Name      *string `json:"name"`
		OrgNumber *string `json:"orgNumber"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		Country   *string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	o, err := h.repo.Update(r.Context(), id, org.UpdateFields{
		Name:      req.Name,
		OrgNumber: req.OrgNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		if errors.Is(err, org.ErrOrgNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		if errors.Is(err, org.ErrDuplicateOrgName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "Organization name conflict", requestID)
			return
		}
		slog.Error("failed to update organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update organization", requestID)
		return
	}

	response.Success(w, http.StatusOK, toOrganizationResponse(o), requestID)
}

// Delete handles DELETE /api/organizations/{id}. Users, projects and groups
// in the organization are removed by cascade.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, org.ErrOrgNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Organization not found", requestID)
			return
		}
		slog.Error("failed to delete organization", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete organization", requestID)
		return
	}

	response.NoContent(w)
}
