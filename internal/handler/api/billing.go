// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// BillingCycleResponse represents a billing cycle in API responses.
type BillingCycleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Months    int64     `json:"months"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BillingCycleRequest is the body for creating or updating a cycle.
type BillingCycleRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Months   int64  `json:"months"`
	Position *int64 `json:"position"`
	IsActive *bool  `json:"is_active"`
}

// ListBillingCycles handles GET /api/admin/billing-cycles.
func (h *Handler) ListBillingCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.queries.ListBillingCycles(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list billing cycles")
		return
	}
	responses := make([]BillingCycleResponse, 0, len(cycles))
	for _, c := range cycles {
		responses = append(responses, billingCycleResponse(c))
	}
	WriteSuccess(w, responses, nil)
}

// GetBillingCycle handles GET /api/admin/billing-cycles/{id}.
func (h *Handler) GetBillingCycle(w http.ResponseWriter, r *http.Request) {
	cycle, ok := h.requireBillingCycle(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, billingCycleResponse(cycle), nil)
}

// CreateBillingCycle handles POST /api/admin/billing-cycles.
func (h *Handler) CreateBillingCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BillingCycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := validateBillingCycle(&req)
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.BillingCycleSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreateBillingCycleParams{
		Name:     req.Name,
		Slug:     req.Slug,
		Months:   req.Months,
		IsActive: true,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	cycle, err := h.queries.CreateBillingCycle(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create billing cycle")
		return
	}
	WriteCreated(w, billingCycleResponse(cycle))
}

// UpdateBillingCycle handles PUT /api/admin/billing-cycles/{id}.
func (h *Handler) UpdateBillingCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireBillingCycle(w, r)
	if !ok {
		return
	}

	var req BillingCycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateBillingCycleParams{
		ID:       existing.ID,
		Name:     existing.Name,
		Slug:     existing.Slug,
		Months:   existing.Months,
		Position: existing.Position,
		IsActive: existing.IsActive,
	}
	if req.Name != "" {
		params.Name = req.Name
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Invalid slug"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.BillingCycleSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.Months > 0 {
		params.Months = req.Months
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	cycle, err := h.queries.UpdateBillingCycle(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update billing cycle")
		return
	}
	WriteSuccess(w, billingCycleResponse(cycle), nil)
}

// DeleteBillingCycle handles DELETE /api/admin/billing-cycles/{id}.
// Cycles still referenced by plan prices cannot be removed.
func (h *Handler) DeleteBillingCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cycle, ok := h.requireBillingCycle(w, r)
	if !ok {
		return
	}

	prices, err := h.queries.CountPlanPricesByCycle(ctx, cycle.ID)
	if err != nil {
		WriteInternalError(w, "Failed to check billing cycle usage")
		return
	}
	if prices > 0 {
		WriteConflict(w, "Billing cycle is used by plan prices")
		return
	}

	if err := h.queries.DeleteBillingCycle(ctx, cycle.ID); err != nil {
		WriteInternalError(w, "Failed to delete billing cycle")
		return
	}
	WriteSuccess(w, billingCycleResponse(cycle), nil)
}

func validateBillingCycle(req *BillingCycleRequest) map[string]string {
	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(req.Slug) {
		validationErrors["slug"] = "Invalid slug"
	}
	if req.Months <= 0 {
		validationErrors["months"] = "Months must be a positive number"
	}
	return validationErrors
}

func (h *Handler) requireBillingCycle(w http.ResponseWriter, r *http.Request) (store.BillingCycle, bool) {
	return requireEntityByID(w, r, "billing cycle", func(id int64) (store.BillingCycle, error) {
		return h.queries.GetBillingCycleByID(r.Context(), id)
	})
}

func billingCycleResponse(c store.BillingCycle) BillingCycleResponse {
	return BillingCycleResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Months:    c.Months,
		Position:  c.Position,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
