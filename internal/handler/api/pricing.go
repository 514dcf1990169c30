// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// PricingSectionResponse represents a pricing section in API responses.
type PricingSectionResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Heading    string    `json:"heading,omitempty"`
	Subheading string    `json:"subheading,omitempty"`
	Theme      string    `json:"theme,omitempty"`
	IsActive   bool      `json:"is_active"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PricingSectionRequest is the body for creating or updating a section.
type PricingSectionRequest struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	Theme      string `json:"theme"`
	IsActive   *bool  `json:"is_active"`
	Position   *int64 `json:"position"`
}

// SectionPlanRequest is the body for assigning a plan to a section.
type SectionPlanRequest struct {
	PlanID   int64  `json:"plan_id"`
	Position *int64 `json:"position"`
}

// ListPricingSections handles GET /api/admin/pricing-sections.
func (h *Handler) ListPricingSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListPricingSections(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list pricing sections")
		return
	}
	responses := make([]PricingSectionResponse, 0, len(sections))
	for _, s := range sections {
		responses = append(responses, pricingSectionResponse(s))
	}
	WriteSuccess(w, responses, nil)
}

// GetPricingSection handles GET /api/admin/pricing-sections/{id}.
func (h *Handler) GetPricingSection(w http.ResponseWriter, r *http.Request) {
	section, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, pricingSectionResponse(section), nil)
}

// CreatePricingSection handles POST /api/admin/pricing-sections.
func (h *Handler) CreatePricingSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PricingSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

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
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PricingSectionSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreatePricingSectionParams{
		Name:       req.Name,
		Slug:       req.Slug,
		Heading:    req.Heading,
		Subheading: req.Subheading,
		Theme:      req.Theme,
		IsActive:   true,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	section, err := h.queries.CreatePricingSection(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create pricing section")
		return
	}
	WriteCreated(w, pricingSectionResponse(section))
}

// UpdatePricingSection handles PUT /api/admin/pricing-sections/{id}.
func (h *Handler) UpdatePricingSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}

	var req PricingSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdatePricingSectionParams{
		ID:         existing.ID,
		Name:       existing.Name,
		Slug:       existing.Slug,
		Heading:    existing.Heading,
		Subheading: existing.Subheading,
		Theme:      existing.Theme,
		IsActive:   existing.IsActive,
		Position:   existing.Position,
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
			return h.queries.PricingSectionSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.Heading != "" {
		params.Heading = req.Heading
	}
	if req.Subheading != "" {
		params.Subheading = req.Subheading
	}
	if req.Theme != "" {
		params.Theme = req.Theme
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	section, err := h.queries.UpdatePricingSection(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update pricing section")
		return
	}
	WriteSuccess(w, pricingSectionResponse(section), nil)
}

// DeletePricingSection handles DELETE /api/admin/pricing-sections/{id}.
// Plan assignments are removed with the section.
func (h *Handler) DeletePricingSection(w http.ResponseWriter, r *http.Request) {
	section, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeletePricingSection(r.Context(), section.ID); err != nil {
		WriteInternalError(w, "Failed to delete pricing section")
		return
	}
	WriteSuccess(w, pricingSectionResponse(section), nil)
}

// ListSectionPlans handles GET /api/admin/pricing-sections/{id}/plans.
// Plans come back in their display order within the section.
func (h *Handler) ListSectionPlans(w http.ResponseWriter, r *http.Request) {
	section, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}
	plans, err := h.queries.ListSectionPlans(r.Context(), section.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list section plans")
		return
	}
	responses := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		responses = append(responses, planResponse(p))
	}
	WriteSuccess(w, responses, nil)
}

// AssignSectionPlan handles PUT /api/admin/pricing-sections/{id}/plans.
// Assigning an already-assigned plan updates its position.
func (h *Handler) AssignSectionPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	section, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}

	var req SectionPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlanID <= 0 {
		WriteValidationError(w, map[string]string{"plan_id": "plan_id is required"})
		return
	}

	if _, err := h.queries.GetPlanByID(ctx, req.PlanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteValidationError(w, map[string]string{"plan_id": "Plan does not exist"})
		} else {
			WriteInternalError(w, "Failed to verify plan")
		}
		return
	}

	params := store.AssignSectionPlanParams{
		SectionID: section.ID,
		PlanID:    req.PlanID,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	if err := h.queries.AssignSectionPlan(ctx, params); err != nil {
		WriteInternalError(w, "Failed to assign plan")
		return
	}
	WriteNoContent(w)
}

// UnassignSectionPlan handles DELETE /api/admin/pricing-sections/{id}/plans/{planID}.
func (h *Handler) UnassignSectionPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	section, ok := h.requirePricingSection(w, r)
	if !ok {
		return
	}

	planID, err := parseIDParam(r, "planID")
	if err != nil {
		WriteBadRequest(w, "Invalid plan ID", nil)
		return
	}

	err = h.queries.UnassignSectionPlan(ctx, store.UnassignSectionPlanParams{
		SectionID: section.ID,
		PlanID:    planID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to unassign plan")
		return
	}
	WriteNoContent(w)
}

func (h *Handler) requirePricingSection(w http.ResponseWriter, r *http.Request) (store.PricingSection, bool) {
	return requireEntityByID(w, r, "pricing section", func(id int64) (store.PricingSection, error) {
		return h.queries.GetPricingSectionByID(r.Context(), id)
	})
}

func pricingSectionResponse(s store.PricingSection) PricingSectionResponse {
	return PricingSectionResponse{
		ID:         s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		Heading:    s.Heading,
		Subheading: s.Subheading,
		Theme:      s.Theme,
		IsActive:   s.IsActive,
		Position:   s.Position,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
