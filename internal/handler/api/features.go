// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// BasicFeatureResponse represents an on/off feature in API responses.
type BasicFeatureResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BasicFeatureRequest is the body for creating or updating a feature.
type BasicFeatureRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Position    *int64 `json:"position"`
}

// ListBasicFeatures handles GET /api/admin/features.
func (h *Handler) ListBasicFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.queries.ListBasicFeatures(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list features")
		return
	}
	responses := make([]BasicFeatureResponse, 0, len(features))
	for _, f := range features {
		responses = append(responses, basicFeatureResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// GetBasicFeature handles GET /api/admin/features/{id}.
func (h *Handler) GetBasicFeature(w http.ResponseWriter, r *http.Request) {
	feature, ok := h.requireBasicFeature(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, basicFeatureResponse(feature), nil)
}

// CreateBasicFeature handles POST /api/admin/features.
func (h *Handler) CreateBasicFeature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BasicFeatureRequest
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
		return h.queries.BasicFeatureSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreateBasicFeatureParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	feature, err := h.queries.CreateBasicFeature(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create feature")
		return
	}
	WriteCreated(w, basicFeatureResponse(feature))
}

// UpdateBasicFeature handles PUT /api/admin/features/{id}.
func (h *Handler) UpdateBasicFeature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireBasicFeature(w, r)
	if !ok {
		return
	}

	var req BasicFeatureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateBasicFeatureParams{
		ID:          existing.ID,
		Name:        existing.Name,
		Slug:        existing.Slug,
		Description: existing.Description,
		Position:    existing.Position,
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
			return h.queries.BasicFeatureSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.Description != "" {
		params.Description = req.Description
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	feature, err := h.queries.UpdateBasicFeature(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update feature")
		return
	}
	WriteSuccess(w, basicFeatureResponse(feature), nil)
}

// DeleteBasicFeature handles DELETE /api/admin/features/{id}. Features
// still assigned to plans cannot be removed.
func (h *Handler) DeleteBasicFeature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	feature, ok := h.requireBasicFeature(w, r)
	if !ok {
		return
	}

	assignments, err := h.queries.CountPlanAssignmentsByFeature(ctx, feature.ID)
	if err != nil {
		WriteInternalError(w, "Failed to check feature usage")
		return
	}
	if assignments > 0 {
		WriteConflict(w, "Feature is assigned to plans")
		return
	}

	if err := h.queries.DeleteBasicFeature(ctx, feature.ID); err != nil {
		WriteInternalError(w, "Failed to delete feature")
		return
	}
	WriteSuccess(w, basicFeatureResponse(feature), nil)
}

func (h *Handler) requireBasicFeature(w http.ResponseWriter, r *http.Request) (store.BasicFeature, bool) {
	return requireEntityByID(w, r, "feature", func(id int64) (store.BasicFeature, error) {
		return h.queries.GetBasicFeatureByID(r.Context(), id)
	})
}

func basicFeatureResponse(f store.BasicFeature) BasicFeatureResponse {
	return BasicFeatureResponse{
		ID:          f.ID,
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		Position:    f.Position,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
