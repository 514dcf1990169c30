// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// SnippetResponse represents a reusable HTML snippet in API responses.
type SnippetResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	HTML      string    `json:"html"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SnippetRequest is the body for creating or updating a snippet.
type SnippetRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	HTML     string `json:"html"`
	IsActive *bool  `json:"is_active"`
}

// ListSnippets handles GET /api/admin/snippets.
func (h *Handler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.queries.ListSnippets(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list snippets")
		return
	}
	responses := make([]SnippetResponse, 0, len(snippets))
	for _, s := range snippets {
		responses = append(responses, snippetResponse(s))
	}
	WriteSuccess(w, responses, nil)
}

// GetSnippet handles GET /api/admin/snippets/{id}.
func (h *Handler) GetSnippet(w http.ResponseWriter, r *http.Request) {
	snippet, ok := h.requireSnippet(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, snippetResponse(snippet), nil)
}

// CreateSnippet handles POST /api/admin/snippets.
func (h *Handler) CreateSnippet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SnippetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	slug, fieldErrs := h.validateSnippet(&req)
	if len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}
	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.SnippetSlugExists(ctx, slug)
	}) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	snippet, err := h.queries.CreateSnippet(ctx, store.CreateSnippetParams{
		Name:     req.Name,
		Slug:     slug,
		Html:     req.HTML,
		IsActive: isActive,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create snippet")
		return
	}
	WriteCreated(w, snippetResponse(snippet))
}

// UpdateSnippet handles PUT /api/admin/snippets/{id}.
func (h *Handler) UpdateSnippet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireSnippet(w, r)
	if !ok {
		return
	}

	var req SnippetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	slug, fieldErrs := h.validateSnippet(&req)
	if len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}
	if slug != existing.Slug {
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.SnippetSlugExists(ctx, slug)
		}) {
			return
		}
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	snippet, err := h.queries.UpdateSnippet(ctx, store.UpdateSnippetParams{
		ID:       existing.ID,
		Name:     req.Name,
		Slug:     slug,
		Html:     req.HTML,
		IsActive: isActive,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update snippet")
		return
	}
	WriteSuccess(w, snippetResponse(snippet), nil)
}

// DeleteSnippet handles DELETE /api/admin/snippets/{id}. A snippet that
// page sections still reference by slug cannot be removed.
func (h *Handler) DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snippet, ok := h.requireSnippet(w, r)
	if !ok {
		return
	}

	uses, err := h.queries.CountSnippetSectionUses(ctx, snippet.Slug)
	if err != nil {
		WriteInternalError(w, "Failed to check snippet usage")
		return
	}
	if uses > 0 {
		WriteConflict(w, "Snippet is used by page sections")
		return
	}

	if err := h.queries.DeleteSnippet(ctx, snippet.ID); err != nil {
		WriteInternalError(w, "Failed to delete snippet")
		return
	}
	WriteSuccess(w, snippetResponse(snippet), nil)
}

func (h *Handler) validateSnippet(req *SnippetRequest) (string, map[string]string) {
	fieldErrs := make(map[string]string)

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fieldErrs["name"] = "Name is required"
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(slug) {
		fieldErrs["slug"] = "Slug may only contain lowercase letters, digits, and hyphens"
	}
	if strings.TrimSpace(req.HTML) == "" {
		fieldErrs["html"] = "HTML content is required"
	}
	return slug, fieldErrs
}

func (h *Handler) requireSnippet(w http.ResponseWriter, r *http.Request) (store.Snippet, bool) {
	return requireEntityByID(w, r, "snippet", func(id int64) (store.Snippet, error) {
		return h.queries.GetSnippetByID(r.Context(), id)
	})
}

func snippetResponse(s store.Snippet) SnippetResponse {
	return SnippetResponse{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		HTML:      s.Html,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
