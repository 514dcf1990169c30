// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PageSectionResponse represents a content block of a page.
type PageSectionResponse struct {
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	HTML      string    `json:"html,omitempty"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageRequest is the body for creating or updating a page.
type PageRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Status          string     `json:"status"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
}

// PageSectionRequest is the body for creating or updating a section.
type PageSectionRequest struct {
	Kind     string `json:"kind"`
	Body     string `json:"body"`
	Position *int64 `json:"position"`
}

// ListPages handles GET /api/admin/pages with pagination.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 100)
	offset := (page - 1) * perPage

	pages, err := h.queries.ListPages(ctx, store.ListPagesParams{
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list pages")
		return
	}
	total, err := h.queries.CountPages(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count pages")
		return
	}

	responses := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		responses = append(responses, pageResponse(p))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetPage handles GET /api/admin/pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, pageResponse(page), nil)
}

// CreatePage handles POST /api/admin/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status == "" {
		req.Status = model.PageStatusDraft
	}
	validationErrors := h.validatePage(&req)
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PageSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreatePageParams{
		Title:           req.Title,
		Slug:            req.Slug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Status:          req.Status,
		ScheduledAt:     util.NullTimeFromPtr(req.ScheduledAt),
	}
	if req.Status == model.PageStatusPublished {
		params.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	page, err := h.queries.CreatePage(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create page")
		return
	}
	WriteCreated(w, pageResponse(page))
}

// UpdatePage handles PUT /api/admin/pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	var req PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdatePageParams{
		ID:              existing.ID,
		Title:           existing.Title,
		Slug:            existing.Slug,
		MetaTitle:       existing.MetaTitle,
		MetaDescription: existing.MetaDescription,
		Status:          existing.Status,
		PublishedAt:     existing.PublishedAt,
		ScheduledAt:     existing.ScheduledAt,
	}
	if req.Title != "" {
		params.Title = req.Title
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Invalid slug"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.PageSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.MetaTitle != "" {
		params.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != "" {
		params.MetaDescription = req.MetaDescription
	}
	if req.Status != "" && req.Status != existing.Status {
		if !model.IsValidPageStatus(req.Status) {
			WriteValidationError(w, map[string]string{"status": "Unknown status"})
			return
		}
		params.Status = req.Status
		switch req.Status {
		case model.PageStatusPublished:
			params.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
			params.ScheduledAt = sql.NullTime{}
		case model.PageStatusScheduled:
			if req.ScheduledAt == nil {
				WriteValidationError(w, map[string]string{"scheduled_at": "scheduled_at is required for scheduled pages"})
				return
			}
		case model.PageStatusDraft:
			params.ScheduledAt = sql.NullTime{}
		}
	}
	if req.ScheduledAt != nil {
		params.ScheduledAt = util.NullTimeFromPtr(req.ScheduledAt)
	}

	page, err := h.queries.UpdatePage(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update page")
		return
	}

	// Menu items may derive their URLs from this page's slug.
	if page.Slug != existing.Slug {
		h.menus.InvalidateAll(ctx)
	}
	WriteSuccess(w, pageResponse(page), nil)
}

// DeletePage handles DELETE /api/admin/pages/{id}. Sections cascade and
// menu items linked to the page keep their label with a cleared link.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeletePage(ctx, page.ID); err != nil {
		WriteInternalError(w, "Failed to delete page")
		return
	}
	h.menus.InvalidateAll(ctx)
	WriteSuccess(w, pageResponse(page), nil)
}

// ListPageSections handles GET /api/admin/pages/{id}/sections. Each
// section carries its rendered HTML.
func (h *Handler) ListPageSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	sections, err := h.queries.ListPageSections(ctx, page.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list page sections")
		return
	}

	responses := make([]PageSectionResponse, 0, len(sections))
	for _, sec := range sections {
		resp := pageSectionResponse(sec)
		if html, err := h.render.RenderSection(ctx, sec); err == nil {
			resp.HTML = html
		}
		responses = append(responses, resp)
	}
	WriteSuccess(w, responses, nil)
}

// CreatePageSection handles POST /api/admin/pages/{id}/sections.
func (h *Handler) CreatePageSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	var req PageSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := make(map[string]string)
	if !model.IsValidSectionKind(req.Kind) {
		validationErrors["kind"] = "Kind must be markdown, html or snippet"
	}
	if req.Body == "" {
		validationErrors["body"] = "Body is required"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	params := store.CreatePageSectionParams{
		PageID: page.ID,
		Kind:   req.Kind,
		Body:   req.Body,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if html, err := h.render.RenderSection(ctx, store.PageSection{Kind: req.Kind, Body: req.Body}); err == nil {
		params.HtmlCache = html
	}

	section, err := h.queries.CreatePageSection(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create page section")
		return
	}
	WriteCreated(w, pageSectionResponse(section))
}

// UpdatePageSection handles PUT /api/admin/pages/{id}/sections/{sectionID}.
func (h *Handler) UpdatePageSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, section, ok := h.requirePageSection(w, r)
	if !ok {
		return
	}

	var req PageSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdatePageSectionParams{
		ID:       section.ID,
		Kind:     section.Kind,
		Body:     section.Body,
		Position: section.Position,
	}
	if req.Kind != "" {
		if !model.IsValidSectionKind(req.Kind) {
			WriteValidationError(w, map[string]string{"kind": "Kind must be markdown, html or snippet"})
			return
		}
		params.Kind = req.Kind
	}
	if req.Body != "" {
		params.Body = req.Body
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if html, err := h.render.RenderSection(ctx, store.PageSection{Kind: params.Kind, Body: params.Body}); err == nil {
		params.HtmlCache = html
	}

	updated, err := h.queries.UpdatePageSection(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update page section")
		return
	}
	WriteSuccess(w, pageSectionResponse(updated), nil)
}

// DeletePageSection handles DELETE /api/admin/pages/{id}/sections/{sectionID}.
func (h *Handler) DeletePageSection(w http.ResponseWriter, r *http.Request) {
	_, section, ok := h.requirePageSection(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeletePageSection(r.Context(), section.ID); err != nil {
		WriteInternalError(w, "Failed to delete page section")
		return
	}
	WriteSuccess(w, pageSectionResponse(section), nil)
}

func (h *Handler) validatePage(req *PageRequest) map[string]string {
	validationErrors := make(map[string]string)
	if req.Title == "" {
		validationErrors["title"] = "Title is required"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		validationErrors["slug"] = "Invalid slug"
	}
	if !model.IsValidPageStatus(req.Status) {
		validationErrors["status"] = "Unknown status"
	}
	if req.Status == model.PageStatusScheduled && req.ScheduledAt == nil {
		validationErrors["scheduled_at"] = "scheduled_at is required for scheduled pages"
	}
	return validationErrors
}

func (h *Handler) requirePage(w http.ResponseWriter, r *http.Request) (store.Page, bool) {
	return requireEntityByID(w, r, "page", func(id int64) (store.Page, error) {
		return h.queries.GetPageByID(r.Context(), id)
	})
}

func (h *Handler) requirePageSection(w http.ResponseWriter, r *http.Request) (store.Page, store.PageSection, bool) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return store.Page{}, store.PageSection{}, false
	}

	sectionID, err := parseIDParam(r, "sectionID")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return store.Page{}, store.PageSection{}, false
	}

	section, err := h.queries.GetPageSectionByID(r.Context(), sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page section not found")
		} else {
			WriteInternalError(w, "Failed to retrieve page section")
		}
		return store.Page{}, store.PageSection{}, false
	}
	if section.PageID != page.ID {
		WriteNotFound(w, "Page section not found")
		return store.Page{}, store.PageSection{}, false
	}
	return page, section, true
}

func pageResponse(p store.Page) PageResponse {
	return PageResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Status:          p.Status,
		PublishedAt:     util.PtrFromNullTime(p.PublishedAt),
		ScheduledAt:     util.PtrFromNullTime(p.ScheduledAt),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func pageSectionResponse(s store.PageSection) PageSectionResponse {
	return PageSectionResponse{
		ID:        s.ID,
		PageID:    s.PageID,
		Kind:      s.Kind,
		Body:      s.Body,
		HTML:      s.HtmlCache,
		Position:  s.Position,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
