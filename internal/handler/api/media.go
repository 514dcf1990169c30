// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/service"
	"github.com/pressroom/panel/internal/store"
)

// MediaResponse represents a media asset in API responses.
type MediaResponse struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Width        *int64    `json:"width,omitempty"`
	Height       *int64    `json:"height,omitempty"`
	AltText      string    `json:"alt_text,omitempty"`
	Tag          string    `json:"tag,omitempty"`
	PublicURL    string    `json:"public_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateMediaRequest is the body for updating media metadata.
type UpdateMediaRequest struct {
	AltText *string `json:"alt_text"`
	Tag     *string `json:"tag"`
}

// ListMedia handles GET /api/admin/media with optional ?tag= filter.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tag := r.URL.Query().Get("tag")
	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 100)
	offset := (page - 1) * perPage

	media, err := h.queries.ListMedia(ctx, store.ListMediaParams{
		Tag:    tag,
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list media")
		return
	}
	total, err := h.queries.CountMedia(ctx, tag)
	if err != nil {
		WriteInternalError(w, "Failed to count media")
		return
	}

	responses := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		responses = append(responses, h.mediaResponse(m))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetMedia handles GET /api/admin/media/{id}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	medium, ok := h.requireMedium(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, h.mediaResponse(medium), nil)
}

// UploadMedia handles POST /api/admin/media as multipart form data with
// a "file" part and optional "tag" and "alt_text" values.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	medium, err := h.media.Upload(ctx, file, header, r.FormValue("tag"), nil)
	if err != nil {
		WriteValidationError(w, map[string]string{"file": err.Error()})
		return
	}

	if alt := r.FormValue("alt_text"); alt != "" {
		medium, err = h.queries.UpdateMedium(ctx, store.UpdateMediumParams{
			ID:      medium.ID,
			AltText: alt,
			Tag:     medium.Tag,
		})
		if err != nil {
			WriteInternalError(w, "Failed to store media metadata")
			return
		}
	}

	WriteCreated(w, h.mediaResponse(medium))
}

// UpdateMedia handles PUT /api/admin/media/{id}. Only metadata may
// change; files are immutable once stored.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireMedium(w, r)
	if !ok {
		return
	}

	var req UpdateMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateMediumParams{
		ID:      existing.ID,
		AltText: existing.AltText,
		Tag:     existing.Tag,
	}
	if req.AltText != nil {
		params.AltText = *req.AltText
	}
	if req.Tag != nil {
		params.Tag = *req.Tag
	}

	medium, err := h.queries.UpdateMedium(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update media")
		return
	}
	WriteSuccess(w, h.mediaResponse(medium), nil)
}

// DeleteMedia handles DELETE /api/admin/media/{id}. Files referenced by
// page sections cannot be removed.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	medium, ok := h.requireMedium(w, r)
	if !ok {
		return
	}

	if err := h.media.Delete(r.Context(), medium.ID); err != nil {
		if errors.Is(err, service.ErrMediaInUse) {
			WriteConflict(w, "Media file is referenced by page sections")
			return
		}
		WriteInternalError(w, "Failed to delete media")
		return
	}
	WriteSuccess(w, h.mediaResponse(medium), nil)
}

func (h *Handler) requireMedium(w http.ResponseWriter, r *http.Request) (store.Medium, bool) {
	return requireEntityByID(w, r, "media", func(id int64) (store.Medium, error) {
		return h.queries.GetMediumByID(r.Context(), id)
	})
}

func (h *Handler) mediaResponse(m store.Medium) MediaResponse {
	resp := MediaResponse{
		ID:           m.ID,
		UUID:         m.Uuid,
		Filename:     m.Filename,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		AltText:      m.AltText,
		Tag:          m.Tag,
		PublicURL:    h.media.URL(m, ""),
		ThumbnailURL: h.media.ThumbnailURL(m),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Width.Valid {
		resp.Width = &m.Width.Int64
	}
	if m.Height.Valid {
		resp.Height = &m.Height.Int64
	}
	return resp
}
