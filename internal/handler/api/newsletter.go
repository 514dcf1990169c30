// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// SubscriberResponse represents a newsletter subscriber in API responses.
// The confirmation token is never exposed.
type SubscriberResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdateSubscriberRequest is the body for changing a subscriber status.
type UpdateSubscriberRequest struct {
	Status string `json:"status"`
}

// ListSubscribers handles GET /api/admin/subscribers with optional
// ?status= filter.
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidSubscriberStatus(status) {
		WriteBadRequest(w, "Invalid status filter", nil)
		return
	}
	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 100)
	offset := (page - 1) * perPage

	subs, err := h.queries.ListSubscribers(ctx, store.ListSubscribersParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list subscribers")
		return
	}
	total, err := h.queries.CountSubscribers(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to count subscribers")
		return
	}

	responses := make([]SubscriberResponse, 0, len(subs))
	for _, s := range subs {
		responses = append(responses, subscriberResponse(s))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// GetSubscriber handles GET /api/admin/subscribers/{id}.
func (h *Handler) GetSubscriber(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.requireSubscriber(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, subscriberResponse(sub), nil)
}

// UpdateSubscriber handles PUT /api/admin/subscribers/{id}. Only the
// status may change; addresses are written by the public subscribe flow.
func (h *Handler) UpdateSubscriber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireSubscriber(w, r)
	if !ok {
		return
	}

	var req UpdateSubscriberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !model.IsValidSubscriberStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Status must be pending, confirmed, or unsubscribed"})
		return
	}

	sub, err := h.queries.UpdateSubscriberStatus(ctx, store.UpdateSubscriberStatusParams{
		ID:     existing.ID,
		Status: req.Status,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update subscriber")
		return
	}
	WriteSuccess(w, subscriberResponse(sub), nil)
}

// DeleteSubscriber handles DELETE /api/admin/subscribers/{id}.
func (h *Handler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.requireSubscriber(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteSubscriber(r.Context(), sub.ID); err != nil {
		WriteInternalError(w, "Failed to delete subscriber")
		return
	}
	WriteSuccess(w, subscriberResponse(sub), nil)
}

func (h *Handler) requireSubscriber(w http.ResponseWriter, r *http.Request) (store.NewsletterSubscriber, bool) {
	return requireEntityByID(w, r, "subscriber", func(id int64) (store.NewsletterSubscriber, error) {
		return h.queries.GetSubscriberByID(r.Context(), id)
	})
}

func subscriberResponse(s store.NewsletterSubscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:          s.ID,
		Email:       s.Email,
		Status:      s.Status,
		ConfirmedAt: util.PtrFromNullTime(s.ConfirmedAt),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
