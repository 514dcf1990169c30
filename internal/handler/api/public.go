// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

// SubscribeRequest is the body for the public subscribe endpoint.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse acknowledges a subscription request. The token is
// only delivered out of band, never in the response.
type SubscribeResponse struct {
	Status string `json:"status"`
}

// PublicSubmissionRequest is the body for a public form submission. The
// payload is validated against the form's field definitions.
type PublicSubmissionRequest map[string]any

// Subscribe handles POST /api/public/subscribe. Subscribing an address
// that is already confirmed is a no-op.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = model.NormalizeEmail(req.Email)
	if !model.IsValidEmail(req.Email) {
		WriteValidationError(w, map[string]string{"email": "A valid email address is required"})
		return
	}

	token, err := confirmationToken()
	if err != nil {
		WriteInternalError(w, "Failed to generate token")
		return
	}

	sub, err := h.queries.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: req.Email,
		Token: token,
	})
	if err != nil {
		WriteInternalError(w, "Failed to subscribe")
		return
	}
	WriteSuccess(w, SubscribeResponse{Status: sub.Status}, nil)
}

// ConfirmSubscription handles GET /api/public/confirm?token=.
func (h *Handler) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		WriteBadRequest(w, "Token is required", nil)
		return
	}

	sub, err := h.queries.GetSubscriberByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Invalid or expired token")
			return
		}
		WriteInternalError(w, "Failed to confirm subscription")
		return
	}

	if sub.Status != model.SubscriberConfirmed {
		sub, err = h.queries.ConfirmSubscriber(ctx, sub.ID)
		if err != nil {
			WriteInternalError(w, "Failed to confirm subscription")
			return
		}
	}
	WriteSuccess(w, SubscribeResponse{Status: sub.Status}, nil)
}

// SubmitContactForm handles POST /api/public/forms/{slug}/submissions.
func (h *Handler) SubmitContactForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	form, err := h.queries.GetContactFormBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Form not found")
			return
		}
		WriteInternalError(w, "Failed to load form")
		return
	}
	if !form.IsActive {
		WriteNotFound(w, "Form not found")
		return
	}

	fields, err := h.queries.ListContactFormFields(ctx, form.ID)
	if err != nil {
		WriteInternalError(w, "Failed to load form fields")
		return
	}

	var req PublicSubmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payload, fieldErrs := validateSubmission(req, fields)
	if len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		WriteInternalError(w, "Failed to encode submission")
		return
	}
	submission, err := h.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		FormID:  form.ID,
		Payload: string(raw),
		Ip:      requestIP(r),
	})
	if err != nil {
		WriteInternalError(w, "Failed to store submission")
		return
	}

	WriteCreated(w, map[string]any{
		"id":      submission.ID,
		"message": form.SuccessMessage,
	})
}

// GetPublicMenu handles GET /api/public/menus/{slug}, serving the
// cached rendered tree of active items.
func (h *Handler) GetPublicMenu(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	views, err := h.menus.GetMenu(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Menu not found")
			return
		}
		WriteInternalError(w, "Failed to load menu")
		return
	}
	WriteSuccess(w, views, nil)
}

// validateSubmission checks a payload against the form's field
// definitions and returns the filtered values keyed by field name.
// Unknown keys are dropped.
func validateSubmission(req PublicSubmissionRequest, fields []store.ContactFormField) (map[string]any, map[string]string) {
	payload := make(map[string]any, len(fields))
	fieldErrs := make(map[string]string)

	for _, field := range fields {
		raw, present := req[field.Name]

		if field.Type == model.FieldTypeCheckbox {
			checked := false
			if present {
				b, ok := raw.(bool)
				if !ok {
					fieldErrs[field.Name] = "Must be a boolean"
					continue
				}
				checked = b
			}
			if field.IsRequired && !checked {
				fieldErrs[field.Name] = field.Label + " is required"
				continue
			}
			payload[field.Name] = checked
			continue
		}

		value := ""
		if present {
			s, ok := raw.(string)
			if !ok {
				fieldErrs[field.Name] = "Must be a string"
				continue
			}
			value = strings.TrimSpace(s)
		}
		if value == "" {
			if field.IsRequired {
				fieldErrs[field.Name] = field.Label + " is required"
			}
			continue
		}

		switch field.Type {
		case model.FieldTypeEmail:
			if !model.IsValidEmail(value) {
				fieldErrs[field.Name] = "Must be a valid email address"
				continue
			}
		case model.FieldTypeSelect:
			if !selectOptionAllowed(field.Options, value) {
				fieldErrs[field.Name] = "Not an allowed option"
				continue
			}
		}
		payload[field.Name] = value
	}
	return payload, fieldErrs
}

func selectOptionAllowed(options sql.NullString, value string) bool {
	if !options.Valid {
		return false
	}
	var opts []string
	if err := json.Unmarshal([]byte(options.String), &opts); err != nil {
		return false
	}
	for _, o := range opts {
		if o == value {
			return true
		}
	}
	return false
}

// confirmationToken returns a 64-hex-char random token.
func confirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// requestIP returns the remote address without the port. Behind the
// RealIP middleware RemoteAddr already holds the client address.
func requestIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
