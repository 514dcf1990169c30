// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// fieldNameRe constrains machine names of form fields.
var fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ContactFormResponse represents a contact form in API responses.
type ContactFormResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	SubmitLabel    string    `json:"submit_label,omitempty"`
	SuccessMessage string    `json:"success_message,omitempty"`
	NotifyEmail    *string   `json:"notify_email,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ContactFormFieldResponse represents one form field.
type ContactFormFieldResponse struct {
	ID         int64     `json:"id"`
	FormID     int64     `json:"form_id"`
	Label      string    `json:"label"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Options    []string  `json:"options,omitempty"`
	IsRequired bool      `json:"is_required"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContactSubmissionResponse represents one submission.
type ContactSubmissionResponse struct {
	ID        int64           `json:"id"`
	FormID    int64           `json:"form_id"`
	Payload   json.RawMessage `json:"payload"`
	IP        string          `json:"ip,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ContactFormRequest is the body for creating or updating a form.
type ContactFormRequest struct {
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	SubmitLabel    string  `json:"submit_label"`
	SuccessMessage string  `json:"success_message"`
	NotifyEmail    *string `json:"notify_email"`
	IsActive       *bool   `json:"is_active"`
}

// ContactFormFieldRequest is the body for creating or updating a field.
type ContactFormFieldRequest struct {
	Label      string   `json:"label"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Options    []string `json:"options"`
	IsRequired *bool    `json:"is_required"`
	Position   *int64   `json:"position"`
}

// ListContactForms handles GET /api/admin/forms.
func (h *Handler) ListContactForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.queries.ListContactForms(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list forms")
		return
	}
	responses := make([]ContactFormResponse, 0, len(forms))
	for _, f := range forms {
		responses = append(responses, contactFormResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// GetContactForm handles GET /api/admin/forms/{id}.
func (h *Handler) GetContactForm(w http.ResponseWriter, r *http.Request) {
	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, contactFormResponse(form), nil)
}

// CreateContactForm handles POST /api/admin/forms.
func (h *Handler) CreateContactForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ContactFormRequest
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
	if req.NotifyEmail != nil && !model.IsValidEmail(*req.NotifyEmail) {
		validationErrors["notify_email"] = "Invalid email address"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.ContactFormSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreateContactFormParams{
		Name:           req.Name,
		Slug:           req.Slug,
		SubmitLabel:    req.SubmitLabel,
		SuccessMessage: req.SuccessMessage,
		NotifyEmail:    util.NullStringFromPtr(req.NotifyEmail),
		IsActive:       true,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	form, err := h.queries.CreateContactForm(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create form")
		return
	}
	WriteCreated(w, contactFormResponse(form))
}

// UpdateContactForm handles PUT /api/admin/forms/{id}.
func (h *Handler) UpdateContactForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}

	var req ContactFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateContactFormParams{
		ID:             existing.ID,
		Name:           existing.Name,
		Slug:           existing.Slug,
		SubmitLabel:    existing.SubmitLabel,
		SuccessMessage: existing.SuccessMessage,
		NotifyEmail:    existing.NotifyEmail,
		IsActive:       existing.IsActive,
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
			return h.queries.ContactFormSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.SubmitLabel != "" {
		params.SubmitLabel = req.SubmitLabel
	}
	if req.SuccessMessage != "" {
		params.SuccessMessage = req.SuccessMessage
	}
	if req.NotifyEmail != nil {
		if !model.IsValidEmail(*req.NotifyEmail) {
			WriteValidationError(w, map[string]string{"notify_email": "Invalid email address"})
			return
		}
		params.NotifyEmail = util.NullStringFromValue(*req.NotifyEmail)
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	form, err := h.queries.UpdateContactForm(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update form")
		return
	}
	WriteSuccess(w, contactFormResponse(form), nil)
}

// DeleteContactForm handles DELETE /api/admin/forms/{id}. Forms keeping
// submissions cannot be removed; delete the submissions first.
func (h *Handler) DeleteContactForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}

	submissions, err := h.queries.CountSubmissionsByForm(ctx, form.ID)
	if err != nil {
		WriteInternalError(w, "Failed to check form submissions")
		return
	}
	if submissions > 0 {
		WriteConflict(w, "Form has submissions")
		return
	}

	if err := h.queries.DeleteContactForm(ctx, form.ID); err != nil {
		WriteInternalError(w, "Failed to delete form")
		return
	}
	WriteSuccess(w, contactFormResponse(form), nil)
}

// ListContactFormFields handles GET /api/admin/forms/{id}/fields.
func (h *Handler) ListContactFormFields(w http.ResponseWriter, r *http.Request) {
	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}
	fields, err := h.queries.ListContactFormFields(r.Context(), form.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list form fields")
		return
	}
	responses := make([]ContactFormFieldResponse, 0, len(fields))
	for _, f := range fields {
		responses = append(responses, contactFormFieldResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// CreateContactFormField handles POST /api/admin/forms/{id}/fields.
func (h *Handler) CreateContactFormField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}

	var req ContactFormFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := validateFormField(&req)
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	params := store.CreateContactFormFieldParams{
		FormID:  form.ID,
		Label:   req.Label,
		Name:    req.Name,
		Type:    req.Type,
		Options: optionsJSON(req.Options),
	}
	if req.IsRequired != nil {
		params.IsRequired = *req.IsRequired
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	field, err := h.queries.CreateContactFormField(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create form field")
		return
	}
	WriteCreated(w, contactFormFieldResponse(field))
}

// UpdateContactFormField handles PUT /api/admin/forms/{id}/fields/{fieldID}.
func (h *Handler) UpdateContactFormField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, field, ok := h.requireContactFormField(w, r)
	if !ok {
		return
	}

	var req ContactFormFieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateContactFormFieldParams{
		ID:         field.ID,
		Label:      field.Label,
		Name:       field.Name,
		Type:       field.Type,
		Options:    field.Options,
		IsRequired: field.IsRequired,
		Position:   field.Position,
	}
	if req.Label != "" {
		params.Label = req.Label
	}
	if req.Name != "" {
		if !fieldNameRe.MatchString(req.Name) {
			WriteValidationError(w, map[string]string{"name": "Name must be a lowercase identifier"})
			return
		}
		params.Name = req.Name
	}
	if req.Type != "" {
		if !model.IsValidFieldType(req.Type) {
			WriteValidationError(w, map[string]string{"type": "Unknown field type"})
			return
		}
		params.Type = req.Type
	}
	if req.Options != nil {
		params.Options = optionsJSON(req.Options)
	}
	if req.IsRequired != nil {
		params.IsRequired = *req.IsRequired
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	if params.Type == model.FieldTypeSelect && !params.Options.Valid {
		WriteValidationError(w, map[string]string{"options": "Select fields need options"})
		return
	}

	updated, err := h.queries.UpdateContactFormField(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update form field")
		return
	}
	WriteSuccess(w, contactFormFieldResponse(updated), nil)
}

// DeleteContactFormField handles DELETE /api/admin/forms/{id}/fields/{fieldID}.
func (h *Handler) DeleteContactFormField(w http.ResponseWriter, r *http.Request) {
	_, field, ok := h.requireContactFormField(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteContactFormField(r.Context(), field.ID); err != nil {
		WriteInternalError(w, "Failed to delete form field")
		return
	}
	WriteSuccess(w, contactFormFieldResponse(field), nil)
}

// ListContactSubmissions handles GET /api/admin/forms/{id}/submissions,
// newest first with pagination.
func (h *Handler) ListContactSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 100)
	offset := (page - 1) * perPage

	submissions, err := h.queries.ListContactSubmissions(ctx, store.ListContactSubmissionsParams{
		FormID: form.ID,
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list submissions")
		return
	}
	total, err := h.queries.CountSubmissionsByForm(ctx, form.ID)
	if err != nil {
		WriteInternalError(w, "Failed to count submissions")
		return
	}

	responses := make([]ContactSubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		responses = append(responses, contactSubmissionResponse(s))
	}
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages(total, perPage),
	})
}

// DeleteContactSubmission handles DELETE /api/admin/forms/{id}/submissions/{submissionID}.
func (h *Handler) DeleteContactSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, ok := h.requireContactForm(w, r)
	if !ok {
		return
	}

	submissionID, err := parseIDParam(r, "submissionID")
	if err != nil {
		WriteBadRequest(w, "Invalid submission ID", nil)
		return
	}

	submission, err := h.queries.GetContactSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Submission not found")
		} else {
			WriteInternalError(w, "Failed to retrieve submission")
		}
		return
	}
	if submission.FormID != form.ID {
		WriteNotFound(w, "Submission not found")
		return
	}

	if err := h.queries.DeleteContactSubmission(ctx, submissionID); err != nil {
		WriteInternalError(w, "Failed to delete submission")
		return
	}
	WriteSuccess(w, contactSubmissionResponse(submission), nil)
}

func validateFormField(req *ContactFormFieldRequest) map[string]string {
	validationErrors := make(map[string]string)
	if req.Label == "" {
		validationErrors["label"] = "Label is required"
	}
	if req.Name == "" || !fieldNameRe.MatchString(req.Name) {
		validationErrors["name"] = "Name must be a lowercase identifier"
	}
	if !model.IsValidFieldType(req.Type) {
		validationErrors["type"] = "Unknown field type"
	}
	if req.Type == model.FieldTypeSelect && len(req.Options) == 0 {
		validationErrors["options"] = "Select fields need options"
	}
	return validationErrors
}

func optionsJSON(options []string) sql.NullString {
	if len(options) == 0 {
		return sql.NullString{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}

func (h *Handler) requireContactForm(w http.ResponseWriter, r *http.Request) (store.ContactForm, bool) {
	return requireEntityByID(w, r, "form", func(id int64) (store.ContactForm, error) {
		return h.queries.GetContactFormByID(r.Context(), id)
	})
}

func (h *Handler) requireContactFormField(w http.ResponseWriter, r *http.Request) (store.ContactForm, store.ContactFormField, bool) {
	form, ok := h.requireContactForm(w, r)
	if !ok {
		return store.ContactForm{}, store.ContactFormField{}, false
	}

	fieldID, err := parseIDParam(r, "fieldID")
	if err != nil {
		WriteBadRequest(w, "Invalid field ID", nil)
		return store.ContactForm{}, store.ContactFormField{}, false
	}

	field, err := h.queries.GetContactFormFieldByID(r.Context(), fieldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Form field not found")
		} else {
			WriteInternalError(w, "Failed to retrieve form field")
		}
		return store.ContactForm{}, store.ContactFormField{}, false
	}
	if field.FormID != form.ID {
		WriteNotFound(w, "Form field not found")
		return store.ContactForm{}, store.ContactFormField{}, false
	}
	return form, field, true
}

func contactFormResponse(f store.ContactForm) ContactFormResponse {
	return ContactFormResponse{
		ID:             f.ID,
		Name:           f.Name,
		Slug:           f.Slug,
		SubmitLabel:    f.SubmitLabel,
		SuccessMessage: f.SuccessMessage,
		NotifyEmail:    util.PtrFromNullString(f.NotifyEmail),
		IsActive:       f.IsActive,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func contactFormFieldResponse(f store.ContactFormField) ContactFormFieldResponse {
	resp := ContactFormFieldResponse{
		ID:         f.ID,
		FormID:     f.FormID,
		Label:      f.Label,
		Name:       f.Name,
		Type:       f.Type,
		IsRequired: f.IsRequired,
		Position:   f.Position,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
	if f.Options.Valid {
		_ = json.Unmarshal([]byte(f.Options.String), &resp.Options)
	}
	return resp
}

func contactSubmissionResponse(s store.ContactSubmission) ContactSubmissionResponse {
	return ContactSubmissionResponse{
		ID:        s.ID,
		FormID:    s.FormID,
		Payload:   json.RawMessage(s.Payload),
		IP:        s.Ip,
		CreatedAt: s.CreatedAt,
	}
}
