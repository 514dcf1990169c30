// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

func createForm(t *testing.T, a *testAPI) store.ContactForm {
	t.Helper()
	form, err := a.queries.CreateContactForm(context.Background(), store.CreateContactFormParams{
		Name:           "Contact",
		Slug:           "contact",
		SubmitLabel:    "Send",
		SuccessMessage: "Thanks, we will be in touch.",
		IsActive:       true,
	})
	require.NoError(t, err)
	return form
}

func TestDeleteContactForm_WithSubmissions(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	form := createForm(t, a)
	sub, err := a.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		FormID:  form.ID,
		Payload: `{"message":"hello"}`,
		Ip:      "203.0.113.9",
	})
	require.NoError(t, err)

	rec := a.do(t, http.MethodDelete, "/api/admin/forms/"+itoa(form.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// the refused delete leaves the form intact
	_, err = a.queries.GetContactFormByID(ctx, form.ID)
	require.NoError(t, err)

	require.NoError(t, a.queries.DeleteContactSubmission(ctx, sub.ID))

	rec = a.do(t, http.MethodDelete, "/api/admin/forms/"+itoa(form.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted api.ContactFormResponse
	decodeData(t, rec, &deleted)
	require.Equal(t, form.ID, deleted.ID)

	_, err = a.queries.GetContactFormByID(ctx, form.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateContactFormField_Validation(t *testing.T) {
	a := newTestAPI(t)
	form := createForm(t, a)
	path := "/api/admin/forms/" + itoa(form.ID) + "/fields"

	tests := []struct {
		name  string
		req   api.ContactFormFieldRequest
		field string
	}{
		{"bad machine name", api.ContactFormFieldRequest{Label: "Name", Name: "Full Name", Type: model.FieldTypeText}, "name"},
		{"unknown type", api.ContactFormFieldRequest{Label: "Name", Name: "full_name", Type: "richtext"}, "type"},
		{"select without options", api.ContactFormFieldRequest{Label: "Topic", Name: "topic", Type: model.FieldTypeSelect}, "options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, path, tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, decodeErrorDetails(t, rec), tt.field)
		})
	}

	rec := a.do(t, http.MethodPost, path, api.ContactFormFieldRequest{
		Label:   "Topic",
		Name:    "topic",
		Type:    model.FieldTypeSelect,
		Options: []string{"sales", "support"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var field api.ContactFormFieldResponse
	decodeData(t, rec, &field)
	require.Equal(t, []string{"sales", "support"}, field.Options)
}

func TestSubmitContactForm(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	form := createForm(t, a)
	mustField := func(p store.CreateContactFormFieldParams) {
		p.FormID = form.ID
		_, err := a.queries.CreateContactFormField(ctx, p)
		require.NoError(t, err)
	}
	mustField(store.CreateContactFormFieldParams{
		Label: "Email", Name: "email", Type: model.FieldTypeEmail, IsRequired: true, Position: 0,
	})
	mustField(store.CreateContactFormFieldParams{
		Label: "Topic", Name: "topic", Type: model.FieldTypeSelect, Position: 1,
		Options: sql.NullString{String: `["sales","support"]`, Valid: true},
	})
	mustField(store.CreateContactFormFieldParams{
		Label: "Terms", Name: "terms", Type: model.FieldTypeCheckbox, IsRequired: true, Position: 2,
	})

	path := "/api/public/forms/contact/submissions"

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing email", map[string]any{"terms": true}, "email"},
		{"invalid email", map[string]any{"email": "nope", "terms": true}, "email"},
		{"unchecked required checkbox", map[string]any{"email": "a@b.example", "terms": false}, "terms"},
		{"unlisted option", map[string]any{"email": "a@b.example", "terms": true, "topic": "billing"}, "topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, path, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, decodeErrorDetails(t, rec), tt.field)
		})
	}

	rec := a.do(t, http.MethodPost, path, map[string]any{
		"email":   "a@b.example",
		"topic":   "support",
		"terms":   true,
		"unknown": "dropped",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var ack map[string]any
	decodeData(t, rec, &ack)
	require.Equal(t, form.SuccessMessage, ack["message"])

	subs, err := a.queries.ListContactSubmissions(ctx, store.ListContactSubmissionsParams{
		FormID: form.ID, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.JSONEq(t, `{"email":"a@b.example","topic":"support","terms":true}`, subs[0].Payload)

	// inactive forms do not accept submissions
	_, err = a.queries.UpdateContactForm(ctx, store.UpdateContactFormParams{
		ID: form.ID, Name: form.Name, Slug: form.Slug,
		SubmitLabel: form.SubmitLabel, SuccessMessage: form.SuccessMessage,
		NotifyEmail: form.NotifyEmail, IsActive: false,
	})
	require.NoError(t, err)

	rec = a.do(t, http.MethodPost, path, map[string]any{"email": "a@b.example", "terms": true})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
