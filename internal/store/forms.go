// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactFormColumns = "id, name, slug, submit_label, success_message, notify_email, is_active, created_at, updated_at"

func scanContactForm(row interface{ Scan(...any) error }) (ContactForm, error) {
	var f ContactForm
	err := row.Scan(&f.ID, &f.Name, &f.Slug, &f.SubmitLabel, &f.SuccessMessage,
		&f.NotifyEmail, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// CreateContactFormParams holds parameters for CreateContactForm.
type CreateContactFormParams struct {
	Name           string
	Slug           string
	SubmitLabel    string
	SuccessMessage string
	NotifyEmail    sql.NullString
	IsActive       bool
}

// CreateContactForm inserts a contact form and returns it.
func (q *Queries) CreateContactForm(ctx context.Context, arg CreateContactFormParams) (ContactForm, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO contact_forms (name, slug, submit_label, success_message, notify_email, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+contactFormColumns,
		arg.Name, arg.Slug, arg.SubmitLabel, arg.SuccessMessage, arg.NotifyEmail, arg.IsActive, now, now)
	return scanContactForm(row)
}

// GetContactFormByID fetches a contact form by id.
func (q *Queries) GetContactFormByID(ctx context.Context, id int64) (ContactForm, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contactFormColumns+` FROM contact_forms WHERE id = ?`, id)
	return scanContactForm(row)
}

// GetContactFormBySlug fetches a contact form by slug.
func (q *Queries) GetContactFormBySlug(ctx context.Context, slug string) (ContactForm, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contactFormColumns+` FROM contact_forms WHERE slug = ?`, slug)
	return scanContactForm(row)
}

// ListContactForms returns all contact forms ordered by name.
func (q *Queries) ListContactForms(ctx context.Context) ([]ContactForm, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contactFormColumns+` FROM contact_forms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []ContactForm
	for rows.Next() {
		f, err := scanContactForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// ContactFormSlugExists returns the number of forms with the given slug.
func (q *Queries) ContactFormSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_forms WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdateContactFormParams holds parameters for UpdateContactForm.
type UpdateContactFormParams struct {
	ID             int64
	Name           string
	Slug           string
	SubmitLabel    string
	SuccessMessage string
	NotifyEmail    sql.NullString
	IsActive       bool
}

// UpdateContactForm updates a contact form and returns the updated row.
func (q *Queries) UpdateContactForm(ctx context.Context, arg UpdateContactFormParams) (ContactForm, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE contact_forms
		 SET name = ?, slug = ?, submit_label = ?, success_message = ?, notify_email = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+contactFormColumns,
		arg.Name, arg.Slug, arg.SubmitLabel, arg.SuccessMessage,
		arg.NotifyEmail, arg.IsActive, time.Now().UTC(), arg.ID)
	return scanContactForm(row)
}

// DeleteContactForm deletes a contact form. Fields cascade; submissions
// must be checked by the caller first.
func (q *Queries) DeleteContactForm(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contact_forms WHERE id = ?`, id)
	return err
}

// CountSubmissionsByForm returns the number of submissions a form has
// received. Used to refuse deleting a form with submissions.
func (q *Queries) CountSubmissionsByForm(ctx context.Context, formID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_submissions WHERE form_id = ?`, formID).Scan(&count)
	return count, err
}

const contactFieldColumns = "id, form_id, label, name, type, options, is_required, position, created_at, updated_at"

func scanContactFormField(row interface{ Scan(...any) error }) (ContactFormField, error) {
	var f ContactFormField
	err := row.Scan(&f.ID, &f.FormID, &f.Label, &f.Name, &f.Type, &f.Options,
		&f.IsRequired, &f.Position, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// CreateContactFormFieldParams holds parameters for CreateContactFormField.
type CreateContactFormFieldParams struct {
	FormID     int64
	Label      string
	Name       string
	Type       string
	Options    sql.NullString
	IsRequired bool
	Position   int64
}

// CreateContactFormField inserts a form field and returns it.
func (q *Queries) CreateContactFormField(ctx context.Context, arg CreateContactFormFieldParams) (ContactFormField, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO contact_form_fields (form_id, label, name, type, options, is_required, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+contactFieldColumns,
		arg.FormID, arg.Label, arg.Name, arg.Type, arg.Options, arg.IsRequired, arg.Position, now, now)
	return scanContactFormField(row)
}

// GetContactFormFieldByID fetches a form field by id.
func (q *Queries) GetContactFormFieldByID(ctx context.Context, id int64) (ContactFormField, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+contactFieldColumns+` FROM contact_form_fields WHERE id = ?`, id)
	return scanContactFormField(row)
}

// ListContactFormFields returns all fields of a form ordered by position.
func (q *Queries) ListContactFormFields(ctx context.Context, formID int64) ([]ContactFormField, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contactFieldColumns+` FROM contact_form_fields WHERE form_id = ? ORDER BY position, id`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []ContactFormField
	for rows.Next() {
		f, err := scanContactFormField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// UpdateContactFormFieldParams holds parameters for UpdateContactFormField.
type UpdateContactFormFieldParams struct {
	ID         int64
	Label      string
	Name       string
	Type       string
	Options    sql.NullString
	IsRequired bool
	Position   int64
}

// UpdateContactFormField updates a form field and returns the updated row.
func (q *Queries) UpdateContactFormField(ctx context.Context, arg UpdateContactFormFieldParams) (ContactFormField, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE contact_form_fields
		 SET label = ?, name = ?, type = ?, options = ?, is_required = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+contactFieldColumns,
		arg.Label, arg.Name, arg.Type, arg.Options, arg.IsRequired,
		arg.Position, time.Now().UTC(), arg.ID)
	return scanContactFormField(row)
}

// DeleteContactFormField deletes a form field.
func (q *Queries) DeleteContactFormField(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contact_form_fields WHERE id = ?`, id)
	return err
}

const contactSubmissionColumns = "id, form_id, payload, ip, created_at"

func scanContactSubmission(row interface{ Scan(...any) error }) (ContactSubmission, error) {
	var s ContactSubmission
	err := row.Scan(&s.ID, &s.FormID, &s.Payload, &s.Ip, &s.CreatedAt)
	return s, err
}

// CreateContactSubmissionParams holds parameters for CreateContactSubmission.
type CreateContactSubmissionParams struct {
	FormID  int64
	Payload string
	Ip      string
}

// CreateContactSubmission inserts a submission and returns it.
func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO contact_submissions (form_id, payload, ip, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+contactSubmissionColumns,
		arg.FormID, arg.Payload, arg.Ip, time.Now().UTC())
	return scanContactSubmission(row)
}

// GetContactSubmissionByID fetches a submission by id.
func (q *Queries) GetContactSubmissionByID(ctx context.Context, id int64) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+contactSubmissionColumns+` FROM contact_submissions WHERE id = ?`, id)
	return scanContactSubmission(row)
}

// ListContactSubmissionsParams holds parameters for ListContactSubmissions.
type ListContactSubmissionsParams struct {
	FormID int64
	Limit  int64
	Offset int64
}

// ListContactSubmissions returns submissions of a form, newest first.
func (q *Queries) ListContactSubmissions(ctx context.Context, arg ListContactSubmissionsParams) ([]ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contactSubmissionColumns+` FROM contact_submissions
		 WHERE form_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.FormID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []ContactSubmission
	for rows.Next() {
		s, err := scanContactSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// DeleteContactSubmission deletes a submission.
func (q *Queries) DeleteContactSubmission(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id)
	return err
}
