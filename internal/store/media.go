// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const mediaColumns = "id, uuid, filename, stored_name, mime_type, size_bytes, width, height, alt_text, tag, uploaded_by, created_at, updated_at"

func scanMedium(row interface{ Scan(...any) error }) (Medium, error) {
	var m Medium
	err := row.Scan(&m.ID, &m.Uuid, &m.Filename, &m.StoredName, &m.MimeType,
		&m.SizeBytes, &m.Width, &m.Height, &m.AltText, &m.Tag, &m.UploadedBy,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMediumParams holds parameters for CreateMedium.
type CreateMediumParams struct {
	Uuid       string
	Filename   string
	StoredName string
	MimeType   string
	SizeBytes  int64
	Width      sql.NullInt64
	Height     sql.NullInt64
	AltText    string
	Tag        string
	UploadedBy sql.NullInt64
}

// CreateMedium inserts a media record and returns it.
func (q *Queries) CreateMedium(ctx context.Context, arg CreateMediumParams) (Medium, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO media (uuid, filename, stored_name, mime_type, size_bytes, width, height, alt_text, tag, uploaded_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+mediaColumns,
		arg.Uuid, arg.Filename, arg.StoredName, arg.MimeType, arg.SizeBytes,
		arg.Width, arg.Height, arg.AltText, arg.Tag, arg.UploadedBy, now, now)
	return scanMedium(row)
}

// GetMediumByID fetches a media record by id.
func (q *Queries) GetMediumByID(ctx context.Context, id int64) (Medium, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	return scanMedium(row)
}

// ListMediaParams holds parameters for ListMedia.
type ListMediaParams struct {
	Tag    string // empty matches all tags
	Limit  int64
	Offset int64
}

// ListMedia returns media records, newest first, optionally filtered by tag.
func (q *Queries) ListMedia(ctx context.Context, arg ListMediaParams) ([]Medium, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media
		 WHERE (? = '' OR tag = ?)
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Tag, arg.Tag, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []Medium
	for rows.Next() {
		m, err := scanMedium(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// CountMedia returns the number of media records, optionally by tag.
func (q *Queries) CountMedia(ctx context.Context, tag string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media WHERE (? = '' OR tag = ?)`, tag, tag).Scan(&count)
	return count, err
}

// UpdateMediumParams holds parameters for UpdateMedium. Only metadata
// is mutable; the stored file never changes.
type UpdateMediumParams struct {
	ID      int64
	AltText string
	Tag     string
}

// UpdateMedium updates media metadata and returns the updated row.
func (q *Queries) UpdateMedium(ctx context.Context, arg UpdateMediumParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE media SET alt_text = ?, tag = ?, updated_at = ? WHERE id = ?
		 RETURNING `+mediaColumns,
		arg.AltText, arg.Tag, time.Now().UTC(), arg.ID)
	return scanMedium(row)
}

// DeleteMedium deletes a media record.
func (q *Queries) DeleteMedium(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}
