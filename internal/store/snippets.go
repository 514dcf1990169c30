// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const snippetColumns = "id, name, slug, html, is_active, created_at, updated_at"

func scanSnippet(row interface{ Scan(...any) error }) (Snippet, error) {
	var s Snippet
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Html, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSnippetParams holds parameters for CreateSnippet.
type CreateSnippetParams struct {
	Name     string
	Slug     string
	Html     string
	IsActive bool
}

// CreateSnippet inserts a snippet and returns it.
func (q *Queries) CreateSnippet(ctx context.Context, arg CreateSnippetParams) (Snippet, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO snippets (name, slug, html, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+snippetColumns,
		arg.Name, arg.Slug, arg.Html, arg.IsActive, now, now)
	return scanSnippet(row)
}

// GetSnippetByID fetches a snippet by id.
func (q *Queries) GetSnippetByID(ctx context.Context, id int64) (Snippet, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id)
	return scanSnippet(row)
}

// GetSnippetBySlug fetches a snippet by slug.
func (q *Queries) GetSnippetBySlug(ctx context.Context, slug string) (Snippet, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+snippetColumns+` FROM snippets WHERE slug = ?`, slug)
	return scanSnippet(row)
}

// ListSnippets returns all snippets ordered by name.
func (q *Queries) ListSnippets(ctx context.Context) ([]Snippet, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+snippetColumns+` FROM snippets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snippets []Snippet
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, s)
	}
	return snippets, rows.Err()
}

// SnippetSlugExists returns the number of snippets with the given slug.
func (q *Queries) SnippetSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdateSnippetParams holds parameters for UpdateSnippet.
type UpdateSnippetParams struct {
	ID       int64
	Name     string
	Slug     string
	Html     string
	IsActive bool
}

// UpdateSnippet updates a snippet and returns the updated row.
func (q *Queries) UpdateSnippet(ctx context.Context, arg UpdateSnippetParams) (Snippet, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE snippets SET name = ?, slug = ?, html = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+snippetColumns,
		arg.Name, arg.Slug, arg.Html, arg.IsActive, time.Now().UTC(), arg.ID)
	return scanSnippet(row)
}

// DeleteSnippet deletes a snippet.
func (q *Queries) DeleteSnippet(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	return err
}

// CountSnippetSectionUses returns the number of page sections that
// reference a snippet slug. Used to refuse deleting a snippet in use.
func (q *Queries) CountSnippetSectionUses(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_sections WHERE kind = 'snippet' AND body = ?`, slug).Scan(&count)
	return count, err
}
