// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = "id, title, slug, meta_title, meta_description, status, published_at, scheduled_at, created_at, updated_at"

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.MetaTitle, &p.MetaDescription,
		&p.Status, &p.PublishedAt, &p.ScheduledAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePageParams holds parameters for CreatePage.
type CreatePageParams struct {
	Title           string
	Slug            string
	MetaTitle       string
	MetaDescription string
	Status          string
	PublishedAt     sql.NullTime
	ScheduledAt     sql.NullTime
}

// CreatePage inserts a page and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO pages (title, slug, meta_title, meta_description, status, published_at, scheduled_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+pageColumns,
		arg.Title, arg.Slug, arg.MetaTitle, arg.MetaDescription, arg.Status,
		arg.PublishedAt, arg.ScheduledAt, now, now)
	return scanPage(row)
}

// GetPageByID fetches a page by id.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageBySlug fetches a page by slug.
func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// ListPagesParams holds pagination parameters for ListPages.
type ListPagesParams struct {
	Limit  int64
	Offset int64
}

// ListPages returns pages ordered by title with pagination.
func (q *Queries) ListPages(ctx context.Context, arg ListPagesParams) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY title LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&count)
	return count, err
}

// PageSlugExists returns the number of pages with the given slug.
func (q *Queries) PageSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdatePageParams holds parameters for UpdatePage.
type UpdatePageParams struct {
	ID              int64
	Title           string
	Slug            string
	MetaTitle       string
	MetaDescription string
	Status          string
	PublishedAt     sql.NullTime
	ScheduledAt     sql.NullTime
}

// UpdatePage updates a page and returns the updated row.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE pages
		 SET title = ?, slug = ?, meta_title = ?, meta_description = ?, status = ?, published_at = ?, scheduled_at = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+pageColumns,
		arg.Title, arg.Slug, arg.MetaTitle, arg.MetaDescription, arg.Status,
		arg.PublishedAt, arg.ScheduledAt, time.Now().UTC(), arg.ID)
	return scanPage(row)
}

// DeletePage deletes a page. Sections cascade; menu items referencing
// the page get page_id set to NULL.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

// GetScheduledPagesForPublishing returns scheduled pages due at or
// before the given time.
func (q *Queries) GetScheduledPagesForPublishing(ctx context.Context, due time.Time) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		 WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= ?`, due)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// PublishPageParams holds parameters for PublishPage.
type PublishPageParams struct {
	ID          int64
	PublishedAt time.Time
}

// PublishPage marks a scheduled page as published.
func (q *Queries) PublishPage(ctx context.Context, arg PublishPageParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET status = 'published', published_at = ?, scheduled_at = NULL, updated_at = ? WHERE id = ?`,
		arg.PublishedAt, time.Now().UTC(), arg.ID)
	return err
}

const pageSectionColumns = "id, page_id, kind, body, html_cache, position, created_at, updated_at"

func scanPageSection(row interface{ Scan(...any) error }) (PageSection, error) {
	var s PageSection
	err := row.Scan(&s.ID, &s.PageID, &s.Kind, &s.Body, &s.HtmlCache,
		&s.Position, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreatePageSectionParams holds parameters for CreatePageSection.
type CreatePageSectionParams struct {
	PageID    int64
	Kind      string
	Body      string
	HtmlCache string
	Position  int64
}

// CreatePageSection inserts a page section and returns it.
func (q *Queries) CreatePageSection(ctx context.Context, arg CreatePageSectionParams) (PageSection, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO page_sections (page_id, kind, body, html_cache, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+pageSectionColumns,
		arg.PageID, arg.Kind, arg.Body, arg.HtmlCache, arg.Position, now, now)
	return scanPageSection(row)
}

// GetPageSectionByID fetches a page section by id.
func (q *Queries) GetPageSectionByID(ctx context.Context, id int64) (PageSection, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections WHERE id = ?`, id)
	return scanPageSection(row)
}

// ListPageSections returns all sections of a page ordered by position.
func (q *Queries) ListPageSections(ctx context.Context, pageID int64) ([]PageSection, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageSectionColumns+` FROM page_sections WHERE page_id = ? ORDER BY position, id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []PageSection
	for rows.Next() {
		s, err := scanPageSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdatePageSectionParams holds parameters for UpdatePageSection.
type UpdatePageSectionParams struct {
	ID        int64
	Kind      string
	Body      string
	HtmlCache string
	Position  int64
}

// UpdatePageSection updates a page section and returns the updated row.
func (q *Queries) UpdatePageSection(ctx context.Context, arg UpdatePageSectionParams) (PageSection, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE page_sections SET kind = ?, body = ?, html_cache = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+pageSectionColumns,
		arg.Kind, arg.Body, arg.HtmlCache, arg.Position, time.Now().UTC(), arg.ID)
	return scanPageSection(row)
}

// DeletePageSection deletes a page section.
func (q *Queries) DeletePageSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM page_sections WHERE id = ?`, id)
	return err
}

// CountPageSectionsReferencing returns the number of page sections
// whose body contains the given needle. Used to refuse deleting media
// that pages still embed.
func (q *Queries) CountPageSectionsReferencing(ctx context.Context, needle string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_sections WHERE body LIKE '%' || ? || '%'`, needle).Scan(&count)
	return count, err
}
