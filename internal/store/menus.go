// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = "id, name, slug, created_at, updated_at"

func scanMenu(row interface{ Scan(...any) error }) (Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMenuParams holds parameters for CreateMenu.
type CreateMenuParams struct {
	Name string
	Slug string
}

// CreateMenu inserts a new menu and returns it.
func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO menus (name, slug, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+menuColumns,
		arg.Name, arg.Slug, now, now)
	return scanMenu(row)
}

// GetMenuByID fetches a menu by id.
func (q *Queries) GetMenuByID(ctx context.Context, id int64) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	return scanMenu(row)
}

// GetMenuBySlug fetches a menu by slug.
func (q *Queries) GetMenuBySlug(ctx context.Context, slug string) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE slug = ?`, slug)
	return scanMenu(row)
}

// ListMenus returns all menus ordered by name.
func (q *Queries) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// MenuSlugExists returns the number of menus with the given slug.
func (q *Queries) MenuSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// MenuSlugExistsExcludingParams holds parameters for MenuSlugExistsExcluding.
type MenuSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// MenuSlugExistsExcluding returns the number of menus with the given
// slug other than the given id.
func (q *Queries) MenuSlugExistsExcluding(ctx context.Context, arg MenuSlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menus WHERE slug = ? AND id != ?`, arg.Slug, arg.ID).Scan(&count)
	return count, err
}

// UpdateMenuParams holds parameters for UpdateMenu.
type UpdateMenuParams struct {
	ID   int64
	Name string
	Slug string
}

// UpdateMenu updates a menu and returns the updated row.
func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE menus SET name = ?, slug = ?, updated_at = ? WHERE id = ?
		 RETURNING `+menuColumns,
		arg.Name, arg.Slug, time.Now().UTC(), arg.ID)
	return scanMenu(row)
}

// DeleteMenu deletes a menu. Items cascade.
func (q *Queries) DeleteMenu(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	return err
}

const menuItemColumns = "id, menu_id, parent_id, label, url, icon, target, page_id, is_active, position, created_at, updated_at"

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(&i.ID, &i.MenuID, &i.ParentID, &i.Label, &i.Url, &i.Icon,
		&i.Target, &i.PageID, &i.IsActive, &i.Position, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// CreateMenuItemParams holds parameters for CreateMenuItem.
type CreateMenuItemParams struct {
	MenuID   int64
	ParentID sql.NullInt64
	Label    string
	Url      sql.NullString
	Icon     sql.NullString
	Target   string
	PageID   sql.NullInt64
	IsActive bool
	Position int64
}

// CreateMenuItem inserts a new menu item and returns it.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (menu_id, parent_id, label, url, icon, target, page_id, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+menuItemColumns,
		arg.MenuID, arg.ParentID, arg.Label, arg.Url, arg.Icon, arg.Target,
		arg.PageID, arg.IsActive, arg.Position, now, now)
	return scanMenuItem(row)
}

// GetMenuItemByID fetches a menu item by id.
func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItem(row)
}

// ListMenuItems returns all items of a menu ordered by parent then position.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE menu_id = ?
		 ORDER BY parent_id NULLS FIRST, position`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListMenuItemsWithPageRow is a menu item joined with the slug of its
// linked page, when any.
type ListMenuItemsWithPageRow struct {
	MenuItem
	PageSlug sql.NullString
}

// ListMenuItemsWithPage returns all items of a menu with linked page
// slugs, ordered by parent then position.
func (q *Queries) ListMenuItemsWithPage(ctx context.Context, menuID int64) ([]ListMenuItemsWithPageRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT i.id, i.menu_id, i.parent_id, i.label, i.url, i.icon, i.target, i.page_id, i.is_active, i.position, i.created_at, i.updated_at, p.slug
		 FROM menu_items i
		 LEFT JOIN pages p ON p.id = i.page_id
		 WHERE i.menu_id = ?
		 ORDER BY i.parent_id NULLS FIRST, i.position`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListMenuItemsWithPageRow
	for rows.Next() {
		var r ListMenuItemsWithPageRow
		if err := rows.Scan(&r.ID, &r.MenuID, &r.ParentID, &r.Label, &r.Url, &r.Icon,
			&r.Target, &r.PageID, &r.IsActive, &r.Position, &r.CreatedAt, &r.UpdatedAt,
			&r.PageSlug); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// UpdateMenuItemParams holds parameters for UpdateMenuItem.
type UpdateMenuItemParams struct {
	ID       int64
	ParentID sql.NullInt64
	Label    string
	Url      sql.NullString
	Icon     sql.NullString
	Target   string
	PageID   sql.NullInt64
	IsActive bool
	Position int64
}

// UpdateMenuItem updates a menu item and returns the updated row.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE menu_items
		 SET parent_id = ?, label = ?, url = ?, icon = ?, target = ?, page_id = ?, is_active = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+menuItemColumns,
		arg.ParentID, arg.Label, arg.Url, arg.Icon, arg.Target, arg.PageID,
		arg.IsActive, arg.Position, time.Now().UTC(), arg.ID)
	return scanMenuItem(row)
}

// UpdateMenuItemPositionParams holds parameters for UpdateMenuItemPosition.
type UpdateMenuItemPositionParams struct {
	ID       int64
	ParentID sql.NullInt64
	Position int64
}

// UpdateMenuItemPosition updates only the tree placement of an item.
func (q *Queries) UpdateMenuItemPosition(ctx context.Context, arg UpdateMenuItemPositionParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET parent_id = ?, position = ?, updated_at = ? WHERE id = ?`,
		arg.ParentID, arg.Position, time.Now().UTC(), arg.ID)
	return err
}

// DeleteMenuItem deletes a menu item. Children cascade.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// CountMenuItemChildren returns the number of direct children of an item.
func (q *Queries) CountMenuItemChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE parent_id = ?`, id).Scan(&count)
	return count, err
}

// GetMaxMenuItemPositionParams holds parameters for GetMaxMenuItemPosition.
type GetMaxMenuItemPositionParams struct {
	MenuID   int64
	ParentID sql.NullInt64
}

// GetMaxMenuItemPosition returns the highest position among siblings,
// or -1 when the sibling group is empty.
func (q *Queries) GetMaxMenuItemPosition(ctx context.Context, arg GetMaxMenuItemPositionParams) (int64, error) {
	var max sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM menu_items
		 WHERE menu_id = ? AND parent_id IS ?`, arg.MenuID, arg.ParentID).Scan(&max)
	if err != nil {
		return -1, err
	}
	if !max.Valid {
		return -1, nil
	}
	return max.Int64, nil
}
