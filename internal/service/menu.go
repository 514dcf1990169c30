// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressroom/panel/internal/cache"
	"github.com/pressroom/panel/internal/store"
)

// MenuItemView is the public rendering of a menu item. URL is derived
// from the linked page when page_id is set, otherwise from the stored
// url value.
type MenuItemView struct {
	ID       int64          `json:"id"`
	Label    string         `json:"label"`
	URL      string         `json:"url"`
	Icon     string         `json:"icon,omitempty"`
	Target   string         `json:"target"`
	Children []MenuItemView `json:"children,omitempty"`
}

// MenuService serves the public menu read path with caching and
// persists tree mutations.
type MenuService struct {
	db      *sql.DB
	queries *store.Queries
	views   *cache.Typed[[]MenuItemView]
}

// NewMenuService builds a MenuService backed by db and c.
func NewMenuService(db *sql.DB, c cache.Cacher) *MenuService {
	return &MenuService{
		db:      db,
		queries: store.New(db),
		views:   cache.NewTyped[[]MenuItemView](c, "menu:", 15*time.Minute),
	}
}

// GetMenu returns the active item tree of the menu with the given slug.
// Results are cached per slug until the menu is mutated.
func (s *MenuService) GetMenu(ctx context.Context, slug string) ([]MenuItemView, error) {
	if views, err := s.views.Get(ctx, slug); err == nil && views != nil {
		return *views, nil
	}

	menu, err := s.queries.GetMenuBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListMenuItemsWithPage(ctx, menu.ID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	pageSlugs := make(map[int64]string, len(rows))
	items := make([]store.MenuItem, 0, len(rows))
	for _, r := range rows {
		if !r.IsActive {
			continue
		}
		if r.PageID.Valid && r.PageSlug.Valid {
			pageSlugs[r.ID] = r.PageSlug.String
		}
		items = append(items, r.MenuItem)
	}

	tree := BuildTree(FlattenTree(items))
	views := buildMenuViews(tree, pageSlugs)
	if views == nil {
		views = []MenuItemView{}
	}

	if err := s.views.Set(ctx, slug, views); err != nil {
		slog.Warn("menu cache store failed", "slug", slug, "error", err)
	}
	return views, nil
}

func buildMenuViews(nodes []*TreeNode, pageSlugs map[int64]string) []MenuItemView {
	var views []MenuItemView
	for _, n := range nodes {
		v := MenuItemView{
			ID:     n.ID,
			Label:  n.Label,
			Target: n.Target,
		}
		if slug, ok := pageSlugs[n.ID]; ok {
			v.URL = "/" + slug
		} else if n.Url.Valid {
			v.URL = n.Url.String
		}
		if n.Icon.Valid {
			v.Icon = n.Icon.String
		}
		v.Children = buildMenuViews(n.Children, pageSlugs)
		views = append(views, v)
	}
	return views
}

// SaveTreeOrder writes the parent and position of every item in flat
// back to the database in one transaction.
func (s *MenuService) SaveTreeOrder(ctx context.Context, flat []FlattenedItem) error {
	return store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		for _, it := range flat {
			err := q.UpdateMenuItemPosition(ctx, store.UpdateMenuItemPositionParams{
				ID:       it.ID,
				ParentID: it.ParentID,
				Position: it.Position,
			})
			if err != nil {
				return fmt.Errorf("update item %d: %w", it.ID, err)
			}
		}
		return nil
	})
}

// InvalidateCache drops the cached view of one menu slug.
func (s *MenuService) InvalidateCache(ctx context.Context, slug string) {
	if err := s.views.Delete(ctx, slug); err != nil {
		slog.Warn("menu cache invalidation failed", "slug", slug, "error", err)
	}
}

// InvalidateAll drops every cached menu view. Used when pages change
// slugs, since page-linked items derive their URLs from page slugs.
func (s *MenuService) InvalidateAll(ctx context.Context) {
	menus, err := s.queries.ListMenus(ctx)
	if err != nil {
		slog.Warn("menu cache invalidation list failed", "error", err)
		return
	}
	for _, m := range menus {
		s.InvalidateCache(ctx, m.Slug)
	}
}
