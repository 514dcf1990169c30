// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressroom/panel/internal/cache"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

func newTestMenuService(t *testing.T) (*MenuService, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return NewMenuService(db, c), store.New(db)
}

func TestGetMenu_DerivesPageURLs(t *testing.T) {
	svc, q := newTestMenuService(t)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	page, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "About", Slug: "about", Status: "published",
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	_, err = q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menu.ID, Label: "About", Target: "_self", IsActive: true,
		PageID: sql.NullInt64{Int64: page.ID, Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	_, err = q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menu.ID, Label: "Docs", Target: "_blank", IsActive: true, Position: 1,
		Url: sql.NullString{String: "https://docs.example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	_, err = q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menu.ID, Label: "Hidden", Target: "_self", IsActive: false, Position: 2,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}

	views, err := svc.GetMenu(ctx, "main")
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2 (inactive item excluded)", len(views))
	}
	if views[0].URL != "/about" {
		t.Errorf("page-linked URL: got %q, want /about", views[0].URL)
	}
	if views[1].URL != "https://docs.example.com" {
		t.Errorf("custom URL: got %q", views[1].URL)
	}
}

func TestGetMenu_CacheInvalidation(t *testing.T) {
	svc, q := newTestMenuService(t)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	item, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menu.ID, Label: "Home", Target: "_self", IsActive: true,
		Url: sql.NullString{String: "/", Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}

	views, err := svc.GetMenu(ctx, "main")
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}

	// A mutation behind the cache's back is invisible until invalidation.
	if _, err := q.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
		ID: item.ID, Label: "Start", Target: "_self", IsActive: true,
		Url: sql.NullString{String: "/", Valid: true},
	}); err != nil {
		t.Fatalf("UpdateMenuItem: %v", err)
	}

	views, err = svc.GetMenu(ctx, "main")
	if err != nil {
		t.Fatalf("GetMenu cached: %v", err)
	}
	if views[0].Label != "Home" {
		t.Errorf("expected stale cached label, got %q", views[0].Label)
	}

	svc.InvalidateCache(ctx, "main")
	views, err = svc.GetMenu(ctx, "main")
	if err != nil {
		t.Fatalf("GetMenu after invalidation: %v", err)
	}
	if views[0].Label != "Start" {
		t.Errorf("expected fresh label, got %q", views[0].Label)
	}
}

func TestSaveTreeOrder(t *testing.T) {
	svc, q := newTestMenuService(t)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	var created []store.MenuItem
	for i, label := range []string{"A", "B", "C"} {
		it, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
			MenuID: menu.ID, Label: label, Target: "_self", IsActive: true, Position: int64(i),
		})
		if err != nil {
			t.Fatalf("CreateMenuItem: %v", err)
		}
		created = append(created, it)
	}

	items, err := q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	flat, err := Reorder(items, created[2].ID, created[0].ID)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := svc.SaveTreeOrder(ctx, flat); err != nil {
		t.Fatalf("SaveTreeOrder: %v", err)
	}

	items, err = q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	persisted := FlattenTree(items)
	wantOrder := []int64{created[2].ID, created[0].ID, created[1].ID}
	for i, want := range wantOrder {
		if persisted[i].ID != want {
			t.Errorf("index %d: got id %d, want %d", i, persisted[i].ID, want)
		}
		if persisted[i].Position != int64(i) {
			t.Errorf("index %d: position %d, want %d", i, persisted[i].Position, i)
		}
	}
}
