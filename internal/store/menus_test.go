// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

func TestMenuCRUD(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main-nav"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	if menu.ID == 0 || menu.Slug != "main-nav" {
		t.Fatalf("unexpected menu: %+v", menu)
	}

	got, err := q.GetMenuBySlug(ctx, "main-nav")
	if err != nil {
		t.Fatalf("GetMenuBySlug: %v", err)
	}
	if got.ID != menu.ID {
		t.Errorf("GetMenuBySlug: got id %d, want %d", got.ID, menu.ID)
	}

	updated, err := q.UpdateMenu(ctx, store.UpdateMenuParams{ID: menu.ID, Name: "Primary", Slug: "primary"})
	if err != nil {
		t.Fatalf("UpdateMenu: %v", err)
	}
	if updated.Name != "Primary" || updated.Slug != "primary" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := q.DeleteMenu(ctx, menu.ID); err != nil {
		t.Fatalf("DeleteMenu: %v", err)
	}
	if _, err := q.GetMenuByID(ctx, menu.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("menu should be gone, got %v", err)
	}
}

func TestMenuItems_OrderingAndCascade(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	root, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menu.ID, Label: "Home", Target: "_self", IsActive: true, Position: 0,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	child, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:   menu.ID,
		ParentID: sql.NullInt64{Int64: root.ID, Valid: true},
		Label:    "About", Target: "_self", IsActive: true, Position: 0,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem child: %v", err)
	}

	items, err := q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Roots come before children.
	if items[0].ID != root.ID || items[1].ID != child.ID {
		t.Errorf("unexpected order: [%d %d]", items[0].ID, items[1].ID)
	}

	maxPos, err := q.GetMaxMenuItemPosition(ctx, store.GetMaxMenuItemPositionParams{MenuID: menu.ID})
	if err != nil {
		t.Fatalf("GetMaxMenuItemPosition: %v", err)
	}
	if maxPos != 0 {
		t.Errorf("max root position: got %d, want 0", maxPos)
	}

	if err := q.UpdateMenuItemPosition(ctx, store.UpdateMenuItemPositionParams{
		ID: child.ID, Position: 5,
	}); err != nil {
		t.Fatalf("UpdateMenuItemPosition: %v", err)
	}
	got, err := q.GetMenuItemByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetMenuItemByID: %v", err)
	}
	if got.Position != 5 || got.ParentID.Valid {
		t.Errorf("position update: got position=%d parent=%+v", got.Position, got.ParentID)
	}

	// Deleting the menu removes its items.
	if err := q.DeleteMenu(ctx, menu.ID); err != nil {
		t.Fatalf("DeleteMenu: %v", err)
	}
	items, err = q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems after delete: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items should cascade, got %d", len(items))
	}
}

func TestListMenuItemsWithPage(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	page, err := q.CreatePage(ctx, store.CreatePageParams{
		Title: "About", Slug: "about-us", Status: "published",
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
		MenuID: menu.ID, Label: "External", Target: "_blank", IsActive: true, Position: 1,
		Url: sql.NullString{String: "https://example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}

	rows, err := q.ListMenuItemsWithPage(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItemsWithPage: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].PageSlug.Valid || rows[0].PageSlug.String != "about-us" {
		t.Errorf("page-linked item slug: %+v", rows[0].PageSlug)
	}
	if rows[1].PageSlug.Valid {
		t.Errorf("url item should have no page slug")
	}
}
