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

// menuFixture creates a menu with three root items in positions 0..2.
func menuFixture(t *testing.T, a *testAPI) (store.Menu, []store.MenuItem) {
	t.Helper()
	ctx := context.Background()

	menu, err := a.queries.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	require.NoError(t, err)

	labels := []string{"Home", "Pricing", "Contact"}
	items := make([]store.MenuItem, 0, len(labels))
	for i, label := range labels {
		item, err := a.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
			MenuID:   menu.ID,
			Label:    label,
			Url:      sql.NullString{String: "/" + label, Valid: true},
			Target:   model.TargetSelf,
			IsActive: true,
			Position: int64(i),
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return menu, items
}

func TestCreateMenuItem_LinkValidation(t *testing.T) {
	a := newTestAPI(t)
	menu, _ := menuFixture(t, a)
	path := "/api/admin/menus/" + itoa(menu.ID) + "/items"

	// page link without page_id
	rec := a.do(t, http.MethodPost, path, api.MenuItemRequest{
		Label: "Docs", LinkType: model.LinkTypePage,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeErrorDetails(t, rec), "page_id")

	// custom link without url
	rec = a.do(t, http.MethodPost, path, api.MenuItemRequest{
		Label: "Docs", LinkType: model.LinkTypeCustom,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeErrorDetails(t, rec), "url")

	rec = a.do(t, http.MethodPost, path, api.MenuItemRequest{
		Label: "Docs", URL: "https://docs.example.com", Target: "_blank",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var item api.MenuItemResponse
	decodeData(t, rec, &item)
	require.Equal(t, model.LinkTypeCustom, item.LinkType)
	require.Equal(t, "_blank", item.Target)
	// new items land at the end of their sibling group
	require.Equal(t, int64(3), item.Position)
}

func TestUpdateMenuItem_ParentInOwnSubtree(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	menu, err := a.queries.CreateMenu(ctx, store.CreateMenuParams{Name: "Main", Slug: "main"})
	require.NoError(t, err)

	child := func(label string, parentID int64) store.MenuItem {
		p := store.CreateMenuItemParams{
			MenuID:   menu.ID,
			Label:    label,
			Url:      sql.NullString{String: "/" + label, Valid: true},
			Target:   model.TargetSelf,
			IsActive: true,
		}
		if parentID != 0 {
			p.ParentID = sql.NullInt64{Int64: parentID, Valid: true}
		}
		item, err := a.queries.CreateMenuItem(ctx, p)
		require.NoError(t, err)
		return item
	}
	root := child("products", 0)
	mid := child("plans", root.ID)
	leaf := child("addons", mid.ID)

	path := "/api/admin/menus/" + itoa(menu.ID) + "/items/" + itoa(root.ID)
	for _, parentID := range []int64{mid.ID, leaf.ID} {
		rec := a.do(t, http.MethodPut, path, api.MenuItemRequest{
			Label: root.Label, URL: "/products", ParentID: &parentID,
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, decodeErrorDetails(t, rec), "parent_id")
	}

	// the refused updates leave the tree intact and fully listable
	rec := a.do(t, http.MethodGet, "/api/admin/menus/"+itoa(menu.ID)+"/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []api.MenuItemResponse
	decodeData(t, rec, &listed)
	require.Len(t, listed, 3)

	stored, err := a.queries.GetMenuItemByID(ctx, root.ID)
	require.NoError(t, err)
	require.False(t, stored.ParentID.Valid)

	// reparenting into a disjoint subtree still works
	rec = a.do(t, http.MethodPut,
		"/api/admin/menus/"+itoa(menu.ID)+"/items/"+itoa(leaf.ID),
		api.MenuItemRequest{Label: leaf.Label, URL: "/addons", ParentID: &root.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = a.queries.GetMenuItemByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.Equal(t, root.ID, stored.ParentID.Int64)
}

func TestIndentMenuItem(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()
	menu, items := menuFixture(t, a)
	base := "/api/admin/menus/" + itoa(menu.ID) + "/items/"

	// the first item has no preceding sibling to nest under
	rec := a.do(t, http.MethodPost, base+itoa(items[0].ID)+"/indent", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, base+itoa(items[1].ID)+"/indent", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	moved, err := a.queries.GetMenuItemByID(ctx, items[1].ID)
	require.NoError(t, err)
	require.True(t, moved.ParentID.Valid)
	require.Equal(t, items[0].ID, moved.ParentID.Int64)
}

func TestReorderMenuItem(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()
	menu, items := menuFixture(t, a)
	base := "/api/admin/menus/" + itoa(menu.ID) + "/items/"

	rec := a.do(t, http.MethodPost, base+itoa(items[2].ID)+"/reorder", api.TreeOpRequest{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// drop the last item onto the first slot
	rec = a.do(t, http.MethodPost, base+itoa(items[2].ID)+"/reorder",
		api.TreeOpRequest{OverID: items[0].ID})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := a.queries.ListMenuItems(ctx, menu.ID)
	require.NoError(t, err)
	byID := make(map[int64]store.MenuItem, len(stored))
	for _, it := range stored {
		byID[it.ID] = it
	}
	require.Equal(t, int64(0), byID[items[2].ID].Position)
	require.Equal(t, int64(1), byID[items[0].ID].Position)
	require.Equal(t, int64(2), byID[items[1].ID].Position)
}

func TestMoveMenuItemUp(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()
	menu, items := menuFixture(t, a)
	base := "/api/admin/menus/" + itoa(menu.ID) + "/items/"

	rec := a.do(t, http.MethodPost, base+itoa(items[0].ID)+"/move-up", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, base+itoa(items[1].ID)+"/move-up", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := a.queries.ListMenuItems(ctx, menu.ID)
	require.NoError(t, err)
	for _, it := range stored {
		switch it.ID {
		case items[0].ID:
			require.Equal(t, int64(1), it.Position)
		case items[1].ID:
			require.Equal(t, int64(0), it.Position)
		}
	}
}
