// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/service"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// MenuResponse represents a menu in API responses.
type MenuResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItemResponse represents a menu item in API responses. LinkType is
// derived from the stored columns: "page" when a page is linked,
// "custom" otherwise.
type MenuItemResponse struct {
	ID        int64     `json:"id"`
	MenuID    int64     `json:"menu_id"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	Label     string    `json:"label"`
	LinkType  string    `json:"link_type"`
	URL       string    `json:"url,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Target    string    `json:"target"`
	PageID    *int64    `json:"page_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	Position  int64     `json:"position"`
	Depth     int       `json:"depth"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateMenuRequest is the body for creating a menu.
type CreateMenuRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MenuItemRequest is the body for creating or updating a menu item.
// LinkType steers validation only and is never stored: "page" requires
// page_id and clears url, anything else requires url and clears page_id.
type MenuItemRequest struct {
	Label    string `json:"label"`
	LinkType string `json:"link_type"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Target   string `json:"target"`
	PageID   *int64 `json:"page_id"`
	ParentID *int64 `json:"parent_id"`
	IsActive *bool  `json:"is_active"`
}

// TreeOpRequest is the body for the reorder operation.
type TreeOpRequest struct {
	OverID int64 `json:"over_id"`
}

// ListMenus handles GET /api/admin/menus.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.queries.ListMenus(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list menus")
		return
	}
	responses := make([]MenuResponse, 0, len(menus))
	for _, m := range menus {
		responses = append(responses, menuResponse(m))
	}
	WriteSuccess(w, responses, nil)
}

// GetMenu handles GET /api/admin/menus/{id}.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, ok := h.requireMenu(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, menuResponse(menu), nil)
}

// CreateMenu handles POST /api/admin/menus.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(req.Slug) {
		validationErrors["slug"] = "Slug may contain lowercase letters, digits and hyphens only"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.MenuSlugExists(ctx, req.Slug)
	}) {
		return
	}

	menu, err := h.queries.CreateMenu(ctx, store.CreateMenuParams{Name: req.Name, Slug: req.Slug})
	if err != nil {
		WriteInternalError(w, "Failed to create menu")
		return
	}
	WriteCreated(w, menuResponse(menu))
}

// UpdateMenu handles PUT /api/admin/menus/{id}.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireMenu(w, r)
	if !ok {
		return
	}

	var req CreateMenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateMenuParams{ID: existing.ID, Name: existing.Name, Slug: existing.Slug}
	if req.Name != "" {
		params.Name = req.Name
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Slug may contain lowercase letters, digits and hyphens only"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.MenuSlugExistsExcluding(ctx, store.MenuSlugExistsExcludingParams{
				Slug: req.Slug, ID: existing.ID,
			})
		}) {
			return
		}
		params.Slug = req.Slug
	}

	menu, err := h.queries.UpdateMenu(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update menu")
		return
	}
	h.menus.InvalidateCache(ctx, existing.Slug)
	h.menus.InvalidateCache(ctx, menu.Slug)
	WriteSuccess(w, menuResponse(menu), nil)
}

// DeleteMenu handles DELETE /api/admin/menus/{id}. Items cascade.
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	menu, ok := h.requireMenu(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteMenu(r.Context(), menu.ID); err != nil {
		WriteInternalError(w, "Failed to delete menu")
		return
	}
	h.menus.InvalidateCache(r.Context(), menu.Slug)
	WriteSuccess(w, menuResponse(menu), nil)
}

// ListMenuItems handles GET /api/admin/menus/{id}/items. Items come
// back in depth-first order with their depth, ready for tree display.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	menu, ok := h.requireMenu(w, r)
	if !ok {
		return
	}

	items, err := h.queries.ListMenuItems(r.Context(), menu.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list menu items")
		return
	}
	WriteSuccess(w, flattenedResponses(service.FlattenTree(items)), nil)
}

// CreateMenuItem handles POST /api/admin/menus/{id}/items. New items
// are appended to the end of their sibling group.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	menu, ok := h.requireMenu(w, r)
	if !ok {
		return
	}

	var req MenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params, ok := h.validateMenuItem(ctx, w, menu.ID, req, 0)
	if !ok {
		return
	}

	maxPos, err := h.queries.GetMaxMenuItemPosition(ctx, store.GetMaxMenuItemPositionParams{
		MenuID:   menu.ID,
		ParentID: params.ParentID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to determine item position")
		return
	}
	params.Position = maxPos + 1

	item, err := h.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:   menu.ID,
		ParentID: params.ParentID,
		Label:    params.Label,
		Url:      params.Url,
		Icon:     params.Icon,
		Target:   params.Target,
		PageID:   params.PageID,
		IsActive: params.IsActive,
		Position: params.Position,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create menu item")
		return
	}

	h.menus.InvalidateCache(ctx, menu.Slug)
	WriteCreated(w, itemResponse(item, 0))
}

// UpdateMenuItem handles PUT /api/admin/menus/{id}/items/{itemID}.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	menu, item, ok := h.requireMenuItem(w, r)
	if !ok {
		return
	}

	var req MenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params, ok := h.validateMenuItem(ctx, w, menu.ID, req, item.ID)
	if !ok {
		return
	}

	updated, err := h.queries.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
		ID:       item.ID,
		ParentID: params.ParentID,
		Label:    params.Label,
		Url:      params.Url,
		Icon:     params.Icon,
		Target:   params.Target,
		PageID:   params.PageID,
		IsActive: params.IsActive,
		Position: item.Position,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update menu item")
		return
	}

	h.menus.InvalidateCache(ctx, menu.Slug)
	WriteSuccess(w, itemResponse(updated, 0), nil)
}

// DeleteMenuItem handles DELETE /api/admin/menus/{id}/items/{itemID}.
// Children are removed with their parent.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	menu, item, ok := h.requireMenuItem(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteMenuItem(ctx, item.ID); err != nil {
		WriteInternalError(w, "Failed to delete menu item")
		return
	}
	h.menus.InvalidateCache(ctx, menu.Slug)
	WriteSuccess(w, itemResponse(item, 0), nil)
}

// treeOp runs one structural operation over a menu's full item list and
// persists the result. The response carries the new flattened order.
func (h *Handler) treeOp(w http.ResponseWriter, r *http.Request,
	op func(items []store.MenuItem, id int64) ([]service.FlattenedItem, error)) {
	ctx := r.Context()

	menu, item, ok := h.requireMenuItem(w, r)
	if !ok {
		return
	}

	items, err := h.queries.ListMenuItems(ctx, menu.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list menu items")
		return
	}

	flat, err := op(items, item.ID)
	if err != nil {
		writeTreeOpError(w, err)
		return
	}

	if err := h.menus.SaveTreeOrder(ctx, flat); err != nil {
		WriteInternalError(w, "Failed to save menu order")
		return
	}

	h.menus.InvalidateCache(ctx, menu.Slug)
	WriteSuccess(w, flattenedResponses(flat), nil)
}

// ReorderMenuItem handles POST /api/admin/menus/{id}/items/{itemID}/reorder.
// The item moves to the flattened position currently held by over_id.
func (h *Handler) ReorderMenuItem(w http.ResponseWriter, r *http.Request) {
	var req TreeOpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.OverID <= 0 {
		WriteValidationError(w, map[string]string{"over_id": "over_id is required"})
		return
	}
	h.treeOp(w, r, func(items []store.MenuItem, id int64) ([]service.FlattenedItem, error) {
		return service.Reorder(items, id, req.OverID)
	})
}

// IndentMenuItem handles POST /api/admin/menus/{id}/items/{itemID}/indent.
func (h *Handler) IndentMenuItem(w http.ResponseWriter, r *http.Request) {
	h.treeOp(w, r, service.Indent)
}

// OutdentMenuItem handles POST /api/admin/menus/{id}/items/{itemID}/outdent.
func (h *Handler) OutdentMenuItem(w http.ResponseWriter, r *http.Request) {
	h.treeOp(w, r, service.Outdent)
}

// MoveMenuItemUp handles POST /api/admin/menus/{id}/items/{itemID}/move-up.
func (h *Handler) MoveMenuItemUp(w http.ResponseWriter, r *http.Request) {
	h.treeOp(w, r, service.MoveUp)
}

// MoveMenuItemDown handles POST /api/admin/menus/{id}/items/{itemID}/move-down.
func (h *Handler) MoveMenuItemDown(w http.ResponseWriter, r *http.Request) {
	h.treeOp(w, r, service.MoveDown)
}

// writeTreeOpError maps structural operation failures onto HTTP codes.
func writeTreeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		WriteNotFound(w, "Menu item not found")
	case errors.Is(err, service.ErrMaxDepth):
		WriteConflict(w, "Maximum menu depth exceeded")
	case errors.Is(err, service.ErrWouldCycle):
		WriteConflict(w, "Operation would create a cycle")
	case errors.Is(err, service.ErrNoPrecedingItem),
		errors.Is(err, service.ErrNoFollowingItem),
		errors.Is(err, service.ErrNoParent):
		WriteConflict(w, "Item cannot move in that direction")
	default:
		WriteInternalError(w, "Menu operation failed")
	}
}

// validateMenuItem checks a request body and resolves it into storage
// params. itemID is the item being updated, or 0 on create; it guards
// self-parenting before the structural checks run.
func (h *Handler) validateMenuItem(ctx context.Context, w http.ResponseWriter, menuID int64, req MenuItemRequest, itemID int64) (store.UpdateMenuItemParams, bool) {
	var params store.UpdateMenuItemParams

	validationErrors := make(map[string]string)
	if req.Label == "" {
		validationErrors["label"] = "Label is required"
	}
	if req.Target == "" {
		req.Target = model.TargetSelf
	}
	if !model.IsValidTarget(req.Target) {
		validationErrors["target"] = "Target must be _self or _blank"
	}
	if req.LinkType == "" {
		if req.PageID != nil {
			req.LinkType = model.LinkTypePage
		} else {
			req.LinkType = model.LinkTypeCustom
		}
	}
	if !model.IsValidLinkType(req.LinkType) {
		validationErrors["link_type"] = "Unknown link type"
	}

	switch req.LinkType {
	case model.LinkTypePage:
		if req.PageID == nil {
			validationErrors["page_id"] = "page_id is required for page links"
		} else if _, err := h.queries.GetPageByID(ctx, *req.PageID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				validationErrors["page_id"] = "Page does not exist"
			} else {
				WriteInternalError(w, "Failed to verify page")
				return params, false
			}
		}
		req.URL = ""
	default:
		if req.URL == "" {
			validationErrors["url"] = "url is required for custom links"
		}
		req.PageID = nil
	}

	if req.ParentID != nil {
		if itemID != 0 && *req.ParentID == itemID {
			validationErrors["parent_id"] = "Item cannot be its own parent"
		} else {
			parent, err := h.queries.GetMenuItemByID(ctx, *req.ParentID)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				validationErrors["parent_id"] = "Parent item does not exist"
			case err != nil:
				WriteInternalError(w, "Failed to verify parent item")
				return params, false
			case parent.MenuID != menuID:
				validationErrors["parent_id"] = "Parent item belongs to another menu"
			default:
				items, err := h.queries.ListMenuItems(ctx, menuID)
				if err != nil {
					WriteInternalError(w, "Failed to verify menu depth")
					return params, false
				}
				if itemID != 0 && service.WouldCycle(items, itemID, parent.ID) {
					validationErrors["parent_id"] = "Parent is inside the item's own subtree"
				} else if depth := itemDepth(items, parent.ID); depth+1 > model.MaxMenuDepth-1 {
					validationErrors["parent_id"] = "Maximum menu depth exceeded"
				}
			}
		}
	}

	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return params, false
	}

	params.Label = req.Label
	params.Target = req.Target
	params.ParentID = util.NullInt64FromPtr(req.ParentID)
	params.PageID = util.NullInt64FromPtr(req.PageID)
	params.Url = util.NullStringFromValue(req.URL)
	params.Icon = util.NullStringFromValue(req.Icon)
	params.IsActive = true
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	return params, true
}

// itemDepth returns the depth of one item within its menu's tree.
func itemDepth(items []store.MenuItem, itemID int64) int {
	for _, f := range service.FlattenTree(items) {
		if f.ID == itemID {
			return f.Depth
		}
	}
	return 0
}

func (h *Handler) requireMenu(w http.ResponseWriter, r *http.Request) (store.Menu, bool) {
	return requireEntityByID(w, r, "menu", func(id int64) (store.Menu, error) {
		return h.queries.GetMenuByID(r.Context(), id)
	})
}

// requireMenuItem resolves both the menu and the item, enforcing that
// the item belongs to the addressed menu.
func (h *Handler) requireMenuItem(w http.ResponseWriter, r *http.Request) (store.Menu, store.MenuItem, bool) {
	menu, ok := h.requireMenu(w, r)
	if !ok {
		return store.Menu{}, store.MenuItem{}, false
	}

	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		WriteBadRequest(w, "Invalid menu item ID", nil)
		return store.Menu{}, store.MenuItem{}, false
	}

	item, err := h.queries.GetMenuItemByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Menu item not found")
		} else {
			WriteInternalError(w, "Failed to retrieve menu item")
		}
		return store.Menu{}, store.MenuItem{}, false
	}
	if item.MenuID != menu.ID {
		WriteNotFound(w, "Menu item not found")
		return store.Menu{}, store.MenuItem{}, false
	}
	return menu, item, true
}

func menuResponse(m store.Menu) MenuResponse {
	return MenuResponse{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func itemResponse(item store.MenuItem, depth int) MenuItemResponse {
	resp := MenuItemResponse{
		ID:        item.ID,
		MenuID:    item.MenuID,
		ParentID:  util.PtrFromNullInt64(item.ParentID),
		Label:     item.Label,
		LinkType:  model.LinkTypeCustom,
		Target:    item.Target,
		PageID:    util.PtrFromNullInt64(item.PageID),
		IsActive:  item.IsActive,
		Position:  item.Position,
		Depth:     depth,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.PageID.Valid {
		resp.LinkType = model.LinkTypePage
	}
	if item.Url.Valid {
		resp.URL = item.Url.String
	}
	if item.Icon.Valid {
		resp.Icon = item.Icon.String
	}
	return resp
}

func flattenedResponses(flat []service.FlattenedItem) []MenuItemResponse {
	responses := make([]MenuItemResponse, 0, len(flat))
	for _, f := range flat {
		responses = append(responses, itemResponse(f.MenuItem, f.Depth))
	}
	return responses
}
