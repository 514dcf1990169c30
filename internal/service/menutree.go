// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store layer.
// The menu tree functions here are pure: they take a snapshot of a
// menu's items and return the new flattened order; persistence is the
// caller's concern.
package service

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

// Tree operation errors surfaced to the API as user-facing messages.
var (
	ErrItemNotFound    = errors.New("menu item not found in this menu")
	ErrNoPrecedingItem = errors.New("item has no preceding item")
	ErrNoFollowingItem = errors.New("item has no following item")
	ErrMaxDepth        = errors.New("maximum menu nesting depth exceeded")
	ErrWouldCycle      = errors.New("cannot nest an item under its own descendant")
	ErrNoParent        = errors.New("item is already at the root level")
)

// FlattenedItem is a menu item annotated with its computed depth and
// its index among siblings. It is a derived, transient view and is
// never persisted.
type FlattenedItem struct {
	store.MenuItem
	Depth int
	Index int
}

// TreeNode is a menu item with nested children.
type TreeNode struct {
	store.MenuItem
	Children []*TreeNode
}

// FlattenTree converts a menu's items into display order: a depth-first
// pre-order walk where each parent is immediately followed by its
// children and siblings are sorted by ascending position.
func FlattenTree(items []store.MenuItem) []FlattenedItem {
	var out []FlattenedItem

	var walk func(parentID *int64, depth int)
	walk = func(parentID *int64, depth int) {
		var siblings []store.MenuItem
		for _, item := range items {
			if sameParent(item, parentID) {
				siblings = append(siblings, item)
			}
		}
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Position < siblings[j].Position
		})

		for idx, item := range siblings {
			out = append(out, FlattenedItem{MenuItem: item, Depth: depth, Index: idx})
			id := item.ID
			walk(&id, depth+1)
		}
	}

	walk(nil, 0)
	return out
}

func sameParent(item store.MenuItem, parentID *int64) bool {
	if parentID == nil {
		return !item.ParentID.Valid
	}
	return item.ParentID.Valid && item.ParentID.Int64 == *parentID
}

// BuildTree converts a flattened list back into a nested forest.
// Items whose parent id is not present in the list are dropped from
// the result; a warning is logged so orphaned rows are observable.
func BuildTree(flat []FlattenedItem) []*TreeNode {
	nodes := make(map[int64]*TreeNode, len(flat))
	for _, item := range flat {
		nodes[item.ID] = &TreeNode{MenuItem: item.MenuItem}
	}

	var roots []*TreeNode
	orphans := 0
	for _, item := range flat {
		node := nodes[item.ID]
		if !item.ParentID.Valid {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[item.ParentID.Int64]
		if !ok {
			orphans++
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	if orphans > 0 {
		slog.Warn("menu items dropped from tree: parent not found", "count", orphans)
	}

	return roots
}

// Reorder moves the item activeID to the position of overID within the
// flattened order, keeping its parent, then reassigns every item's
// position to its index in the new flattened order. A drop onto itself
// is a no-op.
func Reorder(items []store.MenuItem, activeID, overID int64) ([]FlattenedItem, error) {
	flat := FlattenTree(items)

	if activeID == overID {
		return flat, nil
	}

	from := indexOf(flat, activeID)
	if from < 0 {
		return nil, ErrItemNotFound
	}
	to := indexOf(flat, overID)
	if to < 0 {
		return nil, ErrItemNotFound
	}

	moved := flat[from]
	flat = append(flat[:from], flat[from+1:]...)
	flat = append(flat[:to], append([]FlattenedItem{moved}, flat[to:]...)...)

	for i := range flat {
		flat[i].Position = int64(i)
	}
	return flat, nil
}

// Indent nests an item one level deeper by reassigning its parent to
// the item immediately preceding it in the flattened order. It fails
// without mutating anything when there is no preceding item, when the
// resulting depth would exceed the maximum, or when the candidate
// parent is a descendant of the item being moved.
func Indent(items []store.MenuItem, id int64) ([]FlattenedItem, error) {
	flat := FlattenTree(items)

	idx := indexOf(flat, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	if idx == 0 {
		return nil, ErrNoPrecedingItem
	}

	parent := flat[idx-1]
	if parent.Depth+1 > model.MaxMenuDepth-1 {
		return nil, ErrMaxDepth
	}
	// Descendants follow their ancestor in flattened order, so this
	// only fires when the stored parent chain is already inconsistent.
	if isAncestor(items, id, parent.ID) {
		return nil, ErrWouldCycle
	}

	return reparent(items, id, &parent.ID)
}

// Outdent promotes an item one level shallower by reassigning its
// parent to its grandparent. It fails when the item is already at the
// root; no cycle check is needed since outdenting reduces depth.
func Outdent(items []store.MenuItem, id int64) ([]FlattenedItem, error) {
	item, ok := findItem(items, id)
	if !ok {
		return nil, ErrItemNotFound
	}
	if !item.ParentID.Valid {
		return nil, ErrNoParent
	}

	parent, ok := findItem(items, item.ParentID.Int64)
	if !ok {
		// Parent row vanished; promote to root.
		return reparent(items, id, nil)
	}
	if parent.ParentID.Valid {
		gp := parent.ParentID.Int64
		return reparent(items, id, &gp)
	}
	return reparent(items, id, nil)
}

// MoveUp swaps an item's position with its immediate predecessor in
// the full flattened order. The neighbor may belong to a different
// parent; the swap crosses subtree boundaries in that case.
func MoveUp(items []store.MenuItem, id int64) ([]FlattenedItem, error) {
	return swapWithNeighbor(items, id, -1)
}

// MoveDown swaps an item's position with its immediate successor in
// the full flattened order.
func MoveDown(items []store.MenuItem, id int64) ([]FlattenedItem, error) {
	return swapWithNeighbor(items, id, +1)
}

func swapWithNeighbor(items []store.MenuItem, id int64, dir int) ([]FlattenedItem, error) {
	flat := FlattenTree(items)

	idx := indexOf(flat, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	other := idx + dir
	if other < 0 {
		return nil, ErrNoPrecedingItem
	}
	if other >= len(flat) {
		return nil, ErrNoFollowingItem
	}

	posA, posB := flat[idx].Position, flat[other].Position
	updated := make([]store.MenuItem, len(items))
	copy(updated, items)
	for i := range updated {
		switch updated[i].ID {
		case flat[idx].ID:
			updated[i].Position = posB
		case flat[other].ID:
			updated[i].Position = posA
		}
	}

	return FlattenTree(updated), nil
}

// reparent applies a parent change and returns the re-flattened order
// with positions reassigned to flattened indexes.
func reparent(items []store.MenuItem, id int64, parentID *int64) ([]FlattenedItem, error) {
	updated := make([]store.MenuItem, len(items))
	copy(updated, items)
	for i := range updated {
		if updated[i].ID == id {
			if parentID == nil {
				updated[i].ParentID.Valid = false
				updated[i].ParentID.Int64 = 0
			} else {
				updated[i].ParentID.Valid = true
				updated[i].ParentID.Int64 = *parentID
			}
		}
	}

	flat := FlattenTree(updated)
	for i := range flat {
		flat[i].Position = int64(i)
	}
	return flat, nil
}

// WouldCycle reports whether assigning parentID as the parent of item
// id would nest the item inside its own subtree. Self-parenting counts
// as a cycle.
func WouldCycle(items []store.MenuItem, id, parentID int64) bool {
	return id == parentID || isAncestor(items, id, parentID)
}

// isAncestor reports whether candidate has id among its ancestors,
// walking the parent chain with a visited set as cycle protection
// against already-corrupt data.
func isAncestor(items []store.MenuItem, id, candidate int64) bool {
	visited := make(map[int64]bool)
	current := candidate
	for {
		if visited[current] {
			return false
		}
		visited[current] = true

		item, ok := findItem(items, current)
		if !ok || !item.ParentID.Valid {
			return false
		}
		if item.ParentID.Int64 == id {
			return true
		}
		current = item.ParentID.Int64
	}
}

func indexOf(flat []FlattenedItem, id int64) int {
	for i, item := range flat {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func findItem(items []store.MenuItem, id int64) (store.MenuItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return store.MenuItem{}, false
}
