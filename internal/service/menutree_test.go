// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/pressroom/panel/internal/store"
)

// item builds a test MenuItem. parent < 0 means no parent.
func item(id, parent, position int64) store.MenuItem {
	mi := store.MenuItem{ID: id, Position: position}
	if parent >= 0 {
		mi.ParentID = sql.NullInt64{Int64: parent, Valid: true}
	}
	return mi
}

// scenario7 is the three-item fixture used across several tests:
// A and B at root, C nested under A.
func scenario7() []store.MenuItem {
	return []store.MenuItem{
		item(1, -1, 0), // A
		item(2, -1, 1), // B
		item(3, 1, 0),  // C under A
	}
}

func ids(flat []FlattenedItem) []int64 {
	out := make([]int64, len(flat))
	for i, f := range flat {
		out[i] = f.ID
	}
	return out
}

func depths(flat []FlattenedItem) []int {
	out := make([]int, len(flat))
	for i, f := range flat {
		out[i] = f.Depth
	}
	return out
}

func assertOrder(t *testing.T, flat []FlattenedItem, wantIDs []int64, wantDepths []int) {
	t.Helper()
	gotIDs := ids(flat)
	gotDepths := depths(flat)
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("got %d items, want %d: %v", len(gotIDs), len(wantIDs), gotIDs)
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("index %d: got id %d, want %d (order %v)", i, gotIDs[i], wantIDs[i], gotIDs)
		}
		if gotDepths[i] != wantDepths[i] {
			t.Errorf("index %d: got depth %d, want %d", i, gotDepths[i], wantDepths[i])
		}
	}
}

func TestFlattenTree_PreOrder(t *testing.T) {
	// A(0), C under A, B(1) -> [A d0, C d1, B d0]
	flat := FlattenTree(scenario7())
	assertOrder(t, flat, []int64{1, 3, 2}, []int{0, 1, 0})
}

func TestFlattenTree_SiblingOrderByPosition(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 2),
		item(2, -1, 0),
		item(3, -1, 1),
	}
	flat := FlattenTree(items)
	assertOrder(t, flat, []int64{2, 3, 1}, []int{0, 0, 0})
}

func TestFlattenTree_DescendantsFollowParent(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 1, 0),
		item(3, 2, 0),
		item(4, 1, 1),
		item(5, -1, 1),
	}
	flat := FlattenTree(items)
	assertOrder(t, flat, []int64{1, 2, 3, 4, 5}, []int{0, 1, 2, 1, 0})

	// Pre-order property: items after index i with depth > d(i) up to the
	// next depth <= d(i) are exactly i's descendants.
	for i, f := range flat {
		for j := i + 1; j < len(flat); j++ {
			if flat[j].Depth <= f.Depth {
				break
			}
			if !hasAncestor(items, flat[j].ID, f.ID) {
				t.Errorf("item %d at index %d is not a descendant of %d", flat[j].ID, j, f.ID)
			}
		}
	}
}

func hasAncestor(items []store.MenuItem, id, ancestor int64) bool {
	for {
		it, ok := findItem(items, id)
		if !ok || !it.ParentID.Valid {
			return false
		}
		if it.ParentID.Int64 == ancestor {
			return true
		}
		id = it.ParentID.Int64
	}
}

func TestBuildTree_RoundTrip(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 1, 0),
		item(3, 1, 1),
		item(4, 3, 0),
		item(5, -1, 1),
	}
	roots := BuildTree(FlattenTree(items))

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 5 {
		t.Fatalf("root order: got [%d %d], want [1 5]", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("node 1: got %d children, want 2", len(roots[0].Children))
	}
	if roots[0].Children[0].ID != 2 || roots[0].Children[1].ID != 3 {
		t.Errorf("node 1 children: got [%d %d], want [2 3]",
			roots[0].Children[0].ID, roots[0].Children[1].ID)
	}
	if len(roots[0].Children[1].Children) != 1 || roots[0].Children[1].Children[0].ID != 4 {
		t.Errorf("node 3 should have child 4")
	}
}

func TestBuildTree_DropsOrphans(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 99, 0), // parent does not exist
	}
	roots := BuildTree(FlattenTree(items))
	if len(roots) != 1 || roots[0].ID != 1 {
		t.Fatalf("orphan should be dropped, got %d roots", len(roots))
	}
}

func TestReorder(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, -1, 1),
		item(3, -1, 2),
	}

	flat, err := Reorder(items, 3, 1)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, flat, []int64{3, 1, 2}, []int{0, 0, 0})

	// Positions are contiguous flattened indexes.
	for i, f := range flat {
		if f.Position != int64(i) {
			t.Errorf("index %d: position %d, want %d", i, f.Position, i)
		}
	}
}

func TestReorder_SelfIsNoop(t *testing.T) {
	items := scenario7()
	flat, err := Reorder(items, 2, 2)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, flat, []int64{1, 3, 2}, []int{0, 1, 0})
}

func TestReorder_UnknownItem(t *testing.T) {
	if _, err := Reorder(scenario7(), 99, 1); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}
	if _, err := Reorder(scenario7(), 1, 99); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}
}

func TestIndent_Scenario(t *testing.T) {
	// Indenting B: preceding item is C at depth 1, 1+1=2 is within the
	// limit, so B nests under C.
	flat, err := Indent(scenario7(), 2)
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	assertOrder(t, flat, []int64{1, 3, 2}, []int{0, 1, 2})

	b := flat[2]
	if !b.ParentID.Valid || b.ParentID.Int64 != 3 {
		t.Errorf("B should be reparented to C, got %+v", b.ParentID)
	}
}

func TestIndent_FirstItemFails(t *testing.T) {
	if _, err := Indent(scenario7(), 1); !errors.Is(err, ErrNoPrecedingItem) {
		t.Errorf("got %v, want ErrNoPrecedingItem", err)
	}
}

func TestIndent_MaxDepth(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 1, 0),
		item(3, 2, 0), // depth 2, already at the limit
		item(4, -1, 1),
	}
	// Flattened: [1, 2, 3, 4]; indenting 4 would nest under 3 at depth 3.
	if _, err := Indent(items, 4); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("got %v, want ErrMaxDepth", err)
	}
}

func TestWouldCycle(t *testing.T) {
	// chain 1 -> 2 -> 3, plus unrelated root 4
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 1, 0),
		item(3, 2, 0),
		item(4, -1, 1),
	}

	tests := []struct {
		name     string
		id       int64
		parentID int64
		want     bool
	}{
		{"direct child", 1, 2, true},
		{"grandchild", 1, 3, true},
		{"self", 1, 1, true},
		{"unrelated root", 1, 4, false},
		{"own ancestor", 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCycle(items, tt.id, tt.parentID); got != tt.want {
				t.Errorf("WouldCycle(%d, %d) = %v, want %v", tt.id, tt.parentID, got, tt.want)
			}
		})
	}
}

func TestWouldCycle_CorruptChainTerminates(t *testing.T) {
	// 5 and 6 reference each other; the ancestry walk must stop
	// instead of looping, and the loop is not part of item 1's subtree.
	items := []store.MenuItem{
		item(1, -1, 0),
		item(5, 6, 0),
		item(6, 5, 1),
	}
	if WouldCycle(items, 1, 5) {
		t.Error("disjoint corrupt chain reported as a cycle for item 1")
	}
}

func TestOutdent(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, 1, 0),
		item(3, 2, 0),
	}
	flat, err := Outdent(items, 3)
	if err != nil {
		t.Fatalf("Outdent: %v", err)
	}
	// 3 moves from under 2 to under 1 (its grandparent).
	three := flat[indexOf(flat, 3)]
	if !three.ParentID.Valid || three.ParentID.Int64 != 1 {
		t.Errorf("item 3 should be reparented to 1, got %+v", three.ParentID)
	}
	if three.Depth != 1 {
		t.Errorf("item 3 depth: got %d, want 1", three.Depth)
	}
}

func TestOutdent_ToRoot(t *testing.T) {
	flat, err := Outdent(scenario7(), 3)
	if err != nil {
		t.Fatalf("Outdent: %v", err)
	}
	c := flat[indexOf(flat, 3)]
	if c.ParentID.Valid {
		t.Errorf("C should be at root, got parent %d", c.ParentID.Int64)
	}
}

func TestOutdent_RootItemFails(t *testing.T) {
	if _, err := Outdent(scenario7(), 1); !errors.Is(err, ErrNoParent) {
		t.Errorf("got %v, want ErrNoParent", err)
	}
}

func TestMoveUpDown(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 0),
		item(2, -1, 1),
		item(3, -1, 2),
	}

	flat, err := MoveUp(items, 2)
	if err != nil {
		t.Fatalf("MoveUp: %v", err)
	}
	assertOrder(t, flat, []int64{2, 1, 3}, []int{0, 0, 0})

	flat, err = MoveDown(items, 2)
	if err != nil {
		t.Fatalf("MoveDown: %v", err)
	}
	assertOrder(t, flat, []int64{1, 3, 2}, []int{0, 0, 0})
}

func TestMoveUp_FirstItemFails(t *testing.T) {
	if _, err := MoveUp(scenario7(), 1); !errors.Is(err, ErrNoPrecedingItem) {
		t.Errorf("got %v, want ErrNoPrecedingItem", err)
	}
}

func TestMoveDown_LastItemFails(t *testing.T) {
	if _, err := MoveDown(scenario7(), 2); !errors.Is(err, ErrNoFollowingItem) {
		t.Errorf("got %v, want ErrNoFollowingItem", err)
	}
}

func TestRoundTrip_PreservesRelationships(t *testing.T) {
	items := []store.MenuItem{
		item(1, -1, 3),
		item(2, -1, 1),
		item(3, 2, 1),
		item(4, 2, 0),
		item(5, 3, 0),
		item(6, -1, 2),
	}

	flat := FlattenTree(items)
	roots := BuildTree(flat)

	var walk func(nodes []*TreeNode, parent *int64)
	walk = func(nodes []*TreeNode, parent *int64) {
		for _, n := range nodes {
			orig, ok := findItem(items, n.ID)
			if !ok {
				t.Fatalf("unknown item %d in rebuilt tree", n.ID)
			}
			if parent == nil {
				if orig.ParentID.Valid {
					t.Errorf("item %d should not be a root", n.ID)
				}
			} else if !orig.ParentID.Valid || orig.ParentID.Int64 != *parent {
				t.Errorf("item %d: parent mismatch", n.ID)
			}
			id := n.ID
			walk(n.Children, &id)
		}
	}
	walk(roots, nil)

	total := 0
	var count func(nodes []*TreeNode)
	count = func(nodes []*TreeNode) {
		total += len(nodes)
		for _, n := range nodes {
			count(n.Children)
		}
	}
	count(roots)
	if total != len(items) {
		t.Errorf("rebuilt tree has %d items, want %d", total, len(items))
	}
}
