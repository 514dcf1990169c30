// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

func TestUpsertSubscriber_TokenRefresh(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	sub, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "reader@example.com", Token: "token-1",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	if sub.Status != "pending" || sub.Token != "token-1" {
		t.Fatalf("unexpected subscriber: %+v", sub)
	}

	// Re-subscribing a pending address refreshes the token.
	sub, err = q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "reader@example.com", Token: "token-2",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber repeat: %v", err)
	}
	if sub.Token != "token-2" || sub.Status != "pending" {
		t.Errorf("pending token should refresh: %+v", sub)
	}

	n, err := q.CountSubscribers(ctx, "")
	if err != nil {
		t.Fatalf("CountSubscribers: %v", err)
	}
	if n != 1 {
		t.Errorf("duplicate row created: count %d", n)
	}
}

func TestUpsertSubscriber_ConfirmedUnchanged(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	sub, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "reader@example.com", Token: "token-1",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	confirmed, err := q.ConfirmSubscriber(ctx, sub.ID)
	if err != nil {
		t.Fatalf("ConfirmSubscriber: %v", err)
	}
	if confirmed.Status != "confirmed" || !confirmed.ConfirmedAt.Valid {
		t.Fatalf("unexpected confirm result: %+v", confirmed)
	}

	// Re-subscribing a confirmed address is a no-op.
	again, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "reader@example.com", Token: "token-2",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber after confirm: %v", err)
	}
	if again.Status != "confirmed" || again.Token != "token-1" {
		t.Errorf("confirmed subscriber should be unchanged: %+v", again)
	}
}

func TestPurgePendingSubscribers(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	stale, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "stale@example.com", Token: "t1",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	fresh, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "fresh@example.com", Token: "t2",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	confirmedOld, err := q.UpsertSubscriber(ctx, store.UpsertSubscriberParams{
		Email: "confirmed@example.com", Token: "t3",
	})
	if err != nil {
		t.Fatalf("UpsertSubscriber: %v", err)
	}
	if _, err := q.ConfirmSubscriber(ctx, confirmedOld.ID); err != nil {
		t.Fatalf("ConfirmSubscriber: %v", err)
	}

	// Backdate two rows past the retention window.
	old := time.Now().UTC().Add(-80 * time.Hour)
	for _, id := range []int64{stale.ID, confirmedOld.ID} {
		if _, err := db.ExecContext(ctx,
			`UPDATE newsletter_subscribers SET created_at = ? WHERE id = ?`, old, id); err != nil {
			t.Fatalf("backdating: %v", err)
		}
	}

	purged, err := q.PurgePendingSubscribers(ctx, time.Now().UTC().Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("PurgePendingSubscribers: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d rows, want 1 (only the stale pending one)", purged)
	}

	if _, err := q.GetSubscriberByID(ctx, fresh.ID); err != nil {
		t.Errorf("fresh pending subscriber should survive: %v", err)
	}
	if _, err := q.GetSubscriberByID(ctx, confirmedOld.ID); err != nil {
		t.Errorf("confirmed subscriber should survive: %v", err)
	}
}
