// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const subscriberColumns = "id, email, status, token, confirmed_at, created_at, updated_at"

func scanSubscriber(row interface{ Scan(...any) error }) (NewsletterSubscriber, error) {
	var s NewsletterSubscriber
	err := row.Scan(&s.ID, &s.Email, &s.Status, &s.Token, &s.ConfirmedAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// UpsertSubscriberParams holds parameters for UpsertSubscriber.
type UpsertSubscriberParams struct {
	Email string
	Token string
}

// UpsertSubscriber inserts a pending subscriber, or refreshes the token
// of an existing non-confirmed one. Confirmed subscribers are returned
// unchanged so re-subscribing is idempotent.
func (q *Queries) UpsertSubscriber(ctx context.Context, arg UpsertSubscriberParams) (NewsletterSubscriber, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO newsletter_subscribers (email, status, token, created_at, updated_at)
		 VALUES (?, 'pending', ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET
			token = CASE WHEN newsletter_subscribers.status = 'confirmed' THEN newsletter_subscribers.token ELSE excluded.token END,
			status = CASE WHEN newsletter_subscribers.status = 'confirmed' THEN 'confirmed' ELSE 'pending' END,
			updated_at = excluded.updated_at
		 RETURNING `+subscriberColumns,
		arg.Email, arg.Token, now, now)
	return scanSubscriber(row)
}

// GetSubscriberByToken fetches a subscriber by confirmation token.
func (q *Queries) GetSubscriberByToken(ctx context.Context, token string) (NewsletterSubscriber, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE token = ?`, token)
	return scanSubscriber(row)
}

// GetSubscriberByID fetches a subscriber by id.
func (q *Queries) GetSubscriberByID(ctx context.Context, id int64) (NewsletterSubscriber, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE id = ?`, id)
	return scanSubscriber(row)
}

// ConfirmSubscriber marks a subscriber as confirmed.
func (q *Queries) ConfirmSubscriber(ctx context.Context, id int64) (NewsletterSubscriber, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`UPDATE newsletter_subscribers
		 SET status = 'confirmed', confirmed_at = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+subscriberColumns,
		sql.NullTime{Time: now, Valid: true}, now, id)
	return scanSubscriber(row)
}

// ListSubscribersParams holds parameters for ListSubscribers.
type ListSubscribersParams struct {
	Status string // empty matches all statuses
	Limit  int64
	Offset int64
}

// ListSubscribers returns subscribers, newest first, optionally by status.
func (q *Queries) ListSubscribers(ctx context.Context, arg ListSubscribersParams) ([]NewsletterSubscriber, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers
		 WHERE (? = '' OR status = ?)
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []NewsletterSubscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// CountSubscribers returns the number of subscribers, optionally by status.
func (q *Queries) CountSubscribers(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE (? = '' OR status = ?)`,
		status, status).Scan(&count)
	return count, err
}

// UpdateSubscriberStatusParams holds parameters for UpdateSubscriberStatus.
type UpdateSubscriberStatusParams struct {
	ID     int64
	Status string
}

// UpdateSubscriberStatus sets a subscriber's status (admin edit).
func (q *Queries) UpdateSubscriberStatus(ctx context.Context, arg UpdateSubscriberStatusParams) (NewsletterSubscriber, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE newsletter_subscribers SET status = ?, updated_at = ? WHERE id = ?
		 RETURNING `+subscriberColumns,
		arg.Status, time.Now().UTC(), arg.ID)
	return scanSubscriber(row)
}

// DeleteSubscriber deletes a subscriber.
func (q *Queries) DeleteSubscriber(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM newsletter_subscribers WHERE id = ?`, id)
	return err
}

// PurgePendingSubscribers deletes pending subscribers created before
// the cutoff. Returns the number of rows removed.
func (q *Queries) PurgePendingSubscribers(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM newsletter_subscribers WHERE status = 'pending' AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
