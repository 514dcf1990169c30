// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const billingCycleColumns = "id, name, slug, months, position, is_active, created_at, updated_at"

func scanBillingCycle(row interface{ Scan(...any) error }) (BillingCycle, error) {
	var c BillingCycle
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Months, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateBillingCycleParams holds parameters for CreateBillingCycle.
type CreateBillingCycleParams struct {
	Name     string
	Slug     string
	Months   int64
	Position int64
	IsActive bool
}

// CreateBillingCycle inserts a billing cycle and returns it.
func (q *Queries) CreateBillingCycle(ctx context.Context, arg CreateBillingCycleParams) (BillingCycle, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO billing_cycles (name, slug, months, position, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+billingCycleColumns,
		arg.Name, arg.Slug, arg.Months, arg.Position, arg.IsActive, now, now)
	return scanBillingCycle(row)
}

// GetBillingCycleByID fetches a billing cycle by id.
func (q *Queries) GetBillingCycleByID(ctx context.Context, id int64) (BillingCycle, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+billingCycleColumns+` FROM billing_cycles WHERE id = ?`, id)
	return scanBillingCycle(row)
}

// ListBillingCycles returns all billing cycles ordered by position.
func (q *Queries) ListBillingCycles(ctx context.Context) ([]BillingCycle, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+billingCycleColumns+` FROM billing_cycles ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []BillingCycle
	for rows.Next() {
		c, err := scanBillingCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// BillingCycleSlugExists returns the number of cycles with the given slug.
func (q *Queries) BillingCycleSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM billing_cycles WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdateBillingCycleParams holds parameters for UpdateBillingCycle.
type UpdateBillingCycleParams struct {
	ID       int64
	Name     string
	Slug     string
	Months   int64
	Position int64
	IsActive bool
}

// UpdateBillingCycle updates a billing cycle and returns the updated row.
func (q *Queries) UpdateBillingCycle(ctx context.Context, arg UpdateBillingCycleParams) (BillingCycle, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE billing_cycles
		 SET name = ?, slug = ?, months = ?, position = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+billingCycleColumns,
		arg.Name, arg.Slug, arg.Months, arg.Position, arg.IsActive, time.Now().UTC(), arg.ID)
	return scanBillingCycle(row)
}

// DeleteBillingCycle deletes a billing cycle.
func (q *Queries) DeleteBillingCycle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM billing_cycles WHERE id = ?`, id)
	return err
}

// CountPlanPricesByCycle returns the number of plan prices using a cycle.
// Used to refuse deleting a cycle that is still priced against.
func (q *Queries) CountPlanPricesByCycle(ctx context.Context, cycleID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plan_prices WHERE billing_cycle_id = ?`, cycleID).Scan(&count)
	return count, err
}
