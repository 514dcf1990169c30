// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const planColumns = "id, name, slug, description, badge, is_featured, is_active, position, created_at, updated_at"

func scanPlan(row interface{ Scan(...any) error }) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Badge,
		&p.IsFeatured, &p.IsActive, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePlanParams holds parameters for CreatePlan.
type CreatePlanParams struct {
	Name        string
	Slug        string
	Description string
	Badge       sql.NullString
	IsFeatured  bool
	IsActive    bool
	Position    int64
}

// CreatePlan inserts a plan and returns it.
func (q *Queries) CreatePlan(ctx context.Context, arg CreatePlanParams) (Plan, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO plans (name, slug, description, badge, is_featured, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+planColumns,
		arg.Name, arg.Slug, arg.Description, arg.Badge, arg.IsFeatured, arg.IsActive, arg.Position, now, now)
	return scanPlan(row)
}

// GetPlanByID fetches a plan by id.
func (q *Queries) GetPlanByID(ctx context.Context, id int64) (Plan, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	return scanPlan(row)
}

// ListPlans returns all plans ordered by position.
func (q *Queries) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// PlanSlugExists returns the number of plans with the given slug.
func (q *Queries) PlanSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdatePlanParams holds parameters for UpdatePlan.
type UpdatePlanParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Badge       sql.NullString
	IsFeatured  bool
	IsActive    bool
	Position    int64
}

// UpdatePlan updates a plan and returns the updated row.
func (q *Queries) UpdatePlan(ctx context.Context, arg UpdatePlanParams) (Plan, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE plans
		 SET name = ?, slug = ?, description = ?, badge = ?, is_featured = ?, is_active = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+planColumns,
		arg.Name, arg.Slug, arg.Description, arg.Badge, arg.IsFeatured,
		arg.IsActive, arg.Position, time.Now().UTC(), arg.ID)
	return scanPlan(row)
}

// DeletePlan deletes a plan. Prices, limits and feature assignments cascade.
func (q *Queries) DeletePlan(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	return err
}

// CountSectionAssignmentsByPlan returns the number of pricing sections
// a plan is assigned to. Used to refuse deleting an assigned plan.
func (q *Queries) CountSectionAssignmentsByPlan(ctx context.Context, planID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pricing_section_plans WHERE plan_id = ?`, planID).Scan(&count)
	return count, err
}

const planPriceColumns = "id, plan_id, billing_cycle_id, amount_cents, currency, compare_at_cents, created_at, updated_at"

func scanPlanPrice(row interface{ Scan(...any) error }) (PlanPrice, error) {
	var p PlanPrice
	err := row.Scan(&p.ID, &p.PlanID, &p.BillingCycleID, &p.AmountCents,
		&p.Currency, &p.CompareAtCents, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// UpsertPlanPriceParams holds parameters for UpsertPlanPrice.
type UpsertPlanPriceParams struct {
	PlanID         int64
	BillingCycleID int64
	AmountCents    int64
	Currency       string
	CompareAtCents sql.NullInt64
}

// UpsertPlanPrice inserts or replaces the price of a plan for one
// billing cycle and returns the stored row.
func (q *Queries) UpsertPlanPrice(ctx context.Context, arg UpsertPlanPriceParams) (PlanPrice, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO plan_prices (plan_id, billing_cycle_id, amount_cents, currency, compare_at_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (plan_id, billing_cycle_id) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			currency = excluded.currency,
			compare_at_cents = excluded.compare_at_cents,
			updated_at = excluded.updated_at
		 RETURNING `+planPriceColumns,
		arg.PlanID, arg.BillingCycleID, arg.AmountCents, arg.Currency, arg.CompareAtCents, now, now)
	return scanPlanPrice(row)
}

// ListPlanPrices returns all prices for a plan ordered by cycle position.
func (q *Queries) ListPlanPrices(ctx context.Context, planID int64) ([]PlanPrice, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT p.id, p.plan_id, p.billing_cycle_id, p.amount_cents, p.currency, p.compare_at_cents, p.created_at, p.updated_at
		 FROM plan_prices p
		 JOIN billing_cycles c ON c.id = p.billing_cycle_id
		 WHERE p.plan_id = ?
		 ORDER BY c.position, c.id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []PlanPrice
	for rows.Next() {
		p, err := scanPlanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// DeletePlanPrice removes the price of a plan for one billing cycle.
func (q *Queries) DeletePlanPrice(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM plan_prices WHERE id = ?`, id)
	return err
}

// GetPlanPriceByID fetches a plan price by id.
func (q *Queries) GetPlanPriceByID(ctx context.Context, id int64) (PlanPrice, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+planPriceColumns+` FROM plan_prices WHERE id = ?`, id)
	return scanPlanPrice(row)
}

const featureLimitColumns = "id, plan_id, name, value, unit, position, created_at, updated_at"

func scanFeatureLimit(row interface{ Scan(...any) error }) (FeatureLimit, error) {
	var l FeatureLimit
	err := row.Scan(&l.ID, &l.PlanID, &l.Name, &l.Value, &l.Unit, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// CreateFeatureLimitParams holds parameters for CreateFeatureLimit.
type CreateFeatureLimitParams struct {
	PlanID   int64
	Name     string
	Value    int64
	Unit     string
	Position int64
}

// CreateFeatureLimit inserts a feature limit and returns it.
func (q *Queries) CreateFeatureLimit(ctx context.Context, arg CreateFeatureLimitParams) (FeatureLimit, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO feature_limits (plan_id, name, value, unit, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+featureLimitColumns,
		arg.PlanID, arg.Name, arg.Value, arg.Unit, arg.Position, now, now)
	return scanFeatureLimit(row)
}

// GetFeatureLimitByID fetches a feature limit by id.
func (q *Queries) GetFeatureLimitByID(ctx context.Context, id int64) (FeatureLimit, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+featureLimitColumns+` FROM feature_limits WHERE id = ?`, id)
	return scanFeatureLimit(row)
}

// ListFeatureLimits returns all limits of a plan ordered by position.
func (q *Queries) ListFeatureLimits(ctx context.Context, planID int64) ([]FeatureLimit, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+featureLimitColumns+` FROM feature_limits WHERE plan_id = ? ORDER BY position, id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var limits []FeatureLimit
	for rows.Next() {
		l, err := scanFeatureLimit(rows)
		if err != nil {
			return nil, err
		}
		limits = append(limits, l)
	}
	return limits, rows.Err()
}

// UpdateFeatureLimitParams holds parameters for UpdateFeatureLimit.
type UpdateFeatureLimitParams struct {
	ID       int64
	Name     string
	Value    int64
	Unit     string
	Position int64
}

// UpdateFeatureLimit updates a feature limit and returns the updated row.
func (q *Queries) UpdateFeatureLimit(ctx context.Context, arg UpdateFeatureLimitParams) (FeatureLimit, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE feature_limits SET name = ?, value = ?, unit = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+featureLimitColumns,
		arg.Name, arg.Value, arg.Unit, arg.Position, time.Now().UTC(), arg.ID)
	return scanFeatureLimit(row)
}

// DeleteFeatureLimit deletes a feature limit.
func (q *Queries) DeleteFeatureLimit(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM feature_limits WHERE id = ?`, id)
	return err
}
