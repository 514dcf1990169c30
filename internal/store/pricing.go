// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const pricingSectionColumns = "id, name, slug, heading, subheading, theme, is_active, position, created_at, updated_at"

func scanPricingSection(row interface{ Scan(...any) error }) (PricingSection, error) {
	var s PricingSection
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Heading, &s.Subheading,
		&s.Theme, &s.IsActive, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreatePricingSectionParams holds parameters for CreatePricingSection.
type CreatePricingSectionParams struct {
	Name       string
	Slug       string
	Heading    string
	Subheading string
	Theme      string
	IsActive   bool
	Position   int64
}

// CreatePricingSection inserts a pricing section and returns it.
func (q *Queries) CreatePricingSection(ctx context.Context, arg CreatePricingSectionParams) (PricingSection, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO pricing_sections (name, slug, heading, subheading, theme, is_active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+pricingSectionColumns,
		arg.Name, arg.Slug, arg.Heading, arg.Subheading, arg.Theme, arg.IsActive, arg.Position, now, now)
	return scanPricingSection(row)
}

// GetPricingSectionByID fetches a pricing section by id.
func (q *Queries) GetPricingSectionByID(ctx context.Context, id int64) (PricingSection, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pricingSectionColumns+` FROM pricing_sections WHERE id = ?`, id)
	return scanPricingSection(row)
}

// ListPricingSections returns all pricing sections ordered by position.
func (q *Queries) ListPricingSections(ctx context.Context) ([]PricingSection, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pricingSectionColumns+` FROM pricing_sections ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []PricingSection
	for rows.Next() {
		s, err := scanPricingSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// PricingSectionSlugExists returns the number of sections with the given slug.
func (q *Queries) PricingSectionSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pricing_sections WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdatePricingSectionParams holds parameters for UpdatePricingSection.
type UpdatePricingSectionParams struct {
	ID         int64
	Name       string
	Slug       string
	Heading    string
	Subheading string
	Theme      string
	IsActive   bool
	Position   int64
}

// UpdatePricingSection updates a pricing section and returns the updated row.
func (q *Queries) UpdatePricingSection(ctx context.Context, arg UpdatePricingSectionParams) (PricingSection, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE pricing_sections
		 SET name = ?, slug = ?, heading = ?, subheading = ?, theme = ?, is_active = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+pricingSectionColumns,
		arg.Name, arg.Slug, arg.Heading, arg.Subheading, arg.Theme,
		arg.IsActive, arg.Position, time.Now().UTC(), arg.ID)
	return scanPricingSection(row)
}

// DeletePricingSection deletes a pricing section. Plan assignments cascade.
func (q *Queries) DeletePricingSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pricing_sections WHERE id = ?`, id)
	return err
}

// AssignSectionPlanParams holds parameters for AssignSectionPlan.
type AssignSectionPlanParams struct {
	SectionID int64
	PlanID    int64
	Position  int64
}

// AssignSectionPlan assigns a plan to a pricing section.
func (q *Queries) AssignSectionPlan(ctx context.Context, arg AssignSectionPlanParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO pricing_section_plans (section_id, plan_id, position, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (section_id, plan_id) DO UPDATE SET position = excluded.position`,
		arg.SectionID, arg.PlanID, arg.Position, time.Now().UTC())
	return err
}

// UnassignSectionPlanParams holds parameters for UnassignSectionPlan.
type UnassignSectionPlanParams struct {
	SectionID int64
	PlanID    int64
}

// UnassignSectionPlan removes a plan from a pricing section.
func (q *Queries) UnassignSectionPlan(ctx context.Context, arg UnassignSectionPlanParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM pricing_section_plans WHERE section_id = ? AND plan_id = ?`,
		arg.SectionID, arg.PlanID)
	return err
}

// ListSectionPlans returns the plans assigned to a section in
// assignment order.
func (q *Queries) ListSectionPlans(ctx context.Context, sectionID int64) ([]Plan, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.slug, p.description, p.badge, p.is_featured, p.is_active, p.position, p.created_at, p.updated_at
		 FROM plans p
		 JOIN pricing_section_plans sp ON sp.plan_id = p.id
		 WHERE sp.section_id = ?
		 ORDER BY sp.position, sp.id`, sectionID)
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
