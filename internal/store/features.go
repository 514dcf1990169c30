// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const basicFeatureColumns = "id, name, slug, description, position, created_at, updated_at"

func scanBasicFeature(row interface{ Scan(...any) error }) (BasicFeature, error) {
	var f BasicFeature
	err := row.Scan(&f.ID, &f.Name, &f.Slug, &f.Description, &f.Position, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// CreateBasicFeatureParams holds parameters for CreateBasicFeature.
type CreateBasicFeatureParams struct {
	Name        string
	Slug        string
	Description string
	Position    int64
}

// CreateBasicFeature inserts a basic feature and returns it.
func (q *Queries) CreateBasicFeature(ctx context.Context, arg CreateBasicFeatureParams) (BasicFeature, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO basic_features (name, slug, description, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+basicFeatureColumns,
		arg.Name, arg.Slug, arg.Description, arg.Position, now, now)
	return scanBasicFeature(row)
}

// GetBasicFeatureByID fetches a basic feature by id.
func (q *Queries) GetBasicFeatureByID(ctx context.Context, id int64) (BasicFeature, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+basicFeatureColumns+` FROM basic_features WHERE id = ?`, id)
	return scanBasicFeature(row)
}

// ListBasicFeatures returns all basic features ordered by position.
func (q *Queries) ListBasicFeatures(ctx context.Context) ([]BasicFeature, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+basicFeatureColumns+` FROM basic_features ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []BasicFeature
	for rows.Next() {
		f, err := scanBasicFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// BasicFeatureSlugExists returns the number of features with the given slug.
func (q *Queries) BasicFeatureSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM basic_features WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// UpdateBasicFeatureParams holds parameters for UpdateBasicFeature.
type UpdateBasicFeatureParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Position    int64
}

// UpdateBasicFeature updates a basic feature and returns the updated row.
func (q *Queries) UpdateBasicFeature(ctx context.Context, arg UpdateBasicFeatureParams) (BasicFeature, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE basic_features SET name = ?, slug = ?, description = ?, position = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+basicFeatureColumns,
		arg.Name, arg.Slug, arg.Description, arg.Position, time.Now().UTC(), arg.ID)
	return scanBasicFeature(row)
}

// DeleteBasicFeature deletes a basic feature.
func (q *Queries) DeleteBasicFeature(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM basic_features WHERE id = ?`, id)
	return err
}

// CountPlanAssignmentsByFeature returns the number of plans a basic
// feature is assigned to. Used to refuse deleting an assigned feature.
func (q *Queries) CountPlanAssignmentsByFeature(ctx context.Context, featureID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plan_basic_features WHERE basic_feature_id = ?`, featureID).Scan(&count)
	return count, err
}

// AssignPlanFeatureParams holds parameters for AssignPlanFeature.
type AssignPlanFeatureParams struct {
	PlanID         int64
	BasicFeatureID int64
}

// AssignPlanFeature assigns a basic feature to a plan, ignoring duplicates.
func (q *Queries) AssignPlanFeature(ctx context.Context, arg AssignPlanFeatureParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO plan_basic_features (plan_id, basic_feature_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (plan_id, basic_feature_id) DO NOTHING`,
		arg.PlanID, arg.BasicFeatureID, time.Now().UTC())
	return err
}

// UnassignPlanFeatureParams holds parameters for UnassignPlanFeature.
type UnassignPlanFeatureParams struct {
	PlanID         int64
	BasicFeatureID int64
}

// UnassignPlanFeature removes a basic feature from a plan.
func (q *Queries) UnassignPlanFeature(ctx context.Context, arg UnassignPlanFeatureParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM plan_basic_features WHERE plan_id = ? AND basic_feature_id = ?`,
		arg.PlanID, arg.BasicFeatureID)
	return err
}

// ListPlanFeatures returns the basic features assigned to a plan,
// ordered by feature position.
func (q *Queries) ListPlanFeatures(ctx context.Context, planID int64) ([]BasicFeature, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT f.id, f.name, f.slug, f.description, f.position, f.created_at, f.updated_at
		 FROM basic_features f
		 JOIN plan_basic_features pf ON pf.basic_feature_id = f.id
		 WHERE pf.plan_id = ?
		 ORDER BY f.position, f.id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []BasicFeature
	for rows.Next() {
		f, err := scanBasicFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// ReplacePlanFeatures replaces the full basic-feature assignment of a
// plan. Runs as straight deletes/inserts; callers wrap it in ExecTx.
func (q *Queries) ReplacePlanFeatures(ctx context.Context, planID int64, featureIDs []int64) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM plan_basic_features WHERE plan_id = ?`, planID); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, fid := range featureIDs {
		if _, err := q.db.ExecContext(ctx,
			`INSERT INTO plan_basic_features (plan_id, basic_feature_id, created_at) VALUES (?, ?, ?)`,
			planID, fid, now); err != nil {
			return err
		}
	}
	return nil
}
