// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// PlanResponse represents a plan in API responses.
type PlanResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Badge       *string   `json:"badge,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlanPriceResponse represents a plan price in API responses.
type PlanPriceResponse struct {
	ID             int64     `json:"id"`
	PlanID         int64     `json:"plan_id"`
	BillingCycleID int64     `json:"billing_cycle_id"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
	CompareAtCents *int64    `json:"compare_at_cents,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FeatureLimitResponse represents a numeric plan limit.
type FeatureLimitResponse struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"plan_id"`
	Name      string    `json:"name"`
	Value     int64     `json:"value"`
	Unit      string    `json:"unit,omitempty"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanRequest is the body for creating or updating a plan.
type PlanRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Badge       *string `json:"badge"`
	IsFeatured  *bool   `json:"is_featured"`
	IsActive    *bool   `json:"is_active"`
	Position    *int64  `json:"position"`
}

// PlanPriceRequest is the body for setting a plan's price for a cycle.
type PlanPriceRequest struct {
	BillingCycleID int64  `json:"billing_cycle_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	CompareAtCents *int64 `json:"compare_at_cents"`
}

// FeatureLimitRequest is the body for creating or updating a limit.
type FeatureLimitRequest struct {
	Name     string `json:"name"`
	Value    *int64 `json:"value"`
	Unit     string `json:"unit"`
	Position *int64 `json:"position"`
}

// ReplacePlanFeaturesRequest is the body for replacing a plan's feature set.
type ReplacePlanFeaturesRequest struct {
	FeatureIDs []int64 `json:"feature_ids"`
}

// ListPlans handles GET /api/admin/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.queries.ListPlans(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list plans")
		return
	}
	responses := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		responses = append(responses, planResponse(p))
	}
	WriteSuccess(w, responses, nil)
}

// GetPlan handles GET /api/admin/plans/{id}.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, planResponse(plan), nil)
}

// CreatePlan handles POST /api/admin/plans.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlanRequest
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
		validationErrors["slug"] = "Invalid slug"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PlanSlugExists(ctx, req.Slug)
	}) {
		return
	}

	params := store.CreatePlanParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Badge:       util.NullStringFromPtr(req.Badge),
		IsActive:    true,
	}
	if req.IsFeatured != nil {
		params.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	plan, err := h.queries.CreatePlan(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create plan")
		return
	}
	WriteCreated(w, planResponse(plan))
}

// UpdatePlan handles PUT /api/admin/plans/{id}.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	var req PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdatePlanParams{
		ID:          existing.ID,
		Name:        existing.Name,
		Slug:        existing.Slug,
		Description: existing.Description,
		Badge:       existing.Badge,
		IsFeatured:  existing.IsFeatured,
		IsActive:    existing.IsActive,
		Position:    existing.Position,
	}
	if req.Name != "" {
		params.Name = req.Name
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Invalid slug"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.PlanSlugExists(ctx, req.Slug)
		}) {
			return
		}
		params.Slug = req.Slug
	}
	if req.Description != "" {
		params.Description = req.Description
	}
	if req.Badge != nil {
		params.Badge = util.NullStringFromValue(*req.Badge)
	}
	if req.IsFeatured != nil {
		params.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	plan, err := h.queries.UpdatePlan(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update plan")
		return
	}
	WriteSuccess(w, planResponse(plan), nil)
}

// DeletePlan handles DELETE /api/admin/plans/{id}. Plans assigned to a
// pricing section cannot be removed.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	assignments, err := h.queries.CountSectionAssignmentsByPlan(ctx, plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to check plan usage")
		return
	}
	if assignments > 0 {
		WriteConflict(w, "Plan is assigned to pricing sections")
		return
	}

	if err := h.queries.DeletePlan(ctx, plan.ID); err != nil {
		WriteInternalError(w, "Failed to delete plan")
		return
	}
	WriteSuccess(w, planResponse(plan), nil)
}

// ListPlanPrices handles GET /api/admin/plans/{id}/prices.
func (h *Handler) ListPlanPrices(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}
	prices, err := h.queries.ListPlanPrices(r.Context(), plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list plan prices")
		return
	}
	responses := make([]PlanPriceResponse, 0, len(prices))
	for _, p := range prices {
		responses = append(responses, planPriceResponse(p))
	}
	WriteSuccess(w, responses, nil)
}

// SetPlanPrice handles PUT /api/admin/plans/{id}/prices. One price per
// billing cycle; setting a cycle's price again replaces it.
func (h *Handler) SetPlanPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	var req PlanPriceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := make(map[string]string)
	if req.BillingCycleID <= 0 {
		validationErrors["billing_cycle_id"] = "billing_cycle_id is required"
	}
	if req.AmountCents < 0 {
		validationErrors["amount_cents"] = "Amount cannot be negative"
	}
	req.Currency = strings.ToUpper(req.Currency)
	if len(req.Currency) != 3 {
		validationErrors["currency"] = "Currency must be a 3-letter code"
	}
	if req.CompareAtCents != nil && *req.CompareAtCents < req.AmountCents {
		validationErrors["compare_at_cents"] = "Compare-at price must not be below the price"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if _, err := h.queries.GetBillingCycleByID(ctx, req.BillingCycleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteValidationError(w, map[string]string{"billing_cycle_id": "Billing cycle does not exist"})
		} else {
			WriteInternalError(w, "Failed to verify billing cycle")
		}
		return
	}

	price, err := h.queries.UpsertPlanPrice(ctx, store.UpsertPlanPriceParams{
		PlanID:         plan.ID,
		BillingCycleID: req.BillingCycleID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		CompareAtCents: util.NullInt64FromPtr(req.CompareAtCents),
	})
	if err != nil {
		WriteInternalError(w, "Failed to store plan price")
		return
	}
	WriteSuccess(w, planPriceResponse(price), nil)
}

// DeletePlanPrice handles DELETE /api/admin/plans/{id}/prices/{priceID}.
func (h *Handler) DeletePlanPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	priceID, err := parseIDParam(r, "priceID")
	if err != nil {
		WriteBadRequest(w, "Invalid price ID", nil)
		return
	}

	price, err := h.queries.GetPlanPriceByID(ctx, priceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Price not found")
		} else {
			WriteInternalError(w, "Failed to retrieve price")
		}
		return
	}
	if price.PlanID != plan.ID {
		WriteNotFound(w, "Price not found")
		return
	}

	if err := h.queries.DeletePlanPrice(ctx, priceID); err != nil {
		WriteInternalError(w, "Failed to delete price")
		return
	}
	WriteSuccess(w, planPriceResponse(price), nil)
}

// ListPlanFeatures handles GET /api/admin/plans/{id}/features.
func (h *Handler) ListPlanFeatures(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}
	features, err := h.queries.ListPlanFeatures(r.Context(), plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list plan features")
		return
	}
	responses := make([]BasicFeatureResponse, 0, len(features))
	for _, f := range features {
		responses = append(responses, basicFeatureResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// ReplacePlanFeatures handles PUT /api/admin/plans/{id}/features. The
// plan's feature set becomes exactly the given IDs.
func (h *Handler) ReplacePlanFeatures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	var req ReplacePlanFeaturesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, fid := range req.FeatureIDs {
		if _, err := h.queries.GetBasicFeatureByID(ctx, fid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteValidationError(w, map[string]string{"feature_ids": "Feature does not exist"})
			} else {
				WriteInternalError(w, "Failed to verify features")
			}
			return
		}
	}

	err := store.ExecTx(ctx, h.db, func(q *store.Queries) error {
		return q.ReplacePlanFeatures(ctx, plan.ID, req.FeatureIDs)
	})
	if err != nil {
		WriteInternalError(w, "Failed to replace plan features")
		return
	}

	features, err := h.queries.ListPlanFeatures(ctx, plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list plan features")
		return
	}
	responses := make([]BasicFeatureResponse, 0, len(features))
	for _, f := range features {
		responses = append(responses, basicFeatureResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// ListFeatureLimits handles GET /api/admin/plans/{id}/limits.
func (h *Handler) ListFeatureLimits(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}
	limits, err := h.queries.ListFeatureLimits(r.Context(), plan.ID)
	if err != nil {
		WriteInternalError(w, "Failed to list feature limits")
		return
	}
	responses := make([]FeatureLimitResponse, 0, len(limits))
	for _, l := range limits {
		responses = append(responses, featureLimitResponse(l))
	}
	WriteSuccess(w, responses, nil)
}

// CreateFeatureLimit handles POST /api/admin/plans/{id}/limits.
func (h *Handler) CreateFeatureLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, ok := h.requirePlan(w, r)
	if !ok {
		return
	}

	var req FeatureLimitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if req.Value == nil {
		validationErrors["value"] = "Value is required"
	} else if *req.Value < 0 {
		validationErrors["value"] = "Value cannot be negative"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	params := store.CreateFeatureLimitParams{
		PlanID: plan.ID,
		Name:   req.Name,
		Value:  *req.Value,
		Unit:   req.Unit,
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	limit, err := h.queries.CreateFeatureLimit(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create feature limit")
		return
	}
	WriteCreated(w, featureLimitResponse(limit))
}

// UpdateFeatureLimit handles PUT /api/admin/plans/{id}/limits/{limitID}.
func (h *Handler) UpdateFeatureLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, limit, ok := h.requireFeatureLimit(w, r)
	if !ok {
		return
	}

	var req FeatureLimitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := store.UpdateFeatureLimitParams{
		ID:       limit.ID,
		Name:     limit.Name,
		Value:    limit.Value,
		Unit:     limit.Unit,
		Position: limit.Position,
	}
	if req.Name != "" {
		params.Name = req.Name
	}
	if req.Value != nil {
		if *req.Value < 0 {
			WriteValidationError(w, map[string]string{"value": "Value cannot be negative"})
			return
		}
		params.Value = *req.Value
	}
	if req.Unit != "" {
		params.Unit = req.Unit
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	updated, err := h.queries.UpdateFeatureLimit(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update feature limit")
		return
	}
	WriteSuccess(w, featureLimitResponse(updated), nil)
}

// DeleteFeatureLimit handles DELETE /api/admin/plans/{id}/limits/{limitID}.
func (h *Handler) DeleteFeatureLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, limit, ok := h.requireFeatureLimit(w, r)
	if !ok {
		return
	}
	if err := h.queries.DeleteFeatureLimit(ctx, limit.ID); err != nil {
		WriteInternalError(w, "Failed to delete feature limit")
		return
	}
	WriteSuccess(w, featureLimitResponse(limit), nil)
}

func (h *Handler) requirePlan(w http.ResponseWriter, r *http.Request) (store.Plan, bool) {
	return requireEntityByID(w, r, "plan", func(id int64) (store.Plan, error) {
		return h.queries.GetPlanByID(r.Context(), id)
	})
}

func (h *Handler) requireFeatureLimit(w http.ResponseWriter, r *http.Request) (store.Plan, store.FeatureLimit, bool) {
	plan, ok := h.requirePlan(w, r)
	if !ok {
		return store.Plan{}, store.FeatureLimit{}, false
	}

	limitID, err := parseIDParam(r, "limitID")
	if err != nil {
		WriteBadRequest(w, "Invalid limit ID", nil)
		return store.Plan{}, store.FeatureLimit{}, false
	}

	limit, err := h.queries.GetFeatureLimitByID(r.Context(), limitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Feature limit not found")
		} else {
			WriteInternalError(w, "Failed to retrieve feature limit")
		}
		return store.Plan{}, store.FeatureLimit{}, false
	}
	if limit.PlanID != plan.ID {
		WriteNotFound(w, "Feature limit not found")
		return store.Plan{}, store.FeatureLimit{}, false
	}
	return plan, limit, true
}

func planResponse(p store.Plan) PlanResponse {
	return PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Badge:       util.PtrFromNullString(p.Badge),
		IsFeatured:  p.IsFeatured,
		IsActive:    p.IsActive,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func planPriceResponse(p store.PlanPrice) PlanPriceResponse {
	return PlanPriceResponse{
		ID:             p.ID,
		PlanID:         p.PlanID,
		BillingCycleID: p.BillingCycleID,
		AmountCents:    p.AmountCents,
		Currency:       p.Currency,
		CompareAtCents: util.PtrFromNullInt64(p.CompareAtCents),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func featureLimitResponse(l store.FeatureLimit) FeatureLimitResponse {
	return FeatureLimitResponse{
		ID:        l.ID,
		PlanID:    l.PlanID,
		Name:      l.Name,
		Value:     l.Value,
		Unit:      l.Unit,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
