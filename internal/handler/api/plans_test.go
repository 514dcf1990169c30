// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/store"
)

func TestCreatePlan_Validation(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/admin/plans", api.PlanRequest{Name: ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeErrorDetails(t, rec), "name")

	rec = a.do(t, http.MethodPost, "/api/admin/plans", api.PlanRequest{Name: "Pro Plan"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var plan api.PlanResponse
	decodeData(t, rec, &plan)
	require.Equal(t, "Pro Plan", plan.Name)
	require.Equal(t, "pro-plan", plan.Slug)
	require.True(t, plan.IsActive)

	// slug collision
	rec = a.do(t, http.MethodPost, "/api/admin/plans", api.PlanRequest{Name: "Pro Plan"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeErrorDetails(t, rec), "slug")
}

func TestSetPlanPrice(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	plan, err := a.queries.CreatePlan(ctx, store.CreatePlanParams{
		Name: "Starter", Slug: "starter", IsActive: true,
	})
	require.NoError(t, err)
	cycle, err := a.queries.CreateBillingCycle(ctx, store.CreateBillingCycleParams{
		Name: "Monthly", Slug: "monthly", Months: 1, IsActive: true,
	})
	require.NoError(t, err)

	pricesPath := "/api/admin/plans/" + itoa(plan.ID) + "/prices"

	tests := []struct {
		name  string
		req   api.PlanPriceRequest
		field string
	}{
		{"bad currency", api.PlanPriceRequest{BillingCycleID: cycle.ID, AmountCents: 900, Currency: "EURO"}, "currency"},
		{"negative amount", api.PlanPriceRequest{BillingCycleID: cycle.ID, AmountCents: -1, Currency: "EUR"}, "amount_cents"},
		{"missing cycle", api.PlanPriceRequest{AmountCents: 900, Currency: "EUR"}, "billing_cycle_id"},
		{"unknown cycle", api.PlanPriceRequest{BillingCycleID: cycle.ID + 99, AmountCents: 900, Currency: "EUR"}, "billing_cycle_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPut, pricesPath, tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, decodeErrorDetails(t, rec), tt.field)
		})
	}

	rec := a.do(t, http.MethodPut, pricesPath, api.PlanPriceRequest{
		BillingCycleID: cycle.ID, AmountCents: 900, Currency: "eur",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var price api.PlanPriceResponse
	decodeData(t, rec, &price)
	require.Equal(t, int64(900), price.AmountCents)
	require.Equal(t, "EUR", price.Currency)

	// setting the same cycle again replaces, never duplicates
	rec = a.do(t, http.MethodPut, pricesPath, api.PlanPriceRequest{
		BillingCycleID: cycle.ID, AmountCents: 1200, Currency: "EUR",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	prices, err := a.queries.ListPlanPrices(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Equal(t, int64(1200), prices[0].AmountCents)
}

func TestDeletePlan_AssignedToSection(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	plan, err := a.queries.CreatePlan(ctx, store.CreatePlanParams{
		Name: "Team", Slug: "team", IsActive: true,
	})
	require.NoError(t, err)
	section, err := a.queries.CreatePricingSection(ctx, store.CreatePricingSectionParams{
		Name: "Landing", Slug: "landing", IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, a.queries.AssignSectionPlan(ctx, store.AssignSectionPlanParams{
		SectionID: section.ID, PlanID: plan.ID,
	}))

	rec := a.do(t, http.MethodDelete, "/api/admin/plans/"+itoa(plan.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	_, err = a.queries.GetPlanByID(ctx, plan.ID)
	require.NoError(t, err)

	require.NoError(t, a.queries.UnassignSectionPlan(ctx, store.UnassignSectionPlanParams{
		SectionID: section.ID, PlanID: plan.ID,
	}))
	rec = a.do(t, http.MethodDelete, "/api/admin/plans/"+itoa(plan.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted api.PlanResponse
	decodeData(t, rec, &deleted)
	require.Equal(t, plan.ID, deleted.ID)
}
