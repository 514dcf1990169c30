// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

func TestUpsertPlanPrice(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	plan, err := q.CreatePlan(ctx, store.CreatePlanParams{Name: "Pro", Slug: "pro", IsActive: true})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	cycle, err := q.CreateBillingCycle(ctx, store.CreateBillingCycleParams{
		Name: "Monthly", Slug: "monthly", Months: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBillingCycle: %v", err)
	}

	price, err := q.UpsertPlanPrice(ctx, store.UpsertPlanPriceParams{
		PlanID: plan.ID, BillingCycleID: cycle.ID, AmountCents: 1900, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("UpsertPlanPrice insert: %v", err)
	}
	if price.AmountCents != 1900 {
		t.Errorf("amount: got %d, want 1900", price.AmountCents)
	}

	// A second upsert for the same cycle replaces, never duplicates.
	price, err = q.UpsertPlanPrice(ctx, store.UpsertPlanPriceParams{
		PlanID: plan.ID, BillingCycleID: cycle.ID, AmountCents: 2400, Currency: "USD",
	})
	if err != nil {
		t.Fatalf("UpsertPlanPrice update: %v", err)
	}
	if price.AmountCents != 2400 {
		t.Errorf("amount after upsert: got %d, want 2400", price.AmountCents)
	}

	prices, err := q.ListPlanPrices(ctx, plan.ID)
	if err != nil {
		t.Fatalf("ListPlanPrices: %v", err)
	}
	if len(prices) != 1 {
		t.Errorf("got %d prices, want 1", len(prices))
	}

	n, err := q.CountPlanPricesByCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("CountPlanPricesByCycle: %v", err)
	}
	if n != 1 {
		t.Errorf("cycle price count: got %d, want 1", n)
	}
}

func TestReplacePlanFeatures(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	plan, err := q.CreatePlan(ctx, store.CreatePlanParams{Name: "Pro", Slug: "pro", IsActive: true})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	var featureIDs []int64
	for _, slug := range []string{"api", "sso", "audit"} {
		f, err := q.CreateBasicFeature(ctx, store.CreateBasicFeatureParams{Name: slug, Slug: slug})
		if err != nil {
			t.Fatalf("CreateBasicFeature: %v", err)
		}
		featureIDs = append(featureIDs, f.ID)
	}

	if err := q.ReplacePlanFeatures(ctx, plan.ID, featureIDs[:2]); err != nil {
		t.Fatalf("ReplacePlanFeatures: %v", err)
	}
	features, err := q.ListPlanFeatures(ctx, plan.ID)
	if err != nil {
		t.Fatalf("ListPlanFeatures: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2", len(features))
	}

	// Replacement swaps the whole set.
	if err := q.ReplacePlanFeatures(ctx, plan.ID, featureIDs[2:]); err != nil {
		t.Fatalf("ReplacePlanFeatures swap: %v", err)
	}
	features, err = q.ListPlanFeatures(ctx, plan.ID)
	if err != nil {
		t.Fatalf("ListPlanFeatures: %v", err)
	}
	if len(features) != 1 || features[0].Slug != "audit" {
		t.Errorf("after swap: %+v", features)
	}

	n, err := q.CountPlanAssignmentsByFeature(ctx, featureIDs[2])
	if err != nil {
		t.Fatalf("CountPlanAssignmentsByFeature: %v", err)
	}
	if n != 1 {
		t.Errorf("assignment count: got %d, want 1", n)
	}
}

func TestSectionPlanAssignments(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	plan, err := q.CreatePlan(ctx, store.CreatePlanParams{Name: "Pro", Slug: "pro", IsActive: true})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	section, err := q.CreatePricingSection(ctx, store.CreatePricingSectionParams{
		Name: "Landing", Slug: "landing", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreatePricingSection: %v", err)
	}

	if err := q.AssignSectionPlan(ctx, store.AssignSectionPlanParams{
		SectionID: section.ID, PlanID: plan.ID, Position: 0,
	}); err != nil {
		t.Fatalf("AssignSectionPlan: %v", err)
	}

	n, err := q.CountSectionAssignmentsByPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("CountSectionAssignmentsByPlan: %v", err)
	}
	if n != 1 {
		t.Errorf("assignment count: got %d, want 1", n)
	}

	plans, err := q.ListSectionPlans(ctx, section.ID)
	if err != nil {
		t.Fatalf("ListSectionPlans: %v", err)
	}
	if len(plans) != 1 || plans[0].ID != plan.ID {
		t.Errorf("section plans: %+v", plans)
	}

	if err := q.UnassignSectionPlan(ctx, store.UnassignSectionPlanParams{
		SectionID: section.ID, PlanID: plan.ID,
	}); err != nil {
		t.Fatalf("UnassignSectionPlan: %v", err)
	}
	plans, err = q.ListSectionPlans(ctx, section.ID)
	if err != nil {
		t.Fatalf("ListSectionPlans: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("plans should be unassigned, got %d", len(plans))
	}
}
