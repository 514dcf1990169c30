// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pressroom/panel/internal/auth"
	"github.com/pressroom/panel/internal/model"
)

// Default admin credentials used when no seed password is configured.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data: the default admin user, the main and
// footer menus, the monthly/yearly billing cycles, and baseline site
// settings. Safe to run repeatedly.
func Seed(ctx context.Context, db *sql.DB, adminPassword string) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries, adminPassword); err != nil {
		return err
	}
	if err := seedMenus(ctx, queries); err != nil {
		return err
	}
	if err := seedBillingCycles(ctx, queries); err != nil {
		return err
	}
	return seedSettings(ctx, queries)
}

func seedAdmin(ctx context.Context, queries *Queries, adminPassword string) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	password := adminPassword
	if password == "" {
		password = DefaultAdminPassword
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		Name:         DefaultAdminName,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user", "id", user.ID, "email", user.Email)
	return nil
}

func seedMenus(ctx context.Context, queries *Queries) error {
	defaults := []struct {
		name string
		slug string
	}{
		{"Main Navigation", model.MenuMain},
		{"Footer", model.MenuFooter},
	}

	for _, d := range defaults {
		exists, err := queries.MenuSlugExists(ctx, d.slug)
		if err != nil {
			return fmt.Errorf("checking menu %q: %w", d.slug, err)
		}
		if exists != 0 {
			continue
		}
		if _, err := queries.CreateMenu(ctx, CreateMenuParams{Name: d.name, Slug: d.slug}); err != nil {
			return fmt.Errorf("creating menu %q: %w", d.slug, err)
		}
		slog.Info("created default menu", "slug", d.slug)
	}
	return nil
}

func seedBillingCycles(ctx context.Context, queries *Queries) error {
	defaults := []CreateBillingCycleParams{
		{Name: "Monthly", Slug: "monthly", Months: 1, Position: 0, IsActive: true},
		{Name: "Yearly", Slug: "yearly", Months: 12, Position: 1, IsActive: true},
	}

	for _, d := range defaults {
		exists, err := queries.BillingCycleSlugExists(ctx, d.Slug)
		if err != nil {
			return fmt.Errorf("checking billing cycle %q: %w", d.Slug, err)
		}
		if exists != 0 {
			continue
		}
		if _, err := queries.CreateBillingCycle(ctx, d); err != nil {
			return fmt.Errorf("creating billing cycle %q: %w", d.Slug, err)
		}
		slog.Info("created default billing cycle", "slug", d.Slug)
	}
	return nil
}

func seedSettings(ctx context.Context, queries *Queries) error {
	defaults := []UpsertSettingParams{
		{Key: "site_name", Value: "Pressroom", Type: model.SettingString},
		{Key: "maintenance_mode", Value: "false", Type: model.SettingBool},
		{Key: "default_currency", Value: "USD", Type: model.SettingString},
	}

	for _, d := range defaults {
		if _, err := queries.GetSettingByKey(ctx, d.Key); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking setting %q: %w", d.Key, err)
		}
		if _, err := queries.UpsertSetting(ctx, d); err != nil {
			return fmt.Errorf("creating setting %q: %w", d.Key, err)
		}
	}
	return nil
}
