// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const settingColumns = "id, key, value, type, created_at, updated_at"

func scanSetting(row interface{ Scan(...any) error }) (SiteSetting, error) {
	var s SiteSetting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// UpsertSettingParams holds parameters for UpsertSetting.
type UpsertSettingParams struct {
	Key   string
	Value string
	Type  string
}

// UpsertSetting inserts or updates a setting by key and returns it.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (SiteSetting, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO site_settings (key, value, type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			type = excluded.type,
			updated_at = excluded.updated_at
		 RETURNING `+settingColumns,
		arg.Key, arg.Value, arg.Type, now, now)
	return scanSetting(row)
}

// GetSettingByKey fetches a setting by key.
func (q *Queries) GetSettingByKey(ctx context.Context, key string) (SiteSetting, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+settingColumns+` FROM site_settings WHERE key = ?`, key)
	return scanSetting(row)
}

// ListSettings returns all settings ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+settingColumns+` FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []SiteSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// DeleteSetting deletes a setting by key.
func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM site_settings WHERE key = ?`, key)
	return err
}
