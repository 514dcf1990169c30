// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const auditColumns = "id, level, message, source, data, created_at"

func scanAuditEntry(row interface{ Scan(...any) error }) (AuditLogEntry, error) {
	var e AuditLogEntry
	err := row.Scan(&e.ID, &e.Level, &e.Message, &e.Source, &e.Data, &e.CreatedAt)
	return e, err
}

// CreateAuditEntryParams holds parameters for CreateAuditEntry.
type CreateAuditEntryParams struct {
	Level   string
	Message string
	Source  string
	Data    sql.NullString
}

// CreateAuditEntry inserts an audit log record.
func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (level, message, source, data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Message, arg.Source, arg.Data, time.Now().UTC())
	return err
}

// ListAuditEntriesParams holds parameters for ListAuditEntries.
type ListAuditEntriesParams struct {
	Limit  int64
	Offset int64
}

// ListAuditEntries returns audit records, newest first.
func (q *Queries) ListAuditEntries(ctx context.Context, arg ListAuditEntriesParams) ([]AuditLogEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditLogEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PurgeAuditEntries deletes audit records created before the cutoff.
func (q *Queries) PurgeAuditEntries(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
