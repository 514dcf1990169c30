// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and
// errors into the database-backed audit log.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/pressroom/panel/internal/store"
)

// AuditLogHandler wraps another slog.Handler and additionally writes
// records at WARN level and above to the audit_log table.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditLogHandler wraps inner, mirroring WARN and above into db.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeAuditEntry(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

// writeAuditEntry persists one record. A background context is used so
// entries survive request cancellation.
func (h *AuditLogHandler) writeAuditEntry(r slog.Record) {
	_ = h.queries.CreateAuditEntry(context.Background(), store.CreateAuditEntryParams{
		Level:   levelName(r.Level),
		Message: r.Message,
		Source:  extractSource(r),
		Data:    attrsJSON(r),
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

// extractSource reads the "source" attribute when present, otherwise
// infers a coarse subsystem name from the message.
func extractSource(r slog.Record) string {
	var source string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			source = a.Value.String()
			return false
		}
		return true
	})
	if source != "" {
		return source
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "menu"):
		return "menus"
	case strings.Contains(msg, "page") || strings.Contains(msg, "section"):
		return "pages"
	case strings.Contains(msg, "media") || strings.Contains(msg, "variant"):
		return "media"
	case strings.Contains(msg, "subscrib") || strings.Contains(msg, "newsletter"):
		return "newsletter"
	case strings.Contains(msg, "cache"):
		return "cache"
	case strings.Contains(msg, "cron") || strings.Contains(msg, "schedul"):
		return "scheduler"
	default:
		return "system"
	}
}

// attrsJSON flattens the record attributes into a small JSON object.
func attrsJSON(r slog.Record) sql.NullString {
	if r.NumAttrs() == 0 {
		return sql.NullString{}
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})
	sb.WriteString("}")

	if sb.String() == "{}" {
		return sql.NullString{}
	}
	return sql.NullString{String: sb.String(), Valid: true}
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
