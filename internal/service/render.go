// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

// htmlSanitizer strips unsafe markup from stored HTML and rendered
// markdown. UGCPolicy keeps the tags editors legitimately use.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderService turns page sections into sanitized HTML.
type RenderService struct {
	queries *store.Queries
}

// NewRenderService creates a RenderService backed by db.
func NewRenderService(db *sql.DB) *RenderService {
	return &RenderService{queries: store.New(db)}
}

// RenderSection produces the HTML for one section. Markdown bodies are
// converted with goldmark, snippet bodies are resolved by slug, and
// every result passes through the sanitizer.
func (s *RenderService) RenderSection(ctx context.Context, section store.PageSection) (string, error) {
	switch section.Kind {
	case model.SectionKindMarkdown:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(section.Body), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return htmlSanitizer.Sanitize(buf.String()), nil
	case model.SectionKindHTML:
		return htmlSanitizer.Sanitize(section.Body), nil
	case model.SectionKindSnippet:
		snippet, err := s.queries.GetSnippetBySlug(ctx, section.Body)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("resolve snippet %q: %w", section.Body, err)
		}
		if !snippet.IsActive {
			return "", nil
		}
		return htmlSanitizer.Sanitize(snippet.Html), nil
	default:
		return "", fmt.Errorf("unknown section kind %q", section.Kind)
	}
}

// RenderPageSections renders every section of a page in order.
func (s *RenderService) RenderPageSections(ctx context.Context, pageID int64) ([]string, error) {
	sections, err := s.queries.ListPageSections(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	rendered := make([]string, 0, len(sections))
	for _, sec := range sections {
		html, err := s.RenderSection(ctx, sec)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, html)
	}
	return rendered, nil
}

// SanitizeHTML applies the shared sanitizer policy to raw markup.
func SanitizeHTML(raw string) string {
	return htmlSanitizer.Sanitize(raw)
}
