// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

func TestRenderSection_Markdown(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewRenderService(db)

	html, err := svc.RenderSection(context.Background(), store.PageSection{
		Kind: "markdown",
		Body: "# Hello\n\nSome **bold** text.",
	})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %q", html)
	}
}

func TestRenderSection_HTMLSanitized(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewRenderService(db)

	html, err := svc.RenderSection(context.Background(), store.PageSection{
		Kind: "html",
		Body: `<p>safe</p><script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(html, "<p>safe</p>") {
		t.Errorf("safe markup stripped: %q", html)
	}
	if strings.Contains(html, "script") {
		t.Errorf("script not stripped: %q", html)
	}
}

func TestRenderSection_Snippet(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	svc := NewRenderService(db)
	ctx := context.Background()

	_, err := q.CreateSnippet(ctx, store.CreateSnippetParams{
		Name: "CTA", Slug: "cta", Html: "<p>Sign up now</p>", IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateSnippet: %v", err)
	}
	_, err = q.CreateSnippet(ctx, store.CreateSnippetParams{
		Name: "Old", Slug: "old", Html: "<p>retired</p>", IsActive: false,
	})
	if err != nil {
		t.Fatalf("CreateSnippet: %v", err)
	}

	html, err := svc.RenderSection(ctx, store.PageSection{Kind: "snippet", Body: "cta"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(html, "Sign up now") {
		t.Errorf("snippet body missing: %q", html)
	}

	// Inactive and unknown snippets render empty, not an error.
	for _, slug := range []string{"old", "missing"} {
		html, err := svc.RenderSection(ctx, store.PageSection{Kind: "snippet", Body: slug})
		if err != nil {
			t.Fatalf("RenderSection %q: %v", slug, err)
		}
		if html != "" {
			t.Errorf("snippet %q should render empty, got %q", slug, html)
		}
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := SanitizeHTML(`<a href="https://example.com" onclick="evil()">link</a>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("event handler not stripped: %q", got)
	}
	if !strings.Contains(got, "href") {
		t.Errorf("href should survive: %q", got)
	}
}
