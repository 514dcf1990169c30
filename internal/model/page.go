// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Page status values.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusScheduled = "scheduled"
)

// ValidPageStatuses contains all valid page statuses.
var ValidPageStatuses = []string{PageStatusDraft, PageStatusPublished, PageStatusScheduled}

// IsValidPageStatus checks if a page status is valid.
func IsValidPageStatus(status string) bool {
	for _, s := range ValidPageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Page section kinds. Markdown sections are rendered to html_cache at
// write time; html sections are sanitized; snippet sections reference a
// stored snippet by slug.
const (
	SectionKindMarkdown = "markdown"
	SectionKindHTML     = "html"
	SectionKindSnippet  = "snippet"
)

// ValidSectionKinds contains all valid page section kinds.
var ValidSectionKinds = []string{SectionKindMarkdown, SectionKindHTML, SectionKindSnippet}

// IsValidSectionKind checks if a page section kind is valid.
func IsValidSectionKind(kind string) bool {
	for _, k := range ValidSectionKinds {
		if k == kind {
			return true
		}
	}
	return false
}
