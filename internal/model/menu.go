// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain constants and validation helpers shared
// by the store and handler layers.
package model

// Default menu slugs created by the seeder.
const (
	MenuMain   = "main"
	MenuFooter = "footer"
)

// Menu item link target values.
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank}

// Menu item link types. A link type is a client-side hint that decides
// whether the item resolves through a page reference or a raw URL; it
// is never persisted.
const (
	LinkTypePage     = "page"
	LinkTypeCustom   = "custom"
	LinkTypeExternal = "external"
)

// ValidLinkTypes contains all valid link type values.
var ValidLinkTypes = []string{LinkTypePage, LinkTypeCustom, LinkTypeExternal}

// MaxMenuDepth is the maximum number of nesting levels in a menu
// (depth 0 through MaxMenuDepth-1). Enforced by the tree service, not
// by the schema.
const MaxMenuDepth = 3

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	for _, t := range ValidTargets {
		if t == target {
			return true
		}
	}
	return false
}

// IsValidLinkType checks if a link type value is valid.
func IsValidLinkType(linkType string) bool {
	for _, t := range ValidLinkTypes {
		if t == linkType {
			return true
		}
	}
	return false
}
