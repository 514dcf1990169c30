// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is an admin panel account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SiteSetting is a single key/value site configuration entry.
type SiteSetting struct {
	ID        int64
	Key       string
	Value     string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillingCycle is a billing period plans can be priced against.
type BillingCycle struct {
	ID        int64
	Name      string
	Slug      string
	Months    int64
	Position  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Plan is a pricing plan shown on the marketing site.
type Plan struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Badge       sql.NullString
	IsFeatured  bool
	IsActive    bool
	Position    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanPrice is the price of a plan for one billing cycle.
type PlanPrice struct {
	ID             int64
	PlanID         int64
	BillingCycleID int64
	AmountCents    int64
	Currency       string
	CompareAtCents sql.NullInt64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BasicFeature is a boolean on/off feature flag assignable to plans.
type BasicFeature struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Position    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanBasicFeature assigns a basic feature to a plan.
type PlanBasicFeature struct {
	ID             int64
	PlanID         int64
	BasicFeatureID int64
	CreatedAt      time.Time
}

// FeatureLimit is a quantitative limit attached to a plan, distinct
// from boolean basic features.
type FeatureLimit struct {
	ID        int64
	PlanID    int64
	Name      string
	Value     int64
	Unit      string
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricingSection is a named, styled grouping of plans for display.
type PricingSection struct {
	ID         int64
	Name       string
	Slug       string
	Heading    string
	Subheading string
	Theme      string
	IsActive   bool
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PricingSectionPlan assigns a plan to a pricing section.
type PricingSectionPlan struct {
	ID        int64
	SectionID int64
	PlanID    int64
	Position  int64
	CreatedAt time.Time
}

// Menu is a named navigation menu.
type Menu struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem is a single navigation entry in a menu. ParentID forms a
// forest within one menu.
type MenuItem struct {
	ID        int64
	MenuID    int64
	ParentID  sql.NullInt64
	Label     string
	Url       sql.NullString
	Icon      sql.NullString
	Target    string
	PageID    sql.NullInt64
	IsActive  bool
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is a content page on the marketing site.
type Page struct {
	ID              int64
	Title           string
	Slug            string
	MetaTitle       string
	MetaDescription string
	Status          string
	PublishedAt     sql.NullTime
	ScheduledAt     sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PageSection is an ordered content block within a page.
type PageSection struct {
	ID        int64
	PageID    int64
	Kind      string
	Body      string
	HtmlCache string
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactForm is a configurable contact form.
type ContactForm struct {
	ID             int64
	Name           string
	Slug           string
	SubmitLabel    string
	SuccessMessage string
	NotifyEmail    sql.NullString
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContactFormField is one input field of a contact form.
type ContactFormField struct {
	ID         int64
	FormID     int64
	Label      string
	Name       string
	Type       string
	Options    sql.NullString
	IsRequired bool
	Position   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContactSubmission is one submitted contact form payload.
type ContactSubmission struct {
	ID        int64
	FormID    int64
	Payload   string
	Ip        string
	CreatedAt time.Time
}

// Medium is one media library asset.
type Medium struct {
	ID         int64
	Uuid       string
	Filename   string
	StoredName string
	MimeType   string
	SizeBytes  int64
	Width      sql.NullInt64
	Height     sql.NullInt64
	AltText    string
	Tag        string
	UploadedBy sql.NullInt64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewsletterSubscriber is one newsletter list entry.
type NewsletterSubscriber struct {
	ID          int64
	Email       string
	Status      string
	Token       string
	ConfirmedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snippet is a reusable sanitized HTML fragment.
type Snippet struct {
	ID        int64
	Name      string
	Slug      string
	Html      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditLogEntry is one record in the audit log fed by the logging handler.
type AuditLogEntry struct {
	ID        int64
	Level     string
	Message   string
	Source    string
	Data      sql.NullString
	CreatedAt time.Time
}
