// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring background jobs: publishing
// scheduled pages and purging stale unconfirmed subscribers.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pressroom/panel/internal/store"
)

// PendingSubscriberTTL is how long an unconfirmed subscription is kept
// before the hourly purge removes it.
const PendingSubscriberTTL = 72 * time.Hour

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a Scheduler. Call Start to begin running jobs.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the jobs and starts the cron runner. Scheduled pages
// are checked every minute, pending subscribers purged hourly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.publishDuePages(); err != nil {
			s.logger.Error("scheduled page publishing failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.purgePendingSubscribers(); err != nil {
			s.logger.Error("pending subscriber purge failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDuePages publishes every page whose scheduled time has passed.
func (s *Scheduler) publishDuePages() error {
	ctx := context.Background()
	queries := store.New(s.db)
	now := time.Now().UTC()

	pages, err := queries.GetScheduledPagesForPublishing(ctx, now)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return nil
	}

	for _, page := range pages {
		err := queries.PublishPage(ctx, store.PublishPageParams{
			ID:          page.ID,
			PublishedAt: now,
		})
		if err != nil {
			s.logger.Error("page publish failed",
				"page_id", page.ID, "slug", page.Slug, "error", err)
			continue
		}
		s.logger.Info("published scheduled page",
			"page_id", page.ID, "slug", page.Slug,
			"scheduled_at", page.ScheduledAt.Time)
	}
	return nil
}

// purgePendingSubscribers deletes subscriptions never confirmed within
// PendingSubscriberTTL.
func (s *Scheduler) purgePendingSubscribers() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().UTC().Add(-PendingSubscriberTTL)
	purged, err := queries.PurgePendingSubscribers(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.logger.Info("purged unconfirmed subscribers", "count", purged)
	}
	return nil
}
