// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pressroom/panel/internal/cache"
	"github.com/pressroom/panel/internal/config"
	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/logging"
	"github.com/pressroom/panel/internal/middleware"
	"github.com/pressroom/panel/internal/scheduler"
	"github.com/pressroom/panel/internal/service"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	migrateOnly := flag.Bool("migrate-only", false, "Run database migrations and exit")
	doSeed := flag.Bool("seed", false, "Seed default data after migrating")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Pressroom Panel - headless site administration API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_DB_PATH              SQLite database path (default: ./data/panel.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_UPLOADS_DIR          Media upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_REDIS_URL            Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PANEL_SEED_ADMIN_PASSWORD  Initial admin password when seeding\n")
	}
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("panel %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(*migrateOnly, *doSeed); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(migrateOnly, seedFlag bool) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.SlogLevel() {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	if migrateOnly {
		return nil
	}

	// Upgrade logger to mirror WARN and ERROR records into the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if seedFlag || cfg.DoSeed {
		slog.Info("seeding default data")
		if err := store.Seed(ctx, db, cfg.SeedAdminPass); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	cacher, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	menuService := service.NewMenuService(db, cacher)
	mediaService := service.NewMediaService(db, cfg.UploadsDir)
	apiHandler := api.NewHandler(db, menuService, mediaService)

	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	r := newRouter(cfg, apiHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // long enough for media uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, h *api.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.Healthz)

	// Uploaded media files
	fileServer := http.FileServer(http.Dir(cfg.UploadsDir))
	r.Handle(cfg.PublicBase+"/*", http.StripPrefix(cfg.PublicBase+"/", fileServer))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/confirm", h.ConfirmSubscription)
		r.Get("/menus/{slug}", h.GetPublicMenu)

		// The two public write endpoints are rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicRateLimit(
				float64(cfg.PublicRateLimit)/60.0, cfg.PublicRateLimit))
			r.Post("/subscribe", h.Subscribe)
			r.Post("/forms/{slug}/submissions", h.SubmitContactForm)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
			r.Put("/{id}/password", h.ChangeUserPassword)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.ListSettings)
			r.Get("/{key}", h.GetSetting)
			r.Put("/{key}", h.PutSetting)
			r.Delete("/{key}", h.DeleteSetting)
		})

		r.Route("/billing-cycles", func(r chi.Router) {
			r.Get("/", h.ListBillingCycles)
			r.Post("/", h.CreateBillingCycle)
			r.Get("/{id}", h.GetBillingCycle)
			r.Put("/{id}", h.UpdateBillingCycle)
			r.Delete("/{id}", h.DeleteBillingCycle)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.ListPlans)
			r.Post("/", h.CreatePlan)
			r.Get("/{id}", h.GetPlan)
			r.Put("/{id}", h.UpdatePlan)
			r.Delete("/{id}", h.DeletePlan)

			r.Get("/{id}/prices", h.ListPlanPrices)
			r.Put("/{id}/prices", h.SetPlanPrice)
			r.Delete("/{id}/prices/{priceID}", h.DeletePlanPrice)

			r.Get("/{id}/features", h.ListPlanFeatures)
			r.Put("/{id}/features", h.ReplacePlanFeatures)

			r.Get("/{id}/limits", h.ListFeatureLimits)
			r.Post("/{id}/limits", h.CreateFeatureLimit)
			r.Put("/{id}/limits/{limitID}", h.UpdateFeatureLimit)
			r.Delete("/{id}/limits/{limitID}", h.DeleteFeatureLimit)
		})

		r.Route("/features", func(r chi.Router) {
			r.Get("/", h.ListBasicFeatures)
			r.Post("/", h.CreateBasicFeature)
			r.Get("/{id}", h.GetBasicFeature)
			r.Put("/{id}", h.UpdateBasicFeature)
			r.Delete("/{id}", h.DeleteBasicFeature)
		})

		r.Route("/pricing-sections", func(r chi.Router) {
			r.Get("/", h.ListPricingSections)
			r.Post("/", h.CreatePricingSection)
			r.Get("/{id}", h.GetPricingSection)
			r.Put("/{id}", h.UpdatePricingSection)
			r.Delete("/{id}", h.DeletePricingSection)

			r.Get("/{id}/plans", h.ListSectionPlans)
			r.Put("/{id}/plans", h.AssignSectionPlan)
			r.Delete("/{id}/plans/{planID}", h.UnassignSectionPlan)
		})

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", h.ListMenus)
			r.Post("/", h.CreateMenu)
			r.Get("/{id}", h.GetMenu)
			r.Put("/{id}", h.UpdateMenu)
			r.Delete("/{id}", h.DeleteMenu)

			r.Get("/{id}/items", h.ListMenuItems)
			r.Post("/{id}/items", h.CreateMenuItem)
			r.Put("/{id}/items/{itemID}", h.UpdateMenuItem)
			r.Delete("/{id}/items/{itemID}", h.DeleteMenuItem)
			r.Post("/{id}/items/{itemID}/reorder", h.ReorderMenuItem)
			r.Post("/{id}/items/{itemID}/indent", h.IndentMenuItem)
			r.Post("/{id}/items/{itemID}/outdent", h.OutdentMenuItem)
			r.Post("/{id}/items/{itemID}/move-up", h.MoveMenuItemUp)
			r.Post("/{id}/items/{itemID}/move-down", h.MoveMenuItemDown)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", h.ListPages)
			r.Post("/", h.CreatePage)
			r.Get("/{id}", h.GetPage)
			r.Put("/{id}", h.UpdatePage)
			r.Delete("/{id}", h.DeletePage)

			r.Get("/{id}/sections", h.ListPageSections)
			r.Post("/{id}/sections", h.CreatePageSection)
			r.Put("/{id}/sections/{sectionID}", h.UpdatePageSection)
			r.Delete("/{id}/sections/{sectionID}", h.DeletePageSection)
		})

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", h.ListContactForms)
			r.Post("/", h.CreateContactForm)
			r.Get("/{id}", h.GetContactForm)
			r.Put("/{id}", h.UpdateContactForm)
			r.Delete("/{id}", h.DeleteContactForm)

			r.Get("/{id}/fields", h.ListContactFormFields)
			r.Post("/{id}/fields", h.CreateContactFormField)
			r.Put("/{id}/fields/{fieldID}", h.UpdateContactFormField)
			r.Delete("/{id}/fields/{fieldID}", h.DeleteContactFormField)

			r.Get("/{id}/submissions", h.ListContactSubmissions)
			r.Delete("/{id}/submissions/{submissionID}", h.DeleteContactSubmission)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", h.ListMedia)
			r.Post("/", h.UploadMedia)
			r.Get("/{id}", h.GetMedia)
			r.Put("/{id}", h.UpdateMedia)
			r.Delete("/{id}", h.DeleteMedia)
		})

		r.Route("/subscribers", func(r chi.Router) {
			r.Get("/", h.ListSubscribers)
			r.Get("/{id}", h.GetSubscriber)
			r.Put("/{id}", h.UpdateSubscriber)
			r.Delete("/{id}", h.DeleteSubscriber)
		})

		r.Route("/snippets", func(r chi.Router) {
			r.Get("/", h.ListSnippets)
			r.Post("/", h.CreateSnippet)
			r.Get("/{id}", h.GetSnippet)
			r.Put("/{id}", h.UpdateSnippet)
			r.Delete("/{id}", h.DeleteSnippet)
		})
	})

	return r
}
