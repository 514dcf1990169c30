// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/cache"
	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/service"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/testutil"
)

// testAPI bundles a handler mounted on its routes with direct store
// access for fixtures and assertions.
type testAPI struct {
	router  chi.Router
	db      *sql.DB
	queries *store.Queries
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.TestDB(t)
	cacher := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = cacher.Close() })

	menus := service.NewMenuService(db, cacher)
	media := service.NewMediaService(db, t.TempDir())
	h := api.NewHandler(db, menus, media)

	r := chi.NewRouter()
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/confirm", h.ConfirmSubscription)
		r.Get("/menus/{slug}", h.GetPublicMenu)
		r.Post("/subscribe", h.Subscribe)
		r.Post("/forms/{slug}/submissions", h.SubmitContactForm)
	})
	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
			r.Put("/{id}/password", h.ChangeUserPassword)
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/{key}", h.GetSetting)
			r.Put("/{key}", h.PutSetting)
			r.Delete("/{key}", h.DeleteSetting)
		})
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.CreatePlan)
			r.Delete("/{id}", h.DeletePlan)
			r.Get("/{id}/prices", h.ListPlanPrices)
			r.Put("/{id}/prices", h.SetPlanPrice)
		})
		r.Route("/menus", func(r chi.Router) {
			r.Post("/", h.CreateMenu)
			r.Get("/{id}/items", h.ListMenuItems)
			r.Post("/{id}/items", h.CreateMenuItem)
			r.Put("/{id}/items/{itemID}", h.UpdateMenuItem)
			r.Post("/{id}/items/{itemID}/reorder", h.ReorderMenuItem)
			r.Post("/{id}/items/{itemID}/indent", h.IndentMenuItem)
			r.Post("/{id}/items/{itemID}/move-up", h.MoveMenuItemUp)
		})
		r.Route("/forms", func(r chi.Router) {
			r.Post("/", h.CreateContactForm)
			r.Get("/{id}", h.GetContactForm)
			r.Delete("/{id}", h.DeleteContactForm)
			r.Post("/{id}/fields", h.CreateContactFormField)
		})
	})

	return &testAPI{router: r, db: db, queries: store.New(db)}
}

// do performs a request against the mounted routes. A nil body sends an
// empty request.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// decodeData unmarshals the "data" member of a response envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

// decodeErrorDetails returns the field errors of an error response.
func decodeErrorDetails(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var envelope api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Details
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t)

	r := chi.NewRouter()
	h := api.NewHandler(a.db, nil, nil)
	r.Get("/healthz", h.Healthz)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]string
	decodeData(t, rec, &status)
	require.Equal(t, "ok", status["status"])
}
