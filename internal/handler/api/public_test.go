// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/service"
	"github.com/pressroom/panel/internal/store"
)

func subscriberToken(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	var token string
	err := db.QueryRow(
		`SELECT token FROM newsletter_subscribers WHERE email = ?`, email).Scan(&token)
	require.NoError(t, err)
	return token
}

func TestSubscribeAndConfirm(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/public/subscribe", api.SubscribeRequest{Email: "not an email"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/public/subscribe", api.SubscribeRequest{Email: "Reader@Example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	var ack api.SubscribeResponse
	decodeData(t, rec, &ack)
	require.Equal(t, model.SubscriberPending, ack.Status)
	require.NotContains(t, rec.Body.String(), "token")

	token := subscriberToken(t, a.db, "reader@example.com")

	rec = a.do(t, http.MethodGet, "/api/public/confirm?token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &ack)
	require.Equal(t, model.SubscriberConfirmed, ack.Status)

	// confirming again with the same token stays confirmed
	rec = a.do(t, http.MethodGet, "/api/public/confirm?token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &ack)
	require.Equal(t, model.SubscriberConfirmed, ack.Status)

	// subscribing a confirmed address changes nothing
	rec = a.do(t, http.MethodPost, "/api/public/subscribe", api.SubscribeRequest{Email: "reader@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &ack)
	require.Equal(t, model.SubscriberConfirmed, ack.Status)
	require.Equal(t, token, subscriberToken(t, a.db, "reader@example.com"))
}

func TestConfirmSubscription_BadToken(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/public/confirm", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/public/confirm?token=deadbeef", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPublicMenu(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	rec := a.do(t, http.MethodGet, "/api/public/menus/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	menu, err := a.queries.CreateMenu(ctx, store.CreateMenuParams{Name: "Footer", Slug: "footer"})
	require.NoError(t, err)
	_, err = a.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:   menu.ID,
		Label:    "Imprint",
		Url:      sql.NullString{String: "/imprint", Valid: true},
		Target:   model.TargetSelf,
		IsActive: true,
	})
	require.NoError(t, err)
	_, err = a.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:   menu.ID,
		Label:    "Hidden",
		Url:      sql.NullString{String: "/hidden", Valid: true},
		Target:   model.TargetSelf,
		IsActive: false,
		Position: 1,
	})
	require.NoError(t, err)

	rec = a.do(t, http.MethodGet, "/api/public/menus/footer", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []service.MenuItemView
	decodeData(t, rec, &views)
	require.Len(t, views, 1)
	require.Equal(t, "Imprint", views[0].Label)
	require.Equal(t, "/imprint", views[0].URL)
}
