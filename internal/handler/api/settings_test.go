// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/model"
)

func TestPutSetting(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name  string
		req   api.SettingRequest
		field string
	}{
		{"bad bool", api.SettingRequest{Value: "maybe", Type: model.SettingBool}, "value"},
		{"bad int", api.SettingRequest{Value: "ten", Type: model.SettingInt}, "value"},
		{"bad json", api.SettingRequest{Value: "{", Type: model.SettingJSON}, "value"},
		{"unknown type", api.SettingRequest{Value: "x", Type: "float"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPut, "/api/admin/settings/site_flag", tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, decodeErrorDetails(t, rec), tt.field)
		})
	}

	rec := a.do(t, http.MethodPut, "/api/admin/settings/site_title",
		api.SettingRequest{Value: "Pressroom"})
	require.Equal(t, http.StatusOK, rec.Code)

	var setting api.SettingResponse
	decodeData(t, rec, &setting)
	require.Equal(t, "site_title", setting.Key)
	require.Equal(t, model.SettingString, setting.Type)

	// upsert replaces the value in place
	rec = a.do(t, http.MethodPut, "/api/admin/settings/site_title",
		api.SettingRequest{Value: "Newsroom"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/admin/settings/site_title", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &setting)
	require.Equal(t, "Newsroom", setting.Value)
}

func TestDeleteSetting(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodDelete, "/api/admin/settings/absent", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPut, "/api/admin/settings/maintenance",
		api.SettingRequest{Value: "true", Type: model.SettingBool})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/admin/settings/maintenance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted api.SettingResponse
	decodeData(t, rec, &deleted)
	require.Equal(t, "maintenance", deleted.Key)
	require.Equal(t, "true", deleted.Value)

	rec = a.do(t, http.MethodGet, "/api/admin/settings/maintenance", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
