// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

// SettingResponse represents a site setting in API responses.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingRequest is the body for upserting a setting.
type SettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ListSettings handles GET /api/admin/settings.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list settings")
		return
	}
	responses := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		responses = append(responses, settingResponse(s))
	}
	WriteSuccess(w, responses, nil)
}

// GetSetting handles GET /api/admin/settings/{key}.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	setting, err := h.queries.GetSettingByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Setting not found")
			return
		}
		WriteInternalError(w, "Failed to load setting")
		return
	}
	WriteSuccess(w, settingResponse(setting), nil)
}

// PutSetting handles PUT /api/admin/settings/{key}. Creates the setting
// when absent, updates it otherwise.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		WriteBadRequest(w, "Setting key is required", nil)
		return
	}

	var req SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = model.SettingString
	}
	if fieldErrs := validateSettingValue(req.Value, req.Type); len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}

	setting, err := h.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:   key,
		Value: req.Value,
		Type:  req.Type,
	})
	if err != nil {
		WriteInternalError(w, "Failed to save setting")
		return
	}
	WriteSuccess(w, settingResponse(setting), nil)
}

// DeleteSetting handles DELETE /api/admin/settings/{key}.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	setting, err := h.queries.GetSettingByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Setting not found")
			return
		}
		WriteInternalError(w, "Failed to load setting")
		return
	}
	if err := h.queries.DeleteSetting(ctx, key); err != nil {
		WriteInternalError(w, "Failed to delete setting")
		return
	}
	WriteSuccess(w, settingResponse(setting), nil)
}

// validateSettingValue checks that the value parses as the declared type.
func validateSettingValue(value, typ string) map[string]string {
	fieldErrs := make(map[string]string)
	switch typ {
	case model.SettingString:
	case model.SettingBool:
		if _, err := strconv.ParseBool(value); err != nil {
			fieldErrs["value"] = "Value must be a boolean"
		}
	case model.SettingInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			fieldErrs["value"] = "Value must be an integer"
		}
	case model.SettingJSON:
		if !json.Valid([]byte(value)) {
			fieldErrs["value"] = "Value must be valid JSON"
		}
	default:
		fieldErrs["type"] = "Type must be string, bool, int, or json"
	}
	return fieldErrs
}

func settingResponse(s store.SiteSetting) SettingResponse {
	return SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		Type:      s.Type,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
