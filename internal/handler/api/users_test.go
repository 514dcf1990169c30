// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressroom/panel/internal/auth"
	"github.com/pressroom/panel/internal/handler/api"
	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

func createAdmin(t *testing.T, a *testAPI, email string) store.User {
	t.Helper()
	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	user, err := a.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUser(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name  string
		req   api.CreateUserRequest
		field string
	}{
		{"bad email", api.CreateUserRequest{Email: "nope", Name: "N", Password: "longenough"}, "email"},
		{"short password", api.CreateUserRequest{Email: "n@example.com", Name: "N", Password: "short"}, "password"},
		{"unknown role", api.CreateUserRequest{Email: "n@example.com", Name: "N", Password: "longenough", Role: "owner"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/admin/users", tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Contains(t, decodeErrorDetails(t, rec), tt.field)
		})
	}

	rec := a.do(t, http.MethodPost, "/api/admin/users", api.CreateUserRequest{
		Email: "Editor@Example.COM", Name: "Ed", Password: "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user api.UserResponse
	decodeData(t, rec, &user)
	require.Equal(t, "editor@example.com", user.Email)
	require.Equal(t, model.RoleEditor, user.Role)
	require.NotContains(t, rec.Body.String(), "password")

	rec = a.do(t, http.MethodPost, "/api/admin/users", api.CreateUserRequest{
		Email: "editor@example.com", Name: "Ed", Password: "longenough",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeErrorDetails(t, rec), "email")
}

func TestDeleteUser_LastAdmin(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	admin := createAdmin(t, a, "one@example.com")

	rec := a.do(t, http.MethodDelete, "/api/admin/users/"+itoa(admin.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	_, err := a.queries.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)

	createAdmin(t, a, "two@example.com")

	rec = a.do(t, http.MethodDelete, "/api/admin/users/"+itoa(admin.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted api.UserResponse
	decodeData(t, rec, &deleted)
	require.Equal(t, admin.ID, deleted.ID)
}

func TestUpdateUser_DemoteLastAdmin(t *testing.T) {
	a := newTestAPI(t)

	admin := createAdmin(t, a, "one@example.com")

	rec := a.do(t, http.MethodPut, "/api/admin/users/"+itoa(admin.ID), api.UpdateUserRequest{
		Email: admin.Email, Name: admin.Name, Role: model.RoleEditor,
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// demotion works once another active admin exists
	createAdmin(t, a, "two@example.com")

	rec = a.do(t, http.MethodPut, "/api/admin/users/"+itoa(admin.ID), api.UpdateUserRequest{
		Email: admin.Email, Name: admin.Name, Role: model.RoleEditor,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated api.UserResponse
	decodeData(t, rec, &updated)
	require.Equal(t, model.RoleEditor, updated.Role)
}

func TestChangeUserPassword(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	admin := createAdmin(t, a, "one@example.com")
	path := "/api/admin/users/" + itoa(admin.ID) + "/password"

	rec := a.do(t, http.MethodPut, path, api.ChangePasswordRequest{Password: "short"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPut, path, api.ChangePasswordRequest{Password: "new password 42"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := a.queries.GetUserByID(ctx, admin.ID)
	require.NoError(t, err)
	match, err := auth.CheckPassword("new password 42", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, match)
}
