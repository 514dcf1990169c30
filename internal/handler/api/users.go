// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/pressroom/panel/internal/auth"
	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
)

const minPasswordLength = 8

// UserResponse represents a panel user in API responses. The password
// hash is never exposed.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserRequest is the body for creating a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest is the body for updating a user. Password changes
// go through the dedicated password endpoint.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// ChangePasswordRequest is the body for setting a new password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userResponse(u))
	}
	WriteSuccess(w, responses, nil)
}

// GetUser handles GET /api/admin/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, userResponse(user), nil)
}

// CreateUser handles POST /api/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrs := make(map[string]string)
	req.Email = model.NormalizeEmail(req.Email)
	if !model.IsValidEmail(req.Email) {
		fieldErrs["email"] = "A valid email address is required"
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fieldErrs["name"] = "Name is required"
	}
	if len(req.Password) < minPasswordLength {
		fieldErrs["password"] = "Password must be at least 8 characters"
	}
	if req.Role == "" {
		req.Role = model.RoleEditor
	}
	if !model.IsValidRole(req.Role) {
		fieldErrs["role"] = "Role must be admin or editor"
	}
	if len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}

	taken, err := h.queries.UserEmailExists(ctx, req.Email)
	if err != nil {
		WriteInternalError(w, "Failed to check email")
		return
	}
	if taken != 0 {
		WriteValidationError(w, map[string]string{"email": "Email already in use"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     isActive,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}
	WriteCreated(w, userResponse(user))
}

// UpdateUser handles PUT /api/admin/users/{id}. Demoting or
// deactivating the last active admin is refused.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fieldErrs := make(map[string]string)
	req.Email = model.NormalizeEmail(req.Email)
	if !model.IsValidEmail(req.Email) {
		fieldErrs["email"] = "A valid email address is required"
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fieldErrs["name"] = "Name is required"
	}
	if req.Role == "" {
		req.Role = existing.Role
	}
	if !model.IsValidRole(req.Role) {
		fieldErrs["role"] = "Role must be admin or editor"
	}
	if len(fieldErrs) > 0 {
		WriteValidationError(w, fieldErrs)
		return
	}

	if req.Email != existing.Email {
		taken, err := h.queries.UserEmailExists(ctx, req.Email)
		if err != nil {
			WriteInternalError(w, "Failed to check email")
			return
		}
		if taken != 0 {
			WriteValidationError(w, map[string]string{"email": "Email already in use"})
			return
		}
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	losesAdmin := existing.Role == model.RoleAdmin && existing.IsActive &&
		(req.Role != model.RoleAdmin || !isActive)
	if losesAdmin {
		if ok := h.checkNotLastAdmin(w, r); !ok {
			return
		}
	}

	user, err := h.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID:       existing.ID,
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		IsActive: isActive,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update user")
		return
	}
	WriteSuccess(w, userResponse(user), nil)
}

// ChangeUserPassword handles PUT /api/admin/users/{id}/password.
func (h *Handler) ChangeUserPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteValidationError(w, map[string]string{"password": "Password must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		ID:           user.ID,
		PasswordHash: hash,
	}); err != nil {
		WriteInternalError(w, "Failed to update password")
		return
	}
	WriteNoContent(w)
}

// DeleteUser handles DELETE /api/admin/users/{id}. Deleting the last
// active admin is refused.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if user.Role == model.RoleAdmin && user.IsActive {
		if ok := h.checkNotLastAdmin(w, r); !ok {
			return
		}
	}

	if err := h.queries.DeleteUser(ctx, user.ID); err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}
	WriteSuccess(w, userResponse(user), nil)
}

// checkNotLastAdmin writes a conflict response when only one active
// admin remains. Returns true when the operation may proceed.
func (h *Handler) checkNotLastAdmin(w http.ResponseWriter, r *http.Request) bool {
	admins, err := h.queries.CountActiveAdmins(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count admins")
		return false
	}
	if admins <= 1 {
		WriteConflict(w, "Cannot remove the last active admin")
		return false
	}
	return true
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	return requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
}

func userResponse(u store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
