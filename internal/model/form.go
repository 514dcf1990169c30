// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Contact form field type constants.
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
)

// ValidFieldTypes returns all valid contact form field types.
func ValidFieldTypes() []string {
	return []string{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeEmail,
		FieldTypeTel,
		FieldTypeSelect,
		FieldTypeCheckbox,
	}
}

// IsValidFieldType checks if a field type is valid.
func IsValidFieldType(fieldType string) bool {
	for _, t := range ValidFieldTypes() {
		if t == fieldType {
			return true
		}
	}
	return false
}
