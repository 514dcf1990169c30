// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Site setting value types.
const (
	SettingString = "string"
	SettingBool   = "bool"
	SettingInt    = "int"
	SettingJSON   = "json"
)

// ValidSettingTypes contains all valid setting value types.
var ValidSettingTypes = []string{SettingString, SettingBool, SettingInt, SettingJSON}

// IsValidSettingType checks if a setting type is valid.
func IsValidSettingType(t string) bool {
	for _, s := range ValidSettingTypes {
		if s == t {
			return true
		}
	}
	return false
}
