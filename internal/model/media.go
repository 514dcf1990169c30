// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Image variant configuration for the upload pipeline.
type ImageVariantConfig struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Image variants generated on upload.
var (
	VariantThumbnail = ImageVariantConfig{Name: "thumb", MaxWidth: 200, MaxHeight: 200, Quality: 80}
	VariantMedium    = ImageVariantConfig{Name: "medium", MaxWidth: 800, MaxHeight: 800, Quality: 85}
)

// SupportedImageTypes returns MIME types processed through the image pipeline.
func SupportedImageTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}
}

// SupportedDocumentTypes returns MIME types stored without processing.
func SupportedDocumentTypes() []string {
	return []string{"application/pdf", "video/mp4", "video/webm"}
}

// AllSupportedTypes returns every MIME type accepted by the media endpoint.
func AllSupportedTypes() []string {
	return append(SupportedImageTypes(), SupportedDocumentTypes()...)
}

// IsSupportedMimeType checks if a MIME type is accepted for upload.
func IsSupportedMimeType(mimeType string) bool {
	for _, t := range AllSupportedTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}

// IsImageMimeType checks if a MIME type goes through variant generation.
// SVG is stored as-is: it is vector data and resizing it is meaningless.
func IsImageMimeType(mimeType string) bool {
	if mimeType == "image/svg+xml" {
		return false
	}
	for _, t := range SupportedImageTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}
