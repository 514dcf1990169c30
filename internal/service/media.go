// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pressroom/panel/internal/imaging"
	"github.com/pressroom/panel/internal/model"
	"github.com/pressroom/panel/internal/store"
	"github.com/pressroom/panel/internal/util"
)

// MaxUploadSize caps a single media upload at 20MB.
const MaxUploadSize = 20 * 1024 * 1024

// MediaService stores uploaded files on disk and tracks them in the
// media table. Raster images get thumbnail and medium renditions.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a MediaService writing under uploadDir.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates, stores and records one uploaded file.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, tag string, userID *int64) (store.Medium, error) {
	if header.Size > MaxUploadSize {
		return store.Medium{}, fmt.Errorf("file exceeds maximum size of %d bytes", MaxUploadSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return store.Medium{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return store.Medium{}, fmt.Errorf("file exceeds maximum size of %d bytes", MaxUploadSize)
	}

	mimeType := s.processor.DetectMimeType(data)
	if mimeType == "application/octet-stream" || mimeType == "text/plain" || mimeType == "text/xml" {
		// SVG and some documents sniff as generic text or binary.
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !model.IsSupportedMimeType(mimeType) {
		return store.Medium{}, fmt.Errorf("file type %s is not allowed", mimeType)
	}

	filename := sanitizeFilename(header.Filename)
	storedName := uuid.New().String() + filepath.Ext(filename)

	params := store.CreateMediumParams{
		Uuid:       strings.TrimSuffix(storedName, filepath.Ext(storedName)),
		Filename:   filename,
		StoredName: storedName,
		MimeType:   mimeType,
		Tag:        tag,
		UploadedBy: util.NullInt64FromPtr(userID),
	}

	if model.IsImageMimeType(mimeType) {
		res, err := s.processor.ProcessOriginal(bytes.NewReader(data), storedName)
		if err != nil {
			return store.Medium{}, fmt.Errorf("process image: %w", err)
		}
		params.MimeType = res.MimeType
		params.SizeBytes = res.Size
		params.Width = sql.NullInt64{Int64: int64(res.Width), Valid: true}
		params.Height = sql.NullInt64{Int64: int64(res.Height), Valid: true}

		if _, err := s.processor.CreateAllVariants(res.FilePath, storedName); err != nil {
			slog.Warn("variant generation failed", "file", storedName, "error", err)
		}
	} else {
		if err := s.saveRawFile(storedName, data); err != nil {
			return store.Medium{}, fmt.Errorf("save file: %w", err)
		}
		params.SizeBytes = int64(len(data))
	}

	medium, err := s.queries.CreateMedium(ctx, params)
	if err != nil {
		_ = s.processor.DeleteFiles(storedName)
		return store.Medium{}, fmt.Errorf("create media record: %w", err)
	}
	return medium, nil
}

// Delete removes a media record and its files. Deletion is refused
// while any page section still references the file.
func (s *MediaService) Delete(ctx context.Context, id int64) error {
	medium, err := s.queries.GetMediumByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.queries.CountPageSectionsReferencing(ctx, medium.StoredName)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: referenced by %d page section(s)", ErrMediaInUse, refs)
	}

	if err := s.queries.DeleteMedium(ctx, id); err != nil {
		return fmt.Errorf("delete media record: %w", err)
	}
	if err := s.processor.DeleteFiles(medium.StoredName); err != nil {
		slog.Warn("media file cleanup failed", "id", id, "error", err)
	}
	return nil
}

// URL returns the public path of a media file, or of one of its
// variants when variant names a configured size.
func (s *MediaService) URL(medium store.Medium, variant string) string {
	if variant == "" || variant == "original" {
		return "/uploads/originals/" + medium.StoredName
	}
	return "/uploads/" + variant + "/" + medium.StoredName
}

// ThumbnailURL returns the thumbnail path, or "" for non-raster files.
func (s *MediaService) ThumbnailURL(medium store.Medium) string {
	if !model.IsImageMimeType(medium.MimeType) {
		return ""
	}
	return s.URL(medium, model.VariantThumbnail.Name)
}

func (s *MediaService) saveRawFile(storedName string, data []byte) error {
	dir := filepath.Join(s.uploadDir, "originals")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(storedName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}
	return filename
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
