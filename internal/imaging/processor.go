// Copyright (c) 2025-2026 Pressroom Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes uploaded images with pure Go libraries.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/pressroom/panel/internal/model"
)

// ProcessResult describes a stored original image.
type ProcessResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	FilePath string
}

// VariantResult describes one generated variant file.
type VariantResult struct {
	Name     string
	Width    int
	Height   int
	Size     int64
	FilePath string
}

// Processor writes originals and sized variants under a base directory.
// Layout: <base>/originals/<storedName> and <base>/<variant>/<storedName>.
type Processor struct {
	baseDir string
}

// NewProcessor creates a Processor rooted at baseDir.
func NewProcessor(baseDir string) *Processor {
	return &Processor{baseDir: baseDir}
}

// Variants lists the sizes generated for every raster image.
func Variants() []model.ImageVariantConfig {
	return []model.ImageVariantConfig{model.VariantThumbnail, model.VariantMedium}
}

// ProcessOriginal decodes an uploaded image, applies EXIF orientation,
// strips metadata by re-encoding, and stores the result as the original.
func (p *Processor) ProcessOriginal(reader io.Reader, storedName string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	bounds := img.Bounds()
	encoded, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	path, err := p.writeFile("originals", storedName, encoded)
	if err != nil {
		return nil, fmt.Errorf("save original: %w", err)
	}

	return &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(encoded)),
		FilePath: path,
	}, nil
}

// CreateVariant produces one downscaled rendition of the stored original.
// Returns nil when the source already fits within the variant bounds.
func (p *Processor) CreateVariant(sourcePath, storedName string, cfg model.ImageVariantConfig) (*VariantResult, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open source image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= cfg.MaxWidth && bounds.Dy() <= cfg.MaxHeight {
		return nil, nil
	}

	resized := imaging.Fit(img, cfg.MaxWidth, cfg.MaxHeight, imaging.Lanczos)
	format := formatFromName(storedName)
	encoded, err := encodeImage(resized, format, cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s variant: %w", cfg.Name, err)
	}

	path, err := p.writeFile(cfg.Name, storedName, encoded)
	if err != nil {
		return nil, fmt.Errorf("save %s variant: %w", cfg.Name, err)
	}

	rb := resized.Bounds()
	return &VariantResult{
		Name:     cfg.Name,
		Width:    rb.Dx(),
		Height:   rb.Dy(),
		Size:     int64(len(encoded)),
		FilePath: path,
	}, nil
}

// CreateAllVariants generates every configured variant, continuing past
// individual failures. It errors only when every variant fails.
func (p *Processor) CreateAllVariants(sourcePath, storedName string) ([]*VariantResult, error) {
	var results []*VariantResult
	var errs []string

	for _, cfg := range Variants() {
		res, err := p.CreateVariant(sourcePath, storedName, cfg)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", cfg.Name, err))
			continue
		}
		if res != nil {
			results = append(results, res)
		}
	}

	if len(errs) > 0 && len(results) == 0 {
		return nil, fmt.Errorf("all variants failed: %s", strings.Join(errs, "; "))
	}
	return results, nil
}

// DeleteFiles removes the original and all variants of one stored name.
func (p *Processor) DeleteFiles(storedName string) error {
	name := filepath.Base(storedName)
	dirs := []string{"originals"}
	for _, cfg := range Variants() {
		dirs = append(dirs, cfg.Name)
	}
	for _, dir := range dirs {
		path := filepath.Join(p.baseDir, dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}
	return nil
}

// DetectMimeType sniffs the MIME type of raw upload data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// writeFile stores data under <base>/<subDir>/<name>, refusing any name
// that could escape the base directory.
func (p *Processor) writeFile(subDir, name string, data []byte) (string, error) {
	safeName := filepath.Base(name)
	if safeName == "." || safeName == ".." || safeName == "" {
		return "", fmt.Errorf("invalid filename")
	}

	absBase, err := filepath.Abs(p.baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory: %w", err)
	}
	target := filepath.Join(absBase, filepath.Clean(subDir))
	rel, err := filepath.Rel(absBase, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path escapes upload directory")
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	path := filepath.Join(target, safeName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes with the given format and quality. WebP input is
// re-encoded as JPEG since pure Go has no WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat identifies the raster format of raw bytes. TIFF is
// rejected (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	default:
		return "jpeg"
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
