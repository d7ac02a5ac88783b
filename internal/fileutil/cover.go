package fileutil

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveCover writes cover image bytes to path. When width is positive and the
// image is wider, it is scaled down to width with Lanczos resampling and
// re-encoded in the format implied by the file extension (JPEG if unknown).
// Returns false without writing if the file exists and overwrite is false.
func SaveCover(data []byte, path string, width int, overwrite bool) (bool, error) {
	if len(data) == 0 {
		return false, fmt.Errorf("empty cover image")
	}
	if FileExists(path) && !overwrite {
		slog.Info("Cover already exists, skipping", "path", path)
		return false, nil
	}

	if width <= 0 {
		return WriteFileWithOverwrite(path, data, 0644, true)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return false, fmt.Errorf("failed to decode cover image: %w", err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.JPEG
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return false, fmt.Errorf("failed to encode cover image: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write cover file: %w", err)
	}

	slog.Info("Saved cover", "path", path, "width", img.Bounds().Dx())
	return true, nil
}

// BuildCoverFilename creates a standard cover filename from a title.
// Returns: "Title - cover.jpg"
func BuildCoverFilename(title string) string {
	return SanitizeFilename(title) + " - cover.jpg"
}
