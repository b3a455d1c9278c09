package errors

import (
	"strings"
	"unicode"
)

// ValidateChartPath validates a chart file path given on the command line.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//   - Must end in .toml
func ValidateChartPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "chart path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "chart path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "chart path contains invalid characters")
		}
	}

	if !strings.HasSuffix(path, ".toml") {
		return New(ErrCodeInvalidPath, "chart path must end in .toml")
	}

	return nil
}

// ValidateAudioPath validates the audio reference stored inside a chart.
// The path is resolved relative to the chart file, so it must stay inside
// the chart's directory.
//
// Validation rules:
//   - Maximum length of 500 characters (empty is allowed, audio is optional)
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateAudioPath(path string) error {
	if path == "" {
		return nil
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "audio path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "audio path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "audio path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "audio path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "audio path cannot contain backslashes")
	}

	return nil
}

// ValidateSnapshotName validates an autosave snapshot name given on the
// command line.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators
//   - Maximum length of 256 characters
func ValidateSnapshotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSnapshot, "snapshot name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidSnapshot, "snapshot name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSnapshot, "snapshot name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidSnapshot, "snapshot name cannot contain path separators")
	}

	return nil
}

// ValidateTitle validates a chart title.
// Titles may be empty; the editor shows a placeholder instead.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return New(ErrCodeInvalidInput, "title too long (max 256 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}

	return nil
}
