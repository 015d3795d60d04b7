package errors

import (
	"strings"
	"unicode"
)

// ValidateDirectory validates a user-supplied mesh directory path.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
//
// Existence is checked later by the frame index, which reports MESH_SOURCE_EMPTY.
func ValidateDirectory(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "directory cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFilePrefix validates the frame filename prefix.
// It must be a plain basename fragment without path separators.
func ValidateFilePrefix(prefix string) error {
	if strings.ContainsAny(prefix, "/\\") {
		return New(ErrCodeInvalidConfig, "file prefix cannot contain path separators: %q", prefix)
	}
	for _, r := range prefix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "file prefix contains invalid control characters")
		}
	}
	return nil
}

// ValidateExtension validates a mesh file extension such as ".obj".
func ValidateExtension(ext string) error {
	if ext == "" {
		return New(ErrCodeInvalidConfig, "mesh extension cannot be empty")
	}
	if !strings.HasPrefix(ext, ".") {
		return New(ErrCodeInvalidConfig, "mesh extension must start with a dot: %q", ext)
	}
	if strings.ContainsAny(ext[1:], "./\\") || len(ext) == 1 {
		return New(ErrCodeInvalidConfig, "invalid mesh extension: %q", ext)
	}
	return nil
}

// ValidateResolution checks that an output resolution is usable by a renderer.
func ValidateResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidConfig, "resolution must be positive, got %dx%d", width, height)
	}
	const maxDim = 16384
	if width > maxDim || height > maxDim {
		return New(ErrCodeInvalidConfig, "resolution %dx%d exceeds %d pixels per side", width, height, maxDim)
	}
	return nil
}

// ValidateFPS checks the animation frame rate.
func ValidateFPS(fps int) error {
	if fps <= 0 || fps > 240 {
		return New(ErrCodeInvalidConfig, "fps must be in 1..240, got %d", fps)
	}
	return nil
}
