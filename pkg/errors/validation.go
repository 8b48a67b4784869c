package errors

import (
	"strings"
	"unicode"
)

// maxLevelNameLength bounds level names so generated file names stay sane.
const maxLevelNameLength = 128

// ValidateLevelName validates a normalized level name for use as a file
// stem and a C++ identifier prefix.
//
// The rules reject anything that could escape the levels directory:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLevelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "level name cannot be empty")
	}

	if len(name) > maxLevelNameLength {
		return New(ErrCodeInvalidArgument, "level name too long (max %d characters)", maxLevelNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "level name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidArgument, "level name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDirection checks a reorder direction, which must be -1 or +1.
func ValidateDirection(dir int) error {
	if dir != -1 && dir != 1 {
		return New(ErrCodeInvalidArgument, "direction must be -1 or +1, got %d", dir)
	}
	return nil
}
