package errors

import (
	"strings"
	"unicode"
)

// ValidateTargetID validates a surface or tree identifier as used in URLs
// and document lookups. It rejects identifiers that could be used for path
// traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateTargetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTarget, "target identifier cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidTarget, "target identifier too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTarget, "target identifier contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Identifiers are path segments, never paths
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidTarget, "target identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}
