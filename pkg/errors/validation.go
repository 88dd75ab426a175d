package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches a GEDCOM cross-reference identifier, with or
// without the surrounding @ delimiters.
var identifierRegex = regexp.MustCompile(`^@?[^@\s]+@?$`)

// ValidateIdentifier validates an individual or family identifier taken from
// user input (CLI arguments, URL path segments).
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No embedded @ other than the optional delimiters
//   - Maximum length of 64 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "identifier too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}

	return nil
}

// NormalizeIdentifier strips the @ delimiters a user may have typed, so
// "@I1@" and "I1" address the same record.
func NormalizeIdentifier(id string) string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(id), "@"), "@")
}

// ValidateOutputDir validates a directory that rendered files are written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) after cleaning
func ValidateOutputDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
