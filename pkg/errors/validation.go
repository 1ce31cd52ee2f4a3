package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFieldLength bounds ids, component names, prop names and prop types.
const maxFieldLength = 256

// ValidateID validates a component ID supplied by a user (CLI flag, HTTP
// body). Generated IDs always pass. The rules are intentionally loose since
// IDs are opaque:
//   - No empty IDs
//   - Valid UTF-8
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "component id cannot be empty")
	}
	if !utf8.ValidString(id) {
		return New(ErrCodeInvalidInput, "component id is not valid UTF-8")
	}
	if len(id) > maxFieldLength {
		return New(ErrCodeInvalidInput, "component id too long (max %d characters)", maxFieldLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "component id contains control characters")
		}
	}
	return nil
}

// ValidateName validates a component name. Names must contain at least one
// non-space character.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "component name cannot be blank")
	}
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidInput, "component name is not valid UTF-8")
	}
	if len(name) > maxFieldLength {
		return New(ErrCodeInvalidInput, "component name too long (max %d characters)", maxFieldLength)
	}
	return nil
}

// ValidateProp validates a prop definition about to be committed. Both name
// and type must be non-blank; the type is not parsed.
func ValidateProp(name, typ string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "prop name cannot be blank")
	}
	if strings.TrimSpace(typ) == "" {
		return New(ErrCodeInvalidInput, "prop %q has a blank type", name)
	}
	if !utf8.ValidString(name) || !utf8.ValidString(typ) {
		return New(ErrCodeInvalidInput, "prop %q is not valid UTF-8", name)
	}
	if len(name) > maxFieldLength || len(typ) > maxFieldLength {
		return New(ErrCodeInvalidInput, "prop %q too long (max %d characters)", name, maxFieldLength)
	}
	return nil
}

// ValidatePath validates a graph file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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
	return nil
}

// ValidateURL validates a share base URL.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
