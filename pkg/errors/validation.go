package errors

import (
	"strings"
	"unicode"
)

const maxPackageNameLength = 214

// ValidatePackageName rejects names that cannot be a registry package or
// that would escape the destination directory once joined onto it.
//
// Rules:
//   - No empty names
//   - Maximum length of 214 characters (the npm limit)
//   - No control characters or null bytes
//   - No leading slash, backslashes, empty segments or dot segments
//
// Scoped names such as "@org/pkg" are valid. Case is not checked; registries
// that require lowercase names reject them on their own.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "Invalid package name: name cannot be empty")
	}
	if len(name) > maxPackageNameLength {
		return New(ErrCodeInvalidInput, "Invalid package name: too long (max %d characters)", maxPackageNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "Invalid package name: %q contains control characters", name)
		}
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidInput, "Invalid package name: %q contains a backslash", name)
	}

	for _, seg := range strings.Split(name, "/") {
		switch seg {
		case "":
			return New(ErrCodeInvalidInput, "Invalid package name: %q has an empty path segment", name)
		case ".", "..":
			return New(ErrCodeInvalidInput, "Invalid package name: %q contains a relative path segment", name)
		}
	}

	return nil
}

// ValidateURL validates a registry URL string.
// It ensures the URL has an http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "registry URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "registry URL %q must use http or https scheme", rawURL)
	}
	return nil
}
