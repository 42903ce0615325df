package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateNamespace validates a cache namespace. Namespaces become key
// prefixes in shared backends, so they are kept to a conservative charset:
//   - No empty names
//   - Maximum length of 64 characters
//   - Letters, digits, '-', '_' and '.' only
func ValidateNamespace(ns string) error {
	if ns == "" {
		return New(ErrCodeInvalidConfig, "namespace cannot be empty")
	}
	if len(ns) > 64 {
		return New(ErrCodeInvalidConfig, "namespace too long (max 64 characters)")
	}
	for _, r := range ns {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.", r) {
			continue
		}
		return New(ErrCodeInvalidConfig, "namespace contains invalid character %q", r)
	}
	return nil
}

// ValidateBackendURL validates the connection URL of a cache backend.
// The scheme must be one of schemes.
func ValidateBackendURL(raw string, schemes ...string) error {
	if raw == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "URL contains invalid control characters")
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid URL")
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return New(ErrCodeInvalidConfig, "URL %q has no host", raw)
			}
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL scheme %q not supported (want one of %s)", u.Scheme, strings.Join(schemes, ", "))
}
