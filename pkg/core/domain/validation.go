package domain

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

const (
	MaxLongURLLength  = 2048
	MaxShortCodeLen   = 6
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit

	// CodeAlphabet is the URL-safe alphabet shared by generated codes and aliases.
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
)

var codeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,6}$`)

// ValidateLongURL accepts absolute http/https URLs with a host.
func ValidateLongURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", newValidationError("long_url", ErrInvalidURL, "is required")
	}
	if len(raw) > MaxLongURLLength {
		return "", newValidationError("long_url", ErrInvalidURL, "is too long")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", newValidationError("long_url", ErrInvalidURL, "is not a valid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", newValidationError("long_url", ErrInvalidURL, "only http and https are allowed")
	}
	if u.Host == "" {
		return "", newValidationError("long_url", ErrInvalidURL, "host is missing")
	}
	return raw, nil
}

// ValidateAlias checks a custom alias against the short code policy.
func ValidateAlias(alias string) error {
	if !IsValidShortCode(alias) {
		return newValidationError("custom_alias", ErrInvalidAliasFormat, "")
	}
	return nil
}

// IsValidShortCode reports whether code fits the 1-6 char [A-Za-z0-9_-] policy.
func IsValidShortCode(code string) bool {
	return codeRe.MatchString(code)
}

// NormalizeEmail lower-cases and trims an email and checks its shape.
// It is applied once at the boundary, before lookup or storage.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", newValidationError("email", ErrInvalidEmail, "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", newValidationError("email", ErrInvalidEmail, "is not a valid email address")
	}
	return email, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return newValidationError("password", ErrWeakPassword, "")
	}
	if len(password) > MaxPasswordLength {
		return newValidationError("password", ErrWeakPassword, "must be at most 72 bytes")
	}
	return nil
}
