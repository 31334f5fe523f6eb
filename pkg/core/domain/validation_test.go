package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLongURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"https", "https://example.com", true},
		{"http with path", "http://example.com/a/b?c=d", true},
		{"trimmed", "  https://example.com  ", true},
		{"ftp", "ftp://example.com/file", false},
		{"javascript", "javascript:alert(1)", false},
		{"no scheme", "example.com", false},
		{"no host", "https://", false},
		{"empty", "", false},
		{"garbage", "::not a url", false},
		{"too long", "https://example.com/" + strings.Repeat("a", MaxLongURLLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateLongURL(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.input), got)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidURL))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "long_url", verr.Field)
		})
	}
}

func TestValidateAlias(t *testing.T) {
	for _, alias := range []string{"a", "ab", "A_b-9", "abcdef"} {
		assert.NoError(t, ValidateAlias(alias), alias)
	}
	for _, alias := range []string{"", "abcdefg", "ab cd", "ab/c", "ção"} {
		err := ValidateAlias(alias)
		assert.ErrorIs(t, err, ErrInvalidAliasFormat, alias)
	}
}

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	for _, bad := range []string{"", "alice", "Alice <alice@example.com>", "a@"} {
		_, err := NormalizeEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.ErrorIs(t, ValidatePassword("1234567"), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("p", MaxPasswordLength+1)), ErrWeakPassword)
}

func TestCodeAlphabetMatchesPolicy(t *testing.T) {
	assert.Len(t, CodeAlphabet, 64)
	for _, r := range CodeAlphabet {
		assert.True(t, IsValidShortCode(string(r)), string(r))
	}
}
