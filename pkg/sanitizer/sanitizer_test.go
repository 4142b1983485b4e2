package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/accountkit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims whitespace and converts to lowercase", input: "  USER@EXAMPLE.COM  ", expected: "user@example.com"},
		{name: "removes consecutive dots in local part", input: "user..name@example.com", expected: "user.name@example.com"},
		{name: "removes leading and trailing dots in local part", input: ".user.name.@example.com", expected: "user.name@example.com"},
		{name: "handles invalid email format", input: "Invalid-Email", expected: "invalid-email"},
		{name: "handles empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a****@x.com", sanitizer.MaskEmail("alice@x.com"))
	assert.Equal(t, "*@x.com", sanitizer.MaskEmail("a@x.com"))
	assert.Equal(t, "not-an-email", sanitizer.MaskEmail("not-an-email"))
}

func TestPhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "15551230000", sanitizer.NormalizePhone("+1 (555) 123-0000"))
	assert.Equal(t, "5551230000", sanitizer.ExtractPhoneDigits("555.123.0000"))
	assert.Equal(t, "******0000", sanitizer.MaskPhone("555-123-0000"))
	assert.Equal(t, "**", sanitizer.MaskPhone("12"))
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alice Smith", sanitizer.NormalizeName("  Alice \t  Smith\x00 "))
	assert.Equal(t, "Ren\u00e9", sanitizer.NormalizeName("Rene\u0301"))
}

func TestLimitLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", sanitizer.LimitLength("abc", 0))
	assert.Equal(t, "ab", sanitizer.LimitLength("abc", 2))
	assert.Equal(t, "héé", sanitizer.LimitLength("héé", 5))
}

func TestCompose(t *testing.T) {
	t.Parallel()

	clean := sanitizer.Compose(sanitizer.Trim, sanitizer.RemoveExtraWhitespace)
	assert.Equal(t, "a b", clean("  a    b "))
}
