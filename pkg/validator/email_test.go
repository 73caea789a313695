package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator_Validate(t *testing.T) {
	v := NewEmailValidator()

	t.Run("Valid", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"guest@example.com", "guest@example.com"},
			{"Guest@Example.COM", "guest@example.com"},
			{"  padded@example.com  ", "padded@example.com"},
			{"first.last+tag@sub.example.co.uk", "first.last+tag@sub.example.co.uk"},
		}

		for _, tt := range tests {
			got, err := v.Validate(tt.input)
			assert.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, got)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		invalid := []string{
			"not-an-email",
			"missing@tld",
			"@example.com",
			"two words@example.com",
			"trailing@example.",
		}

		for _, input := range invalid {
			_, err := v.Validate(input)
			assert.ErrorIs(t, err, ErrInvalidFormat, input)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := v.Validate("")
		assert.ErrorIs(t, err, ErrEmptyEmail)

		_, err = v.Validate("   ")
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})
}
