package barcode_test

import (
	"testing"

	"github.com/niksmo/retail-pos/pkg/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	t.Run("KnownCodes", func(t *testing.T) {
		// real-world EAN-13 codes with published check digits
		tests := map[string]byte{
			"400638133393": '1',
			"501234567890": '0',
			"871125300120": '2',
			"000000000000": '0',
		}
		for body, want := range tests {
			got, err := barcode.CheckDigit(body)
			require.NoError(t, err)
			assert.Equal(t, want, got, "body %s", body)
		}
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := barcode.CheckDigit("12345678901")
		require.Error(t, err)
		assert.ErrorIs(t, err, barcode.ErrMalformedBody)
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := barcode.CheckDigit("1234567890123")
		require.Error(t, err)
		assert.ErrorIs(t, err, barcode.ErrMalformedBody)
	})

	t.Run("NonDigit", func(t *testing.T) {
		_, err := barcode.CheckDigit("12345678901x")
		require.Error(t, err)
		assert.ErrorIs(t, err, barcode.ErrMalformedBody)
	})
}

func TestNew(t *testing.T) {
	t.Run("Recompute", func(t *testing.T) {
		for range 100 {
			code := barcode.New()
			require.Len(t, code, 13)

			check, err := barcode.CheckDigit(code[:12])
			require.NoError(t, err)
			assert.Equal(t, check, code[12])
		}
	})
}
