package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	for _, c := range Palette {
		parsed, err := ParseHex(FormatHex(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	translucent := color.RGBA{R: 10, G: 20, B: 30, A: 128}
	assert.Equal(t, "#0a141e80", FormatHex(translucent))
	parsed, err := ParseHex("#0a141e80")
	require.NoError(t, err)
	assert.Equal(t, translucent, parsed)
}

func TestParseHexShortForm(t *testing.T) {
	c, err := ParseHex("#f00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, c)
}

func TestParseHexInvalid(t *testing.T) {
	for _, s := range []string{"", "ff0000", "#ff00", "#zzzzzz"} {
		_, err := ParseHex(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestDarken(t *testing.T) {
	d := Darken(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 255}, d)

	// Factor is clamped
	assert.Equal(t, Black, Darken(White, 2))
}
