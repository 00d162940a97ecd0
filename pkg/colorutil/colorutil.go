// Package colorutil provides shared color utilities for the survey markup application.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common annotation colors offered in the style panel.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 230, G: 40, B: 40, A: 255}
	Green   = color.RGBA{R: 40, G: 170, B: 60, A: 255}
	Blue    = color.RGBA{R: 40, G: 80, B: 230, A: 255}
	Yellow  = color.RGBA{R: 240, G: 200, B: 0, A: 255}
	Orange  = color.RGBA{R: 245, G: 130, B: 30, A: 255}
	Magenta = color.RGBA{R: 220, G: 50, B: 200, A: 255}
)

// Palette is the ordered set of stroke colors shown in the style panel.
var Palette = []color.RGBA{Red, Orange, Yellow, Green, Blue, Magenta, Black, White}

// FormatHex renders a color as #rrggbb, or #rrggbbaa when the alpha channel
// is not fully opaque.
func FormatHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHex parses #rgb, #rrggbb, or #rrggbbaa color strings.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q: missing '#'", s)
	}
	hex := s[1:]

	var r, g, b uint8
	a := uint8(255)
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: bad length", s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Darken returns the color scaled toward black by factor (0 = unchanged,
// 1 = black). Alpha is preserved.
func Darken(c color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	scale := 1 - factor
	return color.RGBA{
		R: uint8(float64(c.R) * scale),
		G: uint8(float64(c.G) * scale),
		B: uint8(float64(c.B) * scale),
		A: c.A,
	}
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
