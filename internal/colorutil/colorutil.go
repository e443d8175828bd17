// Package colorutil provides shared color helpers for pitchmark.
package colorutil

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Common overlay colors used throughout the application.
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" or "RRGGBB" color string. Invalid input yields
// opaque white so a bad tool setting never aborts a frame.
func ParseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return White
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return White
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// FormatHex renders a color as "#RRGGBB".
func FormatHex(c color.RGBA) string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}

// RGBToHSL converts RGB (0-255) to HSL with H in degrees [0,360) and S, L in
// [0,1].
func RGBToHSL(r, g, b uint8) (h, s, l float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	diff := maxC - minC

	l = (maxC + minC) / 2

	if diff == 0 {
		return 0, 0, l
	}

	if l > 0.5 {
		s = diff / (2 - maxC - minC)
	} else {
		s = diff / (maxC + minC)
	}

	switch maxC {
	case rf:
		h = 60 * math.Mod((gf-bf)/diff, 6)
	case gf:
		h = 60 * ((bf-rf)/diff + 2)
	default:
		h = 60 * ((rf-gf)/diff + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, l
}

// Brightness returns the perceived luma of a color in [0,255].
func Brightness(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Lighten blends a color towards white by t in [0,1].
func Lighten(c color.RGBA, t float64) color.RGBA {
	return blend(c, White, t)
}

// Darken blends a color towards black by t in [0,1].
func Darken(c color.RGBA, t float64) color.RGBA {
	return blend(c, Black, t)
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: a.A,
	}
}

// WithAlpha returns the color with its alpha replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
