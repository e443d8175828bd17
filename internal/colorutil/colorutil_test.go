package colorutil

import (
	"image/color"
	"math"
	"testing"
)

func TestParseHexRoundTrip(t *testing.T) {
	cases := []string{"#FF0000", "#00FF80", "#123ABC", "#000000", "#FFFFFF"}
	for _, s := range cases {
		c := ParseHex(s)
		if got := FormatHex(c); got != s {
			t.Errorf("round trip %s gave %s", s, got)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, s := range []string{"", "red", "#12", "#GGGGGG"} {
		if c := ParseHex(s); c != White {
			t.Errorf("ParseHex(%q) = %v, want white fallback", s, c)
		}
	}
}

func TestRGBToHSL(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		h, s, l float64
	}{
		{255, 0, 0, 0, 1, 0.5},
		{0, 255, 0, 120, 1, 0.5},
		{0, 0, 255, 240, 1, 0.5},
		{255, 255, 255, 0, 0, 1},
		{0, 0, 0, 0, 0, 0},
		{128, 128, 128, 0, 0, 0.502},
	}
	for _, c := range cases {
		h, s, l := RGBToHSL(c.r, c.g, c.b)
		if math.Abs(h-c.h) > 0.5 || math.Abs(s-c.s) > 0.01 || math.Abs(l-c.l) > 0.01 {
			t.Errorf("RGBToHSL(%d,%d,%d) = (%.1f,%.2f,%.2f), want (%.1f,%.2f,%.2f)",
				c.r, c.g, c.b, h, s, l, c.h, c.s, c.l)
		}
	}
}

func TestBrightness(t *testing.T) {
	if b := Brightness(White); math.Abs(b-255) > 0.1 {
		t.Fatalf("white brightness = %v", b)
	}
	if b := Brightness(Black); b != 0 {
		t.Fatalf("black brightness = %v", b)
	}
}

func TestLightenDarken(t *testing.T) {
	c := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	if got := Lighten(c, 1); got != White {
		t.Fatalf("Lighten(.,1) = %v", got)
	}
	if got := Darken(c, 1); got != Black {
		t.Fatalf("Darken(.,1) = %v", got)
	}
	mid := Lighten(c, 0.5)
	if mid.R <= c.R || mid.R >= 255 {
		t.Fatalf("Lighten(.,0.5) = %v", mid)
	}
}
