package chroma

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestIsBackgroundPitchGreen(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		sens    float64
		want    bool
	}{
		{"pitch green mid", 40, 180, 60, 50, true},
		{"pure green", 0, 255, 0, 0, true},
		{"red shirt", 200, 30, 30, 100, false},
		{"white line low saturation", 250, 250, 250, 100, false},
		{"deep shadow", 10, 30, 12, 50, false},
		{"teal needs high sensitivity", 30, 180, 170, 0, false},
		{"teal caught at high sensitivity", 30, 180, 170, 90, true},
	}
	for _, c := range cases {
		if got := IsBackground(c.r, c.g, c.b, c.sens); got != c.want {
			t.Errorf("%s: IsBackground = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsBackgroundMonotonicInSensitivity(t *testing.T) {
	colors := [][3]uint8{
		{40, 180, 60}, {30, 180, 170}, {180, 180, 40}, {200, 30, 30}, {90, 200, 90},
	}
	for _, c := range colors {
		was := false
		for s := 0.0; s <= 100; s += 5 {
			got := IsBackground(c[0], c[1], c[2], s)
			if was && !got {
				t.Fatalf("color %v flipped back to foreground at sensitivity %v", c, s)
			}
			was = got
		}
	}
}

func TestSegmentPartitionsPixels(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 4, 2))
	// Left half pitch green, right half red.
	draw.Draw(frame, image.Rect(0, 0, 2, 2), image.NewUniform(color.RGBA{40, 180, 60, 255}), image.Point{}, draw.Src)
	draw.Draw(frame, image.Rect(2, 0, 4, 2), image.NewUniform(color.RGBA{200, 30, 30, 255}), image.Point{}, draw.Src)

	m := Segment(frame, 50)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			i := m.Foreground.PixOffset(x, y)
			fgA := m.Foreground.Pix[i+3]
			ovA := m.Overlay.Pix[i+3]
			if (fgA == 0) == (ovA == 0) {
				t.Fatalf("pixel (%d,%d): foreground alpha %d, overlay alpha %d; want exactly one set", x, y, fgA, ovA)
			}
			if x < 2 && ovA == 0 {
				t.Fatalf("green pixel (%d,%d) not flagged as background", x, y)
			}
			if x >= 2 && fgA == 0 {
				t.Fatalf("red pixel (%d,%d) not kept as foreground", x, y)
			}
		}
	}

	// Same frame, same sensitivity, identical result.
	m2 := Segment(frame, 50)
	if !bytes.Equal(m.Foreground.Pix, m2.Foreground.Pix) || !bytes.Equal(m.Overlay.Pix, m2.Overlay.Pix) {
		t.Fatal("segmentation is not deterministic")
	}
}

func TestSegmentSubImageStride(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 12, 8))
	// Left half pitch green, right half red, then segment only an interior
	// window so the frame's stride is wider than the window.
	draw.Draw(full, image.Rect(0, 0, 6, 8), image.NewUniform(color.RGBA{40, 180, 60, 255}), image.Point{}, draw.Src)
	draw.Draw(full, image.Rect(6, 0, 12, 8), image.NewUniform(color.RGBA{200, 30, 30, 255}), image.Point{}, draw.Src)
	sub := full.SubImage(image.Rect(3, 2, 9, 6)).(*image.RGBA)

	m := Segment(sub, 50)
	if m.Foreground.Bounds() != sub.Bounds() || m.Overlay.Bounds() != sub.Bounds() {
		t.Fatalf("output bounds %v / %v, want %v", m.Foreground.Bounds(), m.Overlay.Bounds(), sub.Bounds())
	}
	for y := 2; y < 6; y++ {
		for x := 3; x < 9; x++ {
			fgA := m.Foreground.RGBAAt(x, y).A
			ovA := m.Overlay.RGBAAt(x, y).A
			if x < 6 {
				if ovA == 0 || fgA != 0 {
					t.Fatalf("green pixel (%d,%d): foreground alpha %d, overlay alpha %d", x, y, fgA, ovA)
				}
			} else {
				if fgA == 0 || ovA != 0 {
					t.Fatalf("red pixel (%d,%d): foreground alpha %d, overlay alpha %d", x, y, fgA, ovA)
				}
				if got := m.Foreground.RGBAAt(x, y); got.R != 200 || got.G != 30 || got.B != 30 {
					t.Fatalf("red pixel (%d,%d) kept as %v", x, y, got)
				}
			}
		}
	}
}

func TestCacheSyncedWith(t *testing.T) {
	c := &Cache{SampledAt: 10}
	if !c.SyncedWith(10.149) {
		t.Error("0.149s drift should be within tolerance")
	}
	if c.SyncedWith(10.151) {
		t.Error("0.151s drift should be out of tolerance")
	}
	if c.SyncedWith(9.8) {
		t.Error("drift applies in both directions")
	}
	var nilCache *Cache
	if nilCache.SyncedWith(10) {
		t.Error("nil cache is never synced")
	}
}

func TestEnginePublishAndDisable(t *testing.T) {
	frame := solidFrame(8, 8, color.RGBA{40, 180, 60, 255})
	e := NewEngine(func() (*image.RGBA, float64, bool) {
		return frame, 3.5, true
	}, nil)

	e.SetEnabled(true)
	deadline := time.Now().Add(2 * time.Second)
	for e.Current() == nil {
		if time.Now().After(deadline) {
			t.Fatal("engine never published a cache")
		}
		time.Sleep(5 * time.Millisecond)
	}
	c := e.Current()
	if c.SampledAt != 3.5 {
		t.Fatalf("cache sampled at %v, want 3.5", c.SampledAt)
	}
	if c.Foreground == nil || c.Overlay == nil {
		t.Fatal("cache published without both bitmaps")
	}

	e.SetEnabled(false)
	if e.Current() != nil {
		t.Fatal("disabling must drop the cache")
	}
}

func TestPublishStaleGenerationStaysDropped(t *testing.T) {
	e := NewEngine(func() (*image.RGBA, float64, bool) {
		return nil, 0, false
	}, nil)
	mask := Segment(solidFrame(4, 4, color.RGBA{40, 180, 60, 255}), 50)

	// A worker grabs its generation, then a disable races past it.
	gen := e.gen.Add(1)
	e.gen.Add(1)
	e.cache.Store(nil)

	if e.publish(gen, mask, 1.5) {
		t.Fatal("stale worker claimed to publish")
	}
	if e.Current() != nil {
		t.Fatal("stale worker resurrected a dropped cache")
	}
}

func TestPublishStaleGenerationKeepsNewerCache(t *testing.T) {
	e := NewEngine(func() (*image.RGBA, float64, bool) {
		return nil, 0, false
	}, nil)
	mask := Segment(solidFrame(4, 4, color.RGBA{40, 180, 60, 255}), 50)

	old := e.gen.Add(1)
	newer := e.gen.Add(1)
	if !e.publish(newer, mask, 2.0) {
		t.Fatal("current worker failed to publish")
	}
	if e.publish(old, mask, 1.0) {
		t.Fatal("superseded worker claimed to publish")
	}
	c := e.Current()
	if c == nil || c.SampledAt != 2.0 {
		t.Fatalf("newer cache lost: %+v", c)
	}
}

func TestCalibrate(t *testing.T) {
	if got := Calibrate(solidFrame(32, 32, color.RGBA{0, 255, 0, 255})); got != 0 {
		t.Fatalf("pure green frame needs no extra sensitivity, got %v", got)
	}
	if got := Calibrate(solidFrame(32, 32, color.RGBA{128, 128, 128, 255})); got != 50 {
		t.Fatalf("hueless frame should fall back to the default, got %v", got)
	}
}
