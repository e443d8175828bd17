// Package chroma implements the chroma-key segmentation engine: per-pixel
// classification of a video frame into removable background and kept
// foreground, cached against the media time it was sampled at.
package chroma

import (
	"image"
	"math"

	"github.com/example/pitchmark/internal/colorutil"
)

// SyncTolerance is the maximum distance, in seconds of media time, between
// the cached sample time and the current playhead for a mask to be drawn.
const SyncTolerance = 0.15

// Overlay pixels mark detected background with a fixed translucent red. The
// overlay is a visual indicator only and never composites into the clean
// output.
var overlayColor = [4]uint8{255, 0, 0, 110}

// IsBackground classifies a single pixel. Sensitivity is the 0-100 slider;
// higher values widen the accepted hue band, so a pixel classified as
// background at some sensitivity stays background at every higher one.
func IsBackground(r, g, b uint8, sensitivity float64) bool {
	h, s, l := colorutil.RGBToHSL(r, g, b)
	lo := 75 - 0.4*sensitivity
	hi := 155 + 0.4*sensitivity
	return h >= lo && h <= hi && s >= 0.15 && l >= 0.15 && l <= 0.85
}

// Mask is a segmentation result: the foreground bitmap with background
// pixels fully transparent, and the detection overlay bitmap.
type Mask struct {
	Foreground *image.RGBA
	Overlay    *image.RGBA
}

// Segment classifies every pixel of the frame at the given sensitivity.
func Segment(frame *image.RGBA, sensitivity float64) *Mask {
	bounds := frame.Bounds()
	fg := image.NewRGBA(bounds)
	ov := image.NewRGBA(bounds)

	// The source may be a sub-image with a padded stride, so the source and
	// destination offsets advance independently. fg and ov share geometry, so
	// one destination offset serves both.
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		si := frame.PixOffset(bounds.Min.X, y)
		di := fg.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r := frame.Pix[si]
			g := frame.Pix[si+1]
			b := frame.Pix[si+2]
			if IsBackground(r, g, b, sensitivity) {
				// Foreground stays transparent; overlay marks the removal.
				ov.Pix[di] = overlayColor[0]
				ov.Pix[di+1] = overlayColor[1]
				ov.Pix[di+2] = overlayColor[2]
				ov.Pix[di+3] = overlayColor[3]
			} else {
				fg.Pix[di] = r
				fg.Pix[di+1] = g
				fg.Pix[di+2] = b
				fg.Pix[di+3] = 255
			}
			si += 4
			di += 4
		}
	}
	return &Mask{Foreground: fg, Overlay: ov}
}

// Cache is a published segmentation result tagged with the media time it was
// sampled at. A Cache record is immutable once published; replacing it drops
// both bitmaps at once so the compositor never sees a half-updated pair.
type Cache struct {
	Mask
	SampledAt float64
}

// SyncedWith reports whether the cache may be drawn for the given playhead
// position. Outside the tolerance the raw video shows instead.
func (c *Cache) SyncedWith(videoTime float64) bool {
	if c == nil {
		return false
	}
	return math.Abs(c.SampledAt-videoTime) < SyncTolerance
}
