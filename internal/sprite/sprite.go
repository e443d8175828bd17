// Package sprite cuts player sprites and background patches out of video
// frames for the player-move tool.
package sprite

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/example/pitchmark/internal/chroma"
	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

// patchShiftFactor places the donor region for the background patch this
// many selection-widths away from the selection.
const patchShiftFactor = 1.5

// Grab extracts a player-move capture from the frame. Box is in video-space
// pixels. When a chroma mask is supplied and covers the frame, background
// pixels inside the selection are cut from the sprite so only the player
// travels; without one the whole rectangle moves.
//
// The returned bitmaps are copies. They belong to the resulting shape and
// stay valid after the frame buffer is reused.
func Grab(frame *image.RGBA, box geom.Rect, mask *chroma.Cache) (*shape.MoveDetail, error) {
	src := clampToFrame(box, frame.Bounds())
	if src.Empty() {
		return nil, fmt.Errorf("sprite: selection %v outside frame %v", box, frame.Bounds())
	}

	sprite := cut(frame, src)
	if mask != nil && mask.Foreground != nil &&
		mask.Foreground.Bounds() == frame.Bounds() {
		applyMask(sprite, mask.Foreground, src)
	}

	patch, patchBox := backgroundPatch(frame, src)
	return &shape.MoveDetail{
		Sprite:    sprite,
		Patch:     patch,
		PatchBox:  patchBox,
		SourceBox: src,
	}, nil
}

func clampToFrame(box geom.Rect, b image.Rectangle) geom.Rect {
	r := image.Rect(int(box.X), int(box.Y), int(box.X+box.Width), int(box.Y+box.Height)).Intersect(b)
	return geom.NewRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

func cut(frame *image.RGBA, box geom.Rect) *image.RGBA {
	w, h := int(box.Width), int(box.Height)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), frame, image.Pt(int(box.X), int(box.Y)), draw.Src)
	return out
}

// applyMask clears every sprite pixel the chroma mask classified as
// background, leaving the player on a transparent card.
func applyMask(sprite, foreground *image.RGBA, src geom.Rect) {
	w, h := int(src.Width), int(src.Height)
	ox, oy := int(src.X), int(src.Y)
	for y := 0; y < h; y++ {
		si := sprite.PixOffset(0, y)
		fi := foreground.PixOffset(ox, oy+y)
		for x := 0; x < w; x++ {
			if foreground.Pix[fi+3] == 0 {
				sprite.Pix[si] = 0
				sprite.Pix[si+1] = 0
				sprite.Pix[si+2] = 0
				sprite.Pix[si+3] = 0
			}
			si += 4
			fi += 4
		}
	}
}

// backgroundPatch mirrors a neighboring strip of pitch over the vacated
// selection. The donor sits one-and-a-half selection widths to the right;
// when that runs off the frame it flips to the left, clamped to the frame
// edge. Mirroring horizontally hides the seam where donor and hole meet.
func backgroundPatch(frame *image.RGBA, src geom.Rect) (*image.RGBA, geom.Rect) {
	fb := frame.Bounds()
	donorX := src.X + patchShiftFactor*src.Width
	if donorX+src.Width > float64(fb.Max.X) {
		donorX = src.X - patchShiftFactor*src.Width
	}
	if donorX < float64(fb.Min.X) {
		donorX = float64(fb.Min.X)
	}
	donor := geom.NewRect(donorX, src.Y, donorX+src.Width, src.Y+src.Height)
	donor = clampToFrame(donor, fb)

	w, h := int(src.Width), int(src.Height)
	patch := image.NewRGBA(image.Rect(0, 0, w, h))
	dw := int(donor.Width)
	for y := 0; y < h; y++ {
		pi := patch.PixOffset(0, y)
		for x := 0; x < w; x++ {
			// Mirror the donor strip; repeat the edge column when the donor
			// was clamped narrower than the selection.
			dx := dw - 1 - x
			if dx < 0 {
				dx = 0
			}
			fi := frame.PixOffset(int(donor.X)+dx, int(donor.Y)+y)
			patch.Pix[pi] = frame.Pix[fi]
			patch.Pix[pi+1] = frame.Pix[fi+1]
			patch.Pix[pi+2] = frame.Pix[fi+2]
			patch.Pix[pi+3] = 255
			pi += 4
		}
	}
	return patch, src
}
