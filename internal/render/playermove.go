package render

import (
	"image"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/shape"
)

// bufCache memoizes ImageBuf conversions of shape-owned bitmaps. Keyed by
// the bitmap pointer: shapes never mutate their bitmaps, so identity is
// enough. Bounded to keep long sessions from pinning dead sprites.
type bufCache struct {
	bufs map[*image.RGBA]*gg.ImageBuf
}

const bufCacheLimit = 64

func (c *bufCache) get(img *image.RGBA) *gg.ImageBuf {
	if img == nil {
		return nil
	}
	if c.bufs == nil {
		c.bufs = make(map[*image.RGBA]*gg.ImageBuf)
	}
	if buf, ok := c.bufs[img]; ok {
		return buf
	}
	if len(c.bufs) >= bufCacheLimit {
		c.bufs = make(map[*image.RGBA]*gg.ImageBuf)
	}
	buf := gg.ImageBufFromImage(img)
	c.bufs[img] = buf
	return buf
}

// DrawPlayerMove paints a relocated player: the background patch over the
// vacated spot, a growing arrowed path, and the sprite cutout with a drop
// shadow at the destination.
func (r *Renderer) DrawPlayerMove(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	det, ok := s.Detail.(shape.MoveDetail)
	if !ok || len(s.Points) < 2 {
		return
	}
	origin, dst := s.Points[0], s.Points[1]
	age := s.Age(now)
	alpha := fadeAlpha(age)

	// 1. Patch the hole the player left behind.
	if buf := r.bufs.get(det.Patch); buf != nil {
		dc.DrawImageEx(buf, gg.DrawImageOptions{
			X:         det.PatchBox.X,
			Y:         det.PatchBox.Y,
			DstWidth:  det.PatchBox.Width,
			DstHeight: det.PatchBox.Height,
			Opacity:   alpha,
		})
	}

	// 2. Movement path, reusing the arrow growth.
	arrow := *s
	arrow.Detail = shape.StrokeDetail{Dashed: true}
	r.DrawArrow(dc, &arrow, now, scale)

	// 3. Sprite at the destination, riding the path tip while growing.
	frac := growFraction(age, arrowGrowDuration)
	px := origin.X + (dst.X-origin.X)*frac
	py := origin.Y + (dst.Y-origin.Y)*frac
	r.drawSprite(dc, det, px, py, alpha)
}

func (r *Renderer) drawSprite(dc *gg.Context, det shape.MoveDetail, cx, cy, alpha float64) {
	if det.Sprite == nil {
		return
	}
	shadowed, origin := r.spriteShadowed(det.Sprite)
	buf := r.bufs.get(shadowed)
	if buf == nil {
		return
	}
	b := shadowed.Bounds()
	w := det.SourceBox.Width
	h := det.SourceBox.Height
	// Scale canvas growth from the shadow padding so the sprite itself still
	// lands at its native size.
	sw := w * float64(b.Dx()) / float64(det.Sprite.Bounds().Dx())
	sh := h * float64(b.Dy()) / float64(det.Sprite.Bounds().Dy())
	ox := w * float64(origin.X) / float64(det.Sprite.Bounds().Dx())
	oy := h * float64(origin.Y) / float64(det.Sprite.Bounds().Dy())
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         cx - w/2 - ox,
		Y:         cy - h/2 - oy,
		DstWidth:  sw,
		DstHeight: sh,
		Opacity:   alpha,
	})
}

// spriteShadowed memoizes the shadow composite per sprite bitmap.
func (r *Renderer) spriteShadowed(sprite *image.RGBA) (*image.RGBA, image.Point) {
	if cached, ok := r.shadowed[sprite]; ok {
		return cached.img, cached.origin
	}
	if r.shadowed == nil {
		r.shadowed = make(map[*image.RGBA]shadowedSprite)
	}
	if len(r.shadowed) >= bufCacheLimit {
		r.shadowed = make(map[*image.RGBA]shadowedSprite)
	}
	img, origin := SpriteShadow().Apply(sprite)
	r.shadowed[sprite] = shadowedSprite{img: img, origin: origin}
	return img, origin
}

type shadowedSprite struct {
	img    *image.RGBA
	origin image.Point
}
