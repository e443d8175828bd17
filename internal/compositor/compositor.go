// Package compositor assembles a finished frame: video underlay, chroma
// mask, and every annotation pass in its contractual order.
package compositor

import (
	"image"
	"log/slog"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/chroma"
	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/render"
	"github.com/example/pitchmark/internal/shape"
)

// Snapshot is everything one frame needs, gathered on the interaction
// thread before drawing starts. Drawing never reaches back into live state,
// so a concurrent history edit cannot tear a frame.
type Snapshot struct {
	Shapes  []*shape.Shape
	Preview *shape.Shape
	Mapping geom.Mapping
	Now     time.Time

	// Frame is the current video frame, already drawn beneath by the
	// viewer; the compositor resamples it for lenses.
	Frame       *gg.ImageBuf
	FrameBounds image.Rectangle

	VideoTime   float64
	Mask        *chroma.Cache
	ShowOverlay bool
}

// Compositor draws snapshots. It owns the pass ordering; the renderer owns
// each shape's look.
type Compositor struct {
	r   *render.Renderer
	log *slog.Logger

	// One-slot caches for the mask bitmaps, which change identity only when
	// the chroma engine publishes a new record.
	overlaySrc *image.RGBA
	overlayBuf *gg.ImageBuf
	fgSrc      *image.RGBA
	fgBuf      *gg.ImageBuf
}

// New creates a compositor around a renderer.
func New(r *render.Renderer, log *slog.Logger) *Compositor {
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{r: r, log: log}
}

// Draw paints one snapshot onto the context. The caller has already cleared
// it and drawn the video frame into the mapped rectangle.
//
// Pass order, bottom to top:
//
//	detection overlay > persistent shapes (curved arrows as shadows only)
//	> chroma foreground > curved-arrow bodies and player moves > lenses
//
// The chroma foreground sits between the two annotation groups so flat
// shapes read as painted on the pitch, under the players, while movement
// annotations stay legible above them.
func (c *Compositor) Draw(dc *gg.Context, snap *Snapshot) {
	masked := snap.Mask.SyncedWith(snap.VideoTime)
	m := snap.Mapping

	if masked && snap.ShowOverlay {
		c.drawMaskBitmap(dc, c.overlay(snap.Mask), m)
	}

	base, above, lenses := planPasses(snap.Shapes, snap.Preview)

	c.enterVideoSpace(dc, m)
	for _, s := range base {
		c.drawBase(dc, s, snap)
	}
	dc.Pop()

	if masked {
		c.drawMaskBitmap(dc, c.foreground(snap.Mask), m)
	}

	c.enterVideoSpace(dc, m)
	for _, s := range above {
		switch s.Kind {
		case shape.KindCurvedArrow:
			c.r.DrawCurvedArrow(dc, s, snap.Now, m.Scale, render.CurvedArrowBody)
		case shape.KindPlayerMove:
			c.r.DrawPlayerMove(dc, s, snap.Now, m.Scale)
		}
	}
	dc.Pop()

	for _, s := range lenses {
		c.r.DrawLens(dc, s, snap.Frame, snap.FrameBounds, m, snap.Now)
	}
}

func (c *Compositor) enterVideoSpace(dc *gg.Context, m geom.Mapping) {
	dc.Push()
	dc.Translate(m.OffsetX, m.OffsetY)
	dc.Scale(m.Scale, m.Scale)
}

func (c *Compositor) drawBase(dc *gg.Context, s *shape.Shape, snap *Snapshot) {
	switch s.Kind {
	case shape.KindPen, shape.KindLine, shape.KindPolygon:
		c.r.DrawStroke(dc, s, snap.Now, snap.Mapping.Scale)
	case shape.KindArrow:
		c.r.DrawArrow(dc, s, snap.Now, snap.Mapping.Scale)
	case shape.KindCurvedArrow:
		c.r.DrawCurvedArrow(dc, s, snap.Now, snap.Mapping.Scale, render.CurvedArrowShadow)
	case shape.KindRing:
		c.r.DrawRing(dc, s, snap.Now, snap.Mapping.Scale)
	case shape.KindChain:
		c.r.DrawChain(dc, s, snap.Now, snap.Mapping.Scale)
	case shape.KindSpotlight:
		c.r.DrawSpotlight(dc, s, snap.Now, snap.Mapping.Scale)
	}
}

// drawMaskBitmap stretches a full-frame mask bitmap over the mapped video
// rectangle in screen space.
func (c *Compositor) drawMaskBitmap(dc *gg.Context, buf *gg.ImageBuf, m geom.Mapping) {
	if buf == nil {
		return
	}
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         m.OffsetX,
		Y:         m.OffsetY,
		DstWidth:  m.DrawWidth,
		DstHeight: m.DrawHeight,
	})
}

func (c *Compositor) overlay(mask *chroma.Cache) *gg.ImageBuf {
	if mask.Overlay != c.overlaySrc {
		c.overlaySrc = mask.Overlay
		c.overlayBuf = gg.ImageBufFromImage(mask.Overlay)
	}
	return c.overlayBuf
}

func (c *Compositor) foreground(mask *chroma.Cache) *gg.ImageBuf {
	if mask.Foreground != c.fgSrc {
		c.fgSrc = mask.Foreground
		c.fgBuf = gg.ImageBufFromImage(mask.Foreground)
	}
	return c.fgBuf
}

// planPasses splits the shapes into the three annotation passes, keeping
// creation order inside each. Curved arrows appear in both the base pass
// (shadow) and the upper pass (body); player moves only in the upper pass;
// lenses only in the final screen-space pass.
func planPasses(shapes []*shape.Shape, preview *shape.Shape) (base, above, lenses []*shape.Shape) {
	all := shapes
	if preview != nil {
		all = append(append([]*shape.Shape(nil), shapes...), preview)
	}
	for _, s := range all {
		switch s.Kind {
		case shape.KindLens:
			lenses = append(lenses, s)
		case shape.KindPlayerMove:
			above = append(above, s)
		case shape.KindCurvedArrow:
			base = append(base, s)
			above = append(above, s)
		default:
			base = append(base, s)
		}
	}
	return base, above, lenses
}
