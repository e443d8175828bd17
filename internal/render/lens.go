package render

import (
	"image"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

// DrawLens paints the magnifying lens. It works in screen space on an
// untransformed context: the lens is a screen-sized widget whose content
// resamples the live video frame, so it magnifies whatever plays beneath it.
func (r *Renderer) DrawLens(dc *gg.Context, s *shape.Shape, frame *gg.ImageBuf, frameBounds image.Rectangle, m geom.Mapping, now time.Time) {
	if len(s.Points) == 0 || frame == nil {
		return
	}
	det, ok := s.Detail.(shape.LensDetail)
	if !ok {
		return
	}
	radius := det.Radius
	if radius <= 0 {
		radius = 60
	}
	zoom := det.Zoom
	if zoom <= 1 {
		zoom = 2
	}
	center := s.Points[0]
	sp := m.ToScreen(center)
	sx, sy := sp.X, sp.Y
	alpha := fadeAlpha(s.Age(now))

	// Source window in video pixels: the screen footprint divided by the
	// contain-fit scale, then shrunk by the zoom factor.
	side := (2 * radius / m.Scale) / zoom
	src := image.Rect(
		int(center.X-side/2), int(center.Y-side/2),
		int(center.X+side/2), int(center.Y+side/2),
	).Intersect(frameBounds)
	if src.Empty() {
		return
	}

	// Soft shadow under the glass.
	dc.DrawCircle(sx, sy+6, radius)
	dc.SetRGBA(0, 0, 0, 0.3*alpha)
	r.fill(dc)

	dc.Push()
	dc.DrawCircle(sx, sy, radius)
	dc.Clip()
	dc.DrawImageEx(frame, gg.DrawImageOptions{
		X:         sx - radius,
		Y:         sy - radius,
		DstWidth:  2 * radius,
		DstHeight: 2 * radius,
		SrcRect:   &src,
		Opacity:   alpha,
	})
	// Glass sheen across the upper half.
	dc.DrawEllipse(sx-radius*0.25, sy-radius*0.45, radius*0.55, radius*0.3)
	dc.SetRGBA(1, 1, 1, 0.18*alpha)
	r.fill(dc)
	dc.ResetClip()
	dc.Pop()

	// Double border: dark outer rim, light inner line.
	dc.DrawCircle(sx, sy, radius)
	dc.SetRGBA(0.1, 0.1, 0.1, 0.9*alpha)
	dc.SetLineWidth(3)
	r.stroke(dc)
	dc.DrawCircle(sx, sy, radius-2.5)
	dc.SetRGBA(1, 1, 1, 0.6*alpha)
	dc.SetLineWidth(1)
	r.stroke(dc)
}

// LensScreenCenter reports where a lens sits on screen, for hit testing.
func LensScreenCenter(s *shape.Shape, m geom.Mapping) geom.Point {
	if len(s.Points) == 0 {
		return geom.Point{}
	}
	return m.ToScreen(s.Points[0])
}
