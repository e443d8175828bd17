// Package render paints annotation shapes onto a gg drawing context. The
// compositor owns pass ordering; this package owns how each shape kind looks
// at a given instant.
package render

import (
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

// Renderer paints shapes. Beyond the logger it only carries caches of
// converted sprite bitmaps, so one instance serves every pass of a frame.
type Renderer struct {
	log      *slog.Logger
	bufs     bufCache
	shadowed map[*image.RGBA]shadowedSprite
}

// New creates a renderer.
func New(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{log: log}
}

// ink converts the shape color to a gg color with the entrance fade applied.
func ink(s *shape.Shape, now time.Time) gg.RGBA {
	c := gg.Hex(s.Color)
	c.A *= fadeAlpha(s.Age(now))
	return c
}

// strokeWidth compensates for the video-space transform so lines keep their
// on-screen thickness at any window size.
func strokeWidth(s *shape.Shape, scale float64) float64 {
	w := s.StrokeWidth
	if w <= 0 {
		w = 3
	}
	return w / scale
}

// fillOrFlat fills the current path with the brush, falling back to a flat
// color when the gradient rasterizer reports an error.
func (r *Renderer) fillOrFlat(dc *gg.Context, b gg.Brush, flat gg.RGBA) {
	dc.SetFillBrush(b)
	if err := dc.FillPreserve(); err != nil {
		r.log.Debug("gradient fill failed, using flat color", "error", err)
		dc.SetColor(flat.Color())
		if err := dc.FillPreserve(); err != nil {
			r.log.Warn("flat fill failed", "error", err)
		}
	}
	dc.ClearPath()
}

// strokeOrFlat strokes the current path with the brush, with the same flat
// fallback as fillOrFlat.
func (r *Renderer) strokeOrFlat(dc *gg.Context, b gg.Brush, flat gg.RGBA) {
	dc.SetStrokeBrush(b)
	if err := dc.StrokePreserve(); err != nil {
		r.log.Debug("gradient stroke failed, using flat color", "error", err)
		dc.SetColor(flat.Color())
		if err := dc.StrokePreserve(); err != nil {
			r.log.Warn("flat stroke failed", "error", err)
		}
	}
	dc.ClearPath()
}

func (r *Renderer) stroke(dc *gg.Context) {
	if err := dc.Stroke(); err != nil {
		r.log.Warn("stroke failed", "error", err)
	}
}

func (r *Renderer) fill(dc *gg.Context) {
	if err := dc.Fill(); err != nil {
		r.log.Warn("fill failed", "error", err)
	}
}

// DrawStroke paints the line-family kinds: pen paths, straight lines and
// polygons.
func (r *Renderer) DrawStroke(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	if len(s.Points) < 2 {
		return
	}
	c := ink(s, now)
	det := s.Stroke()

	dc.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if s.Closed {
		dc.ClosePath()
	}
	if s.Closed && det.Filled {
		fc := c
		fc.A *= 0.25
		dc.SetColor(fc.Color())
		if err := dc.FillPreserve(); err != nil {
			r.log.Warn("polygon fill failed", "error", err)
		}
	}
	dc.SetColor(c.Color())
	dc.SetLineWidth(strokeWidth(s, scale))
	if det.Dashed {
		dc.SetDash(8/scale, 6/scale)
	}
	r.stroke(dc)
	dc.SetDash()
}

// DrawArrow paints a straight arrow. The shaft grows out of the tail over
// half a second and the head appears once the shaft has room for it; settled
// arrows carry a shimmer that slides along the shaft.
func (r *Renderer) DrawArrow(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	if len(s.Points) < 2 {
		return
	}
	tail, tip := s.Points[0], s.Points[1]
	frac := growFraction(s.Age(now), arrowGrowDuration)
	if frac <= 0 {
		return
	}
	head := geom.Pt(tail.X+(tip.X-tail.X)*frac, tail.Y+(tip.Y-tail.Y)*frac)

	c := ink(s, now)
	w := strokeWidth(s, scale)
	headLen := w * 4

	dc.MoveTo(tail.X, tail.Y)
	dc.LineTo(head.X, head.Y)
	dc.SetLineWidth(w)
	if s.Stroke().Dashed {
		dc.SetDash(8/scale, 6/scale)
	}
	r.strokeOrFlat(dc, shimmerBrush(tail, head, c, now, s.Preview), c)
	dc.SetDash()

	if tail.Distance(head) > headLen {
		r.drawArrowHead(dc, tail, head, headLen, c)
	}
}

// drawArrowHead fills a triangular head pointing from 'from' toward 'at'.
func (r *Renderer) drawArrowHead(dc *gg.Context, from, at geom.Point, size float64, c gg.RGBA) {
	ang := math.Atan2(at.Y-from.Y, at.X-from.X)
	const spread = 0.45
	dc.MoveTo(at.X, at.Y)
	dc.LineTo(at.X-size*math.Cos(ang-spread), at.Y-size*math.Sin(ang-spread))
	dc.LineTo(at.X-size*math.Cos(ang+spread), at.Y-size*math.Sin(ang+spread))
	dc.ClosePath()
	dc.SetColor(c.Color())
	r.fill(dc)
}

// shimmerBrush is the moving highlight along a settled arrow shaft. Preview
// geometry freezes the highlight mid-shaft.
func shimmerBrush(a, b geom.Point, c gg.RGBA, now time.Time, frozen bool) gg.Brush {
	const period = 1800
	t := 0.5
	if !frozen {
		t = float64(now.UnixMilli()%period) / period
	}
	hi := gg.RGBA{
		R: c.R + (1-c.R)*0.8,
		G: c.G + (1-c.G)*0.8,
		B: c.B + (1-c.B)*0.8,
		A: c.A,
	}
	br := gg.NewLinearGradientBrush(a.X, a.Y, b.X, b.Y)
	lo, mid, hiStop := t-0.18, t, t+0.18
	br.AddColorStop(0, c)
	if lo > 0 && lo < 1 {
		br.AddColorStop(lo, c)
	}
	if mid > 0 && mid < 1 {
		br.AddColorStop(mid, hi)
	}
	if hiStop > 0 && hiStop < 1 {
		br.AddColorStop(hiStop, c)
	}
	br.AddColorStop(1, c)
	return br
}

// CurvedArrowPass selects which half of a curved arrow to paint. The shadow
// stays under the chroma foreground while the body rides above it.
type CurvedArrowPass int

const (
	// CurvedArrowShadow is the dark offset copy painted below the mask.
	CurvedArrowShadow CurvedArrowPass = iota
	// CurvedArrowBody is the colored stroke painted above the mask.
	CurvedArrowBody
)

// DrawCurvedArrow paints one pass of a curved arrow. The curve is a
// quadratic bowed sideways from the chord, grown from the tail over 600ms.
func (r *Renderer) DrawCurvedArrow(dc *gg.Context, s *shape.Shape, now time.Time, scale float64, pass CurvedArrowPass) {
	if len(s.Points) < 2 {
		return
	}
	frac := growFraction(s.Age(now), curvedGrowDuration)
	if frac <= 0 {
		return
	}
	tail, tip := s.Points[0], s.Points[1]
	ctrl := curveControl(tail, tip)

	c := ink(s, now)
	w := strokeWidth(s, scale)
	if pass == CurvedArrowShadow {
		c = gg.RGBA{A: 0.4 * c.A}
		w *= 1.6
		sh := 3 / scale
		tail = geom.Pt(tail.X+sh, tail.Y+sh)
		tip = geom.Pt(tip.X+sh, tip.Y+sh)
		ctrl = geom.Pt(ctrl.X+sh, ctrl.Y+sh)
	}

	// Trace the grown part of the curve with line segments; the final
	// sample gives the head direction.
	const steps = 24
	n := int(math.Ceil(steps * frac))
	if n < 1 {
		n = 1
	}
	dc.MoveTo(tail.X, tail.Y)
	prev, last := tail, tail
	for i := 1; i <= n; i++ {
		t := frac * float64(i) / float64(n)
		p := quadPoint(tail, ctrl, tip, t)
		dc.LineTo(p.X, p.Y)
		prev, last = last, p
	}
	dc.SetColor(c.Color())
	dc.SetLineWidth(w)
	r.stroke(dc)

	headLen := w * 4
	if pass == CurvedArrowShadow {
		headLen = w * 2.5
	}
	if frac == 1 && prev.Distance(last) > 0 {
		r.drawArrowHead(dc, prev, last, headLen, c)
	}
}

// curveControl bows the control point off the chord midpoint by 0.18 of the
// chord length.
func curveControl(a, b geom.Point) geom.Point {
	mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
	dx, dy := b.X-a.X, b.Y-a.Y
	return geom.Pt(mx-dy*0.18, my+dx*0.18)
}

func quadPoint(a, c, b geom.Point, t float64) geom.Point {
	u := 1 - t
	return geom.Pt(
		u*u*a.X+2*u*t*c.X+t*t*b.X,
		u*u*a.Y+2*u*t*c.Y+t*t*b.Y,
	)
}
