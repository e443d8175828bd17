package render

import (
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/shape"
)

// ringSquash is the vertical scale a tilted ring is drawn with: the cosine
// of the tilt angle, floored so an edge-on ring never collapses to a line.
func ringSquash(tiltDegrees float64) float64 {
	squash := math.Abs(math.Cos(tiltDegrees * math.Pi / 180))
	if squash < 0.2 {
		squash = 0.2
	}
	return squash
}

// DrawRing paints a ground ring: a rotating annulus squashed by the tilt so
// it reads as lying on the pitch. A freshly placed ring pops slightly past
// full size before settling.
func (r *Renderer) DrawRing(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	if len(s.Points) == 0 || s.Points[0].Radius <= 0 {
		return
	}
	det, _ := s.Detail.(shape.RingDetail)
	center := s.Points[0]
	age := s.Age(now)

	outer := center.Radius * spawnScale(age)
	inner := outer * innerRadiusRatio
	squash := ringSquash(det.TiltDegrees)

	c := ink(s, now)
	dim := c
	dim.A *= 0.35

	// The sweep gradient spins the bright arc around the ring.
	br := gg.NewSweepGradientBrush(center.X, center.Y, ringAngle(now))
	br.AddColorStop(0, c)
	br.AddColorStop(0.35, dim)
	br.AddColorStop(0.7, c)
	br.AddColorStop(1, c)

	dc.Push()
	// Squash vertically about the center to fake perspective.
	dc.Translate(center.X, center.Y)
	dc.Scale(1, squash)
	dc.Translate(-center.X, -center.Y)

	// Annulus: outer circle minus inner circle under the even-odd rule.
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.DrawCircle(center.X, center.Y, outer)
	dc.DrawCircle(center.X, center.Y, inner)
	r.fillOrFlat(dc, br, c)
	dc.SetFillRule(gg.FillRuleNonZero)

	if det.Filled {
		fc := c
		fc.A *= 0.18
		dc.DrawCircle(center.X, center.Y, inner)
		dc.SetColor(fc.Color())
		r.fill(dc)
	}

	// Thin rim keeps the ring readable over busy grass.
	dc.DrawCircle(center.X, center.Y, outer)
	dc.SetColor(dim.Color())
	dc.SetLineWidth(1.5 / scale)
	r.stroke(dc)
	dc.Pop()
}
