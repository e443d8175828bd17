package render

import (
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

// chainPulsePeriod drives the breathing of the most recent chain node.
const chainPulsePeriod = 1200 * time.Millisecond

// DrawChain paints a marker chain: sized node circles joined by links that
// stop short of each circle. A closed chain gets the extra link back to the
// first node. The newest node pulses gently so the user can see which one a
// fresh link will grow from.
func (r *Renderer) DrawChain(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	if len(s.Points) == 0 {
		return
	}
	c := ink(s, now)
	w := strokeWidth(s, scale)

	newest := 0
	for i, p := range s.Points {
		if p.CreatedAtMs > s.Points[newest].CreatedAtMs {
			newest = i
		}
	}

	for i, p := range s.Points {
		radius := p.Radius
		if i == newest && !s.Closed {
			radius *= pulseScale(p, now)
		}
		dc.DrawCircle(p.X, p.Y, radius)
		dc.SetColor(c.Color())
		dc.SetLineWidth(w)
		r.stroke(dc)
	}

	for i := 1; i < len(s.Points); i++ {
		r.drawChainLink(dc, s.Points[i-1], s.Points[i], c, w)
	}
	if s.Closed && len(s.Points) > 2 {
		r.drawChainLink(dc, s.Points[len(s.Points)-1], s.Points[0], c, w)
	}
}

// drawChainLink joins two node circles, pulling each end in from the rim so
// the link reads as attached rather than crossing through.
func (r *Renderer) drawChainLink(dc *gg.Context, a, b geom.Point, c gg.RGBA, w float64) {
	d := a.Distance(b)
	trimA := 0.8 * a.Radius
	trimB := 0.8 * b.Radius
	if d <= trimA+trimB {
		return
	}
	ux, uy := (b.X-a.X)/d, (b.Y-a.Y)/d
	dc.DrawLine(a.X+ux*trimA, a.Y+uy*trimA, b.X-ux*trimB, b.Y-uy*trimB)
	dc.SetColor(c.Color())
	dc.SetLineWidth(w)
	r.stroke(dc)
}

// pulseScale breathes between 0.92 and 1.08 from the node's own timestamp.
func pulseScale(p geom.Point, now time.Time) float64 {
	elapsed := now.UnixMilli() - p.CreatedAtMs
	if elapsed < 0 {
		elapsed = 0
	}
	phase := 2 * math.Pi * float64(elapsed%chainPulsePeriod.Milliseconds()) /
		float64(chainPulsePeriod.Milliseconds())
	return 1 + 0.08*math.Sin(phase)
}
