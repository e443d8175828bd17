package render

import (
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/shape"
)

// DrawSpotlight paints a stage-light cone over a player: a beam falling from
// above, a glowing ground ellipse, and a cloud of orbiting particles.
func (r *Renderer) DrawSpotlight(dc *gg.Context, s *shape.Shape, now time.Time, scale float64) {
	if len(s.Points) == 0 {
		return
	}
	det, ok := s.Detail.(shape.SpotlightDetail)
	if !ok {
		return
	}
	p := s.Points[0]
	age := s.Age(now)

	size := det.Size
	if size <= 0 {
		size = 60
	}
	size *= spawnScale(age)
	intensity := det.Intensity
	if intensity <= 0 {
		intensity = 0.8
	}
	c := ink(s, now)
	squash := math.Abs(math.Cos(det.RotationDeg * math.Pi / 180))
	if squash < 0.2 {
		squash = 0.2
	}

	beamTop := size * 3.2
	topHalf := size * 0.35

	// Beam trapezoid, bright at the source and vanishing at the ground.
	beamTint := c
	beamTint.A *= 0.45 * intensity
	clear := beamTint
	clear.A = 0
	beam := gg.NewLinearGradientBrush(p.X, p.Y-beamTop, p.X, p.Y)
	beam.AddColorStop(0, beamTint)
	beam.AddColorStop(1, clear)
	dc.MoveTo(p.X-topHalf, p.Y-beamTop)
	dc.LineTo(p.X+topHalf, p.Y-beamTop)
	dc.LineTo(p.X+size, p.Y)
	dc.LineTo(p.X-size, p.Y)
	dc.ClosePath()
	r.fillOrFlat(dc, beam, beamTint)

	// Ground glow.
	glowHot := c
	glowHot.A *= 0.55 * intensity
	glow := gg.NewRadialGradientBrush(p.X, p.Y, 0, size)
	glow.AddColorStop(0, glowHot)
	glow.AddColorStop(0.75, gg.RGBA{R: c.R, G: c.G, B: c.B, A: 0.2 * intensity * c.A})
	glow.AddColorStop(1, gg.RGBA{R: c.R, G: c.G, B: c.B})
	dc.Push()
	dc.Translate(p.X, p.Y)
	dc.Scale(1, squash)
	dc.Translate(-p.X, -p.Y)
	dc.DrawCircle(p.X, p.Y, size)
	r.fillOrFlat(dc, glow, glowHot)

	// Rim ring over the glow edge.
	rim := c
	rim.A *= 0.7
	dc.DrawCircle(p.X, p.Y, size)
	dc.SetColor(rim.Color())
	dc.SetLineWidth(2 / scale)
	r.stroke(dc)

	r.drawParticles(dc, det, p.X, p.Y, size, c, age, scale)
	dc.Pop()
}

// drawParticles orbits glints around the glow rim. Each particle flickers on
// a sine wave offset by its own initial angle so the cloud never blinks in
// unison.
func (r *Renderer) drawParticles(dc *gg.Context, det shape.SpotlightDetail, cx, cy, size float64, c gg.RGBA, age time.Duration, scale float64) {
	ms := float64(age.Milliseconds())
	for _, pt := range det.Particles {
		ang := particleAngle(pt, age)
		// Each orbiter keeps its own lane between 0.7 and 1.15 of the rim.
		lane := 0.7 + 0.45*(0.5+0.5*math.Sin(pt.InitialAngle*3))
		x := cx + math.Cos(ang)*size*lane
		y := cy + math.Sin(ang)*size*lane
		flicker := 0.55 + 0.45*math.Sin(ms*0.005+pt.InitialAngle)
		pc := c
		pc.A *= flicker * 0.9
		dc.DrawCircle(x, y, 1.8/scale)
		dc.SetColor(pc.Color())
		r.fill(dc)
	}
}
