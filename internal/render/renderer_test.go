package render

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestDrawStrokeTouchesCanvas(t *testing.T) {
	dc := gg.NewContext(100, 100)
	r := New(nil)
	s := &shape.Shape{
		Kind:        shape.KindLine,
		Points:      []geom.Point{geom.Pt(10, 50), geom.Pt(90, 50)},
		Color:       "#FF0000",
		StrokeWidth: 5,
		Detail:      shape.StrokeDetail{},
	}
	r.DrawStroke(dc, s, time.Now(), 1)
	if alphaAt(dc.Image(), 50, 50) == 0 {
		t.Fatal("line left no pixels on its own midpoint")
	}
	if alphaAt(dc.Image(), 50, 10) != 0 {
		t.Fatal("line painted far off its path")
	}
}

func TestDrawArrowGrowth(t *testing.T) {
	r := New(nil)
	s := &shape.Shape{
		Kind:        shape.KindArrow,
		Points:      []geom.Point{geom.Pt(10, 50), geom.Pt(90, 50)},
		Color:       "#00FF00",
		StrokeWidth: 5,
		CreatedAt:   time.Now(),
		Detail:      shape.StrokeDetail{},
	}

	// Early in the growth the far end is still bare.
	early := gg.NewContext(100, 100)
	r.DrawArrow(early, s, s.CreatedAt.Add(50*time.Millisecond), 1)
	if alphaAt(early.Image(), 85, 50) != 0 {
		t.Fatal("arrow reached its tip too early")
	}

	// Fully grown it spans tail to tip.
	done := gg.NewContext(100, 100)
	r.DrawArrow(done, s, s.CreatedAt.Add(time.Second), 1)
	if alphaAt(done.Image(), 85, 50) == 0 {
		t.Fatal("grown arrow missing at the tip")
	}
	if alphaAt(done.Image(), 15, 50) == 0 {
		t.Fatal("grown arrow missing at the tail")
	}
}

func TestDrawRingLeavesHole(t *testing.T) {
	dc := gg.NewContext(200, 200)
	r := New(nil)
	center := geom.Pt(100, 100)
	center.Radius = 60
	s := &shape.Shape{
		Kind:   shape.KindRing,
		Points: []geom.Point{center},
		Color:  "#FFFF00",
		Detail: shape.RingDetail{},
	}
	r.DrawRing(dc, s, time.Now(), 1)
	img := dc.Image()
	if alphaAt(img, 100+55, 100) == 0 {
		t.Fatal("annulus band not painted")
	}
	// Inside the inner radius (0.65 * 60 = 39) stays clear for an unfilled
	// ring.
	if alphaAt(img, 100, 100) != 0 {
		t.Fatal("ring center should be transparent")
	}
}

func TestRingSquash(t *testing.T) {
	cases := []struct {
		tilt, want float64
	}{
		{0, 1},
		{60, 0.5},
		{65, 0.4226},
		{90, 0.2}, // cos(90) floored so the ring never collapses
		{180, 1},
	}
	for _, c := range cases {
		if got := ringSquash(c.tilt); math.Abs(got-c.want) > 1e-3 {
			t.Errorf("ringSquash(%v) = %v, want %v", c.tilt, got, c.want)
		}
	}
}

func TestDrawRingTiltSquashesVertically(t *testing.T) {
	dc := gg.NewContext(200, 200)
	r := New(nil)
	center := geom.Pt(100, 100)
	center.Radius = 60
	s := &shape.Shape{
		Kind:   shape.KindRing,
		Points: []geom.Point{center},
		Color:  "#FFFF00",
		Detail: shape.RingDetail{TiltDegrees: 65},
	}
	r.DrawRing(dc, s, time.Now(), 1)
	img := dc.Image()

	// Painted extent along each axis through the center.
	maxDx, maxDy := 0, 0
	for x := 0; x < 200; x++ {
		if alphaAt(img, x, 100) > 0 {
			if d := abs(x - 100); d > maxDx {
				maxDx = d
			}
		}
	}
	for y := 0; y < 200; y++ {
		if alphaAt(img, 100, y) > 0 {
			if d := abs(y - 100); d > maxDy {
				maxDy = d
			}
		}
	}
	if maxDx == 0 || maxDy == 0 {
		t.Fatal("tilted ring left no ink on the center axes")
	}
	ratio := float64(maxDy) / float64(maxDx)
	if math.Abs(ratio-0.4226) > 0.05 {
		t.Fatalf("vertical squash ratio = %v, want cos(65deg) = 0.4226", ratio)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDrawChainTrimsLinks(t *testing.T) {
	dc := gg.NewContext(300, 100)
	r := New(nil)
	a := geom.Pt(60, 50)
	a.Radius = 20
	b := geom.Pt(240, 50)
	b.Radius = 20
	s := &shape.Shape{
		Kind:        shape.KindChain,
		Points:      []geom.Point{a, b},
		Color:       "#00FFFF",
		StrokeWidth: 3,
		Detail:      shape.StrokeDetail{},
	}
	r.DrawChain(dc, s, time.Now(), 1)
	img := dc.Image()
	if alphaAt(img, 150, 50) == 0 {
		t.Fatal("link not painted between the nodes")
	}
	// The link stops 0.8*radius from each center, so just outside a node
	// center there is no link ink.
	if alphaAt(img, 62, 50) != 0 {
		t.Fatal("link crosses into the node interior")
	}
}
