package compositor

import (
	"testing"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/chroma"
	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/render"
	"github.com/example/pitchmark/internal/shape"
)

func mk(kind shape.Kind) *shape.Shape {
	p := geom.Pt(10, 10)
	p.Radius = 20
	return &shape.Shape{
		Kind:        kind,
		Points:      []geom.Point{p, geom.Pt(50, 50)},
		Color:       "#FF0000",
		StrokeWidth: 3,
		Detail:      shape.StrokeDetail{},
	}
}

func TestPlanPassesSplit(t *testing.T) {
	shapes := []*shape.Shape{
		mk(shape.KindPen),
		mk(shape.KindCurvedArrow),
		mk(shape.KindLens),
		mk(shape.KindPlayerMove),
		mk(shape.KindRing),
	}
	base, above, lenses := planPasses(shapes, nil)

	wantBase := []shape.Kind{shape.KindPen, shape.KindCurvedArrow, shape.KindRing}
	if len(base) != len(wantBase) {
		t.Fatalf("base pass has %d shapes, want %d", len(base), len(wantBase))
	}
	for i, k := range wantBase {
		if base[i].Kind != k {
			t.Fatalf("base[%d] = %v, want %v", i, base[i].Kind, k)
		}
	}

	wantAbove := []shape.Kind{shape.KindCurvedArrow, shape.KindPlayerMove}
	if len(above) != len(wantAbove) {
		t.Fatalf("upper pass has %d shapes, want %d", len(above), len(wantAbove))
	}
	for i, k := range wantAbove {
		if above[i].Kind != k {
			t.Fatalf("above[%d] = %v, want %v", i, above[i].Kind, k)
		}
	}

	if len(lenses) != 1 || lenses[0].Kind != shape.KindLens {
		t.Fatalf("lens pass = %v", lenses)
	}
}

func TestPlanPassesPreviewDrawsLast(t *testing.T) {
	shapes := []*shape.Shape{mk(shape.KindLine)}
	preview := mk(shape.KindLine)
	base, _, _ := planPasses(shapes, preview)
	if len(base) != 2 || base[1] != preview {
		t.Fatal("preview must draw after persistent shapes")
	}
	// The input slice must not be mutated.
	if len(shapes) != 1 {
		t.Fatal("planPasses grew the caller's slice")
	}
}

func TestDrawSmoke(t *testing.T) {
	dc := gg.NewContext(200, 150)
	c := New(render.New(nil), nil)
	snap := &Snapshot{
		Shapes: []*shape.Shape{
			mk(shape.KindLine),
			mk(shape.KindRing),
			mk(shape.KindChain),
			mk(shape.KindCurvedArrow),
		},
		Mapping:   geom.FitMapping(200, 150, 100, 100),
		Now:       time.Now(),
		VideoTime: 1.0,
	}
	// Must not panic with no frame, no mask and nil preview.
	c.Draw(dc, snap)

	// A stale mask must not be drawn; SyncedWith guards both bitmaps.
	snap.Mask = &chroma.Cache{SampledAt: 5}
	snap.ShowOverlay = true
	c.Draw(dc, snap)
}
