package interact

import (
	"image"
	"testing"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

type captureCall struct {
	gen uint64
	box geom.Rect
}

func newTestMachine() (*Machine, *shape.History, *[]captureCall) {
	h := shape.NewHistory()
	var calls []captureCall
	m := NewMachine(h,
		func() Settings {
			return Settings{Color: "#FF0000", StrokeWidth: 4, LensRadius: 60, LensZoom: 2}
		},
		func(gen uint64, box geom.Rect) {
			calls = append(calls, captureCall{gen, box})
		},
		nil)
	return m, h, &calls
}

func drag(m *Machine, from, to geom.Point) {
	m.PointerDown(from)
	m.PointerMove(to)
	m.PointerUp(to)
}

func TestLineDegenerateDragCancels(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindLine)
	drag(m, geom.Pt(50, 50), geom.Pt(50, 50))
	if h.Len() != 0 {
		t.Fatal("zero-length drag must not create a shape")
	}
	if m.Phase() != PhaseIdle {
		t.Fatal("machine should return to idle")
	}
}

func TestArrowDrag(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindArrow)
	drag(m, geom.Pt(100, 100), geom.Pt(300, 200))
	if h.Len() != 1 {
		t.Fatalf("history len = %d, want 1", h.Len())
	}
	s := h.Shapes()[0]
	if s.Kind != shape.KindArrow || len(s.Points) != 2 {
		t.Fatalf("got %v with %d points", s.Kind, len(s.Points))
	}
	if s.Color != "#FF0000" || s.StrokeWidth != 4 {
		t.Fatal("settings snapshot not applied at finalize")
	}
	if s.CreatedAt.IsZero() {
		t.Fatal("drag-built shapes must carry a creation time for entrance animation")
	}
}

func TestRingMinRadius(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindRing)
	drag(m, geom.Pt(100, 100), geom.Pt(103, 100))
	if h.Len() != 0 {
		t.Fatal("sub-minimum ring radius must cancel")
	}
	drag(m, geom.Pt(100, 100), geom.Pt(160, 100))
	if h.Len() != 1 {
		t.Fatal("ring drag did not finalize")
	}
	if r := h.Shapes()[0].Points[0].Radius; r != 60 {
		t.Fatalf("ring radius = %v, want 60", r)
	}
}

func TestPolygonDoubleClickFinalize(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindPolygon)
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 80)} {
		m.PointerDown(p)
		m.PointerUp(p)
	}
	m.DoubleClick()
	if h.Len() != 1 {
		t.Fatalf("history len = %d, want 1", h.Len())
	}
	s := h.Shapes()[0]
	if !s.Closed || len(s.Points) != 3 {
		t.Fatalf("closed=%v points=%d", s.Closed, len(s.Points))
	}
	if !s.CreatedAt.IsZero() {
		t.Fatal("click-built shapes settle immediately")
	}
}

func TestPolygonTooFewVerticesCancels(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindPolygon)
	m.PointerDown(geom.Pt(0, 0))
	m.PointerUp(geom.Pt(0, 0))
	m.PointerDown(geom.Pt(100, 0))
	m.PointerUp(geom.Pt(100, 0))
	m.DoubleClick()
	if h.Len() != 0 {
		t.Fatal("two vertices cannot make a polygon")
	}
	if m.Phase() != PhaseIdle {
		t.Fatal("machine should cancel back to idle")
	}
}

func TestChainClosure(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindChain)

	// Three sized nodes.
	drag(m, geom.Pt(100, 100), geom.Pt(120, 100))
	drag(m, geom.Pt(300, 100), geom.Pt(325, 100))
	drag(m, geom.Pt(200, 250), geom.Pt(215, 250))
	if m.Phase() != PhasePlacing {
		t.Fatalf("phase = %v, want placing", m.Phase())
	}

	// Pressing within the closure distance of the first node closes the
	// chain without adding a node.
	m.PointerDown(geom.Pt(130, 100))
	if h.Len() != 1 {
		t.Fatalf("history len = %d, want 1", h.Len())
	}
	s := h.Shapes()[0]
	if !s.Closed {
		t.Fatal("chain should be closed")
	}
	if len(s.Points) != 3 {
		t.Fatalf("closing press added a node: %d points", len(s.Points))
	}
	if s.Points[1].Radius != 25 {
		t.Fatalf("node radius = %v, want 25", s.Points[1].Radius)
	}
}

func TestChainFarPressStartsNewNode(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindChain)
	drag(m, geom.Pt(100, 100), geom.Pt(120, 100))
	// 41 units away from the first node: a new node, not a closure.
	drag(m, geom.Pt(141, 100), geom.Pt(155, 100))
	if h.Len() != 0 {
		t.Fatal("chain finalized too early")
	}
	m.DoubleClick()
	s := h.Shapes()[0]
	if s.Closed || len(s.Points) != 2 {
		t.Fatalf("closed=%v points=%d, want open 2-node chain", s.Closed, len(s.Points))
	}
}

func TestChainNodeMinRadius(t *testing.T) {
	m, h, _ := newTestMachine()
	m.SetTool(shape.KindChain)
	drag(m, geom.Pt(100, 100), geom.Pt(120, 100))
	// A 3-unit node is discarded but the chain survives.
	drag(m, geom.Pt(300, 100), geom.Pt(303, 100))
	m.DoubleClick()
	if h.Len() != 1 {
		t.Fatal("chain did not finalize")
	}
	if n := len(h.Shapes()[0].Points); n != 1 {
		t.Fatalf("chain has %d nodes, want 1", n)
	}
}

func TestPlayerMoveTooSmallSelection(t *testing.T) {
	m, h, calls := newTestMachine()
	m.SetTool(shape.KindPlayerMove)
	drag(m, geom.Pt(100, 100), geom.Pt(108, 140))
	if len(*calls) != 0 {
		t.Fatal("sub-minimum selection must not trigger a capture")
	}
	if h.Len() != 0 || m.Phase() != PhaseIdle {
		t.Fatal("machine should cancel back to idle")
	}
}

func TestPlayerMoveCaptureAndPlace(t *testing.T) {
	m, h, calls := newTestMachine()
	m.SetTool(shape.KindPlayerMove)
	drag(m, geom.Pt(100, 100), geom.Pt(160, 180))
	if len(*calls) != 1 {
		t.Fatalf("capture calls = %d, want 1", len(*calls))
	}
	call := (*calls)[0]
	if call.box.Width != 60 || call.box.Height != 80 {
		t.Fatalf("capture box = %+v", call.box)
	}
	if m.Phase() != PhaseAwaitingCapture {
		t.Fatalf("phase = %v, want awaiting capture", m.Phase())
	}

	det := &shape.MoveDetail{
		Sprite:    image.NewRGBA(image.Rect(0, 0, 60, 80)),
		Patch:     image.NewRGBA(image.Rect(0, 0, 60, 80)),
		SourceBox: call.box,
	}
	m.CompleteCapture(call.gen, det, nil)
	if m.Phase() != PhasePlacing {
		t.Fatalf("phase = %v, want placing", m.Phase())
	}

	m.PointerDown(geom.Pt(400, 300))
	if h.Len() != 1 {
		t.Fatal("placement press did not finalize")
	}
	s := h.Shapes()[0]
	if s.Kind != shape.KindPlayerMove || len(s.Points) != 2 {
		t.Fatalf("got %v with %d points", s.Kind, len(s.Points))
	}
	if s.Points[1].X != 400 || s.Points[1].Y != 300 {
		t.Fatalf("destination = %+v", s.Points[1])
	}
	if s.Detail.(shape.MoveDetail).Sprite == nil {
		t.Fatal("sprite bitmap not carried into the shape")
	}
}

func TestPlayerMoveStaleCaptureIgnored(t *testing.T) {
	m, h, calls := newTestMachine()
	m.SetTool(shape.KindPlayerMove)
	drag(m, geom.Pt(100, 100), geom.Pt(160, 180))
	gen := (*calls)[0].gen

	// Playback resumed before the grab landed.
	m.Reset()
	m.CompleteCapture(gen, &shape.MoveDetail{}, nil)
	if m.Phase() != PhaseIdle {
		t.Fatal("stale capture result must be discarded")
	}
	if h.Len() != 0 {
		t.Fatal("stale capture must not produce a shape")
	}
}

func TestToolSwitchAbortsGesture(t *testing.T) {
	m, _, _ := newTestMachine()
	m.SetTool(shape.KindPolygon)
	m.PointerDown(geom.Pt(0, 0))
	m.PointerUp(geom.Pt(0, 0))
	m.SetTool(shape.KindPen)
	if m.Phase() != PhaseIdle {
		t.Fatal("tool switch must abort the gesture")
	}
	if m.Preview() != nil {
		t.Fatal("no preview after abort")
	}
}

func TestPenPath(t *testing.T) {
	m, h, _ := newTestMachine()
	// Pen is the default tool.
	m.PointerDown(geom.Pt(0, 0))
	for x := 1.0; x <= 5; x++ {
		m.PointerMove(geom.Pt(x*10, x*5))
	}
	m.PointerUp(geom.Pt(50, 25))
	if h.Len() != 1 {
		t.Fatal("pen stroke did not finalize")
	}
	s := h.Shapes()[0]
	if len(s.Points) < 6 {
		t.Fatalf("pen path has %d points", len(s.Points))
	}
	if !s.Stroke().Freehand {
		t.Fatal("pen stroke should be marked freehand")
	}
}
