// Package interact turns pointer events into finalized annotation shapes.
// One explicit state machine covers every tool; the viewer feeds it events in
// video-space coordinates and it appends finished shapes to the history.
package interact

import (
	"log/slog"
	"time"

	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/shape"
)

const (
	// chainCloseDistance is how near, in video units, a press must land to
	// the first chain node to close the chain instead of starting a new node.
	chainCloseDistance = 40
	// chainMinNodeRadius discards accidental taps while sizing a chain node.
	chainMinNodeRadius = 5
	// ringMinRadius discards degenerate ring drags.
	ringMinRadius = 5
	// moveMinDrag is the minimum selection box edge for a player move.
	moveMinDrag = 10
)

// Phase is the machine's current interaction stage.
type Phase int

const (
	// PhaseIdle means no gesture is in progress.
	PhaseIdle Phase = iota
	// PhaseDragging covers press-drag-release gestures.
	PhaseDragging
	// PhasePlacing covers multi-click gestures (polygon vertices, chain
	// nodes between drags, a captured player sprite following the cursor).
	PhasePlacing
	// PhaseAwaitingCapture means a player-move selection was released and
	// the sprite grab is running; pointer input is ignored until it lands.
	PhaseAwaitingCapture
)

// Settings is the tool configuration snapshot read once at finalize time, so
// a shape keeps the options that were live when the gesture started paying
// off, not whatever the panel shows later.
type Settings struct {
	Color       string
	StrokeWidth float64
	Dashed      bool
	Filled      bool

	RingTilt float64

	SpotlightSize      float64
	SpotlightIntensity float64
	SpotlightRotation  float64

	LensRadius float64
	LensZoom   float64
}

// CaptureFunc grabs the player sprite and background patch for the given
// video-space box. It runs asynchronously; the result comes back through
// CompleteCapture with the same generation number, on the interaction thread.
type CaptureFunc func(gen uint64, box geom.Rect)

// Machine is the per-tool pointer state machine. It is confined to the
// interaction thread, like the history it appends to.
type Machine struct {
	history  *shape.History
	settings func() Settings
	capture  CaptureFunc
	log      *slog.Logger
	now      func() time.Time

	tool   shape.Kind
	phase  Phase
	points []geom.Point
	cursor geom.Point

	captureGen uint64
	pendingBox geom.Rect
	moveDetail *shape.MoveDetail
}

// NewMachine creates an idle machine with the pen tool selected.
func NewMachine(h *shape.History, settings func() Settings, capture CaptureFunc, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		history:  h,
		settings: settings,
		capture:  capture,
		log:      log,
		now:      time.Now,
		tool:     shape.KindPen,
	}
}

// Tool returns the selected tool.
func (m *Machine) Tool() shape.Kind { return m.tool }

// Phase returns the current interaction stage.
func (m *Machine) Phase() Phase { return m.phase }

// SetTool switches tools, aborting any gesture in progress.
func (m *Machine) SetTool(k shape.Kind) {
	if k == m.tool {
		return
	}
	m.Reset()
	m.tool = k
}

// Reset aborts the current gesture and invalidates any in-flight sprite
// capture. Called on tool switch and when playback resumes.
func (m *Machine) Reset() {
	m.captureGen++
	m.phase = PhaseIdle
	m.points = nil
	m.moveDetail = nil
}

// Cancel aborts the current gesture (right click, escape). An already
// captured sprite is discarded with it.
func (m *Machine) Cancel() {
	if m.phase == PhaseIdle {
		return
	}
	m.log.Debug("gesture cancelled", "tool", m.tool, "phase", int(m.phase))
	m.Reset()
}

// PointerDown handles a primary-button press at a video-space point.
func (m *Machine) PointerDown(p geom.Point) {
	m.cursor = p
	switch m.tool {
	case shape.KindPen:
		m.phase = PhaseDragging
		m.points = []geom.Point{p}
	case shape.KindLine, shape.KindArrow, shape.KindCurvedArrow, shape.KindRing,
		shape.KindSpotlight, shape.KindLens:
		m.phase = PhaseDragging
		m.points = []geom.Point{p}
	case shape.KindPolygon:
		m.phase = PhasePlacing
		m.points = append(m.points, p)
	case shape.KindChain:
		m.pressChain(p)
	case shape.KindPlayerMove:
		m.pressMove(p)
	}
}

func (m *Machine) pressChain(p geom.Point) {
	if m.phase == PhasePlacing && len(m.points) >= 2 &&
		m.points[0].Distance(p) <= chainCloseDistance {
		// Close the chain through the first node; the press does not add a
		// node of its own.
		m.finalizeChain(true)
		return
	}
	// Start sizing a new node: press sets the center, drag sets the radius.
	m.phase = PhaseDragging
	m.points = append(m.points, p)
}

func (m *Machine) pressMove(p geom.Point) {
	switch m.phase {
	case PhasePlacing:
		// Sprite already captured; this press places it.
		m.finalizeMove(p)
	case PhaseAwaitingCapture:
		// Ignore input while the grab is in flight.
	default:
		m.phase = PhaseDragging
		m.points = []geom.Point{p}
	}
}

// PointerMove handles cursor motion. The pen accumulates its path here;
// every other tool only updates the preview.
func (m *Machine) PointerMove(p geom.Point) {
	m.cursor = p
	if m.tool == shape.KindPen && m.phase == PhaseDragging {
		m.points = append(m.points, p)
	}
}

// PointerUp handles a primary-button release.
func (m *Machine) PointerUp(p geom.Point) {
	m.cursor = p
	if m.phase != PhaseDragging {
		return
	}
	switch m.tool {
	case shape.KindPen:
		if len(m.points) < 2 {
			m.Reset()
			return
		}
		m.finalizeStroke(shape.KindPen, m.points, false)
	case shape.KindLine, shape.KindArrow, shape.KindCurvedArrow:
		if m.points[0].Distance(p) == 0 {
			m.Reset()
			return
		}
		m.finalizeStroke(m.tool, []geom.Point{m.points[0], p}, false)
	case shape.KindRing:
		m.releaseRing(p)
	case shape.KindSpotlight:
		m.finalizeSpotlight(m.points[0])
	case shape.KindLens:
		m.finalizeLens(m.points[0])
	case shape.KindChain:
		m.releaseChainNode(p)
	case shape.KindPlayerMove:
		m.releaseMoveBox(p)
	}
}

func (m *Machine) releaseRing(p geom.Point) {
	center := m.points[0]
	r := center.Distance(p)
	if r < ringMinRadius {
		m.Reset()
		return
	}
	s := m.settings()
	center.Radius = r
	m.append(&shape.Shape{
		Kind:        shape.KindRing,
		Points:      []geom.Point{center},
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
		CreatedAt:   m.now(),
		Detail:      shape.RingDetail{TiltDegrees: s.RingTilt, Filled: s.Filled},
	})
	m.Reset()
}

func (m *Machine) releaseChainNode(p geom.Point) {
	i := len(m.points) - 1
	r := m.points[i].Distance(p)
	if r < chainMinNodeRadius {
		// Too small to be a deliberate node; drop it but keep the chain.
		m.points = m.points[:i]
		if len(m.points) == 0 {
			m.Reset()
			return
		}
	} else {
		m.points[i].Radius = r
		m.points[i].CreatedAtMs = m.now().UnixMilli()
	}
	m.phase = PhasePlacing
}

func (m *Machine) releaseMoveBox(p geom.Point) {
	box := geom.NewRect(m.points[0].X, m.points[0].Y, p.X, p.Y)
	if box.Width < moveMinDrag || box.Height < moveMinDrag {
		m.Reset()
		return
	}
	m.captureGen++
	m.pendingBox = box
	m.phase = PhaseAwaitingCapture
	m.capture(m.captureGen, box)
}

// CompleteCapture delivers the result of an asynchronous sprite grab. A
// result whose generation no longer matches (tool switched, gesture
// cancelled, a newer selection made) is discarded.
func (m *Machine) CompleteCapture(gen uint64, det *shape.MoveDetail, err error) {
	if gen != m.captureGen || m.phase != PhaseAwaitingCapture {
		return
	}
	if err != nil {
		m.log.Warn("sprite capture failed", "error", err)
		m.Reset()
		return
	}
	m.moveDetail = det
	m.phase = PhasePlacing
}

func (m *Machine) finalizeMove(dst geom.Point) {
	det := m.moveDetail
	box := m.pendingBox
	s := m.settings()
	origin := box.Center()
	m.append(&shape.Shape{
		Kind:        shape.KindPlayerMove,
		Points:      []geom.Point{origin, dst},
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
		CreatedAt:   m.now(),
		Detail:      *det,
	})
	m.Reset()
}

// DoubleClick finalizes multi-click gestures: a polygon with at least three
// vertices, or an open-ended chain.
func (m *Machine) DoubleClick() {
	if m.phase != PhasePlacing {
		return
	}
	switch m.tool {
	case shape.KindPolygon:
		if len(m.points) < 3 {
			m.Cancel()
			return
		}
		m.finalizeStroke(shape.KindPolygon, m.points, true)
	case shape.KindChain:
		m.finalizeChain(false)
	}
}

func (m *Machine) finalizeChain(closed bool) {
	if len(m.points) == 0 {
		m.Reset()
		return
	}
	s := m.settings()
	m.append(&shape.Shape{
		Kind:        shape.KindChain,
		Points:      m.points,
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
		Closed:      closed,
		Detail:      shape.StrokeDetail{},
	})
	m.Reset()
}

func (m *Machine) finalizeStroke(k shape.Kind, pts []geom.Point, closed bool) {
	s := m.settings()
	sh := &shape.Shape{
		Kind:        k,
		Points:      pts,
		Color:       s.Color,
		StrokeWidth: s.StrokeWidth,
		Closed:      closed,
		Detail: shape.StrokeDetail{
			Dashed:   s.Dashed,
			Freehand: k == shape.KindPen,
			Filled:   closed && s.Filled,
		},
	}
	// Click-built shapes settle immediately; drag-built ones animate in.
	if !closed {
		sh.CreatedAt = m.now()
	}
	m.append(sh)
	m.Reset()
}

func (m *Machine) finalizeSpotlight(p geom.Point) {
	s := m.settings()
	m.append(&shape.Shape{
		Kind:      shape.KindSpotlight,
		Points:    []geom.Point{p},
		Color:     s.Color,
		CreatedAt: m.now(),
		Detail: shape.SpotlightDetail{
			Size:        s.SpotlightSize,
			Intensity:   s.SpotlightIntensity,
			RotationDeg: s.SpotlightRotation,
			Particles:   shape.NewParticles(0),
		},
	})
	m.Reset()
}

func (m *Machine) finalizeLens(p geom.Point) {
	s := m.settings()
	m.append(&shape.Shape{
		Kind:      shape.KindLens,
		Points:    []geom.Point{p},
		Color:     s.Color,
		CreatedAt: m.now(),
		Detail:    shape.LensDetail{Radius: s.LensRadius, Zoom: s.LensZoom},
	})
	m.Reset()
}

func (m *Machine) append(s *shape.Shape) {
	m.history.Append(s)
	m.log.Debug("shape finalized", "tool", s.Kind.String(), "points", len(s.Points))
}

// Preview returns the shape to draw for the gesture in progress, or nil when
// there is nothing to show. The returned shape has no ID and is rebuilt every
// call; the renderer must not retain it.
func (m *Machine) Preview() *shape.Shape {
	if m.phase == PhaseIdle {
		return nil
	}
	s := m.settings()
	base := shape.Shape{Color: s.Color, StrokeWidth: s.StrokeWidth, Preview: true}
	switch m.tool {
	case shape.KindPen:
		base.Kind = shape.KindPen
		base.Points = m.points
		base.Detail = shape.StrokeDetail{Freehand: true, Dashed: s.Dashed}
	case shape.KindLine, shape.KindArrow, shape.KindCurvedArrow:
		base.Kind = m.tool
		base.Points = []geom.Point{m.points[0], m.cursor}
		base.Detail = shape.StrokeDetail{Dashed: s.Dashed}
	case shape.KindPolygon:
		base.Kind = shape.KindPolygon
		base.Points = append(append([]geom.Point(nil), m.points...), m.cursor)
		base.Detail = shape.StrokeDetail{Dashed: s.Dashed}
	case shape.KindRing:
		center := m.points[0]
		center.Radius = center.Distance(m.cursor)
		base.Kind = shape.KindRing
		base.Points = []geom.Point{center}
		base.Detail = shape.RingDetail{TiltDegrees: s.RingTilt, Filled: s.Filled}
	case shape.KindChain:
		base.Kind = shape.KindChain
		pts := append([]geom.Point(nil), m.points...)
		if m.phase == PhaseDragging {
			i := len(pts) - 1
			pts[i].Radius = pts[i].Distance(m.cursor)
		}
		base.Points = pts
		base.Detail = shape.StrokeDetail{}
	case shape.KindSpotlight:
		base.Kind = shape.KindSpotlight
		base.Points = []geom.Point{m.cursor}
		base.Detail = shape.SpotlightDetail{
			Size: s.SpotlightSize, Intensity: s.SpotlightIntensity,
			RotationDeg: s.SpotlightRotation,
		}
	case shape.KindLens:
		base.Kind = shape.KindLens
		base.Points = []geom.Point{m.cursor}
		base.Detail = shape.LensDetail{Radius: s.LensRadius, Zoom: s.LensZoom}
	case shape.KindPlayerMove:
		return m.previewMove()
	}
	return &base
}

func (m *Machine) previewMove() *shape.Shape {
	s := m.settings()
	switch m.phase {
	case PhaseDragging:
		// Selection box preview, rendered as a dashed polygon.
		box := geom.NewRect(m.points[0].X, m.points[0].Y, m.cursor.X, m.cursor.Y)
		return &shape.Shape{
			Kind: shape.KindPolygon,
			Points: []geom.Point{
				geom.Pt(box.X, box.Y),
				geom.Pt(box.X+box.Width, box.Y),
				geom.Pt(box.X+box.Width, box.Y+box.Height),
				geom.Pt(box.X, box.Y+box.Height),
			},
			Color:       s.Color,
			StrokeWidth: 1,
			Closed:      true,
			Preview:     true,
			Detail:      shape.StrokeDetail{Dashed: true},
		}
	case PhasePlacing:
		return &shape.Shape{
			Kind:        shape.KindPlayerMove,
			Points:      []geom.Point{m.pendingBox.Center(), m.cursor},
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth,
			Preview:     true,
			Detail:      *m.moveDetail,
		}
	default:
		return nil
	}
}
