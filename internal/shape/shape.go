// Package shape defines the annotation data model and the undo/redo history.
package shape

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/example/pitchmark/internal/geom"
)

// Kind identifies the tool that created a shape.
type Kind int

const (
	KindPen Kind = iota
	KindLine
	KindArrow
	KindCurvedArrow
	KindRing
	KindPolygon
	KindChain
	KindPlayerMove
	KindSpotlight
	KindLens
)

// String returns the tool name for display and logging.
func (k Kind) String() string {
	switch k {
	case KindPen:
		return "pen"
	case KindLine:
		return "line"
	case KindArrow:
		return "arrow"
	case KindCurvedArrow:
		return "curved-arrow"
	case KindRing:
		return "ring"
	case KindPolygon:
		return "polygon"
	case KindChain:
		return "chain"
	case KindPlayerMove:
		return "player-move"
	case KindSpotlight:
		return "spotlight"
	case KindLens:
		return "lens"
	default:
		return "unknown"
	}
}

// Detail carries the per-kind configuration of a shape. It is a sealed
// interface: each tool kind has exactly one variant, so a ring can never
// carry spotlight particles.
type Detail interface {
	detailMarker()
}

// StrokeDetail configures the line-family kinds (pen, line, arrow,
// curved-arrow, polygon).
type StrokeDetail struct {
	Dashed   bool
	Freehand bool
	Filled   bool
}

func (StrokeDetail) detailMarker() {}

// RingDetail configures a ring shape.
type RingDetail struct {
	TiltDegrees float64
	Filled      bool
}

func (RingDetail) detailMarker() {}

// Particle is one orbiting spotlight particle. Its angle at render time is
// InitialAngle + elapsed*AngularSpeed, so motion depends on wall-clock time
// only, never on frame count.
type Particle struct {
	InitialAngle float64 // radians
	AngularSpeed float64 // radians per millisecond
}

// SpotlightDetail configures a spotlight shape.
type SpotlightDetail struct {
	Size        float64
	Intensity   float64
	RotationDeg float64
	Particles   []Particle
}

func (SpotlightDetail) detailMarker() {}

// defaultParticleCount matches the number of orbiters a spotlight spawns.
const defaultParticleCount = 30

// NewParticles generates n randomized orbiters. With n <= 0 the default
// count is used.
func NewParticles(n int) []Particle {
	if n <= 0 {
		n = defaultParticleCount
	}
	out := make([]Particle, n)
	for i := range out {
		out[i] = Particle{
			InitialAngle: rand.Float64() * 2 * math.Pi,
			AngularSpeed: (0.0004 + rand.Float64()*0.0012) * randSign(),
		}
	}
	return out
}

func randSign() float64 {
	if rand.Intn(2) == 0 {
		return -1
	}
	return 1
}

// LensDetail configures a magnifying lens shape. Radius is in screen pixels;
// Zoom is the magnification factor.
type LensDetail struct {
	Radius float64
	Zoom   float64
}

func (LensDetail) detailMarker() {}

// MoveDetail carries the raster attachments of a player-move shape. The
// sprite is captured once at creation and never re-sampled; the patch covers
// the vacated source area. Both bitmaps are owned by the shape and live until
// the shape is permanently discarded.
type MoveDetail struct {
	Sprite    *image.RGBA
	Patch     *image.RGBA
	PatchBox  geom.Rect
	SourceBox geom.Rect
}

func (MoveDetail) detailMarker() {}

// Shape is the atomic persisted annotation unit. Once appended to the
// history it is immutable; edits happen by removing and re-adding whole
// shapes.
type Shape struct {
	ID          int64
	Kind        Kind
	Points      []geom.Point
	Color       string // hex RGB
	StrokeWidth float64
	Closed      bool
	// CreatedAt drives entrance, fade and shimmer animation. The zero time
	// means "render fully settled, no animation" (shapes finalized by
	// double-click).
	CreatedAt time.Time
	// Preview marks in-progress gesture geometry, which renders with static
	// gradients instead of the time-driven shimmer.
	Preview bool
	Detail  Detail
}

// Age returns the elapsed animation time, or a very large duration for
// settled shapes so every entrance animation reads as finished.
func (s *Shape) Age(now time.Time) time.Duration {
	if s.CreatedAt.IsZero() {
		return time.Hour
	}
	d := now.Sub(s.CreatedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Stroke returns the shape's StrokeDetail, or a zero value for kinds that do
// not carry one.
func (s *Shape) Stroke() StrokeDetail {
	if d, ok := s.Detail.(StrokeDetail); ok {
		return d
	}
	return StrokeDetail{}
}
