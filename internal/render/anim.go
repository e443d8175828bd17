package render

import (
	"math"
	"time"

	"github.com/example/pitchmark/internal/shape"
)

// Animation timing. Everything is driven by wall-clock age so playback
// frame rate never changes how fast an annotation moves.
const (
	arrowGrowDuration  = 500 * time.Millisecond
	curvedGrowDuration = 600 * time.Millisecond
	ringSpinPeriod     = 2500 * time.Millisecond
	spawnDuration      = 500 * time.Millisecond
	fadeDuration       = 300 * time.Millisecond

	// innerRadiusRatio is the ring annulus hole relative to the outer radius.
	innerRadiusRatio = 0.65
	// spawnOvershoot is how far past full size a shape pops before settling.
	spawnOvershoot = 1.08
)

// growFraction maps a shape age to [0,1] progress of a growth animation.
func growFraction(age, duration time.Duration) float64 {
	if age >= duration {
		return 1
	}
	if age <= 0 {
		return 0
	}
	t := float64(age) / float64(duration)
	// Ease out so growth decelerates into the final size.
	return 1 - (1-t)*(1-t)
}

// fadeAlpha is the entrance opacity multiplier.
func fadeAlpha(age time.Duration) float64 {
	if age >= fadeDuration {
		return 1
	}
	if age <= 0 {
		return 0
	}
	return float64(age) / float64(fadeDuration)
}

// spawnScale pops a shape slightly past full size before settling back. It
// starts and ends at 1 with the overshoot peak halfway through.
func spawnScale(age time.Duration) float64 {
	if age >= spawnDuration || age <= 0 {
		return 1
	}
	t := float64(age) / float64(spawnDuration)
	return 1 + (spawnOvershoot-1)*math.Sin(math.Pi*t)
}

// ringAngle is the sweep-gradient rotation at the given instant.
func ringAngle(now time.Time) float64 {
	ms := now.UnixMilli() % ringSpinPeriod.Milliseconds()
	return 2 * math.Pi * float64(ms) / float64(ringSpinPeriod.Milliseconds())
}

// particleAngle positions an orbiter purely from elapsed time.
func particleAngle(p shape.Particle, elapsed time.Duration) float64 {
	return p.InitialAngle + float64(elapsed.Milliseconds())*p.AngularSpeed
}
