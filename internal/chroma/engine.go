package chroma

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// debounceDelay coalesces rapid sensitivity changes into one recompute.
const debounceDelay = 50 * time.Millisecond

// SampleFunc grabs the current video frame and its media time. It returns
// ok=false when no frame is available (media closed, seek in flight).
type SampleFunc func() (frame *image.RGBA, videoTime float64, ok bool)

// Engine recomputes the chroma mask off the interaction thread. Requests
// collapse to the latest: every recompute bumps a generation counter, and a
// worker that finishes with a stale generation discards its result instead of
// publishing it. The published cache is swapped whole, so readers always see
// a matched foreground/overlay pair.
type Engine struct {
	sample SampleFunc
	log    *slog.Logger

	cache atomic.Pointer[Cache]
	gen   atomic.Uint64

	mu          sync.Mutex
	enabled     bool
	sensitivity float64
	timer       *time.Timer
}

// NewEngine creates a disabled engine with the given frame sampler.
func NewEngine(sample SampleFunc, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{sample: sample, log: log, sensitivity: 50}
}

// Current returns the latest published cache, or nil when none exists. The
// caller still checks SyncedWith before drawing it.
func (e *Engine) Current() *Cache {
	return e.cache.Load()
}

// Enabled reports whether masking is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Sensitivity returns the current slider value.
func (e *Engine) Sensitivity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sensitivity
}

// SetEnabled toggles masking. Enabling triggers an immediate recompute;
// disabling drops the cache so stale bitmaps cannot outlive the toggle.
func (e *Engine) SetEnabled(on bool) {
	e.mu.Lock()
	e.enabled = on
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	if on {
		e.Request()
	} else {
		e.gen.Add(1)
		e.cache.Store(nil)
	}
}

// SetSensitivity updates the slider value and schedules a debounced
// recompute, so dragging the slider computes one mask, not fifty.
func (e *Engine) SetSensitivity(v float64) {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	e.mu.Lock()
	e.sensitivity = v
	enabled := e.enabled
	if e.timer != nil {
		e.timer.Stop()
	}
	if enabled {
		e.timer = time.AfterFunc(debounceDelay, e.Request)
	}
	e.mu.Unlock()
}

// Invalidate drops the cache and recomputes. Called after a seek or when
// playback pauses on a new frame.
func (e *Engine) Invalidate() {
	e.gen.Add(1)
	e.cache.Store(nil)
	if e.Enabled() {
		e.Request()
	}
}

// Request starts an asynchronous recompute of the mask for the current
// frame. A newer request supersedes it.
func (e *Engine) Request() {
	gen := e.gen.Add(1)
	sens := e.Sensitivity()
	go func() {
		frame, at, ok := e.sample()
		if !ok {
			return
		}
		start := time.Now()
		mask := Segment(frame, sens)
		if e.publish(gen, mask, at) {
			e.log.Debug("chroma mask updated",
				"time", at, "sensitivity", sens, "took", time.Since(start))
		}
	}()
}

// publish stores a finished mask unless the generation moved on. The
// generation is re-checked after the store: a disable or newer request racing
// between the first check and the store bumps it, and the CompareAndSwap
// retracts our record without touching anything published since.
func (e *Engine) publish(gen uint64, mask *Mask, at float64) bool {
	if e.gen.Load() != gen {
		return false
	}
	rec := &Cache{Mask: *mask, SampledAt: at}
	e.cache.Store(rec)
	if e.gen.Load() != gen {
		e.cache.CompareAndSwap(rec, nil)
		return false
	}
	return true
}
