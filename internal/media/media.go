// Package media supplies video frames to the viewer. A Source abstracts over
// decoded video files and still images so the annotation surface does not
// care which one it is drawing on.
package media

import (
	"image"
	"image/draw"
)

// Source is a frame supplier. Implementations are safe for use from the
// interaction thread plus the chroma engine's sampler goroutine.
type Source interface {
	// Size returns the native media dimensions in pixels.
	Size() (w, h int)
	// CurrentTime returns the playhead position in seconds.
	CurrentTime() float64
	// Paused reports whether playback is stopped.
	Paused() bool
	// Frame returns the frame at the playhead. While playing, calling Frame
	// advances the playhead with wall-clock time. The returned buffer is
	// owned by the source and valid until the next Frame call; callers that
	// keep pixels copy them.
	Frame() (*image.RGBA, error)
	// Play resumes playback. A no-op for stills.
	Play()
	// Pause stops playback.
	Pause()
	// Seek moves the playhead to the given time in seconds.
	Seek(seconds float64) error
	// Close releases decoder resources.
	Close() error
}

// toRGBA returns img as *image.RGBA, converting only when necessary.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
