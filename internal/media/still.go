package media

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// StillSource wraps a single decoded image. It is permanently paused at
// time zero, which keeps the chroma cache synced forever.
type StillSource struct {
	frame  *image.RGBA
	width  int
	height int
}

// OpenStill decodes a PNG or JPEG file into a source.
func OpenStill(path string) (*StillSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", path, err)
	}
	return NewStill(toRGBA(img)), nil
}

// NewStill wraps an already decoded frame.
func NewStill(frame *image.RGBA) *StillSource {
	b := frame.Bounds()
	return &StillSource{frame: frame, width: b.Dx(), height: b.Dy()}
}

// Size returns the image dimensions.
func (s *StillSource) Size() (int, int) { return s.width, s.height }

// CurrentTime is always zero for a still.
func (s *StillSource) CurrentTime() float64 { return 0 }

// Paused is always true for a still.
func (s *StillSource) Paused() bool { return true }

// Frame returns the decoded image.
func (s *StillSource) Frame() (*image.RGBA, error) { return s.frame, nil }

// Play is a no-op.
func (s *StillSource) Play() {}

// Pause is a no-op.
func (s *StillSource) Pause() {}

// Seek is a no-op for a still.
func (s *StillSource) Seek(float64) error { return nil }

// Close is a no-op.
func (s *StillSource) Close() error { return nil }
