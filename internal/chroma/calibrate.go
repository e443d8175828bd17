package chroma

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/example/pitchmark/internal/colorutil"
)

// calibrateStride subsamples the frame; pitch footage is far larger than the
// hue statistics need.
const calibrateStride = 4

// Calibrate suggests a sensitivity for the frame by measuring the hue spread
// of its plausible-pitch pixels. It collects the hues already inside the
// widest possible detection band, then picks the smallest sensitivity whose
// band still covers two standard deviations around the mean hue. A frame
// with no green at all yields the midpoint default.
func Calibrate(frame *image.RGBA) float64 {
	bounds := frame.Bounds()
	var hues, weights []float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += calibrateStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += calibrateStride {
			i := frame.PixOffset(x, y)
			h, s, l := colorutil.RGBToHSL(frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2])
			if s < 0.15 || l < 0.15 || l > 0.85 {
				continue
			}
			if h < 75-0.4*100 || h > 155+0.4*100 {
				continue
			}
			hues = append(hues, h)
			weights = append(weights, s)
		}
	}
	if len(hues) < 16 {
		return 50
	}

	mean := stat.Mean(hues, weights)
	sigma := stat.StdDev(hues, weights)
	lo := mean - 2*sigma
	hi := mean + 2*sigma

	// Smallest sensitivity whose band [75-0.4s, 155+0.4s] contains [lo, hi].
	need := 0.0
	if d := (75 - lo) / 0.4; d > need {
		need = d
	}
	if d := (hi - 155) / 0.4; d > need {
		need = d
	}
	if need < 0 {
		need = 0
	} else if need > 100 {
		need = 100
	}
	return need
}
