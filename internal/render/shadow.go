package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow describes a soft drop shadow cast by a raster sprite.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// SpriteShadow is the shadow used under relocated player sprites. It is
// small and tight so the cutout reads as sitting on the pitch rather than
// floating over it.
func SpriteShadow() Shadow {
	return Shadow{Radius: 6, Offset: image.Pt(3, 5), Opacity: 0.45}
}

// Apply composites img over its blurred shadow on an expanded canvas. The
// returned point is where img's top-left corner landed on that canvas, so the
// caller can keep the sprite's on-screen position unchanged.
func (s Shadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || s.Opacity <= 0 {
		return img, image.Point{}
	}
	opacity := s.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := s.Radius
	if radius < 0 {
		radius = 0
	}

	src := img.Bounds()
	padded := src
	if radius > 0 {
		padded = padded.Inset(-radius)
	}
	shadowRect := padded.Add(s.Offset)
	canvas := src.Union(shadowRect)

	// Shadow silhouette: the sprite's alpha channel, box blurred.
	silhouette := image.NewGray(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a > 0 {
				silhouette.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := boxBlur(silhouette, radius)

	dst := image.NewRGBA(canvas.Sub(canvas.Min))
	ink := color.RGBA{A: uint8(opacity*255 + 0.5)}
	draw.DrawMask(dst, blurred.Bounds().Add(shadowRect.Min.Sub(canvas.Min)),
		image.NewUniform(ink), image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
	origin := src.Min.Sub(canvas.Min)
	draw.Draw(dst, src.Sub(canvas.Min), img, src.Min, draw.Over)
	return dst, origin
}

// boxBlur runs a separable box blur over a grayscale image using per-row and
// per-column prefix sums, so the cost does not grow with the radius.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	dst := image.NewGray(b)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
