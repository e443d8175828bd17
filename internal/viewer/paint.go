package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/compositor"
	"github.com/example/pitchmark/internal/media"
	"github.com/example/pitchmark/internal/render"
	"github.com/example/pitchmark/internal/shape"
)

var backdrop = gg.RGBA{R: 0.08, G: 0.09, B: 0.10, A: 1}

// hudState carries what the status strip displays for one frame.
type hudState struct {
	tool     shape.Kind
	color    string
	time     float64
	paused   bool
	masked   bool
	message  string
	msgUntil time.Time
}

// painter composes video, annotations and the HUD into the window buffer.
type painter struct {
	source media.Source
	comp   *compositor.Compositor
	log    *slog.Logger

	dc *gg.Context

	// One-slot frame conversion cache. Decoded frames are immutable, so
	// pointer identity is enough to reuse the converted buffer.
	frameSrc *image.RGBA
	frameBuf *gg.ImageBuf
}

func newPainter(src media.Source, r *render.Renderer, log *slog.Logger) *painter {
	return &painter{source: src, comp: compositor.New(r, log), log: log}
}

func (p *painter) paint(s screen.Screen, w screen.Window, width, height int, snap *compositor.Snapshot, hud hudState) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if p.dc == nil || p.dc.Width() != width || p.dc.Height() != height {
		p.dc = gg.NewContext(width, height)
	}
	dc := p.dc
	dc.ClearWithColor(backdrop)

	frame, err := p.source.Frame()
	if err != nil {
		p.log.Warn("frame decode", "err", err)
	}
	if frame != nil {
		snap.Frame = p.convert(frame)
		snap.FrameBounds = frame.Bounds()
		m := snap.Mapping
		dc.DrawImageEx(snap.Frame, gg.DrawImageOptions{
			X: m.OffsetX, Y: m.OffsetY,
			DstWidth: m.DrawWidth, DstHeight: m.DrawHeight,
		})
	}

	p.comp.Draw(dc, snap)

	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), dc.Image(), image.Point{}, draw.Src)

	drawHUD(b.RGBA(), width, height, hud)

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}

func (p *painter) convert(frame *image.RGBA) *gg.ImageBuf {
	if frame != p.frameSrc {
		p.frameSrc = frame
		p.frameBuf = gg.ImageBufFromImage(frame)
	}
	return p.frameBuf
}

// drawHUD renders the status strip onto the bottom of the window buffer.
func drawHUD(dst *image.RGBA, width, height int, hud hudState) {
	strip := image.Rect(0, height-hudHeight, width, height)
	draw.Draw(dst, strip, image.NewUniform(color.RGBA{24, 26, 28, 255}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{230, 230, 230, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, height-9),
	}
	d.DrawString(hudLine(hud))

	if hud.message != "" && time.Now().Before(hud.msgUntil) {
		msg := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.RGBA{255, 215, 0, 255}),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(width/2, height-9),
		}
		msg.DrawString(hud.message)
	}
}

func hudLine(hud hudState) string {
	state := "playing"
	if hud.paused {
		state = "paused"
	}
	mask := ""
	if hud.masked {
		mask = "  mask on"
	}
	return fmt.Sprintf("%s  %s  %s  %s%s",
		hud.tool, hud.color, formatTime(hud.time), state, mask)
}

func formatTime(t float64) string {
	if t < 0 {
		t = 0
	}
	total := int(t)
	return fmt.Sprintf("%02d:%02d.%01d", total/60, total%60, int(t*10)%10)
}
