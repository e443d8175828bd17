package viewer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/pitchmark/internal/chroma"
	"github.com/example/pitchmark/internal/clipboard"
	"github.com/example/pitchmark/internal/compositor"
	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/interact"
	"github.com/example/pitchmark/internal/shape"
)

// renderExport composes the current frame and annotations at the media's
// native resolution, independent of the window size.
func (v *Viewer) renderExport(p *painter, history *shape.History, machine *interact.Machine, engine *chroma.Engine, showOverlay bool) (image.Image, error) {
	frame, err := v.source.Frame()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if frame == nil {
		return nil, fmt.Errorf("no frame available")
	}
	bounds := frame.Bounds()
	mw, mh := bounds.Dx(), bounds.Dy()

	dc := gg.NewContext(mw, mh)
	buf := gg.ImageBufFromImage(frame)
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		DstWidth: float64(mw), DstHeight: float64(mh),
	})

	snap := &compositor.Snapshot{
		Shapes:      history.Shapes(),
		Preview:     machine.Preview(),
		Mapping:     geom.FitMapping(float64(mw), float64(mh), float64(mw), float64(mh)),
		Now:         time.Now(),
		Frame:       buf,
		FrameBounds: bounds,
		VideoTime:   v.source.CurrentTime(),
		Mask:        engine.Current(),
		ShowOverlay: showOverlay,
	}
	p.comp.Draw(dc, snap)
	return dc.Image(), nil
}

// saveFrame writes the annotated frame as a timestamped PNG under the
// configured save directory and returns the written path.
func (v *Viewer) saveFrame(p *painter, history *shape.History, machine *interact.Machine, engine *chroma.Engine, showOverlay bool) (string, error) {
	img, err := v.renderExport(p, history, machine, engine, showOverlay)
	if err != nil {
		return "", err
	}

	dir := v.cfg.SaveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve save dir: %w", err)
		}
		dir = filepath.Join(home, "Pictures")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	name := fmt.Sprintf("pitchmark-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// copyFrame places the annotated frame on the system clipboard.
func (v *Viewer) copyFrame(p *painter, history *shape.History, machine *interact.Machine, engine *chroma.Engine, showOverlay bool) (image.Image, error) {
	img, err := v.renderExport(p, history, machine, engine, showOverlay)
	if err != nil {
		return nil, err
	}
	if err := clipboard.WriteImage(img); err != nil {
		return nil, err
	}
	return img, nil
}
