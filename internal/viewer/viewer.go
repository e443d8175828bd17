// Package viewer runs the interactive annotation window: the shiny event
// loop, input routing, and the paint pipeline over the video.
package viewer

import (
	"image"
	"log"
	"log/slog"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/pitchmark/internal/chroma"
	"github.com/example/pitchmark/internal/compositor"
	"github.com/example/pitchmark/internal/config"
	"github.com/example/pitchmark/internal/geom"
	"github.com/example/pitchmark/internal/interact"
	"github.com/example/pitchmark/internal/media"
	"github.com/example/pitchmark/internal/notify"
	"github.com/example/pitchmark/internal/render"
	"github.com/example/pitchmark/internal/shape"
	"github.com/example/pitchmark/internal/sprite"
)

const (
	// hudHeight is the status strip along the bottom edge.
	hudHeight = 26
	// tickInterval paces animation repaints.
	tickInterval = 33 * time.Millisecond
	// doubleClickWindow pairs two presses into a double click.
	doubleClickWindow = 400 * time.Millisecond
	// seekStep is the arrow-key seek distance in seconds.
	seekStep = 5.0
)

// palette is the tool color cycle.
var palette = []string{
	"#FFD700", "#FF3B30", "#00E676", "#40C4FF", "#FFFFFF", "#FF9100",
}

// Viewer owns the annotation window over one media source.
type Viewer struct {
	source media.Source
	cfg    *config.Config
	log    *slog.Logger
	notif  *notify.Notifier

	onClose func()
}

// Option modifies a Viewer during creation.
type Option func(*Viewer)

// WithConfig sets the loaded configuration.
func WithConfig(cfg *config.Config) Option { return func(v *Viewer) { v.cfg = cfg } }

// WithNotifier sets the desktop notifier used for export events.
func WithNotifier(n *notify.Notifier) Option { return func(v *Viewer) { v.notif = n } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(v *Viewer) { v.log = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// New creates a viewer over the media source.
func New(src media.Source, opts ...Option) *Viewer {
	v := &Viewer{source: src}
	for _, o := range opts {
		o(v)
	}
	if v.cfg == nil {
		v.cfg = config.New()
	}
	if v.log == nil {
		v.log = slog.Default()
	}
	return v
}

// Run executes the UI loop using shiny's driver. It blocks until the window
// closes.
func (v *Viewer) Run() { driver.Main(v.main) }

// spriteEvent delivers an asynchronous sprite grab back to the event loop.
type spriteEvent struct {
	gen uint64
	det *shape.MoveDetail
	err error
}

func (v *Viewer) main(s screen.Screen) {
	mw, mh := v.source.Size()
	width, height := initialWindowSize(mw, mh)

	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width: width, Height: height, Title: "Pitchmark",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	if v.onClose != nil {
		defer v.onClose()
	}

	history := shape.NewHistory()

	// Live tool settings, adjusted by keys and snapshotted per gesture.
	colorIdx := paletteIndex(v.cfg.Tools.Color)
	tools := v.cfg.Tools
	filled := false
	settings := func() interact.Settings {
		return interact.Settings{
			Color:              palette[colorIdx],
			StrokeWidth:        tools.StrokeWidth,
			Dashed:             tools.Dashed,
			Filled:             filled,
			RingTilt:           tools.RingTilt,
			SpotlightSize:      tools.SpotlightSize,
			SpotlightIntensity: tools.SpotlightIntensity,
			LensRadius:         tools.LensRadius,
			LensZoom:           tools.LensZoom,
		}
	}

	engine := chroma.NewEngine(sampleWhenPaused(v.source), v.log)
	engine.SetSensitivity(v.cfg.Mask.Sensitivity)
	if v.cfg.Mask.Enabled {
		engine.SetEnabled(true)
	}
	showOverlay := v.cfg.Mask.ShowOverlay

	capture := func(gen uint64, box geom.Rect) {
		go func() {
			frame, err := v.source.Frame()
			if err != nil {
				w.Send(spriteEvent{gen: gen, err: err})
				return
			}
			det, err := sprite.Grab(frame, box, engine.Current())
			w.Send(spriteEvent{gen: gen, det: det, err: err})
		}()
	}
	machine := interact.NewMachine(history, settings, capture, v.log)

	painter := newPainter(v.source, render.New(v.log), v.log)

	// Repaint ticker. Paint events coalesce in shiny, so a fixed cadence is
	// fine even when a frame takes longer than one tick.
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(tickInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	var (
		mapping   geom.Mapping
		message   string
		msgUntil  time.Time
		lastPress time.Time
		lastPos   geom.Point
	)
	setMessage := func(m string) {
		message = m
		msgUntil = time.Now().Add(2 * time.Second)
		log.Print(m)
	}

	recalc := func() {
		mapping = geom.FitMapping(float64(width), float64(height-hudHeight), float64(mw), float64(mh))
	}
	recalc()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				v.source.Pause()
				return
			}

		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			recalc()
			w.Send(paint.Event{})

		case spriteEvent:
			machine.CompleteCapture(e.gen, e.det, e.err)
			if e.err != nil {
				setMessage("sprite capture failed")
			}

		case mouse.Event:
			p := mapping.ToVideo(geom.Pt(float64(e.X), float64(e.Y)))
			switch {
			case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
				machine.Cancel()
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				if float64(e.Y) >= float64(height-hudHeight) {
					break
				}
				now := time.Now()
				if now.Sub(lastPress) < doubleClickWindow && lastPos.Distance(p) < 5 {
					machine.DoubleClick()
					lastPress = time.Time{}
				} else {
					machine.PointerDown(p)
					lastPress = now
					lastPos = p
				}
			case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
				machine.PointerUp(p)
			case e.Direction == mouse.DirNone:
				machine.PointerMove(p)
			}

		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			switch {
			case e.Code == key.CodeEscape:
				machine.Cancel()
			case e.Code == key.CodeSpacebar:
				togglePlayback(v.source, machine, engine)
			case e.Code == key.CodeLeftArrow:
				if err := v.source.Seek(v.source.CurrentTime() - seekStep); err == nil {
					engine.Invalidate()
				}
			case e.Code == key.CodeRightArrow:
				if err := v.source.Seek(v.source.CurrentTime() + seekStep); err == nil {
					engine.Invalidate()
				}
			case e.Rune == 'z' && e.Modifiers&key.ModControl != 0:
				if machine.Phase() != interact.PhaseIdle {
					machine.Cancel()
				} else if history.Undo() == nil {
					setMessage("nothing to undo")
				}
			case e.Rune == 'y' && e.Modifiers&key.ModControl != 0:
				if history.Redo() == nil {
					setMessage("nothing to redo")
				}
			case e.Rune == 'x' && e.Modifiers&key.ModControl != 0:
				machine.Reset()
				history.Clear()
				setMessage("annotations cleared")
			case e.Rune == 's' && e.Modifiers&key.ModControl != 0:
				if path, err := v.saveFrame(painter, history, machine, engine, showOverlay); err != nil {
					setMessage("save failed")
					log.Printf("save: %v", err)
				} else {
					setMessage("saved " + path)
					v.notif.Save(path)
				}
			case e.Rune == 'c' && e.Modifiers&key.ModControl != 0:
				if img, err := v.copyFrame(painter, history, machine, engine, showOverlay); err != nil {
					setMessage("copy failed")
					log.Printf("copy: %v", err)
				} else {
					setMessage("frame copied to clipboard")
					v.notif.Copy("annotated frame", img)
				}
			case e.Rune == 'k':
				engine.SetEnabled(!engine.Enabled())
				if engine.Enabled() {
					setMessage("chroma mask on")
				} else {
					setMessage("chroma mask off")
				}
			case e.Rune == 'i':
				showOverlay = !showOverlay
			case e.Rune == '[':
				engine.SetSensitivity(engine.Sensitivity() - 5)
			case e.Rune == ']':
				engine.SetSensitivity(engine.Sensitivity() + 5)
			case e.Rune == 'j':
				if frame, err := v.source.Frame(); err == nil && frame != nil {
					sens := chroma.Calibrate(frame)
					engine.SetSensitivity(sens)
					setMessage("mask sensitivity calibrated")
				}
			case e.Rune == 'e':
				colorIdx = (colorIdx + 1) % len(palette)
			case e.Rune == 'd':
				tools.Dashed = !tools.Dashed
			case e.Rune == 'f':
				filled = !filled
			case e.Rune == '-':
				if tools.StrokeWidth > 1 {
					tools.StrokeWidth--
				}
			case e.Rune == '+' || e.Rune == '=':
				if tools.StrokeWidth < 16 {
					tools.StrokeWidth++
				}
			default:
				if tool, ok := toolForRune(e.Rune); ok {
					machine.SetTool(tool)
				}
			}
			w.Send(paint.Event{})

		case paint.Event:
			snap := &compositor.Snapshot{
				Shapes:      history.Shapes(),
				Preview:     machine.Preview(),
				Mapping:     mapping,
				Now:         time.Now(),
				VideoTime:   v.source.CurrentTime(),
				Mask:        engine.Current(),
				ShowOverlay: showOverlay,
			}
			hud := hudState{
				tool:     machine.Tool(),
				color:    palette[colorIdx],
				time:     snap.VideoTime,
				paused:   v.source.Paused(),
				masked:   engine.Enabled(),
				message:  message,
				msgUntil: msgUntil,
			}
			if err := painter.paint(s, w, width, height, snap, hud); err != nil {
				log.Printf("paint: %v", err)
			}
		}
	}
}

// sampleWhenPaused builds the engine's frame sampler. Segmentation runs only
// on a paused frame; while playing the sampler reports no frame, so a
// recompute requested mid-playback publishes nothing.
func sampleWhenPaused(src media.Source) chroma.SampleFunc {
	return func() (*image.RGBA, float64, bool) {
		if !src.Paused() {
			return nil, 0, false
		}
		frame, err := src.Frame()
		if err != nil || frame == nil {
			return nil, 0, false
		}
		return frame, src.CurrentTime(), true
	}
}

// togglePlayback flips play/pause. Resuming aborts any in-progress gesture
// and drops the chroma cache, since a paused-frame mask must not linger over
// moving video; pausing recomputes the mask for the frame playback stopped
// on.
func togglePlayback(src media.Source, machine *interact.Machine, engine *chroma.Engine) {
	if src.Paused() {
		machine.Reset()
		src.Play()
		engine.Invalidate()
	} else {
		src.Pause()
		engine.Invalidate()
	}
}

// toolForRune maps tool-selection keys.
func toolForRune(r rune) (shape.Kind, bool) {
	switch r {
	case 'b':
		return shape.KindPen, true
	case 'l':
		return shape.KindLine, true
	case 'a':
		return shape.KindArrow, true
	case 'c':
		return shape.KindCurvedArrow, true
	case 'o':
		return shape.KindRing, true
	case 'g':
		return shape.KindPolygon, true
	case 'h':
		return shape.KindChain, true
	case 'v':
		return shape.KindPlayerMove, true
	case 's':
		return shape.KindSpotlight, true
	case 'z':
		return shape.KindLens, true
	}
	return 0, false
}

func paletteIndex(color string) int {
	for i, c := range palette {
		if c == color {
			return i
		}
	}
	return 0
}

// initialWindowSize fits the media into a sensible desktop window.
func initialWindowSize(mw, mh int) (int, int) {
	const maxW, maxH = 1440, 810
	w, h := mw, mh
	if w <= 0 || h <= 0 {
		return 1280, 720 + hudHeight
	}
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return w, h + hudHeight
}
