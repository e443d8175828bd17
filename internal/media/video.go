package media

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// VideoSource decodes a video file with OpenCV. Frames advance on demand:
// while playing, each Frame call reads ahead until the decoder catches up
// with wall-clock time, so a slow caller drops frames instead of slowing
// playback down.
type VideoSource struct {
	log *slog.Logger

	mu      sync.Mutex
	cap     *gocv.VideoCapture
	mat     gocv.Mat
	frame   *image.RGBA
	width   int
	height  int
	fps     float64
	playing bool
	// clock is the playhead in seconds; anchor is the wall time it was
	// last advanced at.
	clock  float64
	anchor time.Time
	ended  bool
}

// OpenVideo opens the file and decodes its first frame.
func OpenVideo(path string, log *slog.Logger) (*VideoSource, error) {
	if log == nil {
		log = slog.Default()
	}
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	v := &VideoSource{
		log:    log,
		cap:    cap,
		mat:    gocv.NewMat(),
		width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		fps:    cap.Get(gocv.VideoCaptureFPS),
	}
	if v.fps <= 0 {
		v.fps = 25
	}
	if err := v.readNext(); err != nil {
		cap.Close()
		v.mat.Close()
		return nil, err
	}
	log.Info("video opened", "path", path,
		"size", fmt.Sprintf("%dx%d", v.width, v.height), "fps", v.fps)
	return v, nil
}

// Size returns the native video dimensions.
func (v *VideoSource) Size() (int, int) {
	return v.width, v.height
}

// CurrentTime returns the playhead in seconds.
func (v *VideoSource) CurrentTime() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		return v.clock + time.Since(v.anchor).Seconds()
	}
	return v.clock
}

// Paused reports whether playback is stopped.
func (v *VideoSource) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.playing
}

// Play resumes playback. At the end of the file it restarts from the top.
func (v *VideoSource) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		return
	}
	if v.ended {
		v.seekLocked(0)
	}
	v.playing = true
	v.anchor = time.Now()
}

// Pause stops playback on the current frame.
func (v *VideoSource) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.playing {
		return
	}
	v.clock += time.Since(v.anchor).Seconds()
	v.playing = false
}

// Seek moves the playhead and decodes the frame there.
func (v *VideoSource) Seek(seconds float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seekLocked(seconds)
}

func (v *VideoSource) seekLocked(seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	v.cap.Set(gocv.VideoCapturePosMsec, seconds*1000)
	v.clock = seconds
	v.anchor = time.Now()
	v.ended = false
	return v.readNext()
}

// Frame returns the frame at the playhead, decoding forward as needed.
func (v *VideoSource) Frame() (*image.RGBA, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		target := v.clock + time.Since(v.anchor).Seconds()
		interval := 1 / v.fps
		for !v.ended && v.cap.Get(gocv.VideoCapturePosMsec)/1000+interval <= target {
			if err := v.readNext(); err != nil {
				return nil, err
			}
		}
		if v.ended {
			v.clock = v.cap.Get(gocv.VideoCapturePosMsec) / 1000
			v.playing = false
			v.log.Debug("playback reached end of file", "time", v.clock)
		}
	}
	return v.frame, nil
}

func (v *VideoSource) readNext() error {
	if !v.cap.Read(&v.mat) || v.mat.Empty() {
		v.ended = true
		return nil
	}
	img, err := v.mat.ToImage()
	if err != nil {
		return fmt.Errorf("media: decode frame: %w", err)
	}
	v.frame = toRGBA(img)
	return nil
}

// Close releases the decoder.
func (v *VideoSource) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mat.Close()
	return v.cap.Close()
}
