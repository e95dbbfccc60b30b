package service

import (
	"context"
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"facescope/internal/config"
	"facescope/internal/logger"
)

// ClockLayout formats the wall-clock label.
const ClockLayout = "2006-01-02 15:04:05"

// FrameSource yields camera frames into a caller-owned Mat.
type FrameSource interface {
	Read(dst *gocv.Mat) error
}

// FaceLocator outlines faces on a frame in place.
type FaceLocator interface {
	Locate(img *gocv.Mat) ([]image.Rectangle, error)
}

// DisplayLoop refreshes the video surface and the clock, one frame per activation.
type DisplayLoop struct {
	source   FrameSource
	locator  FaceLocator
	surface  Surface
	width    int
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger

	failing bool // true while consecutive reads fail
}

func NewDisplayLoop(source FrameSource, locator FaceLocator, surface Surface, cfg *config.Config, logger *logger.Logger) *DisplayLoop {
	return &DisplayLoop{
		source:   source,
		locator:  locator,
		surface:  surface,
		width:    cfg.FrameWidth,
		interval: cfg.RefreshInterval,
		now:      time.Now,
		logger:   logger,
	}
}

// Run activates the loop until ctx is cancelled. The next activation is
// scheduled only after the current frame has been shown, so slow detection
// lowers the frame rate instead of queueing work.
func (l *DisplayLoop) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}

		l.showFrame()
		timer.Reset(l.interval)
		l.showClock()
	}
}

// Start runs the loop on its own goroutine. The returned channel is closed
// once Run has returned, so no activation is using the source or the
// locator any more.
func (l *DisplayLoop) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Run(ctx)
	}()
	return done
}

// Activate performs one full refresh: frame then clock.
func (l *DisplayLoop) Activate() {
	l.showFrame()
	l.showClock()
}

func (l *DisplayLoop) showFrame() {
	frame := gocv.NewMat()
	defer frame.Close()

	if err := l.source.Read(&frame); err != nil {
		if !l.failing {
			l.logger.Warning("Skipping video refresh: %v", err)
		}
		l.failing = true
		return
	}
	if l.failing {
		l.logger.Info("Camera frames available again")
		l.failing = false
	}

	img, err := l.render(frame)
	if err != nil {
		l.logger.Error("Failed to render frame: %v", err)
		return
	}
	l.surface.ShowFrame(img)
}

// render resizes, normalizes to BGR, annotates faces and converts for display.
func (l *DisplayLoop) render(frame gocv.Mat) (image.Image, error) {
	resized := gocv.NewMat()
	defer resized.Close()
	if err := ResizeToWidth(frame, &resized, l.width); err != nil {
		return nil, err
	}

	bgr := gocv.NewMat()
	defer bgr.Close()
	if err := ToBGR(resized, &bgr); err != nil {
		return nil, err
	}

	if _, err := l.locator.Locate(&bgr); err != nil {
		// Pokaż klatkę bez ramek zamiast ją gubić
		l.logger.Error("Face detection failed: %v", err)
	}

	return bgr.ToImage()
}

func (l *DisplayLoop) showClock() {
	l.surface.ShowClock(l.now().Format(ClockLayout))
}

// ResizeToWidth scales src to the given width keeping its aspect ratio.
func ResizeToWidth(src gocv.Mat, dst *gocv.Mat, width int) error {
	if src.Empty() || src.Cols() == 0 {
		return fmt.Errorf("cannot resize an empty frame")
	}
	height := src.Rows() * width / src.Cols()
	if height < 1 {
		height = 1
	}

	interp := gocv.InterpolationArea
	if width > src.Cols() {
		interp = gocv.InterpolationLinear
	}
	if err := gocv.Resize(src, dst, image.Pt(width, height), 0, 0, interp); err != nil {
		return fmt.Errorf("failed to resize frame: %w", err)
	}
	return nil
}

// ToBGR converts a grayscale or BGRA frame to the 3-channel BGR layout the face locator works on.
func ToBGR(src gocv.Mat, dst *gocv.Mat) error {
	var err error
	switch src.Channels() {
	case 1:
		err = gocv.CvtColor(src, dst, gocv.ColorGrayToBGR)
	case 4:
		err = gocv.CvtColor(src, dst, gocv.ColorBGRAToBGR)
	default:
		src.CopyTo(dst)
	}
	if err != nil {
		return fmt.Errorf("failed to convert frame to BGR: %w", err)
	}
	return nil
}
