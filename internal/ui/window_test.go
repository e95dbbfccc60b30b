package ui

import (
	"image"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facescope/internal/dto"
)

func newTestWindow(t *testing.T, onCapture func()) *Window {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	w := NewWindow(app, "Face Detection App", onCapture)
	w.do = func(fn func()) { fn() }
	return w
}

func TestWindow_InitialState(t *testing.T) {
	w := newTestWindow(t, func() {})

	assert.Equal(t, "Face Detection App", w.window.Title())
	assert.Equal(t, CaptureButtonText, w.capture.Text)
	for _, l := range []string{w.age.Text, w.gender.Text, w.race.Text, w.emotion.Text} {
		assert.Equal(t, "-", l)
	}
	assert.Nil(t, w.video.Image)
}

func TestWindow_ShowAttributes(t *testing.T) {
	w := newTestWindow(t, func() {})

	w.ShowAttributes(dto.AttributeLabels{
		Age:     "Estimate Age: 29",
		Gender:  "Gender: Man",
		Race:    "Race: asian",
		Emotion: "Emotion: happy",
	})

	assert.Equal(t, "Estimate Age: 29", w.age.Text)
	assert.Equal(t, "Gender: Man", w.gender.Text)
	assert.Equal(t, "Race: asian", w.race.Text)
	assert.Equal(t, "Emotion: happy", w.emotion.Text)
}

func TestWindow_ShowFrameAndClock(t *testing.T) {
	w := newTestWindow(t, func() {})

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	w.ShowFrame(img)
	w.ShowClock("2024-05-01 13:04:05")

	assert.Same(t, img, w.video.Image)
	assert.Equal(t, "2024-05-01 13:04:05", w.clock.Text)
}

func TestWindow_ButtonTriggersCapture(t *testing.T) {
	pressed := make(chan struct{}, 1)
	w := newTestWindow(t, func() { pressed <- struct{}{} })

	test.Tap(w.capture)

	select {
	case <-pressed:
	case <-time.After(time.Second):
		require.Fail(t, "capture callback was not called")
	}
}

func TestWindow_UpdatesDroppedAfterClose(t *testing.T) {
	w := newTestWindow(t, func() {})
	w.closed.Store(true)

	w.ShowClock("2024-05-01 13:04:05")
	w.ShowAttributes(dto.AttributeLabels{Age: "Estimate Age: 29"})

	assert.Empty(t, w.clock.Text)
	assert.Equal(t, "-", w.age.Text)
}
