package ui

import (
	"image"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"facescope/internal/dto"
	"facescope/internal/service"
)

// CaptureButtonText is the label of the capture-and-analyze button.
const CaptureButtonText = "Estimate Age, Gender, Race, Emotion"

// Window is the desktop surface: live video, the capture button, four result labels and a clock.
type Window struct {
	app    fyne.App
	window fyne.Window

	video   *canvas.Image
	capture *widget.Button
	age     *widget.Label
	gender  *widget.Label
	race    *widget.Label
	emotion *widget.Label
	clock   *widget.Label

	do     func(func()) // fyne.Do poza testami
	closed atomic.Bool
}

// NewWindow builds the window. onCapture runs off the UI goroutine on every button press.
func NewWindow(app fyne.App, title string, onCapture func()) *Window {
	w := &Window{
		app:    app,
		window: app.NewWindow(title),
		do:     fyne.Do,
	}

	w.video = canvas.NewImageFromImage(nil)
	w.video.FillMode = canvas.ImageFillContain
	w.video.SetMinSize(fyne.NewSize(640, 480))

	w.capture = widget.NewButton(CaptureButtonText, func() {
		go onCapture()
	})

	w.age = widget.NewLabel(service.Placeholder)
	w.gender = widget.NewLabel(service.Placeholder)
	w.race = widget.NewLabel(service.Placeholder)
	w.emotion = widget.NewLabel(service.Placeholder)
	w.clock = widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})

	controls := container.NewVBox(
		w.capture,
		w.age,
		w.gender,
		w.race,
		w.emotion,
		w.clock,
	)
	w.window.SetContent(container.NewBorder(nil, controls, nil, nil, w.video))
	return w
}

// ShowFrame replaces the video panel image.
func (w *Window) ShowFrame(frame image.Image) {
	w.update(func() {
		w.video.Image = frame
		w.video.Refresh()
	})
}

// ShowClock sets the timestamp label.
func (w *Window) ShowClock(text string) {
	w.update(func() {
		w.clock.SetText(text)
	})
}

// ShowAttributes overwrites all four result labels at once.
func (w *Window) ShowAttributes(labels dto.AttributeLabels) {
	w.update(func() {
		w.age.SetText(labels.Age)
		w.gender.SetText(labels.Gender)
		w.race.SetText(labels.Race)
		w.emotion.SetText(labels.Emotion)
	})
}

// update hands fn to the UI goroutine. After the window closed the UI loop
// is gone and updates are dropped.
func (w *Window) update(fn func()) {
	if w.closed.Load() {
		return
	}
	w.do(fn)
}

// Run shows the window and blocks until it is closed; onClosed runs first.
func (w *Window) Run(onClosed func()) {
	w.window.SetOnClosed(func() {
		w.closed.Store(true)
		onClosed()
	})
	w.window.ShowAndRun()
}

// Close closes the window from outside the UI, e.g. on a signal.
func (w *Window) Close() {
	w.update(w.window.Close)
}
