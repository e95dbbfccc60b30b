package service

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"facescope/internal/logger"
	"facescope/internal/model"
	"facescope/internal/service/storage"
)

// CaptureStore persists one frame under the next capture name.
type CaptureStore interface {
	Store(write storage.FrameWriter) (*model.Capture, error)
}

// AnalysisSubmitter accepts captures for background analysis.
type AnalysisSubmitter interface {
	Submit(capture model.Capture) error
}

// CaptureAction saves the current camera frame and hands it to analysis.
type CaptureAction struct {
	source    FrameSource
	store     CaptureStore
	analysis  AnalysisSubmitter
	presenter ResultPresenter
	logger    *logger.Logger
}

func NewCaptureAction(source FrameSource, store CaptureStore, analysis AnalysisSubmitter, presenter ResultPresenter, logger *logger.Logger) *CaptureAction {
	return &CaptureAction{
		source:    source,
		store:     store,
		analysis:  analysis,
		presenter: presenter,
		logger:    logger,
	}
}

// Trigger grabs a fresh frame, writes it to the cache and queues it.
// Any failure before queueing presents absence in the result labels.
func (c *CaptureAction) Trigger() (*model.Capture, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	if err := c.source.Read(&frame); err != nil {
		c.logger.Error("Capture failed: %v", err)
		c.presenter.Present(nil)
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	capture, err := c.store.Store(func(path string) error {
		if !gocv.IMWrite(path, frame) {
			return errors.New("imwrite returned false")
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to save capture: %v", err)
		c.presenter.Present(nil)
		return nil, err
	}

	if err := c.analysis.Submit(*capture); err != nil {
		// Submit już pokazał brak wyniku, jeśli kolejka była pełna
		if errors.Is(err, ErrManagerStopped) {
			c.presenter.Present(nil)
		}
		return capture, err
	}
	return capture, nil
}
