package service

import (
	"context"
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"facescope/internal/dto"
	"facescope/internal/model"
)

type recordingSurface struct {
	mu     sync.Mutex
	frames []image.Image
	clocks []string
	labels []dto.AttributeLabels
	events []string
}

func (s *recordingSurface) ShowFrame(frame image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
	s.events = append(s.events, "frame")
}

func (s *recordingSurface) ShowClock(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clocks = append(s.clocks, text)
	s.events = append(s.events, "clock")
}

func (s *recordingSurface) ShowAttributes(labels dto.AttributeLabels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, labels)
	s.events = append(s.events, "attributes")
}

func (s *recordingSurface) lastLabels() (dto.AttributeLabels, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.labels) == 0 {
		return dto.AttributeLabels{}, false
	}
	return s.labels[len(s.labels)-1], true
}

func (s *recordingSurface) labelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

var errNoFrame = errors.New("no frame")

// frameSource serves copies of one synthetic frame, or fails when frame is empty.
type frameSource struct {
	mu    sync.Mutex
	frame gocv.Mat
	fail  bool
	reads int
}

func (s *frameSource) Read(dst *gocv.Mat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.fail {
		return errNoFrame
	}
	s.frame.CopyTo(dst)
	return nil
}

func (s *frameSource) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

type stubLocator struct {
	mu    sync.Mutex
	calls int
	sizes []image.Point
	err   error
}

func (l *stubLocator) Locate(img *gocv.Mat) ([]image.Rectangle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.sizes = append(l.sizes, image.Pt(img.Cols(), img.Rows()))
	return nil, l.err
}

type stubAnalyzer struct {
	mu     sync.Mutex
	result *model.Analysis
	err    error
	block  chan struct{} // jeśli ustawione, Analyze czeka na zamknięcie albo ctx
	paths  []string
}

func (a *stubAnalyzer) Analyze(ctx context.Context, imagePath string) (*model.Analysis, error) {
	a.mu.Lock()
	a.paths = append(a.paths, imagePath)
	block := a.block
	a.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return a.result, a.err
}

type memoryHistory struct {
	mu      sync.Mutex
	records []model.AnalysisRecord
}

func (h *memoryHistory) Insert(rec *model.AnalysisRecord) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec.ID = int64(len(h.records) + 1)
	h.records = append(h.records, *rec)
	return rec.ID, nil
}

func (h *memoryHistory) GetByID(id int64) (*model.AnalysisRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

func (h *memoryHistory) GetAll(*model.AnalysisFilter) ([]model.AnalysisRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.AnalysisRecord(nil), h.records...), nil
}

func (h *memoryHistory) GetTotalCount(*model.AnalysisFilter) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records), nil
}

func (h *memoryHistory) DeleteAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}

func (h *memoryHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

type presenterFunc func(*model.Analysis)

func (f presenterFunc) Present(result *model.Analysis) { f(result) }
