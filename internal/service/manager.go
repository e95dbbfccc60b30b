package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/model"
	"facescope/internal/repository"
)

// ErrManagerStopped is returned when work is submitted after Stop.
var ErrManagerStopped = errors.New("analysis manager stopped")

// Analyzer estimates attributes of the dominant face in an image file.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath string) (*model.Analysis, error)
}

// ResultPresenter shows an analysis result, or absence when nil.
type ResultPresenter interface {
	Present(result *model.Analysis)
}

// AnalysisTask is one captured image waiting for attribute analysis.
type AnalysisTask struct {
	Capture model.Capture
}

// Manager runs attribute analysis on background workers so the display keeps refreshing.
type Manager struct {
	analyzer  Analyzer
	history   repository.AnalysisRepository // może być nil
	presenter ResultPresenter
	logger    *logger.Logger

	sessionID  string
	timeout    time.Duration
	numWorkers int

	processingQueue chan AnalysisTask
	ctx             context.Context
	cancel          context.CancelFunc

	mu      sync.RWMutex // chroni stopped i zamknięcie kolejki
	stopped bool
	wg      sync.WaitGroup
}

func NewManager(analyzer Analyzer, history repository.AnalysisRepository, presenter ResultPresenter, cfg *config.Config, sessionID string, logger *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		analyzer:        analyzer,
		history:         history,
		presenter:       presenter,
		logger:          logger,
		sessionID:       sessionID,
		timeout:         cfg.AnalyzeTimeout,
		numWorkers:      cfg.AnalysisWorkers,
		processingQueue: make(chan AnalysisTask, cfg.AnalysisQueueSize),
		ctx:             ctx,
		cancel:          cancel,
	}

	for i := 0; i < m.numWorkers; i++ {
		m.wg.Add(1)
		go m.processingWorker(i)
	}

	m.logger.Info("🎬 Analysis manager started with %d worker(s), session %s", m.numWorkers, sessionID)
	return m
}

// SessionID identifies the current run in the history.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Submit queues a capture for analysis. It never blocks: when the queue is
// full the capture is recorded as failed and absence is presented.
func (m *Manager) Submit(capture model.Capture) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.stopped {
		return ErrManagerStopped
	}

	select {
	case m.processingQueue <- AnalysisTask{Capture: capture}:
		m.logger.Info("Capture %s queued for analysis", capture.Filename)
		return nil
	default:
		m.logger.Warning("⚠️  Analysis queue full - skipping %s", capture.Filename)
		err := errors.New("analysis queue full")
		m.record(capture, nil, err)
		m.presenter.Present(nil)
		return err
	}
}

// AnalyzeCapture analyzes a capture synchronously and records the outcome.
func (m *Manager) AnalyzeCapture(ctx context.Context, capture model.Capture) (*model.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, err := m.analyzer.Analyze(ctx, capture.Path)
	if err != nil {
		m.logger.Warning("Analysis of %s failed: %v", capture.Filename, err)
		result = nil
	} else if result != nil {
		m.logger.Info("Analysis of %s: age %v, %s, %s, %s, face at %v",
			capture.Filename, result.Age, result.DominantGender, result.DominantRace, result.DominantEmotion, result.Region)
	}
	m.record(capture, result, err)
	return result, err
}

func (m *Manager) processingWorker(workerID int) {
	defer m.wg.Done()

	for task := range m.processingQueue {
		result, _ := m.AnalyzeCapture(m.ctx, task.Capture)
		// Błąd analizy = brak wyniku, etykiety dostają placeholder
		m.presenter.Present(result)
	}

	m.logger.Info("🔧 Analysis worker %d stopped", workerID)
}

func (m *Manager) record(capture model.Capture, result *model.Analysis, analyzeErr error) {
	if m.history == nil {
		return
	}

	rec := &model.AnalysisRecord{
		SessionID: m.sessionID,
		Filename:  capture.Filename,
		FilePath:  capture.Path,
		Success:   analyzeErr == nil && result != nil,
		CreatedAt: time.Now(),
	}
	if result != nil {
		rec.Age = result.Age
		rec.Gender = result.DominantGender
		rec.Race = result.DominantRace
		rec.Emotion = result.DominantEmotion
	}
	if analyzeErr != nil {
		rec.Error = analyzeErr.Error()
	}

	if _, err := m.history.Insert(rec); err != nil {
		m.logger.Error("Failed to save analysis of %s: %v", capture.Filename, err)
	}
}

// Stop cancels in-flight analyses and waits for the workers. Queued captures
// are drained with a cancelled context and recorded as failed.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	close(m.processingQueue)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.logger.Info("🛑 All analysis workers stopped")
}
