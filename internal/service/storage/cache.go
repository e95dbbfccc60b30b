package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/model"
)

const (
	// CapturePrefix and CaptureExt make up captured_image_<N>.png.
	CapturePrefix = "captured_image_"
	CaptureExt    = ".png"
)

// ErrInvalidFilename is returned for names that would escape the cache directory.
var ErrInvalidFilename = errors.New("invalid capture filename")

// FrameWriter writes one frame to the given path.
type FrameWriter func(path string) error

// Counter is the run-local capture index. It starts at 1 and only moves forward.
type Counter struct {
	next int
}

// NewCounter returns a counter positioned at 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Current returns the index the next capture will use.
func (c *Counter) Current() int {
	return c.next
}

// Advance moves to the next index.
func (c *Counter) Advance() {
	c.next++
}

// CaptureFilename returns the cache file name for a capture index.
func CaptureFilename(index int) string {
	return fmt.Sprintf("%s%d%s", CapturePrefix, index, CaptureExt)
}

// CacheService owns the capture directory and the capture counter.
type CacheService struct {
	dir     string
	counter *Counter
	mu      sync.Mutex
	now     func() time.Time
	logger  *logger.Logger
}

// NewCacheService creates the cache directory if absent.
func NewCacheService(cfg *config.Config, logger *logger.Logger) (*CacheService, error) {
	if err := os.MkdirAll(cfg.CacheDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &CacheService{
		dir:     cfg.CacheDirectory,
		counter: NewCounter(),
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Dir returns the cache directory.
func (s *CacheService) Dir() string {
	return s.dir
}

// Store writes a capture under the current counter value and advances the
// counter only when the write succeeds.
func (s *CacheService) Store(write FrameWriter) (*model.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.counter.Current()
	filename := CaptureFilename(index)
	path := filepath.Join(s.dir, filename)

	if err := write(path); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", filename, err)
	}
	s.counter.Advance()

	s.logger.Info("Image saved: %s", path)
	return &model.Capture{
		Index:      index,
		Filename:   filename,
		Path:       path,
		CapturedAt: s.now(),
	}, nil
}

// Path resolves a cached file name to its full path.
func (s *CacheService) Path(filename string) (string, error) {
	if !isValidFilename(filename) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, filename), nil
}

// Clear removes every captured image from the cache directory and returns how many were removed.
func (s *CacheService) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, CapturePrefix) || filepath.Ext(name) != CaptureExt {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Error("Error removing %s: %v", name, err)
			continue
		}
		removed++
	}

	s.logger.Info("Removed %d cached captures", removed)
	return removed, nil
}

func isValidFilename(filename string) bool {
	if filename == "" || filename == "." || filename == ".." {
		return false
	}
	if strings.ContainsRune(filename, 0) {
		return false
	}
	// Tylko sama nazwa pliku, bez katalogów
	if strings.ContainsAny(filename, `/\`) {
		return false
	}
	return filepath.Base(filename) == filename
}
