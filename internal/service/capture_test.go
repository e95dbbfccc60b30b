package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/model"
	"facescope/internal/service/storage"
)

type submitFunc func(model.Capture) error

func (f submitFunc) Submit(c model.Capture) error { return f(c) }

func newCache(t *testing.T) *storage.CacheService {
	t.Helper()
	cache, err := storage.NewCacheService(&config.Config{CacheDirectory: t.TempDir()}, logger.NewNop())
	require.NoError(t, err)
	return cache
}

func TestCaptureAction_Trigger_SavesAndSubmits(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 24, 32, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cache := newCache(t)
	var submitted []model.Capture
	action := NewCaptureAction(&frameSource{frame: frame}, cache,
		submitFunc(func(c model.Capture) error {
			submitted = append(submitted, c)
			return nil
		}),
		presenterFunc(func(*model.Analysis) { t.Fatal("nothing should be presented") }),
		logger.NewNop())

	for i := 1; i <= 2; i++ {
		capture, err := action.Trigger()
		require.NoError(t, err)
		assert.Equal(t, storage.CaptureFilename(i), capture.Filename)
		assert.FileExists(t, filepath.Join(cache.Dir(), capture.Filename))
	}
	require.Len(t, submitted, 2)

	saved := gocv.IMRead(submitted[0].Path, gocv.IMReadColor)
	defer saved.Close()
	assert.Equal(t, 32, saved.Cols())
	assert.Equal(t, 24, saved.Rows())
}

func TestCaptureAction_Trigger_ReadFailure(t *testing.T) {
	cache := newCache(t)
	var shown []*model.Analysis
	action := NewCaptureAction(&frameSource{fail: true}, cache,
		submitFunc(func(model.Capture) error {
			t.Fatal("nothing should be submitted")
			return nil
		}),
		presenterFunc(func(a *model.Analysis) { shown = append(shown, a) }),
		logger.NewNop())

	_, err := action.Trigger()
	require.ErrorIs(t, err, errNoFrame)
	assert.Equal(t, []*model.Analysis{nil}, shown)

	entries, err := os.ReadDir(cache.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCaptureAction_Trigger_StoppedManagerPresentsAbsence(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	var shown int
	action := NewCaptureAction(&frameSource{frame: frame}, newCache(t),
		submitFunc(func(model.Capture) error { return ErrManagerStopped }),
		presenterFunc(func(*model.Analysis) { shown++ }),
		logger.NewNop())

	capture, err := action.Trigger()
	assert.True(t, errors.Is(err, ErrManagerStopped))
	assert.NotNil(t, capture)
	assert.Equal(t, 1, shown)
}
