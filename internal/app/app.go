package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/google/uuid"

	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/repository/sqlite"
	"facescope/internal/routes"
	"facescope/internal/service"
	"facescope/internal/service/ai"
	"facescope/internal/service/camera"
	"facescope/internal/service/storage"
	"facescope/internal/service/websocket"
	"facescope/internal/ui"
)

type App struct {
	config *config.Config
	logger *logger.Logger

	db      *sqlite.DB
	history *sqlite.AnalysisRepository
	cache   *storage.CacheService
	source  *camera.Source
	locator *ai.FaceLocator
	hub     *websocket.HubService
	manager *service.Manager
	display *service.DisplayLoop
	capture *service.CaptureAction
	window  *ui.Window
	server  *http.Server
}

// NewApp opens every resource the desktop session needs. Any failure is fatal
// and releases what was already opened.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		config: cfg,
		logger: log,
	}
	ready := false
	defer func() {
		if !ready {
			a.Close()
		}
	}()

	var err error
	if a.db, err = sqlite.New(cfg.DBPath); err != nil {
		return nil, err
	}
	a.history = sqlite.NewAnalysisRepository(a.db)

	if a.cache, err = storage.NewCacheService(cfg, log); err != nil {
		return nil, err
	}

	if a.source, err = camera.Open(cfg.CameraDevice); err != nil {
		return nil, err
	}

	detector, err := ai.NewFaceDetector(cfg, log)
	if err != nil {
		return nil, err
	}
	a.locator = ai.NewFaceLocator(detector)

	window := ui.NewWindow(fyneapp.New(), cfg.WindowTitle, func() {
		// błędy są już zalogowane i pokazane jako "-"
		a.capture.Trigger()
	})
	a.window = window

	surfaces := service.Surfaces{window}
	if cfg.ViewerAddr != "" {
		a.hub = websocket.NewHubService(log)
		surfaces = append(surfaces, a.hub)
	}

	presenter := service.NewPresenter(surfaces)
	analyzer := ai.NewDeepFaceAnalyzer(cfg, log)

	a.manager = service.NewManager(analyzer, a.history, presenter, cfg, uuid.NewString(), log)
	a.display = service.NewDisplayLoop(a.source, a.locator, surfaces, cfg, log)
	a.capture = service.NewCaptureAction(a.source, a.cache, a.manager, presenter, log)

	if a.hub != nil {
		a.server = &http.Server{
			Addr: cfg.ViewerAddr,
			Handler: routes.SetupRoutes(routes.Deps{
				Hub:     a.hub,
				Capture: a.capture,
				History: a.history,
				Cache:   a.cache,
				Logger:  log,
				Token:   cfg.ViewerToken,
			}),
		}
	}

	ready = true
	return a, nil
}

// Run shows the window and blocks until it is closed or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("🚀 Face Detection App started")
	a.logger.Info("📷 Camera: %s", a.source.Name())
	a.logger.Info("📁 Captures: %s", a.cache.Dir())
	a.logger.Info("🤖 DeepFace: %s", a.config.DeepFaceURL)
	a.logger.Info("Session: %s", a.manager.SessionID())

	displayDone := a.display.Start(ctx)

	serverErr := make(chan error, 1)
	if a.server != nil {
		go a.hub.Run(ctx)
		go func() {
			a.logger.Info("Viewer listening on %s", a.server.Addr)
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("viewer server: %w", err)
				cancel()
			}
		}()
	}

	// Sygnał albo błąd serwera zamyka okno
	go func() {
		<-ctx.Done()
		a.window.Close()
	}()

	a.window.Run(cancel)
	cancel()

	// Close zwalnia sieć i kamerę, więc pętla musi być już zatrzymana
	<-displayDone

	if a.server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Viewer shutdown failed: %v", err)
		}
	}

	select {
	case err := <-serverErr:
		return err
	default:
		return nil
	}
}

// Close stops the workers and releases the camera, detector and database.
func (a *App) Close() {
	if a.manager != nil {
		a.manager.Stop()
	}
	if a.source != nil {
		if err := a.source.Close(); err != nil {
			a.logger.Error("Failed to release camera: %v", err)
		}
	}
	if a.locator != nil {
		a.locator.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.logger.Info("Face Detection App stopped")
}
