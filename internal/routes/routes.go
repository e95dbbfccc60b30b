package routes

import (
	"embed"
	"net/http"

	"facescope/internal/handler"
	"facescope/internal/logger"
	"facescope/internal/middleware"
	"facescope/internal/repository"
	"facescope/internal/service/storage"
	viewer "facescope/internal/service/websocket"
)

//go:embed static/index.html
var static embed.FS

// Deps groups what the viewer routes need.
type Deps struct {
	Hub     *viewer.HubService
	Capture handler.Capturer
	History repository.AnalysisRepository
	Cache   *storage.CacheService
	Logger  *logger.Logger
	Token   string
}

// indexHandler serves the embedded viewer page on / only.
func indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// SetupRoutes registers the viewer API, log endpoints and the viewer page,
// and wraps the mux with the token middleware.
func SetupRoutes(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(deps.Hub, deps.Logger))
	mux.HandleFunc("/api/capture", handler.CaptureHandler(deps.Capture, deps.Logger))
	mux.HandleFunc("/api/analyses", handler.GetAnalysesHandler(deps.Cache, deps.Logger, deps.History))
	mux.HandleFunc("/api/captures/view", handler.ViewCaptureHandler(deps.Cache))

	// Log endpoints
	for _, level := range []string{"info", "warning", "error"} {
		file := level + ".log"
		mux.HandleFunc("/logs/"+level, handler.ShowLogsHandler(deps.Logger, file))
		mux.HandleFunc("/logs/"+level+"/clear", handler.ClearLogsHandler(deps.Logger, file))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(deps.Token, deps.Logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	mux.HandleFunc("/", indexHandler)

	return middleware.TokenAuth(deps.Token)(mux)
}
