package handler

import (
	"encoding/json"
	"net/http"

	"facescope/internal/logger"
	"facescope/internal/model"
)

// Capturer saves the current frame and queues it for analysis.
type Capturer interface {
	Trigger() (*model.Capture, error)
}

// CaptureHandler handles POST /api/capture, the remote equivalent of the capture button.
func CaptureHandler(capturer Capturer, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		capture, err := capturer.Trigger()
		if capture == nil {
			logger.Error("Remote capture failed: %v", err)
			http.Error(w, "Capture failed", http.StatusServiceUnavailable)
			return
		}

		resp := map[string]interface{}{
			"filename": capture.Filename,
			"index":    capture.Index,
			"queued":   err == nil,
		}
		if err != nil {
			resp["error"] = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}
