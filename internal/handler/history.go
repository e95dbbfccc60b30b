package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"facescope/internal/dto"
	"facescope/internal/logger"
	"facescope/internal/model"
	"facescope/internal/repository"
	"facescope/internal/service"
	"facescope/internal/service/storage"
)

// GetAnalysesHandler returns a page of the analysis history, newest first.
func GetAnalysesHandler(cache *storage.CacheService, logger *logger.Logger, repo repository.AnalysisRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &model.AnalysisFilter{
			SessionID:   q.Get("session"),
			SuccessOnly: q.Get("success") == "true",
			Limit:       limit,
			Offset:      (page - 1) * limit,
		}

		records, err := repo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying analyses from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := repo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting analyses: %v", err)
			totalCount = len(records)
		}

		analyses := make([]dto.AnalysisInfo, 0, len(records))
		for _, rec := range records {
			analyses = append(analyses, toAnalysisInfo(rec))
		}

		data := dto.AnalysesData{
			Analyses:    analyses,
			CacheDir:    cache.Dir(),
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// ViewCaptureHandler serves a single cached capture named by the "filename" query parameter.
func ViewCaptureHandler(cache *storage.CacheService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		if filename == "" {
			http.Error(w, "Filename parameter is required", http.StatusBadRequest)
			return
		}

		path, err := cache.Path(filename)
		if errors.Is(err, storage.ErrInvalidFilename) {
			http.Error(w, "Invalid filename", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

func toAnalysisInfo(rec model.AnalysisRecord) dto.AnalysisInfo {
	var result *model.Analysis
	if rec.Success {
		result = &model.Analysis{
			Age:             rec.Age,
			DominantGender:  rec.Gender,
			DominantRace:    rec.Race,
			DominantEmotion: rec.Emotion,
		}
	}

	return dto.AnalysisInfo{
		Session:   rec.SessionID,
		Filename:  rec.Filename,
		Labels:    service.FormatAttributes(result),
		Success:   rec.Success,
		Error:     rec.Error,
		Date:      rec.CreatedAt,
		TimeOfDay: rec.CreatedAt,
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
