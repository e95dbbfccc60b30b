package model

import (
	"image"
	"time"
)

// Analysis is the attribute estimate for the dominant face of one captured image.
type Analysis struct {
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	DominantRace    string             `json:"dominant_race"`
	DominantEmotion string             `json:"dominant_emotion"`
	Gender          map[string]float64 `json:"gender,omitempty"`
	Race            map[string]float64 `json:"race,omitempty"`
	Emotion         map[string]float64 `json:"emotion,omitempty"`
	Region          image.Rectangle    `json:"-"`
}

// AnalysisRecord is one row of the analysis history.
type AnalysisRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"filepath"`
	Age       float64   `json:"age"`
	Gender    string    `json:"gender"`
	Race      string    `json:"race"`
	Emotion   string    `json:"emotion"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisFilter contains paging and filtering options for querying history.
type AnalysisFilter struct {
	SessionID   string
	SuccessOnly bool
	Limit       int
	Offset      int
}
