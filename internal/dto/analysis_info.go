package dto

import (
	"encoding/json"
	"time"
)

// AnalysisInfo is the history entry returned to viewers.
type AnalysisInfo struct {
	Session   string          `json:"session"`
	Filename  string          `json:"filename"`
	Labels    AttributeLabels `json:"labels"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Date      time.Time       `json:"date"`
	TimeOfDay time.Time       `json:"timeOfDay"`
}

// MarshalJSON customizes JSON output for AnalysisInfo to format date and time-of-day.
func (a AnalysisInfo) MarshalJSON() ([]byte, error) {
	type Alias AnalysisInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      a.Date.Format("02-01-2006"),
		TimeOfDay: a.TimeOfDay.Format("15:04:05"),
		Alias:     (Alias)(a),
	})
}
