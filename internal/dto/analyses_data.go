// AnalysesData is a paginated response payload for the analysis history.
package dto

type AnalysesData struct {
	Analyses    []AnalysisInfo `json:"analyses"`
	CacheDir    string         `json:"cacheDir"`
	Length      int            `json:"length"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Limit       int            `json:"pageSize"`
}
