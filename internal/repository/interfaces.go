package repository

import (
	"facescope/internal/model"
)

// AnalysisRepository defines the interface for analysis history operations.
type AnalysisRepository interface {
	// Create operations
	Insert(rec *model.AnalysisRecord) (int64, error)

	// Read operations
	GetByID(id int64) (*model.AnalysisRecord, error)
	GetAll(filter *model.AnalysisFilter) ([]model.AnalysisRecord, error)
	GetTotalCount(filter *model.AnalysisFilter) (int, error)

	// Delete operations
	DeleteAll() error
}
