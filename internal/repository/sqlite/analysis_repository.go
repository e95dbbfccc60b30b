package sqlite

import (
	"database/sql"
	"fmt"

	"facescope/internal/model"
)

// AnalysisRepository implements repository.AnalysisRepository for SQLite.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new SQLite analysis repository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Insert appends an analysis record to the history.
func (r *AnalysisRepository) Insert(rec *model.AnalysisRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO analyses (session_id, filename, filepath, age, gender, race, emotion, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.SessionID, rec.Filename, rec.FilePath, rec.Age, rec.Gender, rec.Race, rec.Emotion, rec.Success, rec.Error, rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves a record by its ID. Returns nil, nil when absent.
func (r *AnalysisRepository) GetByID(id int64) (*model.AnalysisRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`
		SELECT id, session_id, filename, filepath, age, gender, race, emotion, success, error, created_at
		FROM analyses WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return rec, nil
}

// GetAll retrieves records matching the filter, newest first.
func (r *AnalysisRepository) GetAll(filter *model.AnalysisFilter) ([]model.AnalysisRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := buildWhere(filter)
	query := `
		SELECT id, session_id, filename, filepath, age, gender, race, emotion, success, error, created_at
		FROM analyses` + where + ` ORDER BY created_at DESC, id DESC`

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// GetTotalCount returns the number of records matching the filter, ignoring paging.
func (r *AnalysisRepository) GetTotalCount(filter *model.AnalysisFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := buildWhere(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM analyses`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}

// DeleteAll removes every record.
func (r *AnalysisRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM analyses`); err != nil {
		return fmt.Errorf("failed to delete analyses: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	if err := s.Scan(&rec.ID, &rec.SessionID, &rec.Filename, &rec.FilePath, &rec.Age,
		&rec.Gender, &rec.Race, &rec.Emotion, &rec.Success, &rec.Error, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func buildWhere(filter *model.AnalysisFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter == nil {
		return where, args
	}
	if filter.SessionID != "" {
		where += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.SuccessOnly {
		where += " AND success = 1"
	}
	return where, args
}
