// Package storage persists analysis runs in SQLite via GORM.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/warpalign/warpalign/pkg/models"
)

const DefaultDBFile = "warpalign.sqlite3"

// ErrRunNotFound indicates the requested run ID is not in the database.
var ErrRunNotFound = errors.New("storage: run not found")

// SQLiteStorage is a GORM-backed run store.
type SQLiteStorage struct {
	DB *gorm.DB
	db *sql.DB
}

// analysisRun is the persistence shape of models.AnalysisRun.
type analysisRun struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	TransformName string `gorm:"index:idx_transform"`
	TransformDesc string
	Method        string `gorm:"index:idx_method"`
	ShiftMs       float64
	DTWDistance   float64
	PathLength    int
	RawCorr       float64
	RawMSE        float64
	Corr          float64
	MSE           float64
	SampleRate    float64
	SampleCount   int
	CreatedAt     time.Time
}

func (analysisRun) TableName() string { return "analysis_runs" }

// New opens (creating if needed) the SQLite database at dbPath and
// migrates the run schema.
func New(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&analysisRun{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &SQLiteStorage{DB: db, db: sqlDB}, nil
}

func (s *SQLiteStorage) SaveRun(run models.AnalysisRun) error {
	if err := s.DB.Create(toRecord(run)).Error; err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStorage) GetRun(id string) (*models.AnalysisRun, error) {
	var rec analysisRun
	err := s.DB.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	run := toModel(rec)
	return &run, nil
}

func (s *SQLiteStorage) ListRuns() ([]models.AnalysisRun, error) {
	var recs []analysisRun
	if err := s.DB.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	runs := make([]models.AnalysisRun, len(recs))
	for i, rec := range recs {
		runs[i] = toModel(rec)
	}
	return runs, nil
}

func (s *SQLiteStorage) DeleteRun(id string) error {
	res := s.DB.Delete(&analysisRun{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func toRecord(run models.AnalysisRun) *analysisRun {
	return &analysisRun{
		ID:            run.ID,
		TransformName: run.TransformName,
		TransformDesc: run.TransformDesc,
		Method:        run.Method,
		ShiftMs:       run.ShiftMs,
		DTWDistance:   run.DTWDistance,
		PathLength:    run.PathLength,
		RawCorr:       run.RawCorr,
		RawMSE:        run.RawMSE,
		Corr:          run.Corr,
		MSE:           run.MSE,
		SampleRate:    run.SampleRate,
		SampleCount:   run.SampleCount,
		CreatedAt:     run.CreatedAt,
	}
}

func toModel(rec analysisRun) models.AnalysisRun {
	return models.AnalysisRun{
		ID:            rec.ID,
		TransformName: rec.TransformName,
		TransformDesc: rec.TransformDesc,
		Method:        rec.Method,
		ShiftMs:       rec.ShiftMs,
		DTWDistance:   rec.DTWDistance,
		PathLength:    rec.PathLength,
		RawCorr:       rec.RawCorr,
		RawMSE:        rec.RawMSE,
		Corr:          rec.Corr,
		MSE:           rec.MSE,
		SampleRate:    rec.SampleRate,
		SampleCount:   rec.SampleCount,
		CreatedAt:     rec.CreatedAt,
	}
}
