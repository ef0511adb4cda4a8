package warpalign

import (
	"context"

	"github.com/warpalign/warpalign/internal/transform"
	"github.com/warpalign/warpalign/pkg/models"
)

// Method selects which alignment estimator an analysis uses.
type Method string

const (
	MethodSkew Method = "skew"
	MethodDTW  Method = "dtw"
)

// Analysis is the full in-memory outcome of one pipeline pass. Run holds
// the persisted summary; the signals are returned to the caller only.
type Analysis struct {
	Run            models.AnalysisRun
	Reference      models.Signal
	Transformed    models.Signal
	Alignment      models.Alignment
	Reconstruction models.ReconstructionResult
}

type Service interface {
	Analyze(ctx context.Context, ref models.Signal, name string, spec transform.Spec, method Method) (*Analysis, error)
	AnalyzeCatalog(ctx context.Context, ref models.Signal) ([]Analysis, error)
	GetRun(id string) (*models.AnalysisRun, error)
	ListRuns() ([]models.AnalysisRun, error)
	DeleteRun(id string) error
	Close() error
}

type Storage interface {
	SaveRun(run models.AnalysisRun) error
	GetRun(id string) (*models.AnalysisRun, error)
	ListRuns() ([]models.AnalysisRun, error)
	DeleteRun(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
