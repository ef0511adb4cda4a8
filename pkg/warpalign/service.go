package warpalign

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/warpalign/warpalign/internal/align"
	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/internal/transform"
	"github.com/warpalign/warpalign/pkg/logger"
	"github.com/warpalign/warpalign/pkg/models"
	"github.com/warpalign/warpalign/pkg/warpalign/storage"
)

// ErrNoStorage is returned by run-management calls when the service was
// built without persistence.
var ErrNoStorage = errors.New("warpalign: no storage configured")

// alignService is the default implementation of the Service interface.
type alignService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	// Create or use provided storage; an empty DBPath means in-memory only
	var stor Storage
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else if cfg.DBPath != "" {
		s, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		stor = s
	}

	return &alignService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// Analyze runs the full pipeline for one transformation: apply spec to the
// reference, estimate the alignment with the chosen method, invert it into
// a reconstruction, and score fidelity of both the transformed signal and
// the reconstruction against the reference.
func (s *alignService) Analyze(ctx context.Context, ref models.Signal, name string, spec transform.Spec, method Method) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := signal.New(ref.Samples, ref.SampleRate); err != nil {
		return nil, fmt.Errorf("invalid reference: %w", err)
	}

	s.log.Debugf("Analyzing %s (%s) with %s", name, spec.Describe(), method)

	// Fresh generator per analysis keeps noisy transforms reproducible.
	rng := rand.New(rand.NewSource(s.config.Seed))
	transformed, err := transform.Apply(ref, spec, rng)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	// Raw fidelity of the transformed signal against the reference.
	// Length differences from time scaling are zero-padded/truncated, not
	// resampled: resampling would invert the time scaling and hide it.
	rawMetrics, err := align.Fidelity(ref, signal.FitLength(transformed, ref.Len()))
	if err != nil {
		return nil, fmt.Errorf("raw fidelity failed: %w", err)
	}

	run := models.AnalysisRun{
		ID:            uuid.NewString(),
		TransformName: name,
		TransformDesc: spec.Describe(),
		Method:        string(method),
		RawCorr:       rawMetrics.Correlation,
		RawMSE:        rawMetrics.MSE,
		SampleRate:    ref.SampleRate,
		SampleCount:   ref.Len(),
		CreatedAt:     time.Now(),
	}

	var alignment models.Alignment
	switch method {
	case MethodSkew:
		res, err := align.EstimateSkew(ref, transformed)
		if err != nil {
			return nil, fmt.Errorf("skew estimation failed: %w", err)
		}
		alignment = res
		run.ShiftMs = res.ShiftMs
	case MethodDTW:
		res, err := align.EstimateDTW(ref, transformed, s.config.DTWWindow)
		if err != nil {
			return nil, fmt.Errorf("dtw estimation failed: %w", err)
		}
		alignment = res
		run.DTWDistance = res.Distance
		run.PathLength = len(res.Path)
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recon, err := align.Reconstruct(transformed, alignment)
	if err != nil {
		return nil, fmt.Errorf("reconstruction failed: %w", err)
	}
	recon = signal.FitLength(recon, ref.Len())

	// A rigid-shift inverse zero-fills the vacated boundary; that region
	// says nothing about reconstruction quality, so it is excluded from
	// the score.
	evalRef, evalRecon := ref, recon
	if skew, ok := alignment.(models.SkewResult); ok {
		evalRef, evalRecon = align.TrimShiftBoundary(ref, recon, skew.ShiftSamples)
	}
	metrics, err := align.Fidelity(evalRef, evalRecon)
	if err != nil {
		return nil, fmt.Errorf("reconstruction fidelity failed: %w", err)
	}
	run.Corr = metrics.Correlation
	run.MSE = metrics.MSE

	if s.storage != nil {
		if err := s.storage.SaveRun(run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
	}

	s.log.Infof("%s/%s: raw corr=%.4f, reconstructed corr=%.4f, mse=%.6f",
		name, method, run.RawCorr, run.Corr, run.MSE)

	return &Analysis{
		Run:         run,
		Reference:   ref,
		Transformed: transformed,
		Alignment:   alignment,
		Reconstruction: models.ReconstructionResult{
			Signal:  recon,
			Metrics: metrics,
		},
	}, nil
}

// AnalyzeCatalog runs every catalog transformation through both
// estimators against the given reference.
func (s *alignService) AnalyzeCatalog(ctx context.Context, ref models.Signal) ([]Analysis, error) {
	entries := Catalog()
	out := make([]Analysis, 0, 2*len(entries))
	for _, entry := range entries {
		for _, method := range []Method{MethodSkew, MethodDTW} {
			a, err := s.Analyze(ctx, ref, entry.Name, entry.Spec, method)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %s (%s): %w", entry.Name, method, err)
			}
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *alignService) GetRun(id string) (*models.AnalysisRun, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.GetRun(id)
}

func (s *alignService) ListRuns() ([]models.AnalysisRun, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.ListRuns()
}

func (s *alignService) DeleteRun(id string) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	return s.storage.DeleteRun(id)
}

func (s *alignService) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
