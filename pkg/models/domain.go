package models

import "time"

// Signal is a uniformly sampled one-dimensional signal. Samples are
// real-valued and spaced 1/SampleRate seconds apart.
type Signal struct {
	Samples    []float64 `json:"samples"`
	SampleRate float64   `json:"sample_rate"` // Hz
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the signal duration in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / s.SampleRate
}

// Alignment is the result of one of the two alignment estimators.
// It is either a SkewResult or a DTWResult.
type Alignment interface {
	isAlignment()
}

// SkewResult is a single scalar time offset between two signals.
// Positive means the second signal lags the first.
type SkewResult struct {
	ShiftSamples int     `json:"shift_samples"`
	ShiftMs      float64 `json:"shift_ms"`
}

func (SkewResult) isAlignment() {}

// PathPoint pairs index I of the reference signal with index J of the
// transformed signal on a warping path.
type PathPoint struct {
	I int `json:"i"`
	J int `json:"j"`
}

// DTWResult is a non-linear alignment: the optimal warping path and the
// accumulated cost normalized by path length.
type DTWResult struct {
	Distance float64     `json:"distance"`
	Path     []PathPoint `json:"path"`
}

func (DTWResult) isAlignment() {}

// FidelityMetrics scores how close a reconstruction is to its target.
type FidelityMetrics struct {
	Correlation float64 `json:"correlation"` // Pearson, in [-1, 1]
	MSE         float64 `json:"mse"`
}

// ReconstructionResult bundles a reconstructed signal with its fidelity
// against the reference.
type ReconstructionResult struct {
	Signal  Signal          `json:"signal"`
	Metrics FidelityMetrics `json:"metrics"`
}

// AnalysisRun is the persisted outcome of one transform/estimate/
// reconstruct/evaluate pass over a reference signal.
type AnalysisRun struct {
	ID            string    `json:"id"`
	TransformName string    `json:"transform_name"`
	TransformDesc string    `json:"transform_desc"`
	Method        string    `json:"method"` // "skew" or "dtw"
	ShiftMs       float64   `json:"shift_ms"`
	DTWDistance   float64   `json:"dtw_distance"`
	PathLength    int       `json:"path_length"`
	RawCorr       float64   `json:"raw_corr"` // reference vs transformed
	RawMSE        float64   `json:"raw_mse"`
	Corr          float64   `json:"corr"` // reference vs reconstruction
	MSE           float64   `json:"mse"`
	SampleRate    float64   `json:"sample_rate"`
	SampleCount   int       `json:"sample_count"`
	CreatedAt     time.Time `json:"created_at"`
}
