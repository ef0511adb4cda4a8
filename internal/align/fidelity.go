package align

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/warpalign/warpalign/pkg/models"
)

// ErrLengthMismatch indicates the evaluator was given signals of unequal
// length. Callers are responsible for resampling to a common length first.
var ErrLengthMismatch = errors.New("align: signal length mismatch")

// Fidelity computes the Pearson correlation and mean squared error between
// two equal-length signals. When either signal has zero variance the
// correlation is defined as 0, not NaN, so the metric stays total.
func Fidelity(x, y models.Signal) (models.FidelityMetrics, error) {
	if x.Len() != y.Len() {
		return models.FidelityMetrics{}, fmt.Errorf("%w: %d vs %d samples",
			ErrLengthMismatch, x.Len(), y.Len())
	}
	if x.Len() == 0 {
		return models.FidelityMetrics{}, fmt.Errorf("%w: zero-length input", ErrIncompatibleSignals)
	}

	var mse float64
	for i := range x.Samples {
		d := x.Samples[i] - y.Samples[i]
		mse += d * d
	}
	mse /= float64(x.Len())

	corr := 0.0
	vx := stat.Variance(x.Samples, nil)
	vy := stat.Variance(y.Samples, nil)
	if vx > 0 && vy > 0 && !math.IsNaN(vx) && !math.IsNaN(vy) {
		corr = stat.Correlation(x.Samples, y.Samples, nil)
	}

	return models.FidelityMetrics{Correlation: corr, MSE: mse}, nil
}
