package align_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warpalign/warpalign/internal/align"
	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/internal/transform"
	"github.com/warpalign/warpalign/pkg/models"
)

// assertValidPath checks the warping-path invariants: endpoints at the
// corners, and every step advancing i, j, or both by exactly 1.
func assertValidPath(t *testing.T, path []models.PathPoint, lenA, lenB int) {
	t.Helper()
	assert.NotEmpty(t, path)
	assert.Equal(t, models.PathPoint{I: 0, J: 0}, path[0], "path must start at (0,0)")
	assert.Equal(t, models.PathPoint{I: lenA - 1, J: lenB - 1}, path[len(path)-1],
		"path must end at the final cell")
	for k := 1; k < len(path); k++ {
		di := path[k].I - path[k-1].I
		dj := path[k].J - path[k-1].J
		assert.True(t, di == 0 || di == 1, "i step must be 0 or 1 at %d", k)
		assert.True(t, dj == 0 || dj == 1, "j step must be 0 or 1 at %d", k)
		assert.True(t, di == 1 || dj == 1, "every step must advance at %d", k)
	}
}

func TestEstimateDTWIdenticalSignals(t *testing.T) {
	a := signal.SineMix([]float64{5, 10}, []float64{1, 0.5}, 0.5, 1000)

	res, err := align.EstimateDTW(a, a, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, res.Distance, "identical signals must have zero distance")
	assert.Len(t, res.Path, a.Len(), "identical signals must align on the diagonal")
	for k, p := range res.Path {
		assert.Equal(t, models.PathPoint{I: k, J: k}, p)
	}
}

func TestEstimateDTWPathInvariants(t *testing.T) {
	a := signal.SineMix([]float64{5, 10}, []float64{1, 0.5}, 1.0, 1000)
	b, err := transform.Apply(a, transform.Scale{Factor: 0.8, Axis: transform.AxisTime}, nil)
	assert.NoError(t, err)

	res, err := align.EstimateDTW(a, b, 0)
	assert.NoError(t, err)
	assertValidPath(t, res.Path, a.Len(), b.Len())
}

func TestEstimateDTWDistanceIsSymmetric(t *testing.T) {
	a := signal.SineMix([]float64{5}, []float64{1}, 0.3, 1000)
	b, err := transform.Apply(a, transform.Scale{Factor: 1.2, Axis: transform.AxisTime}, nil)
	assert.NoError(t, err)

	ab, err := align.EstimateDTW(a, b, 0)
	assert.NoError(t, err)
	ba, err := align.EstimateDTW(b, a, 0)
	assert.NoError(t, err)

	// Absolute difference is a symmetric local cost, so swapping inputs
	// cannot change the optimal distance.
	assert.InDelta(t, ab.Distance, ba.Distance, 1e-9)
}

func TestEstimateDTWAmplitudeOnlyStaysNearDiagonal(t *testing.T) {
	a := signal.SineMix([]float64{5, 10}, []float64{1, 0.5}, 0.5, 1000)
	b, err := transform.Apply(a, transform.Scale{Factor: 0.5, Axis: transform.AxisAmplitude}, nil)
	assert.NoError(t, err)

	res, err := align.EstimateDTW(a, b, 0)
	assert.NoError(t, err)
	assertValidPath(t, res.Path, a.Len(), b.Len())

	maxDev := 0
	for _, p := range res.Path {
		dev := p.I - p.J
		if dev < 0 {
			dev = -dev
		}
		if dev > maxDev {
			maxDev = dev
		}
	}
	assert.LessOrEqual(t, maxDev, a.Len()/10,
		"amplitude-only change must not produce large temporal warping")
}

func TestEstimateDTWWindowMatchesFullSearch(t *testing.T) {
	a := aperiodicSignal(300, 1000)
	b := transform.ShiftSamples(a, 5)

	full, err := align.EstimateDTW(a, b, 0)
	assert.NoError(t, err)
	banded, err := align.EstimateDTW(a, b, 25)
	assert.NoError(t, err)

	// The optimal path deviates at most 5 cells from the diagonal, so a
	// 25-wide band must find the same alignment.
	assert.InDelta(t, full.Distance, banded.Distance, 1e-9)
	assert.Len(t, banded.Path, len(full.Path))
}

func TestEstimateDTWNarrowWindowWidensToLengthGap(t *testing.T) {
	a := signal.SineMix([]float64{5}, []float64{1}, 1.0, 1000)
	b, err := transform.Apply(a, transform.Scale{Factor: 0.8, Axis: transform.AxisTime}, nil)
	assert.NoError(t, err)

	// Window 10 is narrower than the 200-sample length gap; the band must
	// widen so a corner-to-corner path still exists.
	res, err := align.EstimateDTW(a, b, 10)
	assert.NoError(t, err)
	assertValidPath(t, res.Path, a.Len(), b.Len())
}

func TestEstimateDTWTieBreakPrefersDiagonal(t *testing.T) {
	// All-equal signals make every predecessor tie exactly; the diagonal
	// preference must yield a strictly diagonal path.
	a := models.Signal{Samples: []float64{1, 1, 1, 1}, SampleRate: 100}

	res, err := align.EstimateDTW(a, a, 0)
	assert.NoError(t, err)
	assert.Len(t, res.Path, 4)
	for k, p := range res.Path {
		assert.Equal(t, models.PathPoint{I: k, J: k}, p)
	}
}

func TestEstimateDTWNormalizesByPathLength(t *testing.T) {
	a := models.Signal{Samples: []float64{0, 0, 0}, SampleRate: 100}
	b := models.Signal{Samples: []float64{1, 1, 1}, SampleRate: 100}

	res, err := align.EstimateDTW(a, b, 0)
	assert.NoError(t, err)
	// Every cell costs 1 and the diagonal path has 3 steps: total 3,
	// normalized 3/3.
	assert.InDelta(t, 1.0, res.Distance, 1e-12)
}

func TestEstimateDTWRejectsEmptyInput(t *testing.T) {
	a := models.Signal{Samples: []float64{1, 2}, SampleRate: 100}
	empty := models.Signal{Samples: nil, SampleRate: 100}

	_, err := align.EstimateDTW(a, empty, 0)
	assert.ErrorIs(t, err, align.ErrIncompatibleSignals)

	_, err = align.EstimateDTW(empty, a, 0)
	assert.ErrorIs(t, err, align.ErrIncompatibleSignals)
}

func TestEstimateDTWRejectsMismatchedRates(t *testing.T) {
	a := models.Signal{Samples: []float64{1, 2}, SampleRate: 100}
	b := models.Signal{Samples: []float64{1, 2}, SampleRate: 200}

	_, err := align.EstimateDTW(a, b, 0)
	assert.ErrorIs(t, err, align.ErrIncompatibleSignals)
}
