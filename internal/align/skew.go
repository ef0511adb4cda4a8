package align

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/models"
)

// ErrIncompatibleSignals indicates mismatched sampling rates or a
// zero-length input to an estimator.
var ErrIncompatibleSignals = errors.New("align: incompatible signals")

// refineRadius bounds the local re-scoring around the raw correlation
// peak. The raw sum can sit a sample off the true shift on smooth signals,
// where a shorter lag's extra overlap term outweighs the per-sample
// autocorrelation decay.
const refineRadius = 2

// corrTieEps absorbs floating-point noise when two lags tie exactly, so
// the tie resolves to the smallest absolute lag.
const corrTieEps = 1e-9

// EstimateSkew estimates the constant time shift between a and b using
// normalized cross-correlation over all integer lags. The returned shift
// is positive when b lags a. A raw frequency-domain correlation locates
// the peak in O(N log N); the peak's neighborhood is then re-scored with
// the per-window Pearson coefficient, which normalizes away the overlap
// bias of the raw sum.
//
// Exact ties in correlation resolve to the lag closest to zero, with the
// negative lag winning at equal magnitude. Deterministic.
func EstimateSkew(a, b models.Signal) (models.SkewResult, error) {
	if a.Len() == 0 || b.Len() == 0 {
		return models.SkewResult{}, fmt.Errorf("%w: zero-length input", ErrIncompatibleSignals)
	}
	if a.SampleRate != b.SampleRate {
		return models.SkewResult{}, fmt.Errorf("%w: sample rates %v Hz vs %v Hz",
			ErrIncompatibleSignals, a.SampleRate, b.SampleRate)
	}

	na := signal.Normalize(a.Samples)
	nb := signal.Normalize(b.Samples)

	// Zero-pad to a power of two covering every linear lag so the
	// circular correlation below has no wraparound.
	size := nextPow2(len(na) + len(nb) - 1)
	pa := make([]float64, size)
	pb := make([]float64, size)
	copy(pa, na)
	copy(pb, nb)

	fa := fft.FFTReal(pa)
	fb := fft.FFTReal(pb)
	spec := make([]complex128, size)
	for k := range spec {
		// FFT(b) * conj(FFT(a)): inverse transform index m holds the
		// correlation at lag m, i.e. b delayed by m samples against a.
		spec[k] = fb[k] * cmplx.Conj(fa[k])
	}
	corr := fft.IFFT(spec)

	// Scan lags outward from zero so exact ties keep the smallest
	// absolute lag.
	bestLag := 0
	bestMag := math.Inf(-1)
	maxLag := len(nb) - 1
	minLag := -(len(na) - 1)
	for span := 0; span <= len(na)+len(nb)-2; span++ {
		for _, lag := range []int{-span, span} {
			if lag < minLag || lag > maxLag {
				continue
			}
			idx := lag
			if idx < 0 {
				idx += size
			}
			mag := math.Abs(real(corr[idx]))
			if mag > bestMag {
				bestMag = mag
				bestLag = lag
			}
			if span == 0 {
				break
			}
		}
	}

	bestLag = refinePeak(na, nb, bestLag)

	return models.SkewResult{
		ShiftSamples: bestLag,
		ShiftMs:      float64(bestLag) / a.SampleRate * 1000,
	}, nil
}

// refinePeak re-scores the lags around the raw correlation peak with the
// per-window Pearson coefficient. Unlike the raw sum, the coefficient is
// indifferent to overlap length, so a clean shift scores exactly 1 at the
// true lag and strictly less one sample off. Candidates are visited in
// increasing absolute-lag order with the tie epsilon, so the refined peak
// inherits the smallest-|lag| tie rule.
func refinePeak(na, nb []float64, coarse int) int {
	minLag := -(len(na) - 1)
	maxLag := len(nb) - 1

	cands := make([]int, 0, 2*refineRadius+1)
	for lag := coarse - refineRadius; lag <= coarse+refineRadius; lag++ {
		if lag >= minLag && lag <= maxLag {
			cands = append(cands, lag)
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		ai, aj := absInt(cands[i]), absInt(cands[j])
		if ai != aj {
			return ai < aj
		}
		return cands[i] < cands[j]
	})

	best := coarse
	bestMag := math.Inf(-1)
	for _, lag := range cands {
		mag := math.Abs(windowCorrelation(na, nb, lag))
		if mag > bestMag+corrTieEps {
			bestMag = mag
			best = lag
		}
	}
	return best
}

// windowCorrelation is the Pearson coefficient over the overlap of na and
// nb at the given lag, or 0 when the overlap is too short or degenerate.
func windowCorrelation(na, nb []float64, lag int) float64 {
	lo := maxInt(0, lag)
	hi := minInt(len(nb)-1, len(na)-1+lag)
	if hi-lo+1 < 2 {
		return 0
	}
	c := stat.Correlation(na[lo-lag:hi-lag+1], nb[lo:hi+1], nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
