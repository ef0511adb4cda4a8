package align

import (
	"fmt"

	"github.com/warpalign/warpalign/internal/transform"
	"github.com/warpalign/warpalign/pkg/models"
)

// Reconstruct inverts an estimated alignment and applies it to the
// transformed signal b, producing a signal in the reference's time frame.
//
// For a SkewResult the detected shift is undone: b is shifted by
// -ShiftSamples with zero-filled boundaries. For a DTWResult each
// reference index i takes the mean of the b samples its path points pair
// it with, yielding a signal of the reference's length. Amplitude is never
// corrected in either branch; amplitude transformations persist as
// residual error.
func Reconstruct(b models.Signal, al models.Alignment) (models.Signal, error) {
	switch v := al.(type) {
	case models.SkewResult:
		return transform.ShiftSamples(b, -v.ShiftSamples), nil
	case models.DTWResult:
		if len(v.Path) == 0 {
			return models.Signal{}, fmt.Errorf("%w: empty warping path", ErrIncompatibleSignals)
		}
		refLen := v.Path[len(v.Path)-1].I + 1
		sums := make([]float64, refLen)
		counts := make([]int, refLen)
		for _, p := range v.Path {
			sums[p.I] += b.Samples[p.J]
			counts[p.I]++
		}
		out := make([]float64, refLen)
		for i := range out {
			out[i] = sums[i] / float64(counts[i])
		}
		return models.Signal{Samples: out, SampleRate: b.SampleRate}, nil
	default:
		return models.Signal{}, fmt.Errorf("%w: unknown alignment type %T", ErrIncompatibleSignals, al)
	}
}

// TrimShiftBoundary trims the boundary region that a rigid-shift
// reconstruction necessarily zero-fills: the trailing |shift| samples for a
// positive shift, the leading ones for a negative shift. The vacated region
// carries no information about reconstruction quality, so fidelity is
// scored over the remaining overlap. Inputs are returned unchanged when the
// shift is zero, covers the whole signal, or the lengths differ.
func TrimShiftBoundary(x, y models.Signal, shift int) (models.Signal, models.Signal) {
	k := shift
	if k < 0 {
		k = -k
	}
	if k == 0 || k >= x.Len() || x.Len() != y.Len() {
		return x, y
	}
	if shift > 0 {
		return models.Signal{Samples: x.Samples[:x.Len()-k], SampleRate: x.SampleRate},
			models.Signal{Samples: y.Samples[:y.Len()-k], SampleRate: y.SampleRate}
	}
	return models.Signal{Samples: x.Samples[k:], SampleRate: x.SampleRate},
		models.Signal{Samples: y.Samples[k:], SampleRate: y.SampleRate}
}
