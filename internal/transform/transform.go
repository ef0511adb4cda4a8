// Package transform applies named parametric temporal transformations to
// signals. Specs are value objects that generate transformed test signals
// and label ground truth; the estimators never see them.
package transform

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/models"
)

// ErrInvalidParameter indicates a malformed transformation parameter
// (non-positive scale factor, negative noise deviation).
var ErrInvalidParameter = errors.New("transform: invalid parameter")

// Axis selects which axis a Scale transformation acts on.
type Axis int

const (
	AxisTime Axis = iota
	AxisAmplitude
)

func (a Axis) String() string {
	switch a {
	case AxisTime:
		return "time"
	case AxisAmplitude:
		return "amplitude"
	default:
		return "unknown"
	}
}

// Spec is one transformation variant: Translate, Scale, AddNoise or
// Compose. Specs are immutable once constructed.
type Spec interface {
	// Describe returns a short human-readable parameter summary.
	Describe() string

	// Validate reports ErrInvalidParameter for out-of-range parameters.
	Validate() error

	apply(s models.Signal, rng *rand.Rand) models.Signal
}

// Apply validates spec and applies it to s, returning the transformed
// signal. Noise draws come from rng; transformations that use no
// randomness ignore it.
func Apply(s models.Signal, spec Spec, rng *rand.Rand) (models.Signal, error) {
	if err := spec.Validate(); err != nil {
		return models.Signal{}, err
	}
	return spec.apply(s, rng), nil
}

// Translate shifts a signal in time by OffsetMs milliseconds. Positive
// offsets delay the signal. Vacated positions are zero-filled; samples
// shifted past either end are discarded, never wrapped.
type Translate struct {
	OffsetMs float64
}

func (t Translate) Describe() string { return fmt.Sprintf("translate %+.1f ms", t.OffsetMs) }

func (t Translate) Validate() error { return nil }

func (t Translate) apply(s models.Signal, _ *rand.Rand) models.Signal {
	k := int(math.Round(t.OffsetMs / 1000 * s.SampleRate))
	return ShiftSamples(s, k)
}

// ShiftSamples shifts s by k sample positions (positive delays the signal),
// zero-filling vacated positions. Shared by Translate and the inverse-shift
// reconstruction.
func ShiftSamples(s models.Signal, k int) models.Signal {
	out := make([]float64, len(s.Samples))
	for i := range out {
		src := i - k
		if src >= 0 && src < len(s.Samples) {
			out[i] = s.Samples[src]
		}
	}
	return models.Signal{Samples: out, SampleRate: s.SampleRate}
}

// Scale either resamples the time axis by Factor (compression when
// Factor < 1, dilation when Factor > 1) or multiplies every sample by
// Factor on the amplitude axis.
type Scale struct {
	Factor float64
	Axis   Axis
}

func (sc Scale) Describe() string { return fmt.Sprintf("scale %s x%.2f", sc.Axis, sc.Factor) }

func (sc Scale) Validate() error {
	if sc.Factor <= 0 {
		return fmt.Errorf("%w: scale factor %v must be > 0", ErrInvalidParameter, sc.Factor)
	}
	return nil
}

func (sc Scale) apply(s models.Signal, _ *rand.Rand) models.Signal {
	if sc.Axis == AxisAmplitude {
		out := make([]float64, len(s.Samples))
		for i, v := range s.Samples {
			out[i] = v * sc.Factor
		}
		return models.Signal{Samples: out, SampleRate: s.SampleRate}
	}
	n := int(math.Round(float64(len(s.Samples)) * sc.Factor))
	if n < 1 {
		n = 1
	}
	// Sample-rate label is preserved: downstream dt stays 1/fs and the
	// signal simply occupies a shorter or longer span.
	return signal.Resample(s, n)
}

// AddNoise adds independent zero-mean Gaussian noise with the given
// standard deviation to every sample.
type AddNoise struct {
	StdDev float64
}

func (n AddNoise) Describe() string { return fmt.Sprintf("gaussian noise sigma=%.3f", n.StdDev) }

func (n AddNoise) Validate() error {
	if n.StdDev < 0 {
		return fmt.Errorf("%w: noise std dev %v must be >= 0", ErrInvalidParameter, n.StdDev)
	}
	return nil
}

func (n AddNoise) apply(s models.Signal, rng *rand.Rand) models.Signal {
	out := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = v + rng.NormFloat64()*n.StdDev
	}
	return models.Signal{Samples: out, SampleRate: s.SampleRate}
}

// Compose applies its sub-transformations in order. Order is preserved
// exactly as given.
type Compose struct {
	Specs []Spec
}

func (c Compose) Describe() string {
	parts := make([]string, len(c.Specs))
	for i, sp := range c.Specs {
		parts[i] = sp.Describe()
	}
	return strings.Join(parts, ", then ")
}

func (c Compose) Validate() error {
	for _, sp := range c.Specs {
		if err := sp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Compose) apply(s models.Signal, rng *rand.Rand) models.Signal {
	out := s
	for _, sp := range c.Specs {
		out = sp.apply(out, rng)
	}
	return out
}
