// Package signal provides construction, validation and resampling helpers
// for uniformly sampled one-dimensional signals.
package signal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/warpalign/warpalign/pkg/models"
)

// ErrInvalidSignal indicates an empty signal, a non-positive sampling rate,
// or non-finite sample values.
var ErrInvalidSignal = errors.New("signal: invalid signal")

// New validates samples and rate and wraps them in a Signal. The sample
// slice is used as-is, not copied.
func New(samples []float64, rate float64) (models.Signal, error) {
	if len(samples) == 0 {
		return models.Signal{}, fmt.Errorf("%w: no samples", ErrInvalidSignal)
	}
	if rate <= 0 {
		return models.Signal{}, fmt.Errorf("%w: sample rate %v Hz", ErrInvalidSignal, rate)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.Signal{}, fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidSignal, i)
		}
	}
	return models.Signal{Samples: samples, SampleRate: rate}, nil
}

// SineMix synthesizes a sum of sinusoids: sum_k amps[k]*sin(2*pi*freqs[k]*t)
// sampled at rate Hz for durSec seconds.
func SineMix(freqs, amps []float64, durSec, rate float64) models.Signal {
	n := int(math.Round(durSec * rate))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / rate
		for k, f := range freqs {
			out[i] += amps[k] * math.Sin(2*math.Pi*f*t)
		}
	}
	return models.Signal{Samples: out, SampleRate: rate}
}

// Resample linearly interpolates s onto n uniformly spaced positions over
// the same time span. The sample-rate label is preserved, so a resampled
// signal models time compression or dilation rather than a rate change.
func Resample(s models.Signal, n int) models.Signal {
	if n < 1 {
		n = 1
	}
	src := s.Samples
	out := make([]float64, n)
	if len(src) == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return models.Signal{Samples: out, SampleRate: s.SampleRate}
	}
	if n == 1 {
		out[0] = src[0]
		return models.Signal{Samples: out, SampleRate: s.SampleRate}
	}
	step := float64(len(src)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		pos := float64(i) * step
		lo := int(pos)
		if lo >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(lo)
		out[i] = src[lo]*(1-frac) + src[lo+1]*frac
	}
	return models.Signal{Samples: out, SampleRate: s.SampleRate}
}

// FitLength returns s truncated or zero-padded at the end to exactly n
// samples. Unlike Resample it never rescales time, so comparing a
// time-scaled signal against the reference keeps the scaling visible as
// misalignment instead of silently undoing it.
func FitLength(s models.Signal, n int) models.Signal {
	if s.Len() == n {
		return s
	}
	out := make([]float64, n)
	copy(out, s.Samples)
	return models.Signal{Samples: out, SampleRate: s.SampleRate}
}

// Normalize returns a zero-mean, unit-variance copy of samples. A constant
// input is returned unchanged (copied) to avoid dividing by zero.
func Normalize(samples []float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)
	if len(samples) == 0 {
		return out
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i := range out {
		out[i] = (out[i] - mean) / std
	}
	return out
}
