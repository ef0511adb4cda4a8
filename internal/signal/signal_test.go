package signal

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := New(nil, 1000); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal for empty samples, got %v", err)
	}
	if _, err := New([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal for zero rate, got %v", err)
	}
	if _, err := New([]float64{1, math.NaN()}, 1000); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal for NaN sample, got %v", err)
	}
	if _, err := New([]float64{1, math.Inf(1)}, 1000); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("expected ErrInvalidSignal for Inf sample, got %v", err)
	}
}

func TestNewAcceptsValidInput(t *testing.T) {
	s, err := New([]float64{0.1, -0.2, 0.3}, 44100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 samples, got %d", s.Len())
	}
	if s.SampleRate != 44100 {
		t.Errorf("expected rate 44100, got %v", s.SampleRate)
	}
}

func TestSineMixShape(t *testing.T) {
	s := SineMix([]float64{5, 10}, []float64{1, 0.5}, 1.0, 1000)
	if s.Len() != 1000 {
		t.Fatalf("expected 1000 samples, got %d", s.Len())
	}
	if s.Samples[0] != 0 {
		t.Errorf("sine mix must start at 0, got %v", s.Samples[0])
	}

	// Spot-check one sample against the closed form.
	i := 137
	tt := float64(i) / 1000
	want := math.Sin(2*math.Pi*5*tt) + 0.5*math.Sin(2*math.Pi*10*tt)
	if math.Abs(s.Samples[i]-want) > 1e-12 {
		t.Errorf("sample %d: got %v want %v", i, s.Samples[i], want)
	}
}

func TestResamplePreservesEndpointsAndRate(t *testing.T) {
	s, _ := New([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 100)
	r := Resample(s, 19)
	if r.Len() != 19 {
		t.Fatalf("expected 19 samples, got %d", r.Len())
	}
	if r.SampleRate != 100 {
		t.Errorf("resampling must preserve the rate label, got %v", r.SampleRate)
	}
	if r.Samples[0] != 0 || r.Samples[18] != 9 {
		t.Errorf("endpoints not preserved: first=%v last=%v", r.Samples[0], r.Samples[18])
	}
	// A linear ramp resampled linearly stays a ramp.
	for i := 1; i < r.Len(); i++ {
		want := float64(i) * 0.5
		if math.Abs(r.Samples[i]-want) > 1e-12 {
			t.Errorf("sample %d: got %v want %v", i, r.Samples[i], want)
		}
	}
}

func TestResampleIdentity(t *testing.T) {
	s, _ := New([]float64{3, 1, 4, 1, 5}, 10)
	r := Resample(s, 5)
	for i := range s.Samples {
		if math.Abs(r.Samples[i]-s.Samples[i]) > 1e-12 {
			t.Fatalf("identity resample changed sample %d: %v vs %v", i, r.Samples[i], s.Samples[i])
		}
	}
}

func TestFitLength(t *testing.T) {
	s, _ := New([]float64{1, 2, 3, 4}, 10)

	padded := FitLength(s, 6)
	if padded.Len() != 6 || padded.Samples[4] != 0 || padded.Samples[5] != 0 {
		t.Errorf("expected zero padding to 6 samples, got %v", padded.Samples)
	}
	truncated := FitLength(s, 2)
	if truncated.Len() != 2 || truncated.Samples[1] != 2 {
		t.Errorf("expected truncation to 2 samples, got %v", truncated.Samples)
	}
	same := FitLength(s, 4)
	if &same.Samples[0] != &s.Samples[0] {
		t.Error("expected same-length fit to return the signal unchanged")
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize([]float64{1, 2, 3, 4, 5})

	var mean float64
	for _, v := range out {
		mean += v
	}
	mean /= float64(len(out))
	if math.Abs(mean) > 1e-12 {
		t.Errorf("expected zero mean, got %v", mean)
	}

	var variance float64
	for _, v := range out {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(out) - 1)
	if math.Abs(variance-1) > 1e-12 {
		t.Errorf("expected unit variance, got %v", variance)
	}
}

func TestNormalizeConstantInput(t *testing.T) {
	out := Normalize([]float64{7, 7, 7})
	for i, v := range out {
		if v != 7 {
			t.Fatalf("constant input must pass through, sample %d = %v", i, v)
		}
	}
}
