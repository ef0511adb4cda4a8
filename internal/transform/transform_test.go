package transform

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/models"
)

func testSignal(t *testing.T) models.Signal {
	t.Helper()
	s, err := signal.New([]float64{1, 2, 3, 4, 5}, 1000)
	if err != nil {
		t.Fatalf("failed to build test signal: %v", err)
	}
	return s
}

func TestTranslatePositiveShiftsRight(t *testing.T) {
	s := testSignal(t)
	// 2 ms at 1000 Hz is 2 samples.
	out, err := Apply(s, Translate{OffsetMs: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0, 1, 2, 3}
	for i := range want {
		if out.Samples[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v (full: %v)", i, out.Samples[i], want[i], out.Samples)
		}
	}
}

func TestTranslateNegativeShiftsLeft(t *testing.T) {
	s := testSignal(t)
	out, err := Apply(s, Translate{OffsetMs: -3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{4, 5, 0, 0, 0}
	for i := range want {
		if out.Samples[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v", i, out.Samples[i], want[i])
		}
	}
}

func TestTranslateRoundsToNearestSample(t *testing.T) {
	s := testSignal(t)
	// 0.4 ms at 1000 Hz rounds to zero samples.
	out, err := Apply(s, Translate{OffsetMs: 0.4}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range s.Samples {
		if out.Samples[i] != s.Samples[i] {
			t.Fatalf("sub-half-sample offset must round away, sample %d changed", i)
		}
	}
}

func TestScaleAmplitude(t *testing.T) {
	s := testSignal(t)
	out, err := Apply(s, Scale{Factor: 2.5, Axis: AxisAmplitude}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != s.Len() {
		t.Fatalf("amplitude scaling must not change length: %d vs %d", out.Len(), s.Len())
	}
	for i, v := range s.Samples {
		if out.Samples[i] != v*2.5 {
			t.Fatalf("sample %d: got %v want %v", i, out.Samples[i], v*2.5)
		}
	}
}

func TestScaleTimeChangesLengthNotRate(t *testing.T) {
	s := signal.SineMix([]float64{5}, []float64{1}, 1.0, 1000)

	compressed, err := Apply(s, Scale{Factor: 0.8, Axis: AxisTime}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compressed.Len() != 800 {
		t.Errorf("compression 0.8x of 1000 samples: got %d want 800", compressed.Len())
	}
	if compressed.SampleRate != 1000 {
		t.Errorf("rate label must be preserved, got %v", compressed.SampleRate)
	}

	dilated, err := Apply(s, Scale{Factor: 1.2, Axis: AxisTime}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dilated.Len() != 1200 {
		t.Errorf("dilation 1.2x of 1000 samples: got %d want 1200", dilated.Len())
	}
}

func TestAddNoiseSeededIsDeterministic(t *testing.T) {
	s := signal.SineMix([]float64{5}, []float64{1}, 0.1, 1000)

	out1, err := Apply(s, AddNoise{StdDev: 0.1}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out2, err := Apply(s, AddNoise{StdDev: 0.1}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range out1.Samples {
		if out1.Samples[i] != out2.Samples[i] {
			t.Fatalf("same seed must reproduce noise, sample %d differs", i)
		}
	}

	changed := false
	for i := range out1.Samples {
		if out1.Samples[i] != s.Samples[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("noise with sigma > 0 left the signal untouched")
	}
}

func TestAddNoiseZeroSigmaIsIdentity(t *testing.T) {
	s := testSignal(t)
	out, err := Apply(s, AddNoise{StdDev: 0}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range s.Samples {
		if out.Samples[i] != s.Samples[i] {
			t.Fatalf("sigma=0 must be identity, sample %d changed", i)
		}
	}
}

func TestComposeAppliesInOrder(t *testing.T) {
	s := signal.SineMix([]float64{5}, []float64{1}, 1.0, 1000)

	ab, err := Apply(s, Compose{Specs: []Spec{
		Translate{OffsetMs: 100},
		Scale{Factor: 0.5, Axis: AxisTime},
	}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := Apply(s, Compose{Specs: []Spec{
		Scale{Factor: 0.5, Axis: AxisTime},
		Translate{OffsetMs: 100},
	}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ab.Len() != 500 || ba.Len() != 500 {
		t.Fatalf("unexpected lengths: %d and %d", ab.Len(), ba.Len())
	}
	same := true
	for i := range ab.Samples {
		if math.Abs(ab.Samples[i]-ba.Samples[i]) > 1e-9 {
			same = false
			break
		}
	}
	if same {
		t.Error("translate-then-compress must differ from compress-then-translate")
	}
}

func TestValidationErrors(t *testing.T) {
	s := testSignal(t)

	if _, err := Apply(s, Scale{Factor: 0, Axis: AxisTime}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for factor 0, got %v", err)
	}
	if _, err := Apply(s, Scale{Factor: -1, Axis: AxisAmplitude}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for negative factor, got %v", err)
	}
	if _, err := Apply(s, AddNoise{StdDev: -0.1}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for negative sigma, got %v", err)
	}
	// Compose surfaces the first invalid sub-spec.
	if _, err := Apply(s, Compose{Specs: []Spec{
		Translate{OffsetMs: 10},
		Scale{Factor: -2, Axis: AxisTime},
	}}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter from composed spec, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	c := Compose{Specs: []Spec{
		Translate{OffsetMs: 30},
		Scale{Factor: 0.9, Axis: AxisTime},
	}}
	want := "translate +30.0 ms, then scale time x0.90"
	if got := c.Describe(); got != want {
		t.Errorf("Describe: got %q want %q", got, want)
	}
}
