package common

import (
	"math"
	"testing"
)

func populationStats(data []float64) (mean, variance float64) {
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(data))
	return mean, variance
}

func column(frames [][]float64, d int) []float64 {
	col := make([]float64, len(frames))
	for i, frame := range frames {
		col[i] = frame[d]
	}
	return col
}

func TestNormalizeSpectralCMVN(t *testing.T) {
	fn := NewFeatureNormalizer(0.05, 0.95)

	frames := make([][]float64, 20)
	for i := range frames {
		frames[i] = []float64{
			float64(i),                      // energy
			10.0 + 3.0*math.Sin(float64(i)), // spectral, varying
			5.0,                             // spectral, constant
		}
	}

	out := fn.Normalize(frames)
	if len(out) != len(frames) || len(out[0]) != 3 {
		t.Fatalf("normalized shape %dx%d, want %dx3", len(out), len(out[0]), len(frames))
	}

	mean, variance := populationStats(column(out, 1))
	if math.Abs(mean) > 1e-9 {
		t.Errorf("spectral dimension mean = %v, want 0", mean)
	}
	if math.Abs(variance-1.0) > 1e-9 {
		t.Errorf("spectral dimension variance = %v, want 1", variance)
	}

	for i, v := range column(out, 2) {
		if v != 0 {
			t.Errorf("constant spectral dimension should normalize to 0, frame %d = %v", i, v)
		}
	}
}

func TestNormalizeEnergyBounds(t *testing.T) {
	fn := NewFeatureNormalizer(0.05, 0.95)

	frames := make([][]float64, 40)
	for i := range frames {
		frames[i] = []float64{float64(i) * 0.5, 1.0}
	}
	// One large spike that clipping should absorb
	frames[10][0] = 1e6

	out := fn.Normalize(frames)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, frame := range out {
		if frame[0] < 0 || frame[0] > 1 {
			t.Errorf("energy at frame %d = %v, outside [0,1]", i, frame[0])
		}
		lo = math.Min(lo, frame[0])
		hi = math.Max(hi, frame[0])
	}
	if lo != 0 || hi != 1 {
		t.Errorf("energy range [%v, %v], want the clipping bounds to map to [0, 1]", lo, hi)
	}
}

func TestNormalizeFlatEnergy(t *testing.T) {
	fn := NewFeatureNormalizer(0.05, 0.95)

	frames := make([][]float64, 10)
	for i := range frames {
		frames[i] = []float64{7.5, float64(i)}
	}

	out := fn.Normalize(frames)
	for i, frame := range out {
		if frame[0] != 0 {
			t.Errorf("flat energy should normalize to 0, frame %d = %v", i, frame[0])
		}
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	fn := NewFeatureNormalizer(0.05, 0.95)

	if out := fn.Normalize(nil); len(out) != 0 {
		t.Errorf("nil input should produce empty output, got %d frames", len(out))
	}
	if out := fn.Normalize([][]float64{}); len(out) != 0 {
		t.Errorf("empty input should produce empty output, got %d frames", len(out))
	}
}

func TestZScoreNormalizeDegenerate(t *testing.T) {
	out := ZScoreNormalize([]float64{3.3, 3.3, 3.3, 3.3})
	for i, v := range out {
		if v != 0 {
			t.Errorf("constant input should normalize to 0, index %d = %v", i, v)
		}
	}
}
