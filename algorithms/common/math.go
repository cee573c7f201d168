package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared across the scoring algorithms,
// backed by gonum.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopulationStdDev calculates the population standard deviation.
// Utterance-level statistics describe the whole observed sequence, not a
// sample drawn from it, so the divisor is n rather than n-1.
func PopulationStdDev(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0.0
	}
	if n == 1 {
		return 0.0
	}
	sampleVar := stat.Variance(data, nil)
	return math.Sqrt(sampleVar * float64(n-1) / float64(n))
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Clamp limits a value to the [min, max] range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ZScoreNormalize normalizes data to zero mean and unit variance.
// A constant sequence maps to all zeros so downstream distance
// computations stay finite.
func ZScoreNormalize(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}

	mean := Mean(data)
	std := PopulationStdDev(data)

	normalized := make([]float64, len(data))
	if std < 1e-10 {
		return normalized
	}

	for i, val := range data {
		normalized[i] = (val - mean) / std
	}

	return normalized
}
