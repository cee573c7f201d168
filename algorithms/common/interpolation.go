package common

import (
	"fmt"
	"sort"
)

// ScoreTable maps a continuous input (similarity, timing error) onto a
// continuous 0-100 score through piecewise-linear interpolation over a
// fixed set of control points. The defining property is continuity: no
// two nearby inputs may jump across a scoring threshold, which is what a
// branch ladder of cutoffs would do.
//
// X must be strictly increasing. Y must be monotone, either direction:
// non-decreasing tables map similarities up to scores, non-increasing
// tables map timing errors down to scores.
type ScoreTable struct {
	xs []float64
	ys []float64
}

// NewScoreTable validates the control points and builds a table.
// Malformed tables fail here, before any scoring call.
func NewScoreTable(xs, ys []float64) (*ScoreTable, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("control point count mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("score table needs at least 2 control points, got %d", len(xs))
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, fmt.Errorf("x values must be strictly increasing")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return nil, fmt.Errorf("duplicate x value %v at index %d", xs[i], i)
		}
	}

	nonDecreasing := true
	nonIncreasing := true
	for i := 1; i < len(ys); i++ {
		if ys[i] < ys[i-1] {
			nonDecreasing = false
		}
		if ys[i] > ys[i-1] {
			nonIncreasing = false
		}
	}
	if !nonDecreasing && !nonIncreasing {
		return nil, fmt.Errorf("y values must be monotone")
	}

	for i, y := range ys {
		if y < 0 || y > 100 {
			return nil, fmt.Errorf("y value %v at index %d outside [0,100]", y, i)
		}
	}

	table := &ScoreTable{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	return table, nil
}

// MustScoreTable builds a table from control points known at compile
// time, panicking on malformed input. Intended for package defaults.
func MustScoreTable(xs, ys []float64) *ScoreTable {
	table, err := NewScoreTable(xs, ys)
	if err != nil {
		panic(err)
	}
	return table
}

// Interpolate maps x to a score in [0,100]. Inputs below the first
// control point return the first y; inputs above the last return the
// last y.
func (st *ScoreTable) Interpolate(x float64) float64 {
	if x <= st.xs[0] {
		return st.ys[0]
	}
	last := len(st.xs) - 1
	if x >= st.xs[last] {
		return st.ys[last]
	}

	// Locate the bracketing segment
	i := sort.SearchFloat64s(st.xs, x)
	if st.xs[i] == x {
		return st.ys[i]
	}

	x0, x1 := st.xs[i-1], st.xs[i]
	y0, y1 := st.ys[i-1], st.ys[i]
	frac := (x - x0) / (x1 - x0)

	return y0 + frac*(y1-y0)
}
