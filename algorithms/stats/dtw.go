package stats

import (
	"fmt"
	"math"
)

// DTW computes a minimal-cost monotonic alignment between two sequences
// of possibly different length. Speaking-rate differences stretch and
// compress a learner's utterance relative to the reference, so contour
// comparison is only meaningful after warping.
type DTW struct {
	constraintBand int // Sakoe-Chiba band half-width, <= 0 means unconstrained
	distanceMetric DistanceMetric
}

// WarpResult contains the outcome of a DTW alignment
type WarpResult struct {
	Distance           float64     `json:"distance"`            // Total accumulated cost
	NormalizedDistance float64     `json:"normalized_distance"` // Cost divided by path length
	Path               []WarpPoint `json:"path"`                // Optimal alignment path
	QueryLength        int         `json:"query_length"`
	RefLength          int         `json:"ref_length"`
}

// WarpPoint is one step of the alignment path
type WarpPoint struct {
	QueryIndex int `json:"query_index"`
	RefIndex   int `json:"ref_index"`
}

// NewDTW creates an unconstrained DTW aligner with Euclidean local cost
func NewDTW() *DTW {
	return &DTW{
		constraintBand: -1,
		distanceMetric: EuclideanDistance,
	}
}

// NewDTWWithBand creates a DTW aligner with a Sakoe-Chiba band constraint
func NewDTWWithBand(band int, metric DistanceMetric) *DTW {
	return &DTW{
		constraintBand: band,
		distanceMetric: metric,
	}
}

// Align warps query against reference and returns the optimal path and
// its accumulated cost.
func (d *DTW) Align(query, reference [][]float64) (*WarpResult, error) {
	if len(query) == 0 || len(reference) == 0 {
		return nil, fmt.Errorf("empty sequences provided")
	}

	queryLen := len(query)
	refLen := len(reference)

	cost := make([][]float64, queryLen+1)
	for i := range cost {
		cost[i] = make([]float64, refLen+1)
		for j := range cost[i] {
			cost[i][j] = math.Inf(1)
		}
	}
	cost[0][0] = 0

	localDist := GetDistanceFunction(d.distanceMetric)

	for i := 1; i <= queryLen; i++ {
		for j := 1; j <= refLen; j++ {
			if d.constraintBand > 0 && math.Abs(float64(i-j)) > float64(d.constraintBand) {
				continue
			}

			prev := math.Min(math.Min(cost[i-1][j], cost[i][j-1]), cost[i-1][j-1])
			if math.IsInf(prev, 1) {
				continue
			}
			cost[i][j] = localDist(query[i-1], reference[j-1]) + prev
		}
	}

	total := cost[queryLen][refLen]
	if math.IsInf(total, 1) {
		return nil, fmt.Errorf("no alignment path within band constraint %d", d.constraintBand)
	}

	path := backtrack(cost, queryLen, refLen)

	return &WarpResult{
		Distance:           total,
		NormalizedDistance: total / float64(len(path)),
		Path:               path,
		QueryLength:        queryLen,
		RefLength:          refLen,
	}, nil
}

// AlignContours warps two scalar sequences (e.g. pitch contours)
func (d *DTW) AlignContours(query, reference []float64) (*WarpResult, error) {
	query2D := make([][]float64, len(query))
	ref2D := make([][]float64, len(reference))

	for i, v := range query {
		query2D[i] = []float64{v}
	}
	for i, v := range reference {
		ref2D[i] = []float64{v}
	}

	return d.Align(query2D, ref2D)
}

// backtrack walks the cost matrix from the end cell to (0,0), always
// taking the cheapest predecessor.
func backtrack(cost [][]float64, queryLen, refLen int) []WarpPoint {
	var reversed []WarpPoint
	i, j := queryLen, refLen

	for i > 0 || j > 0 {
		reversed = append(reversed, WarpPoint{QueryIndex: i - 1, RefIndex: j - 1})

		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diag := cost[i-1][j-1]
			up := cost[i-1][j]
			left := cost[i][j-1]
			if diag <= up && diag <= left {
				i--
				j--
			} else if up <= left {
				i--
			} else {
				j--
			}
		}
	}

	path := make([]WarpPoint, len(reversed))
	for k, p := range reversed {
		path[len(reversed)-1-k] = p
	}
	return path
}
