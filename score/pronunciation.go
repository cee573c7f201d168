package score

import (
	"fmt"

	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/algorithms/stats"
	"github.com/lingomirror/shadowscore/logging"
)

// FrameDistanceAnalyzer compares frame-aligned acoustic feature
// sequences and converts the distance statistics into a similarity.
//
// The dispersion of the per-frame distances is the omission signal: a
// learner who drops words shifts every later frame out of alignment,
// which inflates the standard deviation even when truncating to the
// shorter sequence keeps the mean low. Averaging alone would reward
// exactly that failure mode.
type FrameDistanceAnalyzer struct {
	normalizer          *common.FeatureNormalizer
	dispersionThreshold float64
	minFrames           int
	logger              logging.Logger
}

// NewFrameDistanceAnalyzer creates an analyzer. The dispersion threshold
// is domain-calibrated configuration, not a derived constant.
func NewFrameDistanceAnalyzer(normalizer *common.FeatureNormalizer, dispersionThreshold float64, minFrames int) *FrameDistanceAnalyzer {
	return &FrameDistanceAnalyzer{
		normalizer:          normalizer,
		dispersionThreshold: dispersionThreshold,
		minFrames:           minFrames,
		logger: logging.WithFields(logging.Fields{
			"component": "frame_distance_analyzer",
		}),
	}
}

// Analyze normalizes both sequences, truncates to the shorter length,
// and computes per-frame Euclidean distance statistics plus the
// dispersion-adjusted similarity.
func (fa *FrameDistanceAnalyzer) Analyze(userFrames, refFrames [][]float64) (*FrameDistanceResult, error) {
	if len(userFrames) == 0 || len(refFrames) == 0 {
		return nil, fmt.Errorf("%w: empty feature sequence (user %d frames, reference %d frames)",
			ErrInsufficientData, len(userFrames), len(refFrames))
	}
	if len(userFrames[0]) != len(refFrames[0]) {
		return nil, fmt.Errorf("feature dimension mismatch: user %d, reference %d",
			len(userFrames[0]), len(refFrames[0]))
	}

	n := min(len(userFrames), len(refFrames))
	if n < fa.minFrames {
		return nil, fmt.Errorf("%w: %d comparable frames, need at least %d",
			ErrInsufficientData, n, fa.minFrames)
	}

	userNorm := fa.normalizer.Normalize(userFrames)
	refNorm := fa.normalizer.Normalize(refFrames)

	distances := make([]float64, n)
	for i := 0; i < n; i++ {
		distances[i] = stats.EuclideanDistanceFunc(userNorm[i], refNorm[i])
	}

	mean := common.Mean(distances)
	stdDev := common.PopulationStdDev(distances)

	rawSimilarity := 1.0 / (1.0 + mean)

	// Penalty multiplier decays continuously once dispersion crosses the
	// threshold, so near-threshold utterances don't see a score cliff.
	adjusted := rawSimilarity
	penalized := false
	if stdDev > fa.dispersionThreshold {
		adjusted = rawSimilarity * (fa.dispersionThreshold / stdDev)
		penalized = true
	}

	fa.logger.Debug("frame distance analysis", logging.Fields{
		"frames_compared": n,
		"mean_distance":   mean,
		"std_dev":         stdDev,
		"raw_similarity":  rawSimilarity,
		"adjusted":        adjusted,
		"penalty_applied": penalized,
	})

	return &FrameDistanceResult{
		MeanDistance:       mean,
		StdDevDistance:     stdDev,
		RawSimilarity:      rawSimilarity,
		AdjustedSimilarity: adjusted,
		FramesCompared:     n,
		PenaltyApplied:     penalized,
	}, nil
}

// Score maps the adjusted similarity through the configured score table
// and returns the 0-100 pronunciation score with the analysis detail.
func (fa *FrameDistanceAnalyzer) Score(userFrames, refFrames [][]float64, table *common.ScoreTable) (float64, *FrameDistanceResult, error) {
	result, err := fa.Analyze(userFrames, refFrames)
	if err != nil {
		return 0, nil, err
	}
	return table.Interpolate(result.AdjustedSimilarity), result, nil
}
