package score

import (
	"fmt"
	"math"

	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/algorithms/stats"
	"github.com/lingomirror/shadowscore/logging"
)

// PitchAligner scores intonation similarity between two pitch contours.
// Each contour is standardized against its own statistics so absolute
// register differences between speakers cancel out, then dynamic time
// warping absorbs speaking-rate differences before the residual distance
// becomes the similarity.
type PitchAligner struct {
	bandRatio float64
	minPoints int
	logger    logging.Logger
}

// NewPitchAligner creates a pitch aligner. bandRatio constrains the DTW
// band as a fraction of the longer contour; 0 disables the constraint.
func NewPitchAligner(bandRatio float64, minPoints int) *PitchAligner {
	return &PitchAligner{
		bandRatio: bandRatio,
		minPoints: minPoints,
		logger: logging.WithFields(logging.Fields{
			"component": "pitch_aligner",
		}),
	}
}

// AlignAndScore returns the 0-100 pitch score and the underlying
// similarity. Unvoiced entries (zero, negative, or non-finite) are
// dropped before standardization; a flat or silent contour standardizes
// to all zeros, which aligns without numerical failure.
func (pa *PitchAligner) AlignAndScore(userPitch, refPitch []float64) (float64, float64, error) {
	userVoiced := voicedValues(userPitch)
	refVoiced := voicedValues(refPitch)

	if len(userVoiced) < pa.minPoints || len(refVoiced) < pa.minPoints {
		return 0, 0, fmt.Errorf("%w: %d user and %d reference voiced pitch points, need at least %d",
			ErrInsufficientData, len(userVoiced), len(refVoiced), pa.minPoints)
	}

	userNorm := common.ZScoreNormalize(userVoiced)
	refNorm := common.ZScoreNormalize(refVoiced)

	aligner := stats.NewDTW()
	if pa.bandRatio > 0 {
		band := int(pa.bandRatio * float64(max(len(userNorm), len(refNorm))))
		// A band narrower than the length difference leaves no valid path
		lengthGap := len(userNorm) - len(refNorm)
		if lengthGap < 0 {
			lengthGap = -lengthGap
		}
		if band <= lengthGap {
			band = lengthGap + 1
		}
		aligner = stats.NewDTWWithBand(band, stats.EuclideanDistance)
	}

	result, err := aligner.AlignContours(userNorm, refNorm)
	if err != nil {
		return 0, 0, fmt.Errorf("pitch alignment failed: %w", err)
	}

	similarity := 1.0 / (1.0 + result.NormalizedDistance)
	pitchScore := common.Clamp(similarity*100.0, 0, 100)

	pa.logger.Debug("pitch contours aligned", logging.Fields{
		"user_points":   len(userNorm),
		"ref_points":    len(refNorm),
		"path_length":   len(result.Path),
		"norm_distance": result.NormalizedDistance,
		"similarity":    similarity,
		"pitch_score":   pitchScore,
	})

	return pitchScore, similarity, nil
}

// voicedValues filters a contour down to its usable pitch values
func voicedValues(contour []float64) []float64 {
	voiced := make([]float64, 0, len(contour))
	for _, hz := range contour {
		if hz > 0 && !math.IsNaN(hz) && !math.IsInf(hz, 0) {
			voiced = append(voiced, hz)
		}
	}
	return voiced
}
