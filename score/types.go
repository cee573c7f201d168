package score

import (
	"time"
)

// Token is a sub-word fragment produced by an external transcription
// stage, with timestamps relative to the utterance start.
type Token struct {
	Text  string        `json:"text"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Word is a whole spoken word reconstructed from sub-word tokens.
// Immutable once produced.
type Word struct {
	Text  string        `json:"text"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Duration returns the word's time span
func (w Word) Duration() time.Duration {
	return w.End - w.Start
}

// MatchResult records the outcome of matching one user word against the
// reference words. Reference is nil when no candidate survived the
// lexical and overlap filters; TimingError is meaningful only when
// Reference is set.
type MatchResult struct {
	UserWord    Word          `json:"user_word"`
	Reference   *Word         `json:"reference,omitempty"`
	TimingError time.Duration `json:"timing_error,omitempty"`
}

// FrameDistanceResult carries the statistics of a frame-aligned acoustic
// comparison.
type FrameDistanceResult struct {
	MeanDistance       float64 `json:"mean_distance"`
	StdDevDistance     float64 `json:"std_dev_distance"`
	RawSimilarity      float64 `json:"raw_similarity"`
	AdjustedSimilarity float64 `json:"adjusted_similarity"`
	FramesCompared     int     `json:"frames_compared"`
	PenaltyApplied     bool    `json:"penalty_applied"`
}

// Input bundles everything one scoring call consumes. All sequences are
// read-only to the engine and owned by the caller.
type Input struct {
	// Acoustic feature frames, one fixed-dimension vector per time step
	UserFrames      [][]float64
	ReferenceFrames [][]float64

	// Sub-word token sequences with timestamps
	UserTokens      []Token
	ReferenceTokens []Token

	// Pitch contours, one scalar per analysis frame; zero or NaN entries
	// mark unvoiced frames
	UserPitch      []float64
	ReferencePitch []float64
}

// ScoreBreakdown is the terminal output of a scoring call. All axis
// scores and the final score are in [0,100].
type ScoreBreakdown struct {
	Pronunciation float64 `json:"pronunciation"`
	Timing        float64 `json:"timing"`
	Pitch         float64 `json:"pitch"`
	Final         float64 `json:"final"`

	// Per-axis detail
	FrameDistance   *FrameDistanceResult `json:"frame_distance,omitempty"`
	WordMatches     []MatchResult        `json:"word_matches,omitempty"`
	PitchSimilarity float64              `json:"pitch_similarity"`

	// AxisErrors maps a failed axis name to its error text; a failed
	// axis contributes a zero score
	AxisErrors map[string]string `json:"axis_errors,omitempty"`

	ProcessingTime time.Duration `json:"processing_time"`
}
