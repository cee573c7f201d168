package score

import (
	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/score/config"
)

// Aggregator combines the three axis scores into the final weighted
// result. Weights are configuration; they are normalized by their sum so
// callers may express them as fractions or as percentages.
type Aggregator struct {
	weights config.Weights
}

// NewAggregator creates an aggregator with the given axis weights
func NewAggregator(weights config.Weights) *Aggregator {
	return &Aggregator{weights: weights}
}

// Aggregate returns the final score in [0,100]
func (a *Aggregator) Aggregate(pronunciation, timing, pitch float64) float64 {
	total := a.weights.Pronunciation + a.weights.Timing + a.weights.Pitch

	final := (pronunciation*a.weights.Pronunciation +
		timing*a.weights.Timing +
		pitch*a.weights.Pitch) / total

	return common.Clamp(final, 0, 100)
}
