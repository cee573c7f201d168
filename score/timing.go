package score

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/logging"
	"github.com/lingomirror/shadowscore/score/config"
)

// nonWordPattern strips everything except word characters, whitespace
// and apostrophes, matching how the upstream transcript text is cleaned.
var nonWordPattern = regexp.MustCompile(`[^\w\s']`)

// normalizeWordText lowercases and punctuation-normalizes a word for
// lexical comparison. Unicode apostrophes fold to the ASCII one because
// transcription stages emit both.
func normalizeWordText(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "’", "'")
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// WordTimingMatcher matches merged user words to reference words with a
// three-stage filter and derives the timing score from the surviving
// start-time errors.
type WordTimingMatcher struct {
	aggregation config.TimingAggregation
	logger      logging.Logger
}

// NewWordTimingMatcher creates a matcher with the given per-word score
// aggregation rule.
func NewWordTimingMatcher(aggregation config.TimingAggregation) *WordTimingMatcher {
	return &WordTimingMatcher{
		aggregation: aggregation,
		logger: logging.WithFields(logging.Fields{
			"component": "word_timing_matcher",
		}),
	}
}

// Match produces one MatchResult per user word, preserving user-word
// order. Stage 1 keeps reference words with equal normalized text,
// stage 2 keeps those whose interval overlaps the user word, stage 3
// picks the candidate with the closest start time. Iteration is over the
// reference slice in order, so equal proximity resolves to the earliest
// candidate and the output is deterministic.
func (wm *WordTimingMatcher) Match(userWords, refWords []Word) []MatchResult {
	results := make([]MatchResult, 0, len(userWords))

	for _, user := range userWords {
		userText := normalizeWordText(user.Text)

		var best *Word
		var bestError time.Duration

		for i := range refWords {
			ref := refWords[i]

			if normalizeWordText(ref.Text) != userText {
				continue
			}
			if overlap(user, ref) <= 0 {
				continue
			}

			startError := absDuration(ref.Start - user.Start)
			if best == nil || startError < bestError {
				best = &refWords[i]
				bestError = startError
			}
		}

		result := MatchResult{UserWord: user}
		if best != nil {
			result.Reference = best
			result.TimingError = bestError
		}
		results = append(results, result)
	}

	return results
}

// TimingScore combines per-word results into one 0-100 timing score.
// Matched words map their start-time error through the duration-tuned
// score table; unmatched words score 0.
func (wm *WordTimingMatcher) TimingScore(results []MatchResult, table *common.ScoreTable) (float64, error) {
	if len(results) == 0 {
		return 0, fmt.Errorf("%w: no words to score", ErrInsufficientData)
	}

	var weightedSum, weightSum float64
	matched := 0

	for _, result := range results {
		wordScore := 0.0
		if result.Reference != nil {
			wordScore = table.Interpolate(result.TimingError.Seconds())
			matched++
		}

		weight := 1.0
		if wm.aggregation == config.AggregateDurationWeighted {
			weight = result.UserWord.Duration().Seconds()
			if weight <= 0 {
				weight = 1e-3
			}
		}

		weightedSum += wordScore * weight
		weightSum += weight
	}

	timingScore := weightedSum / weightSum

	wm.logger.Debug("timing score derived", logging.Fields{
		"words":       len(results),
		"matched":     matched,
		"aggregation": string(wm.aggregation),
		"score":       timingScore,
	})

	return timingScore, nil
}

// overlap returns the length of the intersection of two word intervals
func overlap(a, b Word) time.Duration {
	end := min(a.End, b.End)
	start := max(a.Start, b.Start)
	return end - start
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
