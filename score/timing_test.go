package score

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/score/config"
)

func timingTable(t *testing.T) *common.ScoreTable {
	t.Helper()
	table, err := common.NewScoreTable(
		[]float64{0.0, 0.1, 0.25, 0.5, 0.75, 1.0},
		[]float64{100, 90, 70, 40, 10, 0},
	)
	if err != nil {
		t.Fatalf("building timing table: %v", err)
	}
	return table
}

func TestMatchRequiresOverlap(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{{Text: "Hello", Start: secs(2.0), End: secs(2.5)}}
	refWords := []Word{{Text: "Hello", Start: secs(0.5), End: secs(1.0)}}

	results := matcher.Match(userWords, refWords)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Reference != nil {
		t.Errorf("lexical match without temporal overlap should stay unmatched, got %+v", results[0].Reference)
	}

	score, err := matcher.TimingScore(results, timingTable(t))
	if err != nil {
		t.Fatalf("TimingScore: %v", err)
	}
	if score != 0 {
		t.Errorf("unmatched word should contribute 0, got %v", score)
	}
}

func TestMatchIgnoresPunctuationAndCase(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{{Text: "Hello,", Start: secs(0.0), End: secs(0.5)}}
	refWords := []Word{{Text: "hello", Start: secs(0.1), End: secs(0.6)}}

	results := matcher.Match(userWords, refWords)
	if results[0].Reference == nil {
		t.Fatal("normalized text should match across case and punctuation")
	}
	if results[0].TimingError != secs(0.1) {
		t.Errorf("timing error = %v, want %v", results[0].TimingError, secs(0.1))
	}
}

func TestMatchPicksClosestStart(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{{Text: "Go", Start: secs(1.0), End: secs(1.5)}}
	refWords := []Word{
		{Text: "Go", Start: secs(0.8), End: secs(1.2)}, // error 0.2
		{Text: "Go", Start: secs(1.1), End: secs(1.6)}, // error 0.1
	}

	results := matcher.Match(userWords, refWords)
	if results[0].Reference == nil {
		t.Fatal("expected a match")
	}
	if results[0].Reference.Start != secs(1.1) {
		t.Errorf("matched reference starts at %v, want the closer candidate at %v",
			results[0].Reference.Start, secs(1.1))
	}
}

func TestMatchEqualProximityPicksEarliest(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{{Text: "Go", Start: secs(1.0), End: secs(1.5)}}
	refWords := []Word{
		{Text: "Go", Start: secs(0.9), End: secs(1.3)}, // error 0.1
		{Text: "Go", Start: secs(1.1), End: secs(1.5)}, // error 0.1
	}

	results := matcher.Match(userWords, refWords)
	if results[0].Reference == nil {
		t.Fatal("expected a match")
	}
	if results[0].Reference.Start != secs(0.9) {
		t.Errorf("equal proximity should resolve to the earliest candidate, got start %v",
			results[0].Reference.Start)
	}
}

func TestMatchDeterministic(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{
		{Text: "The", Start: secs(0.0), End: secs(0.2)},
		{Text: "tide", Start: secs(0.2), End: secs(0.6)},
		{Text: "turns", Start: secs(0.6), End: secs(1.0)},
	}
	refWords := []Word{
		{Text: "The", Start: secs(0.05), End: secs(0.25)},
		{Text: "tide", Start: secs(0.25), End: secs(0.65)},
		{Text: "turns", Start: secs(0.65), End: secs(1.05)},
	}

	first := matcher.Match(userWords, refWords)
	for i := 0; i < 10; i++ {
		if again := matcher.Match(userWords, refWords); !reflect.DeepEqual(first, again) {
			t.Fatal("repeated matching produced different results")
		}
	}
}

func TestTimingScoreMean(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	userWords := []Word{
		{Text: "On", Start: secs(0.25), End: secs(0.5)}, // error 0.25 -> 70
		{Text: "Time", Start: secs(3.0), End: secs(3.5)},
	}
	refWords := []Word{
		{Text: "On", Start: secs(0.0), End: secs(0.4)},
		{Text: "Time", Start: secs(0.5), End: secs(1.0)}, // no overlap with user
	}

	results := matcher.Match(userWords, refWords)
	score, err := matcher.TimingScore(results, timingTable(t))
	if err != nil {
		t.Fatalf("TimingScore: %v", err)
	}
	if math.Abs(score-35.0) > 1e-9 {
		t.Errorf("mean of [70, 0] = %v, want 35", score)
	}
}

func TestTimingScoreDurationWeighted(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateDurationWeighted)

	// Matched 1s word scores 100, unmatched 3s word scores 0
	userWords := []Word{
		{Text: "Short", Start: secs(0.0), End: secs(1.0)},
		{Text: "Longer", Start: secs(5.0), End: secs(8.0)},
	}
	refWords := []Word{
		{Text: "Short", Start: secs(0.0), End: secs(1.0)},
	}

	results := matcher.Match(userWords, refWords)
	score, err := matcher.TimingScore(results, timingTable(t))
	if err != nil {
		t.Fatalf("TimingScore: %v", err)
	}
	if math.Abs(score-25.0) > 1e-9 {
		t.Errorf("duration-weighted score = %v, want 25", score)
	}
}

func TestTimingScoreNoWords(t *testing.T) {
	matcher := NewWordTimingMatcher(config.AggregateMean)

	if _, err := matcher.TimingScore(nil, timingTable(t)); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
