package score

import (
	"fmt"
	"sync"
	"time"

	"github.com/lingomirror/shadowscore/algorithms/common"
	"github.com/lingomirror/shadowscore/logging"
	"github.com/lingomirror/shadowscore/score/config"
)

// Engine is the comparison-and-scoring engine: it turns aligned acoustic
// features, token streams, and pitch contours for a user/reference pair
// into a 0-100 ScoreBreakdown.
//
// The engine is a pure synchronous computation over in-memory sequences.
// It holds no per-call state, so one Engine may serve concurrent scoring
// calls without coordination.
type Engine struct {
	cfg *config.EngineConfig

	similarityTable *common.ScoreTable
	timingTable     *common.ScoreTable

	analyzer   *FrameDistanceAnalyzer
	merger     *TokenMerger
	matcher    *WordTimingMatcher
	pitch      *PitchAligner
	aggregator *Aggregator

	logger logging.Logger
}

// NewEngine builds an engine from the configuration, or from defaults
// when cfg is nil. Malformed configuration fails here, before any
// scoring call.
func NewEngine(cfg *config.EngineConfig) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	similarityTable, err := cfg.SimilarityTable.Build()
	if err != nil {
		return nil, err
	}
	timingTable, err := cfg.TimingTable.Build()
	if err != nil {
		return nil, err
	}

	normalizer := common.NewFeatureNormalizer(cfg.EnergyQuantiles[0], cfg.EnergyQuantiles[1])

	return &Engine{
		cfg:             cfg,
		similarityTable: similarityTable,
		timingTable:     timingTable,
		analyzer:        NewFrameDistanceAnalyzer(normalizer, cfg.DispersionThreshold, cfg.MinFrames),
		merger:          NewTokenMerger(),
		matcher:         NewWordTimingMatcher(cfg.TimingAggregation),
		pitch:           NewPitchAligner(cfg.PitchBandRatio, cfg.MinPitchPoints),
		aggregator:      NewAggregator(cfg.Weights),
		logger: logging.WithFields(logging.Fields{
			"component": "scoring_engine",
		}),
	}, nil
}

// Score compares the user attempt against the reference and returns the
// breakdown. The three axes are mutually independent and run
// concurrently; an axis that fails with insufficient data contributes a
// zero score, and the call as a whole fails only when all three do.
func (e *Engine) Score(in Input) (*ScoreBreakdown, error) {
	startTime := time.Now()

	e.logger.Debug("scoring started", logging.Fields{
		"user_frames": len(in.UserFrames),
		"ref_frames":  len(in.ReferenceFrames),
		"user_tokens": len(in.UserTokens),
		"ref_tokens":  len(in.ReferenceTokens),
		"user_pitch":  len(in.UserPitch),
		"ref_pitch":   len(in.ReferencePitch),
	})

	var (
		wg sync.WaitGroup

		pronScore  float64
		frameStats *FrameDistanceResult
		pronErr    error

		timingScore float64
		matches     []MatchResult
		timingErr   error

		pitchScore float64
		pitchSim   float64
		pitchErr   error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		pronScore, frameStats, pronErr = e.analyzer.Score(in.UserFrames, in.ReferenceFrames, e.similarityTable)
	}()

	go func() {
		defer wg.Done()
		userWords := e.merger.Merge(in.UserTokens)
		refWords := e.merger.Merge(in.ReferenceTokens)
		matches = e.matcher.Match(userWords, refWords)
		timingScore, timingErr = e.matcher.TimingScore(matches, e.timingTable)
	}()

	go func() {
		defer wg.Done()
		pitchScore, pitchSim, pitchErr = e.pitch.AlignAndScore(in.UserPitch, in.ReferencePitch)
	}()

	wg.Wait()

	if pronErr != nil && timingErr != nil && pitchErr != nil {
		e.logger.Error(pronErr, "all scoring axes failed", logging.Fields{
			"timing_error": timingErr.Error(),
			"pitch_error":  pitchErr.Error(),
		})
		return nil, fmt.Errorf("%w: no axis could be scored", ErrInsufficientData)
	}

	breakdown := &ScoreBreakdown{
		Pronunciation:   pronScore,
		Timing:          timingScore,
		Pitch:           pitchScore,
		FrameDistance:   frameStats,
		WordMatches:     matches,
		PitchSimilarity: pitchSim,
	}

	for axis, err := range map[string]error{
		"pronunciation": pronErr,
		"timing":        timingErr,
		"pitch":         pitchErr,
	} {
		if err != nil {
			if breakdown.AxisErrors == nil {
				breakdown.AxisErrors = make(map[string]string)
			}
			breakdown.AxisErrors[axis] = err.Error()
			e.logger.Warn("axis failed, scoring it as zero", logging.Fields{
				"axis":  axis,
				"error": err.Error(),
			})
		}
	}

	breakdown.Final = e.aggregator.Aggregate(breakdown.Pronunciation, breakdown.Timing, breakdown.Pitch)
	breakdown.ProcessingTime = time.Since(startTime)

	e.logger.Info("scoring completed", logging.Fields{
		"pronunciation":   breakdown.Pronunciation,
		"timing":          breakdown.Timing,
		"pitch":           breakdown.Pitch,
		"final":           breakdown.Final,
		"processing_time": breakdown.ProcessingTime,
	})

	return breakdown, nil
}
