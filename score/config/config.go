package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lingomirror/shadowscore/algorithms/common"
)

// ErrConfiguration marks malformed engine configuration. It is returned
// (wrapped) at construction time, before any scoring call runs.
var ErrConfiguration = errors.New("invalid configuration")

// TablePoints holds the control points of a piecewise-linear score table
// as plain data, so tables ship as configuration rather than code.
type TablePoints struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

// Build compiles the points into an interpolation table
func (tp TablePoints) Build() (*common.ScoreTable, error) {
	table, err := common.NewScoreTable(tp.X, tp.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return table, nil
}

// Weights distributes the final score across the three axes
type Weights struct {
	Pronunciation float64 `json:"pronunciation" yaml:"pronunciation"`
	Timing        float64 `json:"timing" yaml:"timing"`
	Pitch         float64 `json:"pitch" yaml:"pitch"`
}

// TimingAggregation selects how per-word timing scores combine into one
// timing score.
type TimingAggregation string

const (
	// AggregateMean averages per-word scores with equal weight
	AggregateMean TimingAggregation = "mean"

	// AggregateDurationWeighted weights each word by its reference duration
	AggregateDurationWeighted TimingAggregation = "duration_weighted"
)

// EngineConfig configures the scoring engine. Zero values are filled from
// DefaultEngineConfig before validation.
type EngineConfig struct {
	// SimilarityTable maps adjusted acoustic similarity to a 0-100
	// pronunciation score
	SimilarityTable TablePoints `json:"similarity_table" yaml:"similarity_table"`

	// TimingTable maps word start-time error (seconds) to a 0-100 score
	TimingTable TablePoints `json:"timing_table" yaml:"timing_table"`

	Weights Weights `json:"weights" yaml:"weights"`

	// DispersionThreshold is the frame-distance standard deviation above
	// which the omission penalty engages. Domain-calibrated, not derived.
	DispersionThreshold float64 `json:"dispersion_threshold" yaml:"dispersion_threshold"`

	// MinFrames is the minimum frame count for acoustic comparison
	MinFrames int `json:"min_frames" yaml:"min_frames"`

	// MinPitchPoints is the minimum count of voiced pitch values per contour
	MinPitchPoints int `json:"min_pitch_points" yaml:"min_pitch_points"`

	// EnergyQuantiles bounds the C0 clipping range, low then high
	EnergyQuantiles [2]float64 `json:"energy_quantiles" yaml:"energy_quantiles"`

	// PitchBandRatio sets the DTW band constraint as a fraction of the
	// longer contour; 0 disables the constraint
	PitchBandRatio float64 `json:"pitch_band_ratio" yaml:"pitch_band_ratio"`

	TimingAggregation TimingAggregation `json:"timing_aggregation" yaml:"timing_aggregation"`
}

// DefaultEngineConfig returns the calibrated defaults. The similarity
// control points come from labeled recordings: a correct reading lands
// near 0.45 raw similarity, normal speech near 0.10, a two-word omission
// near 0.08, and silence near 0.02, with the 0.08-0.10 span needing the
// finest score resolution.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		SimilarityTable: TablePoints{
			X: []float64{0.00, 0.02, 0.05, 0.08, 0.09, 0.10, 0.30, 0.40, 0.53, 1.00},
			Y: []float64{0, 0, 40, 50, 60, 70, 80, 90, 100, 100},
		},
		TimingTable: TablePoints{
			X: []float64{0.0, 0.1, 0.25, 0.5, 0.75, 1.0},
			Y: []float64{100, 90, 70, 40, 10, 0},
		},
		Weights: Weights{
			Pronunciation: 0.50,
			Timing:        0.25,
			Pitch:         0.25,
		},
		DispersionThreshold: 1.5,
		MinFrames:           5,
		MinPitchPoints:      3,
		EnergyQuantiles:     [2]float64{0.05, 0.95},
		PitchBandRatio:      0.25,
		TimingAggregation:   AggregateMean,
	}
}

// Validate checks the configuration and fails fast on malformed tables,
// weights, or thresholds.
func (c *EngineConfig) Validate() error {
	if _, err := c.SimilarityTable.Build(); err != nil {
		return fmt.Errorf("similarity table: %w", err)
	}
	if _, err := c.TimingTable.Build(); err != nil {
		return fmt.Errorf("timing table: %w", err)
	}

	if c.Weights.Pronunciation < 0 || c.Weights.Timing < 0 || c.Weights.Pitch < 0 {
		return fmt.Errorf("%w: negative axis weight", ErrConfiguration)
	}
	if c.Weights.Pronunciation+c.Weights.Timing+c.Weights.Pitch <= 0 {
		return fmt.Errorf("%w: axis weights sum to zero", ErrConfiguration)
	}

	if c.DispersionThreshold <= 0 {
		return fmt.Errorf("%w: dispersion threshold must be positive: %f", ErrConfiguration, c.DispersionThreshold)
	}
	if c.MinFrames < 1 {
		return fmt.Errorf("%w: min frames must be at least 1: %d", ErrConfiguration, c.MinFrames)
	}
	if c.MinPitchPoints < 2 {
		return fmt.Errorf("%w: min pitch points must be at least 2: %d", ErrConfiguration, c.MinPitchPoints)
	}

	low, high := c.EnergyQuantiles[0], c.EnergyQuantiles[1]
	if low < 0 || high > 1 || low >= high {
		return fmt.Errorf("%w: energy quantiles must satisfy 0 <= low < high <= 1: [%f, %f]", ErrConfiguration, low, high)
	}

	if c.PitchBandRatio < 0 || c.PitchBandRatio > 1 {
		return fmt.Errorf("%w: pitch band ratio outside [0,1]: %f", ErrConfiguration, c.PitchBandRatio)
	}

	switch c.TimingAggregation {
	case AggregateMean, AggregateDurationWeighted:
	default:
		return fmt.Errorf("%w: unknown timing aggregation %q", ErrConfiguration, c.TimingAggregation)
	}

	return nil
}

// Parse overlays YAML configuration data onto the defaults and validates
// the result.
func Parse(data []byte) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
