package config

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultEngineConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"non monotone similarity table", func(c *EngineConfig) {
			c.SimilarityTable = TablePoints{X: []float64{0, 0.5, 1}, Y: []float64{0, 80, 40}}
		}},
		{"negative weight", func(c *EngineConfig) {
			c.Weights.Timing = -1
		}},
		{"zero weight sum", func(c *EngineConfig) {
			c.Weights = Weights{}
		}},
		{"zero dispersion threshold", func(c *EngineConfig) {
			c.DispersionThreshold = 0
		}},
		{"min frames below one", func(c *EngineConfig) {
			c.MinFrames = 0
		}},
		{"min pitch points below two", func(c *EngineConfig) {
			c.MinPitchPoints = 1
		}},
		{"inverted energy quantiles", func(c *EngineConfig) {
			c.EnergyQuantiles = [2]float64{0.95, 0.05}
		}},
		{"band ratio above one", func(c *EngineConfig) {
			c.PitchBandRatio = 1.5
		}},
		{"unknown timing aggregation", func(c *EngineConfig) {
			c.TimingAggregation = "median"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
weights:
  pronunciation: 0.6
  timing: 0.2
  pitch: 0.2
dispersion_threshold: 0.8
timing_aggregation: duration_weighted
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Weights.Pronunciation != 0.6 || cfg.Weights.Timing != 0.2 || cfg.Weights.Pitch != 0.2 {
		t.Errorf("weights not overlaid: %+v", cfg.Weights)
	}
	if cfg.DispersionThreshold != 0.8 {
		t.Errorf("dispersion threshold = %v, want 0.8", cfg.DispersionThreshold)
	}
	if cfg.TimingAggregation != AggregateDurationWeighted {
		t.Errorf("timing aggregation = %q, want duration_weighted", cfg.TimingAggregation)
	}

	// Untouched fields keep their defaults
	if cfg.MinFrames != 5 || cfg.MinPitchPoints != 3 {
		t.Errorf("defaults lost: min_frames %d, min_pitch_points %d", cfg.MinFrames, cfg.MinPitchPoints)
	}
	if len(cfg.SimilarityTable.X) != 10 {
		t.Errorf("similarity table lost: %+v", cfg.SimilarityTable)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("weights: [not, a, map]")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestParseRejectsInvalidTable(t *testing.T) {
	data := []byte(`
timing_table:
  x: [0.0, 0.5, 1.0]
  y: [100, 20, 60]
`)
	if _, err := Parse(data); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestTablePointsBuild(t *testing.T) {
	good := TablePoints{X: []float64{0, 1}, Y: []float64{0, 100}}
	if _, err := good.Build(); err != nil {
		t.Errorf("valid points failed to build: %v", err)
	}

	bad := TablePoints{X: []float64{0}, Y: []float64{0}}
	if _, err := bad.Build(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
