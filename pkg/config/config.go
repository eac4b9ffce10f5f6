// Package config provides the unified configuration surface for Prism.
// It defines a single Config structure threaded through the pipeline
// builder, so that every tunable the engine consults — cost ceiling,
// time-series scale, sketch sizes, sampling cap, percentile list — is an
// explicit value rather than a process-wide constant.
//
// Example usage:
//
//	cfg := config.New()
//	cfg.Cost.Computation = costs.ComputationUnbounded
//	cfg.Scale = config.ScaleMonth
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"

	"github.com/prismdata/prism/pkg/costs"
	"github.com/prismdata/prism/pkg/sketch"
)

// Recognized time-series scales.
const (
	ScaleRaw   = "raw"
	ScaleDay   = "day"
	ScaleWeek  = "week"
	ScaleMonth = "month"
)

// Config is the configuration consumed by the fingerprinting engine.
type Config struct {
	// Cost is the declarative ceiling on computation and query shape.
	Cost costs.Cost `yaml:"max_cost" json:"max_cost"`

	// Scale selects raw or gap-filled period handling for time series.
	Scale string `yaml:"scale" json:"scale"`

	// Sketch sizes the approximate data structures.
	Sketch SketchConfig `yaml:"sketch" json:"sketch"`

	// Query holds hints translated for the external data source.
	Query QueryConfig `yaml:"query" json:"query"`

	// Percentiles lists the quantiles reported by numeric fingerprints.
	Percentiles []float64 `yaml:"percentiles" json:"percentiles"`
}

// SketchConfig sizes the streaming sketches.
type SketchConfig struct {
	// HistogramBins bounds the adaptive histogram's centroid count.
	HistogramBins int `yaml:"histogram_bins" json:"histogram_bins"`
	// HLLPrecision sets the HyperLogLog register count to 2^precision.
	HLLPrecision uint8 `yaml:"hll_precision" json:"hll_precision"`
}

// QueryConfig holds query-shape hints for the data-source collaborator.
type QueryConfig struct {
	// SampleCap is the row limit suggested when sampling is requested.
	SampleCap int `yaml:"sample_cap" json:"sample_cap"`
}

// New returns a Config with the engine defaults: linear computation over a
// sample, raw scale, 32-bin histograms, 2^14 HLL registers, a 10k sample
// cap, and decile percentiles.
func New() *Config {
	return &Config{
		Cost: costs.Cost{
			Computation: costs.ComputationLinear,
			Query:       costs.QuerySample,
		},
		Scale: ScaleRaw,
		Sketch: SketchConfig{
			HistogramBins: sketch.DefaultHistogramBins,
			HLLPrecision:  sketch.DefaultHLLPrecision,
		},
		Query: QueryConfig{
			SampleCap: costs.DefaultSampleCap,
		},
		Percentiles: []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
	}
}

// Validate checks the configuration for correctness. Call it after loading
// configuration to catch errors early.
func (c *Config) Validate() error {
	switch c.Scale {
	case ScaleRaw, ScaleDay, ScaleWeek, ScaleMonth:
	default:
		return fmt.Errorf("unrecognized scale %q", c.Scale)
	}
	if c.Sketch.HistogramBins < 2 {
		return fmt.Errorf("histogram_bins must be at least 2")
	}
	if c.Sketch.HLLPrecision < 4 || c.Sketch.HLLPrecision > 18 {
		return fmt.Errorf("hll_precision must be in [4, 18]")
	}
	if c.Query.SampleCap <= 0 {
		return fmt.Errorf("sample_cap must be positive")
	}
	for _, p := range c.Percentiles {
		if p < 0 || p > 1 {
			return fmt.Errorf("percentile %v outside [0, 1]", p)
		}
	}
	return nil
}
