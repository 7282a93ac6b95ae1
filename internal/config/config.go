// Package config holds the heuristic thresholds the analysis engines
// run with. The constants are empirically tuned defaults, not physical
// limits, so every one of them can be overridden from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GradeBands are the upper bounds of each grade, in the unit of the
// metric they grade. A value below Good grades GOOD, below Fair FAIR,
// below Poor POOR, anything else CRITICAL.
type GradeBands struct {
	Good float64 `yaml:"good"`
	Fair float64 `yaml:"fair"`
	Poor float64 `yaml:"poor"`
}

type GradingConfig struct {
	PageLoadSec  GradeBands `yaml:"page_load_sec"`
	DOMReadySec  GradeBands `yaml:"dom_ready_sec"`
	RequestCount GradeBands `yaml:"request_count"`
}

type TimingConfig struct {
	FastUnderMs   float64 `yaml:"fast_under_ms"`
	MediumUnderMs float64 `yaml:"medium_under_ms"`
	VerySlowMs    float64 `yaml:"very_slow_ms"`
	SlowDNSMs     float64 `yaml:"slow_dns_ms"`
	SlowSSLMs     float64 `yaml:"slow_ssl_ms"`
	ReusedConnMs  float64 `yaml:"reused_conn_ms"`
}

type CriticalPathConfig struct {
	HighPriorityScore   float64 `yaml:"high_priority_score"`
	MediumPriorityScore float64 `yaml:"medium_priority_score"`
	LargeResourceBytes  int64   `yaml:"large_resource_bytes"`
	SlowResourceMs      float64 `yaml:"slow_resource_ms"`
}

type ProgressiveConfig struct {
	GoodScore int `yaml:"good_score"`
	FairScore int `yaml:"fair_score"`
}

type VitalsConfig struct {
	LCPGoodMs    float64 `yaml:"lcp_good_ms"`
	LCPPoorMs    float64 `yaml:"lcp_poor_ms"`
	FIDGoodMs    float64 `yaml:"fid_good_ms"`
	FIDPoorMs    float64 `yaml:"fid_poor_ms"`
	FIDBaseMs    float64 `yaml:"fid_base_ms"`
	FIDPerScript float64 `yaml:"fid_per_script_ms"`
	CLSGood      float64 `yaml:"cls_good"`
	CLSPoor      float64 `yaml:"cls_poor"`
}

type ThirdPartyConfig struct {
	HighImpactTimeMs float64 `yaml:"high_impact_time_ms"`
	HighImpactBytes  int64   `yaml:"high_impact_bytes"`
	BlockingMs       float64 `yaml:"blocking_ms"`
}

type SavingsConfig struct {
	CompressibleMinBytes int64   `yaml:"compressible_min_bytes"`
	CompressionRatio     float64 `yaml:"compression_ratio"`
	ShortCacheMaxAgeSec  int     `yaml:"short_cache_max_age_sec"`
	SampleSize           int     `yaml:"sample_size"`
}

type ComparisonConfig struct {
	SizeTolerancePct    float64 `yaml:"size_tolerance_pct"`
	SizeToleranceBytes  int64   `yaml:"size_tolerance_bytes"`
	TimeTolerancePct    float64 `yaml:"time_tolerance_pct"`
	TimeToleranceMs     float64 `yaml:"time_tolerance_ms"`
	DirectionEpsilon    float64 `yaml:"direction_epsilon"`
	LoadRegressionPct   float64 `yaml:"load_regression_pct"`
	RequestRegression   int     `yaml:"request_regression"`
	SizeRegressionBytes int64   `yaml:"size_regression_bytes"`
}

type RecommendConfig struct {
	VerySlowLimit   int   `yaml:"very_slow_limit"`
	RequestLimit    int   `yaml:"request_limit"`
	ScriptFileLimit int   `yaml:"script_file_limit"`
	SavingsMinBytes int64 `yaml:"savings_min_bytes"`
}

type Thresholds struct {
	Grading      GradingConfig      `yaml:"grading"`
	Timing       TimingConfig       `yaml:"timing"`
	CriticalPath CriticalPathConfig `yaml:"critical_path"`
	Progressive  ProgressiveConfig  `yaml:"progressive"`
	Vitals       VitalsConfig       `yaml:"vitals"`
	ThirdParty   ThirdPartyConfig   `yaml:"third_party"`
	Savings      SavingsConfig      `yaml:"savings"`
	Comparison   ComparisonConfig   `yaml:"comparison"`
	Recommend    RecommendConfig    `yaml:"recommendations"`
}

func Default() Thresholds {
	return Thresholds{
		Grading: GradingConfig{
			PageLoadSec:  GradeBands{Good: 3, Fair: 5, Poor: 10},
			DOMReadySec:  GradeBands{Good: 3, Fair: 5, Poor: 10},
			RequestCount: GradeBands{Good: 50, Fair: 100, Poor: 150},
		},
		Timing: TimingConfig{
			FastUnderMs:   200,
			MediumUnderMs: 500,
			VerySlowMs:    1000,
			SlowDNSMs:     100,
			SlowSSLMs:     500,
			ReusedConnMs:  10,
		},
		CriticalPath: CriticalPathConfig{
			HighPriorityScore:   50,
			MediumPriorityScore: 25,
			LargeResourceBytes:  50 * 1024,
			SlowResourceMs:      1000,
		},
		Progressive: ProgressiveConfig{GoodScore: 80, FairScore: 50},
		Vitals: VitalsConfig{
			LCPGoodMs:    2500,
			LCPPoorMs:    4000,
			FIDGoodMs:    100,
			FIDPoorMs:    300,
			FIDBaseMs:    16,
			FIDPerScript: 12,
			CLSGood:      0.1,
			CLSPoor:      0.25,
		},
		ThirdParty: ThirdPartyConfig{
			HighImpactTimeMs: 1000,
			HighImpactBytes:  500 * 1024,
			BlockingMs:       1000,
		},
		Savings: SavingsConfig{
			CompressibleMinBytes: 1024,
			CompressionRatio:     0.7,
			ShortCacheMaxAgeSec:  3600,
			SampleSize:           10,
		},
		Comparison: ComparisonConfig{
			SizeTolerancePct:    5,
			SizeToleranceBytes:  1024,
			TimeTolerancePct:    10,
			TimeToleranceMs:     10,
			DirectionEpsilon:    1e-6,
			LoadRegressionPct:   10,
			RequestRegression:   10,
			SizeRegressionBytes: 1024 * 1024,
		},
		Recommend: RecommendConfig{
			VerySlowLimit:   5,
			RequestLimit:    50,
			ScriptFileLimit: 15,
			SavingsMinBytes: 100 * 1024,
		},
	}
}

// Load reads a YAML thresholds file over the defaults. Fields the file
// does not set keep their default values.
func Load(path string) (Thresholds, error) {
	t := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse thresholds YAML: %w", err)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid thresholds configuration: %w", err)
	}

	return t, nil
}

func (t Thresholds) Validate() error {
	for _, b := range []struct {
		name  string
		bands GradeBands
	}{
		{"grading.page_load_sec", t.Grading.PageLoadSec},
		{"grading.dom_ready_sec", t.Grading.DOMReadySec},
		{"grading.request_count", t.Grading.RequestCount},
	} {
		if !(b.bands.Good < b.bands.Fair && b.bands.Fair < b.bands.Poor) {
			return fmt.Errorf("%s: bands must be strictly increasing (good < fair < poor)", b.name)
		}
		if b.bands.Good <= 0 {
			return fmt.Errorf("%s: good bound must be positive", b.name)
		}
	}

	if t.Timing.FastUnderMs >= t.Timing.MediumUnderMs {
		return fmt.Errorf("timing: fast_under_ms must be below medium_under_ms")
	}
	if t.Savings.CompressionRatio <= 0 || t.Savings.CompressionRatio >= 1 {
		return fmt.Errorf("savings: compression_ratio must be in (0, 1)")
	}
	if t.Comparison.LoadRegressionPct < 0 {
		return fmt.Errorf("comparison: load_regression_pct cannot be negative")
	}
	if t.Vitals.LCPGoodMs >= t.Vitals.LCPPoorMs {
		return fmt.Errorf("vitals: lcp_good_ms must be below lcp_poor_ms")
	}

	return nil
}
