// Package hazconfig is the typed, YAML-driven configuration tree consumed
// by the hazard pipeline (spec §9's CalcConfig). Grounded on the teacher's
// pkg/config/config.go — a nested struct-of-structs with yaml tags, a
// DefaultConfig constructor, a Load that layers a file over the defaults,
// and a Validate pass — generalized from chaos-framework settings to
// hazard calculation settings.
package hazconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValueFormat selects how a curve's y-axis is expressed.
type ValueFormat string

const (
	ValueFormatAnnualRate          ValueFormat = "ANNUAL_RATE"
	ValueFormatPoissonProbability  ValueFormat = "POISSON_PROBABILITY"
)

// OutputDataType selects which datasets a run retains for export.
type OutputDataType string

const (
	OutputTotal  OutputDataType = "TOTAL"
	OutputGMM    OutputDataType = "GMM"
	OutputSource OutputDataType = "SOURCE"
	OutputBinary OutputDataType = "BINARY"
)

// Config is the full tree of hazard-calculation settings (spec §9's
// CalcConfig).
type Config struct {
	Hazard      HazardConfig      `yaml:"hazard"`
	Performance PerformanceConfig `yaml:"performance"`
	Deagg       DeaggConfig       `yaml:"deagg"`
	Output      OutputConfig      `yaml:"output"`
}

// HazardConfig controls the exceedance and curve-integration stage.
type HazardConfig struct {
	IMTs            []string    `yaml:"imts"`
	ExceedanceModel string      `yaml:"exceedance_model"`
	TruncationLevel float64     `yaml:"truncation_level"`
	GmmUncertainty  bool        `yaml:"gmm_uncertainty"`
	ValueFormat     ValueFormat `yaml:"value_format"`
}

// PerformanceConfig controls the concurrency model (spec §5).
type PerformanceConfig struct {
	ThreadCount     int  `yaml:"thread_count"`
	SystemPartition int  `yaml:"system_partition"`
	OptimizeGrids   bool `yaml:"optimize_grids"`
	SmoothGrids     bool `yaml:"smooth_grids"`
}

// DeaggConfig controls the deaggregator (spec §4.8, §4.9).
type DeaggConfig struct {
	Bins            BinConfig `yaml:"bins"`
	ContributorLimit float64  `yaml:"contributor_limit"`
	ReturnPeriod    float64   `yaml:"return_period"`
	IML             float64   `yaml:"iml"`
}

// BinConfig is the (min, max, Δ) discretization for one deaggregation axis
// triple (spec §9's deagg.bins).
type BinConfig struct {
	RMin   float64 `yaml:"r_min"`
	RMax   float64 `yaml:"r_max"`
	RDelta float64 `yaml:"r_delta"`

	MMin   float64 `yaml:"m_min"`
	MMax   float64 `yaml:"m_max"`
	MDelta float64 `yaml:"m_delta"`

	EpsMin   float64 `yaml:"eps_min"`
	EpsMax   float64 `yaml:"eps_max"`
	EpsDelta float64 `yaml:"eps_delta"`
}

// OutputConfig selects which datasets a run retains for export.
type OutputConfig struct {
	DataTypes []OutputDataType `yaml:"data_types"`
}

// Default returns the configuration a demo run uses absent an override
// file.
func Default() *Config {
	return &Config{
		Hazard: HazardConfig{
			IMTs:            []string{"PGA"},
			ExceedanceModel: "TRUNCATION_UPPER_ONLY",
			TruncationLevel: 3,
			GmmUncertainty:  false,
			ValueFormat:     ValueFormatAnnualRate,
		},
		Performance: PerformanceConfig{
			ThreadCount:     4,
			SystemPartition: 1000,
			OptimizeGrids:   true,
			SmoothGrids:     false,
		},
		Deagg: DeaggConfig{
			Bins: BinConfig{
				RMin: 0, RMax: 300, RDelta: 10,
				MMin: 5, MMax: 8, MDelta: 0.2,
				EpsMin: -3, EpsMax: 3, EpsDelta: 0.5,
			},
			ContributorLimit: 1.0,
			ReturnPeriod:     2475,
		},
		Output: OutputConfig{
			DataTypes: []OutputDataType{OutputTotal},
		},
	}
}

// Load layers a YAML file over Default. A missing path returns the
// defaults unmodified.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hazconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("hazconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration is internally consistent before a run
// starts.
func (c *Config) Validate() error {
	if len(c.Hazard.IMTs) == 0 {
		return fmt.Errorf("hazconfig: hazard.imts must not be empty")
	}
	if c.Hazard.TruncationLevel <= 0 {
		return fmt.Errorf("hazconfig: hazard.truncation_level must be positive")
	}
	if c.Performance.ThreadCount < 1 {
		return fmt.Errorf("hazconfig: performance.thread_count must be at least 1")
	}
	if c.Performance.SystemPartition < 1 {
		return fmt.Errorf("hazconfig: performance.system_partition must be at least 1")
	}
	b := c.Deagg.Bins
	if b.RDelta <= 0 || b.MDelta <= 0 || b.EpsDelta <= 0 {
		return fmt.Errorf("hazconfig: deagg.bins deltas must be positive")
	}
	if b.RMax <= b.RMin || b.MMax <= b.MMin || b.EpsMax <= b.EpsMin {
		return fmt.Errorf("hazconfig: deagg.bins max must exceed min on every axis")
	}
	if c.Deagg.ContributorLimit < 0 || c.Deagg.ContributorLimit > 100 {
		return fmt.Errorf("hazconfig: deagg.contributor_limit must be a percent in [0, 100]")
	}
	if c.Deagg.ReturnPeriod <= 0 && c.Deagg.IML <= 0 {
		return fmt.Errorf("hazconfig: deagg requires either a return_period or an iml target")
	}
	return nil
}
