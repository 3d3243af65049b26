// Package config holds the tunable thresholds for diagnosis and
// simulation. Values load from YAML; unset fields fall back to the
// documented defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config groups all analyzer and simulator thresholds.
type Config struct {
	Diagnosis  Diagnosis  `yaml:"diagnosis"`
	Simulation Simulation `yaml:"simulation"`
	Inference  Inference  `yaml:"inference"`
}

// Diagnosis holds analyzer thresholds.
type Diagnosis struct {
	// AccumulationFactor flags a boundary place when its final token
	// count exceeds this multiple of its initial count.
	AccumulationFactor float64 `yaml:"accumulation_factor"`

	// DepletionWarnRatio flags a warning when final tokens fall below
	// this fraction of initial; DepletionCriticalRatio escalates to error.
	DepletionWarnRatio     float64 `yaml:"depletion_warn_ratio"`
	DepletionCriticalRatio float64 `yaml:"depletion_critical_ratio"`

	// FlowImbalanceTolerance is the relative divergence between a
	// producer's and a consumer's observed flux before a flow issue fires.
	FlowImbalanceTolerance float64 `yaml:"flow_imbalance_tolerance"`

	// BottleneckRatio flags a transition whose rate is below this
	// fraction of its dependents' mean rate.
	BottleneckRatio float64 `yaml:"bottleneck_ratio"`

	// InvariantTolerance is the allowed absolute drift of a P-invariant
	// weighted sum from its declared constant.
	InvariantTolerance float64 `yaml:"invariant_tolerance"`

	// StoichiometryTolerance is the allowed difference between an arc
	// weight and declared reaction stoichiometry. Default 0: any
	// difference is flagged.
	StoichiometryTolerance int `yaml:"stoichiometry_tolerance"`

	// MassBalanceTolerance is the allowed relative mismatch between
	// substrate and product formula masses.
	MassBalanceTolerance float64 `yaml:"mass_balance_tolerance"`

	// SlowFiringRatio flags a transition firing below this fraction of
	// its theoretical maximum rate.
	SlowFiringRatio float64 `yaml:"slow_firing_ratio"`

	// NetFlowImbalance is the absolute net token flow across the subnet
	// boundary above which an imbalance issue fires.
	NetFlowImbalance float64 `yaml:"net_flow_imbalance"`
}

// Simulation holds simulator limits.
type Simulation struct {
	MaxSteps         int     `yaml:"max_steps"`
	MaxTime          float64 `yaml:"max_time"`
	UnboundedCeiling int     `yaml:"unbounded_ceiling"`
	DefaultRate      float64 `yaml:"default_rate"`
}

// Inference holds confidence floors for knowledge-base inference.
type Inference struct {
	BasalConfidence         float64 `yaml:"basal_confidence"`
	InvariantConfidence     float64 `yaml:"invariant_confidence"`
	StoichiometryConfidence float64 `yaml:"stoichiometry_confidence"`
	KineticConfidenceMin    float64 `yaml:"kinetic_confidence_min"`
	KineticConfidenceMax    float64 `yaml:"kinetic_confidence_max"`
	FallbackConfidence      float64 `yaml:"fallback_confidence"`
}

// Default returns the configuration with all documented defaults set.
func Default() *Config {
	return &Config{
		Diagnosis: Diagnosis{
			AccumulationFactor:     2.0,
			DepletionWarnRatio:     0.5,
			DepletionCriticalRatio: 0.1,
			FlowImbalanceTolerance: 0.25,
			BottleneckRatio:        0.5,
			InvariantTolerance:     1e-9,
			StoichiometryTolerance: 0,
			MassBalanceTolerance:   0.01,
			SlowFiringRatio:        0.1,
			NetFlowImbalance:       10.0,
		},
		Simulation: Simulation{
			MaxSteps:         10000,
			MaxTime:          100.0,
			UnboundedCeiling: 100000,
			DefaultRate:      1.0,
		},
		Inference: Inference{
			BasalConfidence:         0.7,
			InvariantConfidence:     0.6,
			StoichiometryConfidence: 0.85,
			KineticConfidenceMin:    0.7,
			KineticConfidenceMax:    0.9,
			FallbackConfidence:      0.2,
		},
	}
}

// Load reads a YAML configuration file. Zero-valued fields fall back to
// defaults, so a partial file only overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a Config with defaults applied.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Diagnosis.AccumulationFactor == 0 {
		cfg.Diagnosis.AccumulationFactor = def.Diagnosis.AccumulationFactor
	}
	if cfg.Diagnosis.DepletionWarnRatio == 0 {
		cfg.Diagnosis.DepletionWarnRatio = def.Diagnosis.DepletionWarnRatio
	}
	if cfg.Diagnosis.DepletionCriticalRatio == 0 {
		cfg.Diagnosis.DepletionCriticalRatio = def.Diagnosis.DepletionCriticalRatio
	}
	if cfg.Diagnosis.FlowImbalanceTolerance == 0 {
		cfg.Diagnosis.FlowImbalanceTolerance = def.Diagnosis.FlowImbalanceTolerance
	}
	if cfg.Diagnosis.BottleneckRatio == 0 {
		cfg.Diagnosis.BottleneckRatio = def.Diagnosis.BottleneckRatio
	}
	if cfg.Diagnosis.InvariantTolerance == 0 {
		cfg.Diagnosis.InvariantTolerance = def.Diagnosis.InvariantTolerance
	}
	if cfg.Diagnosis.MassBalanceTolerance == 0 {
		cfg.Diagnosis.MassBalanceTolerance = def.Diagnosis.MassBalanceTolerance
	}
	if cfg.Diagnosis.SlowFiringRatio == 0 {
		cfg.Diagnosis.SlowFiringRatio = def.Diagnosis.SlowFiringRatio
	}
	if cfg.Diagnosis.NetFlowImbalance == 0 {
		cfg.Diagnosis.NetFlowImbalance = def.Diagnosis.NetFlowImbalance
	}
	if cfg.Simulation.MaxSteps == 0 {
		cfg.Simulation.MaxSteps = def.Simulation.MaxSteps
	}
	if cfg.Simulation.MaxTime == 0 {
		cfg.Simulation.MaxTime = def.Simulation.MaxTime
	}
	if cfg.Simulation.UnboundedCeiling == 0 {
		cfg.Simulation.UnboundedCeiling = def.Simulation.UnboundedCeiling
	}
	if cfg.Simulation.DefaultRate == 0 {
		cfg.Simulation.DefaultRate = def.Simulation.DefaultRate
	}
	if cfg.Inference.BasalConfidence == 0 {
		cfg.Inference.BasalConfidence = def.Inference.BasalConfidence
	}
	if cfg.Inference.InvariantConfidence == 0 {
		cfg.Inference.InvariantConfidence = def.Inference.InvariantConfidence
	}
	if cfg.Inference.StoichiometryConfidence == 0 {
		cfg.Inference.StoichiometryConfidence = def.Inference.StoichiometryConfidence
	}
	if cfg.Inference.KineticConfidenceMin == 0 {
		cfg.Inference.KineticConfidenceMin = def.Inference.KineticConfidenceMin
	}
	if cfg.Inference.KineticConfidenceMax == 0 {
		cfg.Inference.KineticConfidenceMax = def.Inference.KineticConfidenceMax
	}
	if cfg.Inference.FallbackConfidence == 0 {
		cfg.Inference.FallbackConfidence = def.Inference.FallbackConfidence
	}
}
