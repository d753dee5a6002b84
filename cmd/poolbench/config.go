package main

import (
	"github.com/fluxorio/taskpool/pkg/config"
)

// TracingConfig configures span export for a bench run
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Exporter    string  `yaml:"exporter" json:"exporter"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio" json:"sample_ratio"`
}

// BenchConfig is the full configuration of a bench run. Values come from an
// optional config file, POOLBENCH_* environment overrides, then flags.
type BenchConfig struct {
	Workers      int           `yaml:"workers" json:"workers"`
	Tasks        int           `yaml:"tasks" json:"tasks"`
	PayloadBytes int           `yaml:"payload_bytes" json:"payload_bytes"`
	MetricsAddr  string        `yaml:"metrics_addr" json:"metrics_addr"`
	Verbose      bool          `yaml:"verbose" json:"verbose"`
	Tracing      TracingConfig `yaml:"tracing" json:"tracing"`
}

// DefaultBenchConfig returns the configuration used when no file or flags
// are given.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Workers:      4,
		Tasks:        1000,
		PayloadBytes: 4096,
		Tracing: TracingConfig{
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

// LoadBenchConfig loads cfg from path (if non-empty) and applies
// POOLBENCH_* environment overrides on top of the defaults.
func LoadBenchConfig(path string) (BenchConfig, error) {
	cfg := DefaultBenchConfig()

	if path != "" {
		if err := config.Load(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnvOverrides("POOLBENCH", &cfg); err != nil {
		return cfg, err
	}

	if err := config.Validate(&cfg,
		config.RangeValidator("Workers", 1, 4096),
		config.RangeValidator("Tasks", 1, 100_000_000),
		config.RangeValidator("PayloadBytes", 1, 1<<30),
		config.OneOfValidator("Tracing.Exporter", "stdout", "jaeger", "zipkin"),
	); err != nil {
		return cfg, err
	}

	return cfg, nil
}
