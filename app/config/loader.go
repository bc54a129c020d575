package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the detection policy
type Loader struct {
	path string
}

// NewLoader creates a new detection policy loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the policy file, applies defaults and validates the result.
// A missing file yields the default policy (flat 20x multiplier).
func (l *Loader) Load() (*Config, error) {
	var config Config

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read detection config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse detection config: %w", err)
		}
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid detection config %s: %w", l.path, err)
	}

	return &config, nil
}

// setDefaults applies default values to the policy
func (l *Loader) setDefaults(config *Config) {
	if config.Detection.Multipliers == nil {
		config.Detection.Multipliers = make(map[int]float64, len(CheckOffsets))
		for _, offset := range CheckOffsets {
			config.Detection.Multipliers[offset] = 20
		}
	}
	if config.Detection.BaselineWindow == 0 {
		config.Detection.BaselineWindow = 5 // videos
	}
	if config.Detection.RecencyWindowHours == 0 {
		config.Detection.RecencyWindowHours = 2
	}
	if config.Source.Timeout == 0 {
		config.Source.Timeout = 15 // seconds
	}
	if config.Source.MaxEntries == 0 {
		config.Source.MaxEntries = 5
	}
}

// validate checks that the policy covers exactly the configured offset set
func (l *Loader) validate(config *Config) error {
	for _, offset := range CheckOffsets {
		multiplier, ok := config.Detection.Multipliers[offset]
		if !ok {
			return fmt.Errorf("no multiplier configured for %dh offset", offset)
		}
		if multiplier <= 0 {
			return fmt.Errorf("multiplier for %dh offset must be positive, got %v", offset, multiplier)
		}
	}

	known := make(map[int]bool, len(CheckOffsets))
	for _, offset := range CheckOffsets {
		known[offset] = true
	}
	for offset := range config.Detection.Multipliers {
		if !known[offset] {
			return fmt.Errorf("multiplier configured for unknown %dh offset", offset)
		}
	}

	if config.Detection.BaselineWindow < 0 {
		return fmt.Errorf("baseline window must be non-negative")
	}
	if config.Detection.RecencyWindowHours < 0 {
		return fmt.Errorf("recency window must be non-negative")
	}
	if config.Source.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Source.MaxEntries < 0 {
		return fmt.Errorf("max entries must be non-negative")
	}

	return nil
}
