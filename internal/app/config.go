package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesPath string // manifests (.hcl, .yaml, .yml)

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	// Cycles is the number of Execute cycles run per module.
	Cycles int
	// Overrides are "module.parameter=value" assignments applied after
	// registration and before Setup.
	Overrides []string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Cycles < 0 {
		return nil, errors.New("Cycles must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("HealthcheckPort %d is out of range", cfg.HealthcheckPort)
	}
	for _, o := range cfg.Overrides {
		if _, err := ParseOverride(o); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
