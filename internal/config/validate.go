package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %q", c.Port)
	}

	switch c.Logging.LogLevel {
	case "error", "warn", "info", "debug", "verbose":
	default:
		return fmt.Errorf("logging.log_level must be one of error, warn, info, debug, verbose, got %q", c.Logging.LogLevel)
	}

	switch c.Engine.ExecutionMode {
	case "auto", "cpu", "parallel":
	default:
		return fmt.Errorf("engine.execution_mode must be auto, cpu or parallel, got %q", c.Engine.ExecutionMode)
	}
	if c.Engine.Workers < 0 {
		return errors.New("engine.workers must be >= 0")
	}
	if c.Engine.ChunkSize < 1 {
		return errors.New("engine.chunk_size must be >= 1")
	}
	switch c.Engine.Generator {
	case "gonum", "boxmuller":
	default:
		return fmt.Errorf("engine.generator must be gonum or boxmuller, got %q", c.Engine.Generator)
	}

	if c.Simulation.Steps < 1 {
		return errors.New("simulation.steps must be >= 1")
	}
	if c.Simulation.Paths < 2 {
		return fmt.Errorf("simulation.paths must be >= 2, got %d", c.Simulation.Paths)
	}
	if c.Simulation.MaxSteps < c.Simulation.Steps {
		return fmt.Errorf("simulation.max_steps must be >= simulation.steps (%d), got %d", c.Simulation.Steps, c.Simulation.MaxSteps)
	}
	if c.Simulation.MaxPaths < c.Simulation.Paths {
		return fmt.Errorf("simulation.max_paths must be >= simulation.paths (%d), got %d", c.Simulation.Paths, c.Simulation.MaxPaths)
	}

	for i := range c.Batches {
		if err := c.Batches[i].validate(fmt.Sprintf("batches[%d]", i)); err != nil {
			return err
		}
	}

	if c.Audit.Enabled && c.Audit.File == "" {
		return errors.New("audit.file is required when audit is enabled")
	}

	return nil
}

func (b *BatchConfig) validate(prefix string) error {
	if b.Expiry <= 0 {
		return fmt.Errorf("%s.T must be > 0, got %v", prefix, b.Expiry)
	}
	if b.Strike <= 0 {
		return fmt.Errorf("%s.K must be > 0, got %v", prefix, b.Strike)
	}
	if b.Volatility < 0 {
		return fmt.Errorf("%s.sig must be >= 0, got %v", prefix, b.Volatility)
	}
	if b.Spot <= 0 {
		return fmt.Errorf("%s.S0 must be > 0, got %v", prefix, b.Spot)
	}
	if b.Beta < 0 || b.Beta > 1 {
		return fmt.Errorf("%s.beta must be in [0, 1], got %v", prefix, b.Beta)
	}
	return nil
}
