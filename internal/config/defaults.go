package config

import "fmt"

// Default values for optional configuration fields.
const (
	DefaultPort          = "8080"
	DefaultLogLevel      = "info"
	DefaultLogFile       = "option-pricing.log"
	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 5
	DefaultExecutionMode = "auto"
	DefaultChunkSize     = 1000
	DefaultGenerator     = "gonum"
	DefaultSeed          = 20251025
	DefaultSteps         = 100
	DefaultPaths         = 50000
	DefaultMaxSteps      = 10000
	DefaultMaxPaths      = 5000000
	DefaultAuditFile     = "audit.jsonl"
	DefaultMetricsPath   = "/metrics"
)

// DefaultBatches are the two reference parameter sets of the batch driver.
func DefaultBatches() []BatchConfig {
	return []BatchConfig{
		{Name: "Batch 1", Expiry: 0.25, Strike: 65, Volatility: 0.30, Rate: 0.08, Spot: 60},
		{Name: "Batch 2", Expiry: 1.0, Strike: 100, Volatility: 0.20, Rate: 0.0, Spot: 100},
	}
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Logging.LogLevel == "" {
		c.Logging.LogLevel = DefaultLogLevel
	}
	if c.Logging.LogFile == "" {
		c.Logging.LogFile = DefaultLogFile
	}
	if c.Engine.ExecutionMode == "" {
		c.Engine.ExecutionMode = DefaultExecutionMode
	}
	if c.Engine.ChunkSize == 0 {
		c.Engine.ChunkSize = DefaultChunkSize
	}
	if c.Engine.Generator == "" {
		c.Engine.Generator = DefaultGenerator
	}
	if c.Simulation.Steps == 0 {
		c.Simulation.Steps = DefaultSteps
	}
	if c.Simulation.Paths == 0 {
		c.Simulation.Paths = DefaultPaths
	}
	if c.Simulation.MaxSteps == 0 {
		c.Simulation.MaxSteps = DefaultMaxSteps
	}
	if c.Simulation.MaxPaths == 0 {
		c.Simulation.MaxPaths = DefaultMaxPaths
	}
	if len(c.Batches) == 0 {
		c.Batches = DefaultBatches()
	}
	for i := range c.Batches {
		if c.Batches[i].Name == "" {
			c.Batches[i].Name = fmt.Sprintf("Batch %d", i+1)
		}
	}
	if c.Audit.File == "" {
		c.Audit.File = DefaultAuditFile
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
