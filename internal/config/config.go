package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is read by Load when present in the working directory
const DefaultConfigFile = "config.yaml"

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// EngineConfig represents Monte Carlo engine configuration
type EngineConfig struct {
	ExecutionMode string `yaml:"execution_mode"` // auto, cpu, parallel
	Workers       int    `yaml:"workers"`        // 0 = GOMAXPROCS
	ChunkSize     int    `yaml:"chunk_size"`     // paths per random stream
	Generator     string `yaml:"generator"`      // gonum, boxmuller
	Seed          uint64 `yaml:"seed"`           // master seed
	ExactMesh     bool   `yaml:"exact_mesh"`     // start+i*h grid instead of repeated addition
}

// SimulationConfig holds the default discretisation of a batch
type SimulationConfig struct {
	Steps    int `yaml:"steps"`     // time intervals (N)
	Paths    int `yaml:"paths"`     // simulated paths (NSim)
	MaxSteps int `yaml:"max_steps"` // largest N a request may ask for
	MaxPaths int `yaml:"max_paths"` // largest NSim a request may ask for
}

// BatchConfig is one parameter set of the batch driver
type BatchConfig struct {
	Name       string  `yaml:"name"`
	Expiry     float64 `yaml:"T"`
	Strike     float64 `yaml:"K"`
	Volatility float64 `yaml:"sig"`
	Rate       float64 `yaml:"r"`
	Spot       float64 `yaml:"S0"`
	Beta       float64 `yaml:"beta"`
}

// AuditConfig represents audit log configuration
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// MetricsConfig represents the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	// Server settings
	Port string

	Logging    LoggingConfig
	Engine     EngineConfig
	Simulation SimulationConfig
	Batches    []BatchConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// YAMLConfig mirrors config.yaml. Booleans are pointers so an absent key
// keeps the environment default.
type YAMLConfig struct {
	Port    string        `yaml:"port"`
	Logging LoggingConfig `yaml:"logging"`

	Engine struct {
		ExecutionMode string  `yaml:"execution_mode"`
		Workers       int     `yaml:"workers"`
		ChunkSize     int     `yaml:"chunk_size"`
		Generator     string  `yaml:"generator"`
		Seed          *uint64 `yaml:"seed"`
		ExactMesh     *bool   `yaml:"exact_mesh"`
	} `yaml:"engine"`

	Simulation SimulationConfig `yaml:"simulation"`
	Batches    []BatchConfig    `yaml:"batches"`

	Audit struct {
		Enabled *bool  `yaml:"enabled"`
		File    string `yaml:"file"`
	} `yaml:"audit"`

	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load builds the configuration from environment defaults and, when it can
// be read, config.yaml in the working directory.
func Load() *Config {
	cfg := fromEnv()

	// Try to load from YAML file - silently keep env defaults on failure
	if yamlCfg, err := readYAML(getEnv("OPTION_PRICING_CONFIG", DefaultConfigFile)); err == nil {
		cfg.apply(yamlCfg)
	}

	cfg.applyDefaults()
	return cfg
}

// LoadFile is Load for an explicit path; unlike Load it reports read and
// parse failures.
func LoadFile(path string) (*Config, error) {
	cfg := fromEnv()

	yamlCfg, err := readYAML(path)
	if err != nil {
		return nil, err
	}
	cfg.apply(yamlCfg)

	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads path (or config.yaml when path is empty) and validates it
func LoadAndValidate(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Load()
	} else {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", DefaultPort),
		Logging: LoggingConfig{
			LogLevel:   getEnv("LOG_LEVEL", DefaultLogLevel),
			LogFile:    getEnv("LOG_FILE", DefaultLogFile),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", DefaultLogMaxSizeMB),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", DefaultLogMaxBackups),
		},
		Engine: EngineConfig{
			ExecutionMode: getEnv("ENGINE_EXECUTION_MODE", DefaultExecutionMode),
			Workers:       getEnvInt("ENGINE_WORKERS", 0),
			ChunkSize:     getEnvInt("ENGINE_CHUNK_SIZE", DefaultChunkSize),
			Generator:     getEnv("ENGINE_GENERATOR", DefaultGenerator),
			Seed:          getEnvUint64("ENGINE_SEED", DefaultSeed),
			ExactMesh:     getEnvBool("ENGINE_EXACT_MESH", false),
		},
		Simulation: SimulationConfig{
			Steps:    getEnvInt("SIM_STEPS", DefaultSteps),
			Paths:    getEnvInt("SIM_PATHS", DefaultPaths),
			MaxSteps: getEnvInt("SIM_MAX_STEPS", DefaultMaxSteps),
			MaxPaths: getEnvInt("SIM_MAX_PATHS", DefaultMaxPaths),
		},
		Audit: AuditConfig{
			Enabled: getEnvBool("AUDIT_ENABLED", false),
			File:    getEnv("AUDIT_FILE", DefaultAuditFile),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", DefaultMetricsPath),
		},
	}
}

func readYAML(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal([]byte(expanded), &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &yamlCfg, nil
}

// apply overlays every field set in the YAML file
func (c *Config) apply(y *YAMLConfig) {
	if y.Port != "" {
		c.Port = y.Port
	}

	// Logging configuration from YAML
	if y.Logging.LogLevel != "" {
		c.Logging.LogLevel = y.Logging.LogLevel
	}
	if y.Logging.LogFile != "" {
		c.Logging.LogFile = y.Logging.LogFile
	}
	if y.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = y.Logging.MaxSizeMB
	}
	if y.Logging.MaxBackups != 0 {
		c.Logging.MaxBackups = y.Logging.MaxBackups
	}

	// Engine configuration from YAML
	if y.Engine.ExecutionMode != "" {
		c.Engine.ExecutionMode = y.Engine.ExecutionMode
	}
	if y.Engine.Workers != 0 {
		c.Engine.Workers = y.Engine.Workers
	}
	if y.Engine.ChunkSize != 0 {
		c.Engine.ChunkSize = y.Engine.ChunkSize
	}
	if y.Engine.Generator != "" {
		c.Engine.Generator = y.Engine.Generator
	}
	if y.Engine.Seed != nil {
		c.Engine.Seed = *y.Engine.Seed
	}
	if y.Engine.ExactMesh != nil {
		c.Engine.ExactMesh = *y.Engine.ExactMesh
	}

	if y.Simulation.Steps != 0 {
		c.Simulation.Steps = y.Simulation.Steps
	}
	if y.Simulation.Paths != 0 {
		c.Simulation.Paths = y.Simulation.Paths
	}
	if y.Simulation.MaxSteps != 0 {
		c.Simulation.MaxSteps = y.Simulation.MaxSteps
	}
	if y.Simulation.MaxPaths != 0 {
		c.Simulation.MaxPaths = y.Simulation.MaxPaths
	}

	if len(y.Batches) > 0 {
		c.Batches = y.Batches
	}

	if y.Audit.Enabled != nil {
		c.Audit.Enabled = *y.Audit.Enabled
	}
	if y.Audit.File != "" {
		c.Audit.File = y.Audit.File
	}

	if y.Metrics.Enabled != nil {
		c.Metrics.Enabled = *y.Metrics.Enabled
	}
	if y.Metrics.Path != "" {
		c.Metrics.Path = y.Metrics.Path
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
