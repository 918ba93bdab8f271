package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"hypotest/domain/stats"
	"hypotest/internal"
	"hypotest/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Batch    BatchConfig
	Log      LogConfig
}

// AnalysisConfig holds defaults for a single comparison
type AnalysisConfig struct {
	ConfidenceLevel float64
	EqualVariance   bool
	PowerTarget     float64
}

// BatchConfig holds worker pool settings
type BatchConfig struct {
	Concurrency int
	Timeout     time.Duration // zero means no deadline
}

// LogConfig holds logger settings
type LogConfig struct {
	Level internal.LogLevel
}

// TestOptions converts the analysis defaults into per-call options
func (c *Config) TestOptions() stats.TestOptions {
	return stats.TestOptions{
		ConfidenceLevel: c.Analysis.ConfidenceLevel,
		EqualVariance:   c.Analysis.EqualVariance,
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	batchConfig, err := loadBatchConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load batch configuration")
	}
	config.Batch = *batchConfig

	logConfig, err := loadLogConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load log configuration")
	}
	config.Log = *logConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	confidence, err := getEnvFloat("HYPOTEST_CONFIDENCE_LEVEL", stats.DefaultConfidenceLevel)
	if err != nil {
		return nil, err
	}
	equalVariance, err := getEnvBool("HYPOTEST_EQUAL_VARIANCE", false)
	if err != nil {
		return nil, err
	}
	target, err := getEnvFloat("HYPOTEST_POWER_TARGET", stats.DefaultPowerTarget)
	if err != nil {
		return nil, err
	}

	return &AnalysisConfig{
		ConfidenceLevel: confidence,
		EqualVariance:   equalVariance,
		PowerTarget:     target,
	}, nil
}

func loadBatchConfig() (*BatchConfig, error) {
	concurrency := getEnvIntOrDefault("HYPOTEST_BATCH_CONCURRENCY", runtime.NumCPU())

	timeout, err := getEnvDuration("HYPOTEST_BATCH_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	return &BatchConfig{
		Concurrency: concurrency,
		Timeout:     timeout,
	}, nil
}

func loadLogConfig() (*LogConfig, error) {
	raw := getEnvOrDefault("LOG_LEVEL", "INFO")
	level, ok := internal.ParseLogLevel(raw)
	if !ok {
		return nil, errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL: unknown level %q", raw))
	}
	return &LogConfig{Level: level}, nil
}

func validateConfig(config *Config) error {
	if !(config.Analysis.ConfidenceLevel > 0 && config.Analysis.ConfidenceLevel < 1) {
		return errors.ConfigInvalid("confidence level must be in (0,1)")
	}
	if !(config.Analysis.PowerTarget > 0 && config.Analysis.PowerTarget < 1) {
		return errors.ConfigInvalid("power target must be in (0,1)")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("batch concurrency must be at least 1")
	}
	if config.Batch.Timeout < 0 {
		return errors.ConfigInvalid("batch timeout cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Statistical settings are rejected when malformed instead of silently
// falling back, since a typo would otherwise change every verdict.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a number", key, value))
	}
	return floatValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a boolean", key, value))
	}
	return boolValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a duration", key, value))
	}
	return duration, nil
}
