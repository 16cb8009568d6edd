package montecarlo

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every invalid model, grid or batch parameter.
	ErrConfiguration = errors.New("configuration error")

	// ErrDegenerateSample is matched when fewer than two payoffs are available
	// and the sample standard deviation is undefined.
	ErrDegenerateSample = errors.New("degenerate sample")
)

// ConfigurationError describes a parameter rejected before simulation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configErr(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DegenerateSampleError reports a payoff stream too short for a sample standard deviation.
type DegenerateSampleError struct {
	Samples int
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("%v: need at least 2 samples, got %d", ErrDegenerateSample, e.Samples)
}

func (e *DegenerateSampleError) Unwrap() error { return ErrDegenerateSample }
