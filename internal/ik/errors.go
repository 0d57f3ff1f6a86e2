package ik

import (
	"errors"
	"fmt"
)

// Configuration errors. All of them are reported at construction time; the
// per-frame path never fails.
var (
	// ErrEmptyChain indicates a chain without bones.
	ErrEmptyChain = errors.New("ik: chain has no bones")

	// ErrInvalidLength indicates a bone length that is not a positive finite number.
	ErrInvalidLength = errors.New("ik: bone length must be positive and finite")

	// ErrJointCount indicates a chain whose bone count differs from the expected one.
	ErrJointCount = errors.New("ik: unexpected joint count")

	// ErrInvalidStepSize indicates a step size that is not a positive finite number.
	ErrInvalidStepSize = errors.New("ik: step size must be positive and finite")

	// ErrInvalidThreshold indicates a negative or non-finite convergence threshold.
	ErrInvalidThreshold = errors.New("ik: convergence threshold must be non-negative and finite")

	// ErrDimensionMismatch indicates an angle vector of the wrong length.
	ErrDimensionMismatch = errors.New("ik: dimension mismatch between angles and chain")
)

// ConfigError wraps a configuration error with the offending field.
type ConfigError struct {
	Field   string
	Index   int
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s (%s[%d]=%g)", e.Wrapped.Error(), e.Field, e.Index, e.Value)
	}
	return fmt.Sprintf("%s (%s=%g)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func configErr(field string, index int, value float64, err error) error {
	return &ConfigError{Field: field, Index: index, Value: value, Wrapped: err}
}
