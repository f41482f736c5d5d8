package render

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("render: invalid configuration")

	// ErrResourceExhausted is returned when the image buffer cannot be
	// allocated within the configured limits.
	ErrResourceExhausted = errors.New("render: resource exhausted")

	// ErrWorkerFailed wraps a panic or write failure inside a worker.
	ErrWorkerFailed = errors.New("render: worker failed")
)

// ConfigurationError reports an Options field that cannot be rendered.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("render: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
