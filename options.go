package arbiter

import (
	"log/slog"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/telemetry"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger used by the engine and every
// strategy it builds. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRetryPolicy replaces the generation adapter's retry policy.
func WithRetryPolicy(policy llm.RetryPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithTemperature sets the judge sampling temperature for all
// strategies.
func WithTemperature(temperature float64) Option {
	return func(e *Engine) {
		e.temperature = temperature
	}
}

// WithTelemetry enables OpenTelemetry span and metric recording per
// evaluation.
func WithTelemetry(recorder *telemetry.Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}
