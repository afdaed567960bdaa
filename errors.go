package arbiter

import (
	"errors"
	"fmt"
)

// Sentinel errors for common evaluation failure conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrGenerationExhausted indicates the generation backend failed on
	// every retry attempt.
	ErrGenerationExhausted = errors.New("generation attempts exhausted")

	// ErrStrategyFailed indicates a strategy could not produce any
	// usable result, for example when no metric at all parsed.
	ErrStrategyFailed = errors.New("strategy failed")

	// ErrInvalidRequest indicates the evaluation request failed
	// validation for its kind.
	ErrInvalidRequest = errors.New("invalid evaluation request")

	// ErrCancelled indicates the evaluation was cancelled by its
	// context before completion.
	ErrCancelled = errors.New("evaluation cancelled")
)

// Error kinds categorize evaluation errors by their type.
const (
	// KindGeneration represents backend-call failures after the
	// adapter's retries are exhausted.
	KindGeneration = "generation"

	// KindParse represents total parse failure of judge output.
	KindParse = "parse"

	// KindStrategy represents strategy-level failures.
	KindStrategy = "strategy"

	// KindAnalysis represents static-analysis failures.
	KindAnalysis = "analysis"

	// KindValidation represents request-validation failures.
	KindValidation = "validation"

	// KindCancelled represents cooperative cancellation.
	KindCancelled = "cancelled"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// the operation that failed and the category of failure.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Run").
	Op string

	// Kind categorizes the error (e.g., KindGeneration, KindParse).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional detail about the error (optional),
	// such as the evaluation kind or the judge model.
	Context map[string]any
}

// Error implements the error interface, returning a formatted message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("arbiter: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("arbiter: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("arbiter: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison by kind
// or by the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context
// merged in.
func (e *Error) WithContext(ctx map[string]any) *Error {
	out := *e
	if out.Context == nil {
		out.Context = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		out.Context[k] = v
	}
	return &out
}

// ErrorKind returns the kind of err when it is (or wraps) an *Error,
// and an empty string otherwise.
func ErrorKind(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
