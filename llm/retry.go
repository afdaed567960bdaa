package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbiterdev/arbiter/trace"
)

// Default retry parameters. The output budget starts generous and shrinks
// on each retry so a model that rambles past its window gets a second
// chance with a tighter leash.
const (
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultInitialBudget = 768
	DefaultBudgetFloor   = 128
)

// ErrEmptyOutput marks an attempt whose response sanitized down to nothing.
var ErrEmptyOutput = errors.New("llm: model returned empty output")

// ErrExhausted marks a generation that failed on every attempt.
var ErrExhausted = errors.New("llm: generation attempts exhausted")

// RetryPolicy controls the generation retry loop.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// Delay is the fixed pause between attempts.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// InitialBudget is the max-token budget for the first attempt.
	InitialBudget int `json:"initial_budget" yaml:"initial_budget"`

	// BudgetFloor is the smallest budget a retry may use.
	BudgetFloor int `json:"budget_floor" yaml:"budget_floor"`
}

// DefaultRetryPolicy returns the standard policy: three attempts, a
// 768-token opening budget, halved per retry down to a 128-token floor.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   DefaultMaxAttempts,
		Delay:         DefaultRetryDelay,
		InitialBudget: DefaultInitialBudget,
		BudgetFloor:   DefaultBudgetFloor,
	}
}

// Validate checks the policy for usable values.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("llm: max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.InitialBudget < 1 {
		return fmt.Errorf("llm: initial budget must be positive, got %d", p.InitialBudget)
	}
	if p.BudgetFloor < 1 {
		return fmt.Errorf("llm: budget floor must be positive, got %d", p.BudgetFloor)
	}
	if p.BudgetFloor > p.InitialBudget {
		return fmt.Errorf("llm: budget floor %d exceeds initial budget %d", p.BudgetFloor, p.InitialBudget)
	}
	return nil
}

// BudgetFor returns the max-token budget for a zero-based attempt index.
// The budget halves on each retry and never drops below the floor, so the
// sequence is non-increasing.
func (p RetryPolicy) BudgetFor(attempt int) int {
	budget := p.InitialBudget
	for i := 0; i < attempt; i++ {
		budget /= 2
		if budget <= p.BudgetFloor {
			return p.BudgetFloor
		}
	}
	if budget < p.BudgetFloor {
		return p.BudgetFloor
	}
	return budget
}

// Generator runs completions through a Provider with retry, output
// sanitization, and per-attempt trace recording. A Generator is cheap
// and safe to share across goroutines.
type Generator struct {
	provider Provider
	policy   RetryPolicy
	logger   *slog.Logger
}

// NewGenerator wraps provider with the given retry policy.
func NewGenerator(provider Provider, policy RetryPolicy, logger *slog.Logger) (*Generator, error) {
	if provider == nil {
		return nil, errors.New("llm: provider is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, policy: policy, logger: logger}, nil
}

// Policy returns the generator's retry policy.
func (g *Generator) Policy() RetryPolicy {
	return g.policy
}

// Generate runs the completion with retries and returns sanitized output.
// Each attempt is recorded as a step on tr when tr is non-nil. An attempt
// fails when the provider errors or the sanitized output is empty; the
// next attempt runs with a halved token budget. Context cancellation is
// honored between attempts and returns ctx.Err() wrapped with whatever
// failure was last seen.
func (g *Generator) Generate(ctx context.Context, model string, messages []Message, tr *trace.Trace, opts ...CompletionOption) (string, error) {
	var lastErr error

	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("llm: generation cancelled after %d attempts: %w", attempt, err)
		}
		if attempt > 0 && g.policy.Delay > 0 {
			select {
			case <-time.After(g.policy.Delay):
			case <-ctx.Done():
				return "", fmt.Errorf("llm: generation cancelled after %d attempts: %w", attempt, ctx.Err())
			}
		}

		budget := g.policy.BudgetFor(attempt)
		req := NewCompletionRequest(model, messages, opts...)
		req.MaxTokens = &budget

		started := time.Now()
		resp, err := g.provider.Complete(ctx, req)
		elapsed := time.Since(started)

		var content string
		if err == nil {
			content = SanitizeOutput(resp.Content)
			if content == "" {
				err = ErrEmptyOutput
			}
		}

		if tr != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error: " + err.Error()
			}
			tr.Append(trace.Step{
				Name:      fmt.Sprintf("generate attempt %d/%d", attempt+1, g.policy.MaxAttempts),
				StartedAt: started,
				EndedAt:   started.Add(elapsed),
				Summary:   fmt.Sprintf("model=%s budget=%d outcome=%s", model, budget, outcome),
			})
		}

		if err == nil {
			return content, nil
		}

		lastErr = err
		g.logger.Warn("generation attempt failed",
			"model", model,
			"attempt", attempt+1,
			"max_attempts", g.policy.MaxAttempts,
			"budget", budget,
			"error", err)

		if ctx.Err() != nil {
			return "", fmt.Errorf("llm: generation cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w: %d attempts, last error: %w", ErrExhausted, g.policy.MaxAttempts, lastErr)
}
