package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/arbiterdev/arbiter/llm"
	"github.com/arbiterdev/arbiter/parse"
	"github.com/arbiterdev/arbiter/trace"
)

// Pairwise compares two responses to the same question. With bias
// mitigation enabled it calls the judge twice, once per presentation
// order, and reconciles the two verdicts; a disagreement between the
// orders is treated as a tie rather than trusting either call.
type Pairwise struct {
	gen         *llm.Generator
	model       string
	temperature float64
	logger      *slog.Logger

	// swapCoin decides the presentation order in single-swap mode.
	// Overridable in tests for determinism.
	swapCoin func() bool
}

// NewPairwise constructs the pairwise comparison strategy.
func NewPairwise(cfg Config) (*Pairwise, error) {
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return &Pairwise{
		gen:         cfg.Generator,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		logger:      cfg.logger(),
		swapCoin:    func() bool { return rand.Intn(2) == 1 },
	}, nil
}

func (s *Pairwise) Kind() Kind { return KindPairwise }

// Evaluate runs the comparison. The two calls of bias-mitigated mode
// are strictly sequential, with cancellation checked between them.
func (s *Pairwise) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[PairwiseRequest](req)
	if err != nil {
		return nil, err
	}

	solution := ""
	if r.ChainOfThought {
		solution, err = s.solve(ctx, r, tr)
		if err != nil {
			return nil, err
		}
	}

	if r.MitigateBias {
		return s.evaluateDouble(ctx, r, solution, tr)
	}
	return s.evaluateOnce(ctx, r, solution, tr)
}

// solve asks the judge to answer the question itself. The solution is
// embedded in the comparison prompt as grounding.
func (s *Pairwise) solve(ctx context.Context, r PairwiseRequest, tr *trace.Trace) (string, error) {
	done := tr.StartStep("chain of thought solution")
	out, err := s.gen.Generate(ctx, s.model,
		judgeMessages(solveSystem, r.Question), tr,
		llm.WithTemperature(s.temperature))
	if err != nil {
		done("generation failed")
		return "", err
	}
	done("solution generated")
	return out, nil
}

func (s *Pairwise) evaluateOnce(ctx context.Context, r PairwiseRequest, solution string, tr *trace.Trace) (*Result, error) {
	swapped := r.SingleSwap && s.swapCoin()

	outcome, raw, err := s.judgeCall(ctx, r, solution, swapped, tr)
	if err != nil {
		return nil, err
	}
	if swapped {
		outcome = outcome.Swap()
	}
	return s.buildResult(outcome, raw), nil
}

func (s *Pairwise) evaluateDouble(ctx context.Context, r PairwiseRequest, solution string, tr *trace.Trace) (*Result, error) {
	forward, rawFwd, err := s.judgeCall(ctx, r, solution, false, tr)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	swappedOut, rawSwp, err := s.judgeCall(ctx, r, solution, true, tr)
	if err != nil {
		return nil, err
	}

	reconciled := Reconcile(forward, swappedOut.Swap())
	s.logger.Debug("pairwise verdicts reconciled",
		"forward", string(forward.Verdict),
		"swapped", string(swappedOut.Swap().Verdict),
		"final", string(reconciled.Verdict))

	return s.buildResult(reconciled, rawFwd+"\n\n---\n\n"+rawSwp), nil
}

// judgeCall issues one comparison call. When swapped is true the
// responses are presented in B-first order; the returned outcome is in
// presentation order and the caller un-swaps it.
func (s *Pairwise) judgeCall(ctx context.Context, r PairwiseRequest, solution string, swapped bool, tr *trace.Trace) (Outcome, string, error) {
	first, second := r.ResponseA, r.ResponseB
	firstLabel, secondLabel := r.ModelA, r.ModelB
	stepName := "pairwise judgment"
	if swapped {
		first, second = r.ResponseB, r.ResponseA
		firstLabel, secondLabel = r.ModelB, r.ModelA
		stepName = "pairwise judgment (swapped order)"
	}

	done := tr.StartStep(stepName)
	out, err := s.gen.Generate(ctx, s.model,
		judgeMessages(pairwiseJudgeSystem, buildPairwisePrompt(r, first, second, firstLabel, secondLabel, solution)), tr,
		llm.WithTemperature(s.temperature))
	if err != nil {
		done("generation failed")
		return Outcome{}, "", err
	}

	outcome := parseOutcome(out)
	done(fmt.Sprintf("verdict=%s", outcome.Verdict))
	return outcome, out, nil
}

// parseOutcome extracts verdict, per-side scores and explanation from
// one judge output. A missing verdict token falls back to comparing
// the per-side scores; missing scores on either side mean a tie.
func parseOutcome(text string) Outcome {
	a, okA, b, okB := parse.ExtractPairScores(text)

	verdict, found := parse.ExtractVerdict(text)
	if !found {
		verdict = parse.VerdictFromScores(a, okA, b, okB)
	}

	out := Outcome{Verdict: verdict, Explanation: parse.ExtractExplanation(text)}
	if okA {
		v := a.Value
		out.ScoreA = &v
	}
	if okB {
		v := b.Value
		out.ScoreB = &v
	}
	return out
}

func (s *Pairwise) buildResult(o Outcome, raw string) *Result {
	result := &Result{
		Kind:        KindPairwise,
		Metrics:     map[string]MetricScore{},
		Winner:      o.Verdict,
		ScoreA:      o.ScoreA,
		ScoreB:      o.ScoreB,
		RawJudgment: raw,
	}
	if o.ScoreA != nil {
		result.Metrics["score_a"] = MetricScore{Score: *o.ScoreA, Explanation: o.Explanation}
	} else {
		result.Metrics["score_a"] = MetricScore{Unparsed: true}
	}
	if o.ScoreB != nil {
		result.Metrics["score_b"] = MetricScore{Score: *o.ScoreB, Explanation: o.Explanation}
	} else {
		result.Metrics["score_b"] = MetricScore{Unparsed: true}
	}
	result.OverallScore = meanOfParsed(result.Metrics)
	return result
}
