package strategy

import (
	"context"

	"github.com/arbiterdev/arbiter/trace"
)

var routerMetrics = []metricDef{
	{name: "tool_accuracy", label: "tool accuracy"},
	{name: "routing_quality", label: "routing quality"},
	{name: "reasoning_quality", label: "reasoning quality"},
}

// Router judges a tool-routing decision with one backend call. With an
// expected tool the accuracy question is an explicit match judgment;
// without one the judge infers suitability from the tool descriptions.
type Router struct {
	judge singleCallJudge
}

// NewRouter constructs the routing-evaluation strategy.
func NewRouter(cfg Config) (*Router, error) {
	judge, err := newSingleCallJudge(cfg)
	if err != nil {
		return nil, err
	}
	return &Router{judge: judge}, nil
}

func (s *Router) Kind() Kind { return KindRouter }

func (s *Router) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[RouterRequest](req)
	if err != nil {
		return nil, err
	}
	return s.judge.judgeAndExtract(ctx, KindRouter, "router judgment", buildRouterPrompt(r), routerMetrics, tr)
}
