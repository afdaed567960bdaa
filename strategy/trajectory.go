package strategy

import (
	"context"

	"github.com/arbiterdev/arbiter/trace"
)

var trajectoryMetrics = []metricDef{
	{name: "step_quality", label: "step quality"},
	{name: "path_efficiency", label: "path efficiency"},
	{name: "reasoning_chain", label: "reasoning chain"},
	{name: "planning_quality", label: "planning quality"},
}

// Trajectory judges an ordered agent trajectory with one backend call.
// Steps are rendered in request order, and an expected trajectory is
// included verbatim and in order when provided.
type Trajectory struct {
	judge singleCallJudge
}

// NewTrajectory constructs the trajectory-evaluation strategy.
func NewTrajectory(cfg Config) (*Trajectory, error) {
	judge, err := newSingleCallJudge(cfg)
	if err != nil {
		return nil, err
	}
	return &Trajectory{judge: judge}, nil
}

func (s *Trajectory) Kind() Kind { return KindTrajectory }

func (s *Trajectory) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[TrajectoryRequest](req)
	if err != nil {
		return nil, err
	}
	return s.judge.judgeAndExtract(ctx, KindTrajectory, "trajectory judgment", buildTrajectoryPrompt(r), trajectoryMetrics, tr)
}
