package strategy

import (
	"context"

	"github.com/arbiterdev/arbiter/trace"
)

var skillsMetrics = []metricDef{
	{name: "correctness"},
	{name: "completeness"},
	{name: "clarity"},
	{name: "proficiency"},
}

// Skills scores a response against a named skill area with one backend
// call. The skill and domain strings shape the prompt wording only;
// the metric set and scoring logic never change.
type Skills struct {
	judge singleCallJudge
}

// NewSkills constructs the skill-assessment strategy.
func NewSkills(cfg Config) (*Skills, error) {
	judge, err := newSingleCallJudge(cfg)
	if err != nil {
		return nil, err
	}
	return &Skills{judge: judge}, nil
}

func (s *Skills) Kind() Kind { return KindSkills }

func (s *Skills) Evaluate(ctx context.Context, req Request, tr *trace.Trace) (*Result, error) {
	r, err := checkKind[SkillsRequest](req)
	if err != nil {
		return nil, err
	}
	return s.judge.judgeAndExtract(ctx, KindSkills, "skills judgment", buildSkillsPrompt(r), skillsMetrics, tr)
}
