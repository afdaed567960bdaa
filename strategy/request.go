// Package strategy implements one evaluation algorithm per evaluation
// kind. Each strategy owns its prompt templates and its expected metric
// set, drives the generation adapter, and extracts a structured Result
// from the judge model's output.
package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies an evaluation algorithm.
type Kind string

const (
	KindSingle        Kind = "single"
	KindPairwise      Kind = "pairwise"
	KindComprehensive Kind = "comprehensive"
	KindSkills        Kind = "skills"
	KindRouter        Kind = "router"
	KindTrajectory    Kind = "trajectory"
	KindCustomMetric  Kind = "custom_metric"
	KindCode          Kind = "code"
)

// Kinds returns all evaluation kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSingle, KindPairwise, KindComprehensive, KindSkills,
		KindRouter, KindTrajectory, KindCustomMetric, KindCode,
	}
}

// IsValid reports whether k is a defined kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSingle, KindPairwise, KindComprehensive, KindSkills,
		KindRouter, KindTrajectory, KindCustomMetric, KindCode:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Request is the sealed union of evaluation request kinds. Exactly the
// fields of one kind are populated; dispatch is by concrete type.
type Request interface {
	// Kind returns the evaluation kind this request selects.
	Kind() Kind

	// Validate checks that the request carries its kind's required fields.
	Validate() error

	sealed()
}

// ErrInvalidRequest marks a request that failed validation.
var ErrInvalidRequest = errors.New("strategy: invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// SingleRequest judges one response to one question.
type SingleRequest struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`

	// Reference is an optional gold answer included in the prompt.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`

	// TaskType decorates the prompt wording ("general", "coding", ...).
	TaskType string `json:"task_type,omitempty" yaml:"task_type,omitempty"`
}

func (r SingleRequest) Kind() Kind { return KindSingle }
func (SingleRequest) sealed()      {}

func (r SingleRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return invalidf("single: question is required")
	}
	if strings.TrimSpace(r.Response) == "" {
		return invalidf("single: response is required")
	}
	return nil
}

// PairwiseRequest compares two responses to the same question.
type PairwiseRequest struct {
	Question  string `json:"question" yaml:"question"`
	ResponseA string `json:"response_a" yaml:"response_a"`
	ResponseB string `json:"response_b" yaml:"response_b"`

	// Reference is an optional gold answer included in the prompt.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`

	// ModelA and ModelB are display labels for the two sides.
	ModelA string `json:"model_a,omitempty" yaml:"model_a,omitempty"`
	ModelB string `json:"model_b,omitempty" yaml:"model_b,omitempty"`

	// MitigateBias enables the double-call with swapped presentation
	// order and agreement reconciliation.
	MitigateBias bool `json:"mitigate_bias" yaml:"mitigate_bias"`

	// SingleSwap randomizes the presentation order of one call instead
	// of doubling the calls. Ignored when MitigateBias is set.
	SingleSwap bool `json:"single_swap" yaml:"single_swap"`

	// ChainOfThought makes the judge solve the question itself first;
	// its solution is embedded in the comparison prompt.
	ChainOfThought bool `json:"chain_of_thought" yaml:"chain_of_thought"`

	// FewShot prepends worked comparison examples to the prompt.
	FewShot bool `json:"few_shot" yaml:"few_shot"`
}

func (r PairwiseRequest) Kind() Kind { return KindPairwise }
func (PairwiseRequest) sealed()      {}

func (r PairwiseRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return invalidf("pairwise: question is required")
	}
	if strings.TrimSpace(r.ResponseA) == "" || strings.TrimSpace(r.ResponseB) == "" {
		return invalidf("pairwise: both responses are required")
	}
	return nil
}

// ComprehensiveRequest scores one response across the fixed multi-metric
// set, one backend call per metric.
type ComprehensiveRequest struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`

	// Extended adds the politeness, bias, tone and sentiment metrics.
	Extended bool `json:"extended,omitempty" yaml:"extended,omitempty"`
}

func (r ComprehensiveRequest) Kind() Kind { return KindComprehensive }
func (ComprehensiveRequest) sealed()      {}

func (r ComprehensiveRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return invalidf("comprehensive: question is required")
	}
	if strings.TrimSpace(r.Response) == "" {
		return invalidf("comprehensive: response is required")
	}
	return nil
}

// SkillsRequest scores a response against a named skill area.
type SkillsRequest struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`

	// Skill selects the prompt variant: mathematics, coding, reasoning
	// or general. Unknown skills fall back to general wording.
	Skill string `json:"skill" yaml:"skill"`

	// Domain further decorates the prompt. It never changes scoring.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

func (r SkillsRequest) Kind() Kind { return KindSkills }
func (SkillsRequest) sealed()      {}

func (r SkillsRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return invalidf("skills: question is required")
	}
	if strings.TrimSpace(r.Response) == "" {
		return invalidf("skills: response is required")
	}
	if strings.TrimSpace(r.Skill) == "" {
		return invalidf("skills: skill is required")
	}
	return nil
}

// Tool describes one routable tool for router evaluation.
type Tool struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// RouterRequest judges a tool-routing decision.
type RouterRequest struct {
	Query        string `json:"query" yaml:"query"`
	Tools        []Tool `json:"tools" yaml:"tools"`
	SelectedTool string `json:"selected_tool" yaml:"selected_tool"`

	// Reasoning is the router's own justification, when available.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// ExpectedTool, when set, turns tool accuracy into an explicit
	// match judgment. When empty the judge infers suitability from the
	// tool descriptions alone.
	ExpectedTool string `json:"expected_tool,omitempty" yaml:"expected_tool,omitempty"`
}

func (r RouterRequest) Kind() Kind { return KindRouter }
func (RouterRequest) sealed()      {}

func (r RouterRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return invalidf("router: query is required")
	}
	if len(r.Tools) == 0 {
		return invalidf("router: at least one tool is required")
	}
	for i, tool := range r.Tools {
		if strings.TrimSpace(tool.Name) == "" {
			return invalidf("router: tool %d has no name", i)
		}
	}
	if strings.TrimSpace(r.SelectedTool) == "" {
		return invalidf("router: selected tool is required")
	}
	return nil
}

// TrajectoryStep is one step of an agent trajectory. Order is
// semantically meaningful and preserved end to end.
type TrajectoryStep struct {
	Action      string `json:"action" yaml:"action"`
	Description string `json:"description" yaml:"description"`
}

// TrajectoryRequest judges an ordered agent trajectory against a task.
type TrajectoryRequest struct {
	Task  string           `json:"task" yaml:"task"`
	Steps []TrajectoryStep `json:"steps" yaml:"steps"`

	// Expected, when non-empty, is included verbatim and in order for
	// explicit comparison.
	Expected []TrajectoryStep `json:"expected,omitempty" yaml:"expected,omitempty"`

	// FinalAnswer is the trajectory's end result, when available.
	FinalAnswer string `json:"final_answer,omitempty" yaml:"final_answer,omitempty"`
}

func (r TrajectoryRequest) Kind() Kind { return KindTrajectory }
func (TrajectoryRequest) sealed()      {}

func (r TrajectoryRequest) Validate() error {
	if strings.TrimSpace(r.Task) == "" {
		return invalidf("trajectory: task is required")
	}
	if len(r.Steps) == 0 {
		return invalidf("trajectory: at least one step is required")
	}
	for i, step := range r.Steps {
		if strings.TrimSpace(step.Action) == "" {
			return invalidf("trajectory: step %d has no action", i)
		}
	}
	return nil
}

// CustomMetricRequest scores a response on one user-defined metric with
// a request-supplied scale.
type CustomMetricRequest struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`

	// MetricName names the single user-defined metric.
	MetricName string `json:"metric_name" yaml:"metric_name"`

	// Criteria tells the judge what the metric means.
	Criteria string `json:"criteria" yaml:"criteria"`

	// ScaleMin and ScaleMax bound the raw score. The normalized score
	// is a linear rescale of this interval onto [0, 10].
	ScaleMin float64 `json:"scale_min" yaml:"scale_min"`
	ScaleMax float64 `json:"scale_max" yaml:"scale_max"`

	// PassCriteria is an optional CEL expression over the variables
	// `score` and `normalized`, e.g. "normalized >= 7.0".
	PassCriteria string `json:"pass_criteria,omitempty" yaml:"pass_criteria,omitempty"`
}

func (r CustomMetricRequest) Kind() Kind { return KindCustomMetric }
func (CustomMetricRequest) sealed()      {}

func (r CustomMetricRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return invalidf("custom metric: question is required")
	}
	if strings.TrimSpace(r.Response) == "" {
		return invalidf("custom metric: response is required")
	}
	if strings.TrimSpace(r.MetricName) == "" {
		return invalidf("custom metric: metric name is required")
	}
	if strings.TrimSpace(r.Criteria) == "" {
		return invalidf("custom metric: criteria is required")
	}
	if r.ScaleMax <= r.ScaleMin {
		return invalidf("custom metric: scale max %g must exceed scale min %g", r.ScaleMax, r.ScaleMin)
	}
	return nil
}

// CodeRequest runs static analysis over a code sample. It never calls
// the generation backend.
type CodeRequest struct {
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`

	// Description is the task the code was written for, kept with the
	// judgment record.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Execute opts into sandboxed execution for supported languages.
	Execute bool `json:"execute,omitempty" yaml:"execute,omitempty"`

	// TestInputs are fed to the program's stdin, one run per input.
	TestInputs []string `json:"test_inputs,omitempty" yaml:"test_inputs,omitempty"`

	// ExpectedOutput, when set, is matched as a substring of stdout.
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
}

func (r CodeRequest) Kind() Kind { return KindCode }
func (CodeRequest) sealed()      {}

func (r CodeRequest) Validate() error {
	if strings.TrimSpace(r.Language) == "" {
		return invalidf("code: language is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		return invalidf("code: code is required")
	}
	return nil
}
