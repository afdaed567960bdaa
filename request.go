package arbiter

import "github.com/arbiterdev/arbiter/strategy"

// Re-exported request types so callers can build evaluations without
// importing the strategy package directly.
type (
	Request              = strategy.Request
	SingleRequest        = strategy.SingleRequest
	PairwiseRequest      = strategy.PairwiseRequest
	ComprehensiveRequest = strategy.ComprehensiveRequest
	SkillsRequest        = strategy.SkillsRequest
	RouterRequest        = strategy.RouterRequest
	TrajectoryRequest    = strategy.TrajectoryRequest
	CustomMetricRequest  = strategy.CustomMetricRequest
	CodeRequest          = strategy.CodeRequest

	Tool           = strategy.Tool
	TrajectoryStep = strategy.TrajectoryStep

	Result      = strategy.Result
	MetricScore = strategy.MetricScore
)
