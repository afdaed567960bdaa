// Package analyzer performs static analysis of code samples without any
// model call. Go sources get a real parse; the other supported languages
// get pattern-based checks. The report's overall score is a
// deterministic function of the findings, so identical input always
// yields an identical score.
package analyzer

import "time"

// Severity ranks a finding.
type Severity string

const (
	SeverityBlocker  Severity = "BLOCKER"
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
	SeverityInfo     Severity = "INFO"
)

// Finding is one security vulnerability or code smell.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Rule     string   `json:"rule" yaml:"rule"`
	Line     int      `json:"line" yaml:"line"`
	Message  string   `json:"message" yaml:"message"`
}

// SyntaxCheck is the outcome of syntax validation.
type SyntaxCheck struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Execution is the outcome of an opt-in sandboxed run.
type Execution struct {
	Ran     bool          `json:"ran" yaml:"ran"`
	Success bool          `json:"success" yaml:"success"`
	Stdout  string        `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr  string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// OutputMatched is set when an expected output was supplied: true
	// when stdout contains it as a substring.
	OutputMatched *bool `json:"output_matched,omitempty" yaml:"output_matched,omitempty"`
}

// QualityMetrics is the structural quality block.
type QualityMetrics struct {
	LinesOfCode     int     `json:"lines_of_code" yaml:"lines_of_code"`
	Functions       int     `json:"functions" yaml:"functions"`
	Classes         int     `json:"classes" yaml:"classes"`
	Cyclomatic      int     `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	Cognitive       int     `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	Maintainability float64 `json:"maintainability" yaml:"maintainability"`
	Readability     float64 `json:"readability" yaml:"readability"`

	// TechnicalDebtRatio is a percentage derived from finding counts
	// per line of code.
	TechnicalDebtRatio float64 `json:"technical_debt_ratio" yaml:"technical_debt_ratio"`
}

// Report is the full static-analysis result for one code sample.
type Report struct {
	Language  string         `json:"language" yaml:"language"`
	Syntax    SyntaxCheck    `json:"syntax" yaml:"syntax"`
	Execution *Execution     `json:"execution,omitempty" yaml:"execution,omitempty"`
	Quality   QualityMetrics `json:"quality" yaml:"quality"`
	Security  []Finding      `json:"security,omitempty" yaml:"security,omitempty"`
	Smells    []Finding      `json:"smells,omitempty" yaml:"smells,omitempty"`

	// OverallScore is on [0, 10]: the base score minus severity
	// penalties, floored at zero.
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`
}

// VulnerabilityCount returns the number of security findings.
func (r *Report) VulnerabilityCount() int { return len(r.Security) }

// SmellCount returns the number of smell findings.
func (r *Report) SmellCount() int { return len(r.Smells) }
