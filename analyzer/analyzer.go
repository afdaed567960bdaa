package analyzer

import (
	"context"
	"math"
	"strings"
)

// Severity penalties subtracted from the base score per finding.
const (
	penaltyBlocker       = 2.0
	penaltyCritical      = 1.5
	penaltyMajorSecurity = 0.5
	penaltyMajorSmell    = 0.3
	penaltyMinorSmell    = 0.1
)

// Options controls an analysis run.
type Options struct {
	// Execute opts into sandboxed execution. Only python and
	// javascript are runnable; other languages skip execution silently.
	Execute bool

	// TestInputs are fed to stdin, one run per input. With no inputs a
	// single run with empty stdin is performed.
	TestInputs []string

	// ExpectedOutput, when set, must appear as a substring of stdout.
	ExpectedOutput string
}

// Analyze runs the full static pipeline over code. Malformed input
// never produces an error: it comes back as a failed syntax check with
// the rest of the report filled in best effort.
func Analyze(ctx context.Context, code, language string, opts Options) *Report {
	language = normalizeLanguage(language)

	report := &Report{Language: language}
	report.Syntax = checkSyntax(code, language)
	report.Security = scanSecurity(code, language)
	report.Smells = scanSmells(code, language)
	report.Quality = measureQuality(code, language, len(report.Security), len(report.Smells))

	if opts.Execute && report.Syntax.Valid && isExecutable(language) {
		exec := execute(ctx, code, language, opts.TestInputs, opts.ExpectedOutput)
		report.Execution = &exec
	}

	report.OverallScore = score(report)
	return report
}

// score composes the deterministic overall score: the mean of the
// component scores minus per-finding severity penalties, floored at 0.
func score(r *Report) float64 {
	components := []float64{syntaxScore(r.Syntax), qualityScore(r.Quality)}
	if r.Execution != nil {
		components = append(components, executionScore(*r.Execution))
	}

	base := 0.0
	for _, c := range components {
		base += c
	}
	base /= float64(len(components))

	penalty := 0.0
	for _, f := range r.Security {
		switch f.Severity {
		case SeverityBlocker:
			penalty += penaltyBlocker
		case SeverityCritical:
			penalty += penaltyCritical
		default:
			penalty += penaltyMajorSecurity
		}
	}
	for _, f := range r.Smells {
		switch f.Severity {
		case SeverityMajor:
			penalty += penaltyMajorSmell
		case SeverityMinor:
			penalty += penaltyMinorSmell
		}
	}

	final := base - penalty
	if final < 0 {
		final = 0
	}
	return math.Round(final*100) / 100
}

func syntaxScore(s SyntaxCheck) float64 {
	if !s.Valid {
		return 0
	}
	v := 10.0 - float64(len(s.Warnings))*0.5
	if v < 5 {
		v = 5
	}
	return v
}

func executionScore(e Execution) float64 {
	if !e.Success {
		return 0
	}
	if e.OutputMatched != nil && !*e.OutputMatched {
		return 5
	}
	return 10
}

func normalizeLanguage(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	switch l {
	case "js", "node", "nodejs":
		return "javascript"
	case "ts":
		return "typescript"
	case "py", "python3":
		return "python"
	case "golang":
		return "go"
	case "objc", "objective-c", "objectivec":
		return "objc"
	}
	return l
}
