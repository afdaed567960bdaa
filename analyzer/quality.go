package analyzer

import (
	"math"
	"regexp"
	"strings"
)

var (
	classRes = map[string]*regexp.Regexp{
		"python":  regexp.MustCompile(`^\s*class\s+\w+`),
		"go":      regexp.MustCompile(`^\s*type\s+\w+\s+struct\b`),
		"default": regexp.MustCompile(`^\s*(?:public\s+|private\s+|export\s+)?class\s+\w+`),
	}

	badNameRe = regexp.MustCompile(`\b(?:def|func|function)\s+(?:[a-z]|[A-Z]{1,2})\s*\(`)
)

// Technical-debt weights: each vulnerability counts five units, each
// smell two, expressed per hundred lines.
const (
	debtWeightVulnerability = 5
	debtWeightSmell         = 2
)

// measureQuality computes the structural quality block.
func measureQuality(code, language string, vulnerabilities, smells int) QualityMetrics {
	lines := strings.Split(code, "\n")

	var q QualityMetrics
	totalLineLength := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, language) {
			continue
		}
		q.LinesOfCode++
		totalLineLength += len(line)
	}

	funcRe, ok := funcStartRes[language]
	if !ok {
		funcRe = funcStartRes["javascript"]
	}
	classRe, ok := classRes[language]
	if !ok {
		classRe = classRes["default"]
	}
	for _, line := range lines {
		if funcRe.MatchString(line) {
			q.Functions++
		}
		if classRe.MatchString(line) {
			q.Classes++
		}
	}

	q.Cyclomatic = cyclomaticComplexity(lines, language, q.Functions)
	q.Cognitive = cognitiveComplexity(lines, language)

	avgLineLength := 0.0
	if q.LinesOfCode > 0 {
		avgLineLength = float64(totalLineLength) / float64(q.LinesOfCode)
	}

	q.Maintainability = maintainabilityIndex(q)
	q.Readability = readabilityIndex(code, avgLineLength)
	q.TechnicalDebtRatio = technicalDebtRatio(vulnerabilities, smells, q.LinesOfCode)
	return q
}

// maintainabilityIndex derives a [0, 10] score from size and decision
// density: small, flat code scores high. The per-function baseline of
// the cyclomatic number is excluded so trivial functions are not
// penalized for existing.
func maintainabilityIndex(q QualityMetrics) float64 {
	if q.LinesOfCode == 0 {
		return 0
	}
	baseline := q.Functions
	if baseline == 0 {
		baseline = 1
	}
	decisions := q.Cyclomatic - baseline
	if decisions < 0 {
		decisions = 0
	}
	density := float64(decisions) / float64(q.LinesOfCode)
	v := 10.0 - density*8
	v -= float64(q.LinesOfCode) / 100
	return clampQuality(v)
}

// readabilityIndex derives a [0, 10] score from line length and naming.
func readabilityIndex(code string, avgLineLength float64) float64 {
	v := 10.0
	if avgLineLength > 60 {
		v -= (avgLineLength - 60) / 10
	}
	v -= float64(len(badNameRe.FindAllString(code, -1))) * 0.5
	return clampQuality(v)
}

// technicalDebtRatio is the weighted finding count per hundred lines.
func technicalDebtRatio(vulnerabilities, smells, loc int) float64 {
	if loc == 0 {
		return 0
	}
	debt := float64(vulnerabilities*debtWeightVulnerability+smells*debtWeightSmell) / float64(loc) * 100
	return math.Round(debt*100) / 100
}

// qualityScore collapses the quality block onto [0, 10] for the
// overall-score composition.
func qualityScore(q QualityMetrics) float64 {
	v := (q.Maintainability + q.Readability) / 2
	v -= q.TechnicalDebtRatio / 20
	return clampQuality(v)
}

func clampQuality(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return math.Round(v*100) / 100
}
