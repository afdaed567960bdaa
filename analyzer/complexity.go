package analyzer

import (
	"regexp"
	"strings"
)

// decisionRes matches decision points per language family.
var decisionRes = map[string]*regexp.Regexp{
	"python":  regexp.MustCompile(`^\s*(if|elif|for|while|except)\b|\band\b|\bor\b`),
	"default": regexp.MustCompile(`^\s*(if|else if|for|while|case|catch)\b|&&|\|\|`),
}

func decisionRe(language string) *regexp.Regexp {
	if re, ok := decisionRes[language]; ok {
		return re
	}
	return decisionRes["default"]
}

// cyclomaticComplexity counts decision points plus one per function,
// summed across the sample. With no detected functions the sample is
// treated as one implicit function.
func cyclomaticComplexity(lines []string, language string, functions int) int {
	re := decisionRe(language)
	decisions := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, language) {
			continue
		}
		decisions += len(re.FindAllString(line, -1))
	}
	if functions == 0 {
		functions = 1
	}
	return decisions + functions
}

// cognitiveComplexity weights decisions by nesting depth: a decision at
// depth d costs 1+d, so flat sequences stay cheap and nested logic
// compounds.
func cognitiveComplexity(lines []string, language string) int {
	re := decisionRe(language)
	total := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, language) {
			continue
		}
		hits := len(re.FindAllString(line, -1))
		if hits == 0 {
			continue
		}
		total += hits * (1 + nestingDepth(line, language))
	}
	return total
}
