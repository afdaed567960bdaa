// Package parse extracts structured judgments from free-form model output.
//
// Judge models are asked for a fixed response shape but rarely honor it
// exactly. The extractors here work in layers: a strict pattern first,
// then progressively looser fallbacks, so a response like "Accuracy:
// **8.5/10**" and a response like "I'd rate the accuracy around 8.5"
// both yield a score. Extraction never interprets: scores come back as
// written, and callers that treat a metric as inverted do their own
// conversion.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Scale bounds for raw scores.
const (
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// labeledScoreRe matches "Label: 8", "Label: **8.5**", "Label: 8/10" and
// similar shapes. The label itself is interpolated per call.
const labeledScorePattern = `(?i)%s\s*(?:score)?\s*[:=]\s*\**\s*([0-9]+(?:\.[0-9]+)?)\s*(?:/\s*10)?\**`

// numberRe matches a bare decimal number.
var numberRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`)

// proximityWindow is how many characters after a keyword mention a bare
// number is still considered that keyword's score.
const proximityWindow = 80

// Score is one extracted metric value.
type Score struct {
	// Value is the raw value as written, clamped to [0, 10].
	Value float64

	// Clamped is true when the written value fell outside the scale.
	Clamped bool
}

// ClampScore forces v into [ScoreMin, ScoreMax] and reports whether it
// had to move.
func ClampScore(v float64) (float64, bool) {
	if v < ScoreMin {
		return ScoreMin, true
	}
	if v > ScoreMax {
		return ScoreMax, true
	}
	return v, false
}

// ExtractScore pulls the score for one labeled metric out of text.
// It tries a strict "label: value" pattern first, then falls back to the
// nearest bare number within a short window after the label mention.
// The boolean result reports whether any score was found.
func ExtractScore(text, label string) (Score, bool) {
	re, err := regexp.Compile(fmt.Sprintf(labeledScorePattern, regexp.QuoteMeta(label)))
	if err != nil {
		return Score{}, false
	}
	if m := re.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			clamped, moved := ClampScore(v)
			return Score{Value: clamped, Clamped: moved}, true
		}
	}
	return extractByProximity(text, label)
}

// extractByProximity finds the first bare number shortly after a mention
// of the label. This rescues prose answers like "the accuracy here is
// about 7 out of 10".
func extractByProximity(text, label string) (Score, bool) {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, strings.ToLower(label))
	if idx < 0 {
		return Score{}, false
	}
	window := text[idx+len(label):]
	if len(window) > proximityWindow {
		window = window[:proximityWindow]
	}
	m := numberRe.FindStringSubmatch(window)
	if m == nil {
		return Score{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Score{}, false
	}
	clamped, moved := ClampScore(v)
	return Score{Value: clamped, Clamped: moved}, true
}

// ExtractNumber returns the first number in text, clamped to the scale.
func ExtractNumber(text string) (Score, bool) {
	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return Score{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Score{}, false
	}
	clamped, moved := ClampScore(v)
	return Score{Value: clamped, Clamped: moved}, true
}

// ExtractRawNumber returns the first number in text without clamping.
// Custom-metric scales use their own bounds, so the caller normalizes.
func ExtractRawNumber(text string) (float64, bool) {
	m := numberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractSection returns the text of a labeled section, from the label
// to the next labeled section or end of text. Labels are matched at the
// start of a line, case-insensitively, with optional markdown bolding.
func ExtractSection(text, label string, otherLabels ...string) (string, bool) {
	startRe, err := sectionLabelRe(label)
	if err != nil {
		return "", false
	}
	loc := startRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]

	end := len(body)
	for _, other := range otherLabels {
		otherRe, err := sectionLabelRe(other)
		if err != nil {
			continue
		}
		if oloc := otherRe.FindStringIndex(body); oloc != nil && oloc[0] < end {
			end = oloc[0]
		}
	}
	section := strings.TrimSpace(body[:end])
	return section, section != ""
}

func sectionLabelRe(label string) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(`(?im)^\s*\**%s\**\s*[:=]`, regexp.QuoteMeta(label)))
}

// ExtractExplanation returns the explanation section, or failing that
// the whole response minus any leading score lines.
func ExtractExplanation(text string) string {
	if section, ok := ExtractSection(text, "explanation", "score", "verdict", "winner"); ok {
		return section
	}
	return strings.TrimSpace(text)
}
