package parse

import (
	"regexp"
	"strings"
)

// Verdict is a pairwise comparison outcome.
type Verdict string

const (
	VerdictA   Verdict = "A"
	VerdictB   Verdict = "B"
	VerdictTie Verdict = "C"
)

// verdictTokenRe matches the bracketed verdict token [[A]], [[B]] or [[C]].
var verdictTokenRe = regexp.MustCompile(`\[\[([ABC])\]\]`)

// winnerLineRe matches prose verdicts like "Winner: A" or "winner is B".
var winnerLineRe = regexp.MustCompile(`(?i)winner\s*(?:is)?\s*[:=]?\s*\**\s*(A|B|C|Tie)\b`)

// Pairwise per-side score patterns.
var (
	scoreARe = regexp.MustCompile(`(?i)score\s*A\s*[:=]\s*\**\s*([0-9]+(?:\.[0-9]+)?)`)
	scoreBRe = regexp.MustCompile(`(?i)score\s*B\s*[:=]\s*\**\s*([0-9]+(?:\.[0-9]+)?)`)
)

// ExtractVerdict pulls the pairwise verdict from judge output.
// The bracketed token wins when present; a prose "Winner:" line is the
// fallback. The boolean reports whether either form was found.
func ExtractVerdict(text string) (Verdict, bool) {
	if m := verdictTokenRe.FindStringSubmatch(text); m != nil {
		return Verdict(m[1]), true
	}
	if m := winnerLineRe.FindStringSubmatch(text); m != nil {
		switch strings.ToUpper(m[1]) {
		case "A":
			return VerdictA, true
		case "B":
			return VerdictB, true
		case "C", "TIE":
			return VerdictTie, true
		}
	}
	return "", false
}

// ExtractPairScores pulls the two per-side scores from pairwise judge
// output. Each boolean reports whether that side's score was found.
func ExtractPairScores(text string) (a Score, okA bool, b Score, okB bool) {
	if m := scoreARe.FindStringSubmatch(text); m != nil {
		if s, found := parseScoreMatch(m[1]); found {
			a, okA = s, true
		}
	}
	if m := scoreBRe.FindStringSubmatch(text); m != nil {
		if s, found := parseScoreMatch(m[1]); found {
			b, okB = s, true
		}
	}
	return a, okA, b, okB
}

func parseScoreMatch(raw string) (Score, bool) {
	v, ok := ExtractRawNumber(raw)
	if !ok {
		return Score{}, false
	}
	clamped, moved := ClampScore(v)
	return Score{Value: clamped, Clamped: moved}, true
}

// VerdictFromScores derives a verdict from per-side scores when the
// judge omitted an explicit one. Missing scores on either side yield a
// tie rather than a guess.
func VerdictFromScores(a Score, okA bool, b Score, okB bool) Verdict {
	if !okA || !okB {
		return VerdictTie
	}
	switch {
	case a.Value > b.Value:
		return VerdictA
	case b.Value > a.Value:
		return VerdictB
	default:
		return VerdictTie
	}
}

// Swap flips a verdict's sides. Ties are their own mirror image.
func (v Verdict) Swap() Verdict {
	switch v {
	case VerdictA:
		return VerdictB
	case VerdictB:
		return VerdictA
	default:
		return v
	}
}

// IsValid reports whether v is one of the three defined verdicts.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictA, VerdictB, VerdictTie:
		return true
	}
	return false
}
