package strategy

import "github.com/arbiterdev/arbiter/parse"

// Outcome is the parsed result of one pairwise judge call, expressed in
// the original A/B orientation regardless of presentation order.
type Outcome struct {
	Verdict     parse.Verdict
	ScoreA      *float64
	ScoreB      *float64
	Explanation string
}

// Swap returns the outcome with sides exchanged. Used to map a call
// that presented the responses in swapped order back to the original
// orientation.
func (o Outcome) Swap() Outcome {
	return Outcome{
		Verdict:     o.Verdict.Swap(),
		ScoreA:      o.ScoreB,
		ScoreB:      o.ScoreA,
		Explanation: o.Explanation,
	}
}

// Reconcile combines the two calls of bias-mitigated pairwise judging.
// Both outcomes must already be in the original orientation. Agreement
// keeps the shared verdict with per-side scores averaged; disagreement
// is conservatively a tie, with scores still averaged where present.
func Reconcile(forward, swappedBack Outcome) Outcome {
	out := Outcome{
		ScoreA:      averageScores(forward.ScoreA, swappedBack.ScoreA),
		ScoreB:      averageScores(forward.ScoreB, swappedBack.ScoreB),
		Explanation: joinExplanations(forward.Explanation, swappedBack.Explanation),
	}
	if forward.Verdict == swappedBack.Verdict {
		out.Verdict = forward.Verdict
	} else {
		out.Verdict = parse.VerdictTie
	}
	return out
}

// averageScores averages the values that are present. One-sided scores
// pass through; two absences stay absent.
func averageScores(a, b *float64) *float64 {
	switch {
	case a != nil && b != nil:
		avg := roundScore((*a + *b) / 2)
		return &avg
	case a != nil:
		v := *a
		return &v
	case b != nil:
		v := *b
		return &v
	default:
		return nil
	}
}

func joinExplanations(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n\n[Swapped-order judgment]\n" + b
	}
}
