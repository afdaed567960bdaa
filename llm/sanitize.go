package llm

import (
	"regexp"
	"strings"
)

// thinkBlockRe matches reasoning blocks emitted by thinking-mode models.
// The (?s) flag lets the block span multiple lines.
var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// danglingThinkRe matches an unterminated reasoning block at the start of
// output, which happens when a model runs out of budget mid-thought.
var danglingThinkRe = regexp.MustCompile(`(?s)^\s*<think>.*$`)

// SanitizeOutput strips model reasoning blocks and stray tags from raw
// model output. Judgment text must never contain chain-of-thought
// artifacts, or the parser will pick scores out of the model's scratch
// work instead of its verdict.
func SanitizeOutput(raw string) string {
	out := thinkBlockRe.ReplaceAllString(raw, "")
	out = danglingThinkRe.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, "<think>", "")
	out = strings.ReplaceAll(out, "</think>", "")
	return strings.TrimSpace(out)
}
