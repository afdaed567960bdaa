package strategy

import (
	"fmt"
	"strings"
)

// Judge system prompts. Kept close to the MT-Bench judging conventions:
// an impartial-judge framing, explicit output shape, and for pairwise
// comparison a bracketed verdict token.
const (
	singleJudgeSystem = `You are an impartial judge evaluating the quality of an AI assistant's response to a user question. Consider helpfulness, relevance, accuracy, depth and level of detail. Be objective. Do not let the length of the response influence your evaluation.

Respond in exactly this format:
Score: <number 0-10>
Strengths: <what the response does well>
Weaknesses: <what the response does poorly>
Explanation: <your overall reasoning>`

	pairwiseJudgeSystem = `You are an impartial judge comparing two AI assistant responses to the same user question. Evaluate which response answers the question better. Do not let the order of presentation, the length of the responses, or the assistant names influence your decision.

After your comparison, output your verdict on the final line: "[[A]]" if assistant A is better, "[[B]]" if assistant B is better, or "[[C]]" for a tie.

Respond in exactly this format:
Score A: <number 0-10>
Score B: <number 0-10>
Explanation: <your comparison reasoning>
Verdict: [[A]] or [[B]] or [[C]]`

	metricJudgeSystem = `You are an impartial judge scoring one specific quality dimension of an AI assistant's response. Score only the requested dimension and ignore everything else about the response.

Respond in exactly this format:
%s: <number 0-10>
Explanation: <your reasoning>`

	solveSystem = `You are an expert assistant. Solve the following problem yourself, concisely and correctly. Output only your solution.`
)

// titleLabel capitalizes each word of a metric label for prompt text.
func titleLabel(label string) string {
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// verbosityGapWords is the response length difference, in words, above
// which the pairwise prompt carries an explicit length warning.
const verbosityGapWords = 20

// fewShotExamples is the worked-comparison block for few-shot pairwise
// judging.
const fewShotExamples = `Here are examples of good comparison judgments:

Example 1:
Question: What is 15% of 80?
Assistant A: 15% of 80 is 12. You multiply 80 by 0.15.
Assistant B: The answer is 10.
Judgment: Assistant A computes the correct value and shows the method. Assistant B is wrong.
Score A: 9
Score B: 2
Verdict: [[A]]

Example 2:
Question: Name the capital of Australia.
Assistant A: Canberra.
Assistant B: The capital of Australia is Canberra, not Sydney as many assume.
Judgment: Both are correct; B adds a useful clarification without padding.
Score A: 8
Score B: 9
Verdict: [[B]]

Now judge the following comparison the same way.`

func buildSinglePrompt(req SingleRequest) string {
	var b strings.Builder
	if req.TaskType != "" {
		fmt.Fprintf(&b, "Task type: %s\n\n", req.TaskType)
	}
	fmt.Fprintf(&b, "[Question]\n%s\n\n", req.Question)
	if req.Reference != "" {
		fmt.Fprintf(&b, "[Reference Answer]\n%s\n\n", req.Reference)
	}
	fmt.Fprintf(&b, "[Assistant's Response]\n%s", req.Response)
	return b.String()
}

// buildPairwisePrompt renders the comparison with first shown as
// assistant A. Callers swap the arguments for the order-swapped call.
func buildPairwisePrompt(req PairwiseRequest, first, second, firstLabel, secondLabel, solution string) string {
	var b strings.Builder

	if req.FewShot {
		b.WriteString(fewShotExamples)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "[Question]\n%s\n\n", req.Question)

	if req.Reference != "" {
		fmt.Fprintf(&b, "[Reference Answer]\n%s\n\n", req.Reference)
	}
	if solution != "" {
		fmt.Fprintf(&b, "[Your Own Solution]\n%s\n\n", solution)
	}

	if note := verbosityNote(first, second); note != "" {
		b.WriteString(note)
		b.WriteString("\n\n")
	}

	labelA := "Assistant A"
	if firstLabel != "" {
		labelA = fmt.Sprintf("Assistant A (%s)", firstLabel)
	}
	labelB := "Assistant B"
	if secondLabel != "" {
		labelB = fmt.Sprintf("Assistant B (%s)", secondLabel)
	}

	fmt.Fprintf(&b, "[%s's Response]\n%s\n\n", labelA, first)
	fmt.Fprintf(&b, "[%s's Response]\n%s", labelB, second)
	return b.String()
}

// verbosityNote warns the judge when the two responses differ widely in
// length, since longer answers otherwise attract inflated scores.
func verbosityNote(a, b string) string {
	wa, wb := len(strings.Fields(a)), len(strings.Fields(b))
	diff := wa - wb
	if diff < 0 {
		diff = -diff
	}
	if diff <= verbosityGapWords {
		return ""
	}
	return fmt.Sprintf("Note: the responses differ in length (%d vs %d words). Judge content quality, not length.", wa, wb)
}

// metricPrompt asks for one metric of the given response.
func metricPrompt(question, response, label, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", instruction)
	fmt.Fprintf(&b, "[Question]\n%s\n\n", question)
	fmt.Fprintf(&b, "[Assistant's Response]\n%s\n\n", response)
	fmt.Fprintf(&b, "Report your score as \"%s: <number>\".", label)
	return b.String()
}

func buildSkillsPrompt(req SkillsRequest) string {
	focus := skillFocus(req.Skill)
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate the response with respect to the %s skill.", req.Skill)
	if req.Domain != "" {
		fmt.Fprintf(&b, " Domain context: %s.", req.Domain)
	}
	fmt.Fprintf(&b, "\n%s\n\n", focus)
	fmt.Fprintf(&b, "[Question]\n%s\n\n", req.Question)
	fmt.Fprintf(&b, "[Assistant's Response]\n%s\n\n", req.Response)
	b.WriteString(`Score each dimension on 0-10 in exactly this format:
Correctness: <number>
Completeness: <number>
Clarity: <number>
Proficiency: <number>
Explanation: <your reasoning>`)
	return b.String()
}

// skillFocus selects the assessment emphasis for a skill area. Unknown
// skills get the general wording.
func skillFocus(skill string) string {
	switch strings.ToLower(strings.TrimSpace(skill)) {
	case "mathematics", "math":
		return "Check the computation step by step. A wrong final value caps correctness regardless of the working shown."
	case "coding", "code", "programming":
		return "Check that the code is correct, handles edge cases, and follows the language's conventions."
	case "reasoning", "logic":
		return "Check that each inference follows from the previous one and that no step is skipped or circular."
	default:
		return "Check factual accuracy, coverage of the question, and how clearly the answer is communicated."
	}
}

func buildRouterPrompt(req RouterRequest) string {
	var b strings.Builder
	b.WriteString("Evaluate a tool-routing decision made by an AI agent.\n\n")
	fmt.Fprintf(&b, "[User Query]\n%s\n\n", req.Query)

	b.WriteString("[Available Tools]\n")
	for _, tool := range req.Tools {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name, tool.Description)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "[Selected Tool]\n%s\n\n", req.SelectedTool)
	if req.Reasoning != "" {
		fmt.Fprintf(&b, "[Router's Reasoning]\n%s\n\n", req.Reasoning)
	}

	if req.ExpectedTool != "" {
		fmt.Fprintf(&b, "[Expected Tool]\n%s\n\nJudge tool accuracy as an explicit match: did the router pick the expected tool?\n\n", req.ExpectedTool)
	} else {
		b.WriteString("No expected tool is given. Judge from the tool descriptions alone whether the selected tool is the best fit for the query.\n\n")
	}

	b.WriteString(`Score each dimension on 0-10 in exactly this format:
Tool Accuracy: <number>
Routing Quality: <number>
Reasoning Quality: <number>
Explanation: <your reasoning>`)
	return b.String()
}

func buildTrajectoryPrompt(req TrajectoryRequest) string {
	var b strings.Builder
	b.WriteString("Evaluate the trajectory an AI agent followed to complete a task. Step order matters.\n\n")
	fmt.Fprintf(&b, "[Task]\n%s\n\n", req.Task)

	b.WriteString("[Actual Trajectory]\n")
	writeTrajectory(&b, req.Steps)
	b.WriteString("\n")

	if len(req.Expected) > 0 {
		b.WriteString("[Expected Trajectory]\n")
		writeTrajectory(&b, req.Expected)
		b.WriteString("\nCompare the actual trajectory against the expected one, in order.\n\n")
	}

	if req.FinalAnswer != "" {
		fmt.Fprintf(&b, "[Final Answer]\n%s\n\n", req.FinalAnswer)
	}

	b.WriteString(`Score each dimension on 0-10 in exactly this format:
Step Quality: <number>
Path Efficiency: <number>
Reasoning Chain: <number>
Planning Quality: <number>
Explanation: <your reasoning>`)
	return b.String()
}

// writeTrajectory renders steps in request order, one line per step.
func writeTrajectory(b *strings.Builder, steps []TrajectoryStep) {
	for i, step := range steps {
		fmt.Fprintf(b, "Step %d: %s - %s\n", i+1, step.Action, step.Description)
	}
}

func buildCustomMetricPrompt(req CustomMetricRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate the response on the metric %q.\n\n", req.MetricName)
	fmt.Fprintf(&b, "[Criteria]\n%s\n\n", req.Criteria)
	fmt.Fprintf(&b, "[Question]\n%s\n\n", req.Question)
	fmt.Fprintf(&b, "[Assistant's Response]\n%s\n\n", req.Response)
	fmt.Fprintf(&b, "Score on a scale from %g (worst) to %g (best), in exactly this format:\n", req.ScaleMin, req.ScaleMax)
	fmt.Fprintf(&b, "%s: <number>\nExplanation: <your reasoning>", req.MetricName)
	return b.String()
}
