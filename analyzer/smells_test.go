package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func findRule(findings []Finding, rule string) *Finding {
	for i := range findings {
		if findings[i].Rule == rule {
			return &findings[i]
		}
	}
	return nil
}

func TestScanSmellsLongFunction(t *testing.T) {
	var b strings.Builder
	b.WriteString("def long_one():\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "    x = %d\n", i%3)
	}
	b.WriteString("def after():\n    pass\n")

	findings := scanSmells(b.String(), "python")
	f := findRule(findings, "long-function")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMajor, f.Severity)
	assert.Equal(t, 1, f.Line)
}

func TestScanSmellsTooManyParameters(t *testing.T) {
	code := "def wide(a, b, c, d, e, f, g, h):\n    pass\n"
	findings := scanSmells(code, "python")
	f := findRule(findings, "too-many-parameters")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMajor, f.Severity)
}

func TestScanSmellsMagicNumber(t *testing.T) {
	findings := scanSmells("timeout = 30000\n", "python")
	f := findRule(findings, "magic-number")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMinor, f.Severity)

	// Short literals are not magic.
	findings = scanSmells("x = 42\n", "python")
	assert.Nil(t, findRule(findings, "magic-number"))
}

func TestScanSmellsMagicNumberSkipsCommonValues(t *testing.T) {
	for _, code := range []string{
		"if status == 200:\n    pass\n",
		"limit = 1000\n",
		"year = 2024\n",
	} {
		findings := scanSmells(code, "python")
		assert.Nil(t, findRule(findings, "magic-number"), code)
	}
}

func TestScanSmellsDuplicateCode(t *testing.T) {
	code := strings.Join([]string{
		"result = compute_totals(order, discounts)",
		"log.info(result)",
		"result = compute_totals(order, discounts)",
	}, "\n")

	findings := scanSmells(code, "python")
	f := findRule(findings, "duplicate-code")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMinor, f.Severity)
	assert.Equal(t, 3, f.Line)
	assert.Contains(t, f.Message, "line 1")
}

func TestScanSmellsDuplicateCodeOutsideWindow(t *testing.T) {
	var b strings.Builder
	b.WriteString("result = compute_totals(order, discounts)\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "step_%d()\n", i)
	}
	b.WriteString("result = compute_totals(order, discounts)\n")

	findings := scanSmells(b.String(), "python")
	assert.Nil(t, findRule(findings, "duplicate-code"))
}

func TestScanSmellsUnusedVariable(t *testing.T) {
	code := strings.Join([]string{
		"def handler(payload):",
		"    leftover = payload.get('extra')",
		"    total = payload.get('total')",
		"    return total",
	}, "\n")

	findings := scanSmells(code, "python")
	f := findRule(findings, "unused-variable")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMinor, f.Severity)
	assert.Equal(t, 2, f.Line)
	assert.Contains(t, f.Message, "leftover")
}

func TestScanSmellsUnusedVariableSkipsUnderscore(t *testing.T) {
	code := "_ignored = load()\nvalue = 1\nprint(value)\n"
	findings := scanSmells(code, "python")
	assert.Nil(t, findRule(findings, "unused-variable"))
}

func TestScanSmellsEmptyExceptBlock(t *testing.T) {
	code := strings.Join([]string{
		"try:",
		"    risky()",
		"except:",
		"    pass",
	}, "\n")

	findings := scanSmells(code, "python")
	f := findRule(findings, "empty-catch-block")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMajor, f.Severity)
	assert.Equal(t, 3, f.Line)
}

func TestScanSmellsEmptyCatchJavaScript(t *testing.T) {
	code := "try { risky(); } catch (err) {}\n"
	findings := scanSmells(code, "javascript")
	assert.NotNil(t, findRule(findings, "empty-catch-block"))
}

func TestScanSmellsClassLength(t *testing.T) {
	var b strings.Builder
	b.WriteString("class Sprawling:\n")
	for i := 0; i < 320; i++ {
		fmt.Fprintf(&b, "    def method_%d(self):\n", i)
	}
	b.WriteString("top_level()\n")

	findings := scanSmells(b.String(), "python")
	f := findRule(findings, "class-length")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityMajor, f.Severity)
	assert.Equal(t, 1, f.Line)
	assert.Contains(t, f.Message, "Sprawling")
}

func TestScanSmellsSmallClassNotFlagged(t *testing.T) {
	code := "class Point:\n    def __init__(self):\n        self.x = 0\n"
	findings := scanSmells(code, "python")
	assert.Nil(t, findRule(findings, "class-length"))
}

func TestScanSmellsTodoComment(t *testing.T) {
	findings := scanSmells("# TODO handle the error path\nx = 1\n", "python")
	f := findRule(findings, "todo-comment")
	assert.NotNil(t, f)
	assert.Equal(t, SeverityInfo, f.Severity)
}

func TestScanSmellsLargeFile(t *testing.T) {
	code := strings.Repeat("x = 1\n", 320)
	findings := scanSmells(code, "python")
	assert.NotNil(t, findRule(findings, "large-file"))
}

func TestScanSmellsCleanCode(t *testing.T) {
	findings := scanSmells("def add(a, b):\n    return a + b\n", "python")
	assert.Empty(t, findings)
}

func TestCyclomaticComplexity(t *testing.T) {
	code := []string{
		"def f(x):",
		"    if x > 0:",
		"        return 1",
		"    elif x < 0:",
		"        return -1",
		"    return 0",
	}
	// Two decisions plus one function.
	assert.Equal(t, 3, cyclomaticComplexity(code, "python", 1))
}

func TestCognitiveComplexityPenalizesNesting(t *testing.T) {
	flat := []string{
		"if a:",
		"    pass",
		"if b:",
		"    pass",
	}
	nested := []string{
		"if a:",
		"    if b:",
		"        if c:",
		"            pass",
	}
	flatScore := cognitiveComplexity(flat, "python")
	nestedScore := cognitiveComplexity(nested, "python")
	assert.Greater(t, nestedScore, flatScore)
}
