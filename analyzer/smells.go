package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Smell thresholds.
const (
	longFunctionLines  = 50
	largeFileLines     = 300
	largeClassLines    = 300
	maxParameters      = 7
	longLineLength     = 120
	deepNestingLevel   = 4
	duplicateMinLength = 20
	duplicateWindow    = 10
)

var (
	// magicNumberRe matches bare numeric literals of three or more
	// digits outside of obvious version-like contexts.
	magicNumberRe = regexp.MustCompile(`(?:^|[^\w.])([0-9]{3,})(?:[^\w.]|$)`)

	// commonNumbers are round values and recent years that read fine
	// as literals.
	commonNumbers = map[string]bool{
		"100": true, "200": true, "300": true, "400": true, "500": true,
		"1000": true, "2000": true,
		"2020": true, "2021": true, "2022": true, "2023": true,
		"2024": true, "2025": true,
	}

	todoRe = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX)\b`)

	assignmentRe = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=(?:[^=]|$)`)
	identifierRe = regexp.MustCompile(`[A-Za-z_]\w*`)

	classStartRe = regexp.MustCompile(`^\s*class\s+(\w+)`)

	emptyCatchRes = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`except[^:\n]*:\s*pass\b`),
		"javascript": regexp.MustCompile(`catch\s*(?:\([^)]*\)\s*)?\{\s*\}`),
		"typescript": regexp.MustCompile(`catch\s*(?:\([^)]*\)\s*)?\{\s*\}`),
		"java":       regexp.MustCompile(`catch\s*\([^)]+\)\s*\{\s*\}`),
	}

	funcStartRes = map[string]*regexp.Regexp{
		"python":     regexp.MustCompile(`^\s*def\s+\w+\s*\(([^)]*)\)`),
		"go":         regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?\w+\s*\(([^)]*)\)`),
		"javascript": regexp.MustCompile(`^\s*(?:function\s+\w+|\w+\s*=\s*(?:async\s*)?function|\w+\s*=\s*\(([^)]*)\)\s*=>|(?:async\s+)?function)\s*\(([^)]*)\)?`),
	}
)

// scanSmells applies the code-smell catalog.
func scanSmells(code, language string) []Finding {
	var findings []Finding
	lines := strings.Split(code, "\n")

	if len(lines) > largeFileLines {
		findings = append(findings, Finding{
			Severity: SeverityMajor, Rule: "large-file", Line: 1,
			Message: fmt.Sprintf("file has %d lines, above the %d-line threshold", len(lines), largeFileLines),
		})
	}

	findings = append(findings, functionSmells(lines, language)...)
	findings = append(findings, duplicateSmells(lines, language)...)
	findings = append(findings, emptyCatchSmells(code, language)...)
	if language == "python" {
		findings = append(findings, unusedVariableSmells(lines)...)
		findings = append(findings, classLengthSmells(lines)...)
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if len(line) > longLineLength {
			findings = append(findings, Finding{
				Severity: SeverityMinor, Rule: "long-line", Line: i + 1,
				Message: fmt.Sprintf("line is %d characters long", len(line)),
			})
		}

		if todoRe.MatchString(line) && isCommentLine(trimmed, language) {
			findings = append(findings, Finding{
				Severity: SeverityInfo, Rule: "todo-comment", Line: i + 1,
				Message: "unresolved TODO/FIXME marker",
			})
		}

		if !isCommentLine(trimmed, language) && hasMagicNumber(line) {
			findings = append(findings, Finding{
				Severity: SeverityMinor, Rule: "magic-number", Line: i + 1,
				Message: "bare numeric literal; name the constant",
			})
		}

		if nestingDepth(line, language) >= deepNestingLevel {
			findings = append(findings, Finding{
				Severity: SeverityMinor, Rule: "deep-nesting", Line: i + 1,
				Message: fmt.Sprintf("nesting depth %d or more", deepNestingLevel),
			})
		}
	}

	return findings
}

// functionSmells detects over-long functions and over-wide parameter
// lists by structural scanning.
func functionSmells(lines []string, language string) []Finding {
	re, ok := funcStartRes[language]
	if !ok {
		re = funcStartRes["javascript"]
	}

	var findings []Finding
	funcStart := -1
	funcIndent := 0

	closeFunc := func(end int) {
		if funcStart < 0 {
			return
		}
		length := end - funcStart
		if length > longFunctionLines {
			findings = append(findings, Finding{
				Severity: SeverityMajor, Rule: "long-function", Line: funcStart + 1,
				Message: fmt.Sprintf("function is %d lines long, above the %d-line threshold", length, longFunctionLines),
			})
		}
		funcStart = -1
	}

	for i, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			if funcStart >= 0 && language == "python" {
				trimmed := strings.TrimSpace(line)
				if trimmed != "" && indentOf(line) <= funcIndent {
					closeFunc(i)
				}
			}
			continue
		}

		closeFunc(i)
		funcStart = i
		funcIndent = indentOf(line)

		params := ""
		for _, g := range m[1:] {
			if g != "" {
				params = g
				break
			}
		}
		if n := countParams(params); n > maxParameters {
			findings = append(findings, Finding{
				Severity: SeverityMajor, Rule: "too-many-parameters", Line: i + 1,
				Message: fmt.Sprintf("function takes %d parameters, above the %d-parameter threshold", n, maxParameters),
			})
		}
	}
	closeFunc(len(lines))

	return findings
}

// hasMagicNumber reports whether a line carries a 3+ digit literal
// that is not one of the common round values or recent years.
func hasMagicNumber(line string) bool {
	for _, m := range magicNumberRe.FindAllStringSubmatch(line, -1) {
		if !commonNumbers[m[1]] {
			return true
		}
	}
	return false
}

// duplicateSmells flags substantial lines repeated within a short
// window of their previous occurrence.
func duplicateSmells(lines []string, language string) []Finding {
	var findings []Finding
	seen := make(map[string]int)

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if len(stripped) <= duplicateMinLength || isCommentLine(stripped, language) {
			continue
		}
		if prev, ok := seen[stripped]; ok && i+1-prev < duplicateWindow {
			findings = append(findings, Finding{
				Severity: SeverityMinor, Rule: "duplicate-code", Line: i + 1,
				Message: fmt.Sprintf("duplicate code, identical to line %d", prev),
			})
		}
		seen[stripped] = i + 1
	}
	return findings
}

// emptyCatchSmells flags exception handlers whose body does nothing.
func emptyCatchSmells(code, language string) []Finding {
	re, ok := emptyCatchRes[language]
	if !ok {
		return nil
	}

	var findings []Finding
	for _, loc := range re.FindAllStringIndex(code, -1) {
		findings = append(findings, Finding{
			Severity: SeverityMajor, Rule: "empty-catch-block",
			Line:    strings.Count(code[:loc[0]], "\n") + 1,
			Message: "empty catch/except block; at least log the error",
		})
	}
	return findings
}

// unusedVariableSmells flags simple assignments whose target is never
// read afterwards. Names starting with underscore are intentionally
// unused and skipped.
func unusedVariableSmells(lines []string) []Finding {
	defined := make(map[string]int)
	used := make(map[string]bool)

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || isCommentLine(stripped, "python") {
			continue
		}

		rest := line
		if m := assignmentRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if _, ok := defined[name]; !ok {
				defined[name] = i + 1
			}
			rest = line[strings.Index(line, "=")+1:]
		}
		for _, id := range identifierRe.FindAllString(rest, -1) {
			used[id] = true
		}
	}

	var findings []Finding
	for name, line := range defined {
		if used[name] || strings.HasPrefix(name, "_") {
			continue
		}
		findings = append(findings, Finding{
			Severity: SeverityMinor, Rule: "unused-variable", Line: line,
			Message: fmt.Sprintf("variable %q is assigned but never used", name),
		})
	}
	sortFindingsByLine(findings)
	return findings
}

// classLengthSmells flags classes longer than the threshold, scanning
// class bodies by indentation.
func classLengthSmells(lines []string) []Finding {
	var findings []Finding
	classStart := -1
	classIndent := 0
	className := ""

	closeClass := func(end int) {
		if classStart < 0 {
			return
		}
		if length := end - classStart; length > largeClassLines {
			findings = append(findings, Finding{
				Severity: SeverityMajor, Rule: "class-length", Line: classStart + 1,
				Message: fmt.Sprintf("class %q is %d lines long, above the %d-line threshold", className, length, largeClassLines),
			})
		}
		classStart = -1
	}

	for i, line := range lines {
		m := classStartRe.FindStringSubmatch(line)
		if m == nil {
			if classStart >= 0 {
				if trimmed := strings.TrimSpace(line); trimmed != "" && indentOf(line) <= classIndent {
					closeClass(i)
				}
			}
			continue
		}
		closeClass(i)
		classStart = i
		classIndent = indentOf(line)
		className = m[1]
	}
	closeClass(len(lines))

	return findings
}

func sortFindingsByLine(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })
}

func countParams(params string) int {
	params = strings.TrimSpace(params)
	if params == "" {
		return 0
	}
	return len(strings.Split(params, ","))
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// nestingDepth estimates a line's nesting level from its indentation,
// assuming 4-space (or tab) indents.
func nestingDepth(line, language string) int {
	_ = language
	return indentOf(line) / 4
}
