package analyzer

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"
)

// checkSyntax validates code for the given language. Go gets a real
// parse; the other languages get structural pattern checks. An unknown
// language passes with a warning rather than failing, since the rest of
// the report is still useful.
func checkSyntax(code, language string) SyntaxCheck {
	if strings.TrimSpace(code) == "" {
		return SyntaxCheck{Valid: false, Errors: []string{"empty code"}}
	}

	switch language {
	case "go":
		return checkGoSyntax(code)
	case "python":
		return checkPythonSyntax(code)
	case "javascript", "typescript", "java", "kotlin", "swift", "objc":
		return checkBraceLanguageSyntax(code, language)
	case "css":
		return checkDelimiters(code, '{', '}')
	case "html":
		return checkHTMLSyntax(code)
	default:
		return SyntaxCheck{
			Valid:    true,
			Warnings: []string{fmt.Sprintf("no syntax checker for language %q, structural checks skipped", language)},
		}
	}
}

// checkGoSyntax parses the sample with go/parser. Snippets without a
// package clause are wrapped into one so function-level samples parse.
func checkGoSyntax(code string) SyntaxCheck {
	src := code
	if !strings.Contains(code, "package ") {
		src = "package main\n\n" + code
	}

	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "sample.go", src, parser.AllErrors)
	if err != nil {
		return SyntaxCheck{Valid: false, Errors: splitParseErrors(err)}
	}
	return SyntaxCheck{Valid: true}
}

func splitParseErrors(err error) []string {
	lines := strings.Split(err.Error(), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// checkPythonSyntax applies indentation and delimiter heuristics.
func checkPythonSyntax(code string) SyntaxCheck {
	var check SyntaxCheck
	check.Valid = true

	if err := balanced(code, '(', ')'); err != "" {
		check.Valid = false
		check.Errors = append(check.Errors, err)
	}
	if err := balanced(code, '[', ']'); err != "" {
		check.Valid = false
		check.Errors = append(check.Errors, err)
	}
	if err := balanced(code, '{', '}'); err != "" {
		check.Valid = false
		check.Errors = append(check.Errors, err)
	}

	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, ":") {
			continue
		}
		// A block keyword must open a block with a colon.
		stripped := strings.TrimSpace(line)
		for _, kw := range []string{"def ", "class ", "if ", "elif ", "for ", "while ", "with ", "try", "except", "else", "finally"} {
			if strings.HasPrefix(stripped, kw) && !strings.Contains(stripped, ":") {
				check.Warnings = append(check.Warnings,
					fmt.Sprintf("line %d: block statement without colon", i+1))
				break
			}
		}
	}
	return check
}

// checkBraceLanguageSyntax validates delimiter balance for C-family
// languages.
func checkBraceLanguageSyntax(code, language string) SyntaxCheck {
	var check SyntaxCheck
	check.Valid = true
	for _, pair := range [][2]rune{{'{', '}'}, {'(', ')'}, {'[', ']'}} {
		if err := balanced(code, pair[0], pair[1]); err != "" {
			check.Valid = false
			check.Errors = append(check.Errors, err)
		}
	}
	if language == "java" && !strings.Contains(code, "class ") && !strings.Contains(code, "interface ") {
		check.Warnings = append(check.Warnings, "no class or interface declaration found")
	}
	return check
}

func checkDelimiters(code string, open, close rune) SyntaxCheck {
	if err := balanced(code, open, close); err != "" {
		return SyntaxCheck{Valid: false, Errors: []string{err}}
	}
	return SyntaxCheck{Valid: true}
}

func checkHTMLSyntax(code string) SyntaxCheck {
	var check SyntaxCheck
	check.Valid = true
	opens := strings.Count(code, "<") - strings.Count(code, "</") - strings.Count(code, "/>")
	closes := strings.Count(code, "</")
	if opens < closes {
		check.Warnings = append(check.Warnings, "more closing tags than opening tags")
	}
	if err := balanced(code, '<', '>'); err != "" {
		check.Valid = false
		check.Errors = append(check.Errors, err)
	}
	return check
}

// balanced checks delimiter pairing outside of string literals and
// line comments. Returns an empty string when balanced.
func balanced(code string, open, close rune) string {
	depth := 0
	inString := false
	var quote rune
	inComment := false

	for _, r := range code {
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case inString:
			if r == quote {
				inString = false
			}
		case r == '"' || r == '\'' || r == '`':
			inString = true
			quote = r
		case r == '#' && open != '<':
			inComment = true
		case r == open:
			depth++
		case r == close:
			depth--
			if depth < 0 {
				return fmt.Sprintf("unbalanced %c%c: unexpected %c", open, close, close)
			}
		}
	}
	if depth != 0 {
		return fmt.Sprintf("unbalanced %c%c: %d unclosed", open, close, depth)
	}
	return ""
}
