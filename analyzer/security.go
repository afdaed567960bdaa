package analyzer

import (
	"regexp"
	"strings"
)

// securityRule is one vulnerability pattern. Rules are applied per
// line; Languages is empty for rules that apply everywhere.
type securityRule struct {
	id        string
	severity  Severity
	languages []string
	pattern   *regexp.Regexp
	message   string
}

var securityRules = []securityRule{
	{
		id: "os-command-injection", severity: SeverityBlocker,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`\bos\.system\s*\(`),
		message:   "os.system executes through the shell; use subprocess with an argument list",
	},
	{
		id: "dynamic-eval", severity: SeverityBlocker,
		pattern: regexp.MustCompile(`\beval\s*\(`),
		message: "eval of dynamic input allows arbitrary code execution",
	},
	{
		id: "dynamic-exec", severity: SeverityCritical,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`\bexec\s*\(`),
		message:   "exec of dynamic input allows arbitrary code execution",
	},
	{
		id: "subprocess-shell", severity: SeverityCritical,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`subprocess\.[A-Za-z_]+\(.*shell\s*=\s*True`),
		message:   "subprocess with shell=True is vulnerable to shell injection",
	},
	{
		id: "unsafe-pickle", severity: SeverityCritical,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`\bpickle\.loads?\s*\(`),
		message:   "unpickling untrusted data executes arbitrary code",
	},
	{
		id: "hardcoded-credentials", severity: SeverityCritical,
		pattern: regexp.MustCompile(`(?i)(password|passwd|secret|api_?key|token)\s*[:=]\s*["'][^"']{4,}["']`),
		message: "credential appears to be hardcoded",
	},
	{
		id: "sql-string-concat", severity: SeverityMajor,
		pattern: regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\b[^"']*["'][^"']*["']\s*\+|(?i)\+\s*["'][^"']*\b(FROM|WHERE|VALUES)\b`),
		message: "SQL built by string concatenation; use parameterized queries",
	},
	{
		id: "sql-format-string", severity: SeverityMajor,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`(?i)(execute|executemany)\s*\(\s*f?["'][^"']*(SELECT|INSERT|UPDATE|DELETE)[^"']*\{|%\s*\(`),
		message:   "SQL built by string formatting; use parameterized queries",
	},
	{
		id: "inner-html", severity: SeverityMajor,
		languages: []string{"javascript", "typescript"},
		pattern:   regexp.MustCompile(`\.innerHTML\s*=`),
		message:   "assigning to innerHTML with dynamic content enables XSS",
	},
	{
		id: "document-write", severity: SeverityMajor,
		languages: []string{"javascript", "typescript"},
		pattern:   regexp.MustCompile(`document\.write\s*\(`),
		message:   "document.write with dynamic content enables XSS",
	},
	{
		id: "weak-hash", severity: SeverityMajor,
		pattern: regexp.MustCompile(`(?i)\b(md5|sha1)\s*\(`),
		message: "weak hash algorithm; use SHA-256 or better",
	},
	{
		id: "insecure-temp", severity: SeverityMajor,
		languages: []string{"python"},
		pattern:   regexp.MustCompile(`\bos\.tempnam\s*\(|\bmktemp\s*\(`),
		message:   "insecure temporary file creation",
	},
}

// scanSecurity applies the vulnerability catalog line by line.
func scanSecurity(code, language string) []Finding {
	var findings []Finding
	for lineNo, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, language) {
			continue
		}
		for _, rule := range securityRules {
			if !rule.applies(language) {
				continue
			}
			if rule.pattern.MatchString(line) {
				findings = append(findings, Finding{
					Severity: rule.severity,
					Rule:     rule.id,
					Line:     lineNo + 1,
					Message:  rule.message,
				})
			}
		}
	}
	return findings
}

func (r securityRule) applies(language string) bool {
	if len(r.languages) == 0 {
		return true
	}
	for _, l := range r.languages {
		if l == language {
			return true
		}
	}
	return false
}

func isCommentLine(trimmed, language string) bool {
	switch language {
	case "python":
		return strings.HasPrefix(trimmed, "#")
	case "html", "css":
		return strings.HasPrefix(trimmed, "<!--") || strings.HasPrefix(trimmed, "/*")
	default:
		return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*")
	}
}
