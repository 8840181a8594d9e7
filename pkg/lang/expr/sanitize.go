package expr

import (
	"regexp"
	"strings"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

var (
	// allowedCharset restricts expressions to expression syntax: word
	// characters, whitespace, and the operator/literal punctuation the
	// grammar understands. Backticks, braces, semicolons and everything
	// else fail immediately.
	allowedCharset = regexp.MustCompile(`^[\w\s.,()\[\]!&|<>=+\-*/%?:"']+$`)

	// blockedKeywords are identifiers that must never appear in an
	// expression, even though they are alphanumeric and pass the charset
	// check. Defense in depth: the evaluator resolves identifiers only
	// against the supplied context, but a second independent layer means
	// a single weakness is not sufficient to escape the sandbox.
	blockedKeywords = []string{
		"eval", "Function", "constructor", "prototype", "__proto__",
		"import", "export", "require", "process", "global", "window",
		"document", "fetch", "XMLHttpRequest", "setTimeout", "setInterval",
		"Promise", "async", "await", "while", "for", "do", "class", "new",
		"this", "super", "return", "throw", "try", "catch", "finally",
		"delete", "typeof", "instanceof", "void", "in", "of", "let",
		"const", "var", "function",
	}

	// blockedSequences are literal character sequences rejected outright.
	// Most are already outside the charset; checking them here keeps the
	// two layers independent.
	blockedSequences = []string{"=>", ";", "{", "}"}

	blockedKeywordPattern = regexp.MustCompile(`\b(` + strings.Join(blockedKeywords, "|") + `)\b`)
)

// Sanitize checks an expression against the charset allowlist and the
// keyword blocklist. It returns the trimmed expression on success and a
// sanitization error naming the offending content otherwise.
func Sanitize(expression string) (string, error) {
	trimmed := strings.TrimSpace(expression)

	if !allowedCharset.MatchString(trimmed) {
		return "", langErrors.New(langErrors.TypeSanitization, trimmed,
			"expression is empty or contains disallowed characters")
	}

	for _, seq := range blockedSequences {
		if strings.Contains(trimmed, seq) {
			return "", langErrors.New(langErrors.TypeSanitization, trimmed,
				"expression contains blocked sequence %q", seq)
		}
	}

	if match := blockedKeywordPattern.FindString(trimmed); match != "" {
		return "", langErrors.New(langErrors.TypeSanitization, trimmed,
			"expression contains blocked keyword %q", match)
	}

	return trimmed, nil
}
