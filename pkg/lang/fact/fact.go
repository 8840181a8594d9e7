package fact

import (
	"strings"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

// Sigil is the literal prefix marking a fact as conditional.
const Sigil = "$if "

// Fact is one parsed fact line. Facts are immutable once parsed.
type Fact struct {
	// Content is the fact text, with the condition stripped.
	Content string

	// Conditional reports whether the fact carried the "$if " sigil.
	Conditional bool

	// Expression is the condition source text; empty for plain facts.
	Expression string
}

// Parse splits a raw fact line into plain content or an expression/content
// pair. The sigil must appear at the start after trimming; everything
// before the first colon after the sigil (trimmed) is the expression,
// everything after it (trimmed) is the content.
func Parse(raw string) (Fact, error) {
	trimmed := strings.TrimSpace(raw)

	if !strings.HasPrefix(trimmed, Sigil) {
		return Fact{Content: trimmed}, nil
	}

	rest := trimmed[len(Sigil):]
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return Fact{}, langErrors.New(langErrors.TypeParse, trimmed,
			"conditional fact is missing the colon separating expression from content")
	}

	return Fact{
		Content:     strings.TrimSpace(rest[colon+1:]),
		Conditional: true,
		Expression:  strings.TrimSpace(rest[:colon]),
	}, nil
}
