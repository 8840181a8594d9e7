package regexsafe

import (
	"strings"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

// atomResult is the per-production result of the recursive descent.
// hasQuantifier taints any construct that contains a quantifier;
// isAnchor marks zero-width assertions that must not be quantified.
type atomResult struct {
	hasQuantifier bool
	isAnchor      bool
}

// allowedEscapes are the escape characters permitted after a backslash:
// shorthand classes, whitespace escapes, the word-boundary anchor, and
// literal-escaped regex specials.
const allowedEscapes = `dDwWsStnrb.\[](){}+*?^$|-/`

// Validate checks a regular expression pattern for structural safety.
// It returns nil if the pattern is safe to compile, or a regex_safety
// error describing the first unsafe or malformed construct found.
func Validate(pattern string) error {
	v := &validator{pattern: pattern}
	if _, err := v.parseAlternation(); err != nil {
		return err
	}
	if v.pos < len(v.pattern) {
		// Anything the grammar could not consume is a stray construct,
		// most commonly an unmatched ')'.
		return v.errorf("unexpected %q at position %d", v.pattern[v.pos], v.pos)
	}
	return nil
}

type validator struct {
	pattern string
	pos     int
}

func (v *validator) errorf(format string, args ...any) error {
	return langErrors.New(langErrors.TypeRegexSafety, v.pattern, format, args...)
}

func (v *validator) peek() (byte, bool) {
	if v.pos >= len(v.pattern) {
		return 0, false
	}
	return v.pattern[v.pos], true
}

// parseAlternation parses Sequence ('|' Sequence)*. Flags OR across
// branches: if any branch contains a quantifier, the alternation does.
func (v *validator) parseAlternation() (atomResult, error) {
	result, err := v.parseSequence()
	if err != nil {
		return atomResult{}, err
	}
	for {
		c, ok := v.peek()
		if !ok || c != '|' {
			return result, nil
		}
		v.pos++ // consume '|'
		branch, err := v.parseSequence()
		if err != nil {
			return atomResult{}, err
		}
		result.hasQuantifier = result.hasQuantifier || branch.hasQuantifier
		result.isAnchor = result.isAnchor || branch.isAnchor
	}
}

// parseSequence parses (Atom Quantifier?)* until end of input, '|', or ')'.
func (v *validator) parseSequence() (atomResult, error) {
	var result atomResult
	atoms := 0

	for {
		c, ok := v.peek()
		if !ok || c == '|' || c == ')' {
			break
		}

		atom, err := v.parseAtom()
		if err != nil {
			return atomResult{}, err
		}

		quantified, err := v.applyQuantifier(atom)
		if err != nil {
			return atomResult{}, err
		}

		result.hasQuantifier = result.hasQuantifier || quantified.hasQuantifier
		atoms++
		if atoms == 1 {
			result.isAnchor = quantified.isAnchor
		} else {
			// A multi-atom sequence is not itself an anchor.
			result.isAnchor = false
		}
	}

	return result, nil
}

// applyQuantifier consumes an optional quantifier following an atom and
// enforces the two quantification rules: anchors are zero-width and cannot
// be repeated, and an atom already containing a quantifier cannot be
// quantified again.
func (v *validator) applyQuantifier(atom atomResult) (atomResult, error) {
	start := v.pos
	if !v.consumeQuantifier() {
		return atom, nil
	}

	if atom.isAnchor {
		return atomResult{}, v.errorf("quantifier at position %d applied to zero-width anchor", start)
	}
	if atom.hasQuantifier {
		return atomResult{}, v.errorf("nested quantifier at position %d causes catastrophic backtracking", start)
	}

	// An optional '?' after a quantifier is the lazy modifier, not a
	// second quantifier.
	if c, ok := v.peek(); ok && c == '?' {
		v.pos++
	}

	// A second quantifier directly after the first repeats an already
	// repeated atom (e.g. "a{2,4}{1,2}" or "a++").
	second := v.pos
	if v.consumeQuantifier() {
		return atomResult{}, v.errorf("nested quantifier at position %d causes catastrophic backtracking", second)
	}

	return atomResult{hasQuantifier: true}, nil
}

// consumeQuantifier consumes '*', '+', '?', or a syntactically valid
// '{n}', '{n,}', '{n,m}' range and reports whether one was present.
// An invalid '{...}' is left unconsumed and treated as a literal brace
// by parseAtom.
func (v *validator) consumeQuantifier() bool {
	c, ok := v.peek()
	if !ok {
		return false
	}
	switch c {
	case '*', '+', '?':
		v.pos++
		return true
	case '{':
		if n, valid := v.rangeQuantifierLen(); valid {
			v.pos += n
			return true
		}
	}
	return false
}

// rangeQuantifierLen checks, by pure lookahead, whether the input at the
// current position is a valid range quantifier. It returns its length in
// bytes and whether it is valid.
func (v *validator) rangeQuantifierLen() (int, bool) {
	i := v.pos + 1 // past '{'
	digits := 0
	for i < len(v.pattern) && isDigit(v.pattern[i]) {
		digits++
		i++
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(v.pattern) && v.pattern[i] == ',' {
		i++
		for i < len(v.pattern) && isDigit(v.pattern[i]) {
			i++
		}
	}
	if i < len(v.pattern) && v.pattern[i] == '}' {
		return i + 1 - v.pos, true
	}
	return 0, false
}

// parseAtom parses a single atom: escape, character class, group, dot,
// anchor, or literal. It does not consume quantifiers.
func (v *validator) parseAtom() (atomResult, error) {
	c, ok := v.peek()
	if !ok {
		return atomResult{}, v.errorf("unexpected end of pattern")
	}

	switch c {
	case '\\':
		return v.parseEscape()

	case '[':
		return v.parseCharClass()

	case '(':
		return v.parseGroup()

	case '.':
		v.pos++
		return atomResult{}, nil

	case '^', '$':
		v.pos++
		return atomResult{isAnchor: true}, nil

	case '*', '+', '?':
		return atomResult{}, v.errorf("quantifier %q at position %d has no preceding atom", c, v.pos)

	case '{':
		if _, valid := v.rangeQuantifierLen(); valid {
			return atomResult{}, v.errorf("quantifier at position %d has no preceding atom", v.pos)
		}
		// Not a valid range quantifier: a literal brace.
		v.pos++
		return atomResult{}, nil

	default:
		v.pos++
		return atomResult{}, nil
	}
}

// parseEscape parses a backslash escape outside a character class.
func (v *validator) parseEscape() (atomResult, error) {
	start := v.pos
	v.pos++ // consume '\'
	c, ok := v.peek()
	if !ok {
		return atomResult{}, v.errorf("trailing backslash at position %d", start)
	}
	v.pos++

	if c >= '1' && c <= '9' {
		return atomResult{}, v.errorf("backreference \\%c at position %d is not allowed", c, start)
	}
	if !strings.ContainsRune(allowedEscapes, rune(c)) {
		return atomResult{}, v.errorf("unknown escape \\%c at position %d", c, start)
	}
	if c == 'b' {
		return atomResult{isAnchor: true}, nil
	}
	return atomResult{}, nil
}

// parseCharClass parses a [...] character class. The class as a whole is
// one atom; quantifiers never apply inside it. A leading '^' negates and
// a leading ']' is a literal.
func (v *validator) parseCharClass() (atomResult, error) {
	start := v.pos
	v.pos++ // consume '['

	if c, ok := v.peek(); ok && c == '^' {
		v.pos++
	}
	if c, ok := v.peek(); ok && c == ']' {
		v.pos++ // leading ']' is a literal member
	}

	for {
		c, ok := v.peek()
		if !ok {
			return atomResult{}, v.errorf("unterminated character class starting at position %d", start)
		}
		switch c {
		case ']':
			v.pos++
			return atomResult{}, nil
		case '\\':
			escStart := v.pos
			v.pos++
			ec, ok := v.peek()
			if !ok {
				return atomResult{}, v.errorf("trailing backslash at position %d", escStart)
			}
			v.pos++
			if ec >= '1' && ec <= '9' {
				return atomResult{}, v.errorf("backreference \\%c at position %d is not allowed", ec, escStart)
			}
			if !strings.ContainsRune(allowedEscapes, rune(ec)) {
				return atomResult{}, v.errorf("unknown escape \\%c at position %d", ec, escStart)
			}
		default:
			v.pos++
		}
	}
}

// parseGroup parses a parenthesized group. Only non-capturing groups
// "(?:...)" are permitted; everything else parenthesized is rejected with
// a construct-specific diagnostic.
func (v *validator) parseGroup() (atomResult, error) {
	start := v.pos
	v.pos++ // consume '('

	c, ok := v.peek()
	if !ok {
		return atomResult{}, v.errorf("unterminated group starting at position %d", start)
	}

	if c != '?' {
		return atomResult{}, v.errorf("capturing group at position %d is not allowed, use (?:...) instead", start)
	}
	v.pos++ // consume '?'

	c, ok = v.peek()
	if !ok {
		return atomResult{}, v.errorf("unterminated group starting at position %d", start)
	}

	switch c {
	case ':':
		v.pos++
	case '=':
		return atomResult{}, v.errorf("lookahead (?=...) at position %d is not allowed", start)
	case '!':
		return atomResult{}, v.errorf("negative lookahead (?!...) at position %d is not allowed", start)
	case '<':
		v.pos++
		c2, ok := v.peek()
		if !ok {
			return atomResult{}, v.errorf("unterminated group starting at position %d", start)
		}
		switch c2 {
		case '=':
			return atomResult{}, v.errorf("lookbehind (?<=...) at position %d is not allowed", start)
		case '!':
			return atomResult{}, v.errorf("negative lookbehind (?<!...) at position %d is not allowed", start)
		default:
			return atomResult{}, v.errorf("named group (?<name>...) at position %d is not allowed", start)
		}
	default:
		return atomResult{}, v.errorf("unsupported group syntax (?%c at position %d", c, start)
	}

	inner, err := v.parseAlternation()
	if err != nil {
		return atomResult{}, err
	}

	c, ok = v.peek()
	if !ok || c != ')' {
		return atomResult{}, v.errorf("unterminated group starting at position %d", start)
	}
	v.pos++ // consume ')'

	return inner, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
