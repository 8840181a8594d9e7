package expr

import (
	"strings"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenIdent
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenComma
	tokenDot
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// multiCharOperators are matched before single characters so that "<=" is
// one token, not "<" followed by "=".
var multiCharOperators = []string{"&&", "||", "==", "!=", "<=", ">="}

const singleCharOperators = "!<>+-*/%?:"

// lex scans a sanitized expression into tokens. The sanitizer has already
// restricted the character set, so anything unexpected here is a grammar
// problem, reported as a compilation error.
func lex(source string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(source) {
		c := source[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c >= '0' && c <= '9':
			start := i
			for i < len(source) && isDigitByte(source[i]) {
				i++
			}
			if i < len(source) && source[i] == '.' && i+1 < len(source) && isDigitByte(source[i+1]) {
				i++
				for i < len(source) && isDigitByte(source[i]) {
					i++
				}
			}
			tokens = append(tokens, token{tokenNumber, source[start:i], start})

		case isIdentStart(c):
			start := i
			for i < len(source) && isIdentPart(source[i]) {
				i++
			}
			tokens = append(tokens, token{tokenIdent, source[start:i], start})

		case c == '\'' || c == '"':
			start := i
			i++
			for i < len(source) && source[i] != c {
				i++
			}
			if i >= len(source) {
				return nil, langErrors.New(langErrors.TypeCompilation, source,
					"unterminated string literal at position %d", start)
			}
			tokens = append(tokens, token{tokenString, source[start+1 : i], start})
			i++ // closing quote

		case c == '(':
			tokens = append(tokens, token{tokenLeftParen, "(", i})
			i++

		case c == ')':
			tokens = append(tokens, token{tokenRightParen, ")", i})
			i++

		case c == ',':
			tokens = append(tokens, token{tokenComma, ",", i})
			i++

		case c == '.':
			tokens = append(tokens, token{tokenDot, ".", i})
			i++

		default:
			if op := matchOperator(source[i:]); op != "" {
				tokens = append(tokens, token{tokenOperator, op, i})
				i += len(op)
				continue
			}
			return nil, langErrors.New(langErrors.TypeCompilation, source,
				"unexpected character %q at position %d", c, i)
		}
	}

	tokens = append(tokens, token{tokenEOF, "", len(source)})
	return tokens, nil
}

func matchOperator(s string) string {
	for _, op := range multiCharOperators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	if len(s) > 0 && strings.IndexByte(singleCharOperators, s[0]) >= 0 {
		return s[:1]
	}
	return ""
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigitByte(c)
}
