package expr

import (
	"strconv"

	langErrors "sigil-hq/sigil/pkg/lang/errors"
)

// node is one node of the compiled expression AST. Evaluation is strictly
// against the supplied context; nodes hold no state of their own, which is
// what makes compiled predicates pure and safely shareable.
type node interface {
	eval(ctx Context) (any, error)
}

type literalNode struct {
	value any
}

type identNode struct {
	name   string
	source string
}

// fieldNode is one-level access into a plain record, e.g. time.hour.
// Deeper chains are rejected at parse time.
type fieldNode struct {
	base   string
	field  string
	source string
}

type callNode struct {
	name   string
	args   []node
	source string
}

type unaryNode struct {
	op     string
	operand node
	source string
}

type binaryNode struct {
	op          string
	left, right node
	source      string
}

type ternaryNode struct {
	cond, then, els node
	source          string
}

// parser is a recursive-descent parser over the sanitized token stream.
type parser struct {
	source string
	tokens []token
	pos    int
}

// parse turns a sanitized expression into an AST.
func parse(source string) (node, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}

	p := &parser{source: source, tokens: tokens}
	root, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.kind != tokenEOF {
		return nil, p.errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
	return root, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return langErrors.New(langErrors.TypeCompilation, p.source, format, args...)
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) acceptOperator(ops ...string) (string, bool) {
	tok := p.current()
	if tok.kind != tokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.advance()
			return op, true
		}
	}
	return "", false
}

// parseTernary parses cond ? then : else, right-associative.
func (p *parser) parseTernary() (node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if _, ok := p.acceptOperator("?"); !ok {
		return cond, nil
	}

	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOperator(":"); !ok {
		return nil, p.errorf("expected ':' in ternary expression at position %d", p.current().pos)
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, then: then, els: els, source: p.source}, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOperator("||"); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "||", left: left, right: right, source: p.source}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOperator("&&"); !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "&&", left: left, right: right, source: p.source}
	}
}

func (p *parser) parseEquality() (node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOperator("==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, source: p.source}
	}
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOperator("<=", ">=", "<", ">")
		if !ok {
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, source: p.source}
	}
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOperator("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, source: p.source}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOperator("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, source: p.source}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOperator("!", "-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand, source: p.source}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.current()

	switch tok.kind {
	case tokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q at position %d", tok.text, tok.pos)
		}
		return &literalNode{value: value}, nil

	case tokenString:
		p.advance()
		return &literalNode{value: tok.text}, nil

	case tokenLeftParen:
		p.advance()
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if p.current().kind != tokenRightParen {
			return nil, p.errorf("missing closing parenthesis at position %d", p.current().pos)
		}
		p.advance()
		return inner, nil

	case tokenIdent:
		p.advance()
		switch tok.text {
		case "true":
			return &literalNode{value: true}, nil
		case "false":
			return &literalNode{value: false}, nil
		case "null":
			return &literalNode{value: nil}, nil
		}
		return p.parseIdentSuffix(tok)

	case tokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
}

// parseIdentSuffix handles what may follow an identifier: a call, a single
// field access, or nothing. Property chains deeper than one level are
// rejected here, which is what makes a member-name blocklist unnecessary:
// the host's reflective machinery is simply not reachable in the grammar.
func (p *parser) parseIdentSuffix(ident token) (node, error) {
	switch p.current().kind {
	case tokenLeftParen:
		p.advance()
		var args []node
		if p.current().kind != tokenRightParen {
			for {
				arg, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.current().kind != tokenComma {
					break
				}
				p.advance()
			}
		}
		if p.current().kind != tokenRightParen {
			return nil, p.errorf("missing closing parenthesis in call to %q", ident.text)
		}
		p.advance()
		return &callNode{name: ident.text, args: args, source: p.source}, nil

	case tokenDot:
		p.advance()
		field := p.current()
		if field.kind != tokenIdent {
			return nil, p.errorf("expected field name after %q.", ident.text)
		}
		p.advance()
		if p.current().kind == tokenDot {
			return nil, p.errorf("property access deeper than one level is not allowed (%s.%s.…)", ident.text, field.text)
		}
		return &fieldNode{base: ident.text, field: field.text, source: p.source}, nil

	default:
		return &identNode{name: ident.text, source: p.source}, nil
	}
}
