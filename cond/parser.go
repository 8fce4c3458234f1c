// ABOUTME: Recursive descent parser turning condition tokens into an expression tree.
// ABOUTME: Grammar: or = and { '|' and }; and = unary { '&' unary }; unary = '(' or ')' | comparison.
package cond

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// parser holds the token stream and current position.
type parser struct {
	src    string
	tokens []Token
	pos    int
}

// Parse compiles a condition string into a Condition. Unknown column
// references are not detected here; they surface when the condition is bound
// to a table.
func Parse(src string) (*Condition, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &InvalidConditionError{Cond: src, Reason: "empty condition"}
	}

	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, p.errf("unexpected %s", p.current().Type)
	}

	return &Condition{src: src, expr: expr}, nil
}

// MustParse is Parse that panics on error, for fixed conditions in tests.
func MustParse(src string) *Condition {
	c, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return c
}

// current returns the token at the current position.
func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

// advance moves past the current token.
func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// expect consumes a token of the given type or fails.
func (p *parser) expect(typ TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != typ {
		return Token{}, p.errf("expected %s, got %s", typ, tok.Type)
	}
	p.advance()
	return tok, nil
}

// errf builds an InvalidConditionError at the current token.
func (p *parser) errf(format string, args ...any) error {
	return &InvalidConditionError{
		Cond:   p.src,
		Pos:    p.current().Pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

// parseOr parses a disjunction: and { '|' and }.
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses a conjunction: unary { '&' unary }.
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

// parseUnary parses a parenthesized expression or a single comparison.
func (p *parser) parseUnary() (Expr, error) {
	if p.current().Type == TokenLParen {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseComparison()
}

// parseComparison parses "column op literal" or "column =~ 'pattern'".
func (p *parser) parseComparison() (Expr, error) {
	col, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	opTok := p.current()
	switch opTok.Type {
	case TokenMatch:
		p.advance()
		pat := p.current()
		if pat.Type != TokenString {
			return nil, p.errf("pattern match requires a quoted pattern, got %s", pat.Type)
		}
		p.advance()
		re, err := regexp.Compile(pat.Value)
		if err != nil {
			return nil, &InvalidConditionError{Cond: p.src, Pos: pat.Pos, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
		return &Match{Column: col.Value, Pattern: re}, nil

	case TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe:
		op := compareOpFor(opTok.Type)
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &Compare{Column: col.Value, Op: op, Value: lit}, nil

	default:
		return nil, p.errf("expected a comparison operator, got %s", opTok.Type)
	}
}

// parseLiteral parses the right-hand side of a comparison. Quoted strings and
// bare words are text; unquoted numbers are numeric.
func (p *parser) parseLiteral() (cty.Value, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		v, err := cty.ParseNumberVal(tok.Value)
		if err != nil {
			return cty.NilVal, &InvalidConditionError{Cond: p.src, Pos: tok.Pos, Reason: fmt.Sprintf("bad number literal %q", tok.Value)}
		}
		return v, nil
	case TokenString, TokenIdent:
		p.advance()
		return cty.StringVal(tok.Value), nil
	default:
		return cty.NilVal, p.errf("expected a literal, got %s", tok.Type)
	}
}

// compareOpFor maps an operator token to its CompareOp.
func compareOpFor(typ TokenType) CompareOp {
	switch typ {
	case TokenEq:
		return OpEq
	case TokenNe:
		return OpNe
	case TokenLt:
		return OpLt
	case TokenLe:
		return OpLe
	case TokenGt:
		return OpGt
	default:
		return OpGe
	}
}
