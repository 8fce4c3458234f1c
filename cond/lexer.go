// ABOUTME: Tokenizer for the condition language that turns filter text into a token stream.
// ABOUTME: Handles column identifiers, quoted strings, numbers, comparison and boolean operators.
package cond

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenIdent            // bare identifier (column name or unquoted word)
	TokenNumber           // integer or float literal
	TokenString           // quoted string
	TokenEq               // ==
	TokenNe               // !=
	TokenLt               // <
	TokenLe               // <=
	TokenGt               // >
	TokenGe               // >=
	TokenMatch            // =~
	TokenAnd              // & (or &&)
	TokenOr               // | (or ||)
	TokenLParen           // (
	TokenRParen           // )
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "IDENT"
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenEq:
		return "=="
	case TokenNe:
		return "!="
	case TokenLt:
		return "<"
	case TokenLe:
		return "<="
	case TokenGt:
		return ">"
	case TokenGe:
		return ">="
	case TokenMatch:
		return "=~"
	case TokenAnd:
		return "&"
	case TokenOr:
		return "|"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token represents a single lexical token with its type, value, and position
// (1-based rune offset) in the condition text.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// lexer holds the state of the condition scanner.
type lexer struct {
	src    string
	input  []rune
	pos    int
	tokens []Token
}

// lex tokenizes a condition string.
func lex(src string) ([]Token, error) {
	l := &lexer{
		src:    src,
		input:  []rune(src),
		tokens: make([]Token, 0),
	}
	if err := l.scan(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// scan processes all characters in the input and produces tokens.
func (l *lexer) scan() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if unicode.IsSpace(ch) {
			l.pos++
			continue
		}

		if ch == '\'' || ch == '"' {
			if err := l.lexString(ch); err != nil {
				return err
			}
			continue
		}

		// Numbers: digit, or minus followed by digit or dot
		if unicode.IsDigit(ch) {
			l.lexNumber()
			continue
		}
		if ch == '-' && l.pos+1 < len(l.input) && (unicode.IsDigit(l.input[l.pos+1]) || l.input[l.pos+1] == '.') {
			l.lexNumber()
			continue
		}

		if ch == '_' || unicode.IsLetter(ch) {
			l.lexIdentifier()
			continue
		}

		switch ch {
		case '=':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
				l.emit(TokenEq, "==")
				l.pos += 2
				continue
			}
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '~' {
				l.emit(TokenMatch, "=~")
				l.pos += 2
				continue
			}
			return l.errf("expected == or =~")
		case '!':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
				l.emit(TokenNe, "!=")
				l.pos += 2
				continue
			}
			return l.errf("expected !=")
		case '<':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
				l.emit(TokenLe, "<=")
				l.pos += 2
				continue
			}
			l.emit(TokenLt, "<")
			l.pos++
		case '>':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
				l.emit(TokenGe, ">=")
				l.pos += 2
				continue
			}
			l.emit(TokenGt, ">")
			l.pos++
		case '&':
			l.emit(TokenAnd, "&")
			l.pos++
			if l.pos < len(l.input) && l.input[l.pos] == '&' {
				l.pos++
			}
		case '|':
			l.emit(TokenOr, "|")
			l.pos++
			if l.pos < len(l.input) && l.input[l.pos] == '|' {
				l.pos++
			}
		case '(':
			l.emit(TokenLParen, "(")
			l.pos++
		case ')':
			l.emit(TokenRParen, ")")
			l.pos++
		default:
			return l.errf("unexpected character %q", string(ch))
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Pos: l.pos + 1})
	return nil
}

// emit adds a token at the current position.
func (l *lexer) emit(typ TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Pos: l.pos + 1})
}

// errf builds an InvalidConditionError at the current position.
func (l *lexer) errf(format string, args ...any) error {
	return &InvalidConditionError{
		Cond:   l.src,
		Pos:    l.pos + 1,
		Reason: fmt.Sprintf(format, args...),
	}
}

// lexString reads a quoted string with escape sequences. Both single and
// double quotes delimit strings; the closing quote must match the opener.
func (l *lexer) lexString(quote rune) error {
	start := l.pos + 1
	l.pos++ // skip opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if ch == '\\' {
			l.pos++
			if l.pos >= len(l.input) {
				return &InvalidConditionError{Cond: l.src, Pos: start, Reason: "unterminated string"}
			}
			escaped := l.input[l.pos]
			switch escaped {
			case '\'', '"', '\\':
				sb.WriteRune(escaped)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte('\\')
				sb.WriteRune(escaped)
			}
			l.pos++
			continue
		}

		if ch == quote {
			l.pos++ // skip closing quote
			l.tokens = append(l.tokens, Token{Type: TokenString, Value: sb.String(), Pos: start})
			return nil
		}

		sb.WriteRune(ch)
		l.pos++
	}

	return &InvalidConditionError{Cond: l.src, Pos: start, Reason: "unterminated string"}
}

// lexNumber reads an integer or float literal, with optional leading sign.
func (l *lexer) lexNumber() {
	start := l.pos + 1
	var sb strings.Builder

	if l.input[l.pos] == '-' {
		sb.WriteByte('-')
		l.pos++
	}
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		sb.WriteRune(l.input[l.pos])
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		sb.WriteByte('.')
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			sb.WriteRune(l.input[l.pos])
			l.pos++
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenNumber, Value: sb.String(), Pos: start})
}

// lexIdentifier reads a bare identifier.
func (l *lexer) lexIdentifier() {
	start := l.pos + 1
	var sb strings.Builder

	for l.pos < len(l.input) && (l.input[l.pos] == '_' || unicode.IsLetter(l.input[l.pos]) || unicode.IsDigit(l.input[l.pos])) {
		sb.WriteRune(l.input[l.pos])
		l.pos++
	}

	l.tokens = append(l.tokens, Token{Type: TokenIdent, Value: sb.String(), Pos: start})
}
