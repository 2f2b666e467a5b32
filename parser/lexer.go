package parser

import (
	"fmt"
	"strings"

	"ndhist/axis"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TOKENS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokLParen
	tokRParen
	tokComma
	tokEquals
)

var tokenNames = [...]string{"end of input", "identifier", "number", "string", "'('", "')'", "','", "'='"}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string // identifier, raw number or unescaped string
	pos  int
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SCANNER
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// lexer walks the input byte by byte. The grammar is pure ASCII outside
// string literals, so no rune decoding is needed.
type lexer struct {
	src string
	pos int
}

func syntaxErr(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", axis.ErrInvalidArgument, pos, fmt.Sprintf(format, args...))
}

//go:nosplit
//go:inline
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

//go:nosplit
//go:inline
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

//go:nosplit
//go:inline
func isLetter(c byte) bool { return c|0x20 >= 'a' && c|0x20 <= 'z' || c == '_' }

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if start >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	switch c := l.src[start]; {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, pos: start}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEquals, pos: start}, nil
	case c == '\'' || c == '"':
		return l.quoted(c)
	case isDigit(c) || c == '.' || c == '+' || c == '-':
		return l.number(), nil
	case isLetter(c):
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	default:
		return token{}, syntaxErr(start, "unexpected character %q", c)
	}
}

// number consumes a signed literal: digits, a fraction, an exponent, or a
// spelled-out inf/nan. Validation happens when the value is converted.
func (l *lexer) number() token {
	start := l.pos
	if c := l.src[l.pos]; c == '+' || c == '-' {
		l.pos++
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(c) || isLetter(c) || c == '.':
			l.pos++
		case (c == '+' || c == '-') && l.pos > start+1 && l.src[l.pos-1]|0x20 == 'e':
			l.pos++
		default:
			return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}
}

// quoted reads a literal delimited by q and resolves the escapes Quote emits.
func (l *lexer) quoted(q byte) (token, error) {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch c {
		case q:
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, syntaxErr(start, "unterminated string")
			}
			e := l.src[l.pos]
			l.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(e)
			default:
				return token{}, syntaxErr(l.pos-2, "unknown escape \\%c", e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return token{}, syntaxErr(start, "unterminated string")
}
