// Package lexer implements the Power Query M scanner described in spec
// §4.1: it turns UTF-8 source text into a finite token stream (including
// trivia tokens for whitespace, newlines, and comments) terminated by a
// single token.Eof.
//
// The scanner is a single hand-rolled rune-by-rune dispatch loop, grounded
// on protocompile's parser/lexer.go and experimental/ast/lexer.go: no
// generated lexer, no regular-expression engine, just peekRune/peekAt/advance
// helpers over the input string.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fukuyori/pqm-formatter/errs"
	"github.com/fukuyori/pqm-formatter/token"
)

const eof = -1

// lexer holds scanning state for a single source string.
type lexer struct {
	src        string
	pos        int // byte offset
	line, col  int // 1-based
	tokens     []token.Token
}

// Lex scans source into a token stream. On success the returned slice
// always ends with exactly one token.Eof. On failure it returns nil and a
// *errs.LexError describing the first lexical problem encountered.
func Lex(source string) ([]token.Token, *errs.LexError) {
	l := &lexer{src: source, line: 1, col: 1}
	for {
		tok, lexErr := l.next()
		if lexErr != nil {
			return nil, lexErr
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == token.Eof {
			return l.tokens, nil
		}
	}
}

func (l *lexer) position() token.Position {
	return token.Position{Line: l.line, Col: l.col, Offset: l.pos}
}

// peekRune returns the next rune without consuming it, or eof.
func (l *lexer) peekRune() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the cursor without consuming
// anything, or eof if that position is past the end of input.
func (l *lexer) peekAt(n int) rune {
	rest := l.src[l.pos:]
	var r rune
	for i := 0; i <= n; i++ {
		if rest == "" {
			return eof
		}
		var size int
		r, size = decodeRune(rest)
		if r == eof {
			return eof
		}
		rest = rest[size:]
	}
	return r
}

// decodeRune wraps utf8.DecodeRuneInString, turning the "invalid encoding"
// case into a clean -1 sentinel (RuneError is itself a valid rune, namely
// U+FFFD, so a length check is required to distinguish them).
func decodeRune(s string) (rune, int) {
	if s == "" {
		return eof, 0
	}
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n < 2 {
		return eof, n
	}
	return r, n
}

// advance consumes and returns the next rune, updating line/col/offset.
func (l *lexer) advance() rune {
	r, size := decodeRune(l.src[l.pos:])
	if r == eof {
		return eof
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// next scans and returns the single next token.
func (l *lexer) next() (token.Token, *errs.LexError) {
	start := l.position()
	r := l.peekRune()

	switch {
	case r == eof:
		return token.Token{Kind: token.Eof, Pos: start}, nil

	case r == '\n':
		l.advance()
		return token.Token{Kind: token.Newline, Text: "\n", Pos: start}, nil

	case r != '\n' && unicode.IsSpace(r):
		var b strings.Builder
		for {
			r := l.peekRune()
			if r == eof || r == '\n' || !unicode.IsSpace(r) {
				break
			}
			b.WriteRune(l.advance())
		}
		return token.Token{Kind: token.Whitespace, Text: b.String(), Pos: start}, nil

	case r == '/' && l.peekAt(1) == '/':
		l.advance()
		l.advance()
		var b strings.Builder
		b.WriteString("//")
		for {
			r := l.peekRune()
			if r == eof || r == '\n' {
				break
			}
			b.WriteRune(l.advance())
		}
		return token.Token{Kind: token.LineComment, Text: b.String(), Pos: start}, nil

	case r == '/' && l.peekAt(1) == '*':
		l.advance()
		l.advance()
		var b strings.Builder
		b.WriteString("/*")
		closed := false
		for {
			r := l.peekRune()
			if r == eof {
				break
			}
			if r == '*' && l.peekAt(1) == '/' {
				b.WriteRune(l.advance())
				b.WriteRune(l.advance())
				closed = true
				break
			}
			b.WriteRune(l.advance())
		}
		if !closed {
			return token.Token{}, &errs.LexError{Line: start.Line, Column: start.Col, Message: "unterminated block comment"}
		}
		return token.Token{Kind: token.BlockComment, Text: b.String(), Pos: start}, nil

	case r == '#' && l.peekAt(1) == '"':
		l.advance() // '#'
		text, err := l.scanQuotedBody('"')
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.Ident, Text: "#" + text, Pos: start}, nil

	case r == '"':
		text, err := l.scanQuotedBody('"')
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.String, Text: text, Pos: start}, nil

	case r == '.':
		if l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.DotDot, Text: "..", Pos: start}, nil
		}
		if isDigit(l.peekAt(1)) {
			return l.scanNumber(start), nil
		}
		l.advance()
		return token.Token{Kind: token.Dot, Text: ".", Pos: start}, nil

	case isDigit(r):
		return l.scanNumber(start), nil

	case isIdentStart(r):
		var b strings.Builder
		for {
			r := l.peekRune()
			if r == '.' {
				// A dot immediately followed by another dot starts a `..`
				// range operator, not a continuation of a dotted name like
				// Table.FromRows: don't swallow it into the identifier.
				if l.peekAt(1) == '.' {
					break
				}
				b.WriteRune(l.advance())
				continue
			}
			if !isIdentCont(r) {
				break
			}
			b.WriteRune(l.advance())
		}
		text := b.String()
		return token.Token{Kind: token.Lookup(text), Text: text, Pos: start}, nil

	case r == '(':
		l.advance()
		return token.Token{Kind: token.LParen, Text: "(", Pos: start}, nil
	case r == ')':
		l.advance()
		return token.Token{Kind: token.RParen, Text: ")", Pos: start}, nil
	case r == '{':
		l.advance()
		return token.Token{Kind: token.LBrace, Text: "{", Pos: start}, nil
	case r == '}':
		l.advance()
		return token.Token{Kind: token.RBrace, Text: "}", Pos: start}, nil
	case r == '[':
		l.advance()
		return token.Token{Kind: token.LBracket, Text: "[", Pos: start}, nil
	case r == ']':
		l.advance()
		return token.Token{Kind: token.RBracket, Text: "]", Pos: start}, nil
	case r == ',':
		l.advance()
		return token.Token{Kind: token.Comma, Text: ",", Pos: start}, nil
	case r == ';':
		l.advance()
		return token.Token{Kind: token.Semicolon, Text: ";", Pos: start}, nil
	case r == '?':
		l.advance()
		return token.Token{Kind: token.Question, Text: "?", Pos: start}, nil
	case r == '@':
		l.advance()
		return token.Token{Kind: token.At, Text: "@", Pos: start}, nil
	case r == '+':
		l.advance()
		return token.Token{Kind: token.Plus, Text: "+", Pos: start}, nil
	case r == '-':
		l.advance()
		return token.Token{Kind: token.Minus, Text: "-", Pos: start}, nil
	case r == '*':
		l.advance()
		return token.Token{Kind: token.Star, Text: "*", Pos: start}, nil
	case r == '/':
		l.advance()
		return token.Token{Kind: token.Slash, Text: "/", Pos: start}, nil
	case r == '&':
		l.advance()
		return token.Token{Kind: token.Amp, Text: "&", Pos: start}, nil

	case r == '=':
		l.advance()
		switch l.peekRune() {
		case '>':
			l.advance()
			return token.Token{Kind: token.Arrow, Text: "=>", Pos: start}, nil
		case '=':
			l.advance()
			return token.Token{Kind: token.EqEq, Text: "==", Pos: start}, nil
		default:
			return token.Token{Kind: token.Equals, Text: "=", Pos: start}, nil
		}

	case r == '<':
		l.advance()
		switch l.peekRune() {
		case '=':
			l.advance()
			return token.Token{Kind: token.Le, Text: "<=", Pos: start}, nil
		case '>':
			l.advance()
			return token.Token{Kind: token.NotEq, Text: "<>", Pos: start}, nil
		default:
			return token.Token{Kind: token.Lt, Text: "<", Pos: start}, nil
		}

	case r == '>':
		l.advance()
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.Ge, Text: ">=", Pos: start}, nil
		}
		return token.Token{Kind: token.Gt, Text: ">", Pos: start}, nil

	default:
		l.advance()
		return token.Token{}, &errs.LexError{
			Line: start.Line, Column: start.Col,
			Message: "unrecognized character " + quoteRune(r),
		}
	}
}

// scanQuotedBody scans a quote-delimited run of text starting at the
// opening quote (already peeked but not consumed), treating a doubled
// quote as an embedded literal quote, per spec §4.1's "" escape rule.
// Returns the verbatim text including both delimiting quotes.
func (l *lexer) scanQuotedBody(quote rune) (string, *errs.LexError) {
	start := l.position()
	var b strings.Builder
	b.WriteRune(l.advance()) // opening quote
	for {
		r := l.peekRune()
		if r == eof {
			return "", &errs.LexError{Line: start.Line, Column: start.Col, Message: "unterminated string literal"}
		}
		if r == quote {
			l.advance()
			if l.peekRune() == quote {
				// "" embedded-quote escape: keep both characters verbatim
				// and continue the string.
				b.WriteRune(quote)
				b.WriteRune(l.advance())
				continue
			}
			b.WriteRune(quote)
			return b.String(), nil
		}
		b.WriteRune(l.advance())
	}
}

// scanNumber scans a number literal starting at start (the cursor may be
// sitting on a leading '.' for a dotted decimal, a '0' for a possible hex
// literal, or any other digit). No leading sign is consumed — unary minus
// is a parser concern per spec §4.1.
func (l *lexer) scanNumber(start token.Position) token.Token {
	var b strings.Builder

	if l.peekRune() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		b.WriteRune(l.advance())
		b.WriteRune(l.advance())
		for isHexDigit(l.peekRune()) {
			b.WriteRune(l.advance())
		}
		return token.Token{Kind: token.Number, Text: b.String(), Pos: start}
	}

	for isDigit(l.peekRune()) {
		b.WriteRune(l.advance())
	}
	if l.peekRune() == '.' && isDigit(l.peekAt(1)) {
		b.WriteRune(l.advance())
		for isDigit(l.peekRune()) {
			b.WriteRune(l.advance())
		}
	}
	if l.peekRune() == 'e' || l.peekRune() == 'E' {
		// Only consume the exponent if it is well-formed; otherwise leave
		// the 'e'/sign for the next token (e.g. a trailing identifier).
		savePos, saveLine, saveCol := l.pos, l.line, l.col
		var exp strings.Builder
		exp.WriteRune(l.advance())
		if l.peekRune() == '+' || l.peekRune() == '-' {
			exp.WriteRune(l.advance())
		}
		if isDigit(l.peekRune()) {
			for isDigit(l.peekRune()) {
				exp.WriteRune(l.advance())
			}
			b.WriteString(exp.String())
		} else {
			l.pos, l.line, l.col = savePos, saveLine, saveCol
		}
	}
	return token.Token{Kind: token.Number, Text: b.String(), Pos: start}
}

func quoteRune(r rune) string {
	if r == eof {
		return "EOF"
	}
	return "'" + string(r) + "'"
}
