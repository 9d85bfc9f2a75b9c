// Package errs defines the structured error types produced by the lexer
// and parser (spec §7), modeled on protocompile's reporter.ErrorWithPos:
// every error carries the source position that caused it, separate from
// its human-readable message, so callers can recover structured fields
// with errors.As instead of parsing the error string.
package errs

import "fmt"

// WithPosition is implemented by both LexError and ParseError.
type WithPosition interface {
	error
	Position() (line, column int)
}

// LexError reports a lexical failure: an unterminated string literal, an
// unterminated block comment, or an unrecognized character (spec §4.1).
type LexError struct {
	Line, Column int
	Message      string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Position implements WithPosition.
func (e *LexError) Position() (line, column int) {
	return e.Line, e.Column
}

// ParseError reports a syntactic failure: an unexpected token or an
// unfinished construct (spec §4.2). Message names the expected token
// class(es) and the actual token kind, per the parser's error policy.
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Position implements WithPosition.
func (e *ParseError) Position() (line, column int) {
	return e.Line, e.Column
}
