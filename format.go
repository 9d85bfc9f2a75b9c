// Package pqmfmt formats Power Query M source code: a pure
// lex → parse → print pipeline (spec §1, §2) with no I/O of its own. The
// CLI, clipboard, and file-diff concerns live in cmd/pqmfmt.
package pqmfmt

import (
	"github.com/fukuyori/pqm-formatter/lexer"
	"github.com/fukuyori/pqm-formatter/parser"
	"github.com/fukuyori/pqm-formatter/printer"
)

// Format lexes, parses, and pretty-prints source, returning the formatted
// text or the first lexical/syntactic error encountered. The returned
// error is always either *errs.LexError or *errs.ParseError; callers can
// recover the structured fields with errors.As. On error the returned
// string is always empty — Format never emits partial output.
func Format(source string, cfg Config) (string, error) {
	toks, lexErr := lexer.Lex(source)
	if lexErr != nil {
		return "", lexErr
	}
	expr, parseErr := parser.Parse(toks)
	if parseErr != nil {
		return "", parseErr
	}
	return printer.Print(expr, cfg.toOptions()), nil
}
