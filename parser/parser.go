// Package parser implements the Power Query M recursive-descent parser
// described in spec §4.2: it turns a lexer.Lex token stream into an ast.Expr
// tree, attaching comment trivia to the nodes they sit next to (see
// trivia.go) and stopping at the first syntax error.
//
// Grounded on protocompile's experimental/ast/parser.go cursor/peek/expect
// style: a single forward-only cursor over the token slice, no separate
// tokenizer goroutine or channel, backtracking done by snapshotting the
// cursor rather than re-lexing.
package parser

import (
	"fmt"
	"strings"

	"github.com/fukuyori/pqm-formatter/ast"
	"github.com/fukuyori/pqm-formatter/errs"
	"github.com/fukuyori/pqm-formatter/token"
)

type parser struct {
	toks        []token.Token
	pos         int
	pending     []token.Token
	lastEnd     token.Position
	lastEndLine int
}

// Parse consumes the entire token stream as a single top-level expression
// (which may itself be a `section ...` declaration list) and requires it to
// be followed by end of input.
func Parse(tokens []token.Token) (ast.Expr, *errs.ParseError) {
	p := &parser{toks: tokens}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	eofTok := p.peek()
	if eofTok.Kind != token.Eof {
		return nil, p.unexpected(eofTok, "end of input")
	}
	return expr, nil
}

func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.Eof:
		return "end of input"
	case token.Ident, token.Number, token.String:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	default:
		return tok.Kind.String()
	}
}

func (p *parser) unexpected(tok token.Token, want string) *errs.ParseError {
	return &errs.ParseError{
		Line: tok.Pos.Line, Column: tok.Pos.Col,
		Message: fmt.Sprintf("expected %s, found %s", want, describeToken(tok)),
	}
}

func (p *parser) expect(k token.Kind, what string) (token.Token, *errs.ParseError) {
	tok := p.peek()
	if tok.Kind != k {
		return token.Token{}, p.unexpected(tok, what)
	}
	return p.advance(), nil
}

// ---- expression grammar, precedence climbing low to high ----

func (p *parser) parseExpr() (ast.Expr, *errs.ParseError) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.KwAs:
			p.advance()
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			n := &ast.AsType{Expr: left, Type: ty}
			ast.SetSpan(n, ast.Span{Start: left.Span().Start, End: p.lastEnd})
			left = n
		case token.KwIs:
			p.advance()
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			n := &ast.IsType{Expr: left, Type: ty}
			ast.SetSpan(n, ast.Span{Start: left.Span().Start, End: p.lastEnd})
			left = n
		case token.KwMeta:
			p.advance()
			meta, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			n := &ast.Meta{Expr: left, Metadata: meta}
			ast.SetSpan(n, ast.Span{Start: left.Span().Start, End: p.lastEnd})
			left = n
		default:
			return left, nil
		}
	}
}

// parseBinaryLeft implements one left-associative precedence level shared
// by the logical/comparison/arithmetic productions.
func (p *parser) parseBinaryLeft(next func() (ast.Expr, *errs.ParseError), ops ...token.Kind) (ast.Expr, *errs.ParseError) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		matched := false
		for _, op := range ops {
			if tok.Kind == op {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		n := &ast.Binary{Op: tok.Kind, Lhs: left, Rhs: right}
		ast.SetSpan(n, ast.Span{Start: left.Span().Start, End: p.lastEnd})
		left = n
	}
}

func (p *parser) parseLogicalOr() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseLogicalAnd, token.KwOr)
}

func (p *parser) parseLogicalAnd() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseEquality, token.KwAnd)
}

func (p *parser) parseEquality() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseRelational, token.Equals, token.NotEq)
}

func (p *parser) parseRelational() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseAdditive, token.Lt, token.Le, token.Gt, token.Ge)
}

func (p *parser) parseAdditive() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseMultiplicative, token.Plus, token.Minus, token.Amp)
}

func (p *parser) parseMultiplicative() (ast.Expr, *errs.ParseError) {
	return p.parseBinaryLeft(p.parseUnary, token.Star, token.Slash)
}

// parseUnary handles prefix -, +, and not. The leading-comment block is
// claimed here (rather than left to parsePostfix) so a comment sitting
// immediately before a unary operator attaches to the unary node instead of
// drifting onto its operand; when there turns out to be no unary operator,
// the claimed comments are pushed back onto the pending queue so
// parsePostfix can reclaim them for the real leaf node.
func (p *parser) parseUnary() (ast.Expr, *errs.ParseError) {
	leading := p.startNode()
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Plus, token.KwNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &ast.Unary{Op: tok.Kind, Operand: operand}
		ast.SetSpan(n, ast.Span{Start: tok.Pos, End: p.lastEnd})
		trailing := p.takeTrailing(p.lastEndLine)
		ast.SetComments(n, leading, trailing)
		return n, nil
	default:
		p.pending = append(append([]token.Token(nil), leading...), p.pending...)
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by zero or more
// call/field-access/item-access/field-projection suffixes, then attaches
// the whole chain's leading and trailing comments to the outermost node.
func (p *parser) parsePostfix() (ast.Expr, *errs.ParseError) {
	leading := p.startNode()
	startTok := p.peek()

	expr, err := p.parsePrimaryBody()
	if err != nil {
		return nil, err
	}

loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.LParen:
			p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Callee: expr, Args: args}

		case token.LBracket:
			p.advance()
			if p.peek().Kind == token.LBracket {
				fields, err := p.parseProjectionFields()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBracket, "`]`"); err != nil {
					return nil, err
				}
				optional := false
				if p.peek().Kind == token.Question {
					p.advance()
					optional = true
				}
				expr = &ast.FieldProjection{Expr: expr, Fields: fields, Optional: optional}
			} else {
				name, _, err := p.parseFieldNameToken()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBracket, "`]`"); err != nil {
					return nil, err
				}
				optional := false
				if p.peek().Kind == token.Question {
					p.advance()
					optional = true
				}
				expr = &ast.FieldAccess{Expr: expr, Field: name, Optional: optional}
			}

		case token.LBrace:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBrace, "`}`"); err != nil {
				return nil, err
			}
			optional := false
			if p.peek().Kind == token.Question {
				p.advance()
				optional = true
			}
			expr = &ast.ItemAccess{Expr: expr, Index: idx, Optional: optional}

		default:
			break loop
		}
	}

	ast.SetSpan(expr, ast.Span{Start: startTok.Pos, End: p.lastEnd})
	trailing := p.takeTrailing(p.lastEndLine)
	ast.SetComments(expr, leading, trailing)
	return expr, nil
}

func (p *parser) parseArgList() ([]ast.Expr, *errs.ParseError) {
	var args []ast.Expr
	if p.peek().Kind == token.RParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen, "`)`"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseProjectionFields() ([]string, *errs.ParseError) {
	var fields []string
	for {
		if _, err := p.expect(token.LBracket, "`[`"); err != nil {
			return nil, err
		}
		name, _, err := p.parseFieldNameToken()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket, "`]`"); err != nil {
			return nil, err
		}
		fields = append(fields, name)
		if p.peek().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	return fields, nil
}

// parseFieldNameToken accepts a plain identifier or a keyword promoted back
// to a field name by spec §4.2's "keyword-as-field" rule.
func (p *parser) parseFieldNameToken() (string, token.Token, *errs.ParseError) {
	tok := p.peek()
	if tok.Kind == token.Ident || token.IsContextualFieldKeyword(tok.Kind) {
		p.advance()
		return tok.Text, tok, nil
	}
	return "", token.Token{}, p.unexpected(tok, "field name")
}

// ---- primary productions ----

func (p *parser) parsePrimaryBody() (ast.Expr, *errs.ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case token.Number, token.String, token.Null, token.True, token.False:
		p.advance()
		return &ast.Literal{LiteralKind: tok.Kind, Raw: tok.Text}, nil
	case token.Ident:
		p.advance()
		return &ast.Identifier{Name: tok.Text}, nil
	case token.LParen:
		return p.parseParenOrFn()
	case token.LBracket:
		return p.parseRecordLit()
	case token.LBrace:
		return p.parseListLit()
	case token.KwLet:
		return p.parseLet()
	case token.KwIf:
		return p.parseIf()
	case token.KwTry:
		return p.parseTry()
	case token.KwEach:
		return p.parseEach()
	case token.KwSection:
		return p.parseSection()
	case token.KwType:
		p.advance()
		return p.parseType()
	default:
		return nil, p.unexpected(tok, "expression")
	}
}

func (p *parser) parseLet() (ast.Expr, *errs.ParseError) {
	p.advance() // 'let'
	var bindings []*ast.Binding
	for {
		leading := p.startNode()
		nameTok, err := p.expect(token.Ident, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Equals, "`=`"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		b := &ast.Binding{Name: nameTok.Text, Value: value}
		b.Leading = leading
		b.SpanVal = ast.Span{Start: nameTok.Pos, End: p.lastEnd}
		if p.peek().Kind == token.Comma {
			p.advance()
			b.Trailing = p.takeTrailing(p.lastEndLine)
			bindings = append(bindings, b)
			continue
		}
		bindings = append(bindings, b)
		break
	}
	if _, err := p.expect(token.KwIn, "`in`"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

func (p *parser) parseIf() (ast.Expr, *errs.ParseError) {
	p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwThen, "`then`"); err != nil {
		return nil, err
	}
	thenB, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwElse, "`else`"); err != nil {
		return nil, err
	}
	elseB, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: thenB, Else: elseB}, nil
}

func (p *parser) parseTry() (ast.Expr, *errs.ParseError) {
	p.advance() // 'try'
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var otherwise ast.Expr
	if p.peek().Kind == token.KwOtherwise {
		p.advance()
		otherwise, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Try{Body: body, Otherwise: otherwise}, nil
}

func (p *parser) parseEach() (ast.Expr, *errs.ParseError) {
	p.advance() // 'each'
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Each{Body: body}, nil
}

func (p *parser) parseSection() (ast.Expr, *errs.ParseError) {
	p.advance() // 'section'
	hasName := false
	name := ""
	if p.peek().Kind == token.Ident {
		hasName = true
		name = p.advance().Text
	}
	if _, err := p.expect(token.Semicolon, "`;`"); err != nil {
		return nil, err
	}
	var members []*ast.Member
	for p.peek().Kind == token.KwShared || p.peek().Kind == token.Ident {
		leading := p.startNode()
		shared := false
		if p.peek().Kind == token.KwShared {
			shared = true
			p.advance()
		}
		nameTok, err := p.expect(token.Ident, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Equals, "`=`"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon, "`;`"); err != nil {
			return nil, err
		}
		m := &ast.Member{Shared: shared, Name: nameTok.Text, Value: value}
		m.Leading = leading
		m.SpanVal = ast.Span{Start: nameTok.Pos, End: p.lastEnd}
		m.Trailing = p.takeTrailing(p.lastEndLine)
		members = append(members, m)
	}
	return &ast.Section{HasName: hasName, Name: name, Members: members}, nil
}

func (p *parser) parseRecordLit() (ast.Expr, *errs.ParseError) {
	p.advance() // '['
	var fields []*ast.RecordField
	if p.peek().Kind != token.RBracket {
		for {
			leading := p.startNode()
			nameTok := p.peek()
			name, _, err := p.parseFieldNameToken()
			if err != nil {
				return nil, err
			}
			if len(fields) == 0 && p.peek().Kind == token.RBracket {
				// A bare `[name]` (or `[name]?`) is a field access on the
				// implicit `_` receiver, as inside `each`. The receiver is an
				// Identifier with an empty Name, so it prints as nothing.
				p.advance() // ']'
				optional := false
				if p.peek().Kind == token.Question {
					p.advance()
					optional = true
				}
				p.pending = append(leading, p.pending...)
				return &ast.FieldAccess{Expr: &ast.Identifier{}, Field: name, Optional: optional}, nil
			}
			if _, err := p.expect(token.Equals, "`=`"); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			f := &ast.RecordField{Name: name, Value: value}
			f.Leading = leading
			f.SpanVal = ast.Span{Start: nameTok.Pos, End: p.lastEnd}
			if p.peek().Kind == token.Comma {
				p.advance()
				f.Trailing = p.takeTrailing(p.lastEndLine)
				fields = append(fields, f)
				continue
			}
			fields = append(fields, f)
			break
		}
	}
	if _, err := p.expect(token.RBracket, "`]`"); err != nil {
		return nil, err
	}
	return &ast.RecordLit{Fields: fields}, nil
}

func (p *parser) parseListLit() (ast.Expr, *errs.ParseError) {
	p.advance() // '{'
	var items []ast.Expr
	if p.peek().Kind != token.RBrace {
		for {
			item, err := p.parseListItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.peek().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBrace, "`}`"); err != nil {
		return nil, err
	}
	return &ast.ListLit{Items: items}, nil
}

// parseListItem parses a single list-literal element, which may be a range
// `a..b`. A range is represented as a *ast.Binary with Op == token.DotDot
// rather than a dedicated AST variant (spec's grammar table has none).
func (p *parser) parseListItem() (ast.Expr, *errs.ParseError) {
	start := p.peek()
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == token.DotDot {
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		n := &ast.Binary{Op: token.DotDot, Lhs: lhs, Rhs: rhs}
		ast.SetSpan(n, ast.Span{Start: start.Pos, End: p.lastEnd})
		return n, nil
	}
	return lhs, nil
}

// parseParenOrFn disambiguates `(expr)` from a function literal
// `(params) [as T] => body`: both begin with an identical token prefix, so
// it speculatively tries the function-header shape first and rolls back to
// a plain parenthesized expression if that shape doesn't hold together (no
// `=>` ultimately follows).
func (p *parser) parseParenOrFn() (ast.Expr, *errs.ParseError) {
	markPos, markPending := p.pos, append([]token.Token(nil), p.pending...)

	if fn, ok := p.trySpeculativeFn(); ok {
		return fn, nil
	}
	p.pos, p.pending = markPos, markPending

	p.advance() // '('
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "`)`"); err != nil {
		return nil, err
	}
	return &ast.Paren{Inner: inner}, nil
}

func (p *parser) trySpeculativeFn() (*ast.Fn, bool) {
	if p.peek().Kind != token.LParen {
		return nil, false
	}
	p.advance() // '('

	var params []*ast.Param
	if p.peek().Kind != token.RParen {
		for {
			optional := false
			if p.peek().Kind == token.KwOptional {
				optional = true
				p.advance()
			}
			nameTok := p.peek()
			if nameTok.Kind != token.Ident {
				return nil, false
			}
			p.advance()
			var ty *ast.TypeExpr
			if p.peek().Kind == token.KwAs {
				p.advance()
				t, err := p.parseType()
				if err != nil {
					return nil, false
				}
				ty = t
			}
			params = append(params, &ast.Param{Name: nameTok.Text, Type: ty, Optional: optional})
			if p.peek().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if p.peek().Kind != token.RParen {
		return nil, false
	}
	p.advance() // ')'

	var retType *ast.TypeExpr
	if p.peek().Kind == token.KwAs {
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, false
		}
		retType = t
	}
	if p.peek().Kind != token.Arrow {
		return nil, false
	}
	p.advance() // '=>'
	body, err := p.parseExpr()
	if err != nil {
		return nil, false
	}
	return &ast.Fn{Params: params, ReturnType: retType, Body: body}, true
}

// ---- types (spec §4.2's bare-type grammar, reachable from `as`/`is`
// without the `type` keyword, and from `type` itself) ----

func (p *parser) parseType() (*ast.TypeExpr, *errs.ParseError) {
	startTok := p.peek()
	switch {
	case startTok.Kind == token.KwNullable:
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		n := &ast.TypeExpr{Form: ast.FormNullable, Inner: inner}
		n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
		return n, nil

	case startTok.Kind == token.LParen:
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "`)`"); err != nil {
			return nil, err
		}
		n := &ast.TypeExpr{Form: ast.FormParen, Inner: inner}
		n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
		return n, nil

	case startTok.Kind == token.Ident && startTok.Text == "record":
		return p.parseRecordOrTableType(false)

	case startTok.Kind == token.Ident && startTok.Text == "table":
		return p.parseRecordOrTableType(true)

	case startTok.Kind == token.Ident && startTok.Text == "list":
		p.advance()
		if _, err := p.expect(token.LBrace, "`{`"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace, "`}`"); err != nil {
			return nil, err
		}
		n := &ast.TypeExpr{Form: ast.FormList, ListElem: elem}
		n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
		return n, nil

	case startTok.Kind == token.Ident && startTok.Text == "function":
		return p.parseFunctionType(startTok)

	case startTok.Kind == token.Ident:
		p.advance()
		n := &ast.TypeExpr{Form: ast.FormPrimitive, Name: startTok.Text}
		n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
		return n, nil

	default:
		return nil, p.unexpected(startTok, "type")
	}
}

func (p *parser) parseFunctionType(startTok token.Token) (*ast.TypeExpr, *errs.ParseError) {
	p.advance() // 'function'
	if _, err := p.expect(token.LParen, "`(`"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if p.peek().Kind != token.RParen {
		for {
			optional := false
			if p.peek().Kind == token.KwOptional {
				optional = true
				p.advance()
			}
			nameTok, err := p.expect(token.Ident, "identifier")
			if err != nil {
				return nil, err
			}
			var ty *ast.TypeExpr
			if p.peek().Kind == token.KwAs {
				p.advance()
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				ty = t
			}
			params = append(params, &ast.Param{Name: nameTok.Text, Type: ty, Optional: optional})
			if p.peek().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RParen, "`)`"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwAs, "`as`"); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	n := &ast.TypeExpr{Form: ast.FormFunction, FuncParams: params, FuncReturn: ret}
	n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
	return n, nil
}

func (p *parser) parseRecordOrTableType(isTable bool) (*ast.TypeExpr, *errs.ParseError) {
	startTok := p.advance() // 'record' or 'table'
	if _, err := p.expect(token.LBracket, "`[`"); err != nil {
		return nil, err
	}
	var fields []*ast.TypeField
	if p.peek().Kind != token.RBracket {
		for {
			leading := p.startNode()
			nameStart := p.peek()
			name, err := p.parseJoinedFieldName()
			if err != nil {
				return nil, err
			}
			var ty *ast.TypeExpr
			if p.peek().Kind == token.Equals {
				p.advance()
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				ty = t
			}
			f := &ast.TypeField{Name: name, Type: ty}
			f.Leading = leading
			f.SpanVal = ast.Span{Start: nameStart.Pos, End: p.lastEnd}
			fields = append(fields, f)
			if p.peek().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(token.RBracket, "`]`"); err != nil {
		return nil, err
	}
	form := ast.FormRecord
	if isTable {
		form = ast.FormTable
	}
	n := &ast.TypeExpr{Form: form, Fields: fields}
	n.SpanVal = ast.Span{Start: startTok.Pos, End: p.lastEnd}
	return n, nil
}

// parseJoinedFieldName joins a run of consecutive identifier-like words
// (e.g. `Date accessed`) into a single field name, per spec §4.2's
// multi-word type field name rule.
func (p *parser) parseJoinedFieldName() (string, *errs.ParseError) {
	first := p.peek()
	if first.Kind != token.Ident && !token.IsContextualFieldKeyword(first.Kind) {
		return "", p.unexpected(first, "field name")
	}
	var words []string
	for {
		tok := p.peek()
		if tok.Kind != token.Ident && !token.IsContextualFieldKeyword(tok.Kind) {
			break
		}
		p.advance()
		words = append(words, tok.Text)
		switch p.peek().Kind {
		case token.Equals, token.Comma, token.RBracket:
			return strings.Join(words, " "), nil
		}
	}
	return strings.Join(words, " "), nil
}
