// Package printer implements the pretty-printer described in spec §4.3: it
// walks an ast.Expr tree and emits formatted Power Query M source text.
//
// Rather than building a Wadler-style layout combinator library, this
// measures a candidate single-line rendering of a construct and compares
// its width (via github.com/rivo/uniseg for grapheme-aware display width,
// the same library protocompile leans on for source positions) against the
// configured line length, falling back to a construct-specific multi-line
// layout when it doesn't fit — grounded on protocompile's
// experimental/ast/printer package's measure-then-emit structure, adapted
// from its protobuf declarations to M's expression grammar.
package printer

import (
	"strings"

	"github.com/fukuyori/pqm-formatter/ast"
	"github.com/fukuyori/pqm-formatter/token"
	"github.com/rivo/uniseg"
)

// Print renders expr as formatted M source text, always ending in exactly
// one trailing newline.
func Print(expr ast.Expr, opts Options) string {
	p := &printer{opts: opts}
	p.printExpr(expr, 0)
	return strings.TrimRight(p.sb.String(), "\n") + "\n"
}

type printer struct {
	opts Options
	sb   strings.Builder
	col  int
}

func measureWidth(s string) int {
	i := 0
	for i < len(s) && s[i] == '\t' {
		i++
	}
	return i*4 + uniseg.StringWidth(s[i:])
}

func (p *printer) write(s string) {
	p.sb.WriteString(s)
	if nl := strings.LastIndexByte(s, '\n'); nl >= 0 {
		p.col = measureWidth(s[nl+1:])
	} else {
		p.col += measureWidth(s)
	}
}

func (p *printer) newline() { p.write("\n") }

func (p *printer) indentLevelStr(level int) string {
	if p.opts.IndentChar == '\t' {
		return strings.Repeat("\t", level)
	}
	width := p.opts.IndentWidth
	if width <= 0 {
		width = 2
	}
	return strings.Repeat(" ", width*level)
}

func (p *printer) writeIndent(level int) { p.write(p.indentLevelStr(level)) }

func (p *printer) fits(s string) bool {
	return p.col+measureWidth(s) <= p.opts.LineLength
}

// shouldExpand decides whether n's body should render as a single-line
// "flat" candidate or break onto multiple lines. Default and Compact both
// break only when the flat candidate overflows the line or carries a
// comment that can't be inlined; Expanded always breaks. `let` is the one
// construct Default always breaks regardless of fit (see printLet), so it
// never reaches this generic path in Default mode.
//
// Default additionally requires a Record or List's fields/items to all be
// "simple" (the §4.3 complexity heuristic) before collapsing it flat: a
// record or list holding a `let`/`if`/`try`/function/`section` child stays
// broken even when the flat rendering would fit, per the layout rule
// "Record: flat when simple and fitting" / "List: same breaking rule as
// record". Compact has no such restriction ("always attempt flat first").
//
// The flat candidate is built by flatRenderBody, a standalone renderer
// kept independent of printExprBody so measuring a candidate never
// re-enters the expand/collapse decision it is trying to make.
func (p *printer) shouldExpand(n ast.Expr) (flat string, expand bool) {
	if p.opts.Mode == ModeExpanded {
		return "", true
	}
	text, ok := flatRenderBody(n)
	if !ok || !p.fits(text) {
		return "", true
	}
	if p.opts.Mode == ModeDefault && !childrenSimple(n) {
		return "", true
	}
	return text, false
}

// childrenSimple reports whether n's immediate fields/items all satisfy the
// §4.3 complexity heuristic's "simple" predicate. It only restricts Record
// and List (the two constructs whose layout rule names "simple" as a
// collapsing precondition); every other container kind returns true so its
// own fits-only policy in shouldExpand is unaffected.
func childrenSimple(n ast.Expr) bool {
	switch v := n.(type) {
	case *ast.RecordLit:
		for _, f := range v.Fields {
			if !isSimpleValue(f.Value) {
				return false
			}
		}
		return true
	case *ast.ListLit:
		for _, it := range v.Items {
			if !isSimpleValue(it) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// isSimpleValue implements §4.3's Default-mode complexity heuristic: a
// literal, identifier, or type expression is simple; a unary over a simple
// operand is simple; a binary whose operands are both simple is simple; a
// call whose arguments are all simple is simple; a record or list whose
// fields/items are all simple is simple. `let`, `if`, `try`, a function
// literal, and `section` are never simple, so a Record or List holding one
// of those as a field/item value is forced to break even when it would
// otherwise fit flat.
func isSimpleValue(n ast.Expr) bool {
	switch v := n.(type) {
	case *ast.Literal, *ast.Identifier, *ast.TypeExpr:
		return true
	case *ast.Unary:
		return isSimpleValue(v.Operand)
	case *ast.Binary:
		return isSimpleValue(v.Lhs) && isSimpleValue(v.Rhs)
	case *ast.Call:
		for _, a := range v.Args {
			if !isSimpleValue(a) {
				return false
			}
		}
		return true
	case *ast.RecordLit:
		for _, f := range v.Fields {
			if !isSimpleValue(f.Value) {
				return false
			}
		}
		return true
	case *ast.ListLit:
		for _, it := range v.Items {
			if !isSimpleValue(it) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// printExpr prints n's attached leading comments (each on its own line),
// its body, then its trailing comments (appended to the current line).
func (p *printer) printExpr(n ast.Expr, level int) {
	leading, trailing := ast.Comments(n)
	for _, c := range leading {
		p.writeIndent(level)
		p.write(c.Text)
		p.newline()
	}
	p.printExprBody(n, level)
	for _, c := range trailing {
		p.write(" ")
		p.write(c.Text)
	}
}

func (p *printer) printExprBody(n ast.Expr, level int) {
	switch v := n.(type) {
	case *ast.Literal:
		p.write(v.Raw)
	case *ast.Identifier:
		p.write(v.Name)
	case *ast.Paren:
		p.write("(")
		p.printExpr(v.Inner, level)
		p.write(")")
	case *ast.Unary:
		p.write(unaryText(v.Op))
		p.printExpr(v.Operand, level)
	case *ast.Binary:
		p.printExpr(v.Lhs, level)
		p.write(binarySep(v.Op))
		p.printExpr(v.Rhs, level)
	case *ast.AsType:
		p.printExpr(v.Expr, level)
		p.write(" as ")
		p.printType(v.Type, level)
	case *ast.IsType:
		p.printExpr(v.Expr, level)
		p.write(" is ")
		p.printType(v.Type, level)
	case *ast.Meta:
		p.printExpr(v.Expr, level)
		p.write(" meta ")
		p.printExpr(v.Metadata, level)
	case *ast.FieldAccess:
		p.printExpr(v.Expr, level)
		p.write("[")
		p.write(v.Field)
		p.write("]")
		if v.Optional {
			p.write("?")
		}
	case *ast.ItemAccess:
		p.printExpr(v.Expr, level)
		p.write("{")
		p.printExpr(v.Index, level)
		p.write("}")
		if v.Optional {
			p.write("?")
		}
	case *ast.FieldProjection:
		p.printExpr(v.Expr, level)
		p.write("[")
		for i, f := range v.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write("[")
			p.write(f)
			p.write("]")
		}
		p.write("]")
		if v.Optional {
			p.write("?")
		}
	case *ast.Call:
		p.printCall(v, level)
	case *ast.RecordLit:
		p.printRecordLit(v, level)
	case *ast.ListLit:
		p.printListLit(v, level)
	case *ast.Let:
		p.printLet(v, level)
	case *ast.If:
		p.printIf(v, level)
	case *ast.Try:
		p.printTry(v, level)
	case *ast.Fn:
		p.printFn(v, level)
	case *ast.Each:
		p.write("each ")
		p.printExpr(v.Body, level)
	case *ast.Section:
		p.printSection(v, level)
	case *ast.TypeExpr:
		p.printType(v, level)
	}
}

func unaryText(op token.Kind) string {
	switch op {
	case token.Minus:
		return "-"
	case token.Plus:
		return "+"
	case token.KwNot:
		return "not "
	default:
		return ""
	}
}

func binarySep(op token.Kind) string {
	switch op {
	case token.KwOr:
		return " or "
	case token.KwAnd:
		return " and "
	case token.Equals:
		return " = "
	case token.NotEq:
		return " <> "
	case token.Lt:
		return " < "
	case token.Le:
		return " <= "
	case token.Gt:
		return " > "
	case token.Ge:
		return " >= "
	case token.Plus:
		return " + "
	case token.Minus:
		return " - "
	case token.Amp:
		return " & "
	case token.Star:
		return " * "
	case token.Slash:
		return " / "
	case token.DotDot:
		return ".."
	default:
		return " "
	}
}

func (p *printer) printCall(v *ast.Call, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.printExpr(v.Callee, level)
	if len(v.Args) == 0 {
		p.write("()")
		return
	}
	p.write("(")
	p.newline()
	for i, a := range v.Args {
		p.writeIndent(level + 1)
		p.printExpr(a, level+1)
		if i < len(v.Args)-1 {
			p.write(",")
		}
		p.newline()
	}
	p.writeIndent(level)
	p.write(")")
}

func (p *printer) printRecordLit(v *ast.RecordLit, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.write("[")
	p.newline()
	for i, f := range v.Fields {
		for _, c := range f.Leading {
			p.writeIndent(level + 1)
			p.write(c.Text)
			p.newline()
		}
		p.writeIndent(level + 1)
		p.write(f.Name)
		p.write(" = ")
		p.printExpr(f.Value, level+1)
		if i < len(v.Fields)-1 {
			p.write(",")
		}
		for _, c := range f.Trailing {
			p.write(" ")
			p.write(c.Text)
		}
		p.newline()
	}
	p.writeIndent(level)
	p.write("]")
}

func (p *printer) printListLit(v *ast.ListLit, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.write("{")
	p.newline()
	for i, it := range v.Items {
		p.writeIndent(level + 1)
		p.printExpr(it, level+1)
		if i < len(v.Items)-1 {
			p.write(",")
		}
		p.newline()
	}
	p.writeIndent(level)
	p.write("}")
}

func (p *printer) printLet(v *ast.Let, level int) {
	// Default always breaks a let open, even when the flat form would fit
	// (spec's let layout rule); only Compact's fit-check and Expanded's
	// always-flat-candidate-rejection go through the generic path.
	if p.opts.Mode != ModeDefault {
		flat, expand := p.shouldExpand(v)
		if !expand {
			p.write(flat)
			return
		}
	}
	p.write("let")
	p.newline()
	for i, b := range v.Bindings {
		for _, c := range b.Leading {
			p.writeIndent(level + 1)
			p.write(c.Text)
			p.newline()
		}
		p.writeIndent(level + 1)
		p.write(b.Name)
		p.write(" = ")
		p.printExpr(b.Value, level+1)
		if i < len(v.Bindings)-1 {
			p.write(",")
		}
		for _, c := range b.Trailing {
			p.write(" ")
			p.write(c.Text)
		}
		p.newline()
	}
	p.writeIndent(level)
	p.write("in")
	p.newline()
	p.writeIndent(level + 1)
	p.printExpr(v.Body, level+1)
}

func (p *printer) printIf(v *ast.If, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.write("if ")
	p.printExpr(v.Cond, level)
	p.newline()
	p.writeIndent(level)
	p.write("then ")
	p.printExpr(v.Then, level)
	p.newline()
	p.writeIndent(level)
	p.write("else ")
	p.printExpr(v.Else, level)
}

func (p *printer) printTry(v *ast.Try, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.write("try ")
	p.printExpr(v.Body, level)
	if v.Otherwise != nil {
		p.newline()
		p.writeIndent(level)
		p.write("otherwise ")
		p.printExpr(v.Otherwise, level)
	}
}

func (p *printer) printFn(v *ast.Fn, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.printParamList(v.Params, level)
	if v.ReturnType != nil {
		p.write(" as ")
		p.printType(v.ReturnType, level)
	}
	p.write(" =>")
	p.newline()
	p.writeIndent(level + 1)
	p.printExpr(v.Body, level+1)
}

func (p *printer) printParamList(params []*ast.Param, level int) {
	p.write("(")
	for i, prm := range params {
		if i > 0 {
			p.write(", ")
		}
		if prm.Optional {
			p.write("optional ")
		}
		p.write(prm.Name)
		if prm.Type != nil {
			p.write(" as ")
			p.printType(prm.Type, level)
		}
	}
	p.write(")")
}

func (p *printer) printSection(v *ast.Section, level int) {
	flat, expand := p.shouldExpand(v)
	if !expand {
		p.write(flat)
		return
	}
	p.write("section")
	if v.HasName {
		p.write(" ")
		p.write(v.Name)
	}
	p.write(";")
	p.newline()
	for _, m := range v.Members {
		for _, c := range m.Leading {
			p.writeIndent(level)
			p.write(c.Text)
			p.newline()
		}
		p.writeIndent(level)
		if m.Shared {
			p.write("shared ")
		}
		p.write(m.Name)
		p.write(" = ")
		p.printExpr(m.Value, level)
		p.write(";")
		for _, c := range m.Trailing {
			p.write(" ")
			p.write(c.Text)
		}
		p.newline()
	}
}

func (p *printer) printType(t *ast.TypeExpr, level int) {
	switch t.Form {
	case ast.FormPrimitive:
		p.write(t.Name)
	case ast.FormNullable:
		p.write("nullable ")
		p.printType(t.Inner, level)
	case ast.FormParen:
		p.write("(")
		p.printType(t.Inner, level)
		p.write(")")
	case ast.FormList:
		p.write("list {")
		p.printType(t.ListElem, level)
		p.write("}")
	case ast.FormRecord, ast.FormTable:
		if t.Form == ast.FormTable {
			p.write("table ")
		} else {
			p.write("record ")
		}
		p.write("[")
		for i, f := range t.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name)
			if f.Type != nil {
				p.write(" = ")
				p.printType(f.Type, level)
			}
		}
		p.write("]")
	case ast.FormFunction:
		p.write("function ")
		p.printParamList(t.FuncParams, level)
		if t.FuncReturn != nil {
			p.write(" as ")
			p.printType(t.FuncReturn, level)
		}
	}
}

func anyLineComment(cs []token.Token) bool {
	for _, c := range cs {
		if c.Kind == token.LineComment {
			return true
		}
	}
	return false
}

// ---- flat (single-line) candidate rendering, used only for measurement ----
//
// This mirrors printExprBody's shape but is a standalone, non-recursive-
// into-the-decision renderer: it never calls shouldExpand, so it cannot
// loop back into itself the way reusing printExprBody directly would.

func flatRenderChild(n ast.Expr) (string, bool) {
	if n == nil {
		return "", true
	}
	leading, trailing := ast.Comments(n)
	if anyLineComment(leading) || anyLineComment(trailing) {
		return "", false
	}
	body, ok := flatRenderBody(n)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, c := range leading {
		b.WriteString(c.Text)
		b.WriteString(" ")
	}
	b.WriteString(body)
	for _, c := range trailing {
		b.WriteString(" ")
		b.WriteString(c.Text)
	}
	return b.String(), true
}

func flatRenderBody(n ast.Expr) (string, bool) {
	switch v := n.(type) {
	case *ast.Literal:
		return v.Raw, true
	case *ast.Identifier:
		return v.Name, true
	case *ast.Paren:
		inner, ok := flatRenderChild(v.Inner)
		if !ok {
			return "", false
		}
		return "(" + inner + ")", true
	case *ast.Unary:
		inner, ok := flatRenderChild(v.Operand)
		if !ok {
			return "", false
		}
		return unaryText(v.Op) + inner, true
	case *ast.Binary:
		l, ok1 := flatRenderChild(v.Lhs)
		r, ok2 := flatRenderChild(v.Rhs)
		if !ok1 || !ok2 {
			return "", false
		}
		return l + binarySep(v.Op) + r, true
	case *ast.AsType:
		e, ok := flatRenderChild(v.Expr)
		ty, ok2 := flatRenderType(v.Type)
		if !ok || !ok2 {
			return "", false
		}
		return e + " as " + ty, true
	case *ast.IsType:
		e, ok := flatRenderChild(v.Expr)
		ty, ok2 := flatRenderType(v.Type)
		if !ok || !ok2 {
			return "", false
		}
		return e + " is " + ty, true
	case *ast.Meta:
		e, ok1 := flatRenderChild(v.Expr)
		m, ok2 := flatRenderChild(v.Metadata)
		if !ok1 || !ok2 {
			return "", false
		}
		return e + " meta " + m, true
	case *ast.FieldAccess:
		e, ok := flatRenderChild(v.Expr)
		if !ok {
			return "", false
		}
		s := e + "[" + v.Field + "]"
		if v.Optional {
			s += "?"
		}
		return s, true
	case *ast.ItemAccess:
		e, ok1 := flatRenderChild(v.Expr)
		idx, ok2 := flatRenderChild(v.Index)
		if !ok1 || !ok2 {
			return "", false
		}
		s := e + "{" + idx + "}"
		if v.Optional {
			s += "?"
		}
		return s, true
	case *ast.FieldProjection:
		e, ok := flatRenderChild(v.Expr)
		if !ok {
			return "", false
		}
		var b strings.Builder
		b.WriteString(e)
		b.WriteString("[")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("[")
			b.WriteString(f)
			b.WriteString("]")
		}
		b.WriteString("]")
		if v.Optional {
			b.WriteString("?")
		}
		return b.String(), true
	case *ast.Call:
		callee, ok := flatRenderChild(v.Callee)
		if !ok {
			return "", false
		}
		var b strings.Builder
		b.WriteString(callee)
		b.WriteString("(")
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			s, ok := flatRenderChild(a)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		b.WriteString(")")
		return b.String(), true
	case *ast.RecordLit:
		var b strings.Builder
		b.WriteString("[")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			if anyLineComment(f.Leading) || anyLineComment(f.Trailing) {
				return "", false
			}
			s, ok := flatRenderChild(f.Value)
			if !ok {
				return "", false
			}
			b.WriteString(f.Name)
			b.WriteString(" = ")
			b.WriteString(s)
		}
		b.WriteString("]")
		return b.String(), true
	case *ast.ListLit:
		var b strings.Builder
		b.WriteString("{")
		for i, it := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			s, ok := flatRenderChild(it)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		b.WriteString("}")
		return b.String(), true
	case *ast.Let:
		var b strings.Builder
		b.WriteString("let ")
		for i, bd := range v.Bindings {
			if i > 0 {
				b.WriteString(", ")
			}
			if anyLineComment(bd.Leading) || anyLineComment(bd.Trailing) {
				return "", false
			}
			s, ok := flatRenderChild(bd.Value)
			if !ok {
				return "", false
			}
			b.WriteString(bd.Name)
			b.WriteString(" = ")
			b.WriteString(s)
		}
		b.WriteString(" in ")
		s, ok := flatRenderChild(v.Body)
		if !ok {
			return "", false
		}
		b.WriteString(s)
		return b.String(), true
	case *ast.If:
		c, ok1 := flatRenderChild(v.Cond)
		t, ok2 := flatRenderChild(v.Then)
		e, ok3 := flatRenderChild(v.Else)
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		return "if " + c + " then " + t + " else " + e, true
	case *ast.Try:
		body, ok := flatRenderChild(v.Body)
		if !ok {
			return "", false
		}
		if v.Otherwise == nil {
			return "try " + body, true
		}
		oth, ok2 := flatRenderChild(v.Otherwise)
		if !ok2 {
			return "", false
		}
		return "try " + body + " otherwise " + oth, true
	case *ast.Fn:
		var b strings.Builder
		b.WriteString("(")
		for i, prm := range v.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			if prm.Optional {
				b.WriteString("optional ")
			}
			b.WriteString(prm.Name)
			if prm.Type != nil {
				ty, ok := flatRenderType(prm.Type)
				if !ok {
					return "", false
				}
				b.WriteString(" as ")
				b.WriteString(ty)
			}
		}
		b.WriteString(")")
		if v.ReturnType != nil {
			ty, ok := flatRenderType(v.ReturnType)
			if !ok {
				return "", false
			}
			b.WriteString(" as ")
			b.WriteString(ty)
		}
		b.WriteString(" => ")
		body, ok := flatRenderChild(v.Body)
		if !ok {
			return "", false
		}
		b.WriteString(body)
		return b.String(), true
	case *ast.Each:
		body, ok := flatRenderChild(v.Body)
		if !ok {
			return "", false
		}
		return "each " + body, true
	case *ast.Section:
		var b strings.Builder
		b.WriteString("section")
		if v.HasName {
			b.WriteString(" ")
			b.WriteString(v.Name)
		}
		b.WriteString(";")
		for _, m := range v.Members {
			if anyLineComment(m.Leading) || anyLineComment(m.Trailing) {
				return "", false
			}
			b.WriteString(" ")
			if m.Shared {
				b.WriteString("shared ")
			}
			s, ok := flatRenderChild(m.Value)
			if !ok {
				return "", false
			}
			b.WriteString(m.Name)
			b.WriteString(" = ")
			b.WriteString(s)
			b.WriteString(";")
		}
		return b.String(), true
	case *ast.TypeExpr:
		return flatRenderType(v)
	}
	return "", false
}

func flatRenderType(t *ast.TypeExpr) (string, bool) {
	switch t.Form {
	case ast.FormPrimitive:
		return t.Name, true
	case ast.FormNullable:
		inner, ok := flatRenderType(t.Inner)
		if !ok {
			return "", false
		}
		return "nullable " + inner, true
	case ast.FormParen:
		inner, ok := flatRenderType(t.Inner)
		if !ok {
			return "", false
		}
		return "(" + inner + ")", true
	case ast.FormList:
		inner, ok := flatRenderType(t.ListElem)
		if !ok {
			return "", false
		}
		return "list {" + inner + "}", true
	case ast.FormRecord, ast.FormTable:
		var b strings.Builder
		if t.Form == ast.FormTable {
			b.WriteString("table ")
		} else {
			b.WriteString("record ")
		}
		b.WriteString("[")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			if f.Type != nil {
				ty, ok := flatRenderType(f.Type)
				if !ok {
					return "", false
				}
				b.WriteString(" = ")
				b.WriteString(ty)
			}
		}
		b.WriteString("]")
		return b.String(), true
	case ast.FormFunction:
		var b strings.Builder
		b.WriteString("function (")
		for i, prm := range t.FuncParams {
			if i > 0 {
				b.WriteString(", ")
			}
			if prm.Optional {
				b.WriteString("optional ")
			}
			b.WriteString(prm.Name)
			if prm.Type != nil {
				ty, ok := flatRenderType(prm.Type)
				if !ok {
					return "", false
				}
				b.WriteString(" as ")
				b.WriteString(ty)
			}
		}
		b.WriteString(")")
		if t.FuncReturn != nil {
			ty, ok := flatRenderType(t.FuncReturn)
			if !ok {
				return "", false
			}
			b.WriteString(" as ")
			b.WriteString(ty)
		}
		return b.String(), true
	}
	return "", false
}
