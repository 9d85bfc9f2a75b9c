package parser

import (
	"testing"

	"github.com/fukuyori/pqm-formatter/ast"
	"github.com/fukuyori/pqm-formatter/lexer"
	"github.com/fukuyori/pqm-formatter/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks, lexErr := lexer.Lex(src)
	require.Nil(t, lexErr, "unexpected lex error")
	expr, parseErr := Parse(toks)
	require.Nil(t, parseErr, "unexpected parse error")
	return expr
}

func TestParseLiteralsAndIdentifier(t *testing.T) {
	expr := parse(t, "42")
	lit, ok := expr.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, "42", lit.Raw)

	expr = parse(t, "x")
	id, ok := expr.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "x", id.Name)
}

func TestParseLet(t *testing.T) {
	expr := parse(t, "let x = 1, y = x + 1 in y")
	let, ok := expr.(*ast.Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 2)
	require.Equal(t, "x", let.Bindings[0].Name)
	require.Equal(t, "y", let.Bindings[1].Name)
	_, ok = let.Body.(*ast.Identifier)
	require.True(t, ok)
}

func TestParseIfTryEach(t *testing.T) {
	expr := parse(t, "if x then 1 else 2")
	_, ok := expr.(*ast.If)
	require.True(t, ok)

	expr = parse(t, "try 1/0 otherwise 0")
	tr, ok := expr.(*ast.Try)
	require.True(t, ok)
	require.NotNil(t, tr.Otherwise)

	expr = parse(t, "each [Value] > 1")
	each, ok := expr.(*ast.Each)
	require.True(t, ok)
	_, ok = each.Body.(*ast.Binary)
	require.True(t, ok)
}

func TestParseFnVsParen(t *testing.T) {
	expr := parse(t, "(x) => x + 1")
	fn, ok := expr.(*ast.Fn)
	require.True(t, ok)
	require.Len(t, fn.Params, 1)

	expr = parse(t, "(1 + 2)")
	paren, ok := expr.(*ast.Paren)
	require.True(t, ok)
	_, ok = paren.Inner.(*ast.Binary)
	require.True(t, ok)

	expr = parse(t, "(x as number) as number")
	asType, ok := expr.(*ast.AsType)
	require.True(t, ok)
	_, ok = asType.Expr.(*ast.Paren)
	require.True(t, ok)

	expr = parse(t, "(x as number) => x")
	fn, ok = expr.(*ast.Fn)
	require.True(t, ok)
	require.Len(t, fn.Params, 1)
	require.NotNil(t, fn.Params[0].Type)
}

func TestParsePostfixChains(t *testing.T) {
	expr := parse(t, "Table.FromRecords(data)[Column]{0}")
	item, ok := expr.(*ast.ItemAccess)
	require.True(t, ok)
	fa, ok := item.Expr.(*ast.FieldAccess)
	require.True(t, ok)
	require.Equal(t, "Column", fa.Field)
	call, ok := fa.Expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseFieldProjectionAndOptional(t *testing.T) {
	expr := parse(t, "row[[Name], [Age]]?")
	proj, ok := expr.(*ast.FieldProjection)
	require.True(t, ok)
	require.Equal(t, []string{"Name", "Age"}, proj.Fields)
	require.True(t, proj.Optional)
}

func TestParseRecordAndListLiterals(t *testing.T) {
	expr := parse(t, `[a = 1, type = 2]`)
	rec, ok := expr.(*ast.RecordLit)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)
	require.Equal(t, "type", rec.Fields[1].Name)

	expr = parse(t, "{1, 2..5, 9}")
	list, ok := expr.(*ast.ListLit)
	require.True(t, ok)
	require.Len(t, list.Items, 3)
	rng, ok := list.Items[1].(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.DotDot, rng.Op)
}

func TestParseTypes(t *testing.T) {
	expr := parse(t, "x as nullable list { number }")
	asType := expr.(*ast.AsType)
	require.Equal(t, ast.FormNullable, asType.Type.Form)
	require.Equal(t, ast.FormList, asType.Type.Inner.Form)

	expr = parse(t, "x as table [Name = text, Date accessed = datetimezone]")
	asType = expr.(*ast.AsType)
	require.Equal(t, ast.FormTable, asType.Type.Form)
	require.Len(t, asType.Type.Fields, 2)
	require.Equal(t, "Date accessed", asType.Type.Fields[1].Name)

	expr = parse(t, "x as function (a as number, optional b as text) as logical")
	asType = expr.(*ast.AsType)
	require.Equal(t, ast.FormFunction, asType.Type.Form)
	require.Len(t, asType.Type.FuncParams, 2)
	require.True(t, asType.Type.FuncParams[1].Optional)
}

func TestParseSection(t *testing.T) {
	expr := parse(t, "section Foo; shared x = 1; y = x + 1;")
	sec, ok := expr.(*ast.Section)
	require.True(t, ok)
	require.True(t, sec.HasName)
	require.Equal(t, "Foo", sec.Name)
	require.Len(t, sec.Members, 2)
	require.True(t, sec.Members[0].Shared)
}

func TestParseEqualityUsesSingleEquals(t *testing.T) {
	expr := parse(t, `Table.SelectRows(S, each [Type] = "Foo")`)
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	each := call.Args[1].(*ast.Each)
	bin, ok := each.Body.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.Equals, bin.Op)

	expr = parse(t, "if a = b then 1 else 2")
	ifExpr, ok := expr.(*ast.If)
	require.True(t, ok)
	bin, ok = ifExpr.Cond.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.Equals, bin.Op)
}

func TestCommentAttachment(t *testing.T) {
	expr := parse(t, "let\n  x = 1, // note\n  y = 2\nin x + y")
	let := expr.(*ast.Let)
	require.Len(t, let.Bindings[0].Trailing, 1)
	require.Equal(t, "// note", let.Bindings[0].Trailing[0].Text)
}

func TestCommentAttachmentAfterSectionMember(t *testing.T) {
	expr := parse(t, "section Foo;\n  x = 1; // note\n  y = 2;")
	sec := expr.(*ast.Section)
	require.Len(t, sec.Members[0].Trailing, 1)
	require.Equal(t, "// note", sec.Members[0].Trailing[0].Text)
	require.Empty(t, sec.Members[1].Leading)
}

func TestParseErrorReportsPosition(t *testing.T) {
	toks, lexErr := lexer.Lex("let x = in x")
	require.Nil(t, lexErr)
	_, parseErr := Parse(toks)
	require.NotNil(t, parseErr)
	require.Equal(t, 1, parseErr.Line)
}
