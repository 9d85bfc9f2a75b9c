package printer

import (
	"testing"

	"github.com/fukuyori/pqm-formatter/lexer"
	"github.com/fukuyori/pqm-formatter/parser"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, src string, opts Options) string {
	t.Helper()
	toks, lexErr := lexer.Lex(src)
	require.Nil(t, lexErr)
	expr, parseErr := parser.Parse(toks)
	require.Nil(t, parseErr)
	return Print(expr, opts)
}

func TestPrintLetDefault(t *testing.T) {
	out := format(t, "let x=1,y=2 in x+y", DefaultOptions())
	require.Equal(t, "let\n    x = 1,\n    y = 2\nin\n    x + y\n", out)
}

// S1 from spec §8.2: Default mode, indent 4, line_length 100.
func TestPrintSpecScenarioS1(t *testing.T) {
	out := format(t, "let x=1,y=2,z=x+y in z", DefaultOptions())
	require.Equal(t, "let\n    x = 1,\n    y = 2,\n    z = x + y\nin\n    z\n", out)
}

func TestPrintLetCompact(t *testing.T) {
	out := format(t, "let\n  x = 1,\n  y = 2\nin\n  x + y\n", CompactOptions())
	require.Equal(t, "let x = 1, y = 2 in x + y\n", out)
}

func TestPrintIfCollapsesWhenShort(t *testing.T) {
	out := format(t, "if true then 1 else 2", DefaultOptions())
	require.Equal(t, "if true then 1 else 2\n", out)
}

func TestPrintIfExpandsInExpandedMode(t *testing.T) {
	out := format(t, "if true then 1 else 2", ExpandedOptions())
	require.Equal(t, "if true\nthen 1\nelse 2\n", out)
}

func TestPrintRecordAndListCollapse(t *testing.T) {
	out := format(t, "[  a  =  1 ,  b = 2 ]", DefaultOptions())
	require.Equal(t, "[a = 1, b = 2]\n", out)

	out = format(t, "{ 1 , 2 , 3 }", DefaultOptions())
	require.Equal(t, "{1, 2, 3}\n", out)
}

func TestPrintRecordExpandsWhenLong(t *testing.T) {
	opts := DefaultOptions()
	opts.LineLength = 20
	out := format(t, "[alpha = 1, beta = 2, gamma = 3]", opts)
	require.Equal(t, "[\n    alpha = 1,\n    beta = 2,\n    gamma = 3\n]\n", out)
}

func TestPrintRecordBreaksForComplexFieldValue(t *testing.T) {
	// A `let` field value is never "simple" (§4.3's complexity heuristic),
	// so the enclosing record must break even though the flat rendering
	// would fit comfortably within the default line length.
	out := format(t, "[a = let x = 1 in x]", DefaultOptions())
	require.Equal(t, "[\n    a = let\n        x = 1\n    in\n        x\n]\n", out)
}

func TestPrintListStaysFlatForSimpleItems(t *testing.T) {
	out := format(t, "{1, x, 2+3}", DefaultOptions())
	require.Equal(t, "{1, x, 2 + 3}\n", out)
}

func TestPrintRecordStaysFlatInCompactDespiteComplexValue(t *testing.T) {
	// Compact mode has no "simple" restriction: it attempts flat first and
	// only breaks when the flat rendering overflows the line.
	out := format(t, "[a = let x = 1 in x]", CompactOptions())
	require.Equal(t, "[a = let x = 1 in x]\n", out)
}

func TestPrintFieldAccessAndCall(t *testing.T) {
	out := format(t, "Table.FromRecords(data)[Column]", DefaultOptions())
	require.Equal(t, "Table.FromRecords(data)[Column]\n", out)
}

func TestPrintEqualityOperator(t *testing.T) {
	out := format(t, "x=1", DefaultOptions())
	require.Equal(t, "x = 1\n", out)
}

func TestPrintEqualityInsideIf(t *testing.T) {
	out := format(t, "if a=b then 1 else 2", DefaultOptions())
	require.Equal(t, "if a = b then 1 else 2\n", out)
}

func TestPrintPreservesTrailingLineComment(t *testing.T) {
	out := format(t, "let\n  x = 1, // note\n  y = 2\nin x + y", DefaultOptions())
	require.Contains(t, out, "x = 1, // note\n")
}

func TestPrintTabIndent(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentChar = '\t'
	out := format(t, "let x=1 in x", opts)
	require.Equal(t, "let\n\tx = 1\nin\n\tx\n", out)
}

func TestPrintSectionWithTrailingComment(t *testing.T) {
	out := format(t, "section Foo;\n  x = 1; // note\n  y = 2;", DefaultOptions())
	require.Equal(t, "section Foo;\nx = 1; // note\ny = 2;\n", out)
}

func TestPrintIdempotent(t *testing.T) {
	src := "let\n  x = 1,\n  y = x + 1\nin\n  y\n"
	first := format(t, src, DefaultOptions())
	second := format(t, first, DefaultOptions())
	require.Equal(t, first, second)
}
