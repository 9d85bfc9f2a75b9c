package pqmfmt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/fukuyori/pqm-formatter/ast"
	"github.com/fukuyori/pqm-formatter/lexer"
	"github.com/fukuyori/pqm-formatter/parser"
	"github.com/fukuyori/pqm-formatter/token"
)

// astEqual reports whether a and b are equal ASTs modulo span positions and
// comment positions (spec §8.1's parser-stability property explicitly
// exempts both), grounded on protocompile's internal/prototest structural-
// diff helpers, which compare parsed trees the same way.
func astEqual(t *testing.T, a, b ast.Expr) bool {
	t.Helper()
	opts := []cmp.Option{
		cmpopts.IgnoreTypes(ast.Span{}),
		cmpopts.IgnoreFields(token.Token{}, "Pos"),
	}
	diff := cmp.Diff(a, b, opts...)
	if diff != "" {
		t.Logf("AST mismatch (-want +got):\n%s", diff)
		return false
	}
	return true
}

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks, lexErr := lexer.Lex(src)
	require.Nil(t, lexErr)
	expr, parseErr := parser.Parse(toks)
	require.Nil(t, parseErr)
	return expr
}

func TestFormatBasic(t *testing.T) {
	out, err := Format("let x=1,y=2 in x+y", DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "let\n    x = 1,\n    y = 2\nin\n    x + y\n", out)
}

func TestFormatLexError(t *testing.T) {
	out, err := Format(`"unterminated`, DefaultConfig())
	require.Error(t, err)
	require.Empty(t, out)
}

func TestFormatParseError(t *testing.T) {
	_, err := Format("let x = in x", DefaultConfig())
	require.Error(t, err)
}

func TestFormatIdempotent(t *testing.T) {
	srcs := []string{
		"let x=1,y=2 in x+y",
		"if x then 1 else 2",
		"Table.FromRecords({[a=1],[a=2]})",
		"each [Value] > 1",
		"[a = 1, b = {1, 2, 3}]",
	}
	for _, src := range srcs {
		first, err := Format(src, DefaultConfig())
		require.NoError(t, err)
		second, err := Format(first, DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, first, second, "not idempotent for %q", src)
	}
}

func TestFormatParserStability(t *testing.T) {
	// Formatting must not change the parsed meaning: reformatting the
	// Compact-mode rendering with Default must give back the same
	// Default-mode rendering as formatting the source directly.
	src := "let\n  a = 1,\n  b = a + 1\nin\n  b"
	def, err := Format(src, DefaultConfig())
	require.NoError(t, err)

	compact, err := Format(src, CompactConfig())
	require.NoError(t, err)
	redone, err := Format(compact, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, def, redone)
}

func TestFormatParserStabilityAST(t *testing.T) {
	// spec §8.1: parse(s) and parse(format(s, c)) must produce ASTs equal
	// modulo span positions and attached-comment line numbers.
	srcs := []string{
		"let x=1,y=2,z=x+y in z",
		"if a=b then 1 else 2",
		`Table.SelectRows(S, each [Type] = "Foo")`,
		"[a = 1, b = {1, 2, 3}]",
		"(x as number, optional y as text) => x",
	}
	for _, src := range srcs {
		want := mustParse(t, src)
		out, err := Format(src, DefaultConfig())
		require.NoError(t, err)
		got := mustParse(t, out)
		require.True(t, astEqual(t, want, got), "AST changed by formatting %q", src)
	}
}

func TestFormatPreservesComments(t *testing.T) {
	src := "let\n  x = 1, // keep me\n  y = 2\nin x + y"
	out, err := Format(src, DefaultConfig())
	require.NoError(t, err)
	require.Contains(t, out, "// keep me")
}

func TestFormatIndentConsistency(t *testing.T) {
	src := "[a = {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}]"
	cfg := DefaultConfig().WithLineLength(20)
	out, err := Format(src, cfg)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "]" || line == "[" {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "  ") {
			continue
		}
		require.True(t, strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]"),
			"unexpected indentation on line %q", line)
	}
}

func TestFormatNoTrailingWhitespace(t *testing.T) {
	out, err := Format("let x = 1 in x", DefaultConfig())
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		require.Equal(t, strings.TrimRight(line, " \t"), line)
	}
}

func TestFormatEndsWithSingleNewline(t *testing.T) {
	out, err := Format("1", DefaultConfig())
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "\n"))
	require.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestFormatCompactConfigFactories(t *testing.T) {
	require.Equal(t, ModeDefault, DefaultConfig().Mode)
	require.Equal(t, ModeCompact, CompactConfig().Mode)
	require.Equal(t, ModeExpanded, ExpandedConfig().Mode)
}

func TestFormatWithOptionSetters(t *testing.T) {
	cfg := DefaultConfig().WithIndentUnit(4).WithIndentChar('\t').WithLineLength(40)
	require.Equal(t, 4, cfg.IndentUnit)
	require.Equal(t, byte('\t'), cfg.IndentChar)
	require.Equal(t, 40, cfg.LineLength)

	out, err := Format("let x = 1 in x", cfg)
	require.NoError(t, err)
	require.Equal(t, "let\n\tx = 1\nin\n\tx\n", out)
}
