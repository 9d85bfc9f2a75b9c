// Package ast defines the Power Query M abstract syntax tree (spec §3.2):
// a tagged union of expression variants, each carrying a source span and
// attached leading/trailing comment tokens.
//
// Following the teacher's own preference for a single sum type over a
// class hierarchy (see spec §9's design notes), Expr is a narrow interface
// implemented by one struct per variant. Each variant reports itself via
// Kind(); the printer dispatches with type switches over the variant types.
package ast

import "github.com/fukuyori/pqm-formatter/token"

// Span is the source range of a node, open on the end (End is the
// position just past the node's last character), matching the convention
// used by token positions throughout this module.
type Span struct {
	Start, End token.Position
}

// Kind identifies which Expr variant a node is.
type Kind int

const (
	KindLet Kind = iota
	KindIf
	KindTry
	KindFn
	KindEach
	KindSection
	KindBinary
	KindUnary
	KindAsType
	KindIsType
	KindMeta
	KindFieldAccess
	KindItemAccess
	KindFieldProjection
	KindCall
	KindRecordLit
	KindListLit
	KindParen
	KindIdentifier
	KindLiteral
	KindTypeExpr
)

// Base is embedded in every Expr variant. It carries the node's span and
// the comment tokens the parser attached to it (spec §3.2's invariant on
// comment attachment; see parser/trivia.go for how these are populated).
type Base struct {
	SpanVal  Span
	Leading  []token.Token
	Trailing []token.Token
}

func (b *Base) exprBase() *Base { return b }

// Span returns the node's source range.
func (b *Base) Span() Span { return b.SpanVal }

// Expr is the sum type of all M expression AST nodes.
type Expr interface {
	Kind() Kind
	Span() Span
	exprBase() *Base
}

// Comments returns e's attached leading and trailing comment tokens.
func Comments(e Expr) (leading, trailing []token.Token) {
	b := e.exprBase()
	return b.Leading, b.Trailing
}

// SetComments replaces e's attached leading and trailing comment tokens.
func SetComments(e Expr, leading, trailing []token.Token) {
	b := e.exprBase()
	b.Leading = leading
	b.Trailing = trailing
}

// SetSpan replaces e's source span.
func SetSpan(e Expr, span Span) {
	e.exprBase().SpanVal = span
}

// Binding is one (identifier, expr) pair in a Let's binding list.
type Binding struct {
	Base
	Name  string
	Value Expr
}

// Param is one (name, optional type, optional?) entry in a Fn's parameter
// list.
type Param struct {
	Base
	Name     string
	Type     *TypeExpr
	Optional bool
}

// Member is one (shared?, name, expr) entry in a Section's member list.
type Member struct {
	Base
	Shared bool
	Name   string
	Value  Expr
}

// RecordField is one (name, expr) pair in a RecordLit.
type RecordField struct {
	Base
	Name  string
	Value Expr
}

// Let is `let bindings... in body`.
type Let struct {
	Base
	Bindings []*Binding
	Body     Expr
}

func (n *Let) Kind() Kind { return KindLet }

// If is `if cond then then_branch else else_branch`.
type If struct {
	Base
	Cond, Then, Else Expr
}

func (n *If) Kind() Kind { return KindIf }

// Try is `try body` with an optional `otherwise handler`.
type Try struct {
	Base
	Body      Expr
	Otherwise Expr // nil if no `otherwise` clause
}

func (n *Try) Kind() Kind { return KindTry }

// Fn is `(params) as return_type => body`, with return_type optional.
type Fn struct {
	Base
	Params     []*Param
	ReturnType *TypeExpr
	Body       Expr
}

func (n *Fn) Kind() Kind { return KindFn }

// Each is `each body`, a shorthand single-parameter function whose
// implicit parameter is `_`.
type Each struct {
	Base
	Body Expr
}

func (n *Each) Kind() Kind { return KindEach }

// Section is a `section [name;] member*` top-level declaration list.
type Section struct {
	Base
	HasName bool
	Name    string
	Members []*Member
}

func (n *Section) Kind() Kind { return KindSection }

// Binary is a binary operator expression. Op is one of the grammar's
// binary operator token kinds (including token.DotDot, used to represent
// a range `a..b` inside a list literal's item position).
type Binary struct {
	Base
	Op       token.Kind
	Lhs, Rhs Expr
}

func (n *Binary) Kind() Kind { return KindBinary }

// Unary is a prefix operator expression: `-x`, `+x`, or `not x`.
type Unary struct {
	Base
	Op      token.Kind
	Operand Expr
}

func (n *Unary) Kind() Kind { return KindUnary }

// AsType is `expr as type`.
type AsType struct {
	Base
	Expr Expr
	Type *TypeExpr
}

func (n *AsType) Kind() Kind { return KindAsType }

// IsType is `expr is type`.
type IsType struct {
	Base
	Expr Expr
	Type *TypeExpr
}

func (n *IsType) Kind() Kind { return KindIsType }

// Meta is `expr meta metadata_expr`.
type Meta struct {
	Base
	Expr     Expr
	Metadata Expr
}

func (n *Meta) Kind() Kind { return KindMeta }

// FieldAccess is `expr[field]` or `expr[field]?`. A bare `[field]` on the
// implicit `_` receiver has an *Identifier with an empty Name as Expr.
type FieldAccess struct {
	Base
	Expr     Expr
	Field    string
	Optional bool
}

func (n *FieldAccess) Kind() Kind { return KindFieldAccess }

// ItemAccess is `expr{index}` or `expr{index}?`.
type ItemAccess struct {
	Base
	Expr     Expr
	Index    Expr
	Optional bool
}

func (n *ItemAccess) Kind() Kind { return KindItemAccess }

// FieldProjection is `expr[[f1], [f2], ...]` with an optional trailing
// `?`. Fields is always non-empty (spec §3.2's invariant).
type FieldProjection struct {
	Base
	Expr     Expr
	Fields   []string
	Optional bool
}

func (n *FieldProjection) Kind() Kind { return KindFieldProjection }

// Call is `callee(args...)`.
type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (n *Call) Kind() Kind { return KindCall }

// RecordLit is `[f1 = v1, f2 = v2, ...]`.
type RecordLit struct {
	Base
	Fields []*RecordField
}

func (n *RecordLit) Kind() Kind { return KindRecordLit }

// ListLit is `{i1, i2, ...}`. Items may themselves be ranges, represented
// as a *Binary with Op == token.DotDot.
type ListLit struct {
	Base
	Items []Expr
}

func (n *ListLit) Kind() Kind { return KindListLit }

// Paren is a parenthesized expression, kept distinct from its Inner so the
// printer can round-trip redundant parentheses the user wrote.
type Paren struct {
	Base
	Inner Expr
}

func (n *Paren) Kind() Kind { return KindParen }

// Identifier is a bare name reference, including quoted identifiers
// (#"...") which carry their spelling verbatim in Name.
type Identifier struct {
	Base
	Name string
}

func (n *Identifier) Kind() Kind { return KindIdentifier }

// Literal is a number, string, null, true, or false literal. LiteralKind
// is one of token.Number, token.String, token.Null, token.True,
// token.False. Raw preserves the original spelling verbatim.
type Literal struct {
	Base
	LiteralKind token.Kind
	Raw         string
}

func (n *Literal) Kind() Kind { return KindLiteral }

// TypeForm distinguishes the shapes a TypeExpr can take.
type TypeForm int

const (
	FormPrimitive TypeForm = iota // a bare name, e.g. `number`, `any`, `MyType`
	FormNullable                  // `nullable T`
	FormList                      // `list { T }`
	FormRecord                    // `record [ fields... ]`
	FormTable                     // `table [ fields... ]`
	FormFunction                  // `function (params) as T`
	FormParen                     // `(T)`
)

// TypeField is one field entry inside a `record`/`table` type's field
// list: a name (possibly a joined multi-word name, spec §4.2), with an
// optional type.
type TypeField struct {
	Base
	Name string
	Type *TypeExpr // nil for a bare field name with no `= T`
}

// TypeExpr represents a type expression (spec §3.2's TypeExpr variant).
// Which fields are meaningful depends on Form.
type TypeExpr struct {
	Base
	Form TypeForm

	Name string // FormPrimitive

	Inner *TypeExpr // FormNullable, FormParen

	ListElem *TypeExpr // FormList

	Fields []*TypeField // FormRecord, FormTable

	FuncParams []*Param  // FormFunction
	FuncReturn *TypeExpr // FormFunction, nil if no `as T` clause
}

func (n *TypeExpr) Kind() Kind { return KindTypeExpr }
