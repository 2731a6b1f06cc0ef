// Package ast defines the surface syntax tree the front end (grammar,
// internal/parser) hands to the compiler core (internal/ir): a Program of
// named Tests, each a sequence of Statements built from Exprs.
package ast

import "fmt"

// Position is a 1-based line/column plus a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Program is the root of the surface tree: an ordered list of test
// definitions, compiled and reported in source order.
type Program struct {
	Tests []*Test
}

// Test is a single TAP-style test case: a name and the statements that make
// up its body.
type Test struct {
	Name    string
	NamePos Position
	Stmts   []Statement
}

// Statement is one of Assert, AssertEq, Command, Let.
type Statement interface {
	Pos() Position
	isStatement()
}

// AssertStmt asserts that Expr evaluates to true.
type AssertStmt struct {
	Expr     Expr
	StmtPos  Position
}

func (s *AssertStmt) Pos() Position { return s.StmtPos }
func (*AssertStmt) isStatement()    {}

// AssertEqStmt asserts that Left and Right evaluate to equal values.
type AssertEqStmt struct {
	Left, Right Expr
	StmtPos     Position
}

func (s *AssertEqStmt) Pos() Position { return s.StmtPos }
func (*AssertEqStmt) isStatement()    {}

// CommandStmt is a raw passthrough command, introduced by `(/ "text")`.
type CommandStmt struct {
	Text    string
	StmtPos Position
}

func (s *CommandStmt) Pos() Position { return s.StmtPos }
func (*CommandStmt) isStatement()    {}

// LetStmt binds the value of Expr to Name for the remainder of the test.
type LetStmt struct {
	Name    string
	Expr    Expr
	StmtPos Position
}

func (s *LetStmt) Pos() Position { return s.StmtPos }
func (*LetStmt) isStatement()    {}

// ExprStmt is a bare expression evaluated for effect. The surface grammar
// never produces one; uniquify still accepts it and lowers it to the IR's
// own ExprStmt.
type ExprStmt struct {
	Expr    Expr
	StmtPos Position
}

func (s *ExprStmt) Pos() Position { return s.StmtPos }
func (*ExprStmt) isStatement()    {}

// Expr is one of LitBool, LitInt, Ident, Binary, Eq, If.
type Expr interface {
	Pos() Position
	isExpr()
}

type LitBool struct {
	Value   bool
	ExprPos Position
}

func (e *LitBool) Pos() Position { return e.ExprPos }
func (*LitBool) isExpr()         {}

type LitInt struct {
	Value   int64
	ExprPos Position
}

func (e *LitInt) Pos() Position { return e.ExprPos }
func (*LitInt) isExpr()         {}

// Ident is a surface variable reference, resolved to a Var by uniquify.
type Ident struct {
	Name    string
	ExprPos Position
}

func (e *Ident) Pos() Position { return e.ExprPos }
func (*Ident) isExpr()         {}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
	ExprPos     Position
}

func (e *BinaryExpr) Pos() Position { return e.ExprPos }
func (*BinaryExpr) isExpr()         {}

// EqExpr is the `(eq l r)` comparison form.
type EqExpr struct {
	Left, Right Expr
	ExprPos     Position
}

func (e *EqExpr) Pos() Position { return e.ExprPos }
func (*EqExpr) isExpr()         {}

type IfExpr struct {
	Cond, Then, Else Expr
	ExprPos          Position
}

func (e *IfExpr) Pos() Position { return e.ExprPos }
func (*IfExpr) isExpr()         {}
