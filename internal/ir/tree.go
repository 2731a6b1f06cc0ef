package ir

// BinaryOp is one of the four arithmetic operators the surface language
// supports. Mirrors ast.BinaryOp; kept as a distinct type so the passes
// after uniquify.go never depend on internal/ast's expression types (the
// only other internal/ast use in this package is ast.Position, for
// diagnostics built in select.go).
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

// Program is a post-uniquify (and, once desugar.go has run, post-desugar)
// tree-shaped IR: one Definition per source test, sharing a single
// VarFactory so every Var in the program is unique regardless of which
// test or pass introduced it.
type Program struct {
	Defs []Definition
	Vars *VarFactory
}

// Definition is a single named test. Each tree-shaped pass (uniquify,
// desugar) builds a fresh Definition rather than mutating its input;
// linearize.go is the last pass to read this shape before the pipeline
// moves to the CFG representation.
type Definition struct {
	Name  string
	Stmts []Stmt
}

// Stmt is the closed sum of statement shapes across uniquify and desugar.
// Assert/AssertEq exist only between those two passes: uniquify produces
// them, desugar consumes and replaces them with ExprStmt/TellOk/TellNotOk.
// Linearize never sees an AssertStmt or AssertEqStmt.
type Stmt interface {
	isStmt()
}

// AssertStmt asserts that Expr is truthy. Produced by uniquify, eliminated
// by desugar.
type AssertStmt struct {
	Expr Expr
}

func (*AssertStmt) isStmt() {}

// AssertEqStmt asserts that Left and Right are equal. Produced by uniquify,
// eliminated by desugar.
type AssertEqStmt struct {
	Left, Right Expr
}

func (*AssertEqStmt) isStmt() {}

// CommandStmt is a raw passthrough command line, surviving unchanged from
// the surface syntax all the way to P8 Emit.
type CommandStmt struct {
	Text string
}

func (*CommandStmt) isStmt() {}

// LetStmt binds Expr's value to Var for the remainder of the enclosing
// statement list.
type LetStmt struct {
	Var  Var
	Expr Expr
}

func (*LetStmt) isStmt() {}

// ExprStmt evaluates Expr for effect and discards its value. Desugar wraps
// every lowered assertion's `if` in one of these; linearize then lowers the
// if like any other statement-position expression.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) isStmt() {}

// TellOkStmt emits the TAP "ok - name" line for TestName. Introduced by
// desugar at the tail of every test.
type TellOkStmt struct {
	TestName string
}

func (*TellOkStmt) isStmt() {}

// TellNotOkStmt emits the TAP "not ok - name" line for TestName.
// Introduced by desugar in place of a failed assertion's continuation.
type TellNotOkStmt struct {
	TestName string
}

func (*TellNotOkStmt) isStmt() {}

// Expr is the closed sum of expression shapes. LitUnit and Bundle exist
// only from desugar onward — uniquify's output never produces them (the
// surface grammar has no unit literal and no explicit bundle syntax; both
// are artifacts of how desugar threads a statement's continuation through
// an `if`'s branches).
type Expr interface {
	isExpr()
}

// LitUnit is the unit value threaded through Bundle's trailing expression
// when a bundle exists purely for its statements' effects.
type LitUnit struct{}

func (LitUnit) isExpr() {}

type LitBool struct {
	Value bool
}

func (LitBool) isExpr() {}

type LitInt struct {
	Value int64
}

func (LitInt) isExpr() {}

// VarExpr references a variable bound by an earlier LetStmt in the same
// test (or, before uniquify runs, resolved from the surface environment).
type VarExpr struct {
	Var Var
}

func (VarExpr) isExpr() {}

type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) isExpr() {}

// EqExpr is the `(eq l r)` comparison form.
type EqExpr struct {
	Left, Right Expr
}

func (*EqExpr) isExpr() {}

type IfExpr struct {
	Cond, Then, Else Expr
}

func (*IfExpr) isExpr() {}

// BundleExpr sequences Stmts for effect, then yields Expr's value. Desugar
// uses it to splice a statement's continuation into the `then` branch of
// the `if` an assertion desugars to.
type BundleExpr struct {
	Stmts []Stmt
	Expr  Expr
}

func (*BundleExpr) isExpr() {}
