package ir

// Atom is a value small enough to appear directly as an instruction
// operand: a literal or a variable reference. Every arithmetic and
// comparison operand is an Atom once linearize has run — nested expressions
// are split into a chain of Assign statements that bind the intermediate
// results to fresh temporaries.
type Atom struct {
	kind    atomKind
	Var     Var
	LitInt  int64
	LitBool bool
}

type atomKind int

const (
	atomVar atomKind = iota
	atomLitUnit
	atomLitInt
	atomLitBool
)

func AtomVar(v Var) Atom        { return Atom{kind: atomVar, Var: v} }
func AtomLitUnit() Atom         { return Atom{kind: atomLitUnit} }
func AtomLitInt(n int64) Atom   { return Atom{kind: atomLitInt, LitInt: n} }
func AtomLitBool(b bool) Atom   { return Atom{kind: atomLitBool, LitBool: b} }

func (a Atom) IsVar() bool     { return a.kind == atomVar }
func (a Atom) IsLitUnit() bool { return a.kind == atomLitUnit }
func (a Atom) IsLitInt() bool  { return a.kind == atomLitInt }
func (a Atom) IsLitBool() bool { return a.kind == atomLitBool }

// Cmp is a comparison operator. Only equality exists in the surface
// language, but this stays a distinct type (rather than a bare bool) so a
// future comparison operator doesn't need every downstream switch rewired.
type Cmp int

const (
	CmpEq Cmp = iota
)

// Condition labels a branching jump: either a two-operand comparison or a
// plain truthy atom (the `if` form's cond, when its head isn't `eq`).
type Condition struct {
	IsCmp       bool
	Cmp         Cmp
	Left, Right Atom // used when IsCmp
	Atom        Atom // used when !IsCmp
}

func CmpCondition(cmp Cmp, left, right Atom) Condition {
	return Condition{IsCmp: true, Cmp: cmp, Left: left, Right: right}
}

func AtomCondition(a Atom) Condition {
	return Condition{Atom: a}
}

// Jmp labels a CFG edge out of a block.
type Jmp struct {
	kind jmpKind
	Cond Condition // used when kind != jmpUnconditional
}

type jmpKind int

const (
	jmpUnconditional jmpKind = iota
	jmpIf
	jmpUnless
)

func JmpUnconditional() Jmp         { return Jmp{kind: jmpUnconditional} }
func JmpIf(c Condition) Jmp         { return Jmp{kind: jmpIf, Cond: c} }
func JmpUnless(c Condition) Jmp     { return Jmp{kind: jmpUnless, Cond: c} }

func (j Jmp) IsUnconditional() bool { return j.kind == jmpUnconditional }
func (j Jmp) IsIf() bool            { return j.kind == jmpIf }
func (j Jmp) IsUnless() bool        { return j.kind == jmpUnless }

// LinStmt is a three-address statement inside a linearized block.
type LinStmt interface {
	isLinStmt()
}

type Assign struct {
	Var  Var
	Expr LinExpr
}

func (*Assign) isLinStmt() {}

type TellOk struct{ TestName string }

func (*TellOk) isLinStmt() {}

type TellNotOk struct{ TestName string }

func (*TellNotOk) isLinStmt() {}

type LinCommand struct{ Text string }

func (*LinCommand) isLinStmt() {}

// LinExpr is the right-hand side of an Assign: a bare atom, a flat binary
// operation, or a flat comparison. No operand is ever itself a LinExpr —
// that flattening is exactly what linearize does.
type LinExpr struct {
	isCmp       bool
	isBinary    bool
	Op          BinaryOp
	Cmp         Cmp
	Left, Right Atom
	Atom        Atom
}

func AtomExpr(a Atom) LinExpr { return LinExpr{Atom: a} }
func BinaryLinExpr(op BinaryOp, left, right Atom) LinExpr {
	return LinExpr{isBinary: true, Op: op, Left: left, Right: right}
}
func CmpLinExpr(cmp Cmp, left, right Atom) LinExpr {
	return LinExpr{isCmp: true, Cmp: cmp, Left: left, Right: right}
}

func (e LinExpr) IsAtom() bool   { return !e.isBinary && !e.isCmp }
func (e LinExpr) IsBinary() bool { return e.isBinary }
func (e LinExpr) IsCmp() bool    { return e.isCmp }

// Block is one node of a linearized CFG: an ordered run of three-address
// statements with no internal control flow. Control flow lives entirely in
// the Graph's edges.
type Block struct {
	Stmts []LinStmt
}

// LinearProgram is P3's output: a CFG of Blocks joined by Jmp-labeled
// edges, plus one entry BlockID per source test.
type LinearProgram struct {
	Blocks *Graph[Block, Jmp]
	Tests  []LinearTest
	Vars   *VarFactory
}

type LinearTest struct {
	Name  string
	Block BlockID
}

// Linearize is P3: lower the post-desugar tree IR into a CFG of
// three-address blocks. Every nested arithmetic/comparison sub-expression
// is split into a fresh temporary's Assign; every `if` becomes two blocks
// joined by complementary If(c)/Unless(c) edges reconverging at a shared
// join block, with the branch's value materialized into one shared result
// variable assigned in both arms.
func Linearize(prog *Program) *LinearProgram {
	out := &LinearProgram{
		Blocks: NewGraph[Block, Jmp](),
		Vars:   prog.Vars,
	}

	for _, def := range prog.Defs {
		begin := out.Blocks.AddBlock(Block{})
		current := begin
		for _, stmt := range def.Stmts {
			linearizeStmt(out, &current, stmt)
		}
		out.Tests = append(out.Tests, LinearTest{Name: def.Name, Block: begin})
	}

	return out
}

func linearizeStmt(p *LinearProgram, current *BlockID, stmt Stmt) {
	switch s := stmt.(type) {
	case *ExprStmt:
		linearizeExpr(p, current, s.Expr)

	case *TellOkStmt:
		appendStmt(p, *current, &TellOk{TestName: s.TestName})

	case *TellNotOkStmt:
		appendStmt(p, *current, &TellNotOk{TestName: s.TestName})

	case *CommandStmt:
		appendStmt(p, *current, &LinCommand{Text: s.Text})

	case *LetStmt:
		atom := linearizeExpr(p, current, s.Expr)
		appendStmt(p, *current, &Assign{Var: s.Var, Expr: AtomExpr(atom)})
	}
}

func appendStmt(p *LinearProgram, id BlockID, stmt LinStmt) {
	b := p.Blocks.Block(id)
	b.Stmts = append(b.Stmts, stmt)
	p.Blocks.SetBlock(id, b)
}

func linearizeExpr(p *LinearProgram, current *BlockID, expr Expr) Atom {
	switch e := expr.(type) {
	case LitUnit:
		return AtomLitUnit()

	case *BundleExpr:
		for _, stmt := range e.Stmts {
			linearizeStmt(p, current, stmt)
		}
		return linearizeExpr(p, current, e.Expr)

	case LitBool:
		return AtomLitBool(e.Value)

	case LitInt:
		return AtomLitInt(e.Value)

	case VarExpr:
		return AtomVar(e.Var)

	case *BinaryExpr:
		return linearizeBinary(p, current, e.Op, e.Left, e.Right)

	case *IfExpr:
		return linearizeIf(p, current, e)

	case *EqExpr:
		return linearizeCmp(p, current, CmpEq, e.Left, e.Right)

	default:
		panic("linearize: unknown expression kind")
	}
}

func linearizeBinary(p *LinearProgram, current *BlockID, op BinaryOp, leftExpr, rightExpr Expr) Atom {
	left := linearizeExpr(p, current, leftExpr)
	right := linearizeExpr(p, current, rightExpr)
	v := p.Vars.Tmp()
	appendStmt(p, *current, &Assign{Var: v, Expr: BinaryLinExpr(op, left, right)})
	return AtomVar(v)
}

func linearizeCmp(p *LinearProgram, current *BlockID, cmp Cmp, leftExpr, rightExpr Expr) Atom {
	left := linearizeExpr(p, current, leftExpr)
	right := linearizeExpr(p, current, rightExpr)
	v := p.Vars.Tmp()
	appendStmt(p, *current, &Assign{Var: v, Expr: CmpLinExpr(cmp, left, right)})
	return AtomVar(v)
}

func linearizeIf(p *LinearProgram, current *BlockID, e *IfExpr) Atom {
	var cond Condition
	if eq, ok := e.Cond.(*EqExpr); ok {
		left := linearizeExpr(p, current, eq.Left)
		right := linearizeExpr(p, current, eq.Right)
		cond = CmpCondition(CmpEq, left, right)
	} else {
		cond = AtomCondition(linearizeExpr(p, current, e.Cond))
	}

	result := p.Vars.Tmp()

	thenBlock := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(*current, thenBlock, JmpIf(cond))
	linearizeBranch(p, thenBlock, result, e.Then)

	elseBlock := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(*current, elseBlock, JmpUnless(cond))
	linearizeBranch(p, elseBlock, result, e.Else)

	after := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(thenBlock, after, JmpUnconditional())
	p.Blocks.AddEdge(elseBlock, after, JmpUnconditional())

	*current = after
	return AtomVar(result)
}

// linearizeBranch lowers one arm of an `if` into its own block, ending with
// an Assign of the arm's value into the shared result variable.
func linearizeBranch(p *LinearProgram, block BlockID, result Var, expr Expr) {
	cur := block
	atom := linearizeExpr(p, &cur, expr)
	appendStmt(p, cur, &Assign{Var: result, Expr: AtomExpr(atom)})
}
