package ir

import (
	"fmt"

	"mctestc/internal/ast"
	"mctestc/internal/errors"
)

// Op is a target-flavored arithmetic/assignment operator.
type Op int

const (
	Equals Op = iota
	PlusEquals
	MinusEquals
	TimesEquals
	DivideEquals
)

func (op Op) String() string {
	switch op {
	case Equals:
		return "="
	case PlusEquals:
		return "+="
	case MinusEquals:
		return "-="
	case TimesEquals:
		return "*="
	case DivideEquals:
		return "/="
	default:
		return "?"
	}
}

func opAssign(op BinaryOp) Op {
	switch op {
	case Add:
		return PlusEquals
	case Sub:
		return MinusEquals
	case Mul:
		return TimesEquals
	case Div:
		return DivideEquals
	default:
		return Equals
	}
}

// Run is what a guarded instruction, or a plain unconditional jump, does
// once its guard passes: either call another block as a function, or set
// an operand to a constant. The same Run shape serves P4's guarded-set
// instructions (Run always Set) and P6's flattened CFG edges (Run always
// Function) — see operand.go's doc comment.
type Run struct {
	isFunction bool
	Block      BlockID
	SetLoc     Operand
	SetValue   int64
}

func RunFunction(b BlockID) Run                { return Run{isFunction: true, Block: b} }
func RunSet(loc Operand, value int64) Run      { return Run{SetLoc: loc, SetValue: value} }
func (r Run) IsFunction() bool                 { return r.isFunction }

// TargetInstr is the closed sum of target-flavored instructions, shared
// unmodified (only Operand's concrete type changes) from SelectInstr
// through ReifyLocations.
type TargetInstr interface {
	isTargetInstr()
}

type Set struct {
	Dst   Operand
	Value int64
}

func (*Set) isTargetInstr() {}

type Operation struct {
	Op          Op
	Source      Operand
	Destination Operand
}

func (*Operation) isTargetInstr() {}

type Tellraw struct{ Text string }

func (*Tellraw) isTargetInstr() {}

type TargetCommand struct{ Text string }

func (*TargetCommand) isTargetInstr() {}

type ExecuteIfScoreMatches struct {
	Var   Operand
	Value int64
	Run   Run
}

func (*ExecuteIfScoreMatches) isTargetInstr() {}

type ExecuteUnlessScoreMatches struct {
	Var   Operand
	Value int64
	Run   Run
}

func (*ExecuteUnlessScoreMatches) isTargetInstr() {}

type ExecuteIfScoreEquals struct {
	A, B Operand
	Run  Run
}

func (*ExecuteIfScoreEquals) isTargetInstr() {}

type ExecuteUnlessScoreEquals struct {
	A, B Operand
	Run  Run
}

func (*ExecuteUnlessScoreEquals) isTargetInstr() {}

// FunctionCall is an unconditional jump to another block, either an edge
// flattened by InsertJmps or (post-reify) still referencing a BlockID that
// Emit resolves to a function name.
type FunctionCall struct{ Block BlockID }

func (*FunctionCall) isTargetInstr() {}

type Push struct{ Offset int }

func (*Push) isTargetInstr() {}

type Pop struct{ Offset int }

func (*Pop) isTargetInstr() {}

// TargetBlock is one CFG node from SelectInstr through InsertJmps: a flat
// instruction list with no embedded control flow (control flow lives in
// the enclosing Graph's BranchJmp-labeled edges until InsertJmps flattens
// them into trailing FunctionCall/ExecuteIf* instructions).
type TargetBlock struct {
	Instrs []TargetInstr
}

// BranchJmp labels a CFG edge from SelectInstr onward: either an
// unconditional jump, or one of the four guarded-jump shapes produced by
// rewriting a linearize.Condition against target operands.
type BranchJmp struct {
	kind        branchJmpKind
	Var         Operand
	A, B        Operand
	Value       int64
	Block       BlockID
}

type branchJmpKind int

const (
	branchFunction branchJmpKind = iota
	branchIfMatches
	branchUnlessMatches
	branchIfEquals
	branchUnlessEquals
)

func FunctionJmp(b BlockID) BranchJmp { return BranchJmp{kind: branchFunction, Block: b} }
func IfMatchesJmp(v Operand, value int64, b BlockID) BranchJmp {
	return BranchJmp{kind: branchIfMatches, Var: v, Value: value, Block: b}
}
func UnlessMatchesJmp(v Operand, value int64, b BlockID) BranchJmp {
	return BranchJmp{kind: branchUnlessMatches, Var: v, Value: value, Block: b}
}
func IfEqualsJmp(a, b Operand, block BlockID) BranchJmp {
	return BranchJmp{kind: branchIfEquals, A: a, B: b, Block: block}
}
func UnlessEqualsJmp(a, b Operand, block BlockID) BranchJmp {
	return BranchJmp{kind: branchUnlessEquals, A: a, B: b, Block: block}
}

func (j BranchJmp) IsFunction() bool      { return j.kind == branchFunction }
func (j BranchJmp) IsIfMatches() bool     { return j.kind == branchIfMatches }
func (j BranchJmp) IsUnlessMatches() bool { return j.kind == branchUnlessMatches }
func (j BranchJmp) IsIfEquals() bool      { return j.kind == branchIfEquals }
func (j BranchJmp) IsUnlessEquals() bool  { return j.kind == branchUnlessEquals }

// TargetProgram is P4's output: the same block/edge graph shape as
// LinearProgram, with statements rewritten to TargetInstr and jump labels
// rewritten to BranchJmp.
type TargetProgram struct {
	Blocks *Graph[TargetBlock, BranchJmp]
	Tests  []LinearTest
	Vars   *VarFactory
}

// SelectInstr is P4: rewrite every three-address statement to one or more
// target-flavored instructions, and every CFG edge's jump condition to a
// target-flavored branch (or drop the edge entirely, when its condition
// constant-folds to false).
func SelectInstr(prog *LinearProgram) (*TargetProgram, []errors.CompilerError) {
	out := &TargetProgram{
		Blocks: NewGraph[TargetBlock, BranchJmp](),
		Tests:  prog.Tests,
		Vars:   prog.Vars,
	}

	var errs []errors.CompilerError

	for _, id := range prog.Blocks.IDs() {
		block := prog.Blocks.Block(id)
		var instrs []TargetInstr
		for _, stmt := range block.Stmts {
			selected, stmtErrs := selectStmt(prog.Vars, stmt)
			instrs = append(instrs, selected...)
			errs = append(errs, stmtErrs...)
		}
		out.Blocks.AddBlock(TargetBlock{Instrs: instrs})
	}

	for _, id := range prog.Blocks.IDs() {
		for _, edge := range prog.Blocks.Edges(id) {
			branch, ok, edgeErrs := selectJmp(edge.Label, edge.To)
			errs = append(errs, edgeErrs...)
			if ok {
				out.Blocks.AddEdge(id, edge.To, branch)
			}
		}
	}

	return out, errs
}

func selectStmt(vars *VarFactory, stmt LinStmt) ([]TargetInstr, []errors.CompilerError) {
	switch s := stmt.(type) {
	case *Assign:
		return selectAssign(vars, s.Var, s.Expr)

	case *TellOk:
		return []TargetInstr{&Tellraw{Text: fmt.Sprintf("ok - %s", s.TestName)}}, nil

	case *TellNotOk:
		return []TargetInstr{&Tellraw{Text: fmt.Sprintf("not ok - %s", s.TestName)}}, nil

	case *LinCommand:
		return []TargetInstr{&TargetCommand{Text: s.Text}}, nil

	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("select_instr", "unknown linear statement kind")}
	}
}

func selectAssign(vars *VarFactory, v Var, expr LinExpr) ([]TargetInstr, []errors.CompilerError) {
	switch {
	case expr.IsAtom():
		return selectAtomAssign(v, expr.Atom)

	case expr.IsBinary():
		return selectBinaryAssign(vars, v, expr.Op, expr.Left, expr.Right), nil

	case expr.IsCmp():
		return selectCmpAssign(v, expr.Left, expr.Right)

	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("select_instr", "linear expression is neither atom, binary, nor cmp")}
	}
}

func selectAtomAssign(v Var, a Atom) ([]TargetInstr, []errors.CompilerError) {
	switch {
	case a.IsLitUnit():
		return nil, nil
	case a.IsLitInt():
		return []TargetInstr{&Set{Dst: v, Value: a.LitInt}}, nil
	case a.IsLitBool():
		return []TargetInstr{&Set{Dst: v, Value: boolToInt(a.LitBool)}}, nil
	case a.IsVar():
		return []TargetInstr{&Operation{Op: Equals, Source: a.Var, Destination: v}}, nil
	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("select_instr", "atom is none of unit/int/bool/var")}
	}
}

// selectBinaryAssign lowers `v = left op right` into a load of left
// followed by an in-place application of right, materializing right into a
// fresh temporary first when it is itself a literal (the target has no
// immediate-operand form of the op-assign instructions).
func selectBinaryAssign(vars *VarFactory, v Var, op BinaryOp, left, right Atom) []TargetInstr {
	var instrs []TargetInstr

	switch {
	case left.IsVar():
		instrs = append(instrs, &Operation{Op: Equals, Source: left.Var, Destination: v})
	case left.IsLitInt():
		instrs = append(instrs, &Set{Dst: v, Value: left.LitInt})
	case left.IsLitBool():
		instrs = append(instrs, &Set{Dst: v, Value: boolToInt(left.LitBool)})
	}

	switch {
	case right.IsVar():
		instrs = append(instrs, &Operation{Op: opAssign(op), Source: right.Var, Destination: v})
	case right.IsLitInt():
		tmp := vars.Tmp()
		instrs = append(instrs, &Set{Dst: tmp, Value: right.LitInt})
		instrs = append(instrs, &Operation{Op: opAssign(op), Source: tmp, Destination: v})
	case right.IsLitBool():
		tmp := vars.Tmp()
		instrs = append(instrs, &Set{Dst: tmp, Value: boolToInt(right.LitBool)})
		instrs = append(instrs, &Operation{Op: opAssign(op), Source: tmp, Destination: v})
	}

	return instrs
}

// selectCmpAssign lowers `v = (left == right)` (materializing a boolean
// result, as opposed to a branch condition, which never reaches this
// function — linearize keeps an `if`'s own Eq head out of Assign position).
func selectCmpAssign(v Var, left, right Atom) ([]TargetInstr, []errors.CompilerError) {
	switch {
	case left.IsVar() && right.IsVar():
		return []TargetInstr{
			&ExecuteIfScoreEquals{A: left.Var, B: right.Var, Run: RunSet(v, 1)},
			&ExecuteUnlessScoreEquals{A: left.Var, B: right.Var, Run: RunSet(v, 0)},
		}, nil

	case left.IsVar() && right.isLiteral():
		value, err := literalValue(right)
		if err != nil {
			return nil, []errors.CompilerError{*err}
		}
		return []TargetInstr{
			&ExecuteIfScoreMatches{Var: left.Var, Value: value, Run: RunSet(v, 1)},
			&ExecuteUnlessScoreMatches{Var: left.Var, Value: value, Run: RunSet(v, 0)},
		}, nil

	case right.IsVar() && left.isLiteral():
		value, err := literalValue(left)
		if err != nil {
			return nil, []errors.CompilerError{*err}
		}
		return []TargetInstr{
			&ExecuteIfScoreMatches{Var: right.Var, Value: value, Run: RunSet(v, 1)},
			&ExecuteUnlessScoreMatches{Var: right.Var, Value: value, Run: RunSet(v, 0)},
		}, nil

	case left.isLiteral() && right.isLiteral():
		if (left.IsLitInt() && right.IsLitBool()) || (left.IsLitBool() && right.IsLitInt()) {
			return nil, []errors.CompilerError{errors.UnsupportedCompare(ast.Position{}, "equality between an int literal and a bool literal")}
		}
		lv, _ := literalValue(left)
		rv, _ := literalValue(right)
		return []TargetInstr{&Set{Dst: v, Value: boolToInt(lv == rv)}}, nil

	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("select_instr", "comparison operand is neither var nor literal")}
	}
}

func (a Atom) isLiteral() bool { return a.IsLitInt() || a.IsLitBool() }

func literalValue(a Atom) (int64, *errors.CompilerError) {
	switch {
	case a.IsLitInt():
		return a.LitInt, nil
	case a.IsLitBool():
		return boolToInt(a.LitBool), nil
	default:
		err := errors.InternalInvariant("select_instr", "literalValue called on a non-literal atom")
		return 0, &err
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// selectJmp rewrites a linearize-level Jmp condition into a BranchJmp.
// Constant conditions collapse: If(true)/Unless(false) keep the edge as an
// unconditional FunctionJmp; If(false)/Unless(true) drop the edge (ok is
// false), disconnecting the now-unreachable target.
func selectJmp(jmp Jmp, target BlockID) (BranchJmp, bool, []errors.CompilerError) {
	if jmp.IsUnconditional() {
		return FunctionJmp(target), true, nil
	}

	cond := jmp.Cond
	if !cond.IsCmp {
		a := cond.Atom
		switch {
		case a.IsLitBool():
			truthy := a.LitBool
			fires := (jmp.IsIf() && truthy) || (jmp.IsUnless() && !truthy)
			return FunctionJmp(target), fires, nil
		case a.IsLitInt():
			truthy := a.LitInt != 0
			fires := (jmp.IsIf() && truthy) || (jmp.IsUnless() && !truthy)
			return FunctionJmp(target), fires, nil
		case a.IsVar():
			if jmp.IsIf() {
				return IfMatchesJmp(a.Var, 1, target), true, nil
			}
			return UnlessMatchesJmp(a.Var, 1, target), true, nil
		default:
			return BranchJmp{}, false, []errors.CompilerError{errors.InternalInvariant("select_instr", "atom condition is neither literal nor var")}
		}
	}

	// Cmp(=, left, right): a variable/variable or variable/literal guard.
	left, right := cond.Left, cond.Right
	switch {
	case left.IsVar() && right.IsVar():
		if jmp.IsIf() {
			return IfEqualsJmp(left.Var, right.Var, target), true, nil
		}
		return UnlessEqualsJmp(left.Var, right.Var, target), true, nil

	case left.IsVar() && right.isLiteral():
		value, err := literalValue(right)
		if err != nil {
			return BranchJmp{}, false, []errors.CompilerError{*err}
		}
		if jmp.IsIf() {
			return IfMatchesJmp(left.Var, value, target), true, nil
		}
		return UnlessMatchesJmp(left.Var, value, target), true, nil

	case right.IsVar() && left.isLiteral():
		value, err := literalValue(left)
		if err != nil {
			return BranchJmp{}, false, []errors.CompilerError{*err}
		}
		if jmp.IsIf() {
			return IfMatchesJmp(right.Var, value, target), true, nil
		}
		return UnlessMatchesJmp(right.Var, value, target), true, nil

	case left.isLiteral() && right.isLiteral():
		lv, _ := literalValue(left)
		rv, _ := literalValue(right)
		fires := (lv == rv) == jmp.IsIf()
		return FunctionJmp(target), fires, nil

	default:
		return BranchJmp{}, false, []errors.CompilerError{errors.InternalInvariant("select_instr", "cmp condition operand is neither var nor literal")}
	}
}
