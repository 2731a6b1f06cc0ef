package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linProgramWithBlock(vars *VarFactory, stmts []LinStmt) *LinearProgram {
	p := &LinearProgram{Blocks: NewGraph[Block, Jmp](), Vars: vars}
	id := p.Blocks.AddBlock(Block{Stmts: stmts})
	p.Tests = []LinearTest{{Name: "test", Block: id}}
	return p
}

func TestSelectAssignLitInt(t *testing.T) {
	vars := NewVarFactory()
	v := vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{&Assign{Var: v, Expr: AtomExpr(AtomLitInt(7))}})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 1)
	set := instrs[0].(*Set)
	assert.Equal(t, v, set.Dst)
	assert.Equal(t, int64(7), set.Value)
}

func TestSelectAssignLitBool(t *testing.T) {
	vars := NewVarFactory()
	v := vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{&Assign{Var: v, Expr: AtomExpr(AtomLitBool(true))}})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	set := out.Blocks.Block(out.Tests[0].Block).Instrs[0].(*Set)
	assert.Equal(t, int64(1), set.Value)
}

func TestSelectAssignUnitIsDropped(t *testing.T) {
	vars := NewVarFactory()
	v := vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{&Assign{Var: v, Expr: AtomExpr(AtomLitUnit())}})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)
	assert.Empty(t, out.Blocks.Block(out.Tests[0].Block).Instrs)
}

func TestSelectAssignVarCopy(t *testing.T) {
	vars := NewVarFactory()
	u, v := vars.Tmp(), vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{&Assign{Var: v, Expr: AtomExpr(AtomVar(u))}})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	op := out.Blocks.Block(out.Tests[0].Block).Instrs[0].(*Operation)
	assert.Equal(t, Equals, op.Op)
	assert.Equal(t, u, op.Source)
	assert.Equal(t, v, op.Destination)
}

func TestSelectBinaryVarVar(t *testing.T) {
	vars := NewVarFactory()
	a, b, v := vars.Tmp(), vars.Tmp(), vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{
		&Assign{Var: v, Expr: BinaryLinExpr(Add, AtomVar(a), AtomVar(b))},
	})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 2)

	load := instrs[0].(*Operation)
	assert.Equal(t, Equals, load.Op)
	assert.Equal(t, a, load.Source)
	assert.Equal(t, v, load.Destination)

	apply := instrs[1].(*Operation)
	assert.Equal(t, PlusEquals, apply.Op)
	assert.Equal(t, b, apply.Source)
	assert.Equal(t, v, apply.Destination)
}

func TestSelectBinaryVarLit(t *testing.T) {
	vars := NewVarFactory()
	a, v := vars.Tmp(), vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{
		&Assign{Var: v, Expr: BinaryLinExpr(Mul, AtomVar(a), AtomLitInt(3))},
	})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 3)

	load := instrs[0].(*Operation)
	assert.Equal(t, a, load.Source)
	assert.Equal(t, v, load.Destination)

	setTmp := instrs[1].(*Set)
	assert.Equal(t, int64(3), setTmp.Value)

	apply := instrs[2].(*Operation)
	assert.Equal(t, TimesEquals, apply.Op)
	assert.Equal(t, setTmp.Dst, apply.Source)
	assert.Equal(t, v, apply.Destination)
}

func TestSelectCmpVarLit(t *testing.T) {
	vars := NewVarFactory()
	a, v := vars.Tmp(), vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{
		&Assign{Var: v, Expr: CmpLinExpr(CmpEq, AtomVar(a), AtomLitInt(5))},
	})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 2)

	ifMatches := instrs[0].(*ExecuteIfScoreMatches)
	assert.Equal(t, a, ifMatches.Var)
	assert.Equal(t, int64(5), ifMatches.Value)
	assert.False(t, ifMatches.Run.IsFunction())
	assert.Equal(t, v, ifMatches.Run.SetLoc)
	assert.Equal(t, int64(1), ifMatches.Run.SetValue)

	unlessMatches := instrs[1].(*ExecuteUnlessScoreMatches)
	assert.Equal(t, a, unlessMatches.Var)
	assert.Equal(t, int64(0), unlessMatches.Run.SetValue)
}

func TestSelectCmpVarVar(t *testing.T) {
	vars := NewVarFactory()
	a, b, v := vars.Tmp(), vars.Tmp(), vars.Tmp()
	prog := linProgramWithBlock(vars, []LinStmt{
		&Assign{Var: v, Expr: CmpLinExpr(CmpEq, AtomVar(a), AtomVar(b))},
	})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 2)

	ifEquals := instrs[0].(*ExecuteIfScoreEquals)
	assert.Equal(t, a, ifEquals.A)
	assert.Equal(t, b, ifEquals.B)
	assert.Equal(t, int64(1), ifEquals.Run.SetValue)

	unlessEquals := instrs[1].(*ExecuteUnlessScoreEquals)
	assert.Equal(t, int64(0), unlessEquals.Run.SetValue)
}

func TestSelectTellOkAndNotOk(t *testing.T) {
	vars := NewVarFactory()
	prog := linProgramWithBlock(vars, []LinStmt{
		&TellOk{TestName: "my_test"},
		&TellNotOk{TestName: "my_test"},
	})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	instrs := out.Blocks.Block(out.Tests[0].Block).Instrs
	require.Len(t, instrs, 2)
	assert.Equal(t, "ok - my_test", instrs[0].(*Tellraw).Text)
	assert.Equal(t, "not ok - my_test", instrs[1].(*Tellraw).Text)
}

func TestSelectCommandPassthrough(t *testing.T) {
	vars := NewVarFactory()
	prog := linProgramWithBlock(vars, []LinStmt{&LinCommand{Text: "say hi"}})

	out, errs := SelectInstr(prog)
	require.Empty(t, errs)

	cmd := out.Blocks.Block(out.Tests[0].Block).Instrs[0].(*TargetCommand)
	assert.Equal(t, "say hi", cmd.Text)
}

func TestSelectJmpUnconditionalKept(t *testing.T) {
	vars := NewVarFactory()
	p := &LinearProgram{Blocks: NewGraph[Block, Jmp](), Vars: vars}
	a := p.Blocks.AddBlock(Block{})
	b := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(a, b, JmpUnconditional())
	p.Tests = []LinearTest{{Name: "t", Block: a}}

	out, errs := SelectInstr(p)
	require.Empty(t, errs)

	edges := out.Blocks.Edges(a)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Label.IsFunction())
}

func TestSelectJmpConstantFalseDropsEdge(t *testing.T) {
	vars := NewVarFactory()
	p := &LinearProgram{Blocks: NewGraph[Block, Jmp](), Vars: vars}
	a := p.Blocks.AddBlock(Block{})
	b := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(a, b, JmpIf(AtomCondition(AtomLitBool(false))))
	p.Tests = []LinearTest{{Name: "t", Block: a}}

	out, errs := SelectInstr(p)
	require.Empty(t, errs)
	assert.Empty(t, out.Blocks.Edges(a))
}

func TestSelectJmpVarMatchesGuard(t *testing.T) {
	vars := NewVarFactory()
	cond := vars.Tmp()
	p := &LinearProgram{Blocks: NewGraph[Block, Jmp](), Vars: vars}
	a := p.Blocks.AddBlock(Block{})
	b := p.Blocks.AddBlock(Block{})
	p.Blocks.AddEdge(a, b, JmpIf(AtomCondition(AtomVar(cond))))
	p.Tests = []LinearTest{{Name: "t", Block: a}}

	out, errs := SelectInstr(p)
	require.Empty(t, errs)

	edges := out.Blocks.Edges(a)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Label.IsIfMatches())
	assert.Equal(t, cond, edges[0].Label.Var)
	assert.Equal(t, int64(1), edges[0].Label.Value)
}
