package ir

// HomedProgram is the CFG after AssignHomes: every operand has been
// rewritten from Var to Location. Its instruction/edge-label types are unchanged from
// TargetProgram's (TargetInstr/BranchJmp) — only the concrete Operand
// values stored inside them differ, per operand.go's doc comment.
type HomedProgram struct {
	Blocks *Graph[TargetBlock, BranchJmp]
	Tests  []LinearTest
}

// AssignHomes is P5: run the full Steps 5a-5e allocator pipeline and
// rewrite every variable occurrence to its assigned Location.
func AssignHomes(prog *TargetProgram) *HomedProgram {
	annotated := UncoverLive(prog)
	moves := BuildMoveGraph(annotated)
	interference := BuildInterferenceGraph(annotated)
	coloring := ColorGraph(interference, moves)

	out := &HomedProgram{
		Blocks: NewGraph[TargetBlock, BranchJmp](),
		Tests:  prog.Tests,
	}

	for _, id := range prog.Blocks.IDs() {
		block := prog.Blocks.Block(id)
		instrs := make([]TargetInstr, len(block.Instrs))
		for i, instr := range block.Instrs {
			instrs[i] = rewriteInstrHomes(instr, coloring)
		}
		out.Blocks.AddBlock(TargetBlock{Instrs: instrs})
	}

	for _, id := range prog.Blocks.IDs() {
		for _, edge := range prog.Blocks.Edges(id) {
			out.Blocks.AddEdge(id, edge.To, rewriteJmpHomes(edge.Label, coloring))
		}
	}

	return out
}

func homeOf(o Operand, coloring Coloring) Operand {
	v, ok := o.(Var)
	if !ok {
		return o
	}
	color, ok := coloring[v]
	if !ok {
		// A variable with no interference-graph entry never appeared in any
		// instruction's read/write set (e.g. it was only ever the `= x, x`
		// pattern an earlier pass should already have folded away); color 0
		// is as good as any other unconstrained choice.
		color = 0
	}
	return LocationFromColor(color)
}

func rewriteRunHomes(r Run, coloring Coloring) Run {
	if r.IsFunction() {
		return r
	}
	return RunSet(homeOf(r.SetLoc, coloring), r.SetValue)
}

func rewriteInstrHomes(instr TargetInstr, coloring Coloring) TargetInstr {
	switch i := instr.(type) {
	case *Set:
		return &Set{Dst: homeOf(i.Dst, coloring), Value: i.Value}
	case *Operation:
		return &Operation{Op: i.Op, Source: homeOf(i.Source, coloring), Destination: homeOf(i.Destination, coloring)}
	case *Tellraw:
		return &Tellraw{Text: i.Text}
	case *TargetCommand:
		return &TargetCommand{Text: i.Text}
	case *ExecuteIfScoreMatches:
		return &ExecuteIfScoreMatches{Var: homeOf(i.Var, coloring), Value: i.Value, Run: rewriteRunHomes(i.Run, coloring)}
	case *ExecuteUnlessScoreMatches:
		return &ExecuteUnlessScoreMatches{Var: homeOf(i.Var, coloring), Value: i.Value, Run: rewriteRunHomes(i.Run, coloring)}
	case *ExecuteIfScoreEquals:
		return &ExecuteIfScoreEquals{A: homeOf(i.A, coloring), B: homeOf(i.B, coloring), Run: rewriteRunHomes(i.Run, coloring)}
	case *ExecuteUnlessScoreEquals:
		return &ExecuteUnlessScoreEquals{A: homeOf(i.A, coloring), B: homeOf(i.B, coloring), Run: rewriteRunHomes(i.Run, coloring)}
	case *FunctionCall:
		return i
	case *Push:
		return i
	case *Pop:
		return i
	default:
		return instr
	}
}

func rewriteJmpHomes(j BranchJmp, coloring Coloring) BranchJmp {
	switch {
	case j.IsFunction():
		return j
	case j.IsIfMatches():
		return IfMatchesJmp(homeOf(j.Var, coloring), j.Value, j.Block)
	case j.IsUnlessMatches():
		return UnlessMatchesJmp(homeOf(j.Var, coloring), j.Value, j.Block)
	case j.IsIfEquals():
		return IfEqualsJmp(homeOf(j.A, coloring), homeOf(j.B, coloring), j.Block)
	case j.IsUnlessEquals():
		return UnlessEqualsJmp(homeOf(j.A, coloring), homeOf(j.B, coloring), j.Block)
	default:
		return j
	}
}
