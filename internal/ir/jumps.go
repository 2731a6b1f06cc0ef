package ir

// InsertJmps is P6: flatten every block's outgoing edges into trailing
// tail instructions, in stable edge order. After this pass the edge labels
// carry no information Emit needs — only the node list matters, which is
// why FlatProgram keeps blocks in a plain slice rather than a graph.
type FlatProgram struct {
	Blocks []TargetBlock
	Tests  []LinearTest
}

func InsertJmps(prog *HomedProgram) *FlatProgram {
	out := &FlatProgram{Tests: prog.Tests}

	for _, id := range prog.Blocks.IDs() {
		block := prog.Blocks.Block(id)
		instrs := append([]TargetInstr{}, block.Instrs...)
		for _, edge := range prog.Blocks.Edges(id) {
			instrs = append(instrs, jmpToInstr(edge.Label))
		}
		out.Blocks = append(out.Blocks, TargetBlock{Instrs: instrs})
	}

	return out
}

func jmpToInstr(j BranchJmp) TargetInstr {
	switch {
	case j.IsIfMatches():
		return &ExecuteIfScoreMatches{Var: j.Var, Value: j.Value, Run: RunFunction(j.Block)}
	case j.IsUnlessMatches():
		return &ExecuteUnlessScoreMatches{Var: j.Var, Value: j.Value, Run: RunFunction(j.Block)}
	case j.IsIfEquals():
		return &ExecuteIfScoreEquals{A: j.A, B: j.B, Run: RunFunction(j.Block)}
	case j.IsUnlessEquals():
		return &ExecuteUnlessScoreEquals{A: j.A, B: j.B, Run: RunFunction(j.Block)}
	default: // IsFunction
		return &FunctionCall{Block: j.Block}
	}
}
