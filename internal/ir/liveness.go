package ir

// LiveSet is the set of variables live at some program point.
type LiveSet map[Var]bool

func newLiveSet() LiveSet { return make(LiveSet) }

func (s LiveSet) clone() LiveSet {
	out := make(LiveSet, len(s))
	for v := range s {
		out[v] = true
	}
	return out
}

func (s LiveSet) add(vs ...Var) {
	for _, v := range vs {
		s[v] = true
	}
}

func (s LiveSet) addOperand(o Operand) {
	if v, ok := o.(Var); ok {
		s[v] = true
	}
}

// AnnotatedInstr pairs a target instruction with the set of variables live
// immediately after it executes.
type AnnotatedInstr struct {
	Instr     TargetInstr
	LiveAfter LiveSet
}

type AnnotatedBlock struct {
	Instrs     []AnnotatedInstr
	LiveBefore LiveSet
}

// AnnotatedProgram is the output of Step 5a: the same block/edge graph as
// TargetProgram, every instruction annotated with its live-after set.
type AnnotatedProgram struct {
	Blocks *Graph[AnnotatedBlock, BranchJmp]
	Tests  []LinearTest
	Vars   *VarFactory
}

// UncoverLive is Step 5a: reverse-topological live-variable analysis.
func UncoverLive(prog *TargetProgram) *AnnotatedProgram {
	order := prog.Blocks.ReverseTopoOrder()

	liveBefore := make([]LiveSet, prog.Blocks.Len())
	annotated := make([]AnnotatedBlock, prog.Blocks.Len())

	for _, id := range order {
		liveAfterExit := newLiveSet()
		for _, edge := range prog.Blocks.Edges(id) {
			for v := range liveBefore[edge.To] {
				liveAfterExit.add(v)
			}
			liveAfterExit.add(jmpReadSet(edge.Label)...)
		}

		block := prog.Blocks.Block(id)
		instrs := make([]AnnotatedInstr, len(block.Instrs))
		live := liveAfterExit
		for i := len(block.Instrs) - 1; i >= 0; i-- {
			instr := block.Instrs[i]
			instrs[i] = AnnotatedInstr{Instr: instr, LiveAfter: live.clone()}
			live = stepLiveBefore(instr, live)
		}

		annotated[id] = AnnotatedBlock{Instrs: instrs, LiveBefore: live}
		liveBefore[id] = live
	}

	out := &AnnotatedProgram{
		Blocks: NewGraph[AnnotatedBlock, BranchJmp](),
		Tests:  prog.Tests,
		Vars:   prog.Vars,
	}
	for _, b := range annotated {
		out.Blocks.AddBlock(b)
	}
	for _, id := range prog.Blocks.IDs() {
		for _, edge := range prog.Blocks.Edges(id) {
			out.Blocks.AddEdge(id, edge.To, edge.Label)
		}
	}
	return out
}

// stepLiveBefore computes L_before(k) = (L_after(k) \ write(k)) ∪ read(k).
func stepLiveBefore(instr TargetInstr, liveAfter LiveSet) LiveSet {
	next := newLiveSet()
	writes := writeSet(instr)
	for v := range liveAfter {
		if !writes[v] {
			next.add(v)
		}
	}
	next.add(readSet(instr)...)
	return next
}

func writeSet(instr TargetInstr) LiveSet {
	out := newLiveSet()
	switch i := instr.(type) {
	case *Set:
		out.addOperand(i.Dst)
	case *Operation:
		out.addOperand(i.Destination)
	case *ExecuteIfScoreMatches:
		out.add(runWrites(i.Run)...)
	case *ExecuteUnlessScoreMatches:
		out.add(runWrites(i.Run)...)
	case *ExecuteIfScoreEquals:
		out.add(runWrites(i.Run)...)
	case *ExecuteUnlessScoreEquals:
		out.add(runWrites(i.Run)...)
	}
	return out
}

func runWrites(r Run) []Var {
	if r.IsFunction() {
		return nil
	}
	if v, ok := r.SetLoc.(Var); ok {
		return []Var{v}
	}
	return nil
}

func readSet(instr TargetInstr) []Var {
	var out []Var
	switch i := instr.(type) {
	case *Set:
		// reads ∅
	case *Operation:
		out = append(out, operandVars(i.Source)...)
		if i.Op != Equals {
			out = append(out, operandVars(i.Destination)...)
		}
	case *Tellraw:
		// reads ∅
	case *TargetCommand:
		// reads ∅
	case *ExecuteIfScoreMatches:
		out = append(out, operandVars(i.Var)...)
	case *ExecuteUnlessScoreMatches:
		out = append(out, operandVars(i.Var)...)
	case *ExecuteIfScoreEquals:
		out = append(out, operandVars(i.A)...)
		out = append(out, operandVars(i.B)...)
	case *ExecuteUnlessScoreEquals:
		out = append(out, operandVars(i.A)...)
		out = append(out, operandVars(i.B)...)
	}
	return out
}

func operandVars(o Operand) []Var {
	if v, ok := o.(Var); ok {
		return []Var{v}
	}
	return nil
}

// jmpReadSet is the guard-operand read set of a flattened-CFG edge label,
// used while the edge graph still carries BranchJmp (pre-InsertJmps). It
// mirrors readSet's guarded-instruction cases since a BranchJmp is exactly
// a guard over a Run.
func jmpReadSet(j BranchJmp) []Var {
	switch {
	case j.IsIfMatches(), j.IsUnlessMatches():
		return operandVars(j.Var)
	case j.IsIfEquals(), j.IsUnlessEquals():
		return append(operandVars(j.A), operandVars(j.B)...)
	default:
		return nil
	}
}
