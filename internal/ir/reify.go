package ir

// ReifyLocations is P7: expand every Stack-located operand into explicit
// push/pop traffic around the shared StackItem pseudo-register, leaving
// only Register/StackItem/Scratch operands behind.
func ReifyLocations(prog *FlatProgram) *FlatProgram {
	out := &FlatProgram{Tests: prog.Tests}
	for _, block := range prog.Blocks {
		var instrs []TargetInstr
		for _, instr := range block.Instrs {
			instrs = append(instrs, reifyInstr(instr)...)
		}
		out.Blocks = append(out.Blocks, TargetBlock{Instrs: instrs})
	}
	return out
}

func reifyInstr(instr TargetInstr) []TargetInstr {
	switch i := instr.(type) {
	case *Set:
		if loc, ok := i.Dst.(Location); ok && loc.IsStack() {
			return []TargetInstr{
				&Set{Dst: StackItemLocation(), Value: i.Value},
				&Push{Offset: loc.StackOffset},
			}
		}
		return []TargetInstr{i}

	case *Operation:
		return reifyOperation(i)

	case *Tellraw, *TargetCommand, *FunctionCall:
		return []TargetInstr{i}

	case *ExecuteIfScoreMatches:
		return reifyGuardMatches(i.Var, i.Value, i.Run, true)
	case *ExecuteUnlessScoreMatches:
		return reifyGuardMatches(i.Var, i.Value, i.Run, false)
	case *ExecuteIfScoreEquals:
		return reifyGuardEquals(i.A, i.B, i.Run, true)
	case *ExecuteUnlessScoreEquals:
		return reifyGuardEquals(i.A, i.B, i.Run, false)

	default:
		return []TargetInstr{i}
	}
}

func reifyOperation(i *Operation) []TargetInstr {
	if i.Op == Equals && i.Source == i.Destination {
		return nil
	}

	srcLoc, srcIsStack := asStack(i.Source)
	dstLoc, dstIsStack := asStack(i.Destination)

	switch {
	case !srcIsStack && !dstIsStack:
		return []TargetInstr{i}

	case srcIsStack && !dstIsStack:
		return []TargetInstr{
			&Pop{Offset: srcLoc},
			&Operation{Op: i.Op, Source: StackItemLocation(), Destination: i.Destination},
		}

	case !srcIsStack && dstIsStack:
		return []TargetInstr{
			&Pop{Offset: dstLoc},
			&Operation{Op: i.Op, Source: i.Source, Destination: StackItemLocation()},
			&Push{Offset: dstLoc},
		}

	default: // both stack
		return []TargetInstr{
			&Pop{Offset: srcLoc},
			&Operation{Op: Equals, Source: StackItemLocation(), Destination: ScratchLocation()},
			&Pop{Offset: dstLoc},
			&Operation{Op: i.Op, Source: ScratchLocation(), Destination: StackItemLocation()},
			&Push{Offset: dstLoc},
		}
	}
}

func asStack(o Operand) (offset int, ok bool) {
	loc, isLoc := o.(Location)
	if !isLoc || !loc.IsStack() {
		return 0, false
	}
	return loc.StackOffset, true
}

func reifyGuardMatches(v Operand, value int64, run Run, isIf bool) []TargetInstr {
	reifiedRun, after := reifyRun(run)

	if offset, isStack := asStack(v); isStack {
		guard := guardMatches(StackItemLocation(), value, reifiedRun, isIf)
		instrs := []TargetInstr{&Pop{Offset: offset}, guard}
		return append(instrs, after...)
	}

	guard := guardMatches(v, value, reifiedRun, isIf)
	return append([]TargetInstr{guard}, after...)
}

func guardMatches(v Operand, value int64, run Run, isIf bool) TargetInstr {
	if isIf {
		return &ExecuteIfScoreMatches{Var: v, Value: value, Run: run}
	}
	return &ExecuteUnlessScoreMatches{Var: v, Value: value, Run: run}
}

// reifyGuardEquals generalizes the dual-stack Operation(Stack,Stack) pattern
// to the equals guard's two operands. Register/register passes through
// unchanged; one stack operand pops into StackItem and guards against the
// register directly; two stack operands pop the first into StackItem, copy
// it to Scratch to free StackItem, then pop the second into StackItem and
// guard on (Scratch, StackItem) — the same shape Operation(Stack,Stack)
// already uses to free a pseudo-register for the second pop.
func reifyGuardEquals(a, b Operand, run Run, isIf bool) []TargetInstr {
	reifiedRun, after := reifyRun(run)

	aOff, aIsStack := asStack(a)
	bOff, bIsStack := asStack(b)

	switch {
	case !aIsStack && !bIsStack:
		return append([]TargetInstr{guardEquals(a, b, reifiedRun, isIf)}, after...)

	case aIsStack && !bIsStack:
		instrs := []TargetInstr{&Pop{Offset: aOff}, guardEquals(StackItemLocation(), b, reifiedRun, isIf)}
		return append(instrs, after...)

	case !aIsStack && bIsStack:
		instrs := []TargetInstr{&Pop{Offset: bOff}, guardEquals(a, StackItemLocation(), reifiedRun, isIf)}
		return append(instrs, after...)

	default: // both stack
		instrs := []TargetInstr{
			&Pop{Offset: aOff},
			&Operation{Op: Equals, Source: StackItemLocation(), Destination: ScratchLocation()},
			&Pop{Offset: bOff},
			guardEquals(ScratchLocation(), StackItemLocation(), reifiedRun, isIf),
		}
		return append(instrs, after...)
	}
}

func guardEquals(a, b Operand, run Run, isIf bool) TargetInstr {
	if isIf {
		return &ExecuteIfScoreEquals{A: a, B: b, Run: run}
	}
	return &ExecuteUnlessScoreEquals{A: a, B: b, Run: run}
}

// reifyRun reifies a guarded instruction's Run payload: a Function run
// passes through untouched; a Set run whose target is a stack slot becomes
// a Set into StackItem, with the slot's Push returned separately so the
// caller appends it immediately after the guard instruction. That Push is
// an ordinary instruction: it runs whether or not the guard fires.
func reifyRun(run Run) (Run, []TargetInstr) {
	if run.IsFunction() {
		return run, nil
	}
	if offset, isStack := asStack(run.SetLoc); isStack {
		return RunSet(StackItemLocation(), run.SetValue), []TargetInstr{&Push{Offset: offset}}
	}
	return run, nil
}
