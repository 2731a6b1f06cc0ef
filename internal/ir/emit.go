package ir

import (
	"fmt"
	"strings"

	"mctestc/internal/datapack"
	"mctestc/internal/runtime"
)

// Emit is P8: concatenate the runtime preamble, one function per reachable
// block, and a top-level mctest:run that prints the TAP header, calls every
// test's entry block, and prints the TAP trailer.
func Emit(prog *FlatProgram) []datapack.Function {
	rt := runtime.Setup()
	functions := append([]datapack.Function{}, rt.Functions...)

	testEntries := make(map[BlockID]int, len(prog.Tests))
	for i, t := range prog.Tests {
		testEntries[t.Block] = i
	}
	reachable := reachableBlocks(prog, testEntries)

	for i, t := range prog.Tests {
		functions = append(functions, datapack.Function{
			Namespace: "mctest",
			Name:      fmt.Sprintf("test%d", i),
			Content:   emitBlock(prog.Blocks[t.Block], testEntries),
		})
	}

	for id := range prog.Blocks {
		bid := BlockID(id)
		if _, isEntry := testEntries[bid]; isEntry {
			continue
		}
		if !reachable[bid] {
			continue
		}
		functions = append(functions, datapack.Function{
			Namespace: "mctest",
			Name:      blockName(bid, testEntries),
			Content:   emitBlock(prog.Blocks[id], testEntries),
		})
	}

	functions = append(functions, datapack.Function{
		Namespace: "mctest",
		Name:      "run",
		Content:   emitRun(rt.Init, prog.Tests),
	})

	return functions
}

func emitRun(init string, tests []LinearTest) string {
	var b strings.Builder
	b.WriteString(init)
	b.WriteString("tellraw @s \"TAP version 14\"\n")
	fmt.Fprintf(&b, "tellraw @s \"1..%d\"\n", len(tests))
	b.WriteString("scoreboard players set ptr stack 10\n")
	b.WriteString("\n")
	for i := range tests {
		fmt.Fprintf(&b, "function mctest:test%d\n", i)
	}
	b.WriteString("\ntellraw @s \"<EOF>\"\n")
	return b.String()
}

// blockName gives a reachable block its function name: testN if it is a
// test's entry block, blockI (I the block's own id) otherwise.
func blockName(id BlockID, testEntries map[BlockID]int) string {
	if n, ok := testEntries[id]; ok {
		return fmt.Sprintf("test%d", n)
	}
	return fmt.Sprintf("block%d", id)
}

// reachableBlocks walks FunctionCall and Run-carried block references
// starting from every test's entry block. After InsertJmps the CFG's edges
// live entirely inside instructions (FunctionCall, or the Run payload of a
// guarded execute), so this is a plain worklist over instruction contents
// rather than a graph traversal.
func reachableBlocks(prog *FlatProgram, testEntries map[BlockID]int) map[BlockID]bool {
	seen := make(map[BlockID]bool)
	var worklist []BlockID
	for id := range testEntries {
		worklist = append(worklist, id)
	}

	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if seen[id] {
			continue
		}
		seen[id] = true

		for _, instr := range prog.Blocks[id].Instrs {
			for _, ref := range instrBlockRefs(instr) {
				if !seen[ref] {
					worklist = append(worklist, ref)
				}
			}
		}
	}

	return seen
}

func instrBlockRefs(instr TargetInstr) []BlockID {
	switch k := instr.(type) {
	case *FunctionCall:
		return []BlockID{k.Block}
	case *ExecuteIfScoreMatches:
		return runBlockRefs(k.Run)
	case *ExecuteUnlessScoreMatches:
		return runBlockRefs(k.Run)
	case *ExecuteIfScoreEquals:
		return runBlockRefs(k.Run)
	case *ExecuteUnlessScoreEquals:
		return runBlockRefs(k.Run)
	default:
		return nil
	}
}

func runBlockRefs(run Run) []BlockID {
	if run.IsFunction() {
		return []BlockID{run.Block}
	}
	return nil
}

func emitBlock(block TargetBlock, testEntries map[BlockID]int) string {
	var b strings.Builder
	for _, instr := range block.Instrs {
		b.WriteString(emitInstr(instr, testEntries))
	}
	return b.String()
}

func emitInstr(instr TargetInstr, testEntries map[BlockID]int) string {
	switch k := instr.(type) {
	case *Set:
		return fmt.Sprintf("scoreboard players set %s %d\n", k.Dst, k.Value)
	case *Operation:
		return fmt.Sprintf("scoreboard players operation %s %s %s\n", k.Destination, k.Op, k.Source)
	case *Push:
		return fmt.Sprintf("scoreboard players set offset stack %d\nfunction mctest:push\n", k.Offset)
	case *Pop:
		return fmt.Sprintf("scoreboard players set offset stack %d\nfunction mctest:pop\n", k.Offset)
	case *Tellraw:
		return fmt.Sprintf("tellraw @s \"%s\"\n", escape(k.Text))
	case *TargetCommand:
		return k.Text + "\n"
	case *FunctionCall:
		return fmt.Sprintf("function mctest:%s\n", blockName(k.Block, testEntries))
	case *ExecuteIfScoreMatches:
		return fmt.Sprintf("execute if score %s matches %d run %s", k.Var, k.Value, emitRunPayload(k.Run, testEntries))
	case *ExecuteUnlessScoreMatches:
		return fmt.Sprintf("execute unless score %s matches %d run %s", k.Var, k.Value, emitRunPayload(k.Run, testEntries))
	case *ExecuteIfScoreEquals:
		return fmt.Sprintf("execute if score %s = %s run %s", k.A, k.B, emitRunPayload(k.Run, testEntries))
	case *ExecuteUnlessScoreEquals:
		return fmt.Sprintf("execute unless score %s = %s run %s", k.A, k.B, emitRunPayload(k.Run, testEntries))
	default:
		return ""
	}
}

// emitRunPayload textualizes a guarded instruction's Run payload: either a
// function call to another block, or a direct scoreboard set.
func emitRunPayload(run Run, testEntries map[BlockID]int) string {
	if run.IsFunction() {
		return fmt.Sprintf("function mctest:%s\n", blockName(run.Block, testEntries))
	}
	return fmt.Sprintf("scoreboard players set %s %d\n", run.SetLoc, run.SetValue)
}

// escape applies the Tellraw string-literal convention: backslashes first,
// then quotes, so a literal backslash is never mistaken for the start of an
// escape sequence introduced by the quote pass.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
