// Package runtime builds the fixed scoreboard setup and stack-access
// helper functions every compiled data pack ships alongside the emitted
// test functions.
package runtime

import (
	"fmt"
	"strings"

	"mctestc/internal/datapack"
)

// stackDepth is the number of stack cells the preamble zeroes and the
// push/pop helpers copy through. It bounds how deep a test's variables
// may spill once the register colors run out.
const stackDepth = 32

// registerCount is the number of registers in each of the three banks
// (caller-saved, callee-saved, argument) the preamble initializes.
const registerCount = 8

// Runtime holds the scoreboard initialization commands run once before
// any test, plus the mctest:push/mctest:pop helper functions the
// reified stack instructions call.
type Runtime struct {
	Init      string
	Functions []datapack.Function
}

// Setup builds the runtime preamble and helper functions.
func Setup() Runtime {
	return Runtime{
		Init:      setupInit(),
		Functions: []datapack.Function{setupPush(), setupPop()},
	}
}

func setupInit() string {
	var b strings.Builder

	b.WriteString("scoreboard objectives add registry dummy\n")
	for _, prefix := range []string{"r", "e", "a"} {
		for i := 1; i <= registerCount; i++ {
			fmt.Fprintf(&b, "scoreboard players set %s%d registry 0\n", prefix, i)
		}
	}

	b.WriteString("scoreboard objectives add stack dummy\n")
	b.WriteString("scoreboard players set ptr stack 0\n")
	b.WriteString("scoreboard players set offset stack 0\n")
	b.WriteString("scoreboard players set item stack 0\n")
	for i := 0; i < stackDepth; i++ {
		fmt.Fprintf(&b, "scoreboard players set %d stack 0\n", i)
	}

	return b.String()
}

// setupPush builds mctest:push, which copies the value in "item stack"
// into the stack cell at (ptr - offset).
func setupPush() datapack.Function {
	return datapack.Function{
		Namespace: "mctest",
		Name:      "push",
		Content:   copyThroughTmp("scoreboard players operation %d stack = item stack\n"),
	}
}

// setupPop builds mctest:pop, the mirror of setupPush: it copies the
// stack cell at (ptr - offset) into "item stack".
func setupPop() datapack.Function {
	return datapack.Function{
		Namespace: "mctest",
		Name:      "pop",
		Content:   copyThroughTmp("scoreboard players operation item stack = %d stack\n"),
	}
}

// copyThroughTmp emits the shared prologue that computes the target
// stack cell index into "tmp stack", followed by one guarded copy line
// per possible cell index, built from lineFormat (which takes the cell
// index as its one %d argument).
func copyThroughTmp(lineFormat string) string {
	var b strings.Builder
	b.WriteString("scoreboard players operation tmp stack = ptr stack\n")
	b.WriteString("scoreboard players operation tmp stack -= offset stack\n")
	for i := 0; i < stackDepth; i++ {
		fmt.Fprintf(&b, "execute if score tmp stack matches %d run ", i)
		fmt.Fprintf(&b, lineFormat, i)
	}
	return b.String()
}
