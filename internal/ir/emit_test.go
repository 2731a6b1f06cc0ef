package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatProgramSingleTest(instrs []TargetInstr) *FlatProgram {
	return &FlatProgram{
		Blocks: []TargetBlock{{Instrs: instrs}},
		Tests:  []LinearTest{{Name: "literal true", Block: 0}},
	}
}

func TestEmitIncludesRuntimeHelpersAndRunFunction(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{&Tellraw{Text: "ok - literal true"}})
	functions := Emit(prog)

	names := map[string]string{}
	for _, f := range functions {
		names[f.Namespace+":"+f.Name] = f.Content
	}

	require.Contains(t, names, "mctest:push")
	require.Contains(t, names, "mctest:pop")
	require.Contains(t, names, "mctest:test0")
	require.Contains(t, names, "mctest:run")

	assert.Contains(t, names["mctest:test0"], `tellraw @s "ok - literal true"`)
	assert.Contains(t, names["mctest:run"], `tellraw @s "TAP version 14"`)
	assert.Contains(t, names["mctest:run"], `tellraw @s "1..1"`)
	assert.Contains(t, names["mctest:run"], "scoreboard players set ptr stack 10")
	assert.Contains(t, names["mctest:run"], "function mctest:test0")
	assert.Contains(t, names["mctest:run"], `tellraw @s "<EOF>"`)
}

func TestEmitSetAndOperationTextualization(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{
		&Set{Dst: RegisterLocation(R1), Value: 3},
		&Operation{Op: PlusEquals, Source: RegisterLocation(R2), Destination: RegisterLocation(R1)},
	})
	functions := Emit(prog)

	var content string
	for _, f := range functions {
		if f.Name == "test0" {
			content = f.Content
		}
	}

	assert.Contains(t, content, "scoreboard players set r1 registry 3\n")
	assert.Contains(t, content, "scoreboard players operation r1 registry += r2 registry\n")
}

func TestEmitPushPopTextualization(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{
		&Push{Offset: 2},
		&Pop{Offset: 2},
	})
	functions := Emit(prog)

	var content string
	for _, f := range functions {
		if f.Name == "test0" {
			content = f.Content
		}
	}

	assert.Contains(t, content, "scoreboard players set offset stack 2\nfunction mctest:push\n")
	assert.Contains(t, content, "scoreboard players set offset stack 2\nfunction mctest:pop\n")
}

func TestEmitTellrawEscapesQuotesAndBackslashes(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{&Tellraw{Text: `say "hi"\now`}})
	functions := Emit(prog)

	var content string
	for _, f := range functions {
		if f.Name == "test0" {
			content = f.Content
		}
	}

	assert.Contains(t, content, `tellraw @s "say \"hi\"\\now"`)
}

func TestEmitCommandPassesThrough(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{&TargetCommand{Text: "say hi"}})
	functions := Emit(prog)

	var content string
	for _, f := range functions {
		if f.Name == "test0" {
			content = f.Content
		}
	}

	assert.Equal(t, "say hi\n", content)
}

func TestEmitFunctionCallToReachableBlockGetsBlockFunction(t *testing.T) {
	prog := &FlatProgram{
		Blocks: []TargetBlock{
			{Instrs: []TargetInstr{&FunctionCall{Block: 1}}},
			{Instrs: []TargetInstr{&Tellraw{Text: "ok - t"}}},
		},
		Tests: []LinearTest{{Name: "t", Block: 0}},
	}
	functions := Emit(prog)

	names := map[string]string{}
	for _, f := range functions {
		names[f.Name] = f.Content
	}

	require.Contains(t, names, "block1")
	assert.Contains(t, names["test0"], "function mctest:block1\n")
	assert.Contains(t, names["block1"], `tellraw @s "ok - t"`)
}

func TestEmitUnreachableBlockIsOmitted(t *testing.T) {
	prog := &FlatProgram{
		Blocks: []TargetBlock{
			{Instrs: []TargetInstr{&Tellraw{Text: "ok - t"}}},
			{Instrs: []TargetInstr{&Tellraw{Text: "dead code"}}},
		},
		Tests: []LinearTest{{Name: "t", Block: 0}},
	}
	functions := Emit(prog)

	for _, f := range functions {
		assert.NotEqual(t, "block1", f.Name)
	}
}

func TestEmitGuardedExecuteTextualization(t *testing.T) {
	prog := flatProgramSingleTest([]TargetInstr{
		&ExecuteIfScoreMatches{Var: RegisterLocation(R1), Value: 1, Run: RunFunction(0)},
	})
	functions := Emit(prog)

	var content string
	for _, f := range functions {
		if f.Name == "test0" {
			content = f.Content
		}
	}
	assert.True(t, strings.HasPrefix(content, "execute if score r1 registry matches 1 run function mctest:test0\n"))
}
