package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatOf(instrs []TargetInstr) *FlatProgram {
	return &FlatProgram{Blocks: []TargetBlock{{Instrs: instrs}}}
}

func TestReifySetToStack(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{&Set{Dst: StackLocation(2), Value: 9}}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 2)

	set := instrs[0].(*Set)
	assert.True(t, set.Dst.(Location).IsStackItem())
	assert.Equal(t, int64(9), set.Value)

	push := instrs[1].(*Push)
	assert.Equal(t, 2, push.Offset)
}

func TestReifyOperationRegisterRegisterPassesThrough(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&Operation{Op: PlusEquals, Source: RegisterLocation(R1), Destination: RegisterLocation(R2)},
	}))
	require.Len(t, out.Blocks[0].Instrs, 1)
}

func TestReifyOperationEqualsSameLocationElided(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&Operation{Op: Equals, Source: RegisterLocation(R1), Destination: RegisterLocation(R1)},
	}))
	assert.Empty(t, out.Blocks[0].Instrs)
}

func TestReifyOperationStackSource(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&Operation{Op: PlusEquals, Source: StackLocation(1), Destination: RegisterLocation(R1)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 2)
	pop := instrs[0].(*Pop)
	assert.Equal(t, 1, pop.Offset)
	op := instrs[1].(*Operation)
	assert.True(t, op.Source.(Location).IsStackItem())
	assert.Equal(t, RegisterLocation(R1), op.Destination)
}

func TestReifyOperationStackDestination(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&Operation{Op: PlusEquals, Source: RegisterLocation(R1), Destination: StackLocation(3)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 3)
	assert.Equal(t, 3, instrs[0].(*Pop).Offset)
	op := instrs[1].(*Operation)
	assert.True(t, op.Destination.(Location).IsStackItem())
	assert.Equal(t, 3, instrs[2].(*Push).Offset)
}

func TestReifyOperationStackStack(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&Operation{Op: MinusEquals, Source: StackLocation(1), Destination: StackLocation(2)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 5)
	assert.Equal(t, 1, instrs[0].(*Pop).Offset)
	toScratch := instrs[1].(*Operation)
	assert.True(t, toScratch.Source.(Location).IsStackItem())
	assert.True(t, toScratch.Destination.(Location).IsScratch())
	assert.Equal(t, 2, instrs[2].(*Pop).Offset)
	apply := instrs[3].(*Operation)
	assert.True(t, apply.Source.(Location).IsScratch())
	assert.True(t, apply.Destination.(Location).IsStackItem())
	assert.Equal(t, 2, instrs[4].(*Push).Offset)
}

func TestReifyGuardMatchesStackVar(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&ExecuteIfScoreMatches{Var: StackLocation(4), Value: 1, Run: RunFunction(0)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 2)
	assert.Equal(t, 4, instrs[0].(*Pop).Offset)
	guard := instrs[1].(*ExecuteIfScoreMatches)
	assert.True(t, guard.Var.(Location).IsStackItem())
}

func TestReifyGuardEqualsBothStack(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&ExecuteIfScoreEquals{A: StackLocation(1), B: StackLocation(2), Run: RunFunction(0)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 4)
	assert.Equal(t, 1, instrs[0].(*Pop).Offset)
	toScratch := instrs[1].(*Operation)
	assert.True(t, toScratch.Destination.(Location).IsScratch())
	assert.Equal(t, 2, instrs[2].(*Pop).Offset)
	guard := instrs[3].(*ExecuteIfScoreEquals)
	assert.True(t, guard.A.(Location).IsScratch())
	assert.True(t, guard.B.(Location).IsStackItem())
}

func TestReifyRunSetToStackDefersPush(t *testing.T) {
	out := ReifyLocations(flatOf([]TargetInstr{
		&ExecuteIfScoreMatches{Var: RegisterLocation(R1), Value: 1, Run: RunSet(StackLocation(5), 1)},
	}))
	instrs := out.Blocks[0].Instrs
	require.Len(t, instrs, 2)
	guard := instrs[0].(*ExecuteIfScoreMatches)
	assert.True(t, guard.Run.SetLoc.(Location).IsStackItem())
	push := instrs[1].(*Push)
	assert.Equal(t, 5, push.Offset)
}
