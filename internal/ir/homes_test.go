package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMoveGraphTracksEqualsOnly(t *testing.T) {
	vars := NewVarFactory()
	a, b, c := vars.Tmp(), vars.Tmp(), vars.Tmp()
	prog := &TargetProgram{Blocks: NewGraph[TargetBlock, BranchJmp](), Vars: vars}
	id := prog.Blocks.AddBlock(TargetBlock{Instrs: []TargetInstr{
		&Operation{Op: Equals, Source: a, Destination: b},
		&Operation{Op: PlusEquals, Source: b, Destination: c},
	}})
	prog.Tests = []LinearTest{{Name: "t", Block: id}}

	annotated := UncoverLive(prog)
	moves := BuildMoveGraph(annotated)

	assert.True(t, moves.MoveRelated(a, b))
	assert.False(t, moves.MoveRelated(b, c))
}

func TestInterferenceOmitsMoveSource(t *testing.T) {
	// a = 1; b = 2; c = a   (c := a is a pure move: c must not interfere with a)
	vars := NewVarFactory()
	a, b, c := vars.Tmp(), vars.Tmp(), vars.Tmp()
	prog := &TargetProgram{Blocks: NewGraph[TargetBlock, BranchJmp](), Vars: vars}
	id := prog.Blocks.AddBlock(TargetBlock{Instrs: []TargetInstr{
		&Set{Dst: a, Value: 1},
		&Set{Dst: b, Value: 2},
		&Operation{Op: Equals, Source: a, Destination: c},
	}})
	prog.Tests = []LinearTest{{Name: "t", Block: id}}

	annotated := UncoverLive(prog)
	interference := BuildInterferenceGraph(annotated)

	// b is written while a is still live (a is read by the final
	// instruction), so they must receive distinct colors.
	assert.True(t, interference.Interferes(a, b))
	// c := a is a pure move: c and a must not be forced apart.
	assert.False(t, interference.Interferes(a, c))
}

func TestColorGraphGivesDistinctColorsToInterferingVars(t *testing.T) {
	vars := NewVarFactory()
	a, b := vars.Tmp(), vars.Tmp()
	prog := &TargetProgram{Blocks: NewGraph[TargetBlock, BranchJmp](), Vars: vars}
	id := prog.Blocks.AddBlock(TargetBlock{Instrs: []TargetInstr{
		&Set{Dst: a, Value: 1},
		&Set{Dst: b, Value: 2},
		&Operation{Op: PlusEquals, Source: b, Destination: a},
	}})
	prog.Tests = []LinearTest{{Name: "t", Block: id}}

	annotated := UncoverLive(prog)
	moves := BuildMoveGraph(annotated)
	interference := BuildInterferenceGraph(annotated)
	coloring := ColorGraph(interference, moves)

	require.Contains(t, coloring, a)
	require.Contains(t, coloring, b)
	assert.NotEqual(t, coloring[a], coloring[b])
}

func TestColorGraphBiasesMoveRelatedToSameColor(t *testing.T) {
	// a = 1; b = a; (a and b never simultaneously live -> no interference,
	// and they are move-related, so the allocator should prefer one color)
	vars := NewVarFactory()
	a, b := vars.Tmp(), vars.Tmp()
	prog := &TargetProgram{Blocks: NewGraph[TargetBlock, BranchJmp](), Vars: vars}
	id := prog.Blocks.AddBlock(TargetBlock{Instrs: []TargetInstr{
		&Set{Dst: a, Value: 1},
		&Operation{Op: Equals, Source: a, Destination: b},
		&Tellraw{Text: "ok"},
	}})
	prog.Tests = []LinearTest{{Name: "t", Block: id}}

	annotated := UncoverLive(prog)
	moves := BuildMoveGraph(annotated)
	interference := BuildInterferenceGraph(annotated)
	coloring := ColorGraph(interference, moves)

	assert.Equal(t, coloring[a], coloring[b])
}

func TestAssignHomesRewritesOperandsToLocations(t *testing.T) {
	vars := NewVarFactory()
	a, b := vars.Tmp(), vars.Tmp()
	prog := &TargetProgram{Blocks: NewGraph[TargetBlock, BranchJmp](), Vars: vars}
	id := prog.Blocks.AddBlock(TargetBlock{Instrs: []TargetInstr{
		&Set{Dst: a, Value: 1},
		&Set{Dst: b, Value: 2},
		&Operation{Op: PlusEquals, Source: b, Destination: a},
	}})
	prog.Tests = []LinearTest{{Name: "t", Block: id}}

	homed := AssignHomes(prog)
	instrs := homed.Blocks.Block(id).Instrs
	require.Len(t, instrs, 3)

	for _, instr := range instrs {
		switch i := instr.(type) {
		case *Set:
			_, ok := i.Dst.(Location)
			assert.True(t, ok)
		case *Operation:
			_, sok := i.Source.(Location)
			_, dok := i.Destination.(Location)
			assert.True(t, sok)
			assert.True(t, dok)
		}
	}
}
