package ir

import "fmt"

// Operand is anything a target-flavored instruction can read or write: a
// Var before AssignHomes runs, a Location afterward. Every instruction and
// branch-jump struct from SelectInstr through ReifyLocations shares the
// same shape — only the concrete Operand values change as the pipeline
// progresses, which is why SelectInstr, AssignHomes, InsertJmps, and
// ReifyLocations can all operate on the one TargetInstr/BranchJmp sum
// instead of redefining an instruction set per pass.
type Operand interface {
	isOperand()
}

func (Var) isOperand() {}

// Register is one of the 8 general-purpose or 8 callee-preserved physical
// registers the backend exposes.
type Register int

const (
	R1 Register = iota
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	E1
	E2
	E3
	E4
	E5
	E6
	E7
	E8
)

func (r Register) String() string {
	if r >= R1 && r <= R8 {
		return fmt.Sprintf("r%d", int(r-R1)+1)
	}
	return fmt.Sprintf("e%d", int(r-E1)+1)
}

// RegisterFromColor maps a coloring color in [0,15] to its physical
// register, per the fixed bijection colors 0..15 → R1..R8 then E1..E8.
func RegisterFromColor(color int) Register {
	return Register(color)
}

type locationKind int

const (
	locStack locationKind = iota
	locRegister
	locStackItem
	locScratch
)

// Location is a physical operand: a stack slot (pre-reify only), a
// register, or one of the two reify-introduced pseudo-registers
// (StackItem, Scratch) that stand in for a stack slot's value while it is
// being operated on.
type Location struct {
	kind        locationKind
	Register    Register
	StackOffset int
}

func StackLocation(offset int) Location    { return Location{kind: locStack, StackOffset: offset} }
func RegisterLocation(r Register) Location { return Location{kind: locRegister, Register: r} }
func StackItemLocation() Location          { return Location{kind: locStackItem} }
func ScratchLocation() Location            { return Location{kind: locScratch} }

func (l Location) IsStack() bool     { return l.kind == locStack }
func (l Location) IsRegister() bool  { return l.kind == locRegister }
func (l Location) IsStackItem() bool { return l.kind == locStackItem }
func (l Location) IsScratch() bool   { return l.kind == locScratch }

func (l Location) String() string {
	switch l.kind {
	case locRegister:
		return fmt.Sprintf("%s registry", l.Register)
	case locStackItem:
		return "item stack"
	case locScratch:
		return "scratch registry"
	case locStack:
		return fmt.Sprintf("%d stack", l.StackOffset)
	default:
		return "?"
	}
}

// LocationFromColor applies the fixed color→location bijection: colors
// 0..15 become registers R1..R8, E1..E8; colors ≥16 become stack offset
// color-15.
func LocationFromColor(color int) Location {
	if color < 16 {
		return RegisterLocation(RegisterFromColor(color))
	}
	return StackLocation(color - 15)
}

func (Location) isOperand() {}
