package errors

import (
	"fmt"
	"strings"

	"mctestc/internal/ast"
)

// ErrorBuilder provides a fluent interface for constructing a CompilerError
// with suggestions, notes, and help text attached incrementally.
type ErrorBuilder struct {
	err CompilerError
}

// NewError starts building an error-level CompilerError.
func NewError(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning starts building a warning-level CompilerError.
func NewWarning(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *ErrorBuilder) Build() CompilerError {
	return b.err
}

// UnboundVariable reports a P1 Uniquify failure: name has no enclosing let
// binding in scope at pos. similarNames, when non-empty, are in-scope names
// within edit distance 2 of name (see internal/ir/uniquify.go).
func UnboundVariable(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewError(ErrorUnboundVariable, fmt.Sprintf("unbound variable '%s'", name), pos).
		WithLength(len(name))

	switch len(similarNames) {
	case 0:
		builder = builder.WithNote("every variable must be bound by an enclosing 'let' before use")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.Build()
}

// AssertNonBool builds the diagnostic for an assert/asserteq operand that is
// not boolean-shaped. No pass calls it: Desugar does not inspect operand
// types, and SelectInstr treats a nonzero integer condition as true.
func AssertNonBool(pos ast.Position) CompilerError {
	return NewError(ErrorAssertNonBool, "assert requires a boolean expression", pos).
		WithHelp("compare with 'eq', or use a literal true/false").
		Build()
}

// UnsupportedCompare reports a SelectInstr failure: a two-operand equality
// guard has no guarded-instruction lowering for the operand kinds it was
// given (see internal/ir/select.go).
func UnsupportedCompare(pos ast.Position, detail string) CompilerError {
	return NewError(ErrorUnsupportedCompare, "unsupported comparison", pos).
		WithNote(detail).
		Build()
}

// UnsupportedBinary builds the diagnostic for a binary operator with no
// op-assign lowering. No pass calls it: SelectInstr lowers all four
// operators.
func UnsupportedBinary(op string, pos ast.Position) CompilerError {
	return NewError(ErrorUnsupportedBinary, fmt.Sprintf("unsupported binary operator '%s'", op), pos).
		Build()
}

// InternalInvariant reports a pass observing a condition its own
// precondition, or a prior pass's postcondition, rules out. A pass that
// hits such a condition panics rather than threading an error return
// through code that should be unreachable; internal/compiler's compile
// recovers that panic at the pipeline boundary and wraps it with this
// constructor instead of letting it escape to the CLI or LSP process.
func InternalInvariant(pass, detail string) CompilerError {
	return NewError(ErrorInternalInvariant, fmt.Sprintf("[%s] internal invariant violated: %s", pass, detail), ast.Position{}).
		WithNote("this is a compiler bug, not a problem with the input program").
		Build()
}

// UnusedVariable reports a let-bound name that is never read.
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningUnusedVariable, fmt.Sprintf("unused variable '%s'", name), pos).
		WithLength(len(name)).
		Build()
}
