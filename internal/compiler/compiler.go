// Package compiler wires the front end and the eight IR passes into a
// single entry point that takes MCML source text and produces the
// function list a data pack writer can serialize.
package compiler

import (
	"fmt"

	"mctestc/internal/ast"
	"mctestc/internal/datapack"
	"mctestc/internal/errors"
	"mctestc/internal/ir"
	"mctestc/internal/parser"
)

// Result is everything a successful compile needs to hand to a data pack
// writer, plus any warnings collected along the way.
type Result struct {
	Functions []datapack.Function
	Warnings  []errors.CompilerError
}

// CompileString runs the full pipeline — parse, Uniquify, Desugar,
// Linearize, SelectInstr, AssignHomes, InsertJmps, ReifyLocations, Emit —
// over source text. filename is used only to annotate positions in
// diagnostics.
func CompileString(filename, source string) (*Result, []errors.CompilerError) {
	program, parseErrs := parser.ParseString(filename, source)
	if hasError(parseErrs) {
		return nil, parseErrs
	}
	return compile(program, parseErrs)
}

// CompileFile reads path and compiles its contents.
func CompileFile(path string) (*Result, []errors.CompilerError) {
	program, parseErrs := parser.ParseFile(path)
	if hasError(parseErrs) {
		return nil, parseErrs
	}
	return compile(program, parseErrs)
}

// compile runs every pass after parsing. The first pass to report an
// Error-level diagnostic aborts the pipeline there; warnings collected up
// to that point are folded into the returned error slice. A successful
// compile returns every warning seen across all passes.
//
// Every pass assumes the postconditions of the one before it; a pass that
// observes those assumptions broken (an exhaustive switch falling to its
// "impossible" default, say) panics rather than threading an error return
// through code that should never run. This boundary recovers any such
// panic and reports it as an ErrorInternalInvariant diagnostic instead of
// letting it crash the CLI or LSP process.
func compile(program *ast.Program, priorErrs []errors.CompilerError) (result *Result, errs []errors.CompilerError) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			errs = concatErrs(priorErrs, []errors.CompilerError{
				errors.InternalInvariant("compiler", fmt.Sprintf("%v", r)),
			})
		}
	}()

	uniquified, uniquifyErrs := ir.Uniquify(program)
	allErrs := concatErrs(priorErrs, uniquifyErrs)
	if hasError(uniquifyErrs) {
		return nil, allErrs
	}

	desugared := ir.Desugar(uniquified)
	linear := ir.Linearize(desugared)

	selected, selectErrs := ir.SelectInstr(linear)
	allErrs = concatErrs(allErrs, selectErrs)
	if hasError(selectErrs) {
		return nil, allErrs
	}

	homed := ir.AssignHomes(selected)
	flat := ir.InsertJmps(homed)
	reified := ir.ReifyLocations(flat)

	functions := ir.Emit(reified)

	return &Result{Functions: functions, Warnings: allErrs}, nil
}

func hasError(errs []errors.CompilerError) bool {
	for _, e := range errs {
		if e.Level == errors.Error {
			return true
		}
	}
	return false
}

func concatErrs(groups ...[]errors.CompilerError) []errors.CompilerError {
	var out []errors.CompilerError
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
