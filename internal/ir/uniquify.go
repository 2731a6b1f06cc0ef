package ir

import (
	"sort"

	"mctestc/internal/ast"
	"mctestc/internal/errors"
)

// env maps surface names to the variable identity currently in scope for
// them, rebuilt fresh at the start of every test (names never cross test
// boundaries).
type env map[string]Var

// Uniquify is P1: walk the surface AST carrying an environment from names
// to variable identities, allocating a fresh Var at every LetStmt and
// resolving every Ident against the environment built so far. Shadowing is
// permitted — rebinding a name in the same test simply overwrites the
// environment entry; statements already lowered keep referring to the
// older Var. Unbound names are collected as errors rather than aborting at
// the first one, so a single compile reports every unbound name in a test
// instead of forcing a fix-one-rerun cycle.
func Uniquify(prog *ast.Program) (*Program, []errors.CompilerError) {
	factory := NewVarFactory()
	out := &Program{Vars: factory}
	var errs []errors.CompilerError

	for _, test := range prog.Tests {
		e := make(env)
		var stmts []Stmt
		for _, s := range test.Stmts {
			stmt, stmtErrs := uniquifyStmt(factory, e, s)
			errs = append(errs, stmtErrs...)
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
		out.Defs = append(out.Defs, Definition{Name: test.Name, Stmts: stmts})
	}

	return out, errs
}

func uniquifyStmt(factory *VarFactory, e env, s ast.Statement) (Stmt, []errors.CompilerError) {
	switch s := s.(type) {
	case *ast.AssertStmt:
		expr, errs := uniquifyExpr(e, s.Expr)
		return &AssertStmt{Expr: expr}, errs

	case *ast.AssertEqStmt:
		left, lerrs := uniquifyExpr(e, s.Left)
		right, rerrs := uniquifyExpr(e, s.Right)
		return &AssertEqStmt{Left: left, Right: right}, append(lerrs, rerrs...)

	case *ast.CommandStmt:
		return &CommandStmt{Text: s.Text}, nil

	case *ast.LetStmt:
		expr, errs := uniquifyExpr(e, s.Expr)
		v := factory.Named(s.Name)
		e[s.Name] = v
		return &LetStmt{Var: v, Expr: expr}, errs

	case *ast.ExprStmt:
		expr, errs := uniquifyExpr(e, s.Expr)
		return &ExprStmt{Expr: expr}, errs

	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("uniquify", "unknown statement kind")}
	}
}

func uniquifyExpr(e env, expr ast.Expr) (Expr, []errors.CompilerError) {
	switch expr := expr.(type) {
	case *ast.LitBool:
		return LitBool{Value: expr.Value}, nil

	case *ast.LitInt:
		return LitInt{Value: expr.Value}, nil

	case *ast.Ident:
		v, ok := e[expr.Name]
		if !ok {
			return nil, []errors.CompilerError{errors.UnboundVariable(expr.Name, expr.ExprPos, similarNames(e, expr.Name))}
		}
		return VarExpr{Var: v}, nil

	case *ast.BinaryExpr:
		left, lerrs := uniquifyExpr(e, expr.Left)
		right, rerrs := uniquifyExpr(e, expr.Right)
		return &BinaryExpr{Op: convertOp(expr.Op), Left: left, Right: right}, append(lerrs, rerrs...)

	case *ast.EqExpr:
		left, lerrs := uniquifyExpr(e, expr.Left)
		right, rerrs := uniquifyExpr(e, expr.Right)
		return &EqExpr{Left: left, Right: right}, append(lerrs, rerrs...)

	case *ast.IfExpr:
		cond, cerrs := uniquifyExpr(e, expr.Cond)
		thn, terrs := uniquifyExpr(e, expr.Then)
		els, eerrs := uniquifyExpr(e, expr.Else)
		all := append(cerrs, terrs...)
		all = append(all, eerrs...)
		return &IfExpr{Cond: cond, Then: thn, Else: els}, all

	default:
		return nil, []errors.CompilerError{errors.InternalInvariant("uniquify", "unknown expression kind")}
	}
}

func convertOp(op ast.BinaryOp) BinaryOp {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Sub
	case ast.Mul:
		return Mul
	case ast.Div:
		return Div
	default:
		return Add
	}
}

// similarNames returns in-scope names within edit distance 2 of name, for
// "did you mean" suggestions on an unbound-variable error.
func similarNames(e env, name string) []string {
	var out []string
	for candidate := range e {
		if editDistanceAtMost(name, candidate, 2) {
			out = append(out, candidate)
		}
	}
	sort.Strings(out)
	return out
}

// editDistanceAtMost reports whether the Levenshtein distance between a and
// b is at most max, without computing the exact distance once a row proves
// it cannot fit.
func editDistanceAtMost(a, b string, max int) bool {
	if absInt(len(a)-len(b)) > max {
		return false
	}
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > max {
			return false
		}
		prev = cur
	}
	return prev[len(b)] <= max
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
