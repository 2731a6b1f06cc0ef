package ir

// Desugar is P2: replace every AssertStmt/AssertEqStmt with an ExprStmt
// wrapping an IfExpr whose `then` branch is a BundleExpr splicing in the
// statements that lexically followed the assertion (its "continuation"),
// and whose `else` branch emits TellNotOk. The tail of every test gets a
// TellOk appended. Walking the statement list back-to-front lets each
// assertion capture everything already folded into `continuation` as its
// `then` branch, producing a right-nested tree of ifs: the first failing
// assertion short-circuits straight to a single TellNotOk line, while a
// fully successful run falls through to the trailing TellOk.
func Desugar(prog *Program) *Program {
	out := &Program{Vars: prog.Vars}
	for _, def := range prog.Defs {
		out.Defs = append(out.Defs, desugarDef(def))
	}
	return out
}

func desugarDef(def Definition) Definition {
	continuation := []Stmt{&TellOkStmt{TestName: def.Name}}
	for i := len(def.Stmts) - 1; i >= 0; i-- {
		continuation = desugarStmt(def.Name, def.Stmts[i], continuation)
	}
	return Definition{Name: def.Name, Stmts: continuation}
}

// desugarStmt prepends the lowering of stmt to continuation, returning the
// new head of the statement list that follows stmt in source order.
func desugarStmt(testName string, stmt Stmt, continuation []Stmt) []Stmt {
	switch s := stmt.(type) {
	case *AssertStmt:
		ifExpr := &IfExpr{
			Cond: s.Expr,
			Then: &BundleExpr{Stmts: continuation, Expr: LitUnit{}},
			Else: &BundleExpr{Stmts: []Stmt{&TellNotOkStmt{TestName: testName}}, Expr: LitUnit{}},
		}
		return []Stmt{&ExprStmt{Expr: ifExpr}}

	case *AssertEqStmt:
		ifExpr := &IfExpr{
			Cond: &EqExpr{Left: s.Left, Right: s.Right},
			Then: &BundleExpr{Stmts: continuation, Expr: LitUnit{}},
			Else: &BundleExpr{Stmts: []Stmt{&TellNotOkStmt{TestName: testName}}, Expr: LitUnit{}},
		}
		return []Stmt{&ExprStmt{Expr: ifExpr}}

	case *CommandStmt:
		return prepend(s, continuation)

	case *LetStmt:
		return prepend(s, continuation)

	default:
		// TellOk/TellNotOk never appear in uniquify's output, and ExprStmt
		// appears only for an ast.ExprStmt, which the parser never builds;
		// any of them passes through unchanged.
		return prepend(stmt, continuation)
	}
}

func prepend(s Stmt, rest []Stmt) []Stmt {
	out := make([]Stmt, 0, len(rest)+1)
	out = append(out, s)
	out = append(out, rest...)
	return out
}
