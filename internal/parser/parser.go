// Package parser lowers the grammar package's participle-built parse tree
// into internal/ast's closed-sum Program, the shape the compiler core
// consumes.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"mctestc/grammar"
	"mctestc/internal/ast"
	"mctestc/internal/errors"
)

func ParseFile(path string) (*ast.Program, []errors.CompilerError) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, []errors.CompilerError{errors.InternalInvariant("parser", fmt.Sprintf("failed to read %s: %v", path, err))}
	}
	return ParseString(path, string(source))
}

func ParseString(filename, source string) (*ast.Program, []errors.CompilerError) {
	tree, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, []errors.CompilerError{errors.NewError(errors.ErrorSurfaceSyntax, err.Error(), ast.Position{}).Build()}
	}
	return convertProgram(tree), nil
}

func convertProgram(p *grammar.Program) *ast.Program {
	out := &ast.Program{}
	for _, t := range p.Tests {
		out.Tests = append(out.Tests, convertTest(t))
	}
	return out
}

func convertTest(t *grammar.Test) *ast.Test {
	out := &ast.Test{Name: t.Name, NamePos: convertPos(t.Pos)}
	for _, s := range t.Stmts {
		out.Stmts = append(out.Stmts, convertStmt(s))
	}
	return out
}

func convertStmt(s *grammar.Stmt) ast.Statement {
	switch {
	case s.Assert != nil:
		return &ast.AssertStmt{Expr: convertExpr(s.Assert.Expr), StmtPos: convertPos(s.Assert.Pos)}
	case s.AssertEq != nil:
		return &ast.AssertEqStmt{
			Left:    convertExpr(s.AssertEq.Left),
			Right:   convertExpr(s.AssertEq.Right),
			StmtPos: convertPos(s.AssertEq.Pos),
		}
	case s.Let != nil:
		return &ast.LetStmt{Name: s.Let.Name, Expr: convertExpr(s.Let.Expr), StmtPos: convertPos(s.Let.Pos)}
	case s.Command != nil:
		return &ast.CommandStmt{Text: unescapeString(s.Command.Text), StmtPos: convertPos(s.Command.Pos)}
	default:
		panic("parser: statement alternation matched nothing")
	}
}

func convertExpr(e *grammar.Expr) ast.Expr {
	switch {
	case e.Bool != nil:
		return &ast.LitBool{Value: e.Bool.Value == "true", ExprPos: convertPos(e.Bool.Pos)}
	case e.Int != nil:
		n, _ := strconv.ParseInt(e.Int.Value, 10, 64)
		return &ast.LitInt{Value: n, ExprPos: convertPos(e.Int.Pos)}
	case e.Binary != nil:
		return &ast.BinaryExpr{
			Op:      convertOp(e.Binary.Op),
			Left:    convertExpr(e.Binary.Left),
			Right:   convertExpr(e.Binary.Right),
			ExprPos: convertPos(e.Binary.Pos),
		}
	case e.Eq != nil:
		return &ast.EqExpr{Left: convertExpr(e.Eq.Left), Right: convertExpr(e.Eq.Right), ExprPos: convertPos(e.Eq.Pos)}
	case e.If != nil:
		return &ast.IfExpr{
			Cond:    convertExpr(e.If.Cond),
			Then:    convertExpr(e.If.Then),
			Else:    convertExpr(e.If.Else),
			ExprPos: convertPos(e.If.Pos),
		}
	case e.Ident != nil:
		return &ast.Ident{Name: e.Ident.Name, ExprPos: convertPos(e.Ident.Pos)}
	default:
		panic("parser: expression alternation matched nothing")
	}
}

func convertOp(op string) ast.BinaryOp {
	switch op {
	case "+":
		return ast.Add
	case "-":
		return ast.Sub
	case "*":
		return ast.Mul
	case "/":
		return ast.Div
	default:
		panic("parser: unknown binary operator " + op)
	}
}

func convertPos(p lexer.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// unescapeString strips the surrounding quotes captured verbatim by the
// String token and undoes the two escape sequences the lexer recognizes.
func unescapeString(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			out.WriteByte(s[i])
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
