package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mctestc/internal/ast"
)

func TestParseStringLiteralTrue(t *testing.T) {
	prog, errs := ParseString("t.mcml", `(test "literal true" (assert true))`)
	require.Empty(t, errs)
	require.Len(t, prog.Tests, 1)

	stmt := prog.Tests[0].Stmts[0].(*ast.AssertStmt)
	lit := stmt.Expr.(*ast.LitBool)
	assert.True(t, lit.Value)
}

func TestParseArithExpression(t *testing.T) {
	prog, errs := ParseString("t.mcml", `(test "arith" (asserteq (+ 1 (* 2 3)) 7))`)
	require.Empty(t, errs)

	stmt := prog.Tests[0].Stmts[0].(*ast.AssertEqStmt)
	left := stmt.Left.(*ast.BinaryExpr)
	assert.Equal(t, ast.Add, left.Op)
	assert.Equal(t, int64(1), left.Left.(*ast.LitInt).Value)

	right := left.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.Mul, right.Op)

	assert.Equal(t, int64(7), stmt.Right.(*ast.LitInt).Value)
}

func TestParseCommandUnescapesText(t *testing.T) {
	prog, errs := ParseString("t.mcml", `(test "cmd" (/ "say \"hi\""))`)
	require.Empty(t, errs)

	stmt := prog.Tests[0].Stmts[0].(*ast.CommandStmt)
	assert.Equal(t, `say "hi"`, stmt.Text)
}

func TestParseLetBindsName(t *testing.T) {
	prog, errs := ParseString("t.mcml", `(test "let" (let (x 5)) (asserteq x 5))`)
	require.Empty(t, errs)

	let := prog.Tests[0].Stmts[0].(*ast.LetStmt)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, int64(5), let.Expr.(*ast.LitInt).Value)

	eqStmt := prog.Tests[0].Stmts[1].(*ast.AssertEqStmt)
	assert.Equal(t, "x", eqStmt.Left.(*ast.Ident).Name)
}

func TestParseSyntaxErrorReported(t *testing.T) {
	_, errs := ParseString("t.mcml", `(test "bad" `)
	require.NotEmpty(t, errs)
	assert.Equal(t, "E0100", errs[0].Code)
}
