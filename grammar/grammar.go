// Package grammar defines the participle struct-tagged surface grammar for
// MCML's s-expression syntax and builds the parser that turns source text
// into this tree. internal/parser lowers this tree into internal/ast.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

type Program struct {
	Pos   lexer.Position
	Tests []*Test `@@*`
}

type Test struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string  `"(" "test" @String`
	Stmts  []*Stmt `@@* ")"`
}

// Stmt is one of Assert, AssertEq, Let, Command. Each alternative opens
// with a distinct keyword (or, for Command, the "/" operator), so a few
// tokens of lookahead is enough to pick the right one.
type Stmt struct {
	Pos      lexer.Position
	Assert   *AssertStmt   `  @@`
	AssertEq *AssertEqStmt `| @@`
	Let      *LetStmt      `| @@`
	Command  *CommandStmt  `| @@`
}

type AssertStmt struct {
	Pos  lexer.Position
	Expr *Expr `"(" "assert" @@ ")"`
}

type AssertEqStmt struct {
	Pos   lexer.Position
	Left  *Expr `"(" "asserteq" @@`
	Right *Expr `@@ ")"`
}

type LetStmt struct {
	Pos  lexer.Position
	Name string `"(" "let" "(" @Ident`
	Expr *Expr  `@@ ")" ")"`
}

type CommandStmt struct {
	Pos  lexer.Position
	Text string `"(" "/" @String ")"`
}

// Expr is one of BoolLit, IntLit, IdentExpr, BinaryExpr, EqExpr, IfExpr.
type Expr struct {
	Pos    lexer.Position
	Bool   *BoolLit   `  @@`
	Int    *IntLit    `| @@`
	Binary *BinaryExpr `| @@`
	Eq     *EqExpr    `| @@`
	If     *IfExpr    `| @@`
	Ident  *IdentExpr `| @@`
}

type BoolLit struct {
	Pos   lexer.Position
	Value string `@("true" | "false")`
}

type IntLit struct {
	Pos   lexer.Position
	Value string `@Int`
}

type IdentExpr struct {
	Pos  lexer.Position
	Name string `@Ident`
}

type BinaryExpr struct {
	Pos   lexer.Position
	Op    string `"(" @("+" | "-" | "*" | "/")`
	Left  *Expr  `@@`
	Right *Expr  `@@ ")"`
}

type EqExpr struct {
	Pos   lexer.Position
	Left  *Expr `"(" "eq" @@`
	Right *Expr `@@ ")"`
}

type IfExpr struct {
	Pos  lexer.Position
	Cond *Expr `"(" "if" @@`
	Then *Expr `@@`
	Else *Expr `@@ ")"`
}
