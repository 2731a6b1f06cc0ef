package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// MCMLLexer tokenizes the s-expression surface syntax. Keywords (test,
// assert, asserteq, let, eq, if, true, false) are not distinct token types —
// they ride the Ident rule and are matched by literal text in the grammar
// tags, so the lexer stays small and the grammar stays the single source
// of truth for what counts as a keyword.
var MCMLLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Int", `-?[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Operator", `[+\-*/]`, nil},
		{"Punctuation", `[()]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
