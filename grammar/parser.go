package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

var mcmlParser = participle.MustBuild[Program](
	participle.Lexer(MCMLLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(3),
)

// ParseString parses MCML source text, using filename only to annotate
// positions in the resulting tree (and in any returned error).
func ParseString(filename, source string) (*Program, error) {
	program, err := mcmlParser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return program, nil
}
