package affine

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TransformLexer tokenizes SVG transform lists such as
// "translate(10,20) rotate(45 5 5) matrix(1 0 0 1 0 0)".
var TransformLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Numbers come first so "1e5" is not split into a number and an ident.
	// SVG allows signs to act as separators: "10-5" is 10 then -5.
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},

	{Name: "Ident", Pattern: `[a-zA-Z]+`},

	{Name: "Punct", Pattern: `[(),]`},

	{Name: "Whitespace", Pattern: `\s+`},
})
