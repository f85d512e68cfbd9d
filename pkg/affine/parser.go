package affine

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type transformList struct {
	Calls []*transformCall `parser:"( @@ \",\"? )*"`
}

type transformCall struct {
	Pos  lexer.Position
	Name string    `parser:"@Ident \"(\""`
	Args []float64 `parser:"( @Number ( \",\"? @Number )* )? \")\""`
}

var transformParser = participle.MustBuild[transformList](
	participle.Lexer(TransformLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseTransform parses an SVG transform attribute and composes its
// functions left to right into one matrix. An empty string is the identity.
func ParseTransform(s string) (Matrix, error) {
	list, err := transformParser.ParseString("", s)
	if err != nil {
		return Identity(), fmt.Errorf("parse transform %q: %w", s, err)
	}

	m := Identity()
	for _, call := range list.Calls {
		t, err := call.matrix()
		if err != nil {
			return Identity(), fmt.Errorf("parse transform %q: %w", s, err)
		}
		m = m.Multiply(t)
	}
	return m, nil
}

// MustParseTransform is like ParseTransform but panics on error.
func MustParseTransform(s string) Matrix {
	m, err := ParseTransform(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (c *transformCall) matrix() (Matrix, error) {
	a := c.Args
	switch c.Name {
	case "matrix":
		if len(a) != 6 {
			return Matrix{}, c.arity("6")
		}
		return NewMatrix(a[0], a[1], a[2], a[3], a[4], a[5]), nil

	case "translate":
		switch len(a) {
		case 1:
			return Translation(a[0], 0), nil
		case 2:
			return Translation(a[0], a[1]), nil
		}
		return Matrix{}, c.arity("1 or 2")

	case "scale":
		switch len(a) {
		case 1:
			return Scaling(a[0], a[0]), nil
		case 2:
			return Scaling(a[0], a[1]), nil
		}
		return Matrix{}, c.arity("1 or 2")

	case "rotate":
		switch len(a) {
		case 1:
			return Rotation(a[0]), nil
		case 3:
			return Identity().RotateAbout(a[0], a[1], a[2]), nil
		}
		return Matrix{}, c.arity("1 or 3")

	case "skewX":
		if len(a) != 1 {
			return Matrix{}, c.arity("1")
		}
		return SkewX(a[0]), nil

	case "skewY":
		if len(a) != 1 {
			return Matrix{}, c.arity("1")
		}
		return SkewY(a[0]), nil
	}

	return Matrix{}, fmt.Errorf("%s: unknown transform function %q", c.Pos, c.Name)
}

func (c *transformCall) arity(want string) error {
	return fmt.Errorf("%s: %s expects %s arguments, got %d", c.Pos, c.Name, want, len(c.Args))
}
