package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// PathLexer tokenizes SVG path data. Arc flags must be separated from the
// following number.
var PathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Command", Pattern: `[MmLlHhVvCcSsQqTtAaZz]`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Sep", Pattern: `[\s,]+`},
})

// Segment is one absolute path command. Pts holds control points followed
// by the end point; Z has none.
type Segment struct {
	Cmd byte // one of M L C Q A Z
	Pts []Point
}

// End returns the segment's final point.
func (s Segment) End() (Point, bool) {
	if len(s.Pts) == 0 {
		return Point{}, false
	}
	return s.Pts[len(s.Pts)-1], true
}

var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// ParsePath parses path data into absolute segments. H and V become L,
// S and T are expanded to C and Q with their reflected control points.
func ParsePath(d string) ([]Segment, error) {
	lex, err := PathLexer.Lex("", strings.NewReader(d))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}

	symbols := PathLexer.Symbols()
	cmdType, numType := symbols["Command"], symbols["Number"]

	p := pathBuilder{}
	var cmd byte
	var args []float64

	flush := func() error {
		if cmd == 0 {
			return nil
		}
		return p.emit(cmd, args)
	}

	for _, tok := range tokens {
		switch {
		case tok.EOF():
		case tok.Type == cmdType:
			if err := flush(); err != nil {
				return nil, err
			}
			cmd = tok.Value[0]
			args = args[:0]
		case tok.Type == numType:
			if cmd == 0 {
				return nil, fmt.Errorf("path: %s: number %q before any command", tok.Pos, tok.Value)
			}
			v, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("path: %s: %w", tok.Pos, err)
			}
			args = append(args, v)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return p.segs, nil
}

type pathBuilder struct {
	segs    []Segment
	cur     Point
	start   Point
	lastCtl Point
	lastCmd byte
}

func (p *pathBuilder) emit(cmd byte, args []float64) error {
	upper := cmd &^ 0x20
	n, ok := pathArity[upper]
	if !ok {
		return fmt.Errorf("path: unknown command %q", cmd)
	}
	if n == 0 {
		if len(args) != 0 {
			return fmt.Errorf("path: %c takes no arguments", cmd)
		}
		p.add('Z')
		p.cur = p.start
		return nil
	}
	if len(args) == 0 || len(args)%n != 0 {
		return fmt.Errorf("path: %c expects a multiple of %d numbers, got %d", cmd, n, len(args))
	}

	rel := cmd != upper
	for i := 0; i < len(args); i += n {
		a := args[i : i+n]
		c := upper
		// repeated coordinates after a moveto are implicit linetos
		if upper == 'M' && i > 0 {
			c = 'L'
		}
		p.step(c, rel, a)
	}
	return nil
}

func (p *pathBuilder) abs(rel bool, x, y float64) Point {
	if rel {
		return Point{p.cur.X + x, p.cur.Y + y}
	}
	return Point{x, y}
}

func (p *pathBuilder) reflect(prev ...byte) Point {
	for _, c := range prev {
		if p.lastCmd == c {
			return Point{2*p.cur.X - p.lastCtl.X, 2*p.cur.Y - p.lastCtl.Y}
		}
	}
	return p.cur
}

func (p *pathBuilder) step(c byte, rel bool, a []float64) {
	switch c {
	case 'M':
		pt := p.abs(rel, a[0], a[1])
		p.add('M', pt)
		p.start = pt
	case 'L':
		p.add('L', p.abs(rel, a[0], a[1]))
	case 'H':
		x := a[0]
		if rel {
			x += p.cur.X
		}
		p.add('L', Point{x, p.cur.Y})
	case 'V':
		y := a[0]
		if rel {
			y += p.cur.Y
		}
		p.add('L', Point{p.cur.X, y})
	case 'C':
		p.add('C', p.abs(rel, a[0], a[1]), p.abs(rel, a[2], a[3]), p.abs(rel, a[4], a[5]))
	case 'S':
		p.add('C', p.reflect('C'), p.abs(rel, a[0], a[1]), p.abs(rel, a[2], a[3]))
	case 'Q':
		p.add('Q', p.abs(rel, a[0], a[1]), p.abs(rel, a[2], a[3]))
	case 'T':
		p.add('Q', p.reflect('Q'), p.abs(rel, a[0], a[1]))
	case 'A':
		// rx ry rotation large-arc sweep x y
		p.add('A', Point{a[0], a[1]}, Point{a[2], a[3]}, Point{a[4], 0}, p.abs(rel, a[5], a[6]))
	}
}

func (p *pathBuilder) add(cmd byte, pts ...Point) {
	p.segs = append(p.segs, Segment{Cmd: cmd, Pts: pts})
	if len(pts) > 0 {
		p.cur = pts[len(pts)-1]
	}
	if len(pts) >= 2 && (cmd == 'C' || cmd == 'Q') {
		p.lastCtl = pts[len(pts)-2]
	}
	p.lastCmd = cmd
}

// bezier curves are sampled rather than solved for their extrema
const curveSamples = 16

// PathBBox returns the bounds of the segments. Curves are sampled; arcs
// contribute their end points only.
func PathBBox(segs []Segment) BBox {
	box := EmptyBBox()
	var cur Point
	var start Point
	for _, s := range segs {
		switch s.Cmd {
		case 'M':
			cur = s.Pts[0]
			start = cur
			box.Expand(cur)
		case 'L':
			cur = s.Pts[0]
			box.Expand(cur)
		case 'C':
			p0, p1, p2, p3 := cur, s.Pts[0], s.Pts[1], s.Pts[2]
			for i := 1; i <= curveSamples; i++ {
				box.Expand(cubicAt(p0, p1, p2, p3, float64(i)/curveSamples))
			}
			cur = p3
		case 'Q':
			p0, p1, p2 := cur, s.Pts[0], s.Pts[1]
			for i := 1; i <= curveSamples; i++ {
				box.Expand(quadAt(p0, p1, p2, float64(i)/curveSamples))
			}
			cur = p2
		case 'A':
			cur = s.Pts[len(s.Pts)-1]
			box.Expand(cur)
		case 'Z':
			cur = start
		}
	}
	return box
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	a, b, c := u*u, 2*u*t, t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y,
	}
}
