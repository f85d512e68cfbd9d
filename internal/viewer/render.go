package viewer

import (
	"math"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	giopaint "gioui.org/op/paint"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// kappa places the control points of a cubic quarter circle.
const kappa = 0.5522847498

type segmentOp byte

const (
	opMove segmentOp = iota
	opLine
	opQuad
	opCube
	opClose
)

type segment struct {
	op  segmentOp
	pts [3]f32.Point
}

// outline is a shape flattened to device space.
type outline struct {
	segs      []segment
	fillable  bool
	lineScale float32 // multiplies stroke widths
}

type outlineBuilder struct {
	m affine.Matrix
	o outline
}

func newOutlineBuilder(m affine.Matrix, fillable bool) *outlineBuilder {
	return &outlineBuilder{m: m, o: outline{
		fillable:  fillable,
		lineScale: float32(math.Sqrt(math.Abs(m.Determinant()))),
	}}
}

func (b *outlineBuilder) pt(x, y float64) f32.Point {
	tx, ty := b.m.Apply(x, y)
	return f32.Pt(float32(tx), float32(ty))
}

func (b *outlineBuilder) add(op segmentOp, pts ...svg.Point) {
	s := segment{op: op}
	for i, p := range pts {
		s.pts[i] = b.pt(p.X, p.Y)
	}
	b.o.segs = append(b.o.segs, s)
}

func (b *outlineBuilder) ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	b.add(opMove, svg.Point{X: cx + rx, Y: cy})
	b.add(opCube, svg.Point{X: cx + rx, Y: cy + ky}, svg.Point{X: cx + kx, Y: cy + ry}, svg.Point{X: cx, Y: cy + ry})
	b.add(opCube, svg.Point{X: cx - kx, Y: cy + ry}, svg.Point{X: cx - rx, Y: cy + ky}, svg.Point{X: cx - rx, Y: cy})
	b.add(opCube, svg.Point{X: cx - rx, Y: cy - ky}, svg.Point{X: cx - kx, Y: cy - ry}, svg.Point{X: cx, Y: cy - ry})
	b.add(opCube, svg.Point{X: cx + kx, Y: cy - ry}, svg.Point{X: cx + rx, Y: cy - ky}, svg.Point{X: cx + rx, Y: cy})
	b.add(opClose)
}

// outlineOf converts a shape element to device space through m. It reports
// false for elements that are not shapes or have nothing to draw.
func outlineOf(n *svg.Node, m affine.Matrix) (outline, bool) {
	b := newOutlineBuilder(m, n.Name != "line")

	switch n.Name {
	case "rect":
		x, y := n.Number("x"), n.Number("y")
		w, h := n.Number("width"), n.Number("height")
		if w <= 0 || h <= 0 {
			return outline{}, false
		}
		b.add(opMove, svg.Point{X: x, Y: y})
		b.add(opLine, svg.Point{X: x + w, Y: y})
		b.add(opLine, svg.Point{X: x + w, Y: y + h})
		b.add(opLine, svg.Point{X: x, Y: y + h})
		b.add(opClose)

	case "circle":
		r := n.Number("r")
		if r <= 0 {
			return outline{}, false
		}
		b.ellipse(n.Number("cx"), n.Number("cy"), r, r)

	case "ellipse":
		rx, ry := n.Number("rx"), n.Number("ry")
		if rx <= 0 || ry <= 0 {
			return outline{}, false
		}
		b.ellipse(n.Number("cx"), n.Number("cy"), rx, ry)

	case "line":
		b.add(opMove, svg.Point{X: n.Number("x1"), Y: n.Number("y1")})
		b.add(opLine, svg.Point{X: n.Number("x2"), Y: n.Number("y2")})

	case "polyline", "polygon":
		pts, err := n.Points()
		if err != nil || len(pts) < 2 {
			return outline{}, false
		}
		b.add(opMove, pts[0])
		for _, p := range pts[1:] {
			b.add(opLine, p)
		}
		if n.Name == "polygon" {
			b.add(opClose)
		}

	case "path":
		segs, err := svg.ParsePath(n.Attr("d"))
		if err != nil || len(segs) == 0 {
			return outline{}, false
		}
		for _, s := range segs {
			switch s.Cmd {
			case 'M':
				b.add(opMove, s.Pts[0])
			case 'L':
				b.add(opLine, s.Pts[0])
			case 'Q':
				b.add(opQuad, s.Pts[0], s.Pts[1])
			case 'C':
				b.add(opCube, s.Pts[0], s.Pts[1], s.Pts[2])
			case 'A':
				// arcs are drawn as chords
				end, _ := s.End()
				b.add(opLine, end)
			case 'Z':
				b.add(opClose)
			}
		}

	default:
		return outline{}, false
	}
	return b.o, true
}

func (o outline) path(ops *op.Ops) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	for _, s := range o.segs {
		switch s.op {
		case opMove:
			p.MoveTo(s.pts[0])
		case opLine:
			p.LineTo(s.pts[0])
		case opQuad:
			p.QuadTo(s.pts[0], s.pts[1])
		case opCube:
			p.CubeTo(s.pts[0], s.pts[1], s.pts[2])
		case opClose:
			p.Close()
		}
	}
	return p.End()
}

// drawDocument paints doc's shapes through its viewport matrix.
func drawDocument(ops *op.Ops, doc *svg.Document) {
	drawChildren(ops, doc.Root, doc.ViewportMatrix(), defaultStyle().inherit(doc.Root))
}

func drawChildren(ops *op.Ops, n *svg.Node, m affine.Matrix, st style) {
	for _, c := range n.Children {
		drawNode(ops, c, m, st)
	}
}

func drawNode(ops *op.Ops, n *svg.Node, parent affine.Matrix, st style) {
	if n.NonRendering() || property(n, "display") == "none" {
		return
	}
	t, err := n.Transform()
	if err != nil {
		return
	}
	m := parent.Multiply(t)
	st = st.inherit(n)

	switch n.Name {
	case "svg", "g", "a", "switch":
		drawChildren(ops, n, m, st)
		return
	}

	o, ok := outlineOf(n, m)
	if !ok {
		return
	}
	if c, ok := st.fillColor(); ok && o.fillable {
		giopaint.FillShape(ops, c, clip.Outline{Path: o.path(ops)}.Op())
	}
	if c, ok := st.strokeColor(); ok {
		w := float32(st.strokeWidth) * o.lineScale
		giopaint.FillShape(ops, c, clip.Stroke{Path: o.path(ops), Width: w}.Op())
	}
}
