package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

// Point is a position in some user space.
type Point struct {
	X, Y float64
}

// BBox is an axis aligned rectangle.
type BBox struct {
	Min Point // top-left
	Max Point // bottom-right
}

// EmptyBBox returns a box that contains nothing. Expanding it by a point
// yields a zero-size box at that point.
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Rect builds a box from an origin and a size.
func Rect(x, y, w, h float64) BBox {
	b := EmptyBBox()
	b.Expand(Point{x, y})
	b.Expand(Point{x + w, y + h})
	return b
}

// IsEmpty reports whether the box contains no point.
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Expand grows the box to include p.
func (b *BBox) Expand(p Point) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	if other.IsEmpty() {
		return b
	}
	b.Expand(other.Min)
	b.Expand(other.Max)
	return b
}

// Transform returns the bounding box of b's four corners mapped through m.
func (b BBox) Transform(m affine.Matrix) BBox {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBBox()
	for _, p := range []Point{b.Min, {b.Max.X, b.Min.Y}, b.Max, {b.Min.X, b.Max.Y}} {
		x, y := m.Apply(p.X, p.Y)
		out.Expand(Point{x, y})
	}
	return out
}

// Contains reports whether p lies inside or on the edge of b.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether the two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// Width returns the horizontal extent, 0 for an empty box.
func (b BBox) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent, 0 for an empty box.
func (b BBox) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	if b.IsEmpty() {
		return Point{}
	}
	return Point{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
	}
}

func (b BBox) String() string {
	if b.IsEmpty() {
		return "BBox(empty)"
	}
	return fmt.Sprintf("BBox(%g,%g %gx%g)", b.Min.X, b.Min.Y, b.Width(), b.Height())
}

// elements that never render by themselves
var nonRendering = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "marker": true,
	"pattern": true, "symbol": true, "linearGradient": true,
	"radialGradient": true, "filter": true, "title": true, "desc": true,
	"metadata": true, "style": true, "script": true,
}

// NonRendering reports whether n is a definition or metadata element that
// is never drawn directly.
func (n *Node) NonRendering() bool { return nonRendering[n.Name] }

// BBox returns the bounding box of n in its own user space: n's transform is
// not applied, the transforms of its descendants are. Unsupported elements
// contribute nothing.
func (n *Node) BBox() (BBox, error) {
	if n.NonRendering() {
		return EmptyBBox(), nil
	}

	switch n.Name {
	case "g", "svg", "a", "switch":
		box := EmptyBBox()
		for _, c := range n.Children {
			cb, err := c.BBox()
			if err != nil {
				return EmptyBBox(), err
			}
			if cb.IsEmpty() {
				continue
			}
			t, err := c.Transform()
			if err != nil {
				return EmptyBBox(), err
			}
			box = box.Union(cb.Transform(t))
		}
		return box, nil

	case "rect", "image", "foreignObject":
		x, y := n.Number("x"), n.Number("y")
		w, h := n.Number("width"), n.Number("height")
		if w <= 0 || h <= 0 {
			return EmptyBBox(), nil
		}
		return Rect(x, y, w, h), nil

	case "circle":
		r := n.Number("r")
		if r <= 0 {
			return EmptyBBox(), nil
		}
		cx, cy := n.Number("cx"), n.Number("cy")
		return Rect(cx-r, cy-r, 2*r, 2*r), nil

	case "ellipse":
		rx, ry := n.Number("rx"), n.Number("ry")
		if rx <= 0 || ry <= 0 {
			return EmptyBBox(), nil
		}
		cx, cy := n.Number("cx"), n.Number("cy")
		return Rect(cx-rx, cy-ry, 2*rx, 2*ry), nil

	case "line":
		box := EmptyBBox()
		box.Expand(Point{n.Number("x1"), n.Number("y1")})
		box.Expand(Point{n.Number("x2"), n.Number("y2")})
		return box, nil

	case "polyline", "polygon":
		pts, err := n.Points()
		if err != nil {
			return EmptyBBox(), err
		}
		box := EmptyBBox()
		for _, p := range pts {
			box.Expand(p)
		}
		return box, nil

	case "path":
		segs, err := ParsePath(n.Attr("d"))
		if err != nil {
			return EmptyBBox(), fmt.Errorf("<path id=%q>: %w", n.ID(), err)
		}
		return PathBBox(segs), nil
	}

	return EmptyBBox(), nil
}

// Number reads a numeric attribute; lengths with units are converted to
// pixels and anything unparsable is 0.
func (n *Node) Number(name string) float64 {
	v, _ := parseLength(n.Attr(name))
	return v
}

// Points reads the points attribute of a polyline or polygon. A trailing odd
// coordinate is dropped.
func (n *Node) Points() ([]Point, error) {
	nums, err := parseNumbers(n.Attr("points"))
	if err != nil {
		return nil, fmt.Errorf("<%s> points: %w", n.Name, err)
	}
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{nums[i], nums[i+1]})
	}
	return pts, nil
}

// parseNumbers splits a comma and/or whitespace separated list of numbers.
func parseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		nums = append(nums, v)
	}
	return nums, nil
}
