// Package freetransform attaches rotate, scale and translate handles to a
// single SVG element.
//
// The handles live in an overlay group appended to the element's parent, so
// they share its coordinate system. The element transform is always
// rebuilt as
//
//	translate(tx,ty) · initial · rotate(angle) · scale(scale)
//
// where initial is the element's transform when the handles were attached
// and rotation and scale pivot on the centre of the element's own bounding
// box.
package freetransform

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// OverlayClass marks the overlay group holding the handles.
const OverlayClass = "ft-handles"

var (
	// ErrDetached is returned by operations on detached handles.
	ErrDetached = errors.New("freetransform: handles detached")
	// ErrNoParent is returned by Attach for an element without a parent.
	ErrNoParent = errors.New("freetransform: element has no parent")
	// ErrEmptyBBox is returned by Attach for an element without geometry.
	ErrEmptyBBox = errors.New("freetransform: element has an empty bounding box")
	// ErrZeroScale is returned when the rotate handle is dragged onto the
	// centre; the move is ignored.
	ErrZeroScale = errors.New("freetransform: rotate handle on the centre")
)

// Handle identifies one of the draggable handles.
type Handle int

// Handles of the overlay.
const (
	NoHandle Handle = iota
	TranslateHandle
	RotateHandle
)

func (h Handle) String() string {
	switch h {
	case TranslateHandle:
		return "translate"
	case RotateHandle:
		return "rotate"
	}
	return "none"
}

// Handles is the free transform state of one element.
type Handles struct {
	el   *svg.Node
	opts options

	overlay    *svg.Node
	joinLine   *svg.Node
	rotater    *svg.Node
	translater *svg.Node
	bboxRect   *svg.Node

	initial  affine.Matrix
	localBox svg.BBox

	angle, scale float64
	tx, ty       float64
	scaleFactor  float64 // centre to rotate handle distance at attach

	// drag start snapshot
	otx, oty    float64
	startRotate svg.Point
	startCentre svg.Point
	dragging    Handle
	detached    bool
}

// Attach reads the element's transform and bounding box and creates the
// overlay.
func Attach(el *svg.Node, opts ...Option) (*Handles, error) {
	if el == nil || el.Parent == nil {
		return nil, ErrNoParent
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	initial, err := el.Transform()
	if err != nil {
		return nil, err
	}
	box, err := el.BBox()
	if err != nil {
		return nil, err
	}
	if box.IsEmpty() {
		return nil, ErrEmptyBBox
	}

	h := &Handles{
		el:       el,
		opts:     o,
		initial:  initial,
		localBox: box,
		scale:    1,
	}

	bb := box.Transform(initial)
	c := bb.Center()
	r := svg.Point{X: c.X + bb.Width() + o.handleLength, Y: c.Y}
	h.scaleFactor = math.Hypot(r.X-c.X, r.Y-c.Y)

	h.translater = h.circle(c)
	h.rotater = h.circle(r)
	h.joinLine = svg.NewNode("line",
		svg.Attr{Name: "stroke", Value: o.fill},
		svg.Attr{Name: "stroke-width", Value: num(o.strokeWidth)},
		svg.Attr{Name: "stroke-dasharray", Value: o.dash},
	)
	h.bboxRect = svg.NewNode("rect",
		svg.Attr{Name: "fill", Value: "none"},
		svg.Attr{Name: "stroke", Value: o.fill},
		svg.Attr{Name: "stroke-dasharray", Value: o.dash},
	)

	h.overlay = svg.NewNode("g", svg.Attr{Name: "class", Value: OverlayClass})
	for _, n := range []*svg.Node{h.bboxRect, h.joinLine, h.rotater, h.translater} {
		h.overlay.AppendChild(n)
	}
	el.Parent.AppendChild(h.overlay)

	h.drawJoinLine()
	h.highlight()
	return h, nil
}

func (h *Handles) circle(p svg.Point) *svg.Node {
	n := svg.NewNode("circle", svg.Attr{Name: "r", Value: num(h.opts.handleRadius)},
		svg.Attr{Name: "fill", Value: h.opts.fill})
	setCentre(n, p)
	return n
}

// Element returns the transformed element.
func (h *Handles) Element() *svg.Node { return h.el }

// Overlay returns the group holding the handles.
func (h *Handles) Overlay() *svg.Node { return h.overlay }

// Angle returns the rotation in degrees.
func (h *Handles) Angle() float64 { return h.angle }

// Scale returns the uniform scale.
func (h *Handles) Scale() float64 { return h.scale }

// Translation returns the translation applied on top of the initial matrix.
func (h *Handles) Translation() (tx, ty float64) { return h.tx, h.ty }

// Matrix returns the element transform built from the current state.
func (h *Handles) Matrix() affine.Matrix {
	c := h.localBox.Center()
	return affine.Translation(h.tx, h.ty).
		Multiply(h.initial).
		RotateAbout(h.angle, c.X, c.Y).
		ScaleAboutPoint(h.scale, c.X, c.Y)
}

// HandleAt reports which handle n is, if any.
func (h *Handles) HandleAt(n *svg.Node) Handle {
	switch {
	case h.detached || n == nil:
		return NoHandle
	case n == h.translater:
		return TranslateHandle
	case n == h.rotater:
		return RotateHandle
	}
	return NoHandle
}

// HandlePosition returns the centre of a handle in the parent's space.
func (h *Handles) HandlePosition(which Handle) svg.Point {
	switch which {
	case TranslateHandle:
		return centre(h.translater)
	case RotateHandle:
		return centre(h.rotater)
	}
	return svg.Point{}
}

// TranslateStart begins a drag of the translate handle.
func (h *Handles) TranslateStart() error {
	if h.detached {
		return ErrDetached
	}
	h.otx, h.oty = h.tx, h.ty
	h.startCentre = centre(h.translater)
	h.startRotate = centre(h.rotater)
	h.dragging = TranslateHandle
	return nil
}

// TranslateMove moves the element by the pointer delta since
// TranslateStart. Both handles follow.
func (h *Handles) TranslateMove(dx, dy float64) error {
	if h.detached {
		return ErrDetached
	}
	if h.dragging != TranslateHandle {
		return nil
	}
	ix, iy, err := h.toParent(dx, dy)
	if err != nil {
		return err
	}

	setCentre(h.translater, svg.Point{X: h.startCentre.X + ix, Y: h.startCentre.Y + iy})
	setCentre(h.rotater, svg.Point{X: h.startRotate.X + ix, Y: h.startRotate.Y + iy})
	h.tx = h.otx + ix
	h.ty = h.oty + iy
	h.update()
	return nil
}

// TranslateEnd finishes the translate drag.
func (h *Handles) TranslateEnd() error {
	if h.detached {
		return ErrDetached
	}
	h.dragging = NoHandle
	return nil
}

// RotateStart begins a drag of the rotate handle.
func (h *Handles) RotateStart() error {
	if h.detached {
		return ErrDetached
	}
	h.startRotate = centre(h.rotater)
	h.dragging = RotateHandle
	return nil
}

// RotateMove moves the rotate handle by the pointer delta since
// RotateStart. The angle follows the handle around the element centre and
// the scale is the handle distance relative to the distance at Attach.
func (h *Handles) RotateMove(dx, dy float64) error {
	if h.detached {
		return ErrDetached
	}
	if h.dragging != RotateHandle {
		return nil
	}
	ix, iy, err := h.toParent(dx, dy)
	if err != nil {
		return err
	}

	p := svg.Point{X: h.startRotate.X + ix, Y: h.startRotate.Y + iy}
	lc := h.localBox.Center()
	cx, cy := h.Matrix().Apply(lc.X, lc.Y)

	dist := math.Hypot(p.X-cx, p.Y-cy)
	if dist == 0 {
		return ErrZeroScale
	}

	setCentre(h.rotater, p)
	h.angle = angle(cx, cy, p.X, p.Y) - 180
	h.scale = dist / h.scaleFactor
	h.update()
	return nil
}

// RotateEnd finishes the rotate drag.
func (h *Handles) RotateEnd() error {
	if h.detached {
		return ErrDetached
	}
	h.dragging = NoHandle
	return nil
}

// Detach removes the overlay. The element keeps its transform.
func (h *Handles) Detach() error {
	if h.detached {
		return ErrDetached
	}
	h.overlay.Remove()
	h.detached = true
	h.dragging = NoHandle
	return nil
}

// toParent maps a pointer delta into the parent space through the inverse
// of the frame with its translation dropped.
func (h *Handles) toParent(dx, dy float64) (float64, float64, error) {
	inv, err := h.opts.frame().Linear().Invert()
	if err != nil {
		return 0, 0, fmt.Errorf("freetransform: %w", err)
	}
	x, y := inv.ApplyVector(dx, dy)
	return x, y, nil
}

func (h *Handles) update() {
	h.el.SetTransform(h.Matrix())
	h.drawJoinLine()
	h.highlight()
}

func (h *Handles) drawJoinLine() {
	a, b := centre(h.translater), centre(h.rotater)
	h.joinLine.SetAttr("x1", num(a.X)).SetAttr("y1", num(a.Y)).
		SetAttr("x2", num(b.X)).SetAttr("y2", num(b.Y))
}

func (h *Handles) highlight() {
	bb := h.localBox.Transform(h.Matrix())
	h.bboxRect.SetAttr("x", num(bb.Min.X)).SetAttr("y", num(bb.Min.Y)).
		SetAttr("width", num(bb.Width())).SetAttr("height", num(bb.Height()))
}

// angle is the direction from (x2,y2) to (x1,y1) in degrees, in [0,360).
func angle(x1, y1, x2, y2 float64) float64 {
	x, y := x1-x2, y1-y2
	if x == 0 && y == 0 {
		return 0
	}
	return math.Mod(180+math.Atan2(-y, -x)*180/math.Pi+360, 360)
}

func setCentre(n *svg.Node, p svg.Point) {
	n.SetAttr("cx", num(p.X)).SetAttr("cy", num(p.Y))
}

func centre(n *svg.Node) svg.Point {
	x, _ := strconv.ParseFloat(n.Attr("cx"), 64)
	y, _ := strconv.ParseFloat(n.Attr("cy"), 64)
	return svg.Point{X: x, Y: y}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
