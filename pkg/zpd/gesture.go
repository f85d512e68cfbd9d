package zpd

import (
	"fmt"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// DragStart begins a drag gesture. When element drag is enabled and target
// is inside the content group, the target is moved; otherwise the whole
// content pans if panning is enabled. It reports whether a gesture started.
//
// Any running animation is canceled.
func (c *Controller) DragStart(target *svg.Node) (bool, error) {
	if c.destroyed {
		return false, ErrDestroyed
	}
	if !c.enabled {
		return false, nil
	}

	paper := c.doc.ViewportMatrix()
	elementDrag := c.settings.Drag && target != nil && target != c.group && c.group.Contains(target)

	switch {
	case elementDrag:
		if err := c.interrupt(); err != nil {
			return false, err
		}
		anchor, err := c.elementAnchor(target, paper)
		if err != nil {
			c.state.anchor = nil
			return false, err
		}
		c.state.anchor = anchor
	case c.settings.Pan:
		if err := c.interrupt(); err != nil {
			return false, err
		}
		c.state.anchor = &dragAnchor{mode: dragPan, matrix: c.state.Matrix, paper: paper}
	default:
		return false, nil
	}
	return true, nil
}

func (c *Controller) elementAnchor(target *svg.Node, paper affine.Matrix) (*dragAnchor, error) {
	m, err := target.Transform()
	if err != nil {
		return nil, err
	}
	toPaper, err := target.Parent.MatrixTo(nil)
	if err != nil {
		return nil, err
	}
	inv, err := toPaper.Linear().Invert()
	if err != nil {
		return nil, fmt.Errorf("zpd: drag %s: %w", target.Name, err)
	}
	return &dragAnchor{
		mode:      dragElement,
		matrix:    m,
		paper:     paper,
		target:    target,
		parentInv: inv,
	}, nil
}

// DragMove applies the pointer movement (dx, dy), in screen pixels, measured
// from the drag start. Moves are not accumulated: the result depends only on
// the latest (dx, dy), so dropped frames do not cause drift.
func (c *Controller) DragMove(dx, dy float64) (bool, error) {
	if c.destroyed {
		return false, ErrDestroyed
	}
	a := c.state.anchor
	if a == nil || !c.enabled {
		return false, nil
	}

	if a.paper.A == 0 || a.paper.D == 0 {
		c.state.anchor = nil
		return false, &affine.NumericError{Op: "drag", Determinant: a.paper.Determinant()}
	}
	px, py := dx/a.paper.A, dy/a.paper.D

	switch a.mode {
	case dragPan:
		m := a.matrix.Offset(px, py)
		if !m.IsFinite() {
			c.state.anchor = nil
			return false, &affine.NumericError{Op: "pan", Determinant: m.Determinant()}
		}
		c.setMatrix(m)

	case dragElement:
		lx, ly := a.parentInv.ApplyVector(px, py)
		m := a.matrix.Offset(lx, ly)
		if !m.IsFinite() {
			c.state.anchor = nil
			return false, &affine.NumericError{Op: "drag", Determinant: m.Determinant()}
		}
		a.target.SetTransform(m)
	}
	return true, nil
}

// DragEnd finishes the gesture; the transform reached so far is kept.
func (c *Controller) DragEnd() error {
	if c.destroyed {
		return ErrDestroyed
	}
	c.state.anchor = nil
	return nil
}

// Rotate turns the content about the centre of its bounding box.
func (c *Controller) Rotate(degrees float64) error {
	if c.destroyed {
		return ErrDestroyed
	}
	cx, cy, err := c.contentCenter()
	if err != nil {
		return err
	}
	if err := c.interrupt(); err != nil {
		return err
	}
	if a := c.state.anchor; a != nil && a.mode == dragPan {
		a.matrix = a.matrix.RotateAbout(degrees, cx, cy)
	}
	c.setMatrix(c.state.Matrix.RotateAbout(degrees, cx, cy))
	return nil
}
