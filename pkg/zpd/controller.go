package zpd

import (
	"fmt"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// ContentClass is the class of the group wrapping the document content.
const ContentClass = "svg-zpd"

// Controller owns the content group of one document and its transform.
type Controller struct {
	doc      *svg.Document
	group    *svg.Node
	settings settings
	state    *State
	anim     *animation

	enabled   bool
	destroyed bool
}

// Init wraps the content of doc and returns a controller for it. If the
// document already holds a content group (e.g. one written by Save and
// reloaded) it is reused and its transform seeds the matrix.
func Init(doc *svg.Document, opts ...Option) (*Controller, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNoContent
	}

	c := &Controller{doc: doc, settings: settings{Options: DefaultOptions()}}
	if err := c.settings.apply(opts); err != nil {
		return nil, err
	}
	load := c.settings.load
	c.settings.load = nil
	if err := c.attach(load); err != nil {
		return nil, err
	}
	return c, nil
}

// attach wraps the content and creates a fresh state.
func (c *Controller) attach(load *affine.Matrix) error {
	group, created := svg.WrapChildren(c.doc.Root, ContentClass)

	m := affine.Identity()
	if !created {
		t, err := group.Transform()
		if err != nil {
			return fmt.Errorf("zpd: existing content group: %w", err)
		}
		m = t
	}
	if load != nil {
		m = *load
	}

	c.group = group
	c.state = newState(m)
	c.enabled = true
	c.destroyed = false
	group.SetTransform(m)

	Logger().Info("zpd: initialized", "reused", !created, "matrix", m.String())
	return nil
}

// Init re-initializes the controller. On a live controller the options are
// merged into the current ones and the state is kept. On a destroyed
// controller the content is wrapped again with a fresh state.
func (c *Controller) Init(opts ...Option) error {
	next := c.settings
	if err := next.apply(opts); err != nil {
		return err
	}
	load := next.load
	next.load = nil
	c.settings = next

	if c.destroyed {
		return c.attach(load)
	}
	if load != nil {
		if err := c.interrupt(); err != nil {
			return err
		}
		c.state.anchor = nil
		c.setMatrix(*load)
		c.state.Zoom = zoomOf(*load)
	}
	return nil
}

// Configure merges options into the current ones.
func (c *Controller) Configure(opts ...Option) error {
	if c.destroyed {
		return ErrDestroyed
	}
	return c.Init(opts...)
}

// Options returns the current settings.
func (c *Controller) Options() Options {
	return c.settings.Options
}

// Enable resumes gesture handling.
func (c *Controller) Enable() error {
	if c.destroyed {
		return ErrDestroyed
	}
	c.enabled = true
	return nil
}

// Disable stops gesture handling, ends any drag and cancels the running
// animation. The content keeps its transform.
func (c *Controller) Disable() error {
	if c.destroyed {
		return ErrDestroyed
	}
	c.state.anchor = nil
	c.enabled = false
	c.cancelAnimation()
	return nil
}

// Enabled reports whether gestures are handled.
func (c *Controller) Enabled() bool {
	return c.enabled && !c.destroyed
}

// Destroy cancels the running animation, moves the content back out of the
// group and discards the state.
func (c *Controller) Destroy() error {
	if c.destroyed {
		return ErrDestroyed
	}
	a := c.anim
	c.anim = nil
	if err := svg.Unwrap(c.group); err != nil {
		return fmt.Errorf("zpd: destroy: %w", err)
	}
	c.group = nil
	c.state = nil
	c.enabled = false
	c.destroyed = true
	Logger().Info("zpd: destroyed")

	if a != nil && a.done != nil {
		a.done(c, ErrAnimationCanceled)
	}
	return nil
}

// Destroyed reports whether Destroy was called since the last Init.
func (c *Controller) Destroyed() bool {
	return c.destroyed
}

// Save returns the current content matrix. Pass it to WithMatrix to restore
// the view later.
func (c *Controller) Save() (affine.Matrix, error) {
	if c.destroyed {
		return affine.Identity(), ErrDestroyed
	}
	return c.state.Matrix, nil
}

// State returns a copy of the transform state.
func (c *Controller) State() (State, error) {
	if c.destroyed {
		return State{}, ErrDestroyed
	}
	s := *c.state
	s.anchor = nil
	return s, nil
}

// Document returns the controlled document.
func (c *Controller) Document() *svg.Document {
	return c.doc
}

// Group returns the content group, nil after Destroy.
func (c *Controller) Group() *svg.Node {
	return c.group
}

// CTM maps content coordinates to screen pixels.
func (c *Controller) CTM() (affine.Matrix, error) {
	if c.destroyed {
		return affine.Identity(), ErrDestroyed
	}
	return c.doc.ScreenCTM().Multiply(c.state.Matrix), nil
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool {
	return !c.destroyed && c.state.Dragging()
}

func (c *Controller) setMatrix(m affine.Matrix) {
	c.state.Matrix = m
	c.group.SetTransform(m)
}

// contentCenter returns the centre of the content bounding box in the
// group's own coordinates.
func (c *Controller) contentCenter() (float64, float64, error) {
	box, err := c.group.BBox()
	if err != nil {
		return 0, 0, err
	}
	p := box.Center()
	return p.X, p.Y, nil
}
