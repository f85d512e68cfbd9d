package zpd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

// Default animation durations.
const (
	DefaultZoomDuration   = 3 * time.Second
	DefaultPanDuration    = 10 * time.Millisecond
	DefaultOriginDuration = time.Second
)

// DoneFunc is called once when an animation finishes, with a nil error, or
// is canceled, with ErrAnimationCanceled.
type DoneFunc func(c *Controller, err error)

type animation struct {
	name     string
	start    time.Time
	duration time.Duration
	easing   Easing
	step     func(v float64) // v is the eased progress
	finish   func()
	done     DoneFunc
}

// Animating reports whether an animation is running. Hosts keep calling
// Tick while it returns true.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// Tick advances the running animation to now. It returns true while the
// animation needs further frames.
func (c *Controller) Tick(now time.Time) bool {
	a := c.anim
	if a == nil || c.destroyed {
		return false
	}

	t := 1.0
	if a.duration > 0 {
		t = float64(now.Sub(a.start)) / float64(a.duration)
	}
	if t < 1 {
		a.step(a.easing(math.Max(t, 0)))
		return true
	}

	a.step(1)
	c.anim = nil
	if a.finish != nil {
		a.finish()
	}
	if a.done != nil {
		a.done(c, nil)
	}
	return c.anim != nil
}

// CancelAnimation stops the running animation where it is. Its DoneFunc
// receives ErrAnimationCanceled.
func (c *Controller) CancelAnimation() {
	c.cancelAnimation()
}

func (c *Controller) cancelAnimation() {
	a := c.anim
	if a == nil {
		return
	}
	c.anim = nil
	Logger().Debug("zpd: animation canceled", "animation", a.name)
	if a.done != nil {
		a.done(c, ErrAnimationCanceled)
	}
}

// interrupt cancels the running animation ahead of a new gesture. The
// canceled animation's DoneFunc may have destroyed the controller.
func (c *Controller) interrupt() error {
	c.cancelAnimation()
	if c.destroyed {
		return ErrDestroyed
	}
	return nil
}

// startAnimation makes a the owner of the matrix: the running animation is
// canceled and a drag in progress ends.
func (c *Controller) startAnimation(a *animation, d time.Duration, easing Easing) error {
	if err := c.interrupt(); err != nil {
		return err
	}
	if c.state.anchor != nil {
		Logger().Debug("zpd: drag ended by animation", "animation", a.name)
		c.state.anchor = nil
	}
	if easing == nil {
		easing = Linear
	}
	a.easing = easing
	a.duration = d
	a.start = c.settings.clock()
	c.anim = a
	return nil
}

// ZoomTo animates the content scale to zoom about the centre of the content
// bounding box. A target outside the zoom range is clamped to it. A zero
// duration uses DefaultZoomDuration and a nil easing is linear.
func (c *Controller) ZoomTo(zoom float64, d time.Duration, easing Easing, done DoneFunc) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		Logger().Error("zpd: zoomTo needs a finite number greater than 0", "zoom", zoom)
		return fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}
	if o := c.settings.Options; zoom < o.ZoomMinimum || zoom > o.ZoomMaximum {
		clamped := math.Min(math.Max(zoom, o.ZoomMinimum), o.ZoomMaximum)
		Logger().Debug("zpd: zoomTo clamped", "zoom", zoom, "clamped", clamped)
		zoom = clamped
	}
	if d <= 0 {
		d = DefaultZoomDuration
	}

	cx, cy, err := c.contentCenter()
	if err != nil {
		return err
	}
	start := c.state.Matrix
	current, _ := start.ScaleFactors()
	if current == 0 {
		return &affine.NumericError{Op: "zoomTo", Determinant: start.Determinant()}
	}

	return c.startAnimation(&animation{
		name: "zoomTo",
		step: func(v float64) {
			z := current + (zoom-current)*v
			c.setMatrix(start.ScaleAboutPoint(z/current, cx, cy))
			c.state.Zoom = z
		},
		done: done,
	}, d, easing)
}

// PanTo animates the content translation. Each coordinate is "+n" to move
// by n, "-n" to move back by n, "n" to move to n, or "" to keep the current
// value. A zero duration uses DefaultPanDuration.
func (c *Controller) PanTo(x, y string, d time.Duration, easing Easing, done DoneFunc) error {
	if c.destroyed {
		return ErrDestroyed
	}
	start := c.state.Matrix
	tx, err := parseCoordinate(start.E, x)
	if err != nil {
		return err
	}
	ty, err := parseCoordinate(start.F, y)
	if err != nil {
		return err
	}
	if d <= 0 {
		d = DefaultPanDuration
	}

	dx, dy := tx-start.E, ty-start.F
	return c.startAnimation(&animation{
		name: "panTo",
		step: func(v float64) {
			m := c.state.Matrix
			m.E = start.E + v*dx
			m.F = start.F + v*dy
			c.setMatrix(m)
		},
		done: done,
	}, d, easing)
}

// Origin animates back to the identity matrix and resets the zoom
// bookkeeping. A zero duration uses DefaultOriginDuration.
func (c *Controller) Origin(d time.Duration, easing Easing, done DoneFunc) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if d <= 0 {
		d = DefaultOriginDuration
	}
	start := c.state.Matrix
	startZoom := c.state.Zoom
	return c.startAnimation(&animation{
		name: "origin",
		step: func(v float64) {
			c.setMatrix(start.Lerp(affine.Identity(), v))
			c.state.Zoom = startZoom + (1-startZoom)*v
		},
		finish: func() {
			c.state.Zoom = 1
			c.state.Delta = 0
		},
		done: done,
	}, d, easing)
}

func parseCoordinate(current float64, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return current, nil
	}

	sign := 0.0
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	}
	num := s
	if sign != 0 {
		num = s[1:]
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || (sign != 0 && v < 0) {
		return current, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if sign == 0 {
		return v, nil
	}
	return current + sign*v, nil
}
