package zpd

import (
	"math"
)

// WheelEvent carries the raw delta fields the different platforms report.
// Missing fields are left at zero.
type WheelEvent struct {
	WheelDelta float64 // multiples of 120 per notch, positive away from the user
	Detail     float64 // legacy lines, positive towards the user
	DeltaY     float64 // pixels, positive towards the user

	ClientX, ClientY float64 // cursor position in screen pixels

	prevented bool
}

// PreventDefault marks the event so the host suppresses native scrolling.
func (e *WheelEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *WheelEvent) DefaultPrevented() bool {
	return e.prevented
}

// NormalizeWheelDelta converts the platform fields into a unitless delta:
// positive zooms in, one notch is roughly 1/3.
func NormalizeWheelDelta(e *WheelEvent) float64 {
	var delta float64
	switch {
	case e.WheelDelta != 0:
		delta = e.WheelDelta / 360
	case e.Detail != 0:
		delta = e.Detail / -9
	case e.DeltaY != 0:
		delta = -e.DeltaY / 120
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	return delta
}

// Wheel zooms about the cursor. An event that would leave the zoom range is
// rejected as a whole; one whose change is at or below the threshold is
// ignored. It reports whether the matrix changed.
func (c *Controller) Wheel(e *WheelEvent) (bool, error) {
	if c.destroyed {
		return false, ErrDestroyed
	}
	if !c.enabled || !c.settings.Zoom || e == nil {
		return false, nil
	}
	e.PreventDefault()

	delta := NormalizeWheelDelta(e)
	if delta == 0 {
		return false, nil
	}

	s := c.state
	o := c.settings.Options
	factor := math.Pow(1+o.ZoomScale, delta)
	total := s.Zoom * factor

	if total < o.ZoomMinimum || total > o.ZoomMaximum {
		Logger().Debug("zpd: zoom out of range",
			"zoom", s.Zoom, "wanted", total, "min", o.ZoomMinimum, "max", o.ZoomMaximum)
		return false, nil
	}
	if math.Abs(s.Zoom-total) <= o.ZoomThreshold {
		Logger().Debug("zpd: zoom below threshold", "zoom", s.Zoom, "wanted", total)
		return false, nil
	}

	screenInv, err := c.doc.ScreenCTM().Invert()
	if err != nil {
		return false, err
	}
	contentInv, err := s.Matrix.Invert()
	if err != nil {
		return false, err
	}
	px, py := screenInv.Apply(e.ClientX, e.ClientY)
	lx, ly := contentInv.Apply(px, py)

	m := s.Matrix.ScaleAboutPoint(factor, lx, ly)
	if !m.IsFinite() {
		return false, nil
	}

	if err := c.interrupt(); err != nil {
		return false, err
	}
	// a pan in progress keeps moving the zoomed content
	if a := s.anchor; a != nil && a.mode == dragPan {
		a.matrix = a.matrix.ScaleAboutPoint(factor, lx, ly)
	}
	c.setMatrix(m)
	s.Zoom = total
	s.Delta += delta
	return true, nil
}
