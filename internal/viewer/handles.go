package viewer

import (
	"math"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/freetransform"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// handleHitRadius is the pick tolerance around a handle, in screen pixels.
const handleHitRadius = 10

// parentFrame maps the parent space of el to client coordinates.
func (s *session) parentFrame(el *svg.Node) affine.Matrix {
	m, err := el.Parent.MatrixTo(nil)
	if err != nil {
		return s.doc.ScreenCTM()
	}
	return s.doc.ScreenCTM().Multiply(m)
}

// toggleHandles attaches free-transform handles to the element under
// (x, y), or detaches the current ones.
func (s *session) toggleHandles(x, y float64) error {
	if s.handles != nil {
		err := s.handles.Detach()
		s.handles, s.handle = nil, freetransform.NoHandle
		return err
	}
	el := s.hitTest(x, y)
	if el == nil {
		return nil
	}
	h, err := freetransform.Attach(el, freetransform.WithFrame(func() affine.Matrix {
		return s.parentFrame(el)
	}))
	if err != nil {
		return err
	}
	s.handles = h
	return nil
}

// handleAt reports which handle, if any, lies under the client point.
func (s *session) handleAt(x, y float64) freetransform.Handle {
	if s.handles == nil {
		return freetransform.NoHandle
	}
	frame := s.parentFrame(s.handles.Element())
	// the translate handle sits on top
	for _, which := range []freetransform.Handle{freetransform.TranslateHandle, freetransform.RotateHandle} {
		p := s.handles.HandlePosition(which)
		hx, hy := frame.Apply(p.X, p.Y)
		if math.Hypot(hx-x, hy-y) <= handleHitRadius {
			return which
		}
	}
	return freetransform.NoHandle
}

// handleStart begins a handle drag at (x, y). It reports false when no
// handle is there.
func (s *session) handleStart(x, y float64) (bool, error) {
	which := s.handleAt(x, y)
	var err error
	switch which {
	case freetransform.TranslateHandle:
		err = s.handles.TranslateStart()
	case freetransform.RotateHandle:
		err = s.handles.RotateStart()
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.handle = which
	return true, nil
}

// handleMove applies the pointer delta since handleStart.
func (s *session) handleMove(dx, dy float64) error {
	switch s.handle {
	case freetransform.TranslateHandle:
		return s.handles.TranslateMove(dx, dy)
	case freetransform.RotateHandle:
		return s.handles.RotateMove(dx, dy)
	}
	return nil
}

func (s *session) handleEnd() error {
	which := s.handle
	s.handle = freetransform.NoHandle
	switch which {
	case freetransform.TranslateHandle:
		return s.handles.TranslateEnd()
	case freetransform.RotateHandle:
		return s.handles.RotateEnd()
	}
	return nil
}
