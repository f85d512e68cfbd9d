package zpd

import (
	"fmt"
	"math"
	"time"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

// Options are the user facing settings of a controller.
type Options struct {
	Pan  bool // drag on the background (or any element without Drag) pans
	Zoom bool // wheel zooms about the cursor
	Drag bool // drag on a content element moves that element

	ZoomScale     float64 // wheel sensitivity; one notch scales by 1+ZoomScale
	ZoomMinimum   float64
	ZoomMaximum   float64
	ZoomThreshold float64 // zoom changes at or below this are ignored
}

// DefaultOptions returns pan and zoom enabled, element drag disabled,
// ZoomScale 0.2 and an unbounded zoom range.
func DefaultOptions() Options {
	return Options{
		Pan:           true,
		Zoom:          true,
		Drag:          false,
		ZoomScale:     0.2,
		ZoomMinimum:   0,
		ZoomMaximum:   math.Inf(1),
		ZoomThreshold: 0.01,
	}
}

// Validate checks the zoom settings.
func (o Options) Validate() error {
	switch {
	case math.IsNaN(o.ZoomScale) || math.IsInf(o.ZoomScale, 0) || o.ZoomScale <= 0:
		return fmt.Errorf("%w: zoom scale must be a finite number greater than 0, got %v", ErrInvalidOption, o.ZoomScale)
	case math.IsNaN(o.ZoomMinimum) || o.ZoomMinimum < 0:
		return fmt.Errorf("%w: zoom minimum must be >= 0, got %v", ErrInvalidOption, o.ZoomMinimum)
	case math.IsNaN(o.ZoomMaximum) || o.ZoomMaximum < o.ZoomMinimum:
		return fmt.Errorf("%w: zoom maximum %v is below the minimum %v", ErrInvalidOption, o.ZoomMaximum, o.ZoomMinimum)
	case math.IsNaN(o.ZoomThreshold) || o.ZoomThreshold < 0:
		return fmt.Errorf("%w: zoom threshold must be >= 0, got %v", ErrInvalidOption, o.ZoomThreshold)
	}
	return nil
}

type settings struct {
	Options
	load  *affine.Matrix
	clock func() time.Time
}

// Option configures a controller in Init, Configure or a re-Init.
type Option func(*settings)

// WithOptions replaces every user facing setting at once.
func WithOptions(o Options) Option {
	return func(s *settings) { s.Options = o }
}

// WithPan enables or disables panning.
func WithPan(enabled bool) Option {
	return func(s *settings) { s.Pan = enabled }
}

// WithZoom enables or disables wheel zoom.
func WithZoom(enabled bool) Option {
	return func(s *settings) { s.Zoom = enabled }
}

// WithDrag enables or disables dragging of individual elements.
func WithDrag(enabled bool) Option {
	return func(s *settings) { s.Drag = enabled }
}

// WithZoomScale sets the wheel sensitivity.
func WithZoomScale(scale float64) Option {
	return func(s *settings) { s.ZoomScale = scale }
}

// WithZoomRange bounds the cumulative zoom.
func WithZoomRange(minimum, maximum float64) Option {
	return func(s *settings) {
		s.ZoomMinimum = minimum
		s.ZoomMaximum = maximum
	}
}

// WithZoomMinimum sets the lower zoom bound.
func WithZoomMinimum(minimum float64) Option {
	return func(s *settings) { s.ZoomMinimum = minimum }
}

// WithZoomMaximum sets the upper zoom bound.
func WithZoomMaximum(maximum float64) Option {
	return func(s *settings) { s.ZoomMaximum = maximum }
}

// WithZoomThreshold sets the smallest zoom change that is applied.
func WithZoomThreshold(threshold float64) Option {
	return func(s *settings) { s.ZoomThreshold = threshold }
}

// WithMatrix loads a previously saved content matrix.
func WithMatrix(m affine.Matrix) Option {
	return func(s *settings) { s.load = &m }
}

// WithClock sets the time source animations start from.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.clock = now }
}

func (s *settings) apply(opts []Option) error {
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.load != nil && (!s.load.IsFinite() || s.load.Determinant() == 0) {
		return fmt.Errorf("%w: cannot load matrix %s", ErrInvalidOption, s.load)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return nil
}
