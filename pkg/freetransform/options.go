package freetransform

import (
	"fmt"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

type options struct {
	handleLength float64
	handleRadius float64
	strokeWidth  float64
	fill         string
	dash         string
	frame        func() affine.Matrix
}

func defaultOptions() options {
	return options{
		handleLength: 75,
		handleRadius: 7,
		strokeWidth:  2,
		fill:         "silver",
		dash:         "5,5",
		frame:        affine.Identity,
	}
}

func (o options) validate() error {
	if o.handleLength <= 0 {
		return fmt.Errorf("freetransform: handle length must be > 0, got %v", o.handleLength)
	}
	if o.handleRadius <= 0 {
		return fmt.Errorf("freetransform: handle radius must be > 0, got %v", o.handleRadius)
	}
	if o.frame == nil {
		return fmt.Errorf("freetransform: nil frame")
	}
	return nil
}

// Option configures the handles.
type Option func(*options)

// WithHandleLength sets how far the rotate handle sits right of the
// element's bounding box.
func WithHandleLength(l float64) Option {
	return func(o *options) { o.handleLength = l }
}

// WithHandleRadius sets the radius of both handle circles.
func WithHandleRadius(r float64) Option {
	return func(o *options) { o.handleRadius = r }
}

// WithStyle sets the handle fill colour, the stroke width and the dash
// pattern of the join line and bounding box.
func WithStyle(fill string, strokeWidth float64, dash string) Option {
	return func(o *options) {
		o.fill = fill
		o.strokeWidth = strokeWidth
		o.dash = dash
	}
}

// WithFrame sets the transform from the element's parent space to the
// space pointer deltas are measured in, e.g. a zpd controller's CTM. It is
// evaluated at every move.
func WithFrame(frame func() affine.Matrix) Option {
	return func(o *options) { o.frame = frame }
}
