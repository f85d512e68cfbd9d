// Package config loads zoom/pan/drag settings from TOML or YAML files.
package config

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

// Config mirrors the controller options. Every field is optional: a nil
// field keeps the value it is merged onto.
type Config struct {
	// Gestures
	Pan  *bool `toml:"pan,omitempty" yaml:"pan,omitempty"`
	Zoom *bool `toml:"zoom,omitempty" yaml:"zoom,omitempty"`
	Drag *bool `toml:"drag,omitempty" yaml:"drag,omitempty"`

	// Wheel zoom
	ZoomScale     *float64 `toml:"zoom_scale,omitempty" yaml:"zoom_scale,omitempty"`
	ZoomMinimum   *float64 `toml:"zoom_minimum,omitempty" yaml:"zoom_minimum,omitempty"`
	ZoomMaximum   *float64 `toml:"zoom_maximum,omitempty" yaml:"zoom_maximum,omitempty"`
	ZoomThreshold *float64 `toml:"zoom_threshold,omitempty" yaml:"zoom_threshold,omitempty"`

	// Matrix is a transform list loaded into the content group at init,
	// e.g. "matrix(2,0,0,2,10,10)" as printed by Save.
	Matrix *string `toml:"matrix,omitempty" yaml:"matrix,omitempty"`

	Viewer Viewer `toml:"viewer,omitempty" yaml:"viewer,omitempty"`
}

// Viewer holds the preview window settings.
type Viewer struct {
	Easing     *string `toml:"easing,omitempty" yaml:"easing,omitempty"`
	DurationMs *int64  `toml:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`

	// ZoomStep is the factor applied by the +/- keys.
	ZoomStep *float64 `toml:"zoom_step,omitempty" yaml:"zoom_step,omitempty"`
	// PanStep is the distance in pixels moved by an arrow key.
	PanStep *float64 `toml:"pan_step,omitempty" yaml:"pan_step,omitempty"`
	// RotateStep is the angle in degrees turned by R.
	RotateStep *float64 `toml:"rotate_step,omitempty" yaml:"rotate_step,omitempty"`

	// Reload re-initializes the view when the file changes on disk.
	Reload *bool `toml:"reload,omitempty" yaml:"reload,omitempty"`
}

// DefaultConfig returns a Config with every field set.
func DefaultConfig() *Config {
	o := zpd.DefaultOptions()
	return &Config{
		Pan:           ptr(o.Pan),
		Zoom:          ptr(o.Zoom),
		Drag:          ptr(o.Drag),
		ZoomScale:     ptr(o.ZoomScale),
		ZoomMinimum:   ptr(o.ZoomMinimum),
		ZoomMaximum:   ptr(o.ZoomMaximum),
		ZoomThreshold: ptr(o.ZoomThreshold),
		Matrix:        ptr(affine.Identity().String()),
		Viewer: Viewer{
			Easing:     ptr("easeinout"),
			DurationMs: ptr(int64(300)),
			ZoomStep:   ptr(1.25),
			PanStep:    ptr(20.0),
			RotateStep: ptr(15.0),
			Reload:     ptr(true),
		},
	}
}

// Merge copies every field set in other onto c.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}
	merge(&c.Pan, other.Pan)
	merge(&c.Zoom, other.Zoom)
	merge(&c.Drag, other.Drag)
	merge(&c.ZoomScale, other.ZoomScale)
	merge(&c.ZoomMinimum, other.ZoomMinimum)
	merge(&c.ZoomMaximum, other.ZoomMaximum)
	merge(&c.ZoomThreshold, other.ZoomThreshold)
	merge(&c.Matrix, other.Matrix)
	merge(&c.Viewer.Easing, other.Viewer.Easing)
	merge(&c.Viewer.DurationMs, other.Viewer.DurationMs)
	merge(&c.Viewer.ZoomStep, other.Viewer.ZoomStep)
	merge(&c.Viewer.PanStep, other.Viewer.PanStep)
	merge(&c.Viewer.RotateStep, other.Viewer.RotateStep)
	merge(&c.Viewer.Reload, other.Viewer.Reload)
	return c
}

// Resolved returns the defaults with c merged on top.
func (c *Config) Resolved() *Config {
	return DefaultConfig().Merge(c)
}

// Validate checks the settings as they would apply on top of the defaults.
func (c *Config) Validate() error {
	r := c.Resolved()

	o := zpd.DefaultOptions()
	r.apply(&o)
	if err := o.Validate(); err != nil {
		return err
	}
	if _, err := affine.ParseTransform(*r.Matrix); err != nil {
		return fmt.Errorf("config: matrix: %w", err)
	}
	if _, ok := zpd.EasingByName(*r.Viewer.Easing); !ok {
		return fmt.Errorf("config: unknown easing %q (known: %v)", *r.Viewer.Easing, zpd.EasingNames())
	}
	if *r.Viewer.DurationMs < 0 {
		return fmt.Errorf("config: duration_ms must be >= 0, got %d", *r.Viewer.DurationMs)
	}
	if s := *r.Viewer.ZoomStep; s <= 1 || math.IsInf(s, 0) || math.IsNaN(s) {
		return fmt.Errorf("config: zoom_step must be a finite number > 1, got %v", s)
	}
	return nil
}

// Options converts the fields set in c into controller options, so a
// re-Init with them only overrides what the file names.
func (c *Config) Options() ([]zpd.Option, error) {
	var opts []zpd.Option
	if c.Pan != nil {
		opts = append(opts, zpd.WithPan(*c.Pan))
	}
	if c.Zoom != nil {
		opts = append(opts, zpd.WithZoom(*c.Zoom))
	}
	if c.Drag != nil {
		opts = append(opts, zpd.WithDrag(*c.Drag))
	}
	if c.ZoomScale != nil {
		opts = append(opts, zpd.WithZoomScale(*c.ZoomScale))
	}
	if c.ZoomMinimum != nil {
		opts = append(opts, zpd.WithZoomMinimum(*c.ZoomMinimum))
	}
	if c.ZoomMaximum != nil {
		opts = append(opts, zpd.WithZoomMaximum(*c.ZoomMaximum))
	}
	if c.ZoomThreshold != nil {
		opts = append(opts, zpd.WithZoomThreshold(*c.ZoomThreshold))
	}
	if c.Matrix != nil {
		m, err := affine.ParseTransform(*c.Matrix)
		if err != nil {
			return nil, fmt.Errorf("config: matrix: %w", err)
		}
		opts = append(opts, zpd.WithMatrix(m))
	}
	return opts, nil
}

func (c *Config) apply(o *zpd.Options) {
	set(&o.Pan, c.Pan)
	set(&o.Zoom, c.Zoom)
	set(&o.Drag, c.Drag)
	set(&o.ZoomScale, c.ZoomScale)
	set(&o.ZoomMinimum, c.ZoomMinimum)
	set(&o.ZoomMaximum, c.ZoomMaximum)
	set(&o.ZoomThreshold, c.ZoomThreshold)
}

func ptr[T any](v T) *T { return &v }

func merge[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
