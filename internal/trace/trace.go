// Package trace reads recorded zoom/pan/drag gesture sequences and replays
// them against a controller with a virtual clock.
//
// A trace is a single s-expression:
//
//	(trace
//	  (surface (screen 0 0) (size 400 300))
//	  (options (zoom-scale 1) (zoom-min 0.5) (zoom-max 2))
//	  (wheel (wheel-delta 360) (at 100 100))
//	  (drag-start) (drag-move 10 5) (drag-end)
//	  (zoom-to 1.5 200 "easeinout")
//	  (pan-to "+10" "" 10)
//	  (tick 250)
//	  (expect-matrix "matrix(1.5,0,0,1.5,-90,-70)"))
package trace

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

// Step operations.
const (
	OpOptions      = "options"
	OpWheel        = "wheel"
	OpDragStart    = "drag-start"
	OpDragMove     = "drag-move"
	OpDragEnd      = "drag-end"
	OpZoomTo       = "zoom-to"
	OpPanTo        = "pan-to"
	OpOrigin       = "origin"
	OpRotate       = "rotate"
	OpTick         = "tick"
	OpSave         = "save"
	OpEnable       = "enable"
	OpDisable      = "disable"
	OpDestroy      = "destroy"
	OpInit         = "init"
	OpExpectMatrix = "expect-matrix"
	OpExpectZoom   = "expect-zoom"
)

// Trace is a parsed gesture recording.
type Trace struct {
	ScreenX, ScreenY float64
	Width, Height    float64 // surface size, 0 when not recorded

	// Options given before the first step configure Init.
	Init []zpd.Option

	Steps []Step
}

// Step is one recorded call.
type Step struct {
	Op   string
	Line int

	X, Y       float64 // drag-move delta, rotate angle, zoom-to zoom, expect-zoom
	Wheel      zpd.WheelEvent
	Target     string // drag-start element id
	PanX, PanY string
	Duration   time.Duration
	Easing     string
	Options    []zpd.Option
	Matrix     affine.Matrix // expect-matrix
}

func (s Step) String() string {
	return fmt.Sprintf("%s (line %d)", s.Op, s.Line)
}

// ParseFile reads a trace file.
func ParseFile(filename string) (*Trace, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	t, err := Parse(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// ParseString reads a trace from a string.
func ParseString(s string) (*Trace, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a trace.
func Parse(r io.Reader) (*Trace, error) {
	exprs, err := ParseSexp(r)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, fmt.Errorf("expected one (trace ...) expression, got %d", len(exprs))
	}
	root, ok := exprs[0].(*List)
	if !ok || root.Head() != "trace" {
		return nil, fmt.Errorf("line %d: expected (trace ...)", exprs[0].Line())
	}

	t := &Trace{}
	for _, e := range root.Args() {
		l, ok := e.(*List)
		if !ok {
			return nil, fmt.Errorf("line %d: expected a list, got %s", e.Line(), e)
		}

		switch l.Head() {
		case "surface":
			if err := t.parseSurface(l); err != nil {
				return nil, err
			}
		case OpOptions:
			opts, err := parseOptions(l)
			if err != nil {
				return nil, err
			}
			if len(t.Steps) == 0 {
				t.Init = append(t.Init, opts...)
			} else {
				t.Steps = append(t.Steps, Step{Op: OpOptions, Line: l.Line(), Options: opts})
			}
		default:
			s, err := parseStep(l)
			if err != nil {
				return nil, err
			}
			t.Steps = append(t.Steps, s)
		}
	}
	return t, nil
}

func (t *Trace) parseSurface(l *List) error {
	for _, e := range l.Args() {
		prop, ok := e.(*List)
		if !ok {
			return fmt.Errorf("line %d: expected (screen x y) or (size w h)", e.Line())
		}
		nums, err := numbers(prop, 2, 2)
		if err != nil {
			return err
		}
		switch prop.Head() {
		case "screen":
			t.ScreenX, t.ScreenY = nums[0], nums[1]
		case "size":
			if nums[0] <= 0 || nums[1] <= 0 {
				return fmt.Errorf("line %d: surface size must be positive", prop.Line())
			}
			t.Width, t.Height = nums[0], nums[1]
		default:
			return fmt.Errorf("line %d: unknown surface property %q", prop.Line(), prop.Head())
		}
	}
	return nil
}

var boolOptions = map[string]func(bool) zpd.Option{
	"pan":  zpd.WithPan,
	"zoom": zpd.WithZoom,
	"drag": zpd.WithDrag,
}

var floatOptions = map[string]func(float64) zpd.Option{
	"zoom-scale": zpd.WithZoomScale,
	"zoom-min":   zpd.WithZoomMinimum,
	"zoom-max":   zpd.WithZoomMaximum,
	"threshold":  zpd.WithZoomThreshold,
}

func parseOptions(l *List) ([]zpd.Option, error) {
	var opts []zpd.Option
	for _, e := range l.Args() {
		prop, ok := e.(*List)
		if !ok || prop.Len() != 2 {
			return nil, fmt.Errorf("line %d: expected (name value)", e.Line())
		}
		v, ok := prop.Get(1).(Atom)
		if !ok {
			return nil, fmt.Errorf("line %d: option value must be an atom", prop.Line())
		}

		name := prop.Head()
		switch name {
		case "pan", "zoom", "drag":
			b, err := v.Bool()
			if err != nil {
				return nil, err
			}
			opts = append(opts, boolOptions[name](b))
		case "zoom-scale", "zoom-min", "zoom-max", "threshold":
			f, err := v.Float()
			if err != nil {
				return nil, err
			}
			opts = append(opts, floatOptions[name](f))
		case "matrix":
			m, err := affine.ParseTransform(v.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", prop.Line(), err)
			}
			opts = append(opts, zpd.WithMatrix(m))
		default:
			return nil, fmt.Errorf("line %d: unknown option %q", prop.Line(), name)
		}
	}
	return opts, nil
}

func parseStep(l *List) (Step, error) {
	s := Step{Op: l.Head(), Line: l.Line()}
	args := l.Args()

	switch s.Op {
	case OpWheel:
		return s, parseWheel(l, &s.Wheel)

	case OpDragStart:
		if len(args) > 1 {
			return s, arity(l, "at most 1")
		}
		if len(args) == 1 {
			s.Target = atomValue(args[0])
		}

	case OpDragMove:
		nums, err := numbers(l, 2, 2)
		if err != nil {
			return s, err
		}
		s.X, s.Y = nums[0], nums[1]

	case OpRotate, OpExpectZoom:
		nums, err := numbers(l, 1, 1)
		if err != nil {
			return s, err
		}
		s.X = nums[0]

	case OpTick:
		d, err := duration(l, args)
		if err != nil {
			return s, err
		}
		s.Duration = d

	case OpZoomTo:
		if len(args) < 1 || len(args) > 3 {
			return s, arity(l, "1 to 3")
		}
		a, ok := args[0].(Atom)
		if !ok {
			return s, fmt.Errorf("line %d: zoom must be a number", l.Line())
		}
		// keep invalid numbers: the controller reports them
		z, err := a.Float()
		if err != nil {
			return s, err
		}
		s.X = z
		if err := s.timing(l, args[1:]); err != nil {
			return s, err
		}

	case OpPanTo:
		if len(args) < 2 || len(args) > 4 {
			return s, arity(l, "2 to 4")
		}
		s.PanX, s.PanY = atomValue(args[0]), atomValue(args[1])
		if err := s.timing(l, args[2:]); err != nil {
			return s, err
		}

	case OpOrigin:
		if len(args) > 2 {
			return s, arity(l, "at most 2")
		}
		if err := s.timing(l, args); err != nil {
			return s, err
		}

	case OpExpectMatrix:
		if len(args) != 1 {
			return s, arity(l, "1")
		}
		m, err := affine.ParseTransform(atomValue(args[0]))
		if err != nil {
			return s, fmt.Errorf("line %d: %w", l.Line(), err)
		}
		s.Matrix = m

	case OpDragEnd, OpSave, OpEnable, OpDisable, OpDestroy, OpInit:
		if len(args) != 0 {
			return s, arity(l, "no")
		}

	default:
		return s, fmt.Errorf("line %d: unknown step %q", l.Line(), s.Op)
	}
	return s, nil
}

// timing reads the optional [duration-ms ["easing"]] tail of an animation.
func (s *Step) timing(l *List, args []Sexp) error {
	if len(args) > 0 {
		d, err := duration(l, args[:1])
		if err != nil {
			return err
		}
		s.Duration = d
	}
	if len(args) > 1 {
		s.Easing = atomValue(args[1])
		if _, ok := zpd.EasingByName(s.Easing); !ok {
			return fmt.Errorf("line %d: unknown easing %q", l.Line(), s.Easing)
		}
	}
	return nil
}

func parseWheel(l *List, ev *zpd.WheelEvent) error {
	for _, e := range l.Args() {
		prop, ok := e.(*List)
		if !ok {
			return fmt.Errorf("line %d: expected a wheel field", e.Line())
		}
		want := 1
		if prop.Head() == "at" {
			want = 2
		}
		nums, err := numbers(prop, want, want)
		if err != nil {
			return err
		}
		switch prop.Head() {
		case "wheel-delta":
			ev.WheelDelta = nums[0]
		case "detail":
			ev.Detail = nums[0]
		case "delta-y":
			ev.DeltaY = nums[0]
		case "at":
			ev.ClientX, ev.ClientY = nums[0], nums[1]
		default:
			return fmt.Errorf("line %d: unknown wheel field %q", prop.Line(), prop.Head())
		}
	}
	return nil
}

// numbers reads between lo and hi numeric arguments of l.
func numbers(l *List, lo, hi int) ([]float64, error) {
	args := l.Args()
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return nil, arity(l, fmt.Sprint(lo))
		}
		return nil, arity(l, fmt.Sprintf("%d to %d", lo, hi))
	}
	nums := make([]float64, len(args))
	for i, e := range args {
		a, ok := e.(Atom)
		if !ok {
			return nil, fmt.Errorf("line %d: expected a number, got %s", e.Line(), e)
		}
		v, err := a.Float()
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return nums, nil
}

// duration reads a single millisecond count.
func duration(l *List, args []Sexp) (time.Duration, error) {
	if len(args) != 1 {
		return 0, arity(l, "1")
	}
	a, ok := args[0].(Atom)
	if !ok {
		return 0, fmt.Errorf("line %d: expected milliseconds", l.Line())
	}
	ms, err := a.Float()
	if err != nil {
		return 0, err
	}
	if ms < 0 || math.IsInf(ms, 0) {
		return 0, fmt.Errorf("line %d: duration must be >= 0, got %v", l.Line(), ms)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

func atomValue(e Sexp) string {
	if a, ok := e.(Atom); ok {
		return a.Value
	}
	return e.String()
}

func arity(l *List, want string) error {
	return fmt.Errorf("line %d: (%s) takes %s arguments, got %d", l.Line(), l.Head(), want, len(l.Args()))
}
