package trace

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/OpenTraceLab/svgzpd/pkg/svg"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

// ErrExpectation is returned when an expect-matrix or expect-zoom step does
// not hold.
var ErrExpectation = errors.New("trace: expectation failed")

// Default surface size when a trace does not record one.
const (
	DefaultWidth  = 400
	DefaultHeight = 300
)

const expectEpsilon = 1e-6

// Event is the outcome of one step, or of an animation finishing.
type Event struct {
	Op      string
	Line    int
	Done    bool // animation completion callback
	Applied bool
	Matrix  string // content transform after the step, empty once destroyed
	Zoom    float64
	Err     error
}

func (e Event) String() string {
	op := e.Op
	if e.Done {
		op += " done"
	}
	s := fmt.Sprintf("%4d %-14s", e.Line, op)
	if e.Matrix != "" {
		s += fmt.Sprintf(" %s zoom=%g", e.Matrix, e.Zoom)
	}
	if e.Err != nil {
		s += " err=" + e.Err.Error()
	} else if !e.Applied && !e.Done {
		s += " (ignored)"
	}
	return s
}

// DefaultDocument returns a surface with a single rectangle covering it.
func DefaultDocument(width, height float64) *svg.Document {
	doc := svg.New(width, height)
	doc.Root.AppendChild(svg.NewNode("rect",
		svg.Attr{Name: "width", Value: fmt.Sprint(width)},
		svg.Attr{Name: "height", Value: fmt.Sprint(height)},
		svg.Attr{Name: "fill", Value: "none"},
	))
	return doc
}

// Replayer drives a controller through a trace using a virtual clock.
type Replayer struct {
	trace *Trace
	doc   *svg.Document
	ctrl  *zpd.Controller
	now   time.Time

	events []Event

	// OnEvent, when set, is called for every event as it happens.
	OnEvent func(Event)
}

// NewReplayer prepares a replay of t on doc. A nil doc uses DefaultDocument
// sized from the trace surface.
func NewReplayer(t *Trace, doc *svg.Document) *Replayer {
	if doc == nil {
		w, h := t.Width, t.Height
		if w <= 0 || h <= 0 {
			w, h = DefaultWidth, DefaultHeight
		}
		doc = DefaultDocument(w, h)
	} else if t.Width > 0 && t.Height > 0 {
		doc.ViewportWidth, doc.ViewportHeight = t.Width, t.Height
	}
	doc.ScreenX, doc.ScreenY = t.ScreenX, t.ScreenY

	return &Replayer{
		trace: t,
		doc:   doc,
		now:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Controller returns the controller, nil before Run.
func (r *Replayer) Controller() *zpd.Controller { return r.ctrl }

// Document returns the replayed surface.
func (r *Replayer) Document() *svg.Document { return r.doc }

// Replay runs t on doc and returns the events.
func Replay(t *Trace, doc *svg.Document) ([]Event, error) {
	return NewReplayer(t, doc).Run()
}

// Run initializes the controller and applies every step. Controller errors
// are recorded on the events; a failed expectation stops the replay.
func (r *Replayer) Run() ([]Event, error) {
	opts := append([]zpd.Option{zpd.WithClock(r.clock)}, r.trace.Init...)
	ctrl, err := zpd.Init(r.doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.ctrl = ctrl

	for _, s := range r.trace.Steps {
		if err := r.step(s); err != nil {
			return r.events, err
		}
	}
	return r.events, nil
}

func (r *Replayer) clock() time.Time { return r.now }

func (r *Replayer) step(s Step) error {
	var (
		applied bool
		err     error
	)
	c := r.ctrl

	switch s.Op {
	case OpOptions:
		err = c.Configure(s.Options...)
		applied = err == nil
	case OpWheel:
		ev := s.Wheel
		applied, err = c.Wheel(&ev)
	case OpDragStart:
		target := r.doc.Root
		if s.Target != "" {
			if target = r.doc.ElementByID(s.Target); target == nil {
				err = fmt.Errorf("no element with id %q", s.Target)
				break
			}
		}
		applied, err = c.DragStart(target)
	case OpDragMove:
		applied, err = c.DragMove(s.X, s.Y)
	case OpDragEnd:
		err = c.DragEnd()
		applied = err == nil
	case OpZoomTo:
		err = c.ZoomTo(s.X, s.Duration, r.easing(s), r.done(s))
		applied = err == nil
	case OpPanTo:
		err = c.PanTo(s.PanX, s.PanY, s.Duration, r.easing(s), r.done(s))
		applied = err == nil
	case OpOrigin:
		err = c.Origin(s.Duration, r.easing(s), r.done(s))
		applied = err == nil
	case OpRotate:
		err = c.Rotate(s.X)
		applied = err == nil
	case OpTick:
		r.now = r.now.Add(s.Duration)
		applied = c.Animating()
		c.Tick(r.now)
	case OpSave:
		_, err = c.Save()
		applied = err == nil
	case OpEnable:
		err = c.Enable()
		applied = err == nil
	case OpDisable:
		err = c.Disable()
		applied = err == nil
	case OpDestroy:
		err = c.Destroy()
		applied = err == nil
	case OpInit:
		err = c.Init()
		applied = err == nil
	case OpExpectMatrix:
		got, serr := c.Save()
		if serr != nil {
			return fmt.Errorf("line %d: %w: %v", s.Line, ErrExpectation, serr)
		}
		if !got.Equal(s.Matrix, expectEpsilon) {
			return fmt.Errorf("line %d: %w: matrix is %s, want %s", s.Line, ErrExpectation, got, s.Matrix)
		}
		applied = true
	case OpExpectZoom:
		st, serr := c.State()
		if serr != nil {
			return fmt.Errorf("line %d: %w: %v", s.Line, ErrExpectation, serr)
		}
		if math.Abs(st.Zoom-s.X) > expectEpsilon {
			return fmt.Errorf("line %d: %w: zoom is %g, want %g", s.Line, ErrExpectation, st.Zoom, s.X)
		}
		applied = true
	default:
		err = fmt.Errorf("unknown step %q", s.Op)
	}

	r.emit(Event{Op: s.Op, Line: s.Line, Applied: applied, Err: err})
	return nil
}

func (r *Replayer) easing(s Step) zpd.Easing {
	e, _ := zpd.EasingByName(s.Easing)
	return e
}

func (r *Replayer) done(s Step) zpd.DoneFunc {
	return func(_ *zpd.Controller, err error) {
		r.emit(Event{Op: s.Op, Line: s.Line, Done: true, Err: err})
	}
}

func (r *Replayer) emit(e Event) {
	if st, err := r.ctrl.State(); err == nil {
		e.Matrix = st.Matrix.String()
		e.Zoom = st.Zoom
	}
	r.events = append(r.events, e)
	if r.OnEvent != nil {
		r.OnEvent(e)
	}
}
