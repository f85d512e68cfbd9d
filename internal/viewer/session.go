package viewer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gioui.org/io/key"

	"github.com/OpenTraceLab/svgzpd/internal/config"
	"github.com/OpenTraceLab/svgzpd/pkg/freetransform"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

// action is a keyboard command of the viewer.
type action int

const (
	actionNone action = iota
	actionZoomIn
	actionZoomOut
	actionPanLeft
	actionPanRight
	actionPanUp
	actionPanDown
	actionOrigin
	actionRotate
	actionToggle
	actionSave
	actionQuit
)

var actionNames = [...]string{
	actionNone:     "none",
	actionZoomIn:   "zoom-in",
	actionZoomOut:  "zoom-out",
	actionPanLeft:  "pan-left",
	actionPanRight: "pan-right",
	actionPanUp:    "pan-up",
	actionPanDown:  "pan-down",
	actionOrigin:   "origin",
	actionRotate:   "rotate",
	actionToggle:   "toggle",
	actionSave:     "save",
	actionQuit:     "quit",
}

func (a action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// keyBindings maps key names to actions.
var keyBindings = map[key.Name]action{
	"+":                actionZoomIn,
	"=":                actionZoomIn,
	"-":                actionZoomOut,
	key.NameLeftArrow:  actionPanLeft,
	key.NameRightArrow: actionPanRight,
	key.NameUpArrow:    actionPanUp,
	key.NameDownArrow:  actionPanDown,
	"0":                actionOrigin,
	"R":                actionRotate,
	"D":                actionToggle,
	"S":                actionSave,
	"Q":                actionQuit,
	key.NameEscape:     actionQuit,
}

// session is one opened drawing and its controller.
type session struct {
	path string
	doc  *svg.Document
	ctrl *zpd.Controller
	cfg  *config.Config // resolved
	opts []zpd.Option

	easing string
	out    io.Writer

	handles *freetransform.Handles
	handle  freetransform.Handle // being dragged
}

// openSession parses path and attaches a controller configured from cfg.
func openSession(path string, cfg *config.Config) (*session, error) {
	doc, err := svg.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s, err := newSession(doc, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

func newSession(doc *svg.Document, cfg *config.Config, extra ...zpd.Option) (*session, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	ctrl, err := zpd.Init(doc, opts...)
	if err != nil {
		return nil, err
	}
	r := cfg.Resolved()
	return &session{
		doc:    doc,
		ctrl:   ctrl,
		cfg:    r,
		opts:   opts,
		easing: *r.Viewer.Easing,
		out:    os.Stdout,
	}, nil
}

// reload re-reads the file and re-initializes the controller on the new
// document, keeping the current view.
func (s *session) reload() error {
	doc, err := svg.ParseFile(s.path)
	if err != nil {
		return err
	}
	doc.ScreenX, doc.ScreenY = s.doc.ScreenX, s.doc.ScreenY
	doc.ViewportWidth, doc.ViewportHeight = s.doc.ViewportWidth, s.doc.ViewportHeight

	m, err := s.ctrl.Save()
	if err != nil {
		return err
	}
	opts := append(append([]zpd.Option{}, s.opts...), zpd.WithMatrix(m))
	ctrl, err := zpd.Init(doc, opts...)
	if err != nil {
		return err
	}
	if err := s.ctrl.Destroy(); err != nil {
		return err
	}
	s.doc, s.ctrl = doc, ctrl
	s.handles, s.handle = nil, freetransform.NoHandle
	zpd.Logger().Info("viewer: reloaded", "path", s.path, "matrix", m)
	return nil
}

func (s *session) duration() time.Duration {
	return time.Duration(*s.cfg.Viewer.DurationMs) * time.Millisecond
}

func (s *session) easingFunc() zpd.Easing {
	e, _ := zpd.EasingByName(s.easing)
	return e
}

func (s *session) setEasing(name string) error {
	if _, ok := zpd.EasingByName(name); !ok {
		return fmt.Errorf("unknown easing %q", name)
	}
	s.easing = name
	return nil
}

// do runs a keyboard action. Quit is left to the caller.
func (s *session) do(a action) error {
	c := s.ctrl
	step := strconv.FormatFloat(*s.cfg.Viewer.PanStep, 'g', -1, 64)

	switch a {
	case actionZoomIn, actionZoomOut:
		st, err := c.State()
		if err != nil {
			return err
		}
		z := st.Zoom * *s.cfg.Viewer.ZoomStep
		if a == actionZoomOut {
			z = st.Zoom / *s.cfg.Viewer.ZoomStep
		}
		return c.ZoomTo(z, s.duration(), s.easingFunc(), s.logDone(a))
	// arrows scroll the view, so the content moves the other way
	case actionPanLeft:
		return c.PanTo("+"+step, "", s.duration(), s.easingFunc(), s.logDone(a))
	case actionPanRight:
		return c.PanTo("-"+step, "", s.duration(), s.easingFunc(), s.logDone(a))
	case actionPanUp:
		return c.PanTo("", "+"+step, s.duration(), s.easingFunc(), s.logDone(a))
	case actionPanDown:
		return c.PanTo("", "-"+step, s.duration(), s.easingFunc(), s.logDone(a))
	case actionOrigin:
		return c.Origin(s.duration(), s.easingFunc(), s.logDone(a))
	case actionRotate:
		return c.Rotate(*s.cfg.Viewer.RotateStep)
	case actionToggle:
		if c.Enabled() {
			return c.Disable()
		}
		return c.Enable()
	case actionSave:
		m, err := c.Save()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.out, m)
		return err
	}
	return nil
}

func (s *session) logDone(a action) zpd.DoneFunc {
	return func(_ *zpd.Controller, err error) {
		if err != nil {
			zpd.Logger().Debug("viewer: animation ended", "action", a, "err", err)
		}
	}
}

// hitTest returns the topmost top-level content element under the client
// point (x, y), or nil.
func (s *session) hitTest(x, y float64) *svg.Node {
	group := s.ctrl.Group()
	if group == nil {
		return nil
	}
	screen := s.doc.ScreenCTM()
	p := svg.Point{X: x, Y: y}

	for i := len(group.Children) - 1; i >= 0; i-- {
		n := group.Children[i]
		if n.HasClass(freetransform.OverlayClass) {
			continue
		}
		box, err := n.BBox()
		if err != nil || box.IsEmpty() {
			continue
		}
		m, err := n.MatrixTo(nil)
		if err != nil {
			continue
		}
		if box.Transform(screen.Multiply(m)).Contains(p) {
			return n
		}
	}
	return nil
}

// dragTarget picks what a press at (x, y) drags: a content element when
// element drag is on, otherwise the surface.
func (s *session) dragTarget(x, y float64) *svg.Node {
	if s.ctrl.Options().Drag {
		if n := s.hitTest(x, y); n != nil {
			return n
		}
	}
	return s.doc.Root
}

func (s *session) status() string {
	st, err := s.ctrl.State()
	if err != nil {
		return err.Error()
	}
	state := "on"
	if !s.ctrl.Enabled() {
		state = "off"
	}
	return fmt.Sprintf("Zoom: %.2fx | %s | gestures %s", st.Zoom, st.Matrix, state)
}
