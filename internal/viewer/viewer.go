// Package viewer is a preview window for the zoom/pan/drag controller: it
// renders an SVG file with Gio and feeds pointer and keyboard input to a
// zpd.Controller.
package viewer

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	giopaint "gioui.org/op/paint"
	giounit "gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/svgzpd/internal/config"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

const title = "SVG Zoom/Pan/Drag"

var canvasBg = color.NRGBA{R: 250, G: 250, B: 252, A: 255}

// Viewer is the preview window.
type Viewer struct {
	window   *app.Window
	theme    *theme.Theme
	explorer *explorer.Explorer
	cfg      *config.Config

	sess    *session
	watch   *watcher
	reload  atomic.Bool
	opened  chan string
	lastErr string

	// toolbar
	openBtn, zoomInBtn, zoomOutBtn  widget.Clickable
	originBtn, rotateBtn, toggleBtn widget.Clickable
	easingBtn                       widget.Clickable
	easingMenu                      *menu.DropdownMenu
	icons                           map[*widget.Clickable]*widget.Icon

	// canvas input
	canvas    int
	dragging  bool
	handling  bool
	dragStart f32.Point
	pointer   f32.Point
}

// New creates a viewer for w. cfg may be nil.
func New(w *app.Window, cfg *config.Config) *Viewer {
	if cfg == nil {
		cfg = &config.Config{}
	}
	v := &Viewer{
		window:   w,
		theme:    theme.NewTheme("", nil, true),
		explorer: explorer.NewExplorer(w),
		cfg:      cfg,
		opened:   make(chan string, 1),
	}
	v.loadIcons()
	v.easingMenu = v.buildEasingMenu()
	return v
}

// Run opens path, when not empty, and processes window events until the
// window is closed.
func Run(w *app.Window, path string, cfg *config.Config) error {
	w.Option(app.Title(title), app.Size(giounit.Dp(1200), giounit.Dp(800)))
	v := New(w, cfg)
	if path != "" {
		if err := v.Open(path); err != nil {
			return err
		}
	}
	defer v.close()

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			v.frame(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// Open loads path, replacing the current drawing.
func (v *Viewer) Open(path string) error {
	sess, err := openSession(path, v.cfg)
	if err != nil {
		return err
	}
	if v.sess != nil {
		v.sess.ctrl.Destroy()
	}
	v.sess = sess
	v.lastErr = ""
	v.window.Option(app.Title(title + " - " + filepath.Base(path)))
	zpd.Logger().Info("viewer: opened", "path", path)

	if v.watch != nil {
		v.watch.Close()
		v.watch = nil
	}
	if *sess.cfg.Viewer.Reload {
		w, err := newWatcher(path, func() {
			v.reload.Store(true)
			v.window.Invalidate()
		})
		if err != nil {
			zpd.Logger().Warn("viewer: live reload disabled", "path", path, "err", err)
		} else {
			v.watch = w
		}
	}
	return nil
}

func (v *Viewer) close() {
	if v.watch != nil {
		v.watch.Close()
	}
}

func (v *Viewer) frame(gtx layout.Context) {
	select {
	case path := <-v.opened:
		v.report(v.Open(path))
	default:
	}
	if v.reload.Swap(false) && v.sess != nil {
		v.report(v.sess.reload())
	}

	v.handleKeys(gtx)
	v.handleToolbar(gtx)

	if v.sess != nil && v.sess.ctrl.Tick(gtx.Now) {
		gtx.Execute(op.InvalidateCmd{})
	}
	v.layout(gtx)
}

func (v *Viewer) report(err error) {
	if err == nil {
		return
	}
	v.lastErr = err.Error()
	zpd.Logger().Warn("viewer: " + v.lastErr)
}

func (v *Viewer) run(a action) {
	if a == actionQuit {
		v.close()
		os.Exit(0)
	}
	if v.sess == nil {
		return
	}
	v.report(v.sess.do(a))
	v.window.Invalidate()
}

func (v *Viewer) handleKeys(gtx layout.Context) {
	for name, a := range keyBindings {
		for {
			ev, ok := gtx.Event(key.Filter{Name: name, Optional: key.ModShift})
			if !ok {
				break
			}
			if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
				v.run(a)
			}
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "T"})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press && v.sess != nil {
			v.report(v.sess.toggleHandles(float64(v.pointer.X), float64(v.pointer.Y)))
			v.window.Invalidate()
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "O", Required: key.ModShortcut})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			v.openFilePicker()
		}
	}
}

func (v *Viewer) handleToolbar(gtx layout.Context) {
	if v.openBtn.Clicked(gtx) {
		v.openFilePicker()
	}
	for btn, a := range map[*widget.Clickable]action{
		&v.zoomInBtn:  actionZoomIn,
		&v.zoomOutBtn: actionZoomOut,
		&v.originBtn:  actionOrigin,
		&v.rotateBtn:  actionRotate,
		&v.toggleBtn:  actionToggle,
	} {
		if btn.Clicked(gtx) {
			v.run(a)
		}
	}
	if v.easingBtn.Clicked(gtx) {
		v.easingMenu.ToggleVisibility(gtx)
	}
}

func (v *Viewer) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  &v.canvas,
			Kinds:   pointer.Move | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || v.sess == nil {
			continue
		}
		ctrl := v.sess.ctrl
		x, y := float64(pe.Position.X), float64(pe.Position.Y)
		v.pointer = pe.Position

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons != pointer.ButtonPrimary {
				continue
			}
			v.dragStart = pe.Position
			handling, err := v.sess.handleStart(x, y)
			v.report(err)
			if v.handling = handling; handling {
				continue
			}
			started, err := ctrl.DragStart(v.sess.dragTarget(x, y))
			v.report(err)
			v.dragging = started

		case pointer.Drag:
			d := pe.Position.Sub(v.dragStart)
			switch {
			case v.handling:
				v.report(v.sess.handleMove(float64(d.X), float64(d.Y)))
			case v.dragging:
				_, err := ctrl.DragMove(float64(d.X), float64(d.Y))
				v.report(err)
			default:
				continue
			}
			gtx.Execute(op.InvalidateCmd{})

		case pointer.Release, pointer.Cancel:
			if v.handling {
				v.report(v.sess.handleEnd())
				v.handling = false
			}
			if v.dragging {
				v.report(ctrl.DragEnd())
				v.dragging = false
			}

		case pointer.Scroll:
			// Gio reports scroll distances in pixels, like a DOM deltaY
			we := zpd.WheelEvent{DeltaY: float64(pe.Scroll.Y), ClientX: x, ClientY: y}
			_, err := ctrl.Wheel(&we)
			v.report(err)
			gtx.Execute(op.InvalidateCmd{})
		}
	}
}

func (v *Viewer) openFilePicker() {
	go func() {
		file, err := v.explorer.ChooseFile("")
		if err != nil {
			if err != explorer.ErrUserDecline {
				zpd.Logger().Warn("viewer: file picker", "err", err)
			}
			return
		}
		defer file.Close()

		if f, ok := file.(*os.File); ok {
			v.opened <- f.Name()
			v.window.Invalidate()
		}
	}()
}

func (v *Viewer) loadIcons() {
	v.icons = map[*widget.Clickable]*widget.Icon{}
	for btn, data := range map[*widget.Clickable][]byte{
		&v.openBtn:    icons.FileFolderOpen,
		&v.zoomInBtn:  icons.ActionZoomIn,
		&v.zoomOutBtn: icons.ActionZoomOut,
		&v.originBtn:  icons.ActionHome,
		&v.rotateBtn:  icons.ImageRotateRight,
		&v.toggleBtn:  icons.ActionPanTool,
	} {
		icon, err := widget.NewIcon(data)
		if err != nil {
			zpd.Logger().Warn("viewer: failed to load icon", "err", err)
			continue
		}
		v.icons[btn] = icon
	}
}

func (v *Viewer) buildEasingMenu() *menu.DropdownMenu {
	names := zpd.EasingNames()
	opts := make([]menu.MenuOption, 0, len(names))
	for _, name := range names {
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				if v.sess == nil {
					return nil
				}
				return v.sess.setEasing(name)
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, name)
				if v.sess != nil && v.sess.easing == name {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: giounit.Dp(4), Right: giounit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = giounit.Dp(180)
	return drop
}

func (v *Viewer) layout(gtx layout.Context) layout.Dimensions {
	giopaint.Fill(gtx.Ops, v.theme.Palette.Bg)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(v.layoutToolbar),
		layout.Flexed(1, v.layoutCanvas),
	)
}

func (v *Viewer) layoutToolbar(gtx layout.Context) layout.Dimensions {
	iconButton := func(btn *widget.Clickable, desc string) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			icon := v.icons[btn]
			if icon == nil {
				return material.Button(v.theme.Theme, btn, desc).Layout(gtx)
			}
			b := material.IconButton(v.theme.Theme, btn, icon, desc)
			b.Size = giounit.Dp(20)
			b.Inset = layout.UniformInset(giounit.Dp(6))
			return layout.Inset{Right: giounit.Dp(4)}.Layout(gtx, b.Layout)
		})
	}

	inset := layout.Inset{Top: 8, Bottom: 8, Left: 8, Right: 8}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					iconButton(&v.openBtn, "Open (Ctrl+O)"),
					iconButton(&v.zoomInBtn, "Zoom in (+)"),
					iconButton(&v.zoomOutBtn, "Zoom out (-)"),
					iconButton(&v.originBtn, "Origin (0)"),
					iconButton(&v.rotateBtn, "Rotate (R)"),
					iconButton(&v.toggleBtn, "Enable/disable (D)"),
					layout.Rigid(layout.Spacer{Width: 8}.Layout),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						label := "Easing"
						if v.sess != nil {
							label += ": " + v.sess.easing
						}
						dims := material.Button(v.theme.Theme, &v.easingBtn, label).Layout(gtx)
						v.easingMenu.Layout(gtx, v.theme)
						return dims
					}),
				)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				text := "No drawing loaded"
				switch {
				case v.lastErr != "":
					text = v.lastErr
				case v.sess != nil:
					text = v.sess.status()
				}
				return material.Body2(v.theme.Theme, text).Layout(gtx)
			}),
		)
	})
}

func (v *Viewer) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	giopaint.Fill(gtx.Ops, canvasBg)

	v.handlePointer(gtx)
	event.Op(gtx.Ops, &v.canvas)

	if v.sess == nil {
		return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.H4(v.theme.Theme, title).Layout),
				layout.Rigid(layout.Spacer{Height: 16}.Layout),
				layout.Rigid(material.Body1(v.theme.Theme, "Click 'Open' or press Ctrl+O to select an SVG file").Layout),
				layout.Rigid(layout.Spacer{Height: 8}.Layout),
				layout.Rigid(material.Body2(v.theme.Theme, "Drag to pan | Scroll to zoom | +/- zoom | arrows pan | 0 origin | R rotate | T handles | D toggle | S save | Q quit").Layout),
			)
		})
	}

	doc := v.sess.doc
	doc.ViewportWidth, doc.ViewportHeight = float64(size.X), float64(size.Y)
	drawDocument(gtx.Ops, doc)
	return layout.Dimensions{Size: size}
}
