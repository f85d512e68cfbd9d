package zpd

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

func TestNormalizeWheelDelta(t *testing.T) {
	tests := []struct {
		name string
		ev   WheelEvent
		want float64
	}{
		{"webkit wheelDelta", WheelEvent{WheelDelta: 360}, 1},
		{"webkit wheelDelta down", WheelEvent{WheelDelta: -120}, -1.0 / 3},
		{"legacy detail", WheelEvent{Detail: -9}, 1},
		{"legacy detail down", WheelEvent{Detail: 3}, -1.0 / 3},
		{"deltaY", WheelEvent{DeltaY: -120}, 1},
		{"deltaY down", WheelEvent{DeltaY: 40}, -1.0 / 3},
		{"wheelDelta wins", WheelEvent{WheelDelta: 360, Detail: 9, DeltaY: 120}, 1},
		{"detail before deltaY", WheelEvent{Detail: -9, DeltaY: 120}, 1},
		{"missing fields", WheelEvent{}, 0},
		{"nan", WheelEvent{DeltaY: math.NaN()}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWheelDelta(&tt.ev)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("NormalizeWheelDelta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWheelZoomRange(t *testing.T) {
	c := mustInit(t, plainSVG, WithZoomRange(0.5, 2), WithZoomScale(1))

	var applied []bool
	for i := 0; i < 5; i++ {
		ok, err := c.Wheel(&WheelEvent{WheelDelta: 360, ClientX: 50, ClientY: 25})
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		applied = append(applied, ok)
	}

	want := []bool{true, false, false, false, false}
	for i := range want {
		if applied[i] != want[i] {
			t.Fatalf("applied = %v, want %v", applied, want)
		}
	}

	s := mustState(t, c)
	if s.Zoom != 2 {
		t.Errorf("Zoom = %v, want 2", s.Zoom)
	}
	// rejected events must not accumulate
	if s.Delta != 1 {
		t.Errorf("Delta = %v, want 1", s.Delta)
	}
	if sx, _ := s.Matrix.ScaleFactors(); math.Abs(sx-2) > eps {
		t.Errorf("matrix scale = %v, want 2", sx)
	}

	// zooming back out is still allowed
	if ok, _ := c.Wheel(&WheelEvent{WheelDelta: -360}); !ok {
		t.Error("zoom out rejected")
	}
	if s := mustState(t, c); s.Zoom != 1 || s.Delta != 0 {
		t.Errorf("after zoom out: %+v", s)
	}
}

func TestWheelMonotonicWithinBounds(t *testing.T) {
	c := mustInit(t, plainSVG, WithZoomRange(0.25, 4))

	prev := 1.0
	for i := 0; i < 40; i++ {
		c.Wheel(&WheelEvent{DeltaY: -60})
		s := mustState(t, c)
		if s.Zoom < prev {
			t.Fatalf("zoom decreased from %v to %v", prev, s.Zoom)
		}
		if s.Zoom < 0.25 || s.Zoom > 4 {
			t.Fatalf("zoom %v left the bounds", s.Zoom)
		}
		prev = s.Zoom
	}
}

func TestWheelKeepsCursorFixed(t *testing.T) {
	doc := mustDoc(t, scaledSVG)
	doc.ScreenX, doc.ScreenY = 10, 20
	c, err := Init(doc, WithMatrix(affine.NewMatrix(1.5, 0, 0, 1.5, 4, -3)))
	if err != nil {
		t.Fatal(err)
	}

	const cx, cy = 70.0, 95.0
	before, _ := c.CTM()
	inv, err := before.Invert()
	if err != nil {
		t.Fatal(err)
	}
	lx, ly := inv.Apply(cx, cy)

	ev := &WheelEvent{WheelDelta: 120, ClientX: cx, ClientY: cy}
	if ok, err := c.Wheel(ev); !ok || err != nil {
		t.Fatalf("Wheel = %v, %v", ok, err)
	}
	if !ev.DefaultPrevented() {
		t.Error("wheel event not prevented")
	}

	after, _ := c.CTM()
	x, y := after.Apply(lx, ly)
	if math.Abs(x-cx) > 1e-6 || math.Abs(y-cy) > 1e-6 {
		t.Errorf("cursor point moved to (%v,%v), want (%v,%v)", x, y, cx, cy)
	}
}

func TestWheelThreshold(t *testing.T) {
	c := mustInit(t, plainSVG, WithZoomThreshold(0.5))

	ok, err := c.Wheel(&WheelEvent{WheelDelta: 120})
	if ok || err != nil {
		t.Fatalf("Wheel = %v, %v; want ignored", ok, err)
	}
	s := mustState(t, c)
	if s.Zoom != 1 || s.Delta != 0 || !s.Matrix.IsIdentity() {
		t.Errorf("state changed: %+v", s)
	}
}

func TestWheelZoomDisabled(t *testing.T) {
	c := mustInit(t, plainSVG, WithZoom(false))
	ev := &WheelEvent{WheelDelta: 360}
	if ok, _ := c.Wheel(ev); ok {
		t.Error("zoomed with zoom disabled")
	}
	if ev.DefaultPrevented() {
		t.Error("native scrolling suppressed with zoom disabled")
	}

	c.Configure(WithZoom(true))
	ev = &WheelEvent{}
	if ok, _ := c.Wheel(ev); ok {
		t.Error("empty event applied")
	}
	if !ev.DefaultPrevented() {
		t.Error("zoom enabled must always prevent scrolling")
	}
}

func TestWheelDuringPan(t *testing.T) {
	c := mustInit(t, plainSVG)
	if ok, err := c.DragStart(nil); !ok || err != nil {
		t.Fatalf("DragStart = %v, %v", ok, err)
	}
	c.DragMove(10, 0)

	if ok, err := c.Wheel(&WheelEvent{WheelDelta: 360}); !ok || err != nil {
		t.Fatalf("Wheel = %v, %v", ok, err)
	}
	m, _ := c.Save()
	assertMatrix(t, m, affine.NewMatrix(1.2, 0, 0, 1.2, 12, 0))

	// the zoom survives later moves of the same drag
	c.DragMove(20, 0)
	m, _ = c.Save()
	assertMatrix(t, m, affine.NewMatrix(1.2, 0, 0, 1.2, 22, 0))

	s := mustState(t, c)
	if sx, _ := s.Matrix.ScaleFactors(); math.Abs(sx-s.Zoom) > eps {
		t.Errorf("Zoom = %v, matrix scale = %v", s.Zoom, sx)
	}
	c.DragEnd()
}

func TestRotateDuringPan(t *testing.T) {
	c := mustInit(t, plainSVG)
	c.DragStart(nil)
	if err := c.Rotate(90); err != nil {
		t.Fatal(err)
	}
	rotated, _ := c.Save()

	c.DragMove(5, 5)
	m, _ := c.Save()
	assertMatrix(t, m, rotated.Offset(5, 5))
}

func TestWheelAfterLoad(t *testing.T) {
	c := mustInit(t, plainSVG, WithMatrix(affine.Scaling(2, 2)), WithZoomRange(0.5, 2))

	if s := mustState(t, c); s.Zoom != 2 {
		t.Fatalf("Zoom = %v, want 2 after loading a 2x matrix", s.Zoom)
	}
	if ok, _ := c.Wheel(&WheelEvent{WheelDelta: 360}); ok {
		t.Error("zoom in past the maximum was applied")
	}
	if ok, err := c.Wheel(&WheelEvent{WheelDelta: -360}); !ok || err != nil {
		t.Fatalf("zoom out = %v, %v", ok, err)
	}

	// a load on a live controller resets the bookkeeping too
	if err := c.Init(WithMatrix(affine.Scaling(1.5, 1.5))); err != nil {
		t.Fatal(err)
	}
	if s := mustState(t, c); math.Abs(s.Zoom-1.5) > eps {
		t.Errorf("Zoom = %v, want 1.5", s.Zoom)
	}
}
