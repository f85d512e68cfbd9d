package zpd

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

func TestPanToRelative(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now), WithMatrix(affine.Translation(5, 0)))

	var rec doneRecorder
	if err := c.PanTo("+10", "0", 10*time.Millisecond, Linear, rec.done); err != nil {
		t.Fatal(err)
	}
	if !c.Animating() {
		t.Fatal("PanTo did not start an animation")
	}

	if !c.Tick(clock.advance(5 * time.Millisecond)) {
		t.Fatal("animation ended early")
	}
	m, _ := c.Save()
	if math.Abs(m.E-10) > eps {
		t.Errorf("halfway e = %v, want 10", m.E)
	}

	if c.Tick(clock.advance(5 * time.Millisecond)) {
		t.Fatal("animation should be finished")
	}
	m, _ = c.Save()
	assertMatrix(t, m, affine.Translation(15, 0))

	c.Tick(clock.advance(time.Second))
	if rec.calls != 1 || rec.err != nil {
		t.Errorf("done called %d times, err %v", rec.calls, rec.err)
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 5, false},
		{"+10", 15, false},
		{"-10", -5, false},
		{"10", 10, false},
		{" 2.5 ", 2.5, false},
		{"+", 0, true},
		{"abc", 0, true},
		{"+-3", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCoordinate(5, tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCoordinate(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseCoordinate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPanToInvalid(t *testing.T) {
	c := mustInit(t, plainSVG)
	err := c.PanTo("x", "", 0, nil, nil)
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("error = %v", err)
	}
	if c.Animating() {
		t.Error("invalid PanTo started an animation")
	}
}

func TestZoomToInvalid(t *testing.T) {
	c := mustInit(t, plainSVG)
	for _, z := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		var rec doneRecorder
		err := c.ZoomTo(z, 0, nil, rec.done)
		if !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("ZoomTo(%v) error = %v", z, err)
		}
		if c.Animating() || rec.calls != 0 {
			t.Errorf("ZoomTo(%v) should not start", z)
		}
	}
	m, _ := c.Save()
	if !m.IsIdentity() {
		t.Errorf("matrix changed: %s", m)
	}
}

func TestZoomToAnimates(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))

	var rec doneRecorder
	if err := c.ZoomTo(2, 100*time.Millisecond, Linear, rec.done); err != nil {
		t.Fatal(err)
	}

	c.Tick(clock.advance(50 * time.Millisecond))
	m, _ := c.Save()
	assertMatrix(t, m, affine.NewMatrix(1.5, 0, 0, 1.5, -25, -12.5))
	if s := mustState(t, c); math.Abs(s.Zoom-1.5) > eps {
		t.Errorf("Zoom = %v, want 1.5", s.Zoom)
	}

	c.Tick(clock.advance(50 * time.Millisecond))
	m, _ = c.Save()
	// content bbox centre (50,25) is fixed
	x, y := m.Apply(50, 25)
	if math.Abs(x-50) > eps || math.Abs(y-25) > eps {
		t.Errorf("centre moved to (%v,%v)", x, y)
	}
	if sx, _ := m.ScaleFactors(); math.Abs(sx-2) > eps {
		t.Errorf("scale = %v, want 2", sx)
	}
	if rec.calls != 1 || rec.err != nil {
		t.Errorf("done called %d times, err %v", rec.calls, rec.err)
	}
}

func TestZoomToDefaultDuration(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))
	c.ZoomTo(3, 0, nil, nil)

	if !c.Tick(clock.advance(DefaultZoomDuration - time.Millisecond)) {
		t.Fatal("animation ended before the default duration")
	}
	if c.Tick(clock.advance(time.Millisecond)) {
		t.Fatal("animation still running after the default duration")
	}
}

func TestGestureCancelsAnimation(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))

	var rec doneRecorder
	c.PanTo("100", "100", time.Second, nil, rec.done)
	c.Tick(clock.advance(500 * time.Millisecond))

	if ok, err := c.DragStart(nil); !ok || err != nil {
		t.Fatalf("DragStart = %v, %v", ok, err)
	}
	if c.Animating() {
		t.Fatal("animation still running after DragStart")
	}
	if rec.calls != 1 || !errors.Is(rec.err, ErrAnimationCanceled) {
		t.Fatalf("done called %d times, err %v", rec.calls, rec.err)
	}

	// the drag anchors at the half-way position
	c.DragMove(1, 1)
	m, _ := c.Save()
	assertMatrix(t, m, affine.Translation(51, 51))

	c.Tick(clock.advance(time.Second))
	if rec.calls != 1 {
		t.Errorf("done called %d times after more ticks", rec.calls)
	}
}

func TestAnimationCancelsPrevious(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))

	var first, second doneRecorder
	c.ZoomTo(2, time.Second, nil, first.done)
	c.PanTo("+10", "", 10*time.Millisecond, nil, second.done)

	if first.calls != 1 || !errors.Is(first.err, ErrAnimationCanceled) {
		t.Errorf("first done: %d calls, err %v", first.calls, first.err)
	}
	c.Tick(clock.advance(10 * time.Millisecond))
	if second.calls != 1 || second.err != nil {
		t.Errorf("second done: %d calls, err %v", second.calls, second.err)
	}
}

func TestDestroyCancelsAnimation(t *testing.T) {
	c := mustInit(t, plainSVG)

	var rec doneRecorder
	c.Origin(0, nil, rec.done)
	if err := c.Destroy(); err != nil {
		t.Fatal(err)
	}
	if rec.calls != 1 || !errors.Is(rec.err, ErrAnimationCanceled) {
		t.Errorf("done: %d calls, err %v", rec.calls, rec.err)
	}
	if c.Tick(time.Now()) {
		t.Error("Tick after Destroy reported an animation")
	}
}

func TestOrigin(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))
	c.Wheel(&WheelEvent{WheelDelta: 360, ClientX: 30, ClientY: 30})
	c.DragStart(nil)
	c.DragMove(12, -7)
	c.DragEnd()

	var rec doneRecorder
	if err := c.Origin(200*time.Millisecond, EaseInOut, rec.done); err != nil {
		t.Fatal(err)
	}
	for c.Tick(clock.advance(16 * time.Millisecond)) {
	}

	s := mustState(t, c)
	if !s.Matrix.Equal(affine.Identity(), eps) || s.Zoom != 1 || s.Delta != 0 {
		t.Errorf("state after Origin: %+v", s)
	}
	if rec.calls != 1 || rec.err != nil {
		t.Errorf("done: %d calls, err %v", rec.calls, rec.err)
	}
}

func TestDoneMayStartNextAnimation(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))

	var second doneRecorder
	c.PanTo("+10", "", 10*time.Millisecond, nil, func(c *Controller, err error) {
		c.PanTo("+10", "", 10*time.Millisecond, nil, second.done)
	})

	if !c.Tick(clock.advance(10 * time.Millisecond)) {
		t.Fatal("chained animation not reported")
	}
	c.Tick(clock.advance(10 * time.Millisecond))
	m, _ := c.Save()
	assertMatrix(t, m, affine.Translation(20, 0))
	if second.calls != 1 {
		t.Errorf("second done called %d times", second.calls)
	}
}

func TestEasings(t *testing.T) {
	for _, name := range EasingNames() {
		e, ok := EasingByName(name)
		if !ok {
			t.Fatalf("EasingByName(%q) not found", name)
		}
		if v := e(0); math.Abs(v) > 1e-3 {
			t.Errorf("%s(0) = %v", name, v)
		}
		if v := e(1); math.Abs(v-1) > 1e-9 {
			t.Errorf("%s(1) = %v", name, v)
		}
	}

	if len(EasingNames()) != 8 {
		t.Errorf("EasingNames() = %v", EasingNames())
	}
	if _, ok := EasingByName("Ease-In-Out"); !ok {
		t.Error("EasingByName should ignore case and separators")
	}
	if _, ok := EasingByName("wobble"); ok {
		t.Error("unknown easing found")
	}
	if e, ok := EasingByName(""); !ok || e(0.3) != 0.3 {
		t.Error("empty name should be linear")
	}
}

func TestZoomToClampsToRange(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now), WithZoomRange(0.5, 2))

	if err := c.ZoomTo(10, 100*time.Millisecond, Linear, nil); err != nil {
		t.Fatal(err)
	}
	c.Tick(clock.advance(100 * time.Millisecond))

	s := mustState(t, c)
	if math.Abs(s.Zoom-2) > eps {
		t.Fatalf("Zoom = %v, want the maximum 2", s.Zoom)
	}
	if sx, _ := s.Matrix.ScaleFactors(); math.Abs(sx-2) > eps {
		t.Errorf("scale = %v, want 2", sx)
	}

	// the wheel still works in the allowed direction
	if ok, _ := c.Wheel(&WheelEvent{WheelDelta: 360}); ok {
		t.Error("zoom in past the maximum was applied")
	}
	if ok, err := c.Wheel(&WheelEvent{WheelDelta: -360}); !ok || err != nil {
		t.Fatalf("zoom out = %v, %v", ok, err)
	}

	if err := c.ZoomTo(0.1, 100*time.Millisecond, Linear, nil); err != nil {
		t.Fatal(err)
	}
	c.Tick(clock.advance(100 * time.Millisecond))
	if s := mustState(t, c); math.Abs(s.Zoom-0.5) > eps {
		t.Errorf("Zoom = %v, want the minimum 0.5", s.Zoom)
	}
}

func TestZoomToAfterLoad(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now), WithMatrix(affine.Scaling(2, 2)))

	s := mustState(t, c)
	if err := c.ZoomTo(s.Zoom*1.25, 100*time.Millisecond, Linear, nil); err != nil {
		t.Fatal(err)
	}
	c.Tick(clock.advance(100 * time.Millisecond))

	m, _ := c.Save()
	if sx, _ := m.ScaleFactors(); math.Abs(sx-2.5) > eps {
		t.Errorf("scale = %v, want 2.5", sx)
	}
}

func TestAnimationEndsDrag(t *testing.T) {
	clock := newFakeClock()
	c := mustInit(t, plainSVG, WithClock(clock.Now))

	c.DragStart(nil)
	c.DragMove(10, 0)
	if err := c.ZoomTo(2, 100*time.Millisecond, Linear, nil); err != nil {
		t.Fatal(err)
	}
	if c.Dragging() {
		t.Fatal("drag still active after ZoomTo started")
	}

	c.Tick(clock.advance(50 * time.Millisecond))
	if ok, _ := c.DragMove(20, 0); ok {
		t.Error("DragMove applied while the animation owns the matrix")
	}
	c.Tick(clock.advance(50 * time.Millisecond))

	s := mustState(t, c)
	sx, _ := s.Matrix.ScaleFactors()
	if math.Abs(sx-2) > eps || math.Abs(s.Zoom-2) > eps {
		t.Errorf("scale = %v, Zoom = %v, want 2", sx, s.Zoom)
	}
}
