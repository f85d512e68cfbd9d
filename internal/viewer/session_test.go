package viewer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/svgzpd/internal/config"
	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/freetransform"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

const drawing = `<svg width="200" height="100">
  <rect id="left" x="0" y="0" width="50" height="50" fill="red"/>
  <rect id="right" x="100" y="0" width="100" height="100" fill="blue"/>
</svg>`

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func ptr[T any](v T) *T { return &v }

func testSession(t *testing.T, cfg *config.Config) (*session, *clock) {
	t.Helper()
	doc, err := svg.ParseString(drawing)
	require.NoError(t, err)

	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := newSession(doc, cfg, zpd.WithClock(clk.Now))
	require.NoError(t, err)
	return s, clk
}

// finish runs the current animation to its end.
func finish(t *testing.T, s *session, clk *clock) {
	t.Helper()
	clk.now = clk.now.Add(s.duration())
	s.ctrl.Tick(clk.now)
	require.False(t, s.ctrl.Animating())
}

func matrixOf(t *testing.T, s *session) affine.Matrix {
	t.Helper()
	m, err := s.ctrl.Save()
	require.NoError(t, err)
	return m
}

func TestSessionDefaults(t *testing.T) {
	s, _ := testSession(t, nil)
	assert.Equal(t, "easeinout", s.easing)
	assert.Equal(t, 300*time.Millisecond, s.duration())
	assert.True(t, s.ctrl.Enabled())
	assert.Contains(t, s.status(), "Zoom: 1.00x")
}

func TestSessionZoomKeys(t *testing.T) {
	s, clk := testSession(t, &config.Config{Viewer: config.Viewer{ZoomStep: ptr(2.0)}})

	require.NoError(t, s.do(actionZoomIn))
	finish(t, s, clk)
	st, err := s.ctrl.State()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, st.Zoom, 1e-9)

	sx, _ := st.Matrix.ScaleFactors()
	assert.InDelta(t, 2.0, sx, 1e-9)

	require.NoError(t, s.do(actionZoomOut))
	finish(t, s, clk)
	st, err = s.ctrl.State()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, st.Zoom, 1e-9)
}

func TestSessionPanKeys(t *testing.T) {
	s, clk := testSession(t, &config.Config{Viewer: config.Viewer{PanStep: ptr(20.0)}})

	tests := []struct {
		a      action
		dx, dy float64
	}{
		{actionPanLeft, 20, 0},
		{actionPanUp, 20, 20},
		{actionPanRight, 0, 20},
		{actionPanDown, 0, 0},
	}
	for _, tt := range tests {
		require.NoError(t, s.do(tt.a), tt.a.String())
		finish(t, s, clk)
		m := matrixOf(t, s)
		assert.InDelta(t, tt.dx, m.E, 1e-9, tt.a.String())
		assert.InDelta(t, tt.dy, m.F, 1e-9, tt.a.String())
	}
}

func TestSessionRotateAndOrigin(t *testing.T) {
	s, clk := testSession(t, nil)

	require.NoError(t, s.do(actionRotate))
	// content bbox is (0,0)-(200,100)
	want := affine.Identity().RotateAbout(15, 100, 50)
	assert.True(t, matrixOf(t, s).Equal(want, 1e-9), "got %s", matrixOf(t, s))

	require.NoError(t, s.do(actionOrigin))
	finish(t, s, clk)
	assert.True(t, matrixOf(t, s).Equal(affine.Identity(), 1e-9))
}

func TestSessionToggleAndSave(t *testing.T) {
	s, _ := testSession(t, &config.Config{Matrix: ptr("translate(3,4)")})
	var out bytes.Buffer
	s.out = &out

	require.NoError(t, s.do(actionToggle))
	assert.False(t, s.ctrl.Enabled())
	assert.Contains(t, s.status(), "gestures off")
	require.NoError(t, s.do(actionToggle))
	assert.True(t, s.ctrl.Enabled())

	require.NoError(t, s.do(actionSave))
	assert.Equal(t, "matrix(1,0,0,1,3,4)\n", out.String())
}

func TestSessionSetEasing(t *testing.T) {
	s, _ := testSession(t, nil)
	require.NoError(t, s.setEasing("bounce"))
	assert.Equal(t, "bounce", s.easing)
	assert.Error(t, s.setEasing("wobble"))
	assert.Equal(t, "bounce", s.easing)
}

func TestSessionInvalidConfig(t *testing.T) {
	doc, err := svg.ParseString(drawing)
	require.NoError(t, err)
	_, err = newSession(doc, &config.Config{ZoomScale: ptr(-1.0)})
	assert.Error(t, err)
}

func TestHitTest(t *testing.T) {
	s, _ := testSession(t, nil)

	n := s.hitTest(150, 50)
	require.NotNil(t, n)
	assert.Equal(t, "right", n.ID())
	assert.Equal(t, "left", s.hitTest(10, 10).ID())
	assert.Nil(t, s.hitTest(75, 75))

	// the content group transform applies
	require.NoError(t, s.ctrl.Init(zpd.WithMatrix(affine.Translation(100, 0))))
	assert.Equal(t, "left", s.hitTest(110, 10).ID())
}

func TestDragTarget(t *testing.T) {
	s, _ := testSession(t, nil)
	assert.Same(t, s.doc.Root, s.dragTarget(10, 10))

	require.NoError(t, s.ctrl.Configure(zpd.WithDrag(true)))
	assert.Equal(t, "left", s.dragTarget(10, 10).ID())
	assert.Same(t, s.doc.Root, s.dragTarget(75, 75))
}

func TestSessionReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.svg")
	require.NoError(t, os.WriteFile(path, []byte(drawing), 0o644))

	s, err := openSession(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, s.path)

	_, err = s.ctrl.DragStart(s.doc.Root)
	require.NoError(t, err)
	_, err = s.ctrl.DragMove(7, 9)
	require.NoError(t, err)
	require.NoError(t, s.ctrl.DragEnd())

	old := s.ctrl
	require.NoError(t, os.WriteFile(path, []byte(`<svg width="10" height="10"><circle id="c" r="2"/></svg>`), 0o644))
	require.NoError(t, s.reload())

	assert.True(t, old.Destroyed())
	assert.NotNil(t, s.doc.ElementByID("c"))
	assert.Nil(t, s.doc.ElementByID("left"))
	assert.True(t, matrixOf(t, s).Equal(affine.Translation(7, 9), 1e-9))
}

func TestOpenSessionMissingFile(t *testing.T) {
	_, err := openSession(filepath.Join(t.TempDir(), "missing.svg"), nil)
	assert.Error(t, err)
}

func TestKeyBindings(t *testing.T) {
	assert.Equal(t, actionRotate, keyBindings["R"])
	assert.Equal(t, actionQuit, keyBindings["Q"])
	assert.Equal(t, actionZoomIn, keyBindings["+"])
	assert.Equal(t, "pan-left", actionPanLeft.String())
	assert.Equal(t, "action(99)", action(99).String())
}

func TestSessionHandles(t *testing.T) {
	s, _ := testSession(t, nil)
	require.NoError(t, s.ctrl.Init(zpd.WithMatrix(affine.Scaling(2, 2))))

	require.NoError(t, s.toggleHandles(10, 10))
	require.NotNil(t, s.handles)
	left := s.doc.ElementByID("left")
	assert.Same(t, left, s.handles.Element())

	// the overlay is not content
	assert.Equal(t, "left", s.hitTest(10, 10).ID())

	// left is 0..50 in content space, 0..100 on screen
	assert.Equal(t, freetransform.TranslateHandle, s.handleAt(50, 50))
	assert.Equal(t, freetransform.RotateHandle, s.handleAt(300, 50))
	assert.Equal(t, freetransform.NoHandle, s.handleAt(150, 150))

	ok, err := s.handleStart(52, 48)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.handleMove(20, 10))
	require.NoError(t, s.handleEnd())
	assert.Equal(t, freetransform.NoHandle, s.handle)

	m, err := left.Transform()
	require.NoError(t, err)
	assert.True(t, m.Equal(affine.Translation(10, 5), 1e-9), "got %v", m)

	ok, err = s.handleStart(150, 150)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.toggleHandles(0, 0))
	assert.Nil(t, s.handles)
	assert.Empty(t, s.doc.Root.FindByClass(freetransform.OverlayClass))
}

func TestSessionHandlesMiss(t *testing.T) {
	s, _ := testSession(t, nil)
	require.NoError(t, s.toggleHandles(75, 75))
	assert.Nil(t, s.handles)
	assert.Equal(t, freetransform.NoHandle, s.handleAt(75, 75))
}

func TestSessionZoomKeysAfterLoad(t *testing.T) {
	s, clk := testSession(t, &config.Config{Viewer: config.Viewer{ZoomStep: ptr(1.25)}})
	require.NoError(t, s.ctrl.Init(zpd.WithMatrix(affine.Scaling(2, 2))))

	require.NoError(t, s.do(actionZoomIn))
	finish(t, s, clk)
	sx, _ := matrixOf(t, s).ScaleFactors()
	assert.InDelta(t, 2.5, sx, 1e-9)
}
