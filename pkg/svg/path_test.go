package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	segs, err := ParsePath("M10 10 h 20 v 20 z")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, Segment{Cmd: 'M', Pts: []Point{{10, 10}}}, segs[0])
	assert.Equal(t, Segment{Cmd: 'L', Pts: []Point{{30, 10}}}, segs[1])
	assert.Equal(t, Segment{Cmd: 'L', Pts: []Point{{30, 30}}}, segs[2])
	assert.Equal(t, byte('Z'), segs[3].Cmd)
}

func TestParsePathImplicitLineto(t *testing.T) {
	segs, err := ParsePath("m1,1 2,0 0,2")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, byte('L'), segs[1].Cmd)
	end, ok := segs[2].End()
	require.True(t, ok)
	assert.Equal(t, Point{3, 3}, end)
}

func TestParsePathCompactNumbers(t *testing.T) {
	segs, err := ParsePath("M.5.5L-1-1")
	require.NoError(t, err)
	assert.Equal(t, Point{0.5, 0.5}, segs[0].Pts[0])
	assert.Equal(t, Point{-1, -1}, segs[1].Pts[0])
}

func TestParsePathSmoothCurves(t *testing.T) {
	segs, err := ParsePath("M0 0 C0 10 10 10 10 0 S20 -10 20 0")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, Point{10, -10}, segs[2].Pts[0])

	segs, err = ParsePath("M0 0 Q5 10 10 0 T20 0")
	require.NoError(t, err)
	assert.Equal(t, Point{15, -10}, segs[2].Pts[0])
}

func TestPathBBoxCurve(t *testing.T) {
	segs, err := ParsePath("M0 0 C 0 10 10 10 10 0")
	require.NoError(t, err)
	b := PathBBox(segs)
	assert.InDelta(t, 7.5, b.Max.Y, 1e-9)
	assert.InDelta(t, 10, b.Max.X, 1e-9)
}

func TestPathBBoxArcEndpoints(t *testing.T) {
	segs, err := ParsePath("M0 0 A 5 5 0 0 1 10 0")
	require.NoError(t, err)
	b := PathBBox(segs)
	assert.Equal(t, Rect(0, 0, 10, 0), b)
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{"10 10", "M 1", "M 0 0 z 1", "M 0 0 X 1"} {
		_, err := ParsePath(d)
		assert.Error(t, err, d)
	}
}
