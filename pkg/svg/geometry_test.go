package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

func TestBBoxBasics(t *testing.T) {
	b := EmptyBBox()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0.0, b.Width())

	b.Expand(Point{1, 2})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, 0.0, b.Width())

	b.Expand(Point{5, -2})
	assert.Equal(t, 4.0, b.Width())
	assert.Equal(t, 4.0, b.Height())
	assert.Equal(t, Point{3, 0}, b.Center())
	assert.True(t, b.Contains(Point{3, 1}))
	assert.False(t, b.Contains(Point{6, 1}))

	u := b.Union(EmptyBBox())
	assert.Equal(t, b, u)
	u = b.Union(Rect(10, 10, 1, 1))
	assert.Equal(t, Point{11, 11}, u.Max)
	assert.True(t, u.Intersects(b))
}

func TestBBoxTransform(t *testing.T) {
	b := Rect(0, 0, 10, 20)
	got := b.Transform(affine.Rotation(90))
	assert.InDelta(t, -20, got.Min.X, 1e-9)
	assert.InDelta(t, 0, got.Max.X, 1e-9)
	assert.InDelta(t, 0, got.Min.Y, 1e-9)
	assert.InDelta(t, 10, got.Max.Y, 1e-9)

	assert.True(t, EmptyBBox().Transform(affine.Scaling(2, 2)).IsEmpty())
}

func TestNodeBBox(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want BBox
	}{
		{"rect", `<rect x="1" y="2" width="3" height="4"/>`, Rect(1, 2, 3, 4)},
		{"rect units", `<rect width="1in" height="96px"/>`, Rect(0, 0, 96, 96)},
		{"circle", `<circle cx="10" cy="10" r="5"/>`, Rect(5, 5, 10, 10)},
		{"ellipse", `<ellipse cx="0" cy="0" rx="4" ry="2"/>`, Rect(-4, -2, 8, 4)},
		{"line", `<line x1="3" y1="0" x2="0" y2="3"/>`, Rect(0, 0, 3, 3)},
		{"polygon", `<polygon points="0,0 10,0 5,8"/>`, Rect(0, 0, 10, 8)},
		{"path", `<path d="M10 10 h20 v20 z"/>`, Rect(10, 10, 20, 20)},
		{"group", `<g><rect width="10" height="10"/><rect transform="translate(20,0)" width="10" height="10"/></g>`, Rect(0, 0, 30, 10)},
		{"group ignores own transform", `<g transform="scale(5)"><rect width="1" height="1"/></g>`, Rect(0, 0, 1, 1)},
		{"defs skipped", `<g><defs><rect width="100" height="100"/></defs><rect width="1" height="1"/></g>`, Rect(0, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(`<svg>` + tt.src + `</svg>`)
			require.NoError(t, err)
			got, err := doc.Root.Children[0].BBox()
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Min.X, got.Min.X, 1e-9)
			assert.InDelta(t, tt.want.Min.Y, got.Min.Y, 1e-9)
			assert.InDelta(t, tt.want.Max.X, got.Max.X, 1e-9)
			assert.InDelta(t, tt.want.Max.Y, got.Max.Y, 1e-9)
		})
	}
}

func TestNodeBBoxEmpty(t *testing.T) {
	for _, src := range []string{`<rect width="0" height="5"/>`, `<circle r="-1"/>`, `<text>x</text>`, `<g/>`} {
		doc, err := ParseString(`<svg>` + src + `</svg>`)
		require.NoError(t, err)
		got, err := doc.Root.Children[0].BBox()
		require.NoError(t, err)
		assert.True(t, got.IsEmpty(), src)
	}
}

func TestNodeBBoxErrors(t *testing.T) {
	doc, err := ParseString(`<svg><polyline points="0,0 a,b"/><path d="M 0 0 L 1"/></svg>`)
	require.NoError(t, err)
	for _, n := range doc.Root.Children {
		_, err := n.BBox()
		assert.Error(t, err, n.Name)
	}
}
