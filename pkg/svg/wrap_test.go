package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrap(t *testing.T) {
	doc, err := ParseString(`<svg><rect id="a"/><circle id="b"/><g id="c"/></svg>`)
	require.NoError(t, err)
	before := names(doc.Root.Children)

	g, created := WrapChildren(doc.Root, "svg-zpd")
	require.True(t, created)
	require.Len(t, doc.Root.Children, 1)
	assert.Same(t, g, doc.Root.Children[0])
	assert.Equal(t, before, names(g.Children))
	assert.Same(t, g, g.Children[0].Parent)

	again, created := WrapChildren(doc.Root, "svg-zpd")
	assert.False(t, created)
	assert.Same(t, g, again)
	assert.Len(t, doc.Root.Children, 1)

	require.NoError(t, Unwrap(g))
	assert.Equal(t, before, names(doc.Root.Children))
	assert.Nil(t, g.Parent)
	assert.Nil(t, ContentGroup(doc.Root, "svg-zpd"))

	assert.ErrorIs(t, Unwrap(g), ErrNotWrapped)
}
