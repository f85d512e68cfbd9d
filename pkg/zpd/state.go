package zpd

import (
	"math"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

// State is the transform bookkeeping of one surface.
type State struct {
	Matrix affine.Matrix // content group transform
	Zoom   float64       // cumulative zoom, the x scale of Matrix
	Delta  float64       // sum of accepted wheel deltas

	anchor *dragAnchor
}

type dragMode int

const (
	dragPan dragMode = iota + 1
	dragElement
)

// dragAnchor is captured on drag start; every move is computed from it.
type dragAnchor struct {
	mode   dragMode
	matrix affine.Matrix // content matrix, or the target's transform in element mode
	paper  affine.Matrix // viewport matrix of the surface

	target    *svg.Node
	parentInv affine.Matrix // inverse linear part of target parent -> paper
}

func newState(m affine.Matrix) *State {
	return &State{Matrix: m, Zoom: zoomOf(m)}
}

// zoomOf is the zoom a loaded matrix stands for.
func zoomOf(m affine.Matrix) float64 {
	sx, _ := m.ScaleFactors()
	if sx <= 0 || math.IsNaN(sx) || math.IsInf(sx, 0) {
		return 1
	}
	return sx
}

// Dragging reports whether a drag gesture is in progress.
func (s *State) Dragging() bool {
	return s.anchor != nil
}
