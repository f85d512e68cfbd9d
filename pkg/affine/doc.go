// Package affine implements the 2D affine matrices used to pan, zoom and
// rotate SVG content.
//
// A Matrix holds the six coefficients of an SVG transform in the order the
// transform attribute uses them:
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
//
// which maps (x, y) to (A·x + C·y + E, B·x + D·y + F). Matrices are values;
// every operation returns a new Matrix.
//
// The String method produces the matrix(a,b,c,d,e,f) form written to the
// transform attribute, and ParseTransform reads any SVG transform list back
// into a single Matrix.
package affine
