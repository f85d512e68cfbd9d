package affine

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 2D affine transform in SVG coefficient order.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewMatrix builds a matrix from the six coefficients of matrix(a,b,c,d,e,f).
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Translation creates a translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scaling creates a scaling matrix.
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotation creates a rotation matrix, angle in degrees. Positive angles
// rotate clockwise in SVG's y-down coordinate system.
func Rotation(degrees float64) Matrix {
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sincos(rad)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// SkewX creates a horizontal skew matrix, angle in degrees.
func SkewX(degrees float64) Matrix {
	return Matrix{A: 1, C: math.Tan(degrees * math.Pi / 180.0), D: 1}
}

// SkewY creates a vertical skew matrix, angle in degrees.
func SkewY(degrees float64) Matrix {
	return Matrix{A: 1, B: math.Tan(degrees * math.Pi / 180.0), D: 1}
}

// Multiply returns m·n: n is applied first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Translate returns m·T(dx,dy). The translation is expressed in the local
// coordinate space of m, like SVGMatrix.translate.
func (m Matrix) Translate(dx, dy float64) Matrix {
	return m.Multiply(Translation(dx, dy))
}

// Offset returns T(dx,dy)·m. The translation is expressed in the space m maps
// into, so screen or viewport deltas can be applied without first scaling
// them by m.
func (m Matrix) Offset(dx, dy float64) Matrix {
	m.E += dx
	m.F += dy
	return m
}

// Scale returns m·S(f,f).
func (m Matrix) Scale(f float64) Matrix {
	return m.Multiply(Scaling(f, f))
}

// ScaleNonUniform returns m·S(sx,sy).
func (m Matrix) ScaleNonUniform(sx, sy float64) Matrix {
	return m.Multiply(Scaling(sx, sy))
}

// Rotate returns m·R(degrees).
func (m Matrix) Rotate(degrees float64) Matrix {
	return m.Multiply(Rotation(degrees))
}

// ScaleAboutPoint returns m·T(px,py)·S(f)·T(-px,-py). The point (px,py),
// given in the local space of m, maps to the same place under the result as
// under m.
func (m Matrix) ScaleAboutPoint(f, px, py float64) Matrix {
	return m.Translate(px, py).Scale(f).Translate(-px, -py)
}

// RotateAbout returns m·T(px,py)·R(degrees)·T(-px,-py).
func (m Matrix) RotateAbout(degrees, px, py float64) Matrix {
	return m.Translate(px, py).Rotate(degrees).Translate(-px, -py)
}

// Linear returns m with its translation removed.
func (m Matrix) Linear() Matrix {
	m.E, m.F = 0, 0
	return m
}

// Determinant returns A·D - B·C.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse of m. A determinant within Epsilon of zero
// yields a *NumericError and the identity matrix.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) <= Epsilon || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), &NumericError{Op: "invert", Determinant: det}
	}

	inv := 1.0 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, nil
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ApplyVector transforms the vector (x, y), ignoring translation.
func (m Matrix) ApplyVector(x, y float64) (float64, float64) {
	return m.A*x + m.C*y, m.B*x + m.D*y
}

// ScaleFactors returns the length of the transformed unit x and y axes.
func (m Matrix) ScaleFactors() (sx, sy float64) {
	return math.Hypot(m.A, m.B), math.Hypot(m.C, m.D)
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsFinite reports whether every coefficient is a finite number.
func (m Matrix) IsFinite() bool {
	for _, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equal reports whether every coefficient of m and n differs by at most eps.
func (m Matrix) Equal(n Matrix, eps float64) bool {
	return math.Abs(m.A-n.A) <= eps &&
		math.Abs(m.B-n.B) <= eps &&
		math.Abs(m.C-n.C) <= eps &&
		math.Abs(m.D-n.D) <= eps &&
		math.Abs(m.E-n.E) <= eps &&
		math.Abs(m.F-n.F) <= eps
}

// Lerp interpolates every coefficient between m (t=0) and n (t=1).
func (m Matrix) Lerp(n Matrix, t float64) Matrix {
	return Matrix{
		A: m.A + (n.A-m.A)*t,
		B: m.B + (n.B-m.B)*t,
		C: m.C + (n.C-m.C)*t,
		D: m.D + (n.D-m.D)*t,
		E: m.E + (n.E-m.E)*t,
		F: m.F + (n.F-m.F)*t,
	}
}

// String returns the transform attribute form matrix(a,b,c,d,e,f).
func (m Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatNumber(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Dump returns a three-row layout of m for debug output.
func (m Matrix) Dump() string {
	return "[ " + formatNumber(m.A) + ", " + formatNumber(m.C) + ", " + formatNumber(m.E) + "\n  " +
		formatNumber(m.B) + ", " + formatNumber(m.D) + ", " + formatNumber(m.F) + "\n  0, 0, 1 ]"
}

func formatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
