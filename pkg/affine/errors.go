package affine

import (
	"errors"
	"fmt"
)

// Epsilon is the smallest determinant magnitude treated as invertible.
const Epsilon = 1e-12

// ErrSingular is wrapped by every NumericError.
var ErrSingular = errors.New("affine: singular matrix")

// NumericError reports an operation that would produce NaN or infinite
// coefficients, such as inverting a matrix with a zero determinant.
type NumericError struct {
	Op          string
	Determinant float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("affine: %s: determinant %g is too close to zero", e.Op, e.Determinant)
}

func (e *NumericError) Unwrap() error {
	return ErrSingular
}
