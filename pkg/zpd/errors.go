package zpd

import "errors"

var (
	// ErrDestroyed is returned by every operation on a destroyed controller
	// except Init.
	ErrDestroyed = errors.New("zpd: controller destroyed")

	// ErrInvalidZoom is returned by ZoomTo for a zoom that is not a finite
	// positive number.
	ErrInvalidZoom = errors.New("zpd: zoom must be a finite number greater than 0")

	// ErrInvalidOption wraps option validation failures.
	ErrInvalidOption = errors.New("zpd: invalid option")

	// ErrAnimationCanceled is passed to the DoneFunc of an animation that
	// was superseded by a gesture, another animation, Disable or Destroy.
	ErrAnimationCanceled = errors.New("zpd: animation canceled")

	// ErrNoContent is returned by Init for a nil document or a document
	// without a root element.
	ErrNoContent = errors.New("zpd: document has no root element")

	// ErrInvalidCoordinate is returned by PanTo for a malformed coordinate.
	ErrInvalidCoordinate = errors.New("zpd: invalid coordinate")
)
