package tensor

import "github.com/pkg/errors"

// Structural errors. Shapes are never reshaped or broadcast to make an
// operation fit; a mismatch is always reported.
var (
	ErrShapeMismatch = errors.New("tensor: shape mismatch")
	ErrInvalidShape  = errors.New("tensor: invalid shape")
)

// ErrNoGrad is returned when a gradient is accumulated into, or read from, a
// tensor that has no gradient buffer.
var ErrNoGrad = errors.New("tensor: no gradient buffer")

// Mismatch returns ErrShapeMismatch annotated with the operation and both shapes.
func Mismatch(op string, a, b Shape) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: %v vs %v", op, a, b)
}
