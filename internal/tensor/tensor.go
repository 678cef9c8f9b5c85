// Package tensor implements row-major tensors of scalar.Scalar values with
// 2-D matrix semantics.
//
// There is no broadcasting: elementwise operations require identical shapes
// and report ErrShapeMismatch otherwise. Every reduction runs in a fixed
// row-major order, because Scalar addition over exceptional values is not
// associative.
//
// A tensor may own a gradient buffer of its own shape, allocated by
// RequireGrad. The autodiff package accumulates into it; ZeroGrad resets it.
package tensor

import (
	"strings"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/pkg/errors"
)

// Tensor is an ordered sequence of Scalars with a shape.
type Tensor struct {
	shape        Shape
	data         []scalar.Scalar
	grad         *Tensor // Gradient buffer, same shape (nil until RequireGrad)
	requiresGrad bool
}

// New creates a tensor from a copy of data.
func New(shape Shape, data []scalar.Scalar) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Wrapf(ErrInvalidShape, "shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}
	t := &Tensor{shape: shape.Clone(), data: make([]scalar.Scalar, len(data))}
	copy(t.data, data)
	return t, nil
}

// wrap builds a tensor around data without copying. Callers guarantee the
// shape is valid and matches.
func wrap(shape Shape, data []scalar.Scalar) *Tensor {
	return &Tensor{shape: shape, data: data}
}

// Shape returns the tensor's shape. The returned slice must not be modified.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rows returns the number of rows (1 for rank-1 tensors).
func (t *Tensor) Rows() int {
	r, _ := t.shape.Matrix()
	return r
}

// Cols returns the number of columns.
func (t *Tensor) Cols() int {
	_, c := t.shape.Matrix()
	return c
}

// Data returns the underlying row-major values.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []scalar.Scalar {
	return t.data
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) scalar.Scalar {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value scalar.Scalar, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(errors.Errorf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(errors.Errorf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// Float64s returns the values converted with scalar.Scalar.Float64.
// Intended for display and test oracles.
func (t *Tensor) Float64s() []float64 {
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = v.Float64()
	}
	return out
}

// Clone creates a deep copy of the values. Gradient state is not cloned.
func (t *Tensor) Clone() *Tensor {
	data := make([]scalar.Scalar, len(t.data))
	copy(data, t.data)
	return wrap(t.shape.Clone(), data)
}

// Detach returns a tensor sharing the same values without gradient tracking.
func (t *Tensor) Detach() *Tensor {
	return wrap(t.shape, t.data)
}

// CopyFrom overwrites t's values with src's. Shapes must match.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if !t.shape.Equal(src.shape) {
		return Mismatch("copy", t.shape, src.shape)
	}
	copy(t.data, src.data)
	return nil
}

// Equal reports whether a and b have the same shape and bit-identical values.
func (t *Tensor) Equal(other *Tensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// CountClass returns how many elements have class c.
func (t *Tensor) CountClass(c scalar.Class) int {
	n := 0
	for _, v := range t.data {
		if v.Class() == c {
			n++
		}
	}
	return n
}

// String renders the values row by row, e.g. "[[1 2] [3 undefined(0/0)]]".
func (t *Tensor) String() string {
	rows, cols := t.shape.Matrix()
	var sb strings.Builder
	if len(t.shape) == 2 {
		sb.WriteByte('[')
	}
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.data[r*cols+c].String())
		}
		sb.WriteByte(']')
	}
	if len(t.shape) == 2 {
		sb.WriteByte(']')
	}
	return sb.String()
}

// RequireGrad marks this tensor for gradient computation and allocates a
// gradient buffer filled with Zero if it has none.
//
// Returns the tensor itself for method chaining.
func (t *Tensor) RequireGrad() *Tensor {
	t.requiresGrad = true
	if t.grad == nil {
		t.grad = Zeros(t.shape)
	}
	return t
}

// RequiresGrad returns true if this tensor requires gradient computation.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// Grad returns the gradient buffer, or nil if none is allocated.
func (t *Tensor) Grad() *Tensor {
	return t.grad
}

// HasGrad reports whether a gradient buffer is allocated.
func (t *Tensor) HasGrad() bool {
	return t.grad != nil
}

// AccumulateGrad adds g into the gradient buffer. It never overwrites.
func (t *Tensor) AccumulateGrad(g *Tensor) error {
	if t.grad == nil {
		return errors.Wrapf(ErrNoGrad, "accumulate into tensor %v", t.shape)
	}
	if !t.shape.Equal(g.shape) {
		return Mismatch("accumulate grad", t.shape, g.shape)
	}
	for i, v := range g.data {
		t.grad.data[i] = t.grad.data[i].Add(v)
	}
	return nil
}

// ZeroGrad resets the gradient buffer to canonical Zero.
func (t *Tensor) ZeroGrad() error {
	if t.grad == nil {
		return errors.Wrapf(ErrNoGrad, "zero grad of tensor %v", t.shape)
	}
	for i := range t.grad.data {
		t.grad.data[i] = scalar.Zero
	}
	return nil
}
