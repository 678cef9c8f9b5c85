package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/pkg/errors"
)

// Full creates a tensor filled with value.
// Panics if the shape is invalid.
//
// Example:
//
//	t := tensor.Full(tensor.Shape{3, 3}, scalar.Two)
func Full(shape Shape, value scalar.Scalar) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	data := make([]scalar.Scalar, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return wrap(shape.Clone(), data)
}

// Zeros creates a tensor filled with canonical Zero.
func Zeros(shape Shape) *Tensor {
	return Full(shape, scalar.Zero)
}

// Ones creates a tensor filled with One.
func Ones(shape Shape) *Tensor {
	return Full(shape, scalar.One)
}

// FromInts creates a tensor from integer literals.
func FromInts(shape Shape, values []int64) (*Tensor, error) {
	data := make([]scalar.Scalar, len(values))
	for i, v := range values {
		data[i] = scalar.FromInt(v)
	}
	return New(shape, data)
}

// FromFloat64s creates a tensor from float64 values, converted with
// scalar.FromFloat64.
func FromFloat64s(shape Shape, values []float64) (*Tensor, error) {
	data := make([]scalar.Scalar, len(values))
	for i, v := range values {
		data[i] = scalar.FromFloat64(v)
	}
	return New(shape, data)
}

// Parse creates a tensor from textual Scalars (see scalar.Parse), which
// allows literal exceptional values such as "undefined(0/0)".
func Parse(shape Shape, values []string) (*Tensor, error) {
	data := make([]scalar.Scalar, len(values))
	for i, v := range values {
		s, err := scalar.Parse(v)
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d", i)
		}
		data[i] = s
	}
	return New(shape, data)
}

// Uniform creates a tensor with values drawn uniformly from [lo, hi).
// Panics if the shape is invalid.
func Uniform(shape Shape, lo, hi float64, r *rand.Rand) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = scalar.FromFloat64(lo + (hi-lo)*r.Float64())
	}
	return t
}
