package tensor

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/pkg/errors"
)

// MatMul returns a @ b for a of shape [M, K] and b of shape [K, N].
//
// Each output cell is reduced left to right over k, starting from Zero:
//
//	c[i,j] = ((0 + a[i,0]*b[0,j]) + a[i,1]*b[1,j]) + ...
//
// The order is part of the contract: accelerator backends reproduce it
// exactly.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "matmul requires 2D tensors, got %v and %v", a.shape, b.shape)
	}
	m, k := a.shape[0], a.shape[1]
	n := b.shape[1]
	if b.shape[0] != k {
		return nil, Mismatch("matmul", a.shape, b.shape)
	}
	out := make([]scalar.Scalar, m*n)
	for i := 0; i < m; i++ {
		row := a.data[i*k : (i+1)*k]
		for j := 0; j < n; j++ {
			acc := scalar.Zero
			for p, av := range row {
				acc = acc.Add(av.Mul(b.data[p*n+j]))
			}
			out[i*n+j] = acc
		}
	}
	return wrap(Shape{m, n}, out), nil
}

// Transpose returns the transpose of a 2D tensor. Values are only moved.
func Transpose(t *Tensor) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "transpose requires a 2D tensor, got %v", t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	out := make([]scalar.Scalar, len(t.data))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c*rows+r] = t.data[r*cols+c]
		}
	}
	return wrap(Shape{cols, rows}, out), nil
}

func zipWith(op string, a, b *Tensor, f func(x, y scalar.Scalar) scalar.Scalar) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, Mismatch(op, a.shape, b.shape)
	}
	out := make([]scalar.Scalar, len(a.data))
	for i := range a.data {
		out[i] = f(a.data[i], b.data[i])
	}
	return wrap(a.shape.Clone(), out), nil
}

// Add returns a + b elementwise. Shapes must match exactly.
func Add(a, b *Tensor) (*Tensor, error) {
	return zipWith("add", a, b, scalar.Scalar.Add)
}

// Sub returns a - b elementwise. Shapes must match exactly.
func Sub(a, b *Tensor) (*Tensor, error) {
	return zipWith("sub", a, b, scalar.Scalar.Sub)
}

// Mul returns a * b elementwise. Shapes must match exactly.
func Mul(a, b *Tensor) (*Tensor, error) {
	return zipWith("mul", a, b, scalar.Scalar.Mul)
}

// Map applies f to every element.
func Map(t *Tensor, f func(scalar.Scalar) scalar.Scalar) *Tensor {
	out := make([]scalar.Scalar, len(t.data))
	for i, v := range t.data {
		out[i] = f(v)
	}
	return wrap(t.shape.Clone(), out)
}

// Scale returns t * s elementwise.
func Scale(t *Tensor, s scalar.Scalar) *Tensor {
	return Map(t, func(v scalar.Scalar) scalar.Scalar { return v.Mul(s) })
}

// Neg returns -t elementwise.
func Neg(t *Tensor) *Tensor {
	return Map(t, scalar.Scalar.Neg)
}

// ReLU returns max(0, x) elementwise.
//
// Values are classified before comparing: Undefined passes through with its
// cause intact. Zero, negative values, -Vanished and -Infinite map to Zero.
func ReLU(t *Tensor) *Tensor {
	return Map(t, relu)
}

func relu(v scalar.Scalar) scalar.Scalar {
	if v.IsUndefined() {
		return v
	}
	if v.LessEqual(scalar.Zero) {
		return scalar.Zero
	}
	return v
}

// Sum reduces all elements in row-major order and returns a [1, 1] tensor.
func Sum(t *Tensor) *Tensor {
	acc := scalar.Zero
	for _, v := range t.data {
		acc = acc.Add(v)
	}
	return wrap(Shape{1, 1}, []scalar.Scalar{acc})
}

// Mean returns Sum(t) / NumElements as a [1, 1] tensor.
func Mean(t *Tensor) *Tensor {
	s := Sum(t)
	s.data[0] = s.data[0].Div(scalar.FromInt(int64(len(t.data))))
	return s
}

// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() (scalar.Scalar, error) {
	if len(t.data) != 1 {
		return scalar.Undefined(scalar.Malformed), errors.Wrapf(ErrShapeMismatch, "item of tensor %v", t.shape)
	}
	return t.data[0], nil
}
