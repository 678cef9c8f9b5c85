// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for 2-D tensors of Scalars.
//
// Elementwise operations require identical shapes: there is no broadcasting
// and no implicit reshaping. Reductions and matrix products run in a fixed
// row-major order, so results are reproducible bit for bit.
//
// Example:
//
//	a, _ := tensor.FromInts(tensor.Shape{2, 2}, []int64{5, 3, 2, 7})
//	b, _ := tensor.FromInts(tensor.Shape{2, 2}, []int64{1, 4, 6, 2})
//	c, _ := tensor.MatMul(a, b) // [[23 26] [44 22]]
package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/exact/internal/tensor"
	"github.com/born-ml/exact/scalar"
)

// Shape represents the dimensions of a tensor (rank 1 or 2).
type Shape = tensor.Shape

// Tensor is a row-major tensor of Scalars with an optional gradient buffer.
type Tensor = tensor.Tensor

// Structural errors.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrInvalidShape  = tensor.ErrInvalidShape
	ErrNoGrad        = tensor.ErrNoGrad
)

// New creates a tensor from a copy of data.
func New(shape Shape, data []scalar.Scalar) (*Tensor, error) { return tensor.New(shape, data) }

// Full creates a tensor filled with value.
func Full(shape Shape, value scalar.Scalar) *Tensor { return tensor.Full(shape, value) }

// Zeros creates a tensor filled with Zero.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Ones creates a tensor filled with One.
func Ones(shape Shape) *Tensor { return tensor.Ones(shape) }

// FromInts creates a tensor from integer literals.
func FromInts(shape Shape, values []int64) (*Tensor, error) { return tensor.FromInts(shape, values) }

// FromFloat64s creates a tensor from float64 values.
func FromFloat64s(shape Shape, values []float64) (*Tensor, error) {
	return tensor.FromFloat64s(shape, values)
}

// Parse creates a tensor from textual Scalars.
func Parse(shape Shape, values []string) (*Tensor, error) { return tensor.Parse(shape, values) }

// Uniform creates a tensor with values drawn uniformly from [lo, hi).
func Uniform(shape Shape, lo, hi float64, r *rand.Rand) *Tensor {
	return tensor.Uniform(shape, lo, hi, r)
}

// MatMul returns a @ b.
func MatMul(a, b *Tensor) (*Tensor, error) { return tensor.MatMul(a, b) }

// Transpose returns the transpose of a 2-D tensor.
func Transpose(t *Tensor) (*Tensor, error) { return tensor.Transpose(t) }

// Add returns a + b elementwise.
func Add(a, b *Tensor) (*Tensor, error) { return tensor.Add(a, b) }

// Sub returns a - b elementwise.
func Sub(a, b *Tensor) (*Tensor, error) { return tensor.Sub(a, b) }

// Mul returns a * b elementwise.
func Mul(a, b *Tensor) (*Tensor, error) { return tensor.Mul(a, b) }

// Scale returns t * s elementwise.
func Scale(t *Tensor, s scalar.Scalar) *Tensor { return tensor.Scale(t, s) }

// Neg returns -t.
func Neg(t *Tensor) *Tensor { return tensor.Neg(t) }

// ReLU returns max(0, x) elementwise; Undefined passes through.
func ReLU(t *Tensor) *Tensor { return tensor.ReLU(t) }

// Sum returns the row-major sum as a [1, 1] tensor.
func Sum(t *Tensor) *Tensor { return tensor.Sum(t) }

// Mean returns Sum / NumElements as a [1, 1] tensor.
func Mean(t *Tensor) *Tensor { return tensor.Mean(t) }
