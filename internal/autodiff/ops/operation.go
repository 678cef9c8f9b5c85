// Package ops defines the differentiable operations recorded by an
// autodiff.Graph.
//
// Each operation keeps its inputs and output from the forward pass and
// computes input gradients from the output gradient:
//   - AddOp: d(a+b)/da = 1, d(a+b)/db = 1
//   - SubOp: d(a-b)/da = 1, d(a-b)/db = -1
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - ScaleOp: d(a*s)/da = s
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - TransposeOp: d(A^T)/dA = grad^T
//   - ReLUOp: grad where x > 0, Zero where x <= 0, x itself where x is Undefined
//   - SumOp, MeanOp: broadcast of the scalar gradient (divided by n for mean)
//   - MSEOp: 2(p-t)/n to the prediction, negated to the target
//
// All gradient arithmetic is Scalar arithmetic, so exceptional values flow
// through backward exactly as they do forward.
package ops

import "github.com/born-ml/exact/internal/tensor"

// Operation is a differentiable node in the computation graph.
type Operation interface {
	// Backward returns one gradient per input, given the gradient of the
	// output. Entries may be nil for inputs that receive no gradient.
	Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error)

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}

// binary holds the common state of two-input operations.
type binary struct {
	inputs []*tensor.Tensor // [a, b]
	output *tensor.Tensor
}

func newBinary(a, b, output *tensor.Tensor) binary {
	return binary{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Inputs returns the input tensors [a, b].
func (op *binary) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor.
func (op *binary) Output() *tensor.Tensor { return op.output }

// unary holds the common state of single-input operations.
type unary struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// Inputs returns the input tensor [x].
func (op *unary) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the output tensor.
func (op *unary) Output() *tensor.Tensor { return op.output }
