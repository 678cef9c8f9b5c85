package ops

import "github.com/born-ml/exact/internal/tensor"

// AddOp represents an element-wise addition operation: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
//
// Shapes match exactly, so no reduction is needed.
type AddOp struct {
	binary
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.Tensor) *AddOp {
	return &AddOp{newBinary(a, b, output)}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	return []*tensor.Tensor{outputGrad.Clone(), outputGrad.Clone()}, nil
}
