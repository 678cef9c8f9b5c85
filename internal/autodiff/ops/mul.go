package ops

import "github.com/born-ml/exact/internal/tensor"

// MulOp represents an element-wise multiplication operation: output = a * b.
//
// Backward pass (product rule):
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
type MulOp struct {
	binary
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.Tensor) *MulOp {
	return &MulOp{newBinary(a, b, output)}
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	a, b := op.inputs[0], op.inputs[1]

	gradA, err := tensor.Mul(outputGrad, b)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.Mul(outputGrad, a)
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{gradA, gradB}, nil
}
