package ops

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// Backward pass, per element of the pre-activation x:
//   - x Undefined: the gradient is x itself, so the cause reaches the parameters
//   - x <= Zero (including -Vanished and -Infinite): Zero
//   - otherwise: outputGrad
//
// The gradient is selected, not multiplied by a mask, so an Infinite
// upstream gradient at an inactive unit still yields Zero.
type ReLUOp struct {
	unary
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.Tensor) *ReLUOp {
	return &ReLUOp{unary{input: input, output: output}}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	if !outputGrad.Shape().Equal(op.input.Shape()) {
		return nil, tensor.Mismatch("relu backward", op.input.Shape(), outputGrad.Shape())
	}
	grad := outputGrad.Clone()
	g := grad.Data()
	for i, x := range op.input.Data() {
		switch {
		case x.IsUndefined():
			g[i] = x
		case x.LessEqual(scalar.Zero):
			g[i] = scalar.Zero
		}
	}
	return []*tensor.Tensor{grad}, nil
}
