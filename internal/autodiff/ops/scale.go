package ops

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// ScaleOp represents multiplication by a constant: output = a * s.
//
// Backward pass:
//   - d(a*s)/da = s, so grad_a = outputGrad * s
type ScaleOp struct {
	unary
	factor scalar.Scalar
}

// NewScaleOp creates a new ScaleOp.
func NewScaleOp(input, output *tensor.Tensor, factor scalar.Scalar) *ScaleOp {
	return &ScaleOp{unary: unary{input: input, output: output}, factor: factor}
}

// Backward computes the input gradient for scaling.
func (op *ScaleOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	return []*tensor.Tensor{tensor.Scale(outputGrad, op.factor)}, nil
}
