package ops

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// MSEOp represents the mean squared error: output = mean((p - t)^2), shape [1, 1].
//
// Backward pass:
//   - grad_p = outputGrad * 2(p - t) / n
//   - grad_t = -grad_p
type MSEOp struct {
	binary
}

// NewMSEOp creates a new MSEOp for prediction p and target t.
func NewMSEOp(p, t, output *tensor.Tensor) *MSEOp {
	return &MSEOp{newBinary(p, t, output)}
}

// Backward computes gradients for the prediction and the target.
func (op *MSEOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	d, err := outputGrad.Item()
	if err != nil {
		return nil, err
	}
	diff, err := tensor.Sub(op.inputs[0], op.inputs[1])
	if err != nil {
		return nil, err
	}
	n := scalar.FromInt(int64(diff.NumElements()))
	factor := scalar.Two.Div(n).Mul(d)

	gradP := tensor.Scale(diff, factor)
	return []*tensor.Tensor{gradP, tensor.Neg(gradP)}, nil
}
