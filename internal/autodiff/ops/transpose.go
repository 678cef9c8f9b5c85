package ops

import "github.com/born-ml/exact/internal/tensor"

// TransposeOp represents a 2D transpose: output = a^T.
//
// Backward pass:
//   - grad_a = outputGrad^T
type TransposeOp struct {
	unary
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.Tensor) *TransposeOp {
	return &TransposeOp{unary{input: input, output: output}}
}

// Backward computes the input gradient for transpose.
func (op *TransposeOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	g, err := tensor.Transpose(outputGrad)
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{g}, nil
}
