package ops

import "github.com/born-ml/exact/internal/tensor"

// MatMulOp represents a matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
//
// Where @ denotes matrix multiplication and ^T denotes transpose.
type MatMulOp struct {
	binary
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.Tensor) *MatMulOp {
	return &MatMulOp{newBinary(a, b, output)}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	a, b := op.inputs[0], op.inputs[1]

	// grad_a = outputGrad @ b^T
	bT, err := tensor.Transpose(b)
	if err != nil {
		return nil, err
	}
	gradA, err := tensor.MatMul(outputGrad, bT)
	if err != nil {
		return nil, err
	}

	// grad_b = a^T @ outputGrad
	aT, err := tensor.Transpose(a)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.MatMul(aT, outputGrad)
	if err != nil {
		return nil, err
	}

	return []*tensor.Tensor{gradA, gradB}, nil
}
