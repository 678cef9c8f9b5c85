package ops

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// SumOp represents the sum of all elements: output = sum(a), shape [1, 1].
//
// Backward pass:
//   - every element of grad_a is the scalar outputGrad
type SumOp struct {
	unary
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.Tensor) *SumOp {
	return &SumOp{unary{input: input, output: output}}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	d, err := outputGrad.Item()
	if err != nil {
		return nil, err
	}
	return []*tensor.Tensor{tensor.Full(op.input.Shape(), d)}, nil
}

// MeanOp represents the mean of all elements: output = sum(a) / n, shape [1, 1].
//
// Backward pass:
//   - every element of grad_a is outputGrad / n
type MeanOp struct {
	unary
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(input, output *tensor.Tensor) *MeanOp {
	return &MeanOp{unary{input: input, output: output}}
}

// Backward broadcasts the scalar gradient divided by n to the input shape.
func (op *MeanOp) Backward(outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	d, err := outputGrad.Item()
	if err != nil {
		return nil, err
	}
	n := scalar.FromInt(int64(op.input.NumElements()))
	return []*tensor.Tensor{tensor.Full(op.input.Shape(), d.Div(n))}, nil
}
