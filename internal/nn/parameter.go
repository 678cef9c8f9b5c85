package nn

import (
	"github.com/born-ml/exact/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The underlying tensor requires a gradient, so it owns a grad buffer that
// autodiff.Graph.Backward accumulates into.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad()
type Parameter struct {
	name   string
	tensor *tensor.Tensor
}

// NewParameter creates a new trainable parameter and marks t as requiring
// gradients.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t.RequireGrad(),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient buffer.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.tensor.Grad()
}

// ZeroGrad resets the gradient buffer to Zero.
//
// This should be called before each training iteration, since backward
// accumulates.
func (p *Parameter) ZeroGrad() error {
	return p.tensor.ZeroGrad()
}

// Tensors returns the tensors of params, in order.
func Tensors(params []*Parameter) []*tensor.Tensor {
	out := make([]*tensor.Tensor, len(params))
	for i, p := range params {
		out[i] = p.tensor
	}
	return out
}
