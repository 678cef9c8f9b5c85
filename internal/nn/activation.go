package nn

import (
	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x). Undefined inputs
// pass through unchanged.
type ReLU struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation.
func (r *ReLU) Forward(g *autodiff.Graph, input *tensor.Tensor) (*tensor.Tensor, error) {
	return g.ReLU(input), nil
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}
