// Package nn implements neural network modules over Scalar tensors.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer
//   - ReLU activation
//   - MSELoss
//   - Sequential: Container for stacking layers
//
// Forward passes are recorded on an autodiff.Graph passed by the caller.
package nn

import (
	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger networks:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(4, 8, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(8, 1, rng),
//	)
type Module interface {
	// Forward computes the output of the module, recording on g.
	Forward(g *autodiff.Graph, input *tensor.Tensor) (*tensor.Tensor, error)

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without parameters.
	Parameters() []*Parameter
}
