package nn

import (
	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²), returned as a [1, 1] tensor.
//
// Example:
//
//	mse := nn.NewMSELoss()
//	loss, err := mse.Forward(g, predictions, targets)
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the loss. Shapes must match exactly.
func (l *MSELoss) Forward(g *autodiff.Graph, predictions, targets *tensor.Tensor) (*tensor.Tensor, error) {
	return g.MSE(predictions, targets)
}
