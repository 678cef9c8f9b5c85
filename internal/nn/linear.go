package nn

import (
	"math/rand/v2"

	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + 1 @ b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias row with shape [1, out_features]
//   - 1 is a [batch_size, 1] column of ones
//   - y is the output tensor with shape [batch_size, out_features]
//
// Tensors never broadcast, so the bias is expanded to every row by the
// ones-column product.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [in_features, out_features]
	bias        *Parameter // [1, out_features]
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution drawn
// from r. Biases are initialized to Zero.
func NewLinear(inFeatures, outFeatures int, r *rand.Rand) *Linear {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, r)
	bias := tensor.Zeros(tensor.Shape{1, outFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// NewLinearFrom creates a Linear layer around existing weight [in, out] and
// bias [1, out] tensors.
func NewLinearFrom(weight, bias *tensor.Tensor) (*Linear, error) {
	in, out := weight.Shape().Matrix()
	if len(weight.Shape()) != 2 || !bias.Shape().Equal(tensor.Shape{1, out}) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "linear: weight %v with bias %v", weight.Shape(), bias.Shape())
	}
	return &Linear{
		inFeatures:  in,
		outFeatures: out,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}, nil
}

// Forward computes the output of the linear layer.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear) Forward(g *autodiff.Graph, input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch,
			"linear: expected input [batch, %d], got %v", l.inFeatures, shape)
	}

	output, err := g.MatMul(input, l.weight.Tensor())
	if err != nil {
		return nil, err
	}

	ones := tensor.Ones(tensor.Shape{shape[0], 1})
	bias, err := g.MatMul(ones, l.bias.Tensor())
	if err != nil {
		return nil, err
	}
	return g.Add(output, bias)
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to tensors.
func (l *Linear) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"weight": l.weight.Tensor(),
		"bias":   l.bias.Tensor(),
	}
}

// LoadStateDict copies parameter values from a state dictionary.
func (l *Linear) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	for _, p := range l.Parameters() {
		src, ok := stateDict[p.Name()]
		if !ok {
			return errors.Errorf("missing %s in state dict", p.Name())
		}
		if err := p.Tensor().CopyFrom(src); err != nil {
			return errors.WithMessagef(err, "load %s", p.Name())
		}
	}
	return nil
}
