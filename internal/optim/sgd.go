package optim

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{
//	    LR:       scalar.FromFloat64(0.01),
//	    Momentum: scalar.FromFloat64(0.9),
//	})
type SGD struct {
	params     []*tensor.Tensor
	lr         scalar.Scalar
	momentum   scalar.Scalar
	velocities map[*tensor.Tensor]*tensor.Tensor
	steps      int
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       scalar.Scalar // Learning rate (default: 0.01)
	Momentum scalar.Scalar // Momentum factor (default: Zero, disabled)
}

// NewSGD creates a new SGD optimizer over params. Unset config fields take
// their defaults.
func NewSGD(params []*tensor.Tensor, config SGDConfig) *SGD {
	return &SGD{
		params:     params,
		lr:         orDefault(config.LR, scalar.FromFloat64(0.01)),
		momentum:   orDefault(config.Momentum, scalar.Zero),
		velocities: make(map[*tensor.Tensor]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
//
// Returns tensor.ErrNoGrad, before touching any parameter, if a parameter
// has no gradient buffer.
func (s *SGD) Step() (StepStats, error) {
	if err := checkGrads(s.params); err != nil {
		return StepStats{}, err
	}
	s.steps++

	var stats StepStats
	for _, param := range s.params {
		var v []scalar.Scalar
		if !s.momentum.IsZero() {
			v = s.velocity(param).Data()
		}
		data := param.Data()
		for i, g := range param.Grad().Data() {
			if v == nil {
				data[i], _ = apply(data[i], s.lr.Mul(g), &stats)
				continue
			}
			// Velocity is committed only when the update is applied.
			vi := s.momentum.Mul(v[i]).Add(g)
			var ok bool
			if data[i], ok = apply(data[i], s.lr.Mul(vi), &stats); ok {
				v[i] = vi
			}
		}
	}
	logSkipped("sgd", s.steps, stats)
	return stats, nil
}

// velocity returns the velocity buffer of param, allocating it on first use.
func (s *SGD) velocity(param *tensor.Tensor) *tensor.Tensor {
	v, ok := s.velocities[param]
	if !ok {
		v = tensor.Zeros(param.Shape())
		s.velocities[param] = v
	}
	return v
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() error {
	return zeroGrads(s.params)
}

// LR returns the current learning rate.
func (s *SGD) LR() scalar.Scalar {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr scalar.Scalar) {
	s.lr = lr
}
