// Package optim implements optimization algorithms over Scalar parameters.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Hyperparameters and all update arithmetic are Scalars. An element update
// that is Undefined or Infinite is skipped rather than written into the
// parameter, and reported in StepStats; training never fails because of an
// exceptional value.
//
// Example usage:
//
//	optimizer := optim.NewSGD(nn.Tensors(model.Parameters()), optim.SGDConfig{
//	    LR: scalar.FromFloat64(0.01),
//	})
//
//	for epoch := range epochs {
//	    g := autodiff.NewGraph()
//	    output, _ := model.Forward(g, input)
//	    loss, _ := g.MSE(output, targets)
//	    _ = g.Backward(loss)
//
//	    stats, _ := optimizer.Step()
//	    _ = optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter from its accumulated
	// gradient buffer.
	Step() (StepStats, error)

	// ZeroGrad resets every parameter's gradient buffer to Zero.
	ZeroGrad() error

	// LR returns the current learning rate.
	LR() scalar.Scalar
}

// StepStats counts what happened to the individual elements of one Step.
type StepStats struct {
	Updated  int // Updates written into parameters, Vanished ones included
	Skipped  int // Undefined or Infinite updates that were not applied
	Vanished int // Updates that underflowed
}

// Add returns the element-wise sum of s and o.
func (s StepStats) Add(o StepStats) StepStats {
	return StepStats{
		Updated:  s.Updated + o.Updated,
		Skipped:  s.Skipped + o.Skipped,
		Vanished: s.Vanished + o.Vanished,
	}
}

// orDefault returns s, or def when s is not a canonical Scalar (such as the
// Go zero value of an unset config field).
func orDefault(s, def scalar.Scalar) scalar.Scalar {
	if s == (scalar.Scalar{}) || !s.Valid() {
		return def
	}
	return s
}

// checkGrads verifies that every parameter owns a gradient buffer.
func checkGrads(params []*tensor.Tensor) error {
	for i, p := range params {
		if !p.HasGrad() {
			return errors.Wrapf(tensor.ErrNoGrad, "parameter %d %v", i, p.Shape())
		}
	}
	return nil
}

func zeroGrads(params []*tensor.Tensor) error {
	for _, p := range params {
		if err := p.ZeroGrad(); err != nil {
			return err
		}
	}
	return nil
}

// apply subtracts update u from parameter value p, unless u is not finite.
func apply(p, u scalar.Scalar, stats *StepStats) (scalar.Scalar, bool) {
	switch {
	case u.IsUndefined(), u.IsInfinite():
		stats.Skipped++
		return p, false
	case u.IsVanished():
		stats.Vanished++
	}
	stats.Updated++
	return p.Sub(u), true
}

func logSkipped(name string, step int, stats StepStats) {
	if stats.Skipped > 0 {
		klog.Warningf("%s step %d: skipped %d non-finite updates (%d applied, %d vanished)",
			name, step, stats.Skipped, stats.Updated, stats.Vanished)
	}
}
