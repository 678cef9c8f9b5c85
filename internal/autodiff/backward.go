package autodiff

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Backward computes gradients of loss with respect to every tensor on the
// tape that requires one.
//
// Algorithm:
//  1. Seed the loss gradient with One
//  2. Walk operations in reverse order from the one that produced loss
//  3. For each operation, compute input gradients using the chain rule
//  4. Sum gradients when the same tensor is used more than once
//  5. Add each final gradient into the tensor's grad buffer
//
// Grad buffers are accumulated into, never overwritten, so calling Backward
// for several losses sums their gradients.
func (g *Graph) Backward(loss *tensor.Tensor) error {
	if !loss.HasGrad() {
		return errors.Wrapf(ErrInvariant, "backward: loss %v has no gradient buffer", loss.Shape())
	}
	if len(g.nodes) == 0 {
		return errors.Wrap(ErrInvariant, "backward: no operations recorded")
	}
	last := g.indexOf(loss)
	if last < 0 {
		return errors.Wrap(ErrInvariant, "backward: loss was not produced by this graph")
	}

	grads := map[*tensor.Tensor]*tensor.Tensor{
		loss: tensor.Full(loss.Shape(), scalar.One),
	}
	// Tensors in first-seen order, so accumulation is deterministic.
	order := []*tensor.Tensor{loss}

	for i := last; i >= 0; i-- {
		op := g.nodes[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads, err := op.Backward(outGrad)
		if err != nil {
			return errors.WithMessagef(err, "backward of node %d (%T)", i, op)
		}
		for j, in := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil || !in.RequiresGrad() {
				continue
			}
			existing, ok := grads[in]
			if !ok {
				grads[in] = inputGrads[j]
				order = append(order, in)
				continue
			}
			sum, err := tensor.Add(existing, inputGrads[j])
			if err != nil {
				return errors.WithMessagef(err, "accumulate gradient of node %d (%T)", i, op)
			}
			grads[in] = sum
		}
	}

	for _, t := range order {
		if err := t.AccumulateGrad(grads[t]); err != nil {
			return err
		}
	}
	klog.V(2).Infof("autodiff: backward over %d nodes, %d gradients", last+1, len(order))
	return nil
}
