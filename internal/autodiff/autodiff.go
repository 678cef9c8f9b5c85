// Package autodiff implements reverse-mode automatic differentiation over
// Scalar tensors.
//
// A Graph records the operations of a forward pass on an append-only tape.
// An operation is recorded only when one of its inputs requires a gradient;
// its output then requires a gradient too. Backward walks the tape in
// reverse and accumulates gradients into the grad buffers of every tensor
// that requires one.
//
// Usage:
//
//	g := autodiff.NewGraph()
//	w := tensor.Ones(tensor.Shape{1, 1}).RequireGrad()
//	y, _ := g.MatMul(x, w)
//	loss, _ := g.MSE(y, target)
//	_ = g.Backward(loss)
//	fmt.Println(w.Grad())
//	g.Reset()
package autodiff

import (
	"github.com/born-ml/exact/internal/autodiff/ops"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// ErrInvariant reports a misuse of the graph: backward from a loss without a
// gradient buffer, from an empty tape, or from a tensor the graph did not
// produce.
var ErrInvariant = errors.New("autodiff: invariant violation")

// MatMuler computes a matrix product. *backend.Context implements it, which
// lets the forward matmul run on an accelerator.
type MatMuler interface {
	MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error)
}

type cpuMatMul struct{}

func (cpuMatMul) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.MatMul(a, b)
}

// Option configures a Graph.
type Option func(*Graph)

// WithMatMul routes the forward matrix products of the graph through m.
// Backward products always use the CPU path.
func WithMatMul(m MatMuler) Option {
	return func(g *Graph) {
		g.matmul = m
	}
}

// Graph is a tape of differentiable operations.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	nodes  []ops.Operation
	matmul MatMuler
}

// NewGraph creates an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		nodes:  make([]ops.Operation, 0, 16),
		matmul: cpuMatMul{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MatMul returns a @ b.
func (g *Graph) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := g.matmul.MatMul(a, b)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewMatMulOp(a, b, out)), nil
}

// Add returns a + b.
func (g *Graph) Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.Add(a, b)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewAddOp(a, b, out)), nil
}

// Sub returns a - b.
func (g *Graph) Sub(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.Sub(a, b)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewSubOp(a, b, out)), nil
}

// Mul returns a * b elementwise.
func (g *Graph) Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.Mul(a, b)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewMulOp(a, b, out)), nil
}

// Scale returns a * s.
func (g *Graph) Scale(a *tensor.Tensor, s scalar.Scalar) *tensor.Tensor {
	return g.record(ops.NewScaleOp(a, tensor.Scale(a, s), s))
}

// Transpose returns a^T.
func (g *Graph) Transpose(a *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.Transpose(a)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewTransposeOp(a, out)), nil
}

// ReLU returns max(0, x) elementwise.
func (g *Graph) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return g.record(ops.NewReLUOp(x, tensor.ReLU(x)))
}

// Sum returns the [1, 1] sum of all elements.
func (g *Graph) Sum(a *tensor.Tensor) *tensor.Tensor {
	return g.record(ops.NewSumOp(a, tensor.Sum(a)))
}

// Mean returns the [1, 1] mean of all elements.
func (g *Graph) Mean(a *tensor.Tensor) *tensor.Tensor {
	return g.record(ops.NewMeanOp(a, tensor.Mean(a)))
}

// MSE returns the [1, 1] mean squared error between prediction and target.
func (g *Graph) MSE(prediction, target *tensor.Tensor) (*tensor.Tensor, error) {
	diff, err := tensor.Sub(prediction, target)
	if err != nil {
		return nil, err
	}
	sq, err := tensor.Mul(diff, diff)
	if err != nil {
		return nil, err
	}
	return g.record(ops.NewMSEOp(prediction, target, tensor.Mean(sq))), nil
}
