// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides the public API for reverse-mode automatic
// differentiation over Scalar tensors.
//
// A Graph records operations whose inputs require gradients. Backward walks
// the recorded tape in reverse and accumulates gradients into the grad
// buffers of the tensors that requested them.
//
// Example:
//
//	g := autodiff.NewGraph()
//	w := tensor.Ones(tensor.Shape{2, 1}).RequireGrad()
//	y, _ := g.MatMul(x, w)
//	loss, _ := g.MSE(y, target)
//	_ = g.Backward(loss)
//	fmt.Println(w.Grad())
package autodiff

import (
	"github.com/born-ml/exact/internal/autodiff"
)

// Graph records differentiable operations.
type Graph = autodiff.Graph

// Option configures a Graph.
type Option = autodiff.Option

// MatMuler computes matrix products for the forward pass.
type MatMuler = autodiff.MatMuler

// ErrInvariant is returned when Backward is called with a loss that cannot
// be differentiated on the graph.
var ErrInvariant = autodiff.ErrInvariant

// NewGraph creates an empty graph.
func NewGraph(opts ...Option) *Graph { return autodiff.NewGraph(opts...) }

// WithMatMul routes forward matrix products through m, e.g. a
// *backend.Context.
func WithMatMul(m MatMuler) Option { return autodiff.WithMatMul(m) }
