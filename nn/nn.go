// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network building blocks.
//
// Example:
//
//	r := rand.New(rand.NewPCG(1, 2))
//	model := nn.NewSequential(
//	    nn.NewLinear(4, 8, r),
//	    nn.NewReLU(),
//	    nn.NewLinear(8, 1, r),
//	)
//	g := autodiff.NewGraph()
//	out, err := model.Forward(g, x)
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/exact/internal/nn"
	"github.com/born-ml/exact/internal/serialization"
	"github.com/born-ml/exact/tensor"
)

// Module is a differentiable network component.
type Module = nn.Module

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Linear is a fully connected layer: y = x @ W + b.
type Linear = nn.Linear

// ReLU is the rectified linear activation.
type ReLU = nn.ReLU

// Sequential chains modules.
type Sequential = nn.Sequential

// MSELoss is the mean squared error loss.
type MSELoss = nn.MSELoss

// NewParameter creates a parameter and allocates its gradient buffer.
func NewParameter(name string, t *tensor.Tensor) *Parameter { return nn.NewParameter(name, t) }

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear(in, out int, r *rand.Rand) *Linear { return nn.NewLinear(in, out, r) }

// NewLinearFrom creates a Linear layer from existing weight and bias tensors.
func NewLinearFrom(weight, bias *tensor.Tensor) (*Linear, error) {
	return nn.NewLinearFrom(weight, bias)
}

// NewReLU creates a ReLU module.
func NewReLU() *ReLU { return nn.NewReLU() }

// NewSequential chains modules in order.
func NewSequential(modules ...Module) *Sequential { return nn.NewSequential(modules...) }

// NewMSELoss creates an MSE loss.
func NewMSELoss() *MSELoss { return nn.NewMSELoss() }

// Tensors returns the tensors behind params, for optimizers.
func Tensors(params []*Parameter) []*tensor.Tensor { return nn.Tensors(params) }

// Xavier returns a tensor initialized with Xavier/Glorot uniform values.
func Xavier(fanIn, fanOut int, shape tensor.Shape, r *rand.Rand) *tensor.Tensor {
	return nn.Xavier(fanIn, fanOut, shape, r)
}

// Stateful is a module whose parameters can be exported and restored.
// Linear and Sequential implement it.
type Stateful interface {
	StateDict() map[string]*tensor.Tensor
	LoadStateDict(stateDict map[string]*tensor.Tensor) error
}

// Header is the metadata stored alongside a saved state dictionary.
type Header = serialization.Header

// CheckpointMeta records training progress in a saved file.
type CheckpointMeta = serialization.CheckpointMeta

// Save writes the module's state dictionary to a .exact file.
// Values are stored bit-exactly, including exceptional ones.
//
// Example:
//
//	err := nn.Save(model, "model.exact", "Sequential", nil)
func Save(module Stateful, path, modelType string, metadata map[string]string) error {
	return serialization.Save(path, module.StateDict(), Header{ModelType: modelType, Metadata: metadata})
}

// Load reads a .exact file into module, verifying the data checksum.
func Load(path string, module Stateful) (Header, error) {
	stateDict, header, err := serialization.Load(path, serialization.ValidationStrict)
	if err != nil {
		return header, err
	}
	return header, module.LoadStateDict(stateDict)
}
