// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for optimizers.
//
// Learning rates and moment coefficients are Scalars. Element updates that
// are not finite are skipped and counted in StepStats instead of corrupting
// the parameters.
//
// Example:
//
//	opt := optim.NewSGD(nn.Tensors(model.Parameters()), optim.SGDConfig{
//	    LR: scalar.FromFloat64(0.01),
//	})
//	stats, err := opt.Step()
package optim

import (
	"github.com/born-ml/exact/internal/optim"
	"github.com/born-ml/exact/tensor"
)

// Optimizer updates parameters from their gradients.
type Optimizer = optim.Optimizer

// StepStats counts the element updates of one step.
type StepStats = optim.StepStats

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD.
type SGDConfig = optim.SGDConfig

// Adam is the Adam optimizer with bias correction.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer. Unset config fields take defaults.
func NewSGD(params []*tensor.Tensor, config SGDConfig) *SGD { return optim.NewSGD(params, config) }

// NewAdam creates an Adam optimizer. Unset config fields take defaults.
func NewAdam(params []*tensor.Tensor, config AdamConfig) *Adam { return optim.NewAdam(params, config) }
