// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package convergence provides the public API for the escape/convergence
// detector of iterative processes.
//
// Example:
//
//	d := convergence.New(convergence.DefaultConfig())
//	for d.Observe(magnitude(), delta()) == convergence.Running {
//	    step()
//	}
package convergence

import (
	"github.com/born-ml/exact/internal/convergence"
)

// Detector is the escape/convergence state machine.
type Detector = convergence.Detector

// Config configures a Detector.
type Config = convergence.Config

// State is the detector state.
type State = convergence.State

// States.
const (
	Running              State = convergence.Running
	Escaped              State = convergence.Escaped
	Converged            State = convergence.Converged
	MaxIterationsReached State = convergence.MaxIterationsReached
)

// New creates a Detector in the Running state.
func New(cfg Config) *Detector { return convergence.New(cfg) }

// DefaultConfig returns default thresholds.
func DefaultConfig() Config { return convergence.DefaultConfig() }
