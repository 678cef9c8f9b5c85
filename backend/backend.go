// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend provides the public API for accelerator selection.
//
// Example:
//
//	cfg, err := backend.ConfigFromEnv() // EXACT_BACKEND=webgpu:0
//	ctx := backend.NewContext(cfg)
//	defer ctx.Close()
//	g := autodiff.NewGraph(autodiff.WithMatMul(ctx))
package backend

import (
	"github.com/born-ml/exact/internal/backend"
	"github.com/born-ml/exact/internal/kernel"
	"github.com/born-ml/exact/tensor"
)

// Kind names a backend implementation.
type Kind = backend.Kind

// Backend kinds.
const (
	Reference Kind = backend.Reference
	WebGPU    Kind = backend.WebGPU
	CUDA      Kind = backend.CUDA
)

// EnvVar is the environment variable read by ConfigFromEnv.
const EnvVar = backend.EnvVar

// Config selects a backend and device.
type Config = backend.Config

// Context owns one opened backend.
type Context = backend.Context

// MatMuler computes matrix products.
type MatMuler = backend.MatMuler

// CPU is the MatMuler of package tensor.
type CPU = backend.CPU

// Mismatch describes the first cell where two backends disagree.
type Mismatch = backend.Mismatch

// Errors.
var (
	ErrConfig      = backend.ErrConfig
	ErrClosed      = backend.ErrClosed
	ErrUnavailable = kernel.ErrUnavailable
)

// ParseConfig parses "<kind>[:<device>]".
func ParseConfig(s string) (Config, error) { return backend.ParseConfig(s) }

// ConfigFromEnv reads EnvVar, defaulting to the reference backend.
func ConfigFromEnv() (Config, error) { return backend.ConfigFromEnv() }

// NewContext creates a context; the backend opens on first use.
func NewContext(cfg Config) *Context { return backend.NewContext(cfg) }

// CheckParity compares got against want on a @ b, bit for bit.
func CheckParity(got, want MatMuler, a, b *tensor.Tensor) (*Mismatch, error) {
	return backend.CheckParity(got, want, a, b)
}
