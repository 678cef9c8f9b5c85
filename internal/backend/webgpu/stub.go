//go:build !windows

package webgpu

import "github.com/born-ml/exact/internal/kernel"

// Backend is unavailable on this platform.
type Backend struct{}

// New always fails: the go-webgpu bindings are only built on Windows.
func New(index int) (*Backend, error) {
	return nil, kernel.Unavailable("webgpu: device %d: not supported on this platform", index)
}

// IsAvailable reports whether WebGPU can be used.
func IsAvailable() bool { return false }

// Name implements kernel.Backend.
func (b *Backend) Name() string { return "webgpu" }

// Submit implements kernel.Backend.
func (b *Backend) Submit(*kernel.Request) (*kernel.Result, error) {
	return nil, kernel.Unavailable("webgpu: not supported on this platform")
}

// Close implements kernel.Backend.
func (b *Backend) Close() error { return nil }
