//go:build !cuda

package cuda

import "github.com/born-ml/exact/internal/kernel"

// Backend is unavailable in builds without the "cuda" tag.
type Backend struct{}

// New always fails: the binary was built without CUDA support.
func New(device int) (*Backend, error) {
	return nil, kernel.Unavailable("cuda: device %d: built without the cuda tag", device)
}

// IsAvailable reports whether CUDA can be used.
func IsAvailable() bool { return false }

// Name implements kernel.Backend.
func (b *Backend) Name() string { return "cuda" }

// Submit implements kernel.Backend.
func (b *Backend) Submit(*kernel.Request) (*kernel.Result, error) {
	return nil, kernel.Unavailable("cuda: built without the cuda tag")
}

// Close implements kernel.Backend.
func (b *Backend) Close() error { return nil }
