// Package reference implements kernel.Backend on the CPU with package scalar.
//
// It consumes the same structure-of-arrays buffers as the accelerator
// backends and is the baseline they are checked against. Output cells are
// computed in parallel; each cell's reduction over k stays sequential.
package reference

import (
	"github.com/born-ml/exact/internal/kernel"
	"github.com/born-ml/exact/internal/parallel"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/pkg/errors"
)

// Name is the backend name reported by Backend.Name.
const Name = "reference"

// Backend is the CPU reference implementation of kernel.Backend.
type Backend struct {
	cfg    parallel.Config
	closed bool
}

// New creates a reference backend using parallel.DefaultConfig.
func New() *Backend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a reference backend with an explicit parallelism
// configuration.
func NewWithConfig(cfg parallel.Config) *Backend {
	return &Backend{cfg: cfg}
}

// Name implements kernel.Backend.
func (b *Backend) Name() string { return Name }

// Submit implements kernel.Backend.
func (b *Backend) Submit(req *kernel.Request) (*kernel.Result, error) {
	if b.closed {
		return nil, errors.New("reference: backend is closed")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	res := req.NewResult()
	k, n := req.K, req.N
	parallel.ForGrid(req.M, n, func(i, j int) {
		acc := scalar.Zero
		for p := 0; p < k; p++ {
			a := scalar.FromParts(req.AFrac[i*k+p], req.AExp[i*k+p]).Canonical()
			bv := scalar.FromParts(req.BFrac[p*n+j], req.BExp[p*n+j]).Canonical()
			acc = acc.Add(a.Mul(bv))
		}
		res.CFrac[i*n+j], res.CExp[i*n+j] = acc.Parts()
	}, b.cfg)
	return res, nil
}

// Close implements kernel.Backend.
func (b *Backend) Close() error {
	b.closed = true
	return nil
}
