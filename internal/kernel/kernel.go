// Package kernel defines the calling contract between the tensor layer and
// accelerator backends for Scalar matrix multiplication.
//
// Operands cross the boundary as structure-of-arrays int32 buffers: one
// buffer of fractions and one of exponents per matrix, row-major. A backend
// computes, for every output cell,
//
//	acc = Zero
//	for k := 0; k < K; k++ {
//	    acc = acc + A[i,k] × B[k,j]
//	}
//
// with exactly the arithmetic of package scalar, so results are bit-identical
// to the CPU path. Kernel sources are integer-only; the sentinel constants
// they use are published by Constants and checked by VerifySource.
package kernel

import (
	"github.com/pkg/errors"
)

// ErrUnavailable reports that an accelerator could not be opened or used:
// missing driver or library, no device, or a failed submission. It is never
// hidden by falling back to another backend.
var ErrUnavailable = errors.New("kernel: resource unavailable")

// Unavailable returns ErrUnavailable annotated with a message.
func Unavailable(format string, args ...any) error {
	return errors.Wrapf(ErrUnavailable, format, args...)
}

// Backend executes Scalar matrix products.
//
// Submit blocks until the kernel has finished and the result has been read
// back. Implementations must be safe for use by one goroutine at a time;
// backend.Context serializes access.
type Backend interface {
	// Name identifies the backend and device, e.g. "webgpu:0".
	Name() string

	// Submit runs one matrix product.
	Submit(req *Request) (*Result, error)

	// Close releases device resources. Submit must not be called afterwards.
	Close() error
}

// Request is a matrix product C[M,N] = A[M,K] @ B[K,N] in structure-of-arrays
// form.
type Request struct {
	M, K, N     int
	AFrac, AExp []int32 // M*K, row-major
	BFrac, BExp []int32 // K*N, row-major
}

// Result holds C in structure-of-arrays form, M*N row-major.
type Result struct {
	CFrac, CExp []int32
}

// maxDim bounds each dimension so that every index fits in a uint32 on the
// device.
const maxDim = 1 << 15

// Validate checks dimensions and buffer lengths.
func (r *Request) Validate() error {
	if r.M <= 0 || r.K <= 0 || r.N <= 0 {
		return errors.Errorf("kernel: invalid dimensions M=%d K=%d N=%d", r.M, r.K, r.N)
	}
	if r.M > maxDim || r.K > maxDim || r.N > maxDim {
		return errors.Errorf("kernel: dimensions M=%d K=%d N=%d exceed %d", r.M, r.K, r.N, maxDim)
	}
	if len(r.AFrac) != r.M*r.K || len(r.AExp) != r.M*r.K {
		return errors.Errorf("kernel: A buffers have %d/%d elements, want %d", len(r.AFrac), len(r.AExp), r.M*r.K)
	}
	if len(r.BFrac) != r.K*r.N || len(r.BExp) != r.K*r.N {
		return errors.Errorf("kernel: B buffers have %d/%d elements, want %d", len(r.BFrac), len(r.BExp), r.K*r.N)
	}
	return nil
}

// NewResult allocates a result for r.
func (r *Request) NewResult() *Result {
	return &Result{
		CFrac: make([]int32, r.M*r.N),
		CExp:  make([]int32, r.M*r.N),
	}
}

// Bytes returns the number of bytes moved to and from the device.
func (r *Request) Bytes() int {
	return 4 * 2 * (r.M*r.K + r.K*r.N + r.M*r.N)
}
