package kernel

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// Split returns the fraction and exponent fields of t's values, row-major.
func Split(t *tensor.Tensor) (frac, exp []int32) {
	data := t.Data()
	frac = make([]int32, len(data))
	exp = make([]int32, len(data))
	for i, v := range data {
		frac[i], exp[i] = v.Parts()
	}
	return frac, exp
}

// Join builds a tensor from fraction and exponent buffers. Malformed
// patterns decode to Undefined(Malformed), so Join never fails on values.
func Join(shape tensor.Shape, frac, exp []int32) (*tensor.Tensor, error) {
	if len(frac) != len(exp) {
		return nil, errors.Errorf("kernel: %d fractions but %d exponents", len(frac), len(exp))
	}
	data := make([]scalar.Scalar, len(frac))
	for i := range frac {
		data[i] = scalar.FromParts(frac[i], exp[i]).Canonical()
	}
	return tensor.New(shape, data)
}

// NewRequest marshals a @ b into a Request. Shape problems are reported as
// tensor.ErrShapeMismatch.
func NewRequest(a, b *tensor.Tensor) (*Request, error) {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul requires 2D tensors, got %v and %v", as, bs)
	}
	if as[1] != bs[0] {
		return nil, tensor.Mismatch("matmul", as, bs)
	}
	req := &Request{M: as[0], K: as[1], N: bs[1]}
	req.AFrac, req.AExp = Split(a)
	req.BFrac, req.BExp = Split(b)
	return req, nil
}

// Tensor unmarshals the result of req into an [M, N] tensor.
func (r *Result) Tensor(req *Request) (*tensor.Tensor, error) {
	if len(r.CFrac) != req.M*req.N {
		return nil, errors.Errorf("kernel: result has %d elements, want %d", len(r.CFrac), req.M*req.N)
	}
	return Join(tensor.Shape{req.M, req.N}, r.CFrac, r.CExp)
}
