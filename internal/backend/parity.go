package backend

import (
	"fmt"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// MatMuler computes matrix products. Context and CPU implement it.
type MatMuler interface {
	MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error)
}

// CPU is the MatMuler of package tensor.
type CPU struct{}

// MatMul implements MatMuler.
func (CPU) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.MatMul(a, b)
}

// Mismatch describes the first cell where two backends disagree.
type Mismatch struct {
	Row, Col  int
	Want, Got scalar.Scalar
}

func (m *Mismatch) String() string {
	return fmt.Sprintf("cell [%d,%d]: want %v (%#016x), got %v (%#016x)",
		m.Row, m.Col, m.Want, m.Want.Bits(), m.Got, m.Got.Bits())
}

// CheckParity computes a @ b with both got and want and compares the results
// bit for bit. It returns the first differing cell in row-major order, or
// nil if the results are identical.
func CheckParity(got, want MatMuler, a, b *tensor.Tensor) (*Mismatch, error) {
	w, err := want.MatMul(a, b)
	if err != nil {
		return nil, errors.WithMessage(err, "parity: reference product")
	}
	g, err := got.MatMul(a, b)
	if err != nil {
		return nil, errors.WithMessage(err, "parity: checked product")
	}
	if !g.Shape().Equal(w.Shape()) {
		return nil, tensor.Mismatch("parity", g.Shape(), w.Shape())
	}
	cols := w.Cols()
	gd, wd := g.Data(), w.Data()
	for i := range wd {
		if gd[i] != wd[i] {
			return &Mismatch{Row: i / cols, Col: i % cols, Want: wd[i], Got: gd[i]}, nil
		}
	}
	return nil, nil
}
