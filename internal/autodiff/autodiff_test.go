package autodiff_test

import (
	"testing"

	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(shape tensor.Shape, values ...int64) *tensor.Tensor {
	return must.M1(tensor.FromInts(shape, values))
}

// TestGraph_RecordsOnlyWithGrad tests that constant expressions leave the tape empty.
func TestGraph_RecordsOnlyWithGrad(t *testing.T) {
	g := autodiff.NewGraph()
	a := ints(tensor.Shape{2}, 1, 2)
	b := ints(tensor.Shape{2}, 3, 4)

	c := must.M1(g.Add(a, b))
	assert.Equal(t, 0, g.NumOps())
	assert.False(t, c.RequiresGrad())
	assert.False(t, c.HasGrad())

	a.RequireGrad()
	c = must.M1(g.Add(a, b))
	assert.Equal(t, 1, g.NumOps())
	assert.True(t, c.RequiresGrad())
	assert.True(t, c.HasGrad())
}

// TestGraph_LinearMSE tests gradients of mean((x@w - t)^2) against a hand computation.
func TestGraph_LinearMSE(t *testing.T) {
	g := autodiff.NewGraph()
	x := ints(tensor.Shape{2, 1}, 1, 2)
	w := ints(tensor.Shape{1, 1}, 3).RequireGrad()
	target := ints(tensor.Shape{2, 1}, 2, 4)

	y := must.M1(g.MatMul(x, w))
	loss := must.M1(g.MSE(y, target))
	assert.Equal(t, 2.5, must.M1(loss.Item()).Float64())

	require.NoError(t, g.Backward(loss))
	// dL/dy = 2(y-t)/2 = [1, 2]; dL/dw = x^T @ dL/dy = 1 + 4
	assert.Equal(t, []float64{5}, w.Grad().Float64s())
	assert.Equal(t, []float64{1, 2}, y.Grad().Float64s())
}

// TestGraph_BackwardAccumulates tests that a second backward adds to the buffers.
func TestGraph_BackwardAccumulates(t *testing.T) {
	g := autodiff.NewGraph()
	w := ints(tensor.Shape{1, 1}, 3).RequireGrad()
	loss := g.Sum(g.Scale(w, scalar.FromInt(4)))

	require.NoError(t, g.Backward(loss))
	assert.Equal(t, []float64{4}, w.Grad().Float64s())
	require.NoError(t, g.Backward(loss))
	assert.Equal(t, []float64{8}, w.Grad().Float64s())

	require.NoError(t, w.ZeroGrad())
	assert.Equal(t, scalar.Zero, w.Grad().At(0, 0))
}

// TestGraph_ReusedInput tests that gradients from several uses are summed.
func TestGraph_ReusedInput(t *testing.T) {
	g := autodiff.NewGraph()
	x := ints(tensor.Shape{1}, 3).RequireGrad()
	sq := must.M1(g.Mul(x, x))
	require.NoError(t, g.Backward(g.Sum(sq)))
	assert.Equal(t, []float64{6}, x.Grad().Float64s())
}

// TestGraph_SubScaleMean tests the identity, negation and 1/n rules.
func TestGraph_SubScaleMean(t *testing.T) {
	g := autodiff.NewGraph()
	a := ints(tensor.Shape{2, 2}, 1, 2, 3, 4).RequireGrad()
	b := ints(tensor.Shape{2, 2}, 4, 3, 2, 1).RequireGrad()

	diff := must.M1(g.Sub(a, b))
	loss := g.Mean(g.Scale(diff, scalar.Two))
	require.NoError(t, g.Backward(loss))

	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, a.Grad().Float64s())
	assert.Equal(t, []float64{-0.5, -0.5, -0.5, -0.5}, b.Grad().Float64s())
}

// TestGraph_Transpose tests that the transpose gradient is transposed back.
func TestGraph_Transpose(t *testing.T) {
	g := autodiff.NewGraph()
	a := ints(tensor.Shape{1, 2}, 1, 2).RequireGrad()
	weights := ints(tensor.Shape{2, 1}, 5, 7)

	at := must.M1(g.Transpose(a))
	prod := must.M1(g.Mul(at, weights))
	require.NoError(t, g.Backward(g.Sum(prod)))
	assert.Equal(t, tensor.Shape{1, 2}, a.Grad().Shape())
	assert.Equal(t, []float64{5, 7}, a.Grad().Float64s())
}

// TestGraph_ReLUGradient tests masking and Undefined pass-through.
func TestGraph_ReLUGradient(t *testing.T) {
	g := autodiff.NewGraph()
	x := must.M1(tensor.Parse(tensor.Shape{5}, []string{"-1", "2", "undefined(0/0)", "0", "-vanished"})).RequireGrad()

	loss := g.Sum(g.ReLU(x))
	assert.True(t, must.M1(loss.Item()).IsUndefined())
	require.NoError(t, g.Backward(loss))

	want := []scalar.Scalar{scalar.Zero, scalar.One, scalar.Undefined(scalar.ZeroDivZero), scalar.Zero, scalar.Zero}
	assert.Equal(t, want, x.Grad().Data())
}

// TestGraph_UndefinedReachesParameters tests propagation of an Undefined input through matmul.
func TestGraph_UndefinedReachesParameters(t *testing.T) {
	g := autodiff.NewGraph()
	x := must.M1(tensor.Parse(tensor.Shape{1, 2}, []string{"1", "undefined(inf-inf)"}))
	w := ints(tensor.Shape{2, 1}, 1, 1).RequireGrad()
	target := ints(tensor.Shape{1, 1}, 0)

	loss := must.M1(g.MSE(must.M1(g.MatMul(x, w)), target))
	require.NoError(t, g.Backward(loss))
	assert.Equal(t, 2, w.Grad().CountClass(scalar.ClassUndefined))
}

// TestGraph_Invariants tests the misuse errors of Backward.
func TestGraph_Invariants(t *testing.T) {
	g := autodiff.NewGraph()

	constant := tensor.Ones(tensor.Shape{1, 1})
	assert.ErrorIs(t, g.Backward(constant), autodiff.ErrInvariant, "loss without grad buffer")

	orphan := tensor.Ones(tensor.Shape{1, 1}).RequireGrad()
	assert.ErrorIs(t, g.Backward(orphan), autodiff.ErrInvariant, "empty tape")

	other := autodiff.NewGraph()
	w := tensor.Ones(tensor.Shape{1, 1}).RequireGrad()
	foreign := other.Sum(w)
	_ = g.Sum(w)
	assert.ErrorIs(t, g.Backward(foreign), autodiff.ErrInvariant, "loss from another graph")

	g.Reset()
	assert.Equal(t, 0, g.NumOps())
	assert.ErrorIs(t, g.Backward(foreign), autodiff.ErrInvariant, "reset tape")
}

// TestGraph_ShapeErrors tests that structural errors surface from forward ops.
func TestGraph_ShapeErrors(t *testing.T) {
	g := autodiff.NewGraph()
	a := tensor.Ones(tensor.Shape{2, 3}).RequireGrad()
	_, err := g.MatMul(a, a)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = g.MSE(a, tensor.Ones(tensor.Shape{3, 2}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	assert.Equal(t, 0, g.NumOps())
}

type countingMatMul struct {
	calls int
}

func (c *countingMatMul) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	c.calls++
	return tensor.MatMul(a, b)
}

// TestGraph_WithMatMul tests that forward products go through the configured multiplier.
func TestGraph_WithMatMul(t *testing.T) {
	m := &countingMatMul{}
	g := autodiff.NewGraph(autodiff.WithMatMul(m))
	x := ints(tensor.Shape{1, 2}, 1, 2)
	w := ints(tensor.Shape{2, 1}, 3, 4).RequireGrad()

	y := must.M1(g.MatMul(x, w))
	require.NoError(t, g.Backward(g.Sum(y)))
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, []float64{1, 2}, w.Grad().Float64s())
}
