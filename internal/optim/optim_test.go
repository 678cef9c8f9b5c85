package optim_test

import (
	"testing"

	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/optim"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// param creates a trainable tensor with the given values and gradient.
func param(values []float64, grad []string) *tensor.Tensor {
	p := must.M1(tensor.FromFloat64s(tensor.Shape{len(values)}, values)).RequireGrad()
	must.M(p.AccumulateGrad(must.M1(tensor.Parse(tensor.Shape{len(grad)}, grad))))
	return p
}

func lr(v float64) scalar.Scalar { return scalar.FromFloat64(v) }

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	x := param([]float64{2}, []string{"1"})
	opt := optim.NewSGD([]*tensor.Tensor{x}, optim.SGDConfig{LR: lr(0.1)})

	stats, err := opt.Step()
	require.NoError(t, err)
	assert.Equal(t, optim.StepStats{Updated: 1}, stats)
	// x_new = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, x.At(0).Float64(), 1e-6)
}

// TestSGD_Momentum tests that velocity carries over between steps.
func TestSGD_Momentum(t *testing.T) {
	x := param([]float64{2}, []string{"1"})
	opt := optim.NewSGD([]*tensor.Tensor{x}, optim.SGDConfig{LR: lr(0.1), Momentum: lr(0.9)})

	_, err := opt.Step()
	require.NoError(t, err)
	assert.InDelta(t, 1.9, x.At(0).Float64(), 1e-6)

	// Gradient buffer still holds 1: v = 0.9*1 + 1 = 1.9
	_, err = opt.Step()
	require.NoError(t, err)
	assert.InDelta(t, 1.71, x.At(0).Float64(), 1e-6)
}

// TestSGD_Defaults tests that unset config fields take defaults.
func TestSGD_Defaults(t *testing.T) {
	opt := optim.NewSGD(nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, opt.LR().Float64(), 1e-9)

	opt.SetLR(lr(0.5))
	assert.Equal(t, lr(0.5), opt.LR())

	adam := optim.NewAdam(nil, optim.AdamConfig{})
	assert.InDelta(t, 0.001, adam.LR().Float64(), 1e-9)
}

// TestSGD_SkipsNonFinite tests that exceptional updates are counted, not applied.
func TestSGD_SkipsNonFinite(t *testing.T) {
	x := param([]float64{1, 1, 1, 1}, []string{"undefined(0/0)", "+inf", "+vanished", "1"})
	opt := optim.NewSGD([]*tensor.Tensor{x}, optim.SGDConfig{LR: lr(0.01)})

	stats, err := opt.Step()
	require.NoError(t, err)
	assert.Equal(t, optim.StepStats{Updated: 2, Skipped: 2, Vanished: 1}, stats)
	assert.Equal(t, scalar.One, x.At(0))
	assert.Equal(t, scalar.One, x.At(1))
	assert.Equal(t, scalar.One, x.At(2), "vanished update is absorbed")
	assert.InDelta(t, 0.99, x.At(3).Float64(), 1e-6)
}

// TestSGD_MomentumRecoversAfterNonFinite tests that a skipped element does
// not poison its velocity for later steps.
func TestSGD_MomentumRecoversAfterNonFinite(t *testing.T) {
	x := param([]float64{1}, []string{"undefined(0/0)"})
	opt := optim.NewSGD([]*tensor.Tensor{x}, optim.SGDConfig{LR: lr(0.1), Momentum: lr(0.9)})

	stats, err := opt.Step()
	require.NoError(t, err)
	assert.Equal(t, optim.StepStats{Skipped: 1}, stats)
	assert.Equal(t, scalar.One, x.At(0))

	require.NoError(t, x.ZeroGrad())
	require.NoError(t, x.AccumulateGrad(tensor.Ones(tensor.Shape{1})))
	stats, err = opt.Step()
	require.NoError(t, err)
	assert.Equal(t, optim.StepStats{Updated: 1}, stats)
	// Velocity starts again from Zero: v = 1, x = 1 - 0.1
	assert.InDelta(t, 0.9, x.At(0).Float64(), 1e-6)

	for i := 0; i < 4; i++ {
		stats, err = opt.Step()
		require.NoError(t, err)
		assert.Equal(t, optim.StepStats{Updated: 1}, stats)
	}
	assert.Less(t, x.At(0).Float64(), 0.5)
}

// TestOptimizer_NoGrad tests that parameters without grad buffers are rejected.
func TestOptimizer_NoGrad(t *testing.T) {
	x := tensor.Ones(tensor.Shape{2})
	for _, opt := range []optim.Optimizer{
		optim.NewSGD([]*tensor.Tensor{x}, optim.SGDConfig{}),
		optim.NewAdam([]*tensor.Tensor{x}, optim.AdamConfig{}),
	} {
		_, err := opt.Step()
		assert.ErrorIs(t, err, tensor.ErrNoGrad)
		assert.ErrorIs(t, opt.ZeroGrad(), tensor.ErrNoGrad)
	}
	assert.Equal(t, scalar.One, x.At(0))
}

// TestAdam_FirstStep tests that the bias-corrected first step has size lr.
func TestAdam_FirstStep(t *testing.T) {
	x := param([]float64{1}, []string{"5"})
	opt := optim.NewAdam([]*tensor.Tensor{x}, optim.AdamConfig{LR: lr(0.1)})

	stats, err := opt.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, opt.Timestep())
	assert.InDelta(t, 0.9, x.At(0).Float64(), 1e-6)
}

// TestAdam_SkipsNonFinite tests that an Undefined gradient leaves the element alone.
func TestAdam_SkipsNonFinite(t *testing.T) {
	x := param([]float64{1, 1, 1}, []string{"undefined(inf*0)", "-inf", "2"})
	opt := optim.NewAdam([]*tensor.Tensor{x}, optim.AdamConfig{LR: lr(0.1)})

	stats, err := opt.Step()
	require.NoError(t, err)
	assert.Equal(t, optim.StepStats{Updated: 1, Skipped: 2}, stats)
	assert.Equal(t, scalar.One, x.At(0))
	assert.Equal(t, scalar.One, x.At(1))
	assert.InDelta(t, 0.9, x.At(2).Float64(), 1e-6)

	// The skipped element's moments stayed at Zero, so a finite gradient
	// later behaves like a first step.
	require.NoError(t, opt.ZeroGrad())
	must.M(x.AccumulateGrad(must.M1(tensor.FromInts(tensor.Shape{3}, []int64{1, 0, 0}))))
	_, err = opt.Step()
	require.NoError(t, err)
	assert.Less(t, x.At(0).Float64(), 1.0)
	assert.Equal(t, scalar.One, x.At(1), "zero gradient, zero moments")
}

// fitDouble trains y = x*w on f(x) = 2x and returns w.
func fitDouble(t *testing.T, w *tensor.Tensor, opt optim.Optimizer, epochs int) scalar.Scalar {
	x := must.M1(tensor.FromInts(tensor.Shape{4, 1}, []int64{1, 2, 3, 4}))
	y := must.M1(tensor.FromInts(tensor.Shape{4, 1}, []int64{2, 4, 6, 8}))
	g := autodiff.NewGraph()
	for range epochs {
		require.NoError(t, opt.ZeroGrad())
		pred := must.M1(g.MatMul(x, w))
		loss := must.M1(g.MSE(pred, y))
		require.NoError(t, g.Backward(loss))
		stats, err := opt.Step()
		require.NoError(t, err)
		require.Zero(t, stats.Skipped)
		g.Reset()
	}
	return w.At(0, 0)
}

// TestSGD_LearnsDouble tests convergence on f(x) = 2x from w = 0.5.
func TestSGD_LearnsDouble(t *testing.T) {
	w := must.M1(tensor.FromFloat64s(tensor.Shape{1, 1}, []float64{0.5})).RequireGrad()
	opt := optim.NewSGD([]*tensor.Tensor{w}, optim.SGDConfig{LR: lr(0.01)})
	got := fitDouble(t, w, opt, 100)
	assert.InDelta(t, 2.0, got.Float64(), 0.05)
}

// TestAdam_LearnsDouble tests convergence on f(x) = 2x from w = 0.5.
func TestAdam_LearnsDouble(t *testing.T) {
	w := must.M1(tensor.FromFloat64s(tensor.Shape{1, 1}, []float64{0.5})).RequireGrad()
	opt := optim.NewAdam([]*tensor.Tensor{w}, optim.AdamConfig{LR: lr(0.02)})
	got := fitDouble(t, w, opt, 400)
	assert.InDelta(t, 2.0, got.Float64(), 0.1)
}
