package convergence_test

import (
	"testing"

	"github.com/born-ml/exact/internal/convergence"
	"github.com/born-ml/exact/internal/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config() convergence.Config {
	return convergence.Config{
		EscapeThreshold:    scalar.FromFloat64(2.0),
		StabilityThreshold: scalar.FromFloat64(1e-6),
		MinIterations:      10,
		MaxIterations:      50,
	}
}

func TestEscape(t *testing.T) {
	d := convergence.New(config())
	assert.True(t, d.HasEscaped(scalar.FromFloat64(3.0)))
	assert.False(t, d.HasEscaped(scalar.FromFloat64(2.0)), "threshold itself does not escape")
	assert.False(t, d.HasEscaped(scalar.FromFloat64(1.5)))
	assert.True(t, d.HasEscaped(scalar.PositiveInfinite))
	assert.False(t, d.HasEscaped(scalar.PositiveVanished))

	// No warm-up: the first observation can escape.
	assert.Equal(t, convergence.Escaped, d.Observe(scalar.FromFloat64(3.0), scalar.One))
	assert.Equal(t, 1, d.Iteration())
}

func TestConvergeAfterMinIterations(t *testing.T) {
	d := convergence.New(config())
	small := scalar.FromFloat64(1e-7)
	mag := scalar.One

	for i := 1; i < 10; i++ {
		require.Equal(t, convergence.Running, d.Observe(mag, small), "iteration %d", i)
		assert.False(t, d.HasConverged(small))
	}
	assert.Equal(t, convergence.Converged, d.Observe(mag, small))
	assert.Equal(t, 10, d.Iteration())
	assert.True(t, d.HasConverged(small))
	assert.False(t, d.HasConverged(scalar.FromFloat64(1e-5)))
}

func TestMaxIterations(t *testing.T) {
	cfg := config()
	cfg.MaxIterations = 3
	d := convergence.New(cfg)
	assert.Equal(t, convergence.Running, d.Observe(scalar.One, scalar.One))
	assert.Equal(t, convergence.Running, d.Observe(scalar.One, scalar.One))
	assert.False(t, d.IsMaxIterations())
	assert.Equal(t, convergence.MaxIterationsReached, d.Observe(scalar.One, scalar.One))
	assert.True(t, d.IsMaxIterations())

	cfg.MaxIterations = 0
	d = convergence.New(cfg)
	for range 100 {
		d.Observe(scalar.One, scalar.One)
	}
	assert.Equal(t, convergence.Running, d.State(), "no cap")
}

func TestUndefinedEscapes(t *testing.T) {
	undef := scalar.Undefined(scalar.ZeroDivZero)

	d := convergence.New(config())
	assert.True(t, d.HasEscaped(undef))
	assert.Equal(t, convergence.Escaped, d.Observe(undef, scalar.One))

	d = convergence.New(config())
	for range 20 {
		d.Observe(scalar.One, scalar.One)
	}
	assert.False(t, d.HasConverged(undef))
	assert.Equal(t, convergence.Escaped, d.Observe(scalar.One, undef))
}

func TestTerminalAndReset(t *testing.T) {
	d := convergence.New(config())
	require.Equal(t, convergence.Escaped, d.Observe(scalar.FromInt(5), scalar.One))
	assert.True(t, d.State().Terminal())

	// Terminal states are sticky.
	assert.Equal(t, convergence.Escaped, d.Observe(scalar.One, scalar.Zero))
	assert.Equal(t, 1, d.Iteration())

	d.Reset()
	assert.Equal(t, convergence.Running, d.State())
	assert.Equal(t, 0, d.Iteration())
	assert.Equal(t, "running", d.State().String())
	assert.Equal(t, "max_iterations", convergence.MaxIterationsReached.String())
}

func TestEscapeCheckedBeforeConvergence(t *testing.T) {
	cfg := config()
	cfg.MinIterations = 0
	d := convergence.New(cfg)
	assert.Equal(t, convergence.Escaped, d.Observe(scalar.FromInt(9), scalar.Zero))
}

func TestDefaultConfig(t *testing.T) {
	d := convergence.New(convergence.DefaultConfig())
	assert.Equal(t, scalar.Two, d.Config().EscapeThreshold)
	assert.Equal(t, 10, d.Config().MinIterations)
}

func TestConvergenceIgnoresDeltaSign(t *testing.T) {
	d := convergence.New(config())
	for i := 1; i <= 10; i++ {
		require.Equal(t, convergence.Running, d.Observe(scalar.One, scalar.NegativeInfinite), "iteration %d", i)
	}
	assert.False(t, d.HasConverged(scalar.NegativeInfinite))
	assert.False(t, d.HasConverged(scalar.FromFloat64(-1e-5)))
	assert.True(t, d.HasConverged(scalar.FromFloat64(-1e-7)))
	assert.True(t, d.HasConverged(scalar.NegativeVanished))

	assert.Equal(t, convergence.Running, d.Observe(scalar.One, scalar.FromFloat64(-0.5)))
	assert.Equal(t, convergence.Converged, d.Observe(scalar.One, scalar.FromFloat64(-1e-7)))
}
