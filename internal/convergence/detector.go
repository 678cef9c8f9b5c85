// Package convergence tracks an external iterative process and decides when
// it has escaped, converged or run out of iterations.
//
// All decisions use the Scalar total order. An Undefined magnitude or delta
// means the process can no longer be trusted, so it is reported as Escaped,
// never as Converged.
package convergence

import (
	"github.com/born-ml/exact/internal/scalar"
)

// State is the detector state. Every state except Running is terminal until
// Reset.
type State int

const (
	Running State = iota
	Escaped
	Converged
	MaxIterationsReached
)

var stateNames = [...]string{
	Running:              "running",
	Escaped:              "escaped",
	Converged:            "converged",
	MaxIterationsReached: "max_iterations",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends the sequence.
func (s State) Terminal() bool {
	return s != Running
}

// Config configures a Detector.
type Config struct {
	// EscapeThreshold: a magnitude strictly above it escapes.
	EscapeThreshold scalar.Scalar

	// StabilityThreshold: a delta strictly below it converges, once
	// MinIterations iterations have been observed.
	StabilityThreshold scalar.Scalar

	// MinIterations suppresses convergence on a flat initial segment.
	MinIterations int

	// MaxIterations caps the sequence. Zero means no cap.
	MaxIterations int
}

// DefaultConfig returns an escape threshold of 2, a stability threshold of
// 1e-6, 10 minimum and 1000 maximum iterations.
func DefaultConfig() Config {
	return Config{
		EscapeThreshold:    scalar.Two,
		StabilityThreshold: scalar.FromFloat64(1e-6),
		MinIterations:      10,
		MaxIterations:      1000,
	}
}

// Detector is the escape/convergence state machine. It is not safe for
// concurrent use.
type Detector struct {
	cfg   Config
	state State
	iter  int
}

// New creates a Detector in the Running state.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// State returns the current state.
func (d *Detector) State() State { return d.state }

// Iteration returns the number of observed iterations.
func (d *Detector) Iteration() int { return d.iter }

// HasEscaped reports whether magnitude exceeds the escape threshold or is
// Undefined. It applies from the first iteration.
func (d *Detector) HasEscaped(magnitude scalar.Scalar) bool {
	return magnitude.IsUndefined() || magnitude.Greater(d.cfg.EscapeThreshold)
}

// HasConverged reports whether the magnitude of delta is below the
// stability threshold and at least MinIterations iterations have been
// observed. The sign of delta is ignored.
func (d *Detector) HasConverged(delta scalar.Scalar) bool {
	if delta.IsUndefined() || d.iter < d.cfg.MinIterations {
		return false
	}
	return delta.Abs().Less(d.cfg.StabilityThreshold)
}

// IsMaxIterations reports whether the iteration cap has been reached.
func (d *Detector) IsMaxIterations() bool {
	return d.cfg.MaxIterations > 0 && d.iter >= d.cfg.MaxIterations
}

// Observe records one iteration and returns the resulting state. Escape is
// checked first, then convergence, then the iteration cap. Once terminal,
// the state no longer changes and iterations are not counted.
func (d *Detector) Observe(magnitude, delta scalar.Scalar) State {
	if d.state.Terminal() {
		return d.state
	}
	d.iter++
	switch {
	case d.HasEscaped(magnitude) || delta.IsUndefined():
		d.state = Escaped
	case d.HasConverged(delta):
		d.state = Converged
	case d.IsMaxIterations():
		d.state = MaxIterationsReached
	}
	return d.state
}

// Reset returns the detector to Running with no observed iterations.
func (d *Detector) Reset() {
	d.state = Running
	d.iter = 0
}
