package autodiff

import (
	"github.com/born-ml/exact/internal/autodiff/ops"
	"github.com/born-ml/exact/internal/tensor"
)

// record appends op to the tape if any of its inputs requires a gradient,
// and returns the operation's output.
func (g *Graph) record(op ops.Operation) *tensor.Tensor {
	out := op.Output()
	for _, in := range op.Inputs() {
		if in.RequiresGrad() {
			out.RequireGrad()
			g.nodes = append(g.nodes, op)
			break
		}
	}
	return out
}

// NumOps returns the number of recorded operations.
func (g *Graph) NumOps() int {
	return len(g.nodes)
}

// Reset discards the tape. Gradient buffers are left untouched; clear them
// with the optimizer's ZeroGrad.
func (g *Graph) Reset() {
	clear(g.nodes)
	g.nodes = g.nodes[:0]
}

// indexOf returns the tape position of the operation that produced t, or -1.
func (g *Graph) indexOf(t *tensor.Tensor) int {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].Output() == t {
			return i
		}
	}
	return -1
}
