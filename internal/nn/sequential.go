package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/exact/internal/autodiff"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(4, 8, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(8, 1, rng),
//	)
//
//	output, err := model.Forward(g, input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(g *autodiff.Graph, input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, module := range s.modules {
		var err error
		output, err = module.Forward(g, output)
		if err != nil {
			return nil, errors.WithMessagef(err, "module %d", i)
		}
	}
	return output, nil
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

type stateful interface {
	StateDict() map[string]*tensor.Tensor
	LoadStateDict(map[string]*tensor.Tensor) error
}

// StateDict returns a map of parameter names to tensors.
//
// Names are prefixed with their module index (e.g., "0.weight", "2.bias").
func (s *Sequential) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor)
	for i, module := range s.modules {
		m, ok := module.(stateful)
		if !ok {
			continue
		}
		for name, t := range m.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = t
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary produced by StateDict.
func (s *Sequential) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	for i, module := range s.modules {
		m, ok := module.(stateful)
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*tensor.Tensor)
		for key, t := range stateDict {
			if name, found := strings.CutPrefix(key, prefix); found {
				moduleStateDict[name] = t
			}
		}
		if err := m.LoadStateDict(moduleStateDict); err != nil {
			return errors.WithMessagef(err, "failed to load module %d", i)
		}
	}
	return nil
}
