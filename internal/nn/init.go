package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/exact/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Values are drawn as float64 and converted to Scalars; the random source is
// explicit so initialization is reproducible.
func Xavier(fanIn, fanOut int, shape tensor.Shape, r *rand.Rand) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.Uniform(shape, -bound, bound, r)
}
