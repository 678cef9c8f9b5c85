package optim

import (
	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// Moment buffers are allocated on the first step. beta^t is kept as a
// running Scalar product. When a gradient element is not finite, or the
// resulting update is Undefined or Infinite, the element is skipped: neither
// the parameter nor its moments change.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*tensor.Tensor
	lr     scalar.Scalar
	beta1  scalar.Scalar
	beta2  scalar.Scalar
	eps    scalar.Scalar
	t      int                               // Timestep for bias correction
	pow1   scalar.Scalar                     // beta1^t
	pow2   scalar.Scalar                     // beta2^t
	m      map[*tensor.Tensor]*tensor.Tensor // First moment estimates
	v      map[*tensor.Tensor]*tensor.Tensor // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    scalar.Scalar    // Learning rate (default: 0.001)
	Betas [2]scalar.Scalar // Coefficients for running averages (default: [0.9, 0.999])
	Eps   scalar.Scalar    // Added to the denominator (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Unset config fields take their
// defaults.
func NewAdam(params []*tensor.Tensor, config AdamConfig) *Adam {
	return &Adam{
		params: params,
		lr:     orDefault(config.LR, scalar.FromFloat64(0.001)),
		beta1:  orDefault(config.Betas[0], scalar.FromFloat64(0.9)),
		beta2:  orDefault(config.Betas[1], scalar.FromFloat64(0.999)),
		eps:    orDefault(config.Eps, scalar.FromFloat64(1e-8)),
		pow1:   scalar.One,
		pow2:   scalar.One,
		m:      make(map[*tensor.Tensor]*tensor.Tensor),
		v:      make(map[*tensor.Tensor]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step() (StepStats, error) {
	if err := checkGrads(a.params); err != nil {
		return StepStats{}, err
	}
	a.t++
	a.pow1 = a.pow1.Mul(a.beta1)
	a.pow2 = a.pow2.Mul(a.beta2)
	c1 := scalar.One.Sub(a.pow1)
	c2 := scalar.One.Sub(a.pow2)
	d1 := scalar.One.Sub(a.beta1)
	d2 := scalar.One.Sub(a.beta2)

	var stats StepStats
	for _, param := range a.params {
		m, v := a.moments(param)
		md, vd := m.Data(), v.Data()
		data := param.Data()
		for i, g := range param.Grad().Data() {
			if g.IsUndefined() || g.IsInfinite() {
				stats.Skipped++
				continue
			}
			mi := a.beta1.Mul(md[i]).Add(d1.Mul(g))
			vi := a.beta2.Mul(vd[i]).Add(d2.Mul(g.Square()))
			mHat := mi.Div(c1)
			vHat := vi.Div(c2)
			u := a.lr.Mul(mHat).Div(vHat.Sqrt().Add(a.eps))

			var ok bool
			if data[i], ok = apply(data[i], u, &stats); ok {
				md[i], vd[i] = mi, vi
			}
		}
	}
	logSkipped("adam", a.t, stats)
	return stats, nil
}

// moments returns the moment buffers of param, allocating them on first use.
func (a *Adam) moments(param *tensor.Tensor) (m, v *tensor.Tensor) {
	m, ok := a.m[param]
	if !ok {
		m = tensor.Zeros(param.Shape())
		v = tensor.Zeros(param.Shape())
		a.m[param] = m
		a.v[param] = v
		return m, v
	}
	return m, a.v[param]
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() error {
	return zeroGrads(a.params)
}

// LR returns the current learning rate.
func (a *Adam) LR() scalar.Scalar {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr scalar.Scalar) {
	a.lr = lr
}

// Timestep returns the number of steps taken.
func (a *Adam) Timestep() int {
	return a.t
}
