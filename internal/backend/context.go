package backend

import (
	"sync"

	"github.com/born-ml/exact/internal/backend/cuda"
	"github.com/born-ml/exact/internal/backend/reference"
	"github.com/born-ml/exact/internal/backend/webgpu"
	"github.com/born-ml/exact/internal/kernel"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrClosed is returned by a Context after Close.
var ErrClosed = errors.New("backend: context is closed")

// Context owns one backend. Its methods are safe for concurrent use;
// submissions are serialized.
type Context struct {
	cfg Config

	once    sync.Once
	backend kernel.Backend
	openErr error

	mu     sync.Mutex
	closed bool
}

// NewContext creates a context for cfg. The backend is not opened until
// first use.
func NewContext(cfg Config) *Context {
	return &Context{cfg: cfg}
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config {
	return c.cfg
}

func open(cfg Config) (kernel.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case WebGPU:
		b, err := webgpu.New(cfg.Device)
		if err != nil {
			return nil, err
		}
		return b, nil
	case CUDA:
		b, err := cuda.New(cfg.Device)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return reference.New(), nil
	}
}

// Backend opens the configured backend on first call and returns it.
// An open failure is remembered and returned by every later call.
func (c *Context) Backend() (kernel.Backend, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	c.once.Do(func() {
		c.backend, c.openErr = open(c.cfg)
		if c.openErr != nil {
			klog.V(1).Infof("backend: %s unavailable: %v", c.cfg, c.openErr)
			return
		}
		klog.V(1).Infof("backend: opened %s", c.backend.Name())
	})
	if c.openErr != nil {
		return nil, errors.WithMessagef(c.openErr, "backend %s", c.cfg)
	}
	return c.backend, nil
}

// MatMul computes a @ b on the configured backend. Shape errors are
// tensor.ErrShapeMismatch; backend failures are kernel.ErrUnavailable.
func (c *Context) MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	req, err := kernel.NewRequest(a, b)
	if err != nil {
		return nil, err
	}
	be, err := c.Backend()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	klog.V(2).Infof("backend: %s matmul [%d,%d]@[%d,%d] (%s)",
		be.Name(), req.M, req.K, req.K, req.N, humanize.Bytes(uint64(req.Bytes())))
	res, err := be.Submit(req)
	if err != nil {
		return nil, errors.WithMessagef(err, "backend %s", be.Name())
	}
	return res.Tensor(req)
}

// Close releases the backend. It is safe to call more than once.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	// Prevent a later first use from opening the backend.
	c.once.Do(func() { c.openErr = ErrClosed })
	if c.backend == nil {
		return nil
	}
	klog.V(1).Infof("backend: closing %s", c.backend.Name())
	return c.backend.Close()
}
