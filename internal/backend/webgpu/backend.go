//go:build windows

package webgpu

import (
	"fmt"
	"sync"

	"github.com/born-ml/exact/internal/kernel"
	"github.com/dustin/go-humanize"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const wgSize = kernel.WorkgroupSize

// Backend runs the Scalar matmul shader on a WebGPU device.
type Backend struct {
	index int

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
	pool     *BufferPool

	mu sync.Mutex
}

// New opens WebGPU device index and compiles the matmul shader.
// Only the default high-performance adapter (index 0) can be selected.
// Every failure, including a missing native library, is reported as
// kernel.ErrUnavailable.
func New(index int) (backend *Backend, err error) {
	// wgpu panics if the native library cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = kernel.Unavailable("webgpu: native library not available: %v", r)
		}
	}()

	if index != 0 {
		return nil, kernel.Unavailable("webgpu: device %d not available, only the default adapter can be selected", index)
	}
	source := kernel.WGSL()
	if err := kernel.VerifySource(kernel.LangWGSL, source); err != nil {
		return nil, errors.WithMessage(err, "webgpu: shader constants out of sync")
	}

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, kernel.Unavailable("webgpu: failed to request adapter: %v", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, kernel.Unavailable("webgpu: failed to request device: %v", err)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, kernel.Unavailable("webgpu: failed to get queue")
	}

	shader := device.CreateShaderModuleWGSL(source)
	pipeline := device.CreateComputePipelineSimple(nil, shader, "main")

	klog.V(1).Infof("webgpu: opened device %d", index)
	return &Backend{
		index:    index,
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		shader:   shader,
		pipeline: pipeline,
		pool:     NewBufferPool(device),
	}, nil
}

// Name implements kernel.Backend.
func (b *Backend) Name() string {
	return fmt.Sprintf("webgpu:%d", b.index)
}

// Submit implements kernel.Backend.
func (b *Backend) Submit(req *kernel.Request) (res *kernel.Result, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return nil, errors.New("webgpu: backend is closed")
	}
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = kernel.Unavailable("webgpu: submit failed: %v", r)
		}
	}()

	klog.V(2).Infof("webgpu: matmul %dx%dx%d, %s transferred",
		req.M, req.K, req.N, humanize.Bytes(uint64(req.Bytes())))
	frac, exp, err := b.runMatMul(req.M, req.K, req.N,
		[4][]int32{req.AFrac, req.AExp, req.BFrac, req.BExp})
	if err != nil {
		return nil, kernel.Unavailable("webgpu: %v", err)
	}
	return &kernel.Result{CFrac: frac, CExp: exp}, nil
}

// Close releases all device resources.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return nil
	}

	allocated, released, hits, misses, pooled := b.pool.Stats()
	klog.V(1).Infof("webgpu: closing; buffers allocated=%d released=%d hits=%d misses=%d pooled=%d",
		allocated, released, hits, misses, pooled)

	b.pool.Clear()
	b.pipeline.Release()
	b.shader.Release()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
	b.device = nil
	return nil
}

// IsAvailable reports whether a WebGPU adapter can be obtained.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}
