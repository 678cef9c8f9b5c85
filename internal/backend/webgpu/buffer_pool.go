//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// BufferPool reuses device buffers across Submit calls. Input buffers are
// created mapped and are not pooled; output and staging buffers are.
type BufferPool struct {
	device *wgpu.Device

	free freeList[*wgpu.Buffer, wgpu.BufferUsage]

	mu sync.Mutex

	totalAllocated uint64
	totalReleased  uint64
	poolHits       uint64
	poolMisses     uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// Acquire gets a buffer of at least size bytes with the given usage,
// reusing a pooled one when possible. It returns the buffer's real
// capacity, which must be passed back to Release.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if buf, capacity, ok := p.free.take(size, usage); ok {
		p.poolHits++
		return buf, capacity
	}

	p.poolMisses++
	p.totalAllocated++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	}), size
}

// Release returns a buffer of the given capacity to the pool. If the pool
// is full, the buffer is released immediately.
func (p *BufferPool) Release(buffer *wgpu.Buffer, capacity uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalReleased++
	if !p.free.put(buffer, capacity, usage) {
		buffer.Release()
	}
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, buf := range p.free.drain() {
		buf.Release()
	}
}

// Stats returns statistics about buffer pool usage.
func (p *BufferPool) Stats() (allocated, released, hits, misses uint64, pooledCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.totalAllocated, p.totalReleased, p.poolHits, p.poolMisses, p.free.len()
}
