//go:build windows

package webgpu

import (
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
)

const (
	inputUsage   = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	outputUsage  = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	stagingUsage = wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst
)

// createBuffer creates a GPU buffer initialized with data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer rounded up to 16 bytes.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies size bytes of a storage buffer back to the host through
// a pooled staging buffer.
func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging, capacity := b.pool.Acquire(size, stagingUsage)
	defer b.pool.Release(staging, capacity, stagingUsage)

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, errors.Wrap(err, "webgpu: failed to map staging buffer")
	}
	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	staging.Unmap()

	return result, nil
}

// runMatMul uploads the request, dispatches one invocation per output cell
// and reads both result buffers back.
func (b *Backend) runMatMul(m, k, n int, inputs [4][]int32) (frac, exp []int32, err error) {
	var bufs [4]*wgpu.Buffer
	for i, in := range inputs {
		bufs[i] = b.createBuffer(encodeInt32s(in), inputUsage)
		defer bufs[i].Release()
	}

	outSize := uint64(4 * m * n)
	cFrac, fracCap := b.pool.Acquire(outSize, outputUsage)
	defer b.pool.Release(cFrac, fracCap, outputUsage)
	cExp, expCap := b.pool.Acquire(outSize, outputUsage)
	defer b.pool.Release(cExp, expCap, outputUsage)

	params := b.createUniformBuffer(encodeParams(m, k, n))
	defer params.Release()

	aSize, bSize := uint64(4*m*k), uint64(4*k*n)
	layout := b.pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(layout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufs[0], 0, aSize),
		wgpu.BufferBindingEntry(1, bufs[1], 0, aSize),
		wgpu.BufferBindingEntry(2, bufs[2], 0, bSize),
		wgpu.BufferBindingEntry(3, bufs[3], 0, bSize),
		wgpu.BufferBindingEntry(4, cFrac, 0, outSize),
		wgpu.BufferBindingEntry(5, cExp, 0, outSize),
		wgpu.BufferBindingEntry(6, params, 0, 16),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(b.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(workgroups(n, wgSize), workgroups(m, wgSize), 1)
	computePass.End()
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	fracBytes, err := b.readBuffer(cFrac, outSize)
	if err != nil {
		return nil, nil, err
	}
	expBytes, err := b.readBuffer(cExp, outSize)
	if err != nil {
		return nil, nil, err
	}
	if frac, err = decodeInt32s(fracBytes, m*n); err != nil {
		return nil, nil, err
	}
	if exp, err = decodeInt32s(expBytes, m*n); err != nil {
		return nil, nil, err
	}
	return frac, exp, nil
}
