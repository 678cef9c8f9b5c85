package webgpu

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Buffer size categories for pooling.
type BufferSize int

const (
	// SmallBuffer for buffers < 4KB.
	SmallBuffer BufferSize = iota
	// MediumBuffer for buffers 4KB-1MB.
	MediumBuffer
	// LargeBuffer for buffers >= 1MB.
	LargeBuffer
)

const (
	smallThreshold  = 4 * 1024
	mediumThreshold = 1024 * 1024
	maxPoolSize     = 32 // Max buffers per category
)

// Categorize returns the pool category for a buffer of size bytes.
func Categorize(size uint64) BufferSize {
	if size < smallThreshold {
		return SmallBuffer
	}
	if size < mediumThreshold {
		return MediumBuffer
	}
	return LargeBuffer
}

// encodeInt32s packs values little-endian, 4 bytes each.
func encodeInt32s(values []int32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], uint32(v))
	}
	return out
}

// decodeInt32s unpacks n little-endian int32 values.
func decodeInt32s(data []byte, n int) ([]int32, error) {
	if len(data) < 4*n {
		return nil, errors.Errorf("webgpu: read %d bytes, want %d", len(data), 4*n)
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}

// encodeParams packs the shader's Params uniform: M, K, N and padding.
func encodeParams(m, k, n int) []byte {
	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))
	return params
}

// workgroups returns the dispatch size covering n invocations.
func workgroups(n, size int) uint32 {
	return uint32((n + size - 1) / size)
}
