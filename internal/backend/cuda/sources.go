// Package cuda runs Scalar matrix products on NVIDIA GPUs.
//
// The kernel lives in csrc/ and is built into libexactkernel with nvcc; the
// Go side links it through cgo when built with the "cuda" tag. Without the
// tag, New reports kernel.ErrUnavailable.
package cuda

import _ "embed"

//go:generate nvcc -O3 -shared -Xcompiler -fPIC -o libexactkernel.so csrc/scalar_matmul.cu

// Header is the Scalar arithmetic header shared by every CUDA kernel.
//
//go:embed csrc/scalar_kernel.h
var Header string

// Kernel is the matmul kernel and its host launcher.
//
//go:embed csrc/scalar_matmul.cu
var Kernel string

// BlockSize is the edge of the square thread block.
const BlockSize = 16
