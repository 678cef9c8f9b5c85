//go:build cuda

package cuda

/*
#cgo LDFLAGS: -L${SRCDIR} -lexactkernel -lcudart
#include <stdint.h>

int exact_device_count(int* count);
const char* exact_error_string(int code);
int exact_matmul(const int32_t* a_frac, const int32_t* a_exp,
                 const int32_t* b_frac, const int32_t* b_exp,
                 int32_t* c_frac, int32_t* c_exp,
                 int m, int k, int n, int device);
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/born-ml/exact/internal/kernel"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Backend runs the Scalar matmul kernel on one CUDA device.
type Backend struct {
	device int
	mu     sync.Mutex
	closed bool
}

func cudaError(code C.int) string {
	return C.GoString(C.exact_error_string(code))
}

// New selects CUDA device index. A missing driver or an out-of-range index
// is reported as kernel.ErrUnavailable.
func New(device int) (*Backend, error) {
	if err := kernel.VerifySource(kernel.LangC, Header+Kernel); err != nil {
		return nil, errors.WithMessage(err, "cuda: kernel constants out of sync")
	}
	var count C.int
	if code := C.exact_device_count(&count); code != 0 {
		return nil, kernel.Unavailable("cuda: %s", cudaError(code))
	}
	if device < 0 || device >= int(count) {
		return nil, kernel.Unavailable("cuda: device %d not available (%d devices)", device, int(count))
	}
	klog.V(1).Infof("cuda: opened device %d of %d", device, int(count))
	return &Backend{device: device}, nil
}

// IsAvailable reports whether at least one CUDA device is present.
func IsAvailable() bool {
	var count C.int
	return C.exact_device_count(&count) == 0 && count > 0
}

// Name implements kernel.Backend.
func (b *Backend) Name() string {
	return fmt.Sprintf("cuda:%d", b.device)
}

func ptr(s []int32) *C.int32_t {
	//nolint:gosec // slices hold no Go pointers
	return (*C.int32_t)(unsafe.Pointer(&s[0]))
}

// Submit implements kernel.Backend.
func (b *Backend) Submit(req *kernel.Request) (*kernel.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errors.New("cuda: backend is closed")
	}

	klog.V(2).Infof("cuda: matmul %dx%dx%d, %s transferred",
		req.M, req.K, req.N, humanize.Bytes(uint64(req.Bytes())))
	res := req.NewResult()
	code := C.exact_matmul(
		ptr(req.AFrac), ptr(req.AExp), ptr(req.BFrac), ptr(req.BExp),
		ptr(res.CFrac), ptr(res.CExp),
		C.int(req.M), C.int(req.K), C.int(req.N), C.int(b.device))
	if code != 0 {
		return nil, kernel.Unavailable("cuda: device %d: %s", b.device, cudaError(code))
	}
	return res, nil
}

// Close implements kernel.Backend. Device memory is released after every
// Submit, so there is nothing left to free.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
