// Package backend selects and drives the accelerator that runs Scalar
// matrix products.
//
// A Context is the explicit accelerator context of a process: it is built
// from a Config, opens its backend once on first use, and must be closed by
// its owner. If the configured backend cannot be opened, every call reports
// kernel.ErrUnavailable; there is no silent fallback to another backend.
package backend

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EnvVar is the environment variable holding the default backend
// configuration, formatted as "<kind>[:<device>]", e.g. "cuda:1".
const EnvVar = "EXACT_BACKEND"

// ErrConfig is returned for malformed backend configurations.
var ErrConfig = errors.New("backend: invalid configuration")

// Kind names a backend implementation.
type Kind string

const (
	// Reference is the CPU implementation of the kernel contract.
	Reference Kind = "reference"
	// WebGPU runs the WGSL kernel through go-webgpu.
	WebGPU Kind = "webgpu"
	// CUDA runs the CUDA kernel through cgo.
	CUDA Kind = "cuda"
)

// Kinds returns every known backend kind.
func Kinds() []Kind {
	return []Kind{Reference, WebGPU, CUDA}
}

// Config selects a backend and a device index.
type Config struct {
	Kind   Kind
	Device int
}

// DefaultConfig is used when EnvVar is not set.
func DefaultConfig() Config {
	return Config{Kind: Reference}
}

// String formats the configuration as accepted by ParseConfig.
func (c Config) String() string {
	return fmt.Sprintf("%s:%d", c.Kind, c.Device)
}

// Validate checks the kind and device index.
func (c Config) Validate() error {
	switch c.Kind {
	case Reference:
		if c.Device != 0 {
			return errors.Wrapf(ErrConfig, "reference backend has only device 0, got %d", c.Device)
		}
	case WebGPU, CUDA:
		if c.Device < 0 {
			return errors.Wrapf(ErrConfig, "negative device index %d", c.Device)
		}
	default:
		return errors.Wrapf(ErrConfig, "unknown backend %q", c.Kind)
	}
	return nil
}

// ParseConfig parses "<kind>[:<device>]". The device defaults to 0.
func ParseConfig(s string) (Config, error) {
	name, device, hasDevice := strings.Cut(strings.TrimSpace(s), ":")
	cfg := Config{Kind: Kind(strings.ToLower(name))}
	if hasDevice {
		d, err := strconv.Atoi(device)
		if err != nil {
			return Config{}, errors.Wrapf(ErrConfig, "device in %q is not an integer", s)
		}
		cfg.Device = d
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.WithMessagef(err, "parsing %q", s)
	}
	return cfg, nil
}

// ConfigFromEnv parses EnvVar, or returns DefaultConfig if it is unset or
// empty.
func ConfigFromEnv() (Config, error) {
	value, found := os.LookupEnv(EnvVar)
	if !found || strings.TrimSpace(value) == "" {
		return DefaultConfig(), nil
	}
	return ParseConfig(value)
}
