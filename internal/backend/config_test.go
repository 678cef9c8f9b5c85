package backend_test

import (
	"testing"

	"github.com/born-ml/exact/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		in   string
		want backend.Config
	}{
		{"reference", backend.Config{Kind: backend.Reference}},
		{"reference:0", backend.Config{Kind: backend.Reference}},
		{"webgpu", backend.Config{Kind: backend.WebGPU}},
		{"WebGPU:0", backend.Config{Kind: backend.WebGPU}},
		{"cuda:0", backend.Config{Kind: backend.CUDA}},
		{" cuda:2 ", backend.Config{Kind: backend.CUDA, Device: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := backend.ParseConfig(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := backend.ParseConfig(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, in := range []string{"", "opencl", "cuda:x", "cuda:-1", "reference:1", "webgpu:"} {
		_, err := backend.ParseConfig(in)
		assert.ErrorIs(t, err, backend.ErrConfig, "input %q", in)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(backend.EnvVar, "")
	cfg, err := backend.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, backend.DefaultConfig(), cfg)

	t.Setenv(backend.EnvVar, "cuda:1")
	cfg, err = backend.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, backend.Config{Kind: backend.CUDA, Device: 1}, cfg)
	assert.Equal(t, "cuda:1", cfg.String())

	t.Setenv(backend.EnvVar, "tpu")
	_, err = backend.ConfigFromEnv()
	assert.ErrorIs(t, err, backend.ErrConfig)
}
