// Package main provides the exact CLI: backend discovery and CPU/accelerator
// parity checks.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/born-ml/exact/backend"
	"github.com/born-ml/exact/scalar"
	"github.com/born-ml/exact/tensor"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

var (
	flagBackend = flag.String("backend", "", "Backend as <kind>[:<device>]; defaults to $"+backend.EnvVar+" or reference.")
	flagSize    = flag.Int("size", 256, "Edge of the square matrices used by the parity check.")
	flagSeed    = flag.Uint64("seed", 1, "Random seed for the parity operands.")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "exact %s\n\nUsage: exact [flags] <command>\n\nCommands:\n", version)
	fmt.Fprintln(flag.CommandLine.Output(), "  version    Show version")
	fmt.Fprintln(flag.CommandLine.Output(), "  backends   Probe every backend kind")
	fmt.Fprintln(flag.CommandLine.Output(), "  parity     Compare the selected backend against the CPU bit for bit")
	fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	var err error
	switch flag.Arg(0) {
	case "version":
		fmt.Printf("exact %s\n", version)
	case "backends":
		probeBackends()
	case "parity":
		err = runParity()
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Fatalf("Failed with error: %+v", err)
	}
}

func config() (backend.Config, error) {
	if *flagBackend != "" {
		return backend.ParseConfig(*flagBackend)
	}
	return backend.ConfigFromEnv()
}

func probeBackends() {
	x := tensor.Ones(tensor.Shape{1, 1})
	for _, kind := range []backend.Kind{backend.Reference, backend.WebGPU, backend.CUDA} {
		ctx := backend.NewContext(backend.Config{Kind: kind})
		if _, err := ctx.MatMul(x, x); err != nil {
			fmt.Printf("%-10s unavailable: %v\n", kind, err)
		} else {
			fmt.Printf("%-10s ok\n", kind)
		}
		if err := ctx.Close(); err != nil {
			klog.Warningf("closing %s: %v", kind, err)
		}
	}
}

// operands fills an n x n tensor with ordinary values and a sprinkling of
// every exceptional class.
func operands(r *rand.Rand, n int) *tensor.Tensor {
	t := tensor.Uniform(tensor.Shape{n, n}, -4, 4, r)
	specials := []scalar.Scalar{
		scalar.Zero, scalar.PositiveInfinite, scalar.NegativeInfinite,
		scalar.PositiveVanished, scalar.NegativeVanished,
	}
	for _, c := range scalar.Causes() {
		specials = append(specials, scalar.Undefined(c))
	}
	data := t.Data()
	for i := range data {
		if r.IntN(64) == 0 {
			data[i] = specials[r.IntN(len(specials))]
		}
	}
	return t
}

func runParity() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	n := *flagSize
	if n <= 0 {
		return errors.Errorf("invalid -size %d", n)
	}
	ctx := backend.NewContext(cfg)
	defer ctx.Close()

	r := rand.New(rand.NewPCG(*flagSeed, *flagSeed^0x9e3779b97f4a7c15))
	a, b := operands(r, n), operands(r, n)
	klog.V(1).Infof("parity: %s, %dx%d operands (%s each)", cfg, n, n, humanize.Bytes(uint64(8*n*n)))

	mm, err := backend.CheckParity(ctx, backend.CPU{}, a, b)
	if err != nil {
		return err
	}
	if mm != nil {
		return errors.Errorf("%s disagrees with the CPU: %s", cfg, mm)
	}
	fmt.Printf("%s: %dx%d product is bit-identical to the CPU\n", cfg, n, n)
	return nil
}
