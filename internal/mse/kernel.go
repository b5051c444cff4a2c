package mse

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/cpu"
)

// Squared-difference kernels.
//
// A kernel reduces two equally laid out sample buffers to the sum of squared
// differences over every sample. Samples are widened to a signed type before
// subtracting, so 8-bit and 16-bit inputs never wrap.
//
// Implementations:
//   - kernel_scalar.go: naive and 4-way unrolled integer loops
//   - kernel_vector.go: per-row float64 difference buffer reduced with
//     gonum floats.Dot (assembly backed on amd64 only)
//
// All kernels return bit-identical sums while the total stays below 2^53.

// Kernel selects which squared-difference implementation to run.
type Kernel int

const (
	KernelAuto     Kernel = iota // Chosen at init from CPU features
	KernelNaive                  // Simple reference loop
	KernelUnrolled               // 4-way unrolled integer loop
	KernelVector                 // gonum floats.Dot per row
)

func (k Kernel) String() string {
	switch k {
	case KernelAuto:
		return "auto"
	case KernelNaive:
		return "naive"
	case KernelUnrolled:
		return "unrolled"
	case KernelVector:
		return "vector"
	default:
		return "unknown"
	}
}

// ParseKernel converts a kernel name into a Kernel.
func ParseKernel(s string) (Kernel, error) {
	switch s {
	case "", "auto":
		return KernelAuto, nil
	case "naive":
		return KernelNaive, nil
	case "unrolled":
		return KernelUnrolled, nil
	case "vector":
		return KernelVector, nil
	default:
		return KernelAuto, fmt.Errorf("unknown kernel %q (want auto, naive, unrolled or vector)", s)
	}
}

// kernelFunc sums squared differences over height rows of rowLen samples,
// rows starting every stride samples.
type kernelFunc func(a, b []uint16, stride, rowLen, height int) float64

// activeKernel is what KernelAuto resolves to. Set once by init.
var activeKernel Kernel

func init() {
	activeKernel = selectKernel(cpu.X86.HasAVX2)
	slog.Debug("MSE kernel initialized", "kernel", activeKernel.String(), "avx2", cpu.X86.HasAVX2)
}

// selectKernel picks the vector kernel only where gonum's Dot has an
// assembly implementation (amd64); elsewhere the integer loop is faster.
func selectKernel(hasAVX2 bool) Kernel {
	if hasAVX2 {
		return KernelVector
	}
	return KernelUnrolled
}

// ActiveKernel reports which kernel KernelAuto resolves to.
func ActiveKernel() Kernel {
	return activeKernel
}

// resolve maps a requested kernel to a concrete one and its implementation.
func (k Kernel) resolve() (Kernel, kernelFunc) {
	if k == KernelAuto {
		k = activeKernel
	}
	switch k {
	case KernelNaive:
		return k, ssdNaive
	case KernelVector:
		return k, ssdVector
	default:
		return KernelUnrolled, ssdUnrolled
	}
}
