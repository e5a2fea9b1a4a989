/*
Package kernel provides the execution layer between the patch engine and
the physics kernels: a Library of named kernels launched by iteration
shape with positional buffer and scalar arguments, and execution contexts
binding each patch to one device.

Two libraries implement the contract: a CPU library dispatching to the
pure Go kernels in package srhd, and an OCCA library that compiles the
generated device source once and launches on a GPU, staging host buffers
around each launch. Kernel compilation itself is opaque to callers.
*/
package kernel

import (
	"fmt"

	"github.com/EigenDev/sailfish/srhd"
)

// Shape is the iteration extent of a kernel launch, (ni, nj).
type Shape [2]int

// Library exposes named kernels addressable by iteration shape. Kernel
// names follow the solver family: srhd_1d_* operate on 3-component states,
// srhd_2d_* on 4-component states.
type Library interface {
	RunKernel(name string, shape Shape, args ...interface{}) error
	// Free releases device resources; a no-op for the CPU library.
	Free()
}

// RecoveryError reports cells whose conserved-to-primitive inversion
// produced a degraded state. It is surfaced, never swallowed; callers
// running in non-strict mode may elect to continue past it.
type RecoveryError struct {
	Kernel string
	Zones  []srhd.BadZone
}

func (e *RecoveryError) Error() string {
	z := e.Zones[0]
	return fmt.Sprintf("%s: %d bad zones, first at %d: %s",
		e.Kernel, len(e.Zones), z.Index, z.Status)
}

// CPULibrary runs the pure Go kernels directly on host memory.
type CPULibrary struct {
	Gamma float64
}

func NewCPULibrary(gamma float64) *CPULibrary {
	return &CPULibrary{Gamma: gamma}
}

func (l *CPULibrary) Free() {}

func (l *CPULibrary) RunKernel(name string, shape Shape, args ...interface{}) error {
	switch name {
	case "srhd_1d_primitive_to_conserved":
		srhd.PrimitiveToConservedArray(
			args[0].([]float64), args[1].([]float64),
			shape[0]*shape[1], 1, l.Gamma, args[2].(float64))
	case "srhd_2d_primitive_to_conserved":
		srhd.PrimitiveToConservedArray(
			args[0].([]float64), args[1].([]float64),
			shape[0]*shape[1], 2, l.Gamma, args[2].(float64))
	case "srhd_1d_conserved_to_primitive":
		bad := srhd.ConservedToPrimitiveArray(
			args[0].([]float64), args[1].([]float64),
			shape[0]*shape[1], 1, l.Gamma, args[2].(float64))
		if len(bad) != 0 {
			return &RecoveryError{Kernel: name, Zones: bad}
		}
	case "srhd_2d_conserved_to_primitive":
		bad := srhd.ConservedToPrimitiveArray(
			args[0].([]float64), args[1].([]float64),
			shape[0]*shape[1], 2, l.Gamma, args[2].(float64))
		if len(bad) != 0 {
			return &RecoveryError{Kernel: name, Zones: bad}
		}
	case "srhd_1d_advance_rk":
		srhd.AdvanceRK1D(
			args[0].([]float64), args[1].([]float64), args[2].([]float64),
			args[3].([]float64), args[4].([]float64),
			args[5].(int), srhd.Coords(args[6].(int)),
			args[7].(float64), args[8].(float64), args[9].(float64),
			args[10].(float64), args[11].(float64), args[12].(float64), l.Gamma)
	case "srhd_2d_advance_rk":
		srhd.AdvanceRK2D(
			args[0].([]float64), args[1].([]float64), args[2].([]float64),
			args[3].([]float64), args[4].([]float64),
			shape[1], args[5].(int), args[6].(float64),
			args[7].(float64), args[8].(float64), args[9].(float64),
			args[10].(float64), args[11].(float64), args[12].(float64), l.Gamma)
	case "srhd_1d_max_wavespeeds":
		srhd.MaxWavespeeds1D(
			args[0].([]float64), args[1].([]float64), args[2].([]float64),
			args[3].(int), args[4].(float64), l.Gamma)
	case "srhd_2d_max_wavespeeds":
		srhd.MaxWavespeeds2D(
			args[0].([]float64), args[1].([]float64), args[2].([]float64),
			shape[1], args[3].(int), args[4].(float64), l.Gamma)
	default:
		return fmt.Errorf("kernel %s not found", name)
	}
	return nil
}
