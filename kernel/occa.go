package kernel

import (
	"fmt"
	"unsafe"

	"github.com/EigenDev/sailfish/srhd"
	"github.com/notargets/gocca"
)

// kernelSpec describes how a named kernel's positional arguments map onto
// a device launch: which buffer arguments are copied back to the host,
// where a per-cell status buffer is injected, and which iteration-shape
// scalars are appended.
type kernelSpec struct {
	out      []int // indices of host buffers copied back after the launch
	statusAt int   // position to inject an int status buffer, -1 for none
	tail     func(shape Shape) []interface{}
}

var kernelSpecs = map[string]kernelSpec{
	"srhd_1d_primitive_to_conserved": {out: []int{1}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0] * s[1]} }},
	"srhd_2d_primitive_to_conserved": {out: []int{1}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0] * s[1]} }},
	"srhd_1d_conserved_to_primitive": {out: []int{1}, statusAt: 2,
		tail: func(s Shape) []interface{} { return []interface{}{s[0] * s[1]} }},
	"srhd_2d_conserved_to_primitive": {out: []int{1}, statusAt: 2,
		tail: func(s Shape) []interface{} { return []interface{}{s[0] * s[1]} }},
	"srhd_1d_advance_rk": {out: []int{4}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0]} }},
	"srhd_2d_advance_rk": {out: []int{4}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0], s[1]} }},
	"srhd_1d_max_wavespeeds": {out: []int{2}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0]} }},
	"srhd_2d_max_wavespeeds": {out: []int{2}, statusAt: -1,
		tail: func(s Shape) []interface{} { return []interface{}{s[0], s[1]} }},
}

// OCCALibrary compiles the generated device source once and launches
// kernels by name and shape. Host buffers are staged to pooled device
// memory around each launch and outputs copied back, so patch state stays
// host-resident and the guard-zone exchange never touches the device.
type OCCALibrary struct {
	device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
	memory  map[string]*gocca.OCCAMemory
	sizes   map[string]int64
}

func NewOCCALibrary(device *gocca.OCCADevice, gamma float64) (l *OCCALibrary, err error) {
	l = &OCCALibrary{
		device:  device,
		kernels: make(map[string]*gocca.OCCAKernel),
		memory:  make(map[string]*gocca.OCCAMemory),
		sizes:   make(map[string]int64),
	}
	for nvecs, names := range map[int][]string{
		1: {"srhd_1d_primitive_to_conserved", "srhd_1d_conserved_to_primitive",
			"srhd_1d_advance_rk", "srhd_1d_max_wavespeeds"},
		2: {"srhd_2d_primitive_to_conserved", "srhd_2d_conserved_to_primitive",
			"srhd_2d_advance_rk", "srhd_2d_max_wavespeeds"},
	} {
		source := Source(nvecs, gamma)
		for _, name := range names {
			kernel, buildErr := device.BuildKernelFromString(source, name, nil)
			if buildErr != nil {
				l.Free()
				return nil, fmt.Errorf("failed to build kernel %s: %w", name, buildErr)
			}
			l.kernels[name] = kernel
		}
	}
	return
}

func (l *OCCALibrary) RunKernel(name string, shape Shape, args ...interface{}) error {
	spec, exists := kernelSpecs[name]
	if !exists {
		return fmt.Errorf("kernel %s not found", name)
	}
	kernel := l.kernels[name]

	var (
		deviceArgs []interface{}
		status     []int32
		statusMem  *gocca.OCCAMemory
	)
	slot := 0
	for i, arg := range args {
		if i == spec.statusAt {
			status = make([]int32, shape[0]*shape[1])
			statusMem = l.buffer(name, slot, int64(len(status)*4))
			deviceArgs = append(deviceArgs, statusMem)
			slot++
		}
		if host, isBuffer := arg.([]float64); isBuffer {
			mem := l.buffer(name, slot, int64(len(host)*8))
			mem.CopyFrom(unsafe.Pointer(&host[0]), int64(len(host)*8))
			deviceArgs = append(deviceArgs, mem)
			slot++
		} else {
			deviceArgs = append(deviceArgs, arg)
		}
	}
	deviceArgs = append(deviceArgs, spec.tail(shape)...)

	if err := kernel.RunWithArgs(deviceArgs...); err != nil {
		return fmt.Errorf("kernel %s launch failed: %w", name, err)
	}

	slot = 0
	copied := 0
	for i, arg := range args {
		if i == spec.statusAt {
			statusMem.CopyTo(unsafe.Pointer(&status[0]), int64(len(status)*4))
			slot++
		}
		if host, isBuffer := arg.([]float64); isBuffer {
			if copied < len(spec.out) && i == spec.out[copied] {
				mem := l.memory[memKey(name, slot)]
				mem.CopyTo(unsafe.Pointer(&host[0]), int64(len(host)*8))
				copied++
			}
			slot++
		}
	}
	if status != nil {
		var bad []srhd.BadZone
		for i, s := range status {
			if s != 0 {
				bad = append(bad, srhd.BadZone{Index: i, Status: srhd.RecoveryStatus(s)})
			}
		}
		if len(bad) != 0 {
			return &RecoveryError{Kernel: name, Zones: bad}
		}
	}
	return nil
}

// buffer returns pooled device memory for one argument slot, reallocating
// when the requested size changes.
func (l *OCCALibrary) buffer(name string, slot int, bytes int64) *gocca.OCCAMemory {
	key := memKey(name, slot)
	if mem, exists := l.memory[key]; exists && l.sizes[key] == bytes {
		return mem
	}
	if mem, exists := l.memory[key]; exists {
		mem.Free()
	}
	mem := l.device.Malloc(bytes, nil, nil)
	l.memory[key] = mem
	l.sizes[key] = bytes
	return mem
}

func memKey(name string, slot int) string {
	return fmt.Sprintf("%s_arg%d", name, slot)
}

// Free releases all kernels and pooled device memory.
func (l *OCCALibrary) Free() {
	for _, kernel := range l.kernels {
		if kernel != nil {
			kernel.Free()
		}
	}
	for _, mem := range l.memory {
		if mem != nil {
			mem.Free()
		}
	}
	l.kernels = make(map[string]*gocca.OCCAKernel)
	l.memory = make(map[string]*gocca.OCCAMemory)
}
