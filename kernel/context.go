package kernel

import (
	"fmt"
	"sync"

	"github.com/notargets/gocca"
)

// Context binds a patch to one execution device. All kernel launches and
// buffer accesses for that patch happen inside a scoped acquisition of the
// context, so operations on one device never interleave. CPU contexts
// share the host; GPU contexts each own one OCCA device.
type Context struct {
	Mode     string
	DeviceID int

	mu     sync.Mutex
	device *gocca.OCCADevice
}

// NewContext builds an execution context for (mode, deviceID). Modes are
// "cpu" and "gpu". Device creation failures are fatal to the run and are
// not retried.
func NewContext(mode string, deviceID int) (ctx *Context, err error) {
	ctx = &Context{Mode: mode, DeviceID: deviceID}
	switch mode {
	case "cpu":
	case "gpu":
		props := fmt.Sprintf(`{"mode": "CUDA", "device_id": %d}`, deviceID)
		if ctx.device, err = gocca.NewDevice(props); err != nil {
			return nil, fmt.Errorf("no gpu device %d: %w", deviceID, err)
		}
	default:
		return nil, fmt.Errorf("unknown execution mode %q", mode)
	}
	return
}

// Do runs f while holding the context, releasing it on every exit path.
func (c *Context) Do(f func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f()
}

// Device returns the underlying OCCA device, nil in cpu mode.
func (c *Context) Device() *gocca.OCCADevice { return c.device }

// NumDevices reports how many devices a mode can use. CPU patches share
// one host context; GPU device counts come from configuration since device
// discovery is owned by the OCCA runtime.
func NumDevices(mode string, configured int) int {
	if mode == "cpu" || configured < 1 {
		return 1
	}
	return configured
}

// NewLibrary builds the kernel library matching a context's mode, with the
// adiabatic index compiled in. The OCCA library compiles its device source
// exactly once, at construction.
func NewLibrary(ctx *Context, gamma float64) (Library, error) {
	if ctx.Mode == "cpu" {
		return NewCPULibrary(gamma), nil
	}
	return NewOCCALibrary(ctx.device, gamma)
}
