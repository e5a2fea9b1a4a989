/*
Package setups defines the initial and boundary data of the problems the
solver knows how to run. A Setup samples primitive state at physical
coordinates; the solver converts and distributes it over patches.
*/
package setups

import (
	"fmt"
	"math"
	"sort"
)

// Setup describes one problem: which boundary condition applies at the
// global edges and what the primitive state is at a point. Samples are
// taken at physical coordinates, at the solver's start time.
type Setup interface {
	// BoundaryCondition is "periodic" or "outflow".
	BoundaryCondition() string
	// InitialPrimitive fills prim with [rho, u..., pre] at (x, q). The
	// velocity components present depend on the grid dimensionality.
	InitialPrimitive(t, x, q float64, prim []float64)
}

// Shocktube is the standard two-state problem: a density and pressure
// jump at x = 0.5, fluid initially at rest.
type Shocktube struct{}

func (Shocktube) BoundaryCondition() string { return "outflow" }

func (Shocktube) InitialPrimitive(t, x, q float64, prim []float64) {
	for n := range prim {
		prim[n] = 0
	}
	if x < 0.5 {
		prim[0] = 1.0
		prim[len(prim)-1] = 1.0
	} else {
		prim[0] = 0.1
		prim[len(prim)-1] = 0.125
	}
}

// DensityWave advects a sinusoidal density profile at constant velocity
// through a periodic domain. Smooth, so it exercises the full spatial
// order of the scheme.
type DensityWave struct {
	Amplitude float64 // density contrast, must stay below 1
	Speed     float64 // advection four-velocity
}

func (DensityWave) BoundaryCondition() string { return "periodic" }

func (s DensityWave) InitialPrimitive(t, x, q float64, prim []float64) {
	for n := range prim {
		prim[n] = 0
	}
	prim[0] = 1.0 + s.Amplitude*math.Sin(2*math.Pi*x)
	prim[1] = s.Speed
	prim[len(prim)-1] = 1.0
}

// UniformEjecta is a cold homologous outflow on an expanding spherical
// grid: coordinate velocity x/t everywhere and a steep density profile,
// the free-expansion stage of an explosion. Grids carrying it must keep
// their outer edge inside the light cone, a(t)*R1 < t.
type UniformEjecta struct {
	RhoScale float64
	POverRho float64 // pressure fraction, small for a cold flow
}

func (UniformEjecta) BoundaryCondition() string { return "outflow" }

func (s UniformEjecta) InitialPrimitive(t, x, q float64, prim []float64) {
	for n := range prim {
		prim[n] = 0
	}
	var (
		beta = x / t
		rho  = s.RhoScale / (x * x)
	)
	prim[0] = rho
	prim[1] = beta / math.Sqrt(1-beta*beta)
	prim[len(prim)-1] = s.POverRho * rho
}

// registry maps CLI names to constructors with their defaults.
var registry = map[string]func() Setup{
	"shocktube": func() Setup { return Shocktube{} },
	"density-wave": func() Setup {
		return DensityWave{Amplitude: 0.2, Speed: 0.5}
	},
	"uniform-ejecta": func() Setup {
		return UniformEjecta{RhoScale: 1.0, POverRho: 1e-4}
	},
}

// MakeSetup resolves a setup by name.
func MakeSetup(name string) (Setup, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown setup %q, have %v", name, Names())
	}
	return mk(), nil
}

// Names lists the registered setups in stable order.
func Names() (names []string) {
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
