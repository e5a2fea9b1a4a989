package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/EigenDev/sailfish/kernel"
	"github.com/EigenDev/sailfish/mesh"
	"github.com/EigenDev/sailfish/srhd"
)

// grid carries the per-solver geometry constants shared by every patch:
// the kernel family, the component counts, and the homologous expansion
// parameters captured once from the mesh.
type grid struct {
	family      string // kernel name prefix, "srhd_1d" or "srhd_2d"
	nvecs       int    // velocity components carried per zone
	nc          int    // total state components, nvecs + 2
	nj          int    // transverse extent, 1 for the 1D family
	ng          int    // guard zone depth on each radial side
	coords      srhd.Coords
	polarExtent float64
	a0, adot    float64
	gamma       float64
	plmTheta    float64
}

func newGrid(geom mesh.Geometry, gamma, plmTheta float64) (g grid) {
	_, nj := geom.Shape()
	g = grid{
		nj:          nj,
		ng:          2,
		polarExtent: geom.PolarExtent(),
		a0:          geom.ScaleFactor(0),
		adot:        geom.ScaleFactorDerivative(),
		gamma:       gamma,
		plmTheta:    plmTheta,
	}
	switch geom.(type) {
	case *mesh.PlanarCartesian:
		g.coords = srhd.Cartesian
	default:
		g.coords = srhd.SphericalPolar
	}
	if nj == 1 {
		g.family, g.nvecs = "srhd_1d", 1
	} else {
		g.family, g.nvecs = "srhd_2d", 2
	}
	g.nc = g.nvecs + 2
	return
}

// scaleFactor evaluates a(t); adot of zero reduces it to the static a0.
func (g grid) scaleFactor(t float64) float64 {
	return g.a0 + g.adot*t
}

func (g grid) volumeScale(t float64) float64 {
	return srhd.VolumeScale(g.scaleFactor(t), g.coords)
}

// Patch owns one contiguous radial slab of the domain: three conserved
// buffers cycling through the RK stages, the primitive and wavespeed
// scratch, and the comoving face positions of its interior plus guards.
// All buffers are host resident; the bound Library moves data to a device
// per launch when one is in play.
type Patch struct {
	grid

	i0, i1 int // global interior range, [i0, i1)
	ni     int // interior radial extent, i1 - i0
	slab   int // ni + 2*ng

	time, time0 float64

	// conserved0 snapshots the state at the top of each iteration for the
	// RK convex blend; conserved1 is current; conserved2 receives writes
	// and is swapped in after each sub-stage.
	conserved0 []float64
	conserved1 []float64
	conserved2 []float64
	primitive1 []float64
	wavespeeds []float64

	faces []float64 // comoving radial face positions of the interior, ni+1 values

	lib kernel.Library
	ctx *kernel.Context
}

// newPatch carves the range [i0, i1) out of the global interior conserved
// array and seeds all three conserved buffers with it. Guard zones start
// zeroed; the solver refreshes them with a conserved-buffer exchange
// ahead of every primitive recovery, since AdvanceRK writes interior rows
// only and the buffer swap would otherwise expose stale guards.
func newPatch(g grid, geom mesh.Geometry, conserved []float64,
	i0, i1 int, time float64, lib kernel.Library, ctx *kernel.Context) (p *Patch) {
	var (
		ni    = i1 - i0
		slab  = ni + 2*g.ng
		rowsz = g.nj * g.nc
	)
	p = &Patch{
		grid:       g,
		i0:         i0,
		i1:         i1,
		ni:         ni,
		slab:       slab,
		time:       time,
		time0:      time,
		conserved0: make([]float64, slab*rowsz),
		conserved1: make([]float64, slab*rowsz),
		conserved2: make([]float64, slab*rowsz),
		primitive1: make([]float64, slab*rowsz),
		wavespeeds: make([]float64, ni*g.nj),
		faces:      geom.Faces(i0, i1),
		lib:        lib,
		ctx:        ctx,
	}
	copy(p.conserved1[g.ng*rowsz:(g.ng+ni)*rowsz], conserved[i0*rowsz:i1*rowsz])
	copy(p.conserved0, p.conserved1)
	copy(p.conserved2, p.conserved1)
	return
}

func (p *Patch) rowSize() int { return p.nj * p.nc }

// interior returns the guard-free window of a slab buffer.
func (p *Patch) interior(buf []float64) []float64 {
	rowsz := p.rowSize()
	return buf[p.ng*rowsz : (p.ng+p.ni)*rowsz]
}

// RecomputePrimitive inverts the current conserved buffer over every cell
// of the slab, guards included. A RecoveryError carries the offending
// zones; the buffer still holds best-effort values for them.
func (p *Patch) RecomputePrimitive() error {
	return p.ctx.Do(func() error {
		return p.lib.RunKernel(p.family+"_conserved_to_primitive",
			kernel.Shape{p.slab, p.nj},
			p.conserved1, p.primitive1, p.volumeScale(p.time))
	})
}

// AdvanceRK runs one Runge-Kutta sub-stage and swaps the write buffer in.
// rkParam is the convex blend weight toward the iteration snapshot; the
// patch time advances by the same blend so interiors and clocks agree.
func (p *Patch) AdvanceRK(rkParam, dt float64) error {
	err := p.ctx.Do(func() error {
		if p.family == "srhd_1d" {
			return p.lib.RunKernel("srhd_1d_advance_rk",
				kernel.Shape{p.ni, 1},
				p.faces, p.conserved0, p.primitive1, p.conserved1, p.conserved2,
				p.ng, int(p.coords), p.a0, p.adot,
				p.time, rkParam, dt, p.plmTheta)
		}
		return p.lib.RunKernel("srhd_2d_advance_rk",
			kernel.Shape{p.ni, p.nj},
			p.faces, p.conserved0, p.primitive1, p.conserved1, p.conserved2,
			p.ng, p.polarExtent, p.a0, p.adot,
			p.time, rkParam, dt, p.plmTheta)
	})
	if err != nil {
		return err
	}
	p.time = p.time0*rkParam + (p.time+dt)*(1-rkParam)
	p.conserved1, p.conserved2 = p.conserved2, p.conserved1
	return nil
}

// NewIteration snapshots the current state and time as the blend targets
// for the sub-stages of the next full step.
func (p *Patch) NewIteration() {
	copy(p.conserved0, p.conserved1)
	p.time0 = p.time
}

// MaximumWavespeed reports the fastest face-relative signal speed over
// the patch interior, in comoving coordinates. Used for the CFL condition.
func (p *Patch) MaximumWavespeed() (a float64, err error) {
	if err = p.RecomputePrimitive(); err != nil {
		if _, degraded := err.(*kernel.RecoveryError); !degraded {
			return 0, err
		}
	}
	runErr := p.ctx.Do(func() error {
		return p.lib.RunKernel(p.family+"_max_wavespeeds",
			kernel.Shape{p.ni, p.nj},
			p.faces, p.primitive1, p.wavespeeds, p.ng, p.adot)
	})
	if runErr != nil {
		return 0, runErr
	}
	return floats.Max(p.wavespeeds), err
}

func (p *Patch) String() string {
	return fmt.Sprintf("patch[%d:%d] t=%.6f", p.i0, p.i1, p.time)
}
