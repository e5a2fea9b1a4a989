/*
Package solver advances the special relativistic hydrodynamics equations
on a one or two dimensional grid decomposed into radial patches. Each
patch is bound to an execution context and advances through Runge-Kutta
sub-stages in lockstep with its neighbors: recover primitives, exchange
guard zones, advance. Patch phases run concurrently; the guard exchange
is the global synchronization point between them.
*/
package solver

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/EigenDev/sailfish/kernel"
	"github.com/EigenDev/sailfish/mesh"
	"github.com/EigenDev/sailfish/setups"
	"github.com/EigenDev/sailfish/srhd"
)

// Physics carries the fluid constants compiled into the kernels.
type Physics struct {
	Gamma float64 // adiabatic index
}

// Options tune the scheme; zero values select the defaults.
type Options struct {
	RKOrder    int     // 1, 2 or 3; default 2
	PLMTheta   float64 // slope limiter parameter in [1, 2]; default 1.5
	Strict     bool    // fail the step on any primitive recovery fault
	NumDevices int     // gpu device count; ignored in cpu mode
}

// Config assembles one run. Solution, when non-nil, resumes from a prior
// state and must hold the global interior conserved array; otherwise the
// setup is sampled at Time.
type Config struct {
	Setup      setups.Setup
	Mesh       mesh.Geometry
	Time       float64
	Solution   []float64
	NumPatches int
	Mode       string // "cpu" or "gpu"
	Physics    Physics
	Options    Options
}

// Solver owns the patches of one run and presents the whole-domain view:
// advance by dt, query the global wavespeed, read back concatenated
// solution arrays.
type Solver struct {
	grid      grid
	geom      mesh.Geometry
	bc        string
	strict    bool
	rkWeights []float64
	patches   []*Patch
	libs      []kernel.Library
	badZones  int
}

var rkWeightTables = map[int][]float64{
	1: {0.0},
	2: {0.0, 0.5},
	3: {0.0, 0.75, 1.0 / 3.0},
}

// New validates the configuration, builds one execution context per
// device, carves the mesh into patches and seeds them with the initial
// or resumed conserved state.
func New(cfg Config) (s *Solver, err error) {
	var (
		ni, _ = cfg.Mesh.Shape()
		opts  = cfg.Options
	)
	if opts.RKOrder == 0 {
		opts.RKOrder = 2
	}
	if opts.PLMTheta == 0 {
		opts.PLMTheta = 1.5
	}
	weights, ok := rkWeightTables[opts.RKOrder]
	if !ok {
		return nil, fmt.Errorf("rk order %d not in {1, 2, 3}", opts.RKOrder)
	}
	switch {
	case cfg.Setup == nil:
		return nil, fmt.Errorf("no setup")
	case cfg.NumPatches < 1:
		return nil, fmt.Errorf("num patches %d < 1", cfg.NumPatches)
	case cfg.Physics.Gamma <= 1:
		return nil, fmt.Errorf("adiabatic index %g must exceed 1", cfg.Physics.Gamma)
	case opts.PLMTheta < 1 || opts.PLMTheta > 2:
		return nil, fmt.Errorf("plm theta %g outside [1, 2]", opts.PLMTheta)
	}
	g := newGrid(cfg.Mesh, cfg.Physics.Gamma, opts.PLMTheta)
	if ni/cfg.NumPatches < g.ng {
		return nil, fmt.Errorf("%d patches leave interiors narrower than the %d guard zones",
			cfg.NumPatches, g.ng)
	}
	bc := cfg.Setup.BoundaryCondition()
	switch bc {
	case "outflow":
	case "periodic":
		if g.coords != srhd.Cartesian {
			return nil, fmt.Errorf("periodic boundaries need a planar grid, have %v", cfg.Mesh)
		}
	default:
		return nil, fmt.Errorf("boundary condition %q not in {periodic, outflow}", bc)
	}

	conserved := cfg.Solution
	if conserved == nil {
		conserved = initialConserved(cfg.Setup, cfg.Mesh, g, cfg.Time)
	} else if want := ni * g.nj * g.nc; len(conserved) != want {
		return nil, fmt.Errorf("resumed solution has %d values, grid wants %d", len(conserved), want)
	}

	s = &Solver{
		grid:      g,
		geom:      cfg.Mesh,
		bc:        bc,
		strict:    opts.Strict,
		rkWeights: weights,
	}

	numDevices := kernel.NumDevices(cfg.Mode, opts.NumDevices)
	contexts := make([]*kernel.Context, numDevices)
	s.libs = make([]kernel.Library, numDevices)
	for d := range contexts {
		if contexts[d], err = kernel.NewContext(cfg.Mode, d); err != nil {
			s.Close()
			return nil, err
		}
		if s.libs[d], err = kernel.NewLibrary(contexts[d], cfg.Physics.Gamma); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.patches = make([]*Patch, cfg.NumPatches)
	for n, r := range Subdivide(ni, cfg.NumPatches) {
		d := n % numDevices
		s.patches[n] = newPatch(g, cfg.Mesh, conserved, r[0], r[1], cfg.Time,
			s.libs[d], contexts[d])
	}
	return s, nil
}

func initialConserved(setup setups.Setup, geom mesh.Geometry, g grid, time float64) []float64 {
	var (
		ni, _     = geom.Shape()
		primitive = make([]float64, ni*g.nj*g.nc)
		conserved = make([]float64, ni*g.nj*g.nc)
	)
	for i := 0; i < ni; i++ {
		for j := 0; j < g.nj; j++ {
			x, q := geom.CellCoordinates(time, i, j)
			setup.InitialPrimitive(time, x, q, primitive[(i*g.nj+j)*g.nc:(i*g.nj+j+1)*g.nc])
		}
	}
	srhd.PrimitiveToConservedArray(primitive, conserved, ni*g.nj, g.nvecs,
		g.gamma, g.volumeScale(time))
	return conserved
}

// Close releases every device-side resource. Safe on a partially built
// solver.
func (s *Solver) Close() {
	for _, lib := range s.libs {
		if lib != nil {
			lib.Free()
		}
	}
}

// Advance integrates the whole domain forward by dt through the
// configured Runge-Kutta sub-stages.
func (s *Solver) Advance(dt float64) error {
	for _, p := range s.patches {
		p.NewIteration()
	}
	for _, rk := range s.rkWeights {
		if err := s.subStage(rk, dt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver) subStage(rkParam, dt float64) error {
	if err := s.recoverPrimitives(); err != nil {
		return err
	}
	s.exchange(func(p *Patch) []float64 { return p.primitive1 })
	return s.eachPatch(func(n int, p *Patch) error { return p.AdvanceRK(rkParam, dt) })
}

// recoverPrimitives refreshes the conserved guard rows, then inverts the
// full slab of every patch. Degraded zones from every patch are counted
// before deciding whether to continue, so concurrent faults are not lost.
func (s *Solver) recoverPrimitives() error {
	s.exchange(func(p *Patch) []float64 { return p.conserved1 })
	errs := s.eachPatchErrs(func(n int, p *Patch) error { return p.RecomputePrimitive() })
	zones := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		rec, degraded := err.(*kernel.RecoveryError)
		if !degraded || s.strict {
			return err
		}
		zones += len(rec.Zones)
		fmt.Printf("warning: continuing past %v\n", rec)
	}
	s.badZones += zones
	return nil
}

// eachPatch runs f concurrently over all patches and reports the first
// failure.
func (s *Solver) eachPatch(f func(n int, p *Patch) error) error {
	for _, err := range s.eachPatchErrs(f) {
		if err != nil {
			return err
		}
	}
	return nil
}

// eachPatchErrs runs f concurrently over all patches and returns every
// patch's error in order.
func (s *Solver) eachPatchErrs(f func(n int, p *Patch) error) []error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(s.patches))
	)
	for n, p := range s.patches {
		wg.Add(1)
		go func(n int, p *Patch) {
			defer wg.Done()
			errs[n] = f(n, p)
		}(n, p)
	}
	wg.Wait()
	return errs
}

// exchange fills the radial guard zones of the selected buffer on every
// patch: ring topology between neighbors, then the configured condition at
// the global edges. Outflow replicates the adjacent interior row; the
// periodic case is the unmodified ring. Reapplying the exchange is a
// no-op, the copies are idempotent.
func (s *Solver) exchange(buf func(p *Patch) []float64) {
	var (
		np    = len(s.patches)
		ng    = s.grid.ng
		rowsz = s.grid.nj * s.grid.nc
	)
	for n, p := range s.patches {
		var (
			left  = s.patches[(n+np-1)%np]
			right = s.patches[(n+1)%np]
			dst   = buf(p)
			lsrc  = buf(left)
			rsrc  = buf(right)
		)
		p.ctx.Do(func() error {
			copy(dst[:ng*rowsz],
				lsrc[(left.slab-2*ng)*rowsz:(left.slab-ng)*rowsz])
			copy(dst[(p.slab-ng)*rowsz:],
				rsrc[ng*rowsz:2*ng*rowsz])
			return nil
		})
	}
	if s.bc == "periodic" {
		return
	}
	var (
		first = s.patches[0]
		last  = s.patches[np-1]
	)
	first.ctx.Do(func() error {
		dst := buf(first)
		edge := dst[ng*rowsz : (ng+1)*rowsz]
		for i := 0; i < ng; i++ {
			copy(dst[i*rowsz:(i+1)*rowsz], edge)
		}
		return nil
	})
	last.ctx.Do(func() error {
		dst := buf(last)
		edge := dst[(last.slab-ng-1)*rowsz : (last.slab-ng)*rowsz]
		for i := last.slab - ng; i < last.slab; i++ {
			copy(dst[i*rowsz:(i+1)*rowsz], edge)
		}
		return nil
	})
}

// MaximumWavespeed reports the fastest signal speed over the whole
// domain in comoving face-relative terms, the quantity the CFL condition
// wants.
func (s *Solver) MaximumWavespeed() (float64, error) {
	s.exchange(func(p *Patch) []float64 { return p.conserved1 })
	speeds := make([]float64, len(s.patches))
	errs := s.eachPatchErrs(func(n int, p *Patch) error {
		a, err := p.MaximumWavespeed()
		speeds[n] = a
		return err
	})
	for _, err := range errs {
		if err == nil {
			continue
		}
		if _, degraded := err.(*kernel.RecoveryError); !degraded || s.strict {
			return 0, err
		}
	}
	return floats.Max(speeds), nil
}

// Time is the current solution time, identical on every patch outside of
// an Advance call.
func (s *Solver) Time() float64 { return s.patches[0].time }

// NumPatches reports the decomposition width.
func (s *Solver) NumPatches() int { return len(s.patches) }

// BadZoneCount is the cumulative number of zones that failed primitive
// recovery and were carried forward in non-strict mode.
func (s *Solver) BadZoneCount() int { return s.badZones }

// Solution concatenates the interior conserved state of every patch in
// global order, the array a resumed run feeds back through Config.
func (s *Solver) Solution() []float64 {
	ni, _ := s.geom.Shape()
	out := make([]float64, 0, ni*s.grid.nj*s.grid.nc)
	for _, p := range s.patches {
		out = append(out, p.interior(p.conserved1)...)
	}
	return out
}

// Primitive recovers and concatenates the interior primitive state of
// every patch in global order.
func (s *Solver) Primitive() ([]float64, error) {
	if err := s.recoverPrimitives(); err != nil {
		return nil, err
	}
	ni, _ := s.geom.Shape()
	out := make([]float64, 0, ni*s.grid.nj*s.grid.nc)
	for _, p := range s.patches {
		out = append(out, p.interior(p.primitive1)...)
	}
	return out, nil
}
