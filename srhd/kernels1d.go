package srhd

import "math"

// Coords selects the 1D geometry of the radial coordinate.
type Coords int

const (
	Cartesian Coords = iota
	SphericalPolar
)

// VolumeScale returns the factor by which conserved densities are scaled
// when stored on a homologously expanding mesh with scale factor a. State
// is stored per unit comoving volume, so physical densities dilute as the
// mesh expands without the stored array changing under pure expansion.
func VolumeScale(a float64, coords Coords) float64 {
	if coords == Cartesian {
		return a
	}
	return a * a * a
}

// BadZone identifies a cell whose conserved-to-primitive inversion produced
// a non-physical result or failed to converge.
type BadZone struct {
	Index  int
	Status RecoveryStatus
}

// PrimitiveToConservedArray converts ncells primitive states to conserved
// states scaled by volScale.
func PrimitiveToConservedArray(primitive, conserved []float64, ncells, nvecs int, gamma, volScale float64) {
	nc := nvecs + 2
	for i := 0; i < ncells; i++ {
		PrimToCons(primitive[i*nc:(i+1)*nc], conserved[i*nc:(i+1)*nc], nvecs, gamma)
		for q := 0; q < nc; q++ {
			conserved[i*nc+q] *= volScale
		}
	}
}

// ConservedToPrimitiveArray inverts ncells conserved states (stored scaled
// by volScale) to physical primitive states. Cells with a degraded result
// are reported, never clamped; the primitive entries of such cells hold the
// last Newton iterate.
func ConservedToPrimitiveArray(conserved, primitive []float64, ncells, nvecs int, gamma, volScale float64) (bad []BadZone) {
	var (
		nc = nvecs + 2
		u  = make([]float64, nc)
	)
	for i := 0; i < ncells; i++ {
		for q := 0; q < nc; q++ {
			u[q] = conserved[i*nc+q] / volScale
		}
		if status := ConsToPrim(u, primitive[i*nc:(i+1)*nc], nvecs, gamma); status != RecoveryOK {
			bad = append(bad, BadZone{Index: i, Status: status})
		}
	}
	return
}

// AdvanceRK1D advances the interior cells of a 1D patch slab through one
// Runge-Kutta substage. The slab holds len(faces)-1 interior cells plus ng
// guard cells on each side; faces are the comoving radial face positions of
// the interior. consRK is the start-of-cycle snapshot, primRd the primitive
// state of consRd, and consWr receives the substage result:
//
//	consWr = consRK*rkParam + (consRd + dt*L(consRd))*(1-rkParam)
//
// Fluxes are computed with PLM reconstruction and the HLLE solver in the
// frame of the (possibly moving) faces; geometric source terms keep a
// uniform-pressure state in equilibrium on a spherical grid.
func AdvanceRK1D(faces, consRK, primRd, consRd, consWr []float64, ng int,
	coords Coords, a0, adot, time, rkParam, dt, plmTheta, gamma float64) {
	const (
		nvecs = 1
		nc    = 3
	)
	var (
		ni   = len(faces) - 1
		slab = ni + 2*ng
		a    = a0 + adot*time

		gl = make([]float64, nc) // PLM slopes of cells i-1, i, i+1
		gc = make([]float64, nc)
		gr = make([]float64, nc)
		pf = make([]float64, nc) // reconstructed face states
		qf = make([]float64, nc)
		fm = make([]float64, nc)
		fp = make([]float64, nc)
		du = make([]float64, nc)
	)
	cell := func(i int) []float64 { return primRd[i*nc : (i+1)*nc] }
	slopes := func(i int, g []float64) {
		yl, yc, yr := cell(i-1), cell(i), cell(i+1)
		for q := 0; q < nc; q++ {
			g[q] = PLMMinmod(yl[q], yc[q], yr[q], plmTheta)
		}
	}
	for i := ng; i < slab-ng; i++ {
		k := i - ng
		xl, xr := faces[k], faces[k+1]

		slopes(i-1, gl)
		slopes(i, gc)
		slopes(i+1, gr)

		// Inner face, between cells i-1 and i
		for q := 0; q < nc; q++ {
			pf[q] = cell(i-1)[q] + 0.5*gl[q]
			qf[q] = cell(i)[q] - 0.5*gc[q]
		}
		RiemannHLLE(pf, qf, fm, 1, nvecs, gamma, adot*xl)

		// Outer face, between cells i and i+1
		for q := 0; q < nc; q++ {
			pf[q] = cell(i)[q] + 0.5*gc[q]
			qf[q] = cell(i+1)[q] - 0.5*gr[q]
		}
		RiemannHLLE(pf, qf, fp, 1, nvecs, gamma, adot*xr)

		var (
			dv, am, ap, src float64
			pre             = cell(i)[nc-1]
		)
		switch coords {
		case Cartesian:
			dv = xr - xl
			am, ap = 1.0, 1.0
		case SphericalPolar:
			dv = (xr*xr*xr - xl*xl*xl) / 3.0
			am = a * a * xl * xl
			ap = a * a * xr * xr
			src = pre * a * a * (xr*xr - xl*xl) / dv
		}
		du[0] = -(fp[0]*ap - fm[0]*am) / dv
		du[1] = -(fp[1]*ap-fm[1]*am)/dv + src
		du[2] = -(fp[2]*ap - fm[2]*am) / dv

		for q := 0; q < nc; q++ {
			n := i*nc + q
			consWr[n] = consRK[n]*rkParam + (consRd[n]+dt*du[q])*(1.0-rkParam)
		}
	}
}

// MaxWavespeeds1D fills wavespeeds (one entry per interior cell) with the
// largest characteristic speed relative to the local mesh velocity, for
// CFL step-size selection.
func MaxWavespeeds1D(faces, primitive, wavespeeds []float64, ng int, adot, gamma float64) {
	const nc = 3
	ni := len(faces) - 1
	for k := 0; k < ni; k++ {
		var (
			i  = k + ng
			xc = 0.5 * (faces[k] + faces[k+1])
			w  = adot * xc
		)
		am, ap := OuterWavespeeds(primitive[i*nc:(i+1)*nc], 1, 1, gamma)
		wavespeeds[k] = math.Max(math.Abs(am-w), math.Abs(ap-w))
	}
}
