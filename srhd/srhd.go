/*
Package srhd implements the pointwise physics kernels for special
relativistic hydrodynamics: primitive/conserved variable transforms, the
HLLE approximate Riemann solver, and characteristic wavespeeds.

Variable layout is dimension-generic over 1-3 momentum components. A
primitive state is [rho, u1..un, pre] where u are the spatial components
of the four-velocity (gamma*beta), and a conserved state is
[D, S1..Sn, tau]. Storing the four-velocity rather than the three-velocity
avoids a singularity as the flow speed approaches the speed of light.
*/
package srhd

import (
	"fmt"
	"math"
)

const (
	newtonIterMax  = 50
	errorTolerance = 1.0e-12
	maxBetaSquared = 1.0 - 1.0e-10
)

// RecoveryStatus reports the outcome of a conserved-to-primitive inversion.
type RecoveryStatus int

const (
	RecoveryOK RecoveryStatus = iota
	RecoveryNegativeDensity
	RecoveryNegativeEnergy
	RecoveryNegativePressure
	RecoveryNoConvergence
)

func (s RecoveryStatus) String() string {
	switch s {
	case RecoveryOK:
		return "ok"
	case RecoveryNegativeDensity:
		return "negative mass density"
	case RecoveryNegativeEnergy:
		return "negative energy"
	case RecoveryNegativePressure:
		return "negative pressure"
	case RecoveryNoConvergence:
		return "no convergence"
	}
	return "unknown"
}

// NumCons returns the size of a state vector with nvecs momentum components.
func NumCons(nvecs int) int {
	if nvecs < 1 || nvecs > 3 {
		panic(fmt.Sprintf("nvecs must be 1, 2 or 3, got %d", nvecs))
	}
	return nvecs + 2
}

// PrimToCons converts a primitive state p to a conserved state u. Both
// slices have length nvecs+2. Closed form, no failure mode.
func PrimToCons(p, u []float64, nvecs int, gamma float64) {
	var (
		nc  = nvecs + 2
		rho = p[0]
		pre = p[nc-1]
		uu  float64
	)
	for n := 0; n < nvecs; n++ {
		uu += p[1+n] * p[1+n]
	}
	w := math.Sqrt(1.0 + uu)
	h := 1.0 + pre/rho*(1.0+1.0/(gamma-1.0))
	m := rho * w
	u[0] = m
	for n := 0; n < nvecs; n++ {
		u[1+n] = m * h * p[1+n]
	}
	u[nc-1] = m*(h*w-1.0) - pre
}

// ConsToPrim inverts a conserved state u to a primitive state p by Newton
// iteration on the pressure, holding D, |S|^2 and tau fixed. The pressure
// entry of p is used as the initial guess. The returned status reports a
// non-physical input or failed convergence; the state is never clamped,
// and on a non-physical input p is left untouched.
func ConsToPrim(u, p []float64, nvecs int, gamma float64) (status RecoveryStatus) {
	var (
		nc  = nvecs + 2
		m   = u[0]
		tau = u[nc-1]
		pre = p[nc-1]
		ss  float64
		w0  float64
	)
	switch {
	case m < 0.0:
		return RecoveryNegativeDensity
	case tau < 0.0:
		return RecoveryNegativeEnergy
	}
	for n := 0; n < nvecs; n++ {
		ss += u[1+n] * u[1+n]
	}
	if pre <= 0.0 || math.IsNaN(pre) {
		pre = math.Abs(tau-m) + errorTolerance
	}
	for iteration := 0; ; iteration++ {
		et := tau + pre + m
		b2 := math.Min(ss/(et*et), maxBetaSquared)
		w2 := 1.0 / (1.0 - b2)
		w := math.Sqrt(w2)
		e := (tau + m*(1.0-w) + pre*(1.0-w2)) / (m * w)
		rho := m / w
		h := 1.0 + e + pre/rho
		a2 := gamma * pre / (rho * h)
		f := rho*e*(gamma-1.0) - pre
		g := b2*a2 - 1.0

		// A full Newton step from a cold, fast state can overshoot into
		// negative pressure and stagnate there. Backtrack geometrically
		// until the step lands in the physical region.
		next := pre - f/g
		if next <= 0.0 {
			next = 0.5 * pre
		}
		pre = next

		if math.Abs(f) < errorTolerance {
			w0 = w
			break
		}
		if iteration == newtonIterMax {
			return RecoveryNoConvergence
		}
	}
	p[0] = m / w0
	p[nc-1] = pre
	for n := 0; n < nvecs; n++ {
		p[1+n] = w0 * u[1+n] / (tau + m + pre)
	}
	if pre < 0.0 {
		status = RecoveryNegativePressure
	}
	return
}

// PrimAndConsToFlux writes the physical flux of the state (p, u) along the
// given direction (1-based) into f.
func PrimAndConsToFlux(p, u, f []float64, direction, nvecs int) {
	var (
		nc  = nvecs + 2
		pre = p[nc-1]
		uu  float64
	)
	for n := 0; n < nvecs; n++ {
		uu += p[1+n] * p[1+n]
	}
	w := math.Sqrt(1.0 + uu)
	vn := p[direction] / w

	f[0] = vn * u[0]
	for n := 0; n < nvecs; n++ {
		f[1+n] = vn * u[1+n]
		if n+1 == direction {
			f[1+n] += pre
		}
	}
	f[nc-1] = vn*u[nc-1] + pre*vn
}

// SoundSpeedSquared returns the relativistic sound speed squared of a
// primitive state.
func SoundSpeedSquared(p []float64, nvecs int, gamma float64) float64 {
	var (
		nc   = nvecs + 2
		rho  = p[0]
		pre  = p[nc-1]
		rhoh = rho + pre*(1.0+1.0/(gamma-1.0))
	)
	return pre / rhoh * gamma
}

// OuterWavespeeds returns the outermost characteristic speeds (am, ap) of
// the relativistic Euler system along the given direction. Always am <= ap
// and both are bounded by the speed of light.
func OuterWavespeeds(p []float64, direction, nvecs int, gamma float64) (am, ap float64) {
	var (
		a2 = SoundSpeedSquared(p, nvecs, gamma)
		uu float64
	)
	for n := 0; n < nvecs; n++ {
		uu += p[1+n] * p[1+n]
	}
	w := math.Sqrt(1.0 + uu)
	vn := p[direction] / w
	vv := uu / (1.0 + uu)
	v2 := vn * vn
	k0 := math.Sqrt(a2 * (1.0 - vv) * (1.0 - vv*a2 - v2*(1.0-a2)))

	am = (vn*(1.0-a2) - k0) / (1.0 - vv*a2)
	ap = (vn*(1.0-a2) + k0) / (1.0 - vv*a2)
	return
}

// MaxWavespeed returns the largest absolute characteristic speed of a
// primitive state over all coordinate directions.
func MaxWavespeed(p []float64, nvecs int, gamma float64) (a float64) {
	for dir := 1; dir <= nvecs; dir++ {
		am, ap := OuterWavespeeds(p, dir, nvecs, gamma)
		a = math.Max(a, math.Max(math.Abs(am), math.Abs(ap)))
	}
	return
}

// RiemannHLLE computes the Godunov flux between primitive states pl and pr
// across a face moving at coordinate speed vface, along the given
// direction. The flux is evaluated in the frame of the moving face, so the
// caller applies it directly to a cell bounded by moving faces.
func RiemannHLLE(pl, pr, flux []float64, direction, nvecs int, gamma, vface float64) {
	var (
		nc = nvecs + 2
		ul = make([]float64, nc)
		ur = make([]float64, nc)
		fl = make([]float64, nc)
		fr = make([]float64, nc)
	)
	PrimToCons(pl, ul, nvecs, gamma)
	PrimToCons(pr, ur, nvecs, gamma)
	PrimAndConsToFlux(pl, ul, fl, direction, nvecs)
	PrimAndConsToFlux(pr, ur, fr, direction, nvecs)
	alm, alp := OuterWavespeeds(pl, direction, nvecs, gamma)
	arm, arp := OuterWavespeeds(pr, direction, nvecs, gamma)

	// Shift into the face frame: fluxes lose the advective part carried by
	// the face motion and signal speeds are measured relative to the face.
	am := math.Min(0.0, math.Min(alm, arm)-vface)
	ap := math.Max(0.0, math.Max(alp, arp)-vface)

	for q := 0; q < nc; q++ {
		flq := fl[q] - vface*ul[q]
		frq := fr[q] - vface*ur[q]
		flux[q] = (flq*ap - frq*am - (ul[q]-ur[q])*ap*am) / (ap - am)
	}
}

// PLMMinmod returns the limited slope across three adjacent cell values
// using the generalized minmod limiter with parameter theta in [1, 2].
func PLMMinmod(yl, yc, yr, theta float64) float64 {
	var (
		a = (yc - yl) * theta
		b = (yr - yl) * 0.5
		c = (yr - yc) * theta
	)
	return 0.25 * math.Abs(sign(a)+sign(b)) * (sign(a) + sign(c)) * minabs(a, b, c)
}

func sign(x float64) float64 {
	return math.Copysign(1.0, x)
}

func minabs(a, b, c float64) float64 {
	return math.Min(math.Abs(a), math.Min(math.Abs(b), math.Abs(c)))
}
