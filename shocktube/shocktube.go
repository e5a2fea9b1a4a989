/*
Package shocktube evaluates the exact solution of the standard relativistic
tube problem, (rho, v, p) = (1, 0, 1) on the left of x = 0.5 and
(0.1, 0, 0.125) on the right: a left rarefaction fan, a contact, and a
right-running shock. The plateau between the fan and the shock pins down
the values a solver run must reproduce.

The pressure behind both waves is matched by a root find: across the
shock the post state follows the Taub adiabat and the relativistic
Rankine-Hugoniot mass flux, across the fan the flow is isentropic and the
velocity follows the relativistic Riemann invariant in its closed ideal
gas form.
*/
package shocktube

import (
	"math"
)

const (
	rhoL, pL = 1.0, 1.0
	rhoR, pR = 0.1, 0.125
)

// Solution is the self-similar wave pattern at time t, measured from the
// initial discontinuity at X0. Velocities are coordinate velocities.
type Solution struct {
	Gamma float64
	X0    float64
	T     float64

	PStar     float64 // plateau pressure between the fan and the shock
	VStar     float64 // plateau velocity
	RhoMiddle float64 // density between the fan tail and the contact
	RhoPost   float64 // density between the contact and the shock
	VShock    float64

	// wave positions at T: fan head, fan tail, contact, shock
	X1, X2, X3, X4 float64
}

// Solve computes the wave pattern at time t for the given adiabatic index.
func Solve(gamma, t float64) (sol Solution) {
	var (
		x0     = 0.5
		pStar  = matchPressure(gamma)
		vStar, rhoPost, vShock = shockState(pStar, gamma)
		_, rhoMiddle, csTail   = rarefactionState(pStar, gamma)
		csHead = soundSpeed(rhoL, pL, gamma)
	)
	sol = Solution{
		Gamma:     gamma,
		X0:        x0,
		T:         t,
		PStar:     pStar,
		VStar:     vStar,
		RhoMiddle: rhoMiddle,
		RhoPost:   rhoPost,
		VShock:    vShock,
		X1:        x0 - csHead*t,
		X2:        x0 + t*(vStar-csTail)/(1-vStar*csTail),
		X3:        x0 + vStar*t,
		X4:        x0 + vShock*t,
	}
	return
}

// Evaluate returns (rho, gammaBeta, pre) at position x, with the velocity
// as the four-velocity the solver carries in its primitive state.
func (sol Solution) Evaluate(x float64) (rho, gb, pre float64) {
	var beta float64
	switch {
	case x < sol.X1:
		rho, beta, pre = rhoL, 0, pL
	case x <= sol.X2:
		rho, beta, pre = sol.fanState((x - sol.X0) / sol.T)
	case x <= sol.X3:
		rho, beta, pre = sol.RhoMiddle, sol.VStar, sol.PStar
	case x <= sol.X4:
		rho, beta, pre = sol.RhoPost, sol.VStar, sol.PStar
	default:
		rho, beta, pre = rhoR, 0, pR
	}
	gb = beta / math.Sqrt(1-beta*beta)
	return
}

// fanState inverts the self-similar coordinate xi = (v - cs)/(1 - v*cs)
// for the state inside the rarefaction fan.
func (sol Solution) fanState(xi float64) (rho, beta, pre float64) {
	var (
		gamma  = sol.Gamma
		pa, pb = sol.PStar, pL
	)
	residual := func(p float64) float64 {
		v, _, cs := rarefactionState(p, gamma)
		return (v-cs)/(1-v*cs) - xi
	}
	// The characteristic speed decreases monotonically from head to tail,
	// so bisection on pressure is safe.
	for iter := 0; iter < 100; iter++ {
		pm := 0.5 * (pa + pb)
		if residual(pa)*residual(pm) <= 0 {
			pb = pm
		} else {
			pa = pm
		}
	}
	pre = 0.5 * (pa + pb)
	beta, rho, _ = rarefactionState(pre, gamma)
	return
}

func enthalpy(rho, p, gamma float64) float64 {
	return 1 + p/rho*(1+1/(gamma-1))
}

func soundSpeed(rho, p, gamma float64) float64 {
	return math.Sqrt(gamma * p / (rho * enthalpy(rho, p, gamma)))
}

// shockState gives the flow velocity, density and shock velocity behind a
// right-moving shock into the right state, at post pressure p.
func shockState(p, gamma float64) (v, rhoPost, vShock float64) {
	var (
		h = enthalpy(rhoR, pR, gamma)
		d = (gamma - 1) * (pR - p) / (gamma * p)
		// Taub adiabat with the ideal gas closure, quadratic in the post
		// enthalpy
		a     = 1 + d
		b     = -d
		c     = h*(pR-p)/rhoR - h*h
		hPost = (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
	)
	rhoPost = gamma * p / ((gamma - 1) * (hPost - 1))
	var (
		j  = math.Sqrt((p - pR) / (h/rhoR - hPost/rhoPost))
		r2 = rhoR * rhoR // pre-shock frame factors; the right state is at rest
	)
	vShock = j * math.Sqrt(j*j+r2) / (r2 + j*j)
	wShock := 1 / math.Sqrt(1-vShock*vShock)
	v = wShock * (p - pR) / (j * (h + (p-pR)/rhoR))
	return
}

// rarefactionState gives the flow velocity, density and sound speed on
// the isentrope through the left state at pressure p, from the closed
// form of the relativistic Riemann invariant for an ideal gas.
func rarefactionState(p, gamma float64) (v, rho, cs float64) {
	var (
		entropy = pL / math.Pow(rhoL, gamma)
		csHead  = soundSpeed(rhoL, pL, gamma)
		sg      = math.Sqrt(gamma - 1)
	)
	rho = math.Pow(p/entropy, 1/gamma)
	cs = soundSpeed(rho, p, gamma)
	a := math.Pow((sg+csHead)/(sg-csHead)*(sg-cs)/(sg+cs), 2/sg)
	v = (a - 1) / (a + 1)
	return
}

// matchPressure finds the plateau pressure equating the flow velocity
// behind the fan and behind the shock. Bisection between the two initial
// pressures; the fan side exceeds the shock side at low pressure and the
// order reverses at high pressure.
func matchPressure(gamma float64) float64 {
	residual := func(p float64) float64 {
		vFan, _, _ := rarefactionState(p, gamma)
		vShock, _, _ := shockState(p, gamma)
		return vFan - vShock
	}
	var (
		a  = pR * (1 + 1e-9)
		b  = pL * (1 - 1e-9)
		fa = residual(a)
	)
	for iter := 0; iter < 200; iter++ {
		m := 0.5 * (a + b)
		fm := residual(m)
		if fa*fm <= 0 {
			b = m
		} else {
			a, fa = m, fm
		}
	}
	return 0.5 * (a + b)
}
