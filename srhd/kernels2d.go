package srhd

import "math"

// AdvanceRK2D advances the interior cells of a 2D spherical-polar patch
// slab through one Runge-Kutta substage. The slab is (len(faces)-1+2*ng) x
// nj cells; guard cells pad the radial direction only, each patch holds the
// full polar extent. Polar faces are uniformly spaced on [0, polarExtent]
// and the polar boundaries reflect, with the polar four-velocity flipped in
// the mirrored state. Radial faces move homologously at adot * xi.
func AdvanceRK2D(faces, consRK, primRd, consRd, consWr []float64, nj, ng int,
	polarExtent, a0, adot, time, rkParam, dt, plmTheta, gamma float64) {
	const (
		nvecs = 2
		nc    = 4
	)
	var (
		ni   = len(faces) - 1
		slab = ni + 2*ng
		a    = a0 + adot*time
		dq   = polarExtent / float64(nj)

		gl = make([]float64, nc)
		gc = make([]float64, nc)
		gr = make([]float64, nc)
		pf = make([]float64, nc)
		qf = make([]float64, nc)
		fm = make([]float64, nc)
		fp = make([]float64, nc)
		gm = make([]float64, nc)
		gp = make([]float64, nc)
		du = make([]float64, nc)
		tm = make([]float64, 4*nc) // mirrored polar neighborhood scratch
	)
	cell := func(i, j int) []float64 {
		n := (i*nj + j) * nc
		return primRd[n : n+nc]
	}
	// polarCell mirrors across the polar boundaries, flipping the polar
	// four-velocity component.
	polarCell := func(i, j, slot int) []float64 {
		if j >= 0 && j < nj {
			return cell(i, j)
		}
		jm := -1 - j
		if j >= nj {
			jm = 2*nj - 1 - j
		}
		out := tm[slot*nc : (slot+1)*nc]
		copy(out, cell(i, jm))
		out[2] = -out[2]
		return out
	}
	radialSlopes := func(i, j int, g []float64) {
		yl, yc, yr := cell(i-1, j), cell(i, j), cell(i+1, j)
		for q := 0; q < nc; q++ {
			g[q] = PLMMinmod(yl[q], yc[q], yr[q], plmTheta)
		}
	}
	polarSlopes := func(i, j int, g []float64) {
		yl, yc, yr := polarCell(i, j-1, 0), polarCell(i, j, 1), polarCell(i, j+1, 2)
		for q := 0; q < nc; q++ {
			g[q] = PLMMinmod(yl[q], yc[q], yr[q], plmTheta)
		}
	}
	for i := ng; i < slab-ng; i++ {
		k := i - ng
		xl, xr := faces[k], faces[k+1]

		for j := 0; j < nj; j++ {
			q0 := dq * float64(j)
			q1 := dq * float64(j+1)

			// Radial fluxes through the moving faces
			radialSlopes(i-1, j, gl)
			radialSlopes(i, j, gc)
			radialSlopes(i+1, j, gr)
			for q := 0; q < nc; q++ {
				pf[q] = cell(i-1, j)[q] + 0.5*gl[q]
				qf[q] = cell(i, j)[q] - 0.5*gc[q]
			}
			RiemannHLLE(pf, qf, fm, 1, nvecs, gamma, adot*xl)
			for q := 0; q < nc; q++ {
				pf[q] = cell(i, j)[q] + 0.5*gc[q]
				qf[q] = cell(i+1, j)[q] - 0.5*gr[q]
			}
			RiemannHLLE(pf, qf, fp, 1, nvecs, gamma, adot*xr)

			// Polar fluxes through the static faces
			polarSlopes(i, j-1, gl)
			polarSlopes(i, j, gc)
			polarSlopes(i, j+1, gr)
			for q := 0; q < nc; q++ {
				pf[q] = polarCell(i, j-1, 3)[q] + 0.5*gl[q]
				qf[q] = cell(i, j)[q] - 0.5*gc[q]
			}
			RiemannHLLE(pf, qf, gm, 2, nvecs, gamma, 0.0)
			for q := 0; q < nc; q++ {
				pf[q] = cell(i, j)[q] + 0.5*gc[q]
				qf[q] = polarCell(i, j+1, 3)[q] - 0.5*gr[q]
			}
			RiemannHLLE(pf, qf, gp, 2, nvecs, gamma, 0.0)

			var (
				dmu = math.Cos(q0) - math.Cos(q1)
				dv  = (xr*xr*xr - xl*xl*xl) / 3.0 * dmu
				arm = a * a * xl * xl * dmu
				arp = a * a * xr * xr * dmu
				aqm = a * a * math.Sin(q0) * (xr*xr - xl*xl) / 2.0
				aqp = a * a * math.Sin(q1) * (xr*xr - xl*xl) / 2.0
			)
			// Geometric source terms, integrated over the shell so that a
			// uniform-pressure state stays in exact equilibrium.
			var (
				p    = cell(i, j)
				rho  = p[0]
				ur   = p[1]
				uq   = p[2]
				pre  = p[3]
				h    = 1.0 + pre/rho*(1.0+1.0/(gamma-1.0))
				ivr  = a * a * (xr*xr - xl*xl) / 2.0 // integral of dV/r, per unit dmu
				srcR = pre*(arp-arm) + rho*h*uq*uq*ivr*dmu
				srcQ = pre*(aqp-aqm) - rho*h*ur*uq*ivr*dmu
			)
			du[0] = -(fp[0]*arp - fm[0]*arm + gp[0]*aqp - gm[0]*aqm) / dv
			du[1] = (-(fp[1]*arp - fm[1]*arm + gp[1]*aqp - gm[1]*aqm) + srcR) / dv
			du[2] = (-(fp[2]*arp - fm[2]*arm + gp[2]*aqp - gm[2]*aqm) + srcQ) / dv
			du[3] = -(fp[3]*arp - fm[3]*arm + gp[3]*aqp - gm[3]*aqm) / dv

			for q := 0; q < nc; q++ {
				n := (i*nj+j)*nc + q
				consWr[n] = consRK[n]*rkParam + (consRd[n]+dt*du[q])*(1.0-rkParam)
			}
		}
	}
}

// MaxWavespeeds2D fills wavespeeds (one entry per interior cell, ni x nj)
// with the largest characteristic speed over both directions, radial speeds
// measured relative to the moving mesh.
func MaxWavespeeds2D(faces, primitive, wavespeeds []float64, nj, ng int, adot, gamma float64) {
	const nc = 4
	ni := len(faces) - 1
	for k := 0; k < ni; k++ {
		var (
			i  = k + ng
			xc = 0.5 * (faces[k] + faces[k+1])
			w  = adot * xc
		)
		for j := 0; j < nj; j++ {
			p := primitive[(i*nj+j)*nc : (i*nj+j+1)*nc]
			arm, arp := OuterWavespeeds(p, 1, 2, gamma)
			aqm, aqp := OuterWavespeeds(p, 2, 2, gamma)
			s := math.Max(math.Abs(arm-w), math.Abs(arp-w))
			s = math.Max(s, math.Max(math.Abs(aqm), math.Abs(aqp)))
			wavespeeds[k*nj+j] = s
		}
	}
}
