package srhd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformSlab(ni, ng, nc int, state []float64) (prim []float64) {
	prim = make([]float64, (ni+2*ng)*nc)
	for i := 0; i < ni+2*ng; i++ {
		copy(prim[i*nc:(i+1)*nc], state)
	}
	return
}

func linearFaces(x0, x1 float64, ni int) (faces []float64) {
	faces = make([]float64, ni+1)
	for k := range faces {
		faces[k] = x0 + (x1-x0)*float64(k)/float64(ni)
	}
	return
}

func logFaces(x0, x1 float64, ni int) (faces []float64) {
	faces = make([]float64, ni+1)
	for k := range faces {
		faces[k] = x0 * math.Exp(math.Log(x1/x0)*float64(k)/float64(ni))
	}
	return
}

func TestConservedArrays(t *testing.T) {
	var (
		gamma = 5.0 / 3.0
		prim  = []float64{
			1.0, 0.0, 1.0,
			0.5, 2.0, 0.25,
			2.0, -0.5, 3.0,
		}
	)
	{ // Round trip through the array forms, with a volume scale applied
		var (
			cons = make([]float64, len(prim))
			back = make([]float64, len(prim))
		)
		PrimitiveToConservedArray(prim, cons, 3, 1, gamma, 8.0)
		bad := ConservedToPrimitiveArray(cons, back, 3, 1, gamma, 8.0)
		assert.Len(t, bad, 0)
		for n := range prim {
			assert.InDelta(t, prim[n], back[n], 1e-9)
		}
	}
	{ // Degraded zones are reported by index
		cons := make([]float64, len(prim))
		PrimitiveToConservedArray(prim, cons, 3, 1, gamma, 1.0)
		cons[5] = -1.0 // break the energy of cell 1
		back := make([]float64, len(prim))
		bad := ConservedToPrimitiveArray(cons, back, 3, 1, gamma, 1.0)
		assert.Len(t, bad, 1)
		assert.Equal(t, 1, bad[0].Index)
		assert.Equal(t, RecoveryNegativeEnergy, bad[0].Status)
	}
}

func TestAdvanceEquilibrium1D(t *testing.T) {
	var (
		gamma = 5.0 / 3.0
		ni    = 16
		ng    = 2
		nc    = 3
		state = []float64{1.0, 0.0, 1.0}
	)
	{ // A uniform static state stays exactly uniform on a planar grid
		var (
			faces = linearFaces(0.0, 1.0, ni)
			prim  = uniformSlab(ni, ng, nc, state)
			cons  = make([]float64, len(prim))
			wr    = make([]float64, len(prim))
		)
		PrimitiveToConservedArray(prim, cons, ni+2*ng, 1, gamma, 1.0)
		AdvanceRK1D(faces, cons, prim, cons, wr, ng,
			Cartesian, 1.0, 0.0, 0.0, 0.0, 0.01, 1.5, gamma)
		for i := ng; i < ni+ng; i++ {
			for q := 0; q < nc; q++ {
				assert.InDelta(t, cons[i*nc+q], wr[i*nc+q], 1e-14)
			}
		}
	}
	{ // The geometric source term balances the pressure flux on a static
		// spherical grid: uniform pressure at rest is an equilibrium
		var (
			faces = logFaces(1.0, 10.0, ni)
			prim  = uniformSlab(ni, ng, nc, state)
			cons  = make([]float64, len(prim))
			wr    = make([]float64, len(prim))
		)
		PrimitiveToConservedArray(prim, cons, ni+2*ng, 1, gamma, 1.0)
		AdvanceRK1D(faces, cons, prim, cons, wr, ng,
			SphericalPolar, 1.0, 0.0, 0.0, 0.0, 0.01, 1.5, gamma)
		for i := ng; i < ni+ng; i++ {
			for q := 0; q < nc; q++ {
				assert.InDelta(t, cons[i*nc+q], wr[i*nc+q], 1e-12)
			}
		}
	}
	{ // An rkParam of 1 writes back the snapshot unchanged
		var (
			faces = linearFaces(0.0, 1.0, ni)
			prim  = uniformSlab(ni, ng, nc, []float64{1.0, 1.0, 1.0})
			cons  = make([]float64, len(prim))
			rk    = make([]float64, len(prim))
			wr    = make([]float64, len(prim))
		)
		PrimitiveToConservedArray(prim, cons, ni+2*ng, 1, gamma, 1.0)
		for n := range rk {
			rk[n] = float64(n)
		}
		AdvanceRK1D(faces, rk, prim, cons, wr, ng,
			Cartesian, 1.0, 0.0, 0.0, 1.0, 0.01, 1.5, gamma)
		for i := ng; i < ni+ng; i++ {
			for q := 0; q < nc; q++ {
				assert.Equal(t, rk[i*nc+q], wr[i*nc+q])
			}
		}
	}
}

func TestAdvanceEquilibrium2D(t *testing.T) {
	var (
		gamma = 5.0 / 3.0
		ni    = 12
		nj    = 8
		ng    = 2
		nc    = 4
		polar = math.Pi / 2
		state = []float64{1.0, 0.0, 0.0, 1.0}
	)
	var (
		faces = logFaces(1.0, 10.0, ni)
		prim  = uniformSlab(ni*nj, ng*nj, nc, state) // (ni+2*ng)*nj rows
		cons  = make([]float64, len(prim))
		wr    = make([]float64, len(prim))
	)
	PrimitiveToConservedArray(prim, cons, (ni+2*ng)*nj, 2, gamma, 1.0)
	AdvanceRK2D(faces, cons, prim, cons, wr, nj, ng,
		polar, 1.0, 0.0, 0.0, 0.0, 0.005, 1.5, gamma)
	for i := ng; i < ni+ng; i++ {
		for j := 0; j < nj; j++ {
			for q := 0; q < nc; q++ {
				n := (i*nj+j)*nc + q
				assert.InDelta(t, cons[n], wr[n], 1e-12)
			}
		}
	}
}

func TestMaxWavespeedArrays(t *testing.T) {
	var (
		gamma = 5.0 / 3.0
		ni    = 10
		ng    = 2
		nc    = 3
	)
	{ // Static mesh: per-cell speeds match the pointwise maximum
		var (
			faces = linearFaces(0.0, 1.0, ni)
			state = []float64{1.0, 0.5, 1.0}
			prim  = uniformSlab(ni, ng, nc, state)
			ws    = make([]float64, ni)
		)
		MaxWavespeeds1D(faces, prim, ws, ng, 0.0, gamma)
		want := MaxWavespeed(state, 1, gamma)
		for k := 0; k < ni; k++ {
			assert.InDelta(t, want, ws[k], 1e-14)
		}
	}
	{ // A co-expanding flow is quiet relative to the mesh: wavespeeds
		// reduce to the sound-like part
		var (
			faces = logFaces(1.0, 2.0, ni)
			prim  = uniformSlab(ni, ng, nc, []float64{1.0, 0.0, 1e-12})
			ws    = make([]float64, ni)
			adot  = 0.5
		)
		// give each cell the coordinate velocity of its own position
		for k := 0; k < ni; k++ {
			var (
				xc = 0.5 * (faces[k] + faces[k+1])
				v  = adot * xc
			)
			prim[(k+ng)*nc+1] = v / math.Sqrt(1-v*v)
		}
		MaxWavespeeds1D(faces, prim, ws, ng, adot, gamma)
		for k := 0; k < ni; k++ {
			assert.Less(t, ws[k], 1e-4)
		}
	}
}
