package srhd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTransforms(t *testing.T) {
	var (
		gamma  = 5.0 / 3.0
		states = map[int][][]float64{
			1: {
				{1.0, 0.0, 1.0},
				{0.1, 0.0, 0.125},
				{1.0, 0.5, 1.0},
				{1.0, -2.0, 0.01},
				{1e-3, 10.0, 1e-6},
				{1e-2, 20.0, 1e-8},
				{5.0, 0.9, 3.0},
			},
			2: {
				{1.0, 0.0, 0.0, 1.0},
				{0.1, 0.3, -0.2, 0.125},
				{1.0, 4.0, 1.0, 0.01},
				{2.5, -0.7, 3.0, 10.0},
			},
		}
	)
	{ // Round trip: primitive -> conserved -> primitive
		for nvecs, group := range states {
			nc := NumCons(nvecs)
			for _, p := range group {
				var (
					u = make([]float64, nc)
					q = make([]float64, nc)
				)
				PrimToCons(p, u, nvecs, gamma)
				status := ConsToPrim(u, q, nvecs, gamma)
				assert.Equal(t, RecoveryOK, status)
				for n := range p {
					assert.InDelta(t, p[n], q[n], 1e-9*(1+math.Abs(p[n])))
				}
			}
		}
	}
	{ // The recovery seeds its own pressure guess, so a warm guess from a
		// prior state must converge to the same answer as a cold start
		p := []float64{1.0, 0.5, 1.0}
		u := make([]float64, 3)
		PrimToCons(p, u, 1, gamma)
		var (
			cold = make([]float64, 3)
			warm = []float64{1.0, 0.5, 0.9}
		)
		assert.Equal(t, RecoveryOK, ConsToPrim(u, cold, 1, gamma))
		assert.Equal(t, RecoveryOK, ConsToPrim(u, warm, 1, gamma))
		assert.InDelta(t, cold[2], warm[2], 1e-9)
	}
	{ // Degraded inputs report their failure mode
		p := make([]float64, 3)
		assert.Equal(t, RecoveryNegativeDensity, ConsToPrim([]float64{-1, 0, 1}, p, 1, gamma))
		assert.Equal(t, RecoveryNegativeEnergy, ConsToPrim([]float64{1, 0, -1}, p, 1, gamma))
	}
}

func TestWavespeeds(t *testing.T) {
	var (
		gamma  = 5.0 / 3.0
		states = [][]float64{
			{1.0, 0.0, 1.0},
			{0.1, 0.0, 0.125},
			{1.0, 3.0, 0.5},
			{1.0, -3.0, 0.5},
			{1e-2, 8.0, 1e-5},
		}
	)
	for _, p := range states {
		am, ap := OuterWavespeeds(p, 1, 1, gamma)
		assert.True(t, am < ap)
		assert.True(t, math.Abs(am) < 1.0)
		assert.True(t, math.Abs(ap) < 1.0)

		// the flow speed sits between the outer characteristics
		v := p[1] / math.Sqrt(1+p[1]*p[1])
		assert.True(t, am <= v && v <= ap)

		a := MaxWavespeed(p, 1, gamma)
		assert.InDelta(t, math.Max(math.Abs(am), math.Abs(ap)), a, 1e-14)
		assert.True(t, a < 1.0)
	}
	{ // Sound speed stays causal even for very hot states
		p := []float64{1e-6, 0.0, 100.0}
		a2 := SoundSpeedSquared(p, 1, gamma)
		assert.True(t, a2 > 0 && a2 < 1)
	}
}

func TestRiemannHLLE(t *testing.T) {
	var (
		gamma  = 5.0 / 3.0
		states = [][]float64{
			{1.0, 0.0, 1.0},
			{1.0, 2.0, 0.1},
			{0.1, -1.5, 0.125},
		}
	)
	{ // Equal input states reduce the HLLE flux to the physical flux
		for _, p := range states {
			var (
				u    = make([]float64, 3)
				f    = make([]float64, 3)
				hlle = make([]float64, 3)
			)
			PrimToCons(p, u, 1, gamma)
			PrimAndConsToFlux(p, u, f, 1, 1)
			RiemannHLLE(p, p, hlle, 1, 1, gamma, 0.0)
			for n := range f {
				assert.InDelta(t, f[n], hlle[n], 1e-12)
			}
		}
	}
	{ // A supersonic face velocity turns the flux into pure upwinding of
		// the comoving flux from one side
		var (
			pl   = []float64{1.0, 0.0, 1.0}
			pr   = []float64{0.1, 0.0, 0.125}
			ur   = make([]float64, 3)
			fr   = make([]float64, 3)
			hlle = make([]float64, 3)
		)
		PrimToCons(pr, ur, 1, gamma)
		PrimAndConsToFlux(pr, ur, fr, 1, 1)
		RiemannHLLE(pl, pr, hlle, 1, 1, gamma, 2.0)
		for n := range fr {
			assert.InDelta(t, fr[n]-2.0*ur[n], hlle[n], 1e-12)
		}
	}
}

func TestPLMMinmod(t *testing.T) {
	{ // Monotone data gets a slope between the one-sided differences
		g := PLMMinmod(1.0, 2.0, 4.0, 1.5)
		assert.True(t, g > 0)
		assert.True(t, g <= 3.0)
	}
	{ // Extrema are flattened
		assert.Equal(t, 0.0, PLMMinmod(1.0, 2.0, 1.0, 1.5))
		assert.Equal(t, 0.0, PLMMinmod(2.0, 1.0, 2.0, 2.0))
	}
	{ // Linear data is reproduced exactly at any theta
		for _, theta := range []float64{1.0, 1.5, 2.0} {
			assert.InDelta(t, 1.0, PLMMinmod(1.0, 2.0, 3.0, theta), 1e-14)
		}
	}
}
