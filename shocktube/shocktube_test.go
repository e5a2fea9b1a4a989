package shocktube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWavePattern(t *testing.T) {
	sol := Solve(5.0/3.0, 0.1)
	{ // Plateau state from the pressure match
		assert.InDelta(t, 0.33776, sol.PStar, 1e-4)
		assert.InDelta(t, 0.40892, sol.VStar, 1e-4)
		assert.InDelta(t, 0.17943, sol.RhoPost, 1e-4)
		assert.InDelta(t, 0.52140, sol.RhoMiddle, 1e-4)
		assert.InDelta(t, 0.83213, sol.VShock, 1e-4)
	}
	{ // Waves are ordered and inside the domain at t = 0.1
		assert.True(t, sol.X1 < sol.X2)
		assert.True(t, sol.X2 < sol.X3)
		assert.True(t, sol.X3 < sol.X4)
		assert.True(t, sol.X1 > 0.0 && sol.X4 < 1.0)
	}
	{ // The same pattern holds for other adiabatic indices
		for _, gamma := range []float64{4.0 / 3.0, 1.4} {
			s := Solve(gamma, 0.1)
			assert.True(t, s.PStar > pR && s.PStar < pL)
			assert.True(t, s.VStar > 0 && s.VStar < s.VShock)
			assert.True(t, s.RhoPost > rhoR && s.RhoMiddle < rhoL)
		}
	}
}

func TestEvaluate(t *testing.T) {
	sol := Solve(5.0/3.0, 0.1)
	{ // Initial states outside the wave fan
		rho, gb, pre := sol.Evaluate(0.1)
		assert.Equal(t, []float64{1.0, 0.0, 1.0}, []float64{rho, gb, pre})
		rho, gb, pre = sol.Evaluate(0.9)
		assert.Equal(t, []float64{0.1, 0.0, 0.125}, []float64{rho, gb, pre})
	}
	{ // Pressure and velocity are continuous across the contact, density
		// jumps
		eps := 1e-6
		rhoM, gbM, preM := sol.Evaluate(sol.X3 - eps)
		rhoP, gbP, preP := sol.Evaluate(sol.X3 + eps)
		assert.InDelta(t, preM, preP, 1e-9)
		assert.InDelta(t, gbM, gbP, 1e-9)
		assert.Greater(t, rhoM, rhoP)
	}
	{ // The fan joins the head and tail states continuously
		rho, _, pre := sol.Evaluate(sol.X1 + 1e-9)
		assert.InDelta(t, 1.0, rho, 1e-3)
		assert.InDelta(t, 1.0, pre, 1e-3)
		_, gb, pre := sol.Evaluate(sol.X2 - 1e-9)
		vStarGb := sol.VStar / math.Sqrt(1-sol.VStar*sol.VStar)
		assert.InDelta(t, vStarGb, gb, 1e-3)
		assert.InDelta(t, sol.PStar, pre, 1e-3)
	}
	{ // Density decreases monotonically through the fan
		prev := math.Inf(1)
		for x := sol.X1 + 1e-4; x < sol.X2; x += (sol.X2 - sol.X1) / 50 {
			rho, _, _ := sol.Evaluate(x)
			assert.LessOrEqual(t, rho, prev+1e-12)
			prev = rho
		}
	}
}
