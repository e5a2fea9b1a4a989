package setups

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"density-wave", "shocktube", "uniform-ejecta"}, Names())
	for _, name := range Names() {
		s, err := MakeSetup(name)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err := MakeSetup("warp-drive")
	assert.Error(t, err)
}

func TestShocktubeStates(t *testing.T) {
	var (
		s    = Shocktube{}
		prim = make([]float64, 3)
	)
	assert.Equal(t, "outflow", s.BoundaryCondition())
	s.InitialPrimitive(0, 0.25, 0, prim)
	assert.Equal(t, []float64{1.0, 0.0, 1.0}, prim)
	s.InitialPrimitive(0, 0.75, 0, prim)
	assert.Equal(t, []float64{0.1, 0.0, 0.125}, prim)
}

func TestDensityWave(t *testing.T) {
	s, err := MakeSetup("density-wave")
	assert.NoError(t, err)
	assert.Equal(t, "periodic", s.BoundaryCondition())

	prim := make([]float64, 3)
	for x := 0.0; x < 1.0; x += 0.01 {
		s.InitialPrimitive(0, x, 0, prim)
		assert.Greater(t, prim[0], 0.0)
		assert.Greater(t, prim[2], 0.0)
	}
	// the profile is periodic over the unit domain
	var a, b [3]float64
	s.InitialPrimitive(0, 0.25, 0, prim)
	copy(a[:], prim)
	s.InitialPrimitive(0, 1.25, 0, prim)
	copy(b[:], prim)
	for n := range a {
		assert.InDelta(t, a[n], b[n], 1e-12)
	}
}

func TestUniformEjecta(t *testing.T) {
	var (
		s    = UniformEjecta{RhoScale: 1.0, POverRho: 1e-4}
		prim = make([]float64, 4)
		t0   = 100.0
	)
	assert.Equal(t, "outflow", s.BoundaryCondition())
	s.InitialPrimitive(t0, 50.0, math.Pi/4, prim)
	// coordinate velocity is x/t
	beta := prim[1] / math.Sqrt(1+prim[1]*prim[1])
	assert.InDelta(t, 0.5, beta, 1e-12)
	assert.Equal(t, 0.0, prim[2])
	assert.InDelta(t, 1e-4*prim[0], prim[3], 1e-15)

	// the density profile falls as 1/x^2
	var rho [2]float64
	s.InitialPrimitive(t0, 20.0, 0, prim)
	rho[0] = prim[0]
	s.InitialPrimitive(t0, 40.0, 0, prim)
	rho[1] = prim[0]
	assert.InDelta(t, 4.0, rho[0]/rho[1], 1e-12)
}
