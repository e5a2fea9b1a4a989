/*
Package mesh provides the grid geometries consumed by the solver: a static
planar cartesian grid for 1D problems and a logarithmic spherical-polar
grid supporting homologous expansion, where every radial coordinate scales
by a common factor a(t) = a0 + adot*t.

A mesh is constructed once and read-only; faces are reported in comoving
coordinates and scaled by the solver where physical positions are needed.
*/
package mesh

import (
	"fmt"
	"math"
)

// Geometry is the read-only grid description shared by all patches.
type Geometry interface {
	// Shape returns the number of cells (ni, nj); nj is 1 for 1D grids.
	Shape() (ni, nj int)
	// Faces returns the comoving radial face positions spanning cells
	// [i0, i1), i1-i0+1 values.
	Faces(i0, i1 int) []float64
	// PolarExtent is the angular span of the polar direction, 0 for 1D.
	PolarExtent() float64
	// ScaleFactor returns a(t); 1 for a static mesh.
	ScaleFactor(t float64) float64
	// ScaleFactorDerivative returns da/dt; 0 for a static mesh.
	ScaleFactorDerivative() float64
	// CellCoordinates returns the physical centroid of cell (i, j) at t.
	CellCoordinates(t float64, i, j int) (x, q float64)
	// MinSpacing returns the smallest physical cell width at time t, the
	// grid-resolution part of the CFL bound.
	MinSpacing(t float64) float64
}

// PlanarCartesian is a uniform static 1D grid on [X0, X1].
type PlanarCartesian struct {
	X0, X1 float64
	Ni     int
}

func NewPlanarCartesian(x0, x1 float64, ni int) (m *PlanarCartesian, err error) {
	if ni < 1 || x1 <= x0 {
		err = fmt.Errorf("invalid planar mesh: ni=%d, extent [%g, %g]", ni, x0, x1)
		return
	}
	m = &PlanarCartesian{X0: x0, X1: x1, Ni: ni}
	return
}

func (m *PlanarCartesian) Shape() (ni, nj int) { return m.Ni, 1 }

func (m *PlanarCartesian) Faces(i0, i1 int) (faces []float64) {
	dx := (m.X1 - m.X0) / float64(m.Ni)
	faces = make([]float64, i1-i0+1)
	for n := range faces {
		faces[n] = m.X0 + dx*float64(i0+n)
	}
	return
}

func (m *PlanarCartesian) PolarExtent() float64            { return 0 }
func (m *PlanarCartesian) ScaleFactor(t float64) float64   { return 1 }
func (m *PlanarCartesian) ScaleFactorDerivative() float64  { return 0 }
func (m *PlanarCartesian) MinSpacing(t float64) float64    { return (m.X1 - m.X0) / float64(m.Ni) }
func (m *PlanarCartesian) String() string                  { return fmt.Sprintf("planar cartesian [%g, %g] with %d zones", m.X0, m.X1, m.Ni) }

func (m *PlanarCartesian) CellCoordinates(t float64, i, j int) (x, q float64) {
	dx := (m.X1 - m.X0) / float64(m.Ni)
	x = m.X0 + dx*(float64(i)+0.5)
	return
}

// LogSpherical is a spherical-polar grid with logarithmically spaced radial
// faces on [R0, R1] and uniform polar faces on [0, Polar]. A non-zero Adot
// makes the mesh expand homologously, r(t) = a(t) * xi with a(t) = A0 +
// Adot*t; faces are reported in the comoving coordinate xi.
type LogSpherical struct {
	R0, R1 float64
	Ni, Nj int
	Polar  float64
	A0     float64
	Adot   float64
}

func NewLogSpherical(r0, r1 float64, ni, nj int, polar, adot float64) (m *LogSpherical, err error) {
	switch {
	case r0 <= 0 || r1 <= r0:
		err = fmt.Errorf("invalid radial extent [%g, %g]", r0, r1)
	case ni < 1 || nj < 1:
		err = fmt.Errorf("invalid shape (%d, %d)", ni, nj)
	case polar <= 0 || polar > math.Pi:
		err = fmt.Errorf("polar extent %g outside (0, pi]", polar)
	}
	if err != nil {
		return
	}
	a0 := 1.0
	if adot != 0 {
		// An expanding mesh measures time from a=0 so that the coordinate
		// velocity field is exactly homologous, v = r/t.
		a0 = 0.0
	}
	m = &LogSpherical{R0: r0, R1: r1, Ni: ni, Nj: nj, Polar: polar, A0: a0, Adot: adot}
	return
}

func (m *LogSpherical) Shape() (ni, nj int) { return m.Ni, m.Nj }

func (m *LogSpherical) Faces(i0, i1 int) (faces []float64) {
	dlogr := math.Log(m.R1/m.R0) / float64(m.Ni)
	faces = make([]float64, i1-i0+1)
	for n := range faces {
		faces[n] = m.R0 * math.Exp(dlogr*float64(i0+n))
	}
	return
}

func (m *LogSpherical) PolarExtent() float64           { return m.Polar }
func (m *LogSpherical) ScaleFactor(t float64) float64  { return m.A0 + m.Adot*t }
func (m *LogSpherical) ScaleFactorDerivative() float64 { return m.Adot }

func (m *LogSpherical) CellCoordinates(t float64, i, j int) (x, q float64) {
	dlogr := math.Log(m.R1/m.R0) / float64(m.Ni)
	x = m.ScaleFactor(t) * m.R0 * math.Exp(dlogr*(float64(i)+0.5))
	q = m.Polar * (float64(j) + 0.5) / float64(m.Nj)
	return
}

func (m *LogSpherical) MinSpacing(t float64) float64 {
	// The innermost radial cell is the narrowest on a log grid; compare it
	// with the polar arc length at the inner edge.
	var (
		a     = m.ScaleFactor(t)
		dlogr = math.Log(m.R1/m.R0) / float64(m.Ni)
		dr    = a * m.R0 * (math.Exp(dlogr) - 1.0)
		rq    = a * m.R0 * m.Polar / float64(m.Nj)
	)
	return math.Min(dr, rq)
}

func (m *LogSpherical) String() string {
	return fmt.Sprintf("log spherical [%g, %g] x [0, %g] with (%d, %d) zones, adot=%g",
		m.R0, m.R1, m.Polar, m.Ni, m.Nj, m.Adot)
}
