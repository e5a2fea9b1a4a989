package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanarCartesian(t *testing.T) {
	m, err := NewPlanarCartesian(0.0, 1.0, 100)
	assert.NoError(t, err)
	ni, nj := m.Shape()
	assert.Equal(t, 100, ni)
	assert.Equal(t, 1, nj)
	assert.Equal(t, 1.0, m.ScaleFactor(5.0))
	assert.Equal(t, 0.0, m.ScaleFactorDerivative())
	assert.InDelta(t, 0.01, m.MinSpacing(0.0), 1e-15)

	{ // Faces are uniform and extend past the interior for guard zones
		faces := m.Faces(-2, 102)
		assert.Len(t, faces, 105)
		for k := 1; k < len(faces); k++ {
			assert.InDelta(t, 0.01, faces[k]-faces[k-1], 1e-12)
		}
		assert.InDelta(t, -0.02, faces[0], 1e-12)
	}
	{ // Centroids sit mid-cell
		x, q := m.CellCoordinates(0.0, 0, 0)
		assert.InDelta(t, 0.005, x, 1e-15)
		assert.Equal(t, 0.0, q)
	}
	{ // Invalid extents are rejected
		_, err := NewPlanarCartesian(1.0, 0.0, 10)
		assert.Error(t, err)
		_, err = NewPlanarCartesian(0.0, 1.0, 0)
		assert.Error(t, err)
	}
}

func TestLogSpherical(t *testing.T) {
	m, err := NewLogSpherical(1.0, 10.0, 64, 32, math.Pi/2, 0.0)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, m.ScaleFactor(3.0))

	{ // Faces are log-spaced: constant ratio, endpoints exact
		faces := m.Faces(0, 64)
		assert.Len(t, faces, 65)
		assert.InDelta(t, 1.0, faces[0], 1e-12)
		assert.InDelta(t, 10.0, faces[64], 1e-12)
		ratio := faces[1] / faces[0]
		for k := 1; k < len(faces); k++ {
			assert.InDelta(t, ratio, faces[k]/faces[k-1], 1e-12)
		}
	}
	{ // Guard faces below the inner edge stay positive on a log grid
		faces := m.Faces(-2, 2)
		assert.True(t, faces[0] > 0)
		for k := 1; k < len(faces); k++ {
			assert.True(t, faces[k] > faces[k-1])
		}
	}
	{ // Polar centroids cover (0, polar)
		_, q0 := m.CellCoordinates(0.0, 0, 0)
		_, qn := m.CellCoordinates(0.0, 0, 31)
		assert.True(t, q0 > 0 && qn < math.Pi/2)
	}
	{ // The narrowest cell bounds the CFL spacing
		faces := m.Faces(0, 64)
		dr := faces[1] - faces[0]
		assert.LessOrEqual(t, m.MinSpacing(0.0), dr+1e-12)
	}
}

func TestHomologousExpansion(t *testing.T) {
	m, err := NewLogSpherical(1.0, 10.0, 32, 1, math.Pi, 0.5)
	assert.NoError(t, err)

	// an expanding mesh measures time from a = 0
	assert.Equal(t, 0.0, m.A0)
	assert.Equal(t, 0.5, m.ScaleFactorDerivative())
	assert.InDelta(t, 1.0, m.ScaleFactor(2.0), 1e-15)

	{ // Physical positions scale linearly with a(t), comoving faces do not
		faces := m.Faces(0, 32)
		x1, _ := m.CellCoordinates(2.0, 0, 0)
		x2, _ := m.CellCoordinates(4.0, 0, 0)
		assert.InDelta(t, 2.0, x2/x1, 1e-12)
		again := m.Faces(0, 32)
		assert.Equal(t, faces, again)
	}
	{ // Spacing grows with the mesh
		assert.InDelta(t, 2.0, m.MinSpacing(4.0)/m.MinSpacing(2.0), 1e-12)
	}
	{ // Bad shapes and extents are rejected
		_, err := NewLogSpherical(-1.0, 10.0, 32, 1, math.Pi, 0.0)
		assert.Error(t, err)
		_, err = NewLogSpherical(1.0, 10.0, 32, 1, 4.0, 0.0)
		assert.Error(t, err)
	}
}
