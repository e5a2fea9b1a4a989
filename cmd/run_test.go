package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EigenDev/sailfish/config"
	"github.com/EigenDev/sailfish/mesh"
)

func TestBuildMesh(t *testing.T) {
	{ // Default parameters map to a planar grid
		rp := config.Defaults()
		geom, err := BuildMesh(rp)
		assert.NoError(t, err)
		_, planar := geom.(*mesh.PlanarCartesian)
		assert.True(t, planar)
		ni, nj := geom.Shape()
		assert.Equal(t, 1000, ni)
		assert.Equal(t, 1, nj)
	}
	{ // A polar extent or a mesh velocity selects the spherical grid
		rp := config.Defaults()
		rp.DomainX0, rp.DomainX1 = 1.0, 10.0
		rp.Resolution = [2]int{128, 64}
		rp.PolarExtent = 1.5707963
		geom, err := BuildMesh(rp)
		assert.NoError(t, err)
		sph, ok := geom.(*mesh.LogSpherical)
		assert.True(t, ok)
		assert.Equal(t, 0.0, sph.Adot)

		rp.Resolution = [2]int{128, 1}
		rp.PolarExtent = 0.0
		rp.MeshVelocity = 1.0
		rp.StartTime = 1.0
		geom, err = BuildMesh(rp)
		assert.NoError(t, err)
		sph, ok = geom.(*mesh.LogSpherical)
		assert.True(t, ok)
		assert.Equal(t, 1.0, sph.Adot)
		assert.Equal(t, 0.0, sph.A0)
	}
}

func TestParamFileRoundTrip(t *testing.T) {
	fileInput := []byte(`
Title: Tube Test
Setup: shocktube
Mode: cpu
NumPatches: 2
Resolution: [2000, 1]
DomainX1: 1.0
CFL: 0.4
FinalTime: 0.1
RKOrder: 2
Gamma: 1.6666666666666667
`)
	rp := config.Defaults()
	assert.NoError(t, rp.Parse(fileInput))
	assert.NoError(t, rp.Validate())
	assert.Equal(t, "Tube Test", rp.Title)
	assert.Equal(t, 2000, rp.Resolution[0])
	geom, err := BuildMesh(rp)
	assert.NoError(t, err)
	ni, _ := geom.Shape()
	assert.Equal(t, 2000, ni)
}
