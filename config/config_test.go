package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	data := []byte(`
Title: "expanding ejecta"
Setup: uniform-ejecta
Mode: cpu
NumPatches: 4
Resolution: [256, 64]
DomainX0: 0.1
DomainX1: 0.9
PolarExtent: 1.5707963
MeshVelocity: 1.0
StartTime: 1.0
CFL: 0.3
FinalTime: 10.0
RKOrder: 3
Gamma: 1.3333333
`)
	rp := Defaults()
	assert.NoError(t, rp.Parse(data))
	assert.Equal(t, "expanding ejecta", rp.Title)
	assert.Equal(t, "uniform-ejecta", rp.Setup)
	assert.Equal(t, [2]int{256, 64}, rp.Resolution)
	assert.Equal(t, 4, rp.NumPatches)
	assert.Equal(t, 3, rp.RKOrder)
	assert.Equal(t, 1.0, rp.MeshVelocity)
	// untouched fields keep their defaults
	assert.Equal(t, 1.5, rp.PLMTheta)
	assert.NoError(t, rp.Validate())
}

func TestValidate(t *testing.T) {
	{ // the defaults are runnable
		rp := Defaults()
		assert.NoError(t, rp.Validate())
	}
	{ // 2D runs need a polar extent
		rp := Defaults()
		rp.Resolution = [2]int{128, 64}
		assert.Error(t, rp.Validate())
	}
	{ // CFL bounds
		rp := Defaults()
		rp.CFL = 1.5
		assert.Error(t, rp.Validate())
	}
	{ // an expanding mesh cannot start at t = 0
		rp := Defaults()
		rp.MeshVelocity = 1.0
		assert.Error(t, rp.Validate())
	}
	{ // time must move forward
		rp := Defaults()
		rp.FinalTime = 0.0
		assert.Error(t, rp.Validate())
	}
	{ // unknown execution mode
		rp := Defaults()
		rp.Mode = "fpga"
		assert.Error(t, rp.Validate())
	}
}
