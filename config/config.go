// Parameters obtained from the YAML run file and the CLI flags layered
// over it.
package config

import (
	"fmt"

	"github.com/ghodss/yaml"
)

type RunParameters struct {
	Title      string `yaml:"Title"`
	Setup      string `yaml:"Setup"`
	Mode       string `yaml:"Mode"`
	NumPatches int    `yaml:"NumPatches"`
	NumDevices int    `yaml:"NumDevices"`

	Resolution   [2]int  `yaml:"Resolution"` // (ni, nj); nj 1 selects the 1D family
	DomainX0     float64 `yaml:"DomainX0"`
	DomainX1     float64 `yaml:"DomainX1"`
	PolarExtent  float64 `yaml:"PolarExtent"`  // radians; 0 selects a planar grid
	MeshVelocity float64 `yaml:"MeshVelocity"` // adot for homologous expansion
	StartTime    float64 `yaml:"StartTime"`

	CFL       float64 `yaml:"CFL"`
	FinalTime float64 `yaml:"FinalTime"`
	RKOrder   int     `yaml:"RKOrder"`
	PLMTheta  float64 `yaml:"PLMTheta"`
	Gamma     float64 `yaml:"Gamma"`
	Strict    bool    `yaml:"Strict"`
}

// Defaults returns a runnable parameter set, a 1D shocktube on the host.
func Defaults() RunParameters {
	return RunParameters{
		Title:      "sailfish run",
		Setup:      "shocktube",
		Mode:       "cpu",
		NumPatches: 1,
		Resolution: [2]int{1000, 1},
		DomainX0:   0.0,
		DomainX1:   1.0,
		CFL:        0.4,
		FinalTime:  0.1,
		RKOrder:    2,
		PLMTheta:   1.5,
		Gamma:      5.0 / 3.0,
	}
}

func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RunParameters) Validate() error {
	switch {
	case rp.Resolution[0] < 1 || rp.Resolution[1] < 1:
		return fmt.Errorf("resolution %v must be positive", rp.Resolution)
	case rp.Resolution[1] > 1 && rp.PolarExtent == 0:
		return fmt.Errorf("2D runs need a polar extent")
	case rp.CFL <= 0 || rp.CFL >= 1:
		return fmt.Errorf("CFL %g outside (0, 1)", rp.CFL)
	case rp.FinalTime <= rp.StartTime:
		return fmt.Errorf("final time %g does not exceed start time %g",
			rp.FinalTime, rp.StartTime)
	case rp.MeshVelocity != 0 && rp.StartTime <= 0:
		return fmt.Errorf("an expanding mesh needs a positive start time")
	case rp.Mode != "cpu" && rp.Mode != "gpu":
		return fmt.Errorf("mode %q not in {cpu, gpu}", rp.Mode)
	}
	return nil
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t= Setup\n", rp.Setup)
	fmt.Printf("[%s]\t\t\t= Mode\n", rp.Mode)
	fmt.Printf("%d x %d\t\t= Resolution\n", rp.Resolution[0], rp.Resolution[1])
	fmt.Printf("%d\t\t\t= NumPatches\n", rp.NumPatches)
	fmt.Printf("%8.5f\t\t= CFL\n", rp.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", rp.FinalTime)
	fmt.Printf("%d\t\t\t= RKOrder\n", rp.RKOrder)
	fmt.Printf("%8.5f\t\t= Gamma\n", rp.Gamma)
}
