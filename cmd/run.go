/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/EigenDev/sailfish/config"
	"github.com/EigenDev/sailfish/mesh"
	"github.com/EigenDev/sailfish/setups"
	"github.com/EigenDev/sailfish/solver"
)

type RunModel struct {
	ParamFile string
	Graph     bool
	PlotSteps int
	Delay     time.Duration
	Profile   bool

	plotOnce sync.Once
	chart    *chart2d.Chart2D
	colorMap *utils2.ColorMap
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance a problem setup to its final time",
	Long: `Advance a problem setup to its final time, choosing the time step
from the CFL condition against the fastest signal speed on the grid.
Parameters come from a YAML file with flags layered over it.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			rm  = &RunModel{}
		)
		rm.ParamFile, _ = cmd.Flags().GetString("paramFile")
		rm.Graph, _ = cmd.Flags().GetBool("graph")
		rm.PlotSteps, _ = cmd.Flags().GetInt("plotSteps")
		rm.Profile, _ = cmd.Flags().GetBool("profile")
		dr, _ := cmd.Flags().GetInt("delay")
		rm.Delay = time.Duration(dr) * time.Millisecond

		rp := config.Defaults()
		if len(rm.ParamFile) != 0 {
			var data []byte
			if data, err = ioutil.ReadFile(rm.ParamFile); err != nil {
				fmt.Printf("error: unable to read %s: %s\n", rm.ParamFile, err.Error())
				os.Exit(1)
			}
			if err = rp.Parse(data); err != nil {
				fmt.Printf("error: unable to parse %s: %s\n", rm.ParamFile, err.Error())
				os.Exit(1)
			}
		}
		overrideString(cmd, "setup", &rp.Setup)
		overrideString(cmd, "mode", &rp.Mode)
		overrideInt(cmd, "patches", &rp.NumPatches)
		overrideInt(cmd, "zones", &rp.Resolution[0])
		overrideFloat(cmd, "finalTime", &rp.FinalTime)
		overrideFloat(cmd, "CFL", &rp.CFL)
		if err = rp.Validate(); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		rp.Print()
		if rm.Profile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if err = RunSolver(rm, rp); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("paramFile", "I", "", "YAML file with run parameters")
	runCmd.Flags().String("setup", "", "problem setup to run")
	runCmd.Flags().String("mode", "", "execution mode: cpu or gpu")
	runCmd.Flags().Int("patches", 0, "number of patches to decompose the grid into")
	runCmd.Flags().Int("zones", 0, "radial zone count")
	runCmd.Flags().Float64("finalTime", 0, "target end time for the run")
	runCmd.Flags().Float64("CFL", 0, "CFL number against the fastest signal speed")
	runCmd.Flags().Bool("graph", false, "display a graph while computing solution")
	runCmd.Flags().Int("plotSteps", 50, "steps between progress reports and plot frames")
	runCmd.Flags().Int("delay", 0, "milliseconds of delay for plotting")
	runCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

// BuildMesh maps run parameters to a grid geometry: a polar extent or a
// mesh velocity selects the spherical grid, otherwise the run is planar.
// A 1D spherical run covers the full sphere.
func BuildMesh(rp config.RunParameters) (mesh.Geometry, error) {
	if rp.PolarExtent != 0 || rp.MeshVelocity != 0 {
		polar := rp.PolarExtent
		if polar == 0 {
			polar = math.Pi
		}
		return mesh.NewLogSpherical(rp.DomainX0, rp.DomainX1,
			rp.Resolution[0], rp.Resolution[1], polar, rp.MeshVelocity)
	}
	return mesh.NewPlanarCartesian(rp.DomainX0, rp.DomainX1, rp.Resolution[0])
}

// RunSolver owns the driver loop: pick dt from the CFL bound, advance,
// report. Interrupts land between complete steps so the solution stays
// consistent.
func RunSolver(rm *RunModel, rp config.RunParameters) error {
	geom, err := BuildMesh(rp)
	if err != nil {
		return err
	}
	setup, err := setups.MakeSetup(rp.Setup)
	if err != nil {
		return err
	}
	s, err := solver.New(solver.Config{
		Setup:      setup,
		Mesh:       geom,
		Time:       rp.StartTime,
		NumPatches: rp.NumPatches,
		Mode:       rp.Mode,
		Physics:    solver.Physics{Gamma: rp.Gamma},
		Options: solver.Options{
			RKOrder:    rp.RKOrder,
			PLMTheta:   rp.PLMTheta,
			Strict:     rp.Strict,
			NumDevices: rp.NumDevices,
		},
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		ni, nj = geom.Shape()
		zones  = ni * nj
		steps  int
		start  = time.Now()
	)
	for s.Time() < rp.FinalTime {
		select {
		case <-ctx.Done():
			fmt.Printf("interrupted at time %8.5f after %d steps\n", s.Time(), steps)
			return nil
		default:
		}
		amax, err := s.MaximumWavespeed()
		if err != nil {
			return err
		}
		dt := rp.CFL * geom.MinSpacing(s.Time()) / amax
		if s.Time()+dt > rp.FinalTime {
			dt = rp.FinalTime - s.Time()
		}
		if err = s.Advance(dt); err != nil {
			return err
		}
		steps++
		if steps%rm.PlotSteps == 0 {
			fmt.Printf("time = %8.5f, dt = %8.6f, step %d\n", s.Time(), dt, steps)
			if err = rm.Plot(s, geom, rp); err != nil {
				return err
			}
		}
	}
	elapsed := time.Since(start)
	rate := float64(zones*steps) / elapsed.Seconds()
	fmt.Printf("reached time %8.5f in %d steps, %s elapsed, %8.0f zone updates/sec\n",
		s.Time(), steps, elapsed.Round(time.Millisecond), rate)
	if s.BadZoneCount() != 0 {
		fmt.Printf("carried %d degraded zones\n", s.BadZoneCount())
	}
	if err = rm.Plot(s, geom, rp); err != nil {
		return err
	}
	time.Sleep(rm.Delay)
	return nil
}

// Plot draws the density profile of a 1D run while it advances.
func (rm *RunModel) Plot(s *solver.Solver, geom mesh.Geometry, rp config.RunParameters) error {
	ni, nj := geom.Shape()
	if !rm.Graph || nj != 1 {
		return nil
	}
	prim, err := s.Primitive()
	if err != nil {
		return err
	}
	var (
		nc  = len(prim) / ni
		X   = make([]float64, ni)
		Rho = make([]float64, ni)
		P   = make([]float64, ni)
	)
	for i := 0; i < ni; i++ {
		X[i], _ = geom.CellCoordinates(s.Time(), i, 0)
		Rho[i] = prim[i*nc]
		P[i] = prim[i*nc+nc-1]
	}
	rm.plotOnce.Do(func() {
		rm.chart = chart2d.NewChart2D(1920, 1280,
			float32(X[0]), float32(X[ni-1]), -0.1, 1.4)
		rm.colorMap = utils2.NewColorMap(-1, 1, 1)
		go rm.chart.Plot()
	})
	if err = rm.chart.AddSeries("Rho", X, Rho,
		chart2d.NoGlyph, chart2d.Solid, rm.colorMap.GetRGB(-0.7)); err != nil {
		return err
	}
	if err = rm.chart.AddSeries("P", X, P,
		chart2d.NoGlyph, chart2d.Solid, rm.colorMap.GetRGB(0.7)); err != nil {
		return err
	}
	time.Sleep(rm.Delay)
	return nil
}
