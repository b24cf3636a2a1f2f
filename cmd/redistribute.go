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
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/ebhydro/InputParameters"
	"github.com/notargets/ebhydro/godunov"
	"github.com/notargets/ebhydro/grid"
	"github.com/notargets/ebhydro/redistribution"
	"github.com/notargets/ebhydro/utils"
)

type CellRecord struct {
	I         int     `csv:"i"`
	J         int     `csv:"j"`
	Vfrac     float64 `csv:"vfrac"`
	Flag      string  `csv:"flag"`
	Neighbors int     `csv:"neighbors"`
	State     float64 `csv:"state"`
	DUdtIn    float64 `csv:"dudt_in"`
	DUdt      float64 `csv:"dudt"`
}

type StepReport struct {
	Step                 int
	Time, Mass, Min, Max float64
	Defect               float64 // mass the redistribution itself created
}

type RedistResult struct {
	Steps     []StepReport
	Cells     []CellRecord
	Shortfall int
}

// RedistributeCmd represents the redistribute command
var RedistributeCmd = &cobra.Command{
	Use:   "redistribute",
	Short: "Advect a scalar across the cut cells, redistributing every update",
	Long: `
Advances a smooth scalar with the unsplit Godunov edge states through a grid
cut by the case walls. The update of every step is redistributed with the
selected policy before it is applied,

ebhydro redistribute -I case.yaml --policy NewStateRedist --csv cells.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip      *InputParameters.RedistParameters
			verbose = viper.GetBool("verbose")
		)
		file, _ := cmd.Flags().GetString("inputConditionsFile")
		csvFile, _ := cmd.Flags().GetString("csv")
		if ip, err = loadCase(file); err != nil {
			return
		}
		if verbose {
			ip.Print()
		}
		res := RunRedistribute(ip, verbose)
		first, last := res.Steps[0], res.Steps[len(res.Steps)-1]
		fmt.Printf("%d steps, mass %.10g -> %.10g, range [%.5f, %.5f], %d neighborhoods short of target\n",
			last.Step, first.Mass, last.Mass, last.Min, last.Max, res.Shortfall)
		if len(csvFile) != 0 {
			err = writeCSV(csvFile, res.Cells)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(RedistributeCmd)
	RedistributeCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file, the built in ramp when absent")
	RedistributeCmd.Flags().String("csv", "", "write the final cell states to this CSV file")
}

func RunRedistribute(ip *InputParameters.RedistParameters, verbose bool) (res *RedistResult) {
	var (
		bx, geom = ip.Geometry()
		eb       = ip.EBGeometry(4)
		bc       = ip.BCRec()
		comps    = grid.ScalarComponents(1, bc, true)
		opts     = ip.Options()
		qf       = initialState(ip)
		U        = grid.NewField(bx.Grow(3), 1)
		dt       = timeStep(ip, geom)
		tr       *redistribution.Tracker
		din      = grid.NewField(bx.Grow(3), 1)
		dout     = grid.NewField(bx, 1)
	)
	res = &RedistResult{}
	U.Box.ForEach(func(i, j int) { U.Set(i, j, 0, qf(cellCenter(geom, i, j))) })
	if opts.Policy.IsState() {
		tr, _ = redistribution.BuildNeighborhoods(bx, eb, geom, opts)
		res.Shortfall = tr.Shortfall
		fillGhosts(U, geom, bc, qf)
		U.CopyFrom(redistribution.ApplyToInitialData(bx, 1, U, eb, comps, geom, opts), bx, 1)
	}
	res.Steps = append(res.Steps, report(0, 0, U, eb, bx, geom, 0))

	for step := 1; step <= ip.Steps; step++ {
		fillGhosts(U, geom, bc, qf)
		din = advectiveUpdate(ip, bx, geom, eb, comps, U, dt)
		dout = redistribution.Apply(bx, 1, din, U, eb, comps, geom, dt, opts)
		utils.IsNanPanic(dout.Data, fmt.Sprintf("redistributed update, step %d", step))
		defect := dt * area(geom) * (massRate(dout, eb, bx) - massRate(din, eb, bx))
		grid.ParallelForCell(bx, func(i, j int) {
			if !eb.Flags.At(i, j, 0).IsCovered() {
				U.Add(i, j, 0, dt*dout.At(i, j, 0))
			}
		})
		rep := report(step, float64(step)*dt, U, eb, bx, geom, defect)
		if verbose {
			fmt.Printf("Step %5d  Time %8.5f  Mass %16.12f  Min %9.5f  Max %9.5f  Defect %9.2e\n",
				rep.Step, rep.Time, rep.Mass, rep.Min, rep.Max, rep.Defect)
		}
		res.Steps = append(res.Steps, rep)
	}
	if verbose {
		fmt.Println(utils.GetMemUsage())
	}

	bx.ForEach(func(i, j int) {
		rec := CellRecord{
			I: i, J: j,
			Vfrac:  eb.Vfrac.At(i, j, 0),
			Flag:   eb.Flags.At(i, j, 0).String(),
			State:  U.At(i, j, 0),
			DUdtIn: din.At(i, j, 0),
			DUdt:   dout.At(i, j, 0),
		}
		if tr != nil {
			rec.Neighbors = tr.Count(i, j)
		}
		res.Cells = append(res.Cells, rec)
	})
	return
}

// timeStep is the CFL limited step of the case velocity
func timeStep(ip *InputParameters.RedistParameters, geom grid.Geometry) (dt float64) {
	dt = math.Inf(1)
	for d := grid.XDir; d <= grid.YDir; d++ {
		if u := math.Abs(ip.Velocity[d]); u > 0 {
			dt = math.Min(dt, geom.Dx[d]/u)
		}
	}
	if math.IsInf(dt, 1) {
		dt = math.Min(geom.Dx[0], geom.Dx[1])
	}
	return ip.CFL * dt
}

func edgeStates(ip *InputParameters.RedistParameters, bx grid.Box, geom grid.Geometry,
	comps []grid.Component, U *grid.Field, dt float64) (in godunov.EdgeStateInput, xedge, yedge *grid.Field) {
	in = godunov.EdgeStateInput{
		Q:     U,
		UMac:  grid.NewField(bx.SurroundingNodes(grid.XDir).Grow(1), 1),
		VMac:  grid.NewField(bx.SurroundingNodes(grid.YDir).Grow(1), 1),
		Comps: comps,
		Dt:    dt,
	}
	in.UMac.SetVal(ip.Velocity[0])
	in.VMac.SetVal(ip.Velocity[1])
	xedge, yedge = godunov.ComputeEdgeState(bx, 1, in, geom, godunov.EdgeStateOptions{
		Recon:            godunov.NewReconstructor(ip.Reconstruction),
		UseForcesInTrans: ip.UseForcesInTrans,
	})
	return
}

/*
advectiveUpdate is the conservative rate of change of U per unit fluid volume,

	-(div (ap u q_edge)) / vfrac

on the non covered cells of bx, zero elsewhere apart from periodic images.
No flux crosses the embedded wall.
*/
func advectiveUpdate(ip *InputParameters.RedistParameters, bx grid.Box, geom grid.Geometry,
	eb redistribution.EBGeometry, comps []grid.Component, U *grid.Field, dt float64) (din *grid.Field) {
	var (
		in, xedge, yedge = edgeStates(ip, bx, geom, comps, U, dt)
		dx, dy           = geom.Dx[0], geom.Dx[1]
	)
	din = grid.NewField(bx.Grow(3), 1)
	grid.ParallelForCell(bx, func(i, j int) {
		vf := eb.Vfrac.At(i, j, 0)
		if vf <= 0 {
			return
		}
		var (
			fx = in.UMac.At(i+1, j, 0)*eb.Apx.At(i+1, j, 0)*xedge.At(i+1, j, 0) -
				in.UMac.At(i, j, 0)*eb.Apx.At(i, j, 0)*xedge.At(i, j, 0)
			fy = in.VMac.At(i, j+1, 0)*eb.Apy.At(i, j+1, 0)*yedge.At(i, j+1, 0) -
				in.VMac.At(i, j, 0)*eb.Apy.At(i, j, 0)*yedge.At(i, j, 0)
		)
		din.Set(i, j, 0, -(fx/dx+fy/dy)/vf)
	})
	grid.FillPeriodic(din, geom)
	return
}

func area(geom grid.Geometry) float64 { return geom.Dx[0] * geom.Dx[1] }

// massRate is the volume fraction weighted sum of f over bx
func massRate(f *grid.Field, eb redistribution.EBGeometry, bx grid.Box) float64 {
	return floats.Dot(redistribution.DomainVector(eb.Vfrac, bx, 0), redistribution.DomainVector(f, bx, 0))
}

func report(step int, time float64, U *grid.Field, eb redistribution.EBGeometry, bx grid.Box,
	geom grid.Geometry, defect float64) (rep StepReport) {
	var fluid []float64
	bx.ForEach(func(i, j int) {
		if !eb.Flags.At(i, j, 0).IsCovered() {
			fluid = append(fluid, U.At(i, j, 0))
		}
	})
	rep = StepReport{
		Step:   step,
		Time:   time,
		Mass:   area(geom) * massRate(U, eb, bx),
		Defect: defect,
	}
	if len(fluid) != 0 {
		rep.Min, rep.Max = floats.Min(fluid), floats.Max(fluid)
	}
	return
}
