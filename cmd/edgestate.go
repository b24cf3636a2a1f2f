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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/ebhydro/InputParameters"
	"github.com/notargets/ebhydro/grid"
)

type FaceRecord struct {
	Dir      string  `csv:"dir"`
	I        int     `csv:"i"`
	J        int     `csv:"j"`
	Aperture float64 `csv:"aperture"`
	Velocity float64 `csv:"velocity"`
	Edge     float64 `csv:"edge"`
}

// EdgeStateCmd represents the edgestate command
var EdgeStateCmd = &cobra.Command{
	Use:   "edgestate",
	Short: "Predict the time centered face states of the initial field",
	Long: `
Runs one unsplit edge state prediction of the case's initial field and
reports the face values,

ebhydro edgestate -I case.yaml --csv faces.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var ip *InputParameters.RedistParameters
		file, _ := cmd.Flags().GetString("inputConditionsFile")
		csvFile, _ := cmd.Flags().GetString("csv")
		if ip, err = loadCase(file); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			ip.Print()
		}
		faces := RunEdgeState(ip)
		for _, dir := range []string{"x", "y"} {
			var edges []float64
			for _, f := range faces {
				if f.Dir == dir {
					edges = append(edges, f.Edge)
				}
			}
			fmt.Printf("%s faces: %d, edge states in [%.6f, %.6f]\n",
				dir, len(edges), floats.Min(edges), floats.Max(edges))
		}
		if len(csvFile) != 0 {
			err = writeCSV(csvFile, faces)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(EdgeStateCmd)
	EdgeStateCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file, the built in ramp when absent")
	EdgeStateCmd.Flags().String("csv", "", "write the face states to this CSV file")
}

// RunEdgeState returns the x faces of the domain followed by the y faces
func RunEdgeState(ip *InputParameters.RedistParameters) (faces []FaceRecord) {
	var (
		bx, geom = ip.Geometry()
		eb       = ip.EBGeometry(4)
		bc       = ip.BCRec()
		comps    = grid.ScalarComponents(1, bc, true)
		qf       = initialState(ip)
		U        = grid.NewField(bx.Grow(3), 1)
	)
	U.Box.ForEach(func(i, j int) { U.Set(i, j, 0, qf(cellCenter(geom, i, j))) })
	fillGhosts(U, geom, bc, qf)
	in, xedge, yedge := edgeStates(ip, bx, geom, comps, U, timeStep(ip, geom))
	collect := func(dir string, d grid.Direction, edge, vel, ap *grid.Field) {
		bx.SurroundingNodes(d).ForEach(func(i, j int) {
			faces = append(faces, FaceRecord{
				Dir: dir, I: i, J: j,
				Aperture: ap.At(i, j, 0),
				Velocity: vel.At(i, j, 0),
				Edge:     edge.At(i, j, 0),
			})
		})
	}
	collect("x", grid.XDir, xedge, in.UMac, eb.Apx)
	collect("y", grid.YDir, yedge, in.VMac, eb.Apy)
	return
}
