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
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ebhydro/InputParameters"
	"github.com/notargets/ebhydro/redistribution"
)

type AuditRecord struct {
	I          int     `csv:"i"`
	J          int     `csv:"j"`
	Vfrac      float64 `csv:"vfrac"`
	RowSum     float64 `csv:"row_sum"`
	ColumnMass float64 `csv:"column_mass"`
}

type AuditResult struct {
	Cells, NNZ   int
	Conservation float64 // max over cells of the mass lost or gained by a unit state
	Consistency  float64 // max over fluid cells of the error on a constant state
	Shortfall    int
	Records      []AuditRecord
}

// AuditCmd represents the audit command
var AuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Assemble the state redistribution operator and check its conservation",
	Long: `
Assembles the linear map of first order state redistribution over a fully
periodic case as a sparse matrix M and reports

	max_c |sum_i vfrac_i M_ic - vfrac_c|	(conservation)
	max_i |sum_c M_ic - 1|			(constant states)

ebhydro audit -I periodic.yaml --policy wsrd`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip  *InputParameters.RedistParameters
			res *AuditResult
		)
		file, _ := cmd.Flags().GetString("inputConditionsFile")
		csvFile, _ := cmd.Flags().GetString("csv")
		if ip, err = loadCase(file); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			ip.Print()
		}
		if res, err = RunAudit(ip); err != nil {
			return
		}
		fmt.Printf("%d cells, %d nonzeros, %d neighborhoods short of target\n", res.Cells, res.NNZ, res.Shortfall)
		fmt.Printf("conservation defect %.3e, constant state defect %.3e\n", res.Conservation, res.Consistency)
		if len(csvFile) != 0 {
			err = writeCSV(csvFile, res.Records)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(AuditCmd)
	AuditCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file, must be periodic in x and y")
	AuditCmd.Flags().String("csv", "", "write the per cell row sums and column masses to this CSV file")
}

func RunAudit(ip *InputParameters.RedistParameters) (res *AuditResult, err error) {
	if !ip.Periodic[0] || !ip.Periodic[1] {
		return nil, fmt.Errorf("the redistribution operator is assembled on fully periodic cases, have Periodic: %v", ip.Periodic)
	}
	opts := ip.Options()
	if !opts.Policy.IsState() {
		return nil, fmt.Errorf("policy %v has no state redistribution operator", opts.Policy)
	}
	var eb redistribution.EBGeometry
	if eb, err = ip.CutGeometry(4); err != nil {
		return nil, err
	}
	var (
		bx, geom = ip.Geometry()
		op       = redistribution.Operator(eb, geom, opts)
		vfrac    = redistribution.DomainVector(eb.Vfrac, bx, 0)
		tr, _    = redistribution.BuildNeighborhoods(bx, eb, geom, opts)
	)
	res = &AuditResult{
		Cells:        bx.NumPts(),
		NNZ:          op.NNZ(),
		Conservation: redistribution.ConservationDefect(op, vfrac),
		Consistency:  redistribution.ConsistencyDefect(op, vfrac),
		Shortfall:    tr.Shortfall,
	}
	bx.ForEach(func(i, j int) {
		c := redistribution.CellNumber(bx, i, j)
		res.Records = append(res.Records, AuditRecord{
			I: i, J: j,
			Vfrac:      vfrac[c],
			RowSum:     floats.Sum(mat.Row(nil, c, op)),
			ColumnMass: floats.Dot(vfrac, mat.Col(nil, c, op)),
		})
	})
	return
}
