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

	"github.com/notargets/polyfem/pipeline"
)

// ConvergenceCmd represents the convergence command
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Run the pipeline on successive refinements and print convergence rates",
	Long: `
polyfem convergence -I params.yaml -n 4 [--csv study.csv]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			icFile, _   = cmd.Flags().GetString("inputConditionsFile")
			gridFile, _ = cmd.Flags().GetString("gridFile")
			csvFile, _  = cmd.Flags().GetString("csv")
			nRefs, _    = cmd.Flags().GetInt("n")
			w           = cmd.OutOrStdout()
			rows        []pipeline.ConvergenceRow
		)
		ip, err := processInput(icFile, gridFile)
		if err != nil {
			return
		}
		if rows, err = pipeline.ConvergenceStudy(ip, nRefs, pipeline.WithLogger(newLogger(cmd))); err != nil {
			return
		}
		rates := pipeline.ConvergenceRates(rows)
		fmt.Fprintf(w, "%-6s %-8s %-10s %-12s %-6s %-12s %-6s %-12s %-6s\n",
			"Refine", "DOFs", "h", "L2", "rate", "H1 semi", "rate", "Linf", "rate")
		for i, r := range rows {
			var rl2, rh1, rinf string
			if i > 0 {
				rt := rates[i-1]
				rl2, rh1, rinf = fmt.Sprintf("%.2f", rt.L2), fmt.Sprintf("%.2f", rt.H1Semi), fmt.Sprintf("%.2f", rt.Linf)
			}
			fmt.Fprintf(w, "%-6d %-8d %-10.4g %-12.4e %-6s %-12.4e %-6s %-12.4e %-6s\n",
				r.Refinements, r.NumBases, r.H, r.Errors.L2, rl2, r.Errors.H1Semi, rh1, r.Errors.Linf, rinf)
		}
		if len(csvFile) != 0 {
			err = appendCSV(csvFile, ip, rows)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
	ConvergenceCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read, OBJ polygons or SU2")
	ConvergenceCmd.Flags().String("csv", "", "append every refinement as a row of a convergence CSV file")
	ConvergenceCmd.Flags().IntP("n", "n", 3, "number of refinement levels")
}
