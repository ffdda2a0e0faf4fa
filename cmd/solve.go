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
	"io"
	"io/ioutil"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/notargets/polyfem/InputParameters"
	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/pipeline"
	"github.com/notargets/polyfem/vis"
)

const exampleFile = `
########################################
Title: "Unit square"
Grid: quads            # quads, triangles, hexes or tets
GridSize: [8, 8]
Problem: quadratic     # linear, quadratic, zero_bc or elastic_linear
PolynomialOrder: 2
Solver: cg             # cg or cholesky
ParallelDegree: 4
BCs:
  Neumann: [right]
########################################
`

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the full pipeline on one mesh and report the error",
	Long: `
Runs classification, basis construction, assembly and the linear solve for the problem named
in the input file, on the grid it describes or on an OBJ or SU2 mesh given with -F.

polyfem solve -I params.yaml [-F mesh.obj] [--csv study.csv]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			icFile, _   = cmd.Flags().GetString("inputConditionsFile")
			gridFile, _ = cmd.Flags().GetString("gridFile")
			csvFile, _  = cmd.Flags().GetString("csv")
			visRes, _   = cmd.Flags().GetInt("vis")
			ip          *InputParameters.FEMParameters
			s           *pipeline.State
		)
		if ip, err = processInput(icFile, gridFile); err != nil {
			return
		}
		ip.Print()
		if s, err = RunSolve(cmd.OutOrStdout(), ip, newLogger(cmd)); err != nil {
			return
		}
		if visRes > 0 {
			var vm *vis.VisMesh
			if vm, err = vis.BuildVisMesh(s.Space, visRes); err != nil {
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vis mesh: %d points, %d triangles\n", len(vm.Points), len(vm.Faces))
		}
		if len(csvFile) != 0 && s.Errors != nil {
			_, h := s.Mesh.MeshSize()
			row := pipeline.ConvergenceRow{NumElements: s.Mesh.NumElements(), NumBases: s.Space.NumBases, H: h,
				Errors: *s.Errors}
			err = appendCSV(csvFile, ip, []pipeline.ConvergenceRow{row})
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Grid\n\t- Problem\n\t- PolynomialOrder")
	SolveCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read, OBJ polygons or SU2")
	SolveCmd.Flags().String("csv", "", "append the error norms as a row of a convergence CSV file")
	SolveCmd.Flags().Int("vis", 0, "build a visualization mesh with this many subdivisions per element edge")
}

// processInput reads the parameter file, or returns defaults when none is given; gridFile overrides MeshFile.
func processInput(icFile, gridFile string) (ip *InputParameters.FEMParameters, err error) {
	ip = InputParameters.NewFEMParameters()
	if len(icFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(icFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("Example File:%s\n", exampleFile)
			return nil, fmt.Errorf("reading %s: %w", icFile, err)
		}
	}
	if len(gridFile) != 0 {
		ip.MeshFile = gridFile
	}
	return
}

// RunSolve runs every stage and prints a summary to w.
func RunSolve(w io.Writer, ip *InputParameters.FEMParameters, log logr.Logger) (s *pipeline.State, err error) {
	if s, err = pipeline.New(ip, pipeline.WithLogger(log)); err != nil {
		return
	}
	if err = s.RunAll(); err != nil {
		return
	}
	avg, max := s.Mesh.MeshSize()
	fmt.Fprintf(w, "%s\n", s.Mesh)
	fmt.Fprintf(w, "element types: %s\n", mesh.FormatTagCounts(mesh.TagCounts(s.Tags)))
	fmt.Fprintf(w, "mesh size: avg %.4g, max %.4g\n", avg, max)
	fmt.Fprintf(w, "DOFs: %d x %d, nnz %d, solver iterations %d\n",
		s.Space.NumBases, s.Components(), s.System.NNZ(), s.Iterations)
	if s.Errors != nil {
		fmt.Fprintf(w, "errors: %s\n", s.Errors)
	}
	return
}

func appendCSV(path string, ip *InputParameters.FEMParameters, rows []pipeline.ConvergenceRow) (err error) {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return pipeline.WriteCSV(f, os.IsNotExist(statErr), ip.Title, ip.PolynomialOrder, rows)
}
