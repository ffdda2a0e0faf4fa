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

	"github.com/notargets/polyfem/quadrature"
)

// QuadratureCmd represents the quadrature command
var QuadratureCmd = &cobra.Command{
	Use:   "quadrature",
	Short: "Print a quadrature rule",
	Long: `
Prints the points and weights of the rule of a given order on a reference element. Simplex
rules are shown with weights summing to one unless --scale is given.

polyfem quadrature --family tri --order 3`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			famName, _ = cmd.Flags().GetString("family")
			order, _   = cmd.Flags().GetInt("order")
			scale, _   = cmd.Flags().GetBool("scale")
			w          = cmd.OutOrStdout()
			fam        quadrature.ShapeFamily
			q          quadrature.Quadrature
		)
		if fam, err = quadrature.NewShapeFamily(famName); err != nil {
			return
		}
		if q, err = quadrature.GetQuadrature(order, fam); err != nil {
			return
		}
		if scale && fam.IsSimplex() {
			q = q.ScaleToSimplex(fam)
		}
		fmt.Fprintf(w, "%s order %d: %d points\n", fam, order, q.Size())
		for i := 0; i < q.Size(); i++ {
			fmt.Fprintf(w, "%v\t%.16g\n", q.Points.RawRowView(i), q.Weights[i])
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(QuadratureCmd)
	QuadratureCmd.Flags().String("family", "tri", "reference element: segment, tri, quad, tet or hex")
	QuadratureCmd.Flags().Int("order", 2, "polynomial order integrated exactly")
	QuadratureCmd.Flags().Bool("scale", false, "scale simplex weights to the reference simplex measure")
}
