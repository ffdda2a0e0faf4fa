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

	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/pipeline"
)

// TagsCmd represents the tags command
var TagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Classify the elements of a mesh",
	Long: `
Prints the number of elements of every topological type, and with --list the type of each element.

polyfem tags -F mesh.obj
polyfem tags -F mesh.su2`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			icFile, _   = cmd.Flags().GetString("inputConditionsFile")
			gridFile, _ = cmd.Flags().GetString("gridFile")
			list, _     = cmd.Flags().GetBool("list")
			w           = cmd.OutOrStdout()
			m           mesh.Mesh
		)
		ip, err := processInput(icFile, gridFile)
		if err != nil {
			return
		}
		if m, _, err = pipeline.MeshFromParams(ip); err != nil {
			return
		}
		if m, err = m.Refine(ip.Refinements); err != nil {
			return
		}
		tags := mesh.ComputeElementTags(m)
		fmt.Fprintf(w, "%s\n%s\n", m, mesh.FormatTagCounts(mesh.TagCounts(tags)))
		if list {
			for e, tag := range tags {
				fmt.Fprintf(w, "%d\t%s\t%v\n", e, tag, m.ElementVertices(e))
			}
		}
		if verr := mesh.ValidateTags(m, tags); verr != nil {
			fmt.Fprintf(w, "invalid elements:\n%v\n", verr)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(TagsCmd)
	TagsCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the grid")
	TagsCmd.Flags().StringP("gridFile", "F", "", "Mesh file to read, OBJ polygons or SU2")
	TagsCmd.Flags().Bool("list", false, "print the type of every element")
}
