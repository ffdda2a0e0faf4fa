package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	{ // Generated grid, quadratic solution is reproduced by order 2
		params := writeFile(t, dir, "params.yaml", `
Title: quad2
Grid: quads
GridSize: [3, 3]
Problem: quadratic
PolynomialOrder: 2
`)
		csvFile := filepath.Join(dir, "out.csv")
		out, err := execute(t, "solve", "-I", params, "--csv", csvFile, "--vis", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "element types: RegularInteriorCube=1")
		assert.Contains(t, out, "DOFs: 49 x 1")
		assert.Contains(t, out, "errors:")
		assert.Contains(t, out, "vis mesh:")
		data, err := ioutil.ReadFile(csvFile)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Title,NumDOFs"))
		assert.True(t, strings.HasPrefix(lines[1], "quad2,49,2,"))
	}
	{ // Polygon mesh from file
		obj := writeFile(t, dir, "two.obj", `
v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
v 1 1 0
v 2 1 0
f 1 2 5 4
f 2 3 6 5
`)
		params := writeFile(t, dir, "lin.yaml", `
Problem: linear
`)
		out, err := execute(t, "solve", "-I", params, "-F", obj, "--csv", "", "--vis", "0")
		require.NoError(t, err)
		assert.Contains(t, out, "DOFs: 6 x 1")
	}
	{ // Missing input file
		_, err := execute(t, "solve", "-I", filepath.Join(dir, "missing.yaml"), "-F", "")
		assert.Error(t, err)
	}
}

func TestTagsCommand(t *testing.T) {
	dir := t.TempDir()
	obj := writeFile(t, dir, "mixed.obj", `
v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
v 1 1 0
v 2 1 0
f 1 2 5 4
f 2 3 6
f 2 6 5
`)
	out, err := execute(t, "tags", "-F", obj, "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "PlanarMesh")
	assert.Contains(t, out, "Simplex=2")
	assert.Equal(t, 1, strings.Count(out, "\tSimplex\t[1 2 5]"))
}

func TestQuadratureCommand(t *testing.T) {
	{
		out, err := execute(t, "quadrature", "--family", "quad", "--order", "3", "--scale=false")
		require.NoError(t, err)
		assert.Contains(t, out, "Quad order 3: 4 points")
	}
	{
		_, err := execute(t, "quadrature", "--family", "prism", "--order", "1")
		assert.Error(t, err)
	}
	{
		_, err := execute(t, "quadrature", "--family", "tri", "--order", "99")
		assert.Error(t, err)
	}
}
