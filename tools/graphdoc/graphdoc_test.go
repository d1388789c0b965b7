// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphdoc_test

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/compile"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/gx-org/vfxgraph/tools/graphdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const update = `
name = "update"
roots = ["velocity", "fov"]

[options]
enable = ["reduction", "cpuEvaluation", "constantFolding"]
seed = 3

[camera]
fov = 90.0
near = 0.1
far = 100.0
width = 800.0
height = 600.0

[[attribute]]
name = "drag"
kind = "float"

[[node]]
name = "old"
op = "attributeRead"
attribute = "velocity"

[[node]]
name = "gravity"
op = "value"
kind = "float3"
value = [0, -9.5, 0]

[[node]]
name = "dt"
op = "deltaTime"

[[node]]
name = "dt3"
op = "combine"
args = ["dt", "dt", "dt"]

[[node]]
name = "step"
op = "multiply"
args = ["gravity", "dt3"]

[[node]]
name = "velocity"
op = "add"
args = ["old", "step"]

[[node]]
name = "fov"
op = "mainCameraFOV"

[[node]]
name = "drag"
op = "attributeRead"
attribute = "drag"
source = true
`

func TestParse(t *testing.T) {
	doc, err := graphdoc.Parse([]byte(update))
	require.NoError(t, err)
	assert.Equal(t, "update", doc.Name)
	assert.Equal(t, []string{"velocity", "fov"}, doc.Roots)
	assert.Equal(t, uint64(3), doc.Options.Seed)
	require.NotNil(t, doc.Camera)
	assert.Equal(t, float32(90), doc.Camera.FOV)
	assert.Len(t, doc.Nodes, 8)

	b := expr.NewBuilder()
	g, err := doc.Build(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "gravity", "dt", "dt3", "step", "velocity", "fov", "drag"}, slices.Collect(g.Names()))
	gravity, ok := g.Node("gravity")
	require.True(t, ok)
	assert.True(t, gravity.Is(expr.FlagConstant))
	drag, ok := g.Node("drag")
	require.True(t, ok)
	attr, _ := drag.Attribute()
	assert.Equal(t, valuekind.Float, attr.Kind)
	require.Len(t, g.Roots, 2)
	assert.Equal(t, valuekind.Float3, g.Roots[0].Kind())
}

func TestCompileDocument(t *testing.T) {
	doc, err := graphdoc.Parse([]byte(update))
	require.NoError(t, err)
	b := expr.NewBuilder()
	g, err := doc.Build(b)
	require.NoError(t, err)
	ctx, err := doc.Context(b)
	require.NoError(t, err)
	assert.Equal(t, compile.Reduction|compile.CPUEvaluation|compile.ConstantFolding, ctx.Options())
	for _, root := range g.Roots {
		ctx.Register(root)
	}
	require.NoError(t, ctx.Compile())

	fov, err := ctx.GetReduced(g.Roots[1])
	require.NoError(t, err)
	got, err := expr.Get[float32](fov)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, got, 1e-6)

	velocity, err := ctx.GetReduced(g.Roots[0])
	require.NoError(t, err)
	assert.Equal(t, expr.OpAdd, velocity.Op())
}

func TestValues(t *testing.T) {
	doc, err := graphdoc.Parse([]byte(`
roots = ["flag"]

[[node]]
name = "flag"
op = "value"
kind = "bool"
value = [true]
mode = "variable"

[[node]]
name = "count"
op = "value"
kind = "uint"
value = [12]

[[node]]
name = "curve"
op = "value"
kind = "curve"
keys = [[0.0, 0.0, 1.0, 1.0], [1.0, 1.0, 1.0, 1.0]]

[[node]]
name = "gradient"
op = "value"
kind = "gradient"
colors = [[0.0, 1.0, 0.0, 0.0]]
alphas = [[0.0, 1.0]]

[[node]]
name = "smoke"
op = "value"
kind = "texture2d"
texture = { name = "smoke", width = 64, height = 32 }
`))
	require.NoError(t, err)
	g, err := doc.Build(expr.NewBuilder())
	require.NoError(t, err)
	want := map[string]values.Value{
		"flag":  values.Bool(true),
		"count": values.Uint(12),
	}
	for name, w := range want {
		n, ok := g.Node(name)
		require.True(t, ok, name)
		v, err := n.Value()
		require.NoError(t, err)
		assert.True(t, w.Equal(v), "%s: got %s but want %s", name, v, w)
	}
	flag, _ := g.Node("flag")
	assert.False(t, flag.Is(expr.FlagConstant))
	curve, _ := g.Node("curve")
	c, err := expr.Get[values.Curve](curve)
	require.NoError(t, err)
	assert.Len(t, c.Keys, 2)
	smoke, _ := g.Node("smoke")
	assert.Equal(t, valuekind.Texture2D, smoke.Kind())
	gradient, _ := g.Node("gradient")
	assert.Equal(t, valuekind.ColorGradient, gradient.Kind())
}

func TestValidation(t *testing.T) {
	_, err := graphdoc.Parse([]byte(`
roots = ["a", "missing"]

[options]
enable = ["fastMath"]

[[node]]
name = "a"
op = "add"
args = ["b", "b"]

[[node]]
name = "a"
op = "teleport"

[[node]]
name = "pos"
op = "attributeRead"
attribute = "unknown"
`))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 7, "errors: %v", errs)
}

func TestUnknownField(t *testing.T) {
	_, err := graphdoc.Parse([]byte(`
roots = ["a"]

[[node]]
name = "a"
op = "deltaTime"
colour = 3
`))
	assert.Error(t, err)
}

func TestBuildError(t *testing.T) {
	doc, err := graphdoc.Parse([]byte(`
roots = ["sum"]

[[node]]
name = "x"
op = "value"
kind = "float"
value = [1.0]

[[node]]
name = "flag"
op = "value"
kind = "bool"
value = [false]

[[node]]
name = "sum"
op = "add"
args = ["x", "flag"]
`))
	require.NoError(t, err)
	_, err = doc.Build(expr.NewBuilder())
	var invalid *expr.InvalidExpressionError
	assert.ErrorAs(t, err, &invalid)
	assert.ErrorContains(t, err, "node sum")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.toml")
	require.NoError(t, os.WriteFile(path, []byte(update), 0o644))
	doc, err := graphdoc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "update", doc.Name)

	_, err = graphdoc.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
