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

package codegen_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/codegen"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
)

func must(t *testing.T) func(*expr.Node, error) *expr.Node {
	return func(n *expr.Node, err error) *expr.Node {
		t.Helper()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		return n
	}
}

func TestGenerate(t *testing.T) {
	b := expr.NewBuilder()
	pos := must(t)(b.AttributeRead(attrib.Position, expr.Current))
	scale := must(t)(b.Value(values.Float3(1, 2, 3), expr.Variable))
	mul := must(t)(b.Multiply(pos, scale))
	y := must(t)(b.ExtractComponent(mul, 1))
	twice := must(t)(b.Multiply(y, b.Constant(values.Float(2))))

	fn, err := codegen.Generate("update", mul, twice)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	got, err := fn.Source()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	want := `uniform float3 u;

void update(out float3 result, out float result1)
{
	float3 t = (position * u);
	float t1 = t.y;
	float t2 = (t1 * 2.0f);
	result = t;
	result1 = t2;
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected source:\n%s", diff)
	}
	if diff := cmp.Diff([]codegen.Uniform{{Type: "float3", Name: "u", Value: values.Float3(1, 2, 3)}}, fn.Uniforms); diff != "" {
		t.Errorf("unexpected uniforms:\n%s", diff)
	}
	wantAttrs := []attrib.Info{{Attribute: attrib.Position, Mode: attrib.Read}}
	if diff := cmp.Diff(wantAttrs, fn.Attributes); diff != "" {
		t.Errorf("unexpected attributes:\n%s", diff)
	}
	listing, err := fn.Listing()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !strings.HasPrefix(listing, "01 uniform float3 u;") {
		t.Errorf("unexpected listing:\n%s", listing)
	}
}

func TestGenerateRandomOnce(t *testing.T) {
	b := expr.NewBuilder()
	r := must(t)(b.Random(true))
	sum := must(t)(b.Add(r, r))
	fn, err := codegen.Generate("rnd", sum)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	want := []codegen.Statement{
		{Type: "float", Name: "t", Code: "RAND"},
		{Type: "float", Name: "t1", Code: "(t + t)"},
	}
	if diff := cmp.Diff(want, fn.Statements); diff != "" {
		t.Errorf("unexpected statements:\n%s", diff)
	}
}

func TestGenerateDistinctUniforms(t *testing.T) {
	b := expr.NewBuilder()
	p1 := must(t)(b.Value(values.Float(1), expr.Variable))
	p2 := must(t)(b.Value(values.Float(1), expr.Variable))
	fn, err := codegen.Generate("sum", must(t)(b.Add(p1, p2)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	wantUniforms := []codegen.Uniform{
		{Type: "float", Name: "u", Value: values.Float(1)},
		{Type: "float", Name: "u1", Value: values.Float(1)},
	}
	if diff := cmp.Diff(wantUniforms, fn.Uniforms); diff != "" {
		t.Errorf("unexpected uniforms:\n%s", diff)
	}
	want := []codegen.Statement{{Type: "float", Name: "t", Code: "(u + u1)"}}
	if diff := cmp.Diff(want, fn.Statements); diff != "" {
		t.Errorf("unexpected statements:\n%s", diff)
	}
}

func TestGenerateTexture(t *testing.T) {
	b := expr.NewBuilder()
	tex, err := values.Texture(valuekind.Texture2D, values.TextureRef{Name: "smoke", Width: 64, Height: 64})
	if err != nil {
		t.Fatal(err)
	}
	uv := must(t)(b.Value(values.Float2(0.5, 0.5), expr.Constant))
	sample := must(t)(b.SampleTexture2D(b.Constant(tex), uv))
	fn, err := codegen.Generate("sample", sample)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// Constant textures are still bound at runtime.
	if len(fn.Uniforms) != 1 || fn.Uniforms[0].Type != "Texture2D" {
		t.Errorf("got uniforms %v but want a single texture", fn.Uniforms)
	}
	want := "SampleTexture(VFX_SAMPLER(u), float2(0.5f, 0.5f))"
	if len(fn.Statements) != 1 || fn.Statements[0].Code != want {
		t.Errorf("got statements %v but want %q", fn.Statements, want)
	}
}

func TestGenerateCapabilityError(t *testing.T) {
	b := expr.NewBuilder()
	m := must(t)(b.Value(values.One(valuekind.Matrix4x4), expr.Variable))
	inverse := must(t)(b.Unary(expr.OpInverseMatrix, m))
	curve := b.Constant(values.CurveValue(values.Curve{}))
	sampled := must(t)(b.SampleCurve(curve, b.Constant(values.Float(0.5))))
	for _, root := range []*expr.Node{inverse, sampled} {
		_, err := codegen.Generate("fn", root)
		var capErr *expr.CapabilityError
		if !errors.As(err, &capErr) {
			t.Errorf("generating %s: got %v but want a capability error", root, err)
			continue
		}
		if capErr.Capability != expr.GPUCodeGeneration {
			t.Errorf("generating %s: got capability %v but want %v", root, capErr.Capability, expr.GPUCodeGeneration)
		}
	}
}
