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

package compile_test

import (
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/trace"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/compile"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
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

func compileRoot(t *testing.T, ctx *compile.Context, root *expr.Node) *expr.Node {
	t.Helper()
	ctx.Register(root)
	if err := ctx.Compile(); err != nil {
		t.Fatalf("%+v", err)
	}
	r, err := ctx.GetReduced(root)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return r
}

func TestConstantFolding(t *testing.T) {
	b := expr.NewBuilder()
	mul := must(t)(b.Multiply(b.Constant(values.Float(2)), b.Constant(values.Float(3))))
	e := must(t)(b.Add(mul, b.Constant(values.Float(0))))
	ctx := compile.New(b, compile.ConstantFolding)
	got := compileRoot(t, ctx, e)
	if !got.Is(expr.FlagValue | expr.FlagConstant) {
		t.Errorf("got flags %s but want a constant value", got.Flags())
	}
	v, err := expr.Get[float32](got)
	if err != nil {
		t.Fatal(err)
	}
	if v != 6 {
		t.Errorf("got %v but want 6", v)
	}
	if got != b.Constant(values.Float(6)) {
		t.Errorf("the folded value is not shared with the constant 6")
	}
}

func TestExtractCombine(t *testing.T) {
	for _, opts := range []compile.Options{
		compile.Reduction,
		compile.Reduction | compile.ConstantFolding,
		compile.CPUEvaluation,
	} {
		b := expr.NewBuilder()
		combine := must(t)(b.Combine(b.Constant(values.Float(1)), b.Constant(values.Float(2)), b.Constant(values.Float(3))))
		e := must(t)(b.ExtractComponent(combine, 1))
		got := compileRoot(t, compile.New(b, opts), e)
		if !got.Equal(b.Constant(values.Float(2))) {
			t.Errorf("%s: got %s but want 2", opts, got)
		}
	}
}

func TestExtractCombineWithoutEvaluation(t *testing.T) {
	b := expr.NewBuilder()
	parts := []*expr.Node{
		must(t)(b.Value(values.Float(1), expr.Variable)),
		must(t)(b.Value(values.Float(2), expr.Variable)),
		must(t)(b.Value(values.Float(3), expr.Variable)),
	}
	combine := must(t)(b.Combine(parts...))
	e := must(t)(b.ExtractComponent(combine, 1))
	got := compileRoot(t, compile.New(b, compile.Reduction), e)
	if got != parts[1] {
		t.Errorf("got %s but want %s", got, parts[1])
	}
	// Without any option, the graph is left unchanged.
	got = compileRoot(t, compile.New(b, compile.None), e)
	if got != e {
		t.Errorf("got %s but want %s", got, e)
	}
}

func TestEvaluationStrictness(t *testing.T) {
	b := expr.NewBuilder()
	constant := b.Constant(values.Float(2))
	foldable := must(t)(b.Value(values.Float(3), expr.FoldableVariable))
	variable := must(t)(b.Value(values.Float(4), expr.Variable))
	tests := []struct {
		opts      compile.Options
		parent    *expr.Node
		evaluated bool
		flags     expr.Flags
	}{
		{opts: compile.None, parent: constant, evaluated: false},
		{opts: compile.Reduction, parent: constant, evaluated: true, flags: expr.FlagConstant},
		{opts: compile.Reduction, parent: foldable, evaluated: false},
		{opts: compile.ConstantFolding, parent: foldable, evaluated: true, flags: expr.FlagFoldable},
		{opts: compile.ConstantFolding, parent: variable, evaluated: false},
		{opts: compile.CPUEvaluation, parent: variable, evaluated: true},
		{opts: compile.GPUDataTransformation, parent: constant, evaluated: false},
	}
	for i, test := range tests {
		e := must(t)(b.Add(test.parent, test.parent))
		got := compileRoot(t, compile.New(b, test.opts), e)
		if got.Is(expr.FlagValue) != test.evaluated {
			t.Errorf("test %d: %s with %s compiled to %s", i, e, test.opts, got)
			continue
		}
		if !test.evaluated {
			continue
		}
		if !got.Is(test.flags) {
			t.Errorf("test %d: flags %s do not include %s", i, got.Flags(), test.flags)
		}
		if test.flags == expr.FlagNone && got.IsAny(expr.FlagFoldable|expr.FlagConstant) {
			t.Errorf("test %d: flags %s should not be foldable or constant", i, got.Flags())
		}
	}
}

func TestPeepholeWhenCompiling(t *testing.T) {
	b := expr.NewBuilder()
	age := must(t)(b.AttributeRead(attrib.Age, expr.Current))
	zero := b.Constant(values.Float(0))
	one := b.Constant(values.Float(1))
	// (age * (1 + 0)) + (0 * 2)
	onePlusZero := must(t)(b.Add(one, zero))
	scaled := must(t)(b.Multiply(age, onePlusZero))
	zeroTimesTwo := must(t)(b.Multiply(zero, b.Constant(values.Float(2))))
	e := must(t)(b.Add(scaled, zeroTimesTwo))
	got := compileRoot(t, compile.New(b, compile.Reduction), e)
	if got != age {
		t.Errorf("got %s but want %s", got, age)
	}
}

func TestPeepholeWithEvaluationOnly(t *testing.T) {
	b := expr.NewBuilder()
	age := must(t)(b.AttributeRead(attrib.Age, expr.Current))
	e := must(t)(b.Add(age, b.Constant(values.Float(0))))
	for _, opts := range []compile.Options{
		compile.ConstantFolding,
		compile.CPUEvaluation,
	} {
		got := compileRoot(t, compile.New(b, opts), e)
		if got != age {
			t.Errorf("%s: got %s but want %s", opts, got, age)
		}
	}
	if got := compileRoot(t, compile.New(b, compile.GPUDataTransformation), e); got != e {
		t.Errorf("got %s but want %s left untouched", got, e)
	}
}

func TestBakedSampleNotEvaluated(t *testing.T) {
	b := expr.NewBuilder()
	tests := []struct {
		name  string
		build func(sampled, time *expr.Node) (*expr.Node, error)
		baked values.Value
	}{
		{
			name:  "curve",
			build: b.SampleCurve,
			baked: values.Float4(0, 0.5, 1, 0),
		},
		{
			name:  "gradient",
			build: b.SampleGradient,
			baked: values.Float(0.5),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := must(t)(test.build(b.Constant(test.baked), b.Constant(values.Float(0.5))))
			if e.CanEvaluate() {
				t.Errorf("%s should not be evaluated on the CPU", e)
			}
			for _, opts := range []compile.Options{
				compile.ConstantFolding,
				compile.CPUEvaluation | compile.ConstantFolding | compile.Reduction,
			} {
				got := compileRoot(t, compile.New(b, opts), e)
				if got != e {
					t.Errorf("%s: got %s but want %s", opts, got, e)
				}
			}
		})
	}
}

func TestBranchFolding(t *testing.T) {
	b := expr.NewBuilder()
	pos := must(t)(b.AttributeRead(attrib.Position, expr.Current))
	vel := must(t)(b.AttributeRead(attrib.Velocity, expr.Current))
	pred := must(t)(b.Condition(expr.CondLess, b.Constant(values.Float(1)), b.Constant(values.Float(2))))
	e := must(t)(b.Branch(pred, pos, vel))
	got := compileRoot(t, compile.New(b, compile.Reduction), e)
	if got != pos {
		t.Errorf("got %s but want %s", got, pos)
	}
}

func TestPerElementNotEvaluated(t *testing.T) {
	b := expr.NewBuilder()
	age := must(t)(b.AttributeRead(attrib.Age, expr.Current))
	e := must(t)(b.Add(age, b.Constant(values.Float(1))))
	got := compileRoot(t, compile.New(b, compile.CPUEvaluation|compile.ConstantFolding|compile.Reduction), e)
	if got != e {
		t.Errorf("got %s but want %s", got, e)
	}
}

func TestGPUDataTransformation(t *testing.T) {
	b := expr.NewBuilder()
	curve := values.Curve{Keys: []values.Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 1}}}
	curveNode := b.Constant(values.CurveValue(curve))
	age := must(t)(b.AttributeRead(attrib.Age, expr.Current))
	e := must(t)(b.SampleCurve(curveNode, age))
	atlas := expr.NewMemoryAtlas()
	var events []trace.Event
	ctx := compile.New(b, compile.ConstantFolding|compile.GPUDataTransformation,
		compile.WithAtlas(atlas),
		compile.WithTracer(trace.Func(func(e trace.Event) { events = append(events, e) })),
	)
	got := compileRoot(t, ctx, e)
	if got.Op() != expr.OpSampleCurve {
		t.Fatalf("got %s but want a curve sampling", got)
	}
	baked := got.Parents()[0]
	if baked.Kind() != valuekind.Float4 || !baked.Is(expr.FlagConstant) {
		t.Errorf("curve parent %s is not a baked constant", baked)
	}
	if got.Is(expr.FlagInvalidOnGPU) {
		t.Errorf("%s should be valid on the GPU", got)
	}
	if _, err := got.CodeString([]string{"c", "t"}); err != nil {
		t.Errorf("cannot generate code: %+v", err)
	}
	if atlas.Rows() != 1 {
		t.Errorf("got %d rows in the atlas but want 1", atlas.Rows())
	}
	adapted := false
	for _, ev := range events {
		adapted = adapted || ev.Action == trace.Adapted
	}
	if !adapted {
		t.Errorf("no adaptation traced: %v", events)
	}

	// Without the option, the curve is not baked and the node stays invalid on the GPU.
	raw := compileRoot(t, compile.New(b, compile.ConstantFolding), e)
	if raw.Parents()[0] != curveNode {
		t.Errorf("curve should not be baked without GPU data transformation")
	}
	if _, err := raw.CodeString([]string{"c", "t"}); err != nil {
		t.Errorf("sampling node itself is valid on the GPU: %+v", err)
	}
	if _, err := curveNode.CodeString(nil); err == nil {
		t.Errorf("a raw curve cannot be written in GPU code")
	}
}

func TestStates(t *testing.T) {
	b := expr.NewBuilder()
	e := must(t)(b.Add(b.Constant(values.Int(1)), b.Constant(values.Int(2))))
	ctx := compile.New(b, compile.Reduction)
	if s := ctx.State(e); s != compile.Unregistered {
		t.Errorf("got state %s but want unregistered", s)
	}
	if !ctx.Register(e) || ctx.Register(e) {
		t.Errorf("an expression should be registered only once")
	}
	if s := ctx.State(e); s != compile.Registered {
		t.Errorf("got state %s but want registered", s)
	}
	if _, err := ctx.GetReduced(e); err == nil {
		t.Errorf("getting the reduced form before compiling should fail")
	}
	if err := ctx.Compile(); err != nil {
		t.Fatal(err)
	}
	if s := ctx.State(e); s != compile.Compiled {
		t.Errorf("got state %s but want compiled", s)
	}
	first, err := ctx.GetReduced(e)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Compile(); err != nil {
		t.Fatal(err)
	}
	if again, _ := ctx.GetReduced(e); again != first {
		t.Errorf("compiling twice is not idempotent: %s and %s", first, again)
	}
	ctx.Invalidate()
	if s := ctx.State(e); s != compile.Invalidated {
		t.Errorf("got state %s but want invalidated", s)
	}
	if _, err := ctx.GetReduced(e); err == nil {
		t.Errorf("getting the reduced form after invalidation should fail")
	}
	if err := ctx.Compile(); err != nil {
		t.Fatal(err)
	}
	if again, _ := ctx.GetReduced(e); again != first {
		t.Errorf("compiling after invalidation returned %s but want %s", again, first)
	}
	ctx.InvalidateExpression(e)
	if s := ctx.State(e); s != compile.Invalidated {
		t.Errorf("got state %s but want invalidated", s)
	}
	if !ctx.Unregister(e) || ctx.Unregister(e) {
		t.Errorf("an expression should be unregistered only once")
	}
	if s := ctx.State(e); s != compile.Unregistered {
		t.Errorf("got state %s but want unregistered", s)
	}
}

func TestBuildAllReduced(t *testing.T) {
	b := expr.NewBuilder()
	age := must(t)(b.AttributeRead(attrib.Age, expr.Current))
	life := must(t)(b.AttributeRead(attrib.Lifetime, expr.Current))
	ratio := must(t)(b.Divide(age, life))
	root1 := must(t)(b.Multiply(ratio, b.Constant(values.Float(1))))
	root2 := must(t)(b.Subtract(b.Constant(values.Float(1)), ratio))
	ctx := compile.New(b, compile.Reduction)
	ctx.Register(root1)
	ctx.Register(root2)
	if err := ctx.Compile(); err != nil {
		t.Fatal(err)
	}
	all, err := ctx.BuildAllReduced()
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[*expr.Node]int)
	for i, n := range all {
		if _, dup := pos[n]; dup {
			t.Errorf("%s listed twice", n)
		}
		pos[n] = i
	}
	for _, n := range all {
		for _, p := range n.Parents() {
			pi, ok := pos[p]
			if !ok {
				t.Errorf("parent %s of %s is missing", p, n)
			} else if pi > pos[n] {
				t.Errorf("parent %s listed after %s", p, n)
			}
		}
	}
	// age, lifetime, age/lifetime, 1, 1-age/lifetime
	if len(all) != 5 {
		t.Errorf("got %d nodes but want 5: %v", len(all), all)
	}
	if got := ctx.Registered(); len(got) != 2 || got[0] != root1 || got[1] != root2 {
		t.Errorf("unexpected registered roots %v", got)
	}
}

type fullAtlas struct{}

func (fullAtlas) AddCurve(values.Curve) (math32.Vector4, error) {
	return math32.Vector4{}, errors.Errorf("atlas is full")
}

func (fullAtlas) AddGradient(values.Gradient) (float32, error) {
	return 0, errors.Errorf("atlas is full")
}

func TestCompileErrors(t *testing.T) {
	b := expr.NewBuilder()
	singular := b.Constant(values.Zero(valuekind.Matrix4x4))
	bad1 := must(t)(b.Unary(expr.OpInverseMatrix, singular))
	bad2 := must(t)(b.Unary(expr.OpTransposeMatrix, bad1))
	good := must(t)(b.Add(b.Constant(values.Float(1)), b.Constant(values.Float(1))))
	fullAtlasGradient := must(t)(b.New(expr.OpBakeGradient, []*expr.Node{b.Constant(values.GradientValue(values.Gradient{}))}, nil, expr.FlagNone))
	ctx := compile.New(b, compile.Reduction, compile.WithAtlas(fullAtlas{}))
	ctx.Register(good)
	ctx.Register(bad2)
	ctx.Register(fullAtlasGradient)
	err := ctx.Compile()
	if err == nil {
		t.Fatal("expected an error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d errors but want 2: %v", n, err)
	}
	if !strings.Contains(err.Error(), "inverse") {
		t.Errorf("error %q does not name the failing operation", err)
	}
	if _, err := ctx.GetReduced(good); err == nil {
		t.Errorf("a failed compilation should not leave any reduced expression")
	}
	if s := ctx.State(good); s != compile.Registered {
		t.Errorf("got state %s but want registered", s)
	}
	var capErr *expr.CapabilityError
	if errors.As(err, &capErr) {
		t.Errorf("unexpected capability error: %v", capErr)
	}
}

func TestCPUEvaluationOfBuiltins(t *testing.T) {
	b := expr.NewBuilder()
	fov := must(t)(b.Builtin(expr.OpMainCameraFOV))
	ratio := must(t)(b.Builtin(expr.OpMainCameraAspectRatio))
	e := must(t)(b.Multiply(fov, ratio))
	got := compileRoot(t, compile.New(b, compile.ConstantFolding), e)
	if got != e {
		t.Errorf("built-ins should only be evaluated with CPU evaluation but got %s", got)
	}
	got = compileRoot(t, compile.New(b, compile.CPUEvaluation), e)
	if !got.Is(expr.FlagValue) || got.IsAny(expr.FlagConstant|expr.FlagFoldable) {
		t.Errorf("got %s (%s) but want a variable value", got, got.Flags())
	}
	rnd := must(t)(b.Random(false))
	r1 := compileRoot(t, compile.New(b, compile.CPUEvaluation, compile.WithSeed(42)), rnd)
	r2 := compileRoot(t, compile.New(b, compile.CPUEvaluation, compile.WithSeed(42)), rnd)
	if r1 != r2 {
		t.Errorf("random values with the same seed differ: %s and %s", r1, r2)
	}
}

func TestOptionNames(t *testing.T) {
	opts, ok := compile.OptionsFromNames("reduction", "constantFolding")
	if !ok || opts != compile.Reduction|compile.ConstantFolding {
		t.Errorf("got %s, %v", opts, ok)
	}
	if _, ok := compile.OptionsFromNames("unknown"); ok {
		t.Errorf("unknown option should not be found")
	}
	if s := (compile.Reduction | compile.GPUDataTransformation).String(); s != "reduction|gpuDataTransformation" {
		t.Errorf("got %q", s)
	}
}
