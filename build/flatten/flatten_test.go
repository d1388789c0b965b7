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

package flatten_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/gx-org/vfxgraph/build/flatten"
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

// instruction builds the expected instruction for a node given the indices of its parents.
func instruction(n *expr.Node, ref int, parents ...int32) flatten.Instruction {
	slots := expr.Slots{-1, -1, -1, -1}
	copy(slots[:], parents)
	copy(slots[len(parents):], n.Operands())
	return flatten.Instruction{
		Op:    n.Op(),
		Kind:  n.Kind(),
		Shape: n.Shape(),
		Slots: slots,
		Ref:   ref,
	}
}

func TestFlatten(t *testing.T) {
	b := expr.NewBuilder()
	pos := must(t)(b.AttributeRead(attrib.Position, expr.Current))
	two := must(t)(b.Value(values.Float3(2, 2, 2), expr.Variable))
	mul := must(t)(b.Multiply(pos, two))
	x := must(t)(b.ExtractComponent(mul, 0))
	sum := must(t)(b.Add(mul, pos))

	sheet, err := flatten.Flatten(sum, x)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	wantInsts := []flatten.Instruction{
		instruction(pos, 0),
		instruction(two, 0),
		instruction(mul, flatten.NoRef, 0, 1),
		instruction(sum, flatten.NoRef, 2, 0),
		instruction(x, flatten.NoRef, 2),
	}
	if diff := cmp.Diff(wantInsts, sheet.Instructions); diff != "" {
		t.Errorf("unexpected instructions:\n%s", diff)
	}
	if diff := cmp.Diff([]values.Value{values.Float3(2, 2, 2)}, sheet.Values); diff != "" {
		t.Errorf("unexpected value table:\n%s", diff)
	}
	if diff := cmp.Diff([]attrib.Attribute{attrib.Position}, sheet.Attributes); diff != "" {
		t.Errorf("unexpected attribute table:\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4}, sheet.Roots); diff != "" {
		t.Errorf("unexpected roots:\n%s", diff)
	}
	if idx, ok := sheet.Index(mul); !ok || idx != 2 {
		t.Errorf("Index(%s) = %d, %t but want 2, true", mul, idx, ok)
	}
	if _, ok := sheet.Index(b.Constant(values.Float(9))); ok {
		t.Errorf("a node not in the graph has an index")
	}
}

func TestFlattenParentsFirst(t *testing.T) {
	b := expr.NewBuilder()
	vel := must(t)(b.AttributeRead(attrib.Velocity, expr.Current))
	srcVel := must(t)(b.AttributeRead(attrib.Velocity, expr.Source))
	diff := must(t)(b.Subtract(vel, srcVel))
	dt := must(t)(b.Builtin(expr.OpDeltaTime))
	step := must(t)(b.Multiply(diff, must(t)(b.Combine(dt, dt, dt))))
	sheet, err := flatten.Flatten(step, step, diff)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got, want := len(sheet.Instructions), 6; got != want {
		t.Fatalf("got %d instructions but want %d:\n%s", got, want, sheet)
	}
	// Both reads of the velocity share the same attribute.
	if got := len(sheet.Attributes); got != 1 {
		t.Errorf("got %d attributes but want 1", got)
	}
	comb := step.Parents()[1]
	for _, n := range []*expr.Node{vel, srcVel, diff, dt, comb, step} {
		idx, ok := sheet.Index(n)
		if !ok {
			t.Fatalf("%s is not in the sheet", n)
		}
		for _, p := range n.Parents() {
			if pIdx, _ := sheet.Index(p); pIdx >= idx {
				t.Errorf("%s at %d comes after its child %s at %d", p, pIdx, n, idx)
			}
		}
	}
	if sheet.Roots[0] != sheet.Roots[1] {
		t.Errorf("the same root has two indices: %v", sheet.Roots)
	}
}

func TestString(t *testing.T) {
	b := expr.NewBuilder()
	pos := must(t)(b.AttributeRead(attrib.Position, expr.Current))
	sum := must(t)(b.Add(pos, b.Constant(values.Float3(1, 2, 3))))
	sheet, err := flatten.Flatten(sum)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	got := sheet.String()
	for _, want := range []string{"0: float3 attributeRead position", "roots: [2]"} {
		if !strings.Contains(got, want) {
			t.Errorf("listing does not contain %q:\n%s", want, got)
		}
	}
}

func TestIntegrityError(t *testing.T) {
	cause := errors.New("missing")
	var err error = &flatten.IntegrityError{Node: "add(a, b)", Err: cause}
	if !errors.Is(err, cause) {
		t.Errorf("integrity error does not wrap its cause")
	}
	if got, want := err.Error(), "graph integrity: add(a, b): missing"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}
