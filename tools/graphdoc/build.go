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

package graphdoc

import (
	"iter"

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/base/ordered"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
)

// Graph is the set of expressions declared by a document.
type Graph struct {
	nodes *ordered.Map[string, *expr.Node]
	// Roots are the expressions to compile, in declaration order.
	Roots []*expr.Node
}

// Node returns an expression given its name.
func (g *Graph) Node(name string) (*expr.Node, bool) {
	return g.nodes.Load(name)
}

// Names returns the names of all the expressions in declaration order.
func (g *Graph) Names() iter.Seq[string] {
	return g.nodes.Keys()
}

// Build the expressions of the document.
func (d *Document) Build(b *expr.Builder) (*Graph, error) {
	custom := make(map[string]attrib.Attribute)
	for _, a := range d.Attributes {
		attr, err := a.attribute()
		if err != nil {
			return nil, err
		}
		custom[a.Name] = attr
	}
	g := &Graph{nodes: ordered.NewMap[string, *expr.Node]()}
	for _, n := range d.Nodes {
		node, err := n.build(b, g, custom)
		if err != nil {
			return nil, errors.WithMessagef(err, "node %s", n.Name)
		}
		g.nodes.Store(n.Name, node)
	}
	for _, name := range d.Roots {
		root, ok := g.Node(name)
		if !ok {
			return nil, errors.Errorf("undefined root %s", name)
		}
		g.Roots = append(g.Roots, root)
	}
	return g, nil
}

func (n *Node) build(b *expr.Builder, g *Graph, custom map[string]attrib.Attribute) (*expr.Node, error) {
	op, ok := expr.OperationFromString(n.Op)
	if !ok {
		return nil, errors.Errorf("unknown operation %q", n.Op)
	}
	switch op {
	case expr.OpValue:
		v, err := n.value()
		if err != nil {
			return nil, err
		}
		mode, ok := valueModes[n.Mode]
		if !ok {
			return nil, errors.Errorf("unknown value mode %q", n.Mode)
		}
		return b.Value(v, mode)
	case expr.OpAttributeRead:
		attr, ok := attrib.Find(n.Attribute)
		if !ok {
			if attr, ok = custom[n.Attribute]; !ok {
				return nil, errors.Errorf("unknown attribute %q", n.Attribute)
			}
		}
		loc := expr.Current
		if n.Source {
			loc = expr.Source
		}
		return b.AttributeRead(attr, loc)
	}
	parents := make([]*expr.Node, len(n.Args))
	for i, arg := range n.Args {
		if parents[i], ok = g.Node(arg); !ok {
			return nil, errors.Errorf("undefined argument %s", arg)
		}
	}
	return b.New(op, parents, n.Operands, 0)
}

func (n *Node) value() (values.Value, error) {
	kind := valuekind.KindFromString(n.Kind)
	switch {
	case kind == valuekind.Curve:
		return n.curve()
	case kind == valuekind.ColorGradient:
		return n.gradient()
	case kind.IsTexture():
		if n.Texture == nil {
			return values.Value{}, errors.Errorf("missing texture of %s value", kind)
		}
		return values.Texture(kind, values.TextureRef(*n.Texture))
	case !kind.IsNumeric():
		return values.Value{}, errors.Errorf("%s values cannot be declared in a document", kind)
	}
	nums, err := numbers(n.Value)
	if err != nil {
		return values.Value{}, err
	}
	switch kind {
	case valuekind.Boolean:
		if len(nums) != 1 {
			return values.Value{}, errors.Errorf("bool value requires 1 component but got %d", len(nums))
		}
		return values.Bool(nums[0] != 0), nil
	case valuekind.Int32:
		ints := make([]int32, len(nums))
		for i, x := range nums {
			ints[i] = int32(x)
		}
		return values.FromInts(ints)
	case valuekind.Uint32:
		uints := make([]uint32, len(nums))
		for i, x := range nums {
			uints[i] = uint32(x)
		}
		return values.FromUints(uints)
	}
	floats := make([]float32, len(nums))
	for i, x := range nums {
		floats[i] = float32(x)
	}
	return values.FromFloats(kind, floats)
}

// numbers converts TOML integers, floats and booleans to float64.
func numbers(vals []any) ([]float64, error) {
	nums := make([]float64, len(vals))
	for i, val := range vals {
		switch x := val.(type) {
		case int64:
			nums[i] = float64(x)
		case float64:
			nums[i] = x
		case bool:
			if x {
				nums[i] = 1
			}
		default:
			return nil, errors.Errorf("component %d: %v of type %T is not a number", i, val, val)
		}
	}
	return nums, nil
}

func (n *Node) curve() (values.Value, error) {
	c := values.Curve{}
	for i, key := range n.Keys {
		if len(key) != 4 {
			return values.Value{}, errors.Errorf("key %d: got %d numbers but want time, value, in and out tangents", i, len(key))
		}
		c.Keys = append(c.Keys, values.Keyframe{
			Time:       key[0],
			Value:      key[1],
			InTangent:  key[2],
			OutTangent: key[3],
		})
	}
	return values.CurveValue(c), nil
}

func (n *Node) gradient() (values.Value, error) {
	g := values.Gradient{}
	for i, key := range n.Colors {
		if len(key) != 4 {
			return values.Value{}, errors.Errorf("color %d: got %d numbers but want time, red, green and blue", i, len(key))
		}
		g.ColorKeys = append(g.ColorKeys, values.ColorKey{
			Time:  key[0],
			Color: math32.Vec3(key[1], key[2], key[3]),
		})
	}
	for i, key := range n.Alphas {
		if len(key) != 2 {
			return values.Value{}, errors.Errorf("alpha %d: got %d numbers but want time and alpha", i, len(key))
		}
		g.AlphaKeys = append(g.AlphaKeys, values.AlphaKey{Time: key[0], Alpha: key[1]})
	}
	return values.GradientValue(g), nil
}
