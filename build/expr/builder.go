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

package expr

import (
	"slices"
	"sync"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/pkg/errors"
)

// Builder builds nodes and interns them: building a node structurally
// equal to a node already built returns the existing node.
//
// The interning table only grows. A builder is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	buckets map[uint64][]*Node
	size    int
	nextID  uint64
	zeros   map[valuekind.Kind]*Node
	ones    map[valuekind.Kind]*Node
}

// NewBuilder returns a new builder with an empty interning table.
func NewBuilder() *Builder {
	return &Builder{
		buckets: make(map[uint64][]*Node),
		zeros:   make(map[valuekind.Kind]*Node),
		ones:    make(map[valuekind.Kind]*Node),
	}
}

// Len returns the number of nodes in the interning table.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// intern returns the node already built structurally equal to n,
// or registers n if there is none.
func (b *Builder) intern(n *Node, unique bool) *Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	if unique {
		b.nextID++
		n.id = b.nextID
		n.hash = n.computeHash()
		return n
	}
	n.hash = n.computeHash()
	for _, other := range b.buckets[n.hash] {
		if other.Equal(n) {
			return other
		}
	}
	b.buckets[n.hash] = append(b.buckets[n.hash], n)
	b.size++
	return n
}

// ValueMode specifies how a value node can change.
type ValueMode int

const (
	// Variable values can be changed at any time and are never folded.
	Variable ValueMode = iota
	// FoldableVariable values can be changed but can be folded
	// with other foldable values when the graph is compiled again.
	FoldableVariable
	// Constant values never change.
	Constant
)

var valueModeFlags = [...]Flags{
	Variable:         FlagValue,
	FoldableVariable: FlagValue | FlagFoldable,
	Constant:         FlagValue | FlagFoldable | FlagConstant,
}

// Value returns a leaf node holding a value.
func (b *Builder) Value(v values.Value, mode ValueMode) (*Node, error) {
	if !v.IsValid() {
		return nil, errors.Errorf("cannot build a node from an invalid value")
	}
	if mode < Variable || mode > Constant {
		return nil, errors.Errorf("invalid value mode %d", mode)
	}
	flags := valueModeFlags[mode]
	if !v.Kind().IsGPURepresentable() {
		flags |= FlagInvalidOnGPU
	}
	return b.value(v, flags), nil
}

// value builds a value node. Only constants are shared:
// every variable is a distinct parameter, even when holding the same data.
func (b *Builder) value(v values.Value, flags Flags) *Node {
	return b.intern(&Node{
		op:       OpValue,
		kind:     v.Kind(),
		explicit: flags,
		flags:    flags,
		value:    v,
	}, !flags.Is(FlagConstant))
}

// SetContent returns the node holding v in place of the content of a variable node.
// Nodes are immutable: the caller replaces n by the returned node in its graph.
func (b *Builder) SetContent(n *Node, v values.Value) (*Node, error) {
	if !n.Is(FlagValue) || n.Is(FlagConstant) {
		return nil, capabilityError(n, ContentAccess)
	}
	if v.Kind() != n.kind {
		return nil, errors.Errorf("cannot set a %s value in a %s node", v.Kind(), n.kind)
	}
	return b.value(v, n.explicit), nil
}

// Constant returns a constant leaf node.
// It panics if the value is invalid.
func (b *Builder) Constant(v values.Value) *Node {
	n, err := b.Value(v, Constant)
	if err != nil {
		panic(err)
	}
	return n
}

// Zero returns the constant zero of a numeric kind.
func (b *Builder) Zero(kind valuekind.Kind) *Node {
	return b.cached(b.zeros, kind, values.Zero)
}

// One returns the constant one of a numeric kind.
// The one of a matrix is the identity.
func (b *Builder) One(kind valuekind.Kind) *Node {
	return b.cached(b.ones, kind, values.One)
}

func (b *Builder) cached(cache map[valuekind.Kind]*Node, kind valuekind.Kind, f func(valuekind.Kind) values.Value) *Node {
	b.mu.Lock()
	n, ok := cache[kind]
	b.mu.Unlock()
	if ok {
		return n
	}
	n = b.Constant(f(kind))
	b.mu.Lock()
	cache[kind] = n
	b.mu.Unlock()
	return n
}

// New builds a node given its operation, parents, additional operands
// and flags. Flags of the operation and flags inherited from the parents
// are added to the given flags.
func (b *Builder) New(op Operation, parents []*Node, operands []int32, flags Flags) (*Node, error) {
	if op >= numOperations || definitions[op] == nil {
		return nil, errors.Errorf("unknown operation %d", op)
	}
	switch op {
	case OpValue:
		return nil, errors.Errorf("value nodes are built with Builder.Value")
	case OpAttributeRead:
		return nil, errors.Errorf("attribute nodes are built with Builder.AttributeRead")
	}
	for i, p := range parents {
		if p == nil {
			return nil, invalidf(op, nil, "parent %d is nil", i)
		}
	}
	def := definitions[op]
	kind, all, err := def.check(op, parents, operands)
	if err != nil {
		return nil, err
	}
	if len(parents)+len(all) > MaxOperands {
		return nil, invalidf(op, parents, "%d parents and %d operands exceed %d operands", len(parents), len(all), MaxOperands)
	}
	return b.build(op, kind, parents, operands, all, flags), nil
}

func (b *Builder) build(op Operation, kind valuekind.Kind, parents []*Node, given, operands []int32, explicit Flags) *Node {
	def := definitions[op]
	flags := explicit | def.flags
	if def.flagsOf != nil {
		flags |= def.flagsOf(operands)
	}
	flags = propagate(flags, parents)
	if flags.Is(FlagPerElement) {
		flags &^= FlagFoldable | FlagConstant
	}
	unique := def.unique != nil && def.unique(flags)
	return b.intern(&Node{
		op:       op,
		kind:     kind,
		parents:  slices.Clone(parents),
		operands: slices.Clone(operands),
		given:    slices.Clone(given),
		explicit: explicit,
		flags:    flags,
	}, unique)
}

// Location of an attribute.
type Location int32

const (
	// Current element.
	Current Location = iota
	// Source element, for example the particle spawning the current particle.
	Source
)

// AttributeRead returns a node reading an attribute of an element.
func (b *Builder) AttributeRead(a attrib.Attribute, loc Location) (*Node, error) {
	if loc != Current && loc != Source {
		return nil, invalidf(OpAttributeRead, nil, "invalid location %d", loc)
	}
	if a.Access == attrib.LocalOnly && loc == Source {
		return nil, invalidf(OpAttributeRead, nil, "local attribute %s cannot be read from the source", a.Name)
	}
	if !a.Kind.IsNumeric() {
		return nil, invalidf(OpAttributeRead, nil, "attribute %s has a non-numeric kind %s", a.Name, a.Kind)
	}
	flags := definitions[OpAttributeRead].flags
	return b.intern(&Node{
		op:       OpAttributeRead,
		kind:     a.Kind,
		operands: []int32{int32(loc)},
		flags:    flags,
		attr:     a,
	}, false), nil
}

// Rebuild returns a node with the same operation, operands and explicit
// flags as n but with different parents.
func (b *Builder) Rebuild(n *Node, parents []*Node) (*Node, error) {
	if len(parents) != len(n.parents) {
		return nil, errors.Errorf("cannot rebuild %s: got %d parents but want %d", n.op, len(parents), len(n.parents))
	}
	if len(parents) == 0 || slices.Equal(parents, n.parents) {
		return n, nil
	}
	return b.New(n.op, parents, n.given, n.explicit)
}

// Reduce applies the reduction rule of the operation of a node.
// It returns the node itself if no rule applies.
func (b *Builder) Reduce(n *Node) (*Node, error) {
	reduce := n.def().reduce
	if reduce == nil {
		return n, nil
	}
	return reduce(b, n)
}
