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
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"iter"
	"slices"
	"strings"

	"github.com/gx-org/backend/shape"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/base/stringseq"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/pkg/errors"
)

// MaxOperands is the maximum number of parents and additional operands of a node.
const MaxOperands = 4

// Node of the expression graph.
//
// Nodes are immutable once built. Nodes built by the same builder are
// interned: structurally equal nodes share the same pointer.
type Node struct {
	op       Operation
	kind     valuekind.Kind
	parents  []*Node
	operands []int32
	// given are the operands given when the node was built, without
	// the operands derived from the parents.
	given []int32
	// explicit are the flags given when the node was built.
	explicit Flags
	flags    Flags
	value    values.Value
	attr     attrib.Attribute
	// id is non-zero for nodes which are only equal to themselves.
	id   uint64
	hash uint64
}

// Op returns the operation of the node.
func (n *Node) Op() Operation {
	return n.op
}

// Kind returns the kind of the value computed by the node.
func (n *Node) Kind() valuekind.Kind {
	return n.kind
}

// Shape returns the shape of the value computed by the node.
// It returns nil for non-numeric kinds.
func (n *Node) Shape() *shape.Shape {
	return n.kind.Shape()
}

// Flags returns the flags of the node.
func (n *Node) Flags() Flags {
	return n.flags
}

// Is returns true if all the given flags are set.
func (n *Node) Is(f Flags) bool {
	return n.flags.Is(f)
}

// IsAny returns true if at least one of the given flags is set.
func (n *Node) IsAny(f Flags) bool {
	return n.flags.IsAny(f)
}

// Parents returns the parents of the node.
func (n *Node) Parents() []*Node {
	return slices.Clone(n.parents)
}

// Operands returns the additional operands of the node.
func (n *Node) Operands() []int32 {
	return slices.Clone(n.operands)
}

// Attribute returns the attribute read by an attribute node.
func (n *Node) Attribute() (attrib.Attribute, bool) {
	return n.attr, n.op == OpAttributeRead
}

// Hash returns the structural hash of the node.
func (n *Node) Hash() uint64 {
	return n.hash
}

func (n *Node) def() *definition {
	return definitions[n.op]
}

func (n *Node) computeHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(x uint64) {
		binary.LittleEndian.PutUint64(buf[:], x)
		h.Write(buf[:])
	}
	write(uint64(n.op))
	write(uint64(n.kind))
	write(uint64(n.flags))
	write(n.id)
	for _, op := range n.operands {
		write(uint64(uint32(op)))
	}
	for _, p := range n.parents {
		write(p.hash)
	}
	if n.op == OpValue {
		write(n.value.Hash())
	}
	if n.op == OpAttributeRead {
		h.Write([]byte(n.attr.Name))
	}
	return h.Sum64()
}

// Equal returns true if two nodes are structurally equal.
func (n *Node) Equal(o *Node) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil {
		return false
	}
	if n.id != 0 || o.id != 0 {
		return false
	}
	if n.hash != o.hash ||
		n.op != o.op ||
		n.kind != o.kind ||
		n.flags != o.flags ||
		!slices.Equal(n.operands, o.operands) ||
		len(n.parents) != len(o.parents) {
		return false
	}
	if n.op == OpValue && !n.value.Equal(o.value) {
		return false
	}
	if n.op == OpAttributeRead && !n.attr.Equal(o.attr) {
		return false
	}
	for i, p := range n.parents {
		if !p.Equal(o.parents[i]) {
			return false
		}
	}
	return true
}

// NeededAttributes returns the attributes accessed by the node itself,
// not including the attributes accessed by its parents.
func (n *Node) NeededAttributes() iter.Seq[attrib.Info] {
	if n.def().attributes == nil {
		return noAttributes
	}
	return n.def().attributes(n)
}

// Content returns the data held by a value node as a host type.
func (n *Node) Content() (any, error) {
	if !n.Is(FlagValue) {
		return nil, capabilityError(n, ContentAccess)
	}
	return n.value.Content(), nil
}

// Value returns the data held by a value node.
func (n *Node) Value() (values.Value, error) {
	if !n.Is(FlagValue) {
		return values.Value{}, capabilityError(n, ContentAccess)
	}
	return n.value, nil
}

// Get returns the data held by a value node as the host type T.
func Get[T any](n *Node) (T, error) {
	if !n.Is(FlagValue) {
		var zero T
		return zero, capabilityError(n, ContentAccess)
	}
	return values.As[T](n.value)
}

// CodeString returns the GPU code of the node given the code of its parents.
func (n *Node) CodeString(parents []string) (string, error) {
	def := n.def()
	if n.Is(FlagInvalidOnGPU) {
		return "", capabilityError(n, GPUCodeGeneration)
	}
	if n.op == OpValue {
		return n.value.CodeString()
	}
	if def.code == nil {
		return "", capabilityError(n, GPUCodeGeneration)
	}
	if len(parents) != len(n.parents) {
		return "", errors.Errorf("%s: got the code of %d parents but want %d", n.op, len(parents), len(n.parents))
	}
	return def.code(n, parents), nil
}

// Evaluate computes the value of the node given the values of its parents.
func (n *Node) Evaluate(ctx *EvalContext, args []values.Value) (values.Value, error) {
	def := n.def()
	if n.IsAny(FlagNotCompilableOnCPU) || def.evaluate == nil {
		return values.Value{}, capabilityError(n, CPUEvaluation)
	}
	if len(args) != len(n.parents) {
		return values.Value{}, errors.Errorf("%s: got %d arguments but want %d", n.op, len(args), len(n.parents))
	}
	for i, arg := range args {
		if arg.Kind() != n.parents[i].kind {
			return values.Value{}, errors.Errorf("%s: argument %d is a %s but want a %s", n.op, i, arg.Kind(), n.parents[i].kind)
		}
	}
	if ctx == nil {
		ctx = &EvalContext{}
	}
	v, err := def.evaluate(ctx, n, args)
	if err != nil {
		return values.Value{}, errors.WithMessagef(err, "cannot evaluate %s", n.op)
	}
	return v, nil
}

// CanEvaluate returns true if the node has a CPU evaluation rule and
// is not flagged as not compilable on the CPU.
func (n *Node) CanEvaluate() bool {
	return n.def().evaluate != nil && !n.IsAny(FlagNotCompilableOnCPU)
}

// Slots are the operands of a node in a flattened graph:
// the indices of its parents followed by its additional operands.
// Unused slots are set to -1.
type Slots [MaxOperands]int32

// SlotOperands packs the parents and the additional operands of the node.
// index returns the position of a parent in the flattened graph.
func (n *Node) SlotOperands(index func(*Node) (int, error)) (Slots, error) {
	slots := Slots{-1, -1, -1, -1}
	if num := len(n.parents) + len(n.operands); num > MaxOperands {
		return slots, errors.Errorf("%s: %d operands exceed the maximum of %d slots", n.op, num, MaxOperands)
	}
	for i, p := range n.parents {
		idx, err := index(p)
		if err != nil {
			return slots, err
		}
		slots[i] = int32(idx)
	}
	copy(slots[len(n.parents):], n.operands)
	return slots, nil
}

func (n *Node) String() string {
	switch n.op {
	case OpValue:
		return n.value.String()
	case OpAttributeRead:
		return fmt.Sprintf("%s(%s)", n.op, n.attr.Name)
	}
	var b strings.Builder
	b.WriteString(n.op.String())
	b.WriteString("(")
	stringseq.AppendStringer(&b, slices.Values(n.parents), ", ")
	if len(n.operands) > 0 {
		if len(n.parents) > 0 {
			b.WriteString("; ")
		}
		fmt.Fprint(&b, strings.Trim(fmt.Sprint(n.operands), "[]"))
	}
	b.WriteString(")")
	return b.String()
}
