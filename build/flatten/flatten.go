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

// Package flatten lowers reduced expression graphs to a flat list of instructions
// executed in order by a runtime evaluator.
package flatten

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gx-org/backend/shape"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/base/iter"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
)

// NoRef marks an instruction not referencing the value or attribute table.
const NoRef = -1

// Instruction computes one node of the graph.
type Instruction struct {
	Op    expr.Operation
	Kind  valuekind.Kind
	Shape *shape.Shape
	// Slots are the indices of the instructions computing the parents,
	// followed by additional operands.
	Slots expr.Slots
	// Ref is an index in the value table for value instructions,
	// in the attribute table for attribute reads, NoRef otherwise.
	Ref int
}

// Sheet is a flattened graph.
// The parents of an instruction always come before the instruction itself.
type Sheet struct {
	Instructions []Instruction
	Values       []values.Value
	Attributes   []attrib.Attribute
	// Roots are the indices of the instructions computing the roots given to Flatten.
	Roots []int

	index map[*expr.Node]int
}

// IntegrityError is returned when a graph cannot be represented as a sheet.
type IntegrityError struct {
	Node string
	Err  error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("graph integrity: %s: %v", e.Node, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// Flatten builds a sheet from a set of roots.
// The order of the instructions is deterministic for a given list of roots.
func Flatten(roots ...*expr.Node) (*Sheet, error) {
	s := &Sheet{index: make(map[*expr.Node]int)}
	for n := range iter.PostOrder(slices.Values(roots), (*expr.Node).Parents) {
		if err := s.append(n); err != nil {
			return nil, err
		}
	}
	for _, root := range roots {
		idx, err := s.indexOf(root)
		if err != nil {
			return nil, &IntegrityError{Node: root.String(), Err: err}
		}
		s.Roots = append(s.Roots, idx)
	}
	return s, nil
}

func (s *Sheet) append(n *expr.Node) error {
	slots, err := n.SlotOperands(s.indexOf)
	if err != nil {
		return &IntegrityError{Node: n.String(), Err: err}
	}
	inst := Instruction{
		Op:    n.Op(),
		Kind:  n.Kind(),
		Shape: n.Shape(),
		Slots: slots,
		Ref:   NoRef,
	}
	switch n.Op() {
	case expr.OpValue:
		v, err := n.Value()
		if err != nil {
			return &IntegrityError{Node: n.String(), Err: err}
		}
		inst.Ref = len(s.Values)
		s.Values = append(s.Values, v)
	case expr.OpAttributeRead:
		a, _ := n.Attribute()
		inst.Ref = slices.IndexFunc(s.Attributes, a.Equal)
		if inst.Ref == NoRef {
			inst.Ref = len(s.Attributes)
			s.Attributes = append(s.Attributes, a)
		}
	}
	s.index[n] = len(s.Instructions)
	s.Instructions = append(s.Instructions, inst)
	return nil
}

func (s *Sheet) indexOf(n *expr.Node) (int, error) {
	idx, ok := s.index[n]
	if !ok {
		return NoRef, errors.Errorf("node %s has not been added to the sheet before its children", n)
	}
	return idx, nil
}

// Index returns the index of the instruction computing a node.
func (s *Sheet) Index(n *expr.Node) (int, bool) {
	idx, ok := s.index[n]
	return idx, ok
}

// String returns a listing of the sheet.
func (s *Sheet) String() string {
	var b strings.Builder
	for i, inst := range s.Instructions {
		fmt.Fprintf(&b, "%d: %s %s", i, inst.Kind, inst.Op)
		switch inst.Op {
		case expr.OpValue:
			fmt.Fprintf(&b, " %s", s.Values[inst.Ref])
		case expr.OpAttributeRead:
			fmt.Fprintf(&b, " %s", s.Attributes[inst.Ref].Name)
		}
		used := slices.IndexFunc(inst.Slots[:], func(x int32) bool { return x < 0 })
		if used == -1 {
			used = len(inst.Slots)
		}
		if used > 0 {
			fmt.Fprintf(&b, " %v", inst.Slots[:used])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "roots: %v\n", s.Roots)
	return b.String()
}
