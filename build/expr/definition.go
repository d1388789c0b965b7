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
	"iter"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
)

type (
	// checkFunc validates the parents and the operands of a node.
	// It returns the kind of the node and its operands, completed with
	// implicit operands if any.
	checkFunc func(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error)

	// evalFunc computes the value of a node given the values of its parents.
	evalFunc func(ctx *EvalContext, n *Node, args []values.Value) (values.Value, error)

	// reduceFunc rewrites a node whose parents have already been reduced.
	// It returns the node itself when no rewrite applies.
	reduceFunc func(b *Builder, n *Node) (*Node, error)

	// codeFunc returns the GPU code of a node given the code of its parents.
	codeFunc func(n *Node, parents []string) string

	// attributesFunc returns the attributes accessed by a node.
	attributesFunc func(n *Node) iter.Seq[attrib.Info]
)

// definition of an operation.
type definition struct {
	name  string
	flags Flags
	// unique is true when nodes of the operation with the given flags
	// are never equal to other nodes.
	unique     func(Flags) bool
	flagsOf    func(operands []int32) Flags
	check      checkFunc
	evaluate   evalFunc
	reduce     reduceFunc
	code       codeFunc
	attributes attributesFunc
}

var definitions [numOperations]*definition

func register(op Operation, def *definition) {
	if definitions[op] != nil {
		panic("operation " + def.name + " registered twice")
	}
	definitions[op] = def
}

func kindsOf(nodes []*Node) []valuekind.Kind {
	kinds := make([]valuekind.Kind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.kind
	}
	return kinds
}

func noAttributes(yield func(attrib.Info) bool) {}
