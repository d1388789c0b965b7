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

// Package trace reports the decisions taken while compiling an expression graph.
package trace

import (
	"fmt"
	"io"

	"github.com/gx-org/vfxgraph/build/expr"
)

// Action taken on a node when it was compiled.
type Action int

const (
	// Kept means that the node was left unchanged.
	Kept Action = iota
	// Rebuilt means that the node was rebuilt with its compiled parents.
	Rebuilt
	// Reduced means that a reduction rule replaced the node.
	Reduced
	// Evaluated means that the node was replaced by its value.
	Evaluated
	// Adapted means that the node was wrapped by an adapter for the GPU.
	Adapted
)

var actionNames = [...]string{
	Kept:      "kept",
	Rebuilt:   "rebuilt",
	Reduced:   "reduced",
	Evaluated: "evaluated",
	Adapted:   "adapted",
}

func (a Action) String() string {
	return actionNames[a]
}

// Event is a compilation decision.
type Event struct {
	Action Action
	Node   *expr.Node
	Result *expr.Node
}

func (e Event) String() string {
	if e.Action == Kept {
		return fmt.Sprintf("%s: %s", e.Action, e.Node)
	}
	return fmt.Sprintf("%s: %s -> %s", e.Action, e.Node, e.Result)
}

// Callback is called for every node compiled.
type Callback interface {
	Trace(Event)
}

// Func is a function implementing Callback.
type Func func(Event)

// Trace calls the function.
func (f Func) Trace(e Event) {
	f(e)
}

// Writer returns a callback writing events to w, one per line.
func Writer(w io.Writer) Callback {
	return Func(func(e Event) {
		fmt.Fprintln(w, e)
	})
}
