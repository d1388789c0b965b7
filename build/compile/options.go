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

// Package compile reduces expression graphs.
//
// A context holds a set of root expressions. Compiling the context
// reduces every root: parents are compiled first, then each node is
// either evaluated into a value, reduced by the rules of its operation,
// or rebuilt with its compiled parents. Results are cached until the
// context is invalidated.
package compile

import (
	"math/rand/v2"
	"strings"

	"github.com/gx-org/vfxgraph/api/trace"
	"github.com/gx-org/vfxgraph/build/expr"
)

// Options of a compilation context.
type Options uint8

const (
	// Reduction rewrites nodes using the reduction rules of their operations
	// and evaluates nodes with constant parents.
	Reduction Options = 1 << iota
	// CPUEvaluation evaluates every node which can be evaluated on the CPU,
	// including nodes with variable parents.
	CPUEvaluation
	// ConstantFolding evaluates nodes with foldable parents.
	ConstantFolding
	// GPUDataTransformation inserts adapters baking the data consumed by
	// nodes which are not compiled on the CPU.
	GPUDataTransformation

	// None disables all options.
	None Options = 0
)

var optionNames = []struct {
	opt  Options
	name string
}{
	{Reduction, "reduction"},
	{CPUEvaluation, "cpuEvaluation"},
	{ConstantFolding, "constantFolding"},
	{GPUDataTransformation, "gpuDataTransformation"},
}

// Has returns true if all the given options are set.
func (o Options) Has(want Options) bool {
	return o&want == want
}

// HasAny returns true if any of the given options is set.
func (o Options) HasAny(want Options) bool {
	return o&want != 0
}

func (o Options) String() string {
	if o == None {
		return "none"
	}
	var names []string
	for _, on := range optionNames {
		if o.Has(on.opt) {
			names = append(names, on.name)
		}
	}
	return strings.Join(names, "|")
}

// OptionsFromNames returns the options given their names.
func OptionsFromNames(names ...string) (Options, bool) {
	var o Options
	for _, name := range names {
		found := false
		for _, on := range optionNames {
			if on.name == name {
				o |= on.opt
				found = true
			}
		}
		if !found {
			return None, false
		}
	}
	return o, true
}

// Setting configures a context.
type Setting func(*Context)

// WithScene sets the scene used to evaluate built-in values.
func WithScene(scene expr.SceneProvider) Setting {
	return func(c *Context) {
		c.eval.Scene = scene
	}
}

// WithAtlas sets the atlas in which curves and gradients are baked.
func WithAtlas(atlas expr.Atlas) Setting {
	return func(c *Context) {
		c.eval.Atlas = atlas
	}
}

// WithSeed sets the seed of the random numbers evaluated on the CPU.
func WithSeed(seed uint64) Setting {
	return func(c *Context) {
		c.eval.Rand = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithTracer sets a callback reporting the decisions taken for every compiled node.
func WithTracer(cb trace.Callback) Setting {
	return func(c *Context) {
		c.tracer = cb
	}
}
