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

// Package expr implements the expression graph: immutable nodes, the
// builder interning structurally equal nodes, and the library of operations
// with their evaluation, reduction and code generation rules.
package expr

import "strings"

// Flags describes the properties of a node.
type Flags uint16

const (
	// FlagValue marks leaves holding data.
	FlagValue Flags = 1 << iota
	// FlagFoldable marks nodes which can be reduced to a constant without side effects.
	FlagFoldable
	// FlagConstant marks values which never change.
	FlagConstant
	// FlagInvalidOnGPU marks nodes without a GPU code generation rule.
	FlagInvalidOnGPU
	// FlagInvalidOnCPU marks nodes without a CPU evaluation rule.
	FlagInvalidOnCPU
	// FlagPerElement marks nodes whose value changes for every simulated element.
	FlagPerElement

	// FlagNone is the empty set of flags.
	FlagNone Flags = 0
	// FlagNotCompilableOnCPU marks nodes which cannot be evaluated when compiling.
	FlagNotCompilableOnCPU = FlagInvalidOnCPU | FlagPerElement
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagValue, "value"},
	{FlagFoldable, "foldable"},
	{FlagConstant, "constant"},
	{FlagInvalidOnGPU, "invalidOnGPU"},
	{FlagInvalidOnCPU, "invalidOnCPU"},
	{FlagPerElement, "perElement"},
}

// Is returns true if all the flags of want are set.
func (f Flags) Is(want Flags) bool {
	return f&want == want
}

// IsAny returns true if any flag of want is set.
func (f Flags) IsAny(want Flags) bool {
	return f&want != 0
}

func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Is(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// propagate computes the flags of a node given its own flags and its parents.
//
// Flags preventing CPU compilation always propagate. GPU invalidity
// propagates only from parents which also cannot be compiled on the CPU:
// a GPU-invalid parent which can be evaluated on the CPU is baked into a
// value before reaching the GPU.
func propagate(flags Flags, parents []*Node) Flags {
	if len(parents) == 0 {
		return flags
	}
	foldable := true
	for _, parent := range parents {
		foldable = foldable && parent.flags.Is(FlagFoldable)
		flags |= parent.flags & FlagNotCompilableOnCPU
		if parent.flags.IsAny(FlagNotCompilableOnCPU) && parent.flags.Is(FlagInvalidOnGPU) {
			flags |= FlagInvalidOnGPU
		}
	}
	if foldable {
		flags |= FlagFoldable
	} else {
		flags &^= FlagFoldable
	}
	return flags
}
