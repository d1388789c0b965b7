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
	"fmt"
	"iter"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/interp/kernels"
)

func checkNoise(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if err := checkArity(op, parents, 3); err != nil {
		return valuekind.None, nil, err
	}
	if err := checkNoOperand(op, parents, operands); err != nil {
		return valuekind.None, nil, err
	}
	coord := parents[0].kind
	dim := 0
	if coord.IsFloatFamily() {
		dim = coord.ComponentCount()
	}
	if dim < 1 || dim > 3 {
		return valuekind.None, nil, invalidf(op, parents, "coordinate must be a float, float2 or float3")
	}
	if parents[1].kind != valuekind.Float3 {
		return valuekind.None, nil, invalidf(op, parents, "parameters (frequency, roughness, lacunarity) must be a float3")
	}
	if parents[2].kind != valuekind.Float {
		return valuekind.None, nil, invalidf(op, parents, "octave count must be a float")
	}
	// The noise value followed by its derivatives.
	return valuekind.FloatVector(dim + 1), []int32{int32(dim)}, nil
}

func noiseCode(name string) codeFunc {
	return func(n *Node, p []string) string {
		return fmt.Sprintf("Generate%sNoise%dD(%s, %s.x, (int)%s, %s.y, %s.z)", name, n.operands[0], p[0], p[1], p[2], p[1], p[1])
	}
}

func checkCurlNoise(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	kind, all, err := checkNoise(op, parents, operands)
	if err != nil {
		return kind, all, err
	}
	if parents[0].kind == valuekind.Float {
		return valuekind.None, nil, invalidf(op, parents, "coordinate must be a float2 or float3")
	}
	return parents[0].kind, all, nil
}

func checkPerElement(op Operation, operands []int32) (bool, error) {
	if len(operands) != 1 || operands[0] < 0 || operands[0] > 1 {
		return false, invalidf(op, nil, "want a single per-element operand (0 or 1), got %v", operands)
	}
	return operands[0] == 1, nil
}

func perElement(n *Node) bool {
	return n.operands[0] == 1
}

func checkRandom(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if err := checkArity(op, parents, 0); err != nil {
		return valuekind.None, nil, err
	}
	if _, err := checkPerElement(op, operands); err != nil {
		return valuekind.None, nil, err
	}
	return valuekind.Float, operands, nil
}

func checkFixedRandom(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if _, _, err := signature(valuekind.Float, valuekind.Uint32)(op, parents, nil); err != nil {
		return valuekind.None, nil, err
	}
	if _, err := checkPerElement(op, operands); err != nil {
		return valuekind.None, nil, err
	}
	return valuekind.Float, operands, nil
}

func accesses(a attrib.Attribute, mode attrib.Mode) iter.Seq[attrib.Info] {
	return func(yield func(attrib.Info) bool) {
		yield(attrib.Info{Attribute: a, Mode: mode})
	}
}

func init() {
	for _, noise := range []struct {
		op   Operation
		name string
		fn   string
	}{
		{OpValueNoise, "valueNoise", "Value"},
		{OpPerlinNoise, "perlinNoise", "Perlin"},
		{OpCellularNoise, "cellularNoise", "Cellular"},
	} {
		register(noise.op, &definition{
			name:  noise.name,
			flags: FlagInvalidOnCPU,
			check: checkNoise,
			code:  noiseCode(noise.fn),
		})
	}
	register(OpCurlNoise, &definition{
		name:  "curlNoise",
		flags: FlagInvalidOnCPU,
		check: checkCurlNoise,
		code:  noiseCode("ValueCurl"),
	})
	register(OpRandom, &definition{
		name:  "random",
		check: checkRandom,
		flagsOf: func(operands []int32) Flags {
			if operands[0] == 1 {
				return FlagPerElement
			}
			return FlagInvalidOnGPU
		},
		unique: func(f Flags) bool { return f.Is(FlagPerElement) },
		evaluate: func(ctx *EvalContext, _ *Node, _ []values.Value) (values.Value, error) {
			return values.Float(ctx.random()), nil
		},
		code: func(*Node, []string) string { return "RAND" },
		attributes: func(n *Node) iter.Seq[attrib.Info] {
			if !perElement(n) {
				return noAttributes
			}
			return accesses(attrib.Seed, attrib.ReadWrite)
		},
	})
	register(OpFixedRandom, &definition{
		name:  "fixedRandom",
		check: checkFixedRandom,
		flagsOf: func(operands []int32) Flags {
			if operands[0] == 1 {
				return FlagPerElement
			}
			return FlagNone
		},
		evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			return values.Float(kernels.FixedRandom(args[0].Uints()[0])), nil
		},
		code: func(n *Node, p []string) string {
			if perElement(n) {
				return fmt.Sprintf("FixedRand(particleId ^ %s)", p[0])
			}
			return fmt.Sprintf("FixedRand(%s)", p[0])
		},
		attributes: func(n *Node) iter.Seq[attrib.Info] {
			if !perElement(n) {
				return noAttributes
			}
			return accesses(attrib.ParticleID, attrib.Read)
		},
	})
}
