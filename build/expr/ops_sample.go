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
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
)

// checkSample returns a check for sampling operations. The sampled parent
// is either the raw data or its baked encoding. The implicit operand
// records which one, since baked data can only be read by GPU code.
func checkSample(result, raw, baked valuekind.Kind) checkFunc {
	return func(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
		if err := checkArity(op, parents, 2); err != nil {
			return valuekind.None, nil, err
		}
		if err := checkNoOperand(op, parents, operands); err != nil {
			return valuekind.None, nil, err
		}
		k := parents[0].kind
		if k != raw && k != baked {
			return valuekind.None, nil, invalidf(op, parents, "sampled parent is a %s but want a %s or a baked %s", k, raw, baked)
		}
		if parents[1].kind != valuekind.Float {
			return valuekind.None, nil, invalidf(op, parents, "time must be a float")
		}
		if k == baked {
			return result, []int32{1}, nil
		}
		return result, []int32{0}, nil
	}
}

func sampleFlags(operands []int32) Flags {
	if operands[0] == 1 {
		return FlagInvalidOnCPU
	}
	return FlagNone
}

func checkTexture(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if err := checkArity(op, parents, 1); err != nil {
		return valuekind.None, nil, err
	}
	if err := checkNoOperand(op, parents, operands); err != nil {
		return valuekind.None, nil, err
	}
	if !parents[0].kind.IsTexture() {
		return valuekind.None, nil, invalidf(op, parents, "parent is a %s but want a texture", parents[0].kind)
	}
	return valuekind.Float, nil, nil
}

func textureSize(size func(values.TextureRef) uint32) evalFunc {
	return func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
		ref, ok := args[0].TextureRef()
		if !ok {
			return values.Value{}, errors.Errorf("%s does not reference a texture", args[0])
		}
		return values.Float(float32(size(ref))), nil
	}
}

func init() {
	register(OpSampleCurve, &definition{
		name:    "sampleCurve",
		flagsOf: sampleFlags,
		check:   checkSample(valuekind.Float, valuekind.Curve, valuekind.Float4),
		evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			c, err := values.As[values.Curve](args[0])
			if err != nil {
				return values.Value{}, err
			}
			return values.Float(c.Evaluate(args[1].Floats()[0])), nil
		},
		code: call("SampleCurve"),
	})
	register(OpSampleGradient, &definition{
		name:    "sampleGradient",
		flagsOf: sampleFlags,
		check:   checkSample(valuekind.Float4, valuekind.ColorGradient, valuekind.Float),
		evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			g, err := values.As[values.Gradient](args[0])
			if err != nil {
				return values.Value{}, err
			}
			c := g.Evaluate(args[1].Floats()[0])
			return values.Float4(c.X, c.Y, c.Z, c.W), nil
		},
		code: call("SampleGradient"),
	})
	register(OpBakeCurve, &definition{
		name:  "bakeCurve",
		flags: FlagInvalidOnGPU,
		check: signature(valuekind.Float4, valuekind.Curve),
		evaluate: func(ctx *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			atlas, err := ctx.atlas()
			if err != nil {
				return values.Value{}, err
			}
			c, err := values.As[values.Curve](args[0])
			if err != nil {
				return values.Value{}, err
			}
			enc, err := atlas.AddCurve(c)
			if err != nil {
				return values.Value{}, err
			}
			return values.Float4(enc.X, enc.Y, enc.Z, enc.W), nil
		},
	})
	register(OpBakeGradient, &definition{
		name:  "bakeGradient",
		flags: FlagInvalidOnGPU,
		check: signature(valuekind.Float, valuekind.ColorGradient),
		evaluate: func(ctx *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			atlas, err := ctx.atlas()
			if err != nil {
				return values.Value{}, err
			}
			g, err := values.As[values.Gradient](args[0])
			if err != nil {
				return values.Value{}, err
			}
			row, err := atlas.AddGradient(g)
			if err != nil {
				return values.Value{}, err
			}
			return values.Float(row), nil
		},
	})
	register(OpSampleTexture2D, &definition{
		name:  "sampleTexture2D",
		flags: FlagInvalidOnCPU,
		check: signature(valuekind.Float4, valuekind.Texture2D, valuekind.Float2),
		code:  format("SampleTexture(VFX_SAMPLER(%s), %s)"),
	})
	register(OpTextureWidth, &definition{
		name:     "textureWidth",
		flags:    FlagInvalidOnGPU,
		check:    checkTexture,
		evaluate: textureSize(func(ref values.TextureRef) uint32 { return ref.Width }),
	})
	register(OpTextureHeight, &definition{
		name:     "textureHeight",
		flags:    FlagInvalidOnGPU,
		check:    checkTexture,
		evaluate: textureSize(func(ref values.TextureRef) uint32 { return ref.Height }),
	})
}
