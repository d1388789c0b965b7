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

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/pkg/errors"
)

func scene(kind valuekind.Kind, f func(ctx *EvalContext) (values.Value, error)) *definition {
	return &definition{
		flags: FlagInvalidOnGPU,
		check: signature(kind),
		evaluate: func(ctx *EvalContext, _ *Node, _ []values.Value) (values.Value, error) {
			return f(ctx)
		},
	}
}

func uniform(name string, kind valuekind.Kind) *definition {
	return &definition{
		name:  name,
		check: signature(kind),
		code:  func(*Node, []string) string { return name },
	}
}

func named(name string, def *definition) *definition {
	def.name = name
	return def
}

func cameraValue(f func(Camera) float32) func(ctx *EvalContext) (values.Value, error) {
	return func(ctx *EvalContext) (values.Value, error) {
		return values.Float(f(ctx.camera())), nil
	}
}

func init() {
	register(OpValue, &definition{name: "value"})
	register(OpDeltaTime, uniform("deltaTime", valuekind.Float))
	register(OpTotalTime, uniform("totalTime", valuekind.Float))
	register(OpSystemSeed, uniform("systemSeed", valuekind.Uint32))

	register(OpMainCameraFOV, named("mainCameraFOV", scene(valuekind.Float, cameraValue(func(c Camera) float32 {
		return c.FOV * math32.Pi / 180
	}))))
	register(OpMainCameraNearPlane, named("mainCameraNearPlane", scene(valuekind.Float, cameraValue(func(c Camera) float32 {
		return c.NearPlane
	}))))
	register(OpMainCameraFarPlane, named("mainCameraFarPlane", scene(valuekind.Float, cameraValue(func(c Camera) float32 {
		return c.FarPlane
	}))))
	register(OpMainCameraAspectRatio, named("mainCameraAspectRatio", scene(valuekind.Float, cameraValue(func(c Camera) float32 {
		if c.PixelHeight == 0 {
			return 1
		}
		return c.PixelWidth / c.PixelHeight
	}))))
	register(OpMainCameraPixelDimensions, named("mainCameraPixelDimensions", scene(valuekind.Float2, func(ctx *EvalContext) (values.Value, error) {
		c := ctx.camera()
		return values.Float2(c.PixelWidth, c.PixelHeight), nil
	})))
	register(OpLocalToWorld, named("localToWorld", scene(valuekind.Matrix4x4, func(ctx *EvalContext) (values.Value, error) {
		return values.Matrix(ctx.localToWorld()), nil
	})))
	register(OpWorldToLocal, named("worldToLocal", scene(valuekind.Matrix4x4, func(ctx *EvalContext) (values.Value, error) {
		m := ctx.localToWorld()
		inv, err := m.Inverse()
		if err != nil {
			return values.Value{}, errors.Wrap(err, "cannot compute the world to local transform")
		}
		return values.Matrix(*inv), nil
	})))

	register(OpAttributeRead, &definition{
		name:  "attributeRead",
		flags: FlagPerElement,
		code: func(n *Node, _ []string) string {
			if Location(n.operands[0]) == Source {
				return "source_" + n.attr.Name
			}
			return n.attr.Name
		},
		attributes: func(n *Node) iter.Seq[attrib.Info] {
			mode := attrib.Read
			if Location(n.operands[0]) == Source {
				mode = attrib.ReadSource
			}
			return accesses(n.attr, mode)
		},
	})
}
