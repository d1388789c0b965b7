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

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/interp/kernels"
)

func format(f string) codeFunc {
	return func(_ *Node, p []string) string {
		args := make([]any, len(p))
		for i, s := range p {
			args[i] = s
		}
		return fmt.Sprintf(f, args...)
	}
}

func init() {
	const (
		float3 = valuekind.Float3
		matrix = valuekind.Matrix4x4
	)
	register(OpTRSToMatrix, &definition{
		name:  "trsToMatrix",
		check: signature(matrix, float3, float3, float3),
		evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			return kernels.TRSValue(args[0], args[1], args[2])
		},
		code: call("GetTRSMatrix"),
	})
	register(OpInverseMatrix, &definition{
		name:     "inverseMatrix",
		flags:    FlagInvalidOnGPU,
		check:    signature(matrix, matrix),
		evaluate: apply1(kernels.Inverse),
	})
	register(OpTransposeMatrix, &definition{
		name:     "transposeMatrix",
		check:    signature(matrix, matrix),
		evaluate: apply1(kernels.Transpose),
		code:     call("transpose"),
	})
	register(OpExtractPositionFromMatrix, &definition{
		name:     "extractPositionFromMatrix",
		check:    signature(float3, matrix),
		evaluate: apply1(kernels.Position),
		code:     format("%s._m03_m13_m23"),
	})
	register(OpExtractAnglesFromMatrix, &definition{
		name:     "extractAnglesFromMatrix",
		flags:    FlagInvalidOnGPU,
		check:    signature(float3, matrix),
		evaluate: apply1(kernels.Angles),
	})
	register(OpExtractScaleFromMatrix, &definition{
		name:     "extractScaleFromMatrix",
		flags:    FlagInvalidOnGPU,
		check:    signature(float3, matrix),
		evaluate: apply1(kernels.Scale),
	})
	register(OpTransformMatrix, &definition{
		name:     "transformMatrix",
		check:    signature(matrix, matrix, matrix),
		evaluate: apply2(kernels.TransformMatrix),
		code:     call("mul"),
	})
	register(OpTransformPosition, &definition{
		name:     "transformPosition",
		check:    signature(float3, matrix, float3),
		evaluate: apply2(kernels.TransformPosition),
		code:     format("mul(%s, float4(%s, 1.0f)).xyz"),
	})
	register(OpTransformVector, &definition{
		name:     "transformVector",
		check:    signature(float3, matrix, float3),
		evaluate: apply2(kernels.TransformVector),
		code:     format("mul((float3x3)%s, %s)"),
	})
	register(OpTransformDirection, &definition{
		name:     "transformDirection",
		check:    signature(float3, matrix, float3),
		evaluate: apply2(kernels.TransformDirection),
		code:     format("normalize(mul((float3x3)%s, %s))"),
	})
}
