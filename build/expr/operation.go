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

import "fmt"

// Operation identifies the behaviour of a node.
type Operation uint8

// Operations of the expression graph.
const (
	OpValue Operation = iota

	// Binary numeric operations.
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpMin
	OpMax
	OpPow
	OpATan2

	// Unary numeric operations.
	OpAbs
	OpSign
	OpFloor
	OpFrac
	OpSqrt
	OpSin
	OpCos
	OpTan
	OpASin
	OpACos
	OpATan
	OpLog2
	OpExp2
	OpSaturate
	OpNegate

	// Bitwise operations on unsigned integers.
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpBitwiseLeftShift
	OpBitwiseRightShift
	OpBitwiseComplement

	// Logical operations on booleans.
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot

	// Casts.
	OpUintToFloat
	OpIntToFloat
	OpFloatToUint
	OpFloatToInt
	OpIntToUint
	OpUintToInt

	// Vectors and control flow.
	OpCombine
	OpExtractComponent
	OpCondition
	OpBranch

	// Matrices and transforms.
	OpTRSToMatrix
	OpInverseMatrix
	OpTransposeMatrix
	OpExtractPositionFromMatrix
	OpExtractAnglesFromMatrix
	OpExtractScaleFromMatrix
	OpTransformMatrix
	OpTransformPosition
	OpTransformVector
	OpTransformDirection

	// Noise and random.
	OpValueNoise
	OpPerlinNoise
	OpCellularNoise
	OpCurlNoise
	OpRandom
	OpFixedRandom

	// Curves, gradients and textures.
	OpSampleCurve
	OpSampleGradient
	OpBakeCurve
	OpBakeGradient
	OpSampleTexture2D
	OpTextureWidth
	OpTextureHeight

	// Built-in values.
	OpDeltaTime
	OpTotalTime
	OpSystemSeed
	OpMainCameraFOV
	OpMainCameraNearPlane
	OpMainCameraFarPlane
	OpMainCameraAspectRatio
	OpMainCameraPixelDimensions
	OpLocalToWorld
	OpWorldToLocal

	// Per-element attributes.
	OpAttributeRead

	numOperations
)

func (op Operation) String() string {
	if op < numOperations && definitions[op] != nil {
		return definitions[op].name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// OperationFromString returns an operation given its name.
func OperationFromString(name string) (Operation, bool) {
	for op, def := range definitions {
		if def != nil && def.name == name {
			return Operation(op), true
		}
	}
	return 0, false
}

// Operations returns all the operations in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, numOperations)
	for op := range numOperations {
		if definitions[op] != nil {
			ops = append(ops, op)
		}
	}
	return ops
}
