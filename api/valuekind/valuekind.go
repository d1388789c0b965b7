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

// Package valuekind defines the closed set of value kinds
// produced by expression nodes.
package valuekind

import (
	"fmt"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// Kind of a value.
type Kind uint8

// Kinds of values supported by expressions.
const (
	None Kind = iota
	Boolean
	Int32
	Uint32
	Float
	Float2
	Float3
	Float4
	Matrix4x4
	Texture2D
	Texture2DArray
	Texture3D
	TextureCube
	TextureCubeArray
	Curve
	ColorGradient
	Mesh
	Spline

	// Max value for a Kind constant.
	Max
)

var names = [Max]string{
	None:             "none",
	Boolean:          "bool",
	Int32:            "int",
	Uint32:           "uint",
	Float:            "float",
	Float2:           "float2",
	Float3:           "float3",
	Float4:           "float4",
	Matrix4x4:        "matrix4x4",
	Texture2D:        "texture2d",
	Texture2DArray:   "texture2darray",
	Texture3D:        "texture3d",
	TextureCube:      "texturecube",
	TextureCubeArray: "texturecubearray",
	Curve:            "curve",
	ColorGradient:    "gradient",
	Mesh:             "mesh",
	Spline:           "spline",
}

// String returns a string representation of a kind.
func (k Kind) String() string {
	if k >= Max {
		return "invalid"
	}
	return names[k]
}

// KindFromString returns a kind given its name.
// It returns None if the name is unknown.
func KindFromString(s string) Kind {
	for k, name := range names {
		if name == s {
			return Kind(k)
		}
	}
	return None
}

// IsNumeric returns true if the kind holds numbers, that is
// booleans, integers, floats, float vectors, or matrices.
func (k Kind) IsNumeric() bool {
	return k >= Boolean && k <= Matrix4x4
}

// IsFloatFamily returns true for float scalars and float vectors.
func (k Kind) IsFloatFamily() bool {
	return k >= Float && k <= Float4
}

// IsInteger returns true for signed and unsigned integers.
func (k Kind) IsInteger() bool {
	return k == Int32 || k == Uint32
}

// IsTexture returns true for all texture kinds.
func (k Kind) IsTexture() bool {
	return k >= Texture2D && k <= TextureCubeArray
}

// IsGPURepresentable returns true if a value of the kind can be
// passed directly to a shader.
// Curves and gradients need to be baked first.
func (k Kind) IsGPURepresentable() bool {
	return k.IsNumeric() || k.IsTexture()
}

// ComponentCount returns the number of scalar components of a numeric kind.
// It panics if the kind is not numeric.
func (k Kind) ComponentCount() int {
	switch k {
	case Boolean, Int32, Uint32, Float:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4:
		return 4
	case Matrix4x4:
		return 16
	}
	panic(fmt.Sprintf("component count requested for non-numeric kind %s", k))
}

// CodeToken returns the shader type of a kind.
// Curves and gradients are encoded by their baked representation.
// It panics if the kind cannot be represented in shader code.
func (k Kind) CodeToken() string {
	switch k {
	case Boolean:
		return "bool"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Float:
		return "float"
	case Float2:
		return "float2"
	case Float3:
		return "float3"
	case Float4:
		return "float4"
	case Matrix4x4:
		return "float4x4"
	case Texture2D:
		return "Texture2D"
	case Texture2DArray:
		return "Texture2DArray"
	case Texture3D:
		return "Texture3D"
	case TextureCube:
		return "TextureCube"
	case TextureCubeArray:
		return "TextureCubeArray"
	case Curve:
		return "float4"
	case ColorGradient:
		return "float"
	}
	panic(fmt.Sprintf("no code token for kind %s", k))
}

// FloatVector returns the float kind with n components (n in [1, 4]).
// It returns None for any other n.
func FloatVector(n int) Kind {
	if n < 1 || n > 4 {
		return None
	}
	return Float + Kind(n-1)
}

// DType returns the data type of the scalar components of a kind.
// It returns dtype.Invalid if the kind is not numeric.
func (k Kind) DType() dtype.DataType {
	switch k {
	case Boolean:
		return dtype.Bool
	case Int32:
		return dtype.Int32
	case Uint32:
		return dtype.Uint32
	case Float, Float2, Float3, Float4, Matrix4x4:
		return dtype.Float32
	}
	return dtype.Invalid
}

// Shape returns the shape of a numeric kind.
// Scalars are atomic, vectors have one axis, and matrices two.
// It returns nil if the kind is not numeric.
func (k Kind) Shape() *shape.Shape {
	switch {
	case !k.IsNumeric():
		return nil
	case k == Matrix4x4:
		return &shape.Shape{DType: k.DType(), AxisLengths: []int{4, 4}}
	case k.ComponentCount() == 1:
		return &shape.Shape{DType: k.DType()}
	}
	return &shape.Shape{DType: k.DType(), AxisLengths: []int{k.ComponentCount()}}
}
