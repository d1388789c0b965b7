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

package values

import (
	"fmt"
	"reflect"

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/pkg/errors"
)

type (
	// TextureRef references a texture asset owned by the host.
	TextureRef struct {
		Name                 string
		Width, Height, Depth uint32
	}

	// Texture2DRef references a 2D texture.
	Texture2DRef TextureRef
	// Texture2DArrayRef references an array of 2D textures.
	Texture2DArrayRef TextureRef
	// Texture3DRef references a volume texture.
	Texture3DRef TextureRef
	// TextureCubeRef references a cube map.
	TextureCubeRef TextureRef
	// TextureCubeArrayRef references an array of cube maps.
	TextureCubeArrayRef TextureRef

	// Mesh references a mesh asset owned by the host.
	Mesh struct {
		Name        string
		VertexCount uint32
	}

	// Spline is a list of knots.
	Spline struct {
		Knots  []math32.Vector3
		Closed bool
	}

	// TypeMismatchError is returned when a value is accessed
	// with a host type not matching its kind.
	TypeMismatchError struct {
		Want, Got valuekind.Kind
		Host      reflect.Type
	}
)

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: cannot read a %s value as %v (kind %s)", e.Got, e.Host, e.Want)
}

// Equal returns true if both splines have the same knots.
func (s Spline) Equal(o Spline) bool {
	if s.Closed != o.Closed || len(s.Knots) != len(o.Knots) {
		return false
	}
	for i, k := range s.Knots {
		if k != o.Knots[i] {
			return false
		}
	}
	return true
}

var hostKinds = map[reflect.Type]valuekind.Kind{
	reflect.TypeFor[bool]():                valuekind.Boolean,
	reflect.TypeFor[int32]():               valuekind.Int32,
	reflect.TypeFor[uint32]():              valuekind.Uint32,
	reflect.TypeFor[float32]():             valuekind.Float,
	reflect.TypeFor[math32.Vector2]():      valuekind.Float2,
	reflect.TypeFor[math32.Vector3]():      valuekind.Float3,
	reflect.TypeFor[math32.Vector4]():      valuekind.Float4,
	reflect.TypeFor[math32.Matrix4]():      valuekind.Matrix4x4,
	reflect.TypeFor[Texture2DRef]():        valuekind.Texture2D,
	reflect.TypeFor[Texture2DArrayRef]():   valuekind.Texture2DArray,
	reflect.TypeFor[Texture3DRef]():        valuekind.Texture3D,
	reflect.TypeFor[TextureCubeRef]():      valuekind.TextureCube,
	reflect.TypeFor[TextureCubeArrayRef](): valuekind.TextureCubeArray,
	reflect.TypeFor[Curve]():               valuekind.Curve,
	reflect.TypeFor[Gradient]():            valuekind.ColorGradient,
	reflect.TypeFor[Mesh]():                valuekind.Mesh,
	reflect.TypeFor[Spline]():              valuekind.Spline,
}

// KindOf returns the kind of values represented by a host type.
// It returns valuekind.None if the type is not supported.
func KindOf(t reflect.Type) valuekind.Kind {
	if t == nil {
		return valuekind.None
	}
	return hostKinds[t]
}

// KindFor returns the kind of values represented by T.
func KindFor[T any]() valuekind.Kind {
	return KindOf(reflect.TypeFor[T]())
}

// KindOfAffinity returns the kind of t or, if t is not supported,
// the kind of the first supported type in the affinity list.
// The returned type is the host type matching the kind.
func KindOfAffinity(t reflect.Type, affinity ...reflect.Type) (valuekind.Kind, reflect.Type) {
	if k := KindOf(t); k != valuekind.None {
		return k, t
	}
	for _, candidate := range affinity {
		if k := KindOf(candidate); k != valuekind.None {
			return k, candidate
		}
	}
	return valuekind.None, nil
}

// New returns a value given a host value.
func New(host any) (Value, error) {
	switch v := host.(type) {
	case bool:
		return Bool(v), nil
	case int32:
		return Int(v), nil
	case uint32:
		return Uint(v), nil
	case float32:
		return Float(v), nil
	case math32.Vector2:
		return Float2(v.X, v.Y), nil
	case math32.Vector3:
		return Float3(v.X, v.Y, v.Z), nil
	case math32.Vector4:
		return Float4(v.X, v.Y, v.Z, v.W), nil
	case math32.Matrix4:
		return Matrix(v), nil
	case Texture2DRef:
		return Texture(valuekind.Texture2D, TextureRef(v))
	case Texture2DArrayRef:
		return Texture(valuekind.Texture2DArray, TextureRef(v))
	case Texture3DRef:
		return Texture(valuekind.Texture3D, TextureRef(v))
	case TextureCubeRef:
		return Texture(valuekind.TextureCube, TextureRef(v))
	case TextureCubeArrayRef:
		return Texture(valuekind.TextureCubeArray, TextureRef(v))
	case Curve:
		return CurveValue(v), nil
	case Gradient:
		return GradientValue(v), nil
	case Mesh:
		return MeshValue(v), nil
	case Spline:
		return SplineValue(v), nil
	}
	return Value{}, errors.Errorf("host type %T not supported", host)
}

// FromHost returns a value given a host value. If the host type is not
// supported, the value is converted to the first kind of the affinity list
// it can be converted to.
func FromHost(host any, affinity ...valuekind.Kind) (Value, error) {
	if KindOf(reflect.TypeOf(host)) != valuekind.None {
		return New(host)
	}
	for _, kind := range affinity {
		if val, ok := convert(host, kind); ok {
			return val, nil
		}
	}
	return Value{}, errors.Errorf("host type %T not supported and cannot be converted to any of %v", host, affinity)
}

func convert(host any, kind valuekind.Kind) (Value, bool) {
	rv := reflect.ValueOf(host)
	switch kind {
	case valuekind.Float:
		if rv.CanFloat() {
			return Float(float32(rv.Float())), true
		}
		if rv.CanInt() {
			return Float(float32(rv.Int())), true
		}
		if rv.CanUint() {
			return Float(float32(rv.Uint())), true
		}
	case valuekind.Int32:
		if rv.CanInt() {
			return Int(int32(rv.Int())), true
		}
	case valuekind.Uint32:
		if rv.CanUint() {
			return Uint(uint32(rv.Uint())), true
		}
	case valuekind.Boolean:
		if rv.Kind() == reflect.Bool {
			return Bool(rv.Bool()), true
		}
	}
	return Value{}, false
}

// Content returns the value as its host type.
func (v Value) Content() any {
	switch v.kind {
	case valuekind.Boolean:
		return v.b
	case valuekind.Int32:
		return v.i[0]
	case valuekind.Uint32:
		return v.u[0]
	case valuekind.Float:
		return v.f[0]
	case valuekind.Float2:
		return math32.Vec2(v.f[0], v.f[1])
	case valuekind.Float3:
		return math32.Vec3(v.f[0], v.f[1], v.f[2])
	case valuekind.Float4:
		return math32.Vec4(v.f[0], v.f[1], v.f[2], v.f[3])
	case valuekind.Matrix4x4:
		var m math32.Matrix4
		copy(m[:], v.f)
		return m
	case valuekind.Texture2D:
		return Texture2DRef(v.obj.(TextureRef))
	case valuekind.Texture2DArray:
		return Texture2DArrayRef(v.obj.(TextureRef))
	case valuekind.Texture3D:
		return Texture3DRef(v.obj.(TextureRef))
	case valuekind.TextureCube:
		return TextureCubeRef(v.obj.(TextureRef))
	case valuekind.TextureCubeArray:
		return TextureCubeArrayRef(v.obj.(TextureRef))
	}
	return v.obj
}

// TextureRef returns the texture referenced by a texture value.
func (v Value) TextureRef() (TextureRef, bool) {
	ref, ok := v.obj.(TextureRef)
	return ref, ok
}

// As returns the content of a value as the host type T.
// It fails with a *TypeMismatchError if T does not match the kind of the value.
func As[T any](v Value) (T, error) {
	var zero T
	want := KindFor[T]()
	if want == valuekind.None || want != v.kind {
		return zero, errors.WithStack(&TypeMismatchError{
			Want: want,
			Got:  v.kind,
			Host: reflect.TypeFor[T](),
		})
	}
	return v.Content().(T), nil
}
