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

// Package values implements the values held by expression leaves.
//
// A Value is a tagged variant: the kind selects which of the storage
// fields is meaningful. Values are immutable once created.
package values

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/pkg/errors"
)

// Value is a typed immutable value.
type Value struct {
	kind valuekind.Kind
	f    []float32
	i    []int32
	u    []uint32
	b    bool
	obj  any
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: valuekind.Boolean, b: b}
}

// Int returns a signed integer value.
func Int(i int32) Value {
	return Value{kind: valuekind.Int32, i: []int32{i}}
}

// Uint returns an unsigned integer value.
func Uint(u uint32) Value {
	return Value{kind: valuekind.Uint32, u: []uint32{u}}
}

// Float returns a float value.
func Float(f float32) Value {
	return Value{kind: valuekind.Float, f: []float32{f}}
}

// Float2 returns a 2 components float vector.
func Float2(x, y float32) Value {
	return Value{kind: valuekind.Float2, f: []float32{x, y}}
}

// Float3 returns a 3 components float vector.
func Float3(x, y, z float32) Value {
	return Value{kind: valuekind.Float3, f: []float32{x, y, z}}
}

// Float4 returns a 4 components float vector.
func Float4(x, y, z, w float32) Value {
	return Value{kind: valuekind.Float4, f: []float32{x, y, z, w}}
}

// Matrix returns a 4x4 matrix value.
// Components are stored in column-major order.
func Matrix(m math32.Matrix4) Value {
	return Value{kind: valuekind.Matrix4x4, f: slices.Clone(m[:])}
}

// FromFloats returns a value of the float family or a matrix given its components.
func FromFloats(kind valuekind.Kind, vals []float32) (Value, error) {
	if !kind.IsFloatFamily() && kind != valuekind.Matrix4x4 {
		return Value{}, errors.Errorf("cannot build a %s value from floats", kind)
	}
	if len(vals) != kind.ComponentCount() {
		return Value{}, errors.Errorf("%s value requires %d components but got %d", kind, kind.ComponentCount(), len(vals))
	}
	return Value{kind: kind, f: slices.Clone(vals)}, nil
}

// FromInts returns an Int32 value given a single component slice.
func FromInts(vals []int32) (Value, error) {
	if len(vals) != 1 {
		return Value{}, errors.Errorf("int value requires 1 component but got %d", len(vals))
	}
	return Int(vals[0]), nil
}

// FromUints returns an Uint32 value given a single component slice.
func FromUints(vals []uint32) (Value, error) {
	if len(vals) != 1 {
		return Value{}, errors.Errorf("uint value requires 1 component but got %d", len(vals))
	}
	return Uint(vals[0]), nil
}

// Texture returns a texture value of the given texture kind.
func Texture(kind valuekind.Kind, ref TextureRef) (Value, error) {
	if !kind.IsTexture() {
		return Value{}, errors.Errorf("%s is not a texture kind", kind)
	}
	return Value{kind: kind, obj: ref}, nil
}

// CurveValue returns a value holding a curve.
func CurveValue(c Curve) Value {
	c.Keys = slices.Clone(c.Keys)
	return Value{kind: valuekind.Curve, obj: c}
}

// GradientValue returns a value holding a color gradient.
func GradientValue(g Gradient) Value {
	g.ColorKeys = slices.Clone(g.ColorKeys)
	g.AlphaKeys = slices.Clone(g.AlphaKeys)
	return Value{kind: valuekind.ColorGradient, obj: g}
}

// MeshValue returns a value holding a mesh reference.
func MeshValue(m Mesh) Value {
	return Value{kind: valuekind.Mesh, obj: m}
}

// SplineValue returns a value holding a spline.
func SplineValue(s Spline) Value {
	s.Knots = slices.Clone(s.Knots)
	return Value{kind: valuekind.Spline, obj: s}
}

// Zero returns the zero value of a numeric kind.
// It panics if the kind is not numeric.
func Zero(kind valuekind.Kind) Value {
	switch {
	case kind == valuekind.Boolean:
		return Bool(false)
	case kind == valuekind.Int32:
		return Int(0)
	case kind == valuekind.Uint32:
		return Uint(0)
	case kind.IsFloatFamily() || kind == valuekind.Matrix4x4:
		return Value{kind: kind, f: make([]float32, kind.ComponentCount())}
	}
	panic("no zero value for kind " + kind.String())
}

// One returns the multiplicative identity of a numeric kind.
// The identity of a matrix is the identity matrix.
// It panics if the kind is not numeric.
func One(kind valuekind.Kind) Value {
	switch {
	case kind == valuekind.Boolean:
		return Bool(true)
	case kind == valuekind.Int32:
		return Int(1)
	case kind == valuekind.Uint32:
		return Uint(1)
	case kind == valuekind.Matrix4x4:
		return Matrix(*math32.Identity4())
	case kind.IsFloatFamily():
		f := make([]float32, kind.ComponentCount())
		for i := range f {
			f[i] = 1
		}
		return Value{kind: kind, f: f}
	}
	panic("no one value for kind " + kind.String())
}

// Kind of the value.
func (v Value) Kind() valuekind.Kind {
	return v.kind
}

// Shape of the value. Returns nil if the value is not numeric.
func (v Value) Shape() *shape.Shape {
	return v.kind.Shape()
}

// IsValid returns true if the value has been initialized.
func (v Value) IsValid() bool {
	return v.kind != valuekind.None
}

// Floats returns a copy of the components of a float or matrix value.
func (v Value) Floats() []float32 {
	return slices.Clone(v.f)
}

// Ints returns a copy of the components of a signed integer value.
func (v Value) Ints() []int32 {
	return slices.Clone(v.i)
}

// Uints returns a copy of the components of an unsigned integer value.
func (v Value) Uints() []uint32 {
	return slices.Clone(v.u)
}

// BoolValue returns the content of a boolean value.
// It returns false for any other kind.
func (v Value) BoolValue() bool {
	return v.kind == valuekind.Boolean && v.b
}

// Component returns the scalar component i of a numeric value.
func (v Value) Component(i int) (Value, error) {
	if !v.kind.IsNumeric() || v.kind == valuekind.Matrix4x4 {
		return Value{}, errors.Errorf("cannot extract a component from a %s value", v.kind)
	}
	if i < 0 || i >= v.kind.ComponentCount() {
		return Value{}, errors.Errorf("component %d out of range for a %s value", i, v.kind)
	}
	switch v.kind {
	case valuekind.Boolean, valuekind.Int32, valuekind.Uint32:
		return v, nil
	}
	return Float(v.f[i]), nil
}

func floatEqual(a, b float32) bool {
	return a == b || (a != a && b != b)
}

// Equal returns true if both values have the same kind and content.
// NaN components are equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valuekind.None:
		return true
	case valuekind.Boolean:
		return v.b == o.b
	case valuekind.Int32:
		return slices.Equal(v.i, o.i)
	case valuekind.Uint32:
		return slices.Equal(v.u, o.u)
	case valuekind.Float, valuekind.Float2, valuekind.Float3, valuekind.Float4, valuekind.Matrix4x4:
		return slices.EqualFunc(v.f, o.f, floatEqual)
	case valuekind.Curve:
		return v.obj.(Curve).Equal(o.obj.(Curve))
	case valuekind.ColorGradient:
		return v.obj.(Gradient).Equal(o.obj.(Gradient))
	case valuekind.Spline:
		return v.obj.(Spline).Equal(o.obj.(Spline))
	}
	return v.obj == o.obj
}

func normalizeBits(f float32) uint32 {
	switch {
	case f == 0:
		return 0
	case f != f:
		return 0x7fc00000
	}
	return math.Float32bits(f)
}

type hasher struct {
	buf [4]byte
	h   interface {
		Write([]byte) (int, error)
		Sum64() uint64
	}
}

func (h *hasher) u32(x uint32) {
	binary.LittleEndian.PutUint32(h.buf[:], x)
	h.h.Write(h.buf[:])
}

func (h *hasher) f32(x float32) {
	h.u32(normalizeBits(x))
}

func (h *hasher) str(s string) {
	h.u32(uint32(len(s)))
	h.h.Write([]byte(s))
}

// Hash returns a hash of the value consistent with Equal.
func (v Value) Hash() uint64 {
	h := &hasher{h: fnv.New64a()}
	h.u32(uint32(v.kind))
	switch v.kind {
	case valuekind.Boolean:
		if v.b {
			h.u32(1)
		} else {
			h.u32(0)
		}
	case valuekind.Int32:
		for _, x := range v.i {
			h.u32(uint32(x))
		}
	case valuekind.Uint32:
		for _, x := range v.u {
			h.u32(x)
		}
	case valuekind.Float, valuekind.Float2, valuekind.Float3, valuekind.Float4, valuekind.Matrix4x4:
		for _, x := range v.f {
			h.f32(x)
		}
	case valuekind.Texture2D, valuekind.Texture2DArray, valuekind.Texture3D, valuekind.TextureCube, valuekind.TextureCubeArray:
		ref := v.obj.(TextureRef)
		h.str(ref.Name)
		h.u32(ref.Width)
		h.u32(ref.Height)
		h.u32(ref.Depth)
	case valuekind.Curve:
		c := v.obj.(Curve)
		h.u32(uint32(c.PreWrap)<<8 | uint32(c.PostWrap))
		for _, k := range c.Keys {
			h.f32(k.Time)
			h.f32(k.Value)
			h.f32(k.InTangent)
			h.f32(k.OutTangent)
		}
	case valuekind.ColorGradient:
		g := v.obj.(Gradient)
		h.u32(uint32(g.Mode))
		for _, k := range g.ColorKeys {
			h.f32(k.Time)
			h.f32(k.Color.X)
			h.f32(k.Color.Y)
			h.f32(k.Color.Z)
		}
		for _, k := range g.AlphaKeys {
			h.f32(k.Time)
			h.f32(k.Alpha)
		}
	case valuekind.Mesh:
		m := v.obj.(Mesh)
		h.str(m.Name)
		h.u32(m.VertexCount)
	case valuekind.Spline:
		s := v.obj.(Spline)
		if s.Closed {
			h.u32(1)
		}
		for _, k := range s.Knots {
			h.f32(k.X)
			h.f32(k.Y)
			h.f32(k.Z)
		}
	}
	return h.h.Sum64()
}
