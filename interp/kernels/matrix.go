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

package kernels

import (
	"cogentcore.org/core/math32"
	m32 "github.com/chewxy/math32"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
)

// Matrices are stored in column-major order and multiply column vectors:
// the element at row r and column c is m[c*4+r].

const degToRad = math32.Pi / 180

func at(m *math32.Matrix4, row, col int) float32 {
	return m[col*4+row]
}

func toMatrix(v values.Value) (math32.Matrix4, error) {
	return values.As[math32.Matrix4](v)
}

func toVector3(v values.Value) (math32.Vector3, error) {
	return values.As[math32.Vector3](v)
}

func fromVector3(v math32.Vector3) values.Value {
	return values.Float3(v.X, v.Y, v.Z)
}

// MulMatrices returns a*b.
func MulMatrices(a, b *math32.Matrix4) math32.Matrix4 {
	var r math32.Matrix4
	for c := range 4 {
		for row := range 4 {
			var s float32
			for k := range 4 {
				s += at(a, row, k) * at(b, k, c)
			}
			r[c*4+row] = s
		}
	}
	return r
}

// rotation returns the rotation matrix of Euler angles (in degrees)
// applied around Z, then X, then Y.
func rotation(angles math32.Vector3) math32.Matrix4 {
	sx, cx := math32.Sincos(angles.X * degToRad)
	sy, cy := math32.Sincos(angles.Y * degToRad)
	sz, cz := math32.Sincos(angles.Z * degToRad)
	return math32.Matrix4{
		cy*cz + sy*sx*sz, cx * sz, -sy*cz + cy*sx*sz, 0,
		-cy*sz + sy*sx*cz, cx * cz, sy*sz + cy*sx*cz, 0,
		sy * cx, -sx, cy * cx, 0,
		0, 0, 0, 1,
	}
}

// TRS returns the matrix translating, rotating (Euler angles in degrees),
// and scaling a point: T * R * S.
func TRS(position, angles, scale math32.Vector3) math32.Matrix4 {
	m := rotation(angles)
	for row := range 3 {
		m[0*4+row] *= scale.X
		m[1*4+row] *= scale.Y
		m[2*4+row] *= scale.Z
	}
	m[12], m[13], m[14] = position.X, position.Y, position.Z
	return m
}

// TRSValue evaluates TRS on values.
func TRSValue(position, angles, scale values.Value) (values.Value, error) {
	p, err := toVector3(position)
	if err != nil {
		return values.Value{}, err
	}
	a, err := toVector3(angles)
	if err != nil {
		return values.Value{}, err
	}
	s, err := toVector3(scale)
	if err != nil {
		return values.Value{}, err
	}
	return values.Matrix(TRS(p, a, s)), nil
}

// Inverse returns the inverse of a matrix value.
func Inverse(x values.Value) (values.Value, error) {
	m, err := toMatrix(x)
	if err != nil {
		return values.Value{}, err
	}
	inv, err := m.Inverse()
	if err != nil {
		return values.Value{}, errors.Wrapf(err, "cannot inverse matrix %s", x)
	}
	return values.Matrix(*inv), nil
}

// Transpose returns the transpose of a matrix value.
func Transpose(x values.Value) (values.Value, error) {
	m, err := toMatrix(x)
	if err != nil {
		return values.Value{}, err
	}
	var t math32.Matrix4
	for r := range 4 {
		for c := range 4 {
			t[r*4+c] = m[c*4+r]
		}
	}
	return values.Matrix(t), nil
}

// Position returns the translation of a matrix value.
func Position(x values.Value) (values.Value, error) {
	m, err := toMatrix(x)
	if err != nil {
		return values.Value{}, err
	}
	return values.Float3(m[12], m[13], m[14]), nil
}

func scale(m *math32.Matrix4) math32.Vector3 {
	s := math32.Vec3(
		m32.Sqrt(m[0]*m[0]+m[1]*m[1]+m[2]*m[2]),
		m32.Sqrt(m[4]*m[4]+m[5]*m[5]+m[6]*m[6]),
		m32.Sqrt(m[8]*m[8]+m[9]*m[9]+m[10]*m[10]),
	)
	det := m[0]*(m[5]*m[10]-m[9]*m[6]) - m[4]*(m[1]*m[10]-m[9]*m[2]) + m[8]*(m[1]*m[6]-m[5]*m[2])
	if det < 0 {
		s.X = -s.X
	}
	return s
}

// Scale returns the scale of a matrix value.
// A negative determinant flips the sign of the X scale.
func Scale(x values.Value) (values.Value, error) {
	m, err := toMatrix(x)
	if err != nil {
		return values.Value{}, err
	}
	return fromVector3(scale(&m)), nil
}

// Angles returns the Euler angles (in degrees) of the rotation of a matrix value.
func Angles(x values.Value) (values.Value, error) {
	m, err := toMatrix(x)
	if err != nil {
		return values.Value{}, err
	}
	s := scale(&m)
	r := func(row, col int) float32 {
		d := [3]float32{s.X, s.Y, s.Z}[col]
		if d == 0 {
			return 0
		}
		return at(&m, row, col) / d
	}
	const radToDeg = 1 / degToRad
	sx := m32.Max(-1, m32.Min(1, -r(1, 2)))
	ax := m32.Asin(sx)
	var ay, az float32
	if m32.Abs(sx) < 0.9999 {
		ay = m32.Atan2(r(0, 2), r(2, 2))
		az = m32.Atan2(r(1, 0), r(1, 1))
	} else {
		ay = m32.Atan2(-r(2, 0), r(0, 0))
	}
	return values.Float3(ax*radToDeg, ay*radToDeg, az*radToDeg), nil
}

// TransformMatrix returns a*b for two matrix values.
func TransformMatrix(a, b values.Value) (values.Value, error) {
	ma, err := toMatrix(a)
	if err != nil {
		return values.Value{}, err
	}
	mb, err := toMatrix(b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Matrix(MulMatrices(&ma, &mb)), nil
}

func transform3(m, v values.Value, w float32) (math32.Vector3, error) {
	mat, err := toMatrix(m)
	if err != nil {
		return math32.Vector3{}, err
	}
	vec, err := toVector3(v)
	if err != nil {
		return math32.Vector3{}, err
	}
	r := math32.Vector4FromVector3(vec, w).MulMatrix4(&mat)
	return math32.Vec3(r.X, r.Y, r.Z), nil
}

// TransformPosition transforms a point by a matrix.
func TransformPosition(m, p values.Value) (values.Value, error) {
	r, err := transform3(m, p, 1)
	if err != nil {
		return values.Value{}, err
	}
	return fromVector3(r), nil
}

// TransformVector transforms a vector by a matrix, ignoring the translation.
func TransformVector(m, v values.Value) (values.Value, error) {
	r, err := transform3(m, v, 0)
	if err != nil {
		return values.Value{}, err
	}
	return fromVector3(r), nil
}

// TransformDirection transforms a vector by a matrix, ignoring the translation,
// and normalizes the result. A zero vector stays zero.
func TransformDirection(m, v values.Value) (values.Value, error) {
	r, err := transform3(m, v, 0)
	if err != nil {
		return values.Value{}, err
	}
	l := m32.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z)
	if l > 0 {
		r = math32.Vec3(r.X/l, r.Y/l, r.Z/l)
	}
	return fromVector3(r), nil
}

// Identity returns the identity matrix value.
func Identity() values.Value {
	return values.One(valuekind.Matrix4x4)
}
